package patchwork

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/vango-dev/patchwork/pkg/events"
	"github.com/vango-dev/patchwork/pkg/live"
	"github.com/vango-dev/patchwork/pkg/navigation"
	"github.com/vango-dev/patchwork/pkg/reconcile"
	"github.com/vango-dev/patchwork/pkg/store"
	"github.com/vango-dev/patchwork/pkg/vdom"
)

var (
	// ErrNotMounted is returned when an App has no container.
	ErrNotMounted = errors.New("patchwork: app is not mounted")

	// ErrMounted is returned by Mount on an App that already has a container.
	ErrMounted = errors.New("patchwork: app is already mounted")

	// ErrNoDelegator is returned by HandleEvent when Config.Bridge replaced
	// the built-in delegator.
	ErrNoDelegator = errors.New("patchwork: events are bound through a custom bridge")
)

// View computes the virtual tree for a state.
type View[S any] func(state S) *vdom.VNode

// RenderHook observes every render cycle the App runs.
type RenderHook func(stats reconcile.Stats, err error)

type renderHook struct {
	id int
	fn RenderHook
}

// App renders a store's state into a container.
//
// State changes render synchronously on the goroutine that made them. An
// App is not meant for concurrent updates: a render started while another
// is running fails with reconcile.ErrReentrantRender. Callers that change
// state from several goroutines serialize them, as pkg/server does.
type App[S any] struct {
	store     *store.Store[S]
	renderer  *reconcile.Renderer
	delegator *events.Delegator
	logger    *slog.Logger

	mu          sync.Mutex
	container   live.Node
	view        View[S]
	unsubscribe func()
	listener    *navigation.Listener
	hooks       []renderHook
	nextHook    int
	err         error
}

// New creates an unmounted App rendering into doc.
func New[S any](doc live.Document, st *store.Store[S], cfg Config) *App[S] {
	logger := cfg.logger().With("component", "app")

	a := &App[S]{
		store:  st,
		logger: logger,
	}

	bridge := cfg.Bridge
	if bridge == nil {
		a.delegator = events.NewDelegator(events.WithLogger(logger))
		bridge = a.delegator
	}

	a.renderer = reconcile.New(doc,
		reconcile.WithBridge(bridge),
		reconcile.WithLogger(cfg.logger()),
		reconcile.WithMiddleware(cfg.Middleware...),
	)
	return a
}

// Mount renders view for the current state into container and re-renders
// on every state change until Unmount. If the first render fails the App
// stays unmounted.
func (a *App[S]) Mount(container live.Node, view View[S]) error {
	if container == nil {
		return reconcile.ErrNilContainer
	}

	a.mu.Lock()
	if a.container != nil {
		a.mu.Unlock()
		return ErrMounted
	}
	a.container = container
	a.view = view
	a.mu.Unlock()

	// Changes made during the first render must re-render too.
	unsubscribe := a.store.Subscribe(a.onState)
	a.mu.Lock()
	a.unsubscribe = unsubscribe
	a.mu.Unlock()

	if err := a.render(a.store.Get()); err != nil {
		unsubscribe()
		a.mu.Lock()
		a.container = nil
		a.view = nil
		a.unsubscribe = nil
		a.mu.Unlock()
		a.renderer.Forget(container)
		return err
	}

	a.logger.Debug("mounted", "subscribers", a.store.Subscribers())
	return nil
}

// Unmount stops rendering, stops navigation and empties the container.
func (a *App[S]) Unmount() error {
	a.mu.Lock()
	container := a.container
	unsubscribe := a.unsubscribe
	listener := a.listener
	a.container = nil
	a.view = nil
	a.unsubscribe = nil
	a.listener = nil
	a.mu.Unlock()

	if container == nil {
		return ErrNotMounted
	}
	if unsubscribe != nil {
		unsubscribe()
	}
	if listener != nil {
		listener.Stop()
	}

	err := a.renderer.Render(nil, container)
	a.renderer.Forget(container)
	a.logger.Debug("unmounted", "error", err)
	return err
}

// Refresh re-renders the current state.
func (a *App[S]) Refresh() error {
	return a.render(a.store.Get())
}

// Update changes the state through the store and renders the result.
func (a *App[S]) Update(fn func(S) S) {
	a.store.Update(fn)
}

// Navigate starts a hash listener on src. Every route, including the
// current hash, is folded into the state with route. A previous listener
// is stopped.
func (a *App[S]) Navigate(src navigation.HashSource, route func(S, navigation.Route) S) *navigation.Listener {
	l := navigation.NewListener(func(r navigation.Route) {
		a.logger.Debug("navigate", "path", r.Path)
		a.store.Update(func(s S) S { return route(s, r) })
	})

	a.mu.Lock()
	prev := a.listener
	a.listener = l
	a.mu.Unlock()

	if prev != nil {
		prev.Stop()
	}
	l.Start(src)
	return l
}

// HandleEvent delivers an event at target through the App's delegator and
// returns the number of handlers that ran.
func (a *App[S]) HandleEvent(target live.Node, typ, value string) (int, error) {
	if a.delegator == nil {
		return 0, ErrNoDelegator
	}
	return a.delegator.Dispatch(target, typ, value), nil
}

// OnRender registers fn to run after every render cycle, failed ones
// included.
func (a *App[S]) OnRender(fn RenderHook) (cancel func()) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.nextHook++
	id := a.nextHook
	a.hooks = append(a.hooks, renderHook{id: id, fn: fn})

	return func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		for i, h := range a.hooks {
			if h.id == id {
				a.hooks = append(a.hooks[:i:i], a.hooks[i+1:]...)
				return
			}
		}
	}
}

// Store returns the App's state container.
func (a *App[S]) Store() *store.Store[S] {
	return a.store
}

// Renderer returns the App's renderer.
func (a *App[S]) Renderer() *reconcile.Renderer {
	return a.renderer
}

// Delegator returns the built-in event delegator, or nil when Config.Bridge
// was set.
func (a *App[S]) Delegator() *events.Delegator {
	return a.delegator
}

// Container returns the mounted container, or nil.
func (a *App[S]) Container() live.Node {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.container
}

// Err returns the error of the last render cycle.
func (a *App[S]) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.err
}

func (a *App[S]) onState(state S) {
	// Errors are logged and reported to hooks by render.
	_ = a.render(state)
}

func (a *App[S]) render(state S) error {
	a.mu.Lock()
	container, view := a.container, a.view
	a.mu.Unlock()

	if container == nil {
		return ErrNotMounted
	}

	stats, err := a.renderer.RenderContext(context.Background(), view(state), container)

	a.mu.Lock()
	a.err = err
	hooks := append([]renderHook(nil), a.hooks...)
	a.mu.Unlock()

	if err != nil {
		a.logger.Error("render failed", "error", err)
	}
	for _, h := range hooks {
		h.fn(stats, err)
	}
	return err
}
