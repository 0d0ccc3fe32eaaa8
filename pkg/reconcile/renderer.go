package reconcile

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/vango-dev/patchwork/pkg/events"
	"github.com/vango-dev/patchwork/pkg/live"
	"github.com/vango-dev/patchwork/pkg/vdom"
)

// RenderFunc renders tree into container. It is the unit middleware wraps.
type RenderFunc func(ctx context.Context, tree *vdom.VNode, container live.Node) (Stats, error)

// Middleware wraps a RenderFunc. The first middleware given to New is the
// outermost.
type Middleware func(next RenderFunc) RenderFunc

// Renderer owns the shadow trees of every container it has rendered into.
type Renderer struct {
	doc        live.Document
	bridge     events.Bridge
	logger     *slog.Logger
	middleware []Middleware

	memo      map[live.Node]*tree
	run       RenderFunc
	rendering atomic.Bool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithBridge sets the event binding bridge. The default discards handlers.
func WithBridge(b events.Bridge) Option {
	return func(r *Renderer) {
		if b != nil {
			r.bridge = b
		}
	}
}

// WithLogger sets the logger for per-cycle debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMiddleware appends render middleware.
func WithMiddleware(mw ...Middleware) Option {
	return func(r *Renderer) {
		r.middleware = append(r.middleware, mw...)
	}
}

// New creates a Renderer that creates live nodes through doc.
func New(doc live.Document, opts ...Option) *Renderer {
	r := &Renderer{
		doc:    doc,
		bridge: events.Nop,
		logger: slog.Default(),
		memo:   make(map[live.Node]*tree),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.run = r.render
	for i := len(r.middleware) - 1; i >= 0; i-- {
		r.run = r.middleware[i](r.run)
	}
	return r
}

// Render patches container so it displays tree. A nil tree clears whatever
// the renderer previously put there.
func (r *Renderer) Render(tree *vdom.VNode, container live.Node) error {
	_, err := r.RenderContext(context.Background(), tree, container)
	return err
}

// RenderContext is Render through the middleware chain, returning what the
// cycle did.
//
// If the live tree fails mid-cycle, the error is returned and the
// container's tree is discarded: bindings are released, the renderer's
// top-level nodes are detached on a best-effort basis, and the next render
// mounts from scratch.
func (r *Renderer) RenderContext(ctx context.Context, tree *vdom.VNode, container live.Node) (Stats, error) {
	if container == nil {
		return Stats{}, ErrNilContainer
	}
	if !r.rendering.CompareAndSwap(false, true) {
		return Stats{}, ErrReentrantRender
	}
	defer r.rendering.Store(false)

	return r.run(ctx, tree, container)
}

// Rendering reports whether a render cycle is in progress.
func (r *Renderer) Rendering() bool {
	return r.rendering.Load()
}

func (r *Renderer) render(_ context.Context, v *vdom.VNode, container live.Node) (Stats, error) {
	t := r.memo[container]
	if t == nil {
		t = newTree()
	}

	c := &cycle{r: r, t: t}
	root, err := c.patch(container, v, t.root)
	if err != nil {
		r.abandon(container, t, c)
		r.logger.Debug("render failed", "container", container, "error", err)
		return c.stats, err
	}

	if root == noShadow {
		delete(r.memo, container)
	} else {
		t.root = root
		r.memo[container] = t
	}

	r.logger.Debug("render",
		"container", container,
		"mounted", c.stats.Mounted,
		"unmounted", c.stats.Unmounted,
		"moved", c.stats.Moved,
		"patched", c.stats.Patched,
		"mutations", c.stats.Mutations())
	return c.stats, nil
}

// abandon discards the container's tree after a failed cycle.
func (r *Renderer) abandon(container live.Node, t *tree, c *cycle) {
	var roots []live.Node
	if t.root != noShadow {
		roots = append(roots, t.live(t.root))
	}
	roots = append(roots, c.created...)

	for _, n := range roots {
		r.unbindLive(n)
	}
	for _, n := range roots {
		if n.Parent() == container {
			_ = container.RemoveChild(n)
		}
	}
	delete(r.memo, container)
}

func (r *Renderer) unbindLive(n live.Node) {
	if n.IsText() {
		return
	}
	r.bridge.Unbind(n)
	for _, child := range n.ChildNodes() {
		r.unbindLive(child)
	}
}

// Forget drops the shadow tree stored for container and releases its event
// bindings without touching the live tree. Use it when the container itself
// is being discarded.
func (r *Renderer) Forget(container live.Node) {
	if r.rendering.Load() {
		return
	}
	t := r.memo[container]
	if t == nil {
		return
	}
	if t.root != noShadow {
		t.walk(t.root, func(s *shadow) {
			if s.kind == shadowElement {
				r.bridge.Unbind(s.live)
			}
		})
	}
	delete(r.memo, container)
}

// Containers returns the number of containers with a stored tree.
func (r *Renderer) Containers() int {
	return len(r.memo)
}

// Records returns the number of live shadow records stored for container.
func (r *Renderer) Records(container live.Node) int {
	if t := r.memo[container]; t != nil {
		return t.used
	}
	return 0
}
