package patchwork

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/vango-dev/patchwork/pkg/events"
	"github.com/vango-dev/patchwork/pkg/live"
	"github.com/vango-dev/patchwork/pkg/live/memdom"
	"github.com/vango-dev/patchwork/pkg/navigation"
	"github.com/vango-dev/patchwork/pkg/reconcile"
	"github.com/vango-dev/patchwork/pkg/store"
	"github.com/vango-dev/patchwork/pkg/vdom"
)

func quietConfig() Config {
	return Config{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func counterApp(t *testing.T, cfg Config) (*App[int], *memdom.Document, *store.Store[int]) {
	t.Helper()
	doc := memdom.NewDocument()
	counter := store.New(0)
	app := New(doc, counter, cfg)

	err := app.Mount(doc.Body(), func(n int) *vdom.VNode {
		return vdom.Div(
			vdom.Button(vdom.OnClick(func() { counter.Update(func(n int) int { return n + 1 }) }), "+"),
			vdom.Span(vdom.Number(n)),
		)
	})
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	return app, doc, counter
}

func button(doc *memdom.Document) *memdom.Node {
	return doc.Body().Children()[0].Children()[0]
}

func countText(doc *memdom.Document) string {
	return doc.Body().Children()[0].Children()[1].Children()[0].Text()
}

func TestMountRendersAndUpdates(t *testing.T) {
	app, doc, counter := counterApp(t, quietConfig())

	want := `<div><button>+</button><span>0</span></div>`
	if got := memdom.InnerHTML(doc.Body()); got != want {
		t.Errorf("InnerHTML = %q, want %q", got, want)
	}

	span := doc.Body().Children()[0].Children()[1]
	doc.Log().Reset()

	counter.Set(5)
	if got := countText(doc); got != "5" {
		t.Errorf("count = %q, want 5", got)
	}
	if doc.Body().Children()[0].Children()[1] != span {
		t.Error("span replaced, want it patched in place")
	}
	if got := doc.Log().Count(memdom.OpSetText); got != 1 {
		t.Errorf("setText count = %d, want 1", got)
	}

	if app.Container() != live.Node(doc.Body()) {
		t.Error("Container() is not the mounted body")
	}
	if app.Err() != nil {
		t.Errorf("Err() = %v, want nil", app.Err())
	}
}

func TestMountTwiceAndNil(t *testing.T) {
	app, doc, _ := counterApp(t, quietConfig())

	if err := app.Mount(doc.Body(), func(int) *vdom.VNode { return nil }); !errors.Is(err, ErrMounted) {
		t.Errorf("second Mount() error = %v, want ErrMounted", err)
	}

	other := New(memdom.NewDocument(), store.New(0), quietConfig())
	if err := other.Mount(nil, func(int) *vdom.VNode { return nil }); !errors.Is(err, reconcile.ErrNilContainer) {
		t.Errorf("Mount(nil) error = %v, want ErrNilContainer", err)
	}
}

func TestHandleEvent(t *testing.T) {
	app, doc, counter := counterApp(t, quietConfig())

	n, err := app.HandleEvent(button(doc), "click", "")
	if err != nil {
		t.Fatalf("HandleEvent() error = %v", err)
	}
	if n != 1 {
		t.Errorf("handlers run = %d, want 1", n)
	}
	if counter.Get() != 1 || countText(doc) != "1" {
		t.Errorf("count = %d (text %q), want 1", counter.Get(), countText(doc))
	}

	// The span has no handler; nothing runs but the event still bubbles.
	span := doc.Body().Children()[0].Children()[1]
	if n, _ := app.HandleEvent(span, "click", ""); n != 0 {
		t.Errorf("handlers run on span = %d, want 0", n)
	}
}

func TestUnmount(t *testing.T) {
	app, doc, counter := counterApp(t, quietConfig())

	if err := app.Unmount(); err != nil {
		t.Fatalf("Unmount() error = %v", err)
	}
	if got := len(doc.Body().Children()); got != 0 {
		t.Errorf("body has %d children after Unmount, want 0", got)
	}
	if counter.Subscribers() != 0 {
		t.Errorf("Subscribers() = %d, want 0", counter.Subscribers())
	}
	if app.Delegator().Len() != 0 {
		t.Errorf("Delegator().Len() = %d, want 0", app.Delegator().Len())
	}

	doc.Log().Reset()
	counter.Set(3)
	if doc.Log().Len() != 0 {
		t.Errorf("mutations after Unmount = %v", doc.Log().Entries())
	}

	if err := app.Unmount(); !errors.Is(err, ErrNotMounted) {
		t.Errorf("second Unmount() error = %v, want ErrNotMounted", err)
	}
	if err := app.Refresh(); !errors.Is(err, ErrNotMounted) {
		t.Errorf("Refresh() error = %v, want ErrNotMounted", err)
	}
}

func TestOnRender(t *testing.T) {
	app, _, counter := counterApp(t, quietConfig())

	var got []reconcile.Stats
	cancel := app.OnRender(func(st reconcile.Stats, err error) {
		if err != nil {
			t.Errorf("hook error = %v", err)
		}
		got = append(got, st)
	})

	counter.Set(1)
	counter.Set(1) // unchanged, no render
	if err := app.Refresh(); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	cancel()
	counter.Set(2)

	if len(got) != 2 {
		t.Fatalf("hook calls = %d, want 2", len(got))
	}
	if got[0].TextUpdates != 1 {
		t.Errorf("first TextUpdates = %d, want 1", got[0].TextUpdates)
	}
	if got[1].Mutations() != 0 {
		t.Errorf("refresh mutations = %d, want 0", got[1].Mutations())
	}
}

func TestRenderErrorReported(t *testing.T) {
	app, doc, counter := counterApp(t, quietConfig())

	var hookErr error
	app.OnRender(func(_ reconcile.Stats, err error) { hookErr = err })

	boom := errors.New("boom")
	doc.SetFault(func(op memdom.Op, _ *memdom.Node) error {
		if op == memdom.OpSetText {
			return boom
		}
		return nil
	})

	counter.Set(7)
	if !errors.Is(app.Err(), boom) {
		t.Errorf("Err() = %v, want boom", app.Err())
	}
	if !errors.Is(hookErr, boom) {
		t.Errorf("hook error = %v, want boom", hookErr)
	}

	doc.SetFault(nil)
	if err := app.Refresh(); err != nil {
		t.Fatalf("Refresh() after fault error = %v", err)
	}
	if got := countText(doc); got != "7" {
		t.Errorf("count after recovery = %q, want 7", got)
	}
}

func TestMountFailureStaysUnmounted(t *testing.T) {
	doc := memdom.NewDocument()
	doc.SetFault(func(memdom.Op, *memdom.Node) error { return errors.New("no") })
	st := store.New("x")
	app := New(doc, st, quietConfig())

	if err := app.Mount(doc.Body(), func(s string) *vdom.VNode { return vdom.P(s) }); err == nil {
		t.Fatal("Mount() error = nil, want fault")
	}
	if app.Container() != nil {
		t.Error("Container() set after failed Mount")
	}
	if st.Subscribers() != 0 {
		t.Errorf("Subscribers() = %d, want 0", st.Subscribers())
	}

	doc.SetFault(nil)
	if err := app.Mount(doc.Body(), func(s string) *vdom.VNode { return vdom.P(s) }); err != nil {
		t.Fatalf("Mount() retry error = %v", err)
	}
	if got := memdom.InnerHTML(doc.Body()); got != "<p>x</p>" {
		t.Errorf("InnerHTML = %q, want <p>x</p>", got)
	}
}

func TestStateChangeRightAfterFirstRenderIsRendered(t *testing.T) {
	doc := memdom.NewDocument()
	st := store.New(0)
	app := New(doc, st, quietConfig())

	changed := false
	app.OnRender(func(reconcile.Stats, error) {
		if !changed {
			changed = true
			st.Set(7)
		}
	})

	if err := app.Mount(doc.Body(), func(n int) *vdom.VNode { return vdom.P(vdom.Number(n)) }); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	if got := memdom.InnerHTML(doc.Body()); got != "<p>7</p>" {
		t.Errorf("InnerHTML = %q, want <p>7</p>", got)
	}
	if st.Subscribers() != 1 {
		t.Errorf("Subscribers() = %d, want 1", st.Subscribers())
	}
}

func TestNavigate(t *testing.T) {
	doc := memdom.NewDocument()
	win := doc.Window()
	win.SetHash("/home")

	st := store.New("")
	app := New(doc, st, quietConfig())
	if err := app.Mount(doc.Body(), func(path string) *vdom.VNode { return vdom.H1(path) }); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}

	l := app.Navigate(win, func(_ string, r navigation.Route) string { return r.Path })
	if got := memdom.InnerHTML(doc.Body()); got != "<h1>/home</h1>" {
		t.Errorf("after Navigate InnerHTML = %q", got)
	}

	win.SetHash("/about")
	if got := memdom.InnerHTML(doc.Body()); got != "<h1>/about</h1>" {
		t.Errorf("after hash change InnerHTML = %q", got)
	}
	if l.Current().Path != "/about" {
		t.Errorf("Current().Path = %q, want /about", l.Current().Path)
	}

	if err := app.Unmount(); err != nil {
		t.Fatal(err)
	}
	if l.Running() {
		t.Error("listener still running after Unmount")
	}
}

type nopBridge struct{ binds int }

func (b *nopBridge) BindOrUpdate(live.Node, map[string]any, map[string]any) { b.binds++ }
func (b *nopBridge) Unbind(live.Node)                                       {}

func TestCustomBridgeAndMiddleware(t *testing.T) {
	bridge := &nopBridge{}
	var cycles int
	count := func(next reconcile.RenderFunc) reconcile.RenderFunc {
		return func(ctx context.Context, tree *vdom.VNode, container live.Node) (reconcile.Stats, error) {
			cycles++
			return next(ctx, tree, container)
		}
	}

	cfg := quietConfig()
	cfg.Bridge = bridge
	cfg.Middleware = []reconcile.Middleware{count}
	app, doc, counter := counterApp(t, cfg)

	if app.Delegator() != nil {
		t.Error("Delegator() != nil with a custom bridge")
	}
	if _, err := app.HandleEvent(button(doc), "click", ""); !errors.Is(err, ErrNoDelegator) {
		t.Errorf("HandleEvent() error = %v, want ErrNoDelegator", err)
	}
	if bridge.binds != 1 {
		t.Errorf("binds = %d, want 1", bridge.binds)
	}

	counter.Set(2)
	if cycles != 2 {
		t.Errorf("middleware cycles = %d, want 2", cycles)
	}
}

// updatingBridge changes state from inside a render cycle.
type updatingBridge struct {
	update func()
}

func (b *updatingBridge) BindOrUpdate(live.Node, map[string]any, map[string]any) {
	if b.update != nil {
		b.update()
	}
}

func (b *updatingBridge) Unbind(live.Node) {}

func TestStateChangeDuringRenderFailsFast(t *testing.T) {
	doc := memdom.NewDocument()
	st := store.New(0)
	bridge := &updatingBridge{}
	cfg := quietConfig()
	cfg.Bridge = bridge
	app := New(doc, st, cfg)

	var errs []error
	app.OnRender(func(_ reconcile.Stats, err error) { errs = append(errs, err) })

	err := app.Mount(doc.Body(), func(n int) *vdom.VNode {
		return vdom.P(vdom.OnClick(func() {}), vdom.Number(n))
	})
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}

	bridge.update = func() {
		bridge.update = nil
		st.Set(2)
	}
	st.Set(1)

	var reentrant bool
	for _, err := range errs {
		if errors.Is(err, reconcile.ErrReentrantRender) {
			reentrant = true
		}
	}
	if !reentrant {
		t.Errorf("hook errors = %v, want ErrReentrantRender", errs)
	}
	if got := memdom.InnerHTML(doc.Body()); got != "<p>1</p>" {
		t.Errorf("InnerHTML = %q, want <p>1</p>", got)
	}
}

var _ events.Bridge = (*nopBridge)(nil)
