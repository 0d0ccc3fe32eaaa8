package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	perrors "github.com/vango-dev/patchwork/internal/errors"
	"github.com/vango-dev/patchwork/pkg/events"
	"github.com/vango-dev/patchwork/pkg/live"
	"github.com/vango-dev/patchwork/pkg/live/memdom"
	"github.com/vango-dev/patchwork/pkg/vdom"
)

func TestMount(t *testing.T) {
	r, _, body := setup(t)

	st := mustRender(t, r, vdom.Div(
		vdom.ClassName("box"),
		vdom.Span("hi"),
		vdom.Input(vdom.Type("text"), vdom.Disabled()),
	), body)

	want := `<div class="box"><span>hi</span><input disabled type="text"></div>`
	if got := memdom.InnerHTML(body); got != want {
		t.Errorf("InnerHTML = %q, want %q", got, want)
	}
	if st.Mounted != 4 {
		t.Errorf("Mounted = %d, want 4", st.Mounted)
	}
	if r.Records(body) != 4 {
		t.Errorf("Records = %d, want 4", r.Records(body))
	}
}

func TestRenderTwiceIsIdempotent(t *testing.T) {
	r, doc, body := setup(t, WithBridge(events.NewDelegator()))
	view := func() *vdom.VNode {
		return vdom.Div(
			vdom.ClassName("app"),
			vdom.Styles(map[string]string{"color": "red", "margin": "0"}),
			vdom.Label(vdom.HtmlFor("q"), "Query"),
			vdom.Input(vdom.ID("q"), vdom.Value("abc"), vdom.Checked(), vdom.OnInput(func(string) {})),
			vdom.Button(vdom.OnClick(func() {}), vdom.DisabledIf(false), "Go"),
			keyedList("a", "b", "c"),
			vdom.P(vdom.TabIndex(3), 42),
		)
	}

	mustRender(t, r, view(), body)
	doc.Log().Reset()

	st := mustRender(t, r, view(), body)
	if st.Mutations() != 0 {
		t.Errorf("second render Mutations = %d, want 0 (%+v)", st.Mutations(), st)
	}
	if n := doc.Log().Len(); n != 0 {
		t.Errorf("second render logged %d mutations: %v", n, doc.Log().Entries())
	}
}

func TestKeyedMovePreservesIdentityAndFocus(t *testing.T) {
	r, doc, body := setup(t)
	view := func(keys ...string) *vdom.VNode {
		items := make([]*vdom.VNode, len(keys))
		for i, k := range keys {
			items[i] = vdom.Input(vdom.Key(k), vdom.Name(k))
		}
		return vdom.Form(items)
	}

	mustRender(t, r, view("a", "b", "c"), body)
	form := first(body)
	before := form.Children()
	doc.Focus(before[2])

	st := mustRender(t, r, view("c", "a", "b"), body)

	after := form.Children()
	if after[0] != before[2] || after[1] != before[0] || after[2] != before[1] {
		t.Errorf("live nodes were not reused: before %v, after %v", before, after)
	}
	if doc.ActiveElement() != before[2] {
		t.Errorf("ActiveElement = %v, want %v", doc.ActiveElement(), before[2])
	}
	if st.Mounted != 0 || st.Unmounted != 0 {
		t.Errorf("Mounted = %d, Unmounted = %d, want 0, 0", st.Mounted, st.Unmounted)
	}
	if st.Moved != 1 {
		t.Errorf("Moved = %d, want 1", st.Moved)
	}
}

func TestShapeChangeReplaces(t *testing.T) {
	bridge := newRecordingBridge()
	r, _, body := setup(t, WithBridge(bridge))

	mustRender(t, r, vdom.Div(vdom.OnClick(func() {}), "x"), body)
	div := first(body)

	st := mustRender(t, r, vdom.Span("x"), body)

	span := first(body)
	if span.Tag() != "span" {
		t.Fatalf("first child = %v, want span", span)
	}
	if div.ParentNode() != nil {
		t.Errorf("old div still attached to %v", div.ParentNode())
	}
	if got := bridge.unbinds[div]; got != 1 {
		t.Errorf("div unbound %d times, want 1", got)
	}
	if st.Replaced != 1 {
		t.Errorf("Replaced = %d, want 1", st.Replaced)
	}
	if len(body.Children()) != 1 {
		t.Errorf("body has %d children, want 1", len(body.Children()))
	}
}

func TestTextToElementReplaces(t *testing.T) {
	r, _, body := setup(t)
	mustRender(t, r, vdom.Text("a"), body)
	mustRender(t, r, vdom.Strong("a"), body)
	if got, want := memdom.InnerHTML(body), "<strong>a</strong>"; got != want {
		t.Errorf("InnerHTML = %q, want %q", got, want)
	}
	mustRender(t, r, vdom.Text("c"), body)
	if got, want := memdom.InnerHTML(body), "c"; got != want {
		t.Errorf("InnerHTML = %q, want %q", got, want)
	}
}

func TestTextUpdateKeepsNode(t *testing.T) {
	r, doc, body := setup(t)
	mustRender(t, r, vdom.P("a"), body)
	text := first(first(body))
	doc.Log().Reset()

	st := mustRender(t, r, vdom.P("b"), body)

	if got := first(first(body)); got != text {
		t.Errorf("text node replaced: %v != %v", got, text)
	}
	if text.Text() != "b" {
		t.Errorf("Text = %q, want %q", text.Text(), "b")
	}
	if st.TextUpdates != 1 || st.Mutations() != 1 {
		t.Errorf("stats = %+v, want one text update", st)
	}
	want := []memdom.Mutation{{Op: memdom.OpSetText, Node: text.ID(), Value: "b"}}
	if diff := cmp.Diff(want, doc.Log().Entries()); diff != "" {
		t.Errorf("log (-want +got):\n%s", diff)
	}
}

func TestKeyedListDiff(t *testing.T) {
	bridge := newRecordingBridge()
	r, _, body := setup(t, WithBridge(bridge))
	view := func(keys ...string) *vdom.VNode {
		items := make([]*vdom.VNode, len(keys))
		for i, k := range keys {
			items[i] = vdom.Li(vdom.Key(k), vdom.OnClick(func() {}), k)
		}
		return vdom.Ul(items)
	}

	mustRender(t, r, view("A", "B", "C", "D"), body)
	ul := first(body)
	before := itemsByText(t, ul)

	st := mustRender(t, r, view("D", "B", "A"), body)

	if diff := cmp.Diff([]string{"D", "B", "A"}, childTexts(ul)); diff != "" {
		t.Errorf("order (-want +got):\n%s", diff)
	}
	after := itemsByText(t, ul)
	for _, k := range []string{"A", "B", "D"} {
		if after[k] != before[k] {
			t.Errorf("%s was remounted", k)
		}
		if bridge.unbinds[before[k]] != 0 {
			t.Errorf("%s was unbound", k)
		}
	}
	if got := bridge.unbinds[before["C"]]; got != 1 {
		t.Errorf("C unbound %d times, want 1", got)
	}
	if st.Mounted != 0 {
		t.Errorf("Mounted = %d, want 0", st.Mounted)
	}
}

func TestPropRoundTrip(t *testing.T) {
	r, _, body := setup(t)
	mustRender(t, r, vdom.Button(vdom.ClassName("x"), vdom.Disabled()), body)
	btn := first(body)

	mustRender(t, r, vdom.Button(vdom.ClassName("x")), body)

	if v, _ := btn.GetAttribute("class"); v != "x" {
		t.Errorf("class = %q, want %q", v, "x")
	}
	if _, ok := btn.GetAttribute("disabled"); ok {
		t.Error("disabled attribute still present")
	}
	if v, _ := btn.Property("disabled"); v != false {
		t.Errorf("disabled property = %v, want false", v)
	}
}

func TestNilTreeClearsContainer(t *testing.T) {
	bridge := newRecordingBridge()
	r, _, body := setup(t, WithBridge(bridge))
	mustRender(t, r, vdom.Div(vdom.OnClick(func() {}), vdom.Span("x")), body)
	div := first(body)

	mustRender(t, r, nil, body)

	if n := len(body.Children()); n != 0 {
		t.Errorf("body has %d children, want 0", n)
	}
	if r.Shadow(body) != nil {
		t.Error("Shadow is not nil after rendering nil")
	}
	if r.Containers() != 0 {
		t.Errorf("Containers = %d, want 0", r.Containers())
	}
	if bridge.unbinds[div] != 1 {
		t.Errorf("div unbound %d times, want 1", bridge.unbinds[div])
	}

	// Rendering nil into an empty container is a no-op.
	if st := mustRender(t, r, nil, body); st.Mutations() != 0 {
		t.Errorf("Mutations = %d, want 0", st.Mutations())
	}
}

func TestReentrantRenderFails(t *testing.T) {
	bridge := newRecordingBridge()
	r, doc, body := setup(t, WithBridge(bridge))
	other := doc.Element("section")

	var nested error
	bridge.onBind = func(live.Node) {
		nested = r.Render(vdom.Div("nested"), other)
	}

	mustRender(t, r, vdom.Button(vdom.OnClick(func() {}), "go"), body)

	if !errors.Is(nested, ErrReentrantRender) {
		t.Fatalf("nested Render error = %v, want ErrReentrantRender", nested)
	}
	if code := perrors.Code(nested); code != "E101" {
		t.Errorf("Code = %q, want E101", code)
	}
	if len(other.Children()) != 0 {
		t.Error("nested render mutated its container")
	}
	if r.Rendering() {
		t.Error("Rendering() = true after the cycle finished")
	}
	if got, want := memdom.InnerHTML(body), "<button>go</button>"; got != want {
		t.Errorf("InnerHTML = %q, want %q", got, want)
	}
}

func TestNilContainer(t *testing.T) {
	r, _, _ := setup(t)
	if err := r.Render(vdom.Div(), nil); !errors.Is(err, ErrNilContainer) {
		t.Errorf("Render(nil container) error = %v, want ErrNilContainer", err)
	}
}

func TestLiveErrorPropagates(t *testing.T) {
	bridge := newRecordingBridge()
	r, doc, body := setup(t, WithBridge(bridge))
	mustRender(t, r, vdom.Div(vdom.OnClick(func() {}), vdom.Span()), body)
	div := first(body)

	boom := errors.New("boom")
	doc.SetFault(func(op memdom.Op, n *memdom.Node) error {
		if op == memdom.OpSetAttr && n.Tag() == "span" {
			return boom
		}
		return nil
	})

	err := r.Render(vdom.Div(vdom.OnClick(func() {}), vdom.Span(vdom.ClassName("x"))), body)
	if !errors.Is(err, boom) {
		t.Fatalf("Render() error = %v, want boom", err)
	}
	if code := perrors.Code(err); code != "E102" {
		t.Errorf("Code = %q, want E102", code)
	}
	if r.Records(body) != 0 {
		t.Errorf("Records = %d after failure, want 0", r.Records(body))
	}
	if len(body.Children()) != 0 {
		t.Errorf("body still has %d children", len(body.Children()))
	}
	if bridge.unbinds[div] == 0 {
		t.Error("bindings not released after failure")
	}

	doc.SetFault(nil)
	mustRender(t, r, vdom.Div(vdom.Span(vdom.ClassName("x"))), body)
	if got, want := memdom.InnerHTML(body), `<div><span class="x"></span></div>`; got != want {
		t.Errorf("InnerHTML = %q, want %q", got, want)
	}
}

func TestMountFailureReleasesCreatedNodes(t *testing.T) {
	bridge := newRecordingBridge()
	r, doc, body := setup(t, WithBridge(bridge))
	doc.SetFault(func(op memdom.Op, n *memdom.Node) error {
		if op == memdom.OpAppend && n == body {
			return errors.New("full")
		}
		return nil
	})

	if err := r.Render(vdom.Button(vdom.OnClick(func() {})), body); err == nil {
		t.Fatal("Render() error = nil, want failure")
	}
	if r.Containers() != 0 {
		t.Errorf("Containers = %d, want 0", r.Containers())
	}
	bound, unbound := 0, 0
	for _, n := range bridge.binds {
		bound += n
	}
	for _, n := range bridge.unbinds {
		unbound += n
	}
	if bound != 1 || unbound != 1 {
		t.Errorf("binds = %d, unbinds = %d, want 1, 1", bound, unbound)
	}
}

func TestEventsRebindAfterPatch(t *testing.T) {
	d := events.NewDelegator()
	r, _, body := setup(t, WithBridge(d))

	var got []string
	view := func(label string) *vdom.VNode {
		return vdom.Button(vdom.OnClick(func() { got = append(got, label) }), label)
	}

	mustRender(t, r, view("one"), body)
	btn := first(body)
	d.Dispatch(btn, "click", "")

	mustRender(t, r, view("two"), body)
	d.Dispatch(first(btn), "click", "")

	if diff := cmp.Diff([]string{"one", "two"}, got); diff != "" {
		t.Errorf("handlers (-want +got):\n%s", diff)
	}

	mustRender(t, r, vdom.Button("three"), body)
	if d.Bound(btn, "click") {
		t.Error("handler still bound after it was removed from props")
	}
}

func TestForget(t *testing.T) {
	d := events.NewDelegator()
	r, _, body := setup(t, WithBridge(d))
	mustRender(t, r, vdom.Div(vdom.Button(vdom.OnClick(func() {}))), body)

	r.Forget(body)

	if r.Containers() != 0 {
		t.Errorf("Containers = %d, want 0", r.Containers())
	}
	if d.Len() != 0 {
		t.Errorf("delegator still holds %d nodes", d.Len())
	}
	if len(body.Children()) != 1 {
		t.Error("Forget touched the live tree")
	}
}

func TestContainersAreIndependent(t *testing.T) {
	r, doc, body := setup(t)
	aside := doc.Element("aside")

	mustRender(t, r, vdom.P("main"), body)
	mustRender(t, r, vdom.P("side"), aside)
	mustRender(t, r, nil, aside)

	if got, want := memdom.InnerHTML(body), "<p>main</p>"; got != want {
		t.Errorf("InnerHTML(body) = %q, want %q", got, want)
	}
	if r.Containers() != 1 {
		t.Errorf("Containers = %d, want 1", r.Containers())
	}
}

func TestMalformedNodesRenderNothing(t *testing.T) {
	r, _, body := setup(t)
	bad := &vdom.VNode{Kind: vdom.KindElement}

	mustRender(t, r, &vdom.VNode{
		Kind:     vdom.KindElement,
		Tag:      "ul",
		Children: []*vdom.VNode{nil, vdom.Li("a"), bad, vdom.Li("b")},
	}, body)

	if got, want := memdom.InnerHTML(body), "<ul><li>a</li><li>b</li></ul>"; got != want {
		t.Errorf("InnerHTML = %q, want %q", got, want)
	}

	mustRender(t, r, bad, body)
	if len(body.Children()) != 0 {
		t.Error("malformed root did not clear the container")
	}
}

func TestRecordsReleased(t *testing.T) {
	r, _, body := setup(t)
	mustRender(t, r, keyedList("a", "b", "c"), body)
	if got := r.Records(body); got != 7 {
		t.Fatalf("Records = %d, want 7", got)
	}

	st := mustRender(t, r, keyedList("a"), body)
	if got := r.Records(body); got != 3 {
		t.Errorf("Records = %d, want 3", got)
	}
	if st.Unmounted != 4 {
		t.Errorf("Unmounted = %d, want 4", st.Unmounted)
	}

	// Released slots are reused.
	mustRender(t, r, keyedList("a", "x"), body)
	if got := r.Records(body); got != 5 {
		t.Errorf("Records = %d, want 5", got)
	}
}

func TestShadowSnapshot(t *testing.T) {
	r, _, body := setup(t)
	mustRender(t, r, vdom.Ul(vdom.Li(vdom.Key("k"), "x")), body)

	s := r.Shadow(body)
	if s == nil || s.Tag != "ul" || len(s.Children) != 1 {
		t.Fatalf("Shadow = %+v", s)
	}
	li := s.Children[0]
	if li.Key != "k" || li.Live != first(first(body)) {
		t.Errorf("li shadow = %+v", li)
	}
	if txt := li.Children[0]; !txt.Text || txt.Value != "x" {
		t.Errorf("text shadow = %+v", txt)
	}
}

func TestMiddlewareOrder(t *testing.T) {
	var order []string
	trace := func(name string) Middleware {
		return func(next RenderFunc) RenderFunc {
			return func(ctx context.Context, tree *vdom.VNode, c live.Node) (Stats, error) {
				order = append(order, name+">")
				st, err := next(ctx, tree, c)
				order = append(order, "<"+name)
				if st.Mounted != 1 {
					t.Errorf("%s saw Mounted = %d, want 1", name, st.Mounted)
				}
				return st, err
			}
		}
	}
	r, _, body := setup(t, WithMiddleware(trace("a"), trace("b")))

	mustRender(t, r, vdom.Hr(), body)

	if diff := cmp.Diff([]string{"a>", "b>", "<b", "<a"}, order); diff != "" {
		t.Errorf("order (-want +got):\n%s", diff)
	}
}

func TestRootPatchedInPlace(t *testing.T) {
	r, _, body := setup(t)
	mustRender(t, r, vdom.Div(vdom.ID("a"), "x"), body)
	div := first(body)

	st := mustRender(t, r, vdom.Div(vdom.ID("b"), "x"), body)

	if first(body) != div {
		t.Error("root div replaced")
	}
	if v, _ := div.GetAttribute("id"); v != "b" {
		t.Errorf("id = %q, want b", v)
	}
	if st.Patched != 1 || st.AttrWrites != 1 {
		t.Errorf("stats = %+v", st)
	}
}
