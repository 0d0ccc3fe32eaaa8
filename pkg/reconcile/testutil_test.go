package reconcile

import (
	"context"
	"testing"

	"github.com/vango-dev/patchwork/pkg/live"
	"github.com/vango-dev/patchwork/pkg/live/memdom"
	"github.com/vango-dev/patchwork/pkg/vdom"
)

// recordingBridge counts bind and unbind calls per live node.
type recordingBridge struct {
	binds   map[live.Node]int
	unbinds map[live.Node]int
	onBind  func(node live.Node)
}

func newRecordingBridge() *recordingBridge {
	return &recordingBridge{
		binds:   make(map[live.Node]int),
		unbinds: make(map[live.Node]int),
	}
}

func (b *recordingBridge) BindOrUpdate(node live.Node, next, prev map[string]any) {
	b.binds[node]++
	if b.onBind != nil {
		b.onBind(node)
	}
}

func (b *recordingBridge) Unbind(node live.Node) {
	b.unbinds[node]++
}

func setup(t *testing.T, opts ...Option) (*Renderer, *memdom.Document, *memdom.Node) {
	t.Helper()
	doc := memdom.NewDocument()
	return New(doc, opts...), doc, doc.Body()
}

func mustRender(t *testing.T, r *Renderer, tree *vdom.VNode, container live.Node) Stats {
	t.Helper()
	st, err := r.RenderContext(context.Background(), tree, container)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return st
}

func keyedList(keys ...string) *vdom.VNode {
	items := make([]*vdom.VNode, len(keys))
	for i, k := range keys {
		items[i] = vdom.Li(vdom.Key(k), k)
	}
	return vdom.Ul(items)
}

// itemsByText maps each li's text to its live node.
func itemsByText(t *testing.T, ul *memdom.Node) map[string]*memdom.Node {
	t.Helper()
	out := make(map[string]*memdom.Node)
	for _, li := range ul.Children() {
		kids := li.Children()
		if len(kids) != 1 || !kids[0].IsText() {
			t.Fatalf("li %v has children %v", li, kids)
		}
		out[kids[0].Text()] = li
	}
	return out
}

func childTexts(ul *memdom.Node) []string {
	var out []string
	for _, li := range ul.Children() {
		for _, c := range li.Children() {
			out = append(out, c.Text())
		}
	}
	return out
}

func first(n *memdom.Node) *memdom.Node {
	kids := n.Children()
	if len(kids) == 0 {
		return nil
	}
	return kids[0]
}
