package reconcile

import (
	"github.com/vango-dev/patchwork/pkg/live"
	"github.com/vango-dev/patchwork/pkg/vdom"
)

// ShadowNode is a read-only copy of one shadow record.
type ShadowNode struct {
	Text     bool
	Tag      string
	Key      string
	Value    string // text content for text nodes
	Props    vdom.Props
	Children []*ShadowNode
	Live     live.Node
}

// Shadow returns a copy of the shadow tree stored for container, or nil if
// nothing is rendered there.
func (r *Renderer) Shadow(container live.Node) *ShadowNode {
	t := r.memo[container]
	if t == nil || t.root == noShadow {
		return nil
	}
	return t.snapshot(t.root)
}

func (t *tree) snapshot(id shadowID) *ShadowNode {
	s := t.at(id)
	out := &ShadowNode{
		Text:  s.kind == shadowText,
		Tag:   s.tag,
		Key:   s.key,
		Value: s.text,
		Props: s.props,
		Live:  s.live,
	}
	if len(s.children) > 0 {
		out.Children = make([]*ShadowNode, len(s.children))
		for i, child := range s.children {
			out.Children[i] = t.snapshot(child)
		}
	}
	return out
}
