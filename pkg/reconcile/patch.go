package reconcile

import (
	"github.com/vango-dev/patchwork/pkg/live"
	"github.com/vango-dev/patchwork/pkg/vdom"
)

// cycle is the state of one render call.
type cycle struct {
	r     *Renderer
	t     *tree
	stats Stats

	// created lists every live node made this cycle, so a failed cycle can
	// release bindings on nodes that never got attached.
	created []live.Node
}

// patch reconciles next against old under parent and returns the shadow
// that now represents next. Malformed virtual nodes count as absent.
func (c *cycle) patch(parent live.Node, next *vdom.VNode, old shadowID) (shadowID, error) {
	if !next.Valid() {
		next = nil
	}

	switch {
	case next == nil && old == noShadow:
		return noShadow, nil

	case next == nil:
		return noShadow, c.unmount(parent, old)

	case old == noShadow:
		id, err := c.create(next)
		if err != nil {
			return noShadow, err
		}
		if err := parent.AppendChild(c.t.live(id)); err != nil {
			return noShadow, liveError("append", err)
		}
		return id, nil
	}

	if !c.sameShape(next, old) {
		return c.replace(parent, next, old)
	}
	return old, c.update(next, old)
}

// sameShape reports whether next can be patched into old in place: both
// text, or both elements with the same tag.
func (c *cycle) sameShape(next *vdom.VNode, old shadowID) bool {
	s := c.t.at(old)
	if next.IsText() {
		return s.kind == shadowText
	}
	return s.kind == shadowElement && s.tag == next.Tag
}

// update patches a node of the same shape in place.
func (c *cycle) update(next *vdom.VNode, id shadowID) error {
	if next.IsText() {
		return c.updateText(next, id)
	}
	return c.updateElement(next, id)
}

func (c *cycle) updateText(next *vdom.VNode, id shadowID) error {
	s := c.t.at(id)
	if s.text == next.Text {
		return nil
	}
	if err := s.live.SetText(next.Text); err != nil {
		return liveError("set text", err)
	}
	s.text = next.Text
	c.stats.TextUpdates++
	return nil
}

func (c *cycle) updateElement(next *vdom.VNode, id shadowID) error {
	s := c.t.at(id)
	node, oldProps, oldEvents, oldChildren := s.live, s.props, s.events, s.children

	if err := applyProps(node, next.Tag, next.Props, oldProps, &c.stats); err != nil {
		return err
	}
	events := next.Props.Events()
	if len(events) > 0 || len(oldEvents) > 0 {
		c.r.bridge.BindOrUpdate(node, events, oldEvents)
	}

	children, err := c.patchChildren(node, next.Children, oldChildren)
	if err != nil {
		return err
	}

	// The arena may have grown while patching children.
	s = c.t.at(id)
	s.props = next.Props
	s.events = events
	s.children = children
	c.stats.Patched++
	return nil
}

// create builds a detached live subtree for v and its shadow records.
func (c *cycle) create(v *vdom.VNode) (shadowID, error) {
	if v.IsText() {
		node, err := c.r.doc.CreateTextNode(v.Text)
		if err != nil {
			return noShadow, liveError("create text node", err)
		}
		c.created = append(c.created, node)
		c.stats.Mounted++
		return c.t.alloc(shadow{kind: shadowText, text: v.Text, live: node}), nil
	}

	node, err := c.r.doc.CreateElement(v.Tag)
	if err != nil {
		return noShadow, liveError("create element "+v.Tag, err)
	}
	c.created = append(c.created, node)
	c.stats.Mounted++

	if err := applyProps(node, v.Tag, v.Props, nil, &c.stats); err != nil {
		return noShadow, err
	}
	events := v.Props.Events()
	if len(events) > 0 {
		c.r.bridge.BindOrUpdate(node, events, nil)
	}

	var children []shadowID
	for _, child := range v.Children {
		if !child.Valid() {
			continue
		}
		id, err := c.create(child)
		if err != nil {
			return noShadow, err
		}
		if err := node.AppendChild(c.t.live(id)); err != nil {
			return noShadow, liveError("append", err)
		}
		children = append(children, id)
	}

	return c.t.alloc(shadow{
		kind:     shadowElement,
		tag:      v.Tag,
		key:      v.Identity(),
		props:    v.Props,
		events:   events,
		children: children,
		live:     node,
	}), nil
}

// replace swaps old for a fresh mount of next at the same position.
func (c *cycle) replace(parent live.Node, next *vdom.VNode, old shadowID) (shadowID, error) {
	c.unbind(old)
	id, err := c.create(next)
	if err != nil {
		return noShadow, err
	}
	if err := parent.ReplaceChild(c.t.live(id), c.t.live(old)); err != nil {
		return noShadow, liveError("replace", err)
	}
	c.stats.Unmounted += c.t.release(old)
	c.stats.Replaced++
	return id, nil
}

// unmount releases bindings under id, detaches its live node from parent
// and frees the records.
func (c *cycle) unmount(parent live.Node, id shadowID) error {
	c.unbind(id)
	if err := parent.RemoveChild(c.t.live(id)); err != nil {
		return liveError("remove", err)
	}
	c.stats.Unmounted += c.t.release(id)
	return nil
}

func (c *cycle) unbind(id shadowID) {
	c.t.walk(id, func(s *shadow) {
		if s.kind == shadowElement {
			c.r.bridge.Unbind(s.live)
		}
	})
}
