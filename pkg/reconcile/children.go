package reconcile

import (
	"github.com/vango-dev/patchwork/pkg/live"
	"github.com/vango-dev/patchwork/pkg/vdom"
)

// patchChildren reconciles the children of parent and returns the new
// shadow children in the order of next. The live children of parent end up
// in the same order.
//
// The scan keeps a start and end cursor on each list and compares the four
// ends before falling back to a key lookup, so appends, prepends, removals
// and single moves stay linear.
func (c *cycle) patchChildren(parent live.Node, next []*vdom.VNode, old []shadowID) ([]shadowID, error) {
	news := sanitize(next)
	if len(news) == 0 && len(old) == 0 {
		return nil, nil
	}

	// olds is a scratch copy; slots matched out of order are set to noShadow.
	olds := append([]shadowID(nil), old...)
	result := make([]shadowID, len(news))

	oldStart, oldEnd := 0, len(olds)-1
	newStart, newEnd := 0, len(news)-1
	var keyed map[string]int

	for oldStart <= oldEnd && newStart <= newEnd {
		switch {
		case olds[oldStart] == noShadow:
			oldStart++

		case olds[oldEnd] == noShadow:
			oldEnd--

		case c.sameNode(news[newStart], olds[oldStart]):
			if err := c.update(news[newStart], olds[oldStart]); err != nil {
				return nil, err
			}
			result[newStart] = olds[oldStart]
			oldStart++
			newStart++

		case c.sameNode(news[newEnd], olds[oldEnd]):
			if err := c.update(news[newEnd], olds[oldEnd]); err != nil {
				return nil, err
			}
			result[newEnd] = olds[oldEnd]
			oldEnd--
			newEnd--

		case c.sameNode(news[newEnd], olds[oldStart]):
			// Moved toward the tail.
			id := olds[oldStart]
			if err := c.update(news[newEnd], id); err != nil {
				return nil, err
			}
			if err := c.move(parent, id, c.t.live(olds[oldEnd]).NextSibling()); err != nil {
				return nil, err
			}
			result[newEnd] = id
			oldStart++
			newEnd--

		case c.sameNode(news[newStart], olds[oldEnd]):
			// Moved toward the head.
			id := olds[oldEnd]
			if err := c.update(news[newStart], id); err != nil {
				return nil, err
			}
			if err := c.move(parent, id, c.t.live(olds[oldStart])); err != nil {
				return nil, err
			}
			result[newStart] = id
			oldEnd--
			newStart++

		default:
			if keyed == nil {
				keyed = c.keyIndex(olds, oldStart, oldEnd)
			}
			v := news[newStart]
			ref := c.t.live(olds[oldStart])

			idx, found := -1, false
			if key := v.Identity(); key != "" && !v.IsText() {
				idx, found = keyed[key]
			}
			// Slots outside the cursors were consumed after the index was built.
			if found && (idx < oldStart || idx > oldEnd || olds[idx] == noShadow) {
				found = false
			}

			if found && c.t.at(olds[idx]).tag == v.Tag {
				id := olds[idx]
				if err := c.update(v, id); err != nil {
					return nil, err
				}
				if err := c.move(parent, id, ref); err != nil {
					return nil, err
				}
				olds[idx] = noShadow
				result[newStart] = id
			} else {
				// New key, no key, or a key reused by a different tag.
				id, err := c.mount(parent, v, ref)
				if err != nil {
					return nil, err
				}
				result[newStart] = id
			}
			newStart++
		}
	}

	if newStart <= newEnd {
		var ref live.Node
		if newEnd+1 < len(result) {
			ref = c.t.live(result[newEnd+1])
		}
		for i := newStart; i <= newEnd; i++ {
			id, err := c.mount(parent, news[i], ref)
			if err != nil {
				return nil, err
			}
			result[i] = id
		}
	}

	for i := oldStart; i <= oldEnd; i++ {
		if olds[i] == noShadow {
			continue
		}
		if err := c.unmount(parent, olds[i]); err != nil {
			return nil, err
		}
	}

	if len(result) == 0 {
		return nil, nil
	}
	return result, nil
}

// sameNode reports whether v may be patched into id while walking a list:
// both text, or the same tag and the same key.
func (c *cycle) sameNode(v *vdom.VNode, id shadowID) bool {
	s := c.t.at(id)
	if v.IsText() {
		return s.kind == shadowText
	}
	return s.kind == shadowElement && s.tag == v.Tag && s.key == v.Identity()
}

// keyIndex maps the keys of olds[start..end] to their positions. With
// duplicate keys the last occurrence wins.
func (c *cycle) keyIndex(olds []shadowID, start, end int) map[string]int {
	keyed := make(map[string]int, end-start+1)
	for i := start; i <= end; i++ {
		if olds[i] == noShadow {
			continue
		}
		if key := c.t.at(olds[i]).key; key != "" {
			keyed[key] = i
		}
	}
	return keyed
}

// mount creates v and inserts it before ref, or appends when ref is nil.
func (c *cycle) mount(parent live.Node, v *vdom.VNode, ref live.Node) (shadowID, error) {
	id, err := c.create(v)
	if err != nil {
		return noShadow, err
	}
	if err := parent.InsertBefore(c.t.live(id), ref); err != nil {
		return noShadow, liveError("insert", err)
	}
	return id, nil
}

func (c *cycle) move(parent live.Node, id shadowID, ref live.Node) error {
	if err := parent.InsertBefore(c.t.live(id), ref); err != nil {
		return liveError("move", err)
	}
	c.stats.Moved++
	return nil
}

// sanitize drops nil and malformed children.
func sanitize(children []*vdom.VNode) []*vdom.VNode {
	clean := true
	for _, child := range children {
		if !child.Valid() {
			clean = false
			break
		}
	}
	if clean {
		return children
	}
	out := make([]*vdom.VNode, 0, len(children))
	for _, child := range children {
		if child.Valid() {
			out = append(out, child)
		}
	}
	return out
}
