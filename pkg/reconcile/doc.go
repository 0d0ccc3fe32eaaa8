// Package reconcile renders virtual trees into a live tree and keeps the two
// in sync with the fewest mutations it can find.
//
// A Renderer remembers, per container, the shadow tree it last produced.
// Each Render call patches the new virtual tree against that shadow tree:
//
//   - nodes that keep their shape (text stays text, an element keeps its
//     tag) are updated in place and keep their live node, so focus, cursor
//     and scroll state survive;
//   - props are diffed key by key through an ordered rule table (class and
//     for aliases, style maps, editable values, booleans, plain attributes);
//   - child lists are diffed with a two-pointer scan that recognizes
//     appends, prepends, removals and moves, falling back to a key lookup.
//
// Keyless siblings of the same tag are matched by position. Reordering them
// patches every node in place instead of moving it; give list items a key
// when their identity matters.
//
// Event handlers ("on*" props) are never applied as attributes. They are
// handed to an events.Bridge, which owns dispatch.
//
// A Renderer is not safe for concurrent use. Starting a render while another
// one on the same Renderer is in progress fails with ErrReentrantRender and
// mutates nothing.
package reconcile
