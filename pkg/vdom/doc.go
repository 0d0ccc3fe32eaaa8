// Package vdom builds virtual trees: the immutable per-cycle description of
// the UI that the reconciler turns into live nodes.
//
// # Core Types
//
// VNode is either a text node or an element with a tag, Props and ordered
// children. Props holds attributes, the style map, the editable value,
// boolean attributes and event handlers ("on" + event name). The reserved
// "key" prop is list identity only and is never applied to a live node.
//
// # Element API
//
// Elements are created using variadic factory functions:
//
//	Ul(ClassName("todo"),
//	    Range(items, func(it Item, _ int) *VNode {
//	        return Li(Key(it.ID), Checked(it.Done), Text(it.Title), OnClick(toggle(it.ID)))
//	    }),
//	)
//
// Factories drop nil children, flatten []*VNode, turn strings and numbers
// into text nodes and expand Components in place, so the reconciler only
// ever sees elements and text.
package vdom
