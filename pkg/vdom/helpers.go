package vdom

import "fmt"

// Text creates a text node.
func Text(content string) *VNode {
	return &VNode{
		Kind: KindText,
		Text: content,
	}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *VNode {
	return Text(fmt.Sprintf(format, args...))
}

// Number creates a text node from a numeric value.
func Number(n any) *VNode {
	return Text(PropString(n))
}

// Fragment flattens its arguments into a child list without a wrapper
// element. Passing the result to a factory splices the children in place.
func Fragment(children ...any) []*VNode {
	holder := &VNode{Kind: KindElement, Props: make(Props), Children: make([]*VNode, 0, len(children))}
	for _, child := range children {
		switch child.(type) {
		case Attr, []Attr, Props, EventHandler:
			// A fragment has nowhere to put props.
			continue
		}
		holder.add(child)
	}
	return holder.Children
}

// If returns the node if condition is true, nil otherwise.
func If(condition bool, node *VNode) *VNode {
	if condition {
		return node
	}
	return nil
}

// IfElse returns the first node if condition is true, the second otherwise.
func IfElse(condition bool, ifTrue, ifFalse *VNode) *VNode {
	if condition {
		return ifTrue
	}
	return ifFalse
}

// When is like If but with lazy evaluation.
func When(condition bool, fn func() *VNode) *VNode {
	if condition {
		return fn()
	}
	return nil
}

// Range maps a slice to VNodes, dropping nil results.
func Range[T any](items []T, fn func(item T, index int) *VNode) []*VNode {
	result := make([]*VNode, 0, len(items))
	for i, item := range items {
		if node := fn(item, i); node != nil {
			result = append(result, node)
		}
	}
	return result
}

// Repeat creates n nodes using the given function.
func Repeat(n int, fn func(i int) *VNode) []*VNode {
	if n <= 0 {
		return nil
	}
	result := make([]*VNode, 0, n)
	for i := 0; i < n; i++ {
		if node := fn(i); node != nil {
			result = append(result, node)
		}
	}
	return result
}

// Key sets the reconciliation key. The key is converted with fmt.Sprint.
func Key(key any) Attr {
	return Prop(PropKey, fmt.Sprint(key))
}

// Nothing returns nil, useful for conditional rendering.
func Nothing() *VNode {
	return nil
}
