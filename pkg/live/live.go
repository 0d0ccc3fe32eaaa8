// Package live defines the mutable tree the reconciler writes to.
//
// A live tree is whatever actually displays the UI: a browser DOM reached
// through syscall/js, a terminal widget tree, or the in-memory tree in
// package memdom. The reconciler only uses the operations below and treats
// every returned error as fatal for the current render cycle.
package live

// Document creates detached nodes.
type Document interface {
	CreateElement(tag string) (Node, error)
	CreateTextNode(text string) (Node, error)
}

// Node is one live node. Implementations use pointer identity: two Node
// values are the same node if and only if they compare equal.
type Node interface {
	// Tag returns the element tag, or "" for text nodes.
	Tag() string
	IsText() bool

	// Parent returns the parent node, or nil when detached.
	Parent() Node
	ChildNodes() []Node
	NextSibling() Node

	// AppendChild moves child to the end of n's children, detaching it from
	// any previous parent first.
	AppendChild(child Node) error
	// InsertBefore moves child before ref. A nil ref appends.
	InsertBefore(child, ref Node) error
	RemoveChild(child Node) error
	// ReplaceChild puts newChild at oldChild's position and detaches oldChild.
	ReplaceChild(newChild, oldChild Node) error

	// Text and SetText read and write a text node's content.
	Text() string
	SetText(text string) error

	GetAttribute(name string) (string, bool)
	SetAttribute(name, value string) error
	RemoveAttribute(name string) error

	// Property and SetProperty access live state that is not an attribute,
	// such as an input's current value or a checkbox's checked flag.
	Property(name string) (any, bool)
	SetProperty(name string, value any) error

	Style(name string) (string, bool)
	SetStyle(name, value string) error
	RemoveStyle(name string) error
}

// IndexOf returns the position of child under parent, or -1.
func IndexOf(parent, child Node) int {
	for i, c := range parent.ChildNodes() {
		if c == child {
			return i
		}
	}
	return -1
}
