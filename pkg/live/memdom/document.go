// Package memdom is an in-memory live tree.
//
// It implements live.Document and live.Node with plain Go structs, records
// every mutation in a Log, tracks focus, serializes to HTML and carries a
// Window whose location hash drives hash navigation. It backs the command
// line tools, the preview server and every reconciler test.
//
// A Document and its nodes are not safe for concurrent use.
package memdom

import (
	"errors"

	"github.com/vango-dev/patchwork/pkg/live"
)

var (
	// ErrNotChild is returned when a reference node is not a child of the receiver.
	ErrNotChild = errors.New("memdom: node is not a child of this node")

	// ErrHierarchy is returned for insertions that would create a cycle or
	// give a text node children.
	ErrHierarchy = errors.New("memdom: hierarchy request error")

	// ErrForeignNode is returned for nodes from another document or implementation.
	ErrForeignNode = errors.New("memdom: node belongs to another document")

	// ErrTextNode is returned for element-only operations on a text node.
	ErrTextNode = errors.New("memdom: operation not supported on a text node")
)

// FaultFunc lets tests make a mutation fail. It is called before every
// mutation with the operation and the node being mutated.
type FaultFunc func(op Op, n *Node) error

// Document owns a tree of nodes, a mutation log and the focus.
type Document struct {
	nextID int
	log    Log
	body   *Node
	active *Node
	window *Window
	fault  FaultFunc
}

var _ live.Document = (*Document)(nil)

// NewDocument creates a document with an empty body element.
func NewDocument() *Document {
	d := &Document{window: newWindow()}
	d.body = d.newNode("body", "", false)
	return d
}

func (d *Document) newNode(tag, text string, isText bool) *Node {
	d.nextID++
	return &Node{doc: d, id: d.nextID, tag: tag, text: text, isText: isText}
}

// CreateElement implements live.Document.
func (d *Document) CreateElement(tag string) (live.Node, error) {
	return d.Element(tag), nil
}

// CreateTextNode implements live.Document.
func (d *Document) CreateTextNode(text string) (live.Node, error) {
	return d.newNode("", text, true), nil
}

// Element creates a detached element. Creation is not a mutation and is
// not logged.
func (d *Document) Element(tag string) *Node {
	return d.newNode(tag, "", false)
}

// Body returns the document's root element.
func (d *Document) Body() *Node {
	return d.body
}

// Log returns the mutation log.
func (d *Document) Log() *Log {
	return &d.log
}

// Window returns the document's window.
func (d *Document) Window() *Window {
	return d.window
}

// SetFault installs a fault hook. Pass nil to remove it.
func (d *Document) SetFault(fn FaultFunc) {
	d.fault = fn
}

// Focus moves focus to n. Focus is dropped when n, or an ancestor of n, is
// removed from its parent. Moving n between positions keeps it.
func (d *Document) Focus(n *Node) {
	d.active = n
}

// ActiveElement returns the focused node, or nil.
func (d *Document) ActiveElement() *Node {
	return d.active
}

// Find returns the node with the given id in the subtree rooted at root.
func Find(root *Node, id int) *Node {
	if root == nil {
		return nil
	}
	if root.id == id {
		return root
	}
	for _, c := range root.children {
		if found := Find(c, id); found != nil {
			return found
		}
	}
	return nil
}

func (d *Document) record(m Mutation) {
	d.log.add(m)
}

func (d *Document) check(op Op, n *Node) error {
	if d.fault == nil {
		return nil
	}
	return d.fault(op, n)
}

// blurIfWithin drops focus if the active node lives in the subtree at n.
func (d *Document) blurIfWithin(n *Node) {
	for a := d.active; a != nil; a = a.parent {
		if a == n {
			d.active = nil
			return
		}
	}
}
