package memdom

import (
	"fmt"

	"github.com/vango-dev/patchwork/pkg/live"
)

// Node is an element or text node owned by a Document.
type Node struct {
	doc      *Document
	id       int
	tag      string
	text     string
	isText   bool
	parent   *Node
	children []*Node
	attrs    map[string]string
	props    map[string]any
	style    map[string]string
}

var _ live.Node = (*Node)(nil)

// ID returns the node's document-unique id. Ids start at 1.
func (n *Node) ID() int { return n.id }

// Document returns the owning document.
func (n *Node) Document() *Document { return n.doc }

func (n *Node) Tag() string  { return n.tag }
func (n *Node) IsText() bool { return n.isText }
func (n *Node) Text() string { return n.text }

// Parent implements live.Node. It returns an untyped nil for detached nodes.
func (n *Node) Parent() live.Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

// ParentNode is Parent with a concrete type.
func (n *Node) ParentNode() *Node { return n.parent }

func (n *Node) ChildNodes() []live.Node {
	out := make([]live.Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

// Children returns n's children.
func (n *Node) Children() []*Node {
	return append([]*Node(nil), n.children...)
}

// NextSibling implements live.Node. It returns an untyped nil for the last
// child.
func (n *Node) NextSibling() live.Node {
	if n.parent == nil {
		return nil
	}
	i := n.parent.indexOf(n)
	if i < 0 || i+1 >= len(n.parent.children) {
		return nil
	}
	return n.parent.children[i+1]
}

func (n *Node) indexOf(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

func (n *Node) own(x live.Node) (*Node, error) {
	c, ok := x.(*Node)
	if !ok || c == nil || c.doc != n.doc {
		return nil, ErrForeignNode
	}
	return c, nil
}

func (n *Node) contains(other *Node) bool {
	for p := other; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

func (n *Node) detach() {
	if n.parent == nil {
		return
	}
	p := n.parent
	if i := p.indexOf(n); i >= 0 {
		p.children = append(p.children[:i], p.children[i+1:]...)
	}
	n.parent = nil
}

func (n *Node) AppendChild(child live.Node) error {
	return n.InsertBefore(child, nil)
}

func (n *Node) InsertBefore(child, ref live.Node) error {
	if n.isText {
		return ErrHierarchy
	}
	c, err := n.own(child)
	if err != nil {
		return err
	}
	var r *Node
	if ref != nil {
		if r, err = n.own(ref); err != nil {
			return err
		}
		if r.parent != n {
			return ErrNotChild
		}
	}
	if c.contains(n) {
		return ErrHierarchy
	}
	if c == r {
		return nil
	}
	op := OpAppend
	if r != nil {
		op = OpInsert
	}
	if err := n.doc.check(op, n); err != nil {
		return err
	}

	c.detach()
	if r == nil {
		n.children = append(n.children, c)
	} else {
		i := n.indexOf(r)
		n.children = append(n.children, nil)
		copy(n.children[i+1:], n.children[i:])
		n.children[i] = c
	}
	c.parent = n

	m := Mutation{Op: op, Node: n.id, Child: c.id}
	if r != nil {
		m.Ref = r.id
	}
	n.doc.record(m)
	return nil
}

func (n *Node) RemoveChild(child live.Node) error {
	c, err := n.own(child)
	if err != nil {
		return err
	}
	if c.parent != n {
		return ErrNotChild
	}
	if err := n.doc.check(OpRemove, n); err != nil {
		return err
	}
	n.doc.blurIfWithin(c)
	c.detach()
	n.doc.record(Mutation{Op: OpRemove, Node: n.id, Child: c.id})
	return nil
}

func (n *Node) ReplaceChild(newChild, oldChild live.Node) error {
	nc, err := n.own(newChild)
	if err != nil {
		return err
	}
	oc, err := n.own(oldChild)
	if err != nil {
		return err
	}
	if oc.parent != n {
		return ErrNotChild
	}
	if nc.contains(n) {
		return ErrHierarchy
	}
	if nc == oc {
		return nil
	}
	if err := n.doc.check(OpReplace, n); err != nil {
		return err
	}

	nc.detach()
	i := n.indexOf(oc)
	n.children[i] = nc
	nc.parent = n
	n.doc.blurIfWithin(oc)
	oc.parent = nil

	n.doc.record(Mutation{Op: OpReplace, Node: n.id, Child: nc.id, Ref: oc.id})
	return nil
}

func (n *Node) SetText(text string) error {
	if !n.isText {
		return fmt.Errorf("memdom: SetText on <%s>: %w", n.tag, ErrHierarchy)
	}
	if err := n.doc.check(OpSetText, n); err != nil {
		return err
	}
	n.text = text
	n.doc.record(Mutation{Op: OpSetText, Node: n.id, Value: text})
	return nil
}

func (n *Node) GetAttribute(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

// Attributes returns a copy of n's attributes.
func (n *Node) Attributes() map[string]string {
	out := make(map[string]string, len(n.attrs))
	for k, v := range n.attrs {
		out[k] = v
	}
	return out
}

func (n *Node) SetAttribute(name, value string) error {
	if n.isText {
		return ErrTextNode
	}
	if err := n.doc.check(OpSetAttr, n); err != nil {
		return err
	}
	if n.attrs == nil {
		n.attrs = make(map[string]string)
	}
	n.attrs[name] = value
	n.doc.record(Mutation{Op: OpSetAttr, Node: n.id, Name: name, Value: value})
	return nil
}

func (n *Node) RemoveAttribute(name string) error {
	if n.isText {
		return ErrTextNode
	}
	if err := n.doc.check(OpRemoveAttr, n); err != nil {
		return err
	}
	delete(n.attrs, name)
	n.doc.record(Mutation{Op: OpRemoveAttr, Node: n.id, Name: name})
	return nil
}

func (n *Node) Property(name string) (any, bool) {
	v, ok := n.props[name]
	return v, ok
}

func (n *Node) SetProperty(name string, value any) error {
	if n.isText {
		return ErrTextNode
	}
	if err := n.doc.check(OpSetProp, n); err != nil {
		return err
	}
	if n.props == nil {
		n.props = make(map[string]any)
	}
	n.props[name] = value
	n.doc.record(Mutation{Op: OpSetProp, Node: n.id, Name: name, Value: fmt.Sprint(value)})
	return nil
}

func (n *Node) Style(name string) (string, bool) {
	v, ok := n.style[name]
	return v, ok
}

// Styles returns a copy of n's inline style.
func (n *Node) Styles() map[string]string {
	out := make(map[string]string, len(n.style))
	for k, v := range n.style {
		out[k] = v
	}
	return out
}

func (n *Node) SetStyle(name, value string) error {
	if n.isText {
		return ErrTextNode
	}
	if err := n.doc.check(OpSetStyle, n); err != nil {
		return err
	}
	if n.style == nil {
		n.style = make(map[string]string)
	}
	n.style[name] = value
	n.doc.record(Mutation{Op: OpSetStyle, Node: n.id, Name: name, Value: value})
	return nil
}

func (n *Node) RemoveStyle(name string) error {
	if n.isText {
		return ErrTextNode
	}
	if err := n.doc.check(OpRemoveStyle, n); err != nil {
		return err
	}
	delete(n.style, name)
	n.doc.record(Mutation{Op: OpRemoveStyle, Node: n.id, Name: name})
	return nil
}

// String returns a short description such as "<div#3>" or "#text#4".
func (n *Node) String() string {
	if n.isText {
		return fmt.Sprintf("#text#%d", n.id)
	}
	return fmt.Sprintf("<%s#%d>", n.tag, n.id)
}
