package reconcile

import (
	"github.com/vango-dev/patchwork/pkg/live"
	"github.com/vango-dev/patchwork/pkg/vdom"
)

// shadowID addresses a shadow record in a tree's arena.
type shadowID int32

const noShadow shadowID = -1

type shadowKind uint8

const (
	shadowText shadowKind = iota + 1
	shadowElement
)

// shadow mirrors one live node with the state last applied to it.
type shadow struct {
	kind     shadowKind
	tag      string
	key      string
	text     string
	props    vdom.Props
	events   map[string]any
	children []shadowID
	live     live.Node
}

// tree is the shadow tree stored for one container. Records live in a flat
// slice and are addressed by index; released slots are reused.
//
// Pointers returned by at are invalidated by alloc.
type tree struct {
	nodes []shadow
	free  []shadowID
	used  int
	root  shadowID
}

func newTree() *tree {
	return &tree{root: noShadow}
}

func (t *tree) alloc(s shadow) shadowID {
	t.used++
	if n := len(t.free); n > 0 {
		id := t.free[n-1]
		t.free = t.free[:n-1]
		t.nodes[id] = s
		return id
	}
	t.nodes = append(t.nodes, s)
	return shadowID(len(t.nodes) - 1)
}

func (t *tree) at(id shadowID) *shadow {
	return &t.nodes[id]
}

func (t *tree) live(id shadowID) live.Node {
	return t.nodes[id].live
}

// release frees id and its whole subtree.
func (t *tree) release(id shadowID) int {
	n := 1
	for _, child := range t.nodes[id].children {
		n += t.release(child)
	}
	t.nodes[id] = shadow{}
	t.free = append(t.free, id)
	t.used--
	return n
}

// walk calls fn for id and every descendant, parents first.
func (t *tree) walk(id shadowID, fn func(*shadow)) {
	fn(&t.nodes[id])
	for _, child := range t.nodes[id].children {
		t.walk(child, fn)
	}
}
