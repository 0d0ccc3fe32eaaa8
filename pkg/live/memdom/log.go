package memdom

import (
	"fmt"
	"strings"
)

// Op names a mutation.
type Op string

const (
	OpAppend      Op = "append"
	OpInsert      Op = "insert"
	OpRemove      Op = "remove"
	OpReplace     Op = "replace"
	OpSetText     Op = "setText"
	OpSetAttr     Op = "setAttr"
	OpRemoveAttr  Op = "removeAttr"
	OpSetProp     Op = "setProp"
	OpSetStyle    Op = "setStyle"
	OpRemoveStyle Op = "removeStyle"
)

// Structural reports whether the op changes the shape of the tree.
func (op Op) Structural() bool {
	switch op {
	case OpAppend, OpInsert, OpRemove, OpReplace:
		return true
	}
	return false
}

// Mutation is one recorded change. For structural ops Node is the parent,
// Child the moved, inserted or removed node and Ref the reference node (the
// node inserted before, or the replaced node).
type Mutation struct {
	Op    Op     `json:"op"`
	Node  int    `json:"node"`
	Child int    `json:"child,omitempty"`
	Ref   int    `json:"ref,omitempty"`
	Name  string `json:"name,omitempty"`
	Value string `json:"value,omitempty"`
}

// String renders the mutation on one line, e.g. `setAttr #4 class="x"`.
func (m Mutation) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s #%d", m.Op, m.Node)
	if m.Child != 0 {
		fmt.Fprintf(&b, " child=#%d", m.Child)
	}
	if m.Ref != 0 {
		fmt.Fprintf(&b, " ref=#%d", m.Ref)
	}
	switch m.Op {
	case OpSetAttr, OpSetProp, OpSetStyle:
		fmt.Fprintf(&b, " %s=%q", m.Name, m.Value)
	case OpRemoveAttr, OpRemoveStyle:
		fmt.Fprintf(&b, " %s", m.Name)
	case OpSetText:
		fmt.Fprintf(&b, " %q", m.Value)
	}
	return b.String()
}

// Log is an append-only record of mutations.
type Log struct {
	entries []Mutation
}

func (l *Log) add(m Mutation) {
	l.entries = append(l.entries, m)
}

// Len returns the number of recorded mutations.
func (l *Log) Len() int {
	return len(l.entries)
}

// Entries returns a copy of the recorded mutations.
func (l *Log) Entries() []Mutation {
	return append([]Mutation(nil), l.entries...)
}

// Count returns how many mutations of the given ops were recorded. With no
// ops it counts everything.
func (l *Log) Count(ops ...Op) int {
	if len(ops) == 0 {
		return len(l.entries)
	}
	n := 0
	for _, m := range l.entries {
		for _, op := range ops {
			if m.Op == op {
				n++
				break
			}
		}
	}
	return n
}

// Reset discards all recorded mutations.
func (l *Log) Reset() {
	l.entries = nil
}

// Drain returns the recorded mutations and resets the log.
func (l *Log) Drain() []Mutation {
	out := l.entries
	l.entries = nil
	return out
}
