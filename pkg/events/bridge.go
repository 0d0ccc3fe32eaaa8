package events

import "github.com/vango-dev/patchwork/pkg/live"

// Bridge receives handler bindings from the reconciler.
//
// BindOrUpdate is called whenever an element is created or patched. next
// and prev hold the element's "on*" props keyed by prop name ("onclick"),
// either of which may be nil. Unbind is called for every element of a
// subtree that leaves the live tree.
type Bridge interface {
	BindOrUpdate(node live.Node, next, prev map[string]any)
	Unbind(node live.Node)
}

// Nop is a Bridge that discards every binding.
var Nop Bridge = nopBridge{}

type nopBridge struct{}

func (nopBridge) BindOrUpdate(live.Node, map[string]any, map[string]any) {}
func (nopBridge) Unbind(live.Node)                                       {}
