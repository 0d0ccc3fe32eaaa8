package events

import "github.com/vango-dev/patchwork/pkg/live"

// Handler is the internal handler type every supported signature is
// converted to.
type Handler func(e *Event)

// Event is one dispatched event.
type Event struct {
	// Type is the event name without the "on" prefix, e.g. "click".
	Type string

	// Target is the node the event was dispatched at.
	Target live.Node

	// CurrentTarget is the node whose handler is running.
	CurrentTarget live.Node

	// Value carries the input value for input and change events.
	Value string

	stopped bool
}

// StopPropagation prevents handlers on ancestors from running.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// Stopped reports whether StopPropagation was called.
func (e *Event) Stopped() bool {
	return e.stopped
}

// wrapHandler converts a user-provided handler to Handler. ok is false for
// unsupported signatures.
func wrapHandler(value any) (h Handler, ok bool) {
	switch fn := value.(type) {
	case Handler:
		return fn, true
	case func(*Event):
		return fn, true
	case func():
		return func(*Event) { fn() }, true
	case func(string):
		return func(e *Event) { fn(e.Value) }, true
	default:
		return nil, false
	}
}
