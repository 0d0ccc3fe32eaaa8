package events

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/vango-dev/patchwork/pkg/live"
	"github.com/vango-dev/patchwork/pkg/vdom"
)

// Delegator is a Bridge that keeps handlers in a table and dispatches by
// bubbling from the target node to the root.
//
// It is safe for concurrent use. Handlers run without the table lock held,
// so a handler may trigger a render that rebinds.
type Delegator struct {
	mu     sync.RWMutex
	table  map[live.Node]map[string]Handler
	logger *slog.Logger
}

// Option configures a Delegator.
type Option func(*Delegator)

// WithLogger sets the logger used to report unsupported handler types.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Delegator) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDelegator creates an empty delegator.
func NewDelegator(opts ...Option) *Delegator {
	d := &Delegator{
		table:  make(map[live.Node]map[string]Handler),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

var _ Bridge = (*Delegator)(nil)

// BindOrUpdate replaces node's handlers with next. prev is only used to
// skip work when nothing changed.
func (d *Delegator) BindOrUpdate(node live.Node, next, prev map[string]any) {
	if len(next) == 0 && len(prev) == 0 {
		return
	}

	var handlers map[string]Handler
	for key, value := range next {
		if value == nil || !vdom.IsEventKey(key) {
			continue
		}
		h, ok := wrapHandler(value)
		if !ok {
			d.logger.Warn("unsupported event handler type",
				"event", key,
				"type", fmt.Sprintf("%T", value))
			continue
		}
		if handlers == nil {
			handlers = make(map[string]Handler, len(next))
		}
		handlers[strings.ToLower(vdom.EventName(key))] = h
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if handlers == nil {
		delete(d.table, node)
		return
	}
	d.table[node] = handlers
}

// Unbind drops every handler bound to node.
func (d *Delegator) Unbind(node live.Node) {
	d.mu.Lock()
	delete(d.table, node)
	d.mu.Unlock()
}

// Bound reports whether node has a handler for the event type.
func (d *Delegator) Bound(node live.Node, typ string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.table[node][strings.ToLower(typ)]
	return ok
}

// Len returns the number of nodes with at least one handler.
func (d *Delegator) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.table)
}

// Dispatch delivers an event of the given type to target and then to each
// ancestor until a handler stops propagation. It returns the number of
// handlers that ran.
func (d *Delegator) Dispatch(target live.Node, typ, value string) int {
	if target == nil {
		return 0
	}
	typ = strings.ToLower(typ)

	// The chain is fixed up front; handlers are looked up again at each
	// step so one unbound by an earlier handler does not run.
	var path []live.Node
	d.mu.RLock()
	for n := target; n != nil; n = n.Parent() {
		if _, ok := d.table[n][typ]; ok {
			path = append(path, n)
		}
	}
	d.mu.RUnlock()

	e := &Event{Type: typ, Target: target, Value: value}
	ran := 0
	for _, n := range path {
		d.mu.RLock()
		h, ok := d.table[n][typ]
		d.mu.RUnlock()
		if !ok {
			continue
		}
		e.CurrentTarget = n
		h(e)
		ran++
		if e.stopped {
			break
		}
	}
	return ran
}
