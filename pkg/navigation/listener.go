package navigation

import "sync"

// HashSource is anything with a location hash that reports changes. The
// memdom window implements it; a browser binding would wrap
// window.location and the hashchange event.
type HashSource interface {
	Hash() string
	OnHashChange(fn func(hash string)) (cancel func())
}

// Handler receives routes.
type Handler func(Route)

// Listener feeds hash changes from a HashSource to a Handler.
type Listener struct {
	handler Handler

	mu      sync.Mutex
	cancel  func()
	current Route
}

// NewListener creates a stopped listener.
func NewListener(handler Handler) *Listener {
	return &Listener{handler: handler}
}

// Start subscribes to src and calls the handler with the current hash.
// Starting a running listener moves it to the new source.
func (l *Listener) Start(src HashSource) {
	l.Stop()

	cancel := src.OnHashChange(l.handle)
	l.mu.Lock()
	l.cancel = cancel
	l.mu.Unlock()

	l.handle(src.Hash())
}

// Stop unsubscribes from the source. It is safe to call on a stopped
// listener.
func (l *Listener) Stop() {
	l.mu.Lock()
	cancel := l.cancel
	l.cancel = nil
	l.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Running reports whether the listener is subscribed to a source.
func (l *Listener) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cancel != nil
}

// Current returns the last route delivered to the handler.
func (l *Listener) Current() Route {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

func (l *Listener) handle(hash string) {
	route := Parse(hash)
	l.mu.Lock()
	l.current = route
	l.mu.Unlock()

	if l.handler != nil {
		l.handler(route)
	}
}
