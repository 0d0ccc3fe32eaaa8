package memdom

import "strings"

// Window holds the location hash and its change listeners.
type Window struct {
	hash      string
	nextID    int
	listeners []hashListener
}

type hashListener struct {
	id int
	fn func(string)
}

func newWindow() *Window {
	return &Window{}
}

// Hash returns the current location hash including the leading "#", or ""
// when no hash is set.
func (w *Window) Hash() string {
	return w.hash
}

// SetHash changes the location hash and notifies listeners if it changed.
// The leading "#" is optional.
func (w *Window) SetHash(hash string) {
	if hash != "" && !strings.HasPrefix(hash, "#") {
		hash = "#" + hash
	}
	if hash == "#" {
		hash = ""
	}
	if hash == w.hash {
		return
	}
	w.hash = hash
	listeners := append([]hashListener(nil), w.listeners...)
	for _, l := range listeners {
		l.fn(hash)
	}
}

// OnHashChange registers fn for hash changes and returns a function that
// removes it.
func (w *Window) OnHashChange(fn func(hash string)) (cancel func()) {
	w.nextID++
	id := w.nextID
	w.listeners = append(w.listeners, hashListener{id: id, fn: fn})
	return func() {
		for i, l := range w.listeners {
			if l.id == id {
				w.listeners = append(w.listeners[:i], w.listeners[i+1:]...)
				return
			}
		}
	}
}
