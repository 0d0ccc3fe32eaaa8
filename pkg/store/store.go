// Package store is a centralized state container.
//
// A Store holds one value of type S. Every change notifies subscribers
// synchronously, in subscription order, on the goroutine that made the
// change. Subscribers run without the store's lock held, so they may read
// the store or change it again.
package store

import (
	"errors"
	"reflect"
	"sync"
)

// ErrNoReducer is returned by Dispatch on a store created without a reducer.
var ErrNoReducer = errors.New("store: dispatch on a store without a reducer")

// Reducer computes the next state from the current state and an action.
type Reducer[S any] func(state S, action any) S

// Listener is called with the new state after every change.
type Listener[S any] func(state S)

type subscription[S any] struct {
	id uint64
	fn Listener[S]
}

// Store is a state container with a subscriber list.
type Store[S any] struct {
	mu      sync.RWMutex
	state   S
	reducer Reducer[S]
	equal   func(a, b S) bool

	subMu  sync.RWMutex
	subs   []subscription[S]
	nextID uint64
}

// New creates a store holding initial.
func New[S any](initial S) *Store[S] {
	return &Store[S]{state: initial}
}

// NewWithReducer creates a store whose Dispatch runs reducer.
func NewWithReducer[S any](initial S, reducer Reducer[S]) *Store[S] {
	return &Store[S]{state: initial, reducer: reducer}
}

// WithEquals sets the function used to decide whether a new state is a
// change. Without it, states are compared with == for basic types and
// reflect.DeepEqual otherwise.
func (s *Store[S]) WithEquals(fn func(a, b S) bool) *Store[S] {
	s.equal = fn
	return s
}

// Get returns the current state.
func (s *Store[S]) Get() S {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Set replaces the state and notifies subscribers if it changed.
func (s *Store[S]) Set(state S) {
	s.Update(func(S) S { return state })
}

// Update replaces the state with fn(current) and notifies subscribers if it
// changed.
func (s *Store[S]) Update(fn func(S) S) {
	s.mu.Lock()
	next := fn(s.state)
	changed := !s.equals(s.state, next)
	if changed {
		s.state = next
	}
	s.mu.Unlock()

	if changed {
		s.notify(next)
	}
}

// Dispatch runs the reducer with action and stores the result.
func (s *Store[S]) Dispatch(action any) error {
	if s.reducer == nil {
		return ErrNoReducer
	}
	s.Update(func(state S) S { return s.reducer(state, action) })
	return nil
}

// Subscribe registers fn for state changes and returns a function that
// removes it. Calling the returned function more than once is harmless.
func (s *Store[S]) Subscribe(fn Listener[S]) (unsubscribe func()) {
	s.subMu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription[S]{id: id, fn: fn})
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// Subscribers returns the number of registered listeners.
func (s *Store[S]) Subscribers() int {
	s.subMu.RLock()
	defer s.subMu.RUnlock()
	return len(s.subs)
}

// notify calls every subscriber with state. The list is copied first so
// subscribers may unsubscribe while being notified.
func (s *Store[S]) notify(state S) {
	s.subMu.RLock()
	subs := make([]subscription[S], len(s.subs))
	copy(subs, s.subs)
	s.subMu.RUnlock()

	for _, sub := range subs {
		sub.fn(state)
	}
}

func (s *Store[S]) equals(a, b S) bool {
	if s.equal != nil {
		return s.equal(a, b)
	}
	return defaultEquals(a, b)
}

// defaultEquals uses == for basic types and reflect.DeepEqual for the rest.
func defaultEquals[S any](a, b S) bool {
	switch av := any(a).(type) {
	case int:
		return av == any(b).(int)
	case int64:
		return av == any(b).(int64)
	case uint64:
		return av == any(b).(uint64)
	case float64:
		return av == any(b).(float64)
	case string:
		return av == any(b).(string)
	case bool:
		return av == any(b).(bool)
	default:
		return reflect.DeepEqual(a, b)
	}
}
