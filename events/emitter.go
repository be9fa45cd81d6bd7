// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package events provides a synchronous publish/subscribe emitter.
//
// Listeners are kept in one chain per event name and are invoked in
// registration order on the goroutine which calls Emit. Go functions
// are not comparable, so every registration returns an ID which is used
// to remove the listener again.
package events

import (
	"sync"
)

// A Name identifies an event.
type Name string

// A Listener receives the arguments passed to Emit.
type Listener func(args ...interface{})

// An ID identifies one listener registration. The zero ID is never
// returned by a registration.
type ID uint64

type entry struct {
	id   ID
	fn   Listener
	once bool
}

// An Emitter is a group of listener chains keyed by event name. The
// zero value is ready to use. An Emitter is safe for concurrent use,
// but listeners registered or removed while an event is being emitted
// only take effect for later emits.
type Emitter struct {
	mu     sync.Mutex
	chains map[Name][]entry
	nextID ID
}

// On adds a listener to the back of the chain for the named event.
func (e *Emitter) On(name Name, fn Listener) ID {
	return e.add(name, fn, false)
}

// Once adds a listener which is removed before its first invocation.
func (e *Emitter) Once(name Name, fn Listener) ID {
	return e.add(name, fn, true)
}

func (e *Emitter) add(name Name, fn Listener, once bool) ID {
	if fn == nil {
		panic("reqx/events: nil listener")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.chains == nil {
		e.chains = make(map[Name][]entry)
	}
	e.nextID++
	e.chains[name] = append(e.chains[name], entry{id: e.nextID, fn: fn, once: once})
	return e.nextID
}

// Off removes the listener registration identified by id from the
// chain for the named event. It reports whether a listener was removed.
func (e *Emitter) Off(name Name, id ID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	chain := e.chains[name]
	for i := range chain {
		if chain[i].id == id {
			e.chains[name] = append(chain[:i:i], chain[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveAllListeners removes every listener for the named events, or
// for all events if no name is given.
func (e *Emitter) RemoveAllListeners(names ...Name) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(names) == 0 {
		e.chains = nil
		return
	}
	for _, name := range names {
		delete(e.chains, name)
	}
}

// ListenerCount returns the number of listeners for the named event.
func (e *Emitter) ListenerCount(name Name) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return len(e.chains[name])
}

// Emit synchronously calls each listener for the named event, in
// registration order, with the given arguments. It reports whether the
// event had any listeners.
func (e *Emitter) Emit(name Name, args ...interface{}) bool {
	e.mu.Lock()
	chain := e.chains[name]
	if len(chain) == 0 {
		e.mu.Unlock()
		return false
	}
	snapshot := make([]entry, len(chain))
	copy(snapshot, chain)
	kept := chain[:0:0]
	for _, en := range chain {
		if !en.once {
			kept = append(kept, en)
		}
	}
	e.chains[name] = kept
	e.mu.Unlock()

	for _, en := range snapshot {
		en.fn(args...)
	}
	return true
}
