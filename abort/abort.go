// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package abort provides the cancellation handles consumed by the
// legacy request engine.
//
// A Handle pairs a Signal, which fires at most once, with an Abort
// trigger. Controller is the standard Handle. Listeners added with
// Signal.OnAbort run synchronously on the goroutine which triggers the
// abort, in registration order.
package abort

import (
	"context"
	"sync"

	"github.com/gogama/reqx/reqerr"
)

// A Signal reports and observes cancellation.
type Signal interface {
	// Aborted reports whether the signal has fired.
	Aborted() bool
	// Reason returns the abort reason, or nil if the signal has not
	// fired.
	Reason() error
	// Done returns a channel which is closed when the signal fires.
	Done() <-chan struct{}
	// OnAbort registers fn to be called when the signal fires. It is
	// not called if the signal has already fired. The returned stop
	// function unregisters fn and reports whether it did so before fn
	// was called.
	OnAbort(fn func(reason error)) (stop func() bool)
}

// A Handle is a cancellation handle: a signal plus its trigger.
type Handle interface {
	// Signal returns the handle's signal.
	Signal() Signal
	// Abort fires the signal with the given reason. A nil reason is
	// replaced by an abort error with the default message. Calls after
	// the first have no effect on the signal.
	Abort(reason error)
}

// A Controller is the standard cancellation Handle. Create one with
// New.
type Controller struct {
	sig *signal
}

// New returns a new Controller whose signal has not fired.
func New() *Controller {
	ctx, cancel := context.WithCancelCause(context.Background())
	return &Controller{
		sig: &signal{
			ctx:    ctx,
			cancel: cancel,
		},
	}
}

// Signal returns the controller's signal.
func (c *Controller) Signal() Signal {
	return c.sig
}

// Abort fires the controller's signal.
func (c *Controller) Abort(reason error) {
	c.sig.fire(reason)
}

// Context returns a context which is cancelled, with the abort reason
// as its cause, when the controller's signal fires.
func (c *Controller) Context() context.Context {
	return c.sig.ctx
}

type listener struct {
	id uint64
	fn func(error)
}

type signal struct {
	mu        sync.Mutex
	aborted   bool
	reason    error
	listeners []listener
	nextID    uint64
	ctx       context.Context
	cancel    context.CancelCauseFunc
}

func (s *signal) Aborted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.aborted
}

func (s *signal) Reason() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reason
}

func (s *signal) Done() <-chan struct{} {
	return s.ctx.Done()
}

func (s *signal) OnAbort(fn func(error)) func() bool {
	if fn == nil {
		panic("reqx/abort: nil listener")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.aborted {
		return func() bool { return false }
	}
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listener{id: id, fn: fn})
	return func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i := range s.listeners {
			if s.listeners[i].id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return true
			}
		}
		return false
	}
}

func (s *signal) fire(reason error) {
	if reason == nil {
		reason = reqerr.NewAbort("")
	}

	s.mu.Lock()
	if s.aborted {
		s.mu.Unlock()
		return
	}
	s.aborted = true
	s.reason = reason
	listeners := s.listeners
	s.listeners = nil
	s.mu.Unlock()

	s.cancel(reason)
	for _, l := range listeners {
		l.fn(reason)
	}
}
