// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package xhr

import (
	"errors"
	"time"

	"github.com/gogama/reqx/events"
)

// ErrInvalidState is returned, possibly wrapped, by a Transport asked
// to do something its current state does not allow, such as sending a
// request which is not opened or is already being sent.
var ErrInvalidState = errors.New("reqx/xhr: invalid state")

// A Transport is an event-driven request object with XMLHttpRequest
// semantics. Package nethttp provides the standard implementation.
//
// A Transport dispatches readystatechange whenever its ready state
// changes, and the progress events named by ProgressEvents during a
// send. Each listener receives a single *Event argument. All events of
// one send are dispatched in order on one goroutine.
type Transport interface {
	// Open initializes the request, moving the transport to Opened.
	// Credentials may be nil.
	Open(method, url string, async bool, creds *Credentials) error
	// SetRequestHeader sets a request header. It is only valid while
	// Opened and not yet sent.
	SetRequestHeader(name, value string) error
	// Send starts the request with the given body. It returns an error
	// wrapping ErrInvalidState if the transport is not Opened or is
	// already sending.
	Send(body interface{}) error
	// Abort cancels any in-flight send.
	Abort()

	// ReadyState returns the current ready state.
	ReadyState() ReadyState
	// Status returns the response status code, or 0 if there is none.
	Status() int
	// StatusText returns the response status text.
	StatusText() string
	// Response returns the decoded response value.
	Response() interface{}
	// GetResponseHeader returns a response header value.
	GetResponseHeader(name string) (string, bool)

	// ResponseType returns the configured response type.
	ResponseType() ResponseType
	// SetResponseType sets the response type. It returns an error
	// wrapping ErrInvalidState once Loading or Done.
	SetResponseType(rt ResponseType) error
	// SetWithCredentials sets whether credentials such as cookies are
	// included. It returns an error wrapping ErrInvalidState once sent.
	SetWithCredentials(b bool) error
	// SetTimeout sets the send timeout. Zero means no timeout.
	SetTimeout(d time.Duration)

	// AddEventListener registers fn for the named event.
	AddEventListener(name events.Name, fn events.Listener) events.ID
	// RemoveEventListener removes the listener registration id.
	RemoveEventListener(name events.Name, id events.ID) bool
}

// A Factory creates a Transport. It represents the host capability to
// make event-driven requests.
type Factory func() Transport
