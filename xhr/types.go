// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package xhr

import (
	"strconv"

	"github.com/gogama/reqx/events"
)

// A ReadyState is a stage of the transport lifecycle.
type ReadyState int

const (
	// Unsent means the transport has been created but not opened.
	Unsent ReadyState = iota
	// Opened means the transport has been opened and may be sent.
	Opened
	// HeadersReceived means the response status and headers are
	// available.
	HeadersReceived
	// Loading means the response body is being received. The response
	// type can no longer be changed.
	Loading
	// Done means the send is complete, successfully or not.
	Done
)

var readyStateNames = []string{
	"UNSENT",
	"OPENED",
	"HEADERS_RECEIVED",
	"LOADING",
	"DONE",
}

// String returns the name of the ready state.
func (rs ReadyState) String() string {
	if rs < 0 || int(rs) >= len(readyStateNames) {
		return "ReadyState(" + strconv.Itoa(int(rs)) + ")"
	}
	return readyStateNames[rs]
}

// A ResponseType selects how the transport decodes the response body.
type ResponseType string

const (
	// ResponseTypeDefault decodes the body as text. It is also the
	// "unset" value produced by inference when there is no
	// Content-Type response header.
	ResponseTypeDefault ResponseType = ""
	// ResponseTypeArrayBuffer yields the raw body as a []byte.
	ResponseTypeArrayBuffer ResponseType = "arraybuffer"
	// ResponseTypeBlob yields a *request.Blob.
	ResponseTypeBlob ResponseType = "blob"
	// ResponseTypeDocument yields a parsed *request.Document.
	ResponseTypeDocument ResponseType = "document"
	// ResponseTypeJSON yields the generic decoded JSON value.
	ResponseTypeJSON ResponseType = "json"
	// ResponseTypeText yields the body as a string.
	ResponseTypeText ResponseType = "text"
)

// Event names emitted by Engine, and dispatched by a Transport.
const (
	EventInit             events.Name = "init"
	EventSend             events.Name = "send"
	EventSuccess          events.Name = "success"
	EventError            events.Name = "error"
	EventAbort            events.Name = "abort"
	EventReadyStateChange events.Name = "readystatechange"
	EventTimeout          events.Name = "timeout"
	EventLoadStart        events.Name = "loadstart"
	EventProgress         events.Name = "progress"
	EventLoad             events.Name = "load"
	EventLoadEnd          events.Name = "loadend"
)

// ProgressEvents returns the names of the progress events a Transport
// dispatches during a send.
func ProgressEvents() []events.Name {
	return []events.Name{
		EventAbort,
		EventTimeout,
		EventError,
		EventLoadStart,
		EventProgress,
		EventLoad,
		EventLoadEnd,
	}
}

// An Event is a raw event dispatched by a Transport. For the
// readystatechange event only Type is meaningful.
type Event struct {
	// Type is the event name.
	Type events.Name
	// Loaded is the number of response body bytes received so far.
	Loaded int64
	// Total is the expected response body size, if known.
	Total int64
	// LengthComputable reports whether Total is known.
	LengthComputable bool
}

// Credentials are basic-auth credentials sent along with the request.
type Credentials struct {
	Username string
	Password string
}
