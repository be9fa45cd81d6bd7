// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"net/http"
	"time"

	"github.com/gogama/reqx/netfail"
)

// An Execution represents the state of a single send of a Plan.
//
// A transport creates an Execution when a plan is sent and updates it
// as the send progresses: when the HTTP response becomes available,
// when the body has been read, and when the send ends.
type Execution struct {
	// Plan specifies the HTTP request plan being sent. It is never nil.
	Plan *Plan

	// Start is the time the send started.
	Start time.Time

	// End is the time the send ended. It contains the zero value
	// until the send ends.
	End time.Time

	// Request specifies the HTTP request made.
	Request *http.Request

	// Response specifies the HTTP response received. It is nil until
	// response headers are received, and stays nil if the send ended
	// in an error before that.
	Response *http.Response

	// Err is the error which ended the send, if any. Whenever Err is
	// non-nil, it has the type *url.Error.
	Err error

	// Body is the complete, decompressed response body. It is nil
	// until the body has been read.
	Body []byte
}

// StatusCode returns the status code of the HTTP response. If there is
// no HTTP response, 0 is returned.
func (e *Execution) StatusCode() int {
	if e.Response == nil {
		return 0
	}

	return e.Response.StatusCode
}

// Header returns the HTTP response headers. If there is no HTTP
// response, the nil header is returned.
func (e *Execution) Header() http.Header {
	if e.Response == nil {
		var nilHeader http.Header
		return nilHeader
	}

	return e.Response.Header
}

// Duration returns the duration of the execution.
//
// If the execution has not yet started, the duration is zero. If the
// execution has Ended, the duration returned is equal to End minus
// Start. Otherwise, it is equal to the current time minus Start.
func (e *Execution) Duration() time.Duration {
	if !e.Started() {
		return time.Duration(0)
	} else if !e.Ended() {
		return time.Since(e.Start)
	}

	return e.End.Sub(e.Start)
}

// Started indicates whether the execution has started.
func (e *Execution) Started() bool {
	return e.Start != (time.Time{})
}

// Ended indicates whether the execution has ended.
func (e *Execution) Ended() bool {
	return e.End != (time.Time{})
}

// Timeout indicates whether Err currently contains a non-nil value
// which indicates a timeout.
func (e *Execution) Timeout() bool {
	return netfail.Classify(e.Err) == netfail.Timeout
}
