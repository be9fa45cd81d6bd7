// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package reqerr

import (
	"errors"
	"fmt"
)

// A Code classifies an Error.
type Code string

const (
	// CodeUnknown covers network failures, transport error events,
	// unsuccessful responses without a recoverable error payload, and
	// any failure during response classification.
	CodeUnknown Code = "ERR:UNKNOWN"
	// CodeAbort indicates caller-initiated cancellation.
	CodeAbort Code = "ERR:ABORT"
	// CodeXHRNotAvailable indicates the host has no event-driven
	// request transport.
	CodeXHRNotAvailable Code = "ERR:XHRNOTAVAILABLE"
	// CodeXHRInvalidState indicates a send on a connection which is not
	// opened, or a repeated send without re-initialisation.
	CodeXHRInvalidState Code = "ERR:XHRINVALIDSTATE"
)

// DefaultAbortMessage is the message of an abort error created without
// an explicit reason.
const DefaultAbortMessage = "The operation was aborted."

// An Error is a classified failure.
type Error struct {
	// Message is the human readable error message.
	Message string
	// Code classifies the error.
	Code Code
	// Name optionally names the kind of failure, for example
	// "AbortError" or "TimeoutError".
	Name string
	// Cause is the original failure, if any. It may be an error, a raw
	// transport event, or a raw response value.
	Cause interface{}
	// Details holds any extra members of an error payload recovered
	// from a server response.
	Details map[string]interface{}
}

// New returns an Error with the given message and code.
func New(message string, code Code) *Error {
	return &Error{Message: message, Code: code}
}

// Wrap returns an UNKNOWN Error whose message is taken from cause.
func Wrap(cause error) *Error {
	return &Error{
		Message: cause.Error(),
		Code:    CodeUnknown,
		Cause:   cause,
	}
}

// NewAbort returns an abort Error. An empty reason produces
// DefaultAbortMessage.
func NewAbort(reason string) *Error {
	if reason == "" {
		reason = DefaultAbortMessage
	}
	return &Error{
		Message: reason,
		Code:    CodeAbort,
		Name:    "AbortError",
	}
}

// AsAbort classifies an arbitrary cancellation reason as an abort
// Error. An abort Error is returned unchanged.
func AsAbort(reason error) *Error {
	if reason == nil {
		return NewAbort("")
	}
	var e *Error
	if errors.As(reason, &e) && e.Code == CodeAbort {
		return e
	}
	a := NewAbort(reason.Error())
	a.Cause = reason
	return a
}

// WithCause sets the error cause and returns the error.
func (e *Error) WithCause(cause interface{}) *Error {
	e.Cause = cause
	return e
}

// WithName sets the error name and returns the error.
func (e *Error) WithName(name string) *Error {
	e.Name = name
	return e
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s: %s", e.Name, e.Message)
	}
	return e.Message
}

// Unwrap returns Cause if it is an error.
func (e *Error) Unwrap() error {
	if err, ok := e.Cause.(error); ok {
		return err
	}
	return nil
}

// HasCode reports whether err, or any error it wraps, is an *Error with
// the given code.
func HasCode(err error, code Code) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}
