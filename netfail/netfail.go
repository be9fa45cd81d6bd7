// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package netfail

import (
	"context"
	"errors"
	"strconv"
	"syscall"
)

// A Kind is the classification of a request failure, as reported by
// function Classify().
type Kind int

const (
	// Other indicates a nil error or one which fits no other kind.
	Other Kind = iota
	// Canceled indicates the request's context was canceled, which is
	// how an aborted request ends.
	//
	// Classify returns Canceled if the error or any of its wrapped
	// causes is context.Canceled.
	Canceled
	// Timeout indicates a deadline passed before the request completed.
	//
	// Classify returns Timeout if the error is not Canceled and the
	// error or any of its wrapped causes is context.DeadlineExceeded or
	// has a Timeout() function that reports true.
	Timeout
	// ConnRefused indicates the remote host refused the connection
	// (POSIX ECONNREFUSED).
	ConnRefused
	// ConnReset indicates the remote host reset a previously active
	// connection (POSIX ECONNRESET).
	ConnReset
)

var kindNames = []string{
	"Other",
	"Canceled",
	"Timeout",
	"ConnRefused",
	"ConnReset",
}

var errorNames = []string{
	"",
	"AbortError",
	"TimeoutError",
	"ConnectionRefusedError",
	"ConnectionResetError",
}

// String returns the name of the kind.
func (k Kind) String() string {
	if !k.valid() {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// ErrorName returns the conventional error name for failures of this
// kind, or "" for Other.
func (k Kind) ErrorName() string {
	if !k.valid() {
		return ""
	}
	return errorNames[k]
}

func (k Kind) valid() bool {
	return k >= 0 && int(k) < len(kindNames)
}

// Classify returns the kind of the given error, looking through
// wrapped causes. Cancellation takes precedence over a timeout, which
// in turn takes precedence over a connection error.
func Classify(err error) Kind {
	if err == nil {
		return Other
	}

	if errors.Is(err, context.Canceled) {
		return Canceled
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return Timeout
	}
	var t timeout
	if errors.As(err, &t) && t.Timeout() {
		return Timeout
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ECONNRESET:
			return ConnReset
		case syscall.ECONNREFUSED:
			return ConnRefused
		}
	}

	return Other
}

type timeout interface {
	Timeout() bool
}
