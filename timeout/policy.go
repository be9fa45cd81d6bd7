// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package timeout

import (
	"time"

	"github.com/gogama/reqx/request"
)

// A Policy defines a timeout policy which may be plugged into the
// event-driven transport to direct how to set the timeout for a send.
//
// Implementations of Policy must be safe for concurrent use by multiple
// goroutines.
type Policy interface {
	// Timeout returns the timeout to set on the send described by e.
	// The execution has its plan and start time set, but no request
	// or response.
	Timeout(e *request.Execution) time.Duration
}

// Infinite is a built-in timeout policy which never times out.
var Infinite Policy = policy(1<<63 - 1)

// DefaultPolicy is the default timeout policy. Like an XMLHttpRequest
// whose timeout is zero, it never times out.
var DefaultPolicy = Infinite

// Fixed constructs a timeout policy that uses the same value for every
// send. A non-positive d yields Infinite.
func Fixed(d time.Duration) Policy {
	if d <= 0 {
		return Infinite
	}
	return policy(d)
}

type policy time.Duration

func (p policy) Timeout(_ *request.Execution) time.Duration {
	return time.Duration(p)
}
