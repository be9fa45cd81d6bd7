// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package timeout defines policies for setting the timeout of a single
// send made by the event-driven transport. A generic interface for
// timeout policies is provided, Policy, along with the built-in
// policies Infinite and Fixed.
package timeout
