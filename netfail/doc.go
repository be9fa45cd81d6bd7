// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package netfail classifies the errors which end an HTTP request
// before a response is received and read.
//
// The event-driven transport uses the classification to choose between
// its "abort", "timeout" and "error" progress events, and the
// content-negotiation helper uses it to name the errors it reports.
//
// Package netfail depends only on the standard library.
package netfail
