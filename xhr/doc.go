// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package xhr provides Engine, an event-driven HTTP request wrapper with an
XMLHttpRequest-style lifecycle.

An Engine owns one Transport (the underlying request object) and drives
it through the UNSENT, OPENED, HEADERS_RECEIVED, LOADING and DONE ready
states. Results are delivered through events rather than return values:

	x := xhr.New(xhr.Options{
		URL:       "https://example.com/api/items",
		Transport: nethttp.Factory(nil),
	})
	x.OnSuccess(func(response interface{}, x *xhr.Engine) {
		...
	})
	x.OnError(func(err *reqerr.Error, x *xhr.Engine) {
		...
	})
	x.Init().Send()

Exactly one of the terminal events "success", "error" or "abort" fires
for each completed send. A failure is never returned or thrown across
the fluent API: it is emitted as an "error" event carrying a
*reqerr.Error.

Unless a response type is configured, the engine infers it from the
Content-Type response header until the transport starts loading the
body. Unsuccessful responses are inspected for a structured error
payload (a JSON object with "message" and "code" members) whatever the
response type, and reported with the payload's message and code.

If Options.Transport is nil the host has no event-driven transport: the
engine is still usable but every operation emits an "error" event with
code reqerr.CodeXHRNotAvailable and has no other effect.

Cancellation uses an abort.Handle. Init arms a fresh handle when the
previous one has fired, Abort triggers it, and the transport is aborted
at most once per armed handle.
*/
package xhr
