// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package reqerr defines the error taxonomy shared by the reqx packages.

Every failure surfaced by the content-negotiation helper (reqx.RequestOnce)
and by the legacy request engine (package xhr) is an *Error carrying a
message, a Code, an optional Name, and the original failure as Cause.

	if reqerr.HasCode(err, reqerr.CodeAbort) {
		// the caller cancelled the request
	}

Structured error payloads received from a server (a JSON object with at
least "message" and "code" members) can be recovered with FromPayload.
*/
package reqerr
