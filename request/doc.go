// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package request contains the request-side building blocks shared by the
reqx packages.

Plan describes one HTTP request being prepared by an event-driven
transport: its method, URL, headers, optional basic-auth credentials and
a pre-buffered body. A transport converts a Plan into a net/http
request when it is sent:

	p, err := request.NewPlan("POST", "https://example.com/upload")
	...
	p.Header.Set("Content-Type", "application/json")
	p.Body, err = request.BodyBytes(body)
	...
	r := p.ToRequest(ctx)

Execution records the state of one send of a Plan: the request actually
made, the response and buffered body received, any error, and the start
and end times.

Headers is the normalized, case-insensitive and ordered header
collection used to configure requests, and FormatURL is the URL
formatting collaborator which turns URL-like inputs into canonical
strings.

Blob and Document are the response value types produced for the
"blob" and "document" response types.
*/
package request
