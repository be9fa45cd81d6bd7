// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package reqx provides a unified HTTP request abstraction with consistent
result and event contracts.

For a single request whose body is decoded according to its content
type, use RequestOnce. Every outcome, including network failures and
unsuccessful status codes, comes back as a Result:

	r := reqx.RequestOnce[map[string]interface{}](ctx, nil, "https://example.com/api", nil, nil)
	if !r.OK() {
		log.Printf("%s (%s)", r.Err.Message, r.Err.Code)
		...
	}

For control over how requests are sent, use a custom HTTPDoer, for
example a GoLang standard HTTP client, and a Client:

	client := &reqx.Client{
		HTTPDoer: &http.Client{Timeout: 10 * time.Second},
	}
	r := client.RequestOnce(ctx, "https://example.com/api", &reqx.Init{
		Method:       "POST",
		Body:         url.Values{"id": {"123"}},
		ResponseType: reqx.ResponseTypeJSON,
	})

For an event-driven lifecycle with progress reporting and cancellation,
create an engine (see package xhr):

	x := client.NewEngine(xhr.Options{URL: "https://example.com/big"})
	x.OnProgress(xhr.EventProgress, func(ev *xhr.Event, _ *xhr.Engine) {
		log.Printf("%d/%d", ev.Loaded, ev.Total)
	})
	x.OnSuccess(func(response interface{}, _ *xhr.Engine) {
		...
	})
	x.Init().Send()
	...
	x.Abort("no longer needed")

Errors reported by every part of the package are *reqerr.Error values
classified by a reqerr.Code.
*/
package reqx
