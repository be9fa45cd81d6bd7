// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package nethttp implements xhr.Transport on top of net/http.

A Transport sends each request through a Doer, typically an
*http.Client, on its own goroutine, and reports progress through the
readystatechange and progress events an xhr.Engine listens for. Response
bodies are decompressed (gzip, deflate and br) and decoded according to
the configured response type: text is converted to UTF-8 using the
Content-Type charset, JSON is parsed generically, and documents are
parsed as HTML or XML.

Use Factory to plug the transport into an engine:

	x := xhr.New(xhr.Options{
		URL:       "https://example.com",
		Transport: nethttp.Factory(http.DefaultClient, nil),
	})
*/
package nethttp
