// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package xhr

import "strings"

// contentTypeToResponseType maps a Content-Type header value to the
// response type best suited to decode it. An empty content type maps to
// ResponseTypeDefault.
func contentTypeToResponseType(contentType string) ResponseType {
	if contentType == "" {
		return ResponseTypeDefault
	}
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "text/html"), strings.Contains(ct, "application/xml"):
		return ResponseTypeDocument
	case strings.Contains(ct, "application/json"):
		return ResponseTypeJSON
	case strings.Contains(ct, "application/octet-stream"):
		return ResponseTypeArrayBuffer
	case strings.HasPrefix(ct, "image/"), strings.HasPrefix(ct, "video/"):
		return ResponseTypeBlob
	}
	return ResponseTypeText
}

// setResponseTypeFromResponseHeaders applies the inferred response type
// to the transport. It does nothing once the transport is Loading or
// Done, since the response type is then fixed.
func (x *Engine) setResponseTypeFromResponseHeaders() {
	rs := x.request.ReadyState()
	if rs == Loading || rs == Done {
		return
	}
	ct, _ := x.GetResponseContentType()
	rt := contentTypeToResponseType(ct)
	if err := x.request.SetResponseType(rt); err != nil {
		x.log("Failed to set XMLHttpRequest.responseType.", "error", err)
		return
	}
	x.log("Set XMLHttpRequest.responseType from Content-Type Response Headers.",
		"contentType", ct,
		"responseType", string(x.request.ResponseType()))
}
