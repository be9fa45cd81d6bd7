// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package xhr

import (
	"github.com/ohler55/ojg/oj"

	"github.com/gogama/reqx/reqerr"
	"github.com/gogama/reqx/request"
)

// errorFromResponse recovers a structured error payload from a response
// decoded with the given response type. It returns nil if there is no
// payload.
//
// A JSON response is inspected directly. Text, byte and blob responses
// are parsed as JSON first. Documents never carry a payload.
func errorFromResponse(rt ResponseType, response interface{}) *reqerr.Error {
	switch rt {
	case ResponseTypeDocument:
		return nil
	case ResponseTypeJSON:
		if err, ok := reqerr.FromPayload(response); ok {
			return err
		}
		return nil
	}

	var text string
	switch r := response.(type) {
	case string:
		text = r
	case []byte:
		text = string(r)
	case *request.Blob:
		if r == nil {
			return nil
		}
		text = r.Text()
	default:
		return nil
	}
	v, err := oj.ParseString(text)
	if err != nil {
		return nil
	}
	if e, ok := reqerr.FromPayload(v); ok {
		return e
	}
	return nil
}
