// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const badBodyTypeMsg = "reqx/request: invalid type (for body use nil, " +
	"string, []byte, url.Values, *Blob, io.Reader or io.ReadCloser)"

// BodyBytes converts a generic body parameter to a byte slice for use
// as a request plan body.
//
// The body parameter may be nil, or it may be a string, []byte,
// url.Values, *Blob, io.Reader, or io.ReadCloser. The conversion logic
// is:
//
// • If body is nil, a nil byte slice and no error is returned.
//
// • If body is a []byte, body itself and no error is returned.
//
// • If body is a string, the built-in conversion from string to byte
// slice, and no error, is returned.
//
// • If body is url.Values, its URL encoding is returned.
//
// • If body is a *Blob, its data is returned.
//
// • If body is an io.Reader or io.ReadCloser, the result of reading
// the whole contents of the reader (and closing it if it implements
// Closer) is returned. If reading from the reader (and closing it if
// applicable) causes an error, the return value is a nil byte slice
// and the error.
//
// • If body is any other type than those listed above, a nil byte slice
// and an error is returned.
func BodyBytes(body interface{}) ([]byte, error) {
	switch x := body.(type) {
	case nil:
		return nil, nil
	case string:
		return []byte(x), nil
	case []byte:
		return x, nil
	case url.Values:
		return []byte(x.Encode()), nil
	case *Blob:
		if x == nil {
			return nil, nil
		}
		return x.Data, nil
	case io.ReadCloser:
		b, err := io.ReadAll(x)
		if err != nil {
			return nil, err
		}
		err = x.Close()
		if err != nil {
			return nil, err
		}
		return b, nil
	case io.Reader:
		return BodyBytes(io.NopCloser(x))
	default:
		return nil, errors.New(badBodyTypeMsg)
	}
}

// BodyContentType returns the default Content-Type for a request body
// of the given type, or "" if there is none.
func BodyContentType(body interface{}) string {
	switch x := body.(type) {
	case string:
		return "text/plain;charset=UTF-8"
	case url.Values:
		return "application/x-www-form-urlencoded;charset=UTF-8"
	case *Blob:
		if x != nil {
			return x.Type
		}
	}
	return ""
}

// StatusText returns the reason phrase of an HTTP response: the text
// following the status code in resp.Status or, if there is none, the
// standard text for the code.
func StatusText(resp *http.Response) string {
	code := strconv.Itoa(resp.StatusCode)
	if text := strings.TrimSpace(strings.TrimPrefix(resp.Status, code)); text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}
