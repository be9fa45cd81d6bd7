// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package reqx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"github.com/ohler55/ojg/oj"

	"github.com/gogama/reqx/netfail"
	"github.com/gogama/reqx/reqerr"
	"github.com/gogama/reqx/request"
)

// maxFormMemory is the amount of a multipart response kept in memory
// before file parts spill to temporary files.
const maxFormMemory = 32 << 20

// A ResponseType overrides how RequestOnce decodes a successful
// response body.
type ResponseType string

const (
	// ResponseTypeAuto decodes JSON and multipart form data when the
	// Content-Type says so, and text otherwise.
	ResponseTypeAuto ResponseType = ""
	// ResponseTypeJSON decodes the body as JSON.
	ResponseTypeJSON ResponseType = "json"
	// ResponseTypeFormData decodes the body into a *multipart.Form.
	ResponseTypeFormData ResponseType = "formdata"
	// ResponseTypeArrayBuffer yields the raw body as a []byte.
	ResponseTypeArrayBuffer ResponseType = "arraybuffer"
	// ResponseTypeBlob yields a *request.Blob.
	ResponseTypeBlob ResponseType = "blob"
	// ResponseTypeText yields the body as a string.
	ResponseTypeText ResponseType = "text"
)

// Init holds the optional request settings for RequestOnce.
type Init struct {
	// Method is the request method. The empty string means GET.
	Method string
	// Header holds the request headers.
	Header http.Header
	// Body is the request body. See request.BodyBytes for the
	// supported types.
	Body interface{}
	// ResponseType overrides response body decoding.
	ResponseType ResponseType
}

// A Result is the normalized outcome of RequestOnce. Exactly one of
// Data and Err is meaningful: Err is nil on success.
//
// Response and Header are set whenever an HTTP response was received
// and decoded, and are nil when the request failed in the network or
// when an unsuccessful JSON response was turned into an error. The
// response body has already been read and closed.
type Result[T any] struct {
	// Data is the decoded response body.
	Data T
	// Err is the classified failure, or nil.
	Err *reqerr.Error
	// Response is the HTTP response.
	Response *http.Response
	// Header is the HTTP response header.
	Header http.Header
}

// OK reports whether the result is a success.
func (r Result[T]) OK() bool {
	return r.Err == nil
}

// OnFulfilled, when passed to RequestOnce, fully determines the result
// of a successful response in place of default decoding. The response
// body is open while it runs and closed afterwards.
type OnFulfilled[T any] func(resp *http.Response) Result[T]

// RequestOnce makes exactly one request to input using d, and
// normalizes the outcome into a Result. It never returns a nil error
// for a failure: network errors, unsuccessful status codes and decoding
// problems are all reported through Result.Err.
//
// The input may be a string, a *url.URL, a url.URL or any fmt.Stringer.
// A nil init means a plain GET and a nil d means http.DefaultClient.
//
// A response with a status code from 200 to 399 is successful. If
// onFulfilled is not nil it produces the result. Otherwise the body is
// decoded as JSON if the Content-Type contains "application/json" or
// the response type is ResponseTypeJSON; as a *multipart.Form if the
// Content-Type contains "form-data" or the response type is
// ResponseTypeFormData; as []byte or *request.Blob if the response type
// asks for it; and as a string otherwise. The decoded value must be
// assignable to T.
//
// An unsuccessful JSON response is parsed as a structured error
// payload, whose message and code become the result's error. Any other
// unsuccessful response yields an UNKNOWN error whose message is the
// response body text or, if the body is empty, the status text.
func RequestOnce[T any](ctx context.Context, d HTTPDoer, input interface{}, init *Init, onFulfilled OnFulfilled[T]) Result[T] {
	if init == nil {
		init = &Init{}
	}
	if d == nil {
		d = http.DefaultClient
	}

	p, err := newPlan(input, init)
	if err != nil {
		return failure[T](err)
	}
	resp, err := d.Do(p.ToRequest(ctx))
	if err != nil {
		return failure[T](p.WrapErr(err))
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	contentType := resp.Header.Get("Content-Type")
	parseJSON := strings.Contains(contentType, "application/json") || init.ResponseType == ResponseTypeJSON
	parseFormData := strings.Contains(contentType, "form-data") || init.ResponseType == ResponseTypeFormData

	if ok(resp.StatusCode) {
		if onFulfilled != nil {
			return onFulfilled(resp)
		}
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return failure[T](p.WrapErr(err))
		}
		var data T
		switch {
		case parseJSON:
			data, err = decodeJSON[T](body)
		case parseFormData:
			var form *multipart.Form
			if form, err = decodeForm(contentType, body); err == nil {
				data, err = assign[T](form)
			}
		case init.ResponseType == ResponseTypeArrayBuffer:
			data, err = assign[T](body)
		case init.ResponseType == ResponseTypeBlob:
			data, err = assign[T](&request.Blob{Type: contentType, Data: body})
		default:
			data, err = assign[T](string(body))
		}
		if err != nil {
			return failure[T](err)
		}
		return Result[T]{Data: data, Response: resp, Header: resp.Header}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return failure[T](p.WrapErr(err))
	}

	if parseJSON {
		v, err := oj.Parse(body)
		if err != nil {
			return failure[T](err)
		}
		if e, ok := reqerr.FromPayload(v); ok {
			return Result[T]{Err: e}
		}
		return Result[T]{Err: reqerr.New(request.StatusText(resp), reqerr.CodeUnknown).WithCause(v)}
	}

	msg := string(body)
	if msg == "" {
		msg = request.StatusText(resp)
	}
	return Result[T]{
		Err:      reqerr.New(msg, reqerr.CodeUnknown),
		Response: resp,
		Header:   resp.Header,
	}
}

func ok(status int) bool {
	return status >= 200 && status < 400
}

func newPlan(input interface{}, init *Init) (*request.Plan, error) {
	u, err := request.FormatURL(input)
	if err != nil {
		return nil, err
	}
	p, err := request.NewPlan(init.Method, u)
	if err != nil {
		return nil, err
	}
	for name, values := range init.Header {
		for _, v := range values {
			p.Header.Add(name, v)
		}
	}
	if p.Body, err = request.BodyBytes(init.Body); err != nil {
		return nil, err
	}
	if ct := request.BodyContentType(init.Body); ct != "" && p.Header.Get("Content-Type") == "" {
		p.Header.Set("Content-Type", ct)
	}
	return p, nil
}

// failure classifies an error which prevented a response from being
// received or decoded.
func failure[T any](err error) Result[T] {
	var e *reqerr.Error
	if errors.As(err, &e) {
		return Result[T]{Err: e}
	}
	return Result[T]{Err: reqerr.Wrap(err).WithName(netfail.Classify(err).ErrorName())}
}

func assign[T any](v interface{}) (T, error) {
	t, ok := v.(T)
	if !ok {
		return t, fmt.Errorf("reqx: cannot decode %T response into %s", v, reflect.TypeOf((*T)(nil)).Elem())
	}
	return t, nil
}

// decodeJSON parses body into T. Generic values are produced as they
// come from the parser: maps, slices, strings, int64, float64, bool and
// nil.
func decodeJSON[T any](body []byte) (data T, err error) {
	if p, ok := interface{}(&data).(*interface{}); ok {
		*p, err = oj.Parse(body)
		return
	}
	err = oj.Unmarshal(body, &data)
	return
}

// decodeForm parses a multipart/form-data or URL-encoded form body.
func decodeForm(contentType string, body []byte) (*multipart.Form, error) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, fmt.Errorf("reqx: bad form content type: %w", err)
	}
	if mediaType == "application/x-www-form-urlencoded" {
		values, err := url.ParseQuery(string(body))
		if err != nil {
			return nil, err
		}
		return &multipart.Form{Value: values, File: map[string][]*multipart.FileHeader{}}, nil
	}
	boundary := params["boundary"]
	if !strings.HasPrefix(mediaType, "multipart/") || boundary == "" {
		return nil, fmt.Errorf("reqx: cannot decode %q as form data", mediaType)
	}
	return multipart.NewReader(bytes.NewReader(body), boundary).ReadForm(maxFormMemory)
}
