// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package xhr

import (
	"errors"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogama/reqx/abort"
	"github.com/gogama/reqx/events"
	"github.com/gogama/reqx/reqerr"
	"github.com/gogama/reqx/request"
)

const testURL = "http://127.0.0.1:3000"

func TestNew(t *testing.T) {
	t.Run("bare minimum", testNewBareMinimum)
	t.Run("custom options", testNewCustomOptions)
}

func TestEngine_Unavailable(t *testing.T) {
	x := New(Options{URL: testURL})
	var errs []*reqerr.Error
	x.OnError(func(err *reqerr.Error, _ *Engine) {
		errs = append(errs, err)
	})

	assert.False(t, x.Available())
	assert.Nil(t, x.Transport())

	steps := []struct {
		name string
		op   func()
	}{
		{"init", func() { x.Init() }},
		{"send", func() { x.Send() }},
		{"abort", func() { x.Abort("") }},
		{"getResponse", func() { assert.Nil(t, x.GetResponse()) }},
		{"setHeaders", x.setHeaders},
		{"addProgressListeners", x.addProgressListeners},
		{"bindReadyStateListener", x.bindReadyStateListener},
	}
	for i, step := range steps {
		t.Run(step.name, func(t *testing.T) {
			step.op()
			require.Len(t, errs, i+1)
			assert.Equal(t, reqerr.CodeXHRNotAvailable, errs[i].Code)
			assert.Equal(t, "XMLHttpRequest not available", errs[i].Message)
		})
	}

	assert.Equal(t, Unsent, x.ReadyState())
	assert.Equal(t, 0, x.Status())
	_, ok := x.GetResponseHeader("Content-Type")
	assert.False(t, ok)
}

func TestEngine_Init(t *testing.T) {
	t.Run("emits init first", testEngineInitEmitsInitFirst)
	t.Run("opens request", testEngineInitOpensRequest)
	t.Run("sets headers", testEngineInitSetsHeaders)
	t.Run("rebinds listeners", testEngineInitRebindsListeners)
	t.Run("loadend once", testEngineInitLoadEndOnce)
	t.Run("invalid URL", testEngineInitInvalidURL)
	t.Run("controller", testEngineInitController)
}

func TestEngine_Send(t *testing.T) {
	t.Run("emits send", testEngineSendEmitsSend)
	t.Run("not opened", testEngineSendNotOpened)
	t.Run("twice without init", testEngineSendTwice)
	t.Run("unknown error", testEngineSendUnknownError)
}

func TestEngine_Abort(t *testing.T) {
	t.Run("cancels transport", testEngineAbortCancelsTransport)
	t.Run("idempotent", testEngineAbortIdempotent)
	t.Run("re-init", testEngineAbortReInit)
	t.Run("default reason", testEngineAbortDefaultReason)
	t.Run("external signal", testEngineAbortExternalSignal)
	t.Run("external signal unavailable", testEngineAbortExternalSignalUnavailable)
}

func TestEngine_ReadyStateChange(t *testing.T) {
	t.Run("infers response type", testEngineReadyStateInfers)
	t.Run("no content type", testEngineReadyStateNoContentType)
	t.Run("explicit response type", testEngineReadyStateExplicit)
	t.Run("locked once loading", testEngineReadyStateLocked)
	t.Run("caches response", testEngineReadyStateCachesResponse)
	t.Run("logs when debug", testEngineReadyStateLogs)
	t.Run("silent without debug", testEngineReadyStateSilent)
}

func TestEngine_ProgressEventHandler(t *testing.T) {
	t.Run("re-emits", testEngineProgressReEmits)
	t.Run("error", testEngineProgressError)
	t.Run("logs", testEngineProgressLogs)
}

func TestEngine_LoadEnd(t *testing.T) {
	testCases := []struct {
		name        string
		status      int
		contentType string
		response    interface{}
		wantSuccess bool
		wantMessage string
		wantCode    reqerr.Code
		wantCause   interface{}
	}{
		{
			name:        "success",
			status:      200,
			contentType: "application/json",
			response:    map[string]interface{}{"message": true},
			wantSuccess: true,
		},
		{
			name:        "redirect is success",
			status:      304,
			response:    "",
			wantSuccess: true,
		},
		{
			name:        "JSON payload",
			status:      400,
			contentType: "application/json; charset=utf-8",
			response:    map[string]interface{}{"message": "Invalid request", "code": "ERR:BAD"},
			wantMessage: "Invalid request",
			wantCode:    "ERR:BAD",
		},
		{
			name:        "text payload",
			status:      500,
			contentType: "text/plain",
			response:    `{"message":"Boom","code":"ERR:BOOM"}`,
			wantMessage: "Boom",
			wantCode:    "ERR:BOOM",
		},
		{
			name:        "plain text",
			status:      500,
			contentType: "text/plain",
			response:    "Internal",
			wantMessage: "Error from the server.",
			wantCode:    reqerr.CodeUnknown,
			wantCause:   "Internal",
		},
		{
			name:        "JSON without payload",
			status:      422,
			contentType: "application/json",
			response:    map[string]interface{}{"detail": "nope"},
			wantMessage: "Error from the server.",
			wantCode:    reqerr.CodeUnknown,
			wantCause:   map[string]interface{}{"detail": "nope"},
		},
		{
			name:        "document",
			status:      404,
			contentType: "application/xml",
			response:    &request.Document{},
			wantMessage: "Error from the server.",
			wantCode:    reqerr.CodeUnknown,
			wantCause:   &request.Document{},
		},
		{
			name:        "informational status below 100",
			status:      99,
			response:    "",
			wantMessage: "Error from the server.",
			wantCode:    reqerr.CodeUnknown,
			wantCause:   "",
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			f := newFakeTransport()
			f.status = testCase.status
			f.response = testCase.response
			if testCase.contentType != "" {
				f.responseHeaders["Content-Type"] = testCase.contentType
			}
			x := New(Options{URL: testURL, Transport: f.factory()})
			var successes []interface{}
			var errs []*reqerr.Error
			x.OnSuccess(func(response interface{}, _ *Engine) {
				successes = append(successes, response)
			})
			x.OnError(func(err *reqerr.Error, _ *Engine) {
				errs = append(errs, err)
			})

			x.Init().Send()

			if testCase.wantSuccess {
				assert.Empty(t, errs)
				require.Len(t, successes, 1)
				assert.Equal(t, testCase.response, successes[0])
				return
			}
			assert.Empty(t, successes)
			require.Len(t, errs, 1)
			assert.Equal(t, testCase.wantMessage, errs[0].Message)
			assert.Equal(t, testCase.wantCode, errs[0].Code)
			if testCase.wantCause != nil {
				assert.Equal(t, testCase.wantCause, errs[0].Cause)
			}
		})
	}

	t.Run("no status", func(t *testing.T) {
		f := newFakeTransport()
		f.status = 0
		x := New(Options{URL: testURL, Transport: f.factory()})
		var n int
		x.OnSuccess(func(interface{}, *Engine) { n++ })
		x.OnError(func(*reqerr.Error, *Engine) { n++ })

		x.Init().Send()

		assert.Equal(t, 0, n)
	})
	t.Run("panic while classifying", func(t *testing.T) {
		f := newFakeTransport()
		f.panicOn = "status"
		x := New(Options{URL: testURL, Transport: f.factory()})
		var errs []*reqerr.Error
		x.OnError(func(err *reqerr.Error, _ *Engine) {
			errs = append(errs, err)
		})

		x.Init().Send()

		require.Len(t, errs, 1)
		assert.Equal(t, reqerr.CodeUnknown, errs[0].Code)
		assert.Equal(t, "status exploded", errs[0].Message)
	})
	t.Run("panic in success listener", func(t *testing.T) {
		f := newFakeTransport()
		x := New(Options{URL: testURL, Transport: f.factory()})
		var errs []*reqerr.Error
		x.OnSuccess(func(interface{}, *Engine) { panic("listener exploded") })
		x.OnError(func(err *reqerr.Error, _ *Engine) {
			errs = append(errs, err)
		})

		x.Init().Send()

		require.Len(t, errs, 1)
		assert.Equal(t, "listener exploded", errs[0].Message)
	})
}

func testNewBareMinimum(t *testing.T) {
	f := newFakeTransport()
	x := New(Options{URL: testURL, Transport: f.factory()})

	assert.True(t, x.Available())
	assert.Same(t, f, x.Transport())
	assert.Equal(t, testURL, x.URL())
	assert.Equal(t, "GET", x.Method())
	assert.Nil(t, x.Body())
	assert.Nil(t, x.Credentials())
	require.NotNil(t, x.Headers())
	assert.Equal(t, 0, x.Headers().Len())
	assert.True(t, x.autoInfer())
	assert.False(t, x.Debug())
	assert.NotNil(t, x.Controller())
	assert.Nil(t, x.Response())
	assert.Equal(t, ResponseTypeDefault, f.responseType)
	assert.False(t, f.withCredentials)
	assert.Equal(t, time.Duration(0), f.timeout)
}

func testNewCustomOptions(t *testing.T) {
	f := newFakeTransport()
	creds := &Credentials{Username: "username", Password: "password"}
	x := New(Options{
		URL:             testURL,
		Method:          "POST",
		Body:            `{"key":"value"}`,
		Credentials:     creds,
		Debug:           true,
		Logger:          slog.New(&recordHandler{}),
		Headers:         http.Header{"Content-Type": {"application/json"}},
		ResponseType:    ResponseTypeJSON,
		WithCredentials: true,
		Timeout:         5 * time.Second,
		Transport:       f.factory(),
	})

	assert.Equal(t, "POST", x.Method())
	assert.Equal(t, `{"key":"value"}`, x.Body())
	assert.Same(t, creds, x.Credentials())
	assert.True(t, x.Debug())
	ct, ok := x.Headers().Get("content-type")
	assert.True(t, ok)
	assert.Equal(t, "application/json", ct)
	x.Headers().Set("Content-Type", "text/plain")
	ct, _ = x.Headers().Get("content-type")
	assert.Equal(t, "application/json", ct)
	assert.False(t, x.autoInfer())
	assert.Equal(t, ResponseTypeJSON, f.responseType)
	assert.True(t, f.withCredentials)
	assert.Equal(t, 5*time.Second, f.timeout)
}

func testEngineInitEmitsInitFirst(t *testing.T) {
	f := newFakeTransport()
	x := New(Options{URL: testURL, Transport: f.factory()})
	var got *Engine
	var openCount int
	x.OnInit(func(e *Engine) {
		got = e
		openCount = f.openCount
	})

	x.Init()

	assert.Same(t, x, got)
	assert.Equal(t, 0, openCount)
	assert.Equal(t, 1, f.openCount)
}

func testEngineInitOpensRequest(t *testing.T) {
	f := newFakeTransport()
	creds := &Credentials{Username: "u", Password: "p"}
	x := New(Options{URL: testURL + "/path", Method: "PUT", Credentials: creds, Transport: f.factory()})

	x.Init()

	assert.Equal(t, "PUT", f.openMethod)
	assert.Equal(t, testURL+"/path", f.openURL)
	assert.True(t, f.openAsync)
	assert.Same(t, creds, f.openCreds)
	assert.Equal(t, Opened, x.ReadyState())
}

func testEngineInitSetsHeaders(t *testing.T) {
	f := newFakeTransport()
	x := New(Options{
		URL:       testURL,
		Headers:   http.Header{"Authorization": {"Bearer token"}, "X-Multi": {"a", "b"}},
		Transport: f.factory(),
	})

	x.Init()

	assert.Equal(t, [][2]string{
		{"authorization", "Bearer token"},
		{"x-multi", "a, b"},
	}, f.headers)
}

func testEngineInitRebindsListeners(t *testing.T) {
	f := newFakeTransport()
	x := New(Options{URL: testURL, Transport: f.factory()})

	x.Init()
	x.Init()

	names := append(ProgressEvents(), EventReadyStateChange)
	for _, name := range names {
		assert.Equal(t, 2, f.added[name], "added %s", name)
		assert.Equal(t, 1, f.removed[name], "removed %s", name)
		assert.Equal(t, 1, f.emitter.ListenerCount(name), "listeners %s", name)
	}
	assert.Equal(t, 1, x.ListenerCount(EventLoadEnd))
}

func testEngineInitLoadEndOnce(t *testing.T) {
	f := newFakeTransport()
	x := New(Options{URL: testURL, Transport: f.factory()})
	var loadEnds, successes int
	x.OnProgress(EventLoadEnd, func(ev *Event, e *Engine) {
		assert.Equal(t, EventLoadEnd, ev.Type)
		assert.Same(t, x, e)
		loadEnds++
	})
	x.OnSuccess(func(interface{}, *Engine) { successes++ })

	x.Init()
	f.dispatch(EventLoadEnd)
	f.dispatch(EventLoadEnd)

	assert.Equal(t, 2, loadEnds)
	assert.Equal(t, 1, successes)
}

func testEngineInitInvalidURL(t *testing.T) {
	f := newFakeTransport()
	x := New(Options{URL: 42, Transport: f.factory()})
	var errs []*reqerr.Error
	x.OnError(func(err *reqerr.Error, _ *Engine) {
		errs = append(errs, err)
	})

	x.Init()

	require.Len(t, errs, 1)
	assert.Equal(t, reqerr.CodeUnknown, errs[0].Code)
	assert.Equal(t, 0, f.openCount)
}

func testEngineInitController(t *testing.T) {
	t.Run("keeps unfired", func(t *testing.T) {
		f := newFakeTransport()
		x := New(Options{URL: testURL, Transport: f.factory()})
		prev := x.Controller()

		x.Init()

		assert.Same(t, prev, x.Controller())
	})
	t.Run("replaces with supplied", func(t *testing.T) {
		f := newFakeTransport()
		x := New(Options{URL: testURL, Transport: f.factory()})
		prev := x.Controller()
		c := abort.New()

		x.InitWithController(c)

		assert.NotSame(t, prev, x.Controller())
		assert.Same(t, c, x.Controller())
	})
	t.Run("initial from options", func(t *testing.T) {
		f := newFakeTransport()
		c := abort.New()
		x := New(Options{URL: testURL, Controller: c, Transport: f.factory()})

		assert.Same(t, c, x.Controller())
	})
	t.Run("replaces fired", func(t *testing.T) {
		f := newFakeTransport()
		x := New(Options{URL: testURL, Transport: f.factory()})
		prev := x.Controller()

		x.Abort("").Init()

		assert.NotSame(t, prev, x.Controller())
		assert.False(t, x.Controller().Signal().Aborted())
	})
}

func testEngineSendEmitsSend(t *testing.T) {
	f := newFakeTransport()
	x := New(Options{URL: testURL, Body: "hello", Transport: f.factory()})
	var got []*Engine
	x.OnSend(func(e *Engine) { got = append(got, e) })

	x.Init().Send()

	require.Len(t, got, 1)
	assert.Same(t, x, got[0])
	assert.Equal(t, "hello", f.sentBody)
}

func testEngineSendNotOpened(t *testing.T) {
	f := newFakeTransport()
	x := New(Options{URL: testURL, Transport: f.factory()})
	var errs []*reqerr.Error
	var sends int
	x.OnSend(func(*Engine) { sends++ })
	x.OnError(func(err *reqerr.Error, e *Engine) {
		assert.Equal(t, Unsent, e.ReadyState())
		errs = append(errs, err)
	})

	x.Send()

	require.Len(t, errs, 1)
	assert.Equal(t, reqerr.CodeXHRInvalidState, errs[0].Code)
	assert.True(t, errors.Is(errs[0], ErrInvalidState))
	assert.Equal(t, 0, sends)
}

func testEngineSendTwice(t *testing.T) {
	f := newFakeTransport()
	x := New(Options{URL: testURL, Transport: f.factory()})
	var errs []*reqerr.Error
	var successes int
	x.OnSuccess(func(interface{}, *Engine) { successes++ })
	x.OnError(func(err *reqerr.Error, e *Engine) {
		assert.Equal(t, Unsent, e.ReadyState())
		errs = append(errs, err)
	})

	x.Init()
	x.Send()
	x.Send()

	assert.Equal(t, 1, successes)
	require.Len(t, errs, 1)
	assert.Equal(t, reqerr.CodeXHRInvalidState, errs[0].Code)
	assert.Equal(t, 2, f.sendCount)
}

func testEngineSendUnknownError(t *testing.T) {
	f := newFakeTransport()
	f.sendErr = errors.New("Unknown error")
	x := New(Options{URL: testURL, Transport: f.factory()})
	var errs []*reqerr.Error
	x.OnError(func(err *reqerr.Error, e *Engine) {
		assert.Same(t, x, e)
		errs = append(errs, err)
	})

	x.Init().Send()

	require.Len(t, errs, 1)
	assert.Equal(t, reqerr.CodeUnknown, errs[0].Code)
	assert.Equal(t, "Unknown error", errs[0].Message)
	assert.Same(t, f.sendErr, errs[0].Cause)
}

type countingHandle struct {
	*abort.Controller
	aborts int
}

func (h *countingHandle) Abort(reason error) {
	h.aborts++
	h.Controller.Abort(reason)
}

func testEngineAbortCancelsTransport(t *testing.T) {
	f := newFakeTransport()
	x := New(Options{URL: testURL, Transport: f.factory()})
	var reasons []*reqerr.Error
	x.OnAbort(func(err *reqerr.Error, ev *Event, e *Engine) {
		assert.Equal(t, EventAbort, ev.Type)
		assert.Same(t, x, e)
		reasons = append(reasons, err)
	})

	x.Init().Send()
	x.Abort("Custom abort reason")

	assert.Equal(t, 1, f.abortCount)
	require.Len(t, reasons, 1)
	assert.Equal(t, "Custom abort reason", reasons[0].Message)
	assert.Equal(t, reqerr.CodeAbort, reasons[0].Code)
	assert.True(t, x.Controller().Signal().Aborted())
}

func testEngineAbortIdempotent(t *testing.T) {
	f := newFakeTransport()
	h := &countingHandle{Controller: abort.New()}
	logs := &recordHandler{}
	x := New(Options{URL: testURL, Debug: true, Logger: slog.New(logs), Transport: f.factory()})
	var aborts int
	x.OnAbort(func(*reqerr.Error, *Event, *Engine) { aborts++ })

	x.InitWithController(h).Send()
	x.Abort("Custom abort reason")
	x.Abort("Abort again")

	assert.Equal(t, 2, h.aborts)
	assert.Equal(t, 1, f.abortCount)
	assert.Equal(t, 1, aborts)
	n := 0
	for _, msg := range logs.messages() {
		if msg == "The user aborted the request" {
			n++
		}
	}
	assert.Equal(t, 1, n)
	assert.Equal(t, "Custom abort reason", reqerr.AsAbort(h.Signal().Reason()).Message)
}

func testEngineAbortReInit(t *testing.T) {
	f := newFakeTransport()
	x := New(Options{URL: testURL, Transport: f.factory()})
	var reasons []string
	x.OnAbort(func(err *reqerr.Error, _ *Event, _ *Engine) {
		reasons = append(reasons, err.Message)
	})

	x.Init()
	first := x.Controller()
	x.Abort("first")
	x.Init()
	second := x.Controller()
	x.Abort("second")

	assert.NotSame(t, first, second)
	assert.Equal(t, 2, f.abortCount)
	assert.Equal(t, []string{"first", "second"}, reasons)
}

func testEngineAbortDefaultReason(t *testing.T) {
	f := newFakeTransport()
	x := New(Options{URL: testURL, Transport: f.factory()})
	var reasons []*reqerr.Error
	x.OnAbort(func(err *reqerr.Error, _ *Event, _ *Engine) {
		reasons = append(reasons, err)
	})

	x.Init().Abort("")

	require.Len(t, reasons, 1)
	assert.Equal(t, reqerr.DefaultAbortMessage, reasons[0].Message)
	assert.Equal(t, "AbortError", reasons[0].Name)
}

func testEngineAbortExternalSignal(t *testing.T) {
	f := newFakeTransport()
	ext := abort.New()
	x := New(Options{URL: testURL, Signal: ext.Signal(), Transport: f.factory()})
	var reasons []*reqerr.Error
	x.OnAbort(func(err *reqerr.Error, _ *Event, _ *Engine) {
		reasons = append(reasons, err)
	})

	x.Init()
	shutdown := errors.New("shutdown")
	ext.Abort(shutdown)

	assert.Equal(t, 1, f.abortCount)
	require.Len(t, reasons, 1)
	assert.Equal(t, reqerr.CodeAbort, reasons[0].Code)
	assert.Equal(t, "shutdown", reasons[0].Message)
	assert.Same(t, shutdown, reasons[0].Cause)
}

func testEngineAbortExternalSignalUnavailable(t *testing.T) {
	ext := abort.New()
	x := New(Options{URL: testURL, Signal: ext.Signal()})
	var errs []*reqerr.Error
	x.OnError(func(err *reqerr.Error, _ *Engine) {
		errs = append(errs, err)
	})
	var aborts int
	x.OnAbort(func(*reqerr.Error, *Event, *Engine) {
		aborts++
	})

	ext.Abort(errors.New("shutdown"))

	require.Len(t, errs, 1)
	assert.Equal(t, reqerr.CodeXHRNotAvailable, errs[0].Code)
	assert.Equal(t, "XMLHttpRequest not available", errs[0].Message)
	assert.Equal(t, 0, aborts)
}

func testEngineReadyStateInfers(t *testing.T) {
	f := newFakeTransport()
	f.responseHeaders["Content-Type"] = "application/json"
	x := New(Options{URL: testURL, Transport: f.factory()})

	x.Init().Send()

	assert.Equal(t, ResponseTypeJSON, f.responseType)
}

func testEngineReadyStateNoContentType(t *testing.T) {
	f := newFakeTransport()
	f.responseType = ResponseTypeText
	x := New(Options{URL: testURL, Transport: f.factory()})

	x.Init().Send()

	assert.Equal(t, ResponseTypeDefault, f.responseType)
}

func testEngineReadyStateExplicit(t *testing.T) {
	f := newFakeTransport()
	f.responseHeaders["Content-Type"] = "application/json"
	x := New(Options{URL: testURL, ResponseType: ResponseTypeBlob, Transport: f.factory()})

	x.Init().Send()

	assert.Equal(t, ResponseTypeBlob, f.responseType)
}

func testEngineReadyStateLocked(t *testing.T) {
	for _, rs := range []ReadyState{Loading, Done} {
		t.Run(rs.String(), func(t *testing.T) {
			f := newFakeTransport()
			f.responseHeaders["Content-Type"] = "application/json"
			f.responseType = ResponseTypeText
			f.readyState = rs
			x := New(Options{URL: testURL, Transport: f.factory()})

			x.readyStateChangeHandler(&Event{Type: EventReadyStateChange})

			assert.Equal(t, ResponseTypeText, f.responseType)
		})
	}
}

func testEngineReadyStateCachesResponse(t *testing.T) {
	f := newFakeTransport()
	f.response = "cached"
	x := New(Options{URL: testURL, Transport: f.factory()})
	var seen []interface{}
	x.OnReadyStateChange(func(ev *Event, e *Engine) {
		assert.Equal(t, EventReadyStateChange, ev.Type)
		seen = append(seen, e.Response())
	})

	assert.Nil(t, x.Response())
	x.Init().Send()

	assert.Equal(t, "cached", x.Response())
	assert.Equal(t, []interface{}{"cached", "cached", "cached"}, seen)
}

func testEngineReadyStateLogs(t *testing.T) {
	f := newFakeTransport()
	logs := &recordHandler{}
	x := New(Options{
		URL:          testURL,
		Debug:        true,
		Logger:       slog.New(logs),
		ResponseType: ResponseTypeJSON,
		Transport:    f.factory(),
	})
	start := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
	f.execution = &request.Execution{Start: start, End: start.Add(1500 * time.Millisecond)}

	for _, rs := range []ReadyState{Unsent, Opened, HeadersReceived, Loading, Done} {
		f.readyState = rs
		x.readyStateChangeHandler(&Event{Type: EventReadyStateChange})
	}

	assert.Equal(t, []string{
		"Request unsent",
		"Request opened",
		"Request headers received",
		"Request loading",
		"Request done",
	}, logs.messages())
	rec := logs.records[2]
	assert.Equal(t, "Xhr", rec.attrs["class"])
	assert.Equal(t, "readystatechange", rec.attrs["event"])
	assert.Equal(t, "HEADERS_RECEIVED", rec.attrs["readyState"])
	assert.Equal(t, int64(200), rec.attrs["status"])
	assert.NotContains(t, rec.attrs, "duration")
	assert.Equal(t, 1500*time.Millisecond, logs.records[4].attrs["duration"])
}

func testEngineReadyStateSilent(t *testing.T) {
	f := newFakeTransport()
	f.responseHeaders["Content-Type"] = "text/plain"
	logs := &recordHandler{}
	x := New(Options{URL: testURL, Logger: slog.New(logs), Transport: f.factory()})

	x.Init().Send()
	x.log("Test log")

	assert.Empty(t, logs.messages())

	x.SetDebug(true)
	x.log("Test log")

	require.Len(t, logs.records, 1)
	assert.Equal(t, "Test log", logs.records[0].msg)
	assert.Equal(t, "Xhr", logs.records[0].attrs["class"])
	assert.NotEmpty(t, logs.records[0].attrs["lifecycle"])
}

func testEngineProgressReEmits(t *testing.T) {
	for _, name := range []events.Name{EventLoadStart, EventProgress, EventLoad, EventLoadEnd, EventTimeout} {
		t.Run(string(name), func(t *testing.T) {
			f := newFakeTransport()
			x := New(Options{URL: testURL, Transport: f.factory()})
			var got []interface{}
			x.On(name, func(args ...interface{}) { got = args })
			ev := &Event{Type: name, Loaded: 100, Total: 200, LengthComputable: true}

			x.progressEventHandler(ev)

			require.Len(t, got, 2)
			assert.Same(t, ev, got[0])
			assert.Same(t, x, got[1])
		})
	}
}

func testEngineProgressError(t *testing.T) {
	f := newFakeTransport()
	x := New(Options{URL: testURL, Transport: f.factory()})
	var errs []*reqerr.Error
	x.OnError(func(err *reqerr.Error, e *Engine) {
		assert.Same(t, x, e)
		errs = append(errs, err)
	})
	ev := &Event{Type: EventError}

	x.Init()
	f.dispatchEvent(ev)

	require.Len(t, errs, 1)
	assert.Equal(t, "ProgressEvent Error", errs[0].Message)
	assert.Equal(t, reqerr.CodeUnknown, errs[0].Code)
	assert.Same(t, ev, errs[0].Cause)
}

func testEngineProgressLogs(t *testing.T) {
	f := newFakeTransport()
	logs := &recordHandler{}
	x := New(Options{URL: testURL, Debug: true, Logger: slog.New(logs), Transport: f.factory()})

	x.progressEventHandler(&Event{Type: EventLoad, Loaded: 100})

	require.Len(t, logs.records, 1)
	assert.Equal(t, "100 bytes transferred.", logs.records[0].msg)
	assert.Equal(t, "load", logs.records[0].attrs["event"])
}
