// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package xhr

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gogama/reqx/events"
	"github.com/gogama/reqx/request"
)

// fakeTransport is a synchronous scripted Transport. Send walks through
// HEADERS_RECEIVED, LOADING and DONE, dispatches loadend, and leaves the
// transport UNSENT. Abort dispatches an abort event.
type fakeTransport struct {
	emitter events.Emitter

	readyState      ReadyState
	status          int
	statusText      string
	response        interface{}
	responseType    ResponseType
	withCredentials bool
	timeout         time.Duration
	responseHeaders map[string]string

	sendErr   error
	panicOn   events.Name
	execution *request.Execution

	openMethod  string
	openURL     string
	openAsync   bool
	openCreds   *Credentials
	openCount   int
	headers     [][2]string
	sendCount   int
	sentBody    interface{}
	abortCount  int
	added       map[events.Name]int
	removed     map[events.Name]int
	stateAtLoad ReadyState
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		status:          200,
		statusText:      "OK",
		responseHeaders: make(map[string]string),
		added:           make(map[events.Name]int),
		removed:         make(map[events.Name]int),
	}
}

func (f *fakeTransport) factory() Factory {
	return func() Transport { return f }
}

func (f *fakeTransport) dispatch(name events.Name) {
	f.emitter.Emit(name, &Event{Type: name})
}

func (f *fakeTransport) dispatchEvent(ev *Event) {
	f.emitter.Emit(ev.Type, ev)
}

func (f *fakeTransport) Open(method, url string, async bool, creds *Credentials) error {
	f.openMethod, f.openURL, f.openAsync, f.openCreds = method, url, async, creds
	f.openCount++
	f.readyState = Opened
	return nil
}

func (f *fakeTransport) SetRequestHeader(name, value string) error {
	f.headers = append(f.headers, [2]string{name, value})
	return nil
}

func (f *fakeTransport) Send(body interface{}) error {
	f.sendCount++
	if f.sendErr != nil {
		return f.sendErr
	}
	if f.readyState != Opened {
		f.readyState = Unsent
		return fmt.Errorf("send: the object's state must be OPENED: %w", ErrInvalidState)
	}
	f.sentBody = body
	for _, rs := range []ReadyState{HeadersReceived, Loading, Done} {
		f.readyState = rs
		f.dispatch(EventReadyStateChange)
	}
	f.stateAtLoad = f.readyState
	f.dispatch(EventLoadEnd)
	f.readyState = Unsent
	return nil
}

func (f *fakeTransport) Abort() {
	f.abortCount++
	f.dispatch(EventAbort)
}

func (f *fakeTransport) ReadyState() ReadyState        { return f.readyState }
func (f *fakeTransport) Execution() *request.Execution { return f.execution }
func (f *fakeTransport) Status() int {
	if f.panicOn == "status" {
		panic("status exploded")
	}
	return f.status
}
func (f *fakeTransport) StatusText() string         { return f.statusText }
func (f *fakeTransport) Response() interface{}      { return f.response }
func (f *fakeTransport) ResponseType() ResponseType { return f.responseType }

func (f *fakeTransport) GetResponseHeader(name string) (string, bool) {
	v, ok := f.responseHeaders[name]
	return v, ok
}

func (f *fakeTransport) SetResponseType(rt ResponseType) error {
	if f.readyState == Loading || f.readyState == Done {
		return fmt.Errorf("set response type: %w", ErrInvalidState)
	}
	f.responseType = rt
	return nil
}

func (f *fakeTransport) SetWithCredentials(b bool) error {
	f.withCredentials = b
	return nil
}

func (f *fakeTransport) SetTimeout(d time.Duration) { f.timeout = d }

func (f *fakeTransport) AddEventListener(name events.Name, fn events.Listener) events.ID {
	f.added[name]++
	return f.emitter.On(name, fn)
}

func (f *fakeTransport) RemoveEventListener(name events.Name, id events.ID) bool {
	f.removed[name]++
	return f.emitter.Off(name, id)
}

// recordHandler is a slog.Handler which records messages and
// attributes.
type recordHandler struct {
	mu      sync.Mutex
	records []logRecord
}

type logRecord struct {
	msg   string
	attrs map[string]interface{}
}

func (h *recordHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *recordHandler) Handle(_ context.Context, r slog.Record) error {
	rec := logRecord{msg: r.Message, attrs: make(map[string]interface{})}
	r.Attrs(func(a slog.Attr) bool {
		rec.attrs[a.Key] = a.Value.Any()
		return true
	})
	h.mu.Lock()
	h.records = append(h.records, rec)
	h.mu.Unlock()
	return nil
}

func (h *recordHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recordHandler) WithGroup(string) slog.Handler      { return h }

func (h *recordHandler) messages() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	msgs := make([]string, len(h.records))
	for i := range h.records {
		msgs[i] = h.records[i].msg
	}
	return msgs
}
