// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package nethttp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/http/httpguts"

	"github.com/gogama/reqx/events"
	"github.com/gogama/reqx/request"
	"github.com/gogama/reqx/timeout"
	"github.com/gogama/reqx/xhr"
)

// A Doer sends an HTTP request and returns its response. *http.Client
// implements Doer.
type Doer interface {
	Do(r *http.Request) (*http.Response, error)
}

var errAborted = errors.New("reqx/nethttp: request aborted")

// Factory returns an xhr.Factory producing Transports which send
// through doer. If jar is not nil, it supplies and stores cookies for
// sends made with credentials.
func Factory(doer Doer, jar http.CookieJar) xhr.Factory {
	return func() xhr.Transport {
		return New(doer, jar)
	}
}

// A Transport is an xhr.Transport backed by a Doer. The zero value is
// not usable; create one with New.
type Transport struct {
	doer    Doer
	jar     http.CookieJar
	emitter events.Emitter

	mu              sync.Mutex
	gen             uint64
	plan            *request.Plan
	async           bool
	readyState      xhr.ReadyState
	sendFlag        bool
	aborted         bool
	cancel          context.CancelCauseFunc
	status          int
	statusText      string
	header          http.Header
	response        interface{}
	responseType    xhr.ResponseType
	withCredentials bool
	policy          timeout.Policy
	execution       *request.Execution
}

// New returns a Transport which sends through doer. A nil doer means
// http.DefaultClient.
func New(doer Doer, jar http.CookieJar) *Transport {
	if doer == nil {
		doer = http.DefaultClient
	}
	return &Transport{
		doer:   doer,
		jar:    jar,
		policy: timeout.DefaultPolicy,
	}
}

// Open prepares a new request, cancelling any send in flight without
// reporting it, and moves the transport to xhr.Opened.
func (t *Transport) Open(method, url string, async bool, creds *xhr.Credentials) error {
	p, err := request.NewPlan(method, url)
	if err != nil {
		return err
	}
	if creds != nil && (creds.Username != "" || creds.Password != "") {
		p.SetBasicAuth(creds.Username, creds.Password)
	}

	t.mu.Lock()
	t.gen++
	if t.cancel != nil {
		t.cancel(errAborted)
		t.cancel = nil
	}
	t.plan = p
	t.async = async
	t.sendFlag = false
	t.aborted = false
	t.status = 0
	t.statusText = ""
	t.header = nil
	t.response = nil
	t.execution = nil
	t.readyState = xhr.Opened
	gen := t.gen
	t.mu.Unlock()

	t.dispatch(gen, xhr.EventReadyStateChange)
	return nil
}

// SetRequestHeader adds a request header. Values for a repeated name
// are combined.
func (t *Transport) SetRequestHeader(name, value string) error {
	if !httpguts.ValidHeaderFieldName(name) {
		return fmt.Errorf("reqx/nethttp: invalid header name %q", name)
	}
	if !httpguts.ValidHeaderFieldValue(value) {
		return fmt.Errorf("reqx/nethttp: invalid value for header %q", name)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.readyState != xhr.Opened || t.sendFlag {
		return fmt.Errorf("reqx/nethttp: set request header: %w", xhr.ErrInvalidState)
	}
	t.plan.Header.Add(name, value)
	return nil
}

// Send starts sending the opened request. A body is ignored for GET
// and HEAD requests.
func (t *Transport) Send(body interface{}) error {
	t.mu.Lock()
	if t.readyState != xhr.Opened || t.sendFlag {
		t.mu.Unlock()
		return fmt.Errorf("reqx/nethttp: send: the object's state must be OPENED: %w", xhr.ErrInvalidState)
	}
	p := t.plan
	if p.Method != http.MethodGet && p.Method != http.MethodHead {
		b, err := request.BodyBytes(body)
		if err != nil {
			t.mu.Unlock()
			return err
		}
		p.Body = b
		if ct := request.BodyContentType(body); ct != "" && p.Header.Get("Content-Type") == "" {
			p.Header.Set("Content-Type", ct)
		}
	}

	e := &request.Execution{Plan: p, Start: time.Now()}
	ctx, cancel := context.WithCancelCause(context.Background())
	var stop context.CancelFunc = func() {}
	if t.policy != timeout.Infinite {
		ctx, stop = context.WithTimeout(ctx, t.policy.Timeout(e))
	}
	t.sendFlag = true
	t.cancel = cancel
	t.execution = e
	withCredentials := t.withCredentials
	async := t.async
	gen := t.gen
	t.mu.Unlock()

	run := func() {
		defer stop()
		defer cancel(nil)
		t.run(ctx, gen, e, withCredentials)
	}
	if async {
		go run()
	} else {
		run()
	}
	return nil
}

// Abort cancels the send in flight, which then ends with an abort
// event. With nothing in flight it only resets a completed transport
// to xhr.Unsent.
func (t *Transport) Abort() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sendFlag {
		t.aborted = true
		if t.cancel != nil {
			t.cancel(errAborted)
		}
		return
	}
	if t.readyState == xhr.Done {
		t.readyState = xhr.Unsent
	}
}

func (t *Transport) run(ctx context.Context, gen uint64, e *request.Execution, withCredentials bool) {
	t.dispatchProgress(gen, xhr.EventLoadStart, 0, 0, false)

	if withCredentials && t.jar != nil {
		for _, c := range t.jar.Cookies(e.Plan.URL) {
			e.Plan.AddCookie(c)
		}
	}
	req := e.Plan.ToRequest(ctx)
	e.Request = req

	resp, err := t.doer.Do(req)
	if err != nil {
		t.fail(ctx, gen, e, err)
		return
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	e.Response = resp
	if withCredentials && t.jar != nil {
		if rc := resp.Cookies(); len(rc) > 0 {
			t.jar.SetCookies(req.URL, rc)
		}
	}

	if !t.advance(gen, func() {
		t.status = e.StatusCode()
		t.statusText = request.StatusText(resp)
		t.header = e.Header()
		t.readyState = xhr.HeadersReceived
	}) {
		t.fail(ctx, gen, e, errAborted)
		return
	}
	t.dispatch(gen, xhr.EventReadyStateChange)

	if !t.advance(gen, func() { t.readyState = xhr.Loading }) {
		t.fail(ctx, gen, e, errAborted)
		return
	}
	t.dispatch(gen, xhr.EventReadyStateChange)

	body, err := t.readBody(gen, resp)
	if err != nil {
		t.fail(ctx, gen, e, err)
		return
	}
	e.Body = body

	if !t.advance(gen, func() {
		t.response = decodeResponse(t.responseType, resp.Header, body)
		t.readyState = xhr.Done
		t.sendFlag = false
		t.cancel = nil
		e.End = time.Now()
	}) {
		t.fail(ctx, gen, e, errAborted)
		return
	}
	n := int64(len(body))
	t.dispatch(gen, xhr.EventReadyStateChange)
	t.dispatchProgress(gen, xhr.EventLoad, n, n, true)
	t.dispatchProgress(gen, xhr.EventLoadEnd, n, n, true)
}

// advance applies fn under the lock if the send of generation gen is
// still current and has not been aborted.
func (t *Transport) advance(gen uint64, fn func()) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.gen || t.aborted {
		return false
	}
	fn()
	return true
}

// fail ends the send of generation gen with an error, timeout or abort
// event.
func (t *Transport) fail(ctx context.Context, gen uint64, e *request.Execution, err error) {
	t.mu.Lock()
	if gen != t.gen {
		t.mu.Unlock()
		return
	}
	e.Err = e.Plan.WrapErr(err)
	var name events.Name
	switch {
	case t.aborted:
		name = xhr.EventAbort
	case errors.Is(ctx.Err(), context.DeadlineExceeded), e.Timeout():
		name = xhr.EventTimeout
	default:
		name = xhr.EventError
	}
	e.End = time.Now()
	t.readyState = xhr.Done
	t.sendFlag = false
	t.cancel = nil
	t.status = 0
	t.statusText = ""
	t.header = nil
	t.response = nil
	t.mu.Unlock()

	t.dispatch(gen, xhr.EventReadyStateChange)
	t.dispatchProgress(gen, name, 0, 0, false)
	t.dispatchProgress(gen, xhr.EventLoadEnd, 0, 0, false)

	if name == xhr.EventAbort {
		t.mu.Lock()
		if gen == t.gen && t.readyState == xhr.Done {
			t.readyState = xhr.Unsent
		}
		t.mu.Unlock()
	}
}

func (t *Transport) current(gen uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return gen == t.gen
}

func (t *Transport) dispatch(gen uint64, name events.Name) {
	if t.current(gen) {
		t.emitter.Emit(name, &xhr.Event{Type: name})
	}
}

func (t *Transport) dispatchProgress(gen uint64, name events.Name, loaded, total int64, computable bool) {
	if t.current(gen) {
		t.emitter.Emit(name, &xhr.Event{
			Type:             name,
			Loaded:           loaded,
			Total:            total,
			LengthComputable: computable,
		})
	}
}

// ReadyState returns the current ready state.
func (t *Transport) ReadyState() xhr.ReadyState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.readyState
}

// Status returns the response status code, or 0 before headers are
// received or after a failed send.
func (t *Transport) Status() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// StatusText returns the response reason phrase.
func (t *Transport) StatusText() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.statusText
}

// Response returns the decoded response. It is nil until the send is
// Done.
func (t *Transport) Response() interface{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.response
}

// GetResponseHeader returns the combined values of a response header.
func (t *Transport) GetResponseHeader(name string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	values := t.header.Values(name)
	if len(values) == 0 {
		return "", false
	}
	return strings.Join(values, ", "), true
}

// ResponseType returns the configured response type.
func (t *Transport) ResponseType() xhr.ResponseType {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.responseType
}

// SetResponseType sets the response type used to decode the body.
func (t *Transport) SetResponseType(rt xhr.ResponseType) error {
	switch rt {
	case xhr.ResponseTypeDefault, xhr.ResponseTypeText, xhr.ResponseTypeJSON,
		xhr.ResponseTypeArrayBuffer, xhr.ResponseTypeBlob, xhr.ResponseTypeDocument:
	default:
		return fmt.Errorf("reqx/nethttp: unknown response type %q", rt)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.readyState == xhr.Loading || t.readyState == xhr.Done {
		return fmt.Errorf("reqx/nethttp: set response type: %w", xhr.ErrInvalidState)
	}
	t.responseType = rt
	return nil
}

// SetWithCredentials sets whether cookies from the jar are sent and
// response cookies stored.
func (t *Transport) SetWithCredentials(b bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sendFlag || (t.readyState != xhr.Unsent && t.readyState != xhr.Opened) {
		return fmt.Errorf("reqx/nethttp: set with credentials: %w", xhr.ErrInvalidState)
	}
	t.withCredentials = b
	return nil
}

// SetTimeout sets the timeout for subsequent sends.
func (t *Transport) SetTimeout(d time.Duration) {
	t.mu.Lock()
	t.policy = timeout.Fixed(d)
	t.mu.Unlock()
}

// Execution returns the execution of the most recent send, or nil.
func (t *Transport) Execution() *request.Execution {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.execution
}

// AddEventListener registers fn for the named event.
func (t *Transport) AddEventListener(name events.Name, fn events.Listener) events.ID {
	return t.emitter.On(name, fn)
}

// RemoveEventListener removes a listener registration.
func (t *Transport) RemoveEventListener(name events.Name, id events.ID) bool {
	return t.emitter.Off(name, id)
}
