// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package xhr

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/gogama/reqx/abort"
	"github.com/gogama/reqx/events"
	"github.com/gogama/reqx/reqerr"
	"github.com/gogama/reqx/request"
)

const notAvailableMsg = "XMLHttpRequest not available"

// An Engine wraps a Transport with an event-driven lifecycle. Use New
// to create one, then Init and Send it. Register listeners with the
// typed helpers such as OnSuccess and OnError, or with the embedded
// Emitter.
//
// Engine methods may be called from any goroutine. Listeners run on
// the goroutine that dispatches the underlying transport event, which
// for the standard transport is a per-send goroutine.
type Engine struct {
	events.Emitter

	request     Transport
	url         interface{}
	method      string
	body        interface{}
	headers     *request.Headers
	credentials *Credentials
	logger      *slog.Logger

	mu               sync.Mutex
	debug            bool
	autoResponseType bool
	response         interface{}
	controller       abort.Handle
	stopAbort        func() bool
	lifecycle        string
	transportIDs     map[events.Name]events.ID
	loadEndID        events.ID
	loadEndBound     bool
}

// New creates an Engine. If opts.Transport is non-nil it is called to
// create the underlying request object, which is configured from opts.
func New(opts Options) *Engine {
	method := opts.Method
	if method == "" {
		method = "GET"
	}
	x := &Engine{
		url:              opts.URL,
		method:           method,
		body:             opts.Body,
		headers:          request.NewHeaders(opts.Headers),
		credentials:      opts.Credentials,
		logger:           opts.Logger,
		debug:            opts.Debug,
		autoResponseType: !opts.DisableAutoResponseType,
		controller:       opts.Controller,
		transportIDs:     make(map[events.Name]events.ID),
	}
	if x.controller == nil {
		x.controller = abort.New()
	}
	if opts.Transport != nil {
		x.request = opts.Transport()
	}
	if x.request != nil {
		if opts.ResponseType != ResponseTypeDefault {
			x.autoResponseType = false
			if err := x.request.SetResponseType(opts.ResponseType); err != nil {
				x.log("Failed to set XMLHttpRequest.responseType.", "error", err)
			}
		}
		if opts.WithCredentials {
			if err := x.request.SetWithCredentials(true); err != nil {
				x.log("Failed to set XMLHttpRequest.withCredentials.", "error", err)
			}
		}
		if opts.Timeout > 0 {
			x.request.SetTimeout(opts.Timeout)
		}
	}
	if opts.Signal != nil {
		// A signal fires at most once and drops its listeners when it
		// does, so the registration needs no explicit removal.
		opts.Signal.OnAbort(x.forwardAbort)
	}
	return x
}

// Available reports whether the engine has an underlying transport.
func (x *Engine) Available() bool {
	return x.request != nil
}

// Transport returns the underlying request object, or nil if the
// engine is unavailable.
func (x *Engine) Transport() Transport {
	return x.request
}

// Init (re)opens the underlying request, applies the request headers,
// arms the cancellation handle and binds the engine's listeners to the
// transport. It emits "init" before doing any of this.
//
// If the current cancellation handle has already fired, Init replaces
// it with a new abort.Controller.
func (x *Engine) Init() *Engine {
	return x.init(nil)
}

// InitWithController is like Init but arms c as the cancellation
// handle.
func (x *Engine) InitWithController(c abort.Handle) *Engine {
	return x.init(c)
}

func (x *Engine) init(c abort.Handle) *Engine {
	if !x.Available() {
		return x.fail(notAvailable())
	}

	x.mu.Lock()
	x.lifecycle = uuid.NewString()
	x.mu.Unlock()

	x.Emit(EventInit, x)

	x.addProgressListeners()
	x.bindReadyStateListener()

	u, err := request.FormatURL(x.url)
	if err != nil {
		return x.fail(reqerr.Wrap(err))
	}
	if err = x.request.Open(x.method, u, true, x.credentials); err != nil {
		return x.fail(classify(err))
	}
	x.setHeaders()

	x.armController(c)

	x.mu.Lock()
	if x.loadEndBound {
		x.Off(EventLoadEnd, x.loadEndID)
	}
	x.loadEndID = x.Once(EventLoadEnd, x.loadEndHandler)
	x.loadEndBound = true
	x.mu.Unlock()

	return x
}

// Send sends the request body. Once the transport accepts the send the
// engine emits "send". If the transport is not opened, or is already
// sending, Send emits an error with code reqerr.CodeXHRInvalidState.
func (x *Engine) Send() *Engine {
	if !x.Available() {
		return x.fail(notAvailable())
	}
	if err := x.request.Send(x.body); err != nil {
		return x.fail(classify(err))
	}
	x.Emit(EventSend, x)
	return x
}

// Abort triggers the current cancellation handle with the given
// reason. An empty reason yields reqerr.DefaultAbortMessage. The
// transport is aborted, and "abort" emitted, at most once per armed
// handle.
func (x *Engine) Abort(reason string) *Engine {
	if !x.Available() {
		return x.fail(notAvailable())
	}
	x.abortWith(reqerr.NewAbort(reason))
	return x
}

func (x *Engine) abortWith(reason error) {
	x.Controller().Abort(reason)
}

// forwardAbort handles an abort from the external signal the same way
// Abort handles one from the caller.
func (x *Engine) forwardAbort(reason error) {
	if !x.Available() {
		x.fail(notAvailable())
		return
	}
	x.abortWith(reason)
}

// GetResponse returns the transport's current decoded response, and
// caches it as the engine's response. If the engine is unavailable it
// emits an error and returns nil.
func (x *Engine) GetResponse() interface{} {
	if !x.Available() {
		x.fail(notAvailable())
		return nil
	}
	r := x.request.Response()
	x.mu.Lock()
	x.response = r
	x.mu.Unlock()
	return r
}

// Response returns the cached response without consulting the
// transport.
func (x *Engine) Response() interface{} {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.response
}

// GetResponseHeader returns a response header from the transport.
func (x *Engine) GetResponseHeader(name string) (string, bool) {
	if !x.Available() {
		return "", false
	}
	return x.request.GetResponseHeader(name)
}

// GetResponseContentType returns the Content-Type response header.
func (x *Engine) GetResponseContentType() (string, bool) {
	return x.GetResponseHeader("Content-Type")
}

// ReadyState returns the transport's ready state. An unavailable
// engine is always Unsent.
func (x *Engine) ReadyState() ReadyState {
	if !x.Available() {
		return Unsent
	}
	return x.request.ReadyState()
}

// Status returns the transport's response status code.
func (x *Engine) Status() int {
	if !x.Available() {
		return 0
	}
	return x.request.Status()
}

// Controller returns the current cancellation handle.
func (x *Engine) Controller() abort.Handle {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.controller
}

// URL returns the configured request URL.
func (x *Engine) URL() interface{} { return x.url }

// Method returns the request method.
func (x *Engine) Method() string { return x.method }

// Body returns the request body.
func (x *Engine) Body() interface{} { return x.body }

// Headers returns a copy of the normalized request headers.
func (x *Engine) Headers() *request.Headers { return x.headers.Clone() }

// Credentials returns the configured basic-auth credentials.
func (x *Engine) Credentials() *Credentials { return x.credentials }

// Debug reports whether lifecycle logging is on.
func (x *Engine) Debug() bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.debug
}

// SetDebug turns lifecycle logging on or off.
func (x *Engine) SetDebug(debug bool) {
	x.mu.Lock()
	x.debug = debug
	x.mu.Unlock()
}

func (x *Engine) autoInfer() bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.autoResponseType
}

func (x *Engine) setHeaders() {
	if !x.Available() {
		x.fail(notAvailable())
		return
	}
	x.headers.Each(func(name, value string) {
		if err := x.request.SetRequestHeader(name, value); err != nil {
			x.fail(classify(err))
		}
	})
}

func (x *Engine) addProgressListeners() {
	if !x.Available() {
		x.fail(notAvailable())
		return
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	for _, name := range ProgressEvents() {
		if id, ok := x.transportIDs[name]; ok {
			x.request.RemoveEventListener(name, id)
		}
		x.transportIDs[name] = x.request.AddEventListener(name, x.progressEventHandler)
	}
}

func (x *Engine) bindReadyStateListener() {
	if !x.Available() {
		x.fail(notAvailable())
		return
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	if id, ok := x.transportIDs[EventReadyStateChange]; ok {
		x.request.RemoveEventListener(EventReadyStateChange, id)
	}
	x.transportIDs[EventReadyStateChange] = x.request.AddEventListener(EventReadyStateChange, x.readyStateChangeHandler)
}

// armController stops forwarding from the previous handle and arms
// either c, if not nil, or a new controller when the current one has
// already fired.
func (x *Engine) armController(c abort.Handle) {
	x.mu.Lock()
	if x.stopAbort != nil {
		x.stopAbort()
		x.stopAbort = nil
	}
	if c == nil && (x.controller == nil || x.controller.Signal().Aborted()) {
		c = abort.New()
	}
	if c != nil {
		x.controller = c
	}
	ctrl := x.controller
	x.mu.Unlock()

	var once sync.Once
	stop := ctrl.Signal().OnAbort(func(reason error) {
		once.Do(x.controllerAbortListener)
	})

	x.mu.Lock()
	if x.controller == ctrl {
		x.stopAbort = stop
	} else {
		stop()
	}
	x.mu.Unlock()
}

func (x *Engine) controllerAbortListener() {
	x.request.Abort()
	x.log("The user aborted the request")
}

func (x *Engine) progressEventHandler(args ...interface{}) {
	ev := eventArg(args)
	x.log(fmt.Sprintf("%d bytes transferred.", ev.Loaded), "event", string(ev.Type))
	switch ev.Type {
	case EventError:
		x.fail(reqerr.New("ProgressEvent Error", reqerr.CodeUnknown).WithCause(ev))
	case EventAbort:
		reason := x.Controller().Signal().Reason()
		x.Emit(EventAbort, reqerr.AsAbort(reason), ev, x)
	default:
		x.Emit(ev.Type, ev, x)
	}
}

func (x *Engine) readyStateChangeHandler(args ...interface{}) {
	ev := eventArg(args)
	if x.autoInfer() {
		x.setResponseTypeFromResponseHeaders()
	}
	if x.Debug() {
		x.logReadyStateChange()
	}
	x.GetResponse()
	x.Emit(EventReadyStateChange, ev, x)
}

// loadEndHandler classifies the completed send. A status of zero or
// less means the send failed before a response arrived, in which case
// the transport's error, timeout or abort event has already been
// reported.
func (x *Engine) loadEndHandler(args ...interface{}) {
	defer func() {
		if r := recover(); r != nil {
			x.fail(reqerr.New(fmt.Sprint(r), reqerr.CodeUnknown).WithCause(r))
		}
	}()

	status := x.request.Status()
	if status <= 0 {
		return
	}
	if status < 100 || status >= 400 {
		x.setResponseTypeFromResponseHeaders()
		response := x.Response()
		ct, _ := x.GetResponseContentType()
		if contentTypeToResponseType(ct) == ResponseTypeJSON {
			if err, ok := reqerr.FromPayload(response); ok {
				x.fail(err)
				return
			}
		}
		if err := errorFromResponse(x.request.ResponseType(), response); err != nil {
			x.fail(err)
			return
		}
		x.fail(reqerr.New("Error from the server.", reqerr.CodeUnknown).WithCause(response))
		return
	}
	x.Emit(EventSuccess, x.Response(), x)
}

func (x *Engine) fail(err *reqerr.Error) *Engine {
	x.Emit(EventError, err, x)
	return x
}

func notAvailable() *reqerr.Error {
	return reqerr.New(notAvailableMsg, reqerr.CodeXHRNotAvailable)
}

func classify(err error) *reqerr.Error {
	var e *reqerr.Error
	if errors.As(err, &e) {
		return e
	}
	if errors.Is(err, ErrInvalidState) {
		return reqerr.New(err.Error(), reqerr.CodeXHRInvalidState).WithCause(err)
	}
	return reqerr.Wrap(err)
}

func eventArg(args []interface{}) *Event {
	if len(args) > 0 {
		if ev, ok := args[0].(*Event); ok {
			return ev
		}
	}
	return &Event{}
}
