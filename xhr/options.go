// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package xhr

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gogama/reqx/abort"
)

// Options configure a new Engine.
type Options struct {
	// URL is the request URL. It may be a string, a *url.URL, a
	// url.URL, or any fmt.Stringer.
	URL interface{}
	// Method is the request method. The empty string means GET.
	Method string
	// Body is the request body. See request.BodyBytes for the types
	// supported by the standard transport.
	Body interface{}
	// Headers are the request headers. Names are matched without
	// regard to case and multiple values are combined.
	Headers http.Header
	// Credentials are optional basic-auth credentials passed to the
	// transport when it is opened.
	Credentials *Credentials

	// ResponseType, if not empty, is applied to the transport and turns
	// off response type inference.
	ResponseType ResponseType
	// DisableAutoResponseType turns off response type inference from
	// the Content-Type response header.
	DisableAutoResponseType bool
	// WithCredentials asks the transport to include credentials such
	// as cookies.
	WithCredentials bool
	// Timeout is the send timeout. Zero means no timeout.
	Timeout time.Duration

	// Debug turns on lifecycle logging.
	Debug bool
	// Logger receives lifecycle logging when Debug is on. If nil,
	// slog.Default is used.
	Logger *slog.Logger

	// Controller is the initial cancellation handle. If nil, a new
	// abort.Controller is created.
	Controller abort.Handle
	// Signal is an optional external cancellation signal. When it
	// fires after construction, the engine aborts with the signal's
	// reason.
	Signal abort.Signal

	// Transport creates the underlying request object. If nil, the
	// engine is unavailable and every operation emits an error with
	// code reqerr.CodeXHRNotAvailable.
	Transport Factory
}
