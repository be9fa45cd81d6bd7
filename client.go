// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package reqx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gogama/reqx/logging"
	"github.com/gogama/reqx/xhr"
	"github.com/gogama/reqx/xhr/nethttp"
)

// A Client bundles the low-level HTTP machinery shared by one-shot
// requests, beacons and event-driven engines. Its zero value is a valid
// configuration.
//
// The zero value client uses http.DefaultClient (from net/http) as the
// HTTPDoer, no cookie jar, and discards log output.
//
// Client's HTTPDoer typically has an internal state (cached TCP
// connections) so Client instances should be reused instead of created
// as needed. Client is safe for concurrent use by multiple goroutines.
//
// A Client is higher-level than an HTTPDoer. The HTTPDoer is responsible
// for all details of sending the HTTP request and receiving the
// response, such as redirects and TLS, while Client adds:
//
// • content negotiation and uniform error reporting for one-shot
// requests (RequestOnce);
//
// • fire-and-forget beacon requests (Ping); and
//
// • event-driven request engines whose transport sends through the
// HTTPDoer (NewEngine).
type Client struct {
	// HTTPDoer specifies the mechanics of sending HTTP requests and
	// receiving responses.
	//
	// If HTTPDoer is nil, http.DefaultClient from the standard net/http
	// package is used.
	HTTPDoer HTTPDoer
	// Jar supplies and stores cookies for engines created with
	// xhr.Options.WithCredentials set.
	//
	// If Jar is nil, engines never send or store cookies themselves.
	Jar http.CookieJar
	// Logger receives the client's diagnostic output, and is the
	// default logger of engines created by NewEngine.
	//
	// If Logger is nil, output is discarded.
	Logger *slog.Logger
}

// RequestOnce makes one request through the client's HTTPDoer and
// decodes the response without a static data type. See the package
// function RequestOnce for details.
func (c *Client) RequestOnce(ctx context.Context, input interface{}, init *Init) Result[interface{}] {
	return RequestOnce[interface{}](ctx, c.doer(), input, init, nil)
}

// Ping queues a fire-and-forget POST of body to input through the
// client's HTTPDoer. See the package function Ping for details.
func (c *Client) Ping(input interface{}, body interface{}) error {
	return ping(c.doer(), c.logger(), input, body)
}

// NewEngine creates an event-driven request engine.
//
// If opts.Transport is nil, the engine's transport sends through the
// client's HTTPDoer and uses the client's Jar. If opts.Logger is nil
// and the client has a Logger, the engine logs to it.
func (c *Client) NewEngine(opts xhr.Options) *xhr.Engine {
	if opts.Transport == nil {
		opts.Transport = nethttp.Factory(c.doer(), c.Jar)
	}
	if opts.Logger == nil && c.Logger != nil {
		opts.Logger = c.Logger
	}
	return xhr.New(opts)
}

// CloseIdleConnections invokes the same method on the client's
// underlying HTTPDoer.
//
// If the HTTPDoer has no CloseIdleConnections method, this method does
// nothing.
//
// If the HTTPDoer does have a CloseIdleConnections method, then the
// effect of this method depends entirely on its implementation in the
// HTTPDoer. For example, the http.Client type forwards the call to its
// Transport, but only if the Transport itself has a CloseIdleConnections
// method (otherwise it does nothing).
func (c *Client) CloseIdleConnections() {
	doer := c.doer()
	if ic, ok := doer.(IdleCloser); ok {
		ic.CloseIdleConnections()
	}
}

func (c *Client) doer() HTTPDoer {
	if c.HTTPDoer == nil {
		return http.DefaultClient
	}

	return c.HTTPDoer
}

func (c *Client) logger() *slog.Logger {
	if c.Logger == nil {
		return logging.Nop()
	}

	return c.Logger
}
