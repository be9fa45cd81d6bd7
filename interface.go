// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package reqx

import (
	"context"
	"net/http"

	"github.com/gogama/reqx/xhr"
)

// An HTTPDoer implements a Do method in the same manner as the GoLang
// standard library http.Client from the net/http package.
type HTTPDoer interface {
	// Do sends an HTTP request and returns an HTTP response following
	// policy (such as redirects, cookies, auth) configured on the
	// HTTPDoer.
	//
	// The Do method must follow the contract documented on the GoLang
	// standard library http.Client from the net/http package.
	Do(r *http.Request) (*http.Response, error)
}

// Requester is the interface that wraps the basic RequestOnce method.
//
// RequestOnce makes a single request and decodes the response into a
// Result without a static data type. Client implements Requester.
//
// Any HTTPDoer can be used to emulate a Requester via the RequestOnce
// function.
type Requester interface {
	RequestOnce(ctx context.Context, input interface{}, init *Init) Result[interface{}]
}

// Pinger is the interface that wraps the basic Ping method.
//
// Ping queues a fire-and-forget POST. Client implements Pinger.
type Pinger interface {
	Ping(input interface{}, body interface{}) error
}

// EngineFactory is the interface that wraps the basic NewEngine method.
//
// NewEngine creates an event-driven request engine whose transport is
// supplied by the factory. Client implements EngineFactory.
type EngineFactory interface {
	NewEngine(opts xhr.Options) *xhr.Engine
}

// IdleCloser is the interface that wraps the basic CloseIdleConnections
// method.
//
// If the underlying implementation supports it, CloseIdleConnections
// closes any idle which were previously connected from previous
// requests but are now sitting idle in a "keep-alive" state. It does
// not interrupt any connections currently in use.
//
// If the underlying implementation does not support this ability,
// CloseIdleConnections does nothing.
type IdleCloser interface {
	CloseIdleConnections()
}

// Executor is the interface that groups the basic RequestOnce, Ping,
// NewEngine, and CloseIdleConnections methods.
type Executor interface {
	Requester
	Pinger
	EngineFactory
	IdleCloser
}
