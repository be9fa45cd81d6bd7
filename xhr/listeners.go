// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package xhr

import (
	"github.com/gogama/reqx/events"
	"github.com/gogama/reqx/reqerr"
)

// OnInit registers fn to run whenever Init starts.
func (x *Engine) OnInit(fn func(x *Engine)) events.ID {
	return x.On(EventInit, func(args ...interface{}) {
		fn(engineArg(args, 0))
	})
}

// OnSend registers fn to run once the transport accepts a send.
func (x *Engine) OnSend(fn func(x *Engine)) events.ID {
	return x.On(EventSend, func(args ...interface{}) {
		fn(engineArg(args, 0))
	})
}

// OnSuccess registers fn to receive the decoded response of each
// successful send.
func (x *Engine) OnSuccess(fn func(response interface{}, x *Engine)) events.ID {
	return x.On(EventSuccess, func(args ...interface{}) {
		fn(arg(args, 0), engineArg(args, 1))
	})
}

// OnError registers fn to receive every error the engine emits.
func (x *Engine) OnError(fn func(err *reqerr.Error, x *Engine)) events.ID {
	return x.On(EventError, func(args ...interface{}) {
		err, _ := arg(args, 0).(*reqerr.Error)
		fn(err, engineArg(args, 1))
	})
}

// OnAbort registers fn to run when an in-flight send is aborted. The
// error carries the reason the cancellation handle was triggered with.
func (x *Engine) OnAbort(fn func(err *reqerr.Error, ev *Event, x *Engine)) events.ID {
	return x.On(EventAbort, func(args ...interface{}) {
		err, _ := arg(args, 0).(*reqerr.Error)
		ev, _ := arg(args, 1).(*Event)
		fn(err, ev, engineArg(args, 2))
	})
}

// OnReadyStateChange registers fn to run after each transport ready
// state change, once the engine has cached the current response.
func (x *Engine) OnReadyStateChange(fn func(ev *Event, x *Engine)) events.ID {
	return x.On(EventReadyStateChange, func(args ...interface{}) {
		ev, _ := arg(args, 0).(*Event)
		fn(ev, engineArg(args, 1))
	})
}

// OnProgress registers fn for one of the re-emitted progress events:
// "loadstart", "progress", "load", "loadend" or "timeout".
func (x *Engine) OnProgress(name events.Name, fn func(ev *Event, x *Engine)) events.ID {
	return x.On(name, func(args ...interface{}) {
		ev, _ := arg(args, 0).(*Event)
		fn(ev, engineArg(args, 1))
	})
}

func arg(args []interface{}, i int) interface{} {
	if i < len(args) {
		return args[i]
	}
	return nil
}

func engineArg(args []interface{}, i int) *Engine {
	x, _ := arg(args, i).(*Engine)
	return x
}
