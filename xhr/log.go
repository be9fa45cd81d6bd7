// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package xhr

import (
	"log/slog"

	"github.com/gogama/reqx/request"
)

var readyStateMessages = map[ReadyState]string{
	Unsent:          "Request unsent",
	Opened:          "Request opened",
	HeadersReceived: "Request headers received",
	Loading:         "Request loading",
	Done:            "Request done",
}

// log writes an info record tagged with the engine class and lifecycle
// id. Nothing is written unless Debug is on.
func (x *Engine) log(msg string, attrs ...interface{}) {
	x.mu.Lock()
	debug, logger, lifecycle := x.debug, x.logger, x.lifecycle
	x.mu.Unlock()
	if !debug {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}
	args := make([]interface{}, 0, len(attrs)+4)
	args = append(args, "class", "Xhr", "lifecycle", lifecycle)
	args = append(args, attrs...)
	logger.Info(msg, args...)
}

// An executor is a Transport which keeps a record of its most recent
// send.
type executor interface {
	Execution() *request.Execution
}

func (x *Engine) logReadyStateChange() {
	rs := x.request.ReadyState()
	attrs := []interface{}{
		"event", string(EventReadyStateChange),
		"readyState", rs.String(),
		"status", x.request.Status(),
	}
	if ex, ok := x.request.(executor); ok && rs == Done {
		if e := ex.Execution(); e != nil && e.Ended() {
			attrs = append(attrs, "duration", e.Duration())
		}
	}
	x.log(readyStateMessages[rs], attrs...)
}
