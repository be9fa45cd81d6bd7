// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package reqx

import (
	"context"
	"io"
	"log/slog"

	"github.com/gogama/reqx/logging"
)

// Ping queues a fire-and-forget POST of body to input using d, in the
// manner of a beacon. The request is sent on a new goroutine and its
// outcome is discarded.
//
// Ping returns an error only if the request cannot be built, because
// input is not a valid URL or body is not a supported body type. A nil
// d means http.DefaultClient.
func Ping(d HTTPDoer, input interface{}, body interface{}) error {
	if d == nil {
		return (&Client{}).Ping(input, body)
	}
	return ping(d, logging.Nop(), input, body)
}

func ping(d HTTPDoer, logger *slog.Logger, input interface{}, body interface{}) error {
	p, err := newPlan(input, &Init{Method: "POST", Body: body})
	if err != nil {
		return err
	}
	go func() {
		resp, err := d.Do(p.ToRequest(context.Background()))
		if err != nil {
			logger.Debug("ping failed", "url", p.URL.String(), "error", err)
			return
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
		logger.Debug("ping sent", "url", p.URL.String(), "status", resp.StatusCode)
	}()
	return nil
}
