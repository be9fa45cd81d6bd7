// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package abort

import (
	"context"
)

// FromContext returns a Signal which fires when ctx is done. The abort
// reason is the context's cause.
//
// Listeners of the returned signal run on a goroutine started when ctx
// is done, not on the goroutine which cancelled ctx.
func FromContext(ctx context.Context) Signal {
	c := New()
	context.AfterFunc(ctx, func() {
		c.Abort(context.Cause(ctx))
	})
	return c.Signal()
}
