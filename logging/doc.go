// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package logging constructs the slog loggers used across reqx.

	logger := logging.New(logging.Config{
		Level:  logging.LevelDebug,
		Format: logging.FormatJSON,
	})
	x := xhr.New(xhr.Options{Logger: logger, Debug: true, ...})

Components accept a *slog.Logger. Where none is given and output is not
wanted, use Nop.
*/
package logging
