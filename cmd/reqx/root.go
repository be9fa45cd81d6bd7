// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gogama/reqx/logging"
)

type rootOptions struct {
	logLevel  string
	logFormat string
	logger    *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "reqx",
		Short: "reqx sends HTTP requests and reports their outcome",
		Long: `reqx sends HTTP requests and reports their outcome.

The fetch command makes one request and prints the decoded response or
the classified error. The xhr command drives the event-driven request
engine and prints every event it emits.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level, err := logging.ParseLevel(opts.logLevel)
			if err != nil {
				return err
			}
			format, err := logging.ParseFormat(opts.logFormat)
			if err != nil {
				return err
			}
			opts.logger = logging.New(logging.Config{
				Level:  level,
				Format: format,
				Output: cmd.ErrOrStderr(),
			})
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text", "Log format (text, json)")
	cmd.AddCommand(newFetchCmd(opts), newXHRCmd(opts))
	return cmd
}
