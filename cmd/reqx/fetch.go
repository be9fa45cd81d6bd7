// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/gogama/reqx"
)

func newFetchCmd(root *rootOptions) *cobra.Command {
	f := &requestFlags{}
	cmd := &cobra.Command{
		Use:   "fetch [URL]",
		Short: "Make one request and print the decoded response",
		Long: `Make one request and print the decoded response.

The response body is decoded as JSON or form data when the Content-Type
says so, and as text otherwise, unless --response-type overrides it.
Unsuccessful responses are turned into errors; a JSON error payload
with "message" and "code" members supplies the error's message and
code.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := f.resolve(cmd, args)
			if err != nil {
				return err
			}
			if err = checkOutputFormat(f.output); err != nil {
				return err
			}
			rt, err := fetchResponseType(r.responseType)
			if err != nil {
				return err
			}
			init := &reqx.Init{
				Method:       r.method,
				Header:       r.header,
				ResponseType: rt,
			}
			if r.hasBody {
				init.Body = r.body
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			root.logger.Debug("fetch", "url", r.url, "method", r.method)
			cl := &reqx.Client{HTTPDoer: &http.Client{}, Logger: root.logger}
			result := cl.RequestOnce(ctx, r.url, init)

			out := map[string]interface{}{
				"data":    nil,
				"error":   plain(result.Err),
				"status":  nil,
				"headers": plainHeader(result.Header),
			}
			if result.Response != nil {
				out["status"] = int64(result.Response.StatusCode)
			}
			if result.OK() {
				data := plain(result.Data)
				if f.selector != "" {
					if data, err = selectPath(f.selector, data); err != nil {
						return err
					}
				}
				out["data"] = data
			}
			if err = writeOutput(cmd.OutOrStdout(), f.output, out); err != nil {
				return err
			}
			if !result.OK() {
				return fmt.Errorf("request failed: %s", result.Err.Code)
			}
			return nil
		},
	}
	f.register(cmd, false)
	return cmd
}

func fetchResponseType(s string) (reqx.ResponseType, error) {
	switch rt := reqx.ResponseType(s); rt {
	case reqx.ResponseTypeAuto, reqx.ResponseTypeJSON, reqx.ResponseTypeFormData,
		reqx.ResponseTypeArrayBuffer, reqx.ResponseTypeBlob, reqx.ResponseTypeText:
		return rt, nil
	}
	return "", fmt.Errorf("unknown response type %q", s)
}
