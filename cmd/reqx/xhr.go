// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/net/publicsuffix"

	"github.com/gogama/reqx"
	"github.com/gogama/reqx/abort"
	"github.com/gogama/reqx/events"
	"github.com/gogama/reqx/reqerr"
	"github.com/gogama/reqx/xhr"
)

// abortGrace bounds the wait for the engine's abort event after an
// interrupt.
const abortGrace = time.Second

// printedEvents are the engine events echoed by the xhr command.
var printedEvents = []events.Name{
	xhr.EventInit,
	xhr.EventSend,
	xhr.EventReadyStateChange,
	xhr.EventLoadStart,
	xhr.EventProgress,
	xhr.EventLoad,
	xhr.EventLoadEnd,
	xhr.EventTimeout,
	xhr.EventAbort,
	xhr.EventError,
	xhr.EventSuccess,
}

type terminal struct {
	event    events.Name
	response interface{}
	err      *reqerr.Error
}

func newXHRCmd(root *rootOptions) *cobra.Command {
	f := &requestFlags{}
	cmd := &cobra.Command{
		Use:   "xhr [URL]",
		Short: "Drive the event-driven request engine and print its events",
		Long: `Drive the event-driven request engine and print its events.

Each event the engine emits is printed on its own line. When the
request ends in success, error, abort or timeout, the outcome is
printed in the chosen output format. An interrupt (Ctrl-C) aborts the
request.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := f.resolve(cmd, args)
			if err != nil {
				return err
			}
			if err = checkOutputFormat(f.output); err != nil {
				return err
			}
			rt, err := engineResponseType(r.responseType)
			if err != nil {
				return err
			}
			jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			opts := xhr.Options{
				URL:                     r.url,
				Method:                  r.method,
				Headers:                 r.header,
				ResponseType:            rt,
				DisableAutoResponseType: !r.autoResponseType,
				WithCredentials:         r.withCredentials,
				Timeout:                 r.timeout,
				Debug:                   r.debug,
				Signal:                  abort.FromContext(ctx),
			}
			if r.hasBody {
				opts.Body = r.body
			}
			if r.username != "" || r.password != "" {
				opts.Credentials = &xhr.Credentials{Username: r.username, Password: r.password}
			}

			cl := &reqx.Client{HTTPDoer: &http.Client{Jar: jar}, Jar: jar, Logger: root.logger}
			x := cl.NewEngine(opts)
			lines := &syncWriter{w: cmd.OutOrStdout()}
			done := watchEngine(x, lines)

			x.Init().Send()

			var t terminal
			select {
			case t = <-done:
			case <-ctx.Done():
				select {
				case t = <-done:
				case <-time.After(abortGrace):
					t = terminal{event: xhr.EventAbort, err: reqerr.NewAbort("")}
				}
			}
			_ = lines.Close()
			return report(cmd.OutOrStdout(), f, x, t)
		},
	}
	f.register(cmd, true)
	return cmd
}

// watchEngine prints every event x emits to w and returns a channel
// which receives the first terminal event.
func watchEngine(x *xhr.Engine, w io.Writer) <-chan terminal {
	done := make(chan terminal, 1)
	finish := func(t terminal) {
		select {
		case done <- t:
		default:
		}
	}
	for _, name := range printedEvents {
		name := name
		x.On(name, func(args ...interface{}) {
			fmt.Fprintln(w, describeEvent(name, args))
		})
	}
	x.OnSuccess(func(response interface{}, _ *xhr.Engine) {
		finish(terminal{event: xhr.EventSuccess, response: response})
	})
	x.OnError(func(err *reqerr.Error, _ *xhr.Engine) {
		finish(terminal{event: xhr.EventError, err: err})
	})
	x.OnAbort(func(err *reqerr.Error, _ *xhr.Event, _ *xhr.Engine) {
		finish(terminal{event: xhr.EventAbort, err: err})
	})
	x.OnProgress(xhr.EventTimeout, func(*xhr.Event, *xhr.Engine) {
		finish(terminal{event: xhr.EventTimeout, err: reqerr.New("The request timed out.", reqerr.CodeUnknown).WithName("TimeoutError")})
	})
	return done
}

func describeEvent(name events.Name, args []interface{}) string {
	var b strings.Builder
	b.WriteString(string(name))
	for _, arg := range args {
		switch v := arg.(type) {
		case *xhr.Event:
			if v == nil {
				continue
			}
			if v.LengthComputable {
				fmt.Fprintf(&b, " loaded=%d total=%d", v.Loaded, v.Total)
			} else if v.Loaded > 0 {
				fmt.Fprintf(&b, " loaded=%d", v.Loaded)
			}
		case *reqerr.Error:
			if v != nil {
				fmt.Fprintf(&b, " code=%s message=%q", v.Code, v.Message)
			}
		case *xhr.Engine:
			if name == xhr.EventReadyStateChange {
				fmt.Fprintf(&b, " readyState=%s", v.ReadyState())
			}
		}
	}
	return b.String()
}

func report(w io.Writer, f *requestFlags, x *xhr.Engine, t terminal) error {
	out := map[string]interface{}{
		"event":  string(t.event),
		"status": int64(x.Status()),
		"data":   nil,
		"error":  plain(t.err),
	}
	if ct, ok := x.GetResponseContentType(); ok {
		out["contentType"] = ct
	}
	if t.event == xhr.EventSuccess {
		data := plain(t.response)
		if f.selector != "" {
			var err error
			if data, err = selectPath(f.selector, data); err != nil {
				return err
			}
		}
		out["data"] = data
	}
	if err := writeOutput(w, f.output, out); err != nil {
		return err
	}
	if t.event != xhr.EventSuccess {
		return fmt.Errorf("request ended with %s", t.event)
	}
	return nil
}

func engineResponseType(s string) (xhr.ResponseType, error) {
	switch rt := xhr.ResponseType(s); rt {
	case xhr.ResponseTypeDefault, xhr.ResponseTypeArrayBuffer, xhr.ResponseTypeBlob,
		xhr.ResponseTypeDocument, xhr.ResponseTypeJSON, xhr.ResponseTypeText:
		return rt, nil
	}
	return "", fmt.Errorf("unknown response type %q", s)
}
