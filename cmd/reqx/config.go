// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gogama/reqx/request"
)

var errNoURL = errors.New("reqx: no URL given")

// requestFile is the YAML request description accepted by --config.
type requestFile struct {
	URL              string            `yaml:"url"`
	Method           string            `yaml:"method"`
	Headers          map[string]string `yaml:"headers"`
	Body             string            `yaml:"body"`
	Username         string            `yaml:"username"`
	Password         string            `yaml:"password"`
	ResponseType     string            `yaml:"responseType"`
	AutoResponseType *bool             `yaml:"autoResponseType"`
	WithCredentials  bool              `yaml:"withCredentials"`
	Timeout          time.Duration     `yaml:"timeout"`
	Debug            bool              `yaml:"debug"`
}

func loadRequestFile(path string) (*requestFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read request file: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("request file is empty: %s", path)
	}
	var f requestFile
	if err = yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("invalid YAML in request file %s: %w", path, err)
	}
	return &f, nil
}

// requestFlags holds the flags shared by every request command.
type requestFlags struct {
	config          string
	method          string
	headers         []string
	data            string
	responseType    string
	output          string
	selector        string
	username        string
	password        string
	timeout         time.Duration
	withCredentials bool
	noAutoType      bool
	debug           bool
}

func (f *requestFlags) register(cmd *cobra.Command, engine bool) {
	flags := cmd.Flags()
	flags.StringVar(&f.config, "config", "", "YAML request file; flags override its values")
	flags.StringVarP(&f.method, "method", "X", "", "Request method (default GET)")
	flags.StringArrayVarP(&f.headers, "header", "H", nil, "Request header as 'Name: value' (repeatable); 'Name:' removes it")
	flags.StringVarP(&f.data, "data", "d", "", "Request body")
	flags.StringVar(&f.responseType, "response-type", "", "Response type used to decode the body")
	flags.StringVarP(&f.output, "output", "o", "json", "Output format (json, yaml)")
	flags.StringVar(&f.selector, "select", "", "JSONPath expression applied to decoded response data")
	if !engine {
		return
	}
	flags.StringVar(&f.username, "user", "", "Basic authentication user name")
	flags.StringVar(&f.password, "password", "", "Basic authentication password")
	flags.DurationVar(&f.timeout, "timeout", 0, "Request timeout (0 means none)")
	flags.BoolVar(&f.withCredentials, "with-credentials", false, "Send and store cookies")
	flags.BoolVar(&f.noAutoType, "no-auto-response-type", false, "Do not infer the response type from Content-Type")
	flags.BoolVar(&f.debug, "debug", false, "Log the request lifecycle at info level")
}

// resolved is a request description after merging the request file
// with the command line.
type resolved struct {
	url              string
	method           string
	header           http.Header
	body             string
	hasBody          bool
	username         string
	password         string
	responseType     string
	autoResponseType bool
	withCredentials  bool
	timeout          time.Duration
	debug            bool
}

func (f *requestFlags) resolve(cmd *cobra.Command, args []string) (*resolved, error) {
	file := &requestFile{}
	if f.config != "" {
		var err error
		if file, err = loadRequestFile(f.config); err != nil {
			return nil, err
		}
	}

	r := &resolved{
		url:              file.URL,
		method:           file.Method,
		body:             file.Body,
		hasBody:          file.Body != "",
		username:         file.Username,
		password:         file.Password,
		responseType:     file.ResponseType,
		autoResponseType: file.AutoResponseType == nil || *file.AutoResponseType,
		withCredentials:  file.WithCredentials,
		timeout:          file.Timeout,
		debug:            file.Debug,
	}
	headers := request.HeadersFromMap(file.Headers)

	changed := cmd.Flags().Changed
	if len(args) > 0 {
		r.url = args[0]
	}
	if changed("method") {
		r.method = f.method
	}
	for _, h := range f.headers {
		name, value, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid header %q: expected 'Name: value'", h)
		}
		name, value = strings.TrimSpace(name), strings.TrimSpace(value)
		if value == "" {
			headers.Delete(name)
			continue
		}
		headers.Append(name, value)
	}
	r.header = headers.HTTPHeader()
	if changed("data") {
		r.body, r.hasBody = f.data, true
	}
	if changed("response-type") {
		r.responseType = f.responseType
	}
	if changed("user") {
		r.username = f.username
	}
	if changed("password") {
		r.password = f.password
	}
	if changed("timeout") {
		r.timeout = f.timeout
	}
	if changed("with-credentials") {
		r.withCredentials = f.withCredentials
	}
	if changed("no-auto-response-type") {
		r.autoResponseType = !f.noAutoType
	}
	if changed("debug") {
		r.debug = f.debug
	}

	if r.url == "" {
		return nil, errNoURL
	}
	return r, nil
}
