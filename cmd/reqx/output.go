// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sync"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"golang.org/x/net/html"
	"gopkg.in/yaml.v3"

	"github.com/gogama/reqx/reqerr"
	"github.com/gogama/reqx/request"
)

// plain converts a decoded response value into a tree of maps, slices
// and scalars which both output formats can encode.
func plain(v interface{}) interface{} {
	switch x := v.(type) {
	case nil, string, bool, int64, float64, int:
		return x
	case []byte:
		return string(x)
	case map[string]interface{}:
		m := make(map[string]interface{}, len(x))
		for k, e := range x {
			m[k] = plain(e)
		}
		return m
	case []interface{}:
		s := make([]interface{}, len(x))
		for i, e := range x {
			s[i] = plain(e)
		}
		return s
	case http.Header:
		return plainHeader(x)
	case *request.Blob:
		if x == nil {
			return nil
		}
		return map[string]interface{}{"type": x.Type, "size": int64(x.Size()), "text": x.Text()}
	case *request.Document:
		return plainDocument(x)
	case *multipart.Form:
		if x == nil {
			return nil
		}
		values := make(map[string]interface{}, len(x.Value))
		for k, vs := range x.Value {
			values[k] = plainStrings(vs)
		}
		files := make(map[string]interface{}, len(x.File))
		for k, fhs := range x.File {
			names := make([]interface{}, len(fhs))
			for i, fh := range fhs {
				names[i] = map[string]interface{}{"filename": fh.Filename, "size": fh.Size}
			}
			files[k] = names
		}
		return map[string]interface{}{"values": values, "files": files}
	case *reqerr.Error:
		if x == nil {
			return nil
		}
		m := map[string]interface{}{"message": x.Message, "code": string(x.Code)}
		if x.Name != "" {
			m["name"] = x.Name
		}
		for k, e := range x.Details {
			m[k] = plain(e)
		}
		return m
	default:
		return fmt.Sprint(x)
	}
}

func plainHeader(h http.Header) interface{} {
	if h == nil {
		return nil
	}
	m := make(map[string]interface{}, len(h))
	for k, vs := range h {
		m[k] = plainStrings(vs)
	}
	return m
}

func plainStrings(vs []string) []interface{} {
	s := make([]interface{}, len(vs))
	for i, v := range vs {
		s[i] = v
	}
	return s
}

func plainDocument(d *request.Document) interface{} {
	if d == nil {
		return nil
	}
	if d.XML != nil {
		s, err := d.XML.WriteToString()
		if err != nil {
			return nil
		}
		return s
	}
	if d.HTML != nil {
		var buf bytes.Buffer
		if err := html.Render(&buf, d.HTML); err != nil {
			return nil
		}
		return buf.String()
	}
	return nil
}

// selectPath applies a JSONPath expression to data. A single match is
// returned as is and several matches as a list.
func selectPath(expr string, data interface{}) (interface{}, error) {
	x, err := jp.ParseString(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid --select expression: %w", err)
	}
	results := x.Get(data)
	switch len(results) {
	case 0:
		return nil, nil
	case 1:
		return results[0], nil
	default:
		return results, nil
	}
}

func writeOutput(w io.Writer, format string, v map[string]interface{}) error {
	switch format {
	case "json", "":
		_, err := fmt.Fprintln(w, oj.JSON(v, &oj.Options{Indent: 2, Sort: true}))
		return err
	case "yaml":
		b, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	default:
		return checkOutputFormat(format)
	}
}

func checkOutputFormat(format string) error {
	switch format {
	case "json", "", "yaml":
		return nil
	}
	return fmt.Errorf("unknown output format %q (want json or yaml)", format)
}

// syncWriter serializes writes from event listeners, which run on the
// transport's goroutine. Writes after Close are dropped.
type syncWriter struct {
	mu     sync.Mutex
	w      io.Writer
	closed bool
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return len(p), nil
	}
	return s.w.Write(p)
}

func (s *syncWriter) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
