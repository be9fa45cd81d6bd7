// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package nethttp

import (
	"bufio"
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"

	"github.com/gogama/reqx/xhr"
)

const chunkSize = 32 * 1024

// readBody reads the whole response body, dispatching a progress event
// after each chunk, and then removes any content coding.
func (t *Transport) readBody(gen uint64, resp *http.Response) ([]byte, error) {
	total := resp.ContentLength
	computable := total >= 0
	if !computable {
		total = 0
	}

	var buf bytes.Buffer
	chunk := make([]byte, chunkSize)
	for {
		n, err := resp.Body.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
			t.dispatchProgress(gen, xhr.EventProgress, int64(buf.Len()), total, computable)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	return decompress(resp.Header.Get("Content-Encoding"), buf.Bytes())
}

// decompress removes the content codings listed in encoding, last
// applied first.
func decompress(encoding string, body []byte) ([]byte, error) {
	if encoding == "" {
		return body, nil
	}
	codings := strings.Split(encoding, ",")
	for i := len(codings) - 1; i >= 0; i-- {
		var r io.Reader
		var err error
		src := bytes.NewReader(body)
		switch coding := strings.ToLower(strings.TrimSpace(codings[i])); coding {
		case "", "identity":
			continue
		case "gzip", "x-gzip":
			r, err = gzip.NewReader(src)
		case "deflate":
			r, err = deflateReader(body)
		case "br":
			r = brotli.NewReader(src)
		default:
			return nil, fmt.Errorf("reqx/nethttp: unsupported content encoding %q", coding)
		}
		if err != nil {
			return nil, err
		}
		if body, err = io.ReadAll(r); err != nil {
			return nil, err
		}
	}
	return body, nil
}

// deflateReader accepts both zlib-wrapped and raw deflate data.
func deflateReader(body []byte) (io.Reader, error) {
	br := bufio.NewReader(bytes.NewReader(body))
	if header, err := br.Peek(2); err == nil && (uint16(header[0])<<8|uint16(header[1]))%31 == 0 && header[0]&0x0f == 8 {
		return zlib.NewReader(br)
	}
	return flate.NewReader(br), nil
}
