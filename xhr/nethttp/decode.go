// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package nethttp

import (
	"bytes"
	"mime"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/beevik/etree"
	"github.com/ohler55/ojg/oj"
	"golang.org/x/net/html"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/gogama/reqx/request"
	"github.com/gogama/reqx/xhr"
)

// decodeResponse converts a complete response body into the value
// exposed for the response type. Bodies which cannot be parsed as JSON
// or as a document decode to nil.
func decodeResponse(rt xhr.ResponseType, header http.Header, body []byte) interface{} {
	contentType := header.Get("Content-Type")
	switch rt {
	case xhr.ResponseTypeArrayBuffer:
		return body
	case xhr.ResponseTypeBlob:
		return &request.Blob{Type: contentType, Data: body}
	case xhr.ResponseTypeJSON:
		if len(bytes.TrimSpace(body)) == 0 {
			return nil
		}
		v, err := oj.Parse(body)
		if err != nil {
			return nil
		}
		return v
	case xhr.ResponseTypeDocument:
		return decodeDocument(contentType, body)
	default:
		return decodeText(contentType, body)
	}
}

// decodeText converts body to a UTF-8 string using the charset named in
// contentType. Unknown charsets, and bodies already valid UTF-8 with no
// charset, are used as is.
func decodeText(contentType string, body []byte) string {
	charset := ""
	if _, params, err := mime.ParseMediaType(contentType); err == nil {
		charset = params["charset"]
	}
	if charset == "" {
		return string(body)
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return string(body)
	}
	if name, _ := htmlindex.Name(enc); name == "utf-8" && utf8.Valid(body) {
		return string(body)
	}
	b, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return string(body)
	}
	return string(b)
}

func decodeDocument(contentType string, body []byte) *request.Document {
	mediaType, _, _ := mime.ParseMediaType(contentType)
	if strings.EqualFold(mediaType, "text/html") {
		n, err := html.Parse(bytes.NewReader(body))
		if err != nil {
			return nil
		}
		return &request.Document{HTML: n}
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return nil
	}
	return &request.Document{XML: doc}
}
