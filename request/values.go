// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"github.com/beevik/etree"
	"golang.org/x/net/html"
)

// A Blob is an immutable chunk of binary data with a MIME type.
type Blob struct {
	// Type is the MIME type of the data, as given by the response
	// Content-Type header. It may be empty.
	Type string
	// Data is the raw data.
	Data []byte
}

// Size returns the size of the blob in bytes.
func (b *Blob) Size() int {
	return len(b.Data)
}

// Text returns the blob's full contents as a string.
func (b *Blob) Text() string {
	return string(b.Data)
}

// A Document is a parsed markup response. Exactly one of XML and HTML
// is set.
type Document struct {
	// XML is set for XML documents.
	XML *etree.Document
	// HTML is set for HTML documents.
	HTML *html.Node
}
