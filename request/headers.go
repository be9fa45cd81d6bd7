// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"net/http"
	"sort"
	"strings"
)

// Headers is a normalized header collection. Names are compared
// case-insensitively and stored lower-cased; iteration visits names in
// lexical order. Multiple values for one name are combined into a
// single value separated by ", ".
//
// The zero value is an empty collection ready to use.
type Headers struct {
	values map[string]string
}

// NewHeaders returns a Headers collection containing the fields of h.
// A nil h yields an empty collection.
func NewHeaders(h http.Header) *Headers {
	hs := &Headers{}
	for name, values := range h {
		for _, v := range values {
			hs.Append(name, v)
		}
	}
	return hs
}

// HeadersFromMap returns a Headers collection containing the given
// name/value pairs.
func HeadersFromMap(m map[string]string) *Headers {
	hs := &Headers{}
	for name, v := range m {
		hs.Append(name, v)
	}
	return hs
}

func normalizeValue(v string) string {
	return strings.Trim(v, " \t\r\n")
}

// Get returns the value for name and whether it is present.
func (hs *Headers) Get(name string) (string, bool) {
	v, ok := hs.values[strings.ToLower(name)]
	return v, ok
}

// Set replaces any value for name with value.
func (hs *Headers) Set(name, value string) {
	if hs.values == nil {
		hs.values = make(map[string]string)
	}
	hs.values[strings.ToLower(name)] = normalizeValue(value)
}

// Append adds value to any existing value for name.
func (hs *Headers) Append(name, value string) {
	key := strings.ToLower(name)
	if old, ok := hs.values[key]; ok {
		hs.Set(key, old+", "+normalizeValue(value))
		return
	}
	hs.Set(key, value)
}

// Delete removes name.
func (hs *Headers) Delete(name string) {
	delete(hs.values, strings.ToLower(name))
}

// Len returns the number of distinct names.
func (hs *Headers) Len() int {
	return len(hs.values)
}

// Keys returns the lower-cased names in lexical order.
func (hs *Headers) Keys() []string {
	keys := make([]string, 0, len(hs.values))
	for k := range hs.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Each calls fn for every name and value, in name order.
func (hs *Headers) Each(fn func(name, value string)) {
	for _, k := range hs.Keys() {
		fn(k, hs.values[k])
	}
}

// Clone returns a deep copy of hs.
func (hs *Headers) Clone() *Headers {
	c := &Headers{}
	hs.Each(c.Set)
	return c
}

// HTTPHeader converts hs into an http.Header.
func (hs *Headers) HTTPHeader() http.Header {
	h := make(http.Header, hs.Len())
	hs.Each(h.Set)
	return h
}
