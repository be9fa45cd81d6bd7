// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"fmt"
	urlpkg "net/url"
)

// FormatURL returns the canonical string form of a URL-like input.
//
// The input may be a string, a url.URL or *url.URL, or a fmt.Stringer.
// Strings are parsed and re-serialized, so relative references and
// escaping are normalized the same way for every input kind.
func FormatURL(u interface{}) (string, error) {
	switch x := u.(type) {
	case string:
		parsed, err := urlpkg.Parse(x)
		if err != nil {
			return "", err
		}
		parsed.Host = removeEmptyPort(parsed.Host)
		return parsed.String(), nil
	case *urlpkg.URL:
		if x == nil {
			return "", fmt.Errorf("reqx/request: nil URL")
		}
		return x.String(), nil
	case urlpkg.URL:
		return x.String(), nil
	case fmt.Stringer:
		return FormatURL(x.String())
	default:
		return "", fmt.Errorf("reqx/request: invalid URL type %T", u)
	}
}
