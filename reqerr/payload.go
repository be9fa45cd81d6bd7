// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package reqerr

import (
	"fmt"
	"strconv"
)

// IsPayload reports whether v has the shape of a structured error
// payload: a JSON-like object with a string "message" member and a
// "code" member.
//
// The check is structural only. A success payload which happens to
// carry both members is also recognised.
func IsPayload(v interface{}) bool {
	switch x := v.(type) {
	case *Error:
		return x != nil
	case map[string]interface{}:
		msg, hasMessage := x["message"]
		_, hasCode := x["code"]
		if !hasMessage || !hasCode {
			return false
		}
		_, ok := msg.(string)
		return ok
	default:
		return false
	}
}

// FromPayload reconstructs an Error from a structured error payload.
// The second return value is false if v is not a payload according to
// IsPayload.
func FromPayload(v interface{}) (*Error, bool) {
	if !IsPayload(v) {
		return nil, false
	}
	if e, ok := v.(*Error); ok {
		c := *e
		return &c, true
	}
	m := v.(map[string]interface{})
	e := &Error{
		Message: m["message"].(string),
		Code:    payloadCode(m["code"]),
	}
	if name, ok := m["name"].(string); ok {
		e.Name = name
	}
	if cause, ok := m["cause"]; ok {
		e.Cause = cause
	}
	for k, v := range m {
		switch k {
		case "message", "code", "name", "cause":
			continue
		}
		if e.Details == nil {
			e.Details = make(map[string]interface{})
		}
		e.Details[k] = v
	}
	return e, true
}

func payloadCode(v interface{}) Code {
	switch x := v.(type) {
	case string:
		return Code(x)
	case int64:
		return Code(strconv.FormatInt(x, 10))
	case float64:
		return Code(strconv.FormatFloat(x, 'f', -1, 64))
	case nil:
		return CodeUnknown
	default:
		return Code(fmt.Sprint(x))
	}
}
