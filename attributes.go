// Copyright 2026 Patrick J. Scruggs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package slogexchange

import (
	"strings"

	"github.com/pjscruggs/slogexchange/capture"
)

// Namespace prefixes every attribute key owned by this package. Sink.Reset
// removes only keys carrying it.
const Namespace = "HC_"

// Attribute keys written for each exchange.
const (
	KeyRequestTime        = Namespace + "REQUEST_TIME"
	KeyRequestHash        = Namespace + "REQUEST_HASH"
	KeyRequestLine        = Namespace + "REQUEST_LINE"
	KeyRequestHeaders     = Namespace + "REQUEST_HEADERS"
	KeyRequestBody        = Namespace + "REQUEST_BODY"
	KeyResponseStatus     = Namespace + "RESPONSE_STATUS"
	KeyResponseHeaders    = Namespace + "RESPONSE_HEADERS"
	KeyResponseBody       = Namespace + "RESPONSE_BODY"
	KeyResponseBodyLength = Namespace + "RESPONSE_BODY_LENGTH"
)

// Placeholder is recorded in place of absent, blank, or "null" values.
const Placeholder = capture.Placeholder

// ReplaceEmpty substitutes Placeholder for blank values and the word "null".
func ReplaceEmpty(v string) string {
	return capture.ReplaceEmpty(v)
}

// Escape rewrites control characters so a value always renders on one log
// line. Newline, carriage return, and tab use their short escapes; other C0
// characters and DEL use \u00XX.
func Escape(v string) string {
	if !needsEscape(v) {
		return v
	}
	const hex = "0123456789abcdef"
	var b strings.Builder
	b.Grow(len(v) + 8)
	for i := 0; i < len(v); i++ {
		c := v[i]
		switch {
		case c == '\n':
			b.WriteString(`\n`)
		case c == '\r':
			b.WriteString(`\r`)
		case c == '\t':
			b.WriteString(`\t`)
		case c < 0x20 || c == 0x7f:
			b.WriteString(`\u00`)
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&0xf])
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func needsEscape(v string) bool {
	for i := 0; i < len(v); i++ {
		if c := v[i]; c < 0x20 || c == 0x7f {
			return true
		}
	}
	return false
}
