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

package capture

import (
	"fmt"
	"mime"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// Charset names a character set and carries its decoder.
type Charset struct {
	Name string
	enc  encoding.Encoding
}

// DefaultCharset is used when a body declares no usable charset. Go strings
// are UTF-8, so UTF-8 is the platform default.
var DefaultCharset = Charset{Name: "utf-8", enc: unicode.UTF8}

// ResolveCharset derives the charset declared by a Content-Type value.
// Missing, malformed, or unknown declarations resolve to DefaultCharset.
func ResolveCharset(contentType string) Charset {
	name := charsetParam(contentType)
	if name == "" {
		return DefaultCharset
	}
	enc, err := htmlindex.Get(name)
	if err != nil || enc == nil {
		return DefaultCharset
	}
	canonical, err := htmlindex.Name(enc)
	if err != nil || canonical == "" {
		canonical = strings.ToLower(name)
	}
	return Charset{Name: canonical, enc: enc}
}

// Decode converts b from the charset into a Go string. Bytes that are not
// valid in the charset are replaced rather than rejected.
func (c Charset) Decode(b []byte) (string, error) {
	enc := c.enc
	if enc == nil || enc == unicode.UTF8 {
		if utf8.Valid(b) {
			return string(b), nil
		}
		enc = unicode.UTF8
	}
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", c.Name, err)
	}
	return string(out), nil
}

// Encode converts s into the charset.
func (c Charset) Encode(s string) ([]byte, error) {
	if c.enc == nil || c.enc == unicode.UTF8 {
		return []byte(s), nil
	}
	out, err := c.enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", c.Name, err)
	}
	return out, nil
}

// charsetParam extracts the charset parameter from a Content-Type value. It
// prefers mime.ParseMediaType and falls back to a plain scan of the
// parameters when strict parsing fails.
func charsetParam(contentType string) string {
	contentType = strings.TrimSpace(contentType)
	if contentType == "" {
		return ""
	}
	if _, params, err := mime.ParseMediaType(contentType); err == nil {
		return strings.TrimSpace(params["charset"])
	}
	parts := strings.Split(contentType, ";")
	for _, part := range parts[1:] {
		key, value, ok := strings.Cut(part, "=")
		if !ok || !strings.EqualFold(strings.TrimSpace(key), "charset") {
			continue
		}
		return strings.Trim(strings.TrimSpace(value), `"'`)
	}
	return ""
}
