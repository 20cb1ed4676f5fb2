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
	"errors"
	"mime"
	"net/http"
	"strings"
)

// DefaultRequestMediaSubtypes are the media type fragments whose request
// bodies are captured when no allow-list is configured.
var DefaultRequestMediaSubtypes = []string{"json", "xml"}

// DefaultResponseMediaSubtypes is empty: response bodies are captured only
// for media types the caller opts in to.
var DefaultResponseMediaSubtypes []string

// MediaGate decides from a message's Content-Type whether its body may be
// captured.
type MediaGate struct {
	subtypes []string
}

// NewMediaGate returns a gate admitting media types that contain any of
// subtypes, compared case-insensitively. Blank entries are ignored; a gate
// with no entries admits nothing.
func NewMediaGate(subtypes ...string) MediaGate {
	cleaned := make([]string, 0, len(subtypes))
	for _, s := range subtypes {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	return MediaGate{subtypes: cleaned}
}

// Subtypes returns a copy of the gate's allow-list.
func (g MediaGate) Subtypes() []string {
	return append([]string(nil), g.subtypes...)
}

// Eligible reports whether the Content-Type in h names an allowed media type.
// A missing or blank Content-Type, or one that cannot be parsed, is never
// eligible.
func (g MediaGate) Eligible(h http.Header) bool {
	if h == nil || len(g.subtypes) == 0 {
		return false
	}
	mimeType, ok := mediaType(h.Get("Content-Type"))
	if !ok {
		return false
	}
	for _, s := range g.subtypes {
		if strings.Contains(mimeType, s) {
			return true
		}
	}
	return false
}

// mediaType returns the lower-cased media type of a Content-Type value with
// parameters stripped. Invalid parameters do not invalidate the type itself.
func mediaType(contentType string) (string, bool) {
	contentType = strings.TrimSpace(contentType)
	if contentType == "" {
		return "", false
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil && !errors.Is(err, mime.ErrInvalidMediaParameter) {
		return "", false
	}
	if mt == "" {
		return "", false
	}
	return strings.ToLower(mt), true
}
