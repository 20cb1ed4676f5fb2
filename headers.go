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
	"net/http"
	"slices"
	"strings"
)

// DefaultHeaders is the header allow-list used when none is configured.
var DefaultHeaders = []string{"user-agent", "content-type", "accept"}

// headerAllowList matches header names case-insensitively.
type headerAllowList map[string]struct{}

func newHeaderAllowList(names []string) headerAllowList {
	if len(names) == 0 {
		names = DefaultHeaders
	}
	allow := make(headerAllowList, len(names))
	for _, n := range names {
		if n = strings.ToLower(strings.TrimSpace(n)); n != "" {
			allow[n] = struct{}{}
		}
	}
	return allow
}

// render formats the allowed headers as "Name: value" lines joined by "\n",
// sorted by name. Multi-valued headers produce one line per value.
func (a headerAllowList) render(h http.Header) string {
	if len(h) == 0 || len(a) == 0 {
		return ""
	}
	names := make([]string, 0, len(a))
	for name := range h {
		if _, ok := a[strings.ToLower(name)]; ok {
			names = append(names, name)
		}
	}
	slices.Sort(names)

	var b strings.Builder
	for _, name := range names {
		for _, v := range h[name] {
			if b.Len() > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(name)
			b.WriteString(": ")
			b.WriteString(v)
		}
	}
	return b.String()
}
