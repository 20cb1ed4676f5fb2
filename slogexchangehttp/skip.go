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

package slogexchangehttp

import (
	"net/http"
	"regexp"
	"strings"
)

// SkipRule describes requests whose exchanges are passed through without
// logging, typically health or readiness probes issued by a client. A request
// is skipped when any field matches.
type SkipRule struct {
	// Paths are exact URL paths.
	Paths []string
	// PathPrefixes are matched with strings.HasPrefix.
	PathPrefixes []string
	// PathPatterns are regular expressions matched against the URL path.
	PathPatterns []*regexp.Regexp
	// HeaderEquals matches a header by name and, when values are listed, by
	// one of the values compared case-insensitively. An empty value list
	// matches any request carrying the header.
	HeaderEquals map[string][]string
}

// Matcher compiles r into a predicate suitable for WithSkip.
func (r SkipRule) Matcher() func(*http.Request) bool {
	paths := make(map[string]struct{}, len(r.Paths))
	for _, p := range r.Paths {
		if p = strings.TrimSpace(p); p != "" {
			paths[p] = struct{}{}
		}
	}
	var prefixes []string
	for _, p := range r.PathPrefixes {
		if p = strings.TrimSpace(p); p != "" {
			prefixes = append(prefixes, p)
		}
	}
	var patterns []*regexp.Regexp
	for _, re := range r.PathPatterns {
		if re != nil {
			patterns = append(patterns, re)
		}
	}
	headers := make([]headerMatcher, 0, len(r.HeaderEquals))
	for name, values := range r.HeaderEquals {
		if name = strings.TrimSpace(name); name != "" {
			headers = append(headers, newHeaderMatcher(name, values))
		}
	}

	return func(req *http.Request) bool {
		if req == nil || req.URL == nil {
			return false
		}
		path := req.URL.Path
		if _, ok := paths[path]; ok {
			return true
		}
		for _, prefix := range prefixes {
			if strings.HasPrefix(path, prefix) {
				return true
			}
		}
		for _, re := range patterns {
			if re.MatchString(path) {
				return true
			}
		}
		for _, hm := range headers {
			if hm.match(req.Header) {
				return true
			}
		}
		return false
	}
}

type headerMatcher struct {
	key    string
	values map[string]struct{}
}

func newHeaderMatcher(name string, values []string) headerMatcher {
	hm := headerMatcher{key: http.CanonicalHeaderKey(name)}
	for _, v := range values {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			if hm.values == nil {
				hm.values = make(map[string]struct{})
			}
			hm.values[v] = struct{}{}
		}
	}
	return hm
}

func (hm headerMatcher) match(header http.Header) bool {
	values := header.Values(hm.key)
	if len(values) == 0 {
		return false
	}
	if hm.values == nil {
		return true
	}
	for _, raw := range values {
		if _, ok := hm.values[strings.ToLower(strings.TrimSpace(raw))]; ok {
			return true
		}
	}
	return false
}
