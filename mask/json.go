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

package mask

import (
	"sort"
	"strings"

	"github.com/tidwall/gjson"
)

const redactedJSON = `"` + Redacted + `"`

type jsonSpan struct {
	start int
	end   int
}

// JSONFields returns a Rule that replaces the JSON values addressed by the
// given gjson paths with the string "***". Paths using the '#' array query
// syntax mask every matched element. Text that is not JSON, or in which no
// path matches, is returned unchanged. Truncated documents are masked as far
// as gjson can locate the values.
func JSONFields(paths ...string) Rule {
	cleaned := make([]string, 0, len(paths))
	for _, p := range paths {
		if p = strings.TrimSpace(p); p != "" {
			cleaned = append(cleaned, p)
		}
	}
	return RuleFunc(func(text string) string {
		if len(cleaned) == 0 {
			return text
		}
		return replaceSpans(text, locateJSONValues(text, cleaned))
	})
}

// locateJSONValues returns the byte spans of every value matched by paths.
func locateJSONValues(text string, paths []string) []jsonSpan {
	var spans []jsonSpan
	add := func(index int, raw string) {
		if index <= 0 || raw == "" || index+len(raw) > len(text) {
			return
		}
		if text[index:index+len(raw)] != raw {
			return
		}
		spans = append(spans, jsonSpan{start: index, end: index + len(raw)})
	}

	for _, path := range paths {
		res := gjson.Get(text, path)
		if !res.Exists() {
			continue
		}
		if len(res.Indexes) > 0 {
			for i, el := range res.Array() {
				if i < len(res.Indexes) {
					add(res.Indexes[i], el.Raw)
				}
			}
			continue
		}
		add(res.Index, res.Raw)
	}
	return spans
}

// replaceSpans writes redactedJSON over each span. Overlapping spans collapse
// into the outermost one.
func replaceSpans(text string, spans []jsonSpan) string {
	if len(spans) == 0 {
		return text
	}
	sort.Slice(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		return spans[i].end > spans[j].end
	})

	var b strings.Builder
	b.Grow(len(text))
	cursor := 0
	for _, s := range spans {
		if s.start < cursor {
			continue
		}
		b.WriteString(text[cursor:s.start])
		b.WriteString(redactedJSON)
		cursor = s.end
	}
	b.WriteString(text[cursor:])
	return b.String()
}
