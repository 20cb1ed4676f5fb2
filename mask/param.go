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
	"regexp"
	"strings"
)

// QueryParameters returns a Rule that replaces the values of the named query
// parameters in any URL-shaped text with Redacted. Parameter names are
// matched case-insensitively and are treated literally. With no names the
// rule is the identity.
func QueryParameters(names ...string) Rule {
	quoted := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(name))
	}
	if len(quoted) == 0 {
		return RuleFunc(func(text string) string { return text })
	}
	re := regexp.MustCompile(`(?i)([?&;](?:` + strings.Join(quoted, "|") + `)=)[^&;#\s]*`)
	return patternRule{re: re, replacement: "${1}" + Redacted}
}
