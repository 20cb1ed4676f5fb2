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
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Names of the built-in rules accepted by Builtin.
const (
	BuiltinEmail       = "email"
	BuiltinBearerToken = "bearer_token"
	BuiltinCreditCard  = "credit_card"
	BuiltinPassword    = "password"
	BuiltinAPIKey      = "api_key"
)

type patternRule struct {
	re          *regexp.Regexp
	replacement string
}

func (r patternRule) Mask(text string) string {
	return r.re.ReplaceAllString(text, r.replacement)
}

// Pattern compiles expr and returns a Rule replacing every match with
// replacement. The replacement may reference capture groups using the
// regexp.Expand syntax ($1, ${name}).
func Pattern(expr, replacement string) (Rule, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: compile %q: %w", ErrInvalidRule, expr, err)
	}
	return patternRule{re: re, replacement: replacement}, nil
}

// MustPattern is like Pattern but panics when expr does not compile.
func MustPattern(expr, replacement string) Rule {
	rule, err := Pattern(expr, replacement)
	if err != nil {
		panic(err)
	}
	return rule
}

var builtins = map[string]struct {
	expr        string
	replacement string
}{
	BuiltinEmail: {
		expr:        `[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`,
		replacement: Redacted,
	},
	BuiltinBearerToken: {
		expr:        `Bearer\s+[a-zA-Z0-9\-._~+/]+=*`,
		replacement: "Bearer " + Redacted,
	},
	BuiltinCreditCard: {
		expr:        `\b(?:\d[ -]?){12,15}\d\b`,
		replacement: "****-****-****-****",
	},
	BuiltinPassword: {
		expr:        `(?i)("?(?:password|passwd|pwd)"?\s*[:=]\s*)("[^"]*"|[^\s,&}]+)`,
		replacement: `${1}"` + Redacted + `"`,
	},
	BuiltinAPIKey: {
		expr:        `(sk-[a-zA-Z0-9]{8,}|(?i:api[-_]?key)["']?\s*[:=]\s*["']?[a-zA-Z0-9]+)`,
		replacement: Redacted,
	},
}

// Builtin returns the named built-in rule. Names are matched
// case-insensitively.
func Builtin(name string) (Rule, error) {
	def, ok := builtins[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: unknown builtin %q (known: %s)", ErrInvalidRule, name, strings.Join(BuiltinNames(), ", "))
	}
	return Pattern(def.expr, def.replacement)
}

// BuiltinNames lists the names accepted by Builtin in sorted order.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
