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

// Package mask replaces sensitive spans in logged text.
//
// A [Rule] is a single string-to-string transformation. Rules are composed
// with [Apply], which folds them left to right: every rule receives the
// output of the rule before it and never the original input. Callers own the
// order of the slice they pass, so the same slice always yields the same
// output for the same input.
//
// The package ships three rule families:
//   - [Pattern] and [MustPattern] replace regular-expression matches.
//   - [QueryParameters] hides the values of named URL query parameters.
//   - [JSONFields] hides JSON values addressed by gjson paths.
//
// [Builtin] resolves the named rules used by configuration files.
package mask

import "errors"

// ErrInvalidRule reports a rule definition that cannot be compiled.
var ErrInvalidRule = errors.New("mask: invalid rule")

// Redacted is the replacement written over masked values by the rules in
// this package unless a rule specifies its own replacement.
const Redacted = "***"

// Rule transforms text into text with sensitive spans replaced.
type Rule interface {
	Mask(text string) string
}

// RuleFunc adapts an ordinary function to the Rule interface.
type RuleFunc func(string) string

// Mask calls f(text).
func (f RuleFunc) Mask(text string) string { return f(text) }

// Apply runs rules over text in slice order, feeding each rule the previous
// rule's output. Nil rules are skipped. An empty text is returned unchanged
// without invoking any rule.
func Apply(rules []Rule, text string) string {
	if text == "" {
		return text
	}
	out := text
	for _, rule := range rules {
		if rule == nil {
			continue
		}
		out = rule.Mask(out)
	}
	return out
}

// Chain returns a Rule that applies rules in order. The slice is copied so
// later mutation by the caller does not change the chain.
func Chain(rules ...Rule) Rule {
	ordered := append([]Rule(nil), rules...)
	return RuleFunc(func(text string) string {
		return Apply(ordered, text)
	})
}
