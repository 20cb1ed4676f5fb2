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

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pjscruggs/slogexchange/mask"
)

// ErrInvalidConfig reports a configuration that cannot be used.
var ErrInvalidConfig = errors.New("invalid config")

// maxHashLength bounds the correlation hash so log lines stay short.
const maxHashLength = 64

// Validate reports every problem found in c, each wrapping ErrInvalidConfig.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: nil config", ErrInvalidConfig)
	}
	var errs []error
	if c.HashLength < 1 || c.HashLength > maxHashLength {
		errs = append(errs, fmt.Errorf("%w: hash_length %d out of range [1, %d]", ErrInvalidConfig, c.HashLength, maxHashLength))
	}
	if strings.TrimSpace(c.TimeLayout) == "" {
		errs = append(errs, fmt.Errorf("%w: time_layout is empty", ErrInvalidConfig))
	}
	errs = append(errs, blankEntries("request_media_subtypes", c.RequestMediaSubtypes)...)
	errs = append(errs, blankEntries("response_media_subtypes", c.ResponseMediaSubtypes)...)
	errs = append(errs, blankEntries("headers", c.Headers)...)
	errs = append(errs, blankEntries("masking.json_fields", c.Masking.JSONFields)...)
	errs = append(errs, blankEntries("masking.query_parameters", c.Masking.QueryParameters)...)
	for _, name := range c.Masking.Builtins {
		if _, err := mask.Builtin(name); err != nil {
			errs = append(errs, fmt.Errorf("%w: masking.builtins: %v", ErrInvalidConfig, err))
		}
	}
	for i, p := range c.Masking.Patterns {
		if p.Expr == "" {
			errs = append(errs, fmt.Errorf("%w: masking.patterns[%d] %s has no pattern", ErrInvalidConfig, i, p.Name))
			continue
		}
		if _, err := mask.Pattern(p.Expr, p.Replacement); err != nil {
			errs = append(errs, fmt.Errorf("%w: masking.patterns[%d] %s: %v", ErrInvalidConfig, i, p.Name, err))
		}
	}
	return errors.Join(errs...)
}

func blankEntries(field string, values []string) []error {
	var errs []error
	for i, v := range values {
		if strings.TrimSpace(v) == "" {
			errs = append(errs, fmt.Errorf("%w: %s[%d] is blank", ErrInvalidConfig, field, i))
		}
	}
	return errs
}

// MaskRules compiles the body masking rules in application order: builtins,
// then patterns, then a single rule covering every JSON field path.
func (c *Config) MaskRules() ([]mask.Rule, error) {
	var rules []mask.Rule
	for _, name := range c.Masking.Builtins {
		r, err := mask.Builtin(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		rules = append(rules, r)
	}
	for _, p := range c.Masking.Patterns {
		r, err := mask.Pattern(p.Expr, p.Replacement)
		if err != nil {
			return nil, fmt.Errorf("%w: pattern %s: %v", ErrInvalidConfig, p.Name, err)
		}
		rules = append(rules, r)
	}
	if len(c.Masking.JSONFields) > 0 {
		rules = append(rules, mask.JSONFields(c.Masking.JSONFields...))
	}
	return rules, nil
}

// ParameterRules returns the rules applied to the request line.
func (c *Config) ParameterRules() []mask.Rule {
	if len(c.Masking.QueryParameters) == 0 {
		return nil
	}
	return []mask.Rule{mask.QueryParameters(c.Masking.QueryParameters...)}
}
