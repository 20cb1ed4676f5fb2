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

// Package config loads the exchange logging configuration from YAML and the
// environment, validates it, compiles its masking rules, and watches the
// file for changes.
//
// A minimal file:
//
//	max_body_length: 4096
//	response_media_subtypes: [json]
//	headers: [content-type, x-request-id]
//	masking:
//	  builtins: [email, bearer_token]
//	  json_fields: [password, card.number]
//	  query_parameters: [token, api_key]
package config

import (
	"slices"

	"github.com/pjscruggs/slogexchange/capture"
)

// DefaultTimeLayout is the REQUEST_TIME layout used when none is configured.
const DefaultTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// DefaultHashLength is the REQUEST_HASH length used when none is configured.
const DefaultHashLength = 8

// DefaultHeaders is the header allow-list used when none is configured.
var DefaultHeaders = []string{"user-agent", "content-type", "accept"}

// Config is the declarative configuration of an exchange logging pipeline.
type Config struct {
	// MaxBodyLength bounds logged bodies in characters. Negative disables
	// truncation.
	MaxBodyLength int `yaml:"max_body_length"`
	// HashLength is the length of the per-exchange correlation hash.
	HashLength int `yaml:"hash_length"`
	// TimeLayout is the time.Format layout of the request time.
	TimeLayout string `yaml:"time_layout"`
	// RequestMediaSubtypes admit request bodies whose media type contains
	// any entry.
	RequestMediaSubtypes []string `yaml:"request_media_subtypes"`
	// ResponseMediaSubtypes admit response bodies the same way.
	ResponseMediaSubtypes []string `yaml:"response_media_subtypes"`
	// Headers is the header allow-list, matched case-insensitively.
	Headers []string `yaml:"headers"`
	// TraceProjectID formats trace correlation attributes for Cloud Logging.
	TraceProjectID string `yaml:"trace_project_id"`
	// Masking describes the ordered masking rules.
	Masking Masking `yaml:"masking"`
}

// Masking lists the rules applied to logged bodies and request lines.
// Body rules run in the order builtins, patterns, then JSON fields.
type Masking struct {
	Builtins        []string  `yaml:"builtins"`
	Patterns        []Pattern `yaml:"patterns"`
	JSONFields      []string  `yaml:"json_fields"`
	QueryParameters []string  `yaml:"query_parameters"`
}

// Pattern is a custom regular expression rule.
type Pattern struct {
	Name        string `yaml:"name"`
	Expr        string `yaml:"pattern"`
	Replacement string `yaml:"replacement"`
}

// Default returns the configuration used when nothing is configured. Unlike
// a bare pipeline, it captures JSON and XML response bodies.
func Default() *Config {
	return &Config{
		MaxBodyLength:         capture.DefaultMaxLength,
		HashLength:            DefaultHashLength,
		TimeLayout:            DefaultTimeLayout,
		RequestMediaSubtypes:  slices.Clone(capture.DefaultRequestMediaSubtypes),
		ResponseMediaSubtypes: []string{"json", "xml"},
		Headers:               slices.Clone(DefaultHeaders),
	}
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	out := *c
	out.RequestMediaSubtypes = slices.Clone(c.RequestMediaSubtypes)
	out.ResponseMediaSubtypes = slices.Clone(c.ResponseMediaSubtypes)
	out.Headers = slices.Clone(c.Headers)
	out.Masking.Builtins = slices.Clone(c.Masking.Builtins)
	out.Masking.Patterns = slices.Clone(c.Masking.Patterns)
	out.Masking.JSONFields = slices.Clone(c.Masking.JSONFields)
	out.Masking.QueryParameters = slices.Clone(c.Masking.QueryParameters)
	return &out
}
