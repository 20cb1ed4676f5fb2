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
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables that override file values.
const (
	EnvMaxBodyLength         = "SLOGEXCHANGE_MAX_BODY_LENGTH"
	EnvHashLength            = "SLOGEXCHANGE_HASH_LENGTH"
	EnvRequestMediaSubtypes  = "SLOGEXCHANGE_REQUEST_MEDIA_SUBTYPES"
	EnvResponseMediaSubtypes = "SLOGEXCHANGE_RESPONSE_MEDIA_SUBTYPES"
	EnvHeaders               = "SLOGEXCHANGE_HEADERS"
)

// Parse decodes YAML over Default and validates the result. Fields absent
// from data keep their defaults; lists present in data replace the default
// list. Unknown fields are rejected.
func Parse(data []byte) (*Config, error) {
	cfg, err := decode(data)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads the file at path, applies environment overrides, and validates
// the result. Environment values take precedence over the file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}
	cfg, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("parse config file %q: %w", path, err)
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: decode yaml: %v", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from the variables found by lookup. List values
// are comma separated; an empty value clears the list.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		return nil
	}
	if v, ok := lookup(EnvMaxBodyLength); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, EnvMaxBodyLength, v)
		}
		c.MaxBodyLength = n
	}
	if v, ok := lookup(EnvHashLength); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, EnvHashLength, v)
		}
		c.HashLength = n
	}
	if v, ok := lookup(EnvRequestMediaSubtypes); ok {
		c.RequestMediaSubtypes = splitList(v)
	}
	if v, ok := lookup(EnvResponseMediaSubtypes); ok {
		c.ResponseMediaSubtypes = splitList(v)
	}
	if v, ok := lookup(EnvHeaders); ok {
		c.Headers = splitList(v)
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
