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
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	if cfg.MaxBodyLength != 2048 {
		t.Fatalf("MaxBodyLength = %d, want 2048", cfg.MaxBodyLength)
	}
	if cfg.HashLength != 8 {
		t.Fatalf("HashLength = %d, want 8", cfg.HashLength)
	}
	if !slices.Equal(cfg.RequestMediaSubtypes, []string{"json", "xml"}) {
		t.Fatalf("RequestMediaSubtypes = %v, want [json xml]", cfg.RequestMediaSubtypes)
	}
	if !slices.Equal(cfg.Headers, []string{"user-agent", "content-type", "accept"}) {
		t.Fatalf("Headers = %v", cfg.Headers)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v, want nil", err)
	}
	rules, err := cfg.MaskRules()
	if err != nil || len(rules) != 0 {
		t.Fatalf("MaskRules() = (%d rules, %v), want empty", len(rules), err)
	}
	if cfg.ParameterRules() != nil {
		t.Fatalf("ParameterRules() should be empty by default")
	}
}

func TestParseOverridesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Parse([]byte(`
max_body_length: 64
response_media_subtypes: [json]
headers: [X-Request-Id]
masking:
  builtins: [email]
  patterns:
    - name: ssn
      pattern: '\d{3}-\d{2}-\d{4}'
      replacement: '***-**-****'
  json_fields: [password]
  query_parameters: [token]
`))
	if err != nil {
		t.Fatalf("Parse returned %v", err)
	}
	if cfg.MaxBodyLength != 64 {
		t.Fatalf("MaxBodyLength = %d, want 64", cfg.MaxBodyLength)
	}
	if cfg.HashLength != DefaultHashLength {
		t.Fatalf("HashLength = %d, want default", cfg.HashLength)
	}
	if !slices.Equal(cfg.ResponseMediaSubtypes, []string{"json"}) {
		t.Fatalf("ResponseMediaSubtypes = %v, want [json]", cfg.ResponseMediaSubtypes)
	}
	if !slices.Equal(cfg.Headers, []string{"X-Request-Id"}) {
		t.Fatalf("Headers = %v, want [X-Request-Id]", cfg.Headers)
	}

	rules, err := cfg.MaskRules()
	if err != nil {
		t.Fatalf("MaskRules returned %v", err)
	}
	if len(rules) != 3 {
		t.Fatalf("MaskRules() returned %d rules, want 3", len(rules))
	}
	in := `{"email":"a@b.example","ssn":"123-45-6789","password":"hunter2"}`
	out := in
	for _, r := range rules {
		out = r.Mask(out)
	}
	for _, leaked := range []string{"a@b.example", "123-45-6789", "hunter2"} {
		if strings.Contains(out, leaked) {
			t.Fatalf("masked output %q still contains %q", out, leaked)
		}
	}

	params := cfg.ParameterRules()
	if len(params) != 1 {
		t.Fatalf("ParameterRules() returned %d rules, want 1", len(params))
	}
	if got := params[0].Mask("https://x.example/a?token=abc&b=1"); got != "https://x.example/a?token=***&b=1" {
		t.Fatalf("parameter mask = %q", got)
	}
}

func TestParseEmptyDocumentIsDefault(t *testing.T) {
	t.Parallel()

	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse(nil) returned %v", err)
	}
	if cfg.MaxBodyLength != Default().MaxBodyLength {
		t.Fatalf("MaxBodyLength = %d, want default", cfg.MaxBodyLength)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		yaml string
	}{
		{name: "unknown field", yaml: "max_body_lenght: 10\n"},
		{name: "bad hash length", yaml: "hash_length: 0\n"},
		{name: "huge hash length", yaml: "hash_length: 100\n"},
		{name: "blank header", yaml: "headers: ['']\n"},
		{name: "unknown builtin", yaml: "masking:\n  builtins: [nope]\n"},
		{name: "bad pattern", yaml: "masking:\n  patterns:\n    - name: broken\n      pattern: '('\n"},
		{name: "empty pattern", yaml: "masking:\n  patterns:\n    - name: empty\n"},
		{name: "not yaml", yaml: "max_body_length: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse([]byte(tt.yaml))
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("Parse error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		EnvMaxBodyLength:         " 10 ",
		EnvHashLength:            "12",
		EnvRequestMediaSubtypes:  "json, form ,",
		EnvResponseMediaSubtypes: "",
		EnvHeaders:               "accept",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	if err := cfg.ApplyEnv(lookup); err != nil {
		t.Fatalf("ApplyEnv returned %v", err)
	}
	if cfg.MaxBodyLength != 10 || cfg.HashLength != 12 {
		t.Fatalf("lengths = (%d, %d), want (10, 12)", cfg.MaxBodyLength, cfg.HashLength)
	}
	if !slices.Equal(cfg.RequestMediaSubtypes, []string{"json", "form"}) {
		t.Fatalf("RequestMediaSubtypes = %v, want [json form]", cfg.RequestMediaSubtypes)
	}
	if len(cfg.ResponseMediaSubtypes) != 0 {
		t.Fatalf("ResponseMediaSubtypes = %v, want cleared", cfg.ResponseMediaSubtypes)
	}
	if !slices.Equal(cfg.Headers, []string{"accept"}) {
		t.Fatalf("Headers = %v, want [accept]", cfg.Headers)
	}

	env[EnvHashLength] = "eight"
	if err := Default().ApplyEnv(lookup); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("ApplyEnv error = %v, want ErrInvalidConfig", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slogexchange.yaml")
	if err := os.WriteFile(path, []byte("max_body_length: 32\n"), 0o600); err != nil {
		t.Fatalf("WriteFile returned %v", err)
	}
	t.Setenv(EnvHashLength, "16")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned %v", err)
	}
	if cfg.MaxBodyLength != 32 || cfg.HashLength != 16 {
		t.Fatalf("Load = (%d, %d), want (32, 16)", cfg.MaxBodyLength, cfg.HashLength)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("Load of missing file returned nil error")
	}
}

func TestCloneIsDeep(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Masking.JSONFields = []string{"a"}
	clone := cfg.Clone()
	clone.Headers[0] = "changed"
	clone.Masking.JSONFields[0] = "b"
	if cfg.Headers[0] == "changed" || cfg.Masking.JSONFields[0] == "b" {
		t.Fatalf("Clone shares slices with the original")
	}
}
