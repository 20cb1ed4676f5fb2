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

package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "slogexchange.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestValidateDefaults(t *testing.T) {
	out, _, err := execute(t, "validate")
	if err != nil {
		t.Fatalf("validate returned %v", err)
	}
	if !strings.HasPrefix(out, "defaults: ok") {
		t.Fatalf("validate output = %q, want prefix %q", out, "defaults: ok")
	}
}

func TestValidateConfigFile(t *testing.T) {
	path := writeConfig(t, `
max_body_length: 64
masking:
  builtins: [email, password]
  patterns:
    - name: ssn
      pattern: '\d{3}-\d{2}-\d{4}'
      replacement: '***-**-****'
  json_fields: [user.pin]
  query_parameters: [token]
`)
	out, _, err := execute(t, "validate", "--config", path)
	if err != nil {
		t.Fatalf("validate returned %v", err)
	}
	for _, want := range []string{
		path + ": ok",
		"max body length:   64",
		"body mask rules:   4",
		"parameter rules:   1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("validate output missing %q:\n%s", want, out)
		}
	}
}

func TestValidateRejectsUnknownBuiltin(t *testing.T) {
	path := writeConfig(t, "masking:\n  builtins: [social_security]\n")
	if _, _, err := execute(t, "validate", "--config", path); err == nil {
		t.Fatal("validate returned nil error for unknown builtin")
	}
}

func TestNewLoggerFormats(t *testing.T) {
	t.Parallel()

	if _, err := newLogger(io.Discard, "yaml", false); err == nil {
		t.Fatal("newLogger(yaml) returned nil error")
	}

	var buf strings.Builder
	logger, err := newLogger(&buf, "JSON", true)
	if err != nil {
		t.Fatalf("newLogger(JSON) returned %v", err)
	}
	logger.Debug("probe")
	if !strings.HasPrefix(buf.String(), "{") || !strings.Contains(buf.String(), `"msg":"probe"`) {
		t.Fatalf("json logger wrote %q", buf.String())
	}
}

func TestBuildRequest(t *testing.T) {
	t.Parallel()

	req, err := buildRequest(context.Background(), "post", "http://example.com/a",
		[]string{"Content-Type: application/json", "X-Trace:  abc "}, `{"a":1}`)
	if err != nil {
		t.Fatalf("buildRequest returned %v", err)
	}
	if req.Method != http.MethodPost {
		t.Errorf("Method = %q, want %q", req.Method, http.MethodPost)
	}
	if got := req.Header.Get("X-Trace"); got != "abc" {
		t.Errorf("X-Trace = %q, want %q", got, "abc")
	}
	if req.GetBody == nil {
		t.Error("GetBody is nil, want a rewindable body")
	}
	if got := req.Header.Get("User-Agent"); !strings.HasPrefix(got, "slogexchange/") {
		t.Errorf("User-Agent = %q, want slogexchange/ prefix", got)
	}

	if _, err := buildRequest(context.Background(), "GET", "http://example.com", []string{"no-colon"}, ""); err == nil {
		t.Error("buildRequest accepted a header without a colon")
	}
}

func TestPrintMetricsEmptyRegistry(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	if err := printMetrics(&buf, prometheus.NewRegistry()); err != nil {
		t.Fatalf("printMetrics returned %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("printMetrics wrote %q for an empty registry", buf.String())
	}
}

func TestGetLogsMaskedExchange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"email":"ada@example.com"}`)
	}))
	t.Cleanup(srv.Close)

	path := writeConfig(t, "masking:\n  builtins: [email]\n")
	stdout, stderr, err := execute(t, "get", "--config", path, "--log-format", "json", "--metrics", srv.URL+"/users")
	if err != nil {
		t.Fatalf("get returned %v\nstderr:\n%s", err, stderr)
	}

	if stdout != `{"email":"ada@example.com"}` {
		t.Errorf("stdout = %q, want the unmodified response body", stdout)
	}
	if strings.Contains(stderr, "ada@example.com") {
		t.Errorf("logs contain the unmasked address:\n%s", stderr)
	}
	for _, want := range []string{
		"Outgoing request GET " + srv.URL + "/users",
		"Incoming response GET " + srv.URL + "/users",
		"HC_RESPONSE_BODY",
		"slogexchange_capture_total",
	} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr missing %q:\n%s", want, stderr)
		}
	}

	var summary string
	for _, line := range strings.Split(stderr, "\n") {
		if strings.Contains(line, "exchange complete") {
			summary = line
		}
	}
	if !strings.Contains(summary, "HC_REQUEST_HASH") {
		t.Errorf("summary record %q lacks the exchange attributes", summary)
	}
}
