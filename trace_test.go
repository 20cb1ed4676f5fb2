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

package slogexchange

import (
	"context"
	"errors"
	"os"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

// TestMain keeps trace tests off the GCE metadata server.
func TestMain(m *testing.M) {
	metadataProject = func() string { return "" }
	os.Exit(m.Run())
}

func spanContext(t *testing.T, sampled bool) trace.SpanContext {
	t.Helper()
	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	if err != nil {
		t.Fatalf("TraceIDFromHex returned %v", err)
	}
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	if err != nil {
		t.Fatalf("SpanIDFromHex returned %v", err)
	}
	cfg := trace.SpanContextConfig{TraceID: traceID, SpanID: spanID}
	if sampled {
		cfg.TraceFlags = trace.FlagsSampled
	}
	return trace.NewSpanContext(cfg)
}

func TestTraceAttributesWithProject(t *testing.T) {
	t.Parallel()

	ctx := trace.ContextWithSpanContext(context.Background(), spanContext(t, true))
	attrs := TraceAttributes(ctx, "Projects/My-Project")

	want := map[string]string{
		TraceKey:   "projects/my-project/traces/4bf92f3577b34da6a3ce929d0e0e4736",
		SpanKey:    "00f067aa0ba902b7",
		SampledKey: "true",
	}
	if len(attrs) != len(want) {
		t.Fatalf("TraceAttributes returned %d attrs, want %d", len(attrs), len(want))
	}
	for _, a := range attrs {
		if got := a.Value.String(); got != want[a.Key] {
			t.Fatalf("%s = %q, want %q", a.Key, got, want[a.Key])
		}
	}
}

func TestTraceAttributesWithoutProject(t *testing.T) {
	t.Setenv("SLOGEXCHANGE_TRACE_PROJECT_ID", "")
	t.Setenv("SLOGEXCHANGE_PROJECT_ID", "")
	t.Setenv("GOOGLE_CLOUD_PROJECT", "")

	ctx := trace.ContextWithSpanContext(context.Background(), spanContext(t, false))
	attrs := TraceAttributes(ctx, "")
	if len(attrs) != 3 || attrs[0].Key != OTelTraceKey || attrs[2].Value.Bool() {
		t.Fatalf("TraceAttributes = %v, want otel keys with sampled=false", attrs)
	}
}

func TestTraceAttributesFromEnvironment(t *testing.T) {
	t.Setenv("SLOGEXCHANGE_TRACE_PROJECT_ID", "")
	t.Setenv("SLOGEXCHANGE_PROJECT_ID", "env-project")

	ctx := trace.ContextWithSpanContext(context.Background(), spanContext(t, true))
	attrs := TraceAttributes(ctx, "")
	if len(attrs) == 0 || attrs[0].Value.String() != "projects/env-project/traces/4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Fatalf("TraceAttributes = %v, want project from environment", attrs)
	}
}

func TestTraceAttributesNoSpan(t *testing.T) {
	t.Parallel()

	if attrs := TraceAttributes(context.Background(), "my-project"); attrs != nil {
		t.Fatalf("TraceAttributes without span = %v, want nil", attrs)
	}
}

func TestXCloudTraceContext(t *testing.T) {
	t.Parallel()

	if got, want := XCloudTraceContext(spanContext(t, true)), "4bf92f3577b34da6a3ce929d0e0e4736/67667974448284343;o=1"; got != want {
		t.Fatalf("XCloudTraceContext = %q, want %q", got, want)
	}
	if got := XCloudTraceContext(spanContext(t, false)); got != "4bf92f3577b34da6a3ce929d0e0e4736/67667974448284343;o=0" {
		t.Fatalf("XCloudTraceContext unsampled = %q", got)
	}
	if got := XCloudTraceContext(trace.SpanContext{}); got != "" {
		t.Fatalf("XCloudTraceContext invalid = %q, want empty", got)
	}
}

func TestNormalizeProjectID(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"my-project":          "my-project",
		"  projects/abc-123 ": "abc-123",
		"UPPER-case-1":        "upper-case-1",
		"bad/project":         "",
		"x":                   "",
		"1starts-with-digit":  "",
		"":                    "",
	}
	for in, want := range tests {
		got, ok := normalizeProjectID(in)
		if got != want || ok != (want != "") {
			t.Fatalf("normalizeProjectID(%q) = (%q, %v), want %q", in, got, ok, want)
		}
	}
}

func TestResolveTraceProjectFallsBackToMetadata(t *testing.T) {
	t.Setenv("SLOGEXCHANGE_TRACE_PROJECT_ID", "")
	t.Setenv("SLOGEXCHANGE_PROJECT_ID", "")
	t.Setenv("GOOGLE_CLOUD_PROJECT", "")
	t.Setenv(DisableMetadataProjectEnv, "")

	fromMetadata := func() string { return "meta-project" }
	if got := resolveTraceProject("", fromMetadata); got != "meta-project" {
		t.Fatalf("resolveTraceProject = %q, want %q", got, "meta-project")
	}
	if got := resolveTraceProject("option-project", fromMetadata); got != "option-project" {
		t.Fatalf("resolveTraceProject with option = %q, want %q", got, "option-project")
	}

	t.Setenv("GOOGLE_CLOUD_PROJECT", "env-project")
	if got := resolveTraceProject("", fromMetadata); got != "env-project" {
		t.Fatalf("resolveTraceProject with env = %q, want %q", got, "env-project")
	}

	t.Setenv("GOOGLE_CLOUD_PROJECT", "")
	t.Setenv(DisableMetadataProjectEnv, "true")
	if got := resolveTraceProject("", fromMetadata); got != "" {
		t.Fatalf("resolveTraceProject with lookup disabled = %q, want empty", got)
	}
}

func TestMetadataProjectResolverRunsOnce(t *testing.T) {
	t.Parallel()

	calls := 0
	resolve := newMetadataProjectResolver(
		func() bool { return true },
		func(ctx context.Context) (string, error) {
			calls++
			if _, ok := ctx.Deadline(); !ok {
				t.Errorf("metadata lookup context has no deadline")
			}
			return "Meta-Project", nil
		},
	)
	for range 3 {
		if got := resolve(); got != "meta-project" {
			t.Fatalf("resolve() = %q, want %q", got, "meta-project")
		}
	}
	if calls != 1 {
		t.Fatalf("metadata lookups = %d, want 1", calls)
	}
}

func TestMetadataProjectResolverOffGCE(t *testing.T) {
	t.Parallel()

	called := false
	resolve := newMetadataProjectResolver(
		func() bool { return false },
		func(context.Context) (string, error) {
			called = true
			return "unused-project", nil
		},
	)
	if got := resolve(); got != "" {
		t.Fatalf("resolve() off GCE = %q, want empty", got)
	}
	if called {
		t.Fatalf("project lookup ran off GCE")
	}

	failing := newMetadataProjectResolver(
		func() bool { return true },
		func(context.Context) (string, error) { return "", errors.New("metadata unavailable") },
	)
	if got := failing(); got != "" {
		t.Fatalf("resolve() after lookup error = %q, want empty", got)
	}
}
