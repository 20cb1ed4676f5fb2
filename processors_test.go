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
	"io"
	"net/http"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/pjscruggs/slogexchange/capture"
	"github.com/pjscruggs/slogexchange/mask"
)

func TestRequestTime(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2024, 3, 9, 14, 5, 6, 789_000_000, time.FixedZone("EET", 2*60*60))
	sink := NewSink()
	requestTime{now: func() time.Time { return fixed }}.ProcessRequest(context.Background(), nil, sink)

	got, _ := sink.Get(KeyRequestTime)
	if want := "2024-03-09T14:05:06.789+02:00"; got != want {
		t.Fatalf("%s = %q, want %q", KeyRequestTime, got, want)
	}

	RequestTime(time.RFC3339).ProcessRequest(context.Background(), nil, sink)
	got, _ = sink.Get(KeyRequestTime)
	if _, err := time.Parse(time.RFC3339, got); err != nil {
		t.Fatalf("%s = %q does not match layout: %v", KeyRequestTime, got, err)
	}
}

func TestRequestHash(t *testing.T) {
	t.Parallel()

	hex := regexp.MustCompile(`^[0-9a-f]+$`)
	for _, length := range []int{0, 1, 8, 40} {
		sink := NewSink()
		RequestHash(length).ProcessRequest(context.Background(), nil, sink)
		got, _ := sink.Get(KeyRequestHash)
		want := length
		if want == 0 {
			want = DefaultHashLength
		}
		if len(got) != want || !hex.MatchString(got) {
			t.Fatalf("RequestHash(%d) = %q, want %d hex characters", length, got, want)
		}
	}

	a, b := randomHash(16), randomHash(16)
	if a == b {
		t.Fatalf("randomHash returned the same value twice: %q", a)
	}
}

func TestRequestLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		url   string
		rules []mask.Rule
		want  string
	}{
		{name: "path", url: "http://localhost:8080/exec", want: "GET http://localhost:8080/exec"},
		{name: "root", url: "https://example.com", want: "GET https://example.com/"},
		{name: "query", url: "https://example.com/a?b=1&c=2", want: "GET https://example.com/a?b=1&c=2"},
		{
			name:  "masked query",
			url:   "https://example.com/login?user=bob&token=s3cr3t",
			rules: []mask.Rule{mask.QueryParameters("token")},
			want:  "GET https://example.com/login?user=bob&token=***",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req, err := http.NewRequest(http.MethodGet, tt.url, nil)
			if err != nil {
				t.Fatalf("NewRequest returned %v", err)
			}
			sink := NewSink()
			RequestLine(tt.rules...).ProcessRequest(context.Background(), req, sink)
			if got, _ := sink.Get(KeyRequestLine); got != tt.want {
				t.Fatalf("%s = %q, want %q", KeyRequestLine, got, tt.want)
			}
		})
	}
}

func TestHeaderProcessors(t *testing.T) {
	t.Parallel()

	req, err := http.NewRequest(http.MethodGet, "http://example.com/", nil)
	if err != nil {
		t.Fatalf("NewRequest returned %v", err)
	}
	req.Header.Set("User-Agent", "agent/1.0")
	req.Header.Add("Accept", "application/json")
	req.Header.Add("Accept", "text/plain")
	req.Header.Set("Authorization", "Bearer secret")

	sink := NewSink()
	RequestHeaders().ProcessRequest(context.Background(), req, sink)
	got, _ := sink.Get(KeyRequestHeaders)
	want := `Accept: application/json\nAccept: text/plain\nUser-Agent: agent/1.0`
	if got != want {
		t.Fatalf("%s = %q, want %q", KeyRequestHeaders, got, want)
	}

	resp := &http.Response{Header: http.Header{"X-Request-Id": {"r-1"}, "Server": {"nginx"}}}
	ResponseHeaders("x-request-id").ProcessResponse(context.Background(), resp, sink)
	if got, _ := sink.Get(KeyResponseHeaders); got != "X-Request-Id: r-1" {
		t.Fatalf("%s = %q, want %q", KeyResponseHeaders, got, "X-Request-Id: r-1")
	}

	ResponseHeaders().ProcessResponse(context.Background(), resp, sink)
	if got, _ := sink.Get(KeyResponseHeaders); got != Placeholder {
		t.Fatalf("%s = %q, want placeholder when nothing is allowed", KeyResponseHeaders, got)
	}
}

func TestResponseStatus(t *testing.T) {
	t.Parallel()

	sink := NewSink()
	ResponseStatus().ProcessResponse(context.Background(), &http.Response{StatusCode: http.StatusTeapot}, sink)
	if got, _ := sink.Get(KeyResponseStatus); got != "418" {
		t.Fatalf("%s = %q, want 418", KeyResponseStatus, got)
	}
	ResponseStatus().ProcessResponse(context.Background(), nil, sink)
	if got, _ := sink.Get(KeyResponseStatus); got != Placeholder {
		t.Fatalf("%s = %q, want placeholder", KeyResponseStatus, got)
	}
}

func TestRequestBodyProcessor(t *testing.T) {
	t.Parallel()

	proc := RequestBody(capture.NewMediaGate("json"), capture.Options{
		MaxLength: 16,
		Rules:     []mask.Rule{mask.JSONFields("pin")},
	}, nil)

	tests := []struct {
		name        string
		body        io.Reader
		contentType string
		want        string
	}{
		{name: "no body", want: Placeholder},
		{name: "no content type", body: strings.NewReader(`{"a":1}`), want: Placeholder},
		{name: "not eligible", body: strings.NewReader("a=1"), contentType: "application/x-www-form-urlencoded", want: Placeholder},
		{name: "masked", body: strings.NewReader(`{"pin":"1234"}`), contentType: "application/json", want: `{"pin":"***"}`},
		{name: "truncated", body: strings.NewReader(`{"other":"abcdefghijk"}`), contentType: "application/json", want: `{"other":"abcdef`},
		{name: "single read", body: io.NopCloser(strings.NewReader(`{"a":1}`)), contentType: "application/json", want: Placeholder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req, err := http.NewRequest(http.MethodPost, "http://example.com/", tt.body)
			if err != nil {
				t.Fatalf("NewRequest returned %v", err)
			}
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			sink := NewSink()
			proc.ProcessRequest(context.Background(), req, sink)
			if got, _ := sink.Get(KeyRequestBody); got != tt.want {
				t.Fatalf("%s = %q, want %q", KeyRequestBody, got, tt.want)
			}
		})
	}
}

func TestResponseBodyProcessorIneligible(t *testing.T) {
	t.Parallel()

	resp := &http.Response{
		Header: http.Header{"Content-Type": {"text/html"}},
		Body:   io.NopCloser(strings.NewReader("<html></html>")),
	}
	sink := NewSink()
	ResponseBody(capture.NewMediaGate("json"), capture.Options{}, nil).ProcessResponse(context.Background(), resp, sink)

	for _, key := range []string{KeyResponseBody, KeyResponseBodyLength} {
		if got, _ := sink.Get(key); got != Placeholder {
			t.Fatalf("%s = %q, want placeholder", key, got)
		}
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil || string(b) != "<html></html>" {
		t.Fatalf("ineligible body was disturbed: (%q, %v)", b, err)
	}
}
