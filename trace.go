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
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/compute/metadata"
	"go.opentelemetry.io/otel/trace"
)

// Keys Cloud Logging uses to correlate entries with Cloud Trace.
const (
	// TraceKey holds "projects/PROJECT_ID/traces/TRACE_ID".
	TraceKey = "logging.googleapis.com/trace"
	// SpanKey holds the hex span ID.
	SpanKey = "logging.googleapis.com/spanId"
	// SampledKey holds the sampling decision.
	SampledKey = "logging.googleapis.com/trace_sampled"
)

// Keys used when no Cloud project is known.
const (
	OTelTraceKey   = "otel.trace_id"
	OTelSpanKey    = "otel.span_id"
	OTelSampledKey = "otel.trace_sampled"
)

var projectIDPattern = regexp.MustCompile(`^[a-z][a-z0-9-]{4,28}[a-z0-9]$`)

// traceProjectEnv lists the variables consulted, in order, when no project ID
// is configured.
var traceProjectEnv = []string{
	"SLOGEXCHANGE_TRACE_PROJECT_ID",
	"SLOGEXCHANGE_PROJECT_ID",
	"GOOGLE_CLOUD_PROJECT",
}

// DisableMetadataProjectEnv names the variable that, when truthy, stops
// TraceAttributes from asking the GCE metadata server for the project ID.
const DisableMetadataProjectEnv = "SLOGEXCHANGE_DISABLE_METADATA_PROJECT"

const metadataLookupTimeout = 2 * time.Second

// metadataProject returns the project ID reported by the metadata server, or
// "" off Google Cloud. The lookup runs at most once per process.
var metadataProject = newMetadataProjectResolver(metadata.OnGCE, metadata.ProjectIDWithContext)

func newMetadataProjectResolver(onGCE func() bool, projectID func(context.Context) (string, error)) func() string {
	var (
		once    sync.Once
		project string
	)
	return func() string {
		once.Do(func() {
			if !onGCE() {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), metadataLookupTimeout)
			defer cancel()
			id, err := projectID(ctx)
			if err != nil {
				slog.Default().Warn("resolve trace project from metadata server", slog.Any("error", err))
				return
			}
			if p, ok := normalizeProjectID(id); ok {
				project = p
			}
		})
		return project
	}
}

// TraceAttributes returns trace correlation attributes for the span carried
// by ctx, or nil when ctx holds no valid span.
//
// When projectID is empty the environment is consulted
// (SLOGEXCHANGE_TRACE_PROJECT_ID, SLOGEXCHANGE_PROJECT_ID, then
// GOOGLE_CLOUD_PROJECT), and finally the GCE metadata server unless
// DisableMetadataProjectEnv is set. With a project the Cloud Logging keys are
// emitted; without one the otel.* keys are.
func TraceAttributes(ctx context.Context, projectID string) []slog.Attr {
	if ctx == nil {
		return nil
	}
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return nil
	}
	traceID := sc.TraceID().String()
	spanID := sc.SpanID().String()

	if project := resolveTraceProject(projectID, metadataProject); project != "" {
		return []slog.Attr{
			slog.String(TraceKey, FormatTraceResource(project, traceID)),
			slog.String(SpanKey, spanID),
			slog.Bool(SampledKey, sc.IsSampled()),
		}
	}
	return []slog.Attr{
		slog.String(OTelTraceKey, traceID),
		slog.String(OTelSpanKey, spanID),
		slog.Bool(OTelSampledKey, sc.IsSampled()),
	}
}

// FormatTraceResource returns "projects/<projectID>/traces/<traceID>".
func FormatTraceResource(projectID, traceID string) string {
	return "projects/" + projectID + "/traces/" + traceID
}

// XCloudTraceContext renders sc as a legacy X-Cloud-Trace-Context header
// value, "TRACE_ID/SPAN_ID;o=FLAG" with a decimal span ID. It returns "" for
// an invalid span context.
func XCloudTraceContext(sc trace.SpanContext) string {
	if !sc.IsValid() {
		return ""
	}
	var b strings.Builder
	b.WriteString(sc.TraceID().String())
	if dec, err := strconv.ParseUint(sc.SpanID().String(), 16, 64); err == nil {
		b.WriteByte('/')
		b.WriteString(strconv.FormatUint(dec, 10))
	}
	if sc.IsSampled() {
		b.WriteString(";o=1")
	} else {
		b.WriteString(";o=0")
	}
	return b.String()
}

func resolveTraceProject(projectID string, fromMetadata func() string) string {
	if p, ok := normalizeProjectID(projectID); ok {
		return p
	}
	for _, name := range traceProjectEnv {
		if p, ok := normalizeProjectID(os.Getenv(name)); ok {
			return p
		}
	}
	if fromMetadata == nil || envTruthy(DisableMetadataProjectEnv) {
		return ""
	}
	return fromMetadata()
}

// normalizeProjectID accepts "my-project" or "projects/my-project" in any
// case and rejects values that are not valid project IDs.
func normalizeProjectID(raw string) (string, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.TrimPrefix(s, "projects/")
	if s == "" || !projectIDPattern.MatchString(s) {
		return "", false
	}
	return s, true
}
