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

package slogexchangehttp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/pjscruggs/slogexchange"
)

// XCloudTraceContextHeader is the legacy Google Cloud trace header.
const XCloudTraceContextHeader = "X-Cloud-Trace-Context"

// Transport returns an http.RoundTripper that logs each exchange through a
// slogexchange pipeline. A nil base uses http.DefaultTransport.
func Transport(base http.RoundTripper, opts ...Option) http.RoundTripper {
	cfg := applyOptions(opts)
	if base == nil {
		base = http.DefaultTransport
	}
	if cfg.enableOTel {
		base = otelhttp.NewTransport(base, otelOptions(cfg)...)
	}
	if cfg.propagateTrace && cfg.propagators == nil {
		slogexchange.EnsurePropagation()
	}

	pipeline := cfg.pipeline
	if pipeline == nil {
		pipeline = slogexchange.NewPipeline(cfg.pipelineOpts...)
	}
	return roundTripper{base: base, cfg: cfg, pipeline: pipeline}
}

// Client returns an http.Client whose transport is Transport(nil, opts...).
func Client(opts ...Option) *http.Client {
	return &http.Client{Transport: Transport(nil, opts...)}
}

func otelOptions(cfg *config) []otelhttp.Option {
	var out []otelhttp.Option
	if cfg.tracerProvider != nil {
		out = append(out, otelhttp.WithTracerProvider(cfg.tracerProvider))
	}
	if cfg.propagators != nil {
		out = append(out, otelhttp.WithPropagators(cfg.propagators))
	}
	if cfg.spanNameFormatter != nil {
		out = append(out, otelhttp.WithSpanNameFormatter(cfg.spanNameFormatter))
	}
	return out
}

type roundTripper struct {
	base     http.RoundTripper
	cfg      *config
	pipeline *slogexchange.Pipeline
}

// RoundTrip logs the request, forwards a copy of it to the base transport,
// and logs the response. Errors come only from the base transport. Skipped
// requests are forwarded as they are and the base result is returned
// unchanged.
func (t roundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, errors.New("round trip nil request")
	}
	if t.cfg.skip != nil && t.cfg.skip(req) {
		return t.base.RoundTrip(req)
	}

	ctx := req.Context()
	if t.cfg.logger != nil {
		ctx = slogexchange.ContextWithLogger(ctx, t.cfg.logger)
	}
	if _, ok := slogexchange.SinkFromContext(ctx); !ok {
		ctx = slogexchange.ContextWithSink(ctx, slogexchange.NewSink())
	}

	out := req.Clone(ctx)
	t.injectTrace(ctx, out)
	ctx = t.pipeline.LogRequest(ctx, out)

	resp, err := t.base.RoundTrip(out)
	if err != nil {
		if t.cfg.cleanup {
			t.pipeline.Cleanup(ctx)
		}
		return resp, fmt.Errorf("round trip request: %w", err)
	}
	if resp == nil {
		return nil, errors.New("round trip request: received no response and no error")
	}

	t.pipeline.LogResponse(ctx, resp)
	if t.cfg.cleanup {
		t.pipeline.Cleanup(ctx)
	}
	return resp, nil
}

// injectTrace writes trace context headers for the span in ctx.
func (t roundTripper) injectTrace(ctx context.Context, req *http.Request) {
	if !t.cfg.propagateTrace {
		return
	}
	propagator := t.cfg.propagators
	if propagator == nil {
		propagator = otel.GetTextMapPropagator()
	}
	propagator.Inject(ctx, propagation.HeaderCarrier(req.Header))

	if !t.cfg.injectLegacyXCTC || req.Header.Get(XCloudTraceContextHeader) != "" {
		return
	}
	if v := slogexchange.XCloudTraceContext(trace.SpanContextFromContext(ctx)); v != "" {
		req.Header.Set(XCloudTraceContextHeader, v)
	}
}
