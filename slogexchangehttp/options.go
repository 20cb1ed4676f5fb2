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
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/pjscruggs/slogexchange"
)

// Option configures Transport and Client.
type Option func(*config)

type config struct {
	pipeline          *slogexchange.Pipeline
	pipelineOpts      []slogexchange.Option
	logger            *slog.Logger
	enableOTel        bool
	tracerProvider    trace.TracerProvider
	spanNameFormatter func(string, *http.Request) string
	propagators       propagation.TextMapPropagator
	propagateTrace    bool
	injectLegacyXCTC  bool
	skip              func(*http.Request) bool
	cleanup           bool
}

// defaultConfig returns the baseline transport configuration.
func defaultConfig() *config {
	return &config{
		propagateTrace: true,
	}
}

// applyOptions applies the provided options on top of defaultConfig.
func applyOptions(opts []Option) *config {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// WithPipeline logs exchanges with p. It takes precedence over
// WithPipelineOptions.
func WithPipeline(p *slogexchange.Pipeline) Option {
	return func(cfg *config) {
		cfg.pipeline = p
	}
}

// WithPipelineOptions builds the transport's own pipeline from opts.
func WithPipelineOptions(opts ...slogexchange.Option) Option {
	return func(cfg *config) {
		cfg.pipelineOpts = append(cfg.pipelineOpts, opts...)
	}
}

// WithLogger sets the logger that receives capture diagnostics for every
// exchange. When unset, the logger on the request context is used.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithOTel wraps the base transport with otelhttp so every exchange records
// a client span. Disabled by default.
func WithOTel(enabled bool) Option {
	return func(cfg *config) {
		cfg.enableOTel = enabled
	}
}

// WithTracerProvider sets the tracer provider used by WithOTel.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(cfg *config) {
		cfg.tracerProvider = tp
	}
}

// WithSpanNameFormatter customizes the client span names recorded by WithOTel.
func WithSpanNameFormatter(formatter func(string, *http.Request) string) Option {
	return func(cfg *config) {
		cfg.spanNameFormatter = formatter
	}
}

// WithPropagators supplies the propagator used to inject trace context.
// When omitted, otel.GetTextMapPropagator() is used.
func WithPropagators(p propagation.TextMapPropagator) Option {
	return func(cfg *config) {
		cfg.propagators = p
	}
}

// WithTracePropagation toggles injection of trace context headers. Enabled
// by default.
func WithTracePropagation(enabled bool) Option {
	return func(cfg *config) {
		cfg.propagateTrace = enabled
	}
}

// WithLegacyXCloudInjection toggles synthesis of the X-Cloud-Trace-Context
// header next to the W3C headers.
func WithLegacyXCloudInjection(enabled bool) Option {
	return func(cfg *config) {
		cfg.injectLegacyXCTC = enabled
	}
}

// WithSkip sets a predicate for requests that bypass logging entirely.
// SkipRule.Matcher builds one from paths and headers.
func WithSkip(skip func(*http.Request) bool) Option {
	return func(cfg *config) {
		cfg.skip = skip
	}
}

// WithCleanup removes the exchange's attributes from its Sink once the
// response has been logged. By default they remain until the next exchange
// on the same Sink so later log records can still be correlated.
func WithCleanup(enabled bool) Option {
	return func(cfg *config) {
		cfg.cleanup = enabled
	}
}
