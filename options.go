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
	"log/slog"

	"github.com/pjscruggs/slogexchange/capture"
	"github.com/pjscruggs/slogexchange/mask"
)

// Option configures a Pipeline.
type Option func(*options)

type options struct {
	requestLogger  *slog.Logger
	responseLogger *slog.Logger
	internalLogger *slog.Logger
	level          slog.Level
	traceProjectID string

	maxBodyLength         int
	requestMediaSubtypes  []string
	responseMediaSubtypes []string
	headers               []string
	hashLength            int
	timeLayout            string
	maskRules             []mask.Rule
	parameterRules        []mask.Rule
	metrics               *Metrics

	requestProcessors  []RequestProcessor
	responseProcessors []ResponseProcessor
	customRequest      bool
	customResponse     bool
}

func defaultOptions() *options {
	return &options{
		level:                 slog.LevelInfo,
		maxBodyLength:         capture.DefaultMaxLength,
		requestMediaSubtypes:  capture.DefaultRequestMediaSubtypes,
		responseMediaSubtypes: capture.DefaultResponseMediaSubtypes,
		headers:               DefaultHeaders,
		hashLength:            DefaultHashLength,
		timeLayout:            DefaultTimeLayout,
	}
}

func applyOptions(opts []Option) *options {
	cfg := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// WithRequestLogger sets the logger of the request stream. The default is
// slog.Default() with logger="request".
func WithRequestLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.requestLogger = logger
	}
}

// WithResponseLogger sets the logger of the response stream. The default is
// slog.Default() with logger="response".
func WithResponseLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.responseLogger = logger
	}
}

// WithInternalLogger sets the logger receiving capture diagnostics. Without
// it, the logger stored on the exchange context (see ContextWithLogger) is
// used.
func WithInternalLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.internalLogger = logger
	}
}

// WithLevel sets the level of both stream lines.
func WithLevel(level slog.Level) Option {
	return func(o *options) {
		o.level = level
	}
}

// WithTraceProjectID sets the Cloud project used to format trace attributes.
func WithTraceProjectID(projectID string) Option {
	return func(o *options) {
		o.traceProjectID = projectID
	}
}

// WithMaxBodyLength bounds logged bodies to n characters. Zero restores the
// default and a negative value disables truncation.
func WithMaxBodyLength(n int) Option {
	return func(o *options) {
		o.maxBodyLength = n
	}
}

// WithRequestMediaSubtypes replaces the media types whose request bodies are
// logged.
func WithRequestMediaSubtypes(subtypes ...string) Option {
	return func(o *options) {
		o.requestMediaSubtypes = append([]string(nil), subtypes...)
	}
}

// WithResponseMediaSubtypes replaces the media types whose response bodies
// are logged. Response bodies are not logged unless this is set.
func WithResponseMediaSubtypes(subtypes ...string) Option {
	return func(o *options) {
		o.responseMediaSubtypes = append([]string(nil), subtypes...)
	}
}

// WithHeaders replaces the header allow-list of both directions.
func WithHeaders(names ...string) Option {
	return func(o *options) {
		o.headers = append([]string(nil), names...)
	}
}

// WithHashLength sets the REQUEST_HASH length.
func WithHashLength(n int) Option {
	return func(o *options) {
		o.hashLength = n
	}
}

// WithTimeLayout sets the time.Format layout of REQUEST_TIME.
func WithTimeLayout(layout string) Option {
	return func(o *options) {
		o.timeLayout = layout
	}
}

// WithMaskRules sets the ordered rules applied to logged bodies.
func WithMaskRules(rules ...mask.Rule) Option {
	return func(o *options) {
		o.maskRules = append([]mask.Rule(nil), rules...)
	}
}

// WithParameterRules sets the ordered rules applied to the request line.
func WithParameterRules(rules ...mask.Rule) Option {
	return func(o *options) {
		o.parameterRules = append([]mask.Rule(nil), rules...)
	}
}

// WithMetrics records capture metrics on m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithRequestProcessors replaces the default request processors.
func WithRequestProcessors(processors ...RequestProcessor) Option {
	return func(o *options) {
		o.requestProcessors = append([]RequestProcessor(nil), processors...)
		o.customRequest = true
	}
}

// WithResponseProcessors replaces the default response processors.
func WithResponseProcessors(processors ...ResponseProcessor) Option {
	return func(o *options) {
		o.responseProcessors = append([]ResponseProcessor(nil), processors...)
		o.customResponse = true
	}
}

// captureOptions returns the body engine settings shared by both directions.
func (o *options) captureOptions() capture.Options {
	return capture.Options{
		MaxLength: o.maxBodyLength,
		Rules:     o.maskRules,
		Logger:    o.internalLogger,
	}
}

// defaultRequestProcessors returns the request processors built from o, in
// the order they run.
func (o *options) defaultRequestProcessors() []RequestProcessor {
	return []RequestProcessor{
		RequestTime(o.timeLayout),
		RequestHash(o.hashLength),
		RequestLine(o.parameterRules...),
		RequestHeaders(o.headers...),
		RequestBody(capture.NewMediaGate(o.requestMediaSubtypes...), o.captureOptions(), o.metrics),
	}
}

func (o *options) defaultResponseProcessors() []ResponseProcessor {
	return []ResponseProcessor{
		ResponseStatus(),
		ResponseHeaders(o.headers...),
		ResponseBody(capture.NewMediaGate(o.responseMediaSubtypes...), o.captureOptions(), o.metrics),
	}
}
