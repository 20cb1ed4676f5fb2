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
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pjscruggs/slogexchange/capture"
	"github.com/pjscruggs/slogexchange/mask"
)

// DefaultTimeLayout renders REQUEST_TIME with millisecond precision and a
// numeric zone offset.
const DefaultTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// DefaultHashLength is the number of characters in REQUEST_HASH.
const DefaultHashLength = 8

// RequestTime records the time the request was logged.
func RequestTime(layout string) RequestProcessor {
	return requestTime{layout: layout, now: time.Now}
}

type requestTime struct {
	layout string
	now    func() time.Time
}

func (p requestTime) ProcessRequest(_ context.Context, _ *http.Request, sink *Sink) {
	layout := p.layout
	if layout == "" {
		layout = DefaultTimeLayout
	}
	sink.Set(KeyRequestTime, p.now().Format(layout))
}

// RequestHash records a random lowercase hex identifier of length characters
// that correlates the request and response lines. Non-positive lengths use
// DefaultHashLength.
func RequestHash(length int) RequestProcessor {
	if length <= 0 {
		length = DefaultHashLength
	}
	return RequestProcessorFunc(func(_ context.Context, _ *http.Request, sink *Sink) {
		sink.Set(KeyRequestHash, randomHash(length))
	})
}

func randomHash(length int) string {
	var b strings.Builder
	b.Grow(length + 32)
	for b.Len() < length {
		id := uuid.New()
		b.WriteString(strings.ReplaceAll(id.String(), "-", ""))
	}
	return b.String()[:length]
}

// RequestLine records "METHOD scheme://host/path?query". The URL is passed
// through rules, typically mask.QueryParameters, before it is recorded.
func RequestLine(rules ...mask.Rule) RequestProcessor {
	rules = append([]mask.Rule(nil), rules...)
	return RequestProcessorFunc(func(_ context.Context, req *http.Request, sink *Sink) {
		sink.Set(KeyRequestLine, requestLine(req, rules))
	})
}

func requestLine(req *http.Request, rules []mask.Rule) string {
	if req == nil || req.URL == nil {
		return ""
	}
	u := req.URL
	host := req.Host
	if host == "" {
		host = u.Host
	}
	var target string
	if u.Scheme != "" || host != "" {
		target = u.Scheme + "://" + host
	}
	target += u.RequestURI()
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	return method + " " + mask.Apply(rules, target)
}

// RequestHeaders records the allow-listed request headers. With no names the
// defaults of DefaultHeaders are used.
func RequestHeaders(names ...string) RequestProcessor {
	allow := newHeaderAllowList(names)
	return RequestProcessorFunc(func(_ context.Context, req *http.Request, sink *Sink) {
		if req == nil {
			sink.Set(KeyRequestHeaders, "")
			return
		}
		sink.Set(KeyRequestHeaders, allow.render(req.Header))
	})
}

// RequestBody records the request body when its media type passes gate.
// Single-read bodies are never consumed; they are logged as empty so the
// real send keeps its body.
func RequestBody(gate capture.MediaGate, opts capture.Options, metrics *Metrics) RequestProcessor {
	opts.RequireRepeatable = true
	return requestBody{
		gate:    gate,
		engine:  capture.New(opts),
		logger:  opts.Logger,
		metrics: metrics,
	}
}

type requestBody struct {
	gate    capture.MediaGate
	engine  *capture.Engine
	logger  *slog.Logger
	metrics *Metrics
}

func (p requestBody) ProcessRequest(ctx context.Context, req *http.Request, sink *Sink) {
	if req == nil || !p.gate.Eligible(req.Header) {
		sink.Set(KeyRequestBody, Placeholder)
		p.metrics.ineligible(directionRequest)
		return
	}
	res := engineFor(ctx, p.engine, p.logger).Capture(ctx, capture.Request(req))
	sink.Set(KeyRequestBody, res.Body)
	p.metrics.observe(directionRequest, res)
}

// engineFor binds the context logger when no logger was configured.
func engineFor(ctx context.Context, e *capture.Engine, configured *slog.Logger) *capture.Engine {
	if configured != nil {
		return e
	}
	return e.WithLogger(Logger(ctx))
}
