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
	"strconv"

	"github.com/pjscruggs/slogexchange/capture"
)

// ResponseStatus records the numeric status code.
func ResponseStatus() ResponseProcessor {
	return ResponseProcessorFunc(func(_ context.Context, resp *http.Response, sink *Sink) {
		if resp == nil {
			sink.Set(KeyResponseStatus, "")
			return
		}
		sink.Set(KeyResponseStatus, strconv.Itoa(resp.StatusCode))
	})
}

// ResponseHeaders records the allow-listed response headers.
func ResponseHeaders(names ...string) ResponseProcessor {
	allow := newHeaderAllowList(names)
	return ResponseProcessorFunc(func(_ context.Context, resp *http.Response, sink *Sink) {
		if resp == nil {
			sink.Set(KeyResponseHeaders, "")
			return
		}
		sink.Set(KeyResponseHeaders, allow.render(resp.Header))
	})
}

// ResponseBody records the response body and its logged length when the
// media type passes gate. The body is replaced by an equivalent one, so the
// caller reads the same bytes it would have read without logging.
func ResponseBody(gate capture.MediaGate, opts capture.Options, metrics *Metrics) ResponseProcessor {
	return responseBody{
		gate:    gate,
		engine:  capture.New(opts),
		logger:  opts.Logger,
		metrics: metrics,
	}
}

type responseBody struct {
	gate    capture.MediaGate
	engine  *capture.Engine
	logger  *slog.Logger
	metrics *Metrics
}

func (p responseBody) ProcessResponse(ctx context.Context, resp *http.Response, sink *Sink) {
	if resp == nil || !p.gate.Eligible(resp.Header) {
		sink.Set(KeyResponseBody, Placeholder)
		sink.Set(KeyResponseBodyLength, Placeholder)
		p.metrics.ineligible(directionResponse)
		return
	}
	res := engineFor(ctx, p.engine, p.logger).Capture(ctx, capture.Response(resp))
	sink.Set(KeyResponseBody, res.Body)
	sink.Set(KeyResponseBodyLength, res.Length)
	p.metrics.observe(directionResponse, res)
}
