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
	"net/http"
)

// RequestProcessor extracts attributes from an outgoing request.
//
// Processors run sequentially on the goroutine performing the exchange and
// may replace the request body (see package capture); they must leave it
// readable for the real send.
type RequestProcessor interface {
	ProcessRequest(ctx context.Context, req *http.Request, sink *Sink)
}

// ResponseProcessor extracts attributes from an incoming response. A
// processor that reads the body must restore an equivalent one.
type ResponseProcessor interface {
	ProcessResponse(ctx context.Context, resp *http.Response, sink *Sink)
}

// RequestProcessorFunc adapts a function to RequestProcessor.
type RequestProcessorFunc func(ctx context.Context, req *http.Request, sink *Sink)

// ProcessRequest calls f.
func (f RequestProcessorFunc) ProcessRequest(ctx context.Context, req *http.Request, sink *Sink) {
	f(ctx, req, sink)
}

// ResponseProcessorFunc adapts a function to ResponseProcessor.
type ResponseProcessorFunc func(ctx context.Context, resp *http.Response, sink *Sink)

// ProcessResponse calls f.
func (f ResponseProcessorFunc) ProcessResponse(ctx context.Context, resp *http.Response, sink *Sink) {
	f(ctx, resp, sink)
}
