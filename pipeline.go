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
	"sync"
	"sync/atomic"
)

// Pipeline runs ordered request and response processors around one exchange
// and writes a line to the request and response streams.
//
// A Pipeline is safe for concurrent use. Each exchange carries its own Sink
// on its context. Update swaps the processor sequences atomically; a phase
// already running finishes on the sequence it loaded.
type Pipeline struct {
	state atomic.Pointer[pipelineState]

	mu   sync.Mutex
	base []Option
}

type pipelineState struct {
	request        []RequestProcessor
	response       []ResponseProcessor
	requestLogger  *slog.Logger
	responseLogger *slog.Logger
	level          slog.Level
	traceProjectID string
}

// NewPipeline returns a Pipeline configured by opts. Without options it
// records the request time, hash, line, headers, and JSON or XML request
// bodies, plus the response status and headers. Response bodies are logged
// once WithResponseMediaSubtypes names the media types to capture.
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{base: append([]Option(nil), opts...)}
	p.state.Store(buildState(applyOptions(opts)))
	return p
}

func buildState(o *options) *pipelineState {
	st := &pipelineState{
		requestLogger:  o.requestLogger,
		responseLogger: o.responseLogger,
		level:          o.level,
		traceProjectID: o.traceProjectID,
	}
	if st.requestLogger == nil {
		st.requestLogger = slog.Default().With(slog.String("logger", "request"))
	}
	if st.responseLogger == nil {
		st.responseLogger = slog.Default().With(slog.String("logger", "response"))
	}
	if o.customRequest {
		st.request = o.requestProcessors
	} else {
		st.request = o.defaultRequestProcessors()
	}
	if o.customResponse {
		st.response = o.responseProcessors
	} else {
		st.response = o.defaultResponseProcessors()
	}
	return st
}

// Update rebuilds the pipeline from its construction options followed by
// opts and swaps the result in atomically.
func (p *Pipeline) Update(opts ...Option) {
	p.mu.Lock()
	defer p.mu.Unlock()
	all := make([]Option, 0, len(p.base)+len(opts))
	all = append(all, p.base...)
	all = append(all, opts...)
	p.state.Store(buildState(applyOptions(all)))
}

// LogRequest clears the exchange's namespaced attributes, runs the request
// processors, and writes the request line. The returned context carries the
// exchange's Sink; a new Sink is attached when ctx has none.
func (p *Pipeline) LogRequest(ctx context.Context, req *http.Request) context.Context {
	ctx, sink := ensureSink(ctx)
	sink.Reset()

	st := p.state.Load()
	for _, proc := range st.request {
		if proc != nil {
			proc.ProcessRequest(ctx, req, sink)
		}
	}
	st.emit(ctx, st.requestLogger, "Outgoing request", sink)
	return ctx
}

// LogResponse runs the response processors and writes the response line.
func (p *Pipeline) LogResponse(ctx context.Context, resp *http.Response) context.Context {
	ctx, sink := ensureSink(ctx)

	st := p.state.Load()
	for _, proc := range st.response {
		if proc != nil {
			proc.ProcessResponse(ctx, resp, sink)
		}
	}
	st.emit(ctx, st.responseLogger, "Incoming response", sink)
	return ctx
}

// Cleanup removes the namespaced attributes of the exchange in ctx.
func (p *Pipeline) Cleanup(ctx context.Context) {
	if sink, ok := SinkFromContext(ctx); ok {
		sink.Reset()
	}
}

func (st *pipelineState) emit(ctx context.Context, logger *slog.Logger, msg string, sink *Sink) {
	if !logger.Enabled(ctx, st.level) {
		return
	}
	line, ok := sink.Get(KeyRequestLine)
	if !ok {
		line = Placeholder
	}
	attrs := sink.Attrs()
	attrs = append(attrs, TraceAttributes(ctx, st.traceProjectID)...)
	logger.LogAttrs(ctx, st.level, msg+" "+line, attrs...)
}

func ensureSink(ctx context.Context) (context.Context, *Sink) {
	if ctx == nil {
		ctx = context.Background()
	}
	if sink, ok := SinkFromContext(ctx); ok {
		return ctx, sink
	}
	sink := NewSink()
	return ContextWithSink(ctx, sink), sink
}
