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
)

// contextHandler decorates records with the attributes of the Sink carried by
// the record's context.
type contextHandler struct {
	next slog.Handler
}

// NewContextHandler wraps next so that every record logged with a context
// holding a Sink also carries that Sink's attributes. Records logged without
// a Sink pass through unchanged. A nil next discards every record.
//
// Do not wrap the handler of the built-in default logger and then install the
// result with slog.SetDefault: the built-in handler writes through the log
// package, which slog.SetDefault redirects back into the new handler.
func NewContextHandler(next slog.Handler) slog.Handler {
	if next == nil {
		next = slog.DiscardHandler
	}
	if h, ok := next.(*contextHandler); ok {
		return h
	}
	return &contextHandler{next: next}
}

// Enabled reports whether the wrapped handler handles level.
func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle appends Sink attributes that the record does not already carry.
func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	sink, ok := SinkFromContext(ctx)
	if !ok || sink.Len() == 0 {
		return h.next.Handle(ctx, r)
	}
	present := make(map[string]struct{}, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		present[a.Key] = struct{}{}
		return true
	})
	r = r.Clone()
	for _, a := range sink.Attrs() {
		if _, dup := present[a.Key]; dup {
			continue
		}
		r.AddAttrs(a)
	}
	return h.next.Handle(ctx, r)
}

// WithAttrs returns a handler whose wrapped handler carries attrs.
func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{next: h.next.WithAttrs(attrs)}
}

// WithGroup returns a handler whose wrapped handler opens group name.
func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{next: h.next.WithGroup(name)}
}
