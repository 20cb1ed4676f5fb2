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
	"maps"
	"slices"
	"strings"
	"sync"
)

// Sink is the attribute store of one exchange. A Sink travels on the
// exchange's context (see ContextWithSink) rather than living in a global
// map, so concurrent exchanges never observe each other's attributes.
//
// All methods are safe for concurrent use and treat a nil *Sink as empty.
type Sink struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewSink returns an empty Sink.
func NewSink() *Sink {
	return &Sink{values: make(map[string]string)}
}

// Set records value under key after escaping control characters and
// substituting Placeholder for blank values.
func (s *Sink) Set(key, value string) {
	s.Put(key, ReplaceEmpty(Escape(value)))
}

// Put records value under key verbatim. It is meant for attributes owned by
// other subsystems that share the Sink; Reset leaves keys outside Namespace
// untouched.
func (s *Sink) Put(key, value string) {
	if s == nil || key == "" {
		return
	}
	s.mu.Lock()
	if s.values == nil {
		s.values = make(map[string]string)
	}
	s.values[key] = value
	s.mu.Unlock()
}

// Get returns the value stored under key.
func (s *Sink) Get(key string) (string, bool) {
	if s == nil {
		return "", false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Reset removes every key in Namespace.
func (s *Sink) Reset() {
	if s == nil {
		return
	}
	s.mu.Lock()
	maps.DeleteFunc(s.values, func(k, _ string) bool {
		return strings.HasPrefix(k, Namespace)
	})
	s.mu.Unlock()
}

// Len reports the number of stored keys.
func (s *Sink) Len() int {
	if s == nil {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

// Attrs returns the stored values as string attributes sorted by key.
func (s *Sink) Attrs() []slog.Attr {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	keys := slices.Sorted(maps.Keys(s.values))
	attrs := make([]slog.Attr, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, slog.String(k, s.values[k]))
	}
	s.mu.RUnlock()
	return attrs
}
