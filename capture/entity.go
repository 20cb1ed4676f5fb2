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

package capture

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
)

var (
	// ErrDirectReadUnsupported is returned by Source.Open when the source
	// can only be drained through WriteTo.
	ErrDirectReadUnsupported = errors.New("capture: direct read unsupported")

	// ErrSourceConsumed is returned when a single-read source is read twice.
	ErrSourceConsumed = errors.New("capture: source already consumed")
)

// Source produces the bytes of an entity body.
//
// Open returns a reader positioned at the start of the body, or
// ErrDirectReadUnsupported when the source must be drained with WriteTo.
// Single-read sources support exactly one successful Open or WriteTo.
type Source interface {
	Open() (io.ReadCloser, error)
	WriteTo(w io.Writer) (int64, error)
}

// Entity describes a message body and its declared metadata.
type Entity struct {
	ContentType     string
	ContentEncoding string
	Chunked         bool
	// Length is the declared body length, or -1 when unknown.
	Length     int64
	Repeatable bool
	Source     Source
}

// Replay returns a repeatable entity carrying raw and the declared metadata
// of e. A non-nil readErr is returned by every reader of the new entity once
// raw is exhausted, so consumers see the failure the original source hit.
func (e *Entity) Replay(raw []byte, readErr error) *Entity {
	return &Entity{
		ContentType:     e.ContentType,
		ContentEncoding: e.ContentEncoding,
		Chunked:         e.Chunked,
		Length:          e.Length,
		Repeatable:      true,
		Source:          bufferSource{data: raw, err: readErr},
	}
}

// Container is a message whose entity can be observed and swapped.
type Container interface {
	// Entity returns the current entity, or nil when the message has no body.
	Entity() *Entity
	// SetEntity makes e the message body.
	SetEntity(e *Entity)
}

// Request adapts an outgoing request. A request is repeatable when GetBody is
// set, which is how net/http marks bodies it can rewind for redirects and
// retries.
func Request(req *http.Request) Container {
	return requestContainer{req: req}
}

// Response adapts an incoming response. Response bodies are single-read.
func Response(resp *http.Response) Container {
	return &responseContainer{resp: resp}
}

type requestContainer struct {
	req *http.Request
}

func (c requestContainer) Entity() *Entity {
	req := c.req
	if req == nil || req.Body == nil || req.Body == http.NoBody {
		return nil
	}
	return &Entity{
		ContentType:     req.Header.Get("Content-Type"),
		ContentEncoding: req.Header.Get("Content-Encoding"),
		Chunked:         isChunked(req.TransferEncoding),
		Length:          declaredLength(req.ContentLength),
		Repeatable:      req.GetBody != nil,
		Source:          requestSource{req: req},
	}
}

func (c requestContainer) SetEntity(e *Entity) {
	req := c.req
	if req == nil {
		return
	}
	if e == nil || e.Source == nil {
		req.Body = http.NoBody
		req.GetBody = nil
		req.ContentLength = 0
		return
	}
	body, err := e.Source.Open()
	if err != nil {
		return
	}
	if req.Body != nil {
		_ = req.Body.Close()
	}
	req.Body = body
	if e.Repeatable {
		src := e.Source
		req.GetBody = src.Open
	} else {
		req.GetBody = nil
	}
	if e.Length >= 0 {
		req.ContentLength = e.Length
	}
}

type requestSource struct {
	req *http.Request
}

func (s requestSource) Open() (io.ReadCloser, error) {
	if s.req.GetBody == nil {
		return nil, ErrDirectReadUnsupported
	}
	body, err := s.req.GetBody()
	if err != nil {
		return nil, fmt.Errorf("get request body: %w", err)
	}
	return body, nil
}

// WriteTo drains a fresh copy when GetBody is set and otherwise consumes the
// live body, which the caller must then replace.
func (s requestSource) WriteTo(w io.Writer) (int64, error) {
	body, err := s.Open()
	if errors.Is(err, ErrDirectReadUnsupported) {
		if s.req.Body == nil || s.req.Body == http.NoBody {
			return 0, ErrSourceConsumed
		}
		body, err = s.req.Body, nil
	}
	if err != nil {
		return 0, err
	}
	defer body.Close()
	n, err := io.Copy(w, body)
	if err != nil {
		return n, fmt.Errorf("copy request body: %w", err)
	}
	return n, nil
}

type responseContainer struct {
	resp *http.Response
	src  *streamSource
}

func (c *responseContainer) Entity() *Entity {
	resp := c.resp
	if resp == nil || resp.Body == nil || resp.Body == http.NoBody {
		return nil
	}
	if c.src == nil || c.src.body != resp.Body {
		c.src = &streamSource{body: resp.Body}
	}
	return &Entity{
		ContentType:     resp.Header.Get("Content-Type"),
		ContentEncoding: resp.Header.Get("Content-Encoding"),
		Chunked:         isChunked(resp.TransferEncoding),
		Length:          declaredLength(resp.ContentLength),
		Repeatable:      false,
		Source:          c.src,
	}
}

func (c *responseContainer) SetEntity(e *Entity) {
	resp := c.resp
	if resp == nil {
		return
	}
	if e == nil || e.Source == nil {
		resp.Body = http.NoBody
		resp.ContentLength = 0
		return
	}
	body, err := e.Source.Open()
	if err != nil {
		return
	}
	resp.Body = body
	c.src = nil
	if e.Length >= 0 {
		resp.ContentLength = e.Length
	}
}

// streamSource is a single-read source over a live body. The body is closed
// once it has been drained.
type streamSource struct {
	body     io.ReadCloser
	consumed bool
}

func (s *streamSource) Open() (io.ReadCloser, error) {
	if s.consumed {
		return nil, ErrSourceConsumed
	}
	s.consumed = true
	return s.body, nil
}

func (s *streamSource) WriteTo(w io.Writer) (int64, error) {
	body, err := s.Open()
	if err != nil {
		return 0, err
	}
	defer body.Close()
	n, err := io.Copy(w, body)
	if err != nil {
		return n, fmt.Errorf("copy response body: %w", err)
	}
	return n, nil
}

// bufferSource is a repeatable source over an in-memory body, optionally
// ending in the error that interrupted the original read.
type bufferSource struct {
	data []byte
	err  error
}

func (b bufferSource) Open() (io.ReadCloser, error) {
	if b.err == nil {
		return io.NopCloser(bytes.NewReader(b.data)), nil
	}
	return io.NopCloser(io.MultiReader(bytes.NewReader(b.data), errReader{b.err})), nil
}

func (b bufferSource) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b.data)
	if err != nil {
		return int64(n), err
	}
	return int64(n), b.err
}

// errReader fails every read with err.
type errReader struct{ err error }

func (r errReader) Read([]byte) (int, error) { return 0, r.err }

// recordingReader remembers the first error other than io.EOF returned by r.
type recordingReader struct {
	r   io.Reader
	err error
}

func (r *recordingReader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) && r.err == nil {
		r.err = err
	}
	return n, err
}

func isChunked(te []string) bool {
	return slices.ContainsFunc(te, func(v string) bool {
		return strings.EqualFold(strings.TrimSpace(v), "chunked")
	})
}

func declaredLength(n int64) int64 {
	if n < 0 {
		return -1
	}
	return n
}
