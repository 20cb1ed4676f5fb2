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

// Package capture reads HTTP message bodies for logging and puts an
// equivalent, re-readable body back in their place.
//
// A body is read exactly once into memory. The bytes seen on the wire are
// kept verbatim and reattached to the message as a fresh repeatable entity,
// so the caller (or the real send, for requests) consumes the same bytes it
// would have seen without logging. The logged copy is decompressed when the
// entity declares Content-Encoding "gzip", decoded with the declared charset,
// truncated, and masked.
//
// Capture never fails the exchange. Read and decompression errors degrade
// the logged value to the raw bytes and emit a warning on the configured
// logger.
package capture

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"unicode/utf8"

	"github.com/pjscruggs/slogexchange/mask"
)

// DefaultMaxLength bounds the logged body when Options.MaxLength is zero.
const DefaultMaxLength = 2048

// EncodingGzip is the only Content-Encoding value that is decompressed.
// The comparison is exact and case-sensitive.
const EncodingGzip = "gzip"

// Options configures an Engine.
type Options struct {
	// MaxLength is the maximum number of characters logged. Zero selects
	// DefaultMaxLength and a negative value disables truncation.
	MaxLength int
	// Rules are applied in order to the truncated body.
	Rules []mask.Rule
	// RequireRepeatable leaves single-read entities untouched and logs them
	// as empty. Outgoing requests use it so the real send keeps its body.
	RequireRepeatable bool
	// Logger receives diagnostics for degraded captures. Nil uses
	// slog.Default().
	Logger *slog.Logger
}

// Result is the outcome of one capture.
type Result struct {
	// Body is the logged body, never blank.
	Body string
	// Length is the character count of the logged body before placeholder
	// substitution, or Placeholder when the message had no body.
	Length string
	// Present reports whether the message carried an entity.
	Present bool
	// Skipped reports that a single-read entity was left unread.
	Skipped bool
	// Truncated reports that the logged body was cut to MaxLength.
	Truncated bool
	// Degraded reports that reading or decoding failed and Body holds a
	// best-effort rendering of the raw bytes.
	Degraded bool
	// WireBytes is the number of body bytes read from the original source.
	WireBytes int
}

// Engine captures message bodies. It holds no per-call state and is safe for
// concurrent use.
type Engine struct {
	maxLength         int
	rules             []mask.Rule
	requireRepeatable bool
	logger            *slog.Logger
}

// New returns an Engine configured by opts.
func New(opts Options) *Engine {
	maxLength := opts.MaxLength
	if maxLength == 0 {
		maxLength = DefaultMaxLength
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		maxLength:         maxLength,
		rules:             append([]mask.Rule(nil), opts.Rules...),
		requireRepeatable: opts.RequireRepeatable,
		logger:            logger,
	}
}

// WithLogger returns a copy of e that reports diagnostics to logger.
func (e *Engine) WithLogger(logger *slog.Logger) *Engine {
	if logger == nil || logger == e.logger {
		return e
	}
	clone := *e
	clone.logger = logger
	return &clone
}

// capturedBody holds the bytes read during one capture.
type capturedBody struct {
	wire     []byte
	decoded  []byte
	consumed bool
	// err is any failure while reading or decoding, for diagnostics.
	err error
	// readErr is the error the source itself returned, replayed to consumers.
	readErr error
}

// Capture reads the entity of c, replaces it with a fresh entity carrying the
// same bytes and metadata, and returns the logged rendering of the body.
func (e *Engine) Capture(ctx context.Context, c Container) Result {
	if ctx == nil {
		ctx = context.Background()
	}
	entity := c.Entity()
	if entity == nil || entity.Source == nil {
		return Result{Body: Placeholder, Length: Placeholder}
	}
	if e.requireRepeatable && !entity.Repeatable {
		return Result{Body: Placeholder, Length: "0", Present: true, Skipped: true}
	}

	charset := ResolveCharset(entity.ContentType)

	var body capturedBody
	if entity.ContentEncoding == EncodingGzip {
		body = readGzip(entity.Source)
	} else {
		body = readPlain(entity.Source)
	}
	if body.consumed {
		c.SetEntity(entity.Replay(body.wire, body.readErr))
	}

	res := Result{Present: true, WireBytes: len(body.wire)}
	if body.err != nil {
		res.Degraded = true
		e.logger.WarnContext(ctx, "capture body degraded to raw bytes",
			slog.String("content_type", entity.ContentType),
			slog.String("content_encoding", entity.ContentEncoding),
			slog.Any("error", body.err),
		)
	}

	text, err := charset.Decode(body.decoded)
	if err != nil {
		res.Degraded = true
		text = string(body.decoded)
		e.logger.WarnContext(ctx, "decode body with declared charset",
			slog.String("charset", charset.Name),
			slog.Any("error", err),
		)
	}

	text, res.Truncated = Truncate(text, e.maxLength)
	text = mask.Apply(e.rules, text)

	res.Body = ReplaceEmpty(text)
	res.Length = strconv.Itoa(utf8.RuneCountInString(text))
	return res
}

// Truncate returns the first n characters of s. A negative n returns s
// unchanged. Characters are Unicode code points, so a combining sequence may
// be split.
func Truncate(s string, n int) (string, bool) {
	if n < 0 {
		return s, false
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i], true
		}
		count++
	}
	return s, false
}

// readPlain reads the whole source, falling back to WriteTo when the source
// does not support direct reads.
func readPlain(src Source) capturedBody {
	rc, err := src.Open()
	if errors.Is(err, ErrDirectReadUnsupported) {
		body := bufferSourceBytes(src)
		body.decoded = body.wire
		return body
	}
	if err != nil {
		return capturedBody{err: fmt.Errorf("open body: %w", err)}
	}
	defer rc.Close()

	rec := &recordingReader{r: rc}
	data, err := io.ReadAll(rec)
	body := capturedBody{wire: data, decoded: data, consumed: true, readErr: rec.err}
	if err != nil {
		body.err = fmt.Errorf("read body: %w", err)
	}
	return body
}

// readGzip reads the whole source and decompresses it. The compressed bytes
// are retained for replay. The buffered fallback decompresses from memory and
// yields the same result as the direct path.
func readGzip(src Source) capturedBody {
	rc, err := src.Open()
	if errors.Is(err, ErrDirectReadUnsupported) {
		body := bufferSourceBytes(src)
		if body.err != nil {
			body.decoded = body.wire
			return body
		}
		decoded, err := gunzip(bytes.NewReader(body.wire), len(body.wire))
		if err != nil {
			body.decoded = body.wire
			body.err = err
			return body
		}
		body.decoded = decoded
		return body
	}
	if err != nil {
		return capturedBody{err: fmt.Errorf("open body: %w", err)}
	}
	defer rc.Close()

	rec := &recordingReader{r: rc}
	var wire bytes.Buffer
	tee := io.TeeReader(rec, &wire)
	decoded, derr := gunzip(tee, -1)
	if rec.err == nil {
		if _, err := io.Copy(io.Discard, tee); err != nil && derr == nil {
			derr = fmt.Errorf("read body: %w", err)
		}
	}

	body := capturedBody{wire: wire.Bytes(), decoded: decoded, consumed: true, readErr: rec.err}
	if derr != nil {
		body.err = derr
		if wire.Len() > 0 {
			body.decoded = body.wire
		}
	}
	return body
}

// bufferSourceBytes drains src through WriteTo.
func bufferSourceBytes(src Source) capturedBody {
	var buf bytes.Buffer
	_, err := src.WriteTo(&buf)
	body := capturedBody{wire: buf.Bytes(), consumed: err == nil || buf.Len() > 0}
	if err != nil {
		body.err = fmt.Errorf("buffer body: %w", err)
		if body.consumed {
			body.readErr = err
		}
	}
	return body
}

// gunzip decompresses a gzip stream. size is the known input length or -1;
// an empty input decompresses to an empty body.
func gunzip(r io.Reader, size int) ([]byte, error) {
	if size == 0 {
		return nil, nil
	}
	zr, err := gzip.NewReader(r)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("open gzip stream: %w", err)
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return out, fmt.Errorf("decompress gzip stream: %w", err)
	}
	return out, nil
}
