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

// Package slogexchange logs HTTP client exchanges as structured [log/slog]
// records without changing what the caller or the server sees.
//
// A [Pipeline] runs an ordered list of request processors before a request
// is sent and an ordered list of response processors after the response
// arrives. Processors write string attributes into the exchange's [Sink],
// which travels on the request context. After each phase the pipeline writes
// one line to the request stream and one to the response stream, each
// carrying every attribute recorded so far plus trace correlation fields.
//
// Bodies are captured with package capture, which reads a body once,
// decompresses gzip for logging, and puts a byte-identical replacement back
// on the message. Bodies are logged only for allow-listed media types, cut to
// a maximum length, and masked with package mask.
//
// # Attributes
//
// Every exchange records:
//
//	HC_REQUEST_TIME, HC_REQUEST_HASH, HC_REQUEST_LINE, HC_REQUEST_HEADERS,
//	HC_REQUEST_BODY, HC_RESPONSE_STATUS, HC_RESPONSE_HEADERS,
//	HC_RESPONSE_BODY, HC_RESPONSE_BODY_LENGTH
//
// Values are never blank: absent, empty, and "null" values are recorded as
// "-". Control characters are escaped.
//
// # Quick Start
//
// The transport in package slogexchangehttp wires a pipeline into a client:
//
//	pipeline := slogexchange.NewPipeline(
//	    slogexchange.WithResponseMediaSubtypes("json"),
//	    slogexchange.WithMaskRules(mask.JSONFields("password")),
//	)
//	client := slogexchangehttp.Client(slogexchangehttp.WithPipeline(pipeline))
//
// Configuration can also come from YAML through package config and
// [NewPipelineFromConfig].
package slogexchange
