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

// Package slogexchangehttp logs net/http client exchanges through a
// slogexchange pipeline.
//
// Transport wraps a base http.RoundTripper. For each request it attaches a
// Sink to the request context (reusing one the caller already attached),
// injects trace context headers, runs the request processors, forwards the
// request, and runs the response processors before handing the response back.
// Request and response bodies the pipeline captures are replaced by
// byte-identical copies, so the server and the caller see exactly what they
// would without logging.
//
//	client := slogexchangehttp.Client(
//	    slogexchangehttp.WithPipelineOptions(
//	        slogexchange.WithResponseMediaSubtypes("json"),
//	    ),
//	)
//	resp, err := client.Get("https://example.com/api")
package slogexchangehttp
