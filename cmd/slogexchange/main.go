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

// Command slogexchange performs HTTP requests and logs each exchange the way
// an instrumented client would, which makes it handy for trying out masking
// rules and media-type settings.
//
// Usage:
//
//	# GET a URL with the default configuration
//	slogexchange get https://example.com/api
//
//	# POST JSON using a configuration file, logging as JSON
//	slogexchange get --config slogexchange.yaml --log-format json \
//	    -X POST -H 'Content-Type: application/json' -d '{"a":1}' https://example.com/api
//
//	# Check a configuration file
//	slogexchange validate --config slogexchange.yaml
package main

func main() {
	Execute()
}
