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
	"os"
	"strconv"
	"strings"
	"sync"

	gcppropagator "github.com/GoogleCloudPlatform/opentelemetry-operations-go/propagator"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// DisablePropagatorAutosetEnv names the variable that, when truthy, stops
// EnsurePropagation from touching the global propagator.
const DisablePropagatorAutosetEnv = "SLOGEXCHANGE_DISABLE_PROPAGATOR_AUTOSET"

var installPropagatorOnce sync.Once

// EnsurePropagation installs, once per process, a global text map propagator
// that writes W3C Trace Context and Baggage headers on outgoing requests and
// also accepts Google Cloud's X-Cloud-Trace-Context header when extracting.
// The transport calls it when no propagator is supplied explicitly.
// Applications may still replace the global propagator afterwards.
func EnsurePropagation() {
	installPropagatorOnce.Do(func() {
		if propagatorAutosetDisabled() {
			return
		}
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
			gcppropagator.CloudTraceOneWayPropagator{},
			propagation.TraceContext{},
			propagation.Baggage{},
		))
	})
}

func propagatorAutosetDisabled() bool {
	return envTruthy(DisablePropagatorAutosetEnv)
}

// envTruthy reports whether the variable name holds a true value as parsed by
// strconv.ParseBool. Unset and unparseable values are false.
func envTruthy(name string) bool {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return false
	}
	v, err := strconv.ParseBool(raw)
	return err == nil && v
}
