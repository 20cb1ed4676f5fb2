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
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pjscruggs/slogexchange/capture"
)

const (
	directionRequest  = "request"
	directionResponse = "response"
)

// Capture outcomes reported by the capture_total counter.
const (
	OutcomeCaptured   = "captured"
	OutcomeIneligible = "ineligible"
	OutcomeAbsent     = "absent"
	OutcomeSkipped    = "skipped"
	OutcomeDegraded   = "degraded"
)

// Metrics tracks body capture activity.
//
// Metrics:
//   - slogexchange_capture_total: captures by direction and outcome
//   - slogexchange_capture_body_bytes: wire size of captured bodies
//   - slogexchange_capture_truncated_total: logged bodies cut to the limit
//
// A nil *Metrics records nothing.
type Metrics struct {
	captures  *prometheus.CounterVec
	bodyBytes *prometheus.HistogramVec
	truncated *prometheus.CounterVec
}

// NewMetrics creates the capture metrics and registers them with registerer.
// A nil registerer uses a fresh private registry.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.NewRegistry()
	}
	m := &Metrics{
		captures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "slogexchange",
				Subsystem: "capture",
				Name:      "total",
				Help:      "Body capture attempts by direction and outcome",
			},
			[]string{"direction", "outcome"},
		),
		bodyBytes: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "slogexchange",
				Subsystem: "capture",
				Name:      "body_bytes",
				Help:      "Wire size of captured bodies in bytes",
				Buckets:   prometheus.ExponentialBuckets(64, 4, 8), // 64B to 1MB
			},
			[]string{"direction"},
		),
		truncated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "slogexchange",
				Subsystem: "capture",
				Name:      "truncated_total",
				Help:      "Captured bodies truncated to the configured maximum length",
			},
			[]string{"direction"},
		),
	}

	registerer.MustRegister(m.captures, m.bodyBytes, m.truncated)
	return m
}

func (m *Metrics) ineligible(direction string) {
	if m == nil {
		return
	}
	m.captures.WithLabelValues(direction, OutcomeIneligible).Inc()
}

func (m *Metrics) observe(direction string, res capture.Result) {
	if m == nil {
		return
	}
	m.captures.WithLabelValues(direction, outcome(res)).Inc()
	if res.Present && !res.Skipped {
		m.bodyBytes.WithLabelValues(direction).Observe(float64(res.WireBytes))
	}
	if res.Truncated {
		m.truncated.WithLabelValues(direction).Inc()
	}
}

func outcome(res capture.Result) string {
	switch {
	case !res.Present:
		return OutcomeAbsent
	case res.Skipped:
		return OutcomeSkipped
	case res.Degraded:
		return OutcomeDegraded
	default:
		return OutcomeCaptured
	}
}
