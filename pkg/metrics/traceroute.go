// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/telekom/icmptrace/internal/traceroute"
)

// Traceroute holds the metric collectors of a traceroute run
type Traceroute struct {
	hops       *prometheus.CounterVec
	latency    prometheus.Histogram
	pathLength *prometheus.GaugeVec
	reached    *prometheus.GaugeVec
}

// NewTraceroute initializes the metric collectors of a traceroute run
func NewTraceroute() *Traceroute {
	return &Traceroute{
		hops: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "icmptrace_hops_total",
				Help: "Number of probed hops by outcome.",
			},
			[]string{"outcome"},
		),
		latency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "icmptrace_hop_latency_seconds",
				Help:    "Time between sending a probe and receiving its reply in seconds.",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
			},
		),
		pathLength: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "icmptrace_path_length",
				Help: "TTL of the last probed hop of the traceroute to the target.",
			},
			[]string{"target"},
		),
		reached: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "icmptrace_destination_reached",
				Help: "Specifies if the last TTL of the traceroute got a reply.",
			},
			[]string{"target"},
		),
	}
}

// GetCollectors returns all metric collectors
func (m *Traceroute) GetCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.hops,
		m.latency,
		m.pathLength,
		m.reached,
	}
}

// ObserveHop records a single probed hop
func (m *Traceroute) ObserveHop(hop traceroute.Hop) {
	m.hops.WithLabelValues(string(hop.Outcome)).Inc()
	if hop.Replied() {
		m.latency.Observe(hop.Latency.Seconds())
	}
}

// SetResult records the summary of a finished or aborted run
func (m *Traceroute) SetResult(res traceroute.Result) {
	target := res.Target.String()
	length := 0
	if last, ok := res.Last(); ok {
		length = last.TTL
	}
	m.pathLength.WithLabelValues(target).Set(float64(length))

	reached := 0.0
	if res.Reached() {
		reached = 1
	}
	m.reached.WithLabelValues(target).Set(reached)
}
