// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	buildInfoMetricName = "icmptrace_build_info"
	buildInfoHelp       = "Build metadata of the icmptrace binary that produced the metrics. Always 1."
)

// RegisterBuildInfo registers the icmptrace_build_info info-style metric on the given registry.
// It sets the gauge to 1 with the labels version and goversion.
// An empty version is reported as "dev".
func RegisterBuildInfo(registry prometheus.Registerer, version string) error {
	if version == "" {
		version = "dev"
	}
	info := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: buildInfoMetricName,
			Help: buildInfoHelp,
		},
		[]string{"version", "goversion"},
	)
	info.WithLabelValues(version, runtime.Version()).Set(1)
	return registry.Register(info)
}
