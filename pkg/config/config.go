// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"time"

	"github.com/telekom/icmptrace/internal/traceroute"
	"github.com/telekom/icmptrace/pkg/metrics"
	"github.com/telekom/icmptrace/pkg/report"
)

// Config is the startup configuration of a traceroute run
type Config struct {
	// Output is the format the result is printed in
	Output report.Format `yaml:"output" mapstructure:"output"`
	// Timeout is the time to wait for the reply to a single probe
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// ListenAddress is the local IPv4 address the raw socket is bound to
	ListenAddress string `yaml:"listenAddress" mapstructure:"listenAddress"`
	// Metrics is the configuration for the metrics export
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
	// Telemetry is the configuration for the telemetry
	Telemetry metrics.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

// MetricsConfig is the configuration for the metrics export
type MetricsConfig struct {
	// File is the path the metrics are written to after the run.
	// No metrics are written if it is empty.
	File string `yaml:"file" mapstructure:"file"`
}

// Default returns the configuration used if nothing is configured
func Default() Config {
	return Config{
		Output:        report.TEXT,
		Timeout:       traceroute.DefaultTimeout,
		ListenAddress: traceroute.DefaultListenAddress,
	}
}

// HasTelemetry returns true if the config has telemetry enabled
func (c *Config) HasTelemetry() bool {
	return c.Telemetry.Enabled
}

// HasMetricsFile returns true if the metrics should be written to a file
func (c *Config) HasMetricsFile() bool {
	return c.Metrics.File != ""
}

// TracerouteOptions returns the options of a run probing up to maxHops
func (c *Config) TracerouteOptions(maxHops int) *traceroute.Options {
	return &traceroute.Options{
		MaxTTL:        maxHops,
		Timeout:       c.Timeout,
		ListenAddress: c.ListenAddress,
	}
}
