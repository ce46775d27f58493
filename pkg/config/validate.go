// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/telekom/icmptrace/internal/logger"
)

// maxHopDistance is the largest TTL an IPv4 packet can carry
const maxHopDistance = 255

// Validate validates the startup config
func (c *Config) Validate(ctx context.Context) (err error) {
	log := logger.FromContext(ctx)

	if vErr := c.Output.Validate(); vErr != nil {
		log.Error("The output format is not supported", "output", c.Output)
		err = errors.Join(err, fmt.Errorf("%w: %w", ErrInvalidOutput, vErr))
	}

	if c.Timeout <= 0 {
		log.Error("The probe timeout must be above 0", "timeout", c.Timeout)
		err = errors.Join(err, ErrInvalidTimeout)
	}

	if !isIPv4(c.ListenAddress) {
		log.Error("The listen address must be an IPv4 address", "listenAddress", c.ListenAddress)
		err = errors.Join(err, ErrInvalidListenAddress)
	}

	if c.HasTelemetry() {
		if vErr := c.Telemetry.Validate(ctx); vErr != nil {
			log.Error("The telemetry configuration is invalid")
			err = errors.Join(err, vErr)
		}
	}

	if err != nil {
		return fmt.Errorf("validation of configuration failed: %w", err)
	}
	return nil
}

// ParseHopDistance parses the hop distance argument
func ParseHopDistance(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrInvalidHopDistance, s)
	}
	if n < 1 || n > maxHopDistance {
		return 0, fmt.Errorf("%w: %d is not between 1 and %d", ErrInvalidHopDistance, n, maxHopDistance)
	}
	return n, nil
}

// ParseDestination parses the destination argument
func ParseDestination(s string) (string, error) {
	if !isIPv4(s) {
		return "", fmt.Errorf("%w: %q is not a dotted-decimal IPv4 address", ErrInvalidDestination, s)
	}
	return s, nil
}

// isIPv4 checks if the given string is a dotted-decimal IPv4 address
func isIPv4(s string) bool {
	ip := net.ParseIP(s)
	return ip != nil && ip.To4() != nil && !strings.Contains(s, ":")
}
