// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package config

import "errors"

var (
	// ErrInvalidHopDistance is returned when the hop distance is not an integer between 1 and 255
	ErrInvalidHopDistance = errors.New("invalid hop distance")
	// ErrInvalidDestination is returned when the destination is not an IPv4 address
	ErrInvalidDestination = errors.New("invalid destination")
	// ErrInvalidOutput is returned when the output format is not supported
	ErrInvalidOutput = errors.New("invalid output format")
	// ErrInvalidTimeout is returned when the probe timeout is not positive
	ErrInvalidTimeout = errors.New("invalid timeout")
	// ErrInvalidListenAddress is returned when the listen address is not an IPv4 address
	ErrInvalidListenAddress = errors.New("invalid listen address")
)
