// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedFormat is returned for an unknown output format
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Format is the output format of a report
type Format string

const (
	// TEXT prints one line per hop as soon as it is probed
	TEXT Format = "text"
	// JSON prints the whole report as a JSON document
	JSON Format = "json"
	// YAML prints the whole report as a YAML document
	YAML Format = "yaml"
)

// ParseFormat returns the format for s. The comparison is case insensitive.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if err := f.Validate(); err != nil {
		return "", err
	}
	return f, nil
}

// String returns the string representation of the format
func (f Format) String() string {
	return string(f)
}

// Validate validates the format
func (f Format) Validate() error {
	switch f {
	case TEXT, JSON, YAML:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(f))
	}
}

// IsStreaming returns true if the format prints hops while probing
func (f Format) IsStreaming() bool {
	return f == TEXT
}
