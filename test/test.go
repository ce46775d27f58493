// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package test contains helpers shared by the tests of this module.
package test

import (
	"errors"
	"testing"
)

// Addresses from the documentation ranges of RFC 5737.
const (
	// RouterAddress is used for intermediate hops.
	RouterAddress = "192.0.2.1"
	// TargetAddress is used as traceroute destination.
	TargetAddress = "198.51.100.7"
)

// MarkAsLong marks the test as long running.
// It is skipped when the tests run with -short.
func MarkAsLong(t testing.TB) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping long running test in short mode")
	}
}

// SkipIf skips the test if err matches target.
// It is used for tests needing privileges the test process may not have.
func SkipIf(t testing.TB, err, target error) {
	t.Helper()
	if errors.Is(err, target) {
		t.Skipf("skipping test: %v", err)
	}
}
