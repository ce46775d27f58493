// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"errors"
	"fmt"
	"net"
	"os"

	"golang.org/x/sys/unix"
)

var (
	// ErrPermission is returned when the raw ICMP socket cannot be created
	// because the process lacks the NET_RAW capability or root privileges.
	ErrPermission = errors.New("no NET_RAW capabilities, raw ICMP socket not available")
	// ErrInvalidTarget is returned when the target is not a dotted-decimal IPv4 address.
	ErrInvalidTarget = errors.New("invalid target")
	// ErrInvalidOptions is returned when the options cannot be used for a run.
	ErrInvalidOptions = errors.New("invalid options")
)

// errTimedOut is returned by a receive when no datagram arrived in time.
// It never leaves the package, the hop loop turns it into a timed out [Hop].
var errTimedOut = errors.New("no reply within timeout")

// TransportError is a fatal failure of the raw socket while sending or receiving.
// It aborts the whole run.
type TransportError struct {
	// Op is the failing operation.
	Op string
	// TTL is the TTL of the probe the operation belonged to.
	TTL int
	// Err is the underlying error.
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s failed at ttl %d: %v", e.Op, e.TTL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// isTimeout reports whether err is the expiry of a read deadline.
func isTimeout(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) ||
		errors.Is(err, unix.EAGAIN) ||
		errors.Is(err, unix.EWOULDBLOCK) {
		return true
	}
	var nErr net.Error
	return errors.As(err, &nErr) && nErr.Timeout()
}

// isPermissionError reports whether err was caused by missing privileges.
func isPermissionError(err error) bool {
	return errors.Is(err, unix.EPERM) || errors.Is(err, unix.EACCES)
}
