// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/telekom/icmptrace/internal/logger"
	"golang.org/x/net/icmp"
)

// mtuSize is the size of the receive buffer.
const mtuSize = 1500

// packetConn sends probes and receives replies for one traceroute session.
//
// The TTL and the receive timeout are parameters of every call.
// Implementations apply them to the underlying socket right before the
// operation, so no option set for one probe is relied upon by the next.
//
//go:generate go tool moq -out conn_moq.go . packetConn
type packetConn interface {
	// Send transmits pkt to dst with the given IP time to live.
	Send(ctx context.Context, pkt []byte, dst net.Addr, ttl int) error
	// Receive waits up to timeout for the next datagram.
	// It returns [errTimedOut] if none arrived in time.
	Receive(ctx context.Context, timeout time.Duration) (reply, error)
	// Close releases the socket.
	Close() error
}

// reply is a datagram received on the socket.
//
// No check is done that it answers the probe just sent: any ICMP message
// arriving during the wait is accepted, so a stray message on a busy host
// can be attributed to the wrong hop.
type reply struct {
	// from is the source address of the datagram.
	from net.Addr
	// msg is the ICMP message without the IP header.
	msg []byte
}

// rawConn is a [packetConn] backed by a raw ICMP socket.
// It requires NET_RAW capabilities to be created successfully.
type rawConn struct {
	conn *icmp.PacketConn
	buf  []byte
}

// listenICMP opens a raw ICMP socket bound to the given local IPv4 address.
// It returns [ErrPermission] if the process is not allowed to open raw sockets.
func listenICMP(address string) (packetConn, error) {
	conn, err := icmp.ListenPacket("ip4:icmp", address)
	if err != nil {
		if isPermissionError(err) {
			return nil, fmt.Errorf("%w: %w", ErrPermission, err)
		}
		return nil, fmt.Errorf("failed to create ICMP socket: %w", err)
	}
	return &rawConn{conn: conn, buf: make([]byte, mtuSize)}, nil
}

// Send sets the TTL of outgoing packets and writes pkt to dst.
// Anything but a complete write is an error.
func (c *rawConn) Send(ctx context.Context, pkt []byte, dst net.Addr, ttl int) error {
	log := logger.FromContext(ctx)

	if err := c.conn.IPv4PacketConn().SetTTL(ttl); err != nil {
		return fmt.Errorf("failed to set ttl %d: %w", ttl, err)
	}

	n, err := c.conn.WriteTo(pkt, dst)
	if err != nil {
		return fmt.Errorf("failed to write to ICMP socket: %w", err)
	}
	if n != len(pkt) {
		return fmt.Errorf("short write to ICMP socket: %d of %d bytes", n, len(pkt))
	}

	log.DebugContext(ctx, "Sent ICMP echo request", "dst", dst, "ttl", ttl, "bytes", n)
	return nil
}

// Receive sets the read deadline to now plus timeout and reads the next datagram.
func (c *rawConn) Receive(ctx context.Context, timeout time.Duration) (reply, error) {
	log := logger.FromContext(ctx)

	if err := c.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return reply{}, fmt.Errorf("failed to set read deadline: %w", err)
	}

	n, from, err := c.conn.ReadFrom(c.buf)
	if err != nil {
		if isTimeout(err) {
			log.DebugContext(ctx, "No ICMP message within timeout", "timeout", timeout)
			return reply{}, errTimedOut
		}
		return reply{}, fmt.Errorf("failed to read from ICMP socket: %w", err)
	}

	msg := make([]byte, n)
	copy(msg, c.buf[:n])
	log.DebugContext(ctx, "Received ICMP message", "from", from, "bytes", n)
	return reply{from: from, msg: msg}, nil
}

// Close closes the raw socket.
func (c *rawConn) Close() error {
	return c.conn.Close()
}
