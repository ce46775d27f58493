// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"context"
	"encoding/binary"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
	"golang.org/x/sys/unix"
)

// probeResponse is the scripted receive outcome for one TTL.
type probeResponse struct {
	from    string
	msgType icmp.Type
	err     error
}

// scriptedConn returns a packetConnMock answering the probe with TTL n
// with responses[n]. TTLs without a response time out.
func scriptedConn(t testing.TB, sendErrs map[int]error, responses map[int]probeResponse) *packetConnMock {
	t.Helper()
	var lastTTL int
	return &packetConnMock{
		SendFunc: func(_ context.Context, _ []byte, _ net.Addr, ttl int) error {
			lastTTL = ttl
			return sendErrs[ttl]
		},
		ReceiveFunc: func(_ context.Context, _ time.Duration) (reply, error) {
			r, ok := responses[lastTTL]
			if !ok {
				return reply{}, errTimedOut
			}
			if r.err != nil {
				return reply{}, r.err
			}
			return reply{from: newAddr(t, r.from), msg: newMessage(t, r.msgType)}, nil
		},
		CloseFunc: func() error { return nil },
	}
}

func newSession(t testing.TB, conn packetConn, maxTTL int) *session {
	t.Helper()
	return &session{
		conn:       conn,
		otelTracer: noop.NewTracerProvider().Tracer("test"),
		target:     &net.IPAddr{IP: net.ParseIP("10.0.0.1").To4()},
		opts:       Options{MaxTTL: maxTTL, Timeout: time.Second},
		id:         0xabcd,
	}
}

func TestSession_run(t *testing.T) {
	tests := []struct {
		name      string
		maxTTL    int
		sendErrs  map[int]error
		responses map[int]probeResponse
		wantHops  []Hop
		wantState State
		wantErr   bool
	}{
		{
			name:   "all probes time out",
			maxTTL: 3,
			wantHops: []Hop{
				{TTL: 1, Outcome: OutcomeTimedOut},
				{TTL: 2, Outcome: OutcomeTimedOut},
				{TTL: 3, Outcome: OutcomeTimedOut},
			},
			wantState: StateExhausted,
		},
		{
			name:   "reply at the last ttl",
			maxTTL: 2,
			responses: map[int]probeResponse{
				2: {from: "10.0.0.1", msgType: ipv4.ICMPTypeEchoReply},
			},
			wantHops: []Hop{
				{TTL: 1, Outcome: OutcomeTimedOut},
				{TTL: 2, Outcome: OutcomeReplied, Addr: HopAddress{IP: "10.0.0.1"}, ICMPType: "echo reply"},
			},
			wantState: StateDone,
		},
		{
			name:   "replies before the last ttl only",
			maxTTL: 3,
			responses: map[int]probeResponse{
				1: {from: "192.168.1.1", msgType: ipv4.ICMPTypeTimeExceeded},
				2: {from: "172.16.0.1", msgType: ipv4.ICMPTypeTimeExceeded},
			},
			wantHops: []Hop{
				{TTL: 1, Outcome: OutcomeReplied, Addr: HopAddress{IP: "192.168.1.1"}, ICMPType: "time exceeded"},
				{TTL: 2, Outcome: OutcomeReplied, Addr: HopAddress{IP: "172.16.0.1"}, ICMPType: "time exceeded"},
				{TTL: 3, Outcome: OutcomeTimedOut},
			},
			wantState: StateExhausted,
		},
		{
			name:   "any message is accepted as reply",
			maxTTL: 1,
			responses: map[int]probeResponse{
				1: {from: "8.8.4.4", msgType: ipv4.ICMPTypeDestinationUnreachable},
			},
			wantHops: []Hop{
				{TTL: 1, Outcome: OutcomeReplied, Addr: HopAddress{IP: "8.8.4.4"}, ICMPType: "destination unreachable"},
			},
			wantState: StateDone,
		},
		{
			name:     "send error aborts the run",
			maxTTL:   5,
			sendErrs: map[int]error{3: unix.ENETUNREACH},
			wantHops: []Hop{
				{TTL: 1, Outcome: OutcomeTimedOut},
				{TTL: 2, Outcome: OutcomeTimedOut},
			},
			wantState: StateAborted,
			wantErr:   true,
		},
		{
			name:   "receive error aborts the run",
			maxTTL: 5,
			responses: map[int]probeResponse{
				1: {from: "192.168.1.1", msgType: ipv4.ICMPTypeTimeExceeded},
				2: {err: unix.EBADF},
			},
			wantHops: []Hop{
				{TTL: 1, Outcome: OutcomeReplied, Addr: HopAddress{IP: "192.168.1.1"}, ICMPType: "time exceeded"},
			},
			wantState: StateAborted,
			wantErr:   true,
		},
		{
			name:      "send error at the first ttl",
			maxTTL:    3,
			sendErrs:  map[int]error{1: unix.EPERM},
			wantHops:  []Hop{},
			wantState: StateAborted,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := scriptedConn(t, tt.sendErrs, tt.responses)
			s := newSession(t, conn, tt.maxTTL)

			var streamed []Hop
			res, err := s.run(t.Context(), func(h Hop) { streamed = append(streamed, h) })
			if tt.wantErr {
				require.Error(t, err)
				var tErr *TransportError
				require.ErrorAs(t, err, &tErr)
				assert.Equal(t, len(tt.wantHops)+1, tErr.TTL, "error must name the aborted ttl")
			} else {
				require.NoError(t, err)
			}

			// Latencies are not deterministic.
			for i := range res.Hops {
				res.Hops[i].Latency = 0
			}
			for i := range streamed {
				streamed[i].Latency = 0
			}

			assert.Equal(t, tt.wantState, res.State)
			assert.Equal(t, tt.maxTTL, res.MaxHops)
			assert.Equal(t, tt.wantHops, res.Hops)
			assert.Equal(t, res.Hops, emptyIfNil(streamed), "every hop must be streamed once and in order")
			assert.Empty(t, conn.CloseCalls(), "the session must not close the connection it was given")
		})
	}
}

func TestSession_run_ttlProgression(t *testing.T) {
	const maxTTL = 30
	conn := scriptedConn(t, nil, map[int]probeResponse{
		4:  {from: "10.1.1.1", msgType: ipv4.ICMPTypeTimeExceeded},
		9:  {from: "10.2.2.2", msgType: ipv4.ICMPTypeTimeExceeded},
		17: {from: "10.3.3.3", msgType: ipv4.ICMPTypeTimeExceeded},
	})
	s := newSession(t, conn, maxTTL)

	res, err := s.run(t.Context(), nil)
	require.NoError(t, err)
	require.Len(t, res.Hops, maxTTL)

	sends := conn.SendCalls()
	require.Len(t, sends, maxTTL)
	require.Len(t, conn.ReceiveCalls(), maxTTL)
	for i, hop := range res.Hops {
		ttl := i + 1
		assert.Equal(t, ttl, hop.TTL)
		assert.Equal(t, ttl, sends[i].TTL, "probe %d sent with wrong ttl", i)
		assert.Equal(t, uint16(ttl), binary.BigEndian.Uint16(sends[i].Pkt[offSeq:]), "sequence must follow the ttl")
		assert.Equal(t, uint16(0xabcd), binary.BigEndian.Uint16(sends[i].Pkt[offID:]))
		assert.Equal(t, "10.0.0.1", sends[i].Dst.String())
	}
	for _, rc := range conn.ReceiveCalls() {
		assert.Equal(t, time.Second, rc.Timeout)
	}
}

func TestSession_run_canceled(t *testing.T) {
	conn := scriptedConn(t, nil, nil)
	s := newSession(t, conn, 5)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	res, err := s.run(ctx, nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateAborted, res.State)
	assert.Empty(t, res.Hops)
	assert.Empty(t, conn.SendCalls())
}

func TestIcmpTypeName(t *testing.T) {
	tests := []struct {
		name string
		msg  []byte
		want string
	}{
		{"echo reply", newMessage(t, ipv4.ICMPTypeEchoReply), "echo reply"},
		{"time exceeded", newMessage(t, ipv4.ICMPTypeTimeExceeded), "time exceeded"},
		{"echo request", BuildEchoRequest(1, 1), "echo"},
		{"truncated", []byte{0x0b, 0x00}, ""},
		{"empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, icmpTypeName(tt.msg))
		})
	}
}

// newMessage marshals a minimal ICMPv4 message of the given type.
func newMessage(t testing.TB, typ icmp.Type) []byte {
	t.Helper()
	if typ == nil {
		typ = ipv4.ICMPTypeTimeExceeded
	}

	var body icmp.MessageBody
	switch typ {
	case ipv4.ICMPTypeEchoReply, ipv4.ICMPTypeEcho:
		body = &icmp.Echo{ID: 1, Seq: 1}
	case ipv4.ICMPTypeDestinationUnreachable:
		body = &icmp.DstUnreach{Data: make([]byte, ipv4.HeaderLen+8)}
	default:
		body = &icmp.TimeExceeded{Data: make([]byte, ipv4.HeaderLen+8)}
	}

	b, err := (&icmp.Message{Type: typ, Body: body}).Marshal(nil)
	require.NoError(t, err)
	return b
}

func newAddr(t testing.TB, ip string) net.Addr {
	t.Helper()
	addr := &net.IPAddr{IP: net.ParseIP(ip)}
	require.NotNil(t, addr.IP, "failed to parse IP address: %s", ip)
	return addr
}

func emptyIfNil(hops []Hop) []Hop {
	if hops == nil {
		return []Hop{}
	}
	return hops
}
