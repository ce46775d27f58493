// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/net/ipv4"
	"golang.org/x/sys/unix"
)

func TestICMPClient_Run(t *testing.T) {
	tests := []struct {
		name       string
		target     Target
		opts       *Options
		listenErr  error
		sendErrs   map[int]error
		responses  map[int]probeResponse
		wantErr    error
		wantListen bool
		wantHops   int
		wantState  State
	}{
		{
			name:       "destination found",
			target:     Target{Address: "10.0.0.1"},
			opts:       &Options{MaxTTL: 2, Timeout: time.Millisecond},
			responses:  map[int]probeResponse{2: {from: "10.0.0.1", msgType: ipv4.ICMPTypeEchoReply}},
			wantListen: true,
			wantHops:   2,
			wantState:  StateDone,
		},
		{
			name:       "all hops time out",
			target:     Target{Address: "10.0.0.1"},
			opts:       &Options{MaxTTL: 3},
			wantListen: true,
			wantHops:   3,
			wantState:  StateExhausted,
		},
		{
			name:       "transport error",
			target:     Target{Address: "10.0.0.1"},
			opts:       &Options{MaxTTL: 4},
			sendErrs:   map[int]error{2: unix.ENOBUFS},
			wantErr:    unix.ENOBUFS,
			wantListen: true,
			wantHops:   1,
			wantState:  StateAborted,
		},
		{
			name:       "no privileges",
			target:     Target{Address: "10.0.0.1"},
			opts:       &Options{MaxTTL: 4},
			listenErr:  fmt.Errorf("%w: %w", ErrPermission, unix.EPERM),
			wantErr:    ErrPermission,
			wantListen: true,
		},
		{
			name:    "invalid target",
			target:  Target{Address: "10.0.0.300"},
			opts:    &Options{MaxTTL: 4},
			wantErr: ErrInvalidTarget,
		},
		{
			name:    "ipv6 target",
			target:  Target{Address: "2001:db8::1"},
			opts:    &Options{MaxTTL: 4},
			wantErr: ErrInvalidTarget,
		},
		{
			name:    "zero hops",
			target:  Target{Address: "10.0.0.1"},
			opts:    &Options{MaxTTL: 0},
			wantErr: ErrInvalidOptions,
		},
		{
			name:    "no options",
			target:  Target{Address: "10.0.0.1"},
			wantErr: ErrInvalidOptions,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := scriptedConn(t, tt.sendErrs, tt.responses)
			var listened []string
			c := &icmpClient{
				listen: func(address string) (packetConn, error) {
					listened = append(listened, address)
					if tt.listenErr != nil {
						return nil, tt.listenErr
					}
					return conn, nil
				},
				id: 1,
			}

			ctx, span := noop.NewTracerProvider().Tracer("").Start(t.Context(), "run")
			defer span.End()

			res, err := c.Run(ctx, tt.target, tt.opts, nil)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			if !tt.wantListen {
				assert.Empty(t, listened, "no socket must be opened for invalid input")
				return
			}
			require.Equal(t, []string{DefaultListenAddress}, listened)
			assert.Len(t, res.Hops, tt.wantHops)
			if tt.listenErr != nil {
				assert.Empty(t, conn.CloseCalls())
				return
			}
			assert.Equal(t, tt.wantState, res.State)
			assert.Equal(t, tt.target, res.Target)
			assert.Len(t, conn.CloseCalls(), 1, "socket must be closed exactly once")
		})
	}
}

func TestICMPClient_Run_defaults(t *testing.T) {
	conn := scriptedConn(t, nil, nil)
	c := &icmpClient{
		listen: func(address string) (packetConn, error) {
			assert.Equal(t, "192.0.2.10", address)
			return conn, nil
		},
	}

	opts := &Options{MaxTTL: 1, ListenAddress: "192.0.2.10"}
	_, err := c.Run(t.Context(), Target{Address: "198.51.100.1"}, opts, nil)
	require.NoError(t, err)

	require.Len(t, conn.ReceiveCalls(), 1)
	assert.Equal(t, DefaultTimeout, conn.ReceiveCalls()[0].Timeout)
	assert.Zero(t, opts.Timeout, "caller options must not be modified")
}

func TestICMPClient_Run_closeError(t *testing.T) {
	conn := scriptedConn(t, nil, nil)
	conn.CloseFunc = func() error { return errors.New("close failed") }
	c := &icmpClient{listen: func(string) (packetConn, error) { return conn, nil }}

	res, err := c.Run(t.Context(), Target{Address: "10.0.0.1"}, &Options{MaxTTL: 2}, nil)
	require.NoError(t, err, "a failing close must not fail a finished run")
	assert.Equal(t, StateExhausted, res.State)
}

func TestICMPClient_Run_streamsHops(t *testing.T) {
	conn := scriptedConn(t, nil, map[int]probeResponse{
		1: {from: "192.168.0.1", msgType: ipv4.ICMPTypeTimeExceeded},
	})
	c := &icmpClient{listen: func(string) (packetConn, error) { return conn, nil }}

	var seen []int
	_, err := c.Run(t.Context(), Target{Address: "10.0.0.1"}, &Options{MaxTTL: 3}, func(h Hop) {
		// Probing must not continue before the hop was handed out.
		assert.Len(t, conn.SendCalls(), h.TTL)
		seen = append(seen, h.TTL)
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, seen)
}

func TestNewClient(t *testing.T) {
	c, ok := NewClient().(*icmpClient)
	require.True(t, ok, "NewClient should return an icmpClient")
	assert.NotNil(t, c.listen)
	assert.Equal(t, sessionID(), c.id)
}

func TestICMPClient_Run_contextCanceled(t *testing.T) {
	conn := scriptedConn(t, nil, nil)
	c := &icmpClient{listen: func(string) (packetConn, error) { return conn, nil }}

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	res, err := c.Run(ctx, Target{Address: "10.0.0.1"}, &Options{MaxTTL: 3}, nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateAborted, res.State)
	assert.Len(t, conn.CloseCalls(), 1)
}
