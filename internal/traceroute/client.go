// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/telekom/icmptrace/internal/logger"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var (
	_ Client = (*icmpClient)(nil)
)

// Client is able to run a traceroute to a target.
//
//go:generate go tool moq -out client_moq.go . Client
type Client interface {
	// Run executes the traceroute for the given target with the specified options.
	// onHop, if not nil, receives every hop as soon as it has been probed.
	// Returns the Result of the run, which is partial if the run was aborted,
	// and an error if the socket could not be opened or the run was aborted.
	Run(ctx context.Context, target Target, opts *Options, onHop func(Hop)) (Result, error)
}

// icmpClient runs traceroutes with ICMP echo requests over a raw socket.
type icmpClient struct {
	// listen opens the socket a run sends and receives on.
	listen func(address string) (packetConn, error)
	// id is the ICMP identifier stamped on every probe.
	id uint16
}

// NewClient returns a [Client] sending ICMP echo requests over a raw socket.
// The probes are tagged with the process id.
func NewClient() Client {
	return &icmpClient{
		listen: listenICMP,
		id:     sessionID(),
	}
}

// sessionID returns the lower 16 bits of the process id.
func sessionID() uint16 {
	return uint16(os.Getpid() & 0xffff) // #nosec G115 // masked to 16 bits
}

func (c *icmpClient) Run(ctx context.Context, target Target, opts *Options, onHop func(Hop)) (Result, error) {
	if opts == nil {
		return Result{}, fmt.Errorf("%w: options must be set", ErrInvalidOptions)
	}
	o := opts.withDefaults()

	tracer := trace.SpanFromContext(ctx).TracerProvider().Tracer("traceroute.icmpClient")
	ctx, sp := tracer.Start(ctx, "Run", trace.WithAttributes(
		attribute.Stringer("traceroute.target.address", target),
		attribute.Int("traceroute.options.max_hops", o.MaxTTL),
		attribute.Stringer("traceroute.options.timeout", o.Timeout),
	))
	defer sp.End()
	log := logger.FromContext(ctx)

	dst, err := target.ToAddr()
	if err != nil {
		return Result{}, fmt.Errorf("invalid target %s: %w", target, err)
	}
	if err = o.Validate(); err != nil {
		return Result{}, err
	}

	conn, err := c.listen(o.ListenAddress)
	if err != nil {
		return Result{}, wrapError(ctx, err, "failed to open raw ICMP socket on %s", o.ListenAddress)
	}
	defer func() {
		if cErr := conn.Close(); cErr != nil && !errors.Is(cErr, os.ErrClosed) {
			log.WarnContext(ctx, "Failed to close ICMP socket", "error", cErr)
		}
	}()

	log.DebugContext(ctx, "Starting ICMP traceroute", "target", target, "maxHops", o.MaxTTL, "id", c.id)
	s := &session{
		conn:       conn,
		otelTracer: tracer,
		target:     dst,
		opts:       o,
		id:         c.id,
	}
	res, err := s.run(ctx, onHop)
	res.Target = target
	logHops(ctx, res.Hops)
	return res, err
}
