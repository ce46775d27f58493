// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/telekom/icmptrace/internal/logger"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
)

// session drives the hop loop of one traceroute run over a single [packetConn].
//
// Exactly one probe is outstanding at any time. The session owns neither the
// connection's lifetime nor any socket state between probes: the TTL and the
// timeout are handed to the connection with every call.
type session struct {
	conn       packetConn
	otelTracer trace.Tracer
	target     *net.IPAddr
	opts       Options
	// id is the ICMP identifier of every probe of the session.
	id uint16
}

// run probes the TTLs 1 to opts.MaxTTL in order, one probe per TTL and without retries.
//
// A timeout produces a timed out hop and the loop continues. A transport error
// or a cancelled context stops the loop: the result then holds the hops probed
// so far, its state is [StateAborted] and the error is returned.
// onHop, if not nil, is called with every hop as soon as it is produced.
func (s *session) run(ctx context.Context, onHop func(Hop)) (Result, error) {
	res := Result{
		MaxHops: s.opts.MaxTTL,
		Hops:    make([]Hop, 0, s.opts.MaxTTL),
		State:   StateExhausted,
	}

	for ttl := 1; ttl <= s.opts.MaxTTL; ttl++ {
		if err := ctx.Err(); err != nil {
			res.State = StateAborted
			return res, wrapError(ctx, err, "traceroute canceled before ttl %d", ttl)
		}

		hop, err := s.probe(ctx, ttl)
		if err != nil {
			res.State = StateAborted
			return res, err
		}

		res.Hops = append(res.Hops, hop)
		if onHop != nil {
			onHop(hop)
		}

		// Any reply at the last TTL counts as the destination,
		// the replying address is not compared with the target.
		if hop.Replied() && ttl == s.opts.MaxTTL {
			res.State = StateDone
		}
	}

	return res, nil
}

// probe builds, sends and awaits a single echo request with the given ttl.
func (s *session) probe(ctx context.Context, ttl int) (Hop, error) {
	ctx, span := s.otelTracer.Start(ctx, "hop", trace.WithAttributes(
		attribute.Stringer("traceroute.target.address", s.target),
		attribute.Int("traceroute.target.ttl", ttl),
	))
	defer span.End()
	log := logger.FromContext(ctx).With("ttl", ttl)
	ctx = logger.IntoContext(ctx, log)

	pkt := BuildEchoRequest(s.id, ttl)
	start := time.Now()
	if err := s.conn.Send(ctx, pkt, s.target, ttl); err != nil {
		return Hop{}, wrapError(ctx, &TransportError{Op: "send", TTL: ttl, Err: err}, "failed to send probe")
	}

	rep, err := s.conn.Receive(ctx, s.opts.Timeout)
	switch {
	// Timeout: the hop did not answer or filters ICMP.
	// This is expected and only ends the current hop.
	case errors.Is(err, errTimedOut):
		hop := Hop{TTL: ttl, Outcome: OutcomeTimedOut}
		log.DebugContext(ctx, "No response within timeout", "timeout", s.opts.Timeout)
		span.AddEvent("ICMP read timeout exceeded", trace.WithAttributes(
			attribute.Stringer("traceroute.target.hop", hop),
		))
		return hop, nil

	// Any other receive error is fatal for the whole run.
	case err != nil:
		return Hop{}, wrapError(ctx, &TransportError{Op: "receive", TTL: ttl, Err: err}, "failed to receive reply")

	default:
		hop := Hop{
			TTL:      ttl,
			Outcome:  OutcomeReplied,
			Addr:     newHopAddress(rep.from),
			ICMPType: icmpTypeName(rep.msg),
			Latency:  time.Since(start),
		}
		log.DebugContext(ctx, "Received reply", "routerAddr", hop.Addr, "type", hop.ICMPType, "latency", hop.Latency)
		span.AddEvent("ICMP message received", trace.WithAttributes(
			attribute.Stringer("traceroute.target.hop", hop),
			attribute.String("traceroute.target.hop.type", hop.ICMPType),
		))
		return hop, nil
	}
}

// icmpTypeName decodes the type of an ICMPv4 message for display.
// It returns an empty string if the message cannot be parsed.
func icmpTypeName(msg []byte) string {
	m, err := icmp.ParseMessage(ipv4.ICMPTypeEcho.Protocol(), msg)
	if err != nil {
		return ""
	}
	return fmt.Sprint(m.Type)
}
