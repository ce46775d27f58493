// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/telekom/icmptrace/internal/logger"
	"github.com/telekom/icmptrace/internal/traceroute"
	"github.com/telekom/icmptrace/pkg/config"
	"github.com/telekom/icmptrace/pkg/metrics"
	"github.com/telekom/icmptrace/pkg/report"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const shutdownTimeout = 5 * time.Second

// runner executes a single traceroute and prints its result
type runner struct {
	// cfg is the startup configuration of the run
	cfg *config.Config
	// client runs the traceroute
	client traceroute.Client
	// provider holds the metrics registry and the tracing
	provider metrics.Provider
	// out receives the report
	out io.Writer
	// version is the version of the binary
	version string
}

// run traces the route to dst probing up to maxHops TTLs
func (r *runner) run(ctx context.Context, maxHops int, dst string) (err error) {
	ctx, cancel := logger.NewContextWithLogger(ctx)
	defer cancel()
	log := logger.FromContext(ctx)

	if err = r.cfg.Validate(ctx); err != nil {
		return err
	}

	if r.cfg.HasTelemetry() {
		if err = r.provider.InitTracing(ctx); err != nil {
			return fmt.Errorf("failed to initialize tracing: %w", err)
		}
		defer func() {
			sCtx, sCancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
			defer sCancel()
			err = errors.Join(err, r.provider.Shutdown(sCtx))
		}()
	}

	tm := metrics.NewTraceroute()
	registry := r.provider.GetRegistry()
	registry.MustRegister(tm.GetCollectors()...)
	if err = metrics.RegisterBuildInfo(registry, r.version); err != nil {
		log.WarnContext(ctx, "Failed to register build info", "error", err)
	}

	ctx, sp := otel.Tracer("icmptrace").Start(ctx, "icmptrace")
	sp.SetAttributes(
		attribute.String("traceroute.target.address", dst),
		attribute.Int("traceroute.options.max_hops", maxHops),
	)
	defer sp.End()

	tw := report.NewTextWriter(r.out)
	var writeErr error
	onHop := func(hop traceroute.Hop) {
		tm.ObserveHop(hop)
		if r.cfg.Output.IsStreaming() && writeErr == nil {
			writeErr = tw.WriteHop(hop)
		}
	}

	target := traceroute.Target{Address: dst}
	res, runErr := r.client.Run(ctx, target, r.cfg.TracerouteOptions(maxHops), onHop)
	tm.SetResult(res)
	if runErr != nil {
		sp.SetStatus(codes.Error, runErr.Error())
		sp.RecordError(runErr)
	}

	if r.cfg.Output.IsStreaming() {
		if writeErr == nil && runErr == nil {
			writeErr = tw.WriteSummary(res)
		}
	} else {
		writeErr = report.Write(r.out, r.cfg.Output, res, runErr)
	}

	if r.cfg.HasMetricsFile() {
		if mErr := r.provider.WriteTextfile(ctx, r.cfg.Metrics.File); mErr != nil {
			err = errors.Join(err, mErr)
		}
	}

	if runErr != nil {
		return errors.Join(err, fmt.Errorf("traceroute to %s failed: %w", dst, runErr))
	}
	if writeErr != nil {
		return errors.Join(err, fmt.Errorf("failed to write report: %w", writeErr))
	}
	log.DebugContext(ctx, "Traceroute finished", "target", dst, "state", res.State, "hops", len(res.Hops))
	return err
}
