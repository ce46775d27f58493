// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"bytes"
	"errors"
	"log/slog"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/telekom/icmptrace/internal/logger"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestIPFromAddr(t *testing.T) {
	tests := []struct {
		name     string
		addr     net.Addr
		expected net.IP
	}{
		{"TCPAddr", &net.TCPAddr{IP: net.ParseIP("1.2.3.4"), Port: 80}, net.ParseIP("1.2.3.4")},
		{"UDPAddr", &net.UDPAddr{IP: net.ParseIP("5.6.7.8"), Port: 53}, net.ParseIP("5.6.7.8")},
		{"IPAddr", &net.IPAddr{IP: net.ParseIP("9.10.11.12")}, net.ParseIP("9.10.11.12")},
		{"UnixAddr (unsupported)", &net.UnixAddr{Name: "/tmp/x", Net: "unix"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ipFromAddr(tt.addr)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestWrapError(t *testing.T) {
	var buf bytes.Buffer
	ctx := logger.IntoContext(t.Context(), slog.New(slog.NewTextHandler(&buf, nil)))

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	ctx, span := tp.Tracer("test").Start(ctx, "hop")

	base := errors.New("network is unreachable")
	err := wrapError(ctx, base, "failed to send probe with ttl %d", 3)
	span.End()

	require.ErrorIs(t, err, base)
	assert.Equal(t, "failed to send probe with ttl 3: network is unreachable", err.Error())
	assert.Contains(t, buf.String(), "Failed To Send Probe With Ttl 3")

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "failed to send probe with ttl 3", spans[0].Status().Description)

	assert.NoError(t, wrapError(ctx, nil, "nothing happened"))
}
