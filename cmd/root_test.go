// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/telekom/icmptrace/pkg/config"
	"github.com/telekom/icmptrace/pkg/report"
)

func TestRootCmd_invalidArguments(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{name: "no arguments", args: []string{}},
		{name: "one argument", args: []string{"3"}},
		{name: "three arguments", args: []string{"3", "198.51.100.7", "extra"}},
		{name: "hop distance not a number", args: []string{"three", "198.51.100.7"}, wantErr: config.ErrInvalidHopDistance},
		{name: "hop distance zero", args: []string{"0", "198.51.100.7"}, wantErr: config.ErrInvalidHopDistance},
		{name: "hop distance above ttl ceiling", args: []string{"256", "198.51.100.7"}, wantErr: config.ErrInvalidHopDistance},
		{name: "ipv6 destination", args: []string{"3", "2001:db8::1"}, wantErr: config.ErrInvalidDestination},
		{name: "hostname destination", args: []string{"3", "example.com"}, wantErr: config.ErrInvalidDestination},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := BuildCmd("test")
			var out bytes.Buffer
			cmd.SetOut(&out)
			cmd.SetErr(&out)
			cmd.SetArgs(tt.args)

			err := cmd.ExecuteContext(t.Context())
			require.Error(t, err)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestSchemaCmd(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		cmd := BuildCmd("v1.2.3")
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"schema"})

		require.NoError(t, cmd.ExecuteContext(t.Context()))

		var doc map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
		info, ok := doc["info"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "v1.2.3", info["version"])
	})

	t.Run("unsupported format", func(t *testing.T) {
		cmd := BuildCmd("v1.2.3")
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"schema", "--output", "xml"})

		require.ErrorIs(t, cmd.ExecuteContext(t.Context()), report.ErrUnsupportedFormat)
	})
}
