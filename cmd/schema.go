// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"github.com/spf13/cobra"
	"github.com/telekom/icmptrace/pkg/report"
)

// NewCmdSchema creates the command printing the OpenAPI schema of the report
func NewCmdSchema(version string) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Prints the OpenAPI schema of the json and yaml report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := report.ParseFormat(output)
			if err != nil {
				return err
			}
			return report.WriteSchema(cmd.OutOrStdout(), format, version)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", report.JSON.String(), "schema format: json or yaml")
	return cmd
}
