// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/telekom/icmptrace/internal/traceroute"
	"github.com/telekom/icmptrace/pkg/config"
	"github.com/telekom/icmptrace/pkg/metrics"
	"github.com/telekom/icmptrace/pkg/report"
)

// NewCmdRoot creates a new root command
func NewCmdRoot(version string) *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "icmptrace <hop-distance> <destination-ip>",
		Short: "icmptrace discovers the hops between this host and a destination",
		Long: "icmptrace sends ICMP echo requests with increasing TTL values, starting at 1,\n" +
			"and prints the address that replied at each hop up to the given hop distance.\n" +
			"A raw socket is used, so the NET_RAW capability or root privileges are required.",
		Example: "  icmptrace 30 198.51.100.7\n" +
			"  icmptrace --output json --timeout 500ms 5 198.51.100.7",
		Version:       version,
		Args:          cobra.ExactArgs(2), //nolint:mnd // hop distance and destination
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runTrace(version),
	}

	cobra.OnInitialize(func() {
		initConfig(cfgFile)
	})

	defaults := config.Default()
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is $HOME/.icmptrace.yaml)")
	rootCmd.Flags().StringP("output", "o", defaults.Output.String(), "output format: text, json or yaml")
	rootCmd.Flags().Duration("timeout", defaults.Timeout, "time to wait for the reply to a single probe")
	rootCmd.Flags().String("listen-address", defaults.ListenAddress, "local IPv4 address the raw socket is bound to")
	rootCmd.Flags().String("metrics-file", "", "write the prometheus metrics of the run to this file")

	bindFlag(rootCmd, "output", "output")
	bindFlag(rootCmd, "timeout", "timeout")
	bindFlag(rootCmd, "listenAddress", "listen-address")
	bindFlag(rootCmd, "metrics.file", "metrics-file")

	return rootCmd
}

// Execute adds all child commands to the root command
// and executes the cmd tree
func Execute(version string) {
	cmd := BuildCmd(version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func BuildCmd(version string) *cobra.Command {
	cmd := NewCmdRoot(version)
	cmd.AddCommand(NewCmdSchema(version))
	return cmd
}

// runTrace returns the function running a traceroute with the arguments of the command
func runTrace(version string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		maxHops, err := config.ParseHopDistance(args[0])
		if err != nil {
			return err
		}
		dst, err := config.ParseDestination(args[1])
		if err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		r := &runner{
			cfg:      cfg,
			client:   traceroute.NewClient(),
			provider: metrics.New(cfg.Telemetry, version),
			out:      cmd.OutOrStdout(),
			version:  version,
		}
		return r.run(cmd.Context(), maxHops, dst)
	}
}

// loadConfig returns the configuration merged from flags, environment and config file
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	cfg.Output = report.Format(strings.ToLower(cfg.Output.String()))
	return &cfg, nil
}

// bindFlag binds the flag with the given name to the viper key
func bindFlag(cmd *cobra.Command, key, flag string) {
	cobra.CheckErr(viper.BindPFlag(key, cmd.Flags().Lookup(flag)))
}

func initConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".icmptrace" (without an extension)
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".icmptrace")
	}

	viper.SetOptions(viper.ExperimentalBindStruct())
	viper.SetEnvPrefix("icmptrace")
	dotreplacer := strings.NewReplacer(".", "_")
	viper.SetEnvKeyReplacer(dotreplacer)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		_, _ = fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
