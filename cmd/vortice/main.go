// Copyright 2026 The Vortice Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command vortice inspects graphics adapters and runs the demo game.
//
// Usage:
//
//	vortice adapters            list adapters of every registered backend
//	vortice caps                create a device and print its capabilities
//	vortice run                 run the demo game
//	vortice config              print the effective configuration
//	vortice version             print the version
//
// Settings are read from vortice.yaml, .env and VORTICE_ environment
// variables; see the config command.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/Sina-Ebrahimi/vortice"
	"github.com/Sina-Ebrahimi/vortice/internal/config"

	_ "github.com/Sina-Ebrahimi/vortice/backend/native"
	_ "github.com/Sina-Ebrahimi/vortice/backend/software"
)

// SDL must be initialized and driven from the main thread.
func init() { runtime.LockOSThread() }

var (
	cfgFile  string
	logLevel string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "vortice",
		Short:         "Vortice game host",
		Long:          `vortice selects graphics adapters, probes their capabilities and hosts games on them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./vortice.yaml)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error or off")

	root.AddCommand(
		newRunCmd(),
		newAdaptersCmd(),
		newCapsCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)
	return root
}

// loadConfig reads the configuration, applies --log-level and installs the
// logger.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	level, err := config.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if level < config.LevelOff {
		vortice.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
	}
	return cfg, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "vortice v%s\n", vortice.Version)
		},
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			out, err := cfg.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
