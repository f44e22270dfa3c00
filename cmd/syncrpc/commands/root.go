// Copyright 2026 The syncrpc Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package commands implements the syncrpc CLI's subcommands.
package commands

import (
	"github.com/spf13/cobra"
)

var (
	childEnv []string
	childDir string
)

var rootCmd = &cobra.Command{
	Use:   "syncrpc",
	Short: "Drive a synchronous, length-framed RPC request against a spawned child process",
	Long: `syncrpc spawns a child process and issues one request against it over a
length-framed stdio protocol, printing the terminating response to
stdout. A failed request is logged to stderr and the command exits with
status 1.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI, returning any error encountered.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringArrayVar(&childEnv, "env", nil, "Environment variable KEY=VALUE for the child (repeatable); defaults to inheriting the parent's")
	rootCmd.PersistentFlags().StringVar(&childDir, "dir", "", "Working directory for the child; defaults to the parent's")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Log debug-level diagnostics (spawn, request, callback dispatch) to stderr")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) { setLogLevel() }

	rootCmd.AddCommand(callCmd)
	rootCmd.AddCommand(callBinaryCmd)
}
