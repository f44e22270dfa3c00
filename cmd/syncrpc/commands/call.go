// Copyright 2026 The syncrpc Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.syncrpc.dev/syncrpc"
)

var stubCallbacks []string

var callCmd = &cobra.Command{
	Use:   "call <exe> <method> <payload> [args...]",
	Short: "Issue a text RequestSync against a spawned child",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		exe, method, payload, childArgs := args[0], args[1], args[2], args[3:]

		logger.Debug("spawning child", "exe", exe, "args", childArgs)
		ch, err := openChannel(exe, childArgs)
		if err != nil {
			logger.Error("spawn failed", "exe", exe, "error", err)
			return err
		}
		defer ch.Close()

		registerStubCallbacks(ch, stubCallbacks)

		logger.Debug("request started", "method", method)
		result, err := ch.RequestSync(method, payload)
		if err != nil {
			logger.Error("request failed", "method", method, "error", err)
			return fmt.Errorf("request failed: %w", err)
		}
		logger.Debug("request completed", "method", method)
		fmt.Println(result)
		return nil
	},
}

func init() {
	callCmd.Flags().StringArrayVar(&stubCallbacks, "stub-callback", nil,
		`Register a callback NAME that echoes its payload back unchanged (repeatable); e.g. --stub-callback=echo`)
}

// registerStubCallbacks installs a trivial identity callback under each
// name in names, to demonstrate the nested-callback path without needing
// real host-side logic.
func registerStubCallbacks(ch *syncrpc.Channel, names []string) {
	for _, name := range names {
		ch.RegisterCallback(name, func(n string, payload []byte) ([]byte, error) {
			logger.Debug("stub callback invoked", "name", n, "payload_len", len(payload))
			return payload, nil
		})
	}
}
