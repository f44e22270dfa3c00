// Copyright 2026 The syncrpc Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var callBinaryCmd = &cobra.Command{
	Use:   "call-binary <exe> <method> <payload-file> [args...]",
	Short: "Issue a binary RequestBinarySync against a spawned child, reading the payload from a file (- for stdin)",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		exe, method, payloadPath, childArgs := args[0], args[1], args[2], args[3:]

		var payload []byte
		var err error
		if payloadPath == "-" {
			payload, err = io.ReadAll(os.Stdin)
		} else {
			payload, err = os.ReadFile(payloadPath)
		}
		if err != nil {
			return fmt.Errorf("read payload: %w", err)
		}

		logger.Debug("spawning child", "exe", exe, "args", childArgs)
		ch, err := openChannel(exe, childArgs)
		if err != nil {
			logger.Error("spawn failed", "exe", exe, "error", err)
			return err
		}
		defer ch.Close()

		registerStubCallbacks(ch, stubCallbacks)

		logger.Debug("request started", "method", method, "payload_len", len(payload))
		result, err := ch.RequestBinarySync(method, payload)
		if err != nil {
			logger.Error("request failed", "method", method, "error", err)
			return fmt.Errorf("request failed: %w", err)
		}
		logger.Debug("request completed", "method", method, "result_len", len(result))
		_, err = os.Stdout.Write(result)
		return err
	},
}
