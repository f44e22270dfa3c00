// Copyright 2026 The syncrpc Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package commands

import (
	"log/slog"
	"os"
)

// logger is the CLI's own diagnostics sink, separate from the result the
// command prints to stdout: text handler over stderr, matching
// marmos91-dittofs's internal/logger wrapping of log/slog, scaled down to
// what a single-shot CLI command needs (a level flag, no runtime
// reconfiguration, no file/JSON output modes).
var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{}))

var verbose bool

func setLogLevel() {
	if verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
