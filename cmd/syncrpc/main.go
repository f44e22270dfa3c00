// Copyright 2026 The syncrpc Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command syncrpc is a host-side demonstrator for the syncrpc channel: it
// spawns a child process and drives a single request against it from the
// command line, as a runnable tool rather than a test fixture, since the
// channel's interesting behavior (nested callbacks) is easier to show
// than to read.
package main

import (
	"os"

	"go.syncrpc.dev/syncrpc/cmd/syncrpc/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
