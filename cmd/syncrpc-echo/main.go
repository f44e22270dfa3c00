// Copyright 2026 The syncrpc Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command syncrpc-echo is the reference child process used for this
// module's manual end-to-end testing. See internal/echochild for the
// protocol implementation.
package main

import (
	"encoding/binary"
	"fmt"
	"os"

	"go.syncrpc.dev/syncrpc/internal/echochild"
)

// order matches the channel package's default (see options.go); a real
// embedding host and this reference child must agree on it out of band.
var order binary.ByteOrder = binary.LittleEndian

func main() {
	if err := echochild.Run(os.Stdin, os.Stdout, order); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
