// Copyright 2026 The syncrpc Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package commands

import (
	"go.syncrpc.dev/syncrpc"
)

func openChannel(exe string, args []string) (*syncrpc.Channel, error) {
	var opts []syncrpc.Option
	if childEnv != nil {
		opts = append(opts, syncrpc.WithEnv(childEnv))
	}
	if childDir != "" {
		opts = append(opts, syncrpc.WithDir(childDir))
	}
	return syncrpc.Open(exe, args, opts...)
}
