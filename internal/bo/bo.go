// Copyright 2026 The syncrpc Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package bo resolves the machine's native byte order for
// WithNativeByteOrder. Unlike a wire codec's own hot path, this is a
// once-per-Open lookup, so a single runtime probe covers every
// architecture without a per-port build-tag file for each one.
package bo

import (
	"encoding/binary"
	"sync"
	"unsafe"
)

var (
	once   sync.Once
	native binary.ByteOrder
)

// Native returns the machine's native byte order, computed once and
// cached for subsequent calls.
func Native() binary.ByteOrder {
	once.Do(func() { native = detect() })
	return native
}

// detect probes byte order directly rather than switching on GOARCH, so
// it stays correct on any port this module is built for, present or
// future, without needing its own build tag.
func detect() binary.ByteOrder {
	var x uint16 = 0x0102
	b := *(*[2]byte)(unsafe.Pointer(&x))
	if b[0] == 0x01 {
		return binary.BigEndian
	}
	return binary.LittleEndian
}
