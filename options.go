// Copyright 2026 The syncrpc Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncrpc

import (
	"encoding/binary"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.syncrpc.dev/syncrpc/internal/bo"
	"go.syncrpc.dev/syncrpc/internal/proc"
	"go.syncrpc.dev/syncrpc/internal/wire"
)

// Options configures a Channel. The zero value is never used directly;
// Open always starts from defaultOptions and applies the caller's Option
// values on top.
type Options struct {
	ByteOrder binary.ByteOrder

	// GraceTimeout bounds how long Close waits for the child to exit on
	// its own (after its stdin is closed) before it is killed.
	GraceTimeout time.Duration

	// Env, if non-nil, replaces the child's inherited environment.
	Env []string
	// Dir, if non-empty, overrides the child's working directory.
	Dir string

	// MaxNameLength and MaxPayloadLength bound the name_len/payload_len a
	// ReadFrame will accept from the child. Zero means "no limit beyond
	// the wire format's own 32-bit length field" (up to 4 GiB - 1), large
	// enough for a gigabyte-scale payload.
	MaxNameLength    uint32
	MaxPayloadLength uint32

	// Registerer, if non-nil, receives the channel's prometheus metrics.
	// A nil Registerer disables metrics entirely: no-op.
	Registerer prometheus.Registerer
}

var defaultOptions = Options{
	ByteOrder:    binary.LittleEndian,
	GraceTimeout: proc.DefaultGraceTimeout,
}

// Option configures a Channel at Open time.
type Option func(*Options)

// WithByteOrder overrides the length-field byte order. The default is
// little-endian.
func WithByteOrder(order binary.ByteOrder) Option {
	return func(o *Options) { o.ByteOrder = order }
}

// WithNativeByteOrder selects the machine's native byte order for the
// length fields, for embedders who know the host and child are built for
// the same architecture family and want to skip the swap.
func WithNativeByteOrder() Option {
	return func(o *Options) { o.ByteOrder = bo.Native() }
}

// WithGraceTimeout overrides how long Close waits for the child to exit on
// its own before it is killed.
func WithGraceTimeout(d time.Duration) Option {
	return func(o *Options) { o.GraceTimeout = d }
}

// WithEnv overrides the child's environment.
func WithEnv(env []string) Option {
	return func(o *Options) { o.Env = env }
}

// WithDir overrides the child's working directory.
func WithDir(dir string) Option {
	return func(o *Options) { o.Dir = dir }
}

// WithMaxNameLength bounds the length of a name field ReadFrame will
// accept from the child, guarding against a misbehaving child exhausting
// host memory with a bogus length field.
func WithMaxNameLength(n uint32) Option {
	return func(o *Options) { o.MaxNameLength = n }
}

// WithMaxPayloadLength bounds the length of a payload field ReadFrame will
// accept from the child.
func WithMaxPayloadLength(n uint32) Option {
	return func(o *Options) { o.MaxPayloadLength = n }
}

// WithMetrics registers the channel's counters and gauge on reg. Passing
// nil (the default) disables metrics.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *Options) { o.Registerer = reg }
}

func (o Options) limits() wire.Limits {
	return wire.Limits{MaxName: o.MaxNameLength, MaxPayload: o.MaxPayloadLength}
}
