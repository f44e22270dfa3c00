// Copyright 2026 The syncrpc Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncrpc

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a syncrpc failure as a closed set of failure
// categories, not a type hierarchy.
type Kind int

const (
	// KindSpawn reports that the child process could not be started.
	KindSpawn Kind = iota
	// KindIo reports a read/write failure, an EOF in the middle of a
	// frame, or a broken pipe. It poisons the channel.
	KindIo
	// KindProtocolViolation reports an unexpected tag, a name mismatch on
	// the terminating frame, or a CallResponse/CallError/Request received
	// by the host outside its proper turn. It poisons the channel.
	KindProtocolViolation
	// KindUnknownTag is a ProtocolViolation sub-kind: a tag byte outside
	// the closed MessageType set.
	KindUnknownTag
	// KindEncoding reports that RequestSync received a non-UTF-8 payload.
	// It does not poison the channel.
	KindEncoding
	// KindGenericFailure reports a logical failure: the child sent an
	// Error frame, or a host callback returned an error. It does not
	// poison the channel on its own.
	KindGenericFailure
	// KindChannelClosed reports an operation attempted on a poisoned or
	// explicitly closed channel.
	KindChannelClosed
)

// String names the kind, for log lines and %v formatting.
func (k Kind) String() string {
	switch k {
	case KindSpawn:
		return "spawn"
	case KindIo:
		return "io"
	case KindProtocolViolation:
		return "protocol violation"
	case KindUnknownTag:
		return "unknown tag"
	case KindEncoding:
		return "encoding"
	case KindGenericFailure:
		return "generic failure"
	case KindChannelClosed:
		return "channel closed"
	default:
		return "unknown"
	}
}

// Error is the single error type syncrpc returns: a Kind plus the
// underlying cause. For KindGenericFailure, Error() returns exactly the
// message text supplied by the child's Error frame or the failing
// callback, so embedders can match on it directly; other kinds get a
// short "syncrpc: <kind>: <cause>" prefix for diagnostics.
type Error struct {
	Kind  Kind
	cause error
}

func newError(kind Kind, cause error) *Error {
	return &Error{Kind: kind, cause: cause}
}

func newErrorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, cause: errors.Errorf(format, args...)}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("syncrpc: %s", e.Kind)
	}
	if e.Kind == KindGenericFailure {
		return e.cause.Error()
	}
	return fmt.Sprintf("syncrpc: %s: %v", e.Kind, e.cause)
}

// Unwrap exposes the wrapped cause to errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.cause }

// Cause implements github.com/pkg/errors's Causer interface.
func (e *Error) Cause() error { return e.cause }

// ErrChannelClosed is returned by RequestSync and RequestBinarySync once a
// channel has been poisoned or explicitly closed.
var ErrChannelClosed = newError(KindChannelClosed, errors.New("channel is closed"))

// IsKind reports whether err is a *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var se *Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Kind == kind
}
