// Copyright 2026 The syncrpc Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package syncrpc implements a synchronous, bidirectional, length-framed
// RPC channel to a spawned child process, with a reentrant callback
// facility that lets the child invoke host-registered callbacks in the
// middle of servicing a request while the host's calling goroutine stays
// blocked.
//
// The channel is a blocking state machine, not an event loop: RequestSync
// and RequestBinarySync write a Request frame, then loop reading frames
// from the child, dispatching any Call frames to the callback registry and
// writing back CallResponse/CallError before reading the next frame, until
// the terminating Response or Error frame for the same method name
// arrives.
package syncrpc

import (
	"bytes"
	"encoding/binary"
	"io"
	"sync"
	"unicode/utf8"

	"github.com/pkg/errors"
	"go.syncrpc.dev/syncrpc/internal/proc"
	"go.syncrpc.dev/syncrpc/internal/registry"
	"go.syncrpc.dev/syncrpc/internal/wire"
)

// Channel is one owned connection to a spawned child process. All methods
// may be called from any goroutine, but RequestSync/RequestBinarySync
// calls are serialized against each other: at most one request is
// outstanding per channel. Close is safe to call from another goroutine
// while a request is in flight — that is the documented way to unstick a
// channel whose child has stopped responding.
type Channel struct {
	sup      *proc.Supervisor
	order    binary.ByteOrder
	limits   wire.Limits
	registry *registry.Registry[CallbackFunc]
	metrics  *metrics

	// callMu serializes RequestSync/RequestBinarySync. It is deliberately
	// separate from stateMu: Close must never block behind a blocked
	// request, or closing from another goroutine to unstick a hung child
	// would be unusable.
	callMu sync.Mutex

	stateMu  sync.Mutex
	poisoned bool
	closed   bool
}

// Open spawns exe with args and returns a ready Channel, or propagates the
// spawn failure as a *Error with KindSpawn.
func Open(exe string, args []string, opts ...Option) (*Channel, error) {
	o := defaultOptions
	for _, fn := range opts {
		fn(&o)
	}

	sup, err := proc.Spawn(exe, args, o.Env, o.Dir, o.GraceTimeout)
	if err != nil {
		return nil, newError(KindSpawn, err)
	}

	return &Channel{
		sup:      sup,
		order:    o.ByteOrder,
		limits:   o.limits(),
		registry: registry.New[CallbackFunc](),
		metrics:  newMetrics(o.Registerer),
	}, nil
}

// RegisterCallback installs fn under name, replacing any prior binding.
// It may be called at any point before or between requests; it never
// fails and never touches the child process.
func (c *Channel) RegisterCallback(name string, fn CallbackFunc) {
	c.registry.Register(name, fn)
}

// Close shuts the channel down: it closes the child's stdin, waits for it
// to exit, and kills it if it does not within the configured grace period.
// Close is idempotent and infallible, and safe to call concurrently with
// an in-flight RequestSync/RequestBinarySync from another goroutine — that
// is the documented way to unstick a hung child.
func (c *Channel) Close() error {
	c.stateMu.Lock()
	alreadyClosed := c.closed
	c.closed = true
	c.stateMu.Unlock()

	if alreadyClosed {
		return nil
	}
	return c.sup.Close()
}

// RequestSync is the UTF-8 convenience wrapper around RequestBinarySync.
func (c *Channel) RequestSync(method, payload string) (string, error) {
	respPayload, err := c.RequestBinarySync(method, []byte(payload))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(respPayload) {
		return "", newError(KindEncoding, errors.New("response payload is not valid UTF-8"))
	}
	return string(respPayload), nil
}

// RequestBinarySync drives one full request to completion: it writes a
// Request frame for method/payload, services every interleaved Call frame
// the child issues via the callback registry, and returns the payload of
// the terminating Response frame — or an error if the child sent an Error
// frame, a callback failed, or the channel was poisoned along the way.
func (c *Channel) RequestBinarySync(method string, payload []byte) ([]byte, error) {
	c.callMu.Lock()
	defer c.callMu.Unlock()

	if poisoned, closed := c.state(); poisoned || closed {
		return nil, ErrChannelClosed
	}

	c.metrics.requestStarted()
	result, err := c.doRequest(method, payload)
	if err != nil {
		c.metrics.requestFinished("error")
		if se, ok := err.(*Error); ok {
			c.metrics.errorObserved(se.Kind)
		}
	} else {
		c.metrics.requestFinished("ok")
	}
	return result, err
}

func (c *Channel) state() (poisoned, closed bool) {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	return c.poisoned, c.closed
}

// poison marks the channel unusable and returns err unchanged, so callers
// can write `return nil, c.poison(newError(...))`.
func (c *Channel) poison(err *Error) *Error {
	c.stateMu.Lock()
	c.poisoned = true
	c.stateMu.Unlock()
	return err
}

func (c *Channel) doRequest(method string, payload []byte) ([]byte, error) {
	methodName := []byte(method)

	if err := wire.WriteFrame(c.sup.Stdin(), c.order, wire.Request, methodName, payload); err != nil {
		return nil, c.poison(newError(KindIo, err))
	}

	var (
		hostCallbackFailed bool
		callbackErrMsg     string
	)

	for {
		frame, err := wire.ReadFrame(c.sup.Stdout(), c.order, c.limits)
		if err != nil {
			return nil, c.poison(classifyReadErr(err))
		}

		switch frame.Tag {
		case wire.Response:
			if !bytes.Equal(frame.Name, methodName) {
				return nil, c.poison(newErrorf(KindProtocolViolation,
					"response name %q does not match request method %q", frame.Name, methodName))
			}
			if hostCallbackFailed {
				return nil, newError(KindGenericFailure, errors.New(callbackErrMsg))
			}
			return frame.Payload, nil

		case wire.ErrorTag:
			if !bytes.Equal(frame.Name, methodName) {
				return nil, c.poison(newErrorf(KindProtocolViolation,
					"error name %q does not match request method %q", frame.Name, methodName))
			}
			msg := string(frame.Payload)
			if hostCallbackFailed {
				// A host-origin callback failure is never masked by
				// the child's own terminating Error frame.
				msg = callbackErrMsg
			}
			return nil, newError(KindGenericFailure, errors.New(msg))

		case wire.Call:
			failed, msg, err := c.serviceCall(frame)
			if err != nil {
				return nil, c.poison(err)
			}
			if failed && !hostCallbackFailed {
				hostCallbackFailed = true
				callbackErrMsg = msg
			}
			continue

		case wire.CallResponse, wire.CallError, wire.Request:
			return nil, c.poison(newErrorf(KindProtocolViolation,
				"unexpected %s frame from child mid-request", frame.Tag))

		default:
			return nil, c.poison(newErrorf(KindUnknownTag, "unexpected tag %d from child", frame.Tag))
		}
	}
}

// serviceCall dispatches one Call frame to the registry and writes back
// exactly one CallResponse or CallError before returning. It reports
// whether the callback itself failed (as opposed to a registry miss,
// which does not set the error-precedence flag) and, on a host-side I/O
// failure while writing the reply, a poisoning *Error.
func (c *Channel) serviceCall(frame wire.Frame) (failed bool, errMsg string, ioErr *Error) {
	name := string(frame.Name)

	fn, ok := c.registry.Lookup(name)
	if !ok {
		msg := "no such callback: " + name
		if err := wire.WriteFrame(c.sup.Stdin(), c.order, wire.CallError, frame.Name, []byte(msg)); err != nil {
			return false, "", newError(KindIo, err)
		}
		c.metrics.callbackInvoked("missing")
		return false, "", nil
	}

	result, err := fn(name, frame.Payload)
	if err != nil {
		msg := err.Error()
		if werr := wire.WriteFrame(c.sup.Stdin(), c.order, wire.CallError, frame.Name, []byte(msg)); werr != nil {
			return false, "", newError(KindIo, werr)
		}
		c.metrics.callbackInvoked("error")
		return true, msg, nil
	}

	if werr := wire.WriteFrame(c.sup.Stdin(), c.order, wire.CallResponse, frame.Name, result); werr != nil {
		return false, "", newError(KindIo, werr)
	}
	c.metrics.callbackInvoked("ok")
	return false, "", nil
}

// classifyReadErr maps a wire-layer read failure onto the Kind taxonomy.
// Everything not specifically a bad tag or an over-limit length —
// including io.EOF, wire.ErrTruncated, and broken-pipe errors — is an I/O
// failure.
func classifyReadErr(err error) *Error {
	switch {
	case errors.Is(err, wire.ErrUnknownTag):
		return newError(KindUnknownTag, err)
	case errors.Is(err, wire.ErrLimitExceeded):
		return newError(KindProtocolViolation, err)
	case errors.Is(err, io.EOF), errors.Is(err, wire.ErrTruncated):
		return newError(KindIo, err)
	default:
		return newError(KindIo, err)
	}
}
