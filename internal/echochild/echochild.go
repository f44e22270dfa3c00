// Copyright 2026 The syncrpc Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package echochild implements the child half of the wire protocol for a
// small set of end-to-end scenarios (echo, callback-echo, concat, error,
// throw). It backs both the cmd/syncrpc-echo binary and this module's own
// integration tests, which re-exec the test binary itself as the child
// process rather than shelling out to a separately built helper — the
// same "re-exec as a fake subprocess" idiom the Go standard library's own
// os/exec tests use.
package echochild

import (
	"encoding/binary"
	"fmt"
	"io"

	"go.syncrpc.dev/syncrpc/internal/wire"
)

// Run services Request frames from r until EOF, writing replies to w,
// using order for the wire's length fields. It returns nil on a clean EOF
// and a non-nil error for any I/O failure or protocol violation from the
// host — callers such as cmd/syncrpc-echo should treat a non-nil error as
// fatal.
func Run(r io.Reader, w io.Writer, order binary.ByteOrder) error {
	for {
		req, err := wire.ReadFrame(r, order, wire.Limits{})
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("echochild: read request: %w", err)
		}
		if req.Tag != wire.Request {
			return fmt.Errorf("echochild: unexpected tag %s from host", req.Tag)
		}

		if err := handle(r, w, order, string(req.Name), req.Payload); err != nil {
			return err
		}
	}
}

func handle(r io.Reader, w io.Writer, order binary.ByteOrder, method string, payload []byte) error {
	switch method {
	case "echo":
		return respond(w, order, method, payload)

	case "callback-echo":
		result, err := call(r, w, order, "echo", payload)
		if err != nil {
			return fail(w, order, method, err)
		}
		return respond(w, order, method, result)

	case "concat":
		var out []byte
		for _, name := range []string{"one", "two", "three"} {
			part, err := call(r, w, order, name, nil)
			if err != nil {
				return fail(w, order, method, err)
			}
			out = append(out, part...)
		}
		return respond(w, order, method, out)

	case "error":
		return fail(w, order, method, fmt.Errorf(`"something went wrong"`))

	case "throw":
		_, err := call(r, w, order, "throw", nil)
		if err != nil {
			return fail(w, order, method, err)
		}
		return respond(w, order, method, nil)

	default:
		return fail(w, order, method, fmt.Errorf("unknown method: %s", method))
	}
}

// call issues a Call frame for name and blocks for the matching
// CallResponse or CallError, the ping-pong discipline the protocol
// requires of the child side.
func call(r io.Reader, w io.Writer, order binary.ByteOrder, name string, payload []byte) ([]byte, error) {
	if err := wire.WriteFrame(w, order, wire.Call, []byte(name), payload); err != nil {
		return nil, fmt.Errorf("echochild: write call: %w", err)
	}

	resp, err := wire.ReadFrame(r, order, wire.Limits{})
	if err != nil {
		return nil, fmt.Errorf("echochild: read call reply: %w", err)
	}

	switch resp.Tag {
	case wire.CallResponse:
		return resp.Payload, nil
	case wire.CallError:
		return nil, fmt.Errorf("%s", resp.Payload)
	default:
		return nil, fmt.Errorf("echochild: unexpected reply tag %s to call", resp.Tag)
	}
}

func respond(w io.Writer, order binary.ByteOrder, method string, payload []byte) error {
	return wire.WriteFrame(w, order, wire.Response, []byte(method), payload)
}

func fail(w io.Writer, order binary.ByteOrder, method string, cause error) error {
	return wire.WriteFrame(w, order, wire.ErrorTag, []byte(method), []byte(cause.Error()))
}
