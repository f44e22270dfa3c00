// Copyright 2026 The syncrpc Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package wire implements the length-framed message codec shared by the
// host and child halves of a syncrpc channel.
//
// Wire format of one frame:
//
//	[ tag          : 1 byte  ]
//	[ name_len     : 4 bytes ]
//	[ name         : name_len bytes ]
//	[ payload_len  : 4 bytes ]
//	[ payload      : payload_len bytes ]
//
// name_len and payload_len are encoded using the byte order supplied by the
// caller (the channel layer fixes this to little-endian by default).
// Payloads and names are opaque byte strings: the codec does not
// interpret their contents, so binary payloads containing newlines or
// null bytes round-trip unchanged.
//
// A short write is never silently retried: either the full frame reaches
// the underlying writer or WriteFrame returns the I/O error verbatim. A
// short read is looped internally until the requested length is filled or
// the underlying reader reports EOF; EOF in the middle of a frame surfaces
// as ErrTruncated rather than a bare io.EOF, so callers can tell a clean
// shutdown-before-any-frame apart from a child that died mid-message.
package wire

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/pkg/errors"
)

// MessageType is the closed set of frame tags exchanged on the wire. The
// integer assignments below are part of the external ABI: host and child
// must agree on them, so they must never be renumbered.
type MessageType uint8

const (
	// Request is sent host -> child to start a top-level transaction.
	Request MessageType = iota
	// Response is sent child -> host to terminate a transaction successfully.
	Response
	// ErrorTag is sent child -> host to terminate a transaction with failure.
	ErrorTag
	// Call is sent child -> host to invoke a host-registered callback.
	Call
	// CallResponse is sent host -> child with a callback's successful result.
	CallResponse
	// CallError is sent host -> child when a callback could not be serviced.
	CallError

	numMessageTypes = iota
)

// String renders the tag name for log and error messages.
func (t MessageType) String() string {
	switch t {
	case Request:
		return "Request"
	case Response:
		return "Response"
	case ErrorTag:
		return "Error"
	case Call:
		return "Call"
	case CallResponse:
		return "CallResponse"
	case CallError:
		return "CallError"
	default:
		return "Unknown"
	}
}

// Frame is one decoded message: a tag plus its two opaque byte strings.
type Frame struct {
	Tag     MessageType
	Name    []byte
	Payload []byte
}

var (
	// ErrTruncated reports that the underlying reader reached EOF before a
	// full frame (header, name, or payload) could be read.
	ErrTruncated = errors.New("wire: truncated frame")

	// ErrUnknownTag reports a tag byte outside the closed MessageType set.
	ErrUnknownTag = errors.New("wire: unknown tag")

	// ErrLimitExceeded reports a name_len or payload_len beyond the caller's
	// configured ceiling.
	ErrLimitExceeded = errors.New("wire: length exceeds configured limit")
)

// Limits bounds the name and payload lengths ReadFrame will accept. A zero
// value for either field means "no limit beyond the wire's own 32-bit
// length field" (4,294,967,295 bytes), which is large enough to carry a
// gigabyte-scale payload.
type Limits struct {
	MaxName    uint32
	MaxPayload uint32
}

const headerLen = 1 + 4 // tag + name_len, payload_len read separately after name

// WriteFrame writes tag, name, and payload to w as one frame, in a single
// logical unit: the fixed header and name are assembled into one buffer and
// written with one call, then the payload is written directly (avoiding a
// second full copy of a potentially gigabyte-sized payload). Either every
// byte reaches w or the first I/O error is returned; a partial write is
// never retried silently.
func WriteFrame(w io.Writer, order binary.ByteOrder, tag MessageType, name, payload []byte) error {
	if uint64(len(name)) > math.MaxUint32 {
		return errors.Wrap(ErrLimitExceeded, "name")
	}
	if uint64(len(payload)) > math.MaxUint32 {
		return errors.Wrap(ErrLimitExceeded, "payload")
	}

	head := make([]byte, headerLen+len(name)+4)
	head[0] = byte(tag)
	order.PutUint32(head[1:5], uint32(len(name)))
	copy(head[5:5+len(name)], name)
	order.PutUint32(head[5+len(name):], uint32(len(payload)))

	if err := writeFull(w, head); err != nil {
		return err
	}
	if len(payload) == 0 {
		return nil
	}
	return writeFull(w, payload)
}

// ReadFrame reads exactly one frame from r, looping over short reads until
// each segment is filled. limits bounds the accepted name_len/payload_len;
// a zero Limits accepts up to the wire format's own 32-bit maximum.
func ReadFrame(r io.Reader, order binary.ByteOrder, limits Limits) (Frame, error) {
	var header [5]byte
	if _, err := io.ReadFull(r, header[:1]); err != nil {
		// No bytes of a new frame have been read yet: surface a clean EOF
		// as-is so the caller can distinguish "nothing more is coming" from
		// "the child died mid-message".
		return Frame{}, err
	}
	tag := MessageType(header[0])
	if uint8(tag) >= numMessageTypes {
		return Frame{}, ErrUnknownTag
	}

	if _, err := io.ReadFull(r, header[1:5]); err != nil {
		return Frame{}, truncate(err)
	}
	nameLen := order.Uint32(header[1:5])
	if max := effectiveLimit(limits.MaxName); nameLen > max {
		return Frame{}, errors.Wrap(ErrLimitExceeded, "name")
	}

	name := make([]byte, nameLen)
	if _, err := io.ReadFull(r, name); err != nil {
		return Frame{}, truncate(err)
	}

	var payloadLenBuf [4]byte
	if _, err := io.ReadFull(r, payloadLenBuf[:]); err != nil {
		return Frame{}, truncate(err)
	}
	payloadLen := order.Uint32(payloadLenBuf[:])
	if max := effectiveLimit(limits.MaxPayload); payloadLen > max {
		return Frame{}, errors.Wrap(ErrLimitExceeded, "payload")
	}

	payload := make([]byte, payloadLen)
	if _, err := io.ReadFull(r, payload); err != nil {
		return Frame{}, truncate(err)
	}

	return Frame{Tag: tag, Name: name, Payload: payload}, nil
}

func effectiveLimit(configured uint32) uint32 {
	if configured == 0 {
		return math.MaxUint32
	}
	return configured
}

// truncate maps an EOF that occurs after a frame has already started to
// ErrTruncated: EOF in the middle of a frame is a truncation failure, not
// a clean end of stream.
func truncate(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return ErrTruncated
	}
	return err
}

// writeFull writes the entire buffer to w with one Write call. An error
// from w is returned as-is, and a short write reported without an error is
// surfaced as io.ErrShortWrite; neither is retried.
func writeFull(w io.Writer, buf []byte) error {
	n, err := w.Write(buf)
	if err != nil {
		return err
	}
	if n < len(buf) {
		return io.ErrShortWrite
	}
	return nil
}
