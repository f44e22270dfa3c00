// Copyright 2026 The syncrpc Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncrpc

// CallbackFunc is a host-supplied closure invoked synchronously on the
// calling thread when the child issues a Call frame for name.
//
// A returned error's message (via err.Error()) becomes the text of the
// CallError frame sent back to the child, and takes precedence over any
// message in the child's own terminating Error frame: it becomes the
// message ultimately surfaced to the caller of RequestSync/
// RequestBinarySync even if the child goes on to send one anyway.
type CallbackFunc func(name string, payload []byte) ([]byte, error)
