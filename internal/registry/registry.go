// Copyright 2026 The syncrpc Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package registry implements the callback-name -> closure table consulted
// by the channel state machine while a request is outstanding.
//
// Registrations are expected to happen at any point before or between
// requests, from whichever goroutine owns that concern in the embedding
// binding; lookups happen on the calling thread while it is blocked inside
// a request. A mutex is therefore the right tool: contention is rare and
// the hot path (lookup during a Call) is a single map read under RLock.
package registry

import "sync"

// Registry maps a callback name to a host-supplied closure. F is left
// generic so the wire-facing channel package can bind it to its own
// CallbackFunc type without this package importing it back.
type Registry[F any] struct {
	mu  sync.RWMutex
	fns map[string]F
}

// New returns an empty registry.
func New[F any]() *Registry[F] {
	return &Registry[F]{fns: make(map[string]F)}
}

// Register installs fn under name, replacing any prior binding for the
// same name.
func (r *Registry[F]) Register(name string, fn F) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fns[name] = fn
}

// Lookup returns the closure bound to name, if any.
func (r *Registry[F]) Lookup(name string) (F, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.fns[name]
	return fn, ok
}
