// Copyright 2026 The syncrpc Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncrpc

import (
	"errors"
	"testing"
)

func TestGenericFailureMessageIsExactlyTheCause(t *testing.T) {
	err := newError(KindGenericFailure, errors.New(`"something went wrong"`))
	if got, want := err.Error(), `"something went wrong"`; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestOtherKindsPrefixTheirMessage(t *testing.T) {
	err := newError(KindIo, errors.New("broken pipe"))
	got := err.Error()
	if got == "broken pipe" {
		t.Fatalf("expected a prefixed message, got bare cause %q", got)
	}
	if !contains(got, "broken pipe") || !contains(got, "io") {
		t.Fatalf("Error() = %q, want it to mention kind and cause", got)
	}
}

func TestIsKind(t *testing.T) {
	err := newError(KindProtocolViolation, errors.New("boom"))
	if !IsKind(err, KindProtocolViolation) {
		t.Fatal("expected IsKind match")
	}
	if IsKind(err, KindIo) {
		t.Fatal("expected IsKind to reject the wrong kind")
	}
	if IsKind(errors.New("plain error"), KindIo) {
		t.Fatal("expected IsKind to reject a non-*Error")
	}
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := errors.New("root cause")
	err := newError(KindIo, cause)
	if !errors.Is(err, cause) {
		t.Fatal("expected errors.Is to see through Unwrap to the cause")
	}
}

func contains(s, substr string) bool {
	return len(s) >= len(substr) && indexOf(s, substr) >= 0
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}
