// Copyright 2026 The syncrpc Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncrpc_test

import (
	"encoding/binary"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.syncrpc.dev/syncrpc"
	"go.syncrpc.dev/syncrpc/internal/echochild"
)

// helperProcessEnv, when set to "1" in the child's environment, tells the
// re-exec'd test binary to behave as the echo child instead of running
// the test suite — the same technique the Go standard library's own
// os/exec tests use to avoid shipping a second compiled binary.
const helperProcessEnv = "SYNCRPC_TEST_HELPER_PROCESS"

func TestMain(m *testing.M) {
	if os.Getenv(helperProcessEnv) == "1" {
		if err := echochild.Run(os.Stdin, os.Stdout, binary.LittleEndian); err != nil {
			os.Exit(1)
		}
		os.Exit(0)
	}
	os.Exit(m.Run())
}

func openEchoChannel(t *testing.T, opts ...syncrpc.Option) *syncrpc.Channel {
	t.Helper()
	env := append(os.Environ(), helperProcessEnv+"=1")
	allOpts := append([]syncrpc.Option{syncrpc.WithEnv(env)}, opts...)
	ch, err := syncrpc.Open(os.Args[0], nil, allOpts...)
	require.NoError(t, err)
	t.Cleanup(func() { ch.Close() })
	return ch
}

func TestRequestSyncEcho(t *testing.T) {
	ch := openEchoChannel(t)

	got, err := ch.RequestSync("echo", `"hello"`)
	require.NoError(t, err)
	require.Equal(t, `"hello"`, got)
}

func TestRequestSyncCallbackEcho(t *testing.T) {
	ch := openEchoChannel(t)
	ch.RegisterCallback("echo", func(_ string, payload []byte) ([]byte, error) {
		return payload, nil
	})

	got, err := ch.RequestSync("callback-echo", `"hello"`)
	require.NoError(t, err)
	require.Equal(t, `"hello"`, got)
}

func TestRequestSyncOrderedConcat(t *testing.T) {
	ch := openEchoChannel(t)

	var order []string
	register := func(name string) {
		ch.RegisterCallback(name, func(n string, _ []byte) ([]byte, error) {
			order = append(order, n)
			return []byte(n), nil
		})
	}
	register("one")
	register("two")
	register("three")

	got, err := ch.RequestSync("concat", "")
	require.NoError(t, err)
	require.Equal(t, "onetwothree", got)
	require.Equal(t, []string{"one", "two", "three"}, order)
}

func TestRequestSyncChildOriginatedError(t *testing.T) {
	ch := openEchoChannel(t)

	_, err := ch.RequestSync("error", "")
	require.Error(t, err)
	require.True(t, syncrpc.IsKind(err, syncrpc.KindGenericFailure))
	require.Equal(t, `"something went wrong"`, err.Error())
}

func TestRequestSyncHostCallbackThrowTakesPrecedence(t *testing.T) {
	ch := openEchoChannel(t)
	ch.RegisterCallback("throw", func(string, []byte) ([]byte, error) {
		return nil, errors.New("callback error")
	})

	_, err := ch.RequestSync("throw", "")
	require.Error(t, err)
	require.True(t, syncrpc.IsKind(err, syncrpc.KindGenericFailure))
	require.True(t, strings.Contains(err.Error(), "callback error"))
}

func TestRequestBinarySyncRoundTripsNewlinesAndNulBytes(t *testing.T) {
	ch := openEchoChannel(t)

	payload := []byte{0x01, 0x0A, 0x00, 0xFF, 0x0A, 0x0A}
	got, err := ch.RequestBinarySync("echo", payload)
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestRequestBinarySyncEmptyPayload(t *testing.T) {
	ch := openEchoChannel(t)

	got, err := ch.RequestBinarySync("echo", nil)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestChannelUsableAfterLogicalFailure(t *testing.T) {
	ch := openEchoChannel(t)

	_, err := ch.RequestSync("error", "")
	require.Error(t, err)

	got, err := ch.RequestSync("echo", `"hello"`)
	require.NoError(t, err)
	require.Equal(t, `"hello"`, got)
}

func TestUnregisteredCallbackSurfacesAsChildError(t *testing.T) {
	ch := openEchoChannel(t)
	// No "echo" callback registered: the child's Call("echo", ...) gets a
	// CallError("no such callback: echo") and reacts by sending its own
	// Error frame.
	_, err := ch.RequestSync("callback-echo", `"hi"`)
	require.Error(t, err)
	require.True(t, syncrpc.IsKind(err, syncrpc.KindGenericFailure))
	require.Contains(t, err.Error(), "no such callback: echo")
}

func TestCloseIsIdempotent(t *testing.T) {
	ch := openEchoChannel(t)
	require.NoError(t, ch.Close())
	require.NoError(t, ch.Close())
}

func TestRequestAfterCloseFailsWithChannelClosed(t *testing.T) {
	ch := openEchoChannel(t)
	require.NoError(t, ch.Close())

	_, err := ch.RequestSync("echo", "")
	require.True(t, syncrpc.IsKind(err, syncrpc.KindChannelClosed))
}

func TestRequestBinarySyncLargePayload(t *testing.T) {
	// A smaller stand-in for a gigabyte-scale payload, sized so this
	// suite runs quickly; internal/wire's own tests cover a large round
	// trip through the codec directly without the process-spawn cost.
	ch := openEchoChannel(t)

	payload := make([]byte, 8<<20)
	for i := range payload {
		payload[i] = byte(i)
	}

	got, err := ch.RequestBinarySync("echo", payload)
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestOpenSpawnFailure(t *testing.T) {
	_, err := syncrpc.Open("syncrpc-definitely-does-not-exist", nil)
	require.Error(t, err)
	require.True(t, syncrpc.IsKind(err, syncrpc.KindSpawn))
}
