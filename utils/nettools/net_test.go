//go:build darwin || linux
// +build darwin linux

package nettools

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func pipePair(t *testing.T) (net.Conn, net.Conn) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		c, _ := ln.Accept()
		accepted <- c
	}()
	c, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	s := <-accepted
	require.NotNil(t, s)
	t.Cleanup(func() { c.Close(); s.Close() })
	return c, s
}

func TestWaitReadable(t *testing.T) {
	for _, mode := range []Mode{ModePoll, ModeSelect} {
		require.NoError(t, SetMode(mode))
		c, s := pipePair(t)
		fd, err := DupFD(c)
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
		require.ErrorIs(t, Wait(ctx, fd, false, 5*time.Millisecond), context.DeadlineExceeded)
		cancel()

		_, err = s.Write([]byte("x"))
		require.NoError(t, err)
		require.NoError(t, Wait(context.Background(), fd, false, 5*time.Millisecond))
		require.NoError(t, Wait(context.Background(), fd, true, 5*time.Millisecond))

		buf := make([]byte, 4)
		n, err := unix.Read(fd, buf)
		require.NoError(t, err)
		require.Equal(t, "x", string(buf[:n]))
		unix.Close(fd)
	}
	require.NoError(t, SetMode(ModePoll))
}

func TestHangupCountsAsReady(t *testing.T) {
	c, s := pipePair(t)
	fd, err := DupFD(c)
	require.NoError(t, err)
	defer unix.Close(fd)

	s.Close()
	require.NoError(t, Wait(context.Background(), fd, false, 5*time.Millisecond))
	n, err := unix.Read(fd, make([]byte, 4))
	require.NoError(t, err)
	require.Zero(t, n, "orderly shutdown reads as zero bytes")
}

// fakeConn hides every method beyond net.Conn, including SyscallConn.
type fakeConn struct{ net.Conn }

func TestControlFD(t *testing.T) {
	c, _ := pipePair(t)
	seen := -1
	require.NoError(t, ControlFD(c, func(fd int) { seen = fd }))
	require.GreaterOrEqual(t, seen, 0)

	_, err := DupFD(fakeConn{c})
	require.ErrorIs(t, err, ErrNoFD)
	require.ErrorIs(t, SetMode(Mode(42)), ErrUnsupported)
}
