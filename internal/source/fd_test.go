//go:build darwin || linux
// +build darwin linux

package source_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/frankli0324/go-fixhttp/internal/engine"
	"github.com/frankli0324/go-fixhttp/internal/errors"
	"github.com/frankli0324/go-fixhttp/internal/handler"
	"github.com/frankli0324/go-fixhttp/internal/source"
)

func socketpair(t *testing.T) (int, int) {
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	require.NoError(t, err)
	return fds[0], fds[1]
}

func TestFDPump(t *testing.T) {
	local, remote := socketpair(t)
	defer unix.Close(remote)

	p, err := source.NewFD(local, &source.Config{ReadBufferSize: 5, PollInterval: 5 * time.Millisecond})
	require.NoError(t, err)
	defer p.Close()

	h := handler.NewBuffer(64)
	req, err := engine.NewConnection(nil).Begin("GET", "/fd").Handler(h).Execute(p)
	require.NoError(t, err)

	head := make([]byte, 64)
	n, err := unix.Read(remote, head)
	require.NoError(t, err)
	require.Equal(t, "GET /fd HTTP/1.1\r\n\r\n", string(head[:n]))

	go func() {
		for _, part := range []string{"HTTP/1.1 200 OK\r\n", "Content-Length: 3\r\n\r\n", "abc"} {
			time.Sleep(2 * time.Millisecond)
			unix.Write(remote, []byte(part))
		}
	}()
	require.NoError(t, p.Pipe(context.Background(), req))
	require.Equal(t, "abc", string(h.Payload()))
	require.Equal(t, uint16(200), h.Code())
}

func TestFDPumpClose(t *testing.T) {
	local, remote := socketpair(t)
	p, err := source.NewFD(local, nil)
	require.NoError(t, err)
	defer p.Close()

	req, _ := begin(t)
	unix.Write(remote, []byte("HTTP/1.1 200 OK\r\n"))
	unix.Close(remote)
	err = p.Pipe(context.Background(), req)
	require.ErrorIs(t, err, errors.ErrIncompleteResponse)
	require.Equal(t, errors.OutcomeNoResponse, req.Outcome())
}

func TestFDPumpCancel(t *testing.T) {
	local, remote := socketpair(t)
	defer unix.Close(remote)
	p, err := source.NewFD(local, &source.Config{PollInterval: 5 * time.Millisecond})
	require.NoError(t, err)
	defer p.Close()

	req, _ := begin(t)
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)
	require.ErrorIs(t, p.Pipe(ctx, req), context.Canceled)
	require.True(t, req.Done())
}

func TestFDFromConn(t *testing.T) {
	addr, got := serve(t, sized)
	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	p, err := source.FDFromConn(conn, nil)
	require.NoError(t, err)
	defer p.Close()

	h := handler.NewBuffer(64)
	req, err := engine.NewConnection(nil).Begin("GET", "/").Handler(h).Execute(p)
	require.NoError(t, err)
	require.NoError(t, p.Pipe(context.Background(), req))
	require.Equal(t, "GET / HTTP/1.1\r\n\r\n", <-got)
	require.Equal(t, "0123456789", string(h.Payload()))
}
