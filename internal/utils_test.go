package internal_test

import (
	"bytes"
	"context"
	"io"
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/frankli0324/go-fixhttp/internal"
	"github.com/frankli0324/go-fixhttp/internal/dialer"
	"github.com/frankli0324/go-fixhttp/internal/model"
)

type CombinedReadWriter struct {
	io.Reader
	io.Writer
}

type TestDialer struct {
	net.Conn
}

// Dial implements dialer.Dialer.
func (t *TestDialer) Dial(ctx context.Context, r *model.PreparedRequest) (net.Conn, error) {
	return t.Conn, nil
}

// Unwrap implements dialer.Dialer.
func (t *TestDialer) Unwrap() dialer.Dialer {
	return nil
}

const okEmpty = "HTTP/1.1 200 OK\r\nContent-Length: 0\r\nConnection: close\r\n\r\n"

// SendSingleRequest runs req against a canned response and returns what went on the wire.
func SendSingleRequest(t *testing.T, req *model.Request) io.Reader {
	t.Helper()
	var wire bytes.Buffer
	c := &internal.Client{}
	res, err := c.Do(context.Background(), CombinedReadWriter{
		Reader: strings.NewReader(okEmpty),
		Writer: &wire,
	}, req)
	require.NoError(t, err)
	require.Equal(t, uint16(200), res.Code)
	return &wire
}

// serveOnce answers the first connection with resp after reading its request head.
func serveOnce(t *testing.T, resp string) (string, <-chan string) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	got := make(chan string, 1)
	go func() {
		defer ln.Close()
		c, err := ln.Accept()
		if err != nil {
			got <- ""
			return
		}
		defer c.Close()
		var head bytes.Buffer
		buf := make([]byte, 256)
		for !bytes.Contains(head.Bytes(), []byte("\r\n\r\n")) {
			n, err := c.Read(buf)
			head.Write(buf[:n])
			if err != nil {
				break
			}
		}
		got <- head.String()
		c.Write([]byte(resp))
	}()
	return ln.Addr().String(), got
}
