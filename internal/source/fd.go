//go:build darwin || linux
// +build darwin linux

package source

import (
	"context"
	"io"
	"net"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"

	"github.com/frankli0324/go-fixhttp/utils/nettools"
)

// FD pumps from a raw non-blocking descriptor, waiting for readiness with
// nettools instead of the runtime poller. It doubles as a Sink.
type FD struct {
	fd       int
	buf      []byte
	interval time.Duration
	log      zerolog.Logger
}

// NewFD switches fd to non-blocking mode. The FD takes ownership of fd.
func NewFD(fd int, cfg *Config) (*FD, error) {
	if err := unix.SetNonblock(fd, true); err != nil {
		return nil, err
	}
	c := cfg.withDefaults()
	return &FD{
		fd:       fd,
		buf:      make([]byte, c.ReadBufferSize),
		interval: c.PollInterval,
		log:      c.Logger.With().Str("pump", "fd").Int("fd", fd).Logger(),
	}, nil
}

// FDFromConn duplicates the descriptor behind conn; closing the FD leaves conn open.
func FDFromConn(conn net.Conn, cfg *Config) (*FD, error) {
	fd, err := nettools.DupFD(conn)
	if err != nil {
		return nil, err
	}
	p, err := NewFD(fd, cfg)
	if err != nil {
		unix.Close(fd)
		return nil, err
	}
	return p, nil
}

func (p *FD) Fd() int { return p.fd }

func (p *FD) Pipe(ctx context.Context, t Target) error {
	return pipe(ctx, t, p.buf, p.log, func(b []byte) (int, error) {
		n, err := unix.Read(p.fd, b)
		switch {
		case err == unix.EAGAIN || err == unix.EINTR:
			if werr := nettools.Wait(ctx, p.fd, false, p.interval); werr != nil && ctx.Err() == nil {
				return 0, werr
			}
			return 0, errRetry
		case err != nil:
			return 0, err
		case n == 0:
			return 0, io.EOF
		}
		return n, nil
	})
}

// Send writes as much of b as the socket takes, waiting while it is full.
func (p *FD) Send(b []byte) (int, error) {
	for {
		n, err := unix.Write(p.fd, b)
		switch {
		case err == unix.EAGAIN:
			if err := nettools.Wait(context.Background(), p.fd, true, p.interval); err != nil {
				return 0, err
			}
			continue
		case err == unix.EINTR:
			continue
		case err != nil:
			return 0, err
		}
		return n, nil
	}
}

func (p *FD) Close() error {
	return unix.Close(p.fd)
}
