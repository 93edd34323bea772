//go:build linux
// +build linux

package source

import (
	"context"
	"io"
	"net"
	"time"

	"github.com/iceber/iouring-go"
	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"

	"github.com/frankli0324/go-fixhttp/utils/nettools"
)

const uringEntries = 32

// Uring pumps with io_uring recv and send requests on a duplicated descriptor.
type Uring struct {
	iour     *iouring.IOURing
	fd       int
	buf      []byte
	interval time.Duration
	log      zerolog.Logger
}

func NewUring(conn net.Conn, cfg *Config) (*Uring, error) {
	fd, err := nettools.DupFD(conn)
	if err != nil {
		return nil, err
	}
	iour, err := iouring.New(uringEntries)
	if err != nil {
		unix.Close(fd)
		return nil, err
	}
	c := cfg.withDefaults()
	return &Uring{
		iour:     iour,
		fd:       fd,
		buf:      make([]byte, c.ReadBufferSize),
		interval: c.PollInterval,
		log:      c.Logger.With().Str("pump", "uring").Int("fd", fd).Logger(),
	}, nil
}

func (p *Uring) Pipe(ctx context.Context, t Target) error {
	return pipe(ctx, t, p.buf, p.log, func(b []byte) (int, error) {
		n, err := p.submit(ctx, iouring.Recv(p.fd, b, 0))
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

func (p *Uring) Send(b []byte) (int, error) {
	for {
		n, err := p.submit(context.Background(), iouring.Send(p.fd, b, 0))
		switch {
		case err == unix.EAGAIN:
			if err := nettools.Wait(context.Background(), p.fd, true, p.interval); err != nil {
				return 0, err
			}
			continue
		case err == unix.EINTR:
			continue
		}
		return n, err
	}
}

func (p *Uring) submit(ctx context.Context, prep iouring.PrepRequest) (int, error) {
	ch := make(chan iouring.Result, 1)
	req, err := p.iour.SubmitRequest(prep, ch)
	if err != nil {
		return 0, err
	}
	select {
	case result := <-ch:
		return result.ReturnInt()
	case <-ctx.Done():
		if _, err := req.Cancel(); err != nil {
			p.log.Debug().Err(err).Msg("cancel request")
		}
		// the buffer belongs to the kernel until the request settles
		<-ch
		return 0, errRetry
	}
}

func (p *Uring) Close() error {
	err := p.iour.Close()
	if cerr := unix.Close(p.fd); err == nil {
		err = cerr
	}
	return err
}
