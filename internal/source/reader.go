package source

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"
)

type deadliner interface {
	SetReadDeadline(t time.Time) error
}

// Reader pumps from any io.Reader. When the reader supports read deadlines
// (a net.Conn) each read is bounded by the poll interval so cancellation is
// noticed; otherwise a read blocks for as long as the reader does.
type Reader struct {
	r        io.Reader
	buf      []byte
	interval time.Duration
	log      zerolog.Logger
}

func NewReader(r io.Reader, cfg *Config) *Reader {
	c := cfg.withDefaults()
	return &Reader{
		r:        r,
		buf:      make([]byte, c.ReadBufferSize),
		interval: c.PollInterval,
		log:      c.Logger.With().Str("pump", "reader").Logger(),
	}
}

func (p *Reader) Pipe(ctx context.Context, t Target) error {
	d, ok := p.r.(deadliner)
	if ok {
		defer d.SetReadDeadline(time.Time{})
	}
	return pipe(ctx, t, p.buf, p.log, func(b []byte) (int, error) {
		if ok {
			if err := d.SetReadDeadline(time.Now().Add(p.interval)); err != nil {
				return 0, err
			}
		}
		return p.r.Read(b)
	})
}
