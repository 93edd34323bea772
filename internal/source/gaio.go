//go:build darwin || linux
// +build darwin linux

package source

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/rs/zerolog"
	"github.com/xtaci/gaio"
)

// Gaio pumps through a gaio proactor. Reads are submitted with a deadline of
// one poll interval so the pump wakes up to check its context. The watcher
// takes the connection over on first use, conn must not be read or written
// directly afterwards.
type Gaio struct {
	w        *gaio.Watcher
	conn     net.Conn
	buf      []byte
	interval time.Duration
	log      zerolog.Logger
}

func NewGaio(conn net.Conn, cfg *Config) (*Gaio, error) {
	w, err := gaio.NewWatcher()
	if err != nil {
		return nil, err
	}
	c := cfg.withDefaults()
	return &Gaio{
		w:        w,
		conn:     conn,
		buf:      make([]byte, c.ReadBufferSize),
		interval: c.PollInterval,
		log:      c.Logger.With().Str("pump", "gaio").Logger(),
	}, nil
}

func (p *Gaio) Pipe(ctx context.Context, t Target) error {
	return pipe(ctx, t, p.buf, p.log, func(b []byte) (int, error) {
		if err := p.w.ReadTimeout(nil, p.conn, b, time.Now().Add(p.interval)); err != nil {
			return 0, err
		}
		res, err := p.await(gaio.OpRead)
		if err != nil {
			return 0, err
		}
		if errors.Is(res.Error, gaio.ErrDeadline) {
			return 0, errRetry
		}
		return res.Size, res.Error
	})
}

// Send hands b to the watcher and waits until all of it is written.
func (p *Gaio) Send(b []byte) (int, error) {
	if err := p.w.Write(nil, p.conn, b); err != nil {
		return 0, err
	}
	res, err := p.await(gaio.OpWrite)
	if err != nil {
		return 0, err
	}
	return res.Size, res.Error
}

func (p *Gaio) await(op gaio.OpType) (gaio.OpResult, error) {
	for {
		results, err := p.w.WaitIO()
		if err != nil {
			return gaio.OpResult{}, err
		}
		for _, r := range results {
			if r.Operation == op {
				return r, nil
			}
		}
	}
}

// Close releases the watcher and the descriptor it took over.
func (p *Gaio) Close() error {
	p.w.Free(p.conn)
	return p.w.Close()
}
