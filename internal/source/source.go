// Package source pumps bytes from a transport into a request state machine.
//
// A pump owns a fixed read buffer and loops read, push, read until the
// target reports it is done. End of stream becomes PushClose, a fatal read
// error becomes PushError, and reads that only timed out are retried after
// the context has been checked.
package source

import (
	"context"
	"errors"
	"io"
	"net"

	"github.com/rs/zerolog"
)

// Target is the receiving end of a pump, satisfied by *engine.Request.
type Target interface {
	PushData(p []byte) error
	PushClose() error
	PushError(err error) error
	Done() bool
}

type Pump interface {
	Pipe(ctx context.Context, t Target) error
}

// errRetry marks a read that produced nothing but may succeed later.
var errRetry = errors.New("source: retry")

const maxEmptyReads = 100

// pipe drives t with read until t is done. It returns the error that ended
// the exchange, nil when the response completed.
func pipe(ctx context.Context, t Target, buf []byte, log zerolog.Logger, read func([]byte) (int, error)) error {
	empty := 0
	for !t.Done() {
		if err := ctx.Err(); err != nil {
			log.Debug().Err(err).Msg("pump cancelled")
			t.PushError(err)
			return err
		}
		n, err := read(buf)
		if n > 0 {
			empty = 0
			log.Trace().Int("bytes", n).Msg("pumped")
			if perr := t.PushData(buf[:n]); perr != nil {
				return perr
			}
		}
		switch {
		case err == nil:
			if n == 0 {
				if empty++; empty >= maxEmptyReads {
					return t.PushError(io.ErrNoProgress)
				}
			}
		case err == io.EOF:
			log.Debug().Msg("end of stream")
			return t.PushClose()
		case isRetry(err):
		default:
			log.Debug().Err(err).Msg("read failed")
			return t.PushError(err)
		}
	}
	return nil
}

func isRetry(err error) bool {
	if errors.Is(err, errRetry) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
