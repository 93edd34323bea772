package transport

import (
	"io"
)

// Sink accepts bytes for the wire. Send may accept fewer bytes than offered,
// callers that need the whole slice on the wire use [SendAll].
type Sink interface {
	Send(p []byte) (int, error)
}

// WriterSink adapts any io.Writer, e.g. a net.Conn.
type WriterSink struct {
	io.Writer
}

func (s WriterSink) Send(p []byte) (int, error) {
	return s.Write(p)
}

// SendAll loops until p is fully accepted or the sink fails.
// A sink that accepts nothing without reporting an error fails with io.ErrNoProgress.
func SendAll(s Sink, p []byte) error {
	for len(p) > 0 {
		n, err := s.Send(p)
		if err != nil {
			return err
		}
		if n <= 0 {
			return io.ErrNoProgress
		}
		if n > len(p) {
			return io.ErrShortWrite
		}
		p = p[n:]
	}
	return nil
}
