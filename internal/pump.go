package internal

import (
	"io"
	"net"
	"sort"

	"github.com/frankli0324/go-fixhttp/internal/source"
	"github.com/frankli0324/go-fixhttp/internal/transport"
)

// Pump pairs the read and write halves an exchange runs over.
type Pump struct {
	source.Pump
	Sink   transport.Sink
	Closer io.Closer // released after the exchange, may be nil
}

type PumpFactory func(conn net.Conn, cfg *source.Config) (*Pump, error)

var pumps = map[string]PumpFactory{
	"reader": func(conn net.Conn, cfg *source.Config) (*Pump, error) {
		return &Pump{Pump: source.NewReader(conn, cfg), Sink: transport.WriterSink{Writer: conn}}, nil
	},
}

// Pumps lists the pump names available on this platform.
func Pumps() []string {
	names := make([]string, 0, len(pumps))
	for name := range pumps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
