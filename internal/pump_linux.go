//go:build linux
// +build linux

package internal

import (
	"net"

	"github.com/frankli0324/go-fixhttp/internal/source"
)

var _ = func() error {
	pumps["uring"] = func(conn net.Conn, cfg *source.Config) (*Pump, error) {
		p, err := source.NewUring(conn, cfg)
		if err != nil {
			return nil, err
		}
		return &Pump{Pump: p, Sink: p, Closer: p}, nil
	}
	return nil
}()
