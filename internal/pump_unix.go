//go:build darwin || linux
// +build darwin linux

package internal

import (
	"net"

	"github.com/frankli0324/go-fixhttp/internal/source"
)

var _ = func() error { // make sure this executes before any Client runs
	pumps["fd"] = func(conn net.Conn, cfg *source.Config) (*Pump, error) {
		p, err := source.FDFromConn(conn, cfg)
		if err != nil {
			return nil, err
		}
		return &Pump{Pump: p, Sink: p, Closer: p}, nil
	}
	pumps["gaio"] = func(conn net.Conn, cfg *source.Config) (*Pump, error) {
		p, err := source.NewGaio(conn, cfg)
		if err != nil {
			return nil, err
		}
		return &Pump{Pump: p, Sink: p, Closer: p}, nil
	}
	return nil
}()
