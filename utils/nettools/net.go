// Package nettools waits for file descriptor readiness and digs descriptors
// out of net.Conn values, for pumps that read sockets without the Go runtime poller.
package nettools

import (
	"context"
	"errors"
	"net"
	"syscall"
	"time"
)

type Mode int

const (
	ModePoll Mode = iota
	ModeSelect
)

var ErrNoFD = errors.New("nettools: connection does not expose a file descriptor")

var ErrUnsupported = errors.New("nettools: wait mode not supported on this platform")

// waitFunc blocks for at most timeout and reports whether fd became ready.
type waitFunc func(fd int, write bool, timeout time.Duration) (bool, error)

var (
	supported = map[Mode]waitFunc{}
	picked    waitFunc
)

func init() {
	for _, mode := range []Mode{ModePoll, ModeSelect} {
		if supported[mode] != nil {
			picked = supported[mode]
			break
		}
	}
	if picked == nil {
		// nothing to ask the kernel with, report ready after a nap and let the read decide
		picked = func(_ int, _ bool, timeout time.Duration) (bool, error) {
			time.Sleep(timeout)
			return true, nil
		}
	}
}

// SetMode selects the readiness primitive used by Wait.
func SetMode(m Mode) error {
	f := supported[m]
	if f == nil {
		return ErrUnsupported
	}
	picked = f
	return nil
}

// Wait blocks until fd is readable (or writable when write is set), waking
// every interval to honour ctx. Hang-ups and socket errors count as ready:
// the next read or write reports them.
func Wait(ctx context.Context, fd int, write bool, interval time.Duration) error {
	if interval <= 0 {
		interval = 50 * time.Millisecond
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		ok, err := picked(fd, write, interval)
		if err != nil || ok {
			return err
		}
	}
}

// ControlFD runs fn with the descriptor behind c. The descriptor is only
// guaranteed to stay open while fn runs.
func ControlFD(c net.Conn, fn func(fd int)) error {
	rc := rawConn(c)
	if rc == nil {
		return ErrNoFD
	}
	// errors only happen before the control action runs, e.g. on *net.conn:
	//
	//  if err := fd.incref(); err != nil {
	//  	return err
	//  }
	//  defer fd.decref()
	//  f(uintptr(fd.Sysfd))
	return rc.Control(func(fd uintptr) { fn(int(fd)) })
}

func rawConn(raw net.Conn) syscall.RawConn {
	if t, ok := raw.(interface{ NetConn() net.Conn }); ok {
		// is *tls.Conn or polyfilled TLS Connection
		raw = t.NetConn()
	}
	if c, ok := raw.(syscall.Conn); ok {
		if c, err := c.SyscallConn(); err == nil {
			return c
		}
	}
	return nil
}
