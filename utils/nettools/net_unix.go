//go:build darwin || linux
// +build darwin linux

package nettools

import (
	"net"

	"golang.org/x/sys/unix"
)

// DupFD returns a close-on-exec duplicate of the descriptor behind c. The
// duplicate shares the socket and its non-blocking flag; the caller owns it.
func DupFD(c net.Conn) (int, error) {
	fd, derr := -1, error(nil)
	if err := ControlFD(c, func(s int) {
		fd, derr = unix.Dup(s)
	}); err != nil {
		return -1, err
	}
	if derr != nil {
		return -1, derr
	}
	unix.CloseOnExec(fd)
	return fd, nil
}
