//go:build darwin || linux
// +build darwin linux

package nettools

import (
	"time"

	"golang.org/x/sys/unix"
)

var _ = func() error { // make sure this executes before func init()
	supported[ModePoll] = pollWait
	return nil
}()

func pollWait(fd int, write bool, timeout time.Duration) (bool, error) {
	events := int16(unix.POLLIN)
	if write {
		events = unix.POLLOUT
	}
	s := []unix.PollFd{{Fd: int32(fd), Events: events}}
	n, err := unix.Poll(s, int(timeout/time.Millisecond))
	if err == unix.EINTR {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return n > 0 && s[0].Revents != 0, nil
}
