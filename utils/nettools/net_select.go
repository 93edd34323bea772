//go:build darwin || linux
// +build darwin linux

package nettools

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

var _ = func() error { // make sure this executes before func init()
	supported[ModeSelect] = selectWait
	return nil
}()

const fdSetSize = 1024

func selectWait(fd int, write bool, timeout time.Duration) (bool, error) {
	if fd < 0 || fd >= fdSetSize {
		return false, fmt.Errorf("nettools: fd %d out of select range", fd)
	}
	tv := unix.NsecToTimeval(int64(timeout))
	var set unix.FdSet
	set.Zero()
	set.Set(fd)

	r, w := &set, (*unix.FdSet)(nil)
	if write {
		r, w = nil, &set
	}
	n, err := unix.Select(fd+1, r, w, nil, &tv)
	if err == unix.EINTR {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return n > 0 && set.IsSet(fd), nil
}
