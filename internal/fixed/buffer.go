// Package fixed provides byte storage whose capacity is decided once, at construction.
//
// None of the operations here grow the backing array. Appending past the capacity
// reports [ErrOverflow] and leaves the buffer untouched, so callers can decide
// whether a full buffer is a failure or an acceptable truncation.
package fixed

import (
	"errors"
	"fmt"
)

var ErrOverflow = errors.New("fixed: buffer capacity exceeded")

type Buffer struct {
	buf []byte
}

// New allocates a buffer holding at most capacity bytes.
func New(capacity int) *Buffer {
	if capacity < 0 {
		capacity = 0
	}
	return &Buffer{buf: make([]byte, 0, capacity)}
}

func (b *Buffer) Len() int { return len(b.buf) }
func (b *Buffer) Cap() int { return cap(b.buf) }
func (b *Buffer) Free() int { return cap(b.buf) - len(b.buf) }
func (b *Buffer) Bytes() []byte { return b.buf }
func (b *Buffer) Reset() { b.buf = b.buf[:0] }

// Append copies p to the end of the buffer, all or nothing.
func (b *Buffer) Append(p []byte) error {
	if len(p) > b.Free() {
		return ErrOverflow
	}
	b.buf = append(b.buf, p...)
	return nil
}

// AppendTruncate copies as much of p as fits and reports how many bytes were kept.
func (b *Buffer) AppendTruncate(p []byte) int {
	n := len(p)
	if free := b.Free(); n > free {
		n = free
	}
	b.buf = append(b.buf, p[:n]...)
	return n
}

// Write implements io.Writer with all-or-nothing semantics, which lets
// fmt.Fprintf fail cleanly instead of leaving half a line behind.
func (b *Buffer) Write(p []byte) (int, error) {
	if err := b.Append(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (b *Buffer) WriteString(s string) (int, error) {
	if len(s) > b.Free() {
		return 0, ErrOverflow
	}
	b.buf = append(b.buf, s...)
	return len(s), nil
}

// Send lets a Buffer act as an in-memory sink for serialized requests.
func (b *Buffer) Send(p []byte) (int, error) {
	return b.Write(p)
}

func (b *Buffer) String() string {
	return fmt.Sprintf("fixed.Buffer(%d/%d)", len(b.buf), cap(b.buf))
}
