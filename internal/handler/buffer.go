package handler

import (
	"github.com/rs/zerolog"

	"github.com/frankli0324/go-fixhttp/internal/fixed"
	"github.com/frankli0324/go-fixhttp/internal/model"
)

const DefaultReasonCapacity = 128

// Buffer accumulates a response into fixed size storage for simple synchronous use.
//
// A body larger than the buffer is truncated, not rejected: size the buffer for
// the largest expected body or check [Buffer.Truncated].
type Buffer struct {
	version   uint8
	code      uint16
	reason    *fixed.Buffer
	payload   *fixed.Buffer
	complete  bool
	truncated bool
	err       error

	Logger *zerolog.Logger
}

func NewBuffer(bodyCapacity int) *Buffer {
	return NewBufferSize(bodyCapacity, DefaultReasonCapacity)
}

func NewBufferSize(bodyCapacity, reasonCapacity int) *Buffer {
	return &Buffer{
		reason:  fixed.New(reasonCapacity),
		payload: fixed.New(bodyCapacity),
	}
}

func (b *Buffer) Version() uint8 { return b.version }
func (b *Buffer) Code() uint16 { return b.code }
func (b *Buffer) Reason() string { return string(b.reason.Bytes()) }
func (b *Buffer) Payload() []byte { return b.payload.Bytes() }
func (b *Buffer) IsComplete() bool { return b.complete }
func (b *Buffer) Truncated() bool { return b.truncated }
func (b *Buffer) Err() error { return b.err }

// Reset clears the captured response, keeping the storage for the next request.
func (b *Buffer) Reset() {
	b.version, b.code = 0, 0
	b.reason.Reset()
	b.payload.Reset()
	b.complete, b.truncated, b.err = false, false, nil
}

func (b *Buffer) OnStatus(r model.Response) {
	b.version = r.Version
	b.code = r.Code
	// the reason slice dies with the callback
	b.reason.Reset()
	b.reason.AppendTruncate(r.Reason)
}

func (b *Buffer) OnBody(c model.Chunk) {
	switch {
	case c.Err != nil:
		b.err = c.Err
	case c.End:
		b.log().Debug().Int("bytes", b.payload.Len()).Msg("complete response")
		b.complete = true
	default:
		if n := b.payload.AppendTruncate(c.Data); n < len(c.Data) {
			b.log().Debug().Int("dropped", len(c.Data)-n).Msg("payload buffer full")
			b.truncated = true
		}
	}
}

func (b *Buffer) log() *zerolog.Logger {
	if b.Logger == nil {
		nop := zerolog.Nop()
		return &nop
	}
	return b.Logger
}
