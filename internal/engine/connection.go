package engine

import (
	"github.com/rs/zerolog"

	"github.com/frankli0324/go-fixhttp/internal/errors"
	"github.com/frankli0324/go-fixhttp/internal/fixed"
	"github.com/frankli0324/go-fixhttp/internal/handler"
	"github.com/frankli0324/go-fixhttp/internal/model"
	"github.com/frankli0324/go-fixhttp/internal/transport"
)

// Connection owns every buffer an exchange needs. It is checked out by
// executing a request and checked back in by [Request.Complete]; at most one
// request may be active on it at a time.
type Connection struct {
	inbound  *fixed.Buffer // response head scratch space
	outbound *fixed.Buffer // serialized request head
	fields   []model.RawField

	log    zerolog.Logger
	busy   bool
	closed bool
}

func NewConnection(cfg *Config) *Connection {
	c := cfg.withDefaults()
	return &Connection{
		inbound:  fixed.New(c.InboundCapacity),
		outbound: fixed.New(c.OutboundCapacity),
		fields:   make([]model.RawField, c.MaxHeaders),
		log:      *c.Logger,
	}
}

func (c *Connection) Begin(method, path string) *Builder {
	c.log.Debug().Str("method", method).Str("path", path).Msg("begin request")
	return &Builder{
		conn:    c,
		method:  method,
		path:    path,
		handler: handler.NoOp{},
	}
}

func (c *Connection) Post(path string) *Builder {
	return c.Begin("POST", path)
}

// Busy reports whether a request currently owns the connection.
func (c *Connection) Busy() bool { return c.busy }

// Closed reports whether the peer closed the transport after the last response.
func (c *Connection) Closed() bool { return c.closed }

// Residual returns bytes that arrived after the last response completed.
// They are kept for inspection only and dropped when the next request starts.
func (c *Connection) Residual() []byte { return c.inbound.Bytes() }

// Reset prepares the connection for a fresh transport.
func (c *Connection) Reset() {
	c.inbound.Reset()
	c.closed = false
}

func (c *Connection) onClosed() {
	c.log.Debug().Msg("transport closed")
	c.closed = true
}

func (c *Connection) checkout(h model.Handler) (*Request, error) {
	if c.busy {
		return nil, errors.ErrConnectionBusy
	}
	c.busy = true
	if n := c.inbound.Len(); n > 0 {
		c.log.Debug().Int("bytes", n).Msg("dropping residual bytes from previous response")
		c.inbound.Reset()
	}
	return &Request{
		conn:    c,
		handler: h,
		state:   AwaitingHeaders,
		log:     c.log,
	}, nil
}

type Builder struct {
	conn    *Connection
	method  string
	path    string
	fields  []model.Field
	handler model.Handler
}

// Headers sets the caller's header fields. The slice is borrowed, not copied.
func (b *Builder) Headers(fields []model.Field) *Builder {
	b.fields = fields
	return b
}

// Handler replaces the response consumer, [handler.NoOp] by default.
func (b *Builder) Handler(h model.Handler) *Builder {
	if h == nil {
		h = handler.NoOp{}
	}
	b.handler = h
	return b
}

func (b *Builder) Execute(sink transport.Sink) (*Request, error) {
	return b.ExecuteWith(sink, nil)
}

// ExecuteWith sends the request once. A nil payload sends no body and no
// Content-Length; a non-nil payload, even an empty one, is announced with
// its length and written after the head.
//
// The only error without a Request is [errors.ErrConnectionBusy]. Any other
// failure returns the Request already failed, so Complete still hands the
// connection and handler back.
func (b *Builder) ExecuteWith(sink transport.Sink, payload []byte) (*Request, error) {
	req, err := b.conn.checkout(b.handler)
	if err != nil {
		return nil, err
	}
	if b.conn.closed {
		return req, req.fail(errors.ErrConnectionClosed)
	}
	if err := b.conn.send(sink, b.method, b.path, b.fields, payload); err != nil {
		return req, req.fail(err)
	}
	return req, nil
}

func (c *Connection) send(sink transport.Sink, method, path string, fields []model.Field, payload []byte) error {
	contentLength := -1
	if payload != nil {
		contentLength = len(payload)
	}

	c.outbound.Reset()
	if err := transport.WriteHead(c.outbound, method, path, fields, contentLength); err != nil {
		return errors.ErrRequestTooLarge.Wrap(err)
	}
	c.log.Debug().Int("head", c.outbound.Len()).Int("payload", len(payload)).Msg("sending request")

	if err := transport.SendAll(sink, c.outbound.Bytes()); err != nil {
		return errors.ErrSendFailed.Wrap(err)
	}
	if err := transport.SendAll(sink, payload); err != nil {
		return errors.ErrSendFailed.Wrap(err)
	}
	return nil
}
