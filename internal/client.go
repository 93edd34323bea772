package internal

import (
	"context"
	"io"
	"net"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/frankli0324/go-fixhttp/internal/dialer"
	"github.com/frankli0324/go-fixhttp/internal/engine"
	"github.com/frankli0324/go-fixhttp/internal/errors"
	"github.com/frankli0324/go-fixhttp/internal/handler"
	"github.com/frankli0324/go-fixhttp/internal/model"
	"github.com/frankli0324/go-fixhttp/internal/source"
	"github.com/frankli0324/go-fixhttp/internal/transport"
)

const DefaultBodyCapacity = 64 << 10

type PreparedRequest = model.PreparedRequest

// Result is the response as captured by a bounded buffer handler.
type Result struct {
	Version   uint8
	Code      uint16
	Reason    string
	Body      []byte
	Truncated bool // the body outgrew BodyCapacity
	Outcome   errors.Outcome
}

type Handler = func(ctx context.Context, req *PreparedRequest) (*Result, error)
type Middleware func(next Handler) Handler

var defaultDialer = &dialer.CoreDialer{}

// Client runs one exchange at a time over a single engine connection,
// reusing its buffers across calls.
type Client struct {
	Engine       *engine.Config
	Source       *source.Config
	BodyCapacity int
	Pump         string // registered pump name, "reader" when empty
	Strict       bool   // validate method and header fields before sending
	Logger       *zerolog.Logger

	middlewares []Middleware
	dialer      dialer.Dialer

	mu   sync.Mutex
	conn *engine.Connection
}

// Use appends mw to the end of the chain. The last "Use"d mw executes first
func (c *Client) Use(mws ...Middleware) {
	c.middlewares = append(c.middlewares, mws...)
}

// UseDialer replaces the dialer with whatever wrap returns for the current one.
func (c *Client) UseDialer(wrap func(dialer.Dialer) dialer.Dialer) {
	c.dialer = wrap(c.getDialer())
}

func (c *Client) getDialer() dialer.Dialer {
	if c.dialer != nil {
		return c.dialer
	}
	return defaultDialer
}

// CtxDo dials req.Addr, runs the exchange with the configured pump and closes
// the connection afterwards. On failure the partial Result is returned with the error.
func (c *Client) CtxDo(ctx context.Context, req *model.Request) (*Result, error) {
	return c.do(ctx, req, func(ctx context.Context, pr *PreparedRequest) (*Result, error) {
		conn, err := c.getDialer().Dial(ctx, pr)
		if err != nil {
			return nil, err
		}
		defer conn.Close()
		p, err := c.newPump(conn)
		if err != nil {
			return nil, err
		}
		if p.Closer != nil {
			defer p.Closer.Close()
		}
		return c.exchange(ctx, p.Pump, p.Sink, pr)
	})
}

// Do runs the exchange over a transport the caller already holds.
func (c *Client) Do(ctx context.Context, rw io.ReadWriter, req *model.Request) (*Result, error) {
	return c.do(ctx, req, func(ctx context.Context, pr *PreparedRequest) (*Result, error) {
		return c.exchange(ctx, source.NewReader(rw, c.Source), transport.WriterSink{Writer: rw}, pr)
	})
}

func (c *Client) do(ctx context.Context, req *model.Request, last Handler) (*Result, error) {
	pr, err := req.Prepare()
	if err != nil {
		return nil, err
	}
	next := last
	for _, mw := range c.middlewares {
		next = mw(next)
	}
	return next(ctx, pr)
}

func (c *Client) newPump(conn net.Conn) (*Pump, error) {
	name := c.Pump
	if name == "" {
		name = "reader"
	}
	factory, ok := pumps[name]
	if !ok {
		return nil, errors.New("unknown pump: " + name)
	}
	return factory(conn, c.Source)
}

func (c *Client) exchange(ctx context.Context, pump source.Pump, sink transport.Sink, pr *PreparedRequest) (*Result, error) {
	fields := withHost(pr)
	if c.Strict {
		if err := transport.ValidateHead(pr.Method, fields); err != nil {
			return nil, err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		c.conn = engine.NewConnection(c.Engine)
	}
	// every exchange starts on a fresh transport
	c.conn.Reset()

	bodyCap := c.BodyCapacity
	if bodyCap <= 0 {
		bodyCap = DefaultBodyCapacity
	}
	h := handler.NewBuffer(bodyCap)
	h.Logger = c.Logger

	req, err := c.conn.Begin(pr.Method, pr.Path).Headers(fields).Handler(h).ExecuteWith(sink, pr.Payload)
	if req == nil {
		return nil, err
	}
	if err == nil {
		err = pump.Pipe(ctx, req)
	}
	res := &Result{
		Version:   h.Version(),
		Code:      h.Code(),
		Reason:    h.Reason(),
		Body:      append([]byte(nil), h.Payload()...),
		Truncated: h.Truncated(),
		Outcome:   req.Outcome(),
	}
	req.Complete()
	return res, err
}

// withHost puts a Host field derived from the dial address in front of the
// caller's fields unless they carry one.
func withHost(pr *PreparedRequest) []model.Field {
	if pr.Addr == "" {
		return pr.Header
	}
	for _, f := range pr.Header {
		if strings.EqualFold(f.Name, "host") {
			return pr.Header
		}
	}
	host := pr.Addr
	if h, p := dialer.SplitAddr(pr.Addr); p == "80" {
		host = h
		if strings.Contains(h, ":") {
			host = "[" + h + "]"
		}
	}
	fields := make([]model.Field, 0, len(pr.Header)+1)
	fields = append(fields, model.Field{Name: "Host", Value: host})
	return append(fields, pr.Header...)
}
