package engine

import (
	"bytes"

	"github.com/rs/zerolog"
	"golang.org/x/net/http/httpguts"

	"github.com/frankli0324/go-fixhttp/internal/errors"
	"github.com/frankli0324/go-fixhttp/internal/fixed"
	"github.com/frankli0324/go-fixhttp/internal/model"
	"github.com/frankli0324/go-fixhttp/internal/transport"
)

// State is the framing phase of a Request.
type State uint8

const (
	AwaitingHeaders State = iota
	FixedBody             // Content-Length known, Request.Remaining bytes owed
	UnboundedBody         // body ends when the transport closes
	Complete
	Failed
)

func (s State) String() string {
	switch s {
	case AwaitingHeaders:
		return "awaiting-headers"
	case FixedBody:
		return "fixed-body"
	case UnboundedBody:
		return "unbounded-body"
	case Complete:
		return "complete"
	case Failed:
		return "failed"
	}
	return "unknown"
}

var (
	contentLength    = []byte("Content-Length")
	transferEncoding = []byte("Transfer-Encoding")
)

// event is one push: data, a close, or a transport failure.
type event struct {
	data  []byte
	close bool
	err   error
}

// Request is the response state machine of one exchange. It is fed by
// PushData, PushClose and PushError and never blocks.
type Request struct {
	conn    *Connection
	handler model.Handler
	state   State

	remaining  int // FixedBody only
	delivered  int
	statusSeen bool
	err        error

	log zerolog.Logger
}

func (r *Request) State() State { return r.state }
func (r *Request) IsComplete() bool { return r.state == Complete }
func (r *Request) Done() bool { return r.state == Complete || r.state == Failed }
func (r *Request) Err() error { return r.err }
func (r *Request) Remaining() int { return r.remaining }
func (r *Request) Delivered() int { return r.delivered }
func (r *Request) StatusSeen() bool { return r.statusSeen }
func (r *Request) Handler() model.Handler { return r.handler }

func (r *Request) Outcome() errors.Outcome {
	switch r.state {
	case Complete:
		return errors.OutcomeComplete
	case Failed:
		return errors.Classify(r.err, r.statusSeen)
	}
	return errors.OutcomePending
}

// PushData feeds one inbound fragment. Fragment boundaries may fall anywhere.
func (r *Request) PushData(p []byte) error {
	if r.conn == nil {
		return errors.ErrRequestDissolved
	}
	return r.push(event{data: p})
}

// PushClose reports that the peer closed the transport.
func (r *Request) PushClose() error {
	if r.conn == nil {
		return errors.ErrRequestDissolved
	}
	return r.push(event{close: true})
}

// PushError reports a fatal transport error.
func (r *Request) PushError(err error) error {
	if r.conn == nil {
		return errors.ErrRequestDissolved
	}
	if err == nil {
		err = errors.ErrTransport
	}
	return r.push(event{err: err})
}

// Complete dissolves the request and hands the connection and handler back.
func (r *Request) Complete() (*Connection, model.Handler) {
	conn, h := r.conn, r.handler
	if conn != nil {
		conn.busy = false
	}
	r.conn, r.handler = nil, nil
	return conn, h
}

func (r *Request) push(ev event) error {
	switch r.state {
	case AwaitingHeaders:
		return r.pushHeader(ev)
	case FixedBody:
		return r.pushSized(ev)
	case UnboundedBody:
		return r.pushUnbounded(ev)
	case Complete:
		r.pushComplete(ev)
		return nil
	}
	return r.err
}

func (r *Request) pushHeader(ev event) error {
	switch {
	case ev.err != nil:
		return r.fail(errors.ErrTransport.Wrap(ev.err))
	case ev.close:
		return r.fail(errors.ErrIncompleteResponse)
	case len(ev.data) == 0:
		return nil
	}

	// bytes past what fits can only be body, the head must end inside the scratch buffer
	data, in := ev.data, r.conn.inbound
	kept := in.AppendTruncate(data)

	var head transport.Head
	n, complete, err := transport.ParseHead(in.Bytes(), r.conn.fields, &head)
	if err != nil {
		r.log.Info().Err(err).Msg("response head parse error")
		return r.fail(err)
	}
	if !complete {
		if in.Free() == 0 {
			return r.fail(errors.ErrHeaderTooLarge.Wrap(fixed.ErrOverflow))
		}
		return nil
	}

	next, length, err := r.framing(head.Fields)
	if err != nil {
		return r.fail(err)
	}
	r.log.Debug().Uint16("code", head.Code).Stringer("framing", next).Int("length", length).Msg("response head complete")

	r.statusSeen = true
	r.handler.OnStatus(model.Response{
		Version: head.Version,
		Code:    head.Code,
		Reason:  head.Reason,
		Fields:  head.Fields,
	})
	r.state, r.remaining = next, length

	// the head may have started in an earlier fragment; only the tail of
	// this one belongs to the body
	start := n - (in.Len() - kept)
	err = r.push(event{data: data[start:]})

	in.Reset()
	return err
}

func (r *Request) framing(fields []model.RawField) (State, int, error) {
	var value []byte
	found := false
	for _, f := range fields {
		switch {
		case bytes.EqualFold(f.Name, contentLength):
			if found && !bytes.Equal(value, f.Value) {
				return Failed, 0, errors.ErrMalformedResponse.Wrap(errors.New("conflicting Content-Length headers"))
			}
			value, found = f.Value, true
		case bytes.EqualFold(f.Name, transferEncoding):
			if httpguts.HeaderValuesContainsToken([]string{string(f.Value)}, "chunked") {
				r.log.Warn().Msg("chunked transfer-encoding is not decoded, reading body until close")
			}
		}
	}
	if !found {
		return UnboundedBody, 0, nil
	}
	n, ok := parseLength(value)
	if !ok {
		r.log.Debug().Bytes("value", value).Msg("ignoring unparsable Content-Length")
		return UnboundedBody, 0, nil
	}
	return FixedBody, n, nil
}

func (r *Request) pushSized(ev event) error {
	switch {
	case ev.err != nil:
		return r.fail(errors.ErrTransport.Wrap(ev.err))
	case ev.close:
		return r.fail(errors.ErrIncompleteResponse)
	}

	data := ev.data
	if len(data) < r.remaining {
		r.deliver(data)
		r.remaining -= len(data)
		return nil
	}
	r.deliver(data[:r.remaining])
	if excess := len(data) - r.remaining; excess > 0 {
		r.log.Debug().Int("bytes", excess).Msg("discarding bytes past Content-Length")
	}
	r.remaining = 0
	r.state = Complete
	r.handler.OnBody(model.EndChunk())
	r.log.Debug().Int("delivered", r.delivered).Msg("response complete")
	return nil
}

func (r *Request) pushUnbounded(ev event) error {
	switch {
	case ev.err != nil:
		return r.fail(errors.ErrTransport.Wrap(ev.err))
	case ev.close:
		r.state = Complete
		r.conn.onClosed()
		r.handler.OnBody(model.EndChunk())
		r.log.Debug().Int("delivered", r.delivered).Msg("response complete")
		return nil
	}
	r.deliver(ev.data)
	return nil
}

// pushComplete keeps whatever arrives after the response as residual bytes.
func (r *Request) pushComplete(ev event) {
	if ev.close || ev.err != nil {
		r.conn.onClosed()
		return
	}
	if kept := r.conn.inbound.AppendTruncate(ev.data); kept < len(ev.data) {
		r.log.Debug().Int("bytes", len(ev.data)-kept).Msg("residual buffer full, dropping bytes")
	}
}

func (r *Request) deliver(p []byte) {
	if len(p) == 0 {
		return
	}
	r.delivered += len(p)
	r.handler.OnBody(model.DataChunk(p))
}

func (r *Request) fail(err error) error {
	r.err = err
	r.state = Failed
	r.conn.inbound.Reset()
	r.handler.OnBody(model.ErrorChunk(err))
	return err
}

// parseLength accepts a non-empty run of digits that fits an int.
func parseLength(b []byte) (int, bool) {
	if len(b) == 0 {
		return 0, false
	}
	const maxInt = int(^uint(0) >> 1)
	n := 0
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, false
		}
		d := int(c - '0')
		if n > (maxInt-d)/10 {
			return 0, false
		}
		n = n*10 + d
	}
	return n, true
}
