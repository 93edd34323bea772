// Package fixhttp is an HTTP/1.1 client whose every buffer is sized once, up front.
//
// The engine never reads or writes on its own: requests are serialized into
// a [Sink], and response bytes are pushed into the returned request in
// fragments of any size. [Client] wires the engine to a dialed connection and
// a pump for the common case.
package fixhttp

import (
	"github.com/frankli0324/go-fixhttp/internal/engine"
	"github.com/frankli0324/go-fixhttp/internal/errors"
	"github.com/frankli0324/go-fixhttp/internal/handler"
	"github.com/frankli0324/go-fixhttp/internal/model"
	"github.com/frankli0324/go-fixhttp/internal/source"
	"github.com/frankli0324/go-fixhttp/internal/transport"
)

type Field = model.Field
type Request = model.Request
type PreparedRequest = model.PreparedRequest
type Response = model.Response
type Chunk = model.Chunk
type Handler = model.Handler

type Config = engine.Config
type Connection = engine.Connection
type ActiveRequest = engine.Request
type State = engine.State

type Sink = transport.Sink
type WriterSink = transport.WriterSink

type SourceConfig = source.Config
type Pump = source.Pump

type BufferHandler = handler.Buffer
type NoOpHandler = handler.NoOp

type Outcome = errors.Outcome

const (
	AwaitingHeaders = engine.AwaitingHeaders
	FixedBody       = engine.FixedBody
	UnboundedBody   = engine.UnboundedBody
	Complete        = engine.Complete
	Failed          = engine.Failed
)

var (
	ErrSendFailed         = errors.ErrSendFailed
	ErrTransport          = errors.ErrTransport
	ErrConnectionClosed   = errors.ErrConnectionClosed
	ErrMalformedResponse  = errors.ErrMalformedResponse
	ErrTooManyHeaders     = errors.ErrTooManyHeaders
	ErrIncompleteResponse = errors.ErrIncompleteResponse
	ErrRequestTooLarge    = errors.ErrRequestTooLarge
	ErrHeaderTooLarge     = errors.ErrHeaderTooLarge
	ErrConnectionBusy     = errors.ErrConnectionBusy
	ErrRequestDissolved   = errors.ErrRequestDissolved
)

// NewConnection allocates every buffer an exchange needs. A nil cfg takes the defaults.
func NewConnection(cfg *Config) *Connection { return engine.NewConnection(cfg) }

// NewBufferHandler captures a response with a body of at most bodyCapacity bytes.
func NewBufferHandler(bodyCapacity int) *BufferHandler { return handler.NewBuffer(bodyCapacity) }
