package model

// Field is a single header line. Request fields are borrowed from the caller,
// response fields point into the connection's scratch buffer.
type Field struct {
	Name  string
	Value string
}

// Response is the parsed status line of an inbound response. It is a view:
// Reason and Fields alias the scratch buffer and are only valid for the
// duration of the Handler.OnStatus call that receives them.
type Response struct {
	Version uint8 // minor version, HTTP/1.x
	Code    uint16
	Reason  []byte
	Fields  []RawField
}

// RawField is a response header as it appeared on the wire.
type RawField struct {
	Name  []byte
	Value []byte
}

// Chunk is one body event. Exactly one of the three shapes is used:
// data (Data non-empty), end of body (End), or failure (Err).
type Chunk struct {
	Data []byte
	End  bool
	Err  error
}

func DataChunk(p []byte) Chunk { return Chunk{Data: p} }
func EndChunk() Chunk { return Chunk{End: true} }
func ErrorChunk(err error) Chunk { return Chunk{Err: err} }

// Handler consumes response events. OnStatus is called at most once per request,
// OnBody one or more times; an End chunk marks logical completion.
type Handler interface {
	OnStatus(r Response)
	OnBody(c Chunk)
}

// Request is a high level description consumed by the client. The engine
// itself only ever sees method, path, fields and payload.
type Request struct {
	Addr   string // host:port to dial, ignored when the caller supplies the transport
	Method string
	Path   string
	Body   interface{}
	Header []Field
}
