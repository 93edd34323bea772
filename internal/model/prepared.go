package model

import (
	"bytes"
	"fmt"
	"strings"
)

type PreparedRequest struct {
	*Request

	Method  string
	Path    string
	Payload []byte // nil means no body, and no Content-Length
}

func (r *Request) Prepare() (*PreparedRequest, error) {
	pr := &PreparedRequest{
		Request: r,
		Method:  r.Method,
		Path:    r.Path,
	}
	if pr.Method == "" {
		pr.Method = "GET"
	}
	if pr.Path == "" {
		pr.Path = "/"
	}
	for _, f := range r.Header {
		// Content-Length is always derived from the payload
		if strings.EqualFold(f.Name, "content-length") {
			return nil, fmt.Errorf("Content-Length header is computed from the body, got %q", f.Value)
		}
	}
	if err := pr.updateBody(); err != nil {
		return nil, err
	}
	return pr, nil
}

// should only be called once at [Prepare]. The body is exposed as a byte slice
// without copying where the source type allows it, the engine never buffers it.
func (r *PreparedRequest) updateBody() (err error) {
	if r.Request.Body == nil {
		return nil
	}
	switch b := r.Request.Body.(type) {
	case *bytes.Buffer:
		r.Payload = b.Bytes()
	case *bytes.Reader:
		snapshot := *b
		r.Payload = make([]byte, snapshot.Len())
		if len(r.Payload) > 0 {
			_, err = snapshot.Read(r.Payload)
		}
	case *strings.Reader:
		snapshot := *b
		r.Payload = make([]byte, snapshot.Len())
		if len(r.Payload) > 0 {
			_, err = snapshot.Read(r.Payload)
		}
	case string:
		r.Payload = []byte(b)
	case []byte:
		r.Payload = b
	default:
		return fmt.Errorf("unsupported body type: %T", r.Request.Body)
	}
	if r.Payload == nil {
		r.Payload = []byte{}
	}
	return err
}
