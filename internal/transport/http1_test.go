package transport_test

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"testing/iotest"

	"github.com/frankli0324/go-fixhttp/internal/fixed"
	"github.com/frankli0324/go-fixhttp/internal/model"
	"github.com/frankli0324/go-fixhttp/internal/transport"
)

type tCase struct {
	method, path  string
	fields        []model.Field
	contentLength int
	data          []byte
}

var headShouldBe = map[string]tCase{
	"BasicRequest": {
		method: "POST", path: "/", contentLength: -1,
		data: []byte("POST / HTTP/1.1\r\n\r\n"),
	},
	"WithHeader": {
		method: "POST", path: "/foo.bar", contentLength: -1,
		fields: []model.Field{{Name: "Content-Type", Value: "text/json"}},
		data:   []byte("POST /foo.bar HTTP/1.1\r\nContent-Type: text/json\r\n\r\n"),
	},
	"ContentLengthFirst": {
		method: "PUT", path: "/x", contentLength: 10,
		fields: []model.Field{{Name: "Content-Type", Value: "text/json"}, {Name: "Host", Value: "example.com"}},
		data:   []byte("PUT /x HTTP/1.1\r\nContent-Length: 10\r\nContent-Type: text/json\r\nHost: example.com\r\n\r\n"),
	},
	"ZeroContentLength": {
		method: "POST", path: "/", contentLength: 0,
		data: []byte("POST / HTTP/1.1\r\nContent-Length: 0\r\n\r\n"),
	},
	"HeaderNotCanonicalized": {
		method: "GET", path: "/", contentLength: -1,
		fields: []model.Field{{Name: "x-123-vv", Value: "1"}},
		data:   []byte("GET / HTTP/1.1\r\nx-123-vv: 1\r\n\r\n"),
	},
	"NoValidation": {
		method: "get me", path: "not a path", contentLength: -1,
		data: []byte("get me not a path HTTP/1.1\r\n\r\n"),
	},
}

func TestWriteHead(t *testing.T) {
	for name, cas := range headShouldBe {
		tCase := cas
		t.Run(name, func(t *testing.T) {
			buf := fixed.New(256)
			if err := transport.WriteHead(buf, tCase.method, tCase.path, tCase.fields, tCase.contentLength); err != nil {
				t.Fatal(err)
			}
			if err := iotest.TestReader(bytes.NewReader(buf.Bytes()), tCase.data); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestWriteHeadOverflow(t *testing.T) {
	// every truncation point must fail, never emit a partial head silently
	want := headShouldBe["ContentLengthFirst"]
	for size := 0; size < len(want.data); size++ {
		buf := fixed.New(size)
		err := transport.WriteHead(buf, want.method, want.path, want.fields, want.contentLength)
		if !errors.Is(err, fixed.ErrOverflow) {
			t.Fatalf("size %d: expected overflow, got %v", size, err)
		}
	}
	buf := fixed.New(len(want.data))
	if err := transport.WriteHead(buf, want.method, want.path, want.fields, want.contentLength); err != nil {
		t.Fatalf("exact size: %v", err)
	}
}

func TestValidateHead(t *testing.T) {
	if err := transport.ValidateHead("GET", []model.Field{{Name: "Host", Value: "a"}}); err != nil {
		t.Fatal(err)
	}
	if err := transport.ValidateHead("GE T", nil); err == nil {
		t.Error("expected invalid method")
	}
	if err := transport.ValidateHead("GET", []model.Field{{Name: "Bad(", Value: "a"}}); err == nil {
		t.Error("expected invalid name")
	}
	if err := transport.ValidateHead("GET", []model.Field{{Name: "X", Value: "a\r\nInjected: 1"}}); err == nil {
		t.Error("expected invalid value")
	}
}

type chunkySink struct {
	max int
	out bytes.Buffer
	err error
}

func (s *chunkySink) Send(p []byte) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	if len(p) > s.max {
		p = p[:s.max]
	}
	return s.out.Write(p)
}

func TestSendAllPartialAcceptance(t *testing.T) {
	s := &chunkySink{max: 3}
	if err := transport.SendAll(s, []byte("0123456789")); err != nil {
		t.Fatal(err)
	}
	if s.out.String() != "0123456789" {
		t.Fatalf("got %q", s.out.String())
	}
}

func TestSendAllFailures(t *testing.T) {
	if err := transport.SendAll(&chunkySink{max: 0}, []byte("x")); !errors.Is(err, io.ErrNoProgress) {
		t.Fatalf("expected ErrNoProgress, got %v", err)
	}
	if err := transport.SendAll(&chunkySink{err: io.ErrClosedPipe}, []byte("x")); !errors.Is(err, io.ErrClosedPipe) {
		t.Fatalf("expected ErrClosedPipe, got %v", err)
	}
	if err := transport.SendAll(&chunkySink{err: io.ErrClosedPipe}, nil); err != nil {
		t.Fatalf("empty send must not touch the sink, got %v", err)
	}
}

func TestWriterSink(t *testing.T) {
	var out bytes.Buffer
	if err := transport.SendAll(transport.WriterSink{Writer: &out}, []byte("abc")); err != nil {
		t.Fatal(err)
	}
	if out.String() != "abc" {
		t.Fatalf("got %q", out.String())
	}
}
