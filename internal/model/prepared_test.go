package model

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrepareBodies(t *testing.T) {
	cases := map[string]struct {
		body interface{}
		want []byte
	}{
		"Nil":          {nil, nil},
		"String":       {"abc", []byte("abc")},
		"Bytes":        {[]byte("abc"), []byte("abc")},
		"EmptyString":  {"", []byte{}},
		"BytesBuffer":  {bytes.NewBufferString("abc"), []byte("abc")},
		"BytesReader":  {bytes.NewReader([]byte("abc")), []byte("abc")},
		"StringReader": {strings.NewReader("abc"), []byte("abc")},
		"EmptyReader":  {strings.NewReader(""), []byte{}},
	}
	for name, cas := range cases {
		tCase := cas
		t.Run(name, func(t *testing.T) {
			pr, err := (&Request{Method: "POST", Path: "/", Body: tCase.body}).Prepare()
			if err != nil {
				t.Fatal(err)
			}
			if (pr.Payload == nil) != (tCase.want == nil) {
				t.Fatalf("payload presence mismatch: %v", pr.Payload)
			}
			if !bytes.Equal(pr.Payload, tCase.want) {
				t.Fatalf("payload %q, want %q", pr.Payload, tCase.want)
			}
		})
	}
}

func TestPrepareReaderIsNotConsumed(t *testing.T) {
	r := strings.NewReader("abc")
	if _, err := (&Request{Body: r}).Prepare(); err != nil {
		t.Fatal(err)
	}
	if r.Len() != 3 {
		t.Fatalf("reader consumed, %d bytes left", r.Len())
	}
}

func TestPrepareDefaults(t *testing.T) {
	pr, err := (&Request{}).Prepare()
	if err != nil {
		t.Fatal(err)
	}
	if pr.Method != "GET" || pr.Path != "/" {
		t.Fatalf("got %s %s", pr.Method, pr.Path)
	}
}

func TestPrepareRejects(t *testing.T) {
	if _, err := (&Request{Body: 42}).Prepare(); err == nil {
		t.Error("expected error for unsupported body type")
	}
	if _, err := (&Request{Header: []Field{{"content-length", "3"}}}).Prepare(); err == nil {
		t.Error("expected error for explicit Content-Length")
	}
}
