package fixhttp_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	fixhttp "github.com/frankli0324/go-fixhttp"
)

func ExampleConnection() {
	var sink bytes.Buffer
	h := fixhttp.NewBufferHandler(64)

	conn := fixhttp.NewConnection(&fixhttp.Config{InboundCapacity: 256, OutboundCapacity: 128})
	req, err := conn.Post("/foo.bar").
		Headers([]fixhttp.Field{{Name: "Content-Type", Value: "text/json"}}).
		Handler(h).
		Execute(fixhttp.WriterSink{Writer: &sink})
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, fragment := range []string{"HTTP/1.1 ", "200 OK\r\n", "\r\n", "123"} {
		req.PushData([]byte(fragment))
	}
	req.PushClose()
	req.Complete()

	fmt.Printf("%q\n", sink.String())
	fmt.Println(h.Code(), h.Reason(), string(h.Payload()))
	// Output:
	// "POST /foo.bar HTTP/1.1\r\nContent-Type: text/json\r\n\r\n"
	// 200 OK 123
}

type readWriter struct {
	io.Reader
	io.Writer
}

func ExampleClient() {
	cl := &fixhttp.Client{}
	res, err := cl.Do(context.Background(), readWriter{
		Reader: strings.NewReader("HTTP/1.1 200 OK\r\nContent-Length: 5\r\n\r\nhello"),
		Writer: io.Discard,
	}, &fixhttp.Request{
		Addr: "www.example.com",
		Path: "/?a=b",
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(res.Code, res.Outcome, string(res.Body))
	// Output:
	// 200 complete hello
}
