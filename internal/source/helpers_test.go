package source_test

import (
	"io"

	"github.com/frankli0324/go-fixhttp/internal/transport"
)

func transportSink(w io.Writer) transport.Sink {
	return transport.WriterSink{Writer: w}
}
