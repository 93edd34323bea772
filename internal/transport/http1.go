package transport

import (
	"fmt"
	"io"

	"golang.org/x/net/http/httpguts"

	"github.com/frankli0324/go-fixhttp/internal/model"
)

// WriteHead writes the request line and header part of an http 1.1 request
// e.g.:
//
//	POST /foo.bar HTTP/1.1\r\n
//	Content-Length: 3\r\n
//	Content-Type: text/json\r\n
//	\r\n
//
// Content-Length is written only when contentLength >= 0 and always precedes
// the caller's fields, which are written verbatim and in order. Nothing else
// is added: Host, Connection and friends are the caller's business.
//
// w is expected to be bounded; the first failed write aborts the head.
func WriteHead(w io.Writer, method, path string, fields []model.Field, contentLength int) error {
	if _, err := fmt.Fprintf(w, "%s %s HTTP/1.1\r\n", method, path); err != nil {
		return err
	}
	if contentLength >= 0 {
		if _, err := fmt.Fprintf(w, "Content-Length: %d\r\n", contentLength); err != nil {
			return err
		}
	}
	for _, f := range fields {
		if _, err := fmt.Fprintf(w, "%s: %s\r\n", f.Name, f.Value); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\r\n")
	return err
}

// ValidateHead reports the first field that could not be put on the wire safely.
// The engine never calls it; callers opt in.
func ValidateHead(method string, fields []model.Field) error {
	if !httpguts.ValidHeaderFieldName(method) {
		return fmt.Errorf("invalid method %q", method)
	}
	for _, f := range fields {
		if !httpguts.ValidHeaderFieldName(f.Name) {
			return fmt.Errorf("invalid header field name %q", f.Name)
		}
		if !httpguts.ValidHeaderFieldValue(f.Value) {
			return fmt.Errorf("invalid header field value for %q", f.Name)
		}
	}
	return nil
}
