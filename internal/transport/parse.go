package transport

import (
	"bytes"

	"golang.org/x/net/http/httpguts"

	"github.com/frankli0324/go-fixhttp/internal/errors"
	"github.com/frankli0324/go-fixhttp/internal/model"
)

var statusPrefix = []byte("HTTP/1.")

// Head is a parsed status line and header block. All slices alias the buffer
// handed to [ParseHead] and the field table handed to it.
type Head struct {
	Version uint8
	Code    uint16
	Reason  []byte
	Fields  []model.RawField
}

// ParseHead tokenizes a response head from the start of buf.
//
// When the blank line ending the head has not arrived yet, it returns
// complete == false and a nil error. Bytes already seen are validated, so
// garbage fails early instead of filling the caller's buffer. On success n
// is the length of the head including the terminating blank line. Fields are
// stored in table; a head with more fields than the table holds fails with
// [errors.ErrTooManyHeaders].
func ParseHead(buf []byte, table []model.RawField, h *Head) (n int, complete bool, err error) {
	line, pos, ok := readLine(buf, 0)
	if !ok {
		k := len(buf)
		if k > len(statusPrefix) {
			k = len(statusPrefix)
		}
		if !bytes.Equal(buf[:k], statusPrefix[:k]) {
			return 0, false, errors.ErrMalformedResponse.Wrap(errors.New("invalid status line prefix"))
		}
		return 0, false, nil
	}
	if err := parseStatusLine(line, h); err != nil {
		return 0, false, err
	}

	count := 0
	for {
		line, pos, ok = readLine(buf, pos)
		if !ok {
			return 0, false, nil
		}
		if len(line) == 0 {
			h.Fields = table[:count]
			return pos, true, nil
		}
		if line[0] == ' ' || line[0] == '\t' {
			return 0, false, errors.ErrMalformedResponse.Wrap(errors.New("obsolete line folding"))
		}
		colon := bytes.IndexByte(line, ':')
		if colon <= 0 {
			return 0, false, errors.ErrMalformedResponse.Wrap(errors.New("header line without name"))
		}
		name := line[:colon]
		for _, c := range name {
			if !httpguts.IsTokenRune(rune(c)) {
				return 0, false, errors.ErrMalformedResponse.Wrap(errors.New("invalid header field name"))
			}
		}
		value := trimOWS(line[colon+1:])
		if !validText(value) {
			return 0, false, errors.ErrMalformedResponse.Wrap(errors.New("invalid header field value"))
		}
		if count == len(table) {
			return 0, false, errors.ErrTooManyHeaders
		}
		table[count] = model.RawField{Name: name, Value: value}
		count++
	}
}

// parseStatusLine accepts "HTTP/1.x SP 3DIGIT [SP reason]".
func parseStatusLine(line []byte, h *Head) error {
	if len(line) < 12 || !bytes.HasPrefix(line, statusPrefix) || !isDigit(line[7]) || line[8] != ' ' {
		return errors.ErrMalformedResponse.Wrap(errors.New("invalid status line"))
	}
	if !isDigit(line[9]) || !isDigit(line[10]) || !isDigit(line[11]) {
		return errors.ErrMalformedResponse.Wrap(errors.New("invalid status code"))
	}
	h.Version = line[7] - '0'
	h.Code = uint16(line[9]-'0')*100 + uint16(line[10]-'0')*10 + uint16(line[11]-'0')
	h.Reason = line[12:]
	if len(h.Reason) > 0 {
		if h.Reason[0] != ' ' {
			return errors.ErrMalformedResponse.Wrap(errors.New("invalid status code"))
		}
		h.Reason = h.Reason[1:]
	}
	if !validText(h.Reason) {
		return errors.ErrMalformedResponse.Wrap(errors.New("invalid reason phrase"))
	}
	return nil
}

// readLine returns the line starting at pos without its CRLF (or bare LF)
// and the position right after the terminator.
func readLine(buf []byte, pos int) (line []byte, next int, ok bool) {
	i := bytes.IndexByte(buf[pos:], '\n')
	if i < 0 {
		return nil, pos, false
	}
	line = buf[pos : pos+i]
	if len(line) > 0 && line[len(line)-1] == '\r' {
		line = line[:len(line)-1]
	}
	return line, pos + i + 1, true
}

func trimOWS(b []byte) []byte {
	for len(b) > 0 && (b[0] == ' ' || b[0] == '\t') {
		b = b[1:]
	}
	for len(b) > 0 && (b[len(b)-1] == ' ' || b[len(b)-1] == '\t') {
		b = b[:len(b)-1]
	}
	return b
}

// validText allows HTAB, SP, VCHAR and obs-text.
func validText(b []byte) bool {
	for _, c := range b {
		if (c < ' ' && c != '\t') || c == 0x7f {
			return false
		}
	}
	return true
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }
