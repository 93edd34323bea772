package errors

import (
	stderrors "errors"
)

// Kind groups failures by the layer that produced them.
type Kind uint8

const (
	KindTransport Kind = iota + 1
	KindProtocol
	KindCapacity
	KindUsage
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindProtocol:
		return "protocol"
	case KindCapacity:
		return "capacity"
	case KindUsage:
		return "usage"
	}
	return "unknown"
}

type Error struct {
	msg  string
	kind Kind
	error
}

func (e Error) Error() string {
	msg := "fixhttp: " + e.msg
	if e.error != nil {
		msg += ", error: " + e.error.Error()
	}
	return msg
}

func (e Error) Kind() Kind { return e.kind }

func (e Error) Wrap(err error) Error {
	if err == nil {
		return e
	}
	return Error{e.msg, e.kind, err}
}

func (e Error) Unwrap() error {
	return e.error
}

// Is matches on the message only, so a wrapped error still equals its sentinel.
func (e Error) Is(err error) bool {
	if err, ok := err.(Error); ok {
		return e.msg == err.msg
	}
	return false
}

func reg(kind Kind, msg string) Error { return Error{msg, kind, nil} }

var (
	ErrSendFailed       = reg(KindTransport, "request send failed")
	ErrTransport        = reg(KindTransport, "transport failure")
	ErrConnectionClosed = reg(KindTransport, "connection closed")
	ErrProxyRefused     = reg(KindTransport, "proxy refused CONNECT")

	ErrMalformedResponse  = reg(KindProtocol, "malformed response head")
	ErrTooManyHeaders     = reg(KindProtocol, "too many response headers")
	ErrIncompleteResponse = reg(KindProtocol, "connection closed before response was complete")

	ErrRequestTooLarge = reg(KindCapacity, "request head exceeds outbound buffer")
	ErrHeaderTooLarge  = reg(KindCapacity, "response head exceeds inbound buffer")

	ErrConnectionBusy   = reg(KindUsage, "connection already has an active request")
	ErrRequestDissolved = reg(KindUsage, "request already completed and handed back")
)

// KindOf reports the Kind of the first Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e Error
	if stderrors.As(err, &e) {
		return e.kind
	}
	return 0
}

// Is and As are re-exported so importing this package does not shadow the standard ones.
func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target interface{}) bool { return stderrors.As(err, target) }

func New(text string) error { return stderrors.New(text) }
