package engine

import (
	"github.com/rs/zerolog"
)

const (
	DefaultInboundCapacity  = 1024
	DefaultOutboundCapacity = 256
	DefaultMaxHeaders       = 16
)

// Config fixes the memory budget of a Connection. Zero values take the defaults.
type Config struct {
	// InboundCapacity bounds the scratch buffer holding a response head.
	InboundCapacity int
	// OutboundCapacity bounds the serialized request head; payloads are sent
	// straight from the caller's slice and do not count against it.
	OutboundCapacity int
	// MaxHeaders is the size of the response header table.
	MaxHeaders int

	Logger *zerolog.Logger
}

func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	return &Config{
		InboundCapacity:  c.InboundCapacity,
		OutboundCapacity: c.OutboundCapacity,
		MaxHeaders:       c.MaxHeaders,
		Logger:           c.Logger,
	}
}

func (c *Config) withDefaults() Config {
	var out Config
	if c != nil {
		out = *c
	}
	if out.InboundCapacity <= 0 {
		out.InboundCapacity = DefaultInboundCapacity
	}
	if out.OutboundCapacity <= 0 {
		out.OutboundCapacity = DefaultOutboundCapacity
	}
	if out.MaxHeaders <= 0 {
		out.MaxHeaders = DefaultMaxHeaders
	}
	if out.Logger == nil {
		nop := zerolog.Nop()
		out.Logger = &nop
	}
	return out
}
