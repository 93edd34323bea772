package source

import (
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultReadBufferSize = 512
	DefaultPollInterval   = 50 * time.Millisecond
)

type Config struct {
	// ReadBufferSize is the size of the buffer each read lands in before it is pushed.
	ReadBufferSize int
	// PollInterval bounds how long a pump blocks before it checks its context again.
	PollInterval time.Duration

	Logger *zerolog.Logger
}

func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	return &Config{
		ReadBufferSize: c.ReadBufferSize,
		PollInterval:   c.PollInterval,
		Logger:         c.Logger,
	}
}

func (c *Config) withDefaults() Config {
	var out Config
	if c != nil {
		out = *c
	}
	if out.ReadBufferSize <= 0 {
		out.ReadBufferSize = DefaultReadBufferSize
	}
	if out.PollInterval <= 0 {
		out.PollInterval = DefaultPollInterval
	}
	if out.Logger == nil {
		nop := zerolog.Nop()
		out.Logger = &nop
	}
	return out
}
