package dialer

import (
	"context"
	"net"
	"time"

	"github.com/rs/zerolog"

	"github.com/frankli0324/go-fixhttp/internal/model"
)

// Dialers handle pretty much everything related to the actual connection,
// including setting a proxy for each request, setting resolvers, etc.
type Dialer interface {
	// Dial returns the stream the request is written to and the response read from.
	Dial(ctx context.Context, r *model.PreparedRequest) (net.Conn, error)
	Unwrap() Dialer
}

type CoreDialer struct {
	ResolveConfig *ResolveConfig

	GetProxy    func(ctx context.Context, r *model.Request) (string, error)
	ProxyConfig *ProxyConfig

	Timeout time.Duration // per dial, zero means no limit besides ctx
	Logger  *zerolog.Logger
}

func (d *CoreDialer) Clone() *CoreDialer {
	return &CoreDialer{
		ResolveConfig: d.ResolveConfig.Clone(),
		GetProxy:      d.GetProxy,
		ProxyConfig:   d.ProxyConfig.Clone(),
		Timeout:       d.Timeout,
		Logger:        d.Logger,
	}
}

func (d *CoreDialer) Unwrap() Dialer {
	return nil
}

func (d *CoreDialer) log() *zerolog.Logger {
	if d.Logger == nil {
		nop := zerolog.Nop()
		return &nop
	}
	return d.Logger
}
