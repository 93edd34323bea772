// Package dialer exposes the dialers a Client opens its connections with.
package dialer

import (
	"github.com/frankli0324/go-fixhttp/internal/dialer"
)

// Dialers are responsible for creating the streams requests are written to
// and responses are read from, for example a raw TCP connection or a tunnel
// through an HTTP proxy.
//
// A Dialer MUST NOT hold active connection states, which means a Dialer must
// be able to be swapped out from a [Client] without pain. It SHOULD hold the
// connection related configs like [ProxyConfig] or [ResolveConfig].
type Dialer = dialer.Dialer

// CoreDialer is the default implementation of the [Dialer] interface. It would
// be used by a zero value [Client].
type CoreDialer = dialer.CoreDialer

// ProxyConfig configures tunnels opened with an HTTP CONNECT. The handshake
// is run by the engine itself.
type ProxyConfig = dialer.ProxyConfig

// we need a dedicated resolver for two scenarios:
//
//  1. Resolve remote address locally in proxied requests
//  2. to customize the DNS server used for resolving hostname
//
// the standard library didn't provide a intuitive way of
// setting DNS server addresses since it only follows the
// system configuration (e.g. /etc/resolv.conf), leaving us only
// one option of using [net.Resolver.Dial] hook with a Go Resolver.
//
// this part of code tries to take advantage of that
// only option as far as possible to provide a relativly
// intuitive configuration API.
type ResolveConfig = dialer.ResolveConfig

var ErrProxyRefused = dialer.ErrProxyRefused

// SplitAddr splits host[:port], defaulting the port to 80.
func SplitAddr(hostport string) (host, port string) {
	return dialer.SplitAddr(hostport)
}
