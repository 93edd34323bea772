package dialer

import (
	"context"
	"net"

	"github.com/frankli0324/go-fixhttp/internal/model"
)

const defaultPort = "80"

var zeroDialer net.Dialer
var nameserverDialer = net.Dialer{
	Resolver: &nameserverResolver,
}

// Dial connects to r.Addr, through a proxy when GetProxy names one.
func (d *CoreDialer) Dial(ctx context.Context, r *model.PreparedRequest) (net.Conn, error) {
	if d.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}
	addr, port := SplitAddr(r.Addr)
	hp := net.JoinHostPort(addr, port)

	conn, err := d.tryDialProxy(ctx, r, hp)
	if err != nil {
		return nil, err
	}
	if conn == nil {
		conn, err = d.dialDirect(ctx, d.ResolveConfig, addr, port)
		if err != nil {
			return nil, err
		}
	}
	d.log().Debug().Str("addr", hp).Stringer("remote", conn.RemoteAddr()).Msg("dialed")
	return conn, nil
}

// dialDirect leaves resolution to net.Dialer; a custom nameserver rides
// along in the context to the resolver's Dial hook
func (d *CoreDialer) dialDirect(ctx context.Context, cfg *ResolveConfig, addr, port string) (net.Conn, error) {
	network, dialer, dialctx, dst := cfg.tcpNetwork(), &zeroDialer, ctx, net.JoinHostPort(addr, port)
	if cfg != nil {
		if static, ok := cfg.StaticHosts[addr]; ok {
			dst = net.JoinHostPort(static, port)
		}
		if dns := cfg.CustomDNSServer; dns != "" {
			dialctx = withNameserver(dialctx, dns)
			dialer = &nameserverDialer
		}
	}
	conn, err := dialer.DialContext(dialctx, network, dst)
	if err != nil {
		return nil, err
	}
	if tc, ok := conn.(*net.TCPConn); ok {
		tc.SetNoDelay(true)
	}
	return conn, nil
}

// SplitAddr splits host[:port], defaulting the port to 80.
func SplitAddr(hostport string) (host, port string) {
	if h, p, err := net.SplitHostPort(hostport); err == nil {
		return h, p
	}
	return hostport, defaultPort
}
