package dialer

import (
	"context"
	"math/rand"
	"net"
)

// ResolveConfig controls how the dialer turns a request's host into an address.
type ResolveConfig struct {
	CustomDNSServer string            // host:port of a nameserver to query instead of the system one
	Network         string            // one of "ip4", "ip6", default is "ip"
	StaticHosts     map[string]string // host to address overrides, consulted before any lookup
}

func (c *ResolveConfig) Clone() *ResolveConfig {
	if c == nil {
		return nil
	}
	return &ResolveConfig{
		CustomDNSServer: c.CustomDNSServer,
		Network:         c.Network,
		StaticHosts:     c.StaticHosts,
	}
}

// Merge fills the fields c leaves empty from fallback. The result is never nil.
func (c *ResolveConfig) Merge(fallback *ResolveConfig) *ResolveConfig {
	out := &ResolveConfig{}
	if c != nil {
		out = c.Clone()
	}
	if fallback == nil {
		return out
	}
	if out.CustomDNSServer == "" {
		out.CustomDNSServer = fallback.CustomDNSServer
	}
	if out.Network == "" {
		out.Network = fallback.Network
	}
	if out.StaticHosts == nil {
		out.StaticHosts = fallback.StaticHosts
	}
	return out
}

func (c *ResolveConfig) ipNetwork() string {
	if c == nil || c.Network == "" {
		return "ip"
	}
	return c.Network
}

// tcpNetwork maps the address family onto the network passed to net.Dialer.
func (c *ResolveConfig) tcpNetwork() string {
	switch c.ipNetwork() {
	case "ip4":
		return "tcp4"
	case "ip6":
		return "tcp6"
	}
	return "tcp"
}

// nameserverKey carries the per-dial nameserver down to the resolver's Dial hook.
type nameserverKey struct{}

func withNameserver(ctx context.Context, server string) context.Context {
	if server == "" {
		return ctx
	}
	return context.WithValue(ctx, nameserverKey{}, server)
}

var nameserverResolver = net.Resolver{
	PreferGo: true,
	Dial: func(ctx context.Context, network, address string) (net.Conn, error) {
		if server, ok := ctx.Value(nameserverKey{}).(string); ok {
			address = server
		}
		return zeroDialer.DialContext(ctx, network, address)
	},
}

// resolveHost returns one address for host: a static override if cfg has
// one, otherwise a random pick among the lookup results.
func (d *CoreDialer) resolveHost(ctx context.Context, cfg *ResolveConfig, host string) (string, error) {
	if cfg != nil {
		if static, ok := cfg.StaticHosts[host]; ok {
			return static, nil
		}
	}
	var server string
	if cfg != nil {
		server = cfg.CustomDNSServer
	}
	ips, err := d.LookupIPServer(ctx, cfg.ipNetwork(), host, server)
	if err != nil {
		d.log().Debug().Err(err).Str("host", host).Str("nameserver", server).Msg("lookup failed")
		return "", err
	}
	ip := ips[rand.Intn(len(ips))].String()
	d.log().Debug().Str("host", host).Str("addr", ip).Int("candidates", len(ips)).Msg("resolved")
	return ip, nil
}

// LookupIPServer resolves host with the pure Go resolver, querying dns
// instead of the system nameserver when it is not empty. Dialers wrapping
// *[CoreDialer] can use it to resolve the same way Dial does.
func (d *CoreDialer) LookupIPServer(ctx context.Context, network, host, dns string) ([]net.IP, error) {
	return nameserverResolver.LookupIP(withNameserver(ctx, dns), network, host)
}
