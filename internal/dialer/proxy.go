package dialer

import (
	"context"
	"encoding/base64"
	"fmt"
	"net"
	"net/url"

	"github.com/frankli0324/go-fixhttp/internal/engine"
	"github.com/frankli0324/go-fixhttp/internal/errors"
	"github.com/frankli0324/go-fixhttp/internal/handler"
	"github.com/frankli0324/go-fixhttp/internal/model"
	"github.com/frankli0324/go-fixhttp/internal/source"
	"github.com/frankli0324/go-fixhttp/internal/transport"
)

type ProxyConfig struct {
	ResolveLocally bool
	ResolveConfig  *ResolveConfig // overrides the resolver config for dialer for proxy
}

func (c *ProxyConfig) Clone() *ProxyConfig {
	if c == nil {
		return nil
	}
	return &ProxyConfig{
		ResolveLocally: c.ResolveLocally,
		ResolveConfig:  c.ResolveConfig.Clone(),
	}
}

// ErrProxyRefused is returned when the proxy answers CONNECT with anything but 200.
var ErrProxyRefused = errors.ErrProxyRefused

func (d *CoreDialer) tryDialProxy(ctx context.Context, r *model.PreparedRequest, hp string) (net.Conn, error) {
	if d.GetProxy == nil {
		return nil, nil
	}
	proxy, err := d.GetProxy(ctx, r.Request)
	if err != nil || proxy == "" {
		return nil, err
	}
	proxyU, err := url.Parse(proxy)
	if err != nil {
		return nil, err
	}
	return d.DialContextOverProxy(ctx, hp, proxyU)
}

// DialContextOverProxy opens a tunnel to remote (host:port) with an HTTP CONNECT.
// The handshake runs on the engine itself and is read one byte at a time, so
// nothing the target sends after the proxy's response head is consumed.
func (d *CoreDialer) DialContextOverProxy(ctx context.Context, remote string, proxy *url.URL) (net.Conn, error) {
	if proxy.Scheme != "http" {
		return nil, errors.New("unsupported proxy scheme:" + proxy.Scheme)
	}
	phost, pport := SplitAddr(proxy.Host)
	conn, err := d.dialDirect(ctx, d.ResolveConfig, phost, pport)
	if err != nil {
		return nil, err
	}

	addr, port := SplitAddr(remote)
	if d.ProxyConfig != nil && d.ProxyConfig.ResolveLocally {
		addr, err = d.resolveHost(ctx, d.ProxyConfig.ResolveConfig.Merge(d.ResolveConfig), addr)
		if err != nil {
			conn.Close()
			return nil, err
		}
	}

	target := net.JoinHostPort(addr, port)
	fields := []model.Field{{Name: "Host", Value: remote}}
	if auth := proxy.User.String(); auth != "" {
		fields = append(fields, model.Field{
			Name:  "Proxy-Authorization",
			Value: "Basic " + base64.StdEncoding.EncodeToString([]byte(auth)),
		})
	}
	if err := d.connect(ctx, conn, target, fields); err != nil {
		conn.Close()
		return nil, err
	}
	d.log().Debug().Str("proxy", proxy.Host).Str("target", target).Msg("tunnel established")
	return conn, nil
}

// untilStatus ends the pump as soon as the status line has been delivered:
// a successful CONNECT response has no body, the tunnel starts right after it.
type untilStatus struct {
	*engine.Request
}

func (u untilStatus) Done() bool {
	return u.Request.Done() || u.StatusSeen()
}

func (d *CoreDialer) connect(ctx context.Context, conn net.Conn, target string, fields []model.Field) error {
	h := handler.NewBuffer(0)
	h.Logger = d.Logger
	req, err := engine.NewConnection(&engine.Config{Logger: d.Logger}).
		Begin("CONNECT", target).
		Headers(fields).
		Handler(h).
		Execute(transport.WriterSink{Writer: conn})
	if err != nil {
		return err
	}
	defer req.Complete()

	pump := source.NewReader(conn, &source.Config{ReadBufferSize: 1, Logger: d.Logger})
	if err := pump.Pipe(ctx, untilStatus{req}); err != nil {
		return err
	}
	if h.Code() != 200 {
		return ErrProxyRefused.Wrap(fmt.Errorf("status %d %s", h.Code(), h.Reason()))
	}
	return nil
}
