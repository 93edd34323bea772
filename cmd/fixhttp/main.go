package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/rs/zerolog"

	fixhttp "github.com/frankli0324/go-fixhttp"
)

type headers []fixhttp.Field

func (h *headers) String() string { return fmt.Sprint(*h) }

func (h *headers) Set(v string) error {
	name, value, ok := strings.Cut(v, ":")
	if !ok {
		return fmt.Errorf("header %q is not in Name: value form", v)
	}
	*h = append(*h, fixhttp.Field{Name: strings.TrimSpace(name), Value: strings.TrimSpace(value)})
	return nil
}

func main() {
	var (
		addr    = flag.String("addr", "127.0.0.1:80", "host[:port] to connect to")
		method  = flag.String("method", "GET", "request method")
		path    = flag.String("path", "/", "request target")
		data    = flag.String("d", "", "request body, sent with a Content-Length when set")
		pump    = flag.String("pump", "reader", "one of "+strings.Join(fixhttp.Pumps(), ", "))
		inbound = flag.Int("inbound", 0, "response head buffer size, 0 for the default")
		body    = flag.Int("body", 0, "response body capture size, 0 for the default")
		verbose = flag.Bool("v", false, "log the exchange")
		fields  headers
	)
	flag.Var(&fields, "H", "request header, repeatable")
	flag.Parse()

	level := zerolog.WarnLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	c := &fixhttp.Client{
		Engine:       &fixhttp.Config{InboundCapacity: *inbound, Logger: &logger},
		Source:       &fixhttp.SourceConfig{Logger: &logger},
		BodyCapacity: *body,
		Pump:         *pump,
		Strict:       true,
		Logger:       &logger,
	}
	c.UseDialer(func(fixhttp.Dialer) fixhttp.Dialer {
		return &fixhttp.CoreDialer{Logger: &logger}
	})

	req := &fixhttp.Request{Addr: *addr, Method: *method, Path: *path, Header: fields}
	if *data != "" {
		req.Body = *data
	}
	res, err := c.CtxDo(ctx, req)
	if res != nil {
		fmt.Printf("HTTP/1.%d %d %s\n", res.Version, res.Code, res.Reason)
		os.Stdout.Write(res.Body)
		if res.Truncated {
			logger.Warn().Msg("body truncated, raise -body to capture all of it")
		}
	}
	if err != nil {
		logger.Error().Err(err).Stringer("outcome", outcome(res)).Msg("exchange failed")
		os.Exit(1)
	}
}

func outcome(res *fixhttp.Result) fixhttp.Outcome {
	if res == nil {
		return 0
	}
	return res.Outcome
}
