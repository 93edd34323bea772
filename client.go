package fixhttp

import (
	"github.com/frankli0324/go-fixhttp/internal"
)

type Client = internal.Client
type Result = internal.Result
type Middleware = internal.Middleware
type RoundTrip = internal.Handler

// Pumps lists the pump names a Client accepts on this platform.
func Pumps() []string { return internal.Pumps() }
