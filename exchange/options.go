package exchange

import (
	"net/http"
	"time"
)

const DefaultMaxRedirects = 10

type Options struct {
	Timeout         time.Duration
	FollowRedirects bool
	MaxRedirects    int
	SkipVerify      bool
	ForceHTTP1      bool

	// DefaultHeaders are applied to a request only when the header is not
	// already set.
	DefaultHeaders map[string]string

	// Transport overrides the transport of the underlying client. Used by
	// tests.
	Transport http.RoundTripper
}
