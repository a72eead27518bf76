package exchange

import (
	"crypto/tls"
	"net/http"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
)

func BuildHTTPClient(options *Options) (*http.Client, error) {
	checkRedirect := func(req *http.Request, via []*http.Request) error {
		// Do not follow redirects
		return http.ErrUseLastResponse
	}
	if options.FollowRedirects {
		limit := options.MaxRedirects
		if limit <= 0 {
			limit = DefaultMaxRedirects
		}
		checkRedirect = func(req *http.Request, via []*http.Request) error {
			if len(via) >= limit {
				return errors.Errorf("stopped after %d redirects", limit)
			}
			return nil
		}
	}

	client := http.Client{
		CheckRedirect: checkRedirect,
		Timeout:       options.Timeout,
	}

	var transp http.RoundTripper
	if options.Transport == nil {
		transp = http.DefaultTransport.(*http.Transport).Clone()
	} else {
		transp = options.Transport
	}
	if httpTransport, ok := transp.(*http.Transport); ok {
		if httpTransport.TLSClientConfig == nil {
			httpTransport.TLSClientConfig = &tls.Config{}
		}
		httpTransport.TLSClientConfig.InsecureSkipVerify = options.SkipVerify
		if options.ForceHTTP1 {
			httpTransport.TLSClientConfig.NextProtos = []string{"http/1.1", "http/1.0"}
			httpTransport.TLSNextProto = make(map[string]func(string, *tls.Conn) http.RoundTripper)
			httpTransport.ForceAttemptHTTP2 = false
		}
	}
	client.Transport = transp

	return &client, nil
}

// Client sends a single request and measures how long the exchange took.
type Client struct {
	http  *http.Client
	clock clock.Clock
}

type ClientOption func(*Client)

// WithClock replaces the clock used to measure elapsed time.
func WithClock(c clock.Clock) ClientOption {
	return func(client *Client) {
		client.clock = c
	}
}

func NewClient(options *Options, opts ...ClientOption) (*Client, error) {
	httpClient, err := BuildHTTPClient(options)
	if err != nil {
		return nil, err
	}
	client := &Client{
		http:  httpClient,
		clock: clock.New(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}
