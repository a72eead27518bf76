package exchange

import (
	"net/http"
	"time"
)

// TransportError means no response was received: the connection failed,
// the exchange timed out or it was interrupted.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "sending HTTP request: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Do sends r and returns the response along with the time elapsed until the
// response header arrived. Any failure is a *TransportError.
func (c *Client) Do(r *http.Request) (*http.Response, time.Duration, error) {
	start := c.clock.Now()
	resp, err := c.http.Do(r)
	elapsed := c.clock.Since(start)
	if err != nil {
		return nil, elapsed, &TransportError{Err: err}
	}
	return resp, elapsed, nil
}
