package output

import (
	"fmt"
	"io"
)

// FileIOError means the response body could not be saved.
type FileIOError struct {
	Op   string // "create", "write" or "close"
	Path string
	Err  error
}

func (e *FileIOError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Op, e.Path, e.Err)
}

func (e *FileIOError) Unwrap() error {
	return e.Err
}

// BodyReadError means the response body could not be read from the
// connection. It is a network failure, not an output failure.
type BodyReadError struct {
	Err error
}

func (e *BodyReadError) Error() string {
	return fmt.Sprintf("reading response body: %s", e.Err)
}

func (e *BodyReadError) Unwrap() error {
	return e.Err
}

// bodyReader tags every read failure other than io.EOF as a BodyReadError.
type bodyReader struct {
	r io.Reader
}

func newBodyReader(r io.Reader) io.Reader {
	if _, ok := r.(*bodyReader); ok {
		return r
	}
	return &bodyReader{r: r}
}

func (b *bodyReader) Read(p []byte) (int, error) {
	n, err := b.r.Read(p)
	if err != nil && err != io.EOF {
		return n, &BodyReadError{Err: err}
	}
	return n, err
}
