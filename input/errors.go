package input

import (
	"fmt"

	"github.com/pkg/errors"
)

type UsageError string

func (e *UsageError) Error() string {
	return string(*e)
}

// NewUsageError reports a malformed command line.
func NewUsageError(message string) error {
	u := UsageError(message)
	return errors.WithStack(&u)
}

func NewUsageErrorf(format string, args ...interface{}) error {
	return NewUsageError(fmt.Sprintf(format, args...))
}
