package output

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Diagnostics writes one-line messages meant for the user, not for the
// response stream. Typically it wraps stderr.
type Diagnostics struct {
	writer io.Writer
	warn   *color.Color
	info   *color.Color
	err    *color.Color
}

func NewDiagnostics(writer io.Writer, enableColor bool) *Diagnostics {
	d := &Diagnostics{
		writer: writer,
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan),
		err:    color.New(color.FgRed, color.Bold),
	}
	for _, c := range []*color.Color{d.warn, d.info, d.err} {
		if enableColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return d
}

func (d *Diagnostics) Warnf(format string, args ...interface{}) {
	d.warn.Fprint(d.writer, "warning:")
	fmt.Fprintf(d.writer, " "+format+"\n", args...)
}

func (d *Diagnostics) Infof(format string, args ...interface{}) {
	d.info.Fprintf(d.writer, format, args...)
	fmt.Fprintln(d.writer)
}

func (d *Diagnostics) Errorf(format string, args ...interface{}) {
	d.err.Fprint(d.writer, "ERROR:")
	fmt.Fprintf(d.writer, " "+format+"\n", args...)
}
