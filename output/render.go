package output

import (
	"fmt"
	"io"
	"net/http"

	"code.cloudfoundry.org/bytefmt"
	"github.com/HexmosTech/req/input"
	"github.com/pkg/errors"
)

// Outcome describes what Render did with a response.
type Outcome struct {
	StatusCode int
	// SavedTo is the path the body was written to, or empty.
	SavedTo string
	Written int64
}

type Renderer struct {
	writer  io.Writer
	diag    *Diagnostics
	options *Options
	printer Printer
}

// NewRenderer returns a Renderer printing to writer. Warnings and notices go
// to diag.
func NewRenderer(writer io.Writer, diag *Diagnostics, options *Options) *Renderer {
	var printer Printer
	if options.EnableFormat {
		printer = NewPrettyPrinter(PrettyPrinterConfig{
			Writer:      writer,
			EnableColor: options.EnableColor,
			Pick:        options.Pick,
			Diagnostics: diag,
		})
	} else {
		printer = NewPlainPrinter(writer)
	}
	return &Renderer{
		writer:  writer,
		diag:    diag,
		options: options,
		printer: printer,
	}
}

// RenderRequest prints the outgoing request as far as Options asks for it.
func (r *Renderer) RenderRequest(req *http.Request) error {
	if r.options.PrintRequestHeader {
		if err := r.printer.PrintRequestLine(req); err != nil {
			return err
		}
		header := req.Header.Clone()
		if header.Get("Host") == "" {
			header.Set("Host", req.URL.Host)
		}
		if err := r.printer.PrintHeader(header); err != nil {
			return err
		}
	}
	if r.options.PrintRequestBody && req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return errors.Wrap(err, "reading request body")
		}
		defer body.Close()
		if err := r.printer.PrintBody(body, req.Header.Get("Content-Type")); err != nil {
			return err
		}
		fmt.Fprintln(r.writer)
	}
	return nil
}

// Render prints resp, or saves its body when plan asks for it. A non-2xx
// status is rendered like any other.
func (r *Renderer) Render(resp *http.Response, plan *input.Plan) (*Outcome, error) {
	outcome := &Outcome{StatusCode: resp.StatusCode}
	body := newBodyReader(resp.Body)

	if plan.Save.Enabled {
		if err := r.printResponseHeader(resp); err != nil {
			return outcome, err
		}
		fileWriter := NewFileWriter(plan.Save.Path, resp, plan.URL, r.options)
		written, err := fileWriter.Download(body)
		if err != nil {
			return outcome, err
		}
		outcome.SavedTo = fileWriter.Path()
		outcome.Written = written
		r.flush()
		r.diag.Infof("Saved to %s (%s)", fileWriter.Path(), bytefmt.ByteSize(uint64(written)))
		return outcome, nil
	}

	if r.options.PrintResponseHeader {
		if err := r.printResponseHeader(resp); err != nil {
			return outcome, err
		}
	}
	if r.options.PrintResponseBody {
		if err := r.printer.PrintBody(body, resp.Header.Get("Content-Type")); err != nil {
			return outcome, err
		}
	}
	return outcome, nil
}

func (r *Renderer) printResponseHeader(resp *http.Response) error {
	if err := r.printer.PrintStatusLine(resp.Proto, resp.Status, resp.StatusCode); err != nil {
		return err
	}
	return r.printer.PrintHeader(resp.Header)
}

// flush writes out buffered output so that it precedes the next diagnostic.
func (r *Renderer) flush() {
	if f, ok := r.writer.(interface{ Flush() error }); ok {
		f.Flush()
	}
}
