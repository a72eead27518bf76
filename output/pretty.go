package output

import (
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
	"mime"
	"net/http"
	"strings"

	"github.com/logrusorgru/aurora"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

type PrettyPrinter struct {
	writer         io.Writer
	plain          Printer
	aurora         aurora.Aurora
	enableColor    bool
	pick           string
	diag           *Diagnostics
	headerPalette  *HeaderPalette
	requestPalette *RequestPalette
}

type PrettyPrinterConfig struct {
	Writer      io.Writer
	EnableColor bool
	// Pick is a gjson path. When set, only the matching part of a JSON body
	// is printed.
	Pick string
	// Diagnostics receives warnings. Nil discards them.
	Diagnostics *Diagnostics
}

type HeaderPalette struct {
	Proto          aurora.Color
	Success        aurora.Color
	Redirect       aurora.Color
	ClientError    aurora.Color
	ServerError    aurora.Color
	FieldName      aurora.Color
	FieldValue     aurora.Color
	FieldSeparator aurora.Color
}

var defaultHeaderPalette = HeaderPalette{
	Proto:          aurora.BlueFg,
	Success:        aurora.GreenFg | aurora.BoldFm,
	Redirect:       aurora.BrownFg | aurora.BoldFm,
	ClientError:    aurora.RedFg | aurora.BoldFm,
	ServerError:    aurora.MagentaFg | aurora.BoldFm,
	FieldName:      aurora.BrightFg | aurora.BlackFg,
	FieldValue:     aurora.CyanFg,
	FieldSeparator: aurora.BrightFg | aurora.BlackFg,
}

type RequestPalette struct {
	Method aurora.Color
	URL    aurora.Color
	Proto  aurora.Color
}

var defaultRequestPalette = RequestPalette{
	Method: aurora.GreenFg | aurora.BoldFm,
	URL:    aurora.CyanFg,
	Proto:  aurora.BlueFg,
}

func NewPrettyPrinter(config PrettyPrinterConfig) Printer {
	diag := config.Diagnostics
	if diag == nil {
		diag = NewDiagnostics(ioutil.Discard, false)
	}
	return &PrettyPrinter{
		writer:         config.Writer,
		plain:          NewPlainPrinter(config.Writer),
		aurora:         aurora.NewAurora(config.EnableColor),
		enableColor:    config.EnableColor,
		pick:           config.Pick,
		diag:           diag,
		headerPalette:  &defaultHeaderPalette,
		requestPalette: &defaultRequestPalette,
	}
}

func (p *PrettyPrinter) PrintStatusLine(proto string, status string, statusCode int) error {
	fmt.Fprintf(p.writer, "%s %s\n",
		p.aurora.Colorize(proto, p.headerPalette.Proto),
		p.aurora.Colorize(status, p.statusColor(statusCode)))
	return nil
}

func (p *PrettyPrinter) statusColor(code int) aurora.Color {
	switch {
	case code >= 200 && code < 300:
		return p.headerPalette.Success
	case code >= 300 && code < 400:
		return p.headerPalette.Redirect
	case code >= 400 && code < 500:
		return p.headerPalette.ClientError
	default:
		return p.headerPalette.ServerError
	}
}

func (p *PrettyPrinter) PrintRequestLine(req *http.Request) error {
	fmt.Fprintf(p.writer, "%s %s %s\n",
		p.aurora.Colorize(req.Method, p.requestPalette.Method),
		p.aurora.Colorize(req.URL, p.requestPalette.URL),
		p.aurora.Colorize(req.Proto, p.requestPalette.Proto))
	return nil
}

func (p *PrettyPrinter) PrintHeader(header http.Header) error {
	for _, name := range sortedNames(header) {
		for _, value := range header[name] {
			fmt.Fprintf(p.writer, "%s%s %s\n",
				p.aurora.Colorize(name, p.headerPalette.FieldName),
				p.aurora.Colorize(":", p.headerPalette.FieldSeparator),
				p.aurora.Colorize(value, p.headerPalette.FieldValue))
		}
	}

	fmt.Fprintln(p.writer)
	return nil
}

// isJSON reports whether contentType is application/json or a +json type.
// Parameters and case are ignored.
func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	}
	mediaType = strings.ToLower(mediaType)
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

func (p *PrettyPrinter) PrintBody(body io.Reader, contentType string) error {
	// Fallback to PlainPrinter when the body is not JSON
	if !isJSON(contentType) {
		return p.plain.PrintBody(body, contentType)
	}

	data, err := ioutil.ReadAll(body)
	if err != nil {
		return errors.WithStack(err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return p.plain.PrintBody(bytes.NewReader(data), contentType)
	}
	if !gjson.ValidBytes(data) {
		p.diag.Warnf("response body is not valid JSON; printing it as is")
		return p.plain.PrintBody(bytes.NewReader(data), contentType)
	}

	if p.pick != "" {
		result := gjson.GetBytes(data, p.pick)
		if !result.Exists() {
			p.diag.Warnf("nothing matched --pick %s", p.pick)
			return nil
		}
		data = []byte(result.Raw)
	}

	formatted := pretty.PrettyOptions(data, &pretty.Options{
		Width:    80,
		Prefix:   "",
		Indent:   "    ",
		SortKeys: true,
	})
	if p.enableColor {
		formatted = pretty.Color(formatted, pretty.TerminalStyle)
	}
	if _, err := p.writer.Write(formatted); err != nil {
		return errors.Wrap(err, "printing response body")
	}
	return nil
}
