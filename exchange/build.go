package exchange

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"io/ioutil"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/HexmosTech/req/input"
	"github.com/HexmosTech/req/version"
	"github.com/pkg/errors"
)

// BuildHTTPRequest turns plan into an *http.Request bound to ctx. stdin is
// read when the raw body comes from "-".
func BuildHTTPRequest(ctx context.Context, plan *input.Plan, stdin io.Reader, options *Options) (*http.Request, error) {
	body, err := buildHTTPBody(plan, stdin)
	if err != nil {
		return nil, err
	}

	var reader io.Reader
	if body.content != nil {
		reader = bytes.NewReader(body.content)
	}
	u := *plan.URL
	r, err := http.NewRequestWithContext(ctx, string(plan.Method), u.String(), reader)
	if err != nil {
		return nil, errors.Wrap(err, "building HTTP request")
	}

	r.Header = buildHTTPHeader(plan, options)
	if r.Header.Get("Content-Type") == "" && body.contentType != "" {
		r.Header.Set("Content-Type", body.contentType)
	}
	if r.Header.Get("User-Agent") == "" {
		r.Header.Set("User-Agent", version.UserAgent())
	}
	if host := r.Header.Get("Host"); host != "" {
		r.Host = host
	}
	return r, nil
}

func buildHTTPHeader(plan *input.Plan, options *Options) http.Header {
	header := make(http.Header)
	for _, field := range plan.Header.Fields() {
		header.Set(field.Name, field.Value)
	}
	if options != nil {
		for name, value := range options.DefaultHeaders {
			if header.Get(name) == "" {
				header.Set(name, value)
			}
		}
	}
	return header
}

type bodyTuple struct {
	content     []byte
	contentType string
}

func buildHTTPBody(plan *input.Plan, stdin io.Reader) (bodyTuple, error) {
	switch plan.Body.BodyType {
	case input.EmptyBody:
		return bodyTuple{}, nil
	case input.JSONBody:
		return buildJSONBody(plan.Body.JSON)
	case input.FormBody:
		return buildFormBody(plan.Body.Form)
	case input.RawBody:
		return buildRawBody(plan.Body.File, stdin)
	default:
		return bodyTuple{}, errors.Errorf("unknown body type: %v", plan.Body.BodyType)
	}
}

func buildJSONBody(obj *input.Object) (bodyTuple, error) {
	// --json without request items sends no body
	if obj == nil || obj.Len() == 0 {
		return bodyTuple{}, nil
	}
	body, err := json.Marshal(obj)
	if err != nil {
		return bodyTuple{}, errors.Wrap(err, "marshaling JSON of HTTP body")
	}
	return bodyTuple{
		content:     body,
		contentType: "application/json",
	}, nil
}

func buildFormBody(form *input.Params) (bodyTuple, error) {
	if form == nil || form.Len() == 0 {
		return bodyTuple{}, nil
	}
	return bodyTuple{
		content:     []byte(form.Encode()),
		contentType: "application/x-www-form-urlencoded; charset=utf-8",
	}, nil
}

func buildRawBody(file string, stdin io.Reader) (bodyTuple, error) {
	if file == "-" {
		if stdin == nil {
			return bodyTuple{}, errors.New("reading request body from STDIN: no input")
		}
		data, err := ioutil.ReadAll(stdin)
		if err != nil {
			return bodyTuple{}, errors.Wrap(err, "reading request body from STDIN")
		}
		return bodyTuple{
			content:     data,
			contentType: "application/json",
		}, nil
	}

	data, err := ioutil.ReadFile(file)
	if err != nil {
		return bodyTuple{}, &BodyFileError{Path: file, Err: err}
	}
	contentType := mime.TypeByExtension(filepath.Ext(file))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return bodyTuple{
		content:     data,
		contentType: contentType,
	}, nil
}

// BodyFileError means the file named by --file could not be read.
type BodyFileError struct {
	Path string
	Err  error
}

func (e *BodyFileError) Error() string {
	return "reading request body from " + e.Path + ": " + e.Err.Error()
}

func (e *BodyFileError) Unwrap() error {
	return e.Err
}
