package output

import (
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/HexmosTech/req/input"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResponse(statusCode int, contentType, body string) *http.Response {
	header := http.Header{}
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	return &http.Response{
		Status:     fmt.Sprintf("%d %s", statusCode, http.StatusText(statusCode)),
		StatusCode: statusCode,
		Proto:      "HTTP/1.1",
		Header:     header,
		Body:       ioutil.NopCloser(strings.NewReader(body)),
	}
}

func defaultOptions() *Options {
	return &Options{
		PrintResponseHeader: true,
		PrintResponseBody:   true,
		EnableFormat:        true,
	}
}

func TestRenderer_Render(t *testing.T) {
	// Setup
	var stdout, stderr strings.Builder
	renderer := NewRenderer(&stdout, NewDiagnostics(&stderr, false), defaultOptions())
	resp := newResponse(200, "application/json", `{"b": 1, "a": "x"}`)
	plan := &input.Plan{URL: parseURL(t, "http://example.com/")}

	// Exercise
	outcome, err := renderer.Render(resp, plan)
	require.NoError(t, err)

	// Verify
	expected := strings.Join([]string{
		"HTTP/1.1 200 OK",
		"Content-Type: application/json",
		"",
		"{",
		`    "a": "x",`,
		`    "b": 1`,
		"}",
		"",
	}, "\n")
	assert.Equal(t, expected, stdout.String())
	assert.Empty(t, stderr.String())
	assert.Equal(t, &Outcome{StatusCode: 200}, outcome)
}

func TestRenderer_Render_ErrorStatusRenderedAlike(t *testing.T) {
	var stdout strings.Builder
	renderer := NewRenderer(&stdout, NewDiagnostics(ioutil.Discard, false), defaultOptions())
	resp := newResponse(404, "text/plain", "no such thing\n")
	plan := &input.Plan{URL: parseURL(t, "http://example.com/x")}

	outcome, err := renderer.Render(resp, plan)
	require.NoError(t, err)

	assert.Equal(t, "HTTP/1.1 404 Not Found\nContent-Type: text/plain\n\nno such thing\n", stdout.String())
	assert.Equal(t, 404, outcome.StatusCode)
}

func TestRenderer_Render_InvalidJSON(t *testing.T) {
	var stdout, stderr strings.Builder
	options := defaultOptions()
	options.PrintResponseHeader = false
	renderer := NewRenderer(&stdout, NewDiagnostics(&stderr, false), options)
	resp := newResponse(200, "application/json", "not json")
	plan := &input.Plan{URL: parseURL(t, "http://example.com/")}

	outcome, err := renderer.Render(resp, plan)
	require.NoError(t, err)

	assert.Equal(t, "not json", stdout.String())
	assert.Contains(t, stderr.String(), "warning:")
	assert.Equal(t, 200, outcome.StatusCode)
}

func TestRenderer_Render_Raw(t *testing.T) {
	var stdout strings.Builder
	options := defaultOptions()
	options.EnableFormat = false
	options.PrintResponseHeader = false
	renderer := NewRenderer(&stdout, NewDiagnostics(ioutil.Discard, false), options)
	resp := newResponse(200, "application/json", `{"b":1,"a":2}`)
	plan := &input.Plan{URL: parseURL(t, "http://example.com/")}

	_, err := renderer.Render(resp, plan)
	require.NoError(t, err)

	assert.Equal(t, `{"b":1,"a":2}`, stdout.String())
}

func TestRenderer_Render_Save(t *testing.T) {
	// Setup
	var stdout, stderr strings.Builder
	renderer := NewRenderer(&stdout, NewDiagnostics(&stderr, false), defaultOptions())
	body := "\x00\x01binary\xffcontent"
	resp := newResponse(200, "application/octet-stream", body)
	path := filepath.Join(t.TempDir(), "saved.bin")
	plan := &input.Plan{
		URL:  parseURL(t, "http://example.com/files/ignored.bin"),
		Save: input.Save{Enabled: true, Path: path},
	}

	// Exercise
	outcome, err := renderer.Render(resp, plan)
	require.NoError(t, err)

	// Verify
	assert.Equal(t, "HTTP/1.1 200 OK\nContent-Type: application/octet-stream\n\n", stdout.String())
	assert.Equal(t, "Saved to "+path+" (16B)\n", stderr.String())
	assert.Equal(t, path, outcome.SavedTo)
	assert.Equal(t, int64(len(body)), outcome.Written)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte(body), content)
}

func TestRenderer_Render_SaveFailure(t *testing.T) {
	var stdout strings.Builder
	renderer := NewRenderer(&stdout, NewDiagnostics(ioutil.Discard, false), defaultOptions())
	resp := newResponse(200, "text/plain", "hello")
	plan := &input.Plan{
		URL:  parseURL(t, "http://example.com/"),
		Save: input.Save{Enabled: true, Path: filepath.Join(t.TempDir(), "no", "such", "dir")},
	}

	_, err := renderer.Render(resp, plan)

	var fileErr *FileIOError
	require.ErrorAs(t, err, &fileErr)
	assert.Equal(t, "HTTP/1.1 200 OK\nContent-Type: text/plain\n\n", stdout.String())
}

func TestRenderer_Render_BodyReadError(t *testing.T) {
	testCases := []struct {
		title       string
		contentType string
	}{
		{title: "Plain", contentType: "text/plain"},
		{title: "JSON", contentType: "application/json"},
	}
	for _, tt := range testCases {
		t.Run(tt.title, func(t *testing.T) {
			var stdout strings.Builder
			renderer := NewRenderer(&stdout, NewDiagnostics(ioutil.Discard, false), defaultOptions())
			resp := newResponse(200, tt.contentType, "")
			resp.Body = ioutil.NopCloser(&failingReader{data: `{"a":`})
			plan := &input.Plan{URL: parseURL(t, "http://example.com/")}

			_, err := renderer.Render(resp, plan)

			var readErr *BodyReadError
			require.ErrorAs(t, err, &readErr)
			assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
		})
	}
}

func TestRenderer_RenderRequest(t *testing.T) {
	// Setup
	var stdout strings.Builder
	options := defaultOptions()
	options.PrintRequestHeader = true
	options.PrintRequestBody = true
	renderer := NewRenderer(&stdout, NewDiagnostics(ioutil.Discard, false), options)
	req, err := http.NewRequest("POST", "http://example.com/items", strings.NewReader(`{"name":"x"}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	// Exercise
	err = renderer.RenderRequest(req)
	require.NoError(t, err)

	// Verify
	expected := strings.Join([]string{
		"POST http://example.com/items HTTP/1.1",
		"Content-Type: application/json",
		"Host: example.com",
		"",
		"{",
		`    "name": "x"`,
		"}",
		"",
		"",
	}, "\n")
	assert.Equal(t, expected, stdout.String())
}

func TestRenderer_RenderRequest_Nothing(t *testing.T) {
	var stdout strings.Builder
	renderer := NewRenderer(&stdout, NewDiagnostics(ioutil.Discard, false), defaultOptions())
	req, err := http.NewRequest("GET", "http://example.com/", nil)
	require.NoError(t, err)

	require.NoError(t, renderer.RenderRequest(req))

	assert.Empty(t, stdout.String())
}
