package output

import (
	"encoding/json"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reANSI = regexp.MustCompile("\x1b\\[[0-9;]*m")

func stripANSI(s string) string {
	return reANSI.ReplaceAllString(s, "")
}

func parseURL(t *testing.T, rawurl string) *url.URL {
	u, err := url.Parse(rawurl)
	if err != nil {
		t.Fatalf("failed to parse URL: url=%s, err=%s", u, err)
	}
	return u
}

func TestPrettyPrinter_PrintStatusLine(t *testing.T) {
	// Setup
	var buffer strings.Builder
	printer := NewPrettyPrinter(PrettyPrinterConfig{
		Writer:      &buffer,
		EnableColor: false,
	})
	response := &http.Response{
		Status:     "200 OK",
		StatusCode: 200,
		Proto:      "HTTP/1.1",
	}

	// Exercise
	err := printer.PrintStatusLine(response.Proto, response.Status, response.StatusCode)
	if err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}

	// Verify
	expected := "HTTP/1.1 200 OK\n"
	if buffer.String() != expected {
		t.Errorf("unexpected output: expected=%s, actual=%s", expected, buffer.String())
	}
}

func TestPrettyPrinter_PrintStatusLine_Colored(t *testing.T) {
	for _, code := range []int{200, 302, 404, 503} {
		var buffer strings.Builder
		printer := NewPrettyPrinter(PrettyPrinterConfig{
			Writer:      &buffer,
			EnableColor: true,
		})

		err := printer.PrintStatusLine("HTTP/1.1", http.StatusText(code), code)
		require.NoError(t, err)

		assert.Contains(t, buffer.String(), "\x1b[")
		assert.Equal(t, "HTTP/1.1 "+http.StatusText(code)+"\n", stripANSI(buffer.String()))
	}
}

func TestPrettyPrinter_PrintRequestLine(t *testing.T) {
	// Setup
	var buffer strings.Builder
	printer := NewPrettyPrinter(PrettyPrinterConfig{
		Writer:      &buffer,
		EnableColor: false,
	})
	request := &http.Request{
		Method: "GET",
		URL:    parseURL(t, "http://example.com/hello?foo=bar&hoge=piyo"),
		Proto:  "HTTP/1.1",
	}

	// Exercise
	err := printer.PrintRequestLine(request)
	if err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}

	// Verify
	expected := "GET http://example.com/hello?foo=bar&hoge=piyo HTTP/1.1\n"
	if buffer.String() != expected {
		t.Errorf("unexpected output: expected=%s, actual=%s", expected, buffer.String())
	}
}

func TestPrettyPrinter_PrintHeader(t *testing.T) {
	// Setup
	var buffer strings.Builder
	printer := NewPrettyPrinter(PrettyPrinterConfig{
		Writer:      &buffer,
		EnableColor: false,
	})
	header := http.Header{
		"Content-Type": []string{"application/json"},
		"X-Foo":        []string{"hello", "world", "aaa"},
		"Date":         []string{"Tue, 12 Feb 2019 16:01:54 GMT"},
	}

	// Exercise
	err := printer.PrintHeader(header)
	if err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}

	// Verify
	expected := strings.Join([]string{
		"Content-Type: application/json\n",
		"Date: Tue, 12 Feb 2019 16:01:54 GMT\n",
		"X-Foo: hello\n",
		"X-Foo: world\n",
		"X-Foo: aaa\n",
		"\n",
	}, "")
	if buffer.String() != expected {
		t.Errorf("unexpected output: expected=\n%s\n (len=%d)\nactual=\n%s\n (len=%d)",
			expected, len(expected), buffer.String(), len(buffer.String()))
	}
}

func TestPrettyPrinter_PrintBody(t *testing.T) {
	testCases := []struct {
		title           string
		body            string
		expected        string
		expectedWarning bool
	}{
		{
			title: "Normal JSON",
			body:  `{"zzz": "hello", "aaa": {"b": true, "a": null}}`,
			expected: strings.Join([]string{
				`{`,
				`    "aaa": {`,
				`        "a": null,`,
				`        "b": true`,
				`    },`,
				`    "zzz": "hello"`,
				"}\n",
			}, "\n"),
		},
		{
			title: "Escaped",
			body:  `{"\"": "aaa\nbbb"}`,
			expected: strings.Join([]string{
				`{`,
				`    "\"": "aaa\nbbb"`,
				"}\n",
			}, "\n"),
		},
		{
			title:    "Body is empty",
			body:     "",
			expected: "",
		},
		{
			title:    "Body contains only whitespaces",
			body:     "    \n",
			expected: "    \n",
		},
		{
			title:           "Not a JSON 1",
			body:            "not json",
			expected:        "not json",
			expectedWarning: true,
		},
		{
			title:           "Not a JSON 2",
			body:            `[100 200]`,
			expected:        `[100 200]`,
			expectedWarning: true,
		},
		{
			title:           "Malformed JSON",
			body:            `{"hello": "world"`,
			expected:        `{"hello": "world"`,
			expectedWarning: true,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.title, func(t *testing.T) {
			// Setup
			var buffer, diagBuffer strings.Builder
			printer := NewPrettyPrinter(PrettyPrinterConfig{
				Writer:      &buffer,
				EnableColor: false,
				Diagnostics: NewDiagnostics(&diagBuffer, false),
			})

			// Exercise
			err := printer.PrintBody(strings.NewReader(tt.body), "application/json")
			require.NoError(t, err)

			// Verify
			assert.Equal(t, tt.expected, buffer.String())
			if tt.expectedWarning {
				assert.Contains(t, diagBuffer.String(), "warning: response body is not valid JSON")
			} else {
				assert.Empty(t, diagBuffer.String())
			}
		})
	}
}

func TestPrettyPrinter_PrintBody_NotJSONContentType(t *testing.T) {
	var buffer, diagBuffer strings.Builder
	printer := NewPrettyPrinter(PrettyPrinterConfig{
		Writer:      &buffer,
		Diagnostics: NewDiagnostics(&diagBuffer, false),
	})

	err := printer.PrintBody(strings.NewReader(`{"b":1,"a":2}`), "text/plain")
	require.NoError(t, err)

	assert.Equal(t, `{"b":1,"a":2}`, buffer.String())
	assert.Empty(t, diagBuffer.String())
}

func TestPrettyPrinter_PrintBody_Pick(t *testing.T) {
	testCases := []struct {
		title           string
		pick            string
		expected        string
		expectedWarning string
	}{
		{title: "Scalar", pick: "data.name", expected: "\"alice\"\n"},
		{title: "Object", pick: "data.owner", expected: "{\n    \"id\": 7\n}\n"},
		{title: "Array element", pick: "data.tags.1", expected: "\"b\"\n"},
		{title: "Missing", pick: "data.nothing", expected: "", expectedWarning: "nothing matched --pick data.nothing"},
	}
	body := `{"data": {"name": "alice", "owner": {"id": 7}, "tags": ["a", "b"]}}`
	for _, tt := range testCases {
		t.Run(tt.title, func(t *testing.T) {
			var buffer, diagBuffer strings.Builder
			printer := NewPrettyPrinter(PrettyPrinterConfig{
				Writer:      &buffer,
				Pick:        tt.pick,
				Diagnostics: NewDiagnostics(&diagBuffer, false),
			})

			err := printer.PrintBody(strings.NewReader(body), "application/json")
			require.NoError(t, err)

			assert.Equal(t, tt.expected, buffer.String())
			if tt.expectedWarning != "" {
				assert.Contains(t, diagBuffer.String(), tt.expectedWarning)
			}
		})
	}
}

func TestPrettyPrinter_PrintBody_ColoredRoundTrip(t *testing.T) {
	// Setup
	body := `{"name": "req", "count": 3, "ratio": 0.5, "ok": true, "none": null, "list": [1, "two", {"three": 3}], "nested": {"k": "v"}}`
	var buffer strings.Builder
	printer := NewPrettyPrinter(PrettyPrinterConfig{
		Writer:      &buffer,
		EnableColor: true,
	})

	// Exercise
	err := printer.PrintBody(strings.NewReader(body), "application/json; charset=utf-8")
	require.NoError(t, err)

	// Verify
	assert.Contains(t, buffer.String(), "\x1b[")
	var expected, actual interface{}
	require.NoError(t, json.Unmarshal([]byte(body), &expected))
	require.NoError(t, json.Unmarshal([]byte(stripANSI(buffer.String())), &actual))
	assert.Equal(t, expected, actual)
}

func TestPrettyPrinter_DetectJSON(t *testing.T) {
	testCases := []struct {
		contentType string
		expected    bool
	}{
		{contentType: "application/json", expected: true},
		{contentType: "application/json; charset=utf-8", expected: true},
		{contentType: "Application/JSON", expected: true},
		// See https://tools.ietf.org/html/rfc7807
		{contentType: "application/problem+json", expected: true},
		{contentType: "application/vnd.api+JSON;charset=utf-8", expected: true},
		{contentType: "text/html", expected: false},
		{contentType: "application/jsonp", expected: false},
		{contentType: "", expected: false},
	}
	for _, tt := range testCases {
		assert.Equal(t, tt.expected, isJSON(tt.contentType), tt.contentType)
	}
}
