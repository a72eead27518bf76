package output

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/pkg/errors"
)

const defaultFilename = "index.html"

type FileWriter struct {
	fullPath  string
	overwrite bool
}

// NewFileWriter decides where the body of resp is saved. An explicit path
// wins; otherwise the name comes from Content-Disposition, then from the
// last segment of u.
func NewFileWriter(explicitPath string, resp *http.Response, u *url.URL, options *Options) *FileWriter {
	fullPath := explicitPath
	if fullPath == "" {
		fullPath = filenameFromResponse(resp, u)
	}

	if !options.Overwrite {
		fullPath = makeNonOverlappingFilename(fullPath)
	}

	return &FileWriter{
		fullPath:  fullPath,
		overwrite: options.Overwrite,
	}
}

func filenameFromResponse(resp *http.Response, u *url.URL) string {
	if resp != nil {
		if name := filenameFromContentDisposition(resp.Header.Get("Content-Disposition")); name != "" {
			return name
		}
	}
	if u != nil {
		if name := sanitizeFilename(path.Base(u.Path)); name != "" {
			return name
		}
	}
	return defaultFilename
}

func filenameFromContentDisposition(value string) string {
	if value == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(value)
	if err != nil {
		return ""
	}
	return sanitizeFilename(params["filename"])
}

// sanitizeFilename strips directories so a server cannot choose where the
// file lands.
func sanitizeFilename(name string) string {
	name = filepath.Base(filepath.FromSlash(name))
	if name == "." || name == ".." || name == string(filepath.Separator) {
		return ""
	}
	return name
}

func makeNonOverlappingFilename(name string) string {
	if _, err := os.Stat(name); err != nil {
		return name
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s.%d", name, i)
		if _, err := os.Stat(candidate); err != nil {
			return candidate
		}
	}
}

// Download copies body into the file. The file is closed before Download
// returns and a failed close is reported.
func (f *FileWriter) Download(body io.Reader) (written int64, err error) {
	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if f.overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	file, err := os.OpenFile(f.fullPath, flags, 0o644)
	if err != nil {
		return 0, &FileIOError{Op: "create", Path: f.fullPath, Err: err}
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = &FileIOError{Op: "close", Path: f.fullPath, Err: closeErr}
		}
	}()

	written, err = io.Copy(file, newBodyReader(body))
	if err != nil {
		var readErr *BodyReadError
		if errors.As(err, &readErr) {
			return written, readErr
		}
		return written, &FileIOError{Op: "write", Path: f.fullPath, Err: err}
	}
	return written, nil
}

func (f *FileWriter) Path() string {
	return f.fullPath
}

func (f *FileWriter) Filename() string {
	return filepath.Base(f.fullPath)
}
