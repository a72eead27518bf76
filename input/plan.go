package input

import (
	"encoding/base64"
	"net/textproto"
	"net/url"
)

// Plan is the fully resolved description of the HTTP request to send.
type Plan struct {
	Method Method
	URL    *url.URL
	Header Header
	Auth   Auth
	Body   Body
	Save   Save
}

type Method string

const (
	MethodGet    = Method("GET")
	MethodPost   = Method("POST")
	MethodPut    = Method("PUT")
	MethodPatch  = Method("PATCH")
	MethodDelete = Method("DELETE")
	MethodHead   = Method("HEAD")
)

var knownMethods = map[Method]bool{
	MethodGet:    true,
	MethodPost:   true,
	MethodPut:    true,
	MethodPatch:  true,
	MethodDelete: true,
	MethodHead:   true,
}

func (m Method) bodyBearing() bool {
	return m == MethodPost || m == MethodPut || m == MethodPatch
}

// Header is an ordered list of header fields. Names are compared
// case-insensitively; setting an existing name replaces its value in place.
type Header struct {
	fields []Field
}

type Field struct {
	Name  string
	Value string
}

func (h *Header) Set(name, value string) {
	key := textproto.CanonicalMIMEHeaderKey(name)
	for i := range h.fields {
		if textproto.CanonicalMIMEHeaderKey(h.fields[i].Name) == key {
			h.fields[i].Value = value
			return
		}
	}
	h.fields = append(h.fields, Field{Name: name, Value: value})
}

func (h *Header) Get(name string) string {
	key := textproto.CanonicalMIMEHeaderKey(name)
	for _, field := range h.fields {
		if textproto.CanonicalMIMEHeaderKey(field.Name) == key {
			return field.Value
		}
	}
	return ""
}

// Fields returns the header fields in insertion order.
func (h *Header) Fields() []Field {
	fields := make([]Field, len(h.fields))
	copy(fields, h.fields)
	return fields
}

func (h *Header) Len() int {
	return len(h.fields)
}

type AuthScheme int

const (
	NoAuth AuthScheme = iota
	BearerAuth
	BasicAuth
)

type Auth struct {
	Scheme   AuthScheme
	Token    string // used only when Scheme == BearerAuth
	User     string // used only when Scheme == BasicAuth
	Password string // used only when Scheme == BasicAuth
}

// HeaderValue returns the value of the Authorization header for a, or an
// empty string when no credential is set.
func (a Auth) HeaderValue() string {
	switch a.Scheme {
	case BearerAuth:
		return "Bearer " + a.Token
	case BasicAuth:
		return "Basic " + base64.StdEncoding.EncodeToString([]byte(a.User+":"+a.Password))
	default:
		return ""
	}
}

type BodyType int

const (
	EmptyBody BodyType = iota
	JSONBody
	FormBody
	RawBody
)

func (t BodyType) String() string {
	switch t {
	case EmptyBody:
		return "empty"
	case JSONBody:
		return "json"
	case FormBody:
		return "form"
	case RawBody:
		return "raw"
	default:
		return "unknown"
	}
}

type Body struct {
	BodyType BodyType
	JSON     *Object // used only when BodyType == JSONBody
	Form     *Params // used only when BodyType == FormBody
	File     string  // used only when BodyType == RawBody; "-" means stdin
}

// Save records the intent to write the response body to a file. An empty
// Path means the name is derived from the response.
type Save struct {
	Enabled bool
	Path    string
}
