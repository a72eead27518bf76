package input

import (
	"net/url"
	"strings"
)

// Params is an ordered set of string parameters with last-write-wins
// semantics. It backs both query strings and form bodies.
type Params struct {
	keys   []string
	values map[string]string
	// raw holds the original text of items parsed from a query string and
	// not set since, so they are written back unchanged.
	raw map[string]string
}

func NewParams() *Params {
	return &Params{values: map[string]string{}}
}

// Set stores value under key. A key set again keeps its original position.
func (p *Params) Set(key, value string) {
	if p.values == nil {
		p.values = map[string]string{}
	}
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
	delete(p.raw, key)
}

func (p *Params) Get(key string) (string, bool) {
	value, ok := p.values[key]
	return value, ok
}

func (p *Params) Keys() []string {
	keys := make([]string, len(p.keys))
	copy(keys, p.keys)
	return keys
}

func (p *Params) Len() int {
	return len(p.keys)
}

// Encode serializes p in application/x-www-form-urlencoded form, keeping
// insertion order.
func (p *Params) Encode() string {
	var b strings.Builder
	for i, key := range p.keys {
		if i > 0 {
			b.WriteByte('&')
		}
		if raw, ok := p.raw[key]; ok {
			b.WriteString(raw)
			continue
		}
		b.WriteString(url.QueryEscape(key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.values[key]))
	}
	return b.String()
}

// parseQuery reads an existing query string. Items keep their original
// encoding, so "?flag" stays valueless, until they are overwritten.
func parseQuery(rawQuery string) (*Params, error) {
	params := NewParams()
	params.raw = map[string]string{}
	for _, item := range strings.Split(rawQuery, "&") {
		if item == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(item, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return nil, NewUsageErrorf("invalid query string: %s", rawQuery)
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return nil, NewUsageErrorf("invalid query string: %s", rawQuery)
		}
		params.Set(key, value)
		params.raw[key] = item
	}
	return params, nil
}
