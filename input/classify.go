package input

import (
	"regexp"
	"strings"
)

var (
	reScheme     = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)
	rePortSuffix = regexp.MustCompile(`^[0-9]+([/?#].*)?$`)
)

type ArgKind int

const (
	FlagArg ArgKind = iota
	HostArg
	PairArg
)

// Arg is a single classified command-line token.
type Arg struct {
	Kind ArgKind
	Raw  string

	// FlagArg: long name of the flag. PairArg: decoded key.
	Name string
	// FlagArg: the flag's value, empty for switches. PairArg: value after
	// the separator.
	Value string

	// PairArg only.
	Sep  string   // "=", ":" or ":="
	Path []string // key split on unescaped dots
}

// classify decides whether a positional token is a host fragment or a
// key=value pair.
func classify(token string) (Arg, error) {
	host := Arg{Kind: HostArg, Raw: token}

	// ex) https://example.com, :8080/hello, /hello, [::1]:8080
	if reScheme.MatchString(token) ||
		strings.HasPrefix(token, ":") ||
		strings.HasPrefix(token, "/") ||
		strings.HasPrefix(token, "[") {
		return host, nil
	}

	i, sep := findSeparator(token)
	if i < 0 {
		// ex) example.com/hello
		return host, nil
	}
	rawKey, value := token[:i], token[i+len(sep):]

	// ex) example.com/search?q=hello
	if strings.ContainsAny(rawKey, "/?#") {
		return host, nil
	}
	// ex) localhost:3000/hello
	if sep == ":" && rePortSuffix.MatchString(value) {
		return host, nil
	}

	if rawKey == "" {
		return Arg{}, NewUsageErrorf("empty key in request item: %s", token)
	}
	path, err := splitKey(rawKey)
	if err != nil {
		return Arg{}, err
	}
	return Arg{
		Kind:  PairArg,
		Raw:   token,
		Name:  strings.Join(path, "."),
		Value: value,
		Sep:   sep,
		Path:  path,
	}, nil
}

// findSeparator returns the index and spelling of the first unescaped
// separator in s, or -1.
func findSeparator(s string) (int, string) {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '=':
			return i, "="
		case ':':
			if i+1 < len(s) && s[i+1] == '=' {
				return i, ":="
			}
			return i, ":"
		}
	}
	return -1, ""
}

// splitKey decodes escapes in a pair key and splits it on unescaped dots.
// Empty segments are kept; only JSON bodies give the dots meaning.
func splitKey(rawKey string) ([]string, error) {
	var path []string
	var segment strings.Builder
	for i := 0; i < len(rawKey); i++ {
		c := rawKey[i]
		switch c {
		case '\\':
			if i+1 >= len(rawKey) {
				return nil, NewUsageErrorf("invalid escape at end of key: %s", rawKey)
			}
			switch next := rawKey[i+1]; next {
			case '=', ':', '.', '\\':
				segment.WriteByte(next)
				i++
			default:
				return nil, NewUsageErrorf("invalid escape sequence '\\%c' in key: %s", next, rawKey)
			}
		case '.':
			path = append(path, segment.String())
			segment.Reset()
		default:
			segment.WriteByte(c)
		}
	}
	path = append(path, segment.String())
	return path, nil
}

// checkNestedKey rejects keys that cannot address a JSON object member,
// such as "a..b" or ".a".
func checkNestedKey(arg Arg) error {
	for _, s := range arg.Path {
		if s == "" {
			return NewUsageErrorf("empty key in request item: %s", arg.Raw)
		}
	}
	return nil
}
