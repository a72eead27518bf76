package input

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strings"
)

var (
	reMethod          = regexp.MustCompile(`^[a-zA-Z]+$`)
	reHeaderFieldName = regexp.MustCompile("^[-!#$%&'*+.^_|~a-zA-Z0-9]+$")
)

// ParseArgs turns command-line arguments (without the program name) into a
// Plan and the remaining options. When --help, --version or --licenses is
// given the returned Plan is nil.
func ParseArgs(args []string) (*Plan, *Options, error) {
	options := &Options{Print: printUnset}
	argList, err := tokenize(args, options)
	if err != nil {
		return nil, options, err
	}
	if options.Help || options.Version || options.Licenses {
		return nil, options, nil
	}

	plan, err := Synthesize(argList)
	if err != nil {
		return nil, options, err
	}
	return plan, options, nil
}

type builder struct {
	host  string
	flags []Arg
	pairs []Arg
	plan  Plan
}

// lastFlag returns the last flag whose name is one of names.
func (b *builder) lastFlag(names ...string) (Arg, bool) {
	for i := len(b.flags) - 1; i >= 0; i-- {
		for _, name := range names {
			if b.flags[i].Name == name {
				return b.flags[i], true
			}
		}
	}
	return Arg{}, false
}

func (b *builder) allFlags(name string) []Arg {
	var found []Arg
	for _, arg := range b.flags {
		if arg.Name == name {
			found = append(found, arg)
		}
	}
	return found
}

// A resolver fills in one part of the plan. Resolvers run in order and may
// rely on the parts resolved before them.
type resolver func(b *builder) error

var resolvers = []resolver{
	resolveMethod,
	resolveURL,
	resolveBodyMode,
	resolvePairs,
	resolveAuth,
	resolveHeaders,
	resolveSave,
}

// Synthesize builds a Plan from classified arguments.
func Synthesize(args []Arg) (*Plan, error) {
	b := &builder{}
	hostSeen := false
	for _, arg := range args {
		switch arg.Kind {
		case FlagArg:
			b.flags = append(b.flags, arg)
		case HostArg:
			if hostSeen {
				return nil, NewUsageErrorf("unexpected argument (URL is already %s): %s", b.host, arg.Raw)
			}
			b.host = arg.Raw
			hostSeen = true
		case PairArg:
			b.pairs = append(b.pairs, arg)
		default:
			return nil, NewUsageErrorf("unknown argument: %s", arg.Raw)
		}
	}
	if !hostSeen {
		return nil, NewUsageError("URL is required")
	}

	for _, resolve := range resolvers {
		if err := resolve(b); err != nil {
			return nil, err
		}
	}
	plan := b.plan
	return &plan, nil
}

func resolveMethod(b *builder) error {
	if arg, ok := b.lastFlag("method"); ok {
		method, err := parseMethod(arg.Value)
		if err != nil {
			return err
		}
		b.plan.Method = method
		return nil
	}
	if _, ok := b.lastFlag("json", "form", "file"); ok {
		b.plan.Method = MethodPost
	} else {
		b.plan.Method = MethodGet
	}
	return nil
}

func parseMethod(s string) (Method, error) {
	if !reMethod.MatchString(s) {
		return Method(""), NewUsageErrorf("METHOD must consist of alphabets: %s", s)
	}
	method := Method(strings.ToUpper(s))
	if !knownMethods[method] {
		return Method(""), NewUsageErrorf("unsupported method: %s", s)
	}
	return method, nil
}

func resolveURL(b *builder) error {
	u, err := parseURL(b.host)
	if err != nil {
		return err
	}
	b.plan.URL = u
	return nil
}

func parseURL(s string) (*url.URL, error) {
	defaultScheme := "http"
	defaultHost := "localhost"

	// ex) :8080/hello or /hello
	if strings.HasPrefix(s, ":") || strings.HasPrefix(s, "/") {
		s = defaultHost + s
	}

	// ex) example.com/hello
	if !reScheme.MatchString(s) {
		s = defaultScheme + "://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return nil, NewUsageError("Invalid URL: " + s)
	}
	u.Host = strings.TrimSuffix(u.Host, ":")
	if u.Host == "" {
		return nil, NewUsageError("Invalid URL (no host): " + s)
	}
	if u.Path == "" {
		u.Path = "/"
	}
	return u, nil
}

func resolveBodyMode(b *builder) error {
	if arg, ok := b.lastFlag("file"); ok {
		if arg.Value == "" {
			return NewUsageError("--file requires a file name")
		}
		b.plan.Body = Body{BodyType: RawBody, File: arg.Value}
		return nil
	}

	arg, ok := b.lastFlag("json", "form")
	switch {
	case ok && arg.Name == "form":
		b.plan.Body = Body{BodyType: FormBody, Form: NewParams()}
	case ok && arg.Name == "json":
		b.plan.Body = Body{BodyType: JSONBody, JSON: NewObject()}
	case b.plan.Method.bodyBearing() && len(b.pairs) > 0:
		b.plan.Body = Body{BodyType: JSONBody, JSON: NewObject()}
	default:
		b.plan.Body = Body{BodyType: EmptyBody}
	}
	return nil
}

func resolvePairs(b *builder) error {
	switch b.plan.Body.BodyType {
	case EmptyBody, RawBody:
		return resolveQuery(b)
	case JSONBody:
		for _, pair := range b.pairs {
			if err := checkNestedKey(pair); err != nil {
				return err
			}
			value, err := jsonValue(pair)
			if err != nil {
				return err
			}
			b.plan.Body.JSON.setPath(pair.Path, value)
		}
	case FormBody:
		for _, pair := range b.pairs {
			if pair.Sep == ":=" {
				return NewUsageErrorf("raw JSON item cannot be used in a form body: %s", pair.Raw)
			}
			b.plan.Body.Form.Set(pair.Name, pair.Value)
		}
	}
	return nil
}

func resolveQuery(b *builder) error {
	if len(b.pairs) == 0 {
		return nil
	}
	query, err := parseQuery(b.plan.URL.RawQuery)
	if err != nil {
		return err
	}
	for _, pair := range b.pairs {
		if pair.Sep == ":=" {
			return NewUsageErrorf("raw JSON item requires a JSON body (perhaps you meant --json?): %s", pair.Raw)
		}
		query.Set(pair.Name, pair.Value)
	}
	b.plan.URL.RawQuery = query.Encode()
	return nil
}

func jsonValue(pair Arg) (interface{}, error) {
	if pair.Sep != ":=" {
		return inferJSONValue(pair.Value), nil
	}
	if !json.Valid([]byte(pair.Value)) {
		return nil, NewUsageErrorf("invalid JSON at '%s': %s", pair.Name, pair.Value)
	}
	return json.RawMessage(pair.Value), nil
}

func resolveAuth(b *builder) error {
	arg, ok := b.lastFlag("bearer", "token", "user")
	if !ok {
		return nil
	}
	switch arg.Name {
	case "user":
		user, password, found := strings.Cut(arg.Value, ":")
		if !found {
			return NewUsageErrorf("value of --user must be USER:PASS: %s", arg.Value)
		}
		b.plan.Auth = Auth{Scheme: BasicAuth, User: user, Password: password}
	default:
		if arg.Value == "" {
			return NewUsageErrorf("--%s requires a token", arg.Name)
		}
		b.plan.Auth = Auth{Scheme: BearerAuth, Token: arg.Value}
	}
	return nil
}

func resolveHeaders(b *builder) error {
	header := &b.plan.Header
	switch b.plan.Body.BodyType {
	case JSONBody:
		header.Set("Content-Type", "application/json")
		header.Set("Accept", "application/json")
	case FormBody:
		header.Set("Content-Type", "application/x-www-form-urlencoded")
		header.Set("Accept", "*/*")
	}

	if b.plan.Auth.Scheme != NoAuth {
		header.Set("Authorization", b.plan.Auth.HeaderValue())
	}

	var cookies []string
	for _, arg := range b.allFlags("cookie") {
		cookies = append(cookies, arg.Value)
	}
	if len(cookies) > 0 {
		header.Set("Cookie", strings.Join(cookies, "; "))
	}

	for _, arg := range b.allFlags("header") {
		name, value, err := splitHeaderItem(arg.Value)
		if err != nil {
			return err
		}
		header.Set(name, value)
	}
	return nil
}

// splitHeaderItem splits "Name:Value" or "Name=Value".
func splitHeaderItem(s string) (string, string, error) {
	i := strings.IndexAny(s, ":=")
	if i < 0 {
		return "", "", NewUsageErrorf("header must be NAME:VALUE or NAME=VALUE: %s", s)
	}
	name := strings.TrimSpace(s[:i])
	if !isValidHeaderFieldName(name) {
		return "", "", NewUsageErrorf("invalid header field name: %s", name)
	}
	return name, strings.TrimSpace(s[i+1:]), nil
}

func isValidHeaderFieldName(s string) bool {
	return reHeaderFieldName.MatchString(s)
}

func resolveSave(b *builder) error {
	if _, ok := b.lastFlag("remote-name", "output"); !ok {
		return nil
	}
	b.plan.Save.Enabled = true
	if arg, ok := b.lastFlag("output"); ok {
		if arg.Value == "" {
			return NewUsageError("--output requires a file name")
		}
		b.plan.Save.Path = arg.Value
	}
	return nil
}
