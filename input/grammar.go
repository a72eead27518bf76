package input

import (
	"io"

	"github.com/pborman/getopt"
)

const program = "req"

// printUnset is stored in Options.Print when --print was not given.
const printUnset = "\000"

// Options holds the flags that do not shape the request itself.
type Options struct {
	Timeout     string
	Verbose     bool
	Print       string
	Raw         bool
	NoColor     bool
	Pick        string
	CheckStatus bool
	NoFollow    bool
	Insecure    bool
	HTTP1       bool
	Overwrite   bool
	ConfigFile  string

	Help     bool
	Version  bool
	Licenses bool
}

// PrintSpecified reports whether --print was given.
func (o *Options) PrintSpecified() bool {
	return o.Print != printUnset
}

// requestFlags are the flags recorded as FlagArg in encounter order.
var requestFlags = map[string]bool{
	"json":        true,
	"form":        true,
	"method":      true,
	"bearer":      true,
	"token":       true,
	"user":        true,
	"header":      true,
	"cookie":      true,
	"file":        true,
	"remote-name": true,
	"output":      true,
}

type grammar struct {
	set     *getopt.Set
	names   map[getopt.Option]string
	strings map[string]*string
}

func newGrammar(options *Options) *grammar {
	g := &grammar{
		set:     getopt.New(),
		names:   map[getopt.Option]string{},
		strings: map[string]*string{},
	}
	s := g.set
	s.SetProgram(program)
	s.SetParameters("URL [REQUEST_ITEM [REQUEST_ITEM ...]]")

	var switches struct{ json, form, remoteName bool }
	g.switchFlag(&switches.json, "json", 0, "serialize request items as a JSON object (default for POST/PUT/PATCH)")
	g.switchFlag(&switches.form, "form", 'f', "serialize request items as application/x-www-form-urlencoded")
	g.stringFlag("method", 'm', "request method (GET, POST, PUT, PATCH, DELETE, HEAD)", "METHOD")
	g.stringFlag("bearer", 0, "send 'Authorization: Bearer TOKEN'", "TOKEN")
	g.stringFlag("token", 0, "alias of --bearer", "TOKEN")
	g.stringFlag("user", 'u', "send 'Authorization: Basic ...' built from USER:PASS", "USER:PASS")
	g.stringFlag("header", 'H', "add a header; can be repeated", "NAME:VALUE")
	g.stringFlag("cookie", 'c', "add a cookie; can be repeated", "NAME=VALUE")
	g.stringFlag("file", 0, "send the contents of FILE as the request body ('-' for stdin)", "FILE")
	g.switchFlag(&switches.remoteName, "remote-name", 'O', "save the response body to a file named after the remote resource")
	g.stringFlag("output", 'o', "save the response body to FILE", "FILE")

	s.BoolVarLong(&options.Overwrite, "overwrite", 0, "overwrite an existing file when saving the response body")
	s.StringVarLong(&options.Timeout, "timeout", 0, "timeout for the whole exchange (default 30s)", "DURATION")
	s.BoolVarLong(&options.Verbose, "verbose", 'v', "print the request as well as the response")
	s.StringVarLong(&options.Print, "print", 'p', "specifies what the output should contain (HBhb)", "WHAT")
	s.BoolVarLong(&options.Raw, "raw", 'r', "do not format the response body")
	s.BoolVarLong(&options.NoColor, "no-color", 0, "do not colorize the output")
	s.StringVarLong(&options.Pick, "pick", 0, "print only the part of a JSON body at PATH", "PATH")
	s.BoolVarLong(&options.CheckStatus, "check-status", 0, "exit with status 3 when the response status is not 2xx")
	s.BoolVarLong(&options.NoFollow, "no-follow", 'F', "do not follow redirects")
	s.BoolVarLong(&options.Insecure, "insecure", 'k', "skip TLS certificate verification")
	s.BoolVarLong(&options.HTTP1, "http1", 0, "force HTTP/1.1")
	s.StringVarLong(&options.ConfigFile, "config", 0, "read defaults from FILE", "FILE")
	s.BoolVarLong(&options.Help, "help", 'h', "show this help")
	s.BoolVarLong(&options.Version, "version", 0, "show version")
	s.BoolVarLong(&options.Licenses, "licenses", 0, "show licenses of bundled libraries")
	return g
}

func (g *grammar) stringFlag(name string, short rune, help, param string) {
	p := new(string)
	g.strings[name] = p
	g.names[g.set.StringVarLong(p, name, short, help, param)] = name
}

func (g *grammar) switchFlag(p *bool, name string, short rune, help string) {
	g.names[g.set.BoolVarLong(p, name, short, help)] = name
}

// record returns a getopt callback appending request-shaping flags to args.
func (g *grammar) record(args *[]Arg) func(getopt.Option) bool {
	return func(opt getopt.Option) bool {
		name, ok := g.names[opt]
		if !ok || !requestFlags[name] {
			return true
		}
		arg := Arg{Kind: FlagArg, Raw: opt.Name(), Name: name}
		if p, ok := g.strings[name]; ok {
			arg.Value = *p
		}
		*args = append(*args, arg)
		return true
	}
}

// tokenize splits args into classified tokens. Flags and positional tokens
// may be interleaved; everything after "--" is positional.
func tokenize(args []string, options *Options) ([]Arg, error) {
	g := newGrammar(options)

	rest, tail := args, []string(nil)
	for i, arg := range args {
		if arg == "--" {
			rest, tail = args[:i], args[i+1:]
			break
		}
	}

	var parsed []Arg
	for len(rest) > 0 {
		// getopt skips args[0] and stops at the first positional token.
		if err := g.set.Getopt(append([]string{program}, rest...), g.record(&parsed)); err != nil {
			return nil, NewUsageError(err.Error())
		}
		rest = g.set.Args()
		if len(rest) == 0 {
			break
		}
		arg, err := classify(rest[0])
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, arg)
		rest = rest[1:]
	}

	for _, token := range tail {
		arg, err := classify(token)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, arg)
	}
	return parsed, nil
}

func PrintUsage(w io.Writer) {
	newGrammar(&Options{}).set.PrintUsage(w)
}
