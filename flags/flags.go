package flags

import (
	"os"
	"regexp"
	"time"

	"github.com/HexmosTech/req/config"
	"github.com/HexmosTech/req/exchange"
	"github.com/HexmosTech/req/input"
	"github.com/HexmosTech/req/output"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
)

var reNumber = regexp.MustCompile(`^[0-9.]+$`)

const defaultTimeout = "30s"

// TerminalInfo tells which standard streams are attached to a terminal.
type TerminalInfo struct {
	StdinIsTerminal  bool
	StdoutIsTerminal bool
	StderrIsTerminal bool
}

func DetectTerminal() TerminalInfo {
	return TerminalInfo{
		StdinIsTerminal:  isTerminal(os.Stdin),
		StdoutIsTerminal: isTerminal(os.Stdout),
		StderrIsTerminal: isTerminal(os.Stderr),
	}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

type OptionSet struct {
	ExchangeOptions exchange.Options
	OutputOptions   output.Options
	CheckStatus     bool
	Verbose         bool
	// DiagnosticsColor enables color on stderr messages.
	DiagnosticsColor bool
}

// Parse interprets args (without the program name). The returned plan and
// option set are nil when --help, --version or --licenses was given.
func Parse(args []string, term TerminalInfo) (*input.Plan, *input.Options, *OptionSet, error) {
	plan, inputOptions, err := input.ParseArgs(args)
	if err != nil {
		return nil, inputOptions, nil, err
	}
	if plan == nil {
		return nil, inputOptions, nil, nil
	}

	cfg, err := config.Load(inputOptions.ConfigFile)
	if err != nil {
		return nil, inputOptions, nil, err
	}

	optionSet, err := buildOptionSet(inputOptions, cfg, term)
	if err != nil {
		return nil, inputOptions, nil, err
	}
	return plan, inputOptions, optionSet, nil
}

func buildOptionSet(inputOptions *input.Options, cfg *config.Config, term TerminalInfo) (*OptionSet, error) {
	outputOptions := output.Options{
		EnableFormat: !inputOptions.Raw,
		Pick:         inputOptions.Pick,
		Overwrite:    inputOptions.Overwrite,
	}

	// Parse --print
	switch {
	case inputOptions.PrintSpecified():
		if err := parsePrintFlag(inputOptions.Print, &outputOptions); err != nil {
			return nil, err
		}
	case inputOptions.Verbose:
		if err := parsePrintFlag("HBhb", &outputOptions); err != nil {
			return nil, err
		}
	default:
		outputOptions.PrintResponseHeader = true
		outputOptions.PrintResponseBody = true
	}

	cfg = cfg.Merge(commandLineConfig(inputOptions))

	// Parse --timeout
	timeout := cfg.Timeout
	if timeout == "" {
		timeout = defaultTimeout
	}
	d, err := parseDurationOrSeconds(timeout)
	if err != nil {
		if inputOptions.Timeout != "" {
			return nil, input.NewUsageError(err.Error())
		}
		return nil, errors.Wrap(err, "timeout in config file")
	}

	// Color
	outputOptions.EnableColor = enableColor(cfg.GetColor(), term.StdoutIsTerminal)

	maxRedirects := cfg.MaxRedirects
	if maxRedirects == 0 {
		maxRedirects = exchange.DefaultMaxRedirects
	}

	return &OptionSet{
		ExchangeOptions: exchange.Options{
			Timeout:         d,
			FollowRedirects: cfg.GetFollowRedirects(),
			MaxRedirects:    maxRedirects,
			SkipVerify:      !cfg.GetVerify(),
			ForceHTTP1:      inputOptions.HTTP1,
			DefaultHeaders:  cfg.Headers,
		},
		OutputOptions:    outputOptions,
		CheckStatus:      cfg.GetCheckStatus(),
		Verbose:          inputOptions.Verbose,
		DiagnosticsColor: enableColor(cfg.GetColor(), term.StderrIsTerminal),
	}, nil
}

// commandLineConfig expresses the flags that override config file values as
// a Config, leaving everything not given on the command line unset.
func commandLineConfig(inputOptions *input.Options) *config.Config {
	c := &config.Config{Timeout: inputOptions.Timeout}
	if inputOptions.NoFollow {
		c.FollowRedirects = config.BoolPtr(false)
	}
	if inputOptions.Insecure {
		c.Verify = config.BoolPtr(false)
	}
	if inputOptions.CheckStatus {
		c.CheckStatus = config.BoolPtr(true)
	}
	if inputOptions.NoColor {
		c.Color = config.ColorNever
	}
	return c
}

func enableColor(mode string, isTerminal bool) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default:
		return isTerminal
	}
}

func parsePrintFlag(printFlag string, outputOptions *output.Options) error {
	for _, c := range printFlag {
		switch c {
		case 'H':
			outputOptions.PrintRequestHeader = true
		case 'B':
			outputOptions.PrintRequestBody = true
		case 'h':
			outputOptions.PrintResponseHeader = true
		case 'b':
			outputOptions.PrintResponseBody = true
		default:
			return input.NewUsageErrorf("Invalid char in --print value (must be consist of HBhb): %c", c)
		}
	}
	return nil
}

func parseDurationOrSeconds(timeout string) (time.Duration, error) {
	if reNumber.MatchString(timeout) {
		timeout += "s"
	}
	d, err := time.ParseDuration(timeout)
	if err != nil {
		return time.Duration(0), errors.Errorf("Value of --timeout must be a number or duration string: %v", timeout)
	}
	return d, nil
}
