package req

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/HexmosTech/req/exchange"
	"github.com/HexmosTech/req/flags"
	"github.com/HexmosTech/req/input"
	"github.com/HexmosTech/req/output"
	"github.com/HexmosTech/req/version"
	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
)

const (
	ExitOK        = 0
	ExitError     = 1
	ExitTransport = 2
	ExitStatus    = 3
)

type Options struct {
	// Transport is used instead of the default HTTP transport when set.
	Transport http.RoundTripper
	// Clock measures the elapsed time of the exchange. Defaults to the
	// wall clock.
	Clock clock.Clock
}

// Env is the process environment Run works against.
type Env struct {
	Stdin    io.Reader
	Stdout   io.Writer
	Stderr   io.Writer
	Terminal flags.TerminalInfo
}

// StatusError is returned when --check-status is given and the response
// status is not 2xx.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return "HTTP " + e.Status
}

// ExitCode maps an error returned by Main or Run to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var transportErr *exchange.TransportError
	var statusErr *StatusError
	switch {
	case errors.As(err, &transportErr):
		return ExitTransport
	case errors.As(err, &statusErr):
		return ExitStatus
	default:
		return ExitError
	}
}

func Main(options *Options) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := &Env{
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Terminal: flags.DetectTerminal(),
	}
	return Run(ctx, os.Args[1:], env, options)
}

// Run performs one invocation: parse args, send the request and render the
// response. Cancelling ctx aborts the exchange. A returned error has already
// been reported on env.Stderr.
func Run(ctx context.Context, args []string, env *Env, options *Options) (err error) {
	if options == nil {
		options = &Options{}
	}
	diag := output.NewDiagnostics(env.Stderr, env.Terminal.StderrIsTerminal)
	defer func() {
		if err != nil {
			diag.Errorf("%v", err)
		}
	}()

	// Parse flags
	plan, inputOptions, optionSet, err := flags.Parse(args, env.Terminal)
	if inputOptions != nil && inputOptions.NoColor {
		diag = output.NewDiagnostics(env.Stderr, false)
	}
	if _, ok := errors.Cause(err).(*input.UsageError); ok {
		input.PrintUsage(env.Stderr)
		return err
	}
	if err != nil {
		return err
	}
	switch {
	case inputOptions.Help:
		input.PrintUsage(env.Stdout)
		return nil
	case inputOptions.Version:
		fmt.Fprintf(env.Stdout, "req %s\n", version.Current())
		return nil
	case inputOptions.Licenses:
		version.PrintLicenses(env.Stdout)
		return nil
	}

	exchangeOptions := optionSet.ExchangeOptions
	if options.Transport != nil {
		exchangeOptions.Transport = options.Transport
	}
	var clientOptions []exchange.ClientOption
	if options.Clock != nil {
		clientOptions = append(clientOptions, exchange.WithClock(options.Clock))
	}
	client, err := exchange.NewClient(&exchangeOptions, clientOptions...)
	if err != nil {
		return err
	}
	r, err := exchange.BuildHTTPRequest(ctx, plan, env.Stdin, &exchangeOptions)
	if err != nil {
		return err
	}

	writer := bufio.NewWriter(env.Stdout)
	defer writer.Flush()
	diag = output.NewDiagnostics(env.Stderr, optionSet.DiagnosticsColor)
	renderer := output.NewRenderer(writer, diag, &optionSet.OutputOptions)

	// Print request
	if err := renderer.RenderRequest(r); err != nil {
		return err
	}
	writer.Flush()

	// Send request and receive response
	resp, elapsed, err := client.Do(r)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// Print response
	outcome, err := renderer.Render(resp, plan)
	if err != nil {
		if ctx.Err() != nil {
			return &exchange.TransportError{Err: ctx.Err()}
		}
		var readErr *output.BodyReadError
		if errors.As(err, &readErr) {
			return &exchange.TransportError{Err: readErr}
		}
		return err
	}
	if err := writer.Flush(); err != nil {
		return errors.Wrap(err, "writing output")
	}
	if optionSet.Verbose {
		diag.Infof("Elapsed: %s", elapsed)
	}

	if optionSet.CheckStatus && (outcome.StatusCode < 200 || outcome.StatusCode >= 300) {
		return &StatusError{StatusCode: outcome.StatusCode, Status: resp.Status}
	}
	return nil
}
