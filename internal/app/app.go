package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"sort"

	"github.com/shandysiswandi/twofa/internal/pkg/clipboard"
	"github.com/shandysiswandi/twofa/internal/pkg/clock"
	"github.com/shandysiswandi/twofa/internal/pkg/config"
	"github.com/shandysiswandi/twofa/internal/pkg/goerror"
	"github.com/shandysiswandi/twofa/internal/pkg/instrument"
	"github.com/shandysiswandi/twofa/internal/pkg/otp"
	"github.com/shandysiswandi/twofa/internal/pkg/stacktrace"
	"github.com/shandysiswandi/twofa/internal/pkg/validator"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Version is reported by --version and as the service.version resource.
var Version = "dev"

// App wires dependencies and runs a single command.
type App struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// configuration
	flags  *pflag.FlagSet
	config *config.Viper
	ins    instrument.Instrumentation

	// libraries
	validator validator.Validator
	clock     clock.Clocker
	totp      otp.OTP
	clipboard clipboard.Writer

	// command
	root *cobra.Command

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New returns an App reading from stdin and writing to stdout and stderr.
func New(stdin io.Reader, stdout, stderr io.Writer) *App {
	return &App{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}
}

// Run executes the command line in args (without the program name) and
// returns the process exit status.
func (a *App) Run(ctx context.Context, args []string) int {
	if err := a.init(ctx, args); err != nil {
		a.printError(err)
		return goerror.ExitCode(err)
	}
	defer a.close()

	err := a.execute(ctx, args)

	var gerr *goerror.Error
	if err != nil && !errors.As(err, &gerr) {
		err = goerror.NewInvalidFormat(err)
	}

	if err != nil {
		a.printError(err)
	}

	return goerror.ExitCode(err)
}

func (a *App) execute(ctx context.Context, args []string) (err error) {
	defer func() {
		if rvr := recover(); rvr != nil {
			stack := debug.Stack()
			if paths := stacktrace.InternalFrames(stack); len(paths) > 0 {
				slog.ErrorContext(ctx, "panic while running command", "panic", rvr, "stack", paths)
			} else {
				slog.ErrorContext(ctx, "panic while running command", "panic", rvr, "stack", string(stack))
			}
			err = goerror.NewServer(fmt.Errorf("panic: %v", rvr))
		}
	}()

	a.root.SetArgs(args)
	return a.root.ExecuteContext(ctx)
}

func (a *App) init(ctx context.Context, args []string) error {
	steps := []func(context.Context, []string) error{
		a.initFlags,
		a.initConfig,
		a.initInstrument,
		a.initLibraries,
		a.initCommand,
		a.initModules,
	}

	for _, step := range steps {
		if err := step(ctx, args); err != nil {
			return err
		}
	}

	a.initClosers()
	return nil
}

func (a *App) close() {
	ctx := context.Background()
	for _, c := range a.closers {
		if err := c.fn(ctx); err != nil {
			slog.WarnContext(ctx, "failed to close resource", "resource", c.name, "error", err)
		}
	}
}

func (a *App) printError(err error) {
	fmt.Fprintf(a.stderr, "Error: %v\n", err)

	var gerr *goerror.Error
	if !errors.As(err, &gerr) || len(gerr.Fields()) == 0 {
		return
	}

	fields := make([]string, 0, len(gerr.Fields()))
	for field := range gerr.Fields() {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		fmt.Fprintf(a.stderr, "  %s: %s\n", field, gerr.Fields()[field])
	}
}
