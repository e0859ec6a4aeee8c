package app

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/shandysiswandi/twofa/internal/pkg/clipboard"
	"github.com/shandysiswandi/twofa/internal/pkg/clock"
	"github.com/shandysiswandi/twofa/internal/pkg/config"
	"github.com/shandysiswandi/twofa/internal/pkg/goerror"
	"github.com/shandysiswandi/twofa/internal/pkg/instrument"
	"github.com/shandysiswandi/twofa/internal/pkg/otp"
	"github.com/shandysiswandi/twofa/internal/pkg/validator"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// initFlags reads the global flags ahead of cobra so configuration, logging
// and the store location are known before the commands are built. Errors
// are ignored here; cobra reports them when it parses the same flags.
func (a *App) initFlags(_ context.Context, args []string) error {
	fs := pflag.NewFlagSet("twofa", pflag.ContinueOnError)
	fs.StringP("config", "c", "", "config file (json, yaml or toml); also $"+config.EnvPrefix+"_CONFIG")
	fs.String("store", "", "credential registry file (default \"2fa.json\")")
	fs.String("log-level", "", "log level: debug, info, warn or error")
	fs.String("log-format", "", "log format: text or json")

	pre := pflag.NewFlagSet("twofa", pflag.ContinueOnError)
	pre.AddFlagSet(fs)
	pre.ParseErrorsAllowlist.UnknownFlags = true
	pre.SetOutput(io.Discard)
	pre.Usage = func() {}
	_ = pre.Parse(args)

	a.flags = fs
	return nil
}

func (a *App) initConfig(_ context.Context, _ []string) error {
	path, _ := a.flags.GetString("config")
	if path == "" {
		path = os.Getenv(config.EnvPrefix + "_CONFIG")
	}

	cfg, err := config.NewViper(path)
	if err != nil {
		return goerror.NewInvalidInput(err)
	}

	binds := map[string]string{
		"store.path": "store",
		"log.level":  "log-level",
		"log.format": "log-format",
	}
	for key, flag := range binds {
		if err := cfg.BindFlag(key, a.flags.Lookup(flag)); err != nil {
			return goerror.NewServer(err)
		}
	}

	a.config = cfg
	return nil
}

func (a *App) initInstrument(ctx context.Context, _ []string) error {
	version := a.config.GetString("instrument.service_version")
	if version == "dev" {
		version = Version
	}

	ins, err := instrument.New(ctx, &instrument.Config{
		Enabled:          a.config.GetBool("instrument.enabled"),
		ServiceName:      a.config.GetString("instrument.service_name"),
		ServiceVersion:   version,
		Environment:      a.config.GetString("instrument.env"),
		OTLPEndpoint:     a.config.GetString("instrument.otlp_endpoint"),
		OTLPSecure:       a.config.GetBool("instrument.otlp_secure"),
		TraceSampleRatio: a.config.GetFloat64("instrument.trace_sample_ratio"),
		MetricsInterval:  a.config.GetSecond("instrument.metric_interval_seconds"),
		MaskFields:       a.config.GetArray("log.mask_fields"),
		LogLevel:         a.config.GetString("log.level"),
		LogFormat:        a.config.GetString("log.format"),
		LogOutput:        a.stderr,
	})
	if err != nil {
		return goerror.NewServer(err)
	}

	a.ins = ins
	return nil
}

func (a *App) initLibraries(_ context.Context, _ []string) error {
	a.clock = clock.New()
	a.totp = otp.NewEngine(a.config.GetString("otp.issuer"))

	v, err := validator.NewV10Validator()
	if err != nil {
		return goerror.NewServer(err)
	}
	a.validator = v

	a.clipboard = clipboard.Disabled{}
	if a.config.GetBool("clipboard.enabled") {
		a.clipboard = clipboard.NewSystem()
	}

	return nil
}

func (a *App) initCommand(_ context.Context, _ []string) error {
	root := &cobra.Command{
		Use:           "twofa",
		Short:         "Generate TOTP codes from a local registry of named secrets",
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(instrument.WithCommand(cmd.Context(), cmd.Name()))
		},
	}

	root.PersistentFlags().AddFlagSet(a.flags)
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return goerror.NewInvalidFormat(err)
	})

	a.root = root
	return nil
}

func (a *App) initClosers() {
	a.closers = []struct {
		name string
		fn   func(context.Context) error
	}{
		{
			name: "Instrument",
			fn: func(ctx context.Context) error {
				return a.ins.Shutdown(ctx)
			},
		},
		{
			name: "Config",
			fn: func(context.Context) error {
				return a.config.Close()
			},
		},
	}
}

// storePath is the registry location after flags, environment and config
// file have been applied.
func (a *App) storePath() string {
	return strings.TrimSpace(a.config.GetString("store.path"))
}
