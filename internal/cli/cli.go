// Package cli holds the start-up and exit handling shared by the gptkit
// commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sant0-9/gptkit/internal/apperr"
	"github.com/sant0-9/gptkit/internal/config"
	"github.com/sant0-9/gptkit/internal/llm"
	"github.com/sant0-9/gptkit/internal/logging"
	"github.com/sant0-9/gptkit/internal/prompts"
	"github.com/sant0-9/gptkit/internal/tui"
)

var exitFunc = os.Exit

// Flags are the options every command accepts.
type Flags struct {
	ConfigFile string
	Verbose    bool
	Check      bool
}

// Register adds --config, --verbose and --check to cmd.
func (f *Flags) Register(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&f.ConfigFile, "config", "", "config file (default: ./gptkit.yaml or ~/.config/gptkit/gptkit.yaml)")
	cmd.PersistentFlags().BoolVar(&f.Verbose, "verbose", false, "enable debug logging")
	cmd.PersistentFlags().BoolVar(&f.Check, "check", false, "check that the provider is reachable with the configured key, then exit")
}

// Env is what a command needs to make remote calls.
type Env struct {
	Config   *config.Config
	Provider llm.Provider
	Prompts  *prompts.Library
}

// Bootstrap loads configuration, installs the logger and builds the one
// provider the run uses. It fails before any remote call when the
// credential is missing.
func Bootstrap(flags Flags) (*Env, error) {
	// Until the config is read, log at the default level.
	logging.Setup(config.LoggingConfig{}, flags.Verbose)

	cfg, err := config.Load(flags.ConfigFile)
	if err != nil {
		return nil, err
	}
	logging.Setup(cfg.Logging, flags.Verbose)

	if err := cfg.RequireCredential(); err != nil {
		return nil, err
	}

	provider, err := llm.NewProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrInvalidConfig, err)
	}

	log.Debug().
		Str("provider", provider.Name()).
		Dur("timeout", cfg.Timeout).
		Msg("ready")

	return &Env{
		Config:   cfg,
		Provider: provider,
		Prompts:  prompts.NewLibrary(cfg.Prompts.Dir),
	}, nil
}

// Context returns a context bounded by the configured timeout and
// cancelled on SIGINT or SIGTERM.
func (e *Env) Context(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	ctx, cancel := context.WithTimeout(ctx, e.Config.Timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

// Check pings the provider and reports the result on w. It costs no tokens.
func (e *Env) Check(parent context.Context, w io.Writer) error {
	ctx, cancel := e.Context(parent)
	defer cancel()

	if err := e.Provider.Ping(ctx); err != nil {
		return err
	}
	tui.NewPrinter(w).Step(fmt.Sprintf("%s is reachable", e.Provider.Name()))
	return nil
}

// Execute runs cmd, prints any error to stderr and exits with the code
// matching it.
func Execute(cmd *cobra.Command) {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", apperr.ErrUsage, err)
	})

	if err := cmd.Execute(); err != nil {
		tui.NewPrinter(cmd.ErrOrStderr()).Error(err)
		log.Debug().Err(err).Int("exit_code", apperr.ExitCode(err)).Msg("command failed")
		exitFunc(apperr.ExitCode(err))
	}
}

// MaximumArgs is cobra.MaximumNArgs with the error marked as a usage error.
func MaximumArgs(n int) cobra.PositionalArgs {
	check := cobra.MaximumNArgs(n)
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return fmt.Errorf("%w: %w", apperr.ErrUsage, err)
		}
		return nil
	}
}
