package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sant0-9/gptkit/internal/cli"
	"github.com/sant0-9/gptkit/internal/report"
	"github.com/sant0-9/gptkit/internal/tui"
)

var version = "dev"

func main() {
	cli.Execute(newRootCmd())
}

func newRootCmd() *cobra.Command {
	var (
		flags  cli.Flags
		output string
	)

	cmd := &cobra.Command{
		Use:   "serviceanalyzer [service name or description]",
		Short: "Generate a comprehensive report about a service or product",
		Long: `Generates an eight-section markdown report about a service. Up to three words
are treated as a service name (e.g. 'Spotify'); anything longer as a description.
Prompts for the input when none is given.`,
		Version: version,
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := cli.Bootstrap(flags)
			if err != nil {
				return err
			}
			if flags.Check {
				return env.Check(cmd.Context(), cmd.OutOrStdout())
			}
			return run(cmd.Context(), env, strings.Join(args, " "), output, tui.NewPrompter(), cmd.ErrOrStderr(), cmd.OutOrStdout())
		},
	}

	flags.Register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the report to this file instead of stdout")
	return cmd
}

func run(parent context.Context, env *cli.Env, input, output string, prompter *tui.Prompter, progress, out io.Writer) error {
	status := tui.NewPrinter(progress)

	if strings.TrimSpace(input) == "" {
		var err error
		input, err = prompter.Ask(
			"Enter a service name (e.g., 'Spotify', 'Notion') or paste a service description:",
			"Spotify",
		)
		if err != nil {
			return err
		}
	}

	// The timeout starts once the input is known.
	ctx, cancel := env.Context(parent)
	defer cancel()

	gen := report.NewGenerator(env.Provider, env.Prompts, report.Options{
		Model:       env.Config.Models.Report,
		Temperature: env.Config.Report.Temperature,
		MaxTokens:   env.Config.Report.MaxTokens,
	})

	status.Step("Generating report... This may take a moment.")
	r, err := gen.Generate(ctx, input)
	if err != nil {
		return err
	}

	if output == "" {
		tui.NewPrinter(out).Report(r)
		return nil
	}

	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(output, []byte(r.Markdown+"\n"), 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	tui.NewPrinter(out).Saved("Report", output)
	return nil
}
