package main

import (
	"context"
	"io"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sant0-9/gptkit/internal/catalog"
	"github.com/sant0-9/gptkit/internal/cli"
	"github.com/sant0-9/gptkit/internal/search"
	"github.com/sant0-9/gptkit/internal/tui"
)

var version = "dev"

type options struct {
	query       string
	catalogPath string
	asJSON      bool
}

func main() {
	cli.Execute(newRootCmd())
}

func newRootCmd() *cobra.Command {
	var (
		flags cli.Flags
		opts  options
	)

	cmd := &cobra.Command{
		Use:   "productsearch [query]",
		Short: "Find catalog products matching a plain-language request",
		Long: `Describe what you're looking for (e.g. 'electronics under $200 with rating above 4').
The request is turned into filter criteria by the model and applied to the local catalog.`,
		Version: version,
		Args:    cli.MaximumArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := cli.Bootstrap(flags)
			if err != nil {
				return err
			}
			if flags.Check {
				return env.Check(cmd.Context(), cmd.OutOrStdout())
			}
			if len(args) == 1 {
				opts.query = args[0]
			}
			if opts.catalogPath == "" {
				opts.catalogPath = env.Config.Catalog.Path
			}

			return run(cmd.Context(), env, opts, tui.NewPrompter(), cmd.OutOrStdout())
		},
	}

	flags.Register(cmd)
	cmd.Flags().StringVar(&opts.catalogPath, "catalog", "", "product catalog, JSON or YAML (default from config: products.json)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the criteria and matches as JSON")
	return cmd
}

// run bounds only the remote call by the configured timeout, not the time
// spent at the prompt.
func run(parent context.Context, env *cli.Env, opts options, prompter *tui.Prompter, out io.Writer) error {
	cat, err := catalog.Load(opts.catalogPath)
	if err != nil {
		return err
	}
	log.Debug().Str("path", opts.catalogPath).Int("products", len(cat.Products)).Msg("loaded catalog")

	query := opts.query
	if query == "" {
		query, err = prompter.Ask(
			"Describe what you're looking for (e.g., 'electronics under $200 with rating above 4'):",
			"electronics under $200 with rating above 4",
		)
		if err != nil {
			return err
		}
	}

	ctx, cancel := env.Context(parent)
	defer cancel()

	classifier := search.NewClassifier(env.Provider, env.Config.Models.Classifier, env.Prompts)
	res, err := search.NewService(classifier, cat).Search(ctx, query)
	if err != nil {
		return err
	}

	if opts.asJSON {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return err
		}
		_, err = out.Write(append(data, '\n'))
		return err
	}

	tui.NewPrinter(out).Products(res)
	return nil
}
