package main

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sant0-9/gptkit/internal/cli"
	"github.com/sant0-9/gptkit/internal/pipeline"
	"github.com/sant0-9/gptkit/internal/tui"
)

var version = "dev"

const defaultAudioFile = "CAR0004.mp3"

func main() {
	cli.Execute(newRootCmd())
}

func newRootCmd() *cobra.Command {
	var (
		flags     cli.Flags
		outputDir string
	)

	cmd := &cobra.Command{
		Use:   "audioproc [audio_file]",
		Short: "Transcribe, summarize and analyze an audio file",
		Long: `Transcribes the audio file, summarizes the transcript and extracts word count,
speaking speed and the most frequently mentioned topics.

Results are written next to the audio file unless --output-dir is given.`,
		Version: version,
		Args:    cli.MaximumArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			audio := defaultAudioFile
			if len(args) == 1 {
				audio = args[0]
			}

			env, err := cli.Bootstrap(flags)
			if err != nil {
				return err
			}
			if flags.Check {
				return env.Check(cmd.Context(), cmd.OutOrStdout())
			}

			ctx, cancel := env.Context(cmd.Context())
			defer cancel()

			p := pipeline.New(env.Provider, pipeline.Options{
				ChatModel:          env.Config.Models.Chat,
				TranscriptionModel: env.Config.Models.Transcription,
				Prompts:            env.Prompts,
			})
			return run(ctx, p, audio, outputDir, cmd.ErrOrStderr(), cmd.OutOrStdout())
		},
	}

	flags.Register(cmd)
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "directory for the result files (default: the audio file's directory)")
	return cmd
}

func run(ctx context.Context, p *pipeline.Pipeline, audio, outputDir string, progress, out io.Writer) error {
	status := tui.NewPrinter(progress)
	p.SetProgressCallback(func(pr pipeline.Progress) {
		if pr.Stage != pipeline.StageDone {
			status.Step(pr.Message)
		}
		log.Debug().Stringer("stage", pr.Stage).Int("index", pr.StageIndex).Msg("pipeline progress")
	})

	start := time.Now()
	res, err := p.Process(ctx, audio, outputDir)
	if err != nil {
		return err
	}

	return tui.NewPrinter(out).Pipeline(res, time.Since(start))
}
