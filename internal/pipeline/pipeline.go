// Package pipeline transcribes an audio file, summarizes the transcript and
// extracts topic statistics, then writes the three artifacts to disk.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sant0-9/gptkit/internal/apperr"
	"github.com/sant0-9/gptkit/internal/llm"
	"github.com/sant0-9/gptkit/internal/prompts"
)

// Stage represents a pipeline stage
type Stage int

const (
	StageProbing Stage = iota
	StageTranscribing
	StageSummarizing
	StageAnalyzing
	StageSaving
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageProbing:
		return "Probing"
	case StageTranscribing:
		return "Transcribing"
	case StageSummarizing:
		return "Summarizing"
	case StageAnalyzing:
		return "Analyzing"
	case StageSaving:
		return "Saving"
	case StageDone:
		return "Done"
	default:
		return "Unknown"
	}
}

// totalStages excludes StageDone.
const totalStages = int(StageDone)

// Progress represents pipeline progress
type Progress struct {
	Stage       Stage
	StageIndex  int
	TotalStages int
	Message     string
}

// Options configures a Pipeline.
type Options struct {
	ChatModel          string
	TranscriptionModel string
	Prompts            *prompts.Library
}

// Result contains pipeline output
type Result struct {
	Transcript string
	Summary    string
	Analysis   *Analysis
	// Duration is the audio length in seconds, zero when unknown.
	Duration float64
	Files    Outputs
}

// Pipeline processes audio files
type Pipeline struct {
	provider           llm.Provider
	transcriptionModel string
	summarizer         *Summarizer
	analyzer           *Analyzer
	prober             Prober
	now                func() time.Time
	onProgress         func(Progress)
}

// New creates a pipeline that sends every remote call through provider.
func New(provider llm.Provider, opts Options) *Pipeline {
	lib := opts.Prompts
	if lib == nil {
		lib = prompts.NewLibrary("")
	}
	return &Pipeline{
		provider:           provider,
		transcriptionModel: opts.TranscriptionModel,
		summarizer:         NewSummarizer(provider, opts.ChatModel, lib),
		analyzer:           NewAnalyzer(provider, opts.ChatModel, lib),
		prober:             NewFFProbe(),
		now:                time.Now,
	}
}

// SetProgressCallback sets the progress callback
func (p *Pipeline) SetProgressCallback(fn func(Progress)) {
	p.onProgress = fn
}

// SetProber replaces the ffprobe duration lookup.
func (p *Pipeline) SetProber(prober Prober) {
	p.prober = prober
}

// SetClock replaces the clock used for output file timestamps.
func (p *Pipeline) SetClock(now func() time.Time) {
	p.now = now
}

func (p *Pipeline) progress(stage Stage, msg string) {
	if p.onProgress != nil {
		p.onProgress(Progress{
			Stage:       stage,
			StageIndex:  int(stage),
			TotalStages: totalStages,
			Message:     msg,
		})
	}
}

// Process runs every stage on audioPath. Output goes to outputDir, or next
// to the audio file when outputDir is empty. Nothing is written unless all
// remote calls succeed.
func (p *Pipeline) Process(ctx context.Context, audioPath, outputDir string) (*Result, error) {
	absPath, err := filepath.Abs(audioPath)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(absPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("audio file %s: %w", audioPath, apperr.ErrMissingInput)
		}
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("audio file %s is a directory: %w", audioPath, apperr.ErrMissingInput)
	}
	if outputDir == "" {
		outputDir = filepath.Dir(absPath)
	}
	stamp := p.now()

	// Stage 1: duration
	p.progress(StageProbing, "Reading audio duration...")
	duration, err := p.prober.Duration(ctx, absPath)
	if err != nil {
		log.Warn().Err(err).Str("file", audioPath).Msg("could not determine audio duration")
		duration = 0
	}

	// Stage 2: transcription
	p.progress(StageTranscribing, fmt.Sprintf("Transcribing %s...", filepath.Base(absPath)))
	tr, err := p.provider.Transcribe(ctx, &llm.TranscriptionRequest{
		Model:    p.transcriptionModel,
		FilePath: absPath,
	})
	if err != nil {
		log.Error().Err(err).Str("stage", string(apperr.StageTranscription)).Msg("transcription call failed")
		return nil, apperr.NewStageError(apperr.StageTranscription, err)
	}
	if duration <= 0 && tr.Duration > 0 {
		log.Debug().Float64("seconds", tr.Duration).Msg("using duration reported by transcription")
		duration = tr.Duration
	}
	transcript := strings.TrimSpace(tr.Text)

	// Stage 3: summary
	p.progress(StageSummarizing, "Generating summary...")
	summary, err := p.summarizer.Summarize(ctx, transcript)
	if err != nil {
		return nil, err
	}

	// Stage 4: statistics
	p.progress(StageAnalyzing, "Analyzing transcript...")
	analysis, err := p.analyzer.Analyze(ctx, transcript, duration)
	if err != nil {
		return nil, err
	}

	// Stage 5: output
	p.progress(StageSaving, "Saving results...")
	base := strings.TrimSuffix(filepath.Base(absPath), filepath.Ext(absPath))
	files, err := Save(outputDir, base, stamp, transcript, summary, analysis)
	if err != nil {
		return nil, err
	}

	p.progress(StageDone, "Processing complete")

	return &Result{
		Transcript: transcript,
		Summary:    summary,
		Analysis:   analysis,
		Duration:   duration,
		Files:      files,
	}, nil
}
