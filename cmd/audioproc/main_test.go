package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sant0-9/gptkit/internal/apperr"
	"github.com/sant0-9/gptkit/internal/llm"
	"github.com/sant0-9/gptkit/internal/llm/llmtest"
	"github.com/sant0-9/gptkit/internal/pipeline"
)

type noProbe struct{}

func (noProbe) Duration(context.Context, string) (float64, error) {
	return 0, errors.New("ffprobe not found in PATH")
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	audio := filepath.Join(dir, "meeting.mp3")
	require.NoError(t, os.WriteFile(audio, []byte("ID3"), 0o644))

	p := &llmtest.Provider{
		Transcription: &llm.Transcription{Text: "we talked about cars and more cars", Duration: 7},
		Responses: []llmtest.Response{
			{Content: "A talk about cars."},
			{Content: `{"frequently_mentioned_topics": [{"topic": "Cars", "mentions": 2}]}`},
		},
	}
	pl := pipeline.New(p, pipeline.Options{ChatModel: "gpt-3.5-turbo", TranscriptionModel: "whisper-1"})
	pl.SetProber(noProbe{})

	outDir := filepath.Join(dir, "results")
	var progress, out bytes.Buffer
	require.NoError(t, run(context.Background(), pl, audio, outDir, &progress, &out))

	assert.Contains(t, progress.String(), "Transcribing meeting.mp3...")
	assert.Contains(t, progress.String(), "Analyzing transcript...")
	assert.Contains(t, out.String(), "PROCESSING COMPLETE")
	assert.Contains(t, out.String(), "A talk about cars.")
	assert.Contains(t, out.String(), `"speaking_speed_wpm": 60`)
	assert.Contains(t, out.String(), "- Summary: "+filepath.Join(outDir, "summary_meeting_"))

	for _, name := range []string{pipeline.TranscriptionFile, pipeline.SummaryFile, pipeline.AnalysisFile} {
		assert.FileExists(t, filepath.Join(outDir, name))
	}
}

func TestRunMissingAudio(t *testing.T) {
	p := &llmtest.Provider{}
	pl := pipeline.New(p, pipeline.Options{})
	pl.SetProber(noProbe{})

	err := run(context.Background(), pl, filepath.Join(t.TempDir(), defaultAudioFile), "", &bytes.Buffer{}, &bytes.Buffer{})
	assert.ErrorIs(t, err, apperr.ErrMissingInput)
	assert.Equal(t, apperr.ExitConfigError, apperr.ExitCode(err))
}

func TestRootCmdFlags(t *testing.T) {
	cmd := newRootCmd()
	flag := cmd.Flags().Lookup("output-dir")
	require.NotNil(t, flag)
	assert.Equal(t, "o", flag.Shorthand)
}
