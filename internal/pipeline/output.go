package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
)

// TimestampFormat is the layout used in output file names.
const TimestampFormat = "20060102_150405"

// Fixed output names, overwritten on every run.
const (
	TranscriptionFile = "transcription.md"
	SummaryFile       = "summary.md"
	AnalysisFile      = "analysis.json"
)

// Outputs lists the files written for one run.
type Outputs struct {
	Transcription string
	Summary       string
	Analysis      string
	// Fixed holds the fixed-name copies in the order transcription, summary, analysis.
	Fixed []string
}

// MarshalAnalysis renders a with two-space indentation.
func MarshalAnalysis(a *Analysis) ([]byte, error) {
	return json.MarshalIndent(a, "", "  ")
}

// Save writes the transcript, summary and analysis to dir, creating it if
// needed. Each artifact is written under a timestamped name and under its
// fixed name.
func Save(dir, base string, stamp time.Time, transcript, summary string, analysis *Analysis) (Outputs, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Outputs{}, fmt.Errorf("creating output directory: %w", err)
	}

	analysisJSON, err := MarshalAnalysis(analysis)
	if err != nil {
		return Outputs{}, fmt.Errorf("encoding analysis: %w", err)
	}

	ts := stamp.Format(TimestampFormat)
	out := Outputs{
		Transcription: filepath.Join(dir, fmt.Sprintf("transcription_%s_%s.md", base, ts)),
		Summary:       filepath.Join(dir, fmt.Sprintf("summary_%s_%s.md", base, ts)),
		Analysis:      filepath.Join(dir, fmt.Sprintf("analysis_%s_%s.json", base, ts)),
		Fixed: []string{
			filepath.Join(dir, TranscriptionFile),
			filepath.Join(dir, SummaryFile),
			filepath.Join(dir, AnalysisFile),
		},
	}

	contents := [][]byte{[]byte(transcript), []byte(summary), analysisJSON}
	paths := []string{out.Transcription, out.Summary, out.Analysis}
	for i, content := range contents {
		for _, path := range []string{paths[i], out.Fixed[i]} {
			if err := os.WriteFile(path, content, 0o644); err != nil {
				return Outputs{}, fmt.Errorf("writing %s: %w", path, err)
			}
		}
	}
	return out, nil
}
