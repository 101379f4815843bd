package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Prober reports the length of an audio file in seconds.
type Prober interface {
	Duration(ctx context.Context, path string) (float64, error)
}

// FFProbe reads durations with the ffprobe binary.
type FFProbe struct {
	path    string
	timeout time.Duration
}

// NewFFProbe looks ffprobe up in PATH. A missing binary is reported by
// Duration, not here, so a run without ffprobe still proceeds.
func NewFFProbe() *FFProbe {
	path, _ := exec.LookPath("ffprobe")
	return &FFProbe{
		path:    path,
		timeout: 30 * time.Second,
	}
}

// Duration runs ffprobe on path.
func (f *FFProbe) Duration(ctx context.Context, path string) (float64, error) {
	if f.path == "" {
		return 0, errors.New("ffprobe not found in PATH")
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, f.path,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return 0, fmt.Errorf("ffprobe failed: %s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return 0, fmt.Errorf("failed to run ffprobe: %w", err)
	}

	return parseDuration(string(output))
}

func parseDuration(out string) (float64, error) {
	d, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	if err != nil {
		return 0, fmt.Errorf("unexpected ffprobe output %q", strings.TrimSpace(out))
	}
	if d <= 0 {
		return 0, fmt.Errorf("non-positive duration %v", d)
	}
	return d, nil
}
