package assemble

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ProbeDuration returns a media file's duration in seconds using ffprobe.
// One subprocess per call, no caching.
func ProbeDuration(ctx context.Context, path string) (float64, error) {
	out, err := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	).Output()
	if err != nil {
		return 0, fmt.Errorf("%w: ffprobe %s: %v", ErrProbe, path, err)
	}
	return parseDuration(string(out))
}

func parseDuration(out string) (float64, error) {
	dur, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: unparseable duration %q", ErrProbe, strings.TrimSpace(out))
	}
	return dur, nil
}
