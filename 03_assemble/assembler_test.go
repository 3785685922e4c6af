package assemble

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedStage struct {
	stage string
	args  []string
}

// newCapturingAssembler intercepts the exec boundary so stage sequencing and
// argument construction can be checked without ffmpeg installed. The fake
// stands in for ffmpeg by materializing each stage's output file, so cleanup
// behavior is observable too.
func newCapturingAssembler(t *testing.T, failAt string) (*Assembler, *[]capturedStage, string) {
	t.Helper()
	cfg := videoConfig()
	cfg.Paths.Output = t.TempDir()
	workDir := t.TempDir()

	a := NewAssembler(cfg, workDir)
	var captured []capturedStage
	a.run = func(stage string, cmd *exec.Cmd) error {
		captured = append(captured, capturedStage{stage: stage, args: cmd.Args})
		if stage == failAt {
			return &StageError{Stage: stage, ExitStatus: 1, Err: errors.New("exit status 1")}
		}
		for _, arg := range cmd.Args {
			if strings.HasPrefix(arg, workDir) || strings.HasPrefix(arg, cfg.Paths.Output) {
				require.NoError(t, os.WriteFile(arg, []byte("x"), 0644))
			}
		}
		return nil
	}
	return a, &captured, workDir
}

func TestAssemble_StageSequence(t *testing.T) {
	a, captured, _ := newCapturingAssembler(t, "")
	p := Params{Duration: 6, MusicOffset: 12.5, TotalFrames: 180, Filter: "[0:v]scale"}

	out, err := a.Assemble(context.Background(), "bg.jpg", "voice.mp3", "calm.mp3", p)
	require.NoError(t, err)
	assert.Contains(t, out, "video_")
	assert.True(t, strings.HasSuffix(out, ".mp4"))

	require.Len(t, *captured, 4)
	assert.Equal(t, "canvas", (*captured)[0].stage)
	assert.Equal(t, "trim", (*captured)[1].stage)
	assert.Equal(t, "mix", (*captured)[2].stage)
	assert.Equal(t, "mux", (*captured)[3].stage)
}

func TestAssemble_RemovesIntermediatesOnSuccess(t *testing.T) {
	a, _, workDir := newCapturingAssembler(t, "")
	p := Params{Duration: 6, MusicOffset: 1, TotalFrames: 180, Filter: "f"}

	out, err := a.Assemble(context.Background(), "bg.jpg", "voice.mp3", "calm.mp3", p)
	require.NoError(t, err)

	for _, name := range []string{"canvas.mp4", "trimmed.mp4", "mixed.mp3"} {
		_, statErr := os.Stat(filepath.Join(workDir, name))
		assert.True(t, os.IsNotExist(statErr), "intermediate %s should be removed", name)
	}
	// Only the final video survives.
	_, statErr := os.Stat(out)
	assert.NoError(t, statErr)
}

func TestAssemble_CanvasArgs(t *testing.T) {
	a, captured, _ := newCapturingAssembler(t, "")
	p := Params{Duration: 6, TotalFrames: 180, Filter: "[0:v]scale=1080:1920"}

	_, err := a.Assemble(context.Background(), "bg.jpg", "voice.mp3", "calm.mp3", p)
	require.NoError(t, err)

	args := strings.Join((*captured)[0].args, " ")
	assert.Contains(t, args, "-loop 1")
	assert.Contains(t, args, "-t 6.000")
	assert.Contains(t, args, "bg.jpg")
	assert.Contains(t, args, "-filter_complex [0:v]scale=1080:1920")
	assert.Contains(t, args, "libx264")
	assert.Contains(t, args, "yuv420p")
	assert.Contains(t, args, "-y")
}

func TestAssemble_MixArgs(t *testing.T) {
	a, captured, _ := newCapturingAssembler(t, "")
	p := Params{Duration: 6, MusicOffset: 12.5, TotalFrames: 180, Filter: "f"}

	_, err := a.Assemble(context.Background(), "bg.jpg", "voice.mp3", "calm.mp3", p)
	require.NoError(t, err)

	args := strings.Join((*captured)[2].args, " ")
	assert.Contains(t, args, "-ss 12.500")
	assert.Contains(t, args, "calm.mp3")
	assert.Contains(t, args, "voice.mp3")
	assert.Contains(t, args, "[1:a]volume=1[a0];[0:a]volume=0.30[a1]")
	assert.Contains(t, args, "amix=inputs=2:duration=first:dropout_transition=2")
	assert.Contains(t, args, "libmp3lame")
}

func TestAssemble_MuxArgs(t *testing.T) {
	a, captured, _ := newCapturingAssembler(t, "")
	p := Params{Duration: 6, TotalFrames: 180, Filter: "f"}

	out, err := a.Assemble(context.Background(), "bg.jpg", "voice.mp3", "calm.mp3", p)
	require.NoError(t, err)

	args := strings.Join((*captured)[3].args, " ")
	assert.Contains(t, args, "-c:v copy")
	assert.Contains(t, args, "-c:a aac")
	assert.Contains(t, args, out)
}

func TestAssemble_CanvasFailureAbortsRun(t *testing.T) {
	a, captured, _ := newCapturingAssembler(t, "canvas")
	p := Params{Duration: 6, TotalFrames: 180, Filter: "f"}

	_, err := a.Assemble(context.Background(), "bg.jpg", "voice.mp3", "calm.mp3", p)
	require.Error(t, err)

	var stageErr *StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, "canvas", stageErr.Stage)
	assert.Equal(t, 1, stageErr.ExitStatus)

	// No later stage ran.
	assert.Len(t, *captured, 1)
}

func TestAssemble_MixFailureSkipsMux(t *testing.T) {
	a, captured, workDir := newCapturingAssembler(t, "mix")
	p := Params{Duration: 6, TotalFrames: 180, Filter: "f"}

	_, err := a.Assemble(context.Background(), "bg.jpg", "voice.mp3", "calm.mp3", p)
	require.Error(t, err)

	var stageErr *StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, "mix", stageErr.Stage)
	assert.Len(t, *captured, 3)

	// Intermediates are left for the caller's work-dir cleanup.
	_, statErr := os.Stat(filepath.Join(workDir, "canvas.mp4"))
	assert.NoError(t, statErr)
}

func TestStageError_Message(t *testing.T) {
	err := &StageError{Stage: "mux", ExitStatus: 234, Err: errors.New("boom")}
	assert.Equal(t, `assembly stage "mux" failed (exit 234): boom`, err.Error())
	assert.Equal(t, "boom", fmt.Sprintf("%v", errors.Unwrap(err)))
}
