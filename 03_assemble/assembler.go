package assemble

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"quote-shorts-pipeline/config"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Assembler runs the ordered ffmpeg stages that turn a still image, a
// narration clip and a music track into the final vertical video. Every
// intermediate lives in the per-run work dir; no retry on any stage.
type Assembler struct {
	cfg     *config.Config
	workDir string
	run     func(stage string, cmd *exec.Cmd) error
}

// NewAssembler creates an Assembler writing intermediates under workDir.
func NewAssembler(cfg *config.Config, workDir string) *Assembler {
	a := &Assembler{cfg: cfg, workDir: workDir}
	a.run = a.runCmd
	return a
}

func (a *Assembler) runCmd(stage string, cmd *exec.Cmd) error {
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return stageErr(stage, err)
	}
	return nil
}

// Assemble executes the stage sequence and returns the finished video path:
//
//  1. canvas — loop the image for the clip duration with zoom and caption
//  2. trim   — cut the canvas to the exact duration, stream copy
//  3. mix    — narration over an offset slice of music
//  4. mux    — video copy + AAC audio into the final container
//
// Intermediates are removed best-effort once the mux succeeds; a failed run
// leaves them for the caller's work-dir cleanup.
func (a *Assembler) Assemble(ctx context.Context, imagePath, narrationPath, musicPath string, p Params) (string, error) {
	canvas := filepath.Join(a.workDir, "canvas.mp4")
	trimmed := filepath.Join(a.workDir, "trimmed.mp4")
	mixed := filepath.Join(a.workDir, "mixed.mp3")
	finalPath := filepath.Join(a.cfg.Paths.Output,
		fmt.Sprintf("video_%s.mp4", time.Now().Format("20060102_150405")))

	if err := a.buildCanvas(ctx, imagePath, canvas, p); err != nil {
		return "", err
	}
	if err := a.trimCanvas(ctx, canvas, trimmed, p); err != nil {
		return "", err
	}
	if err := a.mixAudio(ctx, narrationPath, musicPath, mixed, p); err != nil {
		return "", err
	}
	if err := a.mux(ctx, trimmed, mixed, finalPath); err != nil {
		return "", err
	}

	for _, f := range []string{canvas, trimmed, mixed} {
		if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
			log.Printf("[assemble] cleanup: could not remove %s: %v", f, err)
		}
	}
	return finalPath, nil
}

// buildCanvas loops the still image into a silent visual base with the zoom
// and burned-in caption from the filter graph.
func (a *Assembler) buildCanvas(ctx context.Context, imagePath, outPath string, p Params) error {
	log.Printf("[assemble] building canvas (%.2fs, %d frames)", p.Duration, p.TotalFrames)
	compiled := ffmpeg.Input(imagePath, ffmpeg.KwArgs{
		"loop": 1,
		"t":    fmt.Sprintf("%.3f", p.Duration),
	}).
		Output(outPath, ffmpeg.KwArgs{
			"filter_complex": p.Filter,
			"c:v":            "libx264",
			"preset":         "fast",
			"pix_fmt":        "yuv420p",
		}).
		OverWriteOutput().
		Compile()
	return a.run("canvas", exec.CommandContext(ctx, "ffmpeg", compiled.Args[1:]...))
}

// trimCanvas cuts the canvas to the exact clip duration. The image loop can
// overshoot by a frame, so the trim keeps the mux aligned with the audio.
func (a *Assembler) trimCanvas(ctx context.Context, inPath, outPath string, p Params) error {
	compiled := ffmpeg.Input(inPath).
		Output(outPath, ffmpeg.KwArgs{
			"t": fmt.Sprintf("%.3f", p.Duration),
			"c": "copy",
		}).
		OverWriteOutput().
		Compile()
	return a.run("trim", exec.CommandContext(ctx, "ffmpeg", compiled.Args[1:]...))
}

// mixAudio lays the narration at full volume over the offset music slice at
// the configured attenuation. amix duration=first keys the mix length to the
// narration track.
func (a *Assembler) mixAudio(ctx context.Context, narrationPath, musicPath, outPath string, p Params) error {
	log.Printf("[assemble] mixing audio (music offset %.2fs)", p.MusicOffset)
	filter := fmt.Sprintf(
		"[1:a]volume=1[a0];[0:a]volume=%.2f[a1];[a0][a1]amix=inputs=2:duration=first:dropout_transition=2",
		a.cfg.Video.MusicVolume,
	)
	cmd := exec.CommandContext(ctx, "ffmpeg", "-y",
		"-ss", fmt.Sprintf("%.3f", p.MusicOffset),
		"-i", musicPath,
		"-i", narrationPath,
		"-filter_complex", filter,
		"-c:a", "libmp3lame",
		outPath,
	)
	return a.run("mix", cmd)
}

// mux joins the trimmed visual stream with the mixed audio, copying video
// and re-encoding audio to AAC.
func (a *Assembler) mux(ctx context.Context, videoPath, audioPath, outPath string) error {
	log.Printf("[assemble] muxing final video → %s", outPath)
	cmd := exec.CommandContext(ctx, "ffmpeg", "-y",
		"-i", videoPath,
		"-i", audioPath,
		"-c:v", "copy",
		"-c:a", "aac",
		"-b:a", "192k",
		"-shortest",
		"-movflags", "+faststart",
		outPath,
	)
	return a.run("mux", cmd)
}
