package assemble

import (
	"fmt"
	"math/rand"
	"strings"

	"quote-shorts-pipeline/config"
)

// Params holds everything the assembler needs for one run: clip timing, the
// music slice offset and the canvas filter graph.
type Params struct {
	Duration    float64 // final clip length in seconds
	MusicOffset float64 // start offset into the background music track
	TotalFrames int
	Filter      string // filter graph for the canvas stage
}

// EscapeFilterText escapes the characters that are syntactically significant
// to the ffmpeg filter-graph mini-language. Interpolating unescaped text
// corrupts or aborts the drawtext invocation, so this is a hard contract:
// every occurrence of colon, single quote and comma is escaped exactly once.
func EscapeFilterText(s string) string {
	s = strings.ReplaceAll(s, ":", "\\:")
	s = strings.ReplaceAll(s, "'", "\\'")
	s = strings.ReplaceAll(s, ",", "\\,")
	return s
}

// Parameterizer derives Params from the probed durations.
type Parameterizer struct {
	cfg *config.Config
	rng *rand.Rand
}

// NewParameterizer creates a Parameterizer drawing randomness from rng.
func NewParameterizer(cfg *config.Config, rng *rand.Rand) *Parameterizer {
	return &Parameterizer{cfg: cfg, rng: rng}
}

// Derive computes the final clip duration, a random music start offset and
// the canvas filter graph.
//
// Duration policy: narration duration, raised to the configured floor when
// one is set. The music offset is uniform over the part of the track that
// still leaves a full clip of music; when the music is shorter than the clip
// the offset is exactly 0.
func (p *Parameterizer) Derive(quote string, narrationDur, musicDur float64) Params {
	dur := narrationDur
	if dur < p.cfg.Video.MinDurationSec {
		dur = p.cfg.Video.MinDurationSec
	}

	maxStart := musicDur - dur
	if maxStart < 0 {
		maxStart = 0
	}
	offset := 0.0
	if maxStart > 0 {
		offset = p.rng.Float64() * maxStart
	}

	frames := int(dur * float64(p.cfg.Video.FPS))
	return Params{
		Duration:    dur,
		MusicOffset: offset,
		TotalFrames: frames,
		Filter:      p.buildFilter(quote, dur, frames),
	}
}

// buildFilter assembles the canvas filter graph: scale with aspect-preserving
// pad to the target resolution, per-frame zoom, then the caption overlay.
func (p *Parameterizer) buildFilter(quote string, dur float64, frames int) string {
	v := p.cfg.Video
	base := fmt.Sprintf(
		"[0:v]scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2,"+
			"zoompan=z='zoom+%.4f':d=%d:s=%dx%d,fps=%d,format=yuv420p",
		v.Width, v.Height, v.Width, v.Height,
		v.ZoomStep, frames, v.Width, v.Height, v.FPS,
	)
	return base + "," + p.captionFilter(quote, dur, frames)
}

// captionFilter builds the drawtext overlay. Two placement policies:
//
//   - scroll: the text position is a function of the frame index modulo a
//     cycle length, sweeping the caption vertically through the frame.
//   - fade: the caption sits centered, fading in over fade_in_sec and staying
//     visible for the whole clip.
func (p *Parameterizer) captionFilter(quote string, dur float64, frames int) string {
	v := p.cfg.Video
	safe := EscapeFilterText(quote)

	common := fmt.Sprintf(
		"drawtext=fontfile=%s:text='%s':fontcolor=white:fontsize=%d:borderw=2:bordercolor=black@0.7:x='(w-text_w)/2'",
		v.FontFile, safe, v.FontSize,
	)

	if v.CaptionStyle == "fade" {
		return common + fmt.Sprintf(
			":y='(h-text_h)/2':alpha='min(t/%.2f\\,1)':enable='between(t\\,0\\,%.2f)'",
			v.FadeInSec, dur,
		)
	}

	cycle := frames * v.ScrollStep
	return common + fmt.Sprintf(
		":y='h-(mod(n*%d\\,%d)*h/%d)'",
		v.ScrollStep, cycle, frames,
	)
}
