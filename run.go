package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	assets "quote-shorts-pipeline/01_assets"
	narration "quote-shorts-pipeline/02_narration"
	assemble "quote-shorts-pipeline/03_assemble"
	upload "quote-shorts-pipeline/04_upload"
	"quote-shorts-pipeline/config"
	"quote-shorts-pipeline/ledger"
	"quote-shorts-pipeline/types"

	"github.com/google/uuid"
)

// Pipeline owns the collaborators shared across runs. Each run gets its own
// uuid-named work directory, so overlapping runs never share temp files.
type Pipeline struct {
	cfg      *config.Config
	synth    synthesizer
	upld     publisher
	book     *ledger.Ledger
	probe    func(ctx context.Context, path string) (float64, error)
	assemble func(ctx context.Context, workDir, imagePath, narrationPath, musicPath string, p assemble.Params) (string, error)
}

type synthesizer interface {
	Synthesize(ctx context.Context, text, outPath string) error
}

type publisher interface {
	Run(ctx context.Context, videoFile string, meta *types.VideoMetadata) (string, string, error)
}

// NewPipeline wires up the stages from config.
func NewPipeline(cfg *config.Config) *Pipeline {
	return &Pipeline{
		cfg:   cfg,
		synth: narration.New(cfg),
		upld:  upload.New(cfg),
		book:  ledger.New(cfg.Paths.Ledger),
		probe: assemble.ProbeDuration,
		assemble: func(ctx context.Context, workDir, imagePath, narrationPath, musicPath string, p assemble.Params) (string, error) {
			return assemble.NewAssembler(cfg, workDir).Assemble(ctx, imagePath, narrationPath, musicPath, p)
		},
	}
}

// Run executes one full pipeline run, from asset selection through upload
// and ledger append. Selection, probe, synthesis and assembly failures abort
// before any upload; auth and upload failures are logged and the run ends
// quietly with the video kept on disk.
func (p *Pipeline) Run(ctx context.Context) (runErr error) {
	runID := uuid.NewString()[:8]
	result := &types.RunResult{
		RunID:     runID,
		StartedAt: time.Now().UTC().Format(time.RFC3339),
	}
	defer func() {
		result.CompletedAt = time.Now().UTC().Format(time.RFC3339)
		if runErr != nil {
			result.Error = runErr.Error()
		}
		if data, err := json.Marshal(result); err == nil {
			log.Printf("[run] result: %s", data)
		}
	}()

	log.Printf("🎬 quote shorts run starting (id %s)", runID)

	workDir := filepath.Join(p.cfg.Paths.Work, runID)
	if err := os.MkdirAll(workDir, 0755); err != nil {
		return fmt.Errorf("create work dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			log.Printf("[run] work dir cleanup: %v", err)
		}
	}()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	// ─── Stage 1: asset selection ───
	sel, err := assets.New(p.cfg, rng).Pick()
	if err != nil {
		return fmt.Errorf("asset selection: %w", err)
	}
	result.Selection = sel
	log.Printf("[run] quote: %q", sel.Quote)
	log.Printf("[run] image: %s", sel.ImagePath)
	log.Printf("[run] music: %s", sel.MusicPath)

	// Dedup gate: skip runs whose exact inputs were already published.
	hash := ledger.ContentHash(sel.Quote, sel.ImagePath, sel.MusicPath)
	result.ContentHash = hash
	seen, err := p.book.Seen(hash)
	if err != nil {
		return fmt.Errorf("ledger check: %w", err)
	}
	if seen {
		result.Skipped = true
		log.Printf("[run] content %s already uploaded, skipping run", hash[:12])
		return nil
	}

	// ─── Stage 2: narration ───
	voiceFile := filepath.Join(workDir, "voice.mp3")
	if err := p.synth.Synthesize(ctx, sel.Quote, voiceFile); err != nil {
		return fmt.Errorf("narration: %w", err)
	}

	// ─── Stage 3: duration probes ───
	voiceDur, err := p.probe(ctx, voiceFile)
	if err != nil {
		return fmt.Errorf("probe narration: %w", err)
	}
	musicDur, err := p.probe(ctx, sel.MusicPath)
	if err != nil {
		return fmt.Errorf("probe music: %w", err)
	}
	log.Printf("[run] narration %.2fs, music %.2fs", voiceDur, musicDur)

	// ─── Stage 4: parameterize + assemble ───
	params := assemble.NewParameterizer(p.cfg, rng).Derive(sel.Quote, voiceDur, musicDur)
	videoFile, err := p.assemble(ctx, workDir, sel.ImagePath, voiceFile, sel.MusicPath, params)
	if err != nil {
		return fmt.Errorf("assembly: %w", err)
	}
	result.VideoFile = videoFile
	log.Printf("[run] ✅ video ready: %s", videoFile)

	// ─── Stage 5: upload ───
	// Auth/upload failures end the run without raising: the file stays on
	// disk, unpublished, and no ledger entry is written.
	meta := upload.BuildMetadata(p.cfg, sel.Quote)
	videoID, videoURL, err := p.upld.Run(ctx, videoFile, meta)
	if err != nil {
		result.Error = err.Error()
		log.Printf("[run] upload failed: %v (video kept at %s)", err, videoFile)
		return nil
	}
	result.YouTubeID = videoID
	result.YouTubeURL = videoURL

	if err := p.book.Append(videoID, hash); err != nil {
		log.Printf("[run] warning: ledger append failed: %v", err)
	}

	log.Printf("✅ run %s complete: %s", runID, videoURL)
	return nil
}
