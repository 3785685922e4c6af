package narration

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"quote-shorts-pipeline/config"
)

// ---------------------------------------------------------------------------
// ElevenLabs Text-to-Speech client
// Converts the chosen quote into narrated speech with a fixed voice profile.
// ---------------------------------------------------------------------------

const (
	defaultBaseURL = "https://api.elevenlabs.io"
	modelID        = "eleven_multilingual_v2"
	outputFormat   = "mp3_44100_128"
)

// ErrSynthesis is returned when narration synthesis fails. It is fatal to
// the run; no partial video is produced.
var ErrSynthesis = errors.New("narration synthesis failed")

// Synthesizer produces a speech audio file from quote text.
type Synthesizer struct {
	apiKey  string
	voiceID string
	baseURL string
	client  *http.Client
}

// New creates a Synthesizer using the ELEVENLABS_API_KEY env credential and
// the configured voice id.
func New(cfg *config.Config) *Synthesizer {
	return &Synthesizer{
		apiKey:  os.Getenv("ELEVENLABS_API_KEY"),
		voiceID: cfg.Narration.VoiceID,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: time.Duration(cfg.Narration.TimeoutSec) * time.Second},
	}
}

type synthesisRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id"`
}

// Synthesize writes narrated speech for text to outPath as MP3. The call
// blocks until the audio is fully written; the pipeline never overlaps it
// with another stage.
func (s *Synthesizer) Synthesize(ctx context.Context, text, outPath string) error {
	if s.apiKey == "" {
		return fmt.Errorf("%w: ELEVENLABS_API_KEY not set", ErrSynthesis)
	}

	body, err := json.Marshal(synthesisRequest{Text: text, ModelID: modelID})
	if err != nil {
		return fmt.Errorf("%w: encode request: %v", ErrSynthesis, err)
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s?output_format=%s", s.baseURL, s.voiceID, outputFormat)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSynthesis, err)
	}
	req.Header.Set("xi-api-key", s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSynthesis, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: status %d: %s", ErrSynthesis, resp.StatusCode, snippet)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("%w: create %s: %v", ErrSynthesis, outPath, err)
	}
	n, err := io.Copy(f, resp.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrSynthesis, outPath, err)
	}

	log.Printf("[narration] %d bytes → %s", n, outPath)
	return nil
}
