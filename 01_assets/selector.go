package assets

import (
	"bufio"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"quote-shorts-pipeline/config"
	"quote-shorts-pipeline/types"
)

var (
	// ErrMissingQuotes is returned when the quotes file is absent or holds no quotes.
	ErrMissingQuotes = errors.New("quotes file missing or empty")
	// ErrEmptyAssetSet is returned when an asset folder has no eligible files.
	ErrEmptyAssetSet = errors.New("no eligible files in asset folder")
)

var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}

// Selector picks the quote, background image and music track for one run.
// Selection is uniform-random over the eligible set; nothing is persisted.
type Selector struct {
	cfg *config.Config
	rng *rand.Rand
}

// New creates a Selector drawing randomness from rng.
func New(cfg *config.Config, rng *rand.Rand) *Selector {
	return &Selector{cfg: cfg, rng: rng}
}

// Pick returns the inputs for one run.
func (s *Selector) Pick() (*types.Selection, error) {
	quotes, err := loadQuotes(s.cfg.Assets.QuotesPath)
	if err != nil {
		return nil, err
	}
	quote := quotes[s.rng.Intn(len(quotes))]

	image, err := s.pickFile(s.cfg.Assets.BgFolder, func(ext string) bool { return imageExts[ext] })
	if err != nil {
		return nil, err
	}
	music, err := s.pickFile(s.cfg.Assets.MusicFolder, func(ext string) bool { return ext == ".mp3" })
	if err != nil {
		return nil, err
	}

	return &types.Selection{Quote: quote, ImagePath: image, MusicPath: music}, nil
}

// loadQuotes reads the quote source: UTF-8 text, one quote per non-empty line.
func loadQuotes(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissingQuotes, path)
		}
		return nil, fmt.Errorf("open quotes file: %w", err)
	}
	defer f.Close()

	var quotes []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			quotes = append(quotes, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read quotes file: %w", err)
	}
	if len(quotes) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingQuotes, path)
	}
	return quotes, nil
}

// pickFile chooses one eligible file from dir. Extension matching is
// case-insensitive. ReadDir returns entries sorted by name, so the choice is
// deterministic for a fixed seed and folder contents.
func (s *Selector) pickFile(dir string, eligible func(ext string) bool) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read asset folder %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if eligible(strings.ToLower(filepath.Ext(e.Name()))) {
			files = append(files, e.Name())
		}
	}
	if len(files) == 0 {
		return "", fmt.Errorf("%w: %s", ErrEmptyAssetSet, dir)
	}
	return filepath.Join(dir, files[s.rng.Intn(len(files))]), nil
}
