package ledger

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"sync"
)

// Ledger is the append-only record of uploaded videos: one line per upload,
// `<video id>\t<content hash>`. It doubles as the dedup gate — a planned run
// whose content hash is already recorded is skipped before any assembly or
// upload work happens.
type Ledger struct {
	path string
	mu   sync.Mutex
}

// New creates a Ledger backed by the flat file at path. The file is created
// lazily on first append.
func New(path string) *Ledger {
	return &Ledger{path: path}
}

// ContentHash fingerprints the planned inputs of a run.
func ContentHash(quote, imagePath, musicPath string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\n%s\n%s\n", quote, imagePath, musicPath)
	return hex.EncodeToString(h.Sum(nil))
}

// Seen reports whether hash was recorded by a previous upload. A missing
// ledger file means nothing has been uploaded yet.
func (l *Ledger) Seen(hash string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 2 && fields[1] == hash {
			return true, nil
		}
	}
	if err := sc.Err(); err != nil {
		return false, fmt.Errorf("read ledger: %w", err)
	}
	return false, nil
}

// Append records an uploaded video id with the content hash of its inputs.
func (l *Ledger) Append(videoID, hash string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	_, err = fmt.Fprintf(f, "%s\t%s\n", videoID, hash)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("append ledger: %w", err)
	}
	return nil
}
