package upload

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"golang.org/x/oauth2"
)

// ErrAuth is returned when no usable credential can be obtained.
var ErrAuth = errors.New("youtube auth failed")

// CredentialStore caches the OAuth2 token on disk and knows how to refresh
// or re-acquire it. Lifecycle: cached+valid → reuse; cached+expired but
// refreshable → refresh and re-cache; otherwise → interactive authorization
// and cache. The cache file is rewritten after any change.
type CredentialStore struct {
	path       string
	conf       *oauth2.Config
	authPrompt func(authURL string) (string, error)
}

// NewCredentialStore creates a store caching tokens at path.
func NewCredentialStore(path string, conf *oauth2.Config) *CredentialStore {
	return &CredentialStore{path: path, conf: conf, authPrompt: promptAuthCode}
}

// Token returns a valid OAuth2 token, going through the cache, the refresh
// endpoint or the interactive flow as needed.
func (s *CredentialStore) Token(ctx context.Context) (*oauth2.Token, error) {
	tok, err := s.load()
	if err == nil && tok.Valid() {
		return tok, nil
	}

	if err == nil && tok.RefreshToken != "" {
		refreshed, rerr := s.conf.TokenSource(ctx, tok).Token()
		if rerr == nil {
			if serr := s.save(refreshed); serr != nil {
				log.Printf("[upload] warning: could not cache refreshed token: %v", serr)
			}
			return refreshed, nil
		}
		log.Printf("[upload] token refresh failed: %v — falling back to interactive auth", rerr)
	}

	return s.authorize(ctx)
}

// authorize runs the installed-app flow: print the consent URL, read the
// authorization code, exchange it and cache the result.
func (s *CredentialStore) authorize(ctx context.Context) (*oauth2.Token, error) {
	authURL := s.conf.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	code, err := s.authPrompt(authURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuth, err)
	}
	tok, err := s.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: exchange: %v", ErrAuth, err)
	}
	if err := s.save(tok); err != nil {
		log.Printf("[upload] warning: could not cache token: %v", err)
	}
	return tok, nil
}

func promptAuthCode(authURL string) (string, error) {
	fmt.Printf("Open this URL in your browser and paste the authorization code:\n%s\n> ", authURL)
	var code string
	if _, err := fmt.Scan(&code); err != nil {
		return "", fmt.Errorf("read authorization code: %w", err)
	}
	return code, nil
}

func (s *CredentialStore) load() (*oauth2.Token, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("parse token cache: %w", err)
	}
	return &tok, nil
}

func (s *CredentialStore) save(tok *oauth2.Token) error {
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}
