package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
)

// TokenFile persists a single OAuth token as JSON. The file is written with
// 0600 permissions; its directory is created with 0700.
type TokenFile struct {
	path string
}

// NewTokenFile returns a store backed by path.
func NewTokenFile(path string) *TokenFile {
	return &TokenFile{path: path}
}

// Path returns the backing file path.
func (f *TokenFile) Path() string {
	return f.path
}

// Load reads the stored token. A missing file yields (nil, nil).
func (f *TokenFile) Load() (*oauth2.Token, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("auth: read token file: %w", err)
	}

	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("auth: parse token file %s: %w", f.path, err)
	}
	return &tok, nil
}

// Save writes tok, replacing any previous token.
func (f *TokenFile) Save(tok *oauth2.Token) error {
	if dir := filepath.Dir(f.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("auth: create token dir: %w", err)
		}
	}

	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("auth: encode token: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("auth: write token file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("auth: replace token file: %w", err)
	}
	return nil
}
