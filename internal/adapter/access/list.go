// Package access implements the FolderAccessList port as a JSON file
// mapping opaque tokens to folder paths. Tokens are what the persisted
// state references, so renaming the state file or moving the library folder
// breaks cleanly instead of silently pointing at the wrong music.
package access

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/Bloomca/Discosaur/internal/domain"
	"github.com/Bloomca/Discosaur/internal/ports"
)

// List is a file-backed token registry. Every mutation rewrites the whole
// file; the registry holds a handful of entries, one per library folder.
type List struct {
	path string

	mu     sync.Mutex
	tokens map[string]string
}

// NewList loads the registry from filePath, starting empty when the file
// does not exist yet.
func NewList(filePath string) (*List, error) {
	l := &List{
		path:   filePath,
		tokens: make(map[string]string),
	}

	data, err := os.ReadFile(filePath)
	if errors.Is(err, fs.ErrNotExist) {
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading access list: %w", err)
	}
	if err := json.Unmarshal(data, &l.tokens); err != nil {
		return nil, fmt.Errorf("parsing access list: %w", err)
	}
	return l, nil
}

// AddFolder registers a folder and returns its token. Registering the same
// absolute path again returns the existing token.
func (l *List) AddFolder(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving folder path: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for token, existing := range l.tokens {
		if existing == abs {
			return token, nil
		}
	}

	token := uuid.NewString()
	l.tokens[token] = abs
	if err := l.saveLocked(); err != nil {
		delete(l.tokens, token)
		return "", err
	}
	return token, nil
}

// ResolveToken returns the folder path behind a token. The path is verified
// to still exist: a deleted or unmounted folder resolves to an error, and
// the caller drops the albums that referenced it.
func (l *List) ResolveToken(token string) (string, error) {
	l.mu.Lock()
	path, exists := l.tokens[token]
	l.mu.Unlock()

	if !exists {
		return "", domain.ErrTokenNotFound
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("folder %q unavailable: %w", path, err)
	}
	return path, nil
}

// RemoveToken unregisters a token. Unknown tokens are a no-op. A write
// failure leaves the entry in place; a stale token is harmless.
func (l *List) RemoveToken(token string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.tokens[token]; !exists {
		return
	}
	delete(l.tokens, token)
	_ = l.saveLocked()
}

func (l *List) saveLocked() error {
	data, err := json.MarshalIndent(l.tokens, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding access list: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("creating access list directory: %w", err)
	}
	if err := os.WriteFile(l.path, data, 0o644); err != nil {
		return fmt.Errorf("writing access list: %w", err)
	}
	return nil
}

// Verify that List implements the FolderAccessList port.
var _ ports.FolderAccessList = (*List)(nil)
