// Package file implements storage.TokenStore on a directory tree:
// one file per (target chain, canonical address) pair at
// <root>/<chain>/<address>.json.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"token-catalog/internal/domain"
	"token-catalog/internal/storage"
)

// Store is a filesystem-backed token store.
type Store struct {
	root string
}

// NewStore creates a store rooted at dir. The root itself is created
// lazily on first write.
func NewStore(dir string) *Store {
	return &Store{root: dir}
}

// Path returns <root>/<chain>/<address>.json.
func (s *Store) Path(targetChain, canonicalAddress string) string {
	return filepath.Join(s.root, targetChain, canonicalAddress+".json")
}

// Exists reports whether the token file for the pair is present.
func (s *Store) Exists(_ context.Context, targetChain, canonicalAddress string) (bool, error) {
	if targetChain == "" || canonicalAddress == "" {
		return false, storage.ErrInvalidInput
	}

	_, err := os.Stat(s.Path(targetChain, canonicalAddress))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("stat token file: %w", err)
}

// Write serializes the token and atomically places it at the pair's
// location. The temp file lives in the target directory so the final
// rename never crosses filesystems.
func (s *Store) Write(_ context.Context, targetChain, canonicalAddress string, token *domain.ResolvedToken) error {
	if targetChain == "" || canonicalAddress == "" || token == nil {
		return storage.ErrInvalidInput
	}

	dir := filepath.Join(s.root, targetChain)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create chain directory: %w", err)
	}

	content, err := Encode(token)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+canonicalAddress+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.Path(targetChain, canonicalAddress)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Encode produces the canonical byte representation of a token file.
// Field order is fixed by the struct layout, so encoding the same
// token twice yields identical bytes.
func Encode(token *domain.ResolvedToken) ([]byte, error) {
	content, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal token: %w", err)
	}
	return append(content, '\n'), nil
}

var _ storage.TokenStore = (*Store)(nil)
