// Package memory provides an in-memory storage.TokenStore for tests.
package memory

import (
	"context"
	"path"
	"sync"

	"token-catalog/internal/domain"
	"token-catalog/internal/storage"
)

// TokenStore is an in-memory implementation of storage.TokenStore.
type TokenStore struct {
	mu     sync.RWMutex
	tokens map[string]*domain.ResolvedToken // keyed by Path()
	writes map[string]int                   // write count per location
}

// NewTokenStore creates a new in-memory token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{
		tokens: make(map[string]*domain.ResolvedToken),
		writes: make(map[string]int),
	}
}

// Path returns <chain>/<address>.json.
func (s *TokenStore) Path(targetChain, canonicalAddress string) string {
	return path.Join(targetChain, canonicalAddress+".json")
}

// Exists reports whether a token was written for the pair.
func (s *TokenStore) Exists(_ context.Context, targetChain, canonicalAddress string) (bool, error) {
	if targetChain == "" || canonicalAddress == "" {
		return false, storage.ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.tokens[s.Path(targetChain, canonicalAddress)]
	return exists, nil
}

// Write stores a copy of the token under the pair's location.
func (s *TokenStore) Write(_ context.Context, targetChain, canonicalAddress string, token *domain.ResolvedToken) error {
	if targetChain == "" || canonicalAddress == "" || token == nil {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tokenCopy := *token
	loc := s.Path(targetChain, canonicalAddress)
	s.tokens[loc] = &tokenCopy
	s.writes[loc]++
	return nil
}

// Get returns the token written for the pair, or nil.
func (s *TokenStore) Get(targetChain, canonicalAddress string) *domain.ResolvedToken {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, exists := s.tokens[s.Path(targetChain, canonicalAddress)]
	if !exists {
		return nil
	}
	tokenCopy := *t
	return &tokenCopy
}

// WriteCount returns how many times the pair's location was written.
func (s *TokenStore) WriteCount(targetChain, canonicalAddress string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.writes[s.Path(targetChain, canonicalAddress)]
}

// Locations returns every written location.
func (s *TokenStore) Locations() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.tokens))
	for loc := range s.tokens {
		out = append(out, loc)
	}
	return out
}

// Seed marks a location as already written without going through
// Write, for skip-if-exists tests.
func (s *TokenStore) Seed(targetChain, canonicalAddress string, token *domain.ResolvedToken) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tokenCopy := *token
	s.tokens[s.Path(targetChain, canonicalAddress)] = &tokenCopy
}

var _ storage.TokenStore = (*TokenStore)(nil)
