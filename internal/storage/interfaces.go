// Package storage defines the output store contract for written token
// files.
package storage

import (
	"context"

	"token-catalog/internal/domain"
)

// TokenStore maps (target chain, canonical address) pairs to durable
// token files. The skip-if-exists policy belongs to the caller;
// Exists is advisory only.
type TokenStore interface {
	// Path returns the deterministic location for a pair. The mapping
	// is a bijection: re-processing the same pair always targets the
	// same location.
	Path(targetChain, canonicalAddress string) string

	// Exists reports whether a token file is already present at the
	// pair's location.
	Exists(ctx context.Context, targetChain, canonicalAddress string) (bool, error)

	// Write persists the token at the pair's location, creating any
	// missing intermediate directories. Writing the same token twice
	// produces byte-identical content. The write is atomic: a crashed
	// run never leaves a truncated file behind.
	Write(ctx context.Context, targetChain, canonicalAddress string, token *domain.ResolvedToken) error
}
