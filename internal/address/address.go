// Package address canonicalizes on-chain addresses. Normalization is
// pure: the same input always yields the same output and
// Normalize(Normalize(x)) == Normalize(x).
package address

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mr-tron/base58"

	"token-catalog/internal/chains"
)

// ErrInvalidAddress is returned for any address that cannot be
// canonicalized: wrong length, bad characters, or a failed checksum.
var ErrInvalidAddress = errors.New("invalid address")

// Normalize canonicalizes a raw address string for the given chain.
func Normalize(chain *chains.Chain, raw string) (string, error) {
	switch chain.VM {
	case chains.VMSolana:
		return normalizeBase58(raw)
	default:
		return normalizeEVM(raw)
	}
}

// normalizeEVM validates an EVM address and returns its canonical
// all-lowercase 0x-prefixed form. Mixed-case inputs must carry a valid
// EIP-55 checksum; single-case inputs carry no checksum intent and are
// accepted as-is.
func normalizeEVM(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if !common.IsHexAddress(s) {
		return "", fmt.Errorf("%w: %q is not a hex address", ErrInvalidAddress, raw)
	}

	addr := common.HexToAddress(s)

	hex := strings.TrimPrefix(s, "0x")
	hex = strings.TrimPrefix(hex, "0X")
	if isMixedCase(hex) && "0x"+hex != addr.Hex() {
		return "", fmt.Errorf("%w: %q fails EIP-55 checksum", ErrInvalidAddress, raw)
	}

	return strings.ToLower(addr.Hex()), nil
}

// normalizeBase58 validates a base58 account address (32 bytes) and
// returns its canonical base58 re-encoding.
func normalizeBase58(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	decoded, err := base58.Decode(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q is not base58: %v", ErrInvalidAddress, raw, err)
	}
	if len(decoded) != 32 {
		return "", fmt.Errorf("%w: %q decodes to %d bytes, want 32", ErrInvalidAddress, raw, len(decoded))
	}
	return base58.Encode(decoded), nil
}

func isMixedCase(s string) bool {
	hasUpper := strings.ContainsAny(s, "ABCDEF")
	hasLower := strings.ContainsAny(s, "abcdef")
	return hasUpper && hasLower
}
