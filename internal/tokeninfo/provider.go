// Package tokeninfo resolves the authoritative {symbol, name,
// decimals} fields for a token, either by trusting the feed record or
// by verifying against the chain's ERC-20 contract interface.
package tokeninfo

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"token-catalog/internal/chains"
	"token-catalog/internal/evm"
)

// ErrUnavailable is returned when the live lookup failed or returned
// partial data. It is non-fatal to a run: the caller skips the item.
var ErrUnavailable = errors.New("token info unavailable")

// DefaultDecimals is assumed when the feed omits decimals for a token.
// 18 is the overwhelming ERC-20 convention.
const DefaultDecimals = 18

// Fields are the resolved authoritative token fields.
type Fields struct {
	Symbol   string
	Name     string
	Decimals int
}

// Fallback carries the feed record's own fields; Decimals is nil when
// the feed omitted it.
type Fallback struct {
	Symbol   string
	Name     string
	Decimals *int
}

// fields converts the fallback into resolved fields, applying the
// decimals default.
func (f Fallback) fields() Fields {
	decimals := DefaultDecimals
	if f.Decimals != nil {
		decimals = *f.Decimals
	}
	return Fields{Symbol: f.Symbol, Name: f.Name, Decimals: decimals}
}

// Provider resolves token fields for a canonical address on a chain.
type Provider interface {
	Resolve(ctx context.Context, chain *chains.Chain, address string, fallback Fallback) (Fields, error)
}

// FeedTrustProvider trusts the feed record. It never fails: address
// validity was already established by normalization.
type FeedTrustProvider struct{}

// Resolve returns the fallback fields.
func (FeedTrustProvider) Resolve(_ context.Context, _ *chains.Chain, _ string, fallback Fallback) (Fields, error) {
	return fallback.fields(), nil
}

// ContractReader is the read capability LiveVerifyProvider needs from
// an RPC client.
type ContractReader interface {
	ERC20Decimals(ctx context.Context, addr string) (uint8, error)
	ERC20Symbol(ctx context.Context, addr string) (string, error)
	ERC20Name(ctx context.Context, addr string) (string, error)
}

// DialFunc builds a contract reader for an RPC endpoint.
type DialFunc func(endpoint string) ContractReader

// LiveVerifyProvider verifies {decimals, symbol, name} against the
// chain's contract interface. The three reads run concurrently and
// all must succeed; a token with partial contract support (e.g. a
// missing name()) resolves to ErrUnavailable, never to a partial
// record. Chains without an RPC endpoint fall back to the feed fields.
type LiveVerifyProvider struct {
	dial DialFunc

	mu      sync.Mutex
	clients map[string]ContractReader // keyed by endpoint
}

// NewLiveVerifyProvider creates a live-verify provider. A nil dial
// uses the package's EVM JSON-RPC client.
func NewLiveVerifyProvider(dial DialFunc) *LiveVerifyProvider {
	if dial == nil {
		dial = func(endpoint string) ContractReader {
			return evm.NewClient(endpoint)
		}
	}
	return &LiveVerifyProvider{
		dial:    dial,
		clients: make(map[string]ContractReader),
	}
}

func (p *LiveVerifyProvider) client(endpoint string) ContractReader {
	p.mu.Lock()
	defer p.mu.Unlock()

	if c, ok := p.clients[endpoint]; ok {
		return c
	}
	c := p.dial(endpoint)
	p.clients[endpoint] = c
	return c
}

// Resolve verifies the token fields on chain.
func (p *LiveVerifyProvider) Resolve(ctx context.Context, chain *chains.Chain, address string, fallback Fallback) (Fields, error) {
	if chain.VM != chains.VMEVM {
		return fallback.fields(), nil
	}

	endpoint := chain.Endpoint()
	if endpoint == "" {
		return fallback.fields(), nil
	}

	reader := p.client(endpoint)

	var (
		wg       sync.WaitGroup
		decimals uint8
		symbol   string
		name     string

		decimalsErr, symbolErr, nameErr error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		decimals, decimalsErr = reader.ERC20Decimals(ctx, address)
	}()
	go func() {
		defer wg.Done()
		symbol, symbolErr = reader.ERC20Symbol(ctx, address)
	}()
	go func() {
		defer wg.Done()
		name, nameErr = reader.ERC20Name(ctx, address)
	}()
	wg.Wait()

	if err := errors.Join(decimalsErr, symbolErr, nameErr); err != nil {
		return Fields{}, fmt.Errorf("%w: %s on %s: %v", ErrUnavailable, address, chain.TargetID, err)
	}

	return Fields{Symbol: symbol, Name: name, Decimals: int(decimals)}, nil
}
