// Package chains holds the static table of supported chains and the
// resolver that maps source feed identifiers onto it.
package chains

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrUnknownChain is returned by Resolve in strict mode when the
// source identifier has no entry in the chain table.
var ErrUnknownChain = errors.New("unknown chain")

// VM identifies the address/contract format family of a chain.
type VM string

const (
	VMEVM    VM = "evm"
	VMSolana VM = "solana"
)

// Chain is one entry of the static chain table.
type Chain struct {
	// ID is the source feed identifier, e.g. "polygon-pos".
	ID string

	// TargetID names the output directory for this chain, e.g. "polygon".
	TargetID string

	// Aliases are additional source identifiers resolving to this chain.
	Aliases []string

	VM VM

	// TokenType is the type tag written into token files ("ERC20", "SPL").
	TokenType string

	// RPCEndpoints are the default JSON-RPC endpoints used by the
	// live-verify strategy. Empty for chains without a contract
	// interface worth querying.
	RPCEndpoints []string

	// EndpointEnvVar, when set and present in the environment,
	// overrides RPCEndpoints.
	EndpointEnvVar string
}

// Endpoint returns the RPC endpoint to use for this chain, preferring
// the environment override.
func (c *Chain) Endpoint() string {
	if c.EndpointEnvVar != "" {
		if v := strings.TrimSpace(os.Getenv(c.EndpointEnvVar)); v != "" {
			return v
		}
	}
	if len(c.RPCEndpoints) == 0 {
		return ""
	}
	return c.RPCEndpoints[0]
}

// supported enumerates every chain the catalog knows how to handle.
// The table is deliberately explicit: adding a chain means adding an
// entry here, nothing is inferred.
var supported = []*Chain{
	{
		ID:             "ethereum",
		TargetID:       "ethereum",
		Aliases:        []string{"eth", "mainnet"},
		VM:             VMEVM,
		TokenType:      "ERC20",
		RPCEndpoints:   []string{"https://ethereum-rpc.publicnode.com"},
		EndpointEnvVar: "ETHEREUM_RPC_ENDPOINT",
	},
	{
		ID:             "binance-smart-chain",
		TargetID:       "smartchain",
		Aliases:        []string{"bsc", "bnb"},
		VM:             VMEVM,
		TokenType:      "ERC20",
		RPCEndpoints:   []string{"https://bsc-dataseed.bnbchain.org"},
		EndpointEnvVar: "BSC_RPC_ENDPOINT",
	},
	{
		ID:             "polygon-pos",
		TargetID:       "polygon",
		Aliases:        []string{"polygon", "matic"},
		VM:             VMEVM,
		TokenType:      "ERC20",
		RPCEndpoints:   []string{"https://polygon-rpc.com"},
		EndpointEnvVar: "POLYGON_RPC_ENDPOINT",
	},
	{
		ID:             "avalanche",
		TargetID:       "avalanchec",
		Aliases:        []string{"avax"},
		VM:             VMEVM,
		TokenType:      "ERC20",
		RPCEndpoints:   []string{"https://api.avax.network/ext/bc/C/rpc"},
		EndpointEnvVar: "AVALANCHE_RPC_ENDPOINT",
	},
	{
		ID:             "arbitrum-one",
		TargetID:       "arbitrum",
		Aliases:        []string{"arbitrum"},
		VM:             VMEVM,
		TokenType:      "ERC20",
		RPCEndpoints:   []string{"https://arb1.arbitrum.io/rpc"},
		EndpointEnvVar: "ARBITRUM_RPC_ENDPOINT",
	},
	{
		ID:             "optimistic-ethereum",
		TargetID:       "optimism",
		Aliases:        []string{"optimism"},
		VM:             VMEVM,
		TokenType:      "ERC20",
		RPCEndpoints:   []string{"https://mainnet.optimism.io"},
		EndpointEnvVar: "OPTIMISM_RPC_ENDPOINT",
	},
	{
		ID:             "base",
		TargetID:       "base",
		VM:             VMEVM,
		TokenType:      "ERC20",
		RPCEndpoints:   []string{"https://mainnet.base.org"},
		EndpointEnvVar: "BASE_RPC_ENDPOINT",
	},
	{
		ID:             "fantom",
		TargetID:       "fantom",
		Aliases:        []string{"ftm"},
		VM:             VMEVM,
		TokenType:      "ERC20",
		RPCEndpoints:   []string{"https://rpc.ftm.tools"},
		EndpointEnvVar: "FANTOM_RPC_ENDPOINT",
	},
	{
		ID:        "solana",
		TargetID:  "solana",
		Aliases:   []string{"sol"},
		VM:        VMSolana,
		TokenType: "SPL",
	},
}

// Resolver maps source chain identifiers to chain table entries.
type Resolver struct {
	byID   map[string]*Chain
	strict bool
}

// NewResolver builds a resolver over the static chain table. In strict
// mode unknown identifiers resolve to ErrUnknownChain; otherwise they
// pass through unchanged as EVM-style chains.
func NewResolver(strict bool) *Resolver {
	byID := make(map[string]*Chain)
	for _, c := range supported {
		byID[c.ID] = c
		for _, alias := range c.Aliases {
			byID[alias] = c
		}
	}
	return &Resolver{byID: byID, strict: strict}
}

// Resolve returns the chain for a source feed identifier.
func (r *Resolver) Resolve(sourceID string) (*Chain, error) {
	id := strings.ToLower(strings.TrimSpace(sourceID))
	if c, ok := r.byID[id]; ok {
		return c, nil
	}
	if r.strict {
		return nil, fmt.Errorf("%w: %q", ErrUnknownChain, sourceID)
	}
	// Best-effort mode: the identifier passes through unchanged. The
	// feed's unmapped platforms are overwhelmingly EVM chains, so the
	// passthrough entry keeps EVM address semantics.
	return &Chain{
		ID:        id,
		TargetID:  id,
		VM:        VMEVM,
		TokenType: "ERC20",
	}, nil
}

// Supported returns the chain table in declaration order.
func Supported() []*Chain {
	out := make([]*Chain, len(supported))
	copy(out, supported)
	return out
}
