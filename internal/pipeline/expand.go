package pipeline

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"token-catalog/internal/address"
	"token-catalog/internal/chains"
	"token-catalog/internal/domain"
	"token-catalog/internal/tokeninfo"
)

// Item is one (token, chain, address) triple of the run.
type Item struct {
	Chain            *chains.Chain
	SourceChainID    string
	RawAddress       string
	CanonicalAddress string

	Fallback tokeninfo.Fallback
	LogoURI  string

	// Platforms maps target chain IDs to canonical addresses for every
	// resolvable platform of the record this item came from.
	Platforms map[string]string

	// state and err are written only by the goroutine processing the
	// item and read only after its window's barrier.
	state State
	err   error
}

// expandProblem is an expansion-stage rejection of a pair.
type expandProblem struct {
	sourceChain string
	rawAddress  string
	err         error
}

// expand turns feed records into the ordered triple sequence. Chain
// resolution and address normalization happen here, before any
// scheduling, so duplicate (target chain, canonical address) pairs can
// be dropped up front and no two scheduled items ever share an output
// location. Platform keys are walked in sorted order to keep the
// sequence deterministic.
func (p *Pipeline) expand(records []domain.RawTokenRecord) ([]*Item, []expandProblem) {
	var (
		items    []*Item
		problems []expandProblem
		claimed  = make(map[string]bool) // targetChain/canonicalAddress
	)

	for _, record := range records {
		platformKeys := make([]string, 0, len(record.Platforms))
		for key := range record.Platforms {
			platformKeys = append(platformKeys, key)
		}
		sort.Strings(platformKeys)

		canonical := p.canonicalPlatforms(record.Platforms)

		for _, sourceChain := range platformKeys {
			rawAddr := record.Platforms[sourceChain]

			chain, err := p.resolver.Resolve(sourceChain)
			if err != nil {
				problems = append(problems, expandProblem{sourceChain, rawAddr, err})
				continue
			}

			if !p.chainSelected(sourceChain, chain) {
				continue
			}

			canonicalAddr, err := address.Normalize(chain, rawAddr)
			if err != nil {
				problems = append(problems, expandProblem{sourceChain, rawAddr, err})
				continue
			}

			key := chain.TargetID + "/" + canonicalAddr
			if claimed[key] {
				p.logger.Printf("Duplicate target %s via %s, keeping first occurrence", key, sourceChain)
				continue
			}
			claimed[key] = true

			item := &Item{
				Chain:            chain,
				SourceChainID:    sourceChain,
				RawAddress:       rawAddr,
				CanonicalAddress: canonicalAddr,
				Fallback: tokeninfo.Fallback{
					Symbol:   record.Symbol,
					Name:     record.Name,
					Decimals: record.Decimals,
				},
				Platforms: canonical,
			}
			if record.LogoURI != nil {
				item.LogoURI = *record.LogoURI
			}
			items = append(items, item)
		}
	}

	return items, problems
}

// canonicalPlatforms rebuilds a record's platform map with target
// chain keys and canonical addresses. Pairs that fail resolution or
// normalization are left out; their rejection is reported by the
// triple expansion itself.
func (p *Pipeline) canonicalPlatforms(platforms map[string]string) map[string]string {
	out := make(map[string]string, len(platforms))
	for sourceChain, rawAddr := range platforms {
		chain, err := p.resolver.Resolve(sourceChain)
		if err != nil {
			continue
		}
		canonicalAddr, err := address.Normalize(chain, rawAddr)
		if err != nil {
			continue
		}
		out[chain.TargetID] = canonicalAddr
	}
	return out
}

// chainSelected applies the single-chain filter against both the
// source identifier and the resolved target.
func (p *Pipeline) chainSelected(sourceChain string, chain *chains.Chain) bool {
	if p.chainFilter == "" {
		return true
	}
	filter := strings.ToLower(p.chainFilter)
	return filter == strings.ToLower(sourceChain) || filter == chain.TargetID
}

// problemState maps an expansion rejection onto a terminal item state:
// pairs excluded by policy (unknown chain in strict mode) are skips,
// malformed addresses are failures.
func problemState(err error) State {
	if errors.Is(err, chains.ErrUnknownChain) {
		return StateSkipped
	}
	return StateFailed
}

func (pr expandProblem) String() string {
	return fmt.Sprintf("%s/%s: %v", pr.sourceChain, pr.rawAddress, pr.err)
}
