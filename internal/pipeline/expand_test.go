package pipeline

import (
	"io"
	"log"
	"testing"

	"token-catalog/internal/chains"
	"token-catalog/internal/domain"
)

func expandPipeline(strict bool, filter string) *Pipeline {
	return New(Options{
		Resolver:    chains.NewResolver(strict),
		ChainFilter: filter,
		Logger:      log.New(io.Discard, "", 0),
	})
}

func TestExpand_DeterministicOrder(t *testing.T) {
	p := expandPipeline(true, "")
	records := []domain.RawTokenRecord{{
		Symbol: "USDC",
		Name:   "USD Coin",
		Platforms: map[string]string{
			"polygon-pos": "0x2791bca1f2de4661ed88a30c99a7a9449aa84174",
			"ethereum":    "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48",
			"base":        "0x833589fcd6edb6e08f4c7c32d4f71b54bda02913",
		},
	}}

	want := []string{"base", "ethereum", "polygon"}
	for i := 0; i < 20; i++ {
		items, problems := p.expand(records)
		if len(problems) != 0 {
			t.Fatalf("unexpected problems: %v", problems)
		}
		if len(items) != len(want) {
			t.Fatalf("got %d items, want %d", len(items), len(want))
		}
		for j, item := range items {
			if item.Chain.TargetID != want[j] {
				t.Fatalf("iteration %d: item %d on %q, want %q", i, j, item.Chain.TargetID, want[j])
			}
		}
	}
}

func TestExpand_CanonicalPlatforms(t *testing.T) {
	p := expandPipeline(true, "")
	records := []domain.RawTokenRecord{{
		Symbol: "USDC",
		Name:   "USD Coin",
		Platforms: map[string]string{
			"ethereum":    "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
			"polygon-pos": "0x2791bca1f2de4661ed88a30c99a7a9449aa84174",
			"nonsense":    "0x1234",
		},
	}}

	items, _ := p.expand(records)
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	for _, item := range items {
		if len(item.Platforms) != 2 {
			t.Fatalf("item %s: %d platforms, want 2 (unresolvable pair dropped)",
				item.Chain.TargetID, len(item.Platforms))
		}
		if got := item.Platforms["ethereum"]; got != "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48" {
			t.Errorf("ethereum platform = %q, want canonical lowercase", got)
		}
		if _, ok := item.Platforms["polygon"]; !ok {
			t.Errorf("item %s: platform keyed by source ID, want target ID", item.Chain.TargetID)
		}
	}
}

func TestExpand_SharedAddressAcrossChainsNotDeduplicated(t *testing.T) {
	p := expandPipeline(true, "")
	const addr = "0x4200000000000000000000000000000000000006"
	records := []domain.RawTokenRecord{{
		Symbol: "WETH",
		Name:   "Wrapped Ether",
		Platforms: map[string]string{
			"base":                addr,
			"optimistic-ethereum": addr,
		},
	}}

	items, problems := p.expand(records)
	if len(problems) != 0 {
		t.Fatalf("unexpected problems: %v", problems)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2: same address on distinct chains is two targets", len(items))
	}
}
