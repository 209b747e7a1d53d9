package reporting

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestCollector_Summary(t *testing.T) {
	fixedStart := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	current := fixedStart
	c := NewCollector().WithClock(func() time.Time { return current })

	c.TokenWritten("ethereum", "0xaaa")
	c.TokenWritten("ethereum", "0xbbb")
	c.TokenWritten("polygon", "0xccc")
	c.TokenSkipped("ethereum", "0xddd", "already written")
	c.TokenFailed("solana", "SoMint", errors.New("decode failed"))

	current = fixedStart.Add(3 * time.Second)
	s := c.Summary()

	if s.Written != 3 || s.Skipped != 1 || s.Failed != 1 {
		t.Fatalf("totals = %d/%d/%d, want 3/1/1", s.Written, s.Skipped, s.Failed)
	}
	if s.Duration != 3*time.Second {
		t.Errorf("Duration = %s, want 3s", s.Duration)
	}

	wantChains := []string{"ethereum", "polygon", "solana"}
	if len(s.ChainCounts) != len(wantChains) {
		t.Fatalf("got %d chain rows, want %d", len(s.ChainCounts), len(wantChains))
	}
	for i, row := range s.ChainCounts {
		if row.Chain != wantChains[i] {
			t.Errorf("chain row %d = %q, want %q (sorted)", i, row.Chain, wantChains[i])
		}
	}
	if s.ChainCounts[0].Written != 2 || s.ChainCounts[0].Skipped != 1 {
		t.Errorf("ethereum row = %+v, want 2 written, 1 skipped", s.ChainCounts[0])
	}

	if len(s.Errors) != 1 || !strings.Contains(s.Errors[0], "solana/SoMint") {
		t.Errorf("Errors = %v, want one solana/SoMint entry", s.Errors)
	}
}

func TestRenderMarkdown(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewCollector().WithClock(func() time.Time { return fixed })

	c.TokenWritten("ethereum", "0xaaa")
	c.TokenFailed("ethereum", "0xbad", errors.New("invalid address"))

	md := RenderMarkdown(c.Summary())

	for _, want := range []string{
		"# Catalog Run Summary",
		"Generated: 2026-03-01T12:00:00Z",
		"| Written | 1 |",
		"| Failed | 1 |",
		"| ethereum | 1 | 0 | 1 |",
		"- ethereum/0xbad: invalid address",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("rendered markdown missing %q\n%s", want, md)
		}
	}
}

func TestRenderMarkdown_Empty(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewCollector().WithClock(func() time.Time { return fixed })

	md := RenderMarkdown(c.Summary())

	if !strings.Contains(md, "No tokens processed.") {
		t.Errorf("empty summary missing chain placeholder\n%s", md)
	}
	if !strings.Contains(md, "None.") {
		t.Errorf("empty summary missing error placeholder\n%s", md)
	}
}
