// Package reporting builds the run summary written alongside the
// catalog output.
package reporting

import (
	"sort"
	"sync"
	"time"

	"token-catalog/internal/pipeline"
)

// Summary describes one completed catalog run.
type Summary struct {
	GeneratedAt time.Time
	Duration    time.Duration

	Written int
	Skipped int
	Failed  int

	// ChainCounts holds per-target-chain written counts, sorted by
	// chain ID.
	ChainCounts []ChainCountRow

	// Errors lists per-item failures (the run itself succeeded).
	Errors []string
}

// ChainCountRow is one row of the per-chain table.
type ChainCountRow struct {
	Chain   string
	Written int
	Skipped int
	Failed  int
}

// Collector accumulates item outcomes during a run and produces the
// Summary. It implements the pipeline's reporter contract and is safe
// for concurrent use.
type Collector struct {
	mu     sync.Mutex
	chains map[string]*ChainCountRow
	errors []string
	start  time.Time
	now    func() time.Time // Injectable clock for deterministic output
}

// NewCollector creates a collector; the run is timed from this call.
func NewCollector() *Collector {
	c := &Collector{
		chains: make(map[string]*ChainCountRow),
		now:    func() time.Time { return time.Now().UTC() },
	}
	c.start = c.now()
	return c
}

// WithClock sets a custom clock function for deterministic output.
func (c *Collector) WithClock(now func() time.Time) *Collector {
	c.now = now
	c.start = now()
	return c
}

var _ pipeline.Reporter = (*Collector)(nil)

func (c *Collector) row(chain string) *ChainCountRow {
	row, ok := c.chains[chain]
	if !ok {
		row = &ChainCountRow{Chain: chain}
		c.chains[chain] = row
	}
	return row
}

// TokenWritten records a written token file.
func (c *Collector) TokenWritten(targetChain, _ string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.row(targetChain).Written++
}

// TokenSkipped records a skipped token.
func (c *Collector) TokenSkipped(targetChain, _, _ string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.row(targetChain).Skipped++
}

// TokenFailed records a failed token.
func (c *Collector) TokenFailed(targetChain, canonicalAddress string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.row(targetChain).Failed++
	c.errors = append(c.errors, targetChain+"/"+canonicalAddress+": "+err.Error())
}

// Summary builds the summary of everything recorded so far. Chain rows
// come out sorted by chain ID and errors in recording order.
func (c *Collector) Summary() *Summary {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := &Summary{
		GeneratedAt: c.now(),
		Errors:      append([]string(nil), c.errors...),
	}
	s.Duration = s.GeneratedAt.Sub(c.start)

	for _, row := range c.chains {
		s.ChainCounts = append(s.ChainCounts, *row)
		s.Written += row.Written
		s.Skipped += row.Skipped
		s.Failed += row.Failed
	}
	sort.Slice(s.ChainCounts, func(i, j int) bool {
		return s.ChainCounts[i].Chain < s.ChainCounts[j].Chain
	})

	return s
}
