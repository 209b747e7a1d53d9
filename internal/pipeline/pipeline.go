// Package pipeline drives the token feed through chain resolution,
// address normalization, info resolution, and the output store with a
// bounded concurrency window.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"sync"

	"token-catalog/internal/chains"
	"token-catalog/internal/domain"
	"token-catalog/internal/storage"
	"token-catalog/internal/tokeninfo"
)

// DefaultWindowSize bounds in-flight items when no size is configured.
const DefaultWindowSize = 10

// State is an item's terminal processing state.
type State string

const (
	StateDone    State = "done"
	StateSkipped State = "skipped"
	StateFailed  State = "failed"
)

// FeedSource supplies the raw token records of a run.
type FeedSource interface {
	Fetch(ctx context.Context) ([]domain.RawTokenRecord, error)
}

// Reporter observes item terminal states as the run progresses.
// Counters live behind this capability rather than in package globals.
type Reporter interface {
	TokenWritten(targetChain, canonicalAddress string)
	TokenSkipped(targetChain, canonicalAddress, reason string)
	TokenFailed(targetChain, canonicalAddress string, err error)
}

// NopReporter discards all observations.
type NopReporter struct{}

func (NopReporter) TokenWritten(string, string)         {}
func (NopReporter) TokenSkipped(string, string, string) {}
func (NopReporter) TokenFailed(string, string, error)   {}

// MultiReporter fans every observation out to each reporter in order.
type MultiReporter []Reporter

func (m MultiReporter) TokenWritten(chain, addr string) {
	for _, r := range m {
		r.TokenWritten(chain, addr)
	}
}

func (m MultiReporter) TokenSkipped(chain, addr, reason string) {
	for _, r := range m {
		r.TokenSkipped(chain, addr, reason)
	}
}

func (m MultiReporter) TokenFailed(chain, addr string, err error) {
	for _, r := range m {
		r.TokenFailed(chain, addr, err)
	}
}

// Options configures a Pipeline. Feed, Resolver, Provider, and Store
// are required.
type Options struct {
	Feed     FeedSource
	Resolver *chains.Resolver
	Provider tokeninfo.Provider
	Store    storage.TokenStore

	// Force overwrites existing token files instead of skipping them.
	Force bool

	// ChainFilter restricts the run to a single chain, matched against
	// both source and target identifiers. Empty means all chains.
	ChainFilter string

	// WindowSize is the concurrency window: all items of a window run
	// concurrently and the next window starts only after every item of
	// the current one has terminated.
	WindowSize int

	Reporter Reporter
	Logger   *log.Logger
}

// Pipeline is the batch processor. One item's terminal state never
// affects another item's processing; only a feed failure aborts a run.
type Pipeline struct {
	feed        FeedSource
	resolver    *chains.Resolver
	provider    tokeninfo.Provider
	store       storage.TokenStore
	force       bool
	chainFilter string
	windowSize  int
	reporter    Reporter
	logger      *log.Logger
}

// New creates a Pipeline.
func New(opts Options) *Pipeline {
	windowSize := opts.WindowSize
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}

	reporter := opts.Reporter
	if reporter == nil {
		reporter = NopReporter{}
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Pipeline{
		feed:        opts.Feed,
		resolver:    opts.Resolver,
		provider:    opts.Provider,
		store:       opts.Store,
		force:       opts.Force,
		chainFilter: opts.ChainFilter,
		windowSize:  windowSize,
		reporter:    reporter,
		logger:      logger,
	}
}

// RunResult summarizes a completed run.
type RunResult struct {
	Written int
	Skipped int
	Failed  int
	Errors  []string
}

// Run fetches the feed and processes every derived triple to a
// terminal state. The returned error is non-nil only for a feed
// fetch/parse failure; per-item errors are aggregated in the result.
func (p *Pipeline) Run(ctx context.Context) (*RunResult, error) {
	records, err := p.feed.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch token feed: %w", err)
	}
	p.logger.Printf("Feed fetched: %d records", len(records))

	result := &RunResult{}

	items, problems := p.expand(records)
	for _, problem := range problems {
		switch problemState(problem.err) {
		case StateSkipped:
			result.Skipped++
			p.reporter.TokenSkipped(problem.sourceChain, problem.rawAddress, problem.err.Error())
			p.logger.Printf("Skipping %s/%s: %v", problem.sourceChain, problem.rawAddress, problem.err)
		default:
			result.Failed++
			result.Errors = append(result.Errors, problem.String())
			p.reporter.TokenFailed(problem.sourceChain, problem.rawAddress, problem.err)
			p.logger.Printf("Rejected %s/%s: %v", problem.sourceChain, problem.rawAddress, problem.err)
		}
	}

	p.logger.Printf("Processing %d items in windows of %d", len(items), p.windowSize)

	for start := 0; start < len(items); start += p.windowSize {
		end := start + p.windowSize
		if end > len(items) {
			end = len(items)
		}

		p.runWindow(ctx, items[start:end])

		for _, item := range items[start:end] {
			switch item.state {
			case StateDone:
				result.Written++
			case StateSkipped:
				result.Skipped++
			default:
				result.Failed++
				result.Errors = append(result.Errors, fmt.Sprintf("%s/%s: %v", item.Chain.TargetID, item.CanonicalAddress, item.err))
			}
		}

		p.logger.Printf("Progress: %d/%d processed (%d written, %d skipped, %d failed)",
			end, len(items), result.Written, result.Skipped, result.Failed)
	}

	return result, nil
}

// runWindow starts every item of the window concurrently and blocks
// until all of them have reached a terminal state. The barrier is the
// only concurrency bound; no semaphore refills the window early.
func (p *Pipeline) runWindow(ctx context.Context, window []*Item) {
	var wg sync.WaitGroup
	wg.Add(len(window))
	for _, item := range window {
		go func(item *Item) {
			defer wg.Done()
			p.processItem(ctx, item)
		}(item)
	}
	wg.Wait()
}

// processItem drives a single item to a terminal state. Every error is
// absorbed here; nothing propagates past the item boundary.
func (p *Pipeline) processItem(ctx context.Context, item *Item) {
	exists, err := p.store.Exists(ctx, item.Chain.TargetID, item.CanonicalAddress)
	if err != nil {
		p.fail(item, fmt.Errorf("existence check: %w", err))
		return
	}
	if exists && !p.force {
		item.state = StateSkipped
		p.reporter.TokenSkipped(item.Chain.TargetID, item.CanonicalAddress, "already written")
		return
	}

	fields, err := p.provider.Resolve(ctx, item.Chain, item.CanonicalAddress, item.Fallback)
	if err != nil {
		p.fail(item, err)
		return
	}

	token := &domain.ResolvedToken{
		Symbol:    fields.Symbol,
		Name:      fields.Name,
		Address:   item.CanonicalAddress,
		Decimals:  fields.Decimals,
		Type:      item.Chain.TokenType,
		Logo:      domain.NewLogo(item.LogoURI),
		Platforms: item.Platforms,
	}

	if err := p.store.Write(ctx, item.Chain.TargetID, item.CanonicalAddress, token); err != nil {
		p.fail(item, fmt.Errorf("write token file: %w", err))
		return
	}

	item.state = StateDone
	p.reporter.TokenWritten(item.Chain.TargetID, item.CanonicalAddress)
}

func (p *Pipeline) fail(item *Item, err error) {
	item.state = StateFailed
	item.err = err
	p.reporter.TokenFailed(item.Chain.TargetID, item.CanonicalAddress, err)
	p.logger.Printf("Failed %s/%s: %v", item.Chain.TargetID, item.CanonicalAddress, err)
}
