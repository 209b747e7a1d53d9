// Package main provides the token catalog entry point.
// Executes: feed fetch → chain/address resolution → token info → output files
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"token-catalog/internal/chains"
	"token-catalog/internal/feed"
	"token-catalog/internal/observability"
	"token-catalog/internal/pipeline"
	"token-catalog/internal/reporting"
	"token-catalog/internal/storage/file"
	"token-catalog/internal/tokeninfo"
)

func main() {
	// Parse flags
	feedURL := flag.String("feed-url", "", "Token feed URL (required)")
	outputDir := flag.String("output-dir", "tokens", "Output root for token files")
	force := flag.Bool("force", false, "Overwrite existing token files")
	chainFilter := flag.String("chain", "", "Restrict the run to a single chain (source or target ID)")
	windowSize := flag.Int("concurrency", pipeline.DefaultWindowSize, "Number of tokens processed per concurrency window")
	strategy := flag.String("strategy", "feed-trust", "Token info strategy: feed-trust or live-verify")
	strictChains := flag.Bool("strict-chains", true, "Reject unknown chain identifiers instead of passing them through")
	feedTimeout := flag.Duration("feed-timeout", feed.DefaultTimeout, "Feed fetch timeout")
	summaryFile := flag.String("summary", "", "Write a Markdown run summary to this path (empty to disable)")
	metricsAddr := flag.String("metrics-addr", "", "Prometheus metrics HTTP address (empty to disable)")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stdout, "[catalog] ", log.LstdFlags)

	if *feedURL == "" {
		logger.Fatal("No feed URL specified. Use --feed-url")
	}

	var provider tokeninfo.Provider
	switch *strategy {
	case "feed-trust":
		provider = tokeninfo.FeedTrustProvider{}
	case "live-verify":
		provider = tokeninfo.NewLiveVerifyProvider(nil)
	default:
		logger.Fatalf("Unknown strategy %q. Use feed-trust or live-verify", *strategy)
	}

	// Start metrics server if enabled
	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("ok"))
			})
			logger.Printf("Starting metrics server on %s", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil && err != http.ErrServerClosed {
				logger.Printf("Metrics server error: %v", err)
			}
		}()
	}

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, cancelling run...", sig)
		cancel()
	}()

	collector := reporting.NewCollector()
	reporter := pipeline.MultiReporter{
		observability.NewReporter(nil),
		collector,
	}

	p := pipeline.New(pipeline.Options{
		Feed:        feed.NewClient(*feedURL, feed.WithTimeout(*feedTimeout)),
		Resolver:    chains.NewResolver(*strictChains),
		Provider:    provider,
		Store:       file.NewStore(*outputDir),
		Force:       *force,
		ChainFilter: *chainFilter,
		WindowSize:  *windowSize,
		Reporter:    reporter,
		Logger:      logger,
	})

	start := time.Now()
	result, err := p.Run(ctx)
	if err != nil {
		logger.Printf("Run failed: %v", err)
		os.Exit(1)
	}
	observability.DefaultMetrics.RunDuration.Observe(time.Since(start).Seconds())
	observability.DefaultMetrics.LastSuccessfulRun.SetToCurrentTime()

	logger.Printf("Run completed: %d written, %d skipped, %d failed",
		result.Written, result.Skipped, result.Failed)
	for _, e := range result.Errors {
		logger.Printf("  - %s", e)
	}

	if *summaryFile != "" {
		md := reporting.RenderMarkdown(collector.Summary())
		if err := os.MkdirAll(filepath.Dir(*summaryFile), 0755); err != nil {
			logger.Printf("Summary directory error: %v", err)
		} else if err := os.WriteFile(*summaryFile, []byte(md), 0644); err != nil {
			logger.Printf("Summary write error: %v", err)
		} else {
			logger.Printf("Run summary written to %s", *summaryFile)
		}
	}
}
