package core

import (
	"context"
	"fmt"
	"io"

	"github.com/atinylittleshell/gsuggest/internal/analytics"
	"github.com/atinylittleshell/gsuggest/internal/config"
	"github.com/atinylittleshell/gsuggest/internal/history"
	"github.com/atinylittleshell/gsuggest/internal/lookup"
	"github.com/atinylittleshell/gsuggest/pkg/navigation"
	"github.com/atinylittleshell/gsuggest/pkg/searchbox"
	"github.com/atinylittleshell/gsuggest/pkg/suggestlist"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
)

// SearchboxOptions maps the configuration onto the search box.
func SearchboxOptions(cfg config.Config) searchbox.Options {
	options := searchbox.NewOptions()
	options.Debounce = cfg.Debounce.Std()
	options.MinQueryLength = cfg.MinQueryLength
	options.MaxVisibleSuggestions = cfg.MaxVisibleSuggestions
	return options
}

// RunInteractive runs the search box until the user quits. History lives in
// an in-memory database for the duration of the session.
func RunInteractive(ctx context.Context, cfg config.Config, logger *zap.Logger) (err error) {
	historyManager, err := history.NewHistoryManager(history.InMemory)
	if err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}
	defer func() {
		if closeErr := historyManager.Close(); closeErr != nil {
			err = multierror.Append(err, fmt.Errorf("failed to close history: %w", closeErr)).ErrorOrNil()
		}
	}()

	analyticsManager, err := analytics.NewAnalyticsManager(history.InMemory)
	if err != nil {
		return fmt.Errorf("failed to initialize analytics: %w", err)
	}
	defer func() {
		logSessionSummary(analyticsManager, historyManager, logger)
		if closeErr := analyticsManager.Close(); closeErr != nil {
			err = multierror.Append(err, fmt.Errorf("failed to close analytics: %w", closeErr)).ErrorOrNil()
		}
	}()

	client := lookup.NewClient(cfg.LookupOptions(), logger)

	logger.Info("starting search box", zap.String("endpoint", cfg.Endpoint))
	return searchbox.Run(ctx, client, historyManager, analyticsManager, logger, SearchboxOptions(cfg))
}

func logSessionSummary(analyticsManager *analytics.AnalyticsManager, historyManager *history.HistoryManager, logger *zap.Logger) {
	total, err := analyticsManager.GetTotalCount()
	if err != nil {
		logger.Warn("failed to summarize lookups", zap.Error(err))
		return
	}
	counts, err := analyticsManager.GetOutcomeCounts()
	if err != nil {
		logger.Warn("failed to summarize lookups", zap.Error(err))
		return
	}
	latency, err := analyticsManager.GetAverageLatency()
	if err != nil {
		logger.Warn("failed to summarize lookup latency", zap.Error(err))
		return
	}
	selections, err := historyManager.Count()
	if err != nil {
		logger.Warn("failed to count selections", zap.Error(err))
		return
	}

	fields := []zap.Field{
		zap.Int64("lookups", total),
		zap.Int64("installed", counts[analytics.OutcomeInstalled]),
		zap.Int64("empty", counts[analytics.OutcomeEmpty]),
		zap.Int64("failed", counts[analytics.OutcomeError]),
		zap.Int64("stale", counts[analytics.OutcomeStale]),
		zap.Duration("averageLatency", latency),
		zap.Int64("selections", selections),
	}
	if recent, err := analyticsManager.GetRecentEntries(1); err == nil && len(recent) > 0 {
		fields = append(fields, zap.String("lastQuery", recent[0].Query))
	}
	logger.Info("search box session ended", fields...)
}

// RunLookup fetches suggestions for query once and writes them to w, one per
// line, with matches emphasized.
func RunLookup(ctx context.Context, w io.Writer, fetcher searchbox.Fetcher, query string) error {
	candidates, err := fetcher.Fetch(ctx, query)
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}

	if len(candidates) == 0 {
		_, err = fmt.Fprintf(w, "no suggestions for %q\n", query)
		return err
	}

	renderer := suggestlist.NewRenderer(suggestlist.NewContainer())
	renderer.Render(query, candidates)
	_, err = fmt.Fprintln(w, renderer.View(navigation.None, 0, 0))
	return err
}
