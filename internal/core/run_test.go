package core

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/atinylittleshell/gsuggest/internal/analytics"
	"github.com/atinylittleshell/gsuggest/internal/config"
	"github.com/atinylittleshell/gsuggest/internal/history"
	"github.com/atinylittleshell/gsuggest/internal/lookup"
	"github.com/atinylittleshell/gsuggest/pkg/navigation"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type stubFetcher struct {
	candidates []navigation.Candidate
	err        error
}

func (f stubFetcher) Fetch(ctx context.Context, query string) ([]navigation.Candidate, error) {
	return f.candidates, f.err
}

func TestRunLookupPrintsCandidates(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	var out bytes.Buffer
	fetcher := stubFetcher{candidates: []navigation.Candidate{{Text: "Category"}, {Text: "Catalog"}}}

	require.NoError(t, RunLookup(context.Background(), &out, fetcher, "cat"))
	assert.Equal(t, []string{"  Category", "  Catalog"}, strings.Split(strings.TrimRight(out.String(), "\n"), "\n"))
}

func TestRunLookupEmpty(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, RunLookup(context.Background(), &out, stubFetcher{}, "zzz"))
	assert.Equal(t, "no suggestions for \"zzz\"\n", out.String())
}

func TestRunLookupError(t *testing.T) {
	var out bytes.Buffer
	fetcher := stubFetcher{err: &lookup.FetchError{Kind: lookup.ErrParse, Query: "cat"}}

	err := RunLookup(context.Background(), &out, fetcher, "cat")
	require.Error(t, err)
	assert.True(t, errors.Is(err, lookup.ErrParse))
	assert.Empty(t, out.String())
}

func TestSearchboxOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Debounce = config.Duration(300 * time.Millisecond)
	cfg.MinQueryLength = 4
	cfg.MaxVisibleSuggestions = 3

	options := SearchboxOptions(cfg)
	assert.Equal(t, 300*time.Millisecond, options.Debounce)
	assert.Equal(t, 4, options.MinQueryLength)
	assert.Equal(t, 3, options.MaxVisibleSuggestions)
	assert.NotEmpty(t, options.Prompt)
}

func TestNewPaths(t *testing.T) {
	paths := newPaths("/home/someone")
	assert.Equal(t, filepath.Join("/home/someone", ".local", "share", "gsuggest", "gsuggest.log"), paths.LogFile)
	assert.Equal(t, filepath.Join("/home/someone", ".config", "gsuggest", "config.yaml"), paths.ConfigFile)
}

func TestLogSessionSummary(t *testing.T) {
	analyticsManager, err := analytics.NewAnalyticsManager(":memory:")
	require.NoError(t, err)
	defer analyticsManager.Close()

	require.NoError(t, analyticsManager.NewEntry("cat", analytics.OutcomeInstalled, 2, 100*time.Millisecond))
	require.NoError(t, analyticsManager.NewEntry("ca", analytics.OutcomeStale, 1, 50*time.Millisecond))

	historyManager, err := history.NewHistoryManager(history.InMemory)
	require.NoError(t, err)
	defer historyManager.Close()
	_, err = historyManager.Record("Category")
	require.NoError(t, err)

	observed, logs := observer.New(zap.InfoLevel)
	logSessionSummary(analyticsManager, historyManager, zap.New(observed))

	entries := logs.FilterMessage("search box session ended").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(1), fields["installed"])
	assert.Equal(t, int64(1), fields["stale"])
	assert.Equal(t, int64(0), fields["failed"])
	assert.Equal(t, 100*time.Millisecond, fields["averageLatency"])
	assert.Equal(t, int64(2), fields["lookups"])
	assert.Equal(t, int64(1), fields["selections"])
	assert.Equal(t, "ca", fields["lastQuery"])
}
