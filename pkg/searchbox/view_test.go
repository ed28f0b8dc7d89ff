package searchbox

import (
	"strings"
	"testing"
	"time"

	"github.com/atinylittleshell/gsuggest/internal/history"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewLayoutMatchesHitTest(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	fetcher := newFetcher(map[string][]string{"cat": {"Category", "Catalog"}})
	m, recorder := newTestModel(t, fetcher)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 30})
	_, err := recorder.Record("Cattle")
	require.NoError(t, err)
	m.refreshHistory()
	m = search(t, m, "cat")

	lines := strings.Split(m.View(), "\n")
	l := m.layout()

	assert.Contains(t, lines[0], "cat")
	assert.Equal(t, "  Category", lines[l.listTop])
	assert.Equal(t, "  Catalog", lines[l.listTop+1])
	assert.Equal(t, resetLabel, lines[l.resetLine])
	assert.Equal(t, "History", lines[l.historyTop-1])
	assert.True(t, strings.HasPrefix(lines[l.historyTop], "Cattle"))
	assert.True(t, strings.HasSuffix(lines[l.historyTop], removeLabel))
	assert.Equal(t, l.removeColumn, strings.Index(lines[l.historyTop], removeLabel))

	assert.Equal(t, targetInput, m.hitTest(3, 0).kind)
	assert.Equal(t, targetSuggestion, m.hitTest(3, l.listTop).kind)
	assert.Equal(t, targetReset, m.hitTest(2, l.resetLine).kind)
	assert.Equal(t, targetNone, m.hitTest(30, l.resetLine).kind)
	assert.Equal(t, targetHistory, m.hitTest(1, l.historyTop).kind)
	assert.Equal(t, targetHistoryRemove, m.hitTest(l.removeColumn, l.historyTop).kind)
}

func TestResetLabelClearsSuggestions(t *testing.T) {
	fetcher := newFetcher(map[string][]string{"cat": {"Category", "Catalog"}})
	m, recorder := newTestModel(t, fetcher)
	m = search(t, m, "cat")

	l := m.layout()
	m, _ = update(t, m, tea.MouseMsg{
		X:      1,
		Y:      l.resetLine,
		Action: tea.MouseActionPress,
		Button: tea.MouseButtonLeft,
	})

	assert.Equal(t, 0, m.list.Len())
	assert.Equal(t, focusInput, m.focus)
	count, err := recorder.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(0), count, "reset leaves history alone")
}

func TestHistoryFooter(t *testing.T) {
	assert.Equal(t, "no selections yet", historyFooter(nil))

	now := time.Now()
	entries := []history.HistoryEntry{
		{ID: 1, Text: "a", CreatedAt: now.Add(-time.Hour)},
		{ID: 2, Text: "b", CreatedAt: now.Add(-2 * time.Minute)},
	}
	assert.Equal(t, "2 selections, last 2 minutes ago", historyFooter(entries))
	assert.Equal(t, "1 selection, last 1 hour ago", historyFooter(entries[:1]))
}

func TestWindowedSuggestions(t *testing.T) {
	texts := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		texts = append(texts, "cat"+strings.Repeat("s", i))
	}
	fetcher := newFetcher(map[string][]string{"cat": texts})
	m, _ := newTestModel(t, fetcher)
	m.options.MaxVisibleSuggestions = 5
	m = search(t, m, "cat")

	for i := 0; i < 12; i++ {
		m = pressKey(t, m, tea.KeyDown)
	}

	l := m.layout()
	require.Len(t, l.listRows, 5)
	assert.True(t, l.listRows[4].Highlighted)
	assert.Equal(t, 20, m.list.Len())
	assert.Equal(t, 20, m.nav.Len())
}

func TestStatusIndicator(t *testing.T) {
	indicator := NewStatusIndicator()
	assert.Equal(t, StatusIdle, indicator.Status())

	indicator.SetStatus(StatusInFlight)
	before := indicator.frameIndex
	indicator.Advance()
	assert.NotEqual(t, before, indicator.frameIndex)
	assert.Equal(t, "in-flight", indicator.Status().String())

	for i := 0; i < len(inFlightColors); i++ {
		indicator.Advance()
	}
	assert.Less(t, indicator.frameIndex, len(inFlightColors))
}
