package searchbox

import (
	"fmt"
	"strings"

	"github.com/atinylittleshell/gsuggest/internal/history"
	"github.com/atinylittleshell/gsuggest/pkg/navigation"
	"github.com/atinylittleshell/gsuggest/pkg/suggestlist"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
	"github.com/samber/lo"
)

const (
	resetLabel   = "[ Reset ]"
	removeLabel  = "[X]"
	columnGap    = 2
	defaultWidth = 80
)

// widest rendering of history.TimestampLayout
const timestampWidth = len("12/31/2006, 12:59:59 PM")

var (
	resetStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	headerStyle          = lipgloss.NewStyle().Bold(true)
	historyStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	historySelectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	timestampStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	removeStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	footerStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
	helpStyle            = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type targetKind int

const (
	targetNone targetKind = iota
	targetInput
	targetSuggestion
	targetStatus
	targetReset
	targetHistory
	targetHistoryRemove
)

// target is what a mouse press landed on.
type target struct {
	kind   targetKind
	nodeID int
	row    int
}

// layout records which screen line each region starts on. View and the
// mouse hit test both derive from it so they cannot disagree.
type layout struct {
	listTop      int
	listRows     []*suggestlist.Node
	resetLine    int
	historyTop   int
	historyStart int
	historyEnd   int
	removeColumn int
}

func (m Model) layout() layout {
	l := layout{listTop: 1}
	l.listRows = m.list.VisibleRows(m.nav.ActiveIndex(), m.options.MaxVisibleSuggestions)
	l.resetLine = l.listTop + len(l.listRows) + 1
	// header line sits between the reset label and the first row
	l.historyTop = l.resetLine + 3

	selected := navigation.None
	if m.focus == focusHistory {
		selected = m.historySelected
	}
	l.historyStart, l.historyEnd = suggestlist.Window(selected, len(m.historyEntries), m.options.MaxVisibleHistory)
	l.removeColumn = m.historyTextWidth() + columnGap + timestampWidth + columnGap
	return l
}

func (m Model) viewWidth() int {
	if m.width > 0 {
		return m.width
	}
	return defaultWidth
}

// historyTextWidth is the width of the text column in the history table.
func (m Model) historyTextWidth() int {
	fixed := columnGap + timestampWidth + columnGap + runewidth.StringWidth(removeLabel)
	return max(10, m.viewWidth()-fixed)
}

func (m Model) hitTest(x, y int) target {
	l := m.layout()

	switch {
	case y == 0:
		return target{kind: targetInput}
	case y >= l.listTop && y < l.listTop+len(l.listRows):
		node := l.listRows[y-l.listTop]
		if node.IsSuggestion() {
			return target{kind: targetSuggestion, nodeID: node.ID}
		}
		return target{kind: targetStatus, nodeID: node.ID}
	case y == l.resetLine && x < runewidth.StringWidth(resetLabel):
		return target{kind: targetReset}
	case y >= l.historyTop && y < l.historyTop+(l.historyEnd-l.historyStart):
		row := l.historyStart + y - l.historyTop
		if x >= l.removeColumn && x < l.removeColumn+runewidth.StringWidth(removeLabel) {
			return target{kind: targetHistoryRemove, row: row}
		}
		return target{kind: targetHistory, row: row}
	}
	return target{kind: targetNone}
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	t := m.hitTest(msg.X, msg.Y)
	if t.kind == targetInput {
		m.focusInput()
		return m, nil
	}

	if m.focus == focusInput {
		m.blur(t)
	}

	switch t.kind {
	case targetSuggestion:
		if index, ok := m.list.IndexOf(t.nodeID); ok {
			m.click(index)
		}
		m.focusInput()
	case targetReset:
		m.clear("reset")
		m.focusInput()
	case targetHistory:
		m.historySelected = t.row
		m.focusHistory()
	case targetHistoryRemove:
		m.removeHistoryRow(t.row)
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	l := m.layout()
	width := m.viewWidth()

	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString(" ")
	b.WriteString(m.indicator.View())
	b.WriteString("\n")

	if len(l.listRows) > 0 {
		b.WriteString(m.list.View(m.nav.ActiveIndex(), m.options.MaxVisibleSuggestions, width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(resetStyle.Render(resetLabel))
	b.WriteString("\n\n")

	b.WriteString(headerStyle.Render("History"))
	b.WriteString("\n")
	for row := l.historyStart; row < l.historyEnd; row++ {
		b.WriteString(m.historyRow(row))
		b.WriteString("\n")
	}

	b.WriteString(footerStyle.Render(historyFooter(m.historyEntries)))
	b.WriteString("\n\n")
	b.WriteString(m.helpView())

	return b.String()
}

func (m Model) historyRow(row int) string {
	entry := m.historyEntries[row]
	textWidth := m.historyTextWidth()

	text := truncate.StringWithTail(entry.Text, uint(textWidth), "…")
	text += strings.Repeat(" ", max(0, textWidth-runewidth.StringWidth(text)))

	style := historyStyle
	if m.focus == focusHistory && row == m.historySelected {
		style = historySelectedStyle.Underline(true)
	}

	gap := strings.Repeat(" ", columnGap)
	stamp := fmt.Sprintf("%-*s", timestampWidth, entry.Timestamp())
	return style.Render(text) + gap + timestampStyle.Render(stamp) + gap + removeStyle.Render(removeLabel)
}

func historyFooter(entries []history.HistoryEntry) string {
	if len(entries) == 0 {
		return "no selections yet"
	}
	last := lo.MaxBy(entries, func(a, b history.HistoryEntry) bool {
		return a.CreatedAt.After(b.CreatedAt)
	})
	noun := "selections"
	if len(entries) == 1 {
		noun = "selection"
	}
	return fmt.Sprintf("%s %s, last %s", humanize.Comma(int64(len(entries))), noun, humanize.Time(last.CreatedAt))
}

func (m Model) helpView() string {
	bindings := m.keys.inputHelp()
	if m.focus == focusHistory {
		bindings = m.keys.historyHelp()
	}
	parts := lo.Map(bindings, func(b key.Binding, _ int) string {
		h := b.Help()
		return h.Key + " " + h.Desc
	})
	return helpStyle.Render(strings.Join(parts, " • "))
}
