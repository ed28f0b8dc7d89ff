package searchbox

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// FetchStatus is the state of the most recent lookup.
type FetchStatus int

const (
	// StatusIdle means nothing has been looked up, or the result was cleared.
	StatusIdle FetchStatus = iota
	// StatusInFlight means a lookup is waiting for a response.
	StatusInFlight
	// StatusSuccess means the last lookup returned candidates.
	StatusSuccess
	// StatusError means the last lookup failed.
	StatusError
)

func (s FetchStatus) String() string {
	switch s {
	case StatusInFlight:
		return "in-flight"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

const statusGlyph = "●"

// Color cycle for the in-flight animation
var inFlightColors = []lipgloss.Color{
	"12", "33", "57", "93", "129", "93", "57", "33",
}

// StatusTickMsg advances the in-flight animation. Ticks from an animation
// that has since been restarted carry an old id and are dropped.
type StatusTickMsg struct {
	id int
}

// StatusIndicator renders the lookup status next to the input.
type StatusIndicator struct {
	status     FetchStatus
	frameIndex int
	tickId     int
}

func NewStatusIndicator() StatusIndicator {
	return StatusIndicator{status: StatusIdle}
}

// Tick returns a command that sends StatusTickMsg after the animation interval.
func (i StatusIndicator) Tick() tea.Cmd {
	id := i.tickId
	return tea.Tick(time.Second/4, func(t time.Time) tea.Msg {
		return StatusTickMsg{id: id}
	})
}

// Start switches to in-flight and begins a new tick chain, orphaning any
// tick still pending from an earlier one.
func (i *StatusIndicator) Start() tea.Cmd {
	i.tickId++
	i.status = StatusInFlight
	return i.Tick()
}

func (i *StatusIndicator) SetStatus(status FetchStatus) {
	i.status = status
}

func (i StatusIndicator) Status() FetchStatus {
	return i.status
}

// Advance moves the animation to the next frame.
func (i *StatusIndicator) Advance() {
	i.frameIndex = (i.frameIndex + 1) % len(inFlightColors)
}

func (i StatusIndicator) Width() int {
	return runewidth.StringWidth(statusGlyph)
}

func (i StatusIndicator) View() string {
	switch i.status {
	case StatusInFlight:
		return lipgloss.NewStyle().Foreground(inFlightColors[i.frameIndex]).Render(statusGlyph)
	case StatusSuccess:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(statusGlyph)
	case StatusError:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render(statusGlyph)
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(statusGlyph)
	}
}
