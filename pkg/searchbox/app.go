package searchbox

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/atinylittleshell/gsuggest/internal/analytics"
	"github.com/atinylittleshell/gsuggest/internal/history"
	"github.com/atinylittleshell/gsuggest/pkg/debounce"
	"github.com/atinylittleshell/gsuggest/pkg/navigation"
	"github.com/atinylittleshell/gsuggest/pkg/suggestlist"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Fetcher looks up candidates for a query.
type Fetcher interface {
	Fetch(ctx context.Context, query string) ([]navigation.Candidate, error)
}

// LookupAnalytics records what became of each completed lookup.
type LookupAnalytics interface {
	NewEntry(query string, outcome string, candidates int, latency time.Duration) error
}

// HistoryRecorder stores selections.
type HistoryRecorder interface {
	Record(text string) (*history.HistoryEntry, error)
	Remove(id uint) error
	Entries() ([]history.HistoryEntry, error)
}

type focusArea int

const (
	focusInput focusArea = iota
	focusHistory
)

type debounceFiredMsg struct {
	id int
}

type fetchResultMsg struct {
	seq        int
	query      string
	candidates []navigation.Candidate
	err        error
	latency    time.Duration
}

// Model is the search box. It owns the debounce timer, the navigation state
// and the rendered list, and keeps the list and the navigation state in step.
type Model struct {
	ctx       context.Context
	fetcher   Fetcher
	recorder  HistoryRecorder
	analytics LookupAnalytics
	logger    *zap.Logger
	options   Options
	keys      KeyMap

	input textinput.Model
	nav   *navigation.State
	list  *suggestlist.Renderer
	hint  *suggestlist.Node
	// typed is the field value the user entered, restored when the highlight
	// returns to nothing.
	typed string

	timer      *debounce.Timer
	debounceId int
	fetchSeq   int
	send       func(tea.Msg)

	focus           focusArea
	historyEntries  []history.HistoryEntry
	historySelected int

	indicator StatusIndicator
	width     int
	height    int
	quitting  bool
}

func New(
	ctx context.Context,
	fetcher Fetcher,
	recorder HistoryRecorder,
	lookupAnalytics LookupAnalytics,
	logger *zap.Logger,
	options Options,
) Model {
	input := textinput.New()
	input.Prompt = options.Prompt
	input.Placeholder = options.Placeholder
	input.Focus()

	m := Model{
		ctx:       ctx,
		fetcher:   fetcher,
		recorder:  recorder,
		analytics: lookupAnalytics,
		logger:    logger,
		options:   options,
		keys:      DefaultKeyMap,

		input: input,
		nav:   navigation.New(),
		list:  suggestlist.NewRenderer(suggestlist.NewContainer()),

		timer: &debounce.Timer{},
		send:  func(tea.Msg) {},

		focus:     focusInput,
		indicator: NewStatusIndicator(),
	}
	m.refreshHistory()
	return m
}

// SetSender sets the function used to deliver timer events back to the
// event loop, normally tea.Program.Send.
func (m *Model) SetSender(send func(tea.Msg)) {
	m.send = send
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tea.SetWindowTitle("gsuggest"))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case StatusTickMsg:
		if msg.id != m.indicator.tickId {
			return m, nil
		}
		m.indicator.Advance()
		if m.indicator.Status() == StatusInFlight {
			return m, m.indicator.Tick()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(1, msg.Width-len(m.options.Prompt)-m.indicator.Width()-2)
		return m, nil

	case debounceFiredMsg:
		return m.issueFetch(msg)

	case fetchResultMsg:
		return m.installResult(msg)

	case tea.BlurMsg:
		m.blur(target{kind: targetNone})
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.timer.Stop()
			m.quitting = true
			return m, tea.Quit
		}
		if m.focus == focusHistory {
			return m.handleHistoryKey(msg)
		}
		return m.handleInputKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleInputKey routes a key event on the search field. Navigation keys are
// handled synchronously and never start a lookup; edits restart the debounce.
func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.cancelDebounce()

	switch {
	case key.Matches(msg, m.keys.Down):
		m.moveDown()
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.moveUp()
		return m, nil
	case key.Matches(msg, m.keys.Select):
		m.selectActive()
		return m, nil
	case key.Matches(msg, m.keys.Reset):
		m.clear("reset")
		return m, nil
	case key.Matches(msg, m.keys.ToggleFocus):
		m.blur(target{kind: targetHistory})
		m.focusHistory()
		return m, nil
	case key.Matches(msg, m.keys.Copy):
		m.copyActive()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	value := m.input.Value()
	m.typed = value

	if utf8.RuneCountInString(value) < m.options.MinQueryLength {
		m.clear("short input")
		return m, cmd
	}

	if isEditKey(msg) {
		m.scheduleFetch()
	}
	return m, cmd
}

func isEditKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyRunes, tea.KeySpace, tea.KeyBackspace:
		return true
	}
	return false
}

func (m *Model) scheduleFetch() {
	m.debounceId++
	id := m.debounceId
	send := m.send
	m.timer.Reset(m.options.Debounce, func() {
		send(debounceFiredMsg{id: id})
	})
}

// cancelDebounce stops the pending timer. Bumping the id also voids a fire
// event that was already queued before Stop.
func (m *Model) cancelDebounce() {
	m.timer.Stop()
	m.debounceId++
}

func (m Model) issueFetch(msg debounceFiredMsg) (tea.Model, tea.Cmd) {
	if msg.id != m.debounceId {
		m.logger.Debug(
			"searchbox ignoring superseded debounce",
			zap.Int("timerId", msg.id),
			zap.Int("currentId", m.debounceId),
		)
		return m, nil
	}

	query := m.input.Value()
	if utf8.RuneCountInString(query) < m.options.MinQueryLength {
		return m, nil
	}

	m.fetchSeq++
	seq := m.fetchSeq
	var tick tea.Cmd
	if m.indicator.Status() != StatusInFlight {
		tick = m.indicator.Start()
	}

	ctx := m.ctx
	fetcher := m.fetcher
	logger := m.logger
	fetch := func() tea.Msg {
		start := time.Now()
		candidates, err := fetcher.Fetch(ctx, query)
		latency := time.Since(start)
		if err != nil {
			logger.Warn("searchbox lookup failed", zap.Int("seq", seq), zap.Error(err))
			return fetchResultMsg{seq: seq, query: query, err: err, latency: latency}
		}
		logger.Debug(
			"searchbox lookup resolved",
			zap.Int("seq", seq),
			zap.String("query", query),
			zap.Int("candidates", len(candidates)),
		)
		return fetchResultMsg{seq: seq, query: query, candidates: candidates, latency: latency}
	}

	return m, tea.Batch(fetch, tick)
}

// installResult installs a lookup result if it belongs to the most recently
// issued lookup. Failures install an empty set.
func (m Model) installResult(msg fetchResultMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.fetchSeq {
		m.logger.Debug(
			"searchbox discarding stale suggestions",
			zap.Int("seq", msg.seq),
			zap.Int("latestSeq", m.fetchSeq),
		)
		m.track(msg, analytics.OutcomeStale)
		return m, nil
	}

	candidates := msg.candidates
	switch {
	case msg.err != nil:
		m.indicator.SetStatus(StatusError)
		m.track(msg, analytics.OutcomeError)
		candidates = nil
	case len(candidates) == 0:
		m.indicator.SetStatus(StatusSuccess)
		m.track(msg, analytics.OutcomeEmpty)
	default:
		m.indicator.SetStatus(StatusSuccess)
		m.track(msg, analytics.OutcomeInstalled)
	}

	m.load(msg.query, candidates)
	if msg.err == nil && len(candidates) == 0 {
		m.hint = m.list.Container().Append(
			suggestlist.KindStatus,
			fmt.Sprintf("no suggestions for %q", msg.query),
			nil,
		)
	}
	return m, nil
}

func (m *Model) track(msg fetchResultMsg, outcome string) {
	if m.analytics == nil {
		return
	}
	if err := m.analytics.NewEntry(msg.query, outcome, len(msg.candidates), msg.latency); err != nil {
		m.logger.Error("searchbox failed to log analytics entry", zap.Error(err))
	}
}

// load replaces the rendered items and the navigation state together.
func (m *Model) load(query string, candidates []navigation.Candidate) {
	m.removeHint()
	m.list.Render(query, candidates)
	m.nav.Load(candidates)
	m.list.Highlight(m.nav.ActiveIndex())
	if m.input.Value() != m.typed {
		m.setField(m.typed)
	}
}

// clear empties the list and the navigation state and voids any lookup still
// pending or in flight.
func (m *Model) clear(reason string) {
	m.cancelDebounce()
	if m.nav.Len() > 0 || m.list.Len() > 0 {
		m.logger.Debug("searchbox clearing suggestions", zap.String("reason", reason))
	}
	m.list.Clear()
	m.nav.Clear()
	m.removeHint()
	m.fetchSeq++
	if m.indicator.Status() == StatusInFlight {
		m.indicator.SetStatus(StatusIdle)
	}
}

func (m *Model) removeHint() {
	if m.hint != nil {
		m.list.Container().Remove(m.hint.ID)
		m.hint = nil
	}
}

func (m *Model) moveDown() {
	if !m.nav.MoveDown() {
		m.logger.Debug("searchbox move down ignored", zap.Stringer("mode", m.nav.Mode()))
		return
	}
	m.syncHighlight()
}

func (m *Model) moveUp() {
	if !m.nav.MoveUp() {
		m.logger.Debug("searchbox move up ignored", zap.Stringer("mode", m.nav.Mode()))
		return
	}
	m.syncHighlight()
}

// syncHighlight redraws the highlight marker and mirrors the highlighted
// candidate into the field, or the typed text when nothing is highlighted.
func (m *Model) syncHighlight() {
	active := m.nav.ActiveIndex()
	m.list.Highlight(active)
	if candidate, ok := m.nav.Candidate(active); ok {
		m.setField(candidate.Text)
		return
	}
	m.setField(m.typed)
}

func (m *Model) setField(value string) {
	m.input.SetValue(value)
	m.input.CursorEnd()
}

func (m *Model) selectActive() {
	candidate, err := m.nav.Select()
	if err != nil {
		m.logger.Debug("searchbox select ignored", zap.Error(err))
		return
	}
	m.record(candidate.Text)
}

// click records the item at index regardless of the highlight.
func (m *Model) click(index int) {
	candidate, ok := m.nav.Candidate(index)
	if !ok {
		return
	}
	m.record(candidate.Text)
}

func (m *Model) record(text string) {
	entry, err := m.recorder.Record(text)
	if err != nil {
		m.logger.Error("searchbox failed to record selection", zap.Error(err))
		return
	}
	m.logger.Debug("searchbox recorded selection", zap.Uint("id", entry.ID), zap.String("text", text))
	m.refreshHistory()
}

// blur clears the suggestions unless focus moved to a rendered suggestion
// item, whose click handler still needs the list.
func (m *Model) blur(t target) {
	if t.kind == targetSuggestion {
		if node, ok := m.list.Container().Lookup(t.nodeID); ok && node.IsSuggestion() {
			m.logger.Debug("searchbox blur deferred to suggestion click", zap.Int("node", t.nodeID))
			return
		}
	}
	m.clear("blur")
}

func (m *Model) copyActive() {
	candidate, err := m.nav.Select()
	if err != nil {
		return
	}
	if err := clipboard.WriteAll(candidate.Text); err != nil {
		m.logger.Warn("searchbox failed to copy to clipboard", zap.Error(err))
	}
}

func (m *Model) focusHistory() {
	m.focus = focusHistory
	m.input.Blur()
	if m.historySelected >= len(m.historyEntries) {
		m.historySelected = max(0, len(m.historyEntries)-1)
	}
}

func (m *Model) focusInput() {
	m.focus = focusInput
	m.input.Focus()
}

func (m Model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ToggleFocus), key.Matches(msg, m.keys.Reset):
		m.focusInput()
	case key.Matches(msg, m.keys.Up):
		if m.historySelected > 0 {
			m.historySelected--
		}
	case key.Matches(msg, m.keys.Down):
		if m.historySelected < len(m.historyEntries)-1 {
			m.historySelected++
		}
	case key.Matches(msg, m.keys.Remove):
		m.removeHistoryRow(m.historySelected)
	}
	return m, nil
}

func (m *Model) removeHistoryRow(row int) {
	if row < 0 || row >= len(m.historyEntries) {
		return
	}
	if err := m.recorder.Remove(m.historyEntries[row].ID); err != nil {
		m.logger.Error("searchbox failed to remove history entry", zap.Error(err))
		return
	}
	m.refreshHistory()
}

func (m *Model) refreshHistory() {
	entries, err := m.recorder.Entries()
	if err != nil {
		m.logger.Warn("searchbox failed to load history", zap.Error(err))
		return
	}
	m.historyEntries = entries
	if m.historySelected >= len(entries) {
		m.historySelected = max(0, len(entries)-1)
	}
}

// programRef lets timer callbacks reach the program once it exists.
type programRef struct {
	program atomic.Pointer[tea.Program]
}

func (r *programRef) Send(msg tea.Msg) {
	if p := r.program.Load(); p != nil {
		p.Send(msg)
	}
}

// Run starts the interactive search box and blocks until the user quits.
func Run(
	ctx context.Context,
	fetcher Fetcher,
	recorder HistoryRecorder,
	lookupAnalytics LookupAnalytics,
	logger *zap.Logger,
	options Options,
) error {
	m := New(ctx, fetcher, recorder, lookupAnalytics, logger, options)
	ref := &programRef{}
	m.SetSender(ref.Send)

	p := tea.NewProgram(
		m,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
	)
	ref.program.Store(p)

	final, err := p.Run()
	if finalModel, ok := final.(Model); ok {
		finalModel.timer.Stop()
	}
	return err
}
