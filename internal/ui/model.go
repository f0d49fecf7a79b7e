package ui

import (
	"reflect"
	"time"

	"github.com/atomicstack/pulse-dash/internal/backend"
	"github.com/atomicstack/pulse-dash/internal/panel"
	"github.com/atomicstack/pulse-dash/internal/theme"
	"github.com/atomicstack/pulse-dash/internal/ui/command"
	uistate "github.com/atomicstack/pulse-dash/internal/ui/state"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type level = uistate.Level

type msgHandler func(tea.Msg) tea.Cmd

// panelView is the UI-side state of one tab: a Level per chain stage, the
// focused stage and the body scroll position.
type panelView struct {
	levels  []*level
	focus   int
	started bool
	bodyKey string
	scroll  int
}

// Options configures NewModel.
type Options struct {
	Registry   *panel.Registry
	Styles     *theme.Styles
	Watcher    *backend.Watcher
	Timeout    time.Duration
	Width      int
	Height     int
	ShowFooter bool
	// Tab is the panel ID shown first. Unknown or blank selects the first
	// registered panel.
	Tab string
}

// Model implements the Bubble Tea model for the dashboard.
type Model struct {
	registry *panel.Registry
	views    []*panelView
	active   int

	styles  *theme.Styles
	bus     *command.Bus
	backend *backend.Watcher
	keys    keyMap
	help    help.Model
	spinner spinner.Model

	filterCursor      cursor.Model
	filterCursorDirty bool

	inflight   map[string]int
	errMsg     string
	infoMsg    string
	infoExpire time.Time

	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	showFooter  bool

	// animate is cleared by the test harness so that no timer-driven
	// commands (spinner ticks, caret blinks) are scheduled.
	animate bool
	ticking bool

	handlers map[reflect.Type]msgHandler
}

// NewModel initialises the UI state for the registered panels.
func NewModel(opts Options) *Model {
	registry := opts.Registry
	if registry == nil {
		registry = panel.NewRegistry()
	}
	styles := opts.Styles
	if styles == nil {
		styles = theme.Default()
	}
	m := &Model{
		registry:   registry,
		styles:     styles,
		bus:        command.New(opts.Timeout),
		backend:    opts.Watcher,
		keys:       defaultKeyMap(),
		help:       help.New(),
		inflight:   map[string]int{},
		showFooter: opts.ShowFooter,
		animate:    true,
	}
	for _, p := range registry.Panels() {
		m.views = append(m.views, newPanelView(p))
	}
	if idx := registry.Index(opts.Tab); idx >= 0 {
		m.active = idx
	}
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	if styles.Spinner != nil {
		s.Style = *styles.Spinner
	}
	m.spinner = s

	if styles.Footer != nil {
		m.help.Styles.ShortKey = styles.Footer.Copy().Bold(true)
	}
	if styles.Muted != nil {
		m.help.Styles.ShortDesc = *styles.Muted
		m.help.Styles.ShortSeparator = *styles.Muted
	}

	c := cursor.New()
	if styles.Cursor != nil {
		c.Style = styles.Cursor.Copy()
	}
	if styles.Filter != nil {
		c.TextStyle = styles.Filter.Copy()
	}
	c.SetChar(" ")
	m.filterCursor = c
	m.registerHandlers()
	return m
}

func newPanelView(p panel.Panel) *panelView {
	chain := p.Chain()
	view := &panelView{levels: make([]*level, 0, chain.Len())}
	for i := 0; i < chain.Len(); i++ {
		def := chain.Stage(i).Def
		view.levels = append(view.levels, uistate.NewLevel(def.ID, def.Title, nil))
	}
	return view
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.activate(m.active)}
	if m.backend != nil {
		cmds = append(cmds, waitForBackendEvent(m.backend))
	}
	if m.animate {
		if cmd := m.filterCursor.Focus(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m.finishUpdate(cmds)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 4)
	if cmd := m.updateFilterCursorModel(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, m.finishUpdate(cmds)
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(jobDoneMsg{}):        m.handleJobDoneMsg,
		reflect.TypeOf(backendEventMsg{}):   m.handleBackendEventMsg,
		reflect.TypeOf(backendDoneMsg{}):    m.handleBackendDoneMsg,
		reflect.TypeOf(spinner.TickMsg{}):   m.handleSpinnerTickMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) finishUpdate(cmds []tea.Cmd) tea.Cmd {
	if m.filterCursorDirty {
		m.filterCursorDirty = false
		m.filterCursor.Blink = false
		if m.animate {
			if cmd := m.filterCursor.BlinkCmd(); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	}
	if cmd := m.startSpinner(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// startSpinner schedules the first spinner tick once something is loading.
// Ticks stop on their own when nothing is.
func (m *Model) startSpinner() tea.Cmd {
	if !m.animate || m.ticking || !m.busy() {
		return nil
	}
	m.ticking = true
	return m.spinner.Tick
}

func (m *Model) handleSpinnerTickMsg(msg tea.Msg) tea.Cmd {
	if !m.busy() {
		m.ticking = false
		return nil
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return cmd
}

// busy reports whether the active panel is waiting on background work.
func (m *Model) busy() bool {
	p, _ := m.activePanel()
	if p == nil {
		return false
	}
	return m.inflight[p.ID()] > 0
}

func (m *Model) activePanel() (panel.Panel, *panelView) {
	p := m.registry.At(m.active)
	if p == nil || m.active >= len(m.views) {
		return nil, nil
	}
	return p, m.views[m.active]
}

func (m *Model) focusedLevel() *level {
	_, view := m.activePanel()
	if view == nil || view.focus < 0 || view.focus >= len(view.levels) {
		return nil
	}
	return view.levels[view.focus]
}

// ActiveTab returns the ID of the panel on screen.
func (m *Model) ActiveTab() string {
	if p, _ := m.activePanel(); p != nil {
		return p.ID()
	}
	return ""
}

// Focus returns the focused stage index of the active panel.
func (m *Model) Focus() int {
	if _, view := m.activePanel(); view != nil {
		return view.focus
	}
	return 0
}

// Err returns the last user-facing error message.
func (m *Model) Err() string {
	return m.errMsg
}
