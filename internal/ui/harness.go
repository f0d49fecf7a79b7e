package ui

import tea "github.com/charmbracelet/bubbletea"

// Harness drives the UI model programmatically for integration tests.
// Commands run synchronously and batches are flattened in order, so panel
// jobs complete before Send returns.
type Harness struct {
	model *Model
	quit  bool
}

// NewHarness creates a harness for the provided model and disables timer
// driven animation so command processing always terminates.
func NewHarness(model *Model) *Harness {
	if model != nil {
		model.animate = false
	}
	return &Harness{model: model}
}

// Init runs the model's Init command.
func (h *Harness) Init() {
	if h.model == nil {
		return
	}
	h.processCmd(h.model.Init())
}

// Send routes a message through the model and executes any returned commands.
func (h *Harness) Send(msg tea.Msg) {
	if h.model == nil {
		return
	}
	mdl, cmd := h.model.Update(msg)
	if updated, ok := mdl.(*Model); ok {
		h.model = updated
	}
	h.processCmd(cmd)
}

// Key sends a key press by its Bubble Tea name, e.g. "enter" or "ctrl+r".
// Any other string is typed as runes.
func (h *Harness) Key(name string) {
	h.Send(keyMsg(name))
}

func (h *Harness) processCmd(cmd tea.Cmd) {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		msg := next()
		switch msg := msg.(type) {
		case nil:
			continue
		case tea.BatchMsg:
			queue = append(queue, msg...)
			continue
		case tea.QuitMsg:
			h.quit = true
			continue
		}
		mdl, follow := h.model.Update(msg)
		if updated, ok := mdl.(*Model); ok {
			h.model = updated
		}
		queue = append(queue, follow)
	}
}

// Quit reports whether the model asked the program to exit.
func (h *Harness) Quit() bool {
	return h.quit
}

// View returns the current view string.
func (h *Harness) View() string {
	if h.model == nil {
		return ""
	}
	return h.model.View()
}

// Model exposes the underlying model.
func (h *Harness) Model() *Model {
	return h.model
}

var namedKeys = map[string]tea.KeyType{
	"enter":      tea.KeyEnter,
	"esc":        tea.KeyEsc,
	"tab":        tea.KeyTab,
	"shift+tab":  tea.KeyShiftTab,
	"up":         tea.KeyUp,
	"down":       tea.KeyDown,
	"pgup":       tea.KeyPgUp,
	"pgdown":     tea.KeyPgDown,
	"home":       tea.KeyHome,
	"end":        tea.KeyEnd,
	"left":       tea.KeyLeft,
	"right":      tea.KeyRight,
	"backspace":  tea.KeyBackspace,
	"space":      tea.KeySpace,
	"shift+up":   tea.KeyShiftUp,
	"shift+down": tea.KeyShiftDown,
	"ctrl+a":     tea.KeyCtrlA,
	"ctrl+c":     tea.KeyCtrlC,
	"ctrl+e":     tea.KeyCtrlE,
	"ctrl+r":     tea.KeyCtrlR,
	"ctrl+s":     tea.KeyCtrlS,
	"ctrl+u":     tea.KeyCtrlU,
	"ctrl+w":     tea.KeyCtrlW,
	"ctrl+x":     tea.KeyCtrlX,
}

func keyMsg(name string) tea.KeyMsg {
	if t, ok := namedKeys[name]; ok {
		return tea.KeyMsg{Type: t}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(name)}
}
