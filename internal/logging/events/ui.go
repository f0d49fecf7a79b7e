package events

import "github.com/atomicstack/pulse-dash/internal/logging"

type UITracer struct{}

type FilterTracer struct{}

type CommandTracer struct{}

var (
	UI      = UITracer{}
	Filter  = FilterTracer{}
	Command = CommandTracer{}
)

func (UITracer) Tab(panelID string) {
	logging.Trace("ui.tab", map[string]interface{}{"panel": panelID})
}

func (UITracer) Focus(panelID string, stage int) {
	logging.Trace("ui.focus", map[string]interface{}{"panel": panelID, "stage": stage})
}

func (UITracer) Commit(panelID, stageID, key, filter string) {
	logging.Trace("ui.commit", map[string]interface{}{
		"panel":  panelID,
		"stage":  stageID,
		"key":    key,
		"filter": filter,
	})
}

func (UITracer) Cursor(stageID string, cursor int) {
	logging.Trace("ui.cursor", map[string]interface{}{"stage": stageID, "cursor": cursor})
}

func (UITracer) Error(err error) {
	if err == nil {
		return
	}
	logging.Trace("ui.error", map[string]interface{}{"error": err.Error()})
}

func (FilterTracer) Cleared(stageID string) {
	logging.Trace("filter.clear", map[string]interface{}{"stage": stageID})
}

func (FilterTracer) WordBackspace(stageID, filter string) {
	logging.Trace("filter.word-backspace", map[string]interface{}{"stage": stageID, "filter": filter})
}

func (FilterTracer) Cursor(stageID string, pos int) {
	logging.Trace("filter.cursor", map[string]interface{}{"stage": stageID, "cursor": pos})
}

func (FilterTracer) CursorWord(stageID string, pos int) {
	logging.Trace("filter.cursor-word", map[string]interface{}{"stage": stageID, "cursor": pos})
}

func (FilterTracer) Append(stageID, filter string) {
	logging.Trace("filter.append", map[string]interface{}{"stage": stageID, "filter": filter})
}

func (FilterTracer) Backspace(stageID, filter string) {
	logging.Trace("filter.backspace", map[string]interface{}{"stage": stageID, "filter": filter})
}

func (CommandTracer) Queue(id, label string) {
	logging.Trace("command.queue", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Skip(id, label string) {
	logging.Trace("command.skip", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Timeout(id, label string) {
	logging.Trace("command.timeout", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Result(id, label, msgType string) {
	logging.Trace("command.result", map[string]interface{}{"id": id, "label": label, "msg": msgType})
}
