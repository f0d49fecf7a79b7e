package events

import "github.com/atomicstack/pulse-dash/internal/logging"

type ChainTracer struct{}

var Chain = ChainTracer{}

func (ChainTracer) Lookup(panelID, stageID string, seq uint64) {
	logging.Trace("chain.lookup", map[string]interface{}{"panel": panelID, "stage": stageID, "seq": seq})
}

func (ChainTracer) Loaded(panelID, stageID string, count int, err error) {
	payload := map[string]interface{}{"panel": panelID, "stage": stageID, "count": count}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("chain.loaded", payload)
}

func (ChainTracer) Stale(panelID, stageID string, seq uint64) {
	logging.Trace("chain.stale", map[string]interface{}{"panel": panelID, "stage": stageID, "seq": seq})
}

func (ChainTracer) Reset(panelID string, from int) {
	logging.Trace("chain.reset", map[string]interface{}{"panel": panelID, "from": from})
}
