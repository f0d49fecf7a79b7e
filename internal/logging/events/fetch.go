package events

import "github.com/atomicstack/pulse-dash/internal/logging"

type FetchTracer struct{}

var Fetch = FetchTracer{}

func (FetchTracer) Issue(panelID, key string, seq uint64) {
	logging.Trace("fetch.issue", map[string]interface{}{"panel": panelID, "key": key, "seq": seq})
}

func (FetchTracer) Ready(panelID, key string, seq uint64) {
	logging.Trace("fetch.ready", map[string]interface{}{"panel": panelID, "key": key, "seq": seq})
}

func (FetchTracer) Failed(panelID, key string, seq uint64, kind string, err error) {
	payload := map[string]interface{}{"panel": panelID, "key": key, "seq": seq, "kind": kind}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("fetch.failed", payload)
}

func (FetchTracer) Stale(panelID, key string, seq uint64) {
	logging.Trace("fetch.stale", map[string]interface{}{"panel": panelID, "key": key, "seq": seq})
}
