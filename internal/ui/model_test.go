package ui

import (
	"testing"

	"github.com/atomicstack/pulse-dash/internal/fetch"
	"github.com/atomicstack/pulse-dash/internal/panel"
)

func TestNewModelDefaultsToFirstTab(t *testing.T) {
	m := NewModel(Options{Registry: newFixture().registry()})
	if got := m.ActiveTab(); got != panel.NewsID {
		t.Fatalf("expected news tab, got %q", got)
	}
	if m.styles == nil || m.styles.Name != "dark" {
		t.Fatalf("expected default dark styles, got %#v", m.styles)
	}
}

func TestNewModelHonoursInitialTab(t *testing.T) {
	m := NewModel(Options{Registry: newFixture().registry(), Tab: panel.WeatherID})
	if got := m.ActiveTab(); got != panel.WeatherID {
		t.Fatalf("expected weather tab, got %q", got)
	}
	m = NewModel(Options{Registry: newFixture().registry(), Tab: "sports"})
	if got := m.ActiveTab(); got != panel.NewsID {
		t.Fatalf("expected unknown tab to fall back to news, got %q", got)
	}
}

func TestInitStartsOnlyTheActivePanel(t *testing.T) {
	f := newFixture()
	h := f.start(panel.NewsID, 100, 30)
	m := h.Model()

	news, _ := m.registry.Get(panel.NewsID)
	if slot := news.Slot(); slot.Status != fetch.Ready || slot.Key != panel.DefaultCategory {
		t.Fatalf("expected news ready for %q, got %#v", panel.DefaultCategory, slot)
	}
	if f.news.callCount() != 1 {
		t.Fatalf("expected one headline fetch, got %d", f.news.callCount())
	}

	stocks, _ := m.registry.Get(panel.StocksID)
	if st := stocks.Chain().Stage(0); st.Loading || st.Candidates != nil {
		t.Fatalf("expected stocks to stay unstarted, got %#v", st)
	}
	if m.inflight[panel.NewsID] != 0 {
		t.Fatalf("expected no jobs in flight, got %d", m.inflight[panel.NewsID])
	}
}

func TestSwitchTabStartsPanelLazilyAndWraps(t *testing.T) {
	f := newFixture()
	h := f.start("", 100, 30)

	h.Key("tab")
	if got := h.Model().ActiveTab(); got != panel.StocksID {
		t.Fatalf("expected stocks tab, got %q", got)
	}
	stocks, _ := h.Model().registry.Get(panel.StocksID)
	if got := len(stocks.Chain().Stage(0).Candidates); got != 2 {
		t.Fatalf("expected watchlist candidates after activation, got %d", got)
	}

	h.Key("shift+tab")
	h.Key("shift+tab")
	if got := h.Model().ActiveTab(); got != panel.WeatherID {
		t.Fatalf("expected wrap to weather, got %q", got)
	}
	if f.news.callCount() != 1 {
		t.Fatalf("expected revisiting news not to refetch, got %d calls", f.news.callCount())
	}
}

func TestBackendTickRefreshesActivePanel(t *testing.T) {
	f := newFixture()
	h := f.start(panel.NewsID, 100, 30)
	h.Send(backendEventMsg{})
	if f.news.callCount() != 2 {
		t.Fatalf("expected refresh tick to refetch headlines, got %d calls", f.news.callCount())
	}

	h.Key("tab")
	h.Send(backendEventMsg{})
	if len(f.quotes.seriesCalls) != 0 {
		t.Fatalf("expected idle stocks panel to ignore ticks, got %v", f.quotes.seriesCalls)
	}
}

func TestBackendDoneClearsWatcher(t *testing.T) {
	m := NewModel(Options{Registry: newFixture().registry()})
	m.handleBackendDoneMsg(backendDoneMsg{})
	if m.backend != nil {
		t.Fatal("expected watcher cleared")
	}
}
