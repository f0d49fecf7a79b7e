package ui

import (
	"fmt"
	"strings"
	"testing"

	"github.com/atomicstack/pulse-dash/internal/panel"
	"github.com/atomicstack/pulse-dash/internal/selector"
)

func TestCountryListPaginationRespectsViewport(t *testing.T) {
	f := newFixture()
	f.geo.countries = make([]selector.Entity, 30)
	for i := range f.geo.countries {
		f.geo.countries[i] = selector.Entity{Key: fmt.Sprintf("C%02d", i), Label: fmt.Sprintf("Country %02d", i)}
	}
	h := f.start(panel.WeatherID, 80, 12)

	view := h.View()
	if !strings.Contains(view, "Country 00") {
		t.Fatalf("expected first country visible, view =\n%s", view)
	}
	if strings.Contains(view, "Country 07") {
		t.Fatalf("expected Country 07 outside the initial viewport, view =\n%s", view)
	}

	for i := 0; i < 7; i++ {
		h.Key("down")
	}
	view = h.View()
	if !strings.Contains(view, "Country 07") {
		t.Fatalf("expected Country 07 visible after scrolling, view =\n%s", view)
	}
	if strings.Contains(view, "Country 00") {
		t.Fatalf("expected Country 00 scrolled out, view =\n%s", view)
	}

	h.Key("end")
	if view = h.View(); !strings.Contains(view, "Country 29") {
		t.Fatalf("expected last country visible after end, view =\n%s", view)
	}
}

func TestBodyScrollIsClampedAndResetOnNewKey(t *testing.T) {
	h := newFixture().start(panel.StocksID, 100, 14)
	h.Key("enter") // AAPL, default range follows
	m := h.Model()
	view := m.views[m.active]

	for i := 0; i < 50; i++ {
		h.Key("shift+down")
	}
	stocks, _ := m.registry.Get(panel.StocksID)
	maxOffset := len(stocks.Body(m.bodyWidth())) - m.bodyRoom()
	if maxOffset < 0 {
		maxOffset = 0
	}
	if view.scroll != maxOffset {
		t.Fatalf("expected scroll clamped to %d, got %d", maxOffset, view.scroll)
	}

	h.Key("esc")
	h.Key("ctrl+u")
	h.Key("down")
	h.Key("enter") // IBM
	if view.scroll != 0 {
		t.Fatalf("expected scroll reset for a new key, got %d", view.scroll)
	}
}
