package ui

import (
	"context"
	"fmt"
	"sync"

	"github.com/atomicstack/pulse-dash/internal/panel"
	"github.com/atomicstack/pulse-dash/internal/remote"
	"github.com/atomicstack/pulse-dash/internal/selector"
	tea "github.com/charmbracelet/bubbletea"
)

type fakeHeadlines struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (f *fakeHeadlines) TopHeadlines(_ context.Context, category string) ([]remote.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, category)
	if f.err != nil {
		return nil, f.err
	}
	return []remote.Article{{
		Source:   "Wire",
		Title:    category + " headline",
		URL:      "https://example.com/" + category,
		ImageURL: "https://example.com/" + category + ".png",
	}}, nil
}

func (f *fakeHeadlines) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeQuotes struct {
	mu          sync.Mutex
	seriesCalls []string
	searchErr   error
}

func (f *fakeQuotes) Series(_ context.Context, symbol, rng string) (remote.Series, error) {
	f.mu.Lock()
	f.seriesCalls = append(f.seriesCalls, symbol+"@"+rng)
	f.mu.Unlock()
	return remote.Series{Symbol: symbol, Range: rng, Points: []remote.Point{
		{Time: "2024-01-02", Open: 10, High: 12, Low: 9, Close: 11, Volume: 100},
		{Time: "2024-01-03", Open: 11, High: 13, Low: 10, Close: 12, Volume: 200},
	}}, nil
}

func (f *fakeQuotes) Search(_ context.Context, keywords string) ([]remote.SymbolMatch, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return []remote.SymbolMatch{{Symbol: "msft", Name: "Microsoft Corporation", Score: 1}}, nil
}

type fakeGeo struct {
	countries []selector.Entity
}

func (f *fakeGeo) Countries(context.Context) ([]selector.Entity, error) {
	if f.countries != nil {
		return f.countries, nil
	}
	return []selector.Entity{{Key: "US", Label: "United States"}, {Key: "CA", Label: "Canada"}}, nil
}

func (f *fakeGeo) States(_ context.Context, country string) ([]selector.Entity, error) {
	switch country {
	case "US":
		return []selector.Entity{{Key: "CA", Label: "California"}, {Key: "NY", Label: "New York"}}, nil
	case "CA":
		return []selector.Entity{{Key: "ON", Label: "Ontario"}}, nil
	}
	return nil, &remote.EmptyResultError{Op: "states", Query: country}
}

func (f *fakeGeo) Cities(_ context.Context, country, state string) ([]selector.Entity, error) {
	if country == "CA" && state == "ON" {
		return []selector.Entity{{Key: "Toronto"}, {Key: "Ottawa"}}, nil
	}
	return []selector.Entity{{Key: "Springfield"}}, nil
}

type fakeForecast struct{}

func (fakeForecast) Report(_ context.Context, location string) (remote.Report, error) {
	return remote.Report{
		Location: location,
		Units:    "metric",
		Current:  remote.Conditions{Name: "Station " + location, Temp: 21.5, Description: "clear sky"},
	}, nil
}

type fixture struct {
	news   *fakeHeadlines
	quotes *fakeQuotes
	geo    *fakeGeo
}

func newFixture() *fixture {
	return &fixture{news: &fakeHeadlines{}, quotes: &fakeQuotes{}, geo: &fakeGeo{}}
}

func (f *fixture) registry() *panel.Registry {
	return panel.NewRegistry(
		panel.NewNews(f.news, ""),
		panel.NewStocks(f.quotes, []string{"aapl", "ibm"}),
		panel.NewWeather(f.geo, fakeForecast{}, "metric"),
	)
}

// start builds a model over the fixture on tab, sized width x height, and
// runs Init through a harness.
func (f *fixture) start(tab string, width, height int) *Harness {
	h := NewHarness(NewModel(Options{Registry: f.registry(), Tab: tab, Width: width, Height: height}))
	h.Init()
	return h
}

func typeText(h *Harness, text string) {
	for _, r := range text {
		if r == ' ' {
			h.Key("space")
			continue
		}
		h.Key(fmt.Sprintf("%c", r))
	}
}

func keyMsgAlt(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}, Alt: true}
}
