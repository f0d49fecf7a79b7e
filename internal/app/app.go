package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/atomicstack/pulse-dash/internal/backend"
	"github.com/atomicstack/pulse-dash/internal/logging/events"
	"github.com/atomicstack/pulse-dash/internal/panel"
	"github.com/atomicstack/pulse-dash/internal/remote"
	"github.com/atomicstack/pulse-dash/internal/theme"
	"github.com/atomicstack/pulse-dash/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
)

// stocksInterval keeps Alpha Vantage's free tier (5 requests a minute) from
// rejecting bursts while the user flips between ranges.
const stocksInterval = 1200 * time.Millisecond

// Config describes user-provided application options.
type Config struct {
	Tab        string
	Width      int
	Height     int
	ShowFooter bool
	Theme      string
	Timeout    time.Duration
	Refresh    time.Duration
	Symbols    []string
	Category   string
	Units      string
	Keys       APIKeys
	Endpoints  Endpoints
}

// APIKeys holds one credential per provider.
type APIKeys struct {
	News    string
	Stocks  string
	Weather string
	Geo     string
}

// Redacted reports which keys are set without exposing them.
func (k APIKeys) Redacted() map[string]bool {
	return map[string]bool{
		"news":    k.News != "",
		"stocks":  k.Stocks != "",
		"weather": k.Weather != "",
		"geo":     k.Geo != "",
	}
}

// Endpoints overrides provider base URLs. Blank uses the public API.
type Endpoints struct {
	News    string
	Stocks  string
	Weather string
	Geo     string
}

// Build wires the remote clients, panels and refresh watcher into a model.
// The caller owns the returned watcher and must Stop it; it is nil when
// periodic refresh is disabled.
func Build(cfg Config) (*ui.Model, *backend.Watcher, error) {
	styles, err := theme.ByName(cfg.Theme)
	if err != nil {
		return nil, nil, err
	}
	registry := NewRegistry(cfg)
	if cfg.Tab != "" && registry.Index(cfg.Tab) < 0 {
		return nil, nil, fmt.Errorf("unknown tab %q", cfg.Tab)
	}
	watcher := backend.NewWatcher(cfg.Refresh)
	model := ui.NewModel(ui.Options{
		Registry:   registry,
		Styles:     styles,
		Watcher:    watcher,
		Timeout:    cfg.Timeout,
		Width:      cfg.Width,
		Height:     cfg.Height,
		ShowFooter: cfg.ShowFooter,
		Tab:        cfg.Tab,
	})
	return model, watcher, nil
}

// NewRegistry builds the news, stocks and weather panels in tab order.
func NewRegistry(cfg Config) *panel.Registry {
	news := remote.NewNewsClient(remote.Options{BaseURL: cfg.Endpoints.News, APIKey: cfg.Keys.News})
	stocks := remote.NewStocksClient(remote.Options{
		BaseURL:     cfg.Endpoints.Stocks,
		APIKey:      cfg.Keys.Stocks,
		MinInterval: stocksInterval,
	})
	weather := remote.NewWeatherClient(remote.Options{BaseURL: cfg.Endpoints.Weather, APIKey: cfg.Keys.Weather}, cfg.Units)
	geo := remote.NewGeoClient(remote.Options{BaseURL: cfg.Endpoints.Geo, APIKey: cfg.Keys.Geo})
	return panel.NewRegistry(
		panel.NewNews(news, cfg.Category),
		panel.NewStocks(stocks, cfg.Symbols),
		panel.NewWeather(geo, weather, cfg.Units),
	)
}

// Run bootstraps and executes the Bubble Tea program.
func Run(cfg Config) error {
	model, watcher, err := Build(cfg)
	if err != nil {
		return err
	}
	if watcher != nil {
		defer watcher.Stop()
	}
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		err = nil
	}
	events.App.Exit(err)
	return err
}
