package main

import (
	"fmt"
	"os"

	"github.com/atomicstack/pulse-dash/internal/app"
	"github.com/atomicstack/pulse-dash/internal/config"
	"github.com/atomicstack/pulse-dash/internal/logging"
	"github.com/atomicstack/pulse-dash/internal/logging/events"
	"golang.org/x/term"
)

func main() {
	cfg := config.MustLoad()
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "pulse-dash: %v\n", err)
		os.Exit(2)
	}
	logging.Configure(cfg.Logging.FilePath)
	logging.SetTraceEnabled(cfg.Logging.Trace)
	events.App.Start(startupTracePayload(cfg))

	if err := app.Run(cfg.App); err != nil {
		logging.Error(err)
		fmt.Fprintf(os.Stderr, "pulse-dash: %v\n", err)
		os.Exit(1)
	}
}

// startupTracePayload describes the process for the first trace entry. API
// keys are reported as present or absent, never by value.
func startupTracePayload(cfg config.Config) map[string]interface{} {
	keys := cfg.App.Keys.Redacted()
	cfg.App.Keys = app.APIKeys{}
	payload := map[string]interface{}{
		"argv":    cfg.Args,
		"flags":   flagSnapshot(cfg),
		"config":  cfg,
		"apiKeys": keys,
		"envFile": cfg.EnvFile,
		"tty":     collectTTYDetails(),
	}
	addProcessContext(payload)
	return payload
}

func flagSnapshot(cfg config.Config) map[string]interface{} {
	out := make(map[string]interface{}, len(cfg.Flags)+2)
	for name, value := range cfg.Flags {
		out[name] = value
	}
	out["trace"] = cfg.Logging.Trace
	out["logFile"] = cfg.Logging.FilePath
	return out
}

// addProcessContext records where the binary runs from. A failed lookup is
// recorded under "<name>Error".
func addProcessContext(payload map[string]interface{}) {
	lookups := map[string]func() (string, error){
		"executable": os.Executable,
		"cwd":        os.Getwd,
	}
	for name, lookup := range lookups {
		if v, err := lookup(); err != nil {
			payload[name+"Error"] = err.Error()
		} else {
			payload[name] = v
		}
	}
}

type ttyDetails struct {
	Detected *terminalSize `json:"detected,omitempty"`
	Probes   []ttyProbe    `json:"probes"`
}

type terminalSize struct {
	Source string `json:"source"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type ttyProbe struct {
	Name       string `json:"name"`
	IsTerminal bool   `json:"is_terminal"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	Error      string `json:"error,omitempty"`
}

// collectTTYDetails probes the standard descriptors. The first one that is a
// sized terminal becomes Detected.
func collectTTYDetails() ttyDetails {
	std := []struct {
		name string
		file *os.File
	}{
		{"stdin", os.Stdin},
		{"stdout", os.Stdout},
		{"stderr", os.Stderr},
	}
	out := ttyDetails{Probes: make([]ttyProbe, 0, len(std))}
	for _, d := range std {
		p := probeTerminal(d.name, int(d.file.Fd()))
		if out.Detected == nil && p.IsTerminal && p.Error == "" {
			out.Detected = &terminalSize{Source: p.Name, Width: p.Width, Height: p.Height}
		}
		out.Probes = append(out.Probes, p)
	}
	return out
}

func probeTerminal(name string, fd int) ttyProbe {
	p := ttyProbe{Name: name}
	if fd < 0 || !term.IsTerminal(fd) {
		return p
	}
	p.IsTerminal = true
	width, height, err := term.GetSize(fd)
	if err != nil {
		p.Error = err.Error()
		return p
	}
	p.Width, p.Height = width, height
	return p
}
