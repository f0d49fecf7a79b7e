package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

// emptyEnv points at an empty .env so a stray file in the package dir is
// never read.
func emptyEnv(t *testing.T) []string {
	t.Helper()
	return []string{"PULSE_DASH_ENV_FILE=" + writeEnvFile(t, "")}
}

func writeEnvFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	return path
}

func TestLoadArgsDefaults(t *testing.T) {
	path := writeEnvFile(t, "")
	cfg, err := LoadArgs([]string{"-env-file", path}, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.App.Tab != "" || cfg.App.Width != 0 || cfg.App.Height != 0 {
		t.Fatalf("unexpected layout defaults: %#v", cfg.App)
	}
	if !cfg.App.ShowFooter {
		t.Fatalf("expected footer on by default")
	}
	if cfg.App.Theme != "dark" || cfg.App.Units != "metric" || cfg.App.Category != "health" {
		t.Fatalf("unexpected defaults: theme=%q units=%q category=%q", cfg.App.Theme, cfg.App.Units, cfg.App.Category)
	}
	if cfg.App.Timeout != 20*time.Second || cfg.App.Refresh != 5*time.Minute {
		t.Fatalf("unexpected durations: timeout=%s refresh=%s", cfg.App.Timeout, cfg.App.Refresh)
	}
	want := []string{"AAPL", "MSFT", "GOOGL", "AMZN", "TSLA"}
	if !reflect.DeepEqual(cfg.App.Symbols, want) {
		t.Fatalf("expected default watchlist %v, got %v", want, cfg.App.Symbols)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadArgsFlagsOverrideEnvironment(t *testing.T) {
	environ := append(emptyEnv(t),
		"PULSE_DASH_WIDTH=100",
		"PULSE_DASH_TAB=news",
		"PULSE_DASH_REFRESH=30s",
	)
	cfg, err := LoadArgs([]string{"-width", "120", "-tab", "Weather", "-symbols", " ibm, msft ,,"}, environ)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.App.Width != 120 {
		t.Fatalf("expected flag width 120, got %d", cfg.App.Width)
	}
	if cfg.App.Tab != "weather" {
		t.Fatalf("expected tab weather, got %q", cfg.App.Tab)
	}
	if cfg.App.Refresh != 30*time.Second {
		t.Fatalf("expected env refresh 30s, got %s", cfg.App.Refresh)
	}
	if !reflect.DeepEqual(cfg.App.Symbols, []string{"IBM", "MSFT"}) {
		t.Fatalf("unexpected symbols %v", cfg.App.Symbols)
	}
}

func TestLoadArgsBadEnvValuesFallBack(t *testing.T) {
	environ := append(emptyEnv(t), "PULSE_DASH_HEIGHT=tall", "PULSE_DASH_TIMEOUT=soon", "PULSE_DASH_TRACE=maybe")
	cfg, err := LoadArgs(nil, environ)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.App.Height != 0 || cfg.App.Timeout != 20*time.Second || cfg.Logging.Trace {
		t.Fatalf("expected fallbacks, got height=%d timeout=%s trace=%v", cfg.App.Height, cfg.App.Timeout, cfg.Logging.Trace)
	}
}

func TestLoadArgsRejectsNegativeValues(t *testing.T) {
	cases := [][]string{
		{"-width", "-1"},
		{"-height", "-3"},
		{"-timeout", "-1s"},
		{"-refresh", "-1m"},
	}
	for _, args := range cases {
		if _, err := LoadArgs(args, emptyEnv(t)); err == nil {
			t.Fatalf("expected %v to fail", args)
		}
	}
}

func TestEnvFileSuppliesKeysButProcessEnvWins(t *testing.T) {
	path := writeEnvFile(t, strings.Join([]string{
		"NEWS_API_KEY=file-news",
		"PULSE_DASH_STOCKS_KEY=file-stocks",
		"OPENWEATHER_API_KEY=file-weather",
		"PULSE_DASH_UNITS=imperial",
	}, "\n"))
	environ := []string{
		"PULSE_DASH_ENV_FILE=" + path,
		"PULSE_DASH_STOCKS_KEY=env-stocks",
		"CSC_API_KEY=env-geo",
	}
	cfg, err := LoadArgs(nil, environ)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	keys := cfg.App.Keys
	if keys.News != "file-news" {
		t.Fatalf("expected news key from file, got %q", keys.News)
	}
	if keys.Stocks != "env-stocks" {
		t.Fatalf("expected process env to win for stocks key, got %q", keys.Stocks)
	}
	if keys.Weather != "file-weather" || keys.Geo != "env-geo" {
		t.Fatalf("unexpected keys %#v", keys)
	}
	if cfg.App.Units != "imperial" {
		t.Fatalf("expected units from file, got %q", cfg.App.Units)
	}
	if cfg.EnvFile != path {
		t.Fatalf("expected env file %q, got %q", path, cfg.EnvFile)
	}
}

func TestEnvFileFlagTakesPrecedence(t *testing.T) {
	fromEnv := writeEnvFile(t, "PULSE_DASH_THEME=dark\n")
	fromFlag := writeEnvFile(t, "PULSE_DASH_THEME=light\n")
	cfg, err := LoadArgs([]string{"--env-file=" + fromFlag}, []string{"PULSE_DASH_ENV_FILE=" + fromEnv})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.App.Theme != "light" {
		t.Fatalf("expected theme from flag-named file, got %q", cfg.App.Theme)
	}
}

func TestExplicitMissingEnvFileFails(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.env")
	if _, err := LoadArgs([]string{"-env-file", missing}, nil); err == nil {
		t.Fatalf("expected missing explicit env file to fail")
	}
}

func TestKeysAreRedactedInFlagsAndArgs(t *testing.T) {
	args := []string{"-news-key", "n-secret", "--geo-key=g-secret", "-width", "80"}
	cfg, err := LoadArgs(args, emptyEnv(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.App.Keys.News != "n-secret" || cfg.App.Keys.Geo != "g-secret" {
		t.Fatalf("keys not parsed: %#v", cfg.App.Keys)
	}
	if cfg.Flags["news-key"] != redacted || cfg.Flags["geo-key"] != redacted {
		t.Fatalf("expected redacted flag values, got %v", cfg.Flags)
	}
	if cfg.Flags["stocks-key"] != "" {
		t.Fatalf("expected unset key to stay blank, got %q", cfg.Flags["stocks-key"])
	}
	want := []string{"-news-key", redacted, "--geo-key=" + redacted, "-width", "80"}
	if !reflect.DeepEqual(cfg.Args, want) {
		t.Fatalf("expected args %v, got %v", want, cfg.Args)
	}
	if args[1] != "n-secret" {
		t.Fatalf("redaction must not modify the caller's args")
	}
}

func TestValidateRejectsUnknownValues(t *testing.T) {
	cases := map[string][]string{
		"tab":      {"-tab", "sports"},
		"theme":    {"-theme", "neon"},
		"units":    {"-units", "kelvin"},
		"category": {"-category", "gossip"},
		"symbols":  {"-symbols", " , "},
	}
	for name, args := range cases {
		cfg, err := LoadArgs(args, emptyEnv(t))
		if err != nil {
			t.Fatalf("%s: load: %v", name, err)
		}
		if err := Validate(cfg); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}
