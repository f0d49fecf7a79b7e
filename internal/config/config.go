package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/atomicstack/pulse-dash/internal/app"
	"github.com/atomicstack/pulse-dash/internal/panel"
	"github.com/atomicstack/pulse-dash/internal/remote"
	"github.com/atomicstack/pulse-dash/internal/theme"
	"github.com/joho/godotenv"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	EnvFile string
	Flags   map[string]string
	Args    []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	envTab        = "PULSE_DASH_TAB"
	envWidth      = "PULSE_DASH_WIDTH"
	envHeight     = "PULSE_DASH_HEIGHT"
	envShowFooter = "PULSE_DASH_FOOTER"
	envTrace      = "PULSE_DASH_TRACE"
	envLogFile    = "PULSE_DASH_LOG_FILE"
	envTheme      = "PULSE_DASH_THEME"
	envEnvFile    = "PULSE_DASH_ENV_FILE"
	envTimeout    = "PULSE_DASH_TIMEOUT"
	envRefresh    = "PULSE_DASH_REFRESH"
	envSymbols    = "PULSE_DASH_SYMBOLS"
	envCategory   = "PULSE_DASH_CATEGORY"
	envUnits      = "PULSE_DASH_UNITS"
	envNewsKey    = "PULSE_DASH_NEWS_KEY"
	envStocksKey  = "PULSE_DASH_STOCKS_KEY"
	envWeatherKey = "PULSE_DASH_WEATHER_KEY"
	envGeoKey     = "PULSE_DASH_GEO_KEY"
)

const (
	defaultEnvFile = ".env"
	defaultSymbols = "AAPL,MSFT,GOOGL,AMZN,TSLA"
	defaultTimeout = 20 * time.Second
	defaultRefresh = 5 * time.Minute
	redacted       = "<redacted>"
)

// conventional names the provider docs use, checked after the prefixed ones
var keyFallbacks = map[string]string{
	envNewsKey:    "NEWS_API_KEY",
	envStocksKey:  "ALPHAVANTAGE_API_KEY",
	envWeatherKey: "OPENWEATHER_API_KEY",
	envGeoKey:     "CSC_API_KEY",
}

// Load parses configuration from CLI arguments, environment variables and
// the .env file.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment. Values from
// the .env file fill in only what the process environment leaves unset.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)
	envFile, explicit := envFileArg(args)
	if !explicit {
		if v, ok := env[envEnvFile]; ok && strings.TrimSpace(v) != "" {
			envFile, explicit = v, true
		} else {
			envFile = defaultEnvFile
		}
	}
	fileEnv, err := readEnvFile(envFile, explicit)
	if err != nil {
		return Config{}, err
	}
	for k, v := range fileEnv {
		if _, ok := env[k]; !ok {
			env[k] = v
		}
	}

	fs := flag.NewFlagSet("pulse-dash", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	tab := fs.String("tab", envOrDefault(env, envTab, ""), "panel shown first (news, stocks or weather)")
	width := fs.Int("width", envOrInt(env, envWidth, 0), "desired viewport width in cells (0 uses terminal width)")
	height := fs.Int("height", envOrInt(env, envHeight, 0), "desired viewport height in rows (0 uses terminal height)")
	footer := fs.Bool("footer", envOrBool(env, envShowFooter, true), "show the key help row")
	trace := fs.Bool("trace", envOrBool(env, envTrace, false), "enable verbose JSON trace logging")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, ""), "path to the log file")
	themeName := fs.String("theme", envOrDefault(env, envTheme, "dark"), "colour theme (dark or light)")
	fs.String("env-file", envFile, "path to a .env file with API keys")
	timeout := fs.Duration("timeout", envOrDuration(env, envTimeout, defaultTimeout), "deadline for a single lookup or fetch")
	refresh := fs.Duration("refresh", envOrDuration(env, envRefresh, defaultRefresh), "automatic refresh period for the visible panel (0 disables)")
	symbols := fs.String("symbols", envOrDefault(env, envSymbols, defaultSymbols), "comma separated stock watchlist")
	category := fs.String("category", envOrDefault(env, envCategory, panel.DefaultCategory), "news category committed at start")
	units := fs.String("units", envOrDefault(env, envUnits, "metric"), "weather units (metric, imperial or standard)")
	newsKey := fs.String("news-key", envKey(env, envNewsKey), "NewsAPI key")
	stocksKey := fs.String("stocks-key", envKey(env, envStocksKey), "Alpha Vantage key")
	weatherKey := fs.String("weather-key", envKey(env, envWeatherKey), "OpenWeatherMap key")
	geoKey := fs.String("geo-key", envKey(env, envGeoKey), "CountryStateCity key")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *width < 0 {
		return Config{}, fmt.Errorf("width must be >= 0 (got %d)", *width)
	}
	if *height < 0 {
		return Config{}, fmt.Errorf("height must be >= 0 (got %d)", *height)
	}
	if *timeout < 0 {
		return Config{}, fmt.Errorf("timeout must be >= 0 (got %s)", *timeout)
	}
	if *refresh < 0 {
		return Config{}, fmt.Errorf("refresh must be >= 0 (got %s)", *refresh)
	}

	keys := app.APIKeys{
		News:    strings.TrimSpace(*newsKey),
		Stocks:  strings.TrimSpace(*stocksKey),
		Weather: strings.TrimSpace(*weatherKey),
		Geo:     strings.TrimSpace(*geoKey),
	}
	cfg := Config{
		App: app.Config{
			Tab:        strings.ToLower(strings.TrimSpace(*tab)),
			Width:      *width,
			Height:     *height,
			ShowFooter: *footer,
			Theme:      strings.ToLower(strings.TrimSpace(*themeName)),
			Timeout:    *timeout,
			Refresh:    *refresh,
			Symbols:    splitSymbols(*symbols),
			Category:   strings.ToLower(strings.TrimSpace(*category)),
			Units:      strings.ToLower(strings.TrimSpace(*units)),
			Keys:       keys,
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		EnvFile: envFile,
		Flags: map[string]string{
			"tab":         *tab,
			"width":       strconv.Itoa(*width),
			"height":      strconv.Itoa(*height),
			"footer":      strconv.FormatBool(*footer),
			"trace":       strconv.FormatBool(*trace),
			"logFile":     *logFile,
			"theme":       *themeName,
			"envFile":     envFile,
			"timeout":     timeout.String(),
			"refresh":     refresh.String(),
			"symbols":     *symbols,
			"category":    *category,
			"units":       *units,
			"news-key":    redact(keys.News),
			"stocks-key":  redact(keys.Stocks),
			"weather-key": redact(keys.Weather),
			"geo-key":     redact(keys.Geo),
		},
		Args: redactArgs(args),
	}

	return cfg, nil
}

// envFileArg finds -env-file ahead of the real parse so the file can seed
// the other flags' defaults.
func envFileArg(args []string) (string, bool) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		name := strings.TrimLeft(arg, "-")
		if name == arg {
			continue
		}
		if v, ok := strings.CutPrefix(name, "env-file="); ok {
			return v, true
		}
		if name == "env-file" && i+1 < len(args) {
			return args[i+1], true
		}
	}
	return "", false
}

// readEnvFile loads path with godotenv. A missing file is only an error
// when the user named it.
func readEnvFile(path string, explicit bool) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if err == nil {
		return values, nil
	}
	if !explicit && errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	return nil, fmt.Errorf("read env file %s: %w", path, err)
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDuration(env map[string]string, key string, fallback time.Duration) time.Duration {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return parsed
}

func envKey(env map[string]string, key string) string {
	if v := strings.TrimSpace(env[key]); v != "" {
		return v
	}
	return strings.TrimSpace(env[keyFallbacks[key]])
}

func splitSymbols(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func redact(v string) string {
	if v == "" {
		return ""
	}
	return redacted
}

// redactArgs masks the values of the *-key flags so argv can be traced.
func redactArgs(args []string) []string {
	out := append([]string(nil), args...)
	for i := 0; i < len(out); i++ {
		name := strings.TrimLeft(out[i], "-")
		if name == out[i] {
			continue
		}
		flagName, _, hasValue := strings.Cut(name, "=")
		if !strings.HasSuffix(flagName, "-key") {
			continue
		}
		if hasValue {
			out[i] = out[i][:len(out[i])-len(name)] + flagName + "=" + redacted
		} else if i+1 < len(out) {
			out[i+1] = redacted
			i++
		}
	}
	return out
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate rejects values the panels cannot serve.
func Validate(cfg Config) error {
	tabs := []string{panel.NewsID, panel.StocksID, panel.WeatherID}
	if cfg.App.Tab != "" && !slices.Contains(tabs, cfg.App.Tab) {
		return fmt.Errorf("unknown tab %q (want one of %s)", cfg.App.Tab, strings.Join(tabs, ", "))
	}
	if cfg.App.Theme != "" && !slices.Contains(theme.Names, cfg.App.Theme) {
		return fmt.Errorf("unknown theme %q (want one of %s)", cfg.App.Theme, strings.Join(theme.Names, ", "))
	}
	if cfg.App.Units != "" && !slices.Contains(remote.Units, cfg.App.Units) {
		return fmt.Errorf("unknown units %q (want one of %s)", cfg.App.Units, strings.Join(remote.Units, ", "))
	}
	if cfg.App.Category != "" && !slices.Contains(remote.NewsCategories, cfg.App.Category) {
		return fmt.Errorf("unknown news category %q (want one of %s)", cfg.App.Category, strings.Join(remote.NewsCategories, ", "))
	}
	if len(cfg.App.Symbols) == 0 {
		return errors.New("symbols must name at least one stock")
	}
	return nil
}
