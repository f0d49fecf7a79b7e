package remote

import (
	"context"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	defaultWeatherBase = "https://api.openweathermap.org"
	forecastDays       = 5
)

// Units lists the unit systems OpenWeatherMap understands.
var Units = []string{"metric", "imperial", "standard"}

// Conditions is the current weather at a location.
type Conditions struct {
	Name        string
	Temp        float64
	FeelsLike   float64
	Humidity    float64
	WindSpeed   float64
	Description string
	Icon        string
}

// DayForecast summarises the first forecast entry of one calendar day.
type DayForecast struct {
	Date        time.Time
	TempMax     float64
	TempMin     float64
	Humidity    float64
	WindSpeed   float64
	Description string
	Icon        string
}

// Report pairs the current conditions with the upcoming days.
type Report struct {
	Location string
	Units    string
	Current  Conditions
	Forecast []DayForecast
}

type weatherEntry struct {
	Name string `json:"name"`
	Dt   int64  `json:"dt"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		TempMin   float64 `json:"temp_min"`
		TempMax   float64 `json:"temp_max"`
		Humidity  float64 `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
}

func (e weatherEntry) summary() (desc, icon string) {
	if len(e.Weather) == 0 {
		return "", ""
	}
	return e.Weather[0].Description, e.Weather[0].Icon
}

type forecastPayload struct {
	List []weatherEntry `json:"list"`
}

// WeatherClient talks to OpenWeatherMap.
type WeatherClient struct {
	c     *client
	units string
	loc   *time.Location
}

func NewWeatherClient(opts Options, units string) *WeatherClient {
	units = strings.TrimSpace(units)
	if units == "" {
		units = "metric"
	}
	return &WeatherClient{c: newClient(opts, defaultWeatherBase), units: units, loc: time.Local}
}

// Report fetches current conditions and the daily forecast for location
// concurrently. location is an OpenWeatherMap "q" value such as
// "Paris,IDF,FR".
func (w *WeatherClient) Report(ctx context.Context, location string) (Report, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return Report{}, &EmptyResultError{Op: "weather report"}
	}
	q := url.Values{}
	q.Set("q", location)
	q.Set("units", w.units)
	if w.c.apiKey != "" {
		q.Set("appid", w.c.apiKey)
	}

	var current weatherEntry
	var forecast forecastPayload
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return w.c.getJSON(gctx, "current weather", "/data/2.5/weather", q, nil, &current)
	})
	g.Go(func() error {
		return w.c.getJSON(gctx, "weather forecast", "/data/2.5/forecast", q, nil, &forecast)
	})
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	desc, icon := current.summary()
	report := Report{
		Location: location,
		Units:    w.units,
		Current: Conditions{
			Name:        current.Name,
			Temp:        current.Main.Temp,
			FeelsLike:   current.Main.FeelsLike,
			Humidity:    current.Main.Humidity,
			WindSpeed:   current.Wind.Speed,
			Description: desc,
			Icon:        icon,
		},
		Forecast: dailyForecast(forecast.List, w.loc),
	}
	if report.Current.Name == "" && len(report.Forecast) == 0 {
		return Report{}, &EmptyResultError{Op: "weather report", Query: location}
	}
	return report, nil
}

// dailyForecast keeps the first entry of each calendar day, up to
// forecastDays days.
func dailyForecast(entries []weatherEntry, loc *time.Location) []DayForecast {
	if loc == nil {
		loc = time.UTC
	}
	out := make([]DayForecast, 0, forecastDays)
	lastDay := ""
	for _, e := range entries {
		if len(out) == forecastDays {
			break
		}
		at := time.Unix(e.Dt, 0).In(loc)
		day := at.Format("2006-01-02")
		if day == lastDay {
			continue
		}
		lastDay = day
		desc, icon := e.summary()
		out = append(out, DayForecast{
			Date:        at,
			TempMax:     e.Main.TempMax,
			TempMin:     e.Main.TempMin,
			Humidity:    e.Main.Humidity,
			WindSpeed:   e.Wind.Speed,
			Description: desc,
			Icon:        icon,
		})
	}
	return out
}

// UnitSymbols returns the temperature and wind speed suffixes for units.
func UnitSymbols(units string) (temp, speed string) {
	switch units {
	case "imperial":
		return "°F", "mph"
	case "standard":
		return "K", "m/s"
	default:
		return "°C", "m/s"
	}
}
