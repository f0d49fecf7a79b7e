package panel

import (
	"context"
	"fmt"
	"strings"

	"github.com/atomicstack/pulse-dash/internal/fetch"
	"github.com/atomicstack/pulse-dash/internal/format/table"
	"github.com/atomicstack/pulse-dash/internal/remote"
	"github.com/atomicstack/pulse-dash/internal/selector"
)

const WeatherID = "weather"

// GeoSource is the slice of remote.GeoClient the weather panel needs.
type GeoSource interface {
	Countries(ctx context.Context) ([]selector.Entity, error)
	States(ctx context.Context, country string) ([]selector.Entity, error)
	Cities(ctx context.Context, country, state string) ([]selector.Entity, error)
}

// ForecastSource is the slice of remote.WeatherClient the weather panel
// needs.
type ForecastSource interface {
	Report(ctx context.Context, location string) (remote.Report, error)
}

// NewWeather builds the weather tab: country, state and city stages backed
// by geo, with the composite "city,state,country" key driving the report.
func NewWeather(geo GeoSource, src ForecastSource, units string) Panel {
	p := newChained(WeatherID, "Weather", []selector.StageDef{
		{ID: "country", Title: "Country", Lookup: func(ctx context.Context, _ []selector.Entity) ([]selector.Entity, error) {
			return geo.Countries(ctx)
		}},
		{ID: "state", Title: "State", Lookup: func(ctx context.Context, parents []selector.Entity) ([]selector.Entity, error) {
			return geo.States(ctx, parents[0].Key)
		}},
		{ID: "city", Title: "City", Lookup: func(ctx context.Context, parents []selector.Entity) ([]selector.Entity, error) {
			return geo.Cities(ctx, parents[0].Key, parents[1].Key)
		}},
	}, fetch.Source[remote.Report](src.Report))
	p.keyOf = func(committed []selector.Entity) string {
		return LocationKey(committed[2].Key, committed[1].Key, committed[0].Key)
	}
	p.render = func(r remote.Report, width int) []string {
		return renderReport(r, units, width)
	}
	return p
}

// LocationKey builds the composite weather query key.
func LocationKey(city, state, country string) string {
	return strings.Join([]string{city, state, country}, ",")
}

func renderReport(r remote.Report, units string, width int) []string {
	if r.Units != "" {
		units = r.Units
	}
	deg, speed := remote.UnitSymbols(units)
	cur := r.Current
	name := cur.Name
	if name == "" {
		name = r.Location
	}
	lines := []string{name, ""}
	lines = append(lines, table.Format([][]string{
		{"conditions", cur.Description},
		{"temperature", fmt.Sprintf("%.1f%s", cur.Temp, deg)},
		{"feels like", fmt.Sprintf("%.1f%s", cur.FeelsLike, deg)},
		{"humidity", fmt.Sprintf("%.0f%%", cur.Humidity)},
		{"wind", fmt.Sprintf("%.1f %s", cur.WindSpeed, speed)},
	}, nil)...)
	if len(r.Forecast) > 0 {
		rows := [][]string{{"day", "high", "low", "humidity", "wind", ""}}
		for _, d := range r.Forecast {
			rows = append(rows, []string{
				d.Date.Format("Mon Jan 2"),
				fmt.Sprintf("%.1f%s", d.TempMax, deg),
				fmt.Sprintf("%.1f%s", d.TempMin, deg),
				fmt.Sprintf("%.0f%%", d.Humidity),
				fmt.Sprintf("%.1f %s", d.WindSpeed, speed),
				d.Description,
			})
		}
		lines = append(lines, "")
		lines = append(lines, table.Format(rows, []table.Alignment{
			table.AlignLeft, table.AlignRight, table.AlignRight, table.AlignRight, table.AlignRight, table.AlignLeft,
		})...)
	}
	return table.Fit(lines, width)
}
