package remote

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportFetchesCurrentAndDailyForecast(t *testing.T) {
	day := int64(1714557600) // 2024-05-01T10:00:00Z
	base := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Paris,IDF,FR", r.URL.Query().Get("q"))
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		assert.Equal(t, "w", r.URL.Query().Get("appid"))
		switch r.URL.Path {
		case "/data/2.5/weather":
			fmt.Fprint(w, `{"name":"Paris","main":{"temp":18.5,"humidity":40},"wind":{"speed":3},"weather":[{"description":"clear sky","icon":"01d"}]}`)
		case "/data/2.5/forecast":
			var entries []string
			for i := 0; i < 8*6; i++ {
				entries = append(entries, fmt.Sprintf(`{"dt":%d,"main":{"temp_max":%d,"temp_min":1},"weather":[{"description":"d%d"}]}`, day+int64(i)*3*3600, i, i))
			}
			fmt.Fprintf(w, `{"list":[%s]}`, strings.Join(entries, ","))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
	client := NewWeatherClient(Options{BaseURL: base, APIKey: "w"}, "")
	client.loc = time.UTC

	report, err := client.Report(context.Background(), "Paris,IDF,FR")
	require.NoError(t, err)
	assert.Equal(t, "Paris", report.Current.Name)
	assert.Equal(t, "clear sky", report.Current.Description)
	require.Len(t, report.Forecast, forecastDays)
	for i := 1; i < len(report.Forecast); i++ {
		assert.NotEqual(t, report.Forecast[i-1].Date.YearDay(), report.Forecast[i].Date.YearDay())
	}
	assert.Equal(t, "d0", report.Forecast[0].Description)
}

func TestReportFailsWhenEitherRequestFails(t *testing.T) {
	base := serve(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/data/2.5/forecast" {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"cod":"404","message":"city not found"}`)
			return
		}
		fmt.Fprint(w, `{"name":"X"}`)
	})
	_, err := NewWeatherClient(Options{BaseURL: base}, "metric").Report(context.Background(), "Nowhere")
	assert.Equal(t, KindUpstream, KindOf(err))
	assert.Equal(t, "city not found", err.Error())
}

func TestReportBlankLocationIsEmpty(t *testing.T) {
	_, err := NewWeatherClient(Options{BaseURL: "http://unused"}, "metric").Report(context.Background(), " ")
	assert.Equal(t, KindEmpty, KindOf(err))
}

func TestUnitSymbols(t *testing.T) {
	temp, speed := UnitSymbols("imperial")
	assert.Equal(t, "°F", temp)
	assert.Equal(t, "mph", speed)
	temp, _ = UnitSymbols("")
	assert.Equal(t, "°C", temp)
}
