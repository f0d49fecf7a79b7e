package remote

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/montanaflynn/stats"
	"github.com/tidwall/gjson"
)

const defaultStocksBase = "https://www.alphavantage.co"

// Ranges lists the supported series ranges in display order.
var Ranges = []string{"1d", "1w", "1m", "1y"}

// Point is one bar of a price series.
type Point struct {
	Time   string
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Series is a price history for one symbol over one range, oldest first.
type Series struct {
	Symbol string
	Range  string
	Points []Point
}

// SymbolMatch is one SYMBOL_SEARCH hit.
type SymbolMatch struct {
	Symbol string
	Name   string
	Region string
	Score  float64
}

// StocksClient talks to Alpha Vantage.
type StocksClient struct {
	c *client
}

func NewStocksClient(opts Options) *StocksClient {
	return &StocksClient{c: newClient(opts, defaultStocksBase)}
}

// seriesFunction maps a range onto the Alpha Vantage function and interval.
func seriesFunction(rng string) (function, interval string, err error) {
	switch rng {
	case "1d":
		return "TIME_SERIES_INTRADAY", "5min", nil
	case "1w":
		return "TIME_SERIES_DAILY", "", nil
	case "1m":
		return "TIME_SERIES_WEEKLY", "", nil
	case "1y":
		return "TIME_SERIES_MONTHLY", "", nil
	default:
		return "", "", fmt.Errorf("unknown range %q", rng)
	}
}

// Series fetches the price history of symbol for rng.
func (s *StocksClient) Series(ctx context.Context, symbol, rng string) (Series, error) {
	const op = "stock series"
	function, interval, err := seriesFunction(rng)
	if err != nil {
		return Series{}, err
	}
	q := url.Values{}
	q.Set("function", function)
	q.Set("symbol", symbol)
	if interval != "" {
		q.Set("interval", interval)
	}
	if s.c.apiKey != "" {
		q.Set("apikey", s.c.apiKey)
	}
	body, err := s.c.get(ctx, op, "/query", q, nil)
	if err != nil {
		return Series{}, err
	}
	return parseSeries(op, symbol, rng, body)
}

func parseSeries(op, symbol, rng string, body []byte) (Series, error) {
	if !gjson.ValidBytes(body) {
		return Series{}, &UpstreamStatusError{Op: op, Message: fmt.Sprintf("%s returned malformed JSON", op)}
	}
	if err := payloadError(op, body); err != nil {
		return Series{}, err
	}
	var bars gjson.Result
	gjson.ParseBytes(body).ForEach(func(key, value gjson.Result) bool {
		if strings.Contains(key.String(), "Time Series") && value.IsObject() {
			bars = value
			return false
		}
		return true
	})
	series := Series{Symbol: symbol, Range: rng}
	bars.ForEach(func(key, value gjson.Result) bool {
		f := fields(value)
		series.Points = append(series.Points, Point{
			Time:   key.String(),
			Open:   f["open"].Float(),
			High:   f["high"].Float(),
			Low:    f["low"].Float(),
			Close:  f["close"].Float(),
			Volume: f["volume"].Float(),
		})
		return true
	})
	if len(series.Points) == 0 {
		return Series{}, &EmptyResultError{Op: op, Query: symbol}
	}
	sort.Slice(series.Points, func(i, j int) bool {
		return series.Points[i].Time < series.Points[j].Time
	})
	return series, nil
}

// Search resolves free text into ticker symbols, best match first.
func (s *StocksClient) Search(ctx context.Context, keywords string) ([]SymbolMatch, error) {
	const op = "symbol search"
	keywords = strings.TrimSpace(keywords)
	if keywords == "" {
		return nil, &EmptyResultError{Op: op}
	}
	q := url.Values{}
	q.Set("function", "SYMBOL_SEARCH")
	q.Set("keywords", keywords)
	if s.c.apiKey != "" {
		q.Set("apikey", s.c.apiKey)
	}
	body, err := s.c.get(ctx, op, "/query", q, nil)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(body) {
		return nil, &UpstreamStatusError{Op: op, Message: fmt.Sprintf("%s returned malformed JSON", op)}
	}
	if err := payloadError(op, body); err != nil {
		return nil, err
	}
	var matches []SymbolMatch
	gjson.GetBytes(body, "bestMatches").ForEach(func(_, value gjson.Result) bool {
		f := fields(value)
		sym := strings.TrimSpace(f["symbol"].String())
		if sym == "" {
			return true
		}
		matches = append(matches, SymbolMatch{
			Symbol: sym,
			Name:   f["name"].String(),
			Region: f["region"].String(),
			Score:  f["matchScore"].Float(),
		})
		return true
	})
	if len(matches) == 0 {
		return nil, &EmptyResultError{Op: op, Query: keywords}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	return matches, nil
}

// payloadError reports the in-band failures Alpha Vantage returns with a
// 200 status.
func payloadError(op string, body []byte) error {
	for _, key := range []string{"Error Message", "Note", "Information"} {
		if v := gjson.GetBytes(body, key); v.Exists() {
			return &UpstreamStatusError{Op: op, Message: strings.TrimSpace(v.String())}
		}
	}
	return nil
}

// fields strips the "N. " ordinal prefixes Alpha Vantage puts on keys.
func fields(obj gjson.Result) map[string]gjson.Result {
	out := make(map[string]gjson.Result)
	obj.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if i := strings.Index(name, ". "); i >= 0 {
			name = name[i+2:]
		}
		out[name] = value
		return true
	})
	return out
}

// Summary holds the key metrics of a series plus summary statistics over its
// closing prices.
type Summary struct {
	Symbol    string
	Range     string
	Latest    Point
	Bars      int
	Mean      float64
	Min       float64
	Max       float64
	StdDev    float64
	ChangePct float64
	Volume    float64
}

// Summarize derives the Summary of series.
func Summarize(series Series) (Summary, error) {
	if len(series.Points) == 0 {
		return Summary{}, &EmptyResultError{Op: "stock series", Query: series.Symbol}
	}
	closes := make(stats.Float64Data, len(series.Points))
	volumes := make(stats.Float64Data, len(series.Points))
	for i, p := range series.Points {
		closes[i] = p.Close
		volumes[i] = p.Volume
	}
	sum := Summary{
		Symbol: series.Symbol,
		Range:  series.Range,
		Latest: series.Points[len(series.Points)-1],
		Bars:   len(series.Points),
	}
	var err error
	if sum.Mean, err = closes.Mean(); err != nil {
		return Summary{}, fmt.Errorf("summarize %s: %w", series.Symbol, err)
	}
	if sum.Min, err = closes.Min(); err != nil {
		return Summary{}, fmt.Errorf("summarize %s: %w", series.Symbol, err)
	}
	if sum.Max, err = closes.Max(); err != nil {
		return Summary{}, fmt.Errorf("summarize %s: %w", series.Symbol, err)
	}
	if sum.StdDev, err = closes.StandardDeviation(); err != nil {
		return Summary{}, fmt.Errorf("summarize %s: %w", series.Symbol, err)
	}
	if sum.Volume, err = volumes.Sum(); err != nil {
		return Summary{}, fmt.Errorf("summarize %s: %w", series.Symbol, err)
	}
	if first := closes[0]; first != 0 {
		sum.ChangePct = (sum.Latest.Close - first) / first * 100
	}
	return sum, nil
}
