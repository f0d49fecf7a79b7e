package panel

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/atomicstack/pulse-dash/internal/fetch"
	"github.com/atomicstack/pulse-dash/internal/remote"
	"github.com/atomicstack/pulse-dash/internal/selector"
)

// drain runs jobs and their follow-ups to completion on the test goroutine.
func drain(t *testing.T, jobs []Job) []error {
	t.Helper()
	var errs []error
	for len(jobs) > 0 {
		job := jobs[0]
		jobs = jobs[1:]
		next, err := job.Run(context.Background())()
		if err != nil {
			errs = append(errs, err)
		}
		jobs = append(jobs, next...)
	}
	return errs
}

func only(t *testing.T, jobs []Job, kind JobKind) Job {
	t.Helper()
	if len(jobs) != 1 || jobs[0].Kind != kind {
		t.Fatalf("expected a single %s job, got %+v", kind, jobs)
	}
	return jobs[0]
}

type fakeNews struct {
	err   error
	calls []string
}

func (f *fakeNews) TopHeadlines(_ context.Context, category string) ([]remote.Article, error) {
	f.calls = append(f.calls, category)
	if f.err != nil {
		return nil, f.err
	}
	return []remote.Article{
		{Title: category + " lead", Source: "Wire", ImageURL: "http://img", PublishedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
		{Title: category + " text only"},
	}, nil
}

func TestNewsCommitsDefaultCategoryAndFetches(t *testing.T) {
	src := &fakeNews{}
	p := NewNews(src, "")
	if errs := drain(t, p.Start()); len(errs) != 0 {
		t.Fatalf("unexpected errors %v", errs)
	}
	if key, ok := p.QueryKey(); !ok || key != "health" {
		t.Fatalf("expected health key, got %q %v", key, ok)
	}
	slot := p.Slot()
	if slot.Status != fetch.Ready || slot.Key != "health" {
		t.Fatalf("unexpected slot %+v", slot)
	}
	body := strings.Join(p.Body(0), "\n")
	if !strings.Contains(body, "health lead") || strings.Contains(body, "text only") {
		t.Fatalf("expected image-bearing articles only, got:\n%s", body)
	}
	if !strings.Contains(body, "Wire on May 1, 2024") {
		t.Fatalf("expected byline, got:\n%s", body)
	}
	if len(p.Chain().Stage(0).Candidates) != len(remote.NewsCategories) {
		t.Fatalf("expected every category listed")
	}
}

func TestNewsLatestCategoryWins(t *testing.T) {
	p := NewNews(&fakeNews{}, "health")
	lookup := only(t, p.Start(), KindLookup)
	healthFetch := only(t, mustOutcome(t, lookup), KindFetch)

	sports := selector.Entity{Key: "sports", Label: "Sports"}
	sportsFetch := only(t, p.Commit(0, sports), KindFetch)

	sportsOutcome := sportsFetch.Run(context.Background())
	healthOutcome := healthFetch.Run(context.Background())
	sportsOutcome()
	healthOutcome()

	if slot := p.Slot(); slot.Key != "sports" || slot.Status != fetch.Ready {
		t.Fatalf("expected sports to win, got %+v", slot)
	}
	if body := strings.Join(p.Body(0), "\n"); strings.Contains(body, "health") {
		t.Fatalf("stale health headlines displayed:\n%s", body)
	}
}

func mustOutcome(t *testing.T, job Job) []Job {
	t.Helper()
	next, err := job.Run(context.Background())()
	if err != nil {
		t.Fatalf("%s job failed: %v", job.Kind, err)
	}
	return next
}

func TestNewsUpstreamFailure(t *testing.T) {
	p := NewNews(&fakeNews{err: &remote.UpstreamStatusError{Message: "rate limited"}}, "")
	drain(t, p.Start())
	slot := p.Slot()
	if slot.Status != fetch.Failed || slot.Message != "rate limited" || slot.ErrKind != remote.KindUpstream {
		t.Fatalf("unexpected slot %+v", slot)
	}
	if p.Body(80) != nil {
		t.Fatalf("failed slot must not render a body")
	}
	if len(p.Retry(0)) != 1 {
		t.Fatalf("expected retry to refetch the failed key")
	}
}

func TestNewsUnknownDefaultStaysIdle(t *testing.T) {
	p := NewNews(&fakeNews{}, "weather")
	drain(t, p.Start())
	if _, ok := p.QueryKey(); ok {
		t.Fatalf("unknown default must not commit")
	}
	if p.Slot().Status != fetch.Idle || p.Hint() == "" {
		t.Fatalf("expected idle slot with hint, got %+v", p.Slot())
	}
}

type fakeQuotes struct {
	searchErr error
}

func (fakeQuotes) Series(_ context.Context, symbol, rng string) (remote.Series, error) {
	return remote.Series{Symbol: symbol, Range: rng, Points: []remote.Point{
		{Time: "2024-05-01", Close: 10, Volume: 1},
		{Time: "2024-05-02", Close: 11, Volume: 2},
	}}, nil
}

func (f fakeQuotes) Search(_ context.Context, keywords string) ([]remote.SymbolMatch, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return []remote.SymbolMatch{{Symbol: "tsla", Name: "Tesla"}}, nil
}

func TestStocksRangeDefaultsAndCascade(t *testing.T) {
	p := NewStocks(fakeQuotes{}, []string{"aapl", "MSFT", " aapl "})
	drain(t, p.Start())
	if got := selector.Keys(p.Chain().Stage(0).Candidates); strings.Join(got, ",") != "AAPL,MSFT" {
		t.Fatalf("unexpected watchlist %v", got)
	}

	drain(t, p.Commit(0, selector.Entity{Key: "AAPL"}))
	if key, _ := p.QueryKey(); key != "AAPL@1d" {
		t.Fatalf("expected default range, got %q", key)
	}
	if p.Slot().Status != fetch.Ready {
		t.Fatalf("expected ready quote, got %+v", p.Slot())
	}
	body := strings.Join(p.Body(0), "\n")
	if !strings.Contains(body, "+10.00%") || !strings.Contains(body, "AAPL") {
		t.Fatalf("unexpected quote body:\n%s", body)
	}

	drain(t, p.Commit(1, selector.Entity{Key: "1w"}))
	if key, _ := p.QueryKey(); key != "AAPL@1w" {
		t.Fatalf("expected weekly key, got %q", key)
	}

	jobs := p.Commit(0, selector.Entity{Key: "MSFT"})
	if p.Slot().Status != fetch.Idle {
		t.Fatalf("incomplete chain must idle the slot, got %+v", p.Slot())
	}
	if _, ok := p.Chain().Committed(1); ok {
		t.Fatalf("range must be cleared by a new symbol")
	}
	drain(t, jobs)
	if key, _ := p.QueryKey(); key != "MSFT@1d" {
		t.Fatalf("expected MSFT@1d, got %q", key)
	}
}

func TestStocksSearchOffersMatches(t *testing.T) {
	p := NewStocks(fakeQuotes{}, []string{"AAPL"})
	drain(t, p.Start())
	if jobs := p.Search(1, "tesla"); jobs != nil {
		t.Fatalf("search only applies to the symbol stage")
	}
	p.Chain().SetSearchText(0, " tesla ")
	job := only(t, p.Search(0, " tesla "), KindSearch)
	drain(t, []Job{job})
	if _, ok := p.Chain().Committed(0); ok {
		t.Fatalf("search must leave the pick to the user")
	}
	st := p.Chain().Stage(0)
	if st.SearchText != "" || len(st.Candidates) != 1 {
		t.Fatalf("expected one offered match, got %+v", st)
	}
	if e := st.Candidates[0]; e.Key != "TSLA" || e.Label != "TSLA  Tesla" {
		t.Fatalf("unexpected match entity %#v", e)
	}

	drain(t, p.Commit(0, st.Candidates[0]))
	if key, _ := p.QueryKey(); key != "TSLA@1d" {
		t.Fatalf("expected picked symbol committed, got %q", key)
	}
}

func TestStocksSearchSupersededByManualCommit(t *testing.T) {
	p := NewStocks(fakeQuotes{}, []string{"AAPL"})
	drain(t, p.Start())
	search := only(t, p.Search(0, "tesla"), KindSearch)

	drain(t, p.Commit(0, selector.Entity{Key: "AAPL"}))
	if key, _ := p.QueryKey(); key != "AAPL@1d" {
		t.Fatalf("expected AAPL@1d after manual commit, got %q", key)
	}
	drain(t, []Job{search})
	if key, _ := p.QueryKey(); key != "AAPL@1d" {
		t.Fatalf("late search result replaced the manual pick: %q", key)
	}
	if got := selector.Keys(p.Chain().Stage(0).Candidates); strings.Join(got, ",") != "AAPL" {
		t.Fatalf("late search result replaced the watchlist: %v", got)
	}
}

func TestStocksSearchSupersededByReset(t *testing.T) {
	p := NewStocks(fakeQuotes{}, []string{"AAPL"})
	drain(t, p.Start())
	search := only(t, p.Search(0, "tesla"), KindSearch)

	drain(t, p.Reset(0))
	drain(t, []Job{search})
	if _, ok := p.Chain().Committed(0); ok {
		t.Fatalf("search issued before the reset must not commit")
	}
	if got := selector.Keys(p.Chain().Stage(0).Candidates); strings.Join(got, ",") != "AAPL" {
		t.Fatalf("expected the watchlist after reset, got %v", got)
	}
}

func TestStocksSearchSupersedesWatchlistLookup(t *testing.T) {
	p := NewStocks(fakeQuotes{}, []string{"AAPL"})
	lookup := only(t, p.Start(), KindLookup)
	drain(t, p.Search(0, "tesla"))
	drain(t, []Job{lookup})
	if got := selector.Keys(p.Chain().Stage(0).Candidates); strings.Join(got, ",") != "TSLA" {
		t.Fatalf("late watchlist lookup replaced the matches: %v", got)
	}
}

func TestStocksSearchFailureIsReported(t *testing.T) {
	p := NewStocks(fakeQuotes{searchErr: &remote.EmptyResultError{Op: "symbol search", Query: "zz"}}, nil)
	drain(t, p.Start())
	errs := drain(t, p.Search(0, "zz"))
	if len(errs) != 1 || remote.KindOf(errs[0]) != remote.KindEmpty {
		t.Fatalf("expected empty-result error, got %v", errs)
	}
	if _, ok := p.Chain().Committed(0); ok {
		t.Fatalf("failed search must not commit")
	}
}

func TestQuoteKeyRoundTrip(t *testing.T) {
	symbol, rng, ok := SplitQuoteKey(QuoteKey("IBM", "1y"))
	if !ok || symbol != "IBM" || rng != "1y" {
		t.Fatalf("unexpected split %q %q %v", symbol, rng, ok)
	}
	if _, _, ok := SplitQuoteKey("IBM"); ok {
		t.Fatalf("expected malformed key to fail")
	}
}

type fakeGeo struct {
	failStates bool
}

func (fakeGeo) Countries(context.Context) ([]selector.Entity, error) {
	return []selector.Entity{{Key: "US", Label: "United States"}, {Key: "FR", Label: "France"}}, nil
}

func (f fakeGeo) States(_ context.Context, country string) ([]selector.Entity, error) {
	if f.failStates {
		return nil, &remote.NetworkError{Op: "states", Err: errors.New("timeout")}
	}
	return []selector.Entity{{Key: "CA", Label: "California"}}, nil
}

func (fakeGeo) Cities(_ context.Context, country, state string) ([]selector.Entity, error) {
	return []selector.Entity{{Key: "San Francisco", Label: "San Francisco"}}, nil
}

type fakeForecast struct {
	locations []string
}

func (f *fakeForecast) Report(_ context.Context, location string) (remote.Report, error) {
	f.locations = append(f.locations, location)
	return remote.Report{
		Location: location,
		Units:    "metric",
		Current:  remote.Conditions{Name: "San Francisco", Temp: 17, Description: "fog"},
		Forecast: []remote.DayForecast{{Date: time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC), TempMax: 19, TempMin: 11, Description: "sun"}},
	}, nil
}

func TestWeatherCascade(t *testing.T) {
	forecast := &fakeForecast{}
	p := NewWeather(fakeGeo{}, forecast, "metric")
	drain(t, p.Start())
	drain(t, p.Commit(0, selector.Entity{Key: "US", Label: "United States"}))
	drain(t, p.Commit(1, selector.Entity{Key: "CA", Label: "California"}))
	drain(t, p.Commit(2, selector.Entity{Key: "San Francisco", Label: "San Francisco"}))

	if key, _ := p.QueryKey(); key != "San Francisco,CA,US" {
		t.Fatalf("unexpected location key %q", key)
	}
	if len(forecast.locations) != 1 || forecast.locations[0] != "San Francisco,CA,US" {
		t.Fatalf("unexpected report calls %v", forecast.locations)
	}
	body := strings.Join(p.Body(0), "\n")
	if !strings.Contains(body, "17.0°C") || !strings.Contains(body, "Thu May 2") {
		t.Fatalf("unexpected weather body:\n%s", body)
	}

	drain(t, p.Commit(0, selector.Entity{Key: "FR", Label: "France"}))
	for i := 1; i < p.Chain().Len(); i++ {
		if _, ok := p.Chain().Committed(i); ok {
			t.Fatalf("stage %d survived a country change", i)
		}
	}
	if p.Slot().Status != fetch.Idle {
		t.Fatalf("expected idle slot after country change, got %+v", p.Slot())
	}
	if p.Hint() != "Select a state to continue." {
		t.Fatalf("unexpected hint %q", p.Hint())
	}
}

func TestWeatherLookupFailureAndRetry(t *testing.T) {
	geo := fakeGeo{failStates: true}
	p := NewWeather(&geo, &fakeForecast{}, "metric")
	drain(t, p.Start())
	drain(t, p.Commit(0, selector.Entity{Key: "US"}))
	st := p.Chain().Stage(1)
	if remote.KindOf(st.Err) != remote.KindNetwork || len(st.Candidates) != 0 {
		t.Fatalf("expected network failure on states, got %+v", st)
	}
	geo.failStates = false
	drain(t, p.Retry(1))
	if st.Err != nil || len(st.Candidates) != 1 {
		t.Fatalf("expected retry to load states, got %+v", st)
	}
}

func TestResetReloadsStage(t *testing.T) {
	p := NewWeather(fakeGeo{}, &fakeForecast{}, "metric")
	drain(t, p.Start())
	drain(t, p.Commit(0, selector.Entity{Key: "US"}))
	drain(t, p.Commit(1, selector.Entity{Key: "CA"}))

	jobs := p.Reset(1)
	if _, ok := p.Chain().Committed(1); ok {
		t.Fatalf("reset must clear stage 1")
	}
	drain(t, jobs)
	if len(p.Chain().Stage(1).Candidates) != 1 {
		t.Fatalf("expected states reloaded after reset")
	}
	if e, ok := p.Chain().Committed(0); !ok || e.Key != "US" {
		t.Fatalf("reset(1) must keep the country")
	}
}

func TestRegistry(t *testing.T) {
	news := NewNews(&fakeNews{}, "")
	stocks := NewStocks(fakeQuotes{}, nil)
	r := NewRegistry(news, stocks, NewNews(&fakeNews{}, ""), nil)
	if r.Len() != 2 {
		t.Fatalf("expected duplicates and nils dropped, got %d", r.Len())
	}
	if r.Index(StocksID) != 1 || r.At(0) != news {
		t.Fatalf("unexpected order")
	}
	if _, ok := r.Get(WeatherID); ok {
		t.Fatalf("weather was never registered")
	}
	if r.At(5) != nil || r.Index("nope") != -1 {
		t.Fatalf("expected out of range lookups to miss")
	}
}
