package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// Canned provider payloads served by Upstream.
const (
	HeadlinesPayload = `{"status":"ok","articles":[
		{"source":{"name":"Wire"},"title":"Clinic opens downtown","urlToImage":"http://img/1","publishedAt":"2024-05-01T10:00:00Z"},
		{"source":{"name":"Blog"},"title":"Imageless rumour","urlToImage":""}
	]}`
	SeriesPayload = `{
		"Meta Data": {"2. Symbol": "IBM"},
		"Time Series (Daily)": {
			"2024-05-01": {"1. open": "9", "2. high": "11", "3. low": "8", "4. close": "10", "5. volume": "100"},
			"2024-05-02": {"1. open": "10", "2. high": "12", "3. low": "9", "4. close": "11", "5. volume": "200"},
			"2024-05-03": {"1. open": "11", "2. high": "13", "3. low": "10", "4. close": "12", "5. volume": "300"}
		}
	}`
	SymbolSearchPayload = `{"bestMatches":[
		{"1. symbol":"MSFT","2. name":"Microsoft Corporation","4. region":"United States","9. matchScore":"1.0000"}
	]}`
	CurrentWeatherPayload = `{"name":"Toronto","main":{"temp":18.5,"feels_like":17,"humidity":40},"wind":{"speed":3},"weather":[{"description":"clear sky","icon":"01d"}]}`
	CountriesPayload      = `[{"id":1,"name":"Canada","iso2":"CA"},{"id":2,"name":"United States","iso2":"US"}]`
	StatesPayload         = `[{"id":5,"name":"Ontario","iso2":"ON"}]`
	CitiesPayload         = `[{"id":9,"name":"Toronto"},{"id":8,"name":"Ottawa"}]`
)

type failure struct {
	status int
	body   string
}

// Upstream is a fake of every provider the dashboard talks to, served from
// one httptest server. Paths do not overlap between providers so the same
// URL works as every base URL.
type Upstream struct {
	URL string

	mu       sync.Mutex
	hits     map[string]int
	queries  map[string][]string
	failures map[string]failure
}

// StartUpstream boots the fake and stops it when the test ends.
func StartUpstream(t *testing.T) *Upstream {
	t.Helper()
	u := &Upstream{
		hits:     map[string]int{},
		queries:  map[string][]string{},
		failures: map[string]failure{},
	}
	srv := httptest.NewServer(http.HandlerFunc(u.serve))
	t.Cleanup(srv.Close)
	u.URL = srv.URL
	return u
}

// Fail makes every later request to path answer with status and body.
func (u *Upstream) Fail(path string, status int, body string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.failures[path] = failure{status: status, body: body}
}

// Recover undoes Fail for path.
func (u *Upstream) Recover(path string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.failures, path)
}

// Hits returns how many requests reached path.
func (u *Upstream) Hits(path string) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.hits[path]
}

// Queries returns the raw query strings sent to path, oldest first.
func (u *Upstream) Queries(path string) []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.queries[path]...)
}

func (u *Upstream) serve(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	u.mu.Lock()
	u.hits[path]++
	u.queries[path] = append(u.queries[path], r.URL.RawQuery)
	fail, failing := u.failures[path]
	u.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if failing {
		w.WriteHeader(fail.status)
		fmt.Fprint(w, fail.body)
		return
	}
	switch {
	case path == "/v2/top-headlines":
		fmt.Fprint(w, HeadlinesPayload)
	case path == "/query" && r.URL.Query().Get("function") == "SYMBOL_SEARCH":
		fmt.Fprint(w, SymbolSearchPayload)
	case path == "/query":
		fmt.Fprint(w, SeriesPayload)
	case path == "/data/2.5/weather":
		fmt.Fprint(w, CurrentWeatherPayload)
	case path == "/data/2.5/forecast":
		fmt.Fprint(w, forecastPayload())
	case path == "/countries":
		fmt.Fprint(w, CountriesPayload)
	case strings.HasSuffix(path, "/cities"):
		fmt.Fprint(w, CitiesPayload)
	case strings.HasSuffix(path, "/states"):
		fmt.Fprint(w, StatesPayload)
	default:
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprintf(w, `{"message":"no fake for %s"}`, path)
	}
}

// forecastPayload covers six days of three-hourly entries from today.
func forecastPayload() string {
	start := time.Now().Truncate(24 * time.Hour).Add(12 * time.Hour)
	entries := make([]string, 0, 8*6)
	for i := 0; i < 8*6; i++ {
		dt := start.Add(time.Duration(i) * 3 * time.Hour).Unix()
		entries = append(entries, fmt.Sprintf(`{"dt":%d,"main":{"temp":10,"temp_max":%d,"temp_min":1},"weather":[{"description":"light rain","icon":"10d"}]}`, dt, 10+i%5))
	}
	return fmt.Sprintf(`{"list":[%s]}`, strings.Join(entries, ","))
}
