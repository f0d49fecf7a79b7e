package remote

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/atomicstack/pulse-dash/internal/selector"
)

const defaultGeoBase = "https://api.countrystatecity.in/v1"

type geoRecord struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	ISO2 string `json:"iso2"`
}

// GeoClient lists countries, states and cities from CountryStateCity.
type GeoClient struct {
	c *client
}

func NewGeoClient(opts Options) *GeoClient {
	return &GeoClient{c: newClient(opts, defaultGeoBase)}
}

func (g *GeoClient) header() http.Header {
	h := http.Header{}
	if g.c.apiKey != "" {
		h.Set("X-CSCAPI-KEY", g.c.apiKey)
	}
	return h
}

// Countries returns every country keyed by ISO2 code.
func (g *GeoClient) Countries(ctx context.Context) ([]selector.Entity, error) {
	return g.list(ctx, "countries", "/countries", true)
}

// States returns the states of country keyed by ISO2 code.
func (g *GeoClient) States(ctx context.Context, country string) ([]selector.Entity, error) {
	path := "/countries/" + url.PathEscape(country) + "/states"
	return g.list(ctx, "states", path, true)
}

// Cities returns the cities of state within country keyed by name.
func (g *GeoClient) Cities(ctx context.Context, country, state string) ([]selector.Entity, error) {
	path := "/countries/" + url.PathEscape(country) + "/states/" + url.PathEscape(state) + "/cities"
	return g.list(ctx, "cities", path, false)
}

func (g *GeoClient) list(ctx context.Context, op, path string, byISO bool) ([]selector.Entity, error) {
	var records []geoRecord
	if err := g.c.getJSON(ctx, op, path, nil, g.header(), &records); err != nil {
		return nil, err
	}
	out := make([]selector.Entity, 0, len(records))
	for _, r := range records {
		name := strings.TrimSpace(r.Name)
		key := name
		if byISO {
			key = strings.TrimSpace(r.ISO2)
		}
		if key == "" || name == "" {
			continue
		}
		out = append(out, selector.Entity{Key: key, Label: name})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Label) < strings.ToLower(out[j].Label)
	})
	return out, nil
}
