package panel

import (
	"context"
	"fmt"
	"strings"

	"github.com/atomicstack/pulse-dash/internal/fetch"
	"github.com/atomicstack/pulse-dash/internal/format/table"
	"github.com/atomicstack/pulse-dash/internal/logging/events"
	"github.com/atomicstack/pulse-dash/internal/remote"
	"github.com/atomicstack/pulse-dash/internal/selector"
)

const (
	StocksID     = "stocks"
	DefaultRange = "1d"
	recentBars   = 8
)

var rangeLabels = map[string]string{
	"1d": "1 day (5 min bars)",
	"1w": "1 week (daily bars)",
	"1m": "1 month (weekly bars)",
	"1y": "1 year (monthly bars)",
}

// QuoteSource is the slice of remote.StocksClient the stocks panel needs.
type QuoteSource interface {
	Series(ctx context.Context, symbol, rng string) (remote.Series, error)
	Search(ctx context.Context, keywords string) ([]remote.SymbolMatch, error)
}

// Quote is the Ready payload of the stocks panel.
type Quote struct {
	Series  remote.Series
	Summary remote.Summary
}

type stocks struct {
	*chained[Quote]
	search *fetch.Fetcher[[]remote.SymbolMatch]
}

// NewStocks builds the stocks tab: a watchlist symbol stage followed by a
// range stage. The query key is SYMBOL@range.
func NewStocks(src QuoteSource, watchlist []string) Panel {
	symbols := make([]selector.Entity, 0, len(watchlist))
	seen := map[string]bool{}
	for _, s := range watchlist {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		symbols = append(symbols, selector.Entity{Key: s})
	}
	listSymbols := func(context.Context, []selector.Entity) ([]selector.Entity, error) {
		return symbols, nil
	}
	listRanges := func(context.Context, []selector.Entity) ([]selector.Entity, error) {
		out := make([]selector.Entity, 0, len(remote.Ranges))
		for _, r := range remote.Ranges {
			out = append(out, selector.Entity{Key: r, Label: rangeLabels[r]})
		}
		return out, nil
	}
	series := func(ctx context.Context, key string) (remote.Series, error) {
		symbol, rng, ok := SplitQuoteKey(key)
		if !ok {
			return remote.Series{}, fmt.Errorf("malformed quote key %q", key)
		}
		return src.Series(ctx, symbol, rng)
	}
	source := fetch.Transform(fetch.Source[remote.Series](series), func(_ string, s remote.Series) (Quote, error) {
		sum, err := remote.Summarize(s)
		if err != nil {
			return Quote{}, err
		}
		return Quote{Series: s, Summary: sum}, nil
	})

	p := newChained(StocksID, "Stocks", []selector.StageDef{
		{ID: "symbol", Title: "Symbol", Lookup: listSymbols},
		{ID: "range", Title: "Range", Lookup: listRanges},
	}, source)
	p.keyOf = func(committed []selector.Entity) string {
		return QuoteKey(committed[0].Key, committed[1].Key)
	}
	p.render = renderQuote
	p.defaults[1] = DefaultRange
	return &stocks{
		chained: p,
		search:  fetch.New(fetch.Source[[]remote.SymbolMatch](src.Search)),
	}
}

// QuoteKey joins a symbol and range into a query key.
func QuoteKey(symbol, rng string) string {
	return symbol + "@" + rng
}

// SplitQuoteKey reverses QuoteKey.
func SplitQuoteKey(key string) (symbol, rng string, ok bool) {
	symbol, rng, ok = strings.Cut(key, "@")
	if !ok || symbol == "" || rng == "" {
		return "", "", false
	}
	return symbol, rng, true
}

// Search looks up text as a ticker and offers the matches, best first, as
// the symbol stage's candidates. A manual commit or reset of the symbol
// stage supersedes a search still in flight.
func (s *stocks) Search(stage int, text string) []Job {
	text = strings.TrimSpace(text)
	if stage != 0 || text == "" {
		return nil
	}
	req, ok := s.search.OnQueryKeyChanged(text)
	if !ok {
		if slot := s.search.Slot(); slot.Status == fetch.Ready {
			s.offer(slot.Data)
		}
		return nil
	}
	events.Fetch.Issue(s.id+".search", req.Key, req.Seq)
	return []Job{{
		Panel: s.id,
		Kind:  KindSearch,
		Label: req.Key,
		Run: func(ctx context.Context) Outcome {
			res := s.search.Load(ctx, req)
			return func() ([]Job, error) {
				if err := s.search.Apply(res); err != nil {
					events.Fetch.Stale(s.id+".search", req.Key, req.Seq)
					return nil, nil
				}
				slot := s.search.Slot()
				if slot.Status == fetch.Failed {
					events.Fetch.Failed(s.id+".search", req.Key, req.Seq, slot.ErrKind.String(), slot.Err)
					return nil, slot.Err
				}
				events.Fetch.Ready(s.id+".search", req.Key, req.Seq)
				s.offer(slot.Data)
				return nil, nil
			}
		},
	}}
}

func (s *stocks) Commit(stage int, e selector.Entity) []Job {
	if stage == 0 {
		s.search.Reset()
	}
	return s.chained.Commit(stage, e)
}

// Reset at the symbol stage also drops any search results and brings back
// the watchlist.
func (s *stocks) Reset(from int) []Job {
	if from <= 0 {
		s.search.Reset()
	}
	return s.chained.Reset(from)
}

func (s *stocks) offer(matches []remote.SymbolMatch) {
	candidates := make([]selector.Entity, 0, len(matches))
	for _, m := range matches {
		candidates = append(candidates, matchEntity(m))
	}
	s.chain.Offer(0, candidates)
}

func matchEntity(m remote.SymbolMatch) selector.Entity {
	symbol := strings.ToUpper(m.Symbol)
	label := symbol
	if m.Name != "" {
		label = fmt.Sprintf("%s  %s", symbol, m.Name)
	}
	if m.Region != "" {
		label = fmt.Sprintf("%s (%s)", label, m.Region)
	}
	return selector.Entity{Key: symbol, Label: label}
}

func renderQuote(q Quote, width int) []string {
	sum := q.Summary
	latest := sum.Latest
	lines := []string{fmt.Sprintf("%s  %s", sum.Symbol, rangeLabels[sum.Range]), ""}
	lines = append(lines, table.Format([][]string{
		{"as of", latest.Time},
		{"price", fmt.Sprintf("%.2f", latest.Close)},
		{"high", fmt.Sprintf("%.2f", latest.High)},
		{"low", fmt.Sprintf("%.2f", latest.Low)},
		{"volume", fmt.Sprintf("%.0f", latest.Volume)},
	}, []table.Alignment{table.AlignLeft, table.AlignRight})...)
	lines = append(lines, "")
	lines = append(lines, table.Format([][]string{
		{"change", fmt.Sprintf("%+.2f%%", sum.ChangePct)},
		{"mean", fmt.Sprintf("%.2f", sum.Mean)},
		{"min", fmt.Sprintf("%.2f", sum.Min)},
		{"max", fmt.Sprintf("%.2f", sum.Max)},
		{"stddev", fmt.Sprintf("%.2f", sum.StdDev)},
		{"bars", fmt.Sprintf("%d", sum.Bars)},
		{"total vol", fmt.Sprintf("%.0f", sum.Volume)},
	}, []table.Alignment{table.AlignLeft, table.AlignRight})...)

	points := q.Series.Points
	if len(points) > recentBars {
		points = points[len(points)-recentBars:]
	}
	rows := [][]string{{"time", "close", "volume"}}
	for i := len(points) - 1; i >= 0; i-- {
		p := points[i]
		rows = append(rows, []string{p.Time, fmt.Sprintf("%.2f", p.Close), fmt.Sprintf("%.0f", p.Volume)})
	}
	lines = append(lines, "")
	lines = append(lines, table.Format(rows, []table.Alignment{table.AlignLeft, table.AlignRight, table.AlignRight})...)
	return table.Fit(lines, width)
}
