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

const (
	NewsID          = "news"
	DefaultCategory = "health"
)

// HeadlineSource is the slice of remote.NewsClient the news panel needs.
type HeadlineSource interface {
	TopHeadlines(ctx context.Context, category string) ([]remote.Article, error)
}

// NewNews builds the news tab: one category stage over the fixed NewsAPI
// categories, fetching headlines with images for the committed category.
// defaultCategory is committed as soon as the categories are listed; blank
// selects DefaultCategory.
func NewNews(src HeadlineSource, defaultCategory string) Panel {
	categories := func(context.Context, []selector.Entity) ([]selector.Entity, error) {
		out := make([]selector.Entity, 0, len(remote.NewsCategories))
		for _, c := range remote.NewsCategories {
			out = append(out, selector.Entity{Key: c, Label: strings.ToUpper(c[:1]) + c[1:]})
		}
		return out, nil
	}
	source := fetch.Transform(fetch.Source[[]remote.Article](src.TopHeadlines), remote.WithImages)
	p := newChained(NewsID, "News", []selector.StageDef{
		{ID: "category", Title: "Category", Lookup: categories},
	}, source)
	p.keyOf = func(committed []selector.Entity) string { return committed[0].Key }
	p.render = renderHeadlines
	defaultCategory = strings.ToLower(strings.TrimSpace(defaultCategory))
	if defaultCategory == "" {
		defaultCategory = DefaultCategory
	}
	p.defaults[0] = defaultCategory
	return p
}

func renderHeadlines(articles []remote.Article, width int) []string {
	lines := make([]string, 0, len(articles)*4)
	for i, a := range articles {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, a.Title))
		byline := a.Source
		if !a.PublishedAt.IsZero() {
			byline = fmt.Sprintf("%s on %s", a.Source, a.PublishedAt.Format("Jan 2, 2006"))
		}
		if byline != "" {
			lines = append(lines, "   "+byline)
		}
		if a.Description != "" {
			lines = append(lines, "   "+a.Description)
		}
		if a.URL != "" {
			lines = append(lines, "   "+a.URL)
		}
	}
	return table.Fit(lines, width)
}
