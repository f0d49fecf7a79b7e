package remote

import (
	"context"
	"net/url"
	"strings"
	"time"
)

const defaultNewsBase = "https://newsapi.org"

// NewsCategories lists the headline categories NewsAPI accepts, in display
// order.
var NewsCategories = []string{
	"business",
	"entertainment",
	"general",
	"health",
	"science",
	"sports",
	"technology",
}

// Article is one headline as returned by NewsAPI.
type Article struct {
	Source      string
	Author      string
	Title       string
	Description string
	URL         string
	ImageURL    string
	PublishedAt time.Time
}

type newsPayload struct {
	Status   string `json:"status"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Author      string `json:"author"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		URLToImage  string `json:"urlToImage"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

// NewsClient fetches top headlines per category.
type NewsClient struct {
	c *client
}

func NewNewsClient(opts Options) *NewsClient {
	return &NewsClient{c: newClient(opts, defaultNewsBase)}
}

// TopHeadlines returns every article NewsAPI reports for category. A payload
// whose status is not "ok" is reported as UpstreamStatusError with the
// provider's message.
func (n *NewsClient) TopHeadlines(ctx context.Context, category string) ([]Article, error) {
	const op = "news headlines"
	q := url.Values{}
	q.Set("category", category)
	if n.c.apiKey != "" {
		q.Set("apiKey", n.c.apiKey)
	}
	var payload newsPayload
	if err := n.c.getJSON(ctx, op, "/v2/top-headlines", q, nil, &payload); err != nil {
		return nil, err
	}
	if payload.Status != "ok" {
		msg := payload.Message
		if msg == "" {
			msg = "Failed to fetch articles."
		}
		return nil, &UpstreamStatusError{Op: op, Message: msg}
	}
	articles := make([]Article, 0, len(payload.Articles))
	for _, a := range payload.Articles {
		published, _ := time.Parse(time.RFC3339, a.PublishedAt)
		articles = append(articles, Article{
			Source:      a.Source.Name,
			Author:      a.Author,
			Title:       strings.TrimSpace(a.Title),
			Description: strings.TrimSpace(a.Description),
			URL:         a.URL,
			ImageURL:    a.URLToImage,
			PublishedAt: published,
		})
	}
	return articles, nil
}

// WithImages keeps the articles that carry an image. An empty result is an
// EmptyResultError for category.
func WithImages(category string, articles []Article) ([]Article, error) {
	out := make([]Article, 0, len(articles))
	for _, a := range articles {
		if strings.TrimSpace(a.ImageURL) != "" {
			out = append(out, a)
		}
	}
	if len(out) == 0 {
		return nil, &EmptyResultError{Op: "news headlines", Query: category}
	}
	return out, nil
}
