package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const maxBodyBytes = 8 << 20

// Options configures the shared HTTP plumbing of a provider client.
type Options struct {
	BaseURL     string
	APIKey      string
	HTTPClient  *http.Client
	MinInterval time.Duration
}

// client performs throttled GET requests against one provider.
type client struct {
	baseURL  string
	apiKey   string
	http     *http.Client
	throttle *throttle
}

func newClient(opts Options, defaultBase string) *client {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = defaultBase
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &client{
		baseURL:  base,
		apiKey:   strings.TrimSpace(opts.APIKey),
		http:     hc,
		throttle: newThrottle(opts.MinInterval),
	}
}

// get returns the body of a successful response. Non-2xx responses become
// UpstreamStatusError carrying whatever message the provider supplied.
func (c *client) get(ctx context.Context, op, path string, query url.Values, header http.Header) ([]byte, error) {
	if err := c.throttle.wait(ctx); err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	for k, values := range header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamStatusError{Op: op, StatusCode: resp.StatusCode, Message: upstreamMessage(body)}
	}
	return body, nil
}

func (c *client) getJSON(ctx context.Context, op, path string, query url.Values, header http.Header, out interface{}) error {
	body, err := c.get(ctx, op, path, query, header)
	if err != nil {
		return err
	}
	return decode(op, body, out)
}

func decode(op string, body []byte, out interface{}) error {
	if err := json.Unmarshal(body, out); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) || errors.Is(err, io.ErrUnexpectedEOF) {
			return &UpstreamStatusError{Op: op, Message: fmt.Sprintf("%s returned malformed JSON", op)}
		}
		return &UpstreamStatusError{Op: op, Message: fmt.Sprintf("%s returned an unexpected payload: %v", op, err)}
	}
	return nil
}

// upstreamMessage digs a human readable message out of an error payload.
func upstreamMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return strings.TrimSpace(string(body))
	}
	for _, path := range []string{"message", "error.message", "error", "Error Message", "Note", "Information"} {
		if v := gjson.GetBytes(body, path); v.Exists() && v.Type == gjson.String {
			if msg := strings.TrimSpace(v.String()); msg != "" {
				return msg
			}
		}
	}
	return ""
}
