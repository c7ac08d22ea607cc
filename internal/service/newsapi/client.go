package newsapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"StockPulse/internal/domain/models"
	domsvc "StockPulse/internal/domain/service"
	"StockPulse/internal/service/ratelimit"
	xhttp "StockPulse/pkg/http"
)

const defaultBaseURL = "https://newsapi.org/v2"

// Client implements NewsSource against a NewsAPI-style provider. Requests are
// throttled client-side; a provider 429 surfaces as models.ErrRateLimited so
// the collector can defer instead of dropping the ticker.
type Client struct {
	apiKey  string
	baseURL string
	client  *xhttp.Client
	limiter *ratelimit.Limiter
	rps     float64
}

func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  xhttp.NewClient(xhttp.WithTimeout(15 * time.Second)),
		limiter: ratelimit.New(),
		rps:     1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Option configures Client.
type Option func(*Client)

// WithBaseURL overrides the provider endpoint (tests, proxies).
func WithBaseURL(u string) Option { return func(c *Client) { c.baseURL = u } }

// WithRPS sets the client-side request rate.
func WithRPS(rps float64) Option { return func(c *Client) { c.rps = rps } }

type articlesResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string    `json:"title"`
		Description string    `json:"description"`
		URL         string    `json:"url"`
		PublishedAt time.Time `json:"publishedAt"`
	} `json:"articles"`
}

// Articles fetches English-language articles matching the company query,
// sorted by relevancy, within [from, to].
func (c *Client) Articles(ctx context.Context, ticker, query string, from, to time.Time) ([]models.NewsArticle, error) {
	if !c.limiter.Allow("newsapi", c.rps*5, c.rps) {
		return nil, fmt.Errorf("%w: client-side throttle", models.ErrRateLimited)
	}

	var resp articlesResponse
	httpResp, err := c.client.SendRequest(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/everything",
		QueryParams: map[string][]string{
			"q":        {fmt.Sprintf("%q", query)},
			"from":     {from.UTC().Format("2006-01-02")},
			"to":       {to.UTC().Format("2006-01-02")},
			"language": {"en"},
			"sortBy":   {"relevancy"},
			"apiKey":   {c.apiKey},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: news fetch %s: %v", models.ErrUpstreamUnavailable, ticker, err)
	}
	defer httpResp.Body.Close()

	switch {
	case httpResp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: provider 429 for %s", models.ErrRateLimited, ticker)
	case httpResp.StatusCode < 200 || httpResp.StatusCode >= 300:
		return nil, fmt.Errorf("%w: news fetch %s: status %d", models.ErrUpstreamUnavailable, ticker, httpResp.StatusCode)
	}

	if err := xhttp.DecodeJSON(httpResp.Body, &resp); err != nil {
		return nil, fmt.Errorf("%w: news decode %s: %v", models.ErrUpstreamUnavailable, ticker, err)
	}

	out := make([]models.NewsArticle, 0, len(resp.Articles))
	for _, a := range resp.Articles {
		out = append(out, models.NewsArticle{
			Ticker:      ticker,
			Source:      a.Source.Name,
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			PublishedAt: a.PublishedAt,
		})
	}
	return out, nil
}

var _ domsvc.NewsSource = (*Client)(nil)
