package newsapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockPulse/internal/domain/models"
)

func window() (time.Time, time.Time) {
	to := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	return to.AddDate(0, 0, -7), to
}

func TestArticlesMapsResponse(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": "ok",
			"articles": [
				{
					"source": {"name": "Business Wire"},
					"title": "Acme posts record profit",
					"description": "Quarterly results beat estimates",
					"url": "https://example.com/a1",
					"publishedAt": "2024-06-08T09:30:00Z"
				},
				{
					"source": {"name": "Newswire"},
					"title": "Acme expands capacity",
					"description": "",
					"url": "https://example.com/a2",
					"publishedAt": "2024-06-09T14:00:00Z"
				}
			]
		}`))
	}))
	defer srv.Close()

	c := New("test-key", WithBaseURL(srv.URL))
	from, to := window()
	articles, err := c.Articles(context.Background(), "ACME.NS", "Acme Industries", from, to)
	require.NoError(t, err)
	require.Len(t, articles, 2)

	a := articles[0]
	assert.Equal(t, "ACME.NS", a.Ticker)
	assert.Equal(t, "Business Wire", a.Source)
	assert.Equal(t, "Acme posts record profit", a.Title)
	assert.Equal(t, "https://example.com/a1", a.URL)
	assert.True(t, a.PublishedAt.Equal(time.Date(2024, 6, 8, 9, 30, 0, 0, time.UTC)))
	assert.False(t, a.Scored(), "fetched articles start unscored")

	require.NotNil(t, gotQuery)
	assert.Equal(t, `"Acme Industries"`, gotQuery.Get("q"))
	assert.Equal(t, "en", gotQuery.Get("language"))
	assert.Equal(t, "relevancy", gotQuery.Get("sortBy"))
	assert.Equal(t, "test-key", gotQuery.Get("apiKey"))
	assert.Equal(t, "2024-06-03", gotQuery.Get("from"))
	assert.Equal(t, "2024-06-10", gotQuery.Get("to"))
}

func TestArticlesProviderRateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New("test-key", WithBaseURL(srv.URL))
	from, to := window()
	_, err := c.Articles(context.Background(), "ACME.NS", "Acme", from, to)
	assert.ErrorIs(t, err, models.ErrRateLimited)
}

func TestArticlesProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New("test-key", WithBaseURL(srv.URL))
	from, to := window()
	_, err := c.Articles(context.Background(), "ACME.NS", "Acme", from, to)
	assert.ErrorIs(t, err, models.ErrUpstreamUnavailable)
}

func TestArticlesClientSideThrottle(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(`{"status":"ok","articles":[]}`))
	}))
	defer srv.Close()

	// a sub-1 bucket never accumulates a whole token
	c := New("test-key", WithBaseURL(srv.URL), WithRPS(0.01))
	from, to := window()
	_, err := c.Articles(context.Background(), "ACME.NS", "Acme", from, to)
	assert.ErrorIs(t, err, models.ErrRateLimited)
	assert.Zero(t, hits, "throttled request never reaches the provider")
}

func TestArticlesBadPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{broken`))
	}))
	defer srv.Close()

	c := New("test-key", WithBaseURL(srv.URL))
	from, to := window()
	_, err := c.Articles(context.Background(), "ACME.NS", "Acme", from, to)
	assert.ErrorIs(t, err, models.ErrUpstreamUnavailable)
}
