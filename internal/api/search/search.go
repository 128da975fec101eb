package search

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultEndpoint = "https://html.duckduckgo.com/html/"
	maxBodyBytes    = 1 << 20
)

// Client is the text-search capability: a query string in, opaque result
// text out. The pipeline only ever regexes against the result, so no shape
// is guaranteed beyond "plain text".
type Client interface {
	Search(ctx context.Context, query string) (string, error)
}

// Ensure implementation satisfies the interface
var _ Client = (*HTTPClient)(nil)

var (
	tagPattern        = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// HTTPClient backs the Client contract with an HTML search endpoint,
// stripping markup down to plain text. Identical queries within the cache
// TTL are served from memory.
type HTTPClient struct {
	httpClient *http.Client
	endpoint   string
	cache      *cache.Cache
	logger     *slog.Logger
}

// NewHTTPClient builds a search client. endpoint may be empty to use the
// default; cacheTTL <= 0 disables caching.
func NewHTTPClient(endpoint string, timeout, cacheTTL time.Duration, logger *slog.Logger) *HTTPClient {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	var resultCache *cache.Cache
	if cacheTTL > 0 {
		resultCache = cache.New(cacheTTL, 2*cacheTTL)
	}
	return &HTTPClient{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   endpoint,
		cache:      resultCache,
		logger:     logger,
	}
}

// Search runs one query and returns the result page as collapsed plain text.
func (c *HTTPClient) Search(ctx context.Context, query string) (string, error) {
	ctx, span := otel.Tracer("Search").Start(ctx, "Search", trace.WithAttributes(
		attribute.String("search.query", query),
	))
	defer span.End()

	if c.cache != nil {
		if cached, found := c.cache.Get(query); found {
			span.SetAttributes(attribute.Bool("search.cache_hit", true))
			span.SetStatus(codes.Ok, "cache hit")
			return cached.(string), nil
		}
	}

	reqURL := fmt.Sprintf("%s?q=%s", c.endpoint, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request build failed")
		return "", fmt.Errorf("failed to build search request: %w", err)
	}
	req.Header.Set("User-Agent", "go-weather-chat/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search request failed")
		return "", fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("search returned status %d", resp.StatusCode)
		span.RecordError(err)
		span.SetStatus(codes.Error, "unexpected status")
		return "", err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "body read failed")
		return "", fmt.Errorf("failed to read search response: %w", err)
	}

	text := stripMarkup(string(body))
	if c.cache != nil {
		c.cache.Set(query, text, cache.DefaultExpiration)
	}

	c.logger.DebugContext(ctx, "Search completed",
		slog.String("query", query),
		slog.Int("result_length", len(text)))
	span.SetStatus(codes.Ok, "search succeeded")
	return text, nil
}

func stripMarkup(html string) string {
	text := tagPattern.ReplaceAllString(html, " ")
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))
}
