package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/astera-dev/mcp-websearch/internal/config"
	"github.com/astera-dev/mcp-websearch/internal/tools/toolerr"
	tavilygo "github.com/diverged/tavily-go"
	tavilymodels "github.com/diverged/tavily-go/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Request is the provider-boundary contract: everything a single search
// call sends upstream. The contract is owned by the Tavily API, not by
// this package.
type Request struct {
	Query          string
	MaxResults     int
	SearchDepth    string
	Topic          string
	Days           int
	IncludeAnswer  bool
	IncludeDomains []string
	ExcludeDomains []string
}

// searchRequest extends the client library's request with the news recency
// window; the API accepts days but the pinned client does not model it
type searchRequest struct {
	tavilymodels.SearchRequest
	Days int `json:"days,omitempty"`
}

// searchResult extends the client library's result with the publication
// date the news topic returns
type searchResult struct {
	tavilymodels.SearchResult
	PublishedDate string `json:"published_date,omitempty"`
}

// searchResponse is the wire shape of a Tavily search reply
type searchResponse struct {
	Answer  string         `json:"answer,omitempty"`
	Results []searchResult `json:"results"`
}

// SearchProvider performs one outbound search call per invocation
type SearchProvider interface {
	Search(ctx context.Context, logger *logrus.Logger, req Request) (*SearchResponse, error)
}

// provider implements SearchProvider over the Tavily API client
type provider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewProvider creates a SearchProvider from the given configuration,
// with a rate-limited HTTP client shared across calls
func NewProvider(cfg *config.Config) SearchProvider {
	return &provider{
		apiKey: cfg.TavilyAPIKey,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
			Transport: &rateLimitedTransport{
				base:    http.DefaultTransport,
				limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
			},
		},
	}
}

// Search executes the outbound Tavily call. The request body is posted
// through the client's endpoint and HTTP client directly so the fields the
// pinned library does not model (days in, published_date out) still cross
// the wire. Any provider failure -- authentication, usage limits, network
// errors -- surfaces as an internal_error; validation happened before we
// got here.
func (p *provider) Search(ctx context.Context, logger *logrus.Logger, req Request) (*SearchResponse, error) {
	client := tavilygo.NewClient(p.apiKey)
	if p.baseURL != "" {
		client.BaseURL = p.baseURL
	}
	if p.httpClient != nil {
		client.HTTPClient = p.httpClient
	}
	httpClient := client.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	body, err := json.Marshal(searchRequest{
		SearchRequest: tavilymodels.SearchRequest{
			APIKey:         p.apiKey,
			Query:          req.Query,
			MaxResults:     req.MaxResults,
			SearchDepth:    req.SearchDepth,
			Topic:          req.Topic,
			IncludeAnswer:  req.IncludeAnswer,
			IncludeDomains: req.IncludeDomains,
			ExcludeDomains: req.ExcludeDomains,
		},
		Days: req.Days,
	})
	if err != nil {
		return nil, toolerr.Internal(err, "failed to encode search request")
	}

	logger.WithFields(logrus.Fields{
		"query":       req.Query,
		"max_results": req.MaxResults,
		"depth":       req.SearchDepth,
		"topic":       req.Topic,
		"days":        req.Days,
	}).Debug("Tavily search request")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, client.BaseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, toolerr.Internal(err, "failed to build search request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := httpClient.Do(httpReq)
	if err != nil {
		logger.WithError(err).Error("Tavily search failed")
		return nil, toolerr.Internal(err, "search request failed")
	}
	defer func() { _ = httpResp.Body.Close() }()

	if httpResp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(httpResp.Body, 4096))
		logger.WithFields(logrus.Fields{
			"status": httpResp.StatusCode,
			"body":   string(respBody),
		}).Error("Tavily search returned an error status")
		return nil, toolerr.Internal(
			fmt.Errorf("unexpected status %d: %s", httpResp.StatusCode, string(respBody)),
			"search request failed")
	}

	var searchResp searchResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&searchResp); err != nil {
		return nil, toolerr.Internal(err, "failed to decode search response")
	}

	results := make([]Result, 0, len(searchResp.Results))
	for _, r := range searchResp.Results {
		results = append(results, Result{
			Title:         r.Title,
			URL:           r.URL,
			Content:       r.Content,
			PublishedDate: r.PublishedDate,
		})
	}

	return &SearchResponse{
		Answer:  searchResp.Answer,
		Results: results,
	}, nil
}

// rateLimitedTransport waits on a token bucket before each outbound request
type rateLimitedTransport struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

func (t *rateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.base.RoundTrip(req)
}

var (
	defaultProviderOnce sync.Once
	defaultProviderInst SearchProvider
	defaultProviderErr  error
)

// defaultProvider lazily builds the shared provider from process
// configuration. Built once; the error is sticky.
func defaultProvider() (SearchProvider, error) {
	defaultProviderOnce.Do(func() {
		cfg := config.Get()
		if err := cfg.ValidateForSearch(); err != nil {
			defaultProviderErr = toolerr.Internal(err, "search provider unavailable")
			return
		}
		defaultProviderInst = NewProvider(cfg)
	})
	return defaultProviderInst, defaultProviderErr
}
