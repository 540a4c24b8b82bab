// Package tavily implements the Tavily-backed search tools: general web
// search, answer-backed search and news search. Each tool validates and
// clamps its inputs, performs exactly one outbound provider call, and
// renders the reply as formatted text. Invocations are stateless; nothing
// is cached across calls.
package tavily

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"
)

// executeSearch performs the single provider call for a tool invocation,
// echoes any non-empty domain filters onto the response for the formatter,
// and renders the result
func executeSearch(ctx context.Context, logger *logrus.Logger, p SearchProvider, req Request) (*mcp.CallToolResult, error) {
	resp, err := p.Search(ctx, logger, req)
	if err != nil {
		return nil, err
	}

	if len(req.IncludeDomains) > 0 {
		resp.IncludedDomains = req.IncludeDomains
	}
	if len(req.ExcludeDomains) > 0 {
		resp.ExcludedDomains = req.ExcludeDomains
	}

	logger.WithFields(logrus.Fields{
		"query":        req.Query,
		"result_count": len(resp.Results),
	}).Info("Search completed successfully")

	return mcp.NewToolResultText(FormatResults(resp)), nil
}

// resolveProvider returns the tool's injected provider, or the shared
// config-backed one. Injection exists for tests.
func resolveProvider(p SearchProvider) (SearchProvider, error) {
	if p != nil {
		return p, nil
	}
	return defaultProvider()
}
