package tavily

import (
	"context"
	"sync"

	"github.com/astera-dev/mcp-websearch/internal/registry"
	"github.com/astera-dev/mcp-websearch/internal/tools"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"
)

// WebSearchTool implements general web search over the Tavily API
type WebSearchTool struct {
	provider SearchProvider
}

// init registers the search tools with the registry
func init() {
	registry.Register(&WebSearchTool{})
	registry.Register(&AnswerSearchTool{})
	registry.Register(&NewsSearchTool{})
}

// Definition returns the tool's definition for MCP registration
func (t *WebSearchTool) Definition() mcp.Tool {
	return mcp.NewTool(
		"tavily_web_search",
		mcp.WithDescription("Performs a comprehensive web search using Tavily's AI-powered search engine. "+
			"Excels at extracting and summarising relevant content from web pages, making it ideal for research, "+
			"fact-finding, and gathering detailed information. Can run in either 'basic' mode for faster, simpler "+
			"searches or 'advanced' mode for more thorough analysis. Basic is cheaper and good for most use cases. "+
			"Supports filtering results by including or excluding specific domains."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search query"),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of results to return (1-19)"),
			mcp.DefaultNumber(DefaultMaxResults),
		),
		mcp.WithString("search_depth",
			mcp.Description("Depth of search - 'basic' or 'advanced'"),
			mcp.DefaultString(SearchDepthBasic),
			mcp.Enum(SearchDepthBasic, SearchDepthAdvanced),
		),
		mcp.WithString("include_domains",
			mcp.Description("Comma-separated list of domains to include (e.g., \"example.com,test.org\")"),
		),
		mcp.WithString("exclude_domains",
			mcp.Description("Comma-separated list of domains to exclude (e.g., \"spam.com,ads.net\")"),
		),
	)
}

// Execute executes the web search tool
func (t *WebSearchTool) Execute(ctx context.Context, logger *logrus.Logger, cache *sync.Map, args map[string]interface{}) (*mcp.CallToolResult, error) {
	logger.Info("Executing Tavily web search")

	query, err := parseQuery(args)
	if err != nil {
		return nil, err
	}
	maxResults, err := parseMaxResults(args)
	if err != nil {
		return nil, err
	}

	provider, err := resolveProvider(t.provider)
	if err != nil {
		return nil, err
	}

	return executeSearch(ctx, logger, provider, Request{
		Query:          query,
		MaxResults:     maxResults,
		SearchDepth:    parseSearchDepth(args, SearchDepthBasic),
		IncludeDomains: domainFilter(args["include_domains"]),
		ExcludeDomains: domainFilter(args["exclude_domains"]),
	})
}

// ProvideExtendedInfo implements the ExtendedHelpProvider interface for the web search tool
func (t *WebSearchTool) ProvideExtendedInfo() *tools.ExtendedHelp {
	return &tools.ExtendedHelp{
		WhenToUse:    "Use for broad research, fact-finding, and gathering detailed information from diverse web sources. Basic depth is cheaper and good for most use cases; advanced depth is more thorough.",
		WhenNotToUse: "Don't use when you need a synthesised answer (use tavily_answer_search) or recent news coverage (use tavily_news_search).",
		CommonPatterns: []string{
			"Quick lookup: {\"query\": \"golang context cancellation\"}",
			"Thorough research: {\"query\": \"raft consensus edge cases\", \"search_depth\": \"advanced\"}",
			"Scoped to sites: {\"query\": \"http client retries\", \"include_domains\": \"pkg.go.dev,go.dev\"}",
		},
		ParameterDetails: map[string]string{
			"max_results":     "Between 1 and 19; out-of-range values are rejected before any search is performed.",
			"search_depth":    "Either 'basic' or 'advanced'. Unrecognised values fall back to 'basic'.",
			"include_domains": "Comma-separated domains. Empty entries are dropped; order is preserved.",
			"exclude_domains": "Comma-separated domains to filter out of the results.",
		},
		Troubleshooting: []tools.TroubleshootingTip{
			{
				Problem:  "internal_error mentioning the API key",
				Solution: "Set the TAVILY_API_KEY environment variable (or add it to a .env file) and restart the server",
			},
			{
				Problem:  "invalid_params for max_results",
				Solution: "Use a value between 1 and 19; the range is exclusive of 0 and 20",
			},
		},
	}
}
