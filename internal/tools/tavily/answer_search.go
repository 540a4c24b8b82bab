package tavily

import (
	"context"
	"sync"

	"github.com/astera-dev/mcp-websearch/internal/tools"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"
)

// AnswerSearchTool implements web search with a synthesised answer.
// It defaults to advanced depth for more comprehensive analysis.
type AnswerSearchTool struct {
	provider SearchProvider
}

// Definition returns the tool's definition for MCP registration
func (t *AnswerSearchTool) Definition() mcp.Tool {
	return mcp.NewTool(
		"tavily_answer_search",
		mcp.WithDescription("Performs a web search using Tavily's AI search engine and generates a direct answer to the "+
			"query, along with supporting search results. Best used for questions that need concrete answers backed by "+
			"current web sources. Uses advanced search depth by default for comprehensive analysis. Supports domain "+
			"filtering to control sources, e.g. include_domains=\"wsj.com,bloomberg.com\" for financial analysis or "+
			"exclude_domains=\"wikipedia.org\" for more scholarly sources."),
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
			mcp.DefaultString(SearchDepthAdvanced),
			mcp.Enum(SearchDepthBasic, SearchDepthAdvanced),
		),
		mcp.WithString("include_domains",
			mcp.Description("Comma-separated list of domains to include (e.g., \"wsj.com,bloomberg.com\")"),
		),
		mcp.WithString("exclude_domains",
			mcp.Description("Comma-separated list of domains to exclude (e.g., \"wikipedia.org,reddit.com\")"),
		),
	)
}

// Execute executes the answer search tool
func (t *AnswerSearchTool) Execute(ctx context.Context, logger *logrus.Logger, cache *sync.Map, args map[string]interface{}) (*mcp.CallToolResult, error) {
	logger.Info("Executing Tavily answer search")

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
		SearchDepth:    parseSearchDepth(args, SearchDepthAdvanced),
		IncludeAnswer:  true,
		IncludeDomains: domainFilter(args["include_domains"]),
		ExcludeDomains: domainFilter(args["exclude_domains"]),
	})
}

// ProvideExtendedInfo implements the ExtendedHelpProvider interface for the answer search tool
func (t *AnswerSearchTool) ProvideExtendedInfo() *tools.ExtendedHelp {
	return &tools.ExtendedHelp{
		WhenToUse:    "Use for questions that need a concrete, synthesised answer backed by current web sources. The answer appears first, followed by its sources and the detailed results.",
		WhenNotToUse: "Don't use for open-ended research where you want the raw results yourself (use tavily_web_search) or for recent coverage of an event (use tavily_news_search).",
		CommonPatterns: []string{
			"Direct question: {\"query\": \"what is the latest stable Go release\"}",
			"Scoped answer: {\"query\": \"current fed funds rate\", \"include_domains\": \"wsj.com,bloomberg.com\"}",
		},
		ParameterDetails: map[string]string{
			"search_depth":    "Either 'basic' or 'advanced'. Defaults to 'advanced' for this tool; unrecognised values fall back to 'advanced'.",
			"max_results":     "Between 1 and 19; out-of-range values are rejected before any search is performed.",
			"include_domains": "Comma-separated domains constraining the sources behind the answer.",
			"exclude_domains": "Comma-separated domains to keep out of the answer's sources.",
		},
		Troubleshooting: []tools.TroubleshootingTip{
			{
				Problem:  "The response contains results but no Answer block",
				Solution: "The provider could not synthesise an answer for the query; rephrase it as a direct question",
			},
		},
	}
}
