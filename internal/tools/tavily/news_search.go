package tavily

import (
	"context"
	"sync"

	"github.com/astera-dev/mcp-websearch/internal/tools"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"
)

// NewsSearchTool implements recent news search. The provider topic is set
// to "news" and results can be filtered by recency.
type NewsSearchTool struct {
	provider SearchProvider
}

// Definition returns the tool's definition for MCP registration
func (t *NewsSearchTool) Definition() mcp.Tool {
	return mcp.NewTool(
		"tavily_news_search",
		mcp.WithDescription("Searches recent news articles using Tavily's specialised news search functionality. "+
			"Ideal for current events, recent developments, and trending topics. Can filter results by recency "+
			"(number of days back to search) and by including or excluding specific news domains, e.g. "+
			"include_domains=\"reuters.com,apnews.com,bbc.com\" for mainstream news or "+
			"exclude_domains=\"wsj.com,ft.com\" to avoid paywalled content. "+
			"Returns news articles with publication dates and relevant excerpts."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search query"),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of results to return (1-19)"),
			mcp.DefaultNumber(DefaultMaxResults),
		),
		mcp.WithNumber("days",
			mcp.Description("Number of days back to search (1-365, default is 3)"),
		),
		mcp.WithString("include_domains",
			mcp.Description("Comma-separated list of domains to include (e.g., \"reuters.com,bbc.com\")"),
		),
		mcp.WithString("exclude_domains",
			mcp.Description("Comma-separated list of domains to exclude (e.g., \"tabloid.com,spam.net\")"),
		),
	)
}

// Execute executes the news search tool
func (t *NewsSearchTool) Execute(ctx context.Context, logger *logrus.Logger, cache *sync.Map, args map[string]interface{}) (*mcp.CallToolResult, error) {
	logger.Info("Executing Tavily news search")

	query, err := parseQuery(args)
	if err != nil {
		return nil, err
	}
	maxResults, err := parseMaxResults(args)
	if err != nil {
		return nil, err
	}
	days, err := parseDays(args)
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
		Topic:          "news",
		Days:           days,
		IncludeDomains: domainFilter(args["include_domains"]),
		ExcludeDomains: domainFilter(args["exclude_domains"]),
	})
}

// ProvideExtendedInfo implements the ExtendedHelpProvider interface for the news search tool
func (t *NewsSearchTool) ProvideExtendedInfo() *tools.ExtendedHelp {
	return &tools.ExtendedHelp{
		WhenToUse:    "Use for current events, recent developments and trending topics. Results carry publication dates and can be limited to a recency window.",
		WhenNotToUse: "Don't use for evergreen reference material (use tavily_web_search) or when you need a single synthesised answer (use tavily_answer_search).",
		CommonPatterns: []string{
			"Last few days: {\"query\": \"go 1.26 release\"}",
			"Wider window: {\"query\": \"datacentre energy usage\", \"days\": 30}",
			"Trusted outlets: {\"query\": \"rate decision\", \"include_domains\": \"reuters.com,apnews.com\"}",
		},
		ParameterDetails: map[string]string{
			"days":            "Number of days back to search, 1-365. Absent means the provider default of 3 days.",
			"max_results":     "Between 1 and 19; out-of-range values are rejected before any search is performed.",
			"include_domains": "Comma-separated news domains to restrict results to.",
			"exclude_domains": "Comma-separated news domains to filter out, e.g. paywalled outlets.",
		},
		Troubleshooting: []tools.TroubleshootingTip{
			{
				Problem:  "invalid_params for days",
				Solution: "Use a value between 1 and 365, or omit it for the provider default",
			},
			{
				Problem:  "Results have no Published lines",
				Solution: "The provider omits publication dates for some sources; widen the days window or adjust domain filters",
			},
		},
	}
}
