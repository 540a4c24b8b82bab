package tavily

import (
	"strings"

	"github.com/astera-dev/mcp-websearch/internal/tools/toolerr"
)

const (
	// SearchDepthBasic is the cheaper, faster search mode
	SearchDepthBasic = "basic"

	// SearchDepthAdvanced is the more thorough search mode
	SearchDepthAdvanced = "advanced"

	// DefaultMaxResults is the number of results returned when the caller
	// does not specify max_results
	DefaultMaxResults = 5

	// maxResultsLimit is the exclusive upper bound for max_results
	maxResultsLimit = 20

	// maxNewsDays is the inclusive upper bound for the news recency window
	maxNewsDays = 365
)

// parseQuery extracts the required, non-empty query parameter
func parseQuery(args map[string]any) (string, error) {
	query, ok := args["query"].(string)
	if !ok || query == "" {
		return "", toolerr.InvalidParams("missing or invalid required parameter: query")
	}
	return query, nil
}

// parseMaxResults extracts max_results with its default, rejecting
// out-of-range values before any provider call is made
func parseMaxResults(args map[string]any) (int, error) {
	raw, present := args["max_results"]
	if !present || raw == nil {
		return DefaultMaxResults, nil
	}

	var n int
	switch value := raw.(type) {
	case float64:
		n = int(value)
	case int:
		n = value
	default:
		return 0, toolerr.InvalidParams("max_results must be a number, got %T", raw)
	}

	if n <= 0 || n >= maxResultsLimit {
		return 0, toolerr.InvalidParams("max_results must be between 1 and %d, got %d", maxResultsLimit-1, n)
	}
	return n, nil
}

// parseSearchDepth extracts search_depth, silently falling back to the
// tool's documented default for unrecognised values. The leniency is
// deliberate: a misspelt depth should degrade, not fail the call.
func parseSearchDepth(args map[string]any, fallback string) string {
	depth, ok := args["search_depth"].(string)
	if !ok {
		return fallback
	}
	switch strings.TrimSpace(depth) {
	case SearchDepthBasic:
		return SearchDepthBasic
	case SearchDepthAdvanced:
		return SearchDepthAdvanced
	default:
		return fallback
	}
}

// parseDays extracts the news recency window. Zero means absent; the
// provider applies its own default (3 days).
func parseDays(args map[string]any) (int, error) {
	raw, present := args["days"]
	if !present || raw == nil {
		return 0, nil
	}

	var n int
	switch value := raw.(type) {
	case float64:
		n = int(value)
	case int:
		n = value
	default:
		return 0, toolerr.InvalidParams("days must be a number, got %T", raw)
	}

	if n <= 0 || n > maxNewsDays {
		return 0, toolerr.InvalidParams("days must be between 1 and %d, got %d", maxNewsDays, n)
	}
	return n, nil
}

// domainFilter normalises a domain-filter argument. Handler-level callers
// send comma-separated strings, which keep the plain split semantics; any
// richer shape goes through the full model-level normalisation.
func domainFilter(v any) []string {
	if s, ok := v.(string); ok {
		return SplitDomains(s)
	}
	return ParseDomainList(v)
}
