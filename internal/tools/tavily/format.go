package tavily

import (
	"fmt"
	"strings"
)

// FormatResults renders a search response as a single text block with a
// fixed section order: filters, answer with sources, detailed results.
// The output is deterministic for identical input and is used directly as
// a golden-output target in tests, so the exact byte layout matters.
func FormatResults(resp *SearchResponse) string {
	var output []string

	// Add domain filter information if present
	if len(resp.IncludedDomains) > 0 || len(resp.ExcludedDomains) > 0 {
		output = append(output, "Search Filters:")
		if len(resp.IncludedDomains) > 0 {
			output = append(output, fmt.Sprintf("Including domains: %s", strings.Join(resp.IncludedDomains, ", ")))
		}
		if len(resp.ExcludedDomains) > 0 {
			output = append(output, fmt.Sprintf("Excluding domains: %s", strings.Join(resp.ExcludedDomains, ", ")))
		}
		output = append(output, "") // Empty line for separation
	}

	if resp.Answer != "" {
		output = append(output, fmt.Sprintf("Answer: %s", resp.Answer))
		output = append(output, "\nSources:")
		// Immediate source references for the answer
		for _, result := range resp.Results {
			output = append(output, fmt.Sprintf("- %s: %s", result.Title, result.URL))
		}
		output = append(output, "") // Empty line for separation
	}

	output = append(output, "Detailed Results:")
	for _, result := range resp.Results {
		output = append(output, fmt.Sprintf("\nTitle: %s", result.Title))
		output = append(output, fmt.Sprintf("URL: %s", result.URL))
		output = append(output, fmt.Sprintf("Content: %s", result.Content))
		if result.PublishedDate != "" {
			output = append(output, fmt.Sprintf("Published: %s", result.PublishedDate))
		}
	}

	return strings.Join(output, "\n")
}
