package tavily

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseDomainList normalises a domain-filter value of unknown shape into an
// ordered list of trimmed, non-empty domain strings. Accepted shapes:
//
//   - nil                        -> []
//   - list of strings            -> trimmed, empties dropped, order kept
//   - JSON array string          -> parsed, then as above
//   - comma-separated string     -> split, trimmed, empties dropped
//   - single domain string       -> one-element list
//
// Anything else fails open to an empty list. Duplicates are preserved.
func ParseDomainList(v any) []string {
	switch value := v.(type) {
	case nil:
		return []string{}
	case []string:
		return trimNonEmpty(value)
	case []any:
		items := make([]string, 0, len(value))
		for _, item := range value {
			if s, ok := item.(string); ok {
				items = append(items, s)
			}
		}
		return trimNonEmpty(items)
	case string:
		return parseDomainString(value)
	default:
		return []string{}
	}
}

// parseDomainString handles the string shapes: JSON array, JSON scalar,
// comma-separated list, or a single bare domain
func parseDomainString(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return []string{}
	}

	var parsed any
	if err := json.Unmarshal([]byte(s), &parsed); err == nil {
		switch value := parsed.(type) {
		case []any:
			items := make([]string, 0, len(value))
			for _, item := range value {
				if str, ok := item.(string); ok {
					items = append(items, str)
				}
			}
			return trimNonEmpty(items)
		case string:
			// Single value from JSON
			return trimNonEmpty([]string{value})
		default:
			return trimNonEmpty([]string{fmt.Sprint(value)})
		}
	}

	// Not JSON, check if comma-separated
	if strings.Contains(s, ",") {
		return SplitDomains(s)
	}

	return []string{s}
}

// SplitDomains is the handler-level normalisation path: domains arrive
// pre-flattened as a comma-separated string. Split on comma, trim each
// piece, drop empties, keep order. Kept separate from ParseDomainList on
// purpose -- the two entry points accept different raw shapes and a string
// like `["x.com"]` means different things to each.
func SplitDomains(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	return trimNonEmpty(strings.Split(s, ","))
}

// trimNonEmpty trims every element and drops the ones that end up empty
func trimNonEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
