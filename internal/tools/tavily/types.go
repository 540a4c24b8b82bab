package tavily

// Result is a single search result returned by the provider
type Result struct {
	Title         string `json:"title"`
	URL           string `json:"url"`
	Content       string `json:"content"`
	PublishedDate string `json:"published_date,omitempty"`
}

// SearchResponse is a provider search response shaped for formatting.
// IncludedDomains and ExcludedDomains echo the caller's filters so the
// formatter can report them; they are not validated against what the
// provider actually applied. Responses live for a single call only.
type SearchResponse struct {
	Answer          string   `json:"answer,omitempty"`
	Results         []Result `json:"results"`
	IncludedDomains []string `json:"included_domains,omitempty"`
	ExcludedDomains []string `json:"excluded_domains,omitempty"`
}
