package models

// Fetch paths that can produce a SearchResult.
const (
	SourceAPI  = "api"
	SourcePage = "page"
)

// SearchResult is the decoded outcome of one vehicle search.
type SearchResult struct {
	Listings []Listing
	// Total is the totalElements count reported by the API; it can exceed
	// len(Listings) when the result set is larger than one page.
	Total int
	// Source records which path produced the result.
	Source string
}
