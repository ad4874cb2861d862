// Package dto contains Data Transfer Objects for API request and response structures
package dto

// GlobalSearchRequest represents the query parameters of the global search
type GlobalSearchRequest struct {
	Query string `query:"q" validate:"required,min=1,max=130"`
	Type  string `query:"type" validate:"omitempty,max=20"`
}

// GlobalSearchResult is one hit of the global search fan-out
type GlobalSearchResult struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Title string `json:"title"`
}

// GlobalSearchResponse represents the concatenated fan-out results.
// Results are not deduplicated and carry no relevance score.
type GlobalSearchResponse struct {
	Message string               `json:"message"`
	Items   []GlobalSearchResult `json:"items"`
}
