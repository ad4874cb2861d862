// Package dto contains Data Transfer Objects for API request and response structures
package dto

// TagItem represents a tag in listings and question payloads
type TagItem struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// PopularTagItem represents a tag ranked by referencing-question count
type PopularTagItem struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	QuestionCount int64  `json:"question_count"`
}

// ListPopularTagsRequest represents the query parameters of the popular-tag listing
type ListPopularTagsRequest struct {
	Limit  int `query:"limit" validate:"omitempty,gte=1,lte=100"`
	Offset int `query:"offset" validate:"omitempty,gte=0"`
}

// ListPopularTagsResponse represents the popular-tag ranking
type ListPopularTagsResponse struct {
	Message string           `json:"message"`
	Items   []PopularTagItem `json:"items"`
}

// SearchTagsResponse represents a tag name search result
type SearchTagsResponse struct {
	Message string    `json:"message"`
	Items   []TagItem `json:"items"`
}

// TagQuestionsResponse represents the questions referencing a tag
type TagQuestionsResponse struct {
	Message  string         `json:"message"`
	Tag      TagItem        `json:"tag"`
	Items    []QuestionItem `json:"items"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}
