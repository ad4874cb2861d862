// Package dto contains Data Transfer Objects for API request and response structures
package dto

// ToggleSaveResponse reports the new saved state after a toggle
type ToggleSaveResponse struct {
	Message string `json:"message"`
	Saved   bool   `json:"saved"`
}

// ListSavedQuestionsRequest represents the query parameters of the collection listing
type ListSavedQuestionsRequest struct {
	Page     int `query:"page" validate:"omitempty,gte=1"`
	PageSize int `query:"page_size" validate:"omitempty,gte=1,lte=100"`
}

// ListSavedQuestionsResponse represents a page of a user's saved questions
type ListSavedQuestionsResponse struct {
	Message  string         `json:"message"`
	Items    []QuestionItem `json:"items"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}
