// Package dto contains Data Transfer Objects for API request and response structures
package dto

// PostAnswerRequest represents the request payload for answering a question
type PostAnswerRequest struct {
	Content string `json:"content" validate:"required,min=20" example:"You can constrain the type parameter with..."`
}

// ListAnswersRequest represents the query parameters of the answer listing
type ListAnswersRequest struct {
	Page     int    `query:"page" validate:"omitempty,gte=1"`
	PageSize int    `query:"page_size" validate:"omitempty,gte=1,lte=100"`
	OrderBy  string `query:"order_by" validate:"omitempty,oneof=newest oldest popular"`
}

// AnswerItem represents an answer in listings
type AnswerItem struct {
	UUID      string    `json:"uuid"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	Votes     VoteState `json:"votes"`
	CreatedAt string    `json:"created_at"`
}

// PostAnswerResponse represents the result of posting an answer
type PostAnswerResponse struct {
	Message string     `json:"message"`
	Answer  AnswerItem `json:"answer"`
}

// ListAnswersResponse represents a page of answers
type ListAnswersResponse struct {
	Message  string       `json:"message"`
	Items    []AnswerItem `json:"items"`
	Total    int64        `json:"total"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
}
