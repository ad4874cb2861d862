// Package dto contains Data Transfer Objects for API request and response structures
package dto

// AskQuestionRequest represents the request payload for asking a question
type AskQuestionRequest struct {
	Title   string   `json:"title" validate:"required,min=5,max=130" example:"How do I use generics in Go?"`
	Content string   `json:"content" validate:"required,min=20" example:"I am trying to write a generic repository..."`
	Tags    []string `json:"tags" validate:"required,min=1,max=3,dive,required,min=1,max=30" example:"go,generics"`
}

// EditQuestionRequest represents the request payload for editing a question
type EditQuestionRequest struct {
	Title   string `json:"title" validate:"required,min=5,max=130"`
	Content string `json:"content" validate:"required,min=20"`
}

// ListQuestionsRequest represents the query parameters of the question listing
type ListQuestionsRequest struct {
	Page     int    `query:"page" validate:"omitempty,gte=1"`
	PageSize int    `query:"page_size" validate:"omitempty,gte=1,lte=100"`
	OrderBy  string `query:"order_by" validate:"omitempty,oneof=newest oldest frequent"`
	Search   string `query:"search" validate:"omitempty,max=130"`
	Filter   string `query:"filter" validate:"omitempty,oneof=unanswered"`
}

// QuestionItem represents a question in listings
type QuestionItem struct {
	UUID        string    `json:"uuid"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Views       int64     `json:"views"`
	AnswerCount int64     `json:"answer_count"`
	Tags        []TagItem `json:"tags,omitempty"`
	CreatedAt   string    `json:"created_at"`
}

// QuestionDetailResponse represents a single question with its vote state
type QuestionDetailResponse struct {
	UUID      string    `json:"uuid"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	Views     int64     `json:"views"`
	Votes     VoteState `json:"votes"`
	Tags      []TagItem `json:"tags"`
	Saved     bool      `json:"saved"`
	CreatedAt string    `json:"created_at"`
	UpdatedAt string    `json:"updated_at"`
}

// ListQuestionsResponse represents a page of questions
type ListQuestionsResponse struct {
	Message  string         `json:"message"`
	Items    []QuestionItem `json:"items"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

// ViewQuestionResponse reports the view counter after an increment
type ViewQuestionResponse struct {
	Message string `json:"message"`
	Views   int64  `json:"views"`
}
