// Package dto contains Data Transfer Objects for API request and response structures
package dto

// ToggleVoteRequest represents the request payload for toggling a vote
type ToggleVoteRequest struct {
	Kind string `json:"kind" validate:"required,oneof=up down" example:"up"`
}

// VoteState carries the tallies and the caller's membership after a toggle
// or read. Clients apply it optimistically and restore the previous state if
// the write fails.
type VoteState struct {
	Upvotes      int64 `json:"upvotes"`
	Downvotes    int64 `json:"downvotes"`
	HasUpvoted   bool  `json:"has_upvoted"`
	HasDownvoted bool  `json:"has_downvoted"`
}

// ToggleVoteResponse represents the authoritative vote state after a toggle
type ToggleVoteResponse struct {
	Message string    `json:"message"`
	Votes   VoteState `json:"votes"`
}
