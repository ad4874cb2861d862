// Package dto contains Data Transfer Objects for API request and response structures
package dto

// ProfileResponse represents a public user profile
type ProfileResponse struct {
	UUID         string  `json:"uuid"`
	Username     string  `json:"username"`
	Name         string  `json:"name"`
	Bio          *string `json:"bio,omitempty"`
	Location     *string `json:"location,omitempty"`
	PortfolioURL *string `json:"portfolio_url,omitempty"`
	AvatarUUID   *string `json:"avatar_uuid,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

// UpdateProfileRequest represents the request payload for profile updates
type UpdateProfileRequest struct {
	Name         string  `json:"name" validate:"required,min=1,max=255"`
	Bio          *string `json:"bio" validate:"omitempty,max=1000"`
	Location     *string `json:"location" validate:"omitempty,max=255"`
	PortfolioURL *string `json:"portfolio_url" validate:"omitempty,url,max=255"`
}

// BadgeCountsDTO is the derived gold/silver/bronze tally
type BadgeCountsDTO struct {
	Gold   int `json:"gold"`
	Silver int `json:"silver"`
	Bronze int `json:"bronze"`
}

// TopQuestionItem is one entry of a user's most viewed questions
type TopQuestionItem struct {
	UUID      string `json:"uuid"`
	Title     string `json:"title"`
	Views     int64  `json:"views"`
	CreatedAt string `json:"created_at"`
}

// TopAnswerItem is one entry of a user's highest scored answers
type TopAnswerItem struct {
	UUID          string `json:"uuid"`
	QuestionUUID  string `json:"question_uuid"`
	QuestionTitle string `json:"question_title"`
	Snippet       string `json:"snippet"`
	CreatedAt     string `json:"created_at"`
}

// TopPostsResponse lists a user's top questions (by views) and top
// answers (by net vote score)
type TopPostsResponse struct {
	Message   string            `json:"message"`
	Username  string            `json:"username"`
	Questions []TopQuestionItem `json:"questions"`
	Answers   []TopAnswerItem   `json:"answers"`
}

// UserStatsResponse represents the derived counters, reputation and badges
// of a user. Everything here is recomputed per request.
type UserStatsResponse struct {
	Message         string         `json:"message"`
	Username        string         `json:"username"`
	QuestionCount   int64          `json:"question_count"`
	AnswerCount     int64          `json:"answer_count"`
	QuestionUpvotes int64          `json:"question_upvotes"`
	AnswerUpvotes   int64          `json:"answer_upvotes"`
	TotalViews      int64          `json:"total_views"`
	Reputation      int64          `json:"reputation"`
	Badges          BadgeCountsDTO `json:"badges"`
}
