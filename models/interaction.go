// Package models contains domain entities and business models for the Q&A platform
package models

import "time"

// Interaction action constants
const (
	InteractionView     = "view"
	InteractionAsk      = "ask_question"
	InteractionAnswer   = "answer"
	InteractionUpvote   = "upvote"
	InteractionDownvote = "downvote"
)

// Interaction records a user touching a question. View rows back the
// per-question view counter audit trail; the aggregate viewTotal for user
// stats is derived from questions.views at read time, not from this table.
type Interaction struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	UserID     *uint    `gorm:"index:idx_interactions_user_id" json:"user_id,omitempty"` // nil for anonymous views
	User       *User    `gorm:"foreignKey:UserID;references:ID" json:"-"`
	QuestionID uint     `gorm:"not null;index:idx_interactions_question_id" json:"question_id"`
	Question   Question `gorm:"foreignKey:QuestionID;references:ID" json:"-"`
	Action     string   `gorm:"size:20;not null;index:idx_interactions_action" json:"action"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_interactions_created_at" json:"created_at"`
}

func (Interaction) TableName() string { return "interactions" }

// InteractionFilter represents filter criteria for interaction queries
type InteractionFilter struct {
	ID            *uint
	UserID        *uint
	QuestionID    *uint
	Action        *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
