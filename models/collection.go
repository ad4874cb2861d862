// Package models contains domain entities and business models for the Q&A platform
package models

import "time"

// SavedQuestion is a join row in a user's saved-questions collection.
// UNIQUE(user_id, question_id) gives toggle-save set semantics.
type SavedQuestion struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:uk_saved_user_question;index:idx_saved_user_id" json:"user_id"`
	User       User      `gorm:"foreignKey:UserID;references:ID" json:"-"`
	QuestionID uint      `gorm:"not null;uniqueIndex:uk_saved_user_question;index:idx_saved_question_id" json:"question_id"`
	Question   Question  `gorm:"foreignKey:QuestionID;references:ID" json:"question,omitempty"`
	CreatedAt  time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_saved_created_at" json:"created_at"`
}

func (SavedQuestion) TableName() string { return "saved_questions" }

// SavedQuestionFilter represents filter criteria for saved-question queries
type SavedQuestionFilter struct {
	ID            *uint
	UserID        *uint
	QuestionID    *uint
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
