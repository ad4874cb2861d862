// Package models contains domain entities and business models for the Q&A platform
package models

import (
	"time"

	"github.com/google/uuid"
)

// Answer is a votable target, like Question.
type Answer struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UUID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_answers_uuid;index:idx_answers_uuid" json:"uuid"`
	QuestionID uint      `gorm:"not null;index:idx_answers_question_id" json:"question_id"`
	Question   Question  `gorm:"foreignKey:QuestionID;references:ID" json:"question,omitempty"`
	AuthorID   uint      `gorm:"not null;index:idx_answers_author_id" json:"author_id"`
	Author     User      `gorm:"foreignKey:AuthorID;references:ID" json:"author,omitempty"`
	Content    string    `gorm:"type:text;not null" json:"content"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_answers_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Answer) TableName() string {
	return "answers"
}

// AnswerFilter represents filter criteria for answer queries
type AnswerFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	QuestionID    *uint
	AuthorID      *uint
	ContentSearch *string // case-insensitive substring on content
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

// Answer list orderings exposed by the API
const (
	AnswerOrderNewest  = "newest"
	AnswerOrderOldest  = "oldest"
	AnswerOrderPopular = "popular" // by net vote score
)
