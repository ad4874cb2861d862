// Package models contains domain entities and business models for the Q&A platform
package models

import (
	"time"

	"github.com/google/uuid"
)

// Question is a votable target. Its upvoter/downvoter sets live in the votes
// table partitioned by kind; see Vote.
type Question struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UUID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_questions_uuid;index:idx_questions_uuid" json:"uuid"`
	AuthorID uint      `gorm:"not null;index:idx_questions_author_id" json:"author_id"`
	Author   User      `gorm:"foreignKey:AuthorID;references:ID" json:"author,omitempty"`
	Title    string    `gorm:"size:150;not null;index:idx_questions_title" json:"title"`
	Content  string    `gorm:"type:text;not null" json:"content"`
	Views    int64     `gorm:"not null;default:0;index:idx_questions_views" json:"views"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_questions_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`

	// Relations
	Answers []Answer `gorm:"foreignKey:QuestionID" json:"-"`
	Tags    []Tag    `gorm:"many2many:question_tags;" json:"tags,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

// QuestionFilter represents filter criteria for question queries
type QuestionFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	AuthorID      *uint
	TagID         *uint
	TitleSearch   *string // case-insensitive substring on title
	Unanswered    *bool   // questions with no answers
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

// Question list orderings exposed by the API
const (
	QuestionOrderNewest   = "newest"
	QuestionOrderFrequent = "frequent" // by views
	QuestionOrderOldest   = "oldest"
)
