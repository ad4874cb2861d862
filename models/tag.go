// Package models contains domain entities and business models for the Q&A platform
package models

import "time"

// Tag represents a label attached to questions
// Table: tags
// Unique by lowercased name (case-insensitive upsert); the name is stored
// as the first author typed it.
// Name length limited to 30 characters
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:30;not null;index:idx_tags_name;index:uk_tags_name_lower,expression:lower(name),unique" json:"name"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_tags_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`

	Questions []Question `gorm:"many2many:question_tags;" json:"-"`
}

func (Tag) TableName() string { return "tags" }

// QuestionTag is the join row between a tag and a referencing question.
// The composite primary key gives the attach operation set semantics: a
// question id is never recorded against the same tag twice. Rows are never
// garbage collected when a question is deleted.
type QuestionTag struct {
	TagID      uint      `gorm:"primaryKey" json:"tag_id"`
	QuestionID uint      `gorm:"primaryKey;index:idx_question_tags_question_id" json:"question_id"`
	CreatedAt  time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
}

func (QuestionTag) TableName() string { return "question_tags" }

// TagFilter represents filter criteria for tag queries
type TagFilter struct {
	ID            *uint
	Name          *string // case-insensitive exact match
	NameSearch    *string // case-insensitive substring match
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

// TagWithCount is a tag together with how many questions reference it.
type TagWithCount struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	QuestionCount int64  `json:"question_count"`
}

// MaxTagNameLength bounds tag names at the validation layer.
const MaxTagNameLength = 30
