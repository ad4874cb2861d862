// Package models contains domain entities and business models for the Q&A platform
package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UUID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_users_uuid;index:idx_users_uuid" json:"uuid"`
	Username     string    `gorm:"size:30;not null;uniqueIndex:uk_users_username;index:idx_users_username" json:"username"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Email        string    `gorm:"size:255;not null;uniqueIndex:uk_users_email" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"` // Never serialize password hash

	// Optional profile fields
	Bio          *string `gorm:"type:text" json:"bio,omitempty"`
	Location     *string `gorm:"size:255" json:"location,omitempty"`
	PortfolioURL *string `gorm:"size:255" json:"portfolio_url,omitempty"`
	AvatarID     *uint   `gorm:"index:idx_users_avatar_id" json:"avatar_id,omitempty"`

	IsActive *bool `gorm:"default:true;index:idx_users_is_active" json:"is_active"`

	CreatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_users_created_at" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
	LastLoginAt *time.Time `gorm:"index:idx_users_last_login_at" json:"last_login_at,omitempty"`

	// Relations
	Questions []Question      `gorm:"foreignKey:AuthorID" json:"-"`
	Answers   []Answer        `gorm:"foreignKey:AuthorID" json:"-"`
	Sessions  []UserSession   `gorm:"foreignKey:UserID" json:"-"`
	Saved     []SavedQuestion `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserFilter represents filter criteria for user queries
type UserFilter struct {
	ID              *uint
	UUID            *uuid.UUID
	Username        *string
	Email           *string
	IsActive        *bool
	NameSearch      *string // case-insensitive substring on name or username
	CreatedAfter    *time.Time
	CreatedBefore   *time.Time
	LastLoginAfter  *time.Time
	LastLoginBefore *time.Time
}
