// Package models contains domain entities and business models for the Q&A platform
package models

import (
	"time"

	"github.com/amirphl/Porseman/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MediaAsset stores a processed avatar image.
type MediaAsset struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID        uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`
	OwnerID     uint      `gorm:"not null;index" json:"owner_id"`
	ContentType string    `gorm:"type:varchar(100);not null" json:"content_type"`
	Width       int       `gorm:"not null" json:"width"`
	Height      int       `gorm:"not null" json:"height"`
	SizeBytes   int64     `gorm:"type:bigint;not null" json:"size_bytes"`
	Data        []byte    `gorm:"type:bytea;not null" json:"-"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	Owner *User `gorm:"foreignKey:OwnerID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

func (MediaAsset) TableName() string { return "media_assets" }

// BeforeCreate ensures UUID and timestamps are set.
func (m *MediaAsset) BeforeCreate(tx *gorm.DB) error {
	if m.UUID == uuid.Nil {
		m.UUID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = utils.UTCNow()
	}
	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = utils.UTCNow()
	}
	return nil
}

// MediaAssetFilter represents filter criteria for media asset queries
type MediaAssetFilter struct {
	ID            *uint      `json:"id,omitempty"`
	UUID          *uuid.UUID `json:"uuid,omitempty"`
	OwnerID       *uint      `json:"owner_id,omitempty"`
	CreatedAfter  *time.Time `json:"created_after,omitempty"`
	CreatedBefore *time.Time `json:"created_before,omitempty"`
}
