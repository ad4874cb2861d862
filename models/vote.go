// Package models contains domain entities and business models for the Q&A platform
package models

import (
	"time"
)

// Vote target and kind constants. A target's upvoter set is the rows with
// KindUp, the downvoter set the rows with KindDown; the composite unique key
// guarantees a user is never in both sets at once.
const (
	VoteTargetQuestion = "question"
	VoteTargetAnswer   = "answer"

	VoteKindUp   = "up"
	VoteKindDown = "down"
)

type Vote struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	TargetType string `gorm:"size:10;not null;uniqueIndex:uk_votes_target_user;index:idx_votes_target" json:"target_type"`
	TargetID   uint   `gorm:"not null;uniqueIndex:uk_votes_target_user;index:idx_votes_target" json:"target_id"`
	UserID     uint   `gorm:"not null;uniqueIndex:uk_votes_target_user;index:idx_votes_user_id" json:"user_id"`
	User       User   `gorm:"foreignKey:UserID;references:ID" json:"-"`
	Kind       string `gorm:"size:4;not null;index:idx_votes_kind" json:"kind"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Vote) TableName() string {
	return "votes"
}

// VoteFilter represents filter criteria for vote queries
type VoteFilter struct {
	ID         *uint
	TargetType *string
	TargetID   *uint
	UserID     *uint
	Kind       *string
}

// VoteCounts carries the tallies plus the calling user's membership state.
// It is both the query result and the optimistic-update payload the client
// applies (and reverts) around the authoritative write.
type VoteCounts struct {
	Upvotes      int64 `json:"upvotes"`
	Downvotes    int64 `json:"downvotes"`
	HasUpvoted   bool  `json:"has_upvoted"`
	HasDownvoted bool  `json:"has_downvoted"`
}

// IsValidVoteKind reports whether k is a recognized vote kind.
func IsValidVoteKind(k string) bool {
	return k == VoteKindUp || k == VoteKindDown
}

// IsValidVoteTarget reports whether t is a recognized vote target type.
func IsValidVoteTarget(t string) bool {
	return t == VoteTargetQuestion || t == VoteTargetAnswer
}
