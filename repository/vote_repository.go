// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"

	"github.com/amirphl/Porseman/models"
	"github.com/amirphl/Porseman/utils"
	"gorm.io/gorm"
)

// VoteRepositoryImpl implements VoteRepository interface
type VoteRepositoryImpl struct {
	*BaseRepository[models.Vote, models.VoteFilter]
}

// NewVoteRepository creates a new vote repository
func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &VoteRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Vote, models.VoteFilter](db),
	}
}

// ByTargetAndUser retrieves the caller's vote row on a target, if any.
// UNIQUE(target_type, target_id, user_id) guarantees at most one row, which
// is what keeps a user out of the upvoter and downvoter sets simultaneously.
func (r *VoteRepositoryImpl) ByTargetAndUser(ctx context.Context, targetType string, targetID, userID uint) (*models.Vote, error) {
	filter := models.VoteFilter{TargetType: &targetType, TargetID: &targetID, UserID: &userID}
	rows, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to find vote: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// CountsForTarget tallies both sets of a target and the caller's membership
func (r *VoteRepositoryImpl) CountsForTarget(ctx context.Context, targetType string, targetID, userID uint) (*models.VoteCounts, error) {
	db := r.getDB(ctx)

	type tally struct {
		Kind  string
		Total int64
	}
	var tallies []tally
	err := db.Model(&models.Vote{}).
		Select("kind, COUNT(*) AS total").
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Group("kind").
		Scan(&tallies).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count votes: %w", err)
	}

	counts := &models.VoteCounts{}
	for _, t := range tallies {
		switch t.Kind {
		case models.VoteKindUp:
			counts.Upvotes = t.Total
		case models.VoteKindDown:
			counts.Downvotes = t.Total
		}
	}

	if userID != 0 {
		own, err := r.ByTargetAndUser(ctx, targetType, targetID, userID)
		if err != nil {
			return nil, err
		}
		if own != nil {
			counts.HasUpvoted = own.Kind == models.VoteKindUp
			counts.HasDownvoted = own.Kind == models.VoteKindDown
		}
	}
	return counts, nil
}

// UpdateKind flips an existing vote row to the other kind. Within a single
// row this cannot leave the user in both sets: the row is the membership.
func (r *VoteRepositoryImpl) UpdateKind(ctx context.Context, voteID uint, kind string) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	err = db.Model(&models.Vote{}).
		Where("id = ?", voteID).
		Updates(map[string]any{
			"kind":       kind,
			"updated_at": utils.UTCNow(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update vote kind: %w", err)
	}
	return nil
}

// Delete retracts a vote
func (r *VoteRepositoryImpl) Delete(ctx context.Context, voteID uint) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	err = db.Delete(&models.Vote{}, voteID).Error
	if err != nil {
		return fmt.Errorf("failed to delete vote: %w", err)
	}
	return nil
}

// CountUpvotesReceivedOnQuestions derives the questionUpvoteTotal counter for an author
func (r *VoteRepositoryImpl) CountUpvotesReceivedOnQuestions(ctx context.Context, authorID uint) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	err := db.Model(&models.Vote{}).
		Joins("JOIN questions ON questions.id = votes.target_id").
		Where("votes.target_type = ? AND votes.kind = ? AND questions.author_id = ?",
			models.VoteTargetQuestion, models.VoteKindUp, authorID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count question upvotes: %w", err)
	}
	return count, nil
}

// CountUpvotesReceivedOnAnswers derives the answerUpvoteTotal counter for an author
func (r *VoteRepositoryImpl) CountUpvotesReceivedOnAnswers(ctx context.Context, authorID uint) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	err := db.Model(&models.Vote{}).
		Joins("JOIN answers ON answers.id = votes.target_id").
		Where("votes.target_type = ? AND votes.kind = ? AND answers.author_id = ?",
			models.VoteTargetAnswer, models.VoteKindUp, authorID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count answer upvotes: %w", err)
	}
	return count, nil
}

// NetScoreForAnswers returns upvotes minus downvotes for each given answer id
func (r *VoteRepositoryImpl) NetScoreForAnswers(ctx context.Context, answerIDs []uint) (map[uint]int64, error) {
	scores := make(map[uint]int64, len(answerIDs))
	if len(answerIDs) == 0 {
		return scores, nil
	}

	db := r.getDB(ctx)

	type row struct {
		TargetID uint
		Score    int64
	}
	var rows []row
	err := db.Model(&models.Vote{}).
		Select("target_id, SUM(CASE WHEN kind = 'up' THEN 1 ELSE -1 END) AS score").
		Where("target_type = ? AND target_id IN ?", models.VoteTargetAnswer, answerIDs).
		Group("target_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to score answers: %w", err)
	}
	for _, r := range rows {
		scores[r.TargetID] = r.Score
	}
	return scores, nil
}

// applyFilter applies filter criteria to a GORM query
func (r *VoteRepositoryImpl) applyFilter(query *gorm.DB, filter models.VoteFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.TargetType != nil {
		query = query.Where("target_type = ?", *filter.TargetType)
	}
	if filter.TargetID != nil {
		query = query.Where("target_id = ?", *filter.TargetID)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Kind != nil {
		query = query.Where("kind = ?", *filter.Kind)
	}
	return query
}

// ByFilter retrieves votes based on filter criteria
func (r *VoteRepositoryImpl) ByFilter(ctx context.Context, filter models.VoteFilter, orderBy string, limit, offset int) ([]*models.Vote, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Vote{}), filter)

	if orderBy == "" {
		orderBy = "id DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Vote
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of votes matching the filter
func (r *VoteRepositoryImpl) Count(ctx context.Context, filter models.VoteFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Vote{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any vote matching the filter exists
func (r *VoteRepositoryImpl) Exists(ctx context.Context, filter models.VoteFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
