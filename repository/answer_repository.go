// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"

	"github.com/amirphl/Porseman/models"
	"github.com/amirphl/Porseman/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AnswerRepositoryImpl implements AnswerRepository interface
type AnswerRepositoryImpl struct {
	*BaseRepository[models.Answer, models.AnswerFilter]
}

// NewAnswerRepository creates a new answer repository
func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &AnswerRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Answer, models.AnswerFilter](db),
	}
}

// ByUUID retrieves an answer by public UUID
func (r *AnswerRepositoryImpl) ByUUID(ctx context.Context, id uuid.UUID) (*models.Answer, error) {
	filter := models.AnswerFilter{UUID: &id}
	rows, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to find answer by uuid: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// ListByQuestion retrieves the answers of a question.
// orderBy "popular" sorts by net vote score (upvotes minus downvotes)
// descending with id ascending as the stable tiebreak.
func (r *AnswerRepositoryImpl) ListByQuestion(ctx context.Context, questionID uint, orderBy string, limit, offset int) ([]*models.Answer, error) {
	db := r.getDB(ctx)

	query := db.Model(&models.Answer{}).Where("answers.question_id = ?", questionID)

	switch orderBy {
	case models.AnswerOrderPopular:
		query = query.
			Joins("LEFT JOIN votes ON votes.target_type = ? AND votes.target_id = answers.id", models.VoteTargetAnswer).
			Group("answers.id").
			Order("COALESCE(SUM(CASE WHEN votes.kind = 'up' THEN 1 WHEN votes.kind = 'down' THEN -1 ELSE 0 END), 0) DESC, answers.id ASC")
	case models.AnswerOrderOldest:
		query = query.Order("answers.created_at ASC, answers.id ASC")
	default:
		query = query.Order("answers.created_at DESC, answers.id DESC")
	}

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Answer
	if err := query.Preload("Author").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list answers: %w", err)
	}
	return rows, nil
}

// ListTopByAuthor retrieves an author's answers ordered by net vote score
// descending, id ascending as the stable tiebreak. The parent question is
// preloaded for display.
func (r *AnswerRepositoryImpl) ListTopByAuthor(ctx context.Context, authorID uint, limit int) ([]*models.Answer, error) {
	db := r.getDB(ctx)

	query := db.Model(&models.Answer{}).
		Where("answers.author_id = ?", authorID).
		Joins("LEFT JOIN votes ON votes.target_type = ? AND votes.target_id = answers.id", models.VoteTargetAnswer).
		Group("answers.id").
		Order("COALESCE(SUM(CASE WHEN votes.kind = 'up' THEN 1 WHEN votes.kind = 'down' THEN -1 ELSE 0 END), 0) DESC, answers.id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []*models.Answer
	if err := query.Preload("Question").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list top answers: %w", err)
	}
	return rows, nil
}

// SearchByContent retrieves answers whose content contains the query, case-insensitively
func (r *AnswerRepositoryImpl) SearchByContent(ctx context.Context, query string, limit int) ([]*models.Answer, error) {
	db := r.getDB(ctx)

	var rows []*models.Answer
	pattern := "%" + utils.EscapeLike(query) + "%"
	q := db.Model(&models.Answer{}).
		Where("content ILIKE ?", pattern).
		Order("id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to search answers: %w", err)
	}
	return rows, nil
}

// Delete removes an answer together with its vote ledger rows
func (r *AnswerRepositoryImpl) Delete(ctx context.Context, answerID uint) error {
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

	if err = db.Where("target_type = ? AND target_id = ?", models.VoteTargetAnswer, answerID).Delete(&models.Vote{}).Error; err != nil {
		return fmt.Errorf("failed to delete answer votes: %w", err)
	}
	if err = db.Delete(&models.Answer{}, answerID).Error; err != nil {
		return fmt.Errorf("failed to delete answer: %w", err)
	}
	return nil
}

// applyFilter applies filter criteria to a GORM query
func (r *AnswerRepositoryImpl) applyFilter(query *gorm.DB, filter models.AnswerFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.QuestionID != nil {
		query = query.Where("question_id = ?", *filter.QuestionID)
	}
	if filter.AuthorID != nil {
		query = query.Where("author_id = ?", *filter.AuthorID)
	}
	if filter.ContentSearch != nil {
		query = query.Where("content ILIKE ?", "%"+utils.EscapeLike(*filter.ContentSearch)+"%")
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	return query
}

// ByFilter retrieves answers based on filter criteria
func (r *AnswerRepositoryImpl) ByFilter(ctx context.Context, filter models.AnswerFilter, orderBy string, limit, offset int) ([]*models.Answer, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Answer{}), filter)

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

	var rows []*models.Answer
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of answers matching the filter
func (r *AnswerRepositoryImpl) Count(ctx context.Context, filter models.AnswerFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Answer{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any answer matching the filter exists
func (r *AnswerRepositoryImpl) Exists(ctx context.Context, filter models.AnswerFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
