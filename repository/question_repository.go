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

// QuestionRepositoryImpl implements QuestionRepository interface
type QuestionRepositoryImpl struct {
	*BaseRepository[models.Question, models.QuestionFilter]
}

// NewQuestionRepository creates a new question repository
func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &QuestionRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Question, models.QuestionFilter](db),
	}
}

// ByUUID retrieves a question by public UUID
func (r *QuestionRepositoryImpl) ByUUID(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	filter := models.QuestionFilter{UUID: &id}
	rows, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to find question by uuid: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// SearchByTitle retrieves questions whose title contains the query, case-insensitively
func (r *QuestionRepositoryImpl) SearchByTitle(ctx context.Context, query string, limit int) ([]*models.Question, error) {
	db := r.getDB(ctx)

	var rows []*models.Question
	pattern := "%" + utils.EscapeLike(query) + "%"
	q := db.Model(&models.Question{}).
		Where("title ILIKE ?", pattern).
		Order("id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to search questions: %w", err)
	}
	return rows, nil
}

// IncrementViews bumps the view counter by one and returns the new value.
// The UPDATE is a single-row read-modify-write; concurrent views rely on the
// database's row-level atomicity, not application locking.
func (r *QuestionRepositoryImpl) IncrementViews(ctx context.Context, questionID uint) (int64, error) {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return 0, err
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

	err = db.Model(&models.Question{}).
		Where("id = ?", questionID).
		Update("views", gorm.Expr("views + 1")).Error
	if err != nil {
		return 0, fmt.Errorf("failed to increment views: %w", err)
	}

	var views int64
	err = db.Model(&models.Question{}).
		Where("id = ?", questionID).
		Pluck("views", &views).Error
	if err != nil {
		return 0, fmt.Errorf("failed to read views: %w", err)
	}
	return views, nil
}

// Update persists the editable fields of a question
func (r *QuestionRepositoryImpl) Update(ctx context.Context, question *models.Question) error {
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

	err = db.Model(&models.Question{}).
		Where("id = ?", question.ID).
		Updates(map[string]any{
			"title":      question.Title,
			"content":    question.Content,
			"updated_at": utils.UTCNow(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update question: %w", err)
	}
	return nil
}

// Delete removes a question and its answers, votes and saved entries.
// Tag join rows are left in place: tags keep referencing deleted question
// ids and are never garbage collected.
func (r *QuestionRepositoryImpl) Delete(ctx context.Context, questionID uint) error {
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

	var answerIDs []uint
	if err = db.Model(&models.Answer{}).Where("question_id = ?", questionID).Pluck("id", &answerIDs).Error; err != nil {
		return fmt.Errorf("failed to list answers of question: %w", err)
	}
	if len(answerIDs) > 0 {
		if err = db.Where("target_type = ? AND target_id IN ?", models.VoteTargetAnswer, answerIDs).Delete(&models.Vote{}).Error; err != nil {
			return fmt.Errorf("failed to delete answer votes: %w", err)
		}
		if err = db.Where("question_id = ?", questionID).Delete(&models.Answer{}).Error; err != nil {
			return fmt.Errorf("failed to delete answers: %w", err)
		}
	}
	if err = db.Where("target_type = ? AND target_id = ?", models.VoteTargetQuestion, questionID).Delete(&models.Vote{}).Error; err != nil {
		return fmt.Errorf("failed to delete question votes: %w", err)
	}
	if err = db.Where("question_id = ?", questionID).Delete(&models.SavedQuestion{}).Error; err != nil {
		return fmt.Errorf("failed to delete saved entries: %w", err)
	}
	if err = db.Delete(&models.Question{}, questionID).Error; err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	return nil
}

// SumViewsByAuthor derives the author's total view counter at read time
func (r *QuestionRepositoryImpl) SumViewsByAuthor(ctx context.Context, authorID uint) (int64, error) {
	db := r.getDB(ctx)

	var total int64
	err := db.Model(&models.Question{}).
		Where("author_id = ?", authorID).
		Select("COALESCE(SUM(views), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum views: %w", err)
	}
	return total, nil
}

// applyFilter applies filter criteria to a GORM query
func (r *QuestionRepositoryImpl) applyFilter(query *gorm.DB, filter models.QuestionFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("questions.id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("questions.uuid = ?", *filter.UUID)
	}
	if filter.AuthorID != nil {
		query = query.Where("questions.author_id = ?", *filter.AuthorID)
	}
	if filter.TagID != nil {
		query = query.Joins("JOIN question_tags ON question_tags.question_id = questions.id").
			Where("question_tags.tag_id = ?", *filter.TagID)
	}
	if filter.TitleSearch != nil {
		query = query.Where("questions.title ILIKE ?", "%"+utils.EscapeLike(*filter.TitleSearch)+"%")
	}
	if filter.Unanswered != nil && *filter.Unanswered {
		query = query.Where("NOT EXISTS (SELECT 1 FROM answers WHERE answers.question_id = questions.id)")
	}
	if filter.CreatedAfter != nil {
		query = query.Where("questions.created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("questions.created_at < ?", *filter.CreatedBefore)
	}
	return query
}

// ByFilter retrieves questions based on filter criteria
func (r *QuestionRepositoryImpl) ByFilter(ctx context.Context, filter models.QuestionFilter, orderBy string, limit, offset int) ([]*models.Question, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Question{}), filter)

	if orderBy == "" {
		orderBy = "questions.id DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Question
	if err := query.Preload("Author").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of questions matching the filter
func (r *QuestionRepositoryImpl) Count(ctx context.Context, filter models.QuestionFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Question{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any question matching the filter exists
func (r *QuestionRepositoryImpl) Exists(ctx context.Context, filter models.QuestionFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
