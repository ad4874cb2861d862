// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"

	"github.com/amirphl/Porseman/models"
	"gorm.io/gorm"
)

// SavedQuestionRepositoryImpl implements SavedQuestionRepository interface
type SavedQuestionRepositoryImpl struct {
	*BaseRepository[models.SavedQuestion, models.SavedQuestionFilter]
}

// NewSavedQuestionRepository creates a new saved-question repository
func NewSavedQuestionRepository(db *gorm.DB) SavedQuestionRepository {
	return &SavedQuestionRepositoryImpl{
		BaseRepository: NewBaseRepository[models.SavedQuestion, models.SavedQuestionFilter](db),
	}
}

// ByUserAndQuestion retrieves the saved row for (user, question), if any
func (r *SavedQuestionRepositoryImpl) ByUserAndQuestion(ctx context.Context, userID, questionID uint) (*models.SavedQuestion, error) {
	filter := models.SavedQuestionFilter{UserID: &userID, QuestionID: &questionID}
	rows, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to find saved question: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// ListQuestionsByUser retrieves the questions in a user's collection,
// most recently saved first.
func (r *SavedQuestionRepositoryImpl) ListQuestionsByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Question, error) {
	db := r.getDB(ctx)

	query := db.Model(&models.Question{}).
		Joins("JOIN saved_questions ON saved_questions.question_id = questions.id").
		Where("saved_questions.user_id = ?", userID).
		Order("saved_questions.created_at DESC, saved_questions.id DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Question
	if err := query.Preload("Author").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list saved questions: %w", err)
	}
	return rows, nil
}

// Delete removes a saved row (unsave)
func (r *SavedQuestionRepositoryImpl) Delete(ctx context.Context, savedID uint) error {
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

	err = db.Delete(&models.SavedQuestion{}, savedID).Error
	if err != nil {
		return fmt.Errorf("failed to delete saved question: %w", err)
	}
	return nil
}

// applyFilter applies filter criteria to a GORM query
func (r *SavedQuestionRepositoryImpl) applyFilter(query *gorm.DB, filter models.SavedQuestionFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.QuestionID != nil {
		query = query.Where("question_id = ?", *filter.QuestionID)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	return query
}

// ByFilter retrieves saved rows based on filter criteria
func (r *SavedQuestionRepositoryImpl) ByFilter(ctx context.Context, filter models.SavedQuestionFilter, orderBy string, limit, offset int) ([]*models.SavedQuestion, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.SavedQuestion{}), filter)

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

	var rows []*models.SavedQuestion
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of saved rows matching the filter
func (r *SavedQuestionRepositoryImpl) Count(ctx context.Context, filter models.SavedQuestionFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.SavedQuestion{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any saved row matching the filter exists
func (r *SavedQuestionRepositoryImpl) Exists(ctx context.Context, filter models.SavedQuestionFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
