// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"

	"github.com/amirphl/Porseman/models"
	"gorm.io/gorm"
)

// InteractionRepositoryImpl implements InteractionRepository interface
type InteractionRepositoryImpl struct {
	*BaseRepository[models.Interaction, models.InteractionFilter]
}

// NewInteractionRepository creates a new interaction repository
func NewInteractionRepository(db *gorm.DB) InteractionRepository {
	return &InteractionRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Interaction, models.InteractionFilter](db),
	}
}

// applyFilter applies filter criteria to a GORM query
func (r *InteractionRepositoryImpl) applyFilter(query *gorm.DB, filter models.InteractionFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.QuestionID != nil {
		query = query.Where("question_id = ?", *filter.QuestionID)
	}
	if filter.Action != nil {
		query = query.Where("action = ?", *filter.Action)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	return query
}

// ByFilter retrieves interactions based on filter criteria
func (r *InteractionRepositoryImpl) ByFilter(ctx context.Context, filter models.InteractionFilter, orderBy string, limit, offset int) ([]*models.Interaction, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Interaction{}), filter)

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

	var rows []*models.Interaction
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of interactions matching the filter
func (r *InteractionRepositoryImpl) Count(ctx context.Context, filter models.InteractionFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Interaction{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any interaction matching the filter exists
func (r *InteractionRepositoryImpl) Exists(ctx context.Context, filter models.InteractionFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
