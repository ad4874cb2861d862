// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"

	"github.com/amirphl/Porseman/models"
	"github.com/amirphl/Porseman/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TagRepositoryImpl implements TagRepository interface
type TagRepositoryImpl struct {
	*BaseRepository[models.Tag, models.TagFilter]
}

// NewTagRepository creates a new tag repository
func NewTagRepository(db *gorm.DB) TagRepository {
	return &TagRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Tag, models.TagFilter](db),
	}
}

// ByNameFold retrieves a tag by case-insensitive exact name match
func (r *TagRepositoryImpl) ByNameFold(ctx context.Context, name string) (*models.Tag, error) {
	filter := models.TagFilter{Name: &name}
	rows, err := r.ByFilter(ctx, filter, "id ASC", 1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to find tag by name: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// AttachQuestion records the question id against the tag. Set semantics: a
// duplicate attach is a no-op, enforced by the composite primary key and
// ON CONFLICT DO NOTHING.
func (r *TagRepositoryImpl) AttachQuestion(ctx context.Context, tagID, questionID uint) error {
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

	row := models.QuestionTag{TagID: tagID, QuestionID: questionID, CreatedAt: utils.UTCNow()}
	err = db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to attach question to tag: %w", err)
	}
	return nil
}

// ListPopular ranks tags by referencing-question count descending.
// Ties break by tag id ascending so repeated calls return the same order.
func (r *TagRepositoryImpl) ListPopular(ctx context.Context, limit, offset int) ([]*models.TagWithCount, error) {
	db := r.getDB(ctx)

	query := db.Model(&models.Tag{}).
		Select("tags.id, tags.name, COUNT(question_tags.question_id) AS question_count").
		Joins("LEFT JOIN question_tags ON question_tags.tag_id = tags.id").
		Group("tags.id, tags.name").
		Order("question_count DESC, tags.id ASC")

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.TagWithCount
	if err := query.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list popular tags: %w", err)
	}
	return rows, nil
}

// SearchByName retrieves tags whose name contains the query, case-insensitively
func (r *TagRepositoryImpl) SearchByName(ctx context.Context, query string, limit int) ([]*models.Tag, error) {
	db := r.getDB(ctx)

	var rows []*models.Tag
	pattern := "%" + utils.EscapeLike(query) + "%"
	q := db.Model(&models.Tag{}).
		Where("name ILIKE ?", pattern).
		Order("id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to search tags: %w", err)
	}
	return rows, nil
}

// ListByQuestion retrieves the tags attached to a question
func (r *TagRepositoryImpl) ListByQuestion(ctx context.Context, questionID uint) ([]*models.Tag, error) {
	db := r.getDB(ctx)

	var rows []*models.Tag
	err := db.Model(&models.Tag{}).
		Joins("JOIN question_tags ON question_tags.tag_id = tags.id").
		Where("question_tags.question_id = ?", questionID).
		Order("tags.id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tags of question: %w", err)
	}
	return rows, nil
}

// CountQuestions returns the size of a tag's question set
func (r *TagRepositoryImpl) CountQuestions(ctx context.Context, tagID uint) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	err := db.Model(&models.QuestionTag{}).
		Where("tag_id = ?", tagID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count tag questions: %w", err)
	}
	return count, nil
}

// applyFilter applies filter criteria to a GORM query
func (r *TagRepositoryImpl) applyFilter(query *gorm.DB, filter models.TagFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.Name != nil {
		query = query.Where("LOWER(name) = LOWER(?)", *filter.Name)
	}
	if filter.NameSearch != nil {
		query = query.Where("name ILIKE ?", "%"+utils.EscapeLike(*filter.NameSearch)+"%")
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	return query
}

// ByFilter retrieves tags based on filter criteria
func (r *TagRepositoryImpl) ByFilter(ctx context.Context, filter models.TagFilter, orderBy string, limit, offset int) ([]*models.Tag, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Tag{}), filter)

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

	var rows []*models.Tag
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of tags matching the filter
func (r *TagRepositoryImpl) Count(ctx context.Context, filter models.TagFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Tag{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any tag matching the filter exists
func (r *TagRepositoryImpl) Exists(ctx context.Context, filter models.TagFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
