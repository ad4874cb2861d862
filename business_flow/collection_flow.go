// Package businessflow contains the core business logic and use cases for the Q&A platform
package businessflow

import (
	"context"
	"fmt"
	"time"

	"github.com/amirphl/Porseman/app/dto"
	"github.com/amirphl/Porseman/models"
	"github.com/amirphl/Porseman/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CollectionFlow handles a user's saved-question collection
type CollectionFlow interface {
	ToggleSave(ctx context.Context, questionUUID uuid.UUID, userID uint) (*dto.ToggleSaveResponse, error)
	ListSaved(ctx context.Context, userID uint, req *dto.ListSavedQuestionsRequest) (*dto.ListSavedQuestionsResponse, error)
}

// CollectionFlowImpl implements the collection business flow
type CollectionFlowImpl struct {
	savedRepo    repository.SavedQuestionRepository
	questionRepo repository.QuestionRepository
	answerRepo   repository.AnswerRepository
	tagRepo      repository.TagRepository
	db           *gorm.DB
}

// NewCollectionFlow creates a new collection flow instance
func NewCollectionFlow(
	savedRepo repository.SavedQuestionRepository,
	questionRepo repository.QuestionRepository,
	answerRepo repository.AnswerRepository,
	tagRepo repository.TagRepository,
	db *gorm.DB,
) CollectionFlow {
	return &CollectionFlowImpl{
		savedRepo:    savedRepo,
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
		tagRepo:      tagRepo,
		db:           db,
	}
}

// ToggleSave adds the question to the caller's collection, or removes it if
// already present. The unique key on (user_id, question_id) keeps the
// collection duplicate free.
func (cf *CollectionFlowImpl) ToggleSave(ctx context.Context, questionUUID uuid.UUID, userID uint) (*dto.ToggleSaveResponse, error) {
	question, err := cf.questionRepo.ByUUID(ctx, questionUUID)
	if err != nil {
		return nil, NewBusinessError("TOGGLE_SAVE_FAILED", "Toggle save failed", err)
	}
	if question == nil {
		return nil, NewBusinessError("QUESTION_NOT_FOUND", "Question not found", ErrQuestionNotFound)
	}

	var saved bool

	err = repository.WithTransaction(ctx, cf.db, func(txCtx context.Context) error {
		existing, err := cf.savedRepo.ByUserAndQuestion(txCtx, userID, question.ID)
		if err != nil {
			return err
		}

		if existing != nil {
			saved = false
			return cf.savedRepo.Delete(txCtx, existing.ID)
		}

		saved = true
		return cf.savedRepo.Save(txCtx, &models.SavedQuestion{
			UserID:     userID,
			QuestionID: question.ID,
		})
	})

	if err != nil {
		return nil, NewBusinessError("TOGGLE_SAVE_FAILED", "Toggle save failed", err)
	}

	message := "Question removed from collection."
	if saved {
		message = "Question saved to collection."
	}

	return &dto.ToggleSaveResponse{
		Message: message,
		Saved:   saved,
	}, nil
}

// ListSaved returns the caller's saved questions, most recently saved first
func (cf *CollectionFlowImpl) ListSaved(ctx context.Context, userID uint, req *dto.ListSavedQuestionsRequest) (*dto.ListSavedQuestionsResponse, error) {
	page, pageSize, err := normalizePagination(req.Page, req.PageSize)
	if err != nil {
		return nil, NewBusinessError("LIST_SAVED_VALIDATION_FAILED", "List saved questions validation failed", err)
	}

	questions, err := cf.savedRepo.ListQuestionsByUser(ctx, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, NewBusinessError("LIST_SAVED_FAILED", "List saved questions failed", err)
	}

	total, err := cf.savedRepo.Count(ctx, models.SavedQuestionFilter{UserID: &userID})
	if err != nil {
		return nil, NewBusinessError("LIST_SAVED_FAILED", "List saved questions failed", err)
	}

	items := make([]dto.QuestionItem, 0, len(questions))
	for _, q := range questions {
		answerCount, err := cf.answerRepo.Count(ctx, models.AnswerFilter{QuestionID: &q.ID})
		if err != nil {
			return nil, NewBusinessError("LIST_SAVED_FAILED", "List saved questions failed", err)
		}

		tags, err := cf.tagRepo.ListByQuestion(ctx, q.ID)
		if err != nil {
			return nil, NewBusinessError("LIST_SAVED_FAILED", "List saved questions failed", err)
		}

		author := q.Author.Username
		if author == "" {
			author = fmt.Sprintf("user-%d", q.AuthorID)
		}

		items = append(items, dto.QuestionItem{
			UUID:        q.UUID.String(),
			Title:       q.Title,
			Author:      author,
			Views:       q.Views,
			AnswerCount: answerCount,
			Tags:        ToTagItems(tags),
			CreatedAt:   q.CreatedAt.Format(time.RFC3339),
		})
	}

	return &dto.ListSavedQuestionsResponse{
		Message:  "Saved questions retrieved successfully.",
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}
