// Package businessflow contains the core business logic and use cases for the Q&A platform
package businessflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/amirphl/Porseman/app/dto"
	"github.com/amirphl/Porseman/app/services"
	"github.com/amirphl/Porseman/models"
	"github.com/amirphl/Porseman/repository"
	"github.com/amirphl/Porseman/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AnswerFlow handles answer lifecycle operations
type AnswerFlow interface {
	Post(ctx context.Context, questionUUID uuid.UUID, userID uint, req *dto.PostAnswerRequest, metadata *ClientMetadata) (*dto.PostAnswerResponse, error)
	List(ctx context.Context, questionUUID uuid.UUID, userID uint, req *dto.ListAnswersRequest) (*dto.ListAnswersResponse, error)
	Delete(ctx context.Context, answerUUID uuid.UUID, userID uint, metadata *ClientMetadata) error
}

// AnswerFlowImpl implements the answer business flow
type AnswerFlowImpl struct {
	answerRepo      repository.AnswerRepository
	questionRepo    repository.QuestionRepository
	userRepo        repository.UserRepository
	voteRepo        repository.VoteRepository
	interactionRepo repository.InteractionRepository
	auditRepo       repository.AuditLogRepository
	notificationSvc services.NotificationService
	db              *gorm.DB
}

// NewAnswerFlow creates a new answer flow instance
func NewAnswerFlow(
	answerRepo repository.AnswerRepository,
	questionRepo repository.QuestionRepository,
	userRepo repository.UserRepository,
	voteRepo repository.VoteRepository,
	interactionRepo repository.InteractionRepository,
	auditRepo repository.AuditLogRepository,
	notificationSvc services.NotificationService,
	db *gorm.DB,
) AnswerFlow {
	return &AnswerFlowImpl{
		answerRepo:      answerRepo,
		questionRepo:    questionRepo,
		userRepo:        userRepo,
		voteRepo:        voteRepo,
		interactionRepo: interactionRepo,
		auditRepo:       auditRepo,
		notificationSvc: notificationSvc,
		db:              db,
	}
}

// Post creates an answer on a question and notifies the question author
func (af *AnswerFlowImpl) Post(ctx context.Context, questionUUID uuid.UUID, userID uint, req *dto.PostAnswerRequest, metadata *ClientMetadata) (*dto.PostAnswerResponse, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, NewBusinessError("ANSWER_VALIDATION_FAILED", "Answer validation failed", ErrEmptyAnswer)
	}

	question, err := af.questionRepo.ByUUID(ctx, questionUUID)
	if err != nil {
		return nil, NewBusinessError("POST_ANSWER_FAILED", "Post answer failed", err)
	}
	if question == nil {
		return nil, NewBusinessError("QUESTION_NOT_FOUND", "Question not found", ErrQuestionNotFound)
	}

	var answer *models.Answer

	err = repository.WithTransaction(ctx, af.db, func(txCtx context.Context) error {
		answer = &models.Answer{
			UUID:       uuid.New(),
			QuestionID: question.ID,
			AuthorID:   userID,
			Content:    req.Content,
		}
		if err := af.answerRepo.Save(txCtx, answer); err != nil {
			return err
		}

		interaction := &models.Interaction{
			UserID:     &userID,
			QuestionID: question.ID,
			Action:     models.InteractionAnswer,
		}
		return af.interactionRepo.Save(txCtx, interaction)
	})

	if err != nil {
		errMsg := fmt.Sprintf("Post answer failed: %s", err.Error())
		_ = af.logAnswerAction(ctx, &userID, models.AuditActionAnswerPosted, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("POST_ANSWER_FAILED", "Post answer failed", err)
	}

	msg := fmt.Sprintf("Answer posted successfully: %d", answer.ID)
	_ = af.logAnswerAction(ctx, &userID, models.AuditActionAnswerPosted, msg, true, nil, metadata)

	// Notify the question author outside the transaction; a mail failure
	// never rolls back the answer
	if question.AuthorID != userID {
		go af.notifyQuestionAuthor(question, answer)
	}

	author, err := af.userRepo.ByID(ctx, userID)
	if err != nil {
		return nil, NewBusinessError("POST_ANSWER_FAILED", "Post answer failed", err)
	}

	authorName := fmt.Sprintf("user-%d", userID)
	if author != nil {
		authorName = author.Username
	}

	return &dto.PostAnswerResponse{
		Message: "Answer posted successfully.",
		Answer: dto.AnswerItem{
			UUID:      answer.UUID.String(),
			Content:   answer.Content,
			Author:    authorName,
			Votes:     dto.VoteState{},
			CreatedAt: answer.CreatedAt.Format(time.RFC3339),
		},
	}, nil
}

// List returns a page of answers with per-answer vote state
func (af *AnswerFlowImpl) List(ctx context.Context, questionUUID uuid.UUID, userID uint, req *dto.ListAnswersRequest) (*dto.ListAnswersResponse, error) {
	page, pageSize, err := normalizePagination(req.Page, req.PageSize)
	if err != nil {
		return nil, NewBusinessError("LIST_ANSWERS_VALIDATION_FAILED", "List answers validation failed", err)
	}

	question, err := af.questionRepo.ByUUID(ctx, questionUUID)
	if err != nil {
		return nil, NewBusinessError("LIST_ANSWERS_FAILED", "List answers failed", err)
	}
	if question == nil {
		return nil, NewBusinessError("QUESTION_NOT_FOUND", "Question not found", ErrQuestionNotFound)
	}

	answers, err := af.answerRepo.ListByQuestion(ctx, question.ID, req.OrderBy, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, NewBusinessError("LIST_ANSWERS_FAILED", "List answers failed", err)
	}

	total, err := af.answerRepo.Count(ctx, models.AnswerFilter{QuestionID: &question.ID})
	if err != nil {
		return nil, NewBusinessError("LIST_ANSWERS_FAILED", "List answers failed", err)
	}

	items := make([]dto.AnswerItem, 0, len(answers))
	for _, a := range answers {
		counts, err := af.voteRepo.CountsForTarget(ctx, models.VoteTargetAnswer, a.ID, userID)
		if err != nil {
			return nil, NewBusinessError("LIST_ANSWERS_FAILED", "List answers failed", err)
		}

		authorName := a.Author.Username
		if authorName == "" {
			authorName = fmt.Sprintf("user-%d", a.AuthorID)
		}

		items = append(items, dto.AnswerItem{
			UUID:      a.UUID.String(),
			Content:   a.Content,
			Author:    authorName,
			Votes:     ToVoteState(*counts),
			CreatedAt: a.CreatedAt.Format(time.RFC3339),
		})
	}

	return &dto.ListAnswersResponse{
		Message:  "Answers retrieved successfully.",
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// Delete removes the caller's own answer along with its votes
func (af *AnswerFlowImpl) Delete(ctx context.Context, answerUUID uuid.UUID, userID uint, metadata *ClientMetadata) error {
	answer, err := af.answerRepo.ByUUID(ctx, answerUUID)
	if err != nil {
		return NewBusinessError("DELETE_ANSWER_FAILED", "Delete answer failed", err)
	}
	if answer == nil {
		return NewBusinessError("ANSWER_NOT_FOUND", "Answer not found", ErrAnswerNotFound)
	}
	if answer.AuthorID != userID {
		return NewBusinessError("ANSWER_ACCESS_DENIED", "Answer access denied", ErrAnswerAccessDenied)
	}

	err = repository.WithTransaction(ctx, af.db, func(txCtx context.Context) error {
		return af.answerRepo.Delete(txCtx, answer.ID)
	})

	if err != nil {
		errMsg := fmt.Sprintf("Delete answer failed: %s", err.Error())
		_ = af.logAnswerAction(ctx, &userID, models.AuditActionAnswerDeleted, errMsg, false, &errMsg, metadata)

		return NewBusinessError("DELETE_ANSWER_FAILED", "Delete answer failed", err)
	}

	msg := fmt.Sprintf("Answer deleted successfully: %d", answer.ID)
	_ = af.logAnswerAction(ctx, &userID, models.AuditActionAnswerDeleted, msg, true, nil, metadata)

	return nil
}

// Private helper methods

func (af *AnswerFlowImpl) notifyQuestionAuthor(question *models.Question, answer *models.Answer) {
	author, err := af.userRepo.ByID(context.Background(), question.AuthorID)
	if err != nil || author == nil {
		return
	}

	snippet := utils.TruncateRunes(answer.Content, 200)

	subject := "Your question received a new answer"
	body := fmt.Sprintf("Your question %q has a new answer:\n\n%s", question.Title, snippet)
	_ = af.notificationSvc.SendEmail(author.Email, subject, body)
}

func (af *AnswerFlowImpl) logAnswerAction(ctx context.Context, userID *uint, action string, description string, success bool, errMsg *string, metadata *ClientMetadata) error {
	ipAddress := "127.0.0.1"
	userAgent := ""
	if metadata != nil {
		ipAddress = metadata.IPAddress
		userAgent = metadata.UserAgent
	}

	audit := &models.AuditLog{
		UserID:       userID,
		Action:       action,
		Description:  &description,
		Success:      utils.ToPtr(success),
		IPAddress:    &ipAddress,
		UserAgent:    &userAgent,
		ErrorMessage: errMsg,
	}

	requestID := ctx.Value(RequestIDKey)
	if requestID != nil {
		requestIDStr, ok := requestID.(string)
		if ok {
			audit.RequestID = &requestIDStr
		}
	}

	return af.auditRepo.Save(ctx, audit)
}
