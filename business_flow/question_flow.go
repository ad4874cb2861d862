// Package businessflow contains the core business logic and use cases for the Q&A platform
package businessflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/amirphl/Porseman/app/dto"
	"github.com/amirphl/Porseman/config"
	"github.com/amirphl/Porseman/models"
	"github.com/amirphl/Porseman/repository"
	"github.com/amirphl/Porseman/utils"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// QuestionFlow handles question lifecycle operations
type QuestionFlow interface {
	Ask(ctx context.Context, userID uint, req *dto.AskQuestionRequest, metadata *ClientMetadata) (*dto.QuestionDetailResponse, error)
	Edit(ctx context.Context, questionUUID uuid.UUID, userID uint, req *dto.EditQuestionRequest, metadata *ClientMetadata) (*dto.QuestionDetailResponse, error)
	Delete(ctx context.Context, questionUUID uuid.UUID, userID uint, metadata *ClientMetadata) error
	Get(ctx context.Context, questionUUID uuid.UUID, userID uint) (*dto.QuestionDetailResponse, error)
	List(ctx context.Context, req *dto.ListQuestionsRequest) (*dto.ListQuestionsResponse, error)
	RecordView(ctx context.Context, questionUUID uuid.UUID, userID *uint) (*dto.ViewQuestionResponse, error)
}

// QuestionFlowImpl implements the question business flow
type QuestionFlowImpl struct {
	questionRepo    repository.QuestionRepository
	answerRepo      repository.AnswerRepository
	tagRepo         repository.TagRepository
	voteRepo        repository.VoteRepository
	savedRepo       repository.SavedQuestionRepository
	interactionRepo repository.InteractionRepository
	auditRepo       repository.AuditLogRepository
	cacheConfig     *config.CacheConfig
	rc              *redis.Client
	db              *gorm.DB
}

// NewQuestionFlow creates a new question flow instance
func NewQuestionFlow(
	questionRepo repository.QuestionRepository,
	answerRepo repository.AnswerRepository,
	tagRepo repository.TagRepository,
	voteRepo repository.VoteRepository,
	savedRepo repository.SavedQuestionRepository,
	interactionRepo repository.InteractionRepository,
	auditRepo repository.AuditLogRepository,
	cacheConfig *config.CacheConfig,
	rc *redis.Client,
	db *gorm.DB,
) QuestionFlow {
	return &QuestionFlowImpl{
		questionRepo:    questionRepo,
		answerRepo:      answerRepo,
		tagRepo:         tagRepo,
		voteRepo:        voteRepo,
		savedRepo:       savedRepo,
		interactionRepo: interactionRepo,
		auditRepo:       auditRepo,
		cacheConfig:     cacheConfig,
		rc:              rc,
		db:              db,
	}
}

// Ask creates a question together with its tags. Tags are upserted
// case-insensitively and attached with set semantics, so repeated names
// and shared tags never produce duplicate rows.
func (qf *QuestionFlowImpl) Ask(ctx context.Context, userID uint, req *dto.AskQuestionRequest, metadata *ClientMetadata) (*dto.QuestionDetailResponse, error) {
	if err := qf.validateAskRequest(req); err != nil {
		return nil, NewBusinessError("ASK_VALIDATION_FAILED", "Ask validation failed", err)
	}

	var question *models.Question

	err := repository.WithTransaction(ctx, qf.db, func(txCtx context.Context) error {
		question = &models.Question{
			UUID:     uuid.New(),
			AuthorID: userID,
			Title:    strings.TrimSpace(req.Title),
			Content:  req.Content,
		}
		if err := qf.questionRepo.Save(txCtx, question); err != nil {
			return err
		}

		for _, name := range req.Tags {
			tag, err := qf.upsertTag(txCtx, name)
			if err != nil {
				return err
			}
			if err := qf.tagRepo.AttachQuestion(txCtx, tag.ID, question.ID); err != nil {
				return err
			}
		}

		interaction := &models.Interaction{
			UserID:     &userID,
			QuestionID: question.ID,
			Action:     models.InteractionAsk,
		}
		return qf.interactionRepo.Save(txCtx, interaction)
	})

	if err != nil {
		errMsg := fmt.Sprintf("Ask question failed: %s", err.Error())
		_ = qf.logQuestionAction(ctx, &userID, models.AuditActionQuestionAsked, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("ASK_FAILED", "Ask question failed", err)
	}

	msg := fmt.Sprintf("Question asked successfully: %d", question.ID)
	_ = qf.logQuestionAction(ctx, &userID, models.AuditActionQuestionAsked, msg, true, nil, metadata)

	// New tag attachments change the popular-tag ranking
	qf.invalidatePopularTagsCache(ctx)

	return qf.buildDetail(ctx, question, userID)
}

// Edit updates the title and content of the caller's own question
func (qf *QuestionFlowImpl) Edit(ctx context.Context, questionUUID uuid.UUID, userID uint, req *dto.EditQuestionRequest, metadata *ClientMetadata) (*dto.QuestionDetailResponse, error) {
	question, err := qf.questionRepo.ByUUID(ctx, questionUUID)
	if err != nil {
		return nil, NewBusinessError("EDIT_FAILED", "Edit question failed", err)
	}
	if question == nil {
		return nil, NewBusinessError("QUESTION_NOT_FOUND", "Question not found", ErrQuestionNotFound)
	}
	if question.AuthorID != userID {
		return nil, NewBusinessError("QUESTION_ACCESS_DENIED", "Question access denied", ErrQuestionAccessDenied)
	}

	question.Title = strings.TrimSpace(req.Title)
	question.Content = req.Content
	question.UpdatedAt = utils.UTCNow()

	if err := qf.questionRepo.Update(ctx, question); err != nil {
		errMsg := fmt.Sprintf("Edit question failed: %s", err.Error())
		_ = qf.logQuestionAction(ctx, &userID, models.AuditActionQuestionEdited, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("EDIT_FAILED", "Edit question failed", err)
	}

	msg := fmt.Sprintf("Question edited successfully: %d", question.ID)
	_ = qf.logQuestionAction(ctx, &userID, models.AuditActionQuestionEdited, msg, true, nil, metadata)

	return qf.buildDetail(ctx, question, userID)
}

// Delete removes the caller's own question along with its answers, votes and
// saved-question rows. Tag attachments are left behind on purpose: the
// popular-tag ranking keeps counting historical references.
func (qf *QuestionFlowImpl) Delete(ctx context.Context, questionUUID uuid.UUID, userID uint, metadata *ClientMetadata) error {
	question, err := qf.questionRepo.ByUUID(ctx, questionUUID)
	if err != nil {
		return NewBusinessError("DELETE_FAILED", "Delete question failed", err)
	}
	if question == nil {
		return NewBusinessError("QUESTION_NOT_FOUND", "Question not found", ErrQuestionNotFound)
	}
	if question.AuthorID != userID {
		return NewBusinessError("QUESTION_ACCESS_DENIED", "Question access denied", ErrQuestionAccessDenied)
	}

	err = repository.WithTransaction(ctx, qf.db, func(txCtx context.Context) error {
		return qf.questionRepo.Delete(txCtx, question.ID)
	})

	if err != nil {
		errMsg := fmt.Sprintf("Delete question failed: %s", err.Error())
		_ = qf.logQuestionAction(ctx, &userID, models.AuditActionQuestionDeleted, errMsg, false, &errMsg, metadata)

		return NewBusinessError("DELETE_FAILED", "Delete question failed", err)
	}

	msg := fmt.Sprintf("Question deleted successfully: %d", question.ID)
	_ = qf.logQuestionAction(ctx, &userID, models.AuditActionQuestionDeleted, msg, true, nil, metadata)

	return nil
}

// Get returns a question with its tags, vote state and saved flag
func (qf *QuestionFlowImpl) Get(ctx context.Context, questionUUID uuid.UUID, userID uint) (*dto.QuestionDetailResponse, error) {
	question, err := qf.questionRepo.ByUUID(ctx, questionUUID)
	if err != nil {
		return nil, NewBusinessError("GET_QUESTION_FAILED", "Get question failed", err)
	}
	if question == nil {
		return nil, NewBusinessError("QUESTION_NOT_FOUND", "Question not found", ErrQuestionNotFound)
	}

	return qf.buildDetail(ctx, question, userID)
}

// List returns a page of questions with the requested ordering and filters
func (qf *QuestionFlowImpl) List(ctx context.Context, req *dto.ListQuestionsRequest) (*dto.ListQuestionsResponse, error) {
	page, pageSize, err := normalizePagination(req.Page, req.PageSize)
	if err != nil {
		return nil, NewBusinessError("LIST_QUESTIONS_VALIDATION_FAILED", "List questions validation failed", err)
	}

	filter := models.QuestionFilter{}
	if req.Search != "" {
		filter.TitleSearch = utils.ToPtr(strings.TrimSpace(req.Search))
	}
	if req.Filter == "unanswered" {
		filter.Unanswered = utils.ToPtr(true)
	}

	orderBy := questionOrderClause(req.OrderBy)

	questions, err := qf.questionRepo.ByFilter(ctx, filter, orderBy, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, NewBusinessError("LIST_QUESTIONS_FAILED", "List questions failed", err)
	}

	total, err := qf.questionRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("LIST_QUESTIONS_FAILED", "List questions failed", err)
	}

	items, err := qf.buildItems(ctx, questions)
	if err != nil {
		return nil, NewBusinessError("LIST_QUESTIONS_FAILED", "List questions failed", err)
	}

	return &dto.ListQuestionsResponse{
		Message:  "Questions retrieved successfully.",
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// RecordView bumps the view counter and writes the interaction row. Every
// call counts a view; there is no per-user dedup.
func (qf *QuestionFlowImpl) RecordView(ctx context.Context, questionUUID uuid.UUID, userID *uint) (*dto.ViewQuestionResponse, error) {
	question, err := qf.questionRepo.ByUUID(ctx, questionUUID)
	if err != nil {
		return nil, NewBusinessError("VIEW_FAILED", "Record view failed", err)
	}
	if question == nil {
		return nil, NewBusinessError("QUESTION_NOT_FOUND", "Question not found", ErrQuestionNotFound)
	}

	var views int64

	err = repository.WithTransaction(ctx, qf.db, func(txCtx context.Context) error {
		views, err = qf.questionRepo.IncrementViews(txCtx, question.ID)
		if err != nil {
			return err
		}

		interaction := &models.Interaction{
			UserID:     userID,
			QuestionID: question.ID,
			Action:     models.InteractionView,
		}
		return qf.interactionRepo.Save(txCtx, interaction)
	})

	if err != nil {
		return nil, NewBusinessError("VIEW_FAILED", "Record view failed", err)
	}

	return &dto.ViewQuestionResponse{
		Message: "View recorded.",
		Views:   views,
	}, nil
}

// Private helper methods

func (qf *QuestionFlowImpl) validateAskRequest(req *dto.AskQuestionRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return ErrQuestionTitleRequired
	}
	if strings.TrimSpace(req.Content) == "" {
		return ErrQuestionContentRequired
	}
	if len(req.Tags) == 0 {
		return ErrQuestionTagsRequired
	}
	if len(req.Tags) > 3 {
		return ErrTooManyTags
	}
	for _, name := range req.Tags {
		if len(strings.TrimSpace(name)) > models.MaxTagNameLength {
			return ErrTagNameTooLong
		}
	}
	return nil
}

// upsertTag finds a tag by its lowercased name or creates it, keeping the
// spelling of whoever named it first.
func (qf *QuestionFlowImpl) upsertTag(ctx context.Context, name string) (*models.Tag, error) {
	name = strings.TrimSpace(name)

	tag, err := qf.tagRepo.ByNameFold(ctx, name)
	if err != nil {
		return nil, err
	}
	if tag != nil {
		return tag, nil
	}

	tag = &models.Tag{Name: name}
	if err := qf.tagRepo.Save(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (qf *QuestionFlowImpl) buildDetail(ctx context.Context, question *models.Question, userID uint) (*dto.QuestionDetailResponse, error) {
	tags, err := qf.tagRepo.ListByQuestion(ctx, question.ID)
	if err != nil {
		return nil, NewBusinessError("GET_QUESTION_FAILED", "Get question failed", err)
	}

	counts, err := qf.voteRepo.CountsForTarget(ctx, models.VoteTargetQuestion, question.ID, userID)
	if err != nil {
		return nil, NewBusinessError("GET_QUESTION_FAILED", "Get question failed", err)
	}

	saved := false
	if userID != 0 {
		savedRow, err := qf.savedRepo.ByUserAndQuestion(ctx, userID, question.ID)
		if err != nil {
			return nil, NewBusinessError("GET_QUESTION_FAILED", "Get question failed", err)
		}
		saved = savedRow != nil
	}

	author := question.Author.Username
	if author == "" {
		author = fmt.Sprintf("user-%d", question.AuthorID)
	}

	return &dto.QuestionDetailResponse{
		UUID:      question.UUID.String(),
		Title:     question.Title,
		Content:   question.Content,
		Author:    author,
		Views:     question.Views,
		Votes:     ToVoteState(*counts),
		Tags:      ToTagItems(tags),
		Saved:     saved,
		CreatedAt: question.CreatedAt.Format(time.RFC3339),
		UpdatedAt: question.UpdatedAt.Format(time.RFC3339),
	}, nil
}

func (qf *QuestionFlowImpl) buildItems(ctx context.Context, questions []*models.Question) ([]dto.QuestionItem, error) {
	items := make([]dto.QuestionItem, 0, len(questions))

	for _, q := range questions {
		answerCount, err := qf.answerRepo.Count(ctx, models.AnswerFilter{QuestionID: &q.ID})
		if err != nil {
			return nil, err
		}

		tags, err := qf.tagRepo.ListByQuestion(ctx, q.ID)
		if err != nil {
			return nil, err
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

	return items, nil
}

func questionOrderClause(orderBy string) string {
	switch orderBy {
	case models.QuestionOrderOldest:
		return "created_at ASC"
	case models.QuestionOrderFrequent:
		return "views DESC, id ASC"
	default:
		return "created_at DESC"
	}
}

func (qf *QuestionFlowImpl) invalidatePopularTagsCache(ctx context.Context) {
	if qf.rc == nil || qf.cacheConfig == nil {
		return
	}
	cacheKey := redisKey(*qf.cacheConfig, utils.PopularTagsCacheKey)
	_ = qf.rc.Del(ctx, cacheKey).Err()
}

func (qf *QuestionFlowImpl) logQuestionAction(ctx context.Context, userID *uint, action string, description string, success bool, errMsg *string, metadata *ClientMetadata) error {
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

	return qf.auditRepo.Save(ctx, audit)
}
