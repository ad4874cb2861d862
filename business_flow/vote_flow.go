// Package businessflow contains the core business logic and use cases for the Q&A platform
package businessflow

import (
	"context"
	"fmt"

	"github.com/amirphl/Porseman/app/dto"
	"github.com/amirphl/Porseman/models"
	"github.com/amirphl/Porseman/repository"
	"github.com/amirphl/Porseman/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VoteFlow handles the vote ledger toggle and read operations
type VoteFlow interface {
	ToggleQuestionVote(ctx context.Context, questionUUID uuid.UUID, userID uint, req *dto.ToggleVoteRequest, metadata *ClientMetadata) (*dto.ToggleVoteResponse, error)
	ToggleAnswerVote(ctx context.Context, answerUUID uuid.UUID, userID uint, req *dto.ToggleVoteRequest, metadata *ClientMetadata) (*dto.ToggleVoteResponse, error)
}

// VoteFlowImpl implements the vote business flow
type VoteFlowImpl struct {
	voteRepo        repository.VoteRepository
	questionRepo    repository.QuestionRepository
	answerRepo      repository.AnswerRepository
	interactionRepo repository.InteractionRepository
	auditRepo       repository.AuditLogRepository
	db              *gorm.DB
}

// NewVoteFlow creates a new vote flow instance
func NewVoteFlow(
	voteRepo repository.VoteRepository,
	questionRepo repository.QuestionRepository,
	answerRepo repository.AnswerRepository,
	interactionRepo repository.InteractionRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
) VoteFlow {
	return &VoteFlowImpl{
		voteRepo:        voteRepo,
		questionRepo:    questionRepo,
		answerRepo:      answerRepo,
		interactionRepo: interactionRepo,
		auditRepo:       auditRepo,
		db:              db,
	}
}

// ToggleQuestionVote toggles the caller's vote on a question
func (vf *VoteFlowImpl) ToggleQuestionVote(ctx context.Context, questionUUID uuid.UUID, userID uint, req *dto.ToggleVoteRequest, metadata *ClientMetadata) (*dto.ToggleVoteResponse, error) {
	question, err := vf.questionRepo.ByUUID(ctx, questionUUID)
	if err != nil {
		return nil, NewBusinessError("VOTE_FAILED", "Vote failed", err)
	}
	if question == nil {
		return nil, NewBusinessError("QUESTION_NOT_FOUND", "Question not found", ErrQuestionNotFound)
	}

	resp, err := vf.toggle(ctx, models.VoteTargetQuestion, question.ID, userID, req.Kind)
	if err != nil {
		return nil, err
	}

	vf.recordVoteInteraction(ctx, question.ID, userID, req.Kind)

	msg := fmt.Sprintf("Vote toggled on question %d by user %d", question.ID, userID)
	_ = vf.logVote(ctx, userID, msg, metadata)

	return resp, nil
}

// ToggleAnswerVote toggles the caller's vote on an answer
func (vf *VoteFlowImpl) ToggleAnswerVote(ctx context.Context, answerUUID uuid.UUID, userID uint, req *dto.ToggleVoteRequest, metadata *ClientMetadata) (*dto.ToggleVoteResponse, error) {
	answer, err := vf.answerRepo.ByUUID(ctx, answerUUID)
	if err != nil {
		return nil, NewBusinessError("VOTE_FAILED", "Vote failed", err)
	}
	if answer == nil {
		return nil, NewBusinessError("ANSWER_NOT_FOUND", "Answer not found", ErrAnswerNotFound)
	}

	resp, err := vf.toggle(ctx, models.VoteTargetAnswer, answer.ID, userID, req.Kind)
	if err != nil {
		return nil, err
	}

	msg := fmt.Sprintf("Vote toggled on answer %d by user %d", answer.ID, userID)
	_ = vf.logVote(ctx, userID, msg, metadata)

	return resp, nil
}

// toggle applies the three-way toggle inside one transaction: a same-kind
// vote is retracted, an opposite-kind vote switches sides, and no vote
// becomes a new one. The unique key on (target_type, target_id, user_id)
// keeps a user out of both sides at once even under concurrent toggles.
func (vf *VoteFlowImpl) toggle(ctx context.Context, targetType string, targetID, userID uint, kind string) (*dto.ToggleVoteResponse, error) {
	if !models.IsValidVoteKind(kind) {
		return nil, NewBusinessError("INVALID_VOTE_KIND", "Invalid vote kind", ErrInvalidVoteKind)
	}

	var counts *models.VoteCounts

	err := repository.WithTransaction(ctx, vf.db, func(txCtx context.Context) error {
		existing, err := vf.voteRepo.ByTargetAndUser(txCtx, targetType, targetID, userID)
		if err != nil {
			return err
		}

		switch {
		case existing == nil:
			vote := &models.Vote{
				TargetType: targetType,
				TargetID:   targetID,
				UserID:     userID,
				Kind:       kind,
			}
			if err := vf.voteRepo.Save(txCtx, vote); err != nil {
				return err
			}
		case existing.Kind == kind:
			if err := vf.voteRepo.Delete(txCtx, existing.ID); err != nil {
				return err
			}
		default:
			if err := vf.voteRepo.UpdateKind(txCtx, existing.ID, kind); err != nil {
				return err
			}
		}

		counts, err = vf.voteRepo.CountsForTarget(txCtx, targetType, targetID, userID)
		return err
	})

	if err != nil {
		return nil, NewBusinessError("VOTE_FAILED", "Vote failed", err)
	}

	return &dto.ToggleVoteResponse{
		Message: "Vote recorded.",
		Votes:   ToVoteState(*counts),
	}, nil
}

func (vf *VoteFlowImpl) recordVoteInteraction(ctx context.Context, questionID, userID uint, kind string) {
	action := models.InteractionUpvote
	if kind == models.VoteKindDown {
		action = models.InteractionDownvote
	}

	interaction := &models.Interaction{
		UserID:     &userID,
		QuestionID: questionID,
		Action:     action,
	}
	_ = vf.interactionRepo.Save(ctx, interaction)
}

func (vf *VoteFlowImpl) logVote(ctx context.Context, userID uint, description string, metadata *ClientMetadata) error {
	ipAddress := "127.0.0.1"
	userAgent := ""
	if metadata != nil {
		ipAddress = metadata.IPAddress
		userAgent = metadata.UserAgent
	}

	audit := &models.AuditLog{
		UserID:      &userID,
		Action:      models.AuditActionVoteCast,
		Description: &description,
		Success:     utils.ToPtr(true),
		IPAddress:   &ipAddress,
		UserAgent:   &userAgent,
	}

	requestID := ctx.Value(RequestIDKey)
	if requestID != nil {
		requestIDStr, ok := requestID.(string)
		if ok {
			audit.RequestID = &requestIDStr
		}
	}

	return vf.auditRepo.Save(ctx, audit)
}
