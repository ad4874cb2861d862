// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"log"

	"github.com/amirphl/Porseman/app/dto"
	businessflow "github.com/amirphl/Porseman/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// VoteHandlerInterface defines the contract for vote handlers
type VoteHandlerInterface interface {
	ToggleQuestionVote(c fiber.Ctx) error
	ToggleAnswerVote(c fiber.Ctx) error
}

// VoteHandler handles vote toggle HTTP requests
type VoteHandler struct {
	voteFlow  businessflow.VoteFlow
	validator *validator.Validate
}

func (h *VoteHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *VoteHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewVoteHandler creates a new vote handler
func NewVoteHandler(voteFlow businessflow.VoteFlow) *VoteHandler {
	return &VoteHandler{
		voteFlow:  voteFlow,
		validator: validator.New(),
	}
}

// ToggleQuestionVote handles toggling a vote on a question
// @Summary Toggle Question Vote
// @Description Toggle the caller's up or down vote on a question. Repeating a vote removes it, the opposite kind switches it.
// @Tags Votes
// @Accept json
// @Produce json
// @Param uuid path string true "Question UUID"
// @Param request body dto.ToggleVoteRequest true "Vote kind"
// @Success 200 {object} dto.APIResponse{data=dto.ToggleVoteResponse} "Authoritative vote state"
// @Failure 400 {object} dto.APIResponse "Invalid vote kind"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Question not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/questions/{uuid}/vote [post]
func (h *VoteHandler) ToggleQuestionVote(c fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "User ID not found in context", "MISSING_USER_ID", nil)
	}

	questionUUID, err := uuid.Parse(c.Params("uuid"))
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid question UUID", "INVALID_UUID", nil)
	}

	var req dto.ToggleVoteRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	// Validate request
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	// Get client information
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.voteFlow.ToggleQuestionVote(createRequestContext(c, "/api/v1/questions/{uuid}/vote"), questionUUID, userID, &req, metadata)
	if err != nil {
		if businessflow.IsQuestionNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Question not found", "QUESTION_NOT_FOUND", nil)
		}
		if businessflow.IsInvalidVoteKind(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid vote kind", "INVALID_VOTE_KIND", nil)
		}

		log.Println("Toggle question vote failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to toggle vote", "VOTE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// ToggleAnswerVote handles toggling a vote on an answer
// @Summary Toggle Answer Vote
// @Description Toggle the caller's up or down vote on an answer. Repeating a vote removes it, the opposite kind switches it.
// @Tags Votes
// @Accept json
// @Produce json
// @Param uuid path string true "Answer UUID"
// @Param request body dto.ToggleVoteRequest true "Vote kind"
// @Success 200 {object} dto.APIResponse{data=dto.ToggleVoteResponse} "Authoritative vote state"
// @Failure 400 {object} dto.APIResponse "Invalid vote kind"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Answer not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/answers/{uuid}/vote [post]
func (h *VoteHandler) ToggleAnswerVote(c fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "User ID not found in context", "MISSING_USER_ID", nil)
	}

	answerUUID, err := uuid.Parse(c.Params("uuid"))
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid answer UUID", "INVALID_UUID", nil)
	}

	var req dto.ToggleVoteRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	// Validate request
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	// Get client information
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.voteFlow.ToggleAnswerVote(createRequestContext(c, "/api/v1/answers/{uuid}/vote"), answerUUID, userID, &req, metadata)
	if err != nil {
		if businessflow.IsAnswerNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Answer not found", "ANSWER_NOT_FOUND", nil)
		}
		if businessflow.IsInvalidVoteKind(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid vote kind", "INVALID_VOTE_KIND", nil)
		}

		log.Println("Toggle answer vote failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to toggle vote", "VOTE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}
