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

// AnswerHandlerInterface defines the contract for answer handlers
type AnswerHandlerInterface interface {
	Post(c fiber.Ctx) error
	List(c fiber.Ctx) error
	Delete(c fiber.Ctx) error
}

// AnswerHandler handles answer-related HTTP requests
type AnswerHandler struct {
	answerFlow businessflow.AnswerFlow
	validator  *validator.Validate
}

func (h *AnswerHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *AnswerHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewAnswerHandler creates a new answer handler
func NewAnswerHandler(answerFlow businessflow.AnswerFlow) *AnswerHandler {
	return &AnswerHandler{
		answerFlow: answerFlow,
		validator:  validator.New(),
	}
}

// Post handles answering a question
// @Summary Post Answer
// @Description Post an answer on a question. The question author is notified by email.
// @Tags Answers
// @Accept json
// @Produce json
// @Param uuid path string true "Question UUID"
// @Param request body dto.PostAnswerRequest true "Answer data"
// @Success 201 {object} dto.APIResponse{data=dto.PostAnswerResponse} "Answer posted"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Question not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/questions/{uuid}/answers [post]
func (h *AnswerHandler) Post(c fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "User ID not found in context", "MISSING_USER_ID", nil)
	}

	questionUUID, err := uuid.Parse(c.Params("uuid"))
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid question UUID", "INVALID_UUID", nil)
	}

	var req dto.PostAnswerRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	// Validate request
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	// Get client information
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.answerFlow.Post(createRequestContext(c, "/api/v1/questions/{uuid}/answers"), questionUUID, userID, &req, metadata)
	if err != nil {
		if businessflow.IsQuestionNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Question not found", "QUESTION_NOT_FOUND", nil)
		}
		if businessflow.IsEmptyAnswer(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Answer content is required", "EMPTY_ANSWER", nil)
		}

		log.Println("Post answer failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to post answer", "POST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, result.Message, result)
}

// List handles the answer listing of a question
// @Summary List Answers
// @Description List answers of a question with ordering and vote tallies
// @Tags Answers
// @Produce json
// @Param uuid path string true "Question UUID"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Param order_by query string false "Ordering (newest|oldest|popular)"
// @Success 200 {object} dto.APIResponse{data=dto.ListAnswersResponse} "Answers retrieved"
// @Failure 404 {object} dto.APIResponse "Question not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/questions/{uuid}/answers [get]
func (h *AnswerHandler) List(c fiber.Ctx) error {
	questionUUID, err := uuid.Parse(c.Params("uuid"))
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid question UUID", "INVALID_UUID", nil)
	}

	req := dto.ListAnswersRequest{
		Page:     queryInt(c, "page"),
		PageSize: queryInt(c, "page_size"),
		OrderBy:  c.Query("order_by"),
	}

	// Validate request
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.answerFlow.List(createRequestContext(c, "/api/v1/questions/{uuid}/answers"), questionUUID, optionalUserID(c), &req)
	if err != nil {
		if businessflow.IsQuestionNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Question not found", "QUESTION_NOT_FOUND", nil)
		}
		if businessflow.IsInvalidPage(err) || businessflow.IsInvalidPageSize(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid pagination", "INVALID_PAGINATION", nil)
		}

		log.Println("List answers failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list answers", "LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// Delete handles removing an answer
// @Summary Delete Answer
// @Description Delete an answer (author only)
// @Tags Answers
// @Produce json
// @Param uuid path string true "Answer UUID"
// @Success 200 {object} dto.APIResponse "Answer deleted"
// @Failure 403 {object} dto.APIResponse "Not the author"
// @Failure 404 {object} dto.APIResponse "Answer not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/answers/{uuid} [delete]
func (h *AnswerHandler) Delete(c fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "User ID not found in context", "MISSING_USER_ID", nil)
	}

	answerUUID, err := uuid.Parse(c.Params("uuid"))
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid answer UUID", "INVALID_UUID", nil)
	}

	// Get client information
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	if err := h.answerFlow.Delete(createRequestContext(c, "/api/v1/answers/{uuid}"), answerUUID, userID, metadata); err != nil {
		if businessflow.IsAnswerNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Answer not found", "ANSWER_NOT_FOUND", nil)
		}
		if businessflow.IsAnswerAccessDenied(err) {
			return h.ErrorResponse(c, fiber.StatusForbidden, "Only the author can delete an answer", "ACCESS_DENIED", nil)
		}

		log.Println("Delete answer failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete answer", "DELETE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Answer deleted", nil)
}
