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

// QuestionHandlerInterface defines the contract for question handlers
type QuestionHandlerInterface interface {
	Ask(c fiber.Ctx) error
	List(c fiber.Ctx) error
	Get(c fiber.Ctx) error
	Edit(c fiber.Ctx) error
	Delete(c fiber.Ctx) error
	RecordView(c fiber.Ctx) error
}

// QuestionHandler handles question-related HTTP requests
type QuestionHandler struct {
	questionFlow businessflow.QuestionFlow
	validator    *validator.Validate
}

func (h *QuestionHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *QuestionHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler(questionFlow businessflow.QuestionFlow) *QuestionHandler {
	return &QuestionHandler{
		questionFlow: questionFlow,
		validator:    validator.New(),
	}
}

// Ask handles posting a new question
// @Summary Ask Question
// @Description Post a new question with one to three tags
// @Tags Questions
// @Accept json
// @Produce json
// @Param request body dto.AskQuestionRequest true "Question data"
// @Success 201 {object} dto.APIResponse{data=dto.QuestionDetailResponse} "Question created"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/questions [post]
func (h *QuestionHandler) Ask(c fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "User ID not found in context", "MISSING_USER_ID", nil)
	}

	var req dto.AskQuestionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	// Validate request
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	// Get client information
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.questionFlow.Ask(createRequestContext(c, "/api/v1/questions"), userID, &req, metadata)
	if err != nil {
		if businessflow.IsQuestionTitleRequired(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Title is required", "TITLE_REQUIRED", nil)
		}
		if businessflow.IsQuestionContentRequired(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Content is required", "CONTENT_REQUIRED", nil)
		}
		if businessflow.IsQuestionTagsRequired(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "At least one tag is required", "TAGS_REQUIRED", nil)
		}
		if businessflow.IsTooManyTags(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "At most three tags are allowed", "TOO_MANY_TAGS", nil)
		}
		if businessflow.IsTagNameTooLong(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Tag name is too long", "TAG_NAME_TOO_LONG", nil)
		}

		log.Println("Ask question failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create question", "ASK_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Question created", result)
}

// List handles the question listing
// @Summary List Questions
// @Description List questions with ordering, search and unanswered filtering
// @Tags Questions
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Param order_by query string false "Ordering (newest|oldest|frequent)"
// @Param search query string false "Title substring filter"
// @Param filter query string false "Extra filter (unanswered)"
// @Success 200 {object} dto.APIResponse{data=dto.ListQuestionsResponse} "Questions retrieved"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/questions [get]
func (h *QuestionHandler) List(c fiber.Ctx) error {
	req := dto.ListQuestionsRequest{
		Page:     queryInt(c, "page"),
		PageSize: queryInt(c, "page_size"),
		OrderBy:  c.Query("order_by"),
		Search:   c.Query("search"),
		Filter:   c.Query("filter"),
	}

	// Validate request
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.questionFlow.List(createRequestContext(c, "/api/v1/questions"), &req)
	if err != nil {
		if businessflow.IsInvalidPage(err) || businessflow.IsInvalidPageSize(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid pagination", "INVALID_PAGINATION", nil)
		}

		log.Println("List questions failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list questions", "LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// Get handles fetching a single question
// @Summary Get Question
// @Description Get a question with its tags, vote tallies and saved state
// @Tags Questions
// @Produce json
// @Param uuid path string true "Question UUID"
// @Success 200 {object} dto.APIResponse{data=dto.QuestionDetailResponse} "Question retrieved"
// @Failure 400 {object} dto.APIResponse "Invalid UUID"
// @Failure 404 {object} dto.APIResponse "Question not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/questions/{uuid} [get]
func (h *QuestionHandler) Get(c fiber.Ctx) error {
	questionUUID, err := uuid.Parse(c.Params("uuid"))
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid question UUID", "INVALID_UUID", nil)
	}

	result, err := h.questionFlow.Get(createRequestContext(c, "/api/v1/questions/{uuid}"), questionUUID, optionalUserID(c))
	if err != nil {
		if businessflow.IsQuestionNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Question not found", "QUESTION_NOT_FOUND", nil)
		}

		log.Println("Get question failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to get question", "GET_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Question retrieved", result)
}

// Edit handles updating a question's title and content
// @Summary Edit Question
// @Description Edit a question (author only)
// @Tags Questions
// @Accept json
// @Produce json
// @Param uuid path string true "Question UUID"
// @Param request body dto.EditQuestionRequest true "Updated question data"
// @Success 200 {object} dto.APIResponse{data=dto.QuestionDetailResponse} "Question updated"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 403 {object} dto.APIResponse "Not the author"
// @Failure 404 {object} dto.APIResponse "Question not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/questions/{uuid} [put]
func (h *QuestionHandler) Edit(c fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "User ID not found in context", "MISSING_USER_ID", nil)
	}

	questionUUID, err := uuid.Parse(c.Params("uuid"))
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid question UUID", "INVALID_UUID", nil)
	}

	var req dto.EditQuestionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	// Validate request
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	// Get client information
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.questionFlow.Edit(createRequestContext(c, "/api/v1/questions/{uuid}"), questionUUID, userID, &req, metadata)
	if err != nil {
		if businessflow.IsQuestionNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Question not found", "QUESTION_NOT_FOUND", nil)
		}
		if businessflow.IsQuestionAccessDenied(err) {
			return h.ErrorResponse(c, fiber.StatusForbidden, "Only the author can edit a question", "ACCESS_DENIED", nil)
		}

		log.Println("Edit question failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to edit question", "EDIT_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Question updated", result)
}

// Delete handles removing a question
// @Summary Delete Question
// @Description Delete a question (author only). Tag attachments are kept.
// @Tags Questions
// @Produce json
// @Param uuid path string true "Question UUID"
// @Success 200 {object} dto.APIResponse "Question deleted"
// @Failure 403 {object} dto.APIResponse "Not the author"
// @Failure 404 {object} dto.APIResponse "Question not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/questions/{uuid} [delete]
func (h *QuestionHandler) Delete(c fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "User ID not found in context", "MISSING_USER_ID", nil)
	}

	questionUUID, err := uuid.Parse(c.Params("uuid"))
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid question UUID", "INVALID_UUID", nil)
	}

	// Get client information
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	if err := h.questionFlow.Delete(createRequestContext(c, "/api/v1/questions/{uuid}"), questionUUID, userID, metadata); err != nil {
		if businessflow.IsQuestionNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Question not found", "QUESTION_NOT_FOUND", nil)
		}
		if businessflow.IsQuestionAccessDenied(err) {
			return h.ErrorResponse(c, fiber.StatusForbidden, "Only the author can delete a question", "ACCESS_DENIED", nil)
		}

		log.Println("Delete question failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete question", "DELETE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Question deleted", nil)
}

// RecordView handles the view counter increment. Every call counts,
// repeated views by the same client included.
// @Summary Record Question View
// @Description Increment the question's view counter and return the new total
// @Tags Questions
// @Produce json
// @Param uuid path string true "Question UUID"
// @Success 200 {object} dto.APIResponse{data=dto.ViewQuestionResponse} "View recorded"
// @Failure 404 {object} dto.APIResponse "Question not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/questions/{uuid}/views [post]
func (h *QuestionHandler) RecordView(c fiber.Ctx) error {
	questionUUID, err := uuid.Parse(c.Params("uuid"))
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid question UUID", "INVALID_UUID", nil)
	}

	var userID *uint
	if id, ok := currentUserID(c); ok {
		userID = &id
	}

	result, err := h.questionFlow.RecordView(createRequestContext(c, "/api/v1/questions/{uuid}/views"), questionUUID, userID)
	if err != nil {
		if businessflow.IsQuestionNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Question not found", "QUESTION_NOT_FOUND", nil)
		}

		log.Println("Record view failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to record view", "VIEW_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}
