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

// CollectionHandlerInterface defines the contract for collection handlers
type CollectionHandlerInterface interface {
	ToggleSave(c fiber.Ctx) error
	ListSaved(c fiber.Ctx) error
}

// CollectionHandler handles saved-question HTTP requests
type CollectionHandler struct {
	collectionFlow businessflow.CollectionFlow
	validator      *validator.Validate
}

func (h *CollectionHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *CollectionHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewCollectionHandler creates a new collection handler
func NewCollectionHandler(collectionFlow businessflow.CollectionFlow) *CollectionHandler {
	return &CollectionHandler{
		collectionFlow: collectionFlow,
		validator:      validator.New(),
	}
}

// ToggleSave handles saving or unsaving a question
// @Summary Toggle Saved Question
// @Description Save a question to the caller's collection, or remove it if already saved
// @Tags Collections
// @Produce json
// @Param uuid path string true "Question UUID"
// @Success 200 {object} dto.APIResponse{data=dto.ToggleSaveResponse} "Saved state toggled"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Question not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/questions/{uuid}/save [post]
func (h *CollectionHandler) ToggleSave(c fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "User ID not found in context", "MISSING_USER_ID", nil)
	}

	questionUUID, err := uuid.Parse(c.Params("uuid"))
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid question UUID", "INVALID_UUID", nil)
	}

	result, err := h.collectionFlow.ToggleSave(createRequestContext(c, "/api/v1/questions/{uuid}/save"), questionUUID, userID)
	if err != nil {
		if businessflow.IsQuestionNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Question not found", "QUESTION_NOT_FOUND", nil)
		}

		log.Println("Toggle save failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to toggle saved state", "SAVE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// ListSaved handles listing the caller's saved questions
// @Summary List Saved Questions
// @Description List the questions in the caller's collection
// @Tags Collections
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.ListSavedQuestionsResponse} "Saved questions retrieved"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/collections/saved [get]
func (h *CollectionHandler) ListSaved(c fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "User ID not found in context", "MISSING_USER_ID", nil)
	}

	req := dto.ListSavedQuestionsRequest{
		Page:     queryInt(c, "page"),
		PageSize: queryInt(c, "page_size"),
	}

	// Validate request
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.collectionFlow.ListSaved(createRequestContext(c, "/api/v1/collections/saved"), userID, &req)
	if err != nil {
		if businessflow.IsInvalidPage(err) || businessflow.IsInvalidPageSize(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid pagination", "INVALID_PAGINATION", nil)
		}

		log.Println("List saved questions failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list saved questions", "LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}
