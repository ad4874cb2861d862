// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"log"
	"strings"

	"github.com/amirphl/Porseman/app/dto"
	businessflow "github.com/amirphl/Porseman/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// TagHandlerInterface defines the contract for tag handlers
type TagHandlerInterface interface {
	ListPopular(c fiber.Ctx) error
	Search(c fiber.Ctx) error
	Questions(c fiber.Ctx) error
}

// TagHandler handles tag-related HTTP requests
type TagHandler struct {
	tagFlow   businessflow.TagFlow
	validator *validator.Validate
}

func (h *TagHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *TagHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewTagHandler creates a new tag handler
func NewTagHandler(tagFlow businessflow.TagFlow) *TagHandler {
	return &TagHandler{
		tagFlow:   tagFlow,
		validator: validator.New(),
	}
}

// ListPopular handles the popular-tag ranking
// @Summary Popular Tags
// @Description List tags ranked by how many questions reference them
// @Tags Tags
// @Produce json
// @Param limit query int false "Maximum number of tags"
// @Param offset query int false "Ranking offset"
// @Success 200 {object} dto.APIResponse{data=dto.ListPopularTagsResponse} "Popular tags retrieved"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/tags/popular [get]
func (h *TagHandler) ListPopular(c fiber.Ctx) error {
	req := dto.ListPopularTagsRequest{
		Limit:  queryInt(c, "limit"),
		Offset: queryInt(c, "offset"),
	}

	// Validate request
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.tagFlow.ListPopular(createRequestContext(c, "/api/v1/tags/popular"), &req)
	if err != nil {
		log.Println("List popular tags failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list popular tags", "LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// Search handles tag name lookup
// @Summary Search Tags
// @Description Search tags by name substring
// @Tags Tags
// @Produce json
// @Param q query string true "Name substring"
// @Success 200 {object} dto.APIResponse{data=dto.SearchTagsResponse} "Tags retrieved"
// @Failure 400 {object} dto.APIResponse "Missing query"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/tags/search [get]
func (h *TagHandler) Search(c fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Search query is required", "EMPTY_QUERY", nil)
	}

	result, err := h.tagFlow.Search(createRequestContext(c, "/api/v1/tags/search"), query)
	if err != nil {
		log.Println("Search tags failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to search tags", "SEARCH_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// Questions handles listing the questions that reference a tag
// @Summary Questions By Tag
// @Description List questions referencing a tag, matched case-insensitively
// @Tags Tags
// @Produce json
// @Param name path string true "Tag name"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Param order_by query string false "Ordering (newest|oldest|frequent)"
// @Success 200 {object} dto.APIResponse{data=dto.TagQuestionsResponse} "Questions retrieved"
// @Failure 404 {object} dto.APIResponse "Tag not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/tags/{name}/questions [get]
func (h *TagHandler) Questions(c fiber.Ctx) error {
	tagName := c.Params("name")
	if tagName == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Tag name is required", "MISSING_TAG_NAME", nil)
	}

	req := dto.ListQuestionsRequest{
		Page:     queryInt(c, "page"),
		PageSize: queryInt(c, "page_size"),
		OrderBy:  c.Query("order_by"),
	}

	// Validate request
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.tagFlow.QuestionsByTag(createRequestContext(c, "/api/v1/tags/{name}/questions"), tagName, &req)
	if err != nil {
		if businessflow.IsTagNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Tag not found", "TAG_NOT_FOUND", nil)
		}
		if businessflow.IsInvalidPage(err) || businessflow.IsInvalidPageSize(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid pagination", "INVALID_PAGINATION", nil)
		}

		log.Println("Questions by tag failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list questions", "LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}
