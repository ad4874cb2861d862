// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"log"

	"github.com/amirphl/Porseman/app/dto"
	businessflow "github.com/amirphl/Porseman/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// SearchHandlerInterface defines the contract for search handlers
type SearchHandlerInterface interface {
	GlobalSearch(c fiber.Ctx) error
}

// SearchHandler handles the global search HTTP requests
type SearchHandler struct {
	searchFlow businessflow.SearchFlow
	validator  *validator.Validate
}

func (h *SearchHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *SearchHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searchFlow businessflow.SearchFlow) *SearchHandler {
	return &SearchHandler{
		searchFlow: searchFlow,
		validator:  validator.New(),
	}
}

// GlobalSearch handles the cross-entity search fan-out
// @Summary Global Search
// @Description Search questions, answers, tags and users concurrently. Results come back grouped per kind in a fixed order.
// @Tags Search
// @Produce json
// @Param q query string true "Search query"
// @Param type query string false "Restrict to one kind (question|answer|tag|user)"
// @Success 200 {object} dto.APIResponse{data=dto.GlobalSearchResponse} "Search results"
// @Failure 400 {object} dto.APIResponse "Missing query"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/search [get]
func (h *SearchHandler) GlobalSearch(c fiber.Ctx) error {
	req := dto.GlobalSearchRequest{
		Query: c.Query("q"),
		Type:  c.Query("type"),
	}

	// Validate request
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.searchFlow.GlobalSearch(createRequestContext(c, "/api/v1/search"), &req)
	if err != nil {
		if businessflow.IsEmptySearchQuery(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Search query is required", "EMPTY_QUERY", nil)
		}

		log.Println("Global search failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Search failed", "SEARCH_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}
