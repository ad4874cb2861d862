// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"log"

	"github.com/amirphl/Porseman/app/dto"
	businessflow "github.com/amirphl/Porseman/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// ProfileHandlerInterface defines the contract for profile handlers
type ProfileHandlerInterface interface {
	Get(c fiber.Ctx) error
	Update(c fiber.Ctx) error
	Stats(c fiber.Ctx) error
	TopPosts(c fiber.Ctx) error
}

// ProfileHandler handles user profile HTTP requests
type ProfileHandler struct {
	profileFlow businessflow.ProfileFlow
	validator   *validator.Validate
}

func (h *ProfileHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *ProfileHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileFlow businessflow.ProfileFlow) *ProfileHandler {
	return &ProfileHandler{
		profileFlow: profileFlow,
		validator:   validator.New(),
	}
}

// Get handles fetching a public profile
// @Summary Get Profile
// @Description Get a user's public profile by username
// @Tags Profiles
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse} "Profile retrieved"
// @Failure 404 {object} dto.APIResponse "User not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/users/{username} [get]
func (h *ProfileHandler) Get(c fiber.Ctx) error {
	username := c.Params("username")
	if username == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Username is required", "MISSING_USERNAME", nil)
	}

	result, err := h.profileFlow.Get(createRequestContext(c, "/api/v1/users/{username}"), username)
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
		}

		log.Println("Get profile failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to get profile", "GET_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Profile retrieved", result)
}

// Update handles updating the caller's own profile
// @Summary Update Profile
// @Description Update name, bio, location and portfolio URL of the current user
// @Tags Profiles
// @Accept json
// @Produce json
// @Param request body dto.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse} "Profile updated"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/profile [put]
func (h *ProfileHandler) Update(c fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "User ID not found in context", "MISSING_USER_ID", nil)
	}

	var req dto.UpdateProfileRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	// Validate request
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.profileFlow.Update(createRequestContext(c, "/api/v1/profile"), userID, &req)
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
		}

		log.Println("Update profile failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update profile", "UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Profile updated", result)
}

// Stats handles the derived user statistics. Counters, reputation and
// badges are recomputed from live data on every request.
// @Summary User Stats
// @Description Get a user's derived counters, reputation and badges
// @Tags Profiles
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} dto.APIResponse{data=dto.UserStatsResponse} "Stats retrieved"
// @Failure 404 {object} dto.APIResponse "User not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/users/{username}/stats [get]
func (h *ProfileHandler) Stats(c fiber.Ctx) error {
	username := c.Params("username")
	if username == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Username is required", "MISSING_USERNAME", nil)
	}

	result, err := h.profileFlow.Stats(createRequestContext(c, "/api/v1/users/{username}/stats"), username)
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
		}

		log.Println("Get user stats failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to get user stats", "STATS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// TopPosts handles a user's top questions and answers lists
// @Summary Top Posts
// @Description Get a user's most viewed questions and highest scored answers
// @Tags Profiles
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} dto.APIResponse{data=dto.TopPostsResponse} "Top posts retrieved"
// @Failure 404 {object} dto.APIResponse "User not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/users/{username}/top [get]
func (h *ProfileHandler) TopPosts(c fiber.Ctx) error {
	username := c.Params("username")
	if username == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Username is required", "MISSING_USERNAME", nil)
	}

	result, err := h.profileFlow.TopPosts(createRequestContext(c, "/api/v1/users/{username}/top"), username)
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
		}

		log.Println("Get top posts failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to get top posts", "TOP_POSTS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}
