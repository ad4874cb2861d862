// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"log"
	"strconv"

	"github.com/amirphl/Porseman/app/dto"
	businessflow "github.com/amirphl/Porseman/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// AdminHandlerInterface defines the contract for admin handlers
type AdminHandlerInterface interface {
	InitCaptcha(c fiber.Ctx) error
	Login(c fiber.Ctx) error
	ListUsers(c fiber.Ctx) error
	SetUserActiveStatus(c fiber.Ctx) error
	ExportUsers(c fiber.Ctx) error
}

// AdminHandler handles admin HTTP requests
type AdminHandler struct {
	adminAuthFlow businessflow.AdminAuthFlow
	adminFlow     businessflow.AdminFlow
	validator     *validator.Validate
}

func (h *AdminHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *AdminHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminAuthFlow businessflow.AdminAuthFlow, adminFlow businessflow.AdminFlow) *AdminHandler {
	return &AdminHandler{
		adminAuthFlow: adminAuthFlow,
		adminFlow:     adminFlow,
		validator:     validator.New(),
	}
}

// InitCaptcha handles issuing a rotate-captcha challenge for admin login
// @Summary Init Admin Captcha
// @Description Issue a rotate-captcha challenge for the admin login flow
// @Tags Admin
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.AdminCaptchaInitResponse} "Challenge issued"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/auth/captcha/init [post]
func (h *AdminHandler) InitCaptcha(c fiber.Ctx) error {
	result, err := h.adminAuthFlow.InitCaptcha(createRequestContext(c, "/api/v1/admin/auth/captcha/init"))
	if err != nil {
		log.Println("Init admin captcha failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to init captcha", "CAPTCHA_INIT_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Captcha challenge issued", result)
}

// Login handles admin authentication with captcha verification
// @Summary Admin Login
// @Description Authenticate an admin after verifying the rotate-captcha answer
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body dto.AdminCaptchaVerifyRequest true "Captcha answer and credentials"
// @Success 200 {object} dto.APIResponse{data=dto.AdminLoginResponse} "Login successful"
// @Failure 400 {object} dto.APIResponse "Invalid captcha"
// @Failure 401 {object} dto.APIResponse "Authentication failed"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/auth/captcha/verify [post]
func (h *AdminHandler) Login(c fiber.Ctx) error {
	var req dto.AdminCaptchaVerifyRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	// Validate request
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	// Get client information
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.adminAuthFlow.Verify(createRequestContext(c, "/api/v1/admin/auth/captcha/verify"), &req, metadata)
	if err != nil {
		if businessflow.IsInvalidCaptcha(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid captcha answer", "INVALID_CAPTCHA", nil)
		}
		if businessflow.IsAdminNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid credentials", "INVALID_CREDENTIALS", nil)
		}
		if businessflow.IsAdminInactive(err) {
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Admin account is inactive", "ADMIN_INACTIVE", nil)
		}
		if businessflow.IsIncorrectPassword(err) {
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid credentials", "INVALID_CREDENTIALS", nil)
		}

		log.Println("Admin login failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Login failed", "LOGIN_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Admin login successful", result)
}

// ListUsers handles the admin user report
// @Summary List Users
// @Description List platform users with activity counters and filters
// @Tags Admin
// @Produce json
// @Param search query string false "Name, username or email substring"
// @Param is_active query bool false "Filter by active status"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.AdminListUsersResponse} "Users retrieved"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/users [get]
func (h *AdminHandler) ListUsers(c fiber.Ctx) error {
	req := h.buildListUsersRequest(c)

	// Validate request
	if err := h.validator.Struct(req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.adminFlow.ListUsers(createRequestContext(c, "/api/v1/admin/users"), req)
	if err != nil {
		if businessflow.IsInvalidPage(err) || businessflow.IsInvalidPageSize(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid pagination", "INVALID_PAGINATION", nil)
		}

		log.Println("List users failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list users", "LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// SetUserActiveStatus handles activating or deactivating a user
// @Summary Set User Active Status
// @Description Activate or deactivate a user. Deactivation expires all of the user's sessions.
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body dto.AdminSetUserActiveStatusRequest true "Target user and status"
// @Success 200 {object} dto.APIResponse{data=dto.AdminSetUserActiveStatusResponse} "Status updated"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 404 {object} dto.APIResponse "User not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/users/status [post]
func (h *AdminHandler) SetUserActiveStatus(c fiber.Ctx) error {
	var req dto.AdminSetUserActiveStatusRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	// Validate request
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	// Get client information
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.adminFlow.SetUserActiveStatus(createRequestContext(c, "/api/v1/admin/users/status"), &req, metadata)
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
		}

		log.Println("Set user active status failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update user status", "STATUS_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// ExportUsers handles the xlsx export of the user report
// @Summary Export Users
// @Description Download the filtered user report as an xlsx file
// @Tags Admin
// @Produce application/octet-stream
// @Param search query string false "Name, username or email substring"
// @Param is_active query bool false "Filter by active status"
// @Success 200 {string} string "Binary xlsx file"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/users/export [get]
func (h *AdminHandler) ExportUsers(c fiber.Ctx) error {
	req := h.buildListUsersRequest(c)

	filename, data, err := h.adminFlow.ExportUsersExcel(createRequestContextWithTimeout(c, "/api/v1/admin/users/export", exportTimeout), req)
	if err != nil {
		log.Println("Export users failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to export users", "EXPORT_FAILED", nil)
	}

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", "attachment; filename="+filename)
	return c.Send(data)
}

func (h *AdminHandler) buildListUsersRequest(c fiber.Ctx) *dto.AdminListUsersRequest {
	req := dto.AdminListUsersRequest{
		Page:     queryInt(c, "page"),
		PageSize: queryInt(c, "page_size"),
	}
	if v := c.Query("search"); v != "" {
		req.Search = &v
	}
	if v := c.Query("is_active"); v != "" {
		if active, err := strconv.ParseBool(v); err == nil {
			req.IsActive = &active
		}
	}
	return &req
}
