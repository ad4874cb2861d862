// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"log"

	"github.com/amirphl/Porseman/app/dto"
	businessflow "github.com/amirphl/Porseman/business_flow"
	"github.com/gofiber/fiber/v3"
)

// MediaHandlerInterface defines the contract for media handlers
type MediaHandlerInterface interface {
	UploadAvatar(c fiber.Ctx) error
	GetAvatar(c fiber.Ctx) error
}

// MediaHandler handles avatar upload and serving
type MediaHandler struct {
	mediaFlow businessflow.MediaFlow
}

func (h *MediaHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *MediaHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(mediaFlow businessflow.MediaFlow) *MediaHandler {
	return &MediaHandler{mediaFlow: mediaFlow}
}

// UploadAvatar handles avatar upload for authenticated users
// @Summary Upload Avatar
// @Description Upload a profile picture (jpeg/png/gif/webp). Images larger than 512px are downscaled and re-encoded as JPEG.
// @Tags Media
// @Accept mpfd
// @Produce json
// @Param file formData file true "Avatar image"
// @Success 201 {object} dto.APIResponse{data=dto.UploadAvatarResponse} "Upload successful"
// @Failure 400 {object} dto.APIResponse "Invalid request or file"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/media/avatar [post]
func (h *MediaHandler) UploadAvatar(c fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil || fileHeader == nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "file is required", "INVALID_FILE", nil)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "invalid file", "INVALID_FILE", err.Error())
	}
	defer file.Close()

	userID, ok := currentUserID(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "User ID not found in context", "MISSING_USER_ID", nil)
	}

	req := dto.UploadAvatarRequest{
		UserID:           userID,
		OriginalFilename: fileHeader.Filename,
		FileSize:         fileHeader.Size,
		ContentType:      fileHeader.Header.Get("Content-Type"),
		File:             file,
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.mediaFlow.UploadAvatar(createRequestContext(c, "/api/v1/media/avatar"), &req, metadata)
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "User not found", "USER_NOT_FOUND", nil)
		}
		if businessflow.IsImageTooLarge(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Image too large", "IMAGE_TOO_LARGE", nil)
		}
		if businessflow.IsUnsupportedImageFormat(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Unsupported image format", "UNSUPPORTED_FORMAT", nil)
		}

		log.Println("Upload avatar failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to upload avatar", "UPLOAD_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, result.Message, result)
}

// GetAvatar serves a stored avatar by uuid
// @Summary Get Avatar
// @Description Serve an avatar image by uuid
// @Tags Media
// @Produce image/jpeg
// @Param uuid path string true "Media UUID"
// @Success 200 {string} string "Binary image"
// @Failure 404 {object} dto.APIResponse "Not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/media/avatar/{uuid} [get]
func (h *MediaHandler) GetAvatar(c fiber.Ctx) error {
	mediaUUID := c.Params("uuid")
	if mediaUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid uuid", "INVALID_UUID", nil)
	}

	contentType, data, err := h.mediaFlow.GetAvatar(createRequestContext(c, "/api/v1/media/avatar/{uuid}"), mediaUUID)
	if err != nil {
		if businessflow.IsMediaNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Avatar not found", "MEDIA_NOT_FOUND", nil)
		}

		log.Println("Get avatar failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to get avatar", "GET_FAILED", nil)
	}

	c.Set("Content-Type", contentType)
	c.Set("Cache-Control", "public, max-age=86400")
	return c.Send(data)
}
