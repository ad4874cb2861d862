package dto

import "io"

// UploadAvatarRequest contains upload details passed from handler to flow.
type UploadAvatarRequest struct {
	UserID           uint      `json:"-"`
	OriginalFilename string    `json:"-"`
	FileSize         int64     `json:"-"`
	ContentType      string    `json:"-"`
	File             io.Reader `json:"-"`
}

// UploadAvatarResponse represents a successful avatar upload response.
type UploadAvatarResponse struct {
	Message   string `json:"message"`
	UUID      string `json:"uuid"`
	MimeType  string `json:"mime_type"`
	SizeBytes int64  `json:"size_bytes"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	CreatedAt string `json:"created_at"`
}
