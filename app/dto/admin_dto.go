// Package dto
package dto

import "time"

type AdminDTO struct {
	ID        uint   `json:"id" example:"1"`
	UUID      string `json:"uuid" example:"f47ac10b-58cc-4372-a567-0e02b2c3d479"`
	Username  string `json:"username" example:"admin"`
	IsActive  *bool  `json:"is_active" example:"true"`
	CreatedAt string `json:"created_at" example:"2024-01-15T10:30:00Z"`
}

type AdminSessionDTO struct {
	AccessToken  string `json:"access_token" example:"jwt"`
	RefreshToken string `json:"refresh_token" example:"jwt"`
	ExpiresIn    int    `json:"expires_in" example:"3600"`
	TokenType    string `json:"token_type" example:"Bearer"`
	CreatedAt    string `json:"created_at" example:"2024-01-15T10:30:00Z"`
}

type AdminCaptchaInitResponse struct {
	ChallengeID       string `json:"challenge_id"`
	MasterImageBase64 string `json:"master_image_base64"`
	ThumbImageBase64  string `json:"thumb_image_base64"`
}

type AdminCaptchaVerifyRequest struct {
	ChallengeID string  `json:"challenge_id" validate:"required"`
	Username    string  `json:"username" validate:"required,min=3,max=255"`
	Password    string  `json:"password" validate:"required,min=8,max=100"`
	UserAngle   float64 `json:"user_angle" validate:"required"`
}

type AdminLoginResponse struct {
	Admin   AdminDTO        `json:"admin"`
	Session AdminSessionDTO `json:"session"`
}

// AdminListUsersRequest holds optional filters for the user report
type AdminListUsersRequest struct {
	Search   *string `query:"search" validate:"omitempty,max=100"`
	IsActive *bool   `query:"is_active" validate:"omitempty"`
	Page     int     `query:"page" validate:"omitempty,min=1"`
	PageSize int     `query:"page_size" validate:"omitempty,min=1,max=100"`
}

// AdminUserItem represents a single row in the admin user list
type AdminUserItem struct {
	ID            uint       `json:"id"`
	UUID          string     `json:"uuid"`
	Username      string     `json:"username"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	IsActive      *bool      `json:"is_active"`
	QuestionCount int64      `json:"question_count"`
	AnswerCount   int64      `json:"answer_count"`
	CreatedAt     time.Time  `json:"created_at"`
	LastLoginAt   *time.Time `json:"last_login_at,omitempty"`
}

// AdminListUsersResponse is the paginated user report
type AdminListUsersResponse struct {
	Message  string          `json:"message"`
	Items    []AdminUserItem `json:"items"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

// AdminSetUserActiveStatusRequest is the request to toggle user activity
type AdminSetUserActiveStatusRequest struct {
	UserID   uint `json:"user_id" validate:"required,min=1"`
	IsActive bool `json:"is_active"`
}

// AdminSetUserActiveStatusResponse reports the resulting status
type AdminSetUserActiveStatusResponse struct {
	Message  string `json:"message"`
	IsActive bool   `json:"is_active"`
}
