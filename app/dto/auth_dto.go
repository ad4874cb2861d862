// Package dto contains Data Transfer Objects for API request and response structures
package dto

// SignupRequest represents the request payload for user registration
type SignupRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=30,alphanum" example:"gopher42"`
	Name            string `json:"name" validate:"required,min=1,max=255" example:"John Doe"`
	Email           string `json:"email" validate:"required,email,max=255" example:"user@example.com"`
	Password        string `json:"password" validate:"required,min=8,max=100,password_strength" example:"SecurePass123"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password" example:"SecurePass123"`
}

// SignupResponse represents the result of a completed registration
type SignupResponse struct {
	Message string      `json:"message"`
	User    AuthUserDTO `json:"user"`
	Session *SessionDTO `json:"session,omitempty"`
}

// LoginRequest represents the request payload for user login
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required,min=3,max=255" example:"user@example.com or gopher42"`
	Password   string `json:"password" validate:"required,min=8,max=100" example:"SecurePass123"`
}

// LoginResponse represents the successful login result
type LoginResponse struct {
	Message string      `json:"message"`
	User    AuthUserDTO `json:"user"`
	Session SessionDTO  `json:"session"`
}

// RefreshTokenRequest represents the request payload for token refresh
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthUserDTO represents user information returned by auth endpoints
type AuthUserDTO struct {
	ID        uint   `json:"id" example:"123"`
	UUID      string `json:"uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	Username  string `json:"username" example:"gopher42"`
	Name      string `json:"name" example:"John Doe"`
	Email     string `json:"email" example:"user@example.com"`
	IsActive  *bool  `json:"is_active" example:"true"`
	CreatedAt string `json:"created_at" example:"2024-01-15T10:30:00Z"`
}

// SessionDTO represents the issued token pair
type SessionDTO struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type" example:"Bearer"`
	ExpiresIn    int    `json:"expires_in" example:"86400"`
	CreatedAt    string `json:"created_at"`
}
