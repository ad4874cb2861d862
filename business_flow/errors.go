// Package businessflow contains the core business logic and use cases for the Q&A platform
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// User-related errors
	ErrUserNotFound          = errors.New("user not found")
	ErrAccountInactive       = errors.New("account is inactive")
	ErrIncorrectPassword     = errors.New("incorrect password")
	ErrEmailAlreadyExists    = errors.New("email already exists")
	ErrUsernameAlreadyExists = errors.New("username already exists")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session has expired")

	// Question-related errors
	ErrQuestionNotFound        = errors.New("question not found")
	ErrQuestionAccessDenied    = errors.New("question access denied")
	ErrQuestionTitleRequired   = errors.New("question title is required")
	ErrQuestionContentRequired = errors.New("question content is required")
	ErrQuestionTagsRequired    = errors.New("at least one tag is required")
	ErrTooManyTags             = errors.New("a question can carry at most three tags")
	ErrTagNameTooLong          = errors.New("tag name is too long")

	// Answer-related errors
	ErrAnswerNotFound     = errors.New("answer not found")
	ErrAnswerAccessDenied = errors.New("answer access denied")
	ErrEmptyAnswer        = errors.New("answer content is required")

	// Vote-related errors
	ErrInvalidVoteKind   = errors.New("vote kind must be up or down")
	ErrInvalidVoteTarget = errors.New("vote target must be a question or an answer")

	// Tag errors
	ErrTagNotFound = errors.New("tag not found")

	// Search errors
	ErrEmptySearchQuery = errors.New("search query is required")

	// Media errors
	ErrUnsupportedImageFormat = errors.New("unsupported image format")
	ErrImageTooLarge          = errors.New("image exceeds the maximum allowed size")
	ErrMediaNotFound          = errors.New("media not found")

	// Admin errors
	ErrAdminNotFound  = errors.New("admin not found")
	ErrAdminInactive  = errors.New("admin account is inactive")
	ErrInvalidCaptcha = errors.New("captcha verification failed")

	// Cache errors
	ErrCacheNotAvailable = errors.New("cache not available")

	// Filter errors
	ErrInvalidPage     = errors.New("page must be at least 1")
	ErrInvalidPageSize = errors.New("page size must be between 1 and 100")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsUserNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

func IsAccountInactive(err error) bool {
	return errors.Is(err, ErrAccountInactive)
}

func IsIncorrectPassword(err error) bool {
	return errors.Is(err, ErrIncorrectPassword)
}

func IsEmailAlreadyExists(err error) bool {
	return errors.Is(err, ErrEmailAlreadyExists)
}

func IsUsernameAlreadyExists(err error) bool {
	return errors.Is(err, ErrUsernameAlreadyExists)
}

func IsSessionNotFound(err error) bool {
	return errors.Is(err, ErrSessionNotFound)
}

func IsSessionExpired(err error) bool {
	return errors.Is(err, ErrSessionExpired)
}

func IsQuestionNotFound(err error) bool {
	return errors.Is(err, ErrQuestionNotFound)
}

func IsQuestionAccessDenied(err error) bool {
	return errors.Is(err, ErrQuestionAccessDenied)
}

func IsQuestionTitleRequired(err error) bool {
	return errors.Is(err, ErrQuestionTitleRequired)
}

func IsQuestionContentRequired(err error) bool {
	return errors.Is(err, ErrQuestionContentRequired)
}

func IsQuestionTagsRequired(err error) bool {
	return errors.Is(err, ErrQuestionTagsRequired)
}

func IsTooManyTags(err error) bool {
	return errors.Is(err, ErrTooManyTags)
}

func IsTagNameTooLong(err error) bool {
	return errors.Is(err, ErrTagNameTooLong)
}

func IsAnswerNotFound(err error) bool {
	return errors.Is(err, ErrAnswerNotFound)
}

func IsAnswerAccessDenied(err error) bool {
	return errors.Is(err, ErrAnswerAccessDenied)
}

func IsEmptyAnswer(err error) bool {
	return errors.Is(err, ErrEmptyAnswer)
}

func IsInvalidVoteKind(err error) bool {
	return errors.Is(err, ErrInvalidVoteKind)
}

func IsInvalidVoteTarget(err error) bool {
	return errors.Is(err, ErrInvalidVoteTarget)
}

func IsTagNotFound(err error) bool {
	return errors.Is(err, ErrTagNotFound)
}

func IsEmptySearchQuery(err error) bool {
	return errors.Is(err, ErrEmptySearchQuery)
}

func IsUnsupportedImageFormat(err error) bool {
	return errors.Is(err, ErrUnsupportedImageFormat)
}

func IsImageTooLarge(err error) bool {
	return errors.Is(err, ErrImageTooLarge)
}

func IsMediaNotFound(err error) bool {
	return errors.Is(err, ErrMediaNotFound)
}

func IsAdminNotFound(err error) bool {
	return errors.Is(err, ErrAdminNotFound)
}

func IsAdminInactive(err error) bool {
	return errors.Is(err, ErrAdminInactive)
}

func IsInvalidCaptcha(err error) bool {
	return errors.Is(err, ErrInvalidCaptcha)
}

func IsCacheNotAvailable(err error) bool {
	return errors.Is(err, ErrCacheNotAvailable)
}

func IsInvalidPage(err error) bool {
	return errors.Is(err, ErrInvalidPage)
}

func IsInvalidPageSize(err error) bool {
	return errors.Is(err, ErrInvalidPageSize)
}
