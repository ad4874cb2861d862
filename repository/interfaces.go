// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/amirphl/Porseman/models"
	"github.com/google/uuid"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// UserRepository defines operations for users
type UserRepository interface {
	Repository[models.User, models.UserFilter]
	ByEmail(ctx context.Context, email string) (*models.User, error)
	ByUsername(ctx context.Context, username string) (*models.User, error)
	ByUUID(ctx context.Context, id uuid.UUID) (*models.User, error)
	SearchByName(ctx context.Context, query string, limit int) ([]*models.User, error)
	UpdatePassword(ctx context.Context, userID uint, passwordHash string) error
	UpdateLastLogin(ctx context.Context, userID uint, t time.Time) error
	UpdateProfile(ctx context.Context, user *models.User) error
	SetActive(ctx context.Context, userID uint, active bool) error
}

// UserSessionRepository defines operations for user sessions
type UserSessionRepository interface {
	Repository[models.UserSession, models.UserSessionFilter]
	BySessionToken(ctx context.Context, token string) (*models.UserSession, error)
	ByRefreshToken(ctx context.Context, token string) (*models.UserSession, error)
	ExpireSession(ctx context.Context, sessionID uint) error
	ExpireAllUserSessions(ctx context.Context, userID uint) error
}

// AdminRepository defines operations for admins
type AdminRepository interface {
	Repository[models.Admin, models.AdminFilter]
	ByUsername(ctx context.Context, username string) (*models.Admin, error)
	TouchLastLogin(ctx context.Context, adminID uint) error
}

// AuditLogRepository defines operations for audit logs
type AuditLogRepository interface {
	Repository[models.AuditLog, models.AuditLogFilter]
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.AuditLog, error)
	ListByAction(ctx context.Context, action string, limit, offset int) ([]*models.AuditLog, error)
}

// QuestionRepository defines operations for questions
type QuestionRepository interface {
	Repository[models.Question, models.QuestionFilter]
	ByUUID(ctx context.Context, id uuid.UUID) (*models.Question, error)
	SearchByTitle(ctx context.Context, query string, limit int) ([]*models.Question, error)
	IncrementViews(ctx context.Context, questionID uint) (int64, error)
	Update(ctx context.Context, question *models.Question) error
	Delete(ctx context.Context, questionID uint) error
	SumViewsByAuthor(ctx context.Context, authorID uint) (int64, error)
}

// AnswerRepository defines operations for answers
type AnswerRepository interface {
	Repository[models.Answer, models.AnswerFilter]
	ByUUID(ctx context.Context, id uuid.UUID) (*models.Answer, error)
	ListByQuestion(ctx context.Context, questionID uint, orderBy string, limit, offset int) ([]*models.Answer, error)
	ListTopByAuthor(ctx context.Context, authorID uint, limit int) ([]*models.Answer, error)
	SearchByContent(ctx context.Context, query string, limit int) ([]*models.Answer, error)
	Delete(ctx context.Context, answerID uint) error
}

// VoteRepository defines operations for the vote ledger
type VoteRepository interface {
	Repository[models.Vote, models.VoteFilter]
	ByTargetAndUser(ctx context.Context, targetType string, targetID, userID uint) (*models.Vote, error)
	CountsForTarget(ctx context.Context, targetType string, targetID, userID uint) (*models.VoteCounts, error)
	UpdateKind(ctx context.Context, voteID uint, kind string) error
	Delete(ctx context.Context, voteID uint) error
	CountUpvotesReceivedOnQuestions(ctx context.Context, authorID uint) (int64, error)
	CountUpvotesReceivedOnAnswers(ctx context.Context, authorID uint) (int64, error)
	NetScoreForAnswers(ctx context.Context, answerIDs []uint) (map[uint]int64, error)
}

// TagRepository defines operations for tags
type TagRepository interface {
	Repository[models.Tag, models.TagFilter]
	ByNameFold(ctx context.Context, name string) (*models.Tag, error)
	AttachQuestion(ctx context.Context, tagID, questionID uint) error
	ListPopular(ctx context.Context, limit, offset int) ([]*models.TagWithCount, error)
	SearchByName(ctx context.Context, query string, limit int) ([]*models.Tag, error)
	ListByQuestion(ctx context.Context, questionID uint) ([]*models.Tag, error)
	CountQuestions(ctx context.Context, tagID uint) (int64, error)
}

// SavedQuestionRepository defines operations for a user's saved-question collection
type SavedQuestionRepository interface {
	Repository[models.SavedQuestion, models.SavedQuestionFilter]
	ByUserAndQuestion(ctx context.Context, userID, questionID uint) (*models.SavedQuestion, error)
	ListQuestionsByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Question, error)
	Delete(ctx context.Context, savedID uint) error
}

// InteractionRepository defines operations for interaction records
type InteractionRepository interface {
	Repository[models.Interaction, models.InteractionFilter]
}

// MediaRepository defines operations for media assets
type MediaRepository interface {
	Repository[models.MediaAsset, models.MediaAssetFilter]
	ByUUID(ctx context.Context, id uuid.UUID) (*models.MediaAsset, error)
}
