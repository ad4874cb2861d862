// Package testing provides test utilities and database setup for testing the Q&A platform
package testing

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	mathrand "math/rand"
	"time"

	"github.com/amirphl/Porseman/models"
	"github.com/amirphl/Porseman/utils"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestUser creates an active user with a unique username and email
func (tf *TestFixtures) CreateTestUser() (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("TestPass123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	suffix := fmt.Sprintf("%09d", mathrand.Intn(900000000)+100000000)

	user := &models.User{
		UUID:         uuid.New(),
		Username:     fmt.Sprintf("user%s", suffix),
		Name:         "John Doe",
		Email:        fmt.Sprintf("john.doe.%s@example.com", suffix),
		PasswordHash: string(hashedPassword),
		IsActive:     utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create test user: %w", err)
	}

	return user, nil
}

// CreateTestQuestion creates a question authored by the given user
func (tf *TestFixtures) CreateTestQuestion(authorID uint, title string) (*models.Question, error) {
	if title == "" {
		title = fmt.Sprintf("How do I test %d?", mathrand.Intn(100000))
	}

	question := &models.Question{
		UUID:     uuid.New(),
		AuthorID: authorID,
		Title:    title,
		Content:  "Some question body with enough detail to be answerable.",
	}

	if err := tf.DB.DB.Create(question).Error; err != nil {
		return nil, fmt.Errorf("failed to create test question: %w", err)
	}

	return question, nil
}

// CreateTestAnswer creates an answer on the given question
func (tf *TestFixtures) CreateTestAnswer(questionID, authorID uint) (*models.Answer, error) {
	answer := &models.Answer{
		UUID:       uuid.New(),
		QuestionID: questionID,
		AuthorID:   authorID,
		Content:    "You can do it like this.",
	}

	if err := tf.DB.DB.Create(answer).Error; err != nil {
		return nil, fmt.Errorf("failed to create test answer: %w", err)
	}

	return answer, nil
}

// CreateTestTag creates a tag and attaches it to the question if questionID is nonzero
func (tf *TestFixtures) CreateTestTag(name string, questionID uint) (*models.Tag, error) {
	tag := &models.Tag{Name: name}
	if err := tf.DB.DB.Create(tag).Error; err != nil {
		return nil, fmt.Errorf("failed to create test tag: %w", err)
	}

	if questionID != 0 {
		link := &models.QuestionTag{TagID: tag.ID, QuestionID: questionID}
		if err := tf.DB.DB.Create(link).Error; err != nil {
			return nil, fmt.Errorf("failed to attach test tag: %w", err)
		}
	}

	return tag, nil
}

// CreateTestVote records a vote on a question or answer
func (tf *TestFixtures) CreateTestVote(targetType string, targetID, userID uint, kind string) (*models.Vote, error) {
	vote := &models.Vote{
		TargetType: targetType,
		TargetID:   targetID,
		UserID:     userID,
		Kind:       kind,
	}

	if err := tf.DB.DB.Create(vote).Error; err != nil {
		return nil, fmt.Errorf("failed to create test vote: %w", err)
	}

	return vote, nil
}

// GenerateSecureToken returns a random URL-safe token
func GenerateSecureToken(length int) (string, error) {
	b := make([]byte, length)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// CreateTestSession creates an active session for the user
func (tf *TestFixtures) CreateTestSession(userID uint) (*models.UserSession, error) {
	sessionToken, err := GenerateSecureToken(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate secure session token: %w", err)
	}

	refreshToken, err := GenerateSecureToken(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate secure refresh token: %w", err)
	}

	ipAddress := "127.0.0.1"
	userAgent := "Test User Agent"

	session := &models.UserSession{
		CorrelationID: uuid.New(),
		UserID:        userID,
		SessionToken:  sessionToken,
		RefreshToken:  &refreshToken,
		ExpiresAt:     time.Now().Add(24 * time.Hour),
		IsActive:      utils.ToPtr(true),
		IPAddress:     &ipAddress,
		UserAgent:     &userAgent,
	}

	if err := tf.DB.DB.Create(session).Error; err != nil {
		return nil, fmt.Errorf("failed to create test session: %w", err)
	}

	return session, nil
}

// CreateTestAuditLog creates a test audit log entry
func (tf *TestFixtures) CreateTestAuditLog(userID *uint, action string, success bool) (*models.AuditLog, error) {
	description := fmt.Sprintf("Test %s action", action)
	ipAddress := "127.0.0.1"
	userAgent := "Test User Agent"

	audit := &models.AuditLog{
		UserID:      userID,
		Action:      action,
		Description: &description,
		Success:     &success,
		IPAddress:   &ipAddress,
		UserAgent:   &userAgent,
	}

	if !success {
		errorMessage := "Test failed action"
		audit.ErrorMessage = &errorMessage
	}

	if err := tf.DB.DB.Create(audit).Error; err != nil {
		return nil, fmt.Errorf("failed to create test audit log: %w", err)
	}

	return audit, nil
}

// CreateQuestionWithAnswers creates a question plus n answers from the same author
func (tf *TestFixtures) CreateQuestionWithAnswers(authorID uint, n int) (*models.Question, []*models.Answer, error) {
	question, err := tf.CreateTestQuestion(authorID, "")
	if err != nil {
		return nil, nil, err
	}

	var answers []*models.Answer
	for i := 0; i < n; i++ {
		answer, err := tf.CreateTestAnswer(question.ID, authorID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create answer %d: %w", i, err)
		}
		answers = append(answers, answer)
	}

	return question, answers, nil
}
