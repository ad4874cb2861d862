// Package tests contains test cases for models and repository packages to avoid circular imports
package tests

import (
	"testing"
	"time"

	"github.com/amirphl/Porseman/app/dto"
	"github.com/amirphl/Porseman/app/services"
	businessflow "github.com/amirphl/Porseman/business_flow"
	"github.com/amirphl/Porseman/models"
	"github.com/amirphl/Porseman/repository"
	testingutil "github.com/amirphl/Porseman/testing"
	"github.com/amirphl/Porseman/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(t *testing.T) services.TokenService {
	t.Helper()

	svc, err := services.NewTokenService(
		15*time.Minute,
		7*24*time.Hour,
		"test-issuer",
		"test-audience",
		false,
		"",
		"",
		"test-secret-key-for-jwt-signing-32-chars",
	)
	require.NoError(t, err)
	return svc
}

func newAuthFlows(t *testing.T, testDB *testingutil.TestDB) (businessflow.SignupFlow, businessflow.LoginFlow) {
	t.Helper()

	userRepo := repository.NewUserRepository(testDB.DB)
	sessionRepo := repository.NewUserSessionRepository(testDB.DB)
	auditRepo := repository.NewAuditLogRepository(testDB.DB)
	tokenService := newTestTokenService(t)

	signupFlow := businessflow.NewSignupFlow(userRepo, sessionRepo, auditRepo, tokenService, testDB.DB)
	loginFlow := businessflow.NewLoginFlow(userRepo, sessionRepo, auditRepo, tokenService, testDB.DB)
	return signupFlow, loginFlow
}

func testMetadata() *businessflow.ClientMetadata {
	return businessflow.NewClientMetadata("127.0.0.1", "Test User Agent")
}

func TestSignupFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		signupFlow, _ := newAuthFlows(t, testDB)
		ctx := testingutil.CreateTestContext()

		req := &dto.SignupRequest{
			Username:        "gopher42",
			Name:            "John Doe",
			Email:           "Gopher42@Example.com",
			Password:        "SecurePass123",
			ConfirmPassword: "SecurePass123",
		}

		t.Run("SuccessfulSignup", func(t *testing.T) {
			resp, err := signupFlow.Signup(ctx, req, testMetadata())
			require.NoError(t, err)
			require.NotNil(t, resp)

			assert.Equal(t, "gopher42", resp.User.Username)
			// Email is normalized to lowercase
			assert.Equal(t, "gopher42@example.com", resp.User.Email)
			require.NotNil(t, resp.Session)
			assert.NotEmpty(t, resp.Session.AccessToken)
			assert.NotEmpty(t, resp.Session.RefreshToken)
		})

		t.Run("DuplicateUsername", func(t *testing.T) {
			dup := *req
			dup.Email = "other@example.com"
			_, err := signupFlow.Signup(ctx, &dup, testMetadata())
			require.Error(t, err)
			assert.True(t, businessflow.IsUsernameAlreadyExists(err))
		})

		t.Run("DuplicateEmail", func(t *testing.T) {
			dup := *req
			dup.Username = "gopher43"
			_, err := signupFlow.Signup(ctx, &dup, testMetadata())
			require.Error(t, err)
			assert.True(t, businessflow.IsEmailAlreadyExists(err))
		})

		t.Run("PasswordMismatch", func(t *testing.T) {
			bad := *req
			bad.Username = "gopher44"
			bad.Email = "gopher44@example.com"
			bad.ConfirmPassword = "Different123"
			_, err := signupFlow.Signup(ctx, &bad, testMetadata())
			require.Error(t, err)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestLoginFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		signupFlow, loginFlow := newAuthFlows(t, testDB)
		ctx := testingutil.CreateTestContext()

		_, err := signupFlow.Signup(ctx, &dto.SignupRequest{
			Username:        "gopher42",
			Name:            "John Doe",
			Email:           "gopher42@example.com",
			Password:        "SecurePass123",
			ConfirmPassword: "SecurePass123",
		}, testMetadata())
		require.NoError(t, err)

		t.Run("LoginWithEmail", func(t *testing.T) {
			resp, err := loginFlow.Login(ctx, &dto.LoginRequest{
				Identifier: "gopher42@example.com",
				Password:   "SecurePass123",
			}, testMetadata())
			require.NoError(t, err)
			assert.Equal(t, "gopher42", resp.User.Username)
			assert.NotEmpty(t, resp.Session.AccessToken)

			// The login timestamp lands on the stored row
			userRepo := repository.NewUserRepository(testDB.DB)
			stored, err := userRepo.ByUsername(ctx, "gopher42")
			require.NoError(t, err)
			require.NotNil(t, stored.LastLoginAt)
		})

		t.Run("RepeatedLoginsSucceed", func(t *testing.T) {
			for i := 0; i < 3; i++ {
				_, err := loginFlow.Login(ctx, &dto.LoginRequest{
					Identifier: "gopher42@example.com",
					Password:   "SecurePass123",
				}, testMetadata())
				require.NoError(t, err)
			}
		})

		t.Run("LoginWithUsername", func(t *testing.T) {
			resp, err := loginFlow.Login(ctx, &dto.LoginRequest{
				Identifier: "gopher42",
				Password:   "SecurePass123",
			}, testMetadata())
			require.NoError(t, err)
			assert.Equal(t, "gopher42", resp.User.Username)
		})

		t.Run("WrongPassword", func(t *testing.T) {
			_, err := loginFlow.Login(ctx, &dto.LoginRequest{
				Identifier: "gopher42",
				Password:   "WrongPass123",
			}, testMetadata())
			require.Error(t, err)
			assert.True(t, businessflow.IsIncorrectPassword(err))
		})

		t.Run("UnknownIdentifier", func(t *testing.T) {
			_, err := loginFlow.Login(ctx, &dto.LoginRequest{
				Identifier: "nobody@example.com",
				Password:   "SecurePass123",
			}, testMetadata())
			require.Error(t, err)
			assert.True(t, businessflow.IsUserNotFound(err))
		})

		t.Run("InactiveAccount", func(t *testing.T) {
			userRepo := repository.NewUserRepository(testDB.DB)
			user, err := userRepo.ByUsername(ctx, "gopher42")
			require.NoError(t, err)
			require.NoError(t, userRepo.SetActive(ctx, user.ID, false))

			_, err = loginFlow.Login(ctx, &dto.LoginRequest{
				Identifier: "gopher42",
				Password:   "SecurePass123",
			}, testMetadata())
			require.Error(t, err)
			assert.True(t, businessflow.IsAccountInactive(err))

			require.NoError(t, userRepo.SetActive(ctx, user.ID, true))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestRefreshAndLogout(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		signupFlow, loginFlow := newAuthFlows(t, testDB)
		ctx := testingutil.CreateTestContext()

		signupResp, err := signupFlow.Signup(ctx, &dto.SignupRequest{
			Username:        "gopher42",
			Name:            "John Doe",
			Email:           "gopher42@example.com",
			Password:        "SecurePass123",
			ConfirmPassword: "SecurePass123",
		}, testMetadata())
		require.NoError(t, err)

		t.Run("RefreshRotatesTokens", func(t *testing.T) {
			resp, err := loginFlow.RefreshToken(ctx, &dto.RefreshTokenRequest{
				RefreshToken: signupResp.Session.RefreshToken,
			}, testMetadata())
			require.NoError(t, err)
			assert.NotEmpty(t, resp.Session.AccessToken)
			assert.NotEqual(t, signupResp.Session.AccessToken, resp.Session.AccessToken)

			sessionRepo := repository.NewUserSessionRepository(testDB.DB)

			// The old session is retired, the new one is active and keeps
			// the correlation id, and rotation wrote exactly one new row
			old, err := sessionRepo.BySessionToken(ctx, signupResp.Session.AccessToken)
			require.NoError(t, err)
			require.NotNil(t, old)
			assert.False(t, utils.IsTrue(old.IsActive))

			rotated, err := sessionRepo.BySessionToken(ctx, resp.Session.AccessToken)
			require.NoError(t, err)
			require.NotNil(t, rotated)
			assert.True(t, utils.IsTrue(rotated.IsActive))
			assert.Equal(t, old.CorrelationID, rotated.CorrelationID)

			total, err := sessionRepo.Count(ctx, models.UserSessionFilter{UserID: &old.UserID})
			require.NoError(t, err)
			assert.Equal(t, int64(2), total)
		})

		t.Run("RefreshWithUnknownToken", func(t *testing.T) {
			_, err := loginFlow.RefreshToken(ctx, &dto.RefreshTokenRequest{
				RefreshToken: "not-a-known-token",
			}, testMetadata())
			require.Error(t, err)
			assert.True(t, businessflow.IsSessionNotFound(err))
		})

		t.Run("Logout", func(t *testing.T) {
			loginResp, err := loginFlow.Login(ctx, &dto.LoginRequest{
				Identifier: "gopher42",
				Password:   "SecurePass123",
			}, testMetadata())
			require.NoError(t, err)

			err = loginFlow.Logout(ctx, loginResp.Session.AccessToken, testMetadata())
			require.NoError(t, err)

			// The expired session cannot be refreshed anymore
			_, err = loginFlow.RefreshToken(ctx, &dto.RefreshTokenRequest{
				RefreshToken: loginResp.Session.RefreshToken,
			}, testMetadata())
			require.Error(t, err)
		})

		return nil
	})
	require.NoError(t, err)
}
