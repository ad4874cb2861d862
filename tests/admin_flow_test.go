// Package tests contains test cases for models and repository packages to avoid circular imports
package tests

import (
	"bytes"
	"strings"
	"testing"

	"github.com/amirphl/Porseman/app/dto"
	businessflow "github.com/amirphl/Porseman/business_flow"
	"github.com/amirphl/Porseman/repository"
	testingutil "github.com/amirphl/Porseman/testing"
	"github.com/amirphl/Porseman/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newAdminFlow(testDB *testingutil.TestDB) businessflow.AdminFlow {
	return businessflow.NewAdminFlow(
		repository.NewUserRepository(testDB.DB),
		repository.NewQuestionRepository(testDB.DB),
		repository.NewAnswerRepository(testDB.DB),
		repository.NewUserSessionRepository(testDB.DB),
		repository.NewAuditLogRepository(testDB.DB),
		testDB.DB,
	)
}

func TestAdminListUsers(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		adminFlow := newAdminFlow(testDB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		active, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		inactive, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		require.NoError(t, repository.NewUserRepository(testDB.DB).SetActive(ctx, inactive.ID, false))

		question, err := fixtures.CreateTestQuestion(active.ID, "How do I rotate logs?")
		require.NoError(t, err)
		_, err = fixtures.CreateTestAnswer(question.ID, active.ID)
		require.NoError(t, err)

		t.Run("AllUsers", func(t *testing.T) {
			resp, err := adminFlow.ListUsers(ctx, &dto.AdminListUsersRequest{})
			require.NoError(t, err)
			assert.Equal(t, int64(2), resp.Total)
			require.Len(t, resp.Items, 2)
		})

		t.Run("ActivityCounts", func(t *testing.T) {
			resp, err := adminFlow.ListUsers(ctx, &dto.AdminListUsersRequest{})
			require.NoError(t, err)

			for _, item := range resp.Items {
				if item.ID == active.ID {
					assert.Equal(t, int64(1), item.QuestionCount)
					assert.Equal(t, int64(1), item.AnswerCount)
				} else {
					assert.Equal(t, int64(0), item.QuestionCount)
					assert.Equal(t, int64(0), item.AnswerCount)
				}
			}
		})

		t.Run("FilterByActive", func(t *testing.T) {
			resp, err := adminFlow.ListUsers(ctx, &dto.AdminListUsersRequest{IsActive: utils.ToPtr(false)})
			require.NoError(t, err)
			require.Len(t, resp.Items, 1)
			assert.Equal(t, inactive.ID, resp.Items[0].ID)
		})

		t.Run("SearchByName", func(t *testing.T) {
			resp, err := adminFlow.ListUsers(ctx, &dto.AdminListUsersRequest{Search: utils.ToPtr("john")})
			require.NoError(t, err)
			assert.Equal(t, int64(2), resp.Total)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestAdminSetUserActiveStatus(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		adminFlow := newAdminFlow(testDB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		user, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		session, err := fixtures.CreateTestSession(user.ID)
		require.NoError(t, err)

		t.Run("DeactivationRetiresSessions", func(t *testing.T) {
			resp, err := adminFlow.SetUserActiveStatus(ctx, &dto.AdminSetUserActiveStatusRequest{
				UserID:   user.ID,
				IsActive: false,
			}, testMetadata())
			require.NoError(t, err)
			assert.False(t, resp.IsActive)

			sessionRepo := repository.NewUserSessionRepository(testDB.DB)
			stored, err := sessionRepo.BySessionToken(ctx, session.SessionToken)
			require.NoError(t, err)
			require.NotNil(t, stored)
			assert.False(t, utils.IsTrue(stored.IsActive))

			fresh, err := repository.NewUserRepository(testDB.DB).ByID(ctx, user.ID)
			require.NoError(t, err)
			assert.False(t, utils.IsTrue(fresh.IsActive))
		})

		t.Run("Reactivation", func(t *testing.T) {
			resp, err := adminFlow.SetUserActiveStatus(ctx, &dto.AdminSetUserActiveStatusRequest{
				UserID:   user.ID,
				IsActive: true,
			}, testMetadata())
			require.NoError(t, err)
			assert.True(t, resp.IsActive)
		})

		t.Run("UnknownUser", func(t *testing.T) {
			_, err := adminFlow.SetUserActiveStatus(ctx, &dto.AdminSetUserActiveStatusRequest{
				UserID:   99999,
				IsActive: false,
			}, testMetadata())
			require.Error(t, err)
			assert.True(t, businessflow.IsUserNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestAdminExportUsersExcel(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		adminFlow := newAdminFlow(testDB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		user, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		filename, content, err := adminFlow.ExportUsersExcel(ctx, &dto.AdminListUsersRequest{})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(filename, "users_"))
		assert.True(t, strings.HasSuffix(filename, ".xlsx"))

		xl, err := excelize.OpenReader(bytes.NewReader(content))
		require.NoError(t, err)
		defer func() { _ = xl.Close() }()

		rows, err := xl.GetRows("users")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "username", rows[0][2])
		assert.Equal(t, user.Username, rows[1][2])
		assert.Equal(t, user.Email, rows[1][4])

		return nil
	})
	require.NoError(t, err)
}
