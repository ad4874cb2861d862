// Package tests contains test cases for models and repository packages to avoid circular imports
package tests

import (
	"fmt"
	"strings"
	"testing"

	"github.com/amirphl/Porseman/app/dto"
	businessflow "github.com/amirphl/Porseman/business_flow"
	"github.com/amirphl/Porseman/models"
	"github.com/amirphl/Porseman/repository"
	testingutil "github.com/amirphl/Porseman/testing"
	"github.com/amirphl/Porseman/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSearchFlow(testDB *testingutil.TestDB) businessflow.SearchFlow {
	return businessflow.NewSearchFlow(
		repository.NewQuestionRepository(testDB.DB),
		repository.NewAnswerRepository(testDB.DB),
		repository.NewTagRepository(testDB.DB),
		repository.NewUserRepository(testDB.DB),
	)
}

func TestGlobalSearch(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		searchFlow := newSearchFlow(testDB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		author, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		// One hit per kind for the query "generics"
		question, err := fixtures.CreateTestQuestion(author.ID, "What are Generics good for?")
		require.NoError(t, err)

		answerRepo := repository.NewAnswerRepository(testDB.DB)
		answer := &models.Answer{
			UUID:       uuid.New(),
			QuestionID: question.ID,
			AuthorID:   author.ID,
			Content:    "Generics remove the need for reflection in container types.",
			CreatedAt:  utils.UTCNow(),
			UpdatedAt:  utils.UTCNow(),
		}
		require.NoError(t, answerRepo.Save(ctx, answer))

		_, err = fixtures.CreateTestTag("generics", question.ID)
		require.NoError(t, err)

		matchingUser, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		err = testDB.DB.Model(matchingUser).Update("name", "Generics Fan").Error
		require.NoError(t, err)

		t.Run("KindsAppearInFixedOrder", func(t *testing.T) {
			resp, err := searchFlow.GlobalSearch(ctx, &dto.GlobalSearchRequest{Query: "generics"})
			require.NoError(t, err)
			require.Len(t, resp.Items, 4)

			assert.Equal(t, businessflow.SearchKindQuestion, resp.Items[0].Type)
			assert.Equal(t, question.Title, resp.Items[0].Title)
			assert.Equal(t, businessflow.SearchKindAnswer, resp.Items[1].Type)
			assert.Equal(t, businessflow.SearchKindTag, resp.Items[2].Type)
			assert.Equal(t, "generics", resp.Items[2].Title)
			assert.Equal(t, businessflow.SearchKindUser, resp.Items[3].Type)
			assert.Equal(t, "Generics Fan", resp.Items[3].Title)
		})

		t.Run("TypeNarrowsToOneKind", func(t *testing.T) {
			resp, err := searchFlow.GlobalSearch(ctx, &dto.GlobalSearchRequest{
				Query: "generics",
				Type:  businessflow.SearchKindTag,
			})
			require.NoError(t, err)
			require.Len(t, resp.Items, 1)
			assert.Equal(t, businessflow.SearchKindTag, resp.Items[0].Type)
		})

		t.Run("UnrecognizedTypeFansOutToAllKinds", func(t *testing.T) {
			resp, err := searchFlow.GlobalSearch(ctx, &dto.GlobalSearchRequest{
				Query: "generics",
				Type:  "comment",
			})
			require.NoError(t, err)
			require.Len(t, resp.Items, 4)
			assert.Equal(t, businessflow.SearchKindQuestion, resp.Items[0].Type)
			assert.Equal(t, businessflow.SearchKindUser, resp.Items[3].Type)
		})

		t.Run("PerKindCap", func(t *testing.T) {
			for i := 0; i < utils.GlobalSearchPerKindLimit+2; i++ {
				_, err := fixtures.CreateTestQuestion(author.ID, fmt.Sprintf("Widget question number %d?", i))
				require.NoError(t, err)
			}

			resp, err := searchFlow.GlobalSearch(ctx, &dto.GlobalSearchRequest{Query: "widget"})
			require.NoError(t, err)
			assert.Len(t, resp.Items, utils.GlobalSearchPerKindLimit)
			for _, item := range resp.Items {
				assert.Equal(t, businessflow.SearchKindQuestion, item.Type)
			}
		})

		t.Run("AnswerSnippetTruncation", func(t *testing.T) {
			long := &models.Answer{
				UUID:       uuid.New(),
				QuestionID: question.ID,
				AuthorID:   author.ID,
				Content:    strings.Repeat("verbose ", 20) + "end",
				CreatedAt:  utils.UTCNow(),
				UpdatedAt:  utils.UTCNow(),
			}
			require.NoError(t, answerRepo.Save(ctx, long))

			resp, err := searchFlow.GlobalSearch(ctx, &dto.GlobalSearchRequest{
				Query: "verbose",
				Type:  businessflow.SearchKindAnswer,
			})
			require.NoError(t, err)
			require.Len(t, resp.Items, 1)
			assert.Len(t, resp.Items[0].Title, 83)
			assert.True(t, strings.HasSuffix(resp.Items[0].Title, "..."))
		})

		t.Run("EmptyQuery", func(t *testing.T) {
			_, err := searchFlow.GlobalSearch(ctx, &dto.GlobalSearchRequest{Query: "  "})
			require.Error(t, err)
			assert.True(t, businessflow.IsEmptySearchQuery(err))
		})

		return nil
	})
	require.NoError(t, err)
}
