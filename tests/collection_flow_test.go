// Package tests contains test cases for models and repository packages to avoid circular imports
package tests

import (
	"testing"

	"github.com/amirphl/Porseman/app/dto"
	businessflow "github.com/amirphl/Porseman/business_flow"
	"github.com/amirphl/Porseman/repository"
	testingutil "github.com/amirphl/Porseman/testing"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCollectionFlow(testDB *testingutil.TestDB) businessflow.CollectionFlow {
	return businessflow.NewCollectionFlow(
		repository.NewSavedQuestionRepository(testDB.DB),
		repository.NewQuestionRepository(testDB.DB),
		repository.NewAnswerRepository(testDB.DB),
		repository.NewTagRepository(testDB.DB),
		testDB.DB,
	)
}

func TestCollectionFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		collectionFlow := newCollectionFlow(testDB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		reader, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		author, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		question, err := fixtures.CreateTestQuestion(author.ID, "How do I pin a dependency version?")
		require.NoError(t, err)

		t.Run("FirstToggleSaves", func(t *testing.T) {
			resp, err := collectionFlow.ToggleSave(ctx, question.UUID, reader.ID)
			require.NoError(t, err)
			assert.True(t, resp.Saved)

			list, err := collectionFlow.ListSaved(ctx, reader.ID, &dto.ListSavedQuestionsRequest{})
			require.NoError(t, err)
			require.Len(t, list.Items, 1)
			assert.Equal(t, question.Title, list.Items[0].Title)
			assert.Equal(t, int64(1), list.Total)
		})

		t.Run("SecondToggleRemoves", func(t *testing.T) {
			resp, err := collectionFlow.ToggleSave(ctx, question.UUID, reader.ID)
			require.NoError(t, err)
			assert.False(t, resp.Saved)

			list, err := collectionFlow.ListSaved(ctx, reader.ID, &dto.ListSavedQuestionsRequest{})
			require.NoError(t, err)
			assert.Empty(t, list.Items)
			assert.Equal(t, int64(0), list.Total)
		})

		t.Run("CollectionsAreSeparatePerUser", func(t *testing.T) {
			_, err := collectionFlow.ToggleSave(ctx, question.UUID, reader.ID)
			require.NoError(t, err)

			list, err := collectionFlow.ListSaved(ctx, author.ID, &dto.ListSavedQuestionsRequest{})
			require.NoError(t, err)
			assert.Empty(t, list.Items)
		})

		t.Run("UnknownQuestion", func(t *testing.T) {
			_, err := collectionFlow.ToggleSave(ctx, uuid.New(), reader.ID)
			require.Error(t, err)
			assert.True(t, businessflow.IsQuestionNotFound(err))
		})

		t.Run("ListInvalidPageSize", func(t *testing.T) {
			_, err := collectionFlow.ListSaved(ctx, reader.ID, &dto.ListSavedQuestionsRequest{PageSize: 500})
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidPageSize(err))
		})

		return nil
	})
	require.NoError(t, err)
}
