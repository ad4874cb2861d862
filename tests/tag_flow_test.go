// Package tests contains test cases for models and repository packages to avoid circular imports
package tests

import (
	"testing"
	"time"

	"github.com/amirphl/Porseman/app/dto"
	businessflow "github.com/amirphl/Porseman/business_flow"
	"github.com/amirphl/Porseman/repository"
	testingutil "github.com/amirphl/Porseman/testing"
	"github.com/amirphl/Porseman/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTagFlow(testDB *testingutil.TestDB) businessflow.TagFlow {
	return businessflow.NewTagFlow(
		repository.NewTagRepository(testDB.DB),
		repository.NewQuestionRepository(testDB.DB),
		repository.NewAnswerRepository(testDB.DB),
		nil, // cache config
		nil, // redis client
	)
}

func TestTagFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		tagFlow := newTagFlow(testDB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		author, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		first, err := fixtures.CreateTestQuestion(author.ID, "How do I read a file line by line?")
		require.NoError(t, err)
		second, err := fixtures.CreateTestQuestion(author.ID, "How do I write a file atomically?")
		require.NoError(t, err)

		// Keep the ordering deterministic for the newest-first assertions
		err = testDB.DB.Model(first).Update("created_at", utils.UTCNow().Add(-time.Hour)).Error
		require.NoError(t, err)

		// golang references two questions, docker one, rust none
		_, err = fixtures.CreateTestTag("golang", first.ID)
		require.NoError(t, err)
		golangTag, err := repository.NewTagRepository(testDB.DB).ByNameFold(ctx, "golang")
		require.NoError(t, err)
		require.NotNil(t, golangTag)
		require.NoError(t, repository.NewTagRepository(testDB.DB).AttachQuestion(ctx, golangTag.ID, second.ID))
		_, err = fixtures.CreateTestTag("docker", second.ID)
		require.NoError(t, err)
		_, err = fixtures.CreateTestTag("rust", 0)
		require.NoError(t, err)

		t.Run("ListPopular", func(t *testing.T) {
			resp, err := tagFlow.ListPopular(ctx, &dto.ListPopularTagsRequest{})
			require.NoError(t, err)
			require.Len(t, resp.Items, 3)

			assert.Equal(t, "golang", resp.Items[0].Name)
			assert.Equal(t, int64(2), resp.Items[0].QuestionCount)
			assert.Equal(t, "docker", resp.Items[1].Name)
			assert.Equal(t, int64(1), resp.Items[1].QuestionCount)
			assert.Equal(t, "rust", resp.Items[2].Name)
			assert.Equal(t, int64(0), resp.Items[2].QuestionCount)
		})

		t.Run("ListPopularLimit", func(t *testing.T) {
			resp, err := tagFlow.ListPopular(ctx, &dto.ListPopularTagsRequest{Limit: 1})
			require.NoError(t, err)
			require.Len(t, resp.Items, 1)
			assert.Equal(t, "golang", resp.Items[0].Name)
		})

		t.Run("ListPopularInvalidLimit", func(t *testing.T) {
			_, err := tagFlow.ListPopular(ctx, &dto.ListPopularTagsRequest{Limit: -1})
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidPageSize(err))
		})

		t.Run("SearchByName", func(t *testing.T) {
			resp, err := tagFlow.Search(ctx, "GO")
			require.NoError(t, err)
			require.Len(t, resp.Items, 1)
			assert.Equal(t, "golang", resp.Items[0].Name)
		})

		t.Run("SearchEmptyQuery", func(t *testing.T) {
			_, err := tagFlow.Search(ctx, "   ")
			require.Error(t, err)
			assert.True(t, businessflow.IsEmptySearchQuery(err))
		})

		t.Run("QuestionsByTag", func(t *testing.T) {
			resp, err := tagFlow.QuestionsByTag(ctx, "GOLANG", &dto.ListQuestionsRequest{})
			require.NoError(t, err)

			assert.Equal(t, "golang", resp.Tag.Name)
			assert.Equal(t, int64(2), resp.Total)
			require.Len(t, resp.Items, 2)
			// Newest first by default
			assert.Equal(t, second.Title, resp.Items[0].Title)
			assert.Equal(t, first.Title, resp.Items[1].Title)
		})

		t.Run("QuestionsByUnknownTag", func(t *testing.T) {
			_, err := tagFlow.QuestionsByTag(ctx, "kubernetes", &dto.ListQuestionsRequest{})
			require.Error(t, err)
			assert.True(t, businessflow.IsTagNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}
