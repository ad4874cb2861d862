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

func newQuestionFlow(testDB *testingutil.TestDB) businessflow.QuestionFlow {
	return businessflow.NewQuestionFlow(
		repository.NewQuestionRepository(testDB.DB),
		repository.NewAnswerRepository(testDB.DB),
		repository.NewTagRepository(testDB.DB),
		repository.NewVoteRepository(testDB.DB),
		repository.NewSavedQuestionRepository(testDB.DB),
		repository.NewInteractionRepository(testDB.DB),
		repository.NewAuditLogRepository(testDB.DB),
		nil, // cache config
		nil, // redis client
		testDB.DB,
	)
}

func TestAskQuestion(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		questionFlow := newQuestionFlow(testDB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		author, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		t.Run("SuccessfulAsk", func(t *testing.T) {
			resp, err := questionFlow.Ask(ctx, author.ID, &dto.AskQuestionRequest{
				Title:   "How do I parse JSON in Go?",
				Content: "I have a payload with nested objects and need struct tags for it.",
				Tags:    []string{"go", "json"},
			}, testMetadata())
			require.NoError(t, err)

			assert.Equal(t, "How do I parse JSON in Go?", resp.Title)
			assert.Len(t, resp.Tags, 2)
			assert.Equal(t, int64(0), resp.Views)
			assert.False(t, resp.Saved)
		})

		t.Run("TagsAreSharedCaseInsensitively", func(t *testing.T) {
			resp, err := questionFlow.Ask(ctx, author.ID, &dto.AskQuestionRequest{
				Title:   "How do I marshal JSON in Go?",
				Content: "The encoder writes field names I do not expect, what am I missing?",
				Tags:    []string{"GO", "encoding"},
			}, testMetadata())
			require.NoError(t, err)

			// "GO" resolves to the existing "go" tag, original spelling kept
			tagRepo := repository.NewTagRepository(testDB.DB)
			goTag, err := tagRepo.ByNameFold(ctx, "go")
			require.NoError(t, err)
			require.NotNil(t, goTag)
			assert.Equal(t, "go", goTag.Name)

			count, err := tagRepo.CountQuestions(ctx, goTag.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(2), count)
			assert.Len(t, resp.Tags, 2)
		})

		t.Run("TooManyTags", func(t *testing.T) {
			_, err := questionFlow.Ask(ctx, author.ID, &dto.AskQuestionRequest{
				Title:   "Why does my build fail?",
				Content: "The linker reports an undefined symbol that I never reference.",
				Tags:    []string{"a", "b", "c", "d"},
			}, testMetadata())
			require.Error(t, err)
			assert.True(t, businessflow.IsTooManyTags(err))
		})

		t.Run("MissingTags", func(t *testing.T) {
			_, err := questionFlow.Ask(ctx, author.ID, &dto.AskQuestionRequest{
				Title:   "Why does my build fail?",
				Content: "The linker reports an undefined symbol that I never reference.",
				Tags:    nil,
			}, testMetadata())
			require.Error(t, err)
			assert.True(t, businessflow.IsQuestionTagsRequired(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestQuestionLifecycle(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		questionFlow := newQuestionFlow(testDB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		author, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		other, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		asked, err := questionFlow.Ask(ctx, author.ID, &dto.AskQuestionRequest{
			Title:   "How do I profile a Go service?",
			Content: "CPU usage doubles under load and I want to find the hot path.",
			Tags:    []string{"go", "pprof"},
		}, testMetadata())
		require.NoError(t, err)

		questionUUID := uuid.MustParse(asked.UUID)

		t.Run("GetAnonymous", func(t *testing.T) {
			resp, err := questionFlow.Get(ctx, questionUUID, 0)
			require.NoError(t, err)
			assert.Equal(t, asked.Title, resp.Title)
			assert.False(t, resp.Saved)
		})

		t.Run("EditByOwner", func(t *testing.T) {
			resp, err := questionFlow.Edit(ctx, questionUUID, author.ID, &dto.EditQuestionRequest{
				Title:   "How do I profile a Go HTTP service?",
				Content: "CPU usage doubles under load and I want to find the hot path in handlers.",
			}, testMetadata())
			require.NoError(t, err)
			assert.Equal(t, "How do I profile a Go HTTP service?", resp.Title)
		})

		t.Run("EditByStranger", func(t *testing.T) {
			_, err := questionFlow.Edit(ctx, questionUUID, other.ID, &dto.EditQuestionRequest{
				Title:   "Hijacked title here?",
				Content: "This should never be accepted by the ownership check at all.",
			}, testMetadata())
			require.Error(t, err)
			assert.True(t, businessflow.IsQuestionAccessDenied(err))
		})

		t.Run("RecordView", func(t *testing.T) {
			resp, err := questionFlow.RecordView(ctx, questionUUID, &other.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(1), resp.Views)

			// Anonymous views count too, and there is no dedup
			resp, err = questionFlow.RecordView(ctx, questionUUID, nil)
			require.NoError(t, err)
			assert.Equal(t, int64(2), resp.Views)
		})

		t.Run("List", func(t *testing.T) {
			resp, err := questionFlow.List(ctx, &dto.ListQuestionsRequest{})
			require.NoError(t, err)
			require.Len(t, resp.Items, 1)
			assert.Equal(t, int64(1), resp.Total)
			assert.Equal(t, int64(2), resp.Items[0].Views)
		})

		t.Run("ListInvalidPage", func(t *testing.T) {
			_, err := questionFlow.List(ctx, &dto.ListQuestionsRequest{Page: -1})
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidPage(err))
		})

		t.Run("DeleteByStranger", func(t *testing.T) {
			err := questionFlow.Delete(ctx, questionUUID, other.ID, testMetadata())
			require.Error(t, err)
			assert.True(t, businessflow.IsQuestionAccessDenied(err))
		})

		t.Run("DeleteByOwnerKeepsTagRows", func(t *testing.T) {
			tagRepo := repository.NewTagRepository(testDB.DB)
			goTag, err := tagRepo.ByNameFold(ctx, "go")
			require.NoError(t, err)
			require.NotNil(t, goTag)

			require.NoError(t, questionFlow.Delete(ctx, questionUUID, author.ID, testMetadata()))

			_, err = questionFlow.Get(ctx, questionUUID, 0)
			require.Error(t, err)
			assert.True(t, businessflow.IsQuestionNotFound(err))

			// Attachment rows survive so the popular ranking keeps counting them
			count, err := tagRepo.CountQuestions(ctx, goTag.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(1), count)
		})

		return nil
	})
	require.NoError(t, err)
}
