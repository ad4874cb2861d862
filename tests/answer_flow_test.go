// Package tests contains test cases for models and repository packages to avoid circular imports
package tests

import (
	"testing"

	"github.com/amirphl/Porseman/app/dto"
	"github.com/amirphl/Porseman/app/services"
	businessflow "github.com/amirphl/Porseman/business_flow"
	"github.com/amirphl/Porseman/models"
	"github.com/amirphl/Porseman/repository"
	testingutil "github.com/amirphl/Porseman/testing"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAnswerFlow(testDB *testingutil.TestDB) businessflow.AnswerFlow {
	return businessflow.NewAnswerFlow(
		repository.NewAnswerRepository(testDB.DB),
		repository.NewQuestionRepository(testDB.DB),
		repository.NewUserRepository(testDB.DB),
		repository.NewVoteRepository(testDB.DB),
		repository.NewInteractionRepository(testDB.DB),
		repository.NewAuditLogRepository(testDB.DB),
		services.NewNotificationService(services.NewMockEmailProvider()),
		testDB.DB,
	)
}

func TestPostAnswer(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		answerFlow := newAnswerFlow(testDB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		asker, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		answerer, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		question, err := fixtures.CreateTestQuestion(asker.ID, "How do I cancel a goroutine?")
		require.NoError(t, err)

		t.Run("SuccessfulPost", func(t *testing.T) {
			resp, err := answerFlow.Post(ctx, question.UUID, answerer.ID, &dto.PostAnswerRequest{
				Content: "Pass a context and select on ctx.Done inside the loop.",
			}, testMetadata())
			require.NoError(t, err)

			assert.Equal(t, answerer.Username, resp.Answer.Author)
			assert.Equal(t, int64(0), resp.Answer.Votes.Upvotes)
			assert.NotEmpty(t, resp.Answer.UUID)
		})

		t.Run("EmptyContent", func(t *testing.T) {
			_, err := answerFlow.Post(ctx, question.UUID, answerer.ID, &dto.PostAnswerRequest{
				Content: "   ",
			}, testMetadata())
			require.Error(t, err)
			assert.True(t, businessflow.IsEmptyAnswer(err))
		})

		t.Run("UnknownQuestion", func(t *testing.T) {
			_, err := answerFlow.Post(ctx, uuid.New(), answerer.ID, &dto.PostAnswerRequest{
				Content: "This lands on a question that does not exist anymore.",
			}, testMetadata())
			require.Error(t, err)
			assert.True(t, businessflow.IsQuestionNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestListAndDeleteAnswers(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		answerFlow := newAnswerFlow(testDB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		asker, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		answerer, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		question, err := fixtures.CreateTestQuestion(asker.ID, "How do I drain a channel safely?")
		require.NoError(t, err)

		first, err := answerFlow.Post(ctx, question.UUID, answerer.ID, &dto.PostAnswerRequest{
			Content: "Close the channel on the producer side and range over it.",
		}, testMetadata())
		require.NoError(t, err)
		second, err := answerFlow.Post(ctx, question.UUID, asker.ID, &dto.PostAnswerRequest{
			Content: "Use a done channel alongside it and select on both.",
		}, testMetadata())
		require.NoError(t, err)

		t.Run("NewestFirstByDefault", func(t *testing.T) {
			resp, err := answerFlow.List(ctx, question.UUID, 0, &dto.ListAnswersRequest{})
			require.NoError(t, err)
			require.Len(t, resp.Items, 2)
			assert.Equal(t, int64(2), resp.Total)
			assert.Equal(t, second.Answer.UUID, resp.Items[0].UUID)
			assert.Equal(t, first.Answer.UUID, resp.Items[1].UUID)
		})

		t.Run("VoteStateIsPerCaller", func(t *testing.T) {
			voteFlow := newVoteFlow(testDB)
			_, err := voteFlow.ToggleAnswerVote(ctx, uuid.MustParse(first.Answer.UUID), asker.ID, &dto.ToggleVoteRequest{Kind: "up"}, testMetadata())
			require.NoError(t, err)

			oldest := &dto.ListAnswersRequest{OrderBy: models.AnswerOrderOldest}

			resp, err := answerFlow.List(ctx, question.UUID, asker.ID, oldest)
			require.NoError(t, err)
			require.Len(t, resp.Items, 2)
			assert.Equal(t, first.Answer.UUID, resp.Items[0].UUID)
			assert.Equal(t, int64(1), resp.Items[0].Votes.Upvotes)
			assert.True(t, resp.Items[0].Votes.HasUpvoted)

			resp, err = answerFlow.List(ctx, question.UUID, answerer.ID, oldest)
			require.NoError(t, err)
			assert.Equal(t, int64(1), resp.Items[0].Votes.Upvotes)
			assert.False(t, resp.Items[0].Votes.HasUpvoted)
		})

		t.Run("DeleteByStranger", func(t *testing.T) {
			err := answerFlow.Delete(ctx, uuid.MustParse(first.Answer.UUID), asker.ID, testMetadata())
			require.Error(t, err)
			assert.True(t, businessflow.IsAnswerAccessDenied(err))
		})

		t.Run("DeleteByOwner", func(t *testing.T) {
			require.NoError(t, answerFlow.Delete(ctx, uuid.MustParse(first.Answer.UUID), answerer.ID, testMetadata()))

			resp, err := answerFlow.List(ctx, question.UUID, 0, &dto.ListAnswersRequest{})
			require.NoError(t, err)
			require.Len(t, resp.Items, 1)
			assert.Equal(t, second.Answer.UUID, resp.Items[0].UUID)
		})

		t.Run("DeleteTwice", func(t *testing.T) {
			err := answerFlow.Delete(ctx, uuid.MustParse(first.Answer.UUID), answerer.ID, testMetadata())
			require.Error(t, err)
			assert.True(t, businessflow.IsAnswerNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}
