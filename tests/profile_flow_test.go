// Package tests contains test cases for models and repository packages to avoid circular imports
package tests

import (
	"testing"

	"github.com/amirphl/Porseman/app/dto"
	businessflow "github.com/amirphl/Porseman/business_flow"
	"github.com/amirphl/Porseman/models"
	"github.com/amirphl/Porseman/repository"
	testingutil "github.com/amirphl/Porseman/testing"
	"github.com/amirphl/Porseman/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProfileFlow(testDB *testingutil.TestDB) businessflow.ProfileFlow {
	return businessflow.NewProfileFlow(
		repository.NewUserRepository(testDB.DB),
		repository.NewQuestionRepository(testDB.DB),
		repository.NewAnswerRepository(testDB.DB),
		repository.NewVoteRepository(testDB.DB),
		repository.NewMediaRepository(testDB.DB),
	)
}

func TestProfileFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		profileFlow := newProfileFlow(testDB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		user, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		t.Run("GetByUsername", func(t *testing.T) {
			resp, err := profileFlow.Get(ctx, user.Username)
			require.NoError(t, err)
			assert.Equal(t, user.Username, resp.Username)
			assert.Equal(t, user.Name, resp.Name)
			assert.Nil(t, resp.AvatarUUID)
		})

		t.Run("GetUnknownUsername", func(t *testing.T) {
			_, err := profileFlow.Get(ctx, "no-such-user")
			require.Error(t, err)
			assert.True(t, businessflow.IsUserNotFound(err))
		})

		t.Run("Update", func(t *testing.T) {
			resp, err := profileFlow.Update(ctx, user.ID, &dto.UpdateProfileRequest{
				Name:     "Jane Roe",
				Bio:      utils.ToPtr("I answer concurrency questions."),
				Location: utils.ToPtr("Berlin"),
			})
			require.NoError(t, err)
			assert.Equal(t, "Jane Roe", resp.Name)
			require.NotNil(t, resp.Bio)
			assert.Equal(t, "I answer concurrency questions.", *resp.Bio)
			require.NotNil(t, resp.Location)
			assert.Equal(t, "Berlin", *resp.Location)
			assert.Nil(t, resp.PortfolioURL)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestUserStats(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		profileFlow := newProfileFlow(testDB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		user, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		voter, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		t.Run("FreshUserHasNothing", func(t *testing.T) {
			resp, err := profileFlow.Stats(ctx, user.Username)
			require.NoError(t, err)
			assert.Equal(t, int64(0), resp.QuestionCount)
			assert.Equal(t, int64(0), resp.Reputation)
			assert.Equal(t, dto.BadgeCountsDTO{}, resp.Badges)
		})

		question, err := fixtures.CreateTestQuestion(user.ID, "How do I hash passwords?")
		require.NoError(t, err)
		answer, err := fixtures.CreateTestAnswer(question.ID, user.ID)
		require.NoError(t, err)

		_, err = fixtures.CreateTestVote(models.VoteTargetQuestion, question.ID, voter.ID, models.VoteKindUp)
		require.NoError(t, err)
		_, err = fixtures.CreateTestVote(models.VoteTargetAnswer, answer.ID, voter.ID, models.VoteKindUp)
		require.NoError(t, err)

		questionRepo := repository.NewQuestionRepository(testDB.DB)
		_, err = questionRepo.IncrementViews(ctx, question.ID)
		require.NoError(t, err)

		t.Run("StatsAreDerivedFromLedgers", func(t *testing.T) {
			resp, err := profileFlow.Stats(ctx, user.Username)
			require.NoError(t, err)

			assert.Equal(t, int64(1), resp.QuestionCount)
			assert.Equal(t, int64(1), resp.AnswerCount)
			assert.Equal(t, int64(1), resp.QuestionUpvotes)
			assert.Equal(t, int64(1), resp.AnswerUpvotes)
			assert.Equal(t, int64(1), resp.TotalViews)
			assert.Equal(t, int64(20), resp.Reputation)
			assert.Equal(t, dto.BadgeCountsDTO{}, resp.Badges)
		})

		t.Run("RetractedVoteMovesTheNumbers", func(t *testing.T) {
			voteRepo := repository.NewVoteRepository(testDB.DB)
			vote, err := voteRepo.ByTargetAndUser(ctx, models.VoteTargetQuestion, question.ID, voter.ID)
			require.NoError(t, err)
			require.NotNil(t, vote)
			require.NoError(t, voteRepo.Delete(ctx, vote.ID))

			resp, err := profileFlow.Stats(ctx, user.Username)
			require.NoError(t, err)
			assert.Equal(t, int64(0), resp.QuestionUpvotes)
			assert.Equal(t, int64(10), resp.Reputation)
		})

		t.Run("StatsForUnknownUser", func(t *testing.T) {
			_, err := profileFlow.Stats(ctx, "ghost")
			require.Error(t, err)
			assert.True(t, businessflow.IsUserNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestTopPosts(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		profileFlow := newProfileFlow(testDB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		author, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		voter, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		quiet, err := fixtures.CreateTestQuestion(author.ID, "What does errgroup do?")
		require.NoError(t, err)
		busy, err := fixtures.CreateTestQuestion(author.ID, "How do goroutines leak?")
		require.NoError(t, err)

		questionRepo := repository.NewQuestionRepository(testDB.DB)
		_, err = questionRepo.IncrementViews(ctx, busy.ID)
		require.NoError(t, err)

		plain, err := fixtures.CreateTestAnswer(quiet.ID, author.ID)
		require.NoError(t, err)
		scored, err := fixtures.CreateTestAnswer(busy.ID, author.ID)
		require.NoError(t, err)
		_, err = fixtures.CreateTestVote(models.VoteTargetAnswer, scored.ID, voter.ID, models.VoteKindUp)
		require.NoError(t, err)

		t.Run("EmptyListsForFreshUser", func(t *testing.T) {
			resp, err := profileFlow.TopPosts(ctx, voter.Username)
			require.NoError(t, err)
			assert.Empty(t, resp.Questions)
			assert.Empty(t, resp.Answers)
		})

		t.Run("QuestionsOrderedByViews", func(t *testing.T) {
			resp, err := profileFlow.TopPosts(ctx, author.Username)
			require.NoError(t, err)
			require.Len(t, resp.Questions, 2)
			assert.Equal(t, busy.UUID.String(), resp.Questions[0].UUID)
			assert.Equal(t, int64(1), resp.Questions[0].Views)
			assert.Equal(t, quiet.UUID.String(), resp.Questions[1].UUID)
		})

		t.Run("AnswersOrderedByNetScore", func(t *testing.T) {
			resp, err := profileFlow.TopPosts(ctx, author.Username)
			require.NoError(t, err)
			require.Len(t, resp.Answers, 2)
			assert.Equal(t, scored.UUID.String(), resp.Answers[0].UUID)
			assert.Equal(t, "How do goroutines leak?", resp.Answers[0].QuestionTitle)
			assert.Equal(t, plain.UUID.String(), resp.Answers[1].UUID)
		})

		t.Run("TopPostsForUnknownUser", func(t *testing.T) {
			_, err := profileFlow.TopPosts(ctx, "ghost")
			require.Error(t, err)
			assert.True(t, businessflow.IsUserNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}
