// Package tests contains test cases for models and repository packages to avoid circular imports
package tests

import (
	"testing"

	"github.com/amirphl/Porseman/app/dto"
	businessflow "github.com/amirphl/Porseman/business_flow"
	"github.com/amirphl/Porseman/models"
	"github.com/amirphl/Porseman/repository"
	testingutil "github.com/amirphl/Porseman/testing"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVoteFlow(testDB *testingutil.TestDB) businessflow.VoteFlow {
	return businessflow.NewVoteFlow(
		repository.NewVoteRepository(testDB.DB),
		repository.NewQuestionRepository(testDB.DB),
		repository.NewAnswerRepository(testDB.DB),
		repository.NewInteractionRepository(testDB.DB),
		repository.NewAuditLogRepository(testDB.DB),
		testDB.DB,
	)
}

func TestToggleQuestionVote(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		voteFlow := newVoteFlow(testDB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		author, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		voter, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		question, err := fixtures.CreateTestQuestion(author.ID, "")
		require.NoError(t, err)

		up := &dto.ToggleVoteRequest{Kind: models.VoteKindUp}
		down := &dto.ToggleVoteRequest{Kind: models.VoteKindDown}

		t.Run("FirstVoteJoinsUpvoters", func(t *testing.T) {
			resp, err := voteFlow.ToggleQuestionVote(ctx, question.UUID, voter.ID, up, testMetadata())
			require.NoError(t, err)
			assert.Equal(t, int64(1), resp.Votes.Upvotes)
			assert.Equal(t, int64(0), resp.Votes.Downvotes)
			assert.True(t, resp.Votes.HasUpvoted)
			assert.False(t, resp.Votes.HasDownvoted)
		})

		t.Run("RepeatingRemovesTheVote", func(t *testing.T) {
			resp, err := voteFlow.ToggleQuestionVote(ctx, question.UUID, voter.ID, up, testMetadata())
			require.NoError(t, err)
			assert.Equal(t, int64(0), resp.Votes.Upvotes)
			assert.False(t, resp.Votes.HasUpvoted)
		})

		t.Run("OppositeKindSwitchesSides", func(t *testing.T) {
			_, err := voteFlow.ToggleQuestionVote(ctx, question.UUID, voter.ID, up, testMetadata())
			require.NoError(t, err)

			resp, err := voteFlow.ToggleQuestionVote(ctx, question.UUID, voter.ID, down, testMetadata())
			require.NoError(t, err)
			assert.Equal(t, int64(0), resp.Votes.Upvotes)
			assert.Equal(t, int64(1), resp.Votes.Downvotes)
			assert.False(t, resp.Votes.HasUpvoted)
			assert.True(t, resp.Votes.HasDownvoted)
		})

		t.Run("TalliesAggregateAcrossUsers", func(t *testing.T) {
			resp, err := voteFlow.ToggleQuestionVote(ctx, question.UUID, author.ID, up, testMetadata())
			require.NoError(t, err)
			assert.Equal(t, int64(1), resp.Votes.Upvotes)
			assert.Equal(t, int64(1), resp.Votes.Downvotes)
			assert.True(t, resp.Votes.HasUpvoted)
			assert.False(t, resp.Votes.HasDownvoted)
		})

		t.Run("UnknownQuestion", func(t *testing.T) {
			_, err := voteFlow.ToggleQuestionVote(ctx, uuid.New(), voter.ID, up, testMetadata())
			require.Error(t, err)
			assert.True(t, businessflow.IsQuestionNotFound(err))
		})

		t.Run("InvalidKind", func(t *testing.T) {
			_, err := voteFlow.ToggleQuestionVote(ctx, question.UUID, voter.ID, &dto.ToggleVoteRequest{Kind: "sideways"}, testMetadata())
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidVoteKind(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestToggleAnswerVote(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		voteFlow := newVoteFlow(testDB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		author, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		voter, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		question, err := fixtures.CreateTestQuestion(author.ID, "")
		require.NoError(t, err)
		answer, err := fixtures.CreateTestAnswer(question.ID, author.ID)
		require.NoError(t, err)

		up := &dto.ToggleVoteRequest{Kind: models.VoteKindUp}

		t.Run("ToggleOnAndOff", func(t *testing.T) {
			resp, err := voteFlow.ToggleAnswerVote(ctx, answer.UUID, voter.ID, up, testMetadata())
			require.NoError(t, err)
			assert.Equal(t, int64(1), resp.Votes.Upvotes)
			assert.True(t, resp.Votes.HasUpvoted)

			resp, err = voteFlow.ToggleAnswerVote(ctx, answer.UUID, voter.ID, up, testMetadata())
			require.NoError(t, err)
			assert.Equal(t, int64(0), resp.Votes.Upvotes)
			assert.False(t, resp.Votes.HasUpvoted)
		})

		t.Run("AnswerVotesAreIndependentOfQuestionVotes", func(t *testing.T) {
			_, err := voteFlow.ToggleAnswerVote(ctx, answer.UUID, voter.ID, up, testMetadata())
			require.NoError(t, err)

			voteRepo := repository.NewVoteRepository(testDB.DB)
			counts, err := voteRepo.CountsForTarget(ctx, models.VoteTargetQuestion, question.ID, voter.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(0), counts.Upvotes)
		})

		t.Run("UnknownAnswer", func(t *testing.T) {
			_, err := voteFlow.ToggleAnswerVote(ctx, uuid.New(), voter.ID, up, testMetadata())
			require.Error(t, err)
			assert.True(t, businessflow.IsAnswerNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}
