// Package tests contains test cases for models and repository packages to avoid circular imports
package tests

import (
	"testing"
	"time"

	"github.com/amirphl/Porseman/models"
	"github.com/amirphl/Porseman/repository"
	testingutil "github.com/amirphl/Porseman/testing"
	"github.com/amirphl/Porseman/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewUserRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		user, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		t.Run("ByID", func(t *testing.T) {
			found, err := repo.ByID(ctx, user.ID)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, user.Username, found.Username)
		})

		t.Run("ByIDNotFound", func(t *testing.T) {
			found, err := repo.ByID(ctx, 999999)
			assert.NoError(t, err)
			assert.Nil(t, found)
		})

		t.Run("ByEmail", func(t *testing.T) {
			found, err := repo.ByEmail(ctx, user.Email)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, user.ID, found.ID)
		})

		t.Run("ByUsername", func(t *testing.T) {
			found, err := repo.ByUsername(ctx, user.Username)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, user.ID, found.ID)
		})

		t.Run("ByUUID", func(t *testing.T) {
			found, err := repo.ByUUID(ctx, user.UUID)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, user.ID, found.ID)

			found, err = repo.ByUUID(ctx, uuid.New())
			assert.NoError(t, err)
			assert.Nil(t, found)
		})

		t.Run("SearchByName", func(t *testing.T) {
			// Fixture users are all named John Doe
			found, err := repo.SearchByName(ctx, "john", 10)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, len(found), 1)

			found, err = repo.SearchByName(ctx, "nosuchname", 10)
			require.NoError(t, err)
			assert.Empty(t, found)
		})

		t.Run("SetActive", func(t *testing.T) {
			require.NoError(t, repo.SetActive(ctx, user.ID, false))

			found, err := repo.ByID(ctx, user.ID)
			require.NoError(t, err)
			require.NotNil(t, found.IsActive)
			assert.False(t, *found.IsActive)

			require.NoError(t, repo.SetActive(ctx, user.ID, true))
		})

		t.Run("UpdatePassword", func(t *testing.T) {
			require.NoError(t, repo.UpdatePassword(ctx, user.ID, "new-hash"))

			found, err := repo.ByID(ctx, user.ID)
			require.NoError(t, err)
			assert.Equal(t, "new-hash", found.PasswordHash)
		})

		t.Run("Count", func(t *testing.T) {
			count, err := repo.Count(ctx, models.UserFilter{})
			require.NoError(t, err)
			assert.GreaterOrEqual(t, count, int64(1))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestQuestionRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewQuestionRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		author, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		question, err := fixtures.CreateTestQuestion(author.ID, "How do generics work in Go?")
		require.NoError(t, err)

		t.Run("ByUUID", func(t *testing.T) {
			found, err := repo.ByUUID(ctx, question.UUID)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, question.Title, found.Title)

			found, err = repo.ByUUID(ctx, uuid.New())
			assert.NoError(t, err)
			assert.Nil(t, found)
		})

		t.Run("IncrementViews", func(t *testing.T) {
			views, err := repo.IncrementViews(ctx, question.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(1), views)

			// Every call counts, no dedup
			views, err = repo.IncrementViews(ctx, question.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(2), views)
		})

		t.Run("SumViewsByAuthor", func(t *testing.T) {
			total, err := repo.SumViewsByAuthor(ctx, author.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(2), total)

			total, err = repo.SumViewsByAuthor(ctx, 999999)
			require.NoError(t, err)
			assert.Equal(t, int64(0), total)
		})

		t.Run("SearchByTitle", func(t *testing.T) {
			found, err := repo.SearchByTitle(ctx, "GENERICS", 10)
			require.NoError(t, err)
			require.Len(t, found, 1)
			assert.Equal(t, question.ID, found[0].ID)
		})

		t.Run("UnansweredFilter", func(t *testing.T) {
			unanswered := true
			found, err := repo.ByFilter(ctx, models.QuestionFilter{Unanswered: &unanswered}, "", 0, 0)
			require.NoError(t, err)
			assert.Len(t, found, 1)

			_, err = fixtures.CreateTestAnswer(question.ID, author.ID)
			require.NoError(t, err)

			found, err = repo.ByFilter(ctx, models.QuestionFilter{Unanswered: &unanswered}, "", 0, 0)
			require.NoError(t, err)
			assert.Empty(t, found)
		})

		t.Run("Update", func(t *testing.T) {
			question.Title = "How do type parameters work in Go?"
			require.NoError(t, repo.Update(ctx, question))

			found, err := repo.ByID(ctx, question.ID)
			require.NoError(t, err)
			assert.Equal(t, "How do type parameters work in Go?", found.Title)
		})

		t.Run("Delete", func(t *testing.T) {
			other, err := fixtures.CreateTestQuestion(author.ID, "Temporary question?")
			require.NoError(t, err)

			require.NoError(t, repo.Delete(ctx, other.ID))

			found, err := repo.ByID(ctx, other.ID)
			require.NoError(t, err)
			assert.Nil(t, found)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestAnswerRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewAnswerRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		author, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		question, answers, err := fixtures.CreateQuestionWithAnswers(author.ID, 3)
		require.NoError(t, err)

		t.Run("ListByQuestion", func(t *testing.T) {
			rows, err := repo.ListByQuestion(ctx, question.ID, "created_at ASC", 0, 0)
			require.NoError(t, err)
			require.Len(t, rows, 3)
			assert.Equal(t, answers[0].ID, rows[0].ID)

			rows, err = repo.ListByQuestion(ctx, question.ID, "created_at DESC, id DESC", 2, 0)
			require.NoError(t, err)
			require.Len(t, rows, 2)
			assert.Equal(t, answers[2].ID, rows[0].ID)
		})

		t.Run("SearchByContent", func(t *testing.T) {
			rows, err := repo.SearchByContent(ctx, "LIKE THIS", 10)
			require.NoError(t, err)
			assert.Len(t, rows, 3)

			rows, err = repo.SearchByContent(ctx, "no match here", 10)
			require.NoError(t, err)
			assert.Empty(t, rows)
		})

		t.Run("Delete", func(t *testing.T) {
			require.NoError(t, repo.Delete(ctx, answers[0].ID))

			found, err := repo.ByID(ctx, answers[0].ID)
			require.NoError(t, err)
			assert.Nil(t, found)

			count, err := repo.Count(ctx, models.AnswerFilter{QuestionID: &question.ID})
			require.NoError(t, err)
			assert.Equal(t, int64(2), count)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestVoteRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewVoteRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		author, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		voter, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		question, err := fixtures.CreateTestQuestion(author.ID, "")
		require.NoError(t, err)

		t.Run("ByTargetAndUserEmpty", func(t *testing.T) {
			vote, err := repo.ByTargetAndUser(ctx, models.VoteTargetQuestion, question.ID, voter.ID)
			require.NoError(t, err)
			assert.Nil(t, vote)
		})

		t.Run("SaveAndCounts", func(t *testing.T) {
			_, err := fixtures.CreateTestVote(models.VoteTargetQuestion, question.ID, voter.ID, models.VoteKindUp)
			require.NoError(t, err)

			counts, err := repo.CountsForTarget(ctx, models.VoteTargetQuestion, question.ID, voter.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(1), counts.Upvotes)
			assert.Equal(t, int64(0), counts.Downvotes)
			assert.True(t, counts.HasUpvoted)
			assert.False(t, counts.HasDownvoted)

			// Another caller sees the tallies but no membership
			counts, err = repo.CountsForTarget(ctx, models.VoteTargetQuestion, question.ID, author.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(1), counts.Upvotes)
			assert.False(t, counts.HasUpvoted)
		})

		t.Run("DuplicateVoteRejected", func(t *testing.T) {
			_, err := fixtures.CreateTestVote(models.VoteTargetQuestion, question.ID, voter.ID, models.VoteKindDown)
			assert.Error(t, err)
		})

		t.Run("UpdateKind", func(t *testing.T) {
			vote, err := repo.ByTargetAndUser(ctx, models.VoteTargetQuestion, question.ID, voter.ID)
			require.NoError(t, err)
			require.NotNil(t, vote)

			require.NoError(t, repo.UpdateKind(ctx, vote.ID, models.VoteKindDown))

			counts, err := repo.CountsForTarget(ctx, models.VoteTargetQuestion, question.ID, voter.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(0), counts.Upvotes)
			assert.Equal(t, int64(1), counts.Downvotes)
			assert.True(t, counts.HasDownvoted)
		})

		t.Run("Delete", func(t *testing.T) {
			vote, err := repo.ByTargetAndUser(ctx, models.VoteTargetQuestion, question.ID, voter.ID)
			require.NoError(t, err)
			require.NotNil(t, vote)

			require.NoError(t, repo.Delete(ctx, vote.ID))

			counts, err := repo.CountsForTarget(ctx, models.VoteTargetQuestion, question.ID, voter.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(0), counts.Upvotes)
			assert.Equal(t, int64(0), counts.Downvotes)
		})

		t.Run("UpvotesReceived", func(t *testing.T) {
			answer, err := fixtures.CreateTestAnswer(question.ID, author.ID)
			require.NoError(t, err)

			_, err = fixtures.CreateTestVote(models.VoteTargetQuestion, question.ID, voter.ID, models.VoteKindUp)
			require.NoError(t, err)
			_, err = fixtures.CreateTestVote(models.VoteTargetAnswer, answer.ID, voter.ID, models.VoteKindUp)
			require.NoError(t, err)

			received, err := repo.CountUpvotesReceivedOnQuestions(ctx, author.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(1), received)

			received, err = repo.CountUpvotesReceivedOnAnswers(ctx, author.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(1), received)

			scores, err := repo.NetScoreForAnswers(ctx, []uint{answer.ID})
			require.NoError(t, err)
			assert.Equal(t, int64(1), scores[answer.ID])
		})

		return nil
	})
	require.NoError(t, err)
}

func TestTagRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewTagRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		author, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		q1, err := fixtures.CreateTestQuestion(author.ID, "")
		require.NoError(t, err)
		q2, err := fixtures.CreateTestQuestion(author.ID, "")
		require.NoError(t, err)

		golang, err := fixtures.CreateTestTag("Golang", q1.ID)
		require.NoError(t, err)
		docker, err := fixtures.CreateTestTag("docker", 0)
		require.NoError(t, err)

		t.Run("ByNameFold", func(t *testing.T) {
			// Lookup is case-insensitive, stored spelling is preserved
			found, err := repo.ByNameFold(ctx, "GOLANG")
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, "Golang", found.Name)

			found, err = repo.ByNameFold(ctx, "kubernetes")
			require.NoError(t, err)
			assert.Nil(t, found)
		})

		t.Run("DuplicateFoldedNameRejected", func(t *testing.T) {
			// The unique index on lower(name) backs the upsert: a second
			// spelling of an existing tag cannot slip in between the
			// fold lookup and the insert
			err := repo.Save(ctx, &models.Tag{Name: "GOLANG"})
			require.Error(t, err)
		})

		t.Run("AttachQuestionSetSemantics", func(t *testing.T) {
			require.NoError(t, repo.AttachQuestion(ctx, golang.ID, q2.ID))

			// Repeated attach is a no-op
			require.NoError(t, repo.AttachQuestion(ctx, golang.ID, q2.ID))

			count, err := repo.CountQuestions(ctx, golang.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(2), count)
		})

		t.Run("ListPopular", func(t *testing.T) {
			rows, err := repo.ListPopular(ctx, 10, 0)
			require.NoError(t, err)
			require.Len(t, rows, 2)

			assert.Equal(t, golang.ID, rows[0].ID)
			assert.Equal(t, int64(2), rows[0].QuestionCount)
			assert.Equal(t, docker.ID, rows[1].ID)
			assert.Equal(t, int64(0), rows[1].QuestionCount)
		})

		t.Run("ListPopularTieBreak", func(t *testing.T) {
			// Give docker the same count as golang; the older tag wins the tie
			require.NoError(t, repo.AttachQuestion(ctx, docker.ID, q1.ID))
			require.NoError(t, repo.AttachQuestion(ctx, docker.ID, q2.ID))

			rows, err := repo.ListPopular(ctx, 10, 0)
			require.NoError(t, err)
			require.Len(t, rows, 2)
			assert.Equal(t, golang.ID, rows[0].ID)
			assert.Equal(t, docker.ID, rows[1].ID)
		})

		t.Run("SearchByName", func(t *testing.T) {
			rows, err := repo.SearchByName(ctx, "GO", 10)
			require.NoError(t, err)
			require.Len(t, rows, 1)
			assert.Equal(t, "Golang", rows[0].Name)
		})

		t.Run("ListByQuestion", func(t *testing.T) {
			rows, err := repo.ListByQuestion(ctx, q1.ID)
			require.NoError(t, err)
			assert.Len(t, rows, 2)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestSavedQuestionRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewSavedQuestionRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		user, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		question, err := fixtures.CreateTestQuestion(user.ID, "")
		require.NoError(t, err)

		t.Run("SaveAndLookup", func(t *testing.T) {
			saved := &models.SavedQuestion{UserID: user.ID, QuestionID: question.ID}
			require.NoError(t, repo.Save(ctx, saved))

			found, err := repo.ByUserAndQuestion(ctx, user.ID, question.ID)
			require.NoError(t, err)
			require.NotNil(t, found)

			rows, err := repo.ListQuestionsByUser(ctx, user.ID, 10, 0)
			require.NoError(t, err)
			require.Len(t, rows, 1)
			assert.Equal(t, question.ID, rows[0].ID)
		})

		t.Run("DuplicateSaveRejected", func(t *testing.T) {
			saved := &models.SavedQuestion{UserID: user.ID, QuestionID: question.ID}
			assert.Error(t, repo.Save(ctx, saved))
		})

		t.Run("Delete", func(t *testing.T) {
			found, err := repo.ByUserAndQuestion(ctx, user.ID, question.ID)
			require.NoError(t, err)
			require.NotNil(t, found)

			require.NoError(t, repo.Delete(ctx, found.ID))

			found, err = repo.ByUserAndQuestion(ctx, user.ID, question.ID)
			require.NoError(t, err)
			assert.Nil(t, found)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestUserSessionRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewUserSessionRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		user, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		session, err := fixtures.CreateTestSession(user.ID)
		require.NoError(t, err)

		t.Run("BySessionToken", func(t *testing.T) {
			found, err := repo.BySessionToken(ctx, session.SessionToken)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, session.ID, found.ID)
		})

		t.Run("ByRefreshToken", func(t *testing.T) {
			found, err := repo.ByRefreshToken(ctx, *session.RefreshToken)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, session.ID, found.ID)
		})

		t.Run("ExpireSession", func(t *testing.T) {
			require.NoError(t, repo.ExpireSession(ctx, session.ID))

			found, err := repo.ByID(ctx, session.ID)
			require.NoError(t, err)
			require.NotNil(t, found.IsActive)
			assert.False(t, *found.IsActive)
		})

		t.Run("ExpireAllUserSessions", func(t *testing.T) {
			s1, err := fixtures.CreateTestSession(user.ID)
			require.NoError(t, err)
			s2, err := fixtures.CreateTestSession(user.ID)
			require.NoError(t, err)

			require.NoError(t, repo.ExpireAllUserSessions(ctx, user.ID))

			for _, id := range []uint{s1.ID, s2.ID} {
				found, err := repo.ByID(ctx, id)
				require.NoError(t, err)
				require.NotNil(t, found.IsActive)
				assert.False(t, *found.IsActive)
			}
		})

		return nil
	})
	require.NoError(t, err)
}

func TestAuditLogRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewAuditLogRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		user, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		_, err = fixtures.CreateTestAuditLog(&user.ID, models.AuditActionQuestionAsked, true)
		require.NoError(t, err)
		_, err = fixtures.CreateTestAuditLog(&user.ID, models.AuditActionVoteCast, true)
		require.NoError(t, err)
		_, err = fixtures.CreateTestAuditLog(nil, models.AuditActionLoginFailed, false)
		require.NoError(t, err)

		t.Run("ListByUser", func(t *testing.T) {
			rows, err := repo.ListByUser(ctx, user.ID, 10, 0)
			require.NoError(t, err)
			assert.Len(t, rows, 2)
		})

		t.Run("ListByAction", func(t *testing.T) {
			rows, err := repo.ListByAction(ctx, models.AuditActionVoteCast, 10, 0)
			require.NoError(t, err)
			require.Len(t, rows, 1)
			assert.Equal(t, models.AuditActionVoteCast, rows[0].Action)
		})

		t.Run("AnonymousEntry", func(t *testing.T) {
			rows, err := repo.ListByAction(ctx, models.AuditActionLoginFailed, 10, 0)
			require.NoError(t, err)
			require.Len(t, rows, 1)
			assert.Nil(t, rows[0].UserID)
			require.NotNil(t, rows[0].Success)
			assert.False(t, *rows[0].Success)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestQuestionOrdering(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewQuestionRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		author, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		first, err := fixtures.CreateTestQuestion(author.ID, "First question?")
		require.NoError(t, err)
		second, err := fixtures.CreateTestQuestion(author.ID, "Second question?")
		require.NoError(t, err)

		// Spread creation times apart so ordering is deterministic
		require.NoError(t, testDB.DB.Model(first).Update("created_at", utils.UTCNow().Add(-time.Hour)).Error)

		// Second question gets more views
		_, err = repo.IncrementViews(ctx, second.ID)
		require.NoError(t, err)

		t.Run("Newest", func(t *testing.T) {
			rows, err := repo.ByFilter(ctx, models.QuestionFilter{}, "created_at DESC", 0, 0)
			require.NoError(t, err)
			require.Len(t, rows, 2)
			assert.Equal(t, second.ID, rows[0].ID)
		})

		t.Run("Oldest", func(t *testing.T) {
			rows, err := repo.ByFilter(ctx, models.QuestionFilter{}, "created_at ASC", 0, 0)
			require.NoError(t, err)
			require.Len(t, rows, 2)
			assert.Equal(t, first.ID, rows[0].ID)
		})

		t.Run("Frequent", func(t *testing.T) {
			rows, err := repo.ByFilter(ctx, models.QuestionFilter{}, "views DESC, id ASC", 0, 0)
			require.NoError(t, err)
			require.Len(t, rows, 2)
			assert.Equal(t, second.ID, rows[0].ID)
		})

		return nil
	})
	require.NoError(t, err)
}
