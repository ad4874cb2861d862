// Package tests contains test cases for models and repository packages to avoid circular imports
package tests

import (
	"testing"

	"github.com/amirphl/Porseman/models"
	testingutil "github.com/amirphl/Porseman/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeBadgeCounts(t *testing.T) {
	tests := []struct {
		name     string
		counters models.BadgeCounters
		expected models.BadgeCounts
	}{
		{
			name:     "zero counters earn nothing",
			counters: models.BadgeCounters{},
			expected: models.BadgeCounts{},
		},
		{
			name:     "just below bronze",
			counters: models.BadgeCounters{QuestionCount: 9},
			expected: models.BadgeCounts{},
		},
		{
			name:     "bronze threshold is inclusive",
			counters: models.BadgeCounters{QuestionCount: 10},
			expected: models.BadgeCounts{Bronze: 1},
		},
		{
			name:     "silver also scores bronze",
			counters: models.BadgeCounters{AnswerCount: 50},
			expected: models.BadgeCounts{Silver: 1, Bronze: 1},
		},
		{
			name:     "gold scores all three tiers",
			counters: models.BadgeCounters{QuestionUpvotes: 100},
			expected: models.BadgeCounts{Gold: 1, Silver: 1, Bronze: 1},
		},
		{
			name:     "views use their own thresholds",
			counters: models.BadgeCounters{TotalViews: 999},
			expected: models.BadgeCounts{},
		},
		{
			name:     "views bronze at one thousand",
			counters: models.BadgeCounters{TotalViews: 1000},
			expected: models.BadgeCounts{Bronze: 1},
		},
		{
			name: "categories accumulate independently",
			counters: models.BadgeCounters{
				QuestionCount:   100,
				AnswerCount:     50,
				QuestionUpvotes: 10,
				AnswerUpvotes:   9,
				TotalViews:      100000,
			},
			expected: models.BadgeCounts{Gold: 2, Silver: 3, Bronze: 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, models.ComputeBadgeCounts(tt.counters))
		})
	}
}

// Growing any single counter must never lose a badge in any tier.
func TestBadgeCountsAreMonotonic(t *testing.T) {
	base := models.BadgeCounters{
		QuestionCount:   9,
		AnswerCount:     49,
		QuestionUpvotes: 99,
		AnswerUpvotes:   10,
		TotalViews:      999,
	}

	bumps := []struct {
		name string
		bump func(c models.BadgeCounters) models.BadgeCounters
	}{
		{"more questions", func(c models.BadgeCounters) models.BadgeCounters { c.QuestionCount++; return c }},
		{"more answers", func(c models.BadgeCounters) models.BadgeCounters { c.AnswerCount++; return c }},
		{"more question upvotes", func(c models.BadgeCounters) models.BadgeCounters { c.QuestionUpvotes++; return c }},
		{"more answer upvotes", func(c models.BadgeCounters) models.BadgeCounters { c.AnswerUpvotes++; return c }},
		{"more views", func(c models.BadgeCounters) models.BadgeCounters { c.TotalViews++; return c }},
	}

	for _, tt := range bumps {
		t.Run(tt.name, func(t *testing.T) {
			counters := base
			before := models.ComputeBadgeCounts(counters)
			// Walk each counter across its thresholds one step at a time
			for i := 0; i < 1200; i++ {
				counters = tt.bump(counters)
				after := models.ComputeBadgeCounts(counters)
				assert.GreaterOrEqual(t, after.Gold, before.Gold)
				assert.GreaterOrEqual(t, after.Silver, before.Silver)
				assert.GreaterOrEqual(t, after.Bronze, before.Bronze)
				before = after
			}
		})
	}
}

func TestReputationFor(t *testing.T) {
	tests := []struct {
		name     string
		counters models.BadgeCounters
		expected int64
	}{
		{
			name:     "no upvotes no reputation",
			counters: models.BadgeCounters{},
			expected: 0,
		},
		{
			name:     "question and answer upvotes both count",
			counters: models.BadgeCounters{QuestionUpvotes: 3, AnswerUpvotes: 2},
			expected: 50,
		},
		{
			name:     "counts and views never score",
			counters: models.BadgeCounters{QuestionCount: 100, AnswerCount: 100, TotalViews: 100000},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, models.ReputationFor(tt.counters))
		})
	}
}

func TestVoteKindValidation(t *testing.T) {
	assert.True(t, models.IsValidVoteKind(models.VoteKindUp))
	assert.True(t, models.IsValidVoteKind(models.VoteKindDown))
	assert.False(t, models.IsValidVoteKind(""))
	assert.False(t, models.IsValidVoteKind("sideways"))
}

func TestModelRelationships(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		user, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		question, answers, err := fixtures.CreateQuestionWithAnswers(user.ID, 2)
		require.NoError(t, err)

		_, err = fixtures.CreateTestTag("go", question.ID)
		require.NoError(t, err)

		t.Run("QuestionPreloadsAuthorAndTags", func(t *testing.T) {
			var loaded models.Question
			err := testDB.DB.Preload("Author").Preload("Tags").First(&loaded, question.ID).Error
			require.NoError(t, err)

			assert.Equal(t, user.Username, loaded.Author.Username)
			require.Len(t, loaded.Tags, 1)
			assert.Equal(t, "go", loaded.Tags[0].Name)
		})

		t.Run("AnswerPreloadsQuestion", func(t *testing.T) {
			var loaded models.Answer
			err := testDB.DB.Preload("Question").First(&loaded, answers[0].ID).Error
			require.NoError(t, err)

			assert.Equal(t, question.Title, loaded.Question.Title)
		})

		t.Run("UserPreloadsQuestions", func(t *testing.T) {
			var loaded models.User
			err := testDB.DB.Preload("Questions").Preload("Answers").First(&loaded, user.ID).Error
			require.NoError(t, err)

			assert.Len(t, loaded.Questions, 1)
			assert.Len(t, loaded.Answers, 2)
		})

		return nil
	})
	require.NoError(t, err)
}
