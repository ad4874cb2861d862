// Package models contains domain entities and business models for the Q&A platform
package models

// Badge tiers
const (
	BadgeGold   = "GOLD"
	BadgeSilver = "SILVER"
	BadgeBronze = "BRONZE"
)

// BadgeCounters are the per-user aggregates badge tiers are computed from.
// They are derived from the question/answer/vote tables at request time and
// never stored.
type BadgeCounters struct {
	QuestionCount   int64 `json:"question_count"`
	AnswerCount     int64 `json:"answer_count"`
	QuestionUpvotes int64 `json:"question_upvotes"`
	AnswerUpvotes   int64 `json:"answer_upvotes"`
	TotalViews      int64 `json:"total_views"`
}

// BadgeCounts is the derived gold/silver/bronze tally. Never persisted.
type BadgeCounts struct {
	Gold   int `json:"gold"`
	Silver int `json:"silver"`
	Bronze int `json:"bronze"`
}

// badgeThresholds maps each counter category to its per-tier thresholds.
type badgeThresholds struct {
	Bronze int64
	Silver int64
	Gold   int64
}

var (
	questionCountThresholds  = badgeThresholds{Bronze: 10, Silver: 50, Gold: 100}
	answerCountThresholds    = badgeThresholds{Bronze: 10, Silver: 50, Gold: 100}
	questionUpvoteThresholds = badgeThresholds{Bronze: 10, Silver: 50, Gold: 100}
	answerUpvoteThresholds   = badgeThresholds{Bronze: 10, Silver: 50, Gold: 100}
	totalViewThresholds      = badgeThresholds{Bronze: 1000, Silver: 10000, Gold: 100000}
)

// ComputeBadgeCounts tallies badge tiers from the given counters.
//
// Tiers are checked independently per category: a category that clears the
// gold threshold also scores silver and bronze. This mirrors the platform's
// observed behavior and is intentional; do not collapse it into a
// highest-tier-only scheme.
func ComputeBadgeCounts(c BadgeCounters) BadgeCounts {
	var out BadgeCounts
	categories := []struct {
		value      int64
		thresholds badgeThresholds
	}{
		{c.QuestionCount, questionCountThresholds},
		{c.AnswerCount, answerCountThresholds},
		{c.QuestionUpvotes, questionUpvoteThresholds},
		{c.AnswerUpvotes, answerUpvoteThresholds},
		{c.TotalViews, totalViewThresholds},
	}
	for _, cat := range categories {
		if cat.value >= cat.thresholds.Gold {
			out.Gold++
		}
		if cat.value >= cat.thresholds.Silver {
			out.Silver++
		}
		if cat.value >= cat.thresholds.Bronze {
			out.Bronze++
		}
	}
	return out
}

// ReputationPerUpvote is the score granted for each upvote received on a
// user's questions or answers. Reputation is derived at read time.
const ReputationPerUpvote = 10

// ReputationFor derives a user's reputation from received upvotes.
func ReputationFor(c BadgeCounters) int64 {
	return ReputationPerUpvote * (c.QuestionUpvotes + c.AnswerUpvotes)
}
