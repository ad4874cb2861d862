// Package businessflow contains the core business logic and use cases for the Q&A platform
package businessflow

import (
	"context"
	"strings"
	"time"

	"github.com/amirphl/Porseman/app/dto"
	"github.com/amirphl/Porseman/models"
	"github.com/amirphl/Porseman/repository"
	"github.com/amirphl/Porseman/utils"
)

// ProfileFlow handles public profiles and the derived per-user statistics
type ProfileFlow interface {
	Get(ctx context.Context, username string) (*dto.ProfileResponse, error)
	Update(ctx context.Context, userID uint, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
	Stats(ctx context.Context, username string) (*dto.UserStatsResponse, error)
	TopPosts(ctx context.Context, username string) (*dto.TopPostsResponse, error)
}

// ProfileFlowImpl implements the profile business flow
type ProfileFlowImpl struct {
	userRepo     repository.UserRepository
	questionRepo repository.QuestionRepository
	answerRepo   repository.AnswerRepository
	voteRepo     repository.VoteRepository
	mediaRepo    repository.MediaRepository
}

// NewProfileFlow creates a new profile flow instance
func NewProfileFlow(
	userRepo repository.UserRepository,
	questionRepo repository.QuestionRepository,
	answerRepo repository.AnswerRepository,
	voteRepo repository.VoteRepository,
	mediaRepo repository.MediaRepository,
) ProfileFlow {
	return &ProfileFlowImpl{
		userRepo:     userRepo,
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
		voteRepo:     voteRepo,
		mediaRepo:    mediaRepo,
	}
}

// Get returns a public profile by username
func (pf *ProfileFlowImpl) Get(ctx context.Context, username string) (*dto.ProfileResponse, error) {
	user, err := pf.userRepo.ByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, NewBusinessError("GET_PROFILE_FAILED", "Get profile failed", err)
	}
	if user == nil {
		return nil, NewBusinessError("USER_NOT_FOUND", "User not found", ErrUserNotFound)
	}

	return pf.buildProfile(ctx, user)
}

// Update modifies the caller's own profile fields
func (pf *ProfileFlowImpl) Update(ctx context.Context, userID uint, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	user, err := pf.userRepo.ByID(ctx, userID)
	if err != nil {
		return nil, NewBusinessError("UPDATE_PROFILE_FAILED", "Update profile failed", err)
	}
	if user == nil {
		return nil, NewBusinessError("USER_NOT_FOUND", "User not found", ErrUserNotFound)
	}

	user.Name = strings.TrimSpace(req.Name)
	user.Bio = req.Bio
	user.Location = req.Location
	user.PortfolioURL = req.PortfolioURL
	user.UpdatedAt = utils.UTCNow()

	if err := pf.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, NewBusinessError("UPDATE_PROFILE_FAILED", "Update profile failed", err)
	}

	return pf.buildProfile(ctx, user)
}

// Stats recomputes a user's counters, reputation and badges from the
// ledgers. Nothing here is stored; deleting a question or retracting a vote
// moves the numbers on the next read, and a badge tier disappears as soon
// as its threshold is no longer met.
func (pf *ProfileFlowImpl) Stats(ctx context.Context, username string) (*dto.UserStatsResponse, error) {
	user, err := pf.userRepo.ByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, NewBusinessError("USER_STATS_FAILED", "User stats failed", err)
	}
	if user == nil {
		return nil, NewBusinessError("USER_NOT_FOUND", "User not found", ErrUserNotFound)
	}

	questionCount, err := pf.questionRepo.Count(ctx, models.QuestionFilter{AuthorID: &user.ID})
	if err != nil {
		return nil, NewBusinessError("USER_STATS_FAILED", "User stats failed", err)
	}

	answerCount, err := pf.answerRepo.Count(ctx, models.AnswerFilter{AuthorID: &user.ID})
	if err != nil {
		return nil, NewBusinessError("USER_STATS_FAILED", "User stats failed", err)
	}

	questionUpvotes, err := pf.voteRepo.CountUpvotesReceivedOnQuestions(ctx, user.ID)
	if err != nil {
		return nil, NewBusinessError("USER_STATS_FAILED", "User stats failed", err)
	}

	answerUpvotes, err := pf.voteRepo.CountUpvotesReceivedOnAnswers(ctx, user.ID)
	if err != nil {
		return nil, NewBusinessError("USER_STATS_FAILED", "User stats failed", err)
	}

	totalViews, err := pf.questionRepo.SumViewsByAuthor(ctx, user.ID)
	if err != nil {
		return nil, NewBusinessError("USER_STATS_FAILED", "User stats failed", err)
	}

	counters := models.BadgeCounters{
		QuestionCount:   questionCount,
		AnswerCount:     answerCount,
		QuestionUpvotes: questionUpvotes,
		AnswerUpvotes:   answerUpvotes,
		TotalViews:      totalViews,
	}
	badges := models.ComputeBadgeCounts(counters)

	return &dto.UserStatsResponse{
		Message:         "User stats retrieved successfully.",
		Username:        user.Username,
		QuestionCount:   questionCount,
		AnswerCount:     answerCount,
		QuestionUpvotes: questionUpvotes,
		AnswerUpvotes:   answerUpvotes,
		TotalViews:      totalViews,
		Reputation:      models.ReputationFor(counters),
		Badges: dto.BadgeCountsDTO{
			Gold:   badges.Gold,
			Silver: badges.Silver,
			Bronze: badges.Bronze,
		},
	}, nil
}

// TopPosts returns a user's most viewed questions and highest scored
// answers, capped per list. Both lists are recomputed per request.
func (pf *ProfileFlowImpl) TopPosts(ctx context.Context, username string) (*dto.TopPostsResponse, error) {
	user, err := pf.userRepo.ByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, NewBusinessError("TOP_POSTS_FAILED", "Top posts failed", err)
	}
	if user == nil {
		return nil, NewBusinessError("USER_NOT_FOUND", "User not found", ErrUserNotFound)
	}

	questions, err := pf.questionRepo.ByFilter(ctx, models.QuestionFilter{AuthorID: &user.ID}, "views DESC, id ASC", utils.TopPostsLimit, 0)
	if err != nil {
		return nil, NewBusinessError("TOP_POSTS_FAILED", "Top posts failed", err)
	}

	answers, err := pf.answerRepo.ListTopByAuthor(ctx, user.ID, utils.TopPostsLimit)
	if err != nil {
		return nil, NewBusinessError("TOP_POSTS_FAILED", "Top posts failed", err)
	}

	questionItems := make([]dto.TopQuestionItem, 0, len(questions))
	for _, q := range questions {
		questionItems = append(questionItems, dto.TopQuestionItem{
			UUID:      q.UUID.String(),
			Title:     q.Title,
			Views:     q.Views,
			CreatedAt: q.CreatedAt.Format(time.RFC3339),
		})
	}

	answerItems := make([]dto.TopAnswerItem, 0, len(answers))
	for _, a := range answers {
		answerItems = append(answerItems, dto.TopAnswerItem{
			UUID:          a.UUID.String(),
			QuestionUUID:  a.Question.UUID.String(),
			QuestionTitle: a.Question.Title,
			Snippet:       utils.TruncateRunes(strings.TrimSpace(a.Content), 200),
			CreatedAt:     a.CreatedAt.Format(time.RFC3339),
		})
	}

	return &dto.TopPostsResponse{
		Message:   "Top posts retrieved successfully.",
		Username:  user.Username,
		Questions: questionItems,
		Answers:   answerItems,
	}, nil
}

// Private helper methods

func (pf *ProfileFlowImpl) buildProfile(ctx context.Context, user *models.User) (*dto.ProfileResponse, error) {
	var avatarUUID *string
	if user.AvatarID != nil {
		asset, err := pf.mediaRepo.ByID(ctx, *user.AvatarID)
		if err != nil {
			return nil, NewBusinessError("GET_PROFILE_FAILED", "Get profile failed", err)
		}
		if asset != nil {
			avatarUUID = utils.ToPtr(asset.UUID.String())
		}
	}

	return &dto.ProfileResponse{
		UUID:         user.UUID.String(),
		Username:     user.Username,
		Name:         user.Name,
		Bio:          user.Bio,
		Location:     user.Location,
		PortfolioURL: user.PortfolioURL,
		AvatarUUID:   avatarUUID,
		CreatedAt:    user.CreatedAt.Format(time.RFC3339),
	}, nil
}
