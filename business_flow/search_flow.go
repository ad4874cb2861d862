// Package businessflow contains the core business logic and use cases for the Q&A platform
package businessflow

import (
	"context"
	"strings"

	"github.com/amirphl/Porseman/app/dto"
	"github.com/amirphl/Porseman/models"
	"github.com/amirphl/Porseman/repository"
	"github.com/amirphl/Porseman/utils"
	"golang.org/x/sync/errgroup"
)

// Search result kinds, in the order they appear in the response
const (
	SearchKindQuestion = "question"
	SearchKindAnswer   = "answer"
	SearchKindTag      = "tag"
	SearchKindUser     = "user"
)

// SearchFlow handles the global search fan-out
type SearchFlow interface {
	GlobalSearch(ctx context.Context, req *dto.GlobalSearchRequest) (*dto.GlobalSearchResponse, error)
}

// SearchFlowImpl implements the search business flow
type SearchFlowImpl struct {
	questionRepo repository.QuestionRepository
	answerRepo   repository.AnswerRepository
	tagRepo      repository.TagRepository
	userRepo     repository.UserRepository
}

// NewSearchFlow creates a new search flow instance
func NewSearchFlow(
	questionRepo repository.QuestionRepository,
	answerRepo repository.AnswerRepository,
	tagRepo repository.TagRepository,
	userRepo repository.UserRepository,
) SearchFlow {
	return &SearchFlowImpl{
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
		tagRepo:      tagRepo,
		userRepo:     userRepo,
	}
}

// GlobalSearch fans out one case-insensitive substring query across
// questions, answers, tags and users, capped per kind, and concatenates the
// partial results in that fixed order. There is no cross-kind relevance
// score and no dedup; a question matching on both title and tag shows up
// once per kind.
func (sf *SearchFlowImpl) GlobalSearch(ctx context.Context, req *dto.GlobalSearchRequest) (*dto.GlobalSearchResponse, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, NewBusinessError("SEARCH_VALIDATION_FAILED", "Search validation failed", ErrEmptySearchQuery)
	}

	// A recognized type narrows the fan-out to one kind; anything else,
	// including an absent type, searches all four
	kinds := []string{SearchKindQuestion, SearchKindAnswer, SearchKindTag, SearchKindUser}
	switch req.Type {
	case SearchKindQuestion, SearchKindAnswer, SearchKindTag, SearchKindUser:
		kinds = []string{req.Type}
	}

	g, gctx := errgroup.WithContext(ctx)
	results := make([][]dto.GlobalSearchResult, len(kinds))

	for i, kind := range kinds {
		g.Go(func() error {
			items, err := sf.searchKind(gctx, kind, query)
			if err != nil {
				return err
			}
			results[i] = items
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, NewBusinessError("SEARCH_FAILED", "Search failed", err)
	}

	out := make([]dto.GlobalSearchResult, 0, len(kinds)*utils.GlobalSearchPerKindLimit)
	for _, items := range results {
		out = append(out, items...)
	}

	return &dto.GlobalSearchResponse{
		Message: "Search completed successfully.",
		Items:   out,
	}, nil
}

func (sf *SearchFlowImpl) searchKind(ctx context.Context, kind, query string) ([]dto.GlobalSearchResult, error) {
	limit := utils.GlobalSearchPerKindLimit

	switch kind {
	case SearchKindQuestion:
		questions, err := sf.questionRepo.SearchByTitle(ctx, query, limit)
		if err != nil {
			return nil, err
		}
		items := make([]dto.GlobalSearchResult, 0, len(questions))
		for _, q := range questions {
			items = append(items, dto.GlobalSearchResult{
				ID:    q.UUID.String(),
				Type:  SearchKindQuestion,
				Title: q.Title,
			})
		}
		return items, nil

	case SearchKindAnswer:
		answers, err := sf.answerRepo.SearchByContent(ctx, query, limit)
		if err != nil {
			return nil, err
		}
		items := make([]dto.GlobalSearchResult, 0, len(answers))
		for _, a := range answers {
			items = append(items, dto.GlobalSearchResult{
				ID:    a.UUID.String(),
				Type:  SearchKindAnswer,
				Title: answerSnippet(a),
			})
		}
		return items, nil

	case SearchKindTag:
		tags, err := sf.tagRepo.SearchByName(ctx, query, limit)
		if err != nil {
			return nil, err
		}
		items := make([]dto.GlobalSearchResult, 0, len(tags))
		for _, t := range tags {
			items = append(items, dto.GlobalSearchResult{
				ID:    t.Name,
				Type:  SearchKindTag,
				Title: t.Name,
			})
		}
		return items, nil

	case SearchKindUser:
		users, err := sf.userRepo.SearchByName(ctx, query, limit)
		if err != nil {
			return nil, err
		}
		items := make([]dto.GlobalSearchResult, 0, len(users))
		for _, u := range users {
			items = append(items, dto.GlobalSearchResult{
				ID:    u.Username,
				Type:  SearchKindUser,
				Title: u.Name,
			})
		}
		return items, nil
	}

	return nil, nil
}

func answerSnippet(a *models.Answer) string {
	return utils.TruncateRunes(strings.TrimSpace(a.Content), 80)
}
