// Package businessflow contains the core business logic and use cases for the Q&A platform
package businessflow

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/amirphl/Porseman/app/dto"
	"github.com/amirphl/Porseman/config"
	"github.com/amirphl/Porseman/models"
	"github.com/amirphl/Porseman/repository"
	"github.com/amirphl/Porseman/utils"
	"github.com/redis/go-redis/v9"
)

// TagFlow handles tag aggregation and lookup operations
type TagFlow interface {
	ListPopular(ctx context.Context, req *dto.ListPopularTagsRequest) (*dto.ListPopularTagsResponse, error)
	Search(ctx context.Context, query string) (*dto.SearchTagsResponse, error)
	QuestionsByTag(ctx context.Context, tagName string, req *dto.ListQuestionsRequest) (*dto.TagQuestionsResponse, error)
}

// TagFlowImpl implements the tag business flow
type TagFlowImpl struct {
	tagRepo      repository.TagRepository
	questionRepo repository.QuestionRepository
	answerRepo   repository.AnswerRepository
	cacheConfig  *config.CacheConfig
	rc           *redis.Client
}

// NewTagFlow creates a new tag flow instance
func NewTagFlow(
	tagRepo repository.TagRepository,
	questionRepo repository.QuestionRepository,
	answerRepo repository.AnswerRepository,
	cacheConfig *config.CacheConfig,
	rc *redis.Client,
) TagFlow {
	return &TagFlowImpl{
		tagRepo:      tagRepo,
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
		cacheConfig:  cacheConfig,
		rc:           rc,
	}
}

// ListPopular returns tags ranked by how many questions reference them,
// ties broken by tag id. Deleted questions keep counting: attachments are
// never garbage collected. The ranking is cached in redis and invalidated
// whenever a question attaches tags.
func (tf *TagFlowImpl) ListPopular(ctx context.Context, req *dto.ListPopularTagsRequest) (*dto.ListPopularTagsResponse, error) {
	limit := req.Limit
	if limit == 0 {
		limit = utils.DefaultPageSize
	}
	if limit < 1 || limit > utils.MaxPageSize {
		return nil, NewBusinessError("LIST_POPULAR_TAGS_VALIDATION_FAILED", "List popular tags validation failed", ErrInvalidPageSize)
	}
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}

	// Only the default first page is cached; it is the one the tag index
	// renders and the one invalidated on new attachments
	cacheable := tf.rc != nil && limit == utils.DefaultPageSize && offset == 0
	cacheKey := tf.popularCacheKey()
	if cacheable {
		if bs, err := tf.rc.Get(ctx, cacheKey).Bytes(); err == nil && len(bs) > 0 {
			var items []dto.PopularTagItem
			if err := json.Unmarshal(bs, &items); err == nil {
				return &dto.ListPopularTagsResponse{
					Message: "Popular tags retrieved from cache",
					Items:   items,
				}, nil
			}
		}
	}

	rows, err := tf.tagRepo.ListPopular(ctx, limit, offset)
	if err != nil {
		return nil, NewBusinessError("LIST_POPULAR_TAGS_FAILED", "List popular tags failed", err)
	}

	items := make([]dto.PopularTagItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, dto.PopularTagItem{
			ID:            row.ID,
			Name:          row.Name,
			QuestionCount: row.QuestionCount,
		})
	}

	if cacheable {
		if bs, err := json.Marshal(items); err == nil {
			_ = tf.rc.Set(ctx, cacheKey, bs, tf.cacheTTL()).Err()
		}
	}

	return &dto.ListPopularTagsResponse{
		Message: "Popular tags retrieved successfully.",
		Items:   items,
	}, nil
}

// Search returns tags whose name contains the query, case-insensitively
func (tf *TagFlowImpl) Search(ctx context.Context, query string) (*dto.SearchTagsResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, NewBusinessError("SEARCH_TAGS_VALIDATION_FAILED", "Search tags validation failed", ErrEmptySearchQuery)
	}

	tags, err := tf.tagRepo.SearchByName(ctx, query, utils.DefaultPageSize)
	if err != nil {
		return nil, NewBusinessError("SEARCH_TAGS_FAILED", "Search tags failed", err)
	}

	return &dto.SearchTagsResponse{
		Message: "Tags retrieved successfully.",
		Items:   ToTagItems(tags),
	}, nil
}

// QuestionsByTag returns the page of questions referencing a tag (by
// case-insensitive exact name)
func (tf *TagFlowImpl) QuestionsByTag(ctx context.Context, tagName string, req *dto.ListQuestionsRequest) (*dto.TagQuestionsResponse, error) {
	page, pageSize, err := normalizePagination(req.Page, req.PageSize)
	if err != nil {
		return nil, NewBusinessError("TAG_QUESTIONS_VALIDATION_FAILED", "Tag questions validation failed", err)
	}

	tag, err := tf.tagRepo.ByNameFold(ctx, strings.TrimSpace(tagName))
	if err != nil {
		return nil, NewBusinessError("TAG_QUESTIONS_FAILED", "Tag questions failed", err)
	}
	if tag == nil {
		return nil, NewBusinessError("TAG_NOT_FOUND", "Tag not found", ErrTagNotFound)
	}

	filter := models.QuestionFilter{TagID: &tag.ID}
	orderBy := questionOrderClause(req.OrderBy)

	questions, err := tf.questionRepo.ByFilter(ctx, filter, orderBy, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, NewBusinessError("TAG_QUESTIONS_FAILED", "Tag questions failed", err)
	}

	total, err := tf.tagRepo.CountQuestions(ctx, tag.ID)
	if err != nil {
		return nil, NewBusinessError("TAG_QUESTIONS_FAILED", "Tag questions failed", err)
	}

	items := make([]dto.QuestionItem, 0, len(questions))
	for _, q := range questions {
		answerCount, err := tf.answerRepo.Count(ctx, models.AnswerFilter{QuestionID: &q.ID})
		if err != nil {
			return nil, NewBusinessError("TAG_QUESTIONS_FAILED", "Tag questions failed", err)
		}

		tags, err := tf.tagRepo.ListByQuestion(ctx, q.ID)
		if err != nil {
			return nil, NewBusinessError("TAG_QUESTIONS_FAILED", "Tag questions failed", err)
		}

		author := q.Author.Username
		if author == "" {
			author = fmt.Sprintf("user-%d", q.AuthorID)
		}

		items = append(items, dto.QuestionItem{
			UUID:        q.UUID.String(),
			Title:       q.Title,
			Author:      author,
			Views:       q.Views,
			AnswerCount: answerCount,
			Tags:        ToTagItems(tags),
			CreatedAt:   q.CreatedAt.Format(time.RFC3339),
		})
	}

	return &dto.TagQuestionsResponse{
		Message:  "Questions retrieved successfully.",
		Tag:      dto.TagItem{ID: tag.ID, Name: tag.Name},
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// Private helper methods

func (tf *TagFlowImpl) popularCacheKey() string {
	if tf.cacheConfig != nil {
		return redisKey(*tf.cacheConfig, utils.PopularTagsCacheKey)
	}
	return utils.PopularTagsCacheKey
}

func (tf *TagFlowImpl) cacheTTL() time.Duration {
	if tf.cacheConfig != nil && tf.cacheConfig.DefaultTTL > 0 {
		return tf.cacheConfig.DefaultTTL
	}
	return time.Hour
}
