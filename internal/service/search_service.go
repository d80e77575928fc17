package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/diwan-maarifa/diwan-backend/internal/common"
	"github.com/diwan-maarifa/diwan-backend/internal/domain"
	"github.com/diwan-maarifa/diwan-backend/internal/repository"
	pkglogger "github.com/diwan-maarifa/diwan-backend/pkg/logger"
)

// MinSearchLength is the minimum query length in characters
const MinSearchLength = 2

// SearchResult is one page of search results
type SearchResult struct {
	Query string                       `json:"query"`
	Items []*domain.SubmissionResponse `json:"items"`
	Meta  *common.Meta                 `json:"-"`
}

// SearchService searches published content
type SearchService interface {
	Search(ctx context.Context, q string, page, limit int) (*SearchResult, error)
}

type searchService struct {
	repo  repository.SubmissionRepository
	index SearchIndex
}

// NewSearchService creates a SearchService. index may be nil, in which case
// the store's text filter is used.
func NewSearchService(repo repository.SubmissionRepository, index SearchIndex) SearchService {
	return &searchService{repo: repo, index: index}
}

func (s *searchService) Search(ctx context.Context, q string, page, limit int) (*SearchResult, error) {
	q = strings.TrimSpace(q)
	if utf8.RuneCountInString(q) < MinSearchLength {
		return nil, common.NewValidationError("q", "search query must be at least 2 characters")
	}
	page, limit = domain.NormalizePage(page, limit)

	if s.index != nil {
		result, err := s.searchIndex(ctx, q, page, limit)
		if err == nil {
			return result, nil
		}
		pkglogger.GetLogger().Warn().Err(err).Str("q", q).Msg("search index query failed, falling back to database")
	}

	rows, total, err := s.repo.ListPublished(ctx, domain.PublishedFilter{Search: q}, page, limit)
	if err != nil {
		return nil, err
	}
	return &SearchResult{Query: q, Items: toResponses(rows), Meta: common.NewMeta(page, limit, total)}, nil
}

func (s *searchService) searchIndex(ctx context.Context, q string, page, limit int) (*SearchResult, error) {
	ids, total, err := s.index.Search(ctx, q, page, limit)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.FindPublishedByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return &SearchResult{Query: q, Items: toResponses(rows), Meta: common.NewMeta(page, limit, total)}, nil
}

func toResponses(rows []*domain.Submission) []*domain.SubmissionResponse {
	out := make([]*domain.SubmissionResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ToResponse())
	}
	return out
}
