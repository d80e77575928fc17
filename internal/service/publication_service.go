package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/diwan-maarifa/diwan-backend/internal/common"
	"github.com/diwan-maarifa/diwan-backend/internal/domain"
	"github.com/diwan-maarifa/diwan-backend/internal/repository"
	"github.com/diwan-maarifa/diwan-backend/pkg/cache"
	pkglogger "github.com/diwan-maarifa/diwan-backend/pkg/logger"
)

// PublishedPage is one cached page of the public listing
type PublishedPage struct {
	Items []*domain.SubmissionResponse `json:"items"`
	Meta  *common.Meta                 `json:"meta"`
}

// PublicationService is the admin-only boundary between review and public visibility
type PublicationService interface {
	Publish(ctx context.Context, actor domain.Principal, id uint64) (*domain.Submission, error)
	Unpublish(ctx context.Context, actor domain.Principal, id uint64) (*domain.Submission, error)
	UpdatePublished(ctx context.Context, actor domain.Principal, id uint64, patch *domain.SubmissionPatch) (*domain.Submission, error)
	ListPublished(ctx context.Context, req domain.PublishedListRequest) (*PublishedPage, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*domain.Submission, error)
}

type publicationService struct {
	repo  repository.SubmissionRepository
	cache cache.Service
	index SearchIndex
	tr    *transitioner
}

// NewPublicationService creates a PublicationService. cacheSvc and index may be nil.
func NewPublicationService(repo repository.SubmissionRepository, cacheSvc cache.Service, index SearchIndex) PublicationService {
	if cacheSvc == nil {
		cacheSvc = cache.NewService(nil)
	}
	return &publicationService{
		repo:  repo,
		cache: cacheSvc,
		index: index,
		tr:    newTransitioner(repo),
	}
}

func (s *publicationService) Publish(ctx context.Context, actor domain.Principal, id uint64) (*domain.Submission, error) {
	sub, err := s.adminTransition(ctx, actor, id, domain.StatusApproved, domain.ActionPublish)
	if err != nil {
		return nil, err
	}
	s.afterChange(ctx, sub, true)
	return sub, nil
}

func (s *publicationService) Unpublish(ctx context.Context, actor domain.Principal, id uint64) (*domain.Submission, error) {
	sub, err := s.adminTransition(ctx, actor, id, domain.StatusPublished, domain.ActionUnpublish)
	if err != nil {
		return nil, err
	}
	s.afterChange(ctx, sub, false)
	return sub, nil
}

func (s *publicationService) adminTransition(ctx context.Context, actor domain.Principal, id uint64, want domain.SubmissionStatus, action domain.Action) (*domain.Submission, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, common.ErrForbidden
	}
	sub, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.Status != want {
		return nil, fmt.Errorf("%w: submission is %s, not %s", common.ErrForbidden, sub.Status, want)
	}
	if err := s.tr.apply(ctx, actor, sub, action, ""); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *publicationService) UpdatePublished(ctx context.Context, actor domain.Principal, id uint64, patch *domain.SubmissionPatch) (*domain.Submission, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, common.ErrForbidden
	}
	if patch.IsEmpty() {
		return nil, common.NewValidationError("", "no fields to update")
	}
	sanitizePatch(patch)
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	sub, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.Status != domain.StatusPublished {
		return nil, fmt.Errorf("%w: submission is not published", common.ErrNotFound)
	}

	if err := s.repo.ApplyPatch(ctx, id, patch, "", domain.StatusPublished); err != nil {
		if errors.Is(err, common.ErrStaleStatus) {
			return nil, fmt.Errorf("%w: submission is not published", common.ErrNotFound)
		}
		return nil, err
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.afterChange(ctx, updated, true)
	return updated, nil
}

// afterChange refreshes the listing cache and the search index. Failures
// are logged only; the database change is already committed.
func (s *publicationService) afterChange(ctx context.Context, sub *domain.Submission, visible bool) {
	logger := pkglogger.GetLogger()

	if err := s.cache.InvalidatePublished(ctx); err != nil {
		logger.Warn().Err(err).Msg("failed to invalidate published cache")
	}

	if s.index == nil {
		return
	}
	var err error
	if visible {
		err = s.index.Index(ctx, sub)
	} else {
		err = s.index.Remove(ctx, sub.ID)
	}
	if err != nil {
		logger.Warn().Err(err).Uint64("submission_id", sub.ID).Bool("visible", visible).Msg("failed to update search index")
	}
}

func (s *publicationService) ListPublished(ctx context.Context, req domain.PublishedListRequest) (*PublishedPage, error) {
	req.Normalize()
	if req.ContentType != "" && !req.ContentType.IsValid() {
		return nil, common.NewValidationError("content_type", "must be term or article")
	}

	key := cache.PublishedQuery{
		CategoryID:  req.CategoryID,
		ContentType: string(req.ContentType),
		Search:      req.Search,
		Page:        req.Page,
		Limit:       req.Limit,
	}

	var page PublishedPage
	if err := s.cache.GetPublished(ctx, key, &page); err == nil {
		return &page, nil
	}

	rows, total, err := s.repo.ListPublished(ctx, req.PublishedFilter, req.Page, req.Limit)
	if err != nil {
		return nil, err
	}
	page = PublishedPage{Items: toResponses(rows), Meta: common.NewMeta(req.Page, req.Limit, total)}

	if err := s.cache.SetPublished(ctx, key, &page); err != nil {
		pkglogger.GetLogger().Warn().Err(err).Msg("failed to cache published listing")
	}
	return &page, nil
}

// GetPublishedBySlug returns live content and counts the view. The counter
// is best effort and may lose increments under load.
func (s *publicationService) GetPublishedBySlug(ctx context.Context, slug string) (*domain.Submission, error) {
	sub, err := s.repo.FindPublishedBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := s.repo.IncrementViewCount(ctx, sub.ID); err != nil {
		pkglogger.GetLogger().Warn().Err(err).Uint64("submission_id", sub.ID).Msg("failed to increment view count")
	} else {
		sub.ViewCount++
	}
	return sub, nil
}
