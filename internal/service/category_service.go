package service

import (
	"context"

	"github.com/diwan-maarifa/diwan-backend/internal/domain"
	"github.com/diwan-maarifa/diwan-backend/internal/repository"
	"github.com/diwan-maarifa/diwan-backend/pkg/cache"
	pkglogger "github.com/diwan-maarifa/diwan-backend/pkg/logger"
)

// CategoryContent is a category with a page of its published content
type CategoryContent struct {
	Category *domain.Category `json:"category"`
	*PublishedPage
}

// CategoryService reads categories
type CategoryService interface {
	List(ctx context.Context) ([]*domain.Category, error)
	GetBySlug(ctx context.Context, slug string, page, limit int) (*CategoryContent, error)
}

type categoryService struct {
	repo        repository.CategoryRepository
	publication PublicationService
	cache       cache.Service
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(repo repository.CategoryRepository, publication PublicationService, cacheSvc cache.Service) CategoryService {
	if cacheSvc == nil {
		cacheSvc = cache.NewService(nil)
	}
	return &categoryService{repo: repo, publication: publication, cache: cacheSvc}
}

func (s *categoryService) List(ctx context.Context) ([]*domain.Category, error) {
	var cached []*domain.Category
	if err := s.cache.GetCategories(ctx, &cached); err == nil {
		return cached, nil
	}

	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetCategories(ctx, categories); err != nil {
		pkglogger.GetLogger().Warn().Err(err).Msg("failed to cache categories")
	}
	return categories, nil
}

func (s *categoryService) GetBySlug(ctx context.Context, slug string, page, limit int) (*CategoryContent, error) {
	category, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	req := domain.PublishedListRequest{
		PublishedFilter: domain.PublishedFilter{CategoryID: category.ID},
		Page:            page,
		Limit:           limit,
	}
	listing, err := s.publication.ListPublished(ctx, req)
	if err != nil {
		return nil, err
	}
	return &CategoryContent{Category: category, PublishedPage: listing}, nil
}
