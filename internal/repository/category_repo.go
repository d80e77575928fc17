package repository

import (
	"context"

	"github.com/diwan-maarifa/diwan-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CategoryRepository reads content categories
type CategoryRepository interface {
	List(ctx context.Context) ([]*domain.Category, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Category, error)
	Exists(ctx context.Context, id uint64) (bool, error)
	Seed(ctx context.Context, categories []domain.Category) error
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	var categories []*domain.Category
	if err := r.db.WithContext(ctx).Order("name_ar ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) FindBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	var c domain.Category
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&c).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *categoryRepository) Exists(ctx context.Context, id uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Category{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// Seed inserts categories, skipping slugs that already exist
func (r *categoryRepository) Seed(ctx context.Context, categories []domain.Category) error {
	if len(categories) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "slug"}}, DoNothing: true}).
		Create(&categories).Error
}
