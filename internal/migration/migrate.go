package migration

import (
	"context"

	"github.com/diwan-maarifa/diwan-backend/internal/domain"
	"github.com/diwan-maarifa/diwan-backend/internal/repository"
	pkglogger "github.com/diwan-maarifa/diwan-backend/pkg/logger"
	"gorm.io/gorm"
)

// Models returns every table managed by AutoMigrate, parents first
func Models() []interface{} {
	return []interface{}{
		&domain.Category{},
		&domain.Submission{},
		&domain.ReviewRecord{},
		&domain.Attachment{},
	}
}

// Run creates or updates the schema and seeds the default categories.
// Safe to run repeatedly.
func Run(ctx context.Context, db *gorm.DB) error {
	// 1. AutoMigrate - creates missing tables and columns, never drops
	if err := db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		return err
	}

	// 2. Seed - existing slugs are left untouched
	categories := DefaultCategories()
	if err := repository.NewCategoryRepository(db).Seed(ctx, categories); err != nil {
		return err
	}

	pkglogger.GetLogger().Info().
		Int("tables", len(Models())).
		Int("categories", len(categories)).
		Msg("migration completed")
	return nil
}

// DefaultCategories is the initial set of knowledge fields
func DefaultCategories() []domain.Category {
	return []domain.Category{
		{NameAr: "علوم الحاسوب", NameEn: "Computer Science", Slug: "computer-science", Description: "البرمجة والخوارزميات وهندسة البرمجيات"},
		{NameAr: "الذكاء الاصطناعي", NameEn: "Artificial Intelligence", Slug: "artificial-intelligence", Description: "تعلم الآلة ومعالجة اللغة الطبيعية"},
		{NameAr: "الرياضيات", NameEn: "Mathematics", Slug: "mathematics"},
		{NameAr: "الفيزياء", NameEn: "Physics", Slug: "physics"},
		{NameAr: "الطب والصحة", NameEn: "Medicine and Health", Slug: "medicine"},
		{NameAr: "الهندسة", NameEn: "Engineering", Slug: "engineering"},
		{NameAr: "الاقتصاد", NameEn: "Economics", Slug: "economics"},
		{NameAr: "اللغة العربية", NameEn: "Arabic Language", Slug: "arabic-language", Description: "النحو والصرف والمعاجم"},
	}
}
