package repository

import (
	"context"

	"github.com/diwan-maarifa/diwan-backend/internal/domain"
	"gorm.io/gorm"
)

// ReviewRepository is the append-only workflow ledger.
// Records are written only inside a status transaction and never changed.
type ReviewRepository interface {
	Append(tx *gorm.DB, record *domain.ReviewRecord) error
	History(ctx context.Context, submissionID uint64) ([]*domain.ReviewRecord, error)
	Chronological(ctx context.Context, submissionID uint64) ([]*domain.ReviewRecord, error)
	CountBySubmission(ctx context.Context, submissionID uint64) (int64, error)
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new ReviewRepository
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Append inserts a record using the caller's transaction
func (r *reviewRepository) Append(tx *gorm.DB, record *domain.ReviewRecord) error {
	return tx.Create(record).Error
}

// History returns the ledger of a submission, most recent first
func (r *reviewRepository) History(ctx context.Context, submissionID uint64) ([]*domain.ReviewRecord, error) {
	return r.find(ctx, submissionID, "created_at DESC, id DESC")
}

// Chronological returns the ledger of a submission, oldest first
func (r *reviewRepository) Chronological(ctx context.Context, submissionID uint64) ([]*domain.ReviewRecord, error) {
	return r.find(ctx, submissionID, "created_at ASC, id ASC")
}

func (r *reviewRepository) find(ctx context.Context, submissionID uint64, order string) ([]*domain.ReviewRecord, error) {
	var records []*domain.ReviewRecord
	err := r.db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		Order(order).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// CountBySubmission returns the number of ledger entries of a submission
func (r *reviewRepository) CountBySubmission(ctx context.Context, submissionID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.ReviewRecord{}).
		Where("submission_id = ?", submissionID).
		Count(&count).Error
	return count, err
}
