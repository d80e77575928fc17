package repository

import (
	"context"

	"github.com/diwan-maarifa/diwan-backend/internal/domain"
	"gorm.io/gorm"
)

// AttachmentRepository persists uploaded file references
type AttachmentRepository interface {
	Create(ctx context.Context, a *domain.Attachment) error
	ListBySubmission(ctx context.Context, submissionID uint64) ([]*domain.Attachment, error)
	// Link attaches the uploader's unlinked files; returns the number linked
	Link(ctx context.Context, uploaderID, submissionID uint64, ids []uint64) (int64, error)
}

type attachmentRepository struct {
	db *gorm.DB
}

// NewAttachmentRepository creates a new AttachmentRepository
func NewAttachmentRepository(db *gorm.DB) AttachmentRepository {
	return &attachmentRepository{db: db}
}

func (r *attachmentRepository) Create(ctx context.Context, a *domain.Attachment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *attachmentRepository) ListBySubmission(ctx context.Context, submissionID uint64) ([]*domain.Attachment, error) {
	var rows []*domain.Attachment
	err := r.db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *attachmentRepository) Link(ctx context.Context, uploaderID, submissionID uint64, ids []uint64) (int64, error) {
	result := r.db.WithContext(ctx).Model(&domain.Attachment{}).
		Where("id IN ? AND uploader_id = ? AND submission_id IS NULL", ids, uploaderID).
		Update("submission_id", submissionID)
	return result.RowsAffected, result.Error
}
