package repository

import (
	"context"
	"errors"
	"time"

	"github.com/diwan-maarifa/diwan-backend/internal/common"
	"github.com/diwan-maarifa/diwan-backend/internal/domain"
	"gorm.io/gorm"
)

// PublishedAtChange says what a transition does to published_at
type PublishedAtChange int

// PublishedAt changes
const (
	PublishedAtKeep PublishedAtChange = iota
	PublishedAtSet
	PublishedAtClear
)

// Transition is a conditional status change together with its ledger entry
type Transition struct {
	SubmissionID uint64
	From         domain.SubmissionStatus
	To           domain.SubmissionStatus
	Record       *domain.ReviewRecord
	PublishedAt  PublishedAtChange
	Now          time.Time
}

// SubmissionRepository persists submissions
type SubmissionRepository interface {
	Create(ctx context.Context, s *domain.Submission) error
	FindByID(ctx context.Context, id uint64) (*domain.Submission, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Submission, error)
	FindPublishedBySlug(ctx context.Context, slug string) (*domain.Submission, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Delete(ctx context.Context, id uint64, requireStatus domain.SubmissionStatus) error
	ApplyPatch(ctx context.Context, id uint64, patch *domain.SubmissionPatch, newSlug string, requireStatus domain.SubmissionStatus) error

	// TransitionStatus applies the status change and appends the ledger
	// entry in one transaction. The update only matches rows still in
	// t.From; otherwise nothing is written and ErrStaleStatus is returned.
	TransitionStatus(ctx context.Context, t Transition) error

	ListPublished(ctx context.Context, filter domain.PublishedFilter, page, limit int) ([]*domain.Submission, int64, error)
	ListByStatuses(ctx context.Context, statuses []domain.SubmissionStatus, page, limit int) ([]*domain.Submission, int64, error)
	ListByAuthor(ctx context.Context, authorID uint64, status domain.SubmissionStatus, page, limit int) ([]*domain.Submission, int64, error)
	FindPublishedByIDs(ctx context.Context, ids []uint64) ([]*domain.Submission, error)

	IncrementViewCount(ctx context.Context, id uint64) error
}

type submissionRepository struct {
	db     *gorm.DB
	ledger ReviewRepository
}

// NewSubmissionRepository creates a new SubmissionRepository
func NewSubmissionRepository(db *gorm.DB, ledger ReviewRepository) SubmissionRepository {
	return &submissionRepository{db: db, ledger: ledger}
}

func (r *submissionRepository) Create(ctx context.Context, s *domain.Submission) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *submissionRepository) FindByID(ctx context.Context, id uint64) (*domain.Submission, error) {
	var s domain.Submission
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

func (r *submissionRepository) FindBySlug(ctx context.Context, slug string) (*domain.Submission, error) {
	var s domain.Submission
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&s).Error; err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

func (r *submissionRepository) FindPublishedBySlug(ctx context.Context, slug string) (*domain.Submission, error) {
	var s domain.Submission
	err := r.db.WithContext(ctx).
		Where("slug = ? AND status = ?", slug, domain.StatusPublished).
		First(&s).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

func (r *submissionRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Submission{}).
		Where("slug = ?", slug).
		Count(&count).Error
	return count > 0, err
}

// Delete removes a submission still in requireStatus. The ledger is kept.
func (r *submissionRepository) Delete(ctx context.Context, id uint64, requireStatus domain.SubmissionStatus) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, requireStatus).
		Delete(&domain.Submission{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.missOrStale(ctx, id)
	}
	return nil
}

// ApplyPatch updates the non-nil patch fields of a submission still in
// requireStatus. newSlug is written when non-empty.
func (r *submissionRepository) ApplyPatch(ctx context.Context, id uint64, patch *domain.SubmissionPatch, newSlug string, requireStatus domain.SubmissionStatus) error {
	var upd domain.Submission
	var cols []string

	if patch.Title != nil {
		upd.Title = *patch.Title
		cols = append(cols, "title")
	}
	if newSlug != "" {
		upd.Slug = newSlug
		cols = append(cols, "slug")
	}
	if patch.Content != nil {
		upd.Content = *patch.Content
		cols = append(cols, "content")
	}
	if patch.CategoryID != nil {
		upd.CategoryID = patch.CategoryID
		cols = append(cols, "category_id")
	}
	if patch.Tags != nil {
		upd.Tags = *patch.Tags
		cols = append(cols, "tags")
	}
	if patch.ContentType != nil {
		upd.ContentType = *patch.ContentType
		cols = append(cols, "content_type")
	}
	if len(cols) == 0 {
		return common.NewValidationError("", "no fields to update")
	}
	upd.UpdatedAt = time.Now()
	cols = append(cols, "updated_at")

	result := r.db.WithContext(ctx).Model(&domain.Submission{}).
		Where("id = ? AND status = ?", id, requireStatus).
		Select(cols).
		Updates(&upd)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.missOrStale(ctx, id)
	}
	return nil
}

func (r *submissionRepository) TransitionStatus(ctx context.Context, t Transition) error {
	if t.Now.IsZero() {
		t.Now = time.Now()
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":     t.To,
			"updated_at": t.Now,
		}
		switch t.PublishedAt {
		case PublishedAtSet:
			updates["published_at"] = t.Now
		case PublishedAtClear:
			updates["published_at"] = nil
		}

		result := tx.Model(&domain.Submission{}).
			Where("id = ? AND status = ?", t.SubmissionID, t.From).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return common.ErrStaleStatus
		}

		t.Record.CreatedAt = t.Now
		return r.ledger.Append(tx, t.Record)
	})
	if errors.Is(err, common.ErrStaleStatus) {
		return r.missOrStale(ctx, t.SubmissionID)
	}
	return err
}

func (r *submissionRepository) ListPublished(ctx context.Context, filter domain.PublishedFilter, page, limit int) ([]*domain.Submission, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Submission{}).
		Where("status = ?", domain.StatusPublished)

	if filter.CategoryID > 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.ContentType != "" {
		query = query.Where("content_type = ?", filter.ContentType)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("(title LIKE ? OR content LIKE ?)", like, like)
	}

	return paginate(query, "published_at DESC, id DESC", page, limit)
}

func (r *submissionRepository) ListByStatuses(ctx context.Context, statuses []domain.SubmissionStatus, page, limit int) ([]*domain.Submission, int64, error) {
	if len(statuses) == 0 {
		return []*domain.Submission{}, 0, nil
	}
	query := r.db.WithContext(ctx).Model(&domain.Submission{}).
		Where("status IN ?", statuses)

	return paginate(query, "created_at ASC, id ASC", page, limit)
}

func (r *submissionRepository) ListByAuthor(ctx context.Context, authorID uint64, status domain.SubmissionStatus, page, limit int) ([]*domain.Submission, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Submission{}).
		Where("author_id = ?", authorID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	return paginate(query, "created_at DESC, id DESC", page, limit)
}

// FindPublishedByIDs loads published submissions, keeping the order of ids
func (r *submissionRepository) FindPublishedByIDs(ctx context.Context, ids []uint64) ([]*domain.Submission, error) {
	if len(ids) == 0 {
		return []*domain.Submission{}, nil
	}
	var rows []*domain.Submission
	err := r.db.WithContext(ctx).
		Where("id IN ? AND status = ?", ids, domain.StatusPublished).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	byID := make(map[uint64]*domain.Submission, len(rows))
	for _, s := range rows {
		byID[s.ID] = s
	}
	ordered := make([]*domain.Submission, 0, len(rows))
	for _, id := range ids {
		if s, ok := byID[id]; ok {
			ordered = append(ordered, s)
		}
	}
	return ordered, nil
}

// IncrementViewCount bumps view_count without touching updated_at
func (r *submissionRepository) IncrementViewCount(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Model(&domain.Submission{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

// missOrStale tells a missing row from one whose status moved on
func (r *submissionRepository) missOrStale(ctx context.Context, id uint64) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Submission{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return common.ErrNotFound
	}
	return common.ErrStaleStatus
}

func paginate(query *gorm.DB, order string, page, limit int) ([]*domain.Submission, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*domain.Submission
	offset := (page - 1) * limit
	if err := query.Order(order).
		Offset(offset).
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return common.ErrNotFound
	}
	return err
}
