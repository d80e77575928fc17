package service

import (
	"context"
	"io"
	"time"

	"github.com/diwan-maarifa/diwan-backend/internal/domain"
	"github.com/diwan-maarifa/diwan-backend/internal/repository"
	"github.com/diwan-maarifa/diwan-backend/pkg/cache"
	"github.com/diwan-maarifa/diwan-backend/pkg/storage"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// --- Mock SubmissionRepository ---

type mockSubmissionRepo struct {
	mock.Mock
}

func (m *mockSubmissionRepo) Create(ctx context.Context, s *domain.Submission) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockSubmissionRepo) FindByID(ctx context.Context, id uint64) (*domain.Submission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}

func (m *mockSubmissionRepo) FindBySlug(ctx context.Context, slug string) (*domain.Submission, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}

func (m *mockSubmissionRepo) FindPublishedBySlug(ctx context.Context, slug string) (*domain.Submission, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}

func (m *mockSubmissionRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *mockSubmissionRepo) Delete(ctx context.Context, id uint64, requireStatus domain.SubmissionStatus) error {
	return m.Called(ctx, id, requireStatus).Error(0)
}

func (m *mockSubmissionRepo) ApplyPatch(ctx context.Context, id uint64, patch *domain.SubmissionPatch, newSlug string, requireStatus domain.SubmissionStatus) error {
	return m.Called(ctx, id, patch, newSlug, requireStatus).Error(0)
}

func (m *mockSubmissionRepo) TransitionStatus(ctx context.Context, t repository.Transition) error {
	return m.Called(ctx, t).Error(0)
}

func (m *mockSubmissionRepo) ListPublished(ctx context.Context, filter domain.PublishedFilter, page, limit int) ([]*domain.Submission, int64, error) {
	args := m.Called(ctx, filter, page, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*domain.Submission), args.Get(1).(int64), args.Error(2)
}

func (m *mockSubmissionRepo) ListByStatuses(ctx context.Context, statuses []domain.SubmissionStatus, page, limit int) ([]*domain.Submission, int64, error) {
	args := m.Called(ctx, statuses, page, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*domain.Submission), args.Get(1).(int64), args.Error(2)
}

func (m *mockSubmissionRepo) ListByAuthor(ctx context.Context, authorID uint64, status domain.SubmissionStatus, page, limit int) ([]*domain.Submission, int64, error) {
	args := m.Called(ctx, authorID, status, page, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*domain.Submission), args.Get(1).(int64), args.Error(2)
}

func (m *mockSubmissionRepo) FindPublishedByIDs(ctx context.Context, ids []uint64) ([]*domain.Submission, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Submission), args.Error(1)
}

func (m *mockSubmissionRepo) IncrementViewCount(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

// --- Mock ReviewRepository ---

type mockReviewRepo struct {
	mock.Mock
}

func (m *mockReviewRepo) Append(tx *gorm.DB, record *domain.ReviewRecord) error {
	return m.Called(tx, record).Error(0)
}

func (m *mockReviewRepo) History(ctx context.Context, submissionID uint64) ([]*domain.ReviewRecord, error) {
	args := m.Called(ctx, submissionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ReviewRecord), args.Error(1)
}

func (m *mockReviewRepo) Chronological(ctx context.Context, submissionID uint64) ([]*domain.ReviewRecord, error) {
	args := m.Called(ctx, submissionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ReviewRecord), args.Error(1)
}

func (m *mockReviewRepo) CountBySubmission(ctx context.Context, submissionID uint64) (int64, error) {
	args := m.Called(ctx, submissionID)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock CategoryRepository ---

type mockCategoryRepo struct {
	mock.Mock
}

func (m *mockCategoryRepo) List(ctx context.Context) ([]*domain.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Category), args.Error(1)
}

func (m *mockCategoryRepo) FindBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *mockCategoryRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockCategoryRepo) Seed(ctx context.Context, categories []domain.Category) error {
	return m.Called(ctx, categories).Error(0)
}

// --- Mock AttachmentRepository ---

type mockAttachmentRepo struct {
	mock.Mock
}

func (m *mockAttachmentRepo) Create(ctx context.Context, a *domain.Attachment) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockAttachmentRepo) ListBySubmission(ctx context.Context, submissionID uint64) ([]*domain.Attachment, error) {
	args := m.Called(ctx, submissionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Attachment), args.Error(1)
}

func (m *mockAttachmentRepo) Link(ctx context.Context, uploaderID, submissionID uint64, ids []uint64) (int64, error) {
	args := m.Called(ctx, uploaderID, submissionID, ids)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock SearchIndex ---

type mockSearchIndex struct {
	mock.Mock
}

func (m *mockSearchIndex) Index(ctx context.Context, s *domain.Submission) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockSearchIndex) Remove(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockSearchIndex) Search(ctx context.Context, q string, page, limit int) ([]uint64, int64, error) {
	args := m.Called(ctx, q, page, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]uint64), args.Get(1).(int64), args.Error(2)
}

// --- Mock cache.Service ---

type mockCache struct {
	mock.Mock
}

var _ cache.Service = (*mockCache)(nil)

func (m *mockCache) Get(ctx context.Context, key string, dest interface{}) error {
	return m.Called(ctx, key, dest).Error(0)
}

func (m *mockCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *mockCache) Delete(ctx context.Context, keys ...string) error {
	return m.Called(ctx, keys).Error(0)
}

func (m *mockCache) GetPublished(ctx context.Context, q cache.PublishedQuery, dest interface{}) error {
	return m.Called(ctx, q, dest).Error(0)
}

func (m *mockCache) SetPublished(ctx context.Context, q cache.PublishedQuery, data interface{}) error {
	return m.Called(ctx, q, data).Error(0)
}

func (m *mockCache) InvalidatePublished(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockCache) GetCategories(ctx context.Context, dest interface{}) error {
	return m.Called(ctx, dest).Error(0)
}

func (m *mockCache) SetCategories(ctx context.Context, data interface{}) error {
	return m.Called(ctx, data).Error(0)
}

func (m *mockCache) InvalidateCategories(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockCache) IsAvailable() bool {
	return m.Called().Bool(0)
}

func (m *mockCache) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// --- Mock storage.Uploader ---

type mockUploader struct {
	mock.Mock
}

var _ storage.Uploader = (*mockUploader)(nil)

func (m *mockUploader) Upload(ctx context.Context, key string, body io.Reader, contentType string, size int64) (*storage.UploadResult, error) {
	args := m.Called(ctx, key, body, contentType, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.UploadResult), args.Error(1)
}

func (m *mockUploader) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}
