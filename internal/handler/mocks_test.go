package handler

import (
	"context"

	"github.com/diwan-maarifa/diwan-backend/internal/common"
	"github.com/diwan-maarifa/diwan-backend/internal/domain"
	"github.com/diwan-maarifa/diwan-backend/internal/service"
	"github.com/stretchr/testify/mock"
)

type mockWorkflowService struct {
	mock.Mock
}

func (m *mockWorkflowService) submission(args mock.Arguments) (*domain.Submission, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}

func (m *mockWorkflowService) Create(ctx context.Context, actor domain.Principal, req *domain.CreateSubmissionRequest) (*domain.Submission, error) {
	return m.submission(m.Called(ctx, actor, req))
}

func (m *mockWorkflowService) Submit(ctx context.Context, actor domain.Principal, id uint64) (*domain.Submission, error) {
	return m.submission(m.Called(ctx, actor, id))
}

func (m *mockWorkflowService) ApplyReview(ctx context.Context, actor domain.Principal, id uint64, decision domain.Decision, comments string) (*domain.Submission, error) {
	return m.submission(m.Called(ctx, actor, id, decision, comments))
}

func (m *mockWorkflowService) Reopen(ctx context.Context, actor domain.Principal, id uint64) (*domain.Submission, error) {
	return m.submission(m.Called(ctx, actor, id))
}

func (m *mockWorkflowService) Edit(ctx context.Context, actor domain.Principal, id uint64, patch *domain.SubmissionPatch) (*domain.Submission, error) {
	return m.submission(m.Called(ctx, actor, id, patch))
}

func (m *mockWorkflowService) Delete(ctx context.Context, actor domain.Principal, id uint64) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *mockWorkflowService) Get(ctx context.Context, actor domain.Principal, id uint64) (*domain.SubmissionDetail, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SubmissionDetail), args.Error(1)
}

func (m *mockWorkflowService) History(ctx context.Context, actor domain.Principal, id uint64) ([]*domain.ReviewRecord, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ReviewRecord), args.Error(1)
}

func (m *mockWorkflowService) ListMine(ctx context.Context, actor domain.Principal, status domain.SubmissionStatus, page, limit int) ([]*domain.SubmissionResponse, *common.Meta, error) {
	args := m.Called(ctx, actor, status, page, limit)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]*domain.SubmissionResponse), args.Get(1).(*common.Meta), args.Error(2)
}

func (m *mockWorkflowService) ListPending(ctx context.Context, actor domain.Principal, page, limit int) ([]*domain.SubmissionResponse, *common.Meta, error) {
	args := m.Called(ctx, actor, page, limit)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]*domain.SubmissionResponse), args.Get(1).(*common.Meta), args.Error(2)
}

type mockPublicationService struct {
	mock.Mock
}

func (m *mockPublicationService) submission(args mock.Arguments) (*domain.Submission, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}

func (m *mockPublicationService) Publish(ctx context.Context, actor domain.Principal, id uint64) (*domain.Submission, error) {
	return m.submission(m.Called(ctx, actor, id))
}

func (m *mockPublicationService) Unpublish(ctx context.Context, actor domain.Principal, id uint64) (*domain.Submission, error) {
	return m.submission(m.Called(ctx, actor, id))
}

func (m *mockPublicationService) UpdatePublished(ctx context.Context, actor domain.Principal, id uint64, patch *domain.SubmissionPatch) (*domain.Submission, error) {
	return m.submission(m.Called(ctx, actor, id, patch))
}

func (m *mockPublicationService) ListPublished(ctx context.Context, req domain.PublishedListRequest) (*service.PublishedPage, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PublishedPage), args.Error(1)
}

func (m *mockPublicationService) GetPublishedBySlug(ctx context.Context, slug string) (*domain.Submission, error) {
	return m.submission(m.Called(ctx, slug))
}

type mockSearchService struct {
	mock.Mock
}

func (m *mockSearchService) Search(ctx context.Context, q string, page, limit int) (*service.SearchResult, error) {
	args := m.Called(ctx, q, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SearchResult), args.Error(1)
}

type mockCategoryService struct {
	mock.Mock
}

func (m *mockCategoryService) List(ctx context.Context) ([]*domain.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Category), args.Error(1)
}

func (m *mockCategoryService) GetBySlug(ctx context.Context, slug string, page, limit int) (*service.CategoryContent, error) {
	args := m.Called(ctx, slug, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CategoryContent), args.Error(1)
}

type mockAttachmentService struct {
	mock.Mock
}

func (m *mockAttachmentService) Upload(ctx context.Context, actor domain.Principal, in service.UploadInput) (*domain.Attachment, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Attachment), args.Error(1)
}

func (m *mockAttachmentService) Link(ctx context.Context, actor domain.Principal, req *domain.LinkAttachmentsRequest) ([]*domain.Attachment, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Attachment), args.Error(1)
}
