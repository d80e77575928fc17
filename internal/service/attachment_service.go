package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/diwan-maarifa/diwan-backend/internal/common"
	"github.com/diwan-maarifa/diwan-backend/internal/domain"
	"github.com/diwan-maarifa/diwan-backend/internal/policy"
	"github.com/diwan-maarifa/diwan-backend/internal/repository"
	"github.com/diwan-maarifa/diwan-backend/pkg/storage"
)

// AttachmentKeyPrefix is the storage prefix of uploaded attachments
const AttachmentKeyPrefix = "attachments"

// UploadInput describes a file to store
type UploadInput struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// AttachmentService stores files and links them to drafts
type AttachmentService interface {
	Upload(ctx context.Context, actor domain.Principal, in UploadInput) (*domain.Attachment, error)
	Link(ctx context.Context, actor domain.Principal, req *domain.LinkAttachmentsRequest) ([]*domain.Attachment, error)
}

type attachmentService struct {
	repo        repository.AttachmentRepository
	submissions repository.SubmissionRepository
	uploader    storage.Uploader
	maxBytes    int64
}

// NewAttachmentService creates a new AttachmentService. uploader may be nil
// when storage is not configured; uploads then fail with ErrUnavailable.
func NewAttachmentService(
	repo repository.AttachmentRepository,
	submissions repository.SubmissionRepository,
	uploader storage.Uploader,
	maxBytes int64,
) AttachmentService {
	return &attachmentService{repo: repo, submissions: submissions, uploader: uploader, maxBytes: maxBytes}
}

func (s *attachmentService) Upload(ctx context.Context, actor domain.Principal, in UploadInput) (*domain.Attachment, error) {
	if !policy.HasRole(actor.Role, domain.RoleContributor) {
		return nil, common.ErrForbidden
	}
	if s.uploader == nil {
		return nil, fmt.Errorf("%w: file storage is not configured", common.ErrUnavailable)
	}
	if in.Size <= 0 {
		return nil, common.NewValidationError("file", "file is empty")
	}
	if s.maxBytes > 0 && in.Size > s.maxBytes {
		return nil, common.NewValidationError("file", fmt.Sprintf("file exceeds %d bytes", s.maxBytes))
	}

	key := storage.GenerateKey(AttachmentKeyPrefix, in.FileName, time.Now())
	result, err := s.uploader.Upload(ctx, key, in.Body, in.ContentType, in.Size)
	if err != nil {
		return nil, err
	}

	a := &domain.Attachment{
		UploaderID:  actor.ID,
		StorageKey:  result.Key,
		URL:         result.URL,
		FileName:    in.FileName,
		ContentType: in.ContentType,
		Size:        in.Size,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		if delErr := s.uploader.Delete(ctx, result.Key); delErr != nil {
			err = fmt.Errorf("%w (orphaned object %s: %v)", err, result.Key, delErr)
		}
		return nil, fmt.Errorf("record attachment: %w", err)
	}
	return a, nil
}

func (s *attachmentService) Link(ctx context.Context, actor domain.Principal, req *domain.LinkAttachmentsRequest) ([]*domain.Attachment, error) {
	if len(req.AttachmentIDs) == 0 {
		return nil, common.NewValidationError("attachment_ids", "at least one attachment is required")
	}

	sub, err := s.submissions.FindByID(ctx, req.SubmissionID)
	if err != nil {
		return nil, err
	}
	if !sub.IsOwnedBy(actor.ID) {
		return nil, fmt.Errorf("%w: not the author", common.ErrForbidden)
	}
	if sub.Status != domain.StatusDraft {
		return nil, fmt.Errorf("%w: attachments can only be linked to drafts", common.ErrForbidden)
	}

	if _, err := s.repo.Link(ctx, actor.ID, sub.ID, req.AttachmentIDs); err != nil {
		return nil, err
	}
	return s.repo.ListBySubmission(ctx, sub.ID)
}
