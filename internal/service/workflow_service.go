package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/diwan-maarifa/diwan-backend/internal/common"
	"github.com/diwan-maarifa/diwan-backend/internal/domain"
	"github.com/diwan-maarifa/diwan-backend/internal/policy"
	"github.com/diwan-maarifa/diwan-backend/internal/repository"
	"github.com/diwan-maarifa/diwan-backend/pkg/slug"
)

// slugAttempts bounds slug regeneration on collision
const slugAttempts = 3

// WorkflowService drives submissions through review
type WorkflowService interface {
	Create(ctx context.Context, actor domain.Principal, req *domain.CreateSubmissionRequest) (*domain.Submission, error)
	Submit(ctx context.Context, actor domain.Principal, id uint64) (*domain.Submission, error)
	ApplyReview(ctx context.Context, actor domain.Principal, id uint64, decision domain.Decision, comments string) (*domain.Submission, error)
	Reopen(ctx context.Context, actor domain.Principal, id uint64) (*domain.Submission, error)
	Edit(ctx context.Context, actor domain.Principal, id uint64, patch *domain.SubmissionPatch) (*domain.Submission, error)
	Delete(ctx context.Context, actor domain.Principal, id uint64) error
	Get(ctx context.Context, actor domain.Principal, id uint64) (*domain.SubmissionDetail, error)
	History(ctx context.Context, actor domain.Principal, id uint64) ([]*domain.ReviewRecord, error)
	ListMine(ctx context.Context, actor domain.Principal, status domain.SubmissionStatus, page, limit int) ([]*domain.SubmissionResponse, *common.Meta, error)
	ListPending(ctx context.Context, actor domain.Principal, page, limit int) ([]*domain.SubmissionResponse, *common.Meta, error)
}

type workflowService struct {
	repo       repository.SubmissionRepository
	ledger     repository.ReviewRepository
	categories repository.CategoryRepository
	tr         *transitioner
}

// NewWorkflowService creates a new WorkflowService
func NewWorkflowService(
	repo repository.SubmissionRepository,
	ledger repository.ReviewRepository,
	categories repository.CategoryRepository,
) WorkflowService {
	return &workflowService{
		repo:       repo,
		ledger:     ledger,
		categories: categories,
		tr:         newTransitioner(repo),
	}
}

func (s *workflowService) Create(ctx context.Context, actor domain.Principal, req *domain.CreateSubmissionRequest) (*domain.Submission, error) {
	if !policy.HasRole(actor.Role, domain.RoleContributor) {
		return nil, common.ErrForbidden
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, common.NewValidationError("title", "title is required")
	}
	content := sanitizeContent(req.Content)
	if strings.TrimSpace(content) == "" {
		return nil, common.NewValidationError("content", "content is required")
	}
	if !req.ContentType.IsValid() {
		return nil, common.NewValidationError("content_type", "must be term or article")
	}
	if err := s.checkCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	sub := &domain.Submission{
		Title:       title,
		Content:     content,
		CategoryID:  req.CategoryID,
		Tags:        tags,
		ContentType: req.ContentType,
		AuthorID:    actor.ID,
		Status:      domain.StatusDraft,
	}

	for attempt := 0; attempt < slugAttempts; attempt++ {
		candidate, err := s.freeSlug(ctx, title)
		if err != nil {
			return nil, err
		}
		sub.Slug = candidate

		err = s.repo.Create(ctx, sub)
		if err == nil {
			return sub, nil
		}
		// a concurrent insert may have taken the slug between check and create
		if taken, checkErr := s.repo.SlugExists(ctx, candidate); checkErr != nil || !taken {
			return nil, fmt.Errorf("create submission: %w", err)
		}
		sub.ID = 0
	}
	return nil, fmt.Errorf("create submission: no unique slug after %d attempts", slugAttempts)
}

// freeSlug generates a slug not yet present in the store
func (s *workflowService) freeSlug(ctx context.Context, title string) (string, error) {
	for attempt := 0; attempt < slugAttempts; attempt++ {
		candidate := slug.Generate(title, slug.NewDisambiguator())
		taken, err := s.repo.SlugExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check slug: %w", err)
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no unique slug after %d attempts", slugAttempts)
}

func (s *workflowService) checkCategory(ctx context.Context, id *uint64) error {
	if id == nil {
		return nil
	}
	ok, err := s.categories.Exists(ctx, *id)
	if err != nil {
		return fmt.Errorf("check category: %w", err)
	}
	if !ok {
		return common.NewValidationError("category_id", "unknown category")
	}
	return nil
}

func (s *workflowService) Submit(ctx context.Context, actor domain.Principal, id uint64) (*domain.Submission, error) {
	return s.authorTransition(ctx, actor, id, domain.ActionSubmit)
}

func (s *workflowService) Reopen(ctx context.Context, actor domain.Principal, id uint64) (*domain.Submission, error) {
	return s.authorTransition(ctx, actor, id, domain.ActionReopen)
}

func (s *workflowService) authorTransition(ctx context.Context, actor domain.Principal, id uint64, action domain.Action) (*domain.Submission, error) {
	sub, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sub.IsOwnedBy(actor.ID) {
		return nil, common.ErrForbidden
	}
	if err := s.tr.apply(ctx, actor, sub, action, ""); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *workflowService) ApplyReview(ctx context.Context, actor domain.Principal, id uint64, decision domain.Decision, comments string) (*domain.Submission, error) {
	if !decision.IsValid() {
		return nil, common.NewValidationError("decision", "must be approved, rejected or needs_revision")
	}

	sub, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.tr.apply(ctx, actor, sub, decision.AsAction(), strings.TrimSpace(comments)); err != nil {
		return nil, err
	}
	return sub, nil
}

// draftOwnedBy loads a submission the actor may still change
func (s *workflowService) draftOwnedBy(ctx context.Context, actor domain.Principal, id uint64) (*domain.Submission, error) {
	sub, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sub.IsOwnedBy(actor.ID) {
		return nil, fmt.Errorf("%w: not the author", common.ErrForbidden)
	}
	if sub.Status != domain.StatusDraft {
		return nil, fmt.Errorf("%w: only drafts can be changed", common.ErrForbidden)
	}
	return sub, nil
}

func (s *workflowService) Edit(ctx context.Context, actor domain.Principal, id uint64, patch *domain.SubmissionPatch) (*domain.Submission, error) {
	sub, err := s.draftOwnedBy(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return nil, common.NewValidationError("", "no fields to update")
	}
	sanitizePatch(patch)
	if err := validatePatch(patch); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, patch.CategoryID); err != nil {
		return nil, err
	}

	var newSlug string
	if patch.Title != nil {
		trimmed := strings.TrimSpace(*patch.Title)
		patch.Title = &trimmed
		if trimmed != sub.Title {
			if newSlug, err = s.freeSlug(ctx, trimmed); err != nil {
				return nil, err
			}
		}
	}

	if err := s.repo.ApplyPatch(ctx, id, patch, newSlug, domain.StatusDraft); err != nil {
		if errors.Is(err, common.ErrStaleStatus) {
			return nil, fmt.Errorf("%w: only drafts can be changed", common.ErrForbidden)
		}
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func validatePatch(patch *domain.SubmissionPatch) error {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return common.NewValidationError("title", "title cannot be empty")
	}
	if patch.Content != nil && strings.TrimSpace(*patch.Content) == "" {
		return common.NewValidationError("content", "content cannot be empty")
	}
	if patch.ContentType != nil && !patch.ContentType.IsValid() {
		return common.NewValidationError("content_type", "must be term or article")
	}
	return nil
}

func (s *workflowService) Delete(ctx context.Context, actor domain.Principal, id uint64) error {
	if _, err := s.draftOwnedBy(ctx, actor, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id, domain.StatusDraft); err != nil {
		if errors.Is(err, common.ErrStaleStatus) {
			return fmt.Errorf("%w: only drafts can be deleted", common.ErrForbidden)
		}
		return err
	}
	return nil
}

// visible loads a submission the actor may read. Contributors and readers
// only see their own; others are reported as missing.
func (s *workflowService) visible(ctx context.Context, actor domain.Principal, id uint64) (*domain.Submission, error) {
	sub, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanReviewAny(actor.Role) && !sub.IsOwnedBy(actor.ID) {
		return nil, common.ErrNotFound
	}
	return sub, nil
}

func (s *workflowService) Get(ctx context.Context, actor domain.Principal, id uint64) (*domain.SubmissionDetail, error) {
	sub, err := s.visible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	history, err := s.ledger.History(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return &domain.SubmissionDetail{SubmissionResponse: sub.ToResponse(), History: history}, nil
}

func (s *workflowService) History(ctx context.Context, actor domain.Principal, id uint64) ([]*domain.ReviewRecord, error) {
	if _, err := s.visible(ctx, actor, id); err != nil {
		return nil, err
	}
	return s.ledger.History(ctx, id)
}

func (s *workflowService) ListMine(ctx context.Context, actor domain.Principal, status domain.SubmissionStatus, page, limit int) ([]*domain.SubmissionResponse, *common.Meta, error) {
	if status != "" && !status.IsValid() {
		return nil, nil, common.NewValidationError("status", "unknown status")
	}
	page, limit = domain.NormalizePage(page, limit)

	rows, total, err := s.repo.ListByAuthor(ctx, actor.ID, status, page, limit)
	if err != nil {
		return nil, nil, err
	}
	return toResponses(rows), common.NewMeta(page, limit, total), nil
}

func (s *workflowService) ListPending(ctx context.Context, actor domain.Principal, page, limit int) ([]*domain.SubmissionResponse, *common.Meta, error) {
	statuses := policy.ReviewStatuses(actor.Role)
	if len(statuses) == 0 {
		return nil, nil, common.ErrForbidden
	}
	page, limit = domain.NormalizePage(page, limit)

	rows, total, err := s.repo.ListByStatuses(ctx, statuses, page, limit)
	if err != nil {
		return nil, nil, err
	}
	return toResponses(rows), common.NewMeta(page, limit, total), nil
}
