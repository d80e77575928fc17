package domain

import "time"

// SubmissionStatus is the workflow state of a submission
type SubmissionStatus string

// Submission statuses
const (
	StatusDraft                  SubmissionStatus = "draft"
	StatusPendingContentReview   SubmissionStatus = "pending_content_review"
	StatusPendingTechnicalReview SubmissionStatus = "pending_technical_review"
	StatusApproved               SubmissionStatus = "approved"
	StatusRejected               SubmissionStatus = "rejected"
	StatusNeedsRevision          SubmissionStatus = "needs_revision"
	StatusPublished              SubmissionStatus = "published"
)

// IsValid reports whether s is a known status
func (s SubmissionStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusPendingContentReview, StatusPendingTechnicalReview,
		StatusApproved, StatusRejected, StatusNeedsRevision, StatusPublished:
		return true
	}
	return false
}

// ContentType distinguishes glossary terms from articles
type ContentType string

// Content types
const (
	ContentTypeTerm    ContentType = "term"
	ContentTypeArticle ContentType = "article"
)

// IsValid reports whether t is a known content type
func (t ContentType) IsValid() bool {
	return t == ContentTypeTerm || t == ContentTypeArticle
}

// Submission is a piece of content moving through the review workflow
type Submission struct {
	ID          uint64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title       string           `gorm:"column:title;size:255;not null" json:"title"`
	Slug        string           `gorm:"column:slug;size:255;uniqueIndex;not null" json:"slug"`
	Content     string           `gorm:"column:content;type:text;not null" json:"content"`
	CategoryID  *uint64          `gorm:"column:category_id;index" json:"category_id,omitempty"`
	Tags        []string         `gorm:"column:tags;type:text;serializer:json" json:"tags"`
	ContentType ContentType      `gorm:"column:content_type;size:20;not null" json:"content_type"`
	AuthorID    uint64           `gorm:"column:author_id;index;not null" json:"author_id"`
	Status      SubmissionStatus `gorm:"column:status;size:40;index;not null" json:"status"`
	CreatedAt   time.Time        `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time        `gorm:"column:updated_at" json:"updated_at"`
	PublishedAt *time.Time       `gorm:"column:published_at;index" json:"published_at,omitempty"`
	ViewCount   int64            `gorm:"column:view_count;default:0" json:"view_count"`
}

// TableName returns the table name
func (Submission) TableName() string {
	return "content_submissions"
}

// IsOwnedBy reports whether userID authored the submission
func (s *Submission) IsOwnedBy(userID uint64) bool {
	return s.AuthorID == userID
}

// CreateSubmissionRequest is the body of a new draft
type CreateSubmissionRequest struct {
	Title       string      `json:"title" validate:"required,max=255"`
	Content     string      `json:"content" validate:"required"`
	CategoryID  *uint64     `json:"category_id"`
	Tags        []string    `json:"tags" validate:"max=20,dive,max=50"`
	ContentType ContentType `json:"content_type" validate:"required,oneof=term article"`
}

// SubmissionPatch is an explicit partial update; nil fields are left unchanged
type SubmissionPatch struct {
	Title       *string      `json:"title" validate:"omitempty,min=1,max=255"`
	Content     *string      `json:"content" validate:"omitempty,min=1"`
	CategoryID  *uint64      `json:"category_id"`
	Tags        *[]string    `json:"tags" validate:"omitempty,max=20,dive,max=50"`
	ContentType *ContentType `json:"content_type" validate:"omitempty,oneof=term article"`
}

// IsEmpty reports whether the patch changes nothing
func (p *SubmissionPatch) IsEmpty() bool {
	return p == nil || (p.Title == nil && p.Content == nil && p.CategoryID == nil &&
		p.Tags == nil && p.ContentType == nil)
}

// SubmissionResponse is the API view of a submission
type SubmissionResponse struct {
	ID          uint64           `json:"id"`
	Title       string           `json:"title"`
	Slug        string           `json:"slug"`
	Content     string           `json:"content"`
	CategoryID  *uint64          `json:"category_id,omitempty"`
	Tags        []string         `json:"tags"`
	ContentType ContentType      `json:"content_type"`
	AuthorID    uint64           `json:"author_id"`
	Status      SubmissionStatus `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	PublishedAt *time.Time       `json:"published_at,omitempty"`
	ViewCount   int64            `json:"view_count"`
}

// ToResponse converts the model to its API view
func (s *Submission) ToResponse() *SubmissionResponse {
	tags := s.Tags
	if tags == nil {
		tags = []string{}
	}
	return &SubmissionResponse{
		ID:          s.ID,
		Title:       s.Title,
		Slug:        s.Slug,
		Content:     s.Content,
		CategoryID:  s.CategoryID,
		Tags:        tags,
		ContentType: s.ContentType,
		AuthorID:    s.AuthorID,
		Status:      s.Status,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
		PublishedAt: s.PublishedAt,
		ViewCount:   s.ViewCount,
	}
}

// SubmissionDetail is a submission together with its ledger, most recent first
type SubmissionDetail struct {
	*SubmissionResponse
	History []*ReviewRecord `json:"workflow_history"`
}

// PublishedFilter narrows the public listing
type PublishedFilter struct {
	CategoryID  uint64      `form:"category"`
	ContentType ContentType `form:"content_type"`
	Search      string      `form:"search"`
}

// PublishedListRequest is a page of the public listing
type PublishedListRequest struct {
	PublishedFilter
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// Normalize clamps paging values
func (r *PublishedListRequest) Normalize() {
	r.Page, r.Limit = NormalizePage(r.Page, r.Limit)
}

// NormalizePage applies default paging (page 1, 20 per page, at most 100)
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
