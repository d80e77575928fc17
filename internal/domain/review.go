package domain

import "time"

// Decision is a reviewer's verdict
type Decision string

// Decisions
const (
	DecisionApproved      Decision = "approved"
	DecisionRejected      Decision = "rejected"
	DecisionNeedsRevision Decision = "needs_revision"
)

// IsValid reports whether d is a known decision
func (d Decision) IsValid() bool {
	switch d {
	case DecisionApproved, DecisionRejected, DecisionNeedsRevision:
		return true
	}
	return false
}

// Action is the verb recorded for a status change
type Action string

// Actions. Review decisions share their values with Decision.
const (
	ActionApprove       Action = Action(DecisionApproved)
	ActionReject        Action = Action(DecisionRejected)
	ActionNeedsRevision Action = Action(DecisionNeedsRevision)
	ActionSubmit        Action = "submitted"
	ActionPublish       Action = "published"
	ActionUnpublish     Action = "unpublished"
	ActionReopen        Action = "reopened"
)

// AsAction converts a decision to the action it records
func (d Decision) AsAction() Action {
	return Action(d)
}

// ReviewRecord is one immutable ledger entry of a status change
type ReviewRecord struct {
	ID           uint64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	SubmissionID uint64           `gorm:"column:submission_id;index;not null" json:"submission_id"`
	ReviewerID   uint64           `gorm:"column:reviewer_id;not null" json:"reviewer_id"`
	ReviewerRole Role             `gorm:"column:reviewer_role;size:30;not null" json:"reviewer_role"`
	FromStatus   SubmissionStatus `gorm:"column:from_status;size:40;not null" json:"from_status"`
	ToStatus     SubmissionStatus `gorm:"column:to_status;size:40;not null" json:"to_status"`
	Decision     Action           `gorm:"column:decision;size:30;not null" json:"decision"`
	Comments     string           `gorm:"column:comments;type:text" json:"comments,omitempty"`
	CreatedAt    time.Time        `gorm:"column:created_at" json:"created_at"`
}

// TableName returns the table name
func (ReviewRecord) TableName() string {
	return "workflow_history"
}

// ReviewRequest is the body of a review
type ReviewRequest struct {
	Decision Decision `json:"decision" validate:"required"`
	Comments string   `json:"comments" validate:"max=5000"`
}

// CommentRequest is the optional body of approve/reject shortcuts
type CommentRequest struct {
	Comments string `json:"comments" validate:"max=5000"`
}
