// Package workflow is the submission state machine. It is pure: persistence
// lives in the service and repository layers.
package workflow

import (
	"fmt"

	"github.com/diwan-maarifa/diwan-backend/internal/common"
	"github.com/diwan-maarifa/diwan-backend/internal/domain"
	"github.com/diwan-maarifa/diwan-backend/internal/policy"
)

// InitialStatus is the status every submission starts in
const InitialStatus = domain.StatusDraft

// Engine applies the stage table to status changes
type Engine struct{}

// New creates an Engine
func New() *Engine {
	return &Engine{}
}

// Next returns the status reached when role applies action at from
func (e *Engine) Next(role domain.Role, from domain.SubmissionStatus, action domain.Action) (domain.SubmissionStatus, error) {
	to, ok := policy.Target(role, from, action)
	if !ok {
		return "", fmt.Errorf("%w: %s cannot %s a %s submission", common.ErrInvalidTransition, role, action, from)
	}
	return to, nil
}

// Record builds the ledger entry for a transition. It does not validate.
func (e *Engine) Record(submissionID uint64, actor domain.Principal, from, to domain.SubmissionStatus, action domain.Action, comments string) *domain.ReviewRecord {
	return &domain.ReviewRecord{
		SubmissionID: submissionID,
		ReviewerID:   actor.ID,
		ReviewerRole: actor.Role,
		FromStatus:   from,
		ToStatus:     to,
		Decision:     action,
		Comments:     comments,
	}
}

// ReplayError reports the first ledger entry that does not follow from the previous one
type ReplayError struct {
	Index  int
	Record *domain.ReviewRecord
	Reason string
}

func (e *ReplayError) Error() string {
	return fmt.Sprintf("ledger entry %d (id=%d): %s", e.Index, e.Record.ID, e.Reason)
}

// Replay reconstructs a submission's status from its chronological ledger,
// starting at draft
func (e *Engine) Replay(records []*domain.ReviewRecord) (domain.SubmissionStatus, error) {
	status := InitialStatus
	for i, rec := range records {
		if rec.FromStatus != status {
			return status, &ReplayError{Index: i, Record: rec,
				Reason: fmt.Sprintf("from_status %s, expected %s", rec.FromStatus, status)}
		}
		to, ok := policy.Target(rec.ReviewerRole, rec.FromStatus, rec.Decision)
		if !ok {
			return status, &ReplayError{Index: i, Record: rec,
				Reason: fmt.Sprintf("%s may not %s at %s", rec.ReviewerRole, rec.Decision, rec.FromStatus)}
		}
		if to != rec.ToStatus {
			return status, &ReplayError{Index: i, Record: rec,
				Reason: fmt.Sprintf("to_status %s, expected %s", rec.ToStatus, to)}
		}
		status = to
	}
	return status, nil
}
