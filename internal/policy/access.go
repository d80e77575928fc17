// Package policy holds the two authorization models of the workflow: the
// stage table that gates status transitions and the role rank used for
// coarse feature gating. They are deliberately independent.
package policy

import "github.com/diwan-maarifa/diwan-backend/internal/domain"

type edge struct {
	role   domain.Role
	from   domain.SubmissionStatus
	action domain.Action
}

// stageTable maps (role, from, action) to the target status.
// Authorship for submit/reopen is checked by the caller.
var stageTable = map[edge]domain.SubmissionStatus{}

func allow(role domain.Role, from domain.SubmissionStatus, action domain.Action, to domain.SubmissionStatus) {
	stageTable[edge{role, from, action}] = to
}

func init() {
	authors := []domain.Role{
		domain.RoleContributor,
		domain.RoleContentAuditor,
		domain.RoleTechnicalAuditor,
		domain.RoleAdmin,
	}
	for _, r := range authors {
		allow(r, domain.StatusDraft, domain.ActionSubmit, domain.StatusPendingContentReview)
		allow(r, domain.StatusNeedsRevision, domain.ActionReopen, domain.StatusDraft)
	}

	for _, r := range []domain.Role{domain.RoleContentAuditor, domain.RoleAdmin} {
		allow(r, domain.StatusPendingContentReview, domain.ActionApprove, domain.StatusPendingTechnicalReview)
		allow(r, domain.StatusPendingContentReview, domain.ActionReject, domain.StatusRejected)
		allow(r, domain.StatusPendingContentReview, domain.ActionNeedsRevision, domain.StatusNeedsRevision)
	}

	for _, r := range []domain.Role{domain.RoleTechnicalAuditor, domain.RoleAdmin} {
		allow(r, domain.StatusPendingTechnicalReview, domain.ActionApprove, domain.StatusApproved)
		allow(r, domain.StatusPendingTechnicalReview, domain.ActionReject, domain.StatusRejected)
		allow(r, domain.StatusPendingTechnicalReview, domain.ActionNeedsRevision, domain.StatusNeedsRevision)
	}

	allow(domain.RoleAdmin, domain.StatusApproved, domain.ActionPublish, domain.StatusPublished)
	allow(domain.RoleAdmin, domain.StatusPublished, domain.ActionUnpublish, domain.StatusDraft)
}

// CanTransition reports whether role may apply action to a submission in status from
func CanTransition(role domain.Role, from domain.SubmissionStatus, action domain.Action) bool {
	_, ok := stageTable[edge{role, from, action}]
	return ok
}

// Target returns the status reached when role applies action at from
func Target(role domain.Role, from domain.SubmissionStatus, action domain.Action) (domain.SubmissionStatus, bool) {
	to, ok := stageTable[edge{role, from, action}]
	return to, ok
}

// ReviewStatuses returns the pending statuses shown in a role's review queue
func ReviewStatuses(role domain.Role) []domain.SubmissionStatus {
	switch role {
	case domain.RoleContentAuditor:
		return []domain.SubmissionStatus{domain.StatusPendingContentReview}
	case domain.RoleTechnicalAuditor:
		return []domain.SubmissionStatus{domain.StatusPendingTechnicalReview}
	case domain.RoleAdmin:
		return []domain.SubmissionStatus{domain.StatusPendingContentReview, domain.StatusPendingTechnicalReview}
	}
	return nil
}

// CanReviewAny reports whether role reviews at least one stage
func CanReviewAny(role domain.Role) bool {
	return len(ReviewStatuses(role)) > 0
}
