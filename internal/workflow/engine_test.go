package workflow

import (
	"errors"
	"testing"

	"github.com/diwan-maarifa/diwan-backend/internal/common"
	"github.com/diwan-maarifa/diwan-backend/internal/domain"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	author    = domain.Principal{ID: 10, Role: domain.RoleContributor}
	content   = domain.Principal{ID: 20, Role: domain.RoleContentAuditor}
	technical = domain.Principal{ID: 30, Role: domain.RoleTechnicalAuditor}
	admin     = domain.Principal{ID: 1, Role: domain.RoleAdmin}
)

func TestNext_InvalidTransition(t *testing.T) {
	e := New()

	_, err := e.Next(domain.RoleContentAuditor, domain.StatusPendingTechnicalReview, domain.ActionApprove)

	assert.True(t, errors.Is(err, common.ErrInvalidTransition))
}

func TestReplay_FullLifecycle(t *testing.T) {
	e := New()
	steps := []struct {
		actor  domain.Principal
		action domain.Action
	}{
		{author, domain.ActionSubmit},
		{content, domain.ActionNeedsRevision},
		{author, domain.ActionReopen},
		{author, domain.ActionSubmit},
		{content, domain.ActionApprove},
		{technical, domain.ActionApprove},
		{admin, domain.ActionPublish},
		{admin, domain.ActionUnpublish},
		{author, domain.ActionSubmit},
		{admin, domain.ActionApprove},
		{admin, domain.ActionApprove},
		{admin, domain.ActionPublish},
	}

	status := InitialStatus
	var ledger []*domain.ReviewRecord
	for _, s := range steps {
		to, err := e.Next(s.actor.Role, status, s.action)
		require.NoError(t, err, "%s %s at %s", s.actor.Role, s.action, status)
		ledger = append(ledger, e.Record(7, s.actor, status, to, s.action, ""))
		status = to
	}

	got, err := e.Replay(ledger)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPublished, got)
	assert.Equal(t, status, got)
}

func TestReplay_EmptyLedgerIsDraft(t *testing.T) {
	got, err := New().Replay(nil)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, got)
}

func TestReplay_DetectsGap(t *testing.T) {
	e := New()
	ledger := []*domain.ReviewRecord{
		e.Record(1, author, domain.StatusDraft, domain.StatusPendingContentReview, domain.ActionSubmit, ""),
		e.Record(1, technical, domain.StatusPendingTechnicalReview, domain.StatusApproved, domain.ActionApprove, ""),
	}

	_, err := e.Replay(ledger)

	var re *ReplayError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, 1, re.Index)
}

func TestReplay_DetectsUnauthorizedEntry(t *testing.T) {
	e := New()
	ledger := []*domain.ReviewRecord{
		e.Record(1, author, domain.StatusDraft, domain.StatusPendingContentReview, domain.ActionSubmit, ""),
		e.Record(1, technical, domain.StatusPendingContentReview, domain.StatusPendingTechnicalReview, domain.ActionApprove, ""),
	}

	_, err := e.Replay(ledger)

	var re *ReplayError
	require.ErrorAs(t, err, &re)
	assert.Contains(t, re.Error(), "technical_auditor")
}

func TestReplay_DetectsWrongTarget(t *testing.T) {
	e := New()
	ledger := []*domain.ReviewRecord{
		e.Record(1, author, domain.StatusDraft, domain.StatusPendingContentReview, domain.ActionSubmit, ""),
		e.Record(1, content, domain.StatusPendingContentReview, domain.StatusApproved, domain.ActionApprove, ""),
	}

	_, err := e.Replay(ledger)
	assert.Error(t, err)
}

func TestObserveTransition(t *testing.T) {
	rec := &domain.ReviewRecord{FromStatus: domain.StatusApproved, ToStatus: domain.StatusPublished, Decision: domain.ActionPublish}
	c := transitionsTotal.WithLabelValues("approved", "published", "published")
	before := testutil.ToFloat64(c)

	ObserveTransition(rec)

	assert.Equal(t, before+1, testutil.ToFloat64(c))
}
