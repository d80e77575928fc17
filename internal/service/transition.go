package service

import (
	"context"
	"time"

	"github.com/diwan-maarifa/diwan-backend/internal/domain"
	"github.com/diwan-maarifa/diwan-backend/internal/repository"
	"github.com/diwan-maarifa/diwan-backend/internal/workflow"
	pkglogger "github.com/diwan-maarifa/diwan-backend/pkg/logger"
)

// transitioner applies one stage-table edge to a loaded submission and
// persists it with its ledger entry
type transitioner struct {
	repo   repository.SubmissionRepository
	engine *workflow.Engine
	now    func() time.Time
}

func newTransitioner(repo repository.SubmissionRepository) *transitioner {
	return &transitioner{repo: repo, engine: workflow.New(), now: time.Now}
}

func (t *transitioner) apply(ctx context.Context, actor domain.Principal, sub *domain.Submission, action domain.Action, comments string) error {
	from := sub.Status
	to, err := t.engine.Next(actor.Role, from, action)
	if err != nil {
		return err
	}

	now := t.now()
	change := repository.PublishedAtKeep
	switch action {
	case domain.ActionPublish:
		change = repository.PublishedAtSet
	case domain.ActionUnpublish:
		change = repository.PublishedAtClear
	}

	record := t.engine.Record(sub.ID, actor, from, to, action, comments)
	if err := t.repo.TransitionStatus(ctx, repository.Transition{
		SubmissionID: sub.ID,
		From:         from,
		To:           to,
		Record:       record,
		PublishedAt:  change,
		Now:          now,
	}); err != nil {
		return err
	}

	workflow.ObserveTransition(record)
	pkglogger.GetLogger().Info().
		Uint64("submission_id", sub.ID).
		Uint64("actor_id", actor.ID).
		Str("role", string(actor.Role)).
		Str("from", string(from)).
		Str("to", string(to)).
		Str("action", string(action)).
		Msg("submission status changed")

	sub.Status = to
	sub.UpdatedAt = now
	switch change {
	case repository.PublishedAtSet:
		sub.PublishedAt = &now
	case repository.PublishedAtClear:
		sub.PublishedAt = nil
	}
	return nil
}
