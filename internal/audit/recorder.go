// Package audit records who/what/when for every mutating call. Writes are
// best-effort: a failed audit write is logged as a degraded outcome but never
// rolls back a committed business mutation.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mbella-dev/bankcore/internal/domain"
	"github.com/mbella-dev/bankcore/internal/logging"
)

type logStore interface {
	Create(ctx context.Context, a *domain.AuditLog) error
}

type eventPublisher interface {
	Publish(ctx context.Context, e Event) error
}

type Recorder struct {
	store     logStore
	publisher eventPublisher
}

// NewRecorder builds a recorder; publisher may be nil when no broker is
// configured.
func NewRecorder(store logStore, publisher eventPublisher) *Recorder {
	return &Recorder{store: store, publisher: publisher}
}

func (r *Recorder) Record(ctx context.Context, action, subjectTable string, subjectID uuid.UUID, actor, detail string) {
	log := logging.FromContext(ctx)

	entry := &domain.AuditLog{
		ID:           uuid.New(),
		Action:       action,
		SubjectTable: subjectTable,
		SubjectID:    subjectID,
		Actor:        actor,
		Detail:       detail,
		CreatedAt:    time.Now().UTC(),
	}

	if err := r.store.Create(ctx, entry); err != nil {
		log.Error("audit log write failed",
			"action", action,
			"subject_table", subjectTable,
			"subject_id", subjectID,
			"error", err,
		)
	}

	if r.publisher == nil {
		return
	}
	event := Event{
		Action:       action,
		SubjectTable: subjectTable,
		SubjectID:    subjectID.String(),
		Actor:        actor,
		Detail:       detail,
		OccurredAt:   entry.CreatedAt,
	}
	if err := r.publisher.Publish(ctx, event); err != nil {
		log.Error("audit event publish failed", "action", action, "error", err)
	}
}
