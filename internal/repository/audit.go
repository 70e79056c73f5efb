package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mbella-dev/bankcore/internal/domain"
)

type AuditLogRepository struct {
	db *sql.DB
}

func NewAuditLogRepository(db *sql.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

// Create runs outside any unit of work: the audit trail is best-effort
// observability, not part of the atomicity boundary.
func (r *AuditLogRepository) Create(ctx context.Context, a *domain.AuditLog) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_logs (id, action, subject_table, subject_id, actor, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.Action, a.SubjectTable, a.SubjectID, a.Actor, a.Detail, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}
