package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/telvana/fleet-console/internal/core/domain"
	"github.com/telvana/fleet-console/internal/core/port"
)

type pgExecutor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var auditColumns = []string{
	"id",
	"actor_id",
	"action",
	"entity_id",
	"subject_id",
	"phone_id",
	"sim_card_id",
	"outcome",
	"request_id",
	"detail",
	"created_at",
}

// AuditRepository implements port.AuditRepository backed by PostgreSQL.
type AuditRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewAuditRepository constructs a repository backed by any executor that satisfies pgExecutor.
func NewAuditRepository(exec pgExecutor) *AuditRepository {
	return &AuditRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Append inserts an audit entry. The trail is append-only; there is no update
// or delete path.
func (r *AuditRepository) Append(ctx context.Context, entry domain.AuditEntry) error {
	sql, args, err := r.builder.Insert("fleet.audit_log").
		Columns(auditColumns...).
		Values(
			entry.ID,
			entry.ActorID,
			entry.Action,
			entry.EntityID,
			entry.SubjectID,
			entry.PhoneID,
			entry.SimCardID,
			entry.Outcome,
			entry.RequestID,
			entry.Detail,
			entry.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert audit entry sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}

	return nil
}

// List returns audit entries matching the filter, newest first.
func (r *AuditRepository) List(ctx context.Context, filter port.AuditFilter) ([]domain.AuditEntry, error) {
	query := r.builder.
		Select(auditColumns...).
		From("fleet.audit_log").
		OrderBy("created_at DESC")

	query = applyAuditFilter(query, filter)
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list audit entries sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.AuditEntry
	for rows.Next() {
		var entry domain.AuditEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.ActorID,
			&entry.Action,
			&entry.EntityID,
			&entry.SubjectID,
			&entry.PhoneID,
			&entry.SimCardID,
			&entry.Outcome,
			&entry.RequestID,
			&entry.Detail,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit entries: %w", err)
	}

	return entries, nil
}

// Count returns the number of audit entries matching the filter.
func (r *AuditRepository) Count(ctx context.Context, filter port.AuditFilter) (int, error) {
	query := r.builder.
		Select("COUNT(*)").
		From("fleet.audit_log")

	query = applyAuditFilter(query, filter)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count audit entries sql: %w", err)
	}

	var count int
	if err := r.exec.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count audit entries: %w", err)
	}

	return count, nil
}

func applyAuditFilter(query squirrel.SelectBuilder, filter port.AuditFilter) squirrel.SelectBuilder {
	if filter.ActorID != "" {
		query = query.Where(squirrel.Eq{"actor_id": filter.ActorID})
	}
	if filter.Action != "" {
		query = query.Where(squirrel.Eq{"action": filter.Action})
	}
	if filter.Since != nil {
		query = query.Where(squirrel.GtOrEq{"created_at": *filter.Since})
	}
	if filter.Until != nil {
		query = query.Where(squirrel.Lt{"created_at": *filter.Until})
	}
	return query
}

var _ port.AuditRepository = (*AuditRepository)(nil)
