package postgres

import (
	"context"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/telvana/fleet-console/internal/core/domain"
	"github.com/telvana/fleet-console/internal/core/port"
)

func TestAuditRepository_Append(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewAuditRepository(mock)

	createdAt := time.Now().UTC()
	subjectID := "user-7"
	simCardID := "sim-5"
	entry := domain.AuditEntry{
		ID:        "audit-1",
		ActorID:   "admin-1",
		Action:    domain.AuditActionAttributionCreate,
		EntityID:  "attr-1",
		SubjectID: &subjectID,
		SimCardID: &simCardID,
		Outcome:   "success",
		CreatedAt: createdAt,
	}

	mock.ExpectExec(`INSERT INTO fleet\.audit_log`).
		WithArgs(
			entry.ID,
			entry.ActorID,
			entry.Action,
			entry.EntityID,
			&subjectID,
			(*string)(nil),
			&simCardID,
			entry.Outcome,
			(*string)(nil),
			(*string)(nil),
			entry.CreatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.Append(context.Background(), entry); err != nil {
		t.Fatalf("Append returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAuditRepository_List(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewAuditRepository(mock)

	createdAt := time.Now().UTC()
	rows := pgxmock.NewRows([]string{
		"id", "actor_id", "action", "entity_id", "subject_id", "phone_id", "sim_card_id", "outcome", "request_id", "detail", "created_at",
	}).AddRow(
		"audit-1", "admin-1", domain.AuditActionAttributionReturn, "attr-1", nil, nil, nil, "success", nil, nil, createdAt,
	)

	mock.ExpectQuery(`SELECT .+ FROM fleet\.audit_log`).
		WithArgs("admin-1").
		WillReturnRows(rows)

	entries, err := repo.List(context.Background(), port.AuditFilter{ActorID: "admin-1", Limit: 50})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if entries[0].Action != domain.AuditActionAttributionReturn {
		t.Fatalf("action = %s", entries[0].Action)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAuditRepository_Count(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewAuditRepository(mock)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM fleet\.audit_log`).
		WithArgs("attribution.delete").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(4))

	count, err := repo.Count(context.Background(), port.AuditFilter{Action: "attribution.delete"})
	if err != nil {
		t.Fatalf("Count returned error: %v", err)
	}
	if count != 4 {
		t.Fatalf("count = %d, want 4", count)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
