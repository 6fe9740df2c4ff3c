package domain

import "time"

// AuditAction identifies the gateway operation recorded in the audit trail.
type AuditAction string

const (
	AuditActionAttributionCreate AuditAction = "attribution.create"
	AuditActionAttributionUpdate AuditAction = "attribution.update"
	AuditActionAttributionReturn AuditAction = "attribution.return"
	AuditActionAttributionDelete AuditAction = "attribution.delete"
	AuditActionSimAssign         AuditAction = "sim.assign"
	AuditActionSimUnassign       AuditAction = "sim.unassign"
)

// AuditEntry records a mutating operation routed through the gateway.
type AuditEntry struct {
	ID        string
	ActorID   string
	Action    AuditAction
	EntityID  string
	SubjectID *string
	PhoneID   *string
	SimCardID *string
	Outcome   string
	RequestID *string
	Detail    *string
	CreatedAt time.Time
}
