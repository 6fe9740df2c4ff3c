package domain

import "time"

// AttributionStatus enumerates the lifecycle states of a user/device pairing.
type AttributionStatus string

const (
	AttributionStatusActive   AttributionStatus = "ACTIVE"
	AttributionStatusPending  AttributionStatus = "PENDING"
	AttributionStatusReturned AttributionStatus = "RETURNED"
)

// CanTransitionTo reports whether the status change is a legal lifecycle move.
// Only ACTIVE→RETURNED and PENDING→ACTIVE are allowed; RETURNED is terminal.
func (s AttributionStatus) CanTransitionTo(next AttributionStatus) bool {
	switch s {
	case AttributionStatusActive:
		return next == AttributionStatusReturned
	case AttributionStatusPending:
		return next == AttributionStatusActive
	default:
		return false
	}
}

// Attribution is the join record pairing a user with a phone and/or SIM,
// current or historical. Owned by the upstream API; the gateway holds
// transient copies only.
type Attribution struct {
	ID             string
	UserID         string
	PhoneID        *string
	SimCardID      *string
	AssignedBy     string
	AssignmentDate time.Time
	ReturnDate     *time.Time
	Status         AttributionStatus
	Notes          string
}

// CurrentAssignments describes what a user already holds, derived from the
// attribution table with the inventory back-references as a secondary source.
// Nil fields mean the user holds nothing of that kind.
type CurrentAssignments struct {
	PhoneID    *string
	PhoneLabel *string
	SimID      *string
	SimLabel   *string
}
