package domain

import "time"

// AttributionCreatedEvent represents the payload for fleet.attribution.created messages.
type AttributionCreatedEvent struct {
	EventID        string
	AttributionID  string
	UserID         string
	PhoneID        *string
	SimCardID      *string
	AssignedBy     string
	AssignmentDate time.Time
	Replacement    bool
	Metadata       map[string]any
}

// AttributionReturnedEvent represents the payload for fleet.attribution.returned messages.
type AttributionReturnedEvent struct {
	EventID       string
	AttributionID string
	UserID        string
	ReturnedBy    string
	ReturnedAt    time.Time
	Metadata      map[string]any
}

// AttributionDeletedEvent represents the payload for fleet.attribution.deleted messages.
type AttributionDeletedEvent struct {
	EventID       string
	AttributionID string
	UserID        string
	DeletedBy     string
	DeletedAt     time.Time
	Metadata      map[string]any
}

// SimAssignedEvent represents the payload for fleet.sim.assigned messages.
type SimAssignedEvent struct {
	EventID    string
	SimCardID  string
	UserID     string
	AssignedBy string
	AssignedAt time.Time
	Metadata   map[string]any
}

// SimUnassignedEvent represents the payload for fleet.sim.unassigned messages.
type SimUnassignedEvent struct {
	EventID      string
	SimCardID    string
	UserID       string
	UnassignedBy string
	UnassignedAt time.Time
	Metadata     map[string]any
}
