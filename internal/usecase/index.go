package usecase

import "github.com/telvana/fleet-console/internal/core/domain"

// AssignmentIndex holds the ids of inventory currently considered occupied.
// It is rebuilt from scratch on every refresh and never persisted.
type AssignmentIndex struct {
	PhoneIDs map[string]struct{}
	SimIDs   map[string]struct{}
}

// BuildAssignmentIndex derives occupied inventory from two independently
// updatable upstream signals: ACTIVE attributions, and inventory rows flagged
// ASSIGNED with a direct back-reference (assignments made from the SIM or
// phone management pages without an attribution row). Either signal can lag
// the other, so the index is always the union of both; neither is trusted
// alone.
func BuildAssignmentIndex(attributions []domain.Attribution, phones []domain.Phone, sims []domain.SimCard) AssignmentIndex {
	idx := AssignmentIndex{
		PhoneIDs: make(map[string]struct{}),
		SimIDs:   make(map[string]struct{}),
	}

	for _, attribution := range attributions {
		if attribution.Status != domain.AttributionStatusActive {
			continue
		}
		if attribution.PhoneID != nil && *attribution.PhoneID != "" {
			idx.PhoneIDs[*attribution.PhoneID] = struct{}{}
		}
		if attribution.SimCardID != nil && *attribution.SimCardID != "" {
			idx.SimIDs[*attribution.SimCardID] = struct{}{}
		}
	}

	for _, phone := range phones {
		if phone.Status == domain.PhoneStatusAssigned && phone.AssignedToID != nil && *phone.AssignedToID != "" {
			idx.PhoneIDs[phone.ID] = struct{}{}
		}
	}

	for _, sim := range sims {
		if sim.Status == domain.SimStatusAssigned && sim.AssignedToID != nil && *sim.AssignedToID != "" {
			idx.SimIDs[sim.ID] = struct{}{}
		}
	}

	return idx
}

// PhoneAssigned reports whether the phone id is currently occupied.
func (idx AssignmentIndex) PhoneAssigned(id string) bool {
	_, ok := idx.PhoneIDs[id]
	return ok
}

// SimAssigned reports whether the SIM id is currently occupied.
func (idx AssignmentIndex) SimAssigned(id string) bool {
	_, ok := idx.SimIDs[id]
	return ok
}
