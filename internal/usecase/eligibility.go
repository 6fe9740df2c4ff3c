package usecase

import (
	"strings"

	"github.com/telvana/fleet-console/internal/core/domain"
)

// EligiblePhones returns the phones selectable for a new assignment: not in
// the occupied index, and matching the search term against the fixed phone
// field set. Source order is preserved and the result is not paginated; the
// candidate list is sized for a dropdown.
func EligiblePhones(search string, phones []domain.Phone, idx AssignmentIndex) []domain.Phone {
	eligible := make([]domain.Phone, 0, len(phones))
	for _, phone := range phones {
		if idx.PhoneAssigned(phone.ID) {
			continue
		}
		if !matchesAny(search, phone.Model, phone.Brand, phone.SerialNumber, phone.IMEI, phone.Color, phone.Storage) {
			continue
		}
		eligible = append(eligible, phone)
	}
	return eligible
}

// EligibleSims returns the SIMs selectable for targetUserID. Beyond the index
// exclusion, any SIM whose back-reference already points at the target user is
// dropped; that check is redundant with the index when both upstream signals
// agree, but defends against a stale index when they do not.
func EligibleSims(search string, sims []domain.SimCard, idx AssignmentIndex, targetUserID string) []domain.SimCard {
	eligible := make([]domain.SimCard, 0, len(sims))
	for _, sim := range sims {
		if idx.SimAssigned(sim.ID) {
			continue
		}
		if targetUserID != "" && sim.AssignedToID != nil && *sim.AssignedToID == targetUserID {
			continue
		}
		if !matchesAny(search, sim.Number, sim.Carrier, sim.ICCID) {
			continue
		}
		eligible = append(eligible, sim)
	}
	return eligible
}

// matchesAny reports whether the search term is a case-insensitive substring
// of at least one field. An empty term matches everything.
func matchesAny(search string, fields ...string) bool {
	term := strings.ToLower(strings.TrimSpace(search))
	if term == "" {
		return true
	}
	for _, field := range fields {
		if field != "" && strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}
