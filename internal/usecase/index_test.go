package usecase

import (
	"testing"

	"github.com/telvana/fleet-console/internal/core/domain"
)

func strPtr(s string) *string {
	return &s
}

func TestBuildAssignmentIndexUnionsBothSignals(t *testing.T) {
	attributions := []domain.Attribution{
		{ID: "a-1", UserID: "u-1", PhoneID: strPtr("phone-1"), SimCardID: strPtr("sim-1"), Status: domain.AttributionStatusActive},
		{ID: "a-2", UserID: "u-2", PhoneID: strPtr("phone-2"), Status: domain.AttributionStatusReturned},
		{ID: "a-3", UserID: "u-3", SimCardID: strPtr("sim-3"), Status: domain.AttributionStatusPending},
	}

	// phone-100 is flagged ASSIGNED with a back-reference but has no
	// attribution row at all, which happens when the assignment was made
	// from the device page.
	phones := []domain.Phone{
		{ID: "phone-100", Status: domain.PhoneStatusAssigned, AssignedToID: strPtr("u-9")},
		{ID: "phone-101", Status: domain.PhoneStatusAvailable},
		{ID: "phone-102", Status: domain.PhoneStatusAssigned},
	}
	sims := []domain.SimCard{
		{ID: "sim-200", Status: domain.SimStatusAssigned, AssignedToID: strPtr("u-9")},
		{ID: "sim-201", Status: domain.SimStatusAvailable, AssignedToID: strPtr("u-9")},
	}

	idx := BuildAssignmentIndex(attributions, phones, sims)

	for _, id := range []string{"phone-1", "phone-100"} {
		if !idx.PhoneAssigned(id) {
			t.Errorf("expected phone %s to be occupied", id)
		}
	}
	for _, id := range []string{"phone-2", "phone-101", "phone-102"} {
		if idx.PhoneAssigned(id) {
			t.Errorf("expected phone %s to be free", id)
		}
	}

	for _, id := range []string{"sim-1", "sim-200"} {
		if !idx.SimAssigned(id) {
			t.Errorf("expected sim %s to be occupied", id)
		}
	}
	// PENDING attributions and AVAILABLE inventory do not occupy.
	for _, id := range []string{"sim-3", "sim-201"} {
		if idx.SimAssigned(id) {
			t.Errorf("expected sim %s to be free", id)
		}
	}
}

func TestBuildAssignmentIndexIgnoresEmptyReferences(t *testing.T) {
	empty := ""
	attributions := []domain.Attribution{
		{ID: "a-1", UserID: "u-1", PhoneID: &empty, SimCardID: nil, Status: domain.AttributionStatusActive},
	}
	phones := []domain.Phone{
		{ID: "phone-1", Status: domain.PhoneStatusAssigned, AssignedToID: &empty},
	}

	idx := BuildAssignmentIndex(attributions, phones, nil)

	if len(idx.PhoneIDs) != 0 {
		t.Fatalf("expected no occupied phones, got %d", len(idx.PhoneIDs))
	}
	if len(idx.SimIDs) != 0 {
		t.Fatalf("expected no occupied sims, got %d", len(idx.SimIDs))
	}
}
