package usecase

import (
	"testing"

	"github.com/telvana/fleet-console/internal/core/domain"
)

func TestEligiblePhonesExcludesOccupied(t *testing.T) {
	phones := []domain.Phone{
		{ID: "phone-1", Brand: "Apple", Model: "iPhone 14"},
		{ID: "phone-2", Brand: "Samsung", Model: "Galaxy S23"},
		{ID: "phone-3", Brand: "Apple", Model: "iPhone 15"},
	}
	idx := AssignmentIndex{
		PhoneIDs: map[string]struct{}{"phone-2": {}},
		SimIDs:   map[string]struct{}{},
	}

	eligible := EligiblePhones("", phones, idx)

	if len(eligible) != 2 {
		t.Fatalf("eligible count = %d, want 2", len(eligible))
	}
	if eligible[0].ID != "phone-1" || eligible[1].ID != "phone-3" {
		t.Fatalf("unexpected eligible set: %s, %s", eligible[0].ID, eligible[1].ID)
	}
}

func TestEligiblePhonesSearchMatching(t *testing.T) {
	phones := []domain.Phone{
		{ID: "phone-1", Brand: "Apple", Model: "iPhone 14", IMEI: "350000000000001"},
		{ID: "phone-2", Brand: "Samsung", Model: "Galaxy S23", SerialNumber: "SN-XYZ"},
		{ID: "phone-3", Brand: "Google", Model: "Pixel 8", Color: "Obsidian"},
	}
	idx := AssignmentIndex{PhoneIDs: map[string]struct{}{}, SimIDs: map[string]struct{}{}}

	cases := []struct {
		name    string
		search  string
		wantIDs []string
	}{
		{name: "empty term matches all", search: "", wantIDs: []string{"phone-1", "phone-2", "phone-3"}},
		{name: "case-insensitive model", search: "galaxy", wantIDs: []string{"phone-2"}},
		{name: "imei substring", search: "35000000", wantIDs: []string{"phone-1"}},
		{name: "serial number", search: "sn-xyz", wantIDs: []string{"phone-2"}},
		{name: "color", search: "obsidian", wantIDs: []string{"phone-3"}},
		{name: "no match", search: "nokia", wantIDs: nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			eligible := EligiblePhones(tc.search, phones, idx)
			if len(eligible) != len(tc.wantIDs) {
				t.Fatalf("eligible count = %d, want %d", len(eligible), len(tc.wantIDs))
			}
			for i, want := range tc.wantIDs {
				if eligible[i].ID != want {
					t.Fatalf("eligible[%d] = %s, want %s", i, eligible[i].ID, want)
				}
			}
		})
	}
}

func TestEligibleSimsDropsTargetUserBackReference(t *testing.T) {
	sims := []domain.SimCard{
		{ID: "sim-1", Number: "+33600000001"},
		// Already points at the target user but is absent from the index;
		// the back-reference alone must exclude it.
		{ID: "sim-2", Number: "+33600000002", AssignedToID: strPtr("u-7")},
		{ID: "sim-3", Number: "+33600000003", AssignedToID: strPtr("u-8")},
	}
	idx := AssignmentIndex{PhoneIDs: map[string]struct{}{}, SimIDs: map[string]struct{}{}}

	eligible := EligibleSims("", sims, idx, "u-7")

	if len(eligible) != 2 {
		t.Fatalf("eligible count = %d, want 2", len(eligible))
	}
	if eligible[0].ID != "sim-1" || eligible[1].ID != "sim-3" {
		t.Fatalf("unexpected eligible set: %s, %s", eligible[0].ID, eligible[1].ID)
	}
}

func TestEligibleSimsSearchAndIndex(t *testing.T) {
	sims := []domain.SimCard{
		{ID: "sim-1", Number: "+33600000001", Carrier: "Orange"},
		{ID: "sim-2", Number: "+33600000002", Carrier: "SFR", ICCID: "8933010000000000001"},
		{ID: "sim-3", Number: "+33700000003", Carrier: "Orange"},
	}
	idx := AssignmentIndex{
		PhoneIDs: map[string]struct{}{},
		SimIDs:   map[string]struct{}{"sim-3": {}},
	}

	eligible := EligibleSims("orange", sims, idx, "")

	if len(eligible) != 1 {
		t.Fatalf("eligible count = %d, want 1", len(eligible))
	}
	if eligible[0].ID != "sim-1" {
		t.Fatalf("eligible[0] = %s, want sim-1", eligible[0].ID)
	}

	byICCID := EligibleSims("893301", sims, idx, "")
	if len(byICCID) != 1 || byICCID[0].ID != "sim-2" {
		t.Fatalf("iccid search returned %d sims", len(byICCID))
	}
}
