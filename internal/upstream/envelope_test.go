package upstream

import "testing"

type testRow struct {
	ID   flexID `json:"id"`
	Name string `json:"name"`
}

func TestDecodeCollectionShapes(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		wantIDs []string
	}{
		{
			name:    "bare array",
			payload: `[{"id":"1","name":"a"},{"id":"2","name":"b"}]`,
			wantIDs: []string{"1", "2"},
		},
		{
			name:    "items envelope",
			payload: `{"items":[{"id":"1","name":"a"}]}`,
			wantIDs: []string{"1"},
		},
		{
			name:    "collection key envelope",
			payload: `{"users":[{"id":"7","name":"g"}]}`,
			wantIDs: []string{"7"},
		},
		{
			name:    "results envelope",
			payload: `{"results":[{"id":"9","name":"z"}]}`,
			wantIDs: []string{"9"},
		},
		{
			name:    "data array",
			payload: `{"data":[{"id":"3","name":"c"}]}`,
			wantIDs: []string{"3"},
		},
		{
			name:    "data object with items",
			payload: `{"data":{"items":[{"id":"4","name":"d"}]}}`,
			wantIDs: []string{"4"},
		},
		{
			name:    "data object with collection key and extra fields",
			payload: `{"success":true,"data":{"users":[{"id":"5","name":"e"}],"total":1}}`,
			wantIDs: []string{"5"},
		},
		{
			name:    "numeric ids",
			payload: `{"data":[{"id":42,"name":"n"}]}`,
			wantIDs: []string{"42"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rows := []testRow{}
			decodeCollection([]byte(tc.payload), "users", &rows)

			if len(rows) != len(tc.wantIDs) {
				t.Fatalf("decoded %d rows, want %d", len(rows), len(tc.wantIDs))
			}
			for i, want := range tc.wantIDs {
				if rows[i].ID.String() != want {
					t.Fatalf("row %d id = %q, want %q", i, rows[i].ID, want)
				}
			}
		})
	}
}

func TestDecodeCollectionMismatchYieldsEmpty(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{name: "object without known keys", payload: `{"total":3}`},
		{name: "data is a scalar", payload: `{"data":"nope"}`},
		{name: "not json", payload: `<html>error</html>`},
		{name: "empty body", payload: ``},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rows := []testRow{}
			decodeCollection([]byte(tc.payload), "users", &rows)

			if len(rows) != 0 {
				t.Fatalf("expected no rows, got %d", len(rows))
			}
		})
	}
}

func TestDecodeRecordUnwrapsData(t *testing.T) {
	var row testRow
	if err := decodeRecord([]byte(`{"data":{"id":"10","name":"x"}}`), &row); err != nil {
		t.Fatalf("decodeRecord returned error: %v", err)
	}
	if row.ID.String() != "10" {
		t.Fatalf("id = %q, want 10", row.ID)
	}

	var direct testRow
	if err := decodeRecord([]byte(`{"id":11,"name":"y"}`), &direct); err != nil {
		t.Fatalf("decodeRecord returned error: %v", err)
	}
	if direct.ID.String() != "11" {
		t.Fatalf("id = %q, want 11", direct.ID)
	}
}

func TestDecodeRecordReportsMismatch(t *testing.T) {
	var row testRow
	if err := decodeRecord([]byte(`[1,2,3]`), &row); err == nil {
		t.Fatal("expected error for non-object payload")
	}
}
