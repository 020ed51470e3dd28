package sliceutil

import "testing"

type testItem struct {
	ID   string
	Name string
}

func TestDeduplicate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		items []testItem
		want  []testItem
	}{
		{
			name: "No duplicates",
			items: []testItem{
				{ID: "1", Name: "A"},
				{ID: "2", Name: "B"},
			},
			want: []testItem{
				{ID: "1", Name: "A"},
				{ID: "2", Name: "B"},
			},
		},
		{
			name: "With duplicates - first occurrence kept",
			items: []testItem{
				{ID: "1", Name: "A"},
				{ID: "2", Name: "B"},
				{ID: "1", Name: "C"},
				{ID: "3", Name: "D"},
			},
			want: []testItem{
				{ID: "1", Name: "A"},
				{ID: "2", Name: "B"},
				{ID: "3", Name: "D"},
			},
		},
		{
			name:  "Empty slice",
			items: []testItem{},
			want:  []testItem{},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Deduplicate(tt.items, func(i testItem) string { return i.ID })
			if len(got) != len(tt.want) {
				t.Fatalf("Deduplicate() length = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Deduplicate()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDeduplicateIdempotent(t *testing.T) {
	t.Parallel()

	items := []testItem{
		{ID: "1"}, {ID: "2"}, {ID: "1"}, {ID: "3"}, {ID: "2"},
	}
	key := func(i testItem) string { return i.ID }

	once := Deduplicate(items, key)
	twice := Deduplicate(once, key)

	if len(once) != len(twice) {
		t.Fatalf("second pass changed length: %d vs %d", len(once), len(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("second pass changed element %d", i)
		}
	}
}
