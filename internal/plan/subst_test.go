package plan

import "testing"

func TestSplitSubstitution(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		field       string
		wantCurrent string // "" means nil slot
		wantSubst   string
	}{
		{
			name:        "both values present",
			field:       `<span class="substMonitorSubstElem">B204</span> (A101)`,
			wantCurrent: "B204",
			wantSubst:   "A101",
		},
		{
			name:        "sentinel on subst side",
			field:       `<span class="substMonitorSubstElem">B204</span> (---)`,
			wantCurrent: "B204",
			wantSubst:   "",
		},
		{
			name:        "sentinel on current side",
			field:       `<span class="substMonitorSubstElem">---</span> (A101)`,
			wantCurrent: "",
			wantSubst:   "A101",
		},
		{
			name:        "older encoding with cancelStyle span",
			field:       `<span class="substMonitorSubstElem">Meyer</span> (<span class="cancelStyle">Schulz</span>)`,
			wantCurrent: "Meyer",
			wantSubst:   "Schulz",
		},
		{
			name:        "older encoding with sentinel",
			field:       `<span class="substMonitorSubstElem">---</span> (<span class="cancelStyle">Schulz</span>)`,
			wantCurrent: "",
			wantSubst:   "Schulz",
		},
		{
			name:        "entities in captures are decoded",
			field:       `<span class="substMonitorSubstElem">M&uuml;ller</span> (Wei&szlig;)`,
			wantCurrent: "Müller",
			wantSubst:   "Weiß",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sub, ok := SplitSubstitution(tt.field)
			if !ok {
				t.Fatalf("SplitSubstitution(%q) did not match", tt.field)
			}

			checkSlot(t, "current", sub.Current, tt.wantCurrent)
			checkSlot(t, "subst", sub.Subst, tt.wantSubst)
		})
	}
}

func checkSlot(t *testing.T, name string, got *string, want string) {
	t.Helper()
	if want == "" {
		if got != nil {
			t.Errorf("%s = %q, want nil slot", name, *got)
		}
		return
	}
	if got == nil {
		t.Errorf("%s = nil, want %q", name, want)
		return
	}
	if *got != want {
		t.Errorf("%s = %q, want %q", name, *got, want)
	}
}

func TestSplitSubstitutionNonMatches(t *testing.T) {
	t.Parallel()

	fields := []string{
		"B204",
		"Schmidt",
		"---",
		`<span class="substMonitorSubstElem">B204</span>`, // no parenthesized part
		`B204 (A101)`, // no marked span
		"",
	}
	for _, field := range fields {
		if IsSubstitution(field) {
			t.Errorf("IsSubstitution(%q) = true, want false", field)
		}
		if _, ok := SplitSubstitution(field); ok {
			t.Errorf("SplitSubstitution(%q) matched, want pass-through", field)
		}
	}
}

func TestSentinelNeverLeaksAsText(t *testing.T) {
	t.Parallel()

	sub, ok := SplitSubstitution(`<span class="substMonitorSubstElem">---</span> (---)`)
	if !ok {
		t.Fatal("encoded field did not match")
	}
	if sub.Current != nil || sub.Subst != nil {
		t.Errorf("sentinel slots must be nil, got current=%v subst=%v", sub.Current, sub.Subst)
	}
}
