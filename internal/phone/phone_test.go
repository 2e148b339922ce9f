package phone

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"e164 with country code", "+14155552671", "4155552671"},
		{"formatted with country code", "+1 (415) 555-2671", "4155552671"},
		{"bare eleven digits", "15551234567", "5551234567"},
		{"ten digits unchanged", "4155552671", "4155552671"},
		{"eleven digits not starting with 1", "24155552671", "24155552671"},
		{"short number unchanged", "555", "555"},
		{"empty", "", ""},
		{"symbols only", "+()- .", ""},
		{"letters mixed in", "call 415.555.2671", "4155552671"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.raw); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"+14155552671", "15551234567", "4155552671", "", "+1 (415) 555-2671", "12"}
	for _, raw := range inputs {
		once := Normalize(raw)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q -> %q", raw, once, twice)
		}
	}
}
