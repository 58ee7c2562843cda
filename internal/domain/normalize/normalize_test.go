package normalize

import "testing"

func TestDate(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		want       string
		wantParsed bool
	}{
		{"canonical round-trip", "2024-01-05", "2024-01-05", true},
		{"slash separated", "2024/01/05", "2024-01-05", true},
		{"european", "05-01-2024", "2024-01-05", true},
		{"whitespace trimmed", "  2024-01-05 ", "2024-01-05", true},
		{"garbage kept verbatim", "not-a-date", "not-a-date", false},
		{"empty kept", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Date(tt.raw)
			if got.Canonical != tt.want || got.Parsed != tt.wantParsed {
				t.Fatalf("Date(%q) = %+v, want canonical %q parsed %v", tt.raw, got, tt.want, tt.wantParsed)
			}
		})
	}
}

func TestTime(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		want       string
		wantParsed bool
	}{
		{"canonical round-trip", "14:30:15", "14:30:15", true},
		{"missing seconds", "14:30", "14:30:00", true},
		{"twelve hour", "2:30:15 PM", "14:30:15", true},
		{"garbage kept verbatim", "noonish", "noonish", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Time(tt.raw)
			if got.Canonical != tt.want || got.Parsed != tt.wantParsed {
				t.Fatalf("Time(%q) = %+v, want canonical %q parsed %v", tt.raw, got, tt.want, tt.wantParsed)
			}
		})
	}
}

func TestDateTime(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		want       string
		wantParsed bool
	}{
		{"canonical round-trip", "2024-01-05 14:30:15", "2024-01-05 14:30:15", true},
		{"iso T separator", "2024-01-05T14:30:15", "2024-01-05 14:30:15", true},
		{"european with time", "05-01-2024 14:30:15", "2024-01-05 14:30:15", true},
		{"date only is not a timestamp", "2024-01-05", "2024-01-05", false},
		{"garbage kept verbatim", "yesterday", "yesterday", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DateTime(tt.raw)
			if got.Canonical != tt.want || got.Parsed != tt.wantParsed {
				t.Fatalf("DateTime(%q) = %+v, want canonical %q parsed %v", tt.raw, got, tt.want, tt.wantParsed)
			}
		})
	}
}

func TestIdempotence(t *testing.T) {
	inputs := []string{"2024/01/05", "05-01-2024 14:30:15", "14:30"}
	first := []Outcome{Date(inputs[0]), DateTime(inputs[1]), Time(inputs[2])}
	second := []Outcome{Date(first[0].Canonical), DateTime(first[1].Canonical), Time(first[2].Canonical)}

	for i := range first {
		if !second[i].Parsed {
			t.Fatalf("second pass failed to parse %q", first[i].Canonical)
		}
		if second[i].Canonical != first[i].Canonical {
			t.Fatalf("second pass drifted: %q -> %q", first[i].Canonical, second[i].Canonical)
		}
	}
}
