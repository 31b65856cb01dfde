package model

import "testing"

func TestTagMapping_Canonical(t *testing.T) {
	mapping := TagMapping{
		"Camp 2016":  "Camp 2016 ",
		"Volunteers": "Volunteer",
	}

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"mapped tag", "Volunteers", "Volunteer"},
		{"mapped value verbatim with trailing space", "Camp 2016", "Camp 2016 "},
		{"raw tag trimmed before lookup", "  Camp 2016 ", "Camp 2016 "},
		{"unmapped passes through trimmed", " Donor ", "Donor"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapping.Canonical(tt.raw); got != tt.want {
				t.Errorf("Canonical(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestReport_AddFatal(t *testing.T) {
	var r Report
	r.Add(CategoryInvalidEmail, "1", "invalid email")
	if r.HasFatal {
		t.Error("warning must not mark the report fatal")
	}

	r.AddFatal(CategoryNonPositiveDonation, "2", "non-positive amount")
	if !r.HasFatal {
		t.Error("AddFatal must mark the report fatal")
	}
	if len(r.Records) != 2 {
		t.Errorf("expected 2 records, got %d", len(r.Records))
	}
}
