package lifecycle_test

import (
	"testing"

	"fresherjobs/marketplace-service/internal/lifecycle"
	"fresherjobs/marketplace-service/internal/model"
)

// ParseStatus must be case-sensitive: lowercase variants are not valid.
func TestParseStatus_CaseSensitive(t *testing.T) {
	for _, s := range []string{"applied", "shortlisted", "hired", "rejected", "Hired"} {
		if _, err := lifecycle.ParseStatus(s); err == nil {
			t.Errorf("ParseStatus(%q) should reject non-uppercase value, got nil error", s)
		}
	}
}

// ParseStatus must reject whitespace-padded strings.
func TestParseStatus_WithWhitespace(t *testing.T) {
	for _, s := range []string{" APPLIED", "APPLIED ", " APPLIED "} {
		if _, err := lifecycle.ParseStatus(s); err == nil {
			t.Errorf("ParseStatus(%q) should reject padded value, got nil error", s)
		}
	}
}

// Unknown statuses never take part in a transition, in either direction.
func TestIsTransitionAllowed_UnknownStatus(t *testing.T) {
	unknown := model.ApplicationStatus("INTERVIEW")
	for _, s := range lifecycle.Statuses {
		if lifecycle.IsTransitionAllowed(unknown, s) {
			t.Errorf("IsTransitionAllowed(%s → %s) should be false", unknown, s)
		}
		if lifecycle.IsTransitionAllowed(s, unknown) {
			t.Errorf("IsTransitionAllowed(%s → %s) should be false", s, unknown)
		}
	}
	if lifecycle.IsTransitionAllowed("", "") {
		t.Error("IsTransitionAllowed(\"\" → \"\") should be false")
	}
}
