// Package lifecycle runs the application workflow: a seeker applies to a job,
// the owning recruiter moves the application between statuses.
//
// Status graph:
//
//	APPLIED ◄──► SHORTLISTED ◄──► HIRED
//	    ▲             ▲              ▲
//	    └─────────────┴──► REJECTED ◄┘
//
// Every status may move to every other one, itself included. The only
// constraint lives in IsTransitionAllowed.
package lifecycle

import (
	"fmt"

	"fresherjobs/marketplace-service/internal/model"
)

// Statuses lists every status in display order.
var Statuses = []model.ApplicationStatus{
	model.StatusApplied,
	model.StatusShortlisted,
	model.StatusHired,
	model.StatusRejected,
}

// ParseStatus converts a raw string to an ApplicationStatus, returning an error
// for unknown values. Matching is exact and case-sensitive.
func ParseStatus(s string) (model.ApplicationStatus, error) {
	st := model.ApplicationStatus(s)
	for _, known := range Statuses {
		if st == known {
			return st, nil
		}
	}
	return "", fmt.Errorf("invalid status %q: must be one of APPLIED, SHORTLISTED, HIRED, REJECTED", s)
}

// IsTransitionAllowed reports whether from → to is permitted. Both ends must be
// known statuses; beyond that the workflow is permissive.
func IsTransitionAllowed(from, to model.ApplicationStatus) bool {
	if _, err := ParseStatus(string(from)); err != nil {
		return false
	}
	_, err := ParseStatus(string(to))
	return err == nil
}

// IsFinal reports whether status closes the hiring decision. Final statuses
// can still be changed; this only drives messaging.
func IsFinal(s model.ApplicationStatus) bool {
	return s == model.StatusHired || s == model.StatusRejected
}
