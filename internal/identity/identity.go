// Package identity models the authenticated caller.
//
// An Actor is a read-only projection produced once per request from a verified
// credential and passed explicitly into every engine call.
package identity

import (
	"context"
	"fmt"
	"strings"

	"fresherjobs/marketplace-service/internal/apperr"
)

// Role values mirror the user_role enum in PostgreSQL.
type Role string

const (
	RoleJobSeeker Role = "JOB_SEEKER"
	RoleRecruiter Role = "RECRUITER"
	RoleAdmin     Role = "ADMIN"
)

// ParseRole converts a raw string to a Role, returning an error for unknown values.
func ParseRole(s string) (Role, error) {
	r := Role(strings.TrimSpace(s))
	switch r {
	case RoleJobSeeker, RoleRecruiter, RoleAdmin:
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Actor is who is calling. IsApproved only carries meaning for recruiters.
type Actor struct {
	ID         string `json:"id"`
	Role       Role   `json:"role"`
	IsApproved bool   `json:"isApproved"`
}

// HasRole reports whether a is non-nil and holds role.
func HasRole(a *Actor, role Role) bool {
	return a != nil && a.Role == role
}

// IsApprovedRecruiter reports whether a is a recruiter an admin has approved.
func IsApprovedRecruiter(a *Actor) bool {
	return HasRole(a, RoleRecruiter) && a.IsApproved
}

// DefaultApproval is the approval state assigned at registration: seekers and
// admins are implicitly approved, recruiters wait for moderation.
func DefaultApproval(role Role) bool {
	return role != RoleRecruiter
}

type ctxKey struct{}

// WithActor returns a copy of ctx carrying a.
func WithActor(ctx context.Context, a *Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, a)
}

// FromContext returns the actor attached by the authentication middleware, or nil.
func FromContext(ctx context.Context) *Actor {
	a, _ := ctx.Value(ctxKey{}).(*Actor)
	return a
}

// Require returns the attached actor or apperr.ErrUnauthenticated.
func Require(ctx context.Context) (*Actor, error) {
	a := FromContext(ctx)
	if a == nil || a.ID == "" {
		return nil, apperr.ErrUnauthenticated
	}
	return a, nil
}

// Authenticator turns a raw credential into an Actor.
// Implementations return apperr.ErrUnauthenticated for missing or invalid credentials.
type Authenticator interface {
	Authenticate(ctx context.Context, credential string) (*Actor, error)
}
