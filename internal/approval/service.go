// Package approval is the admin moderation gate for recruiter accounts.
//
// Approval is one-way and idempotent. Nothing caches it: the next visibility
// evaluation of the recruiter's jobs reads the new state.
package approval

import (
	"context"
	"log/slog"

	"fresherjobs/marketplace-service/internal/apperr"
	"fresherjobs/marketplace-service/internal/authz"
	"fresherjobs/marketplace-service/internal/events"
	"fresherjobs/marketplace-service/internal/identity"
	"fresherjobs/marketplace-service/internal/model"
	"fresherjobs/marketplace-service/internal/store"
)

// Service implements recruiter approval.
type Service struct {
	store  store.Store
	guard  *authz.Guard
	events events.Publisher
}

// NewService returns a configured Service. pub may be nil.
func NewService(st store.Store, guard *authz.Guard, pub events.Publisher) *Service {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Service{store: st, guard: guard, events: pub}
}

// Approve marks recruiterID as approved and returns the updated actor.
// Approving an already approved recruiter succeeds without side effects.
// Ids that do not name a recruiter are reported as apperr.ErrNotFound.
func (s *Service) Approve(ctx context.Context, admin *identity.Actor, recruiterID string) (*identity.Actor, error) {
	if err := s.guard.Check(ctx, admin, authz.ApproveRecruiter{}); err != nil {
		return nil, err
	}
	u, err := s.store.GetUser(ctx, recruiterID)
	if err != nil {
		return nil, err
	}
	if u.Role != identity.RoleRecruiter {
		return nil, apperr.NotFound("recruiter")
	}
	if u.IsApproved {
		return u.Actor(), nil
	}
	u, err = s.store.ApproveRecruiter(ctx, recruiterID)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "recruiter approved", "recruiterId", u.ID, "by", admin.ID)
	s.events.Publish(ctx, events.RecruiterApproved(u.ID))
	return u.Actor(), nil
}

// ListRecruiters returns every recruiter with approval state and company. Admin only.
func (s *Service) ListRecruiters(ctx context.Context, admin *identity.Actor) ([]model.RecruiterSummary, error) {
	if err := s.guard.Check(ctx, admin, authz.ListRecruiters{}); err != nil {
		return nil, err
	}
	return s.store.ListRecruiters(ctx)
}
