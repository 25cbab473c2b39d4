// Package account runs self-service account deletion.
//
// Deletion is a cascade executed in one transaction: either the account and
// everything hanging off it disappears, or nothing does.
package account

import (
	"context"
	"fmt"
	"log/slog"

	"fresherjobs/marketplace-service/internal/authz"
	"fresherjobs/marketplace-service/internal/identity"
	"fresherjobs/marketplace-service/internal/store"
)

// Result reports what a deletion removed.
type Result struct {
	JobsDeleted         int64 `json:"jobsDeleted"`
	ApplicationsDeleted int64 `json:"applicationsDeleted"`
}

// Service implements account deletion.
type Service struct {
	store store.Store
	guard *authz.Guard
}

// NewService returns a configured Service.
func NewService(st store.Store, guard *authz.Guard) *Service {
	return &Service{store: st, guard: guard}
}

// Delete removes targetID on behalf of requester, who must be the same account.
//
// A job seeker loses their profile and applications. A recruiter loses their
// company and jobs, and with the jobs every application made to them.
// Admin accounts are never deleted.
func (s *Service) Delete(ctx context.Context, requester *identity.Actor, targetID string) (*Result, error) {
	if err := s.guard.Check(ctx, requester, authz.DeleteAccount{TargetID: targetID}); err != nil {
		return nil, err
	}

	var res Result
	err := s.store.InTx(ctx, func(tx store.Repository) error {
		u, err := tx.GetUser(ctx, targetID)
		if err != nil {
			return err
		}
		switch u.Role {
		case identity.RoleJobSeeker:
			if res.ApplicationsDeleted, err = tx.DeleteApplicationsBySeeker(ctx, u.ID); err != nil {
				return err
			}
			if err := tx.DeleteProfile(ctx, u.ID); err != nil {
				return err
			}
		case identity.RoleRecruiter:
			jobs, err := tx.ListJobs(ctx, store.JobQuery{OwnerID: u.ID})
			if err != nil {
				return err
			}
			for _, j := range jobs {
				apps, err := tx.ListApplicationsByJob(ctx, j.ID)
				if err != nil {
					return err
				}
				res.ApplicationsDeleted += int64(len(apps))
			}
			if res.JobsDeleted, err = tx.DeleteJobsByOwner(ctx, u.ID); err != nil {
				return err
			}
			if err := tx.DeleteCompanyByOwner(ctx, u.ID); err != nil {
				return err
			}
		default:
			return fmt.Errorf("delete account: unsupported role %q", u.Role)
		}
		return tx.DeleteUser(ctx, u.ID)
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "account deleted",
		"userId", targetID, "role", string(requester.Role),
		"jobsDeleted", res.JobsDeleted, "applicationsDeleted", res.ApplicationsDeleted)
	return &res, nil
}
