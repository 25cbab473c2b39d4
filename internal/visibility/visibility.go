// Package visibility decides which jobs may be shown to audiences other than
// their owner and the platform admin.
package visibility

import (
	"time"

	"fresherjobs/marketplace-service/internal/identity"
	"fresherjobs/marketplace-service/internal/model"
)

// Listable reports whether job may appear in public or non-owner results:
// it is active, its owner is an approved recruiter and it has not expired.
// A nil job or owner, or an owner that does not match job.OwnerID, is never listable.
func Listable(job *model.Job, owner *identity.Actor, now time.Time) bool {
	if job == nil || owner == nil || owner.ID != job.OwnerID {
		return false
	}
	if !job.IsActive || !owner.IsApproved {
		return false
	}
	return job.ExpiresAt == nil || job.ExpiresAt.After(now)
}

// Bypasses reports whether requester sees job regardless of Listable:
// the job's owner and any admin do.
func Bypasses(requester *identity.Actor, job *model.Job) bool {
	if requester == nil || job == nil {
		return false
	}
	if requester.Role == identity.RoleAdmin {
		return true
	}
	return requester.Role == identity.RoleRecruiter && requester.ID == job.OwnerID
}

// Visible combines Bypasses and Listable for a single-job read.
func Visible(requester *identity.Actor, job *model.Job, owner *identity.Actor, now time.Time) bool {
	return Bypasses(requester, job) || Listable(job, owner, now)
}
