// Package authz is the single authorization gate of the engine.
//
// Every operation is described by an Action value. Authorize looks up the rule
// registered for the action's kind and evaluates it against the caller; no
// handler or service performs its own role checks.
package authz

import (
	"context"
	"log/slog"
	"time"

	"fresherjobs/marketplace-service/internal/apperr"
	"fresherjobs/marketplace-service/internal/identity"
	"fresherjobs/marketplace-service/internal/metrics"
	"fresherjobs/marketplace-service/internal/model"
	"fresherjobs/marketplace-service/internal/visibility"
)

// Kind names an action in logs, metrics and the rule table.
type Kind string

const (
	KindCreateJob        Kind = "create_job"
	KindUpdateJob        Kind = "update_job"
	KindDeleteJob        Kind = "delete_job"
	KindApplyToJob       Kind = "apply_to_job"
	KindViewApplicants   Kind = "view_applicants"
	KindChangeStatus     Kind = "change_application_status"
	KindApproveRecruiter Kind = "approve_recruiter"
	KindRemoveAnyJob     Kind = "remove_any_job"
	KindManageProfile    Kind = "manage_profile"
	KindDeleteAccount    Kind = "delete_account"
	KindListAllJobs      Kind = "list_all_jobs"
	KindListRecruiters   Kind = "list_recruiters"
	KindListOwnJobs      Kind = "list_own_jobs"
	KindListOwnApps      Kind = "list_own_applications"
)

// Action is the tagged variant of everything a caller may attempt.
type Action interface {
	Kind() Kind
}

type (
	CreateJob struct{}
	UpdateJob struct{ Job *model.Job }
	DeleteJob struct{ Job *model.Job }
	// ApplyToJob carries what the rule needs to evaluate the target job:
	// its owner (for visibility) and whether the caller already applied.
	ApplyToJob struct {
		Job            *model.Job
		Owner          *identity.Actor
		AlreadyApplied bool
		Now            time.Time
	}
	ViewApplicants struct{ Job *model.Job }
	// ChangeStatus targets the job referenced by the application being changed.
	ChangeStatus     struct{ Job *model.Job }
	ApproveRecruiter struct{}
	RemoveAnyJob     struct{}
	ManageProfile    struct{ OwnerID string }
	DeleteAccount    struct{ TargetID string }
	ListAllJobs      struct{}
	ListRecruiters   struct{}
	// ListOwnJobs and ListOwnApplications scope to the caller's id.
	ListOwnJobs         struct{}
	ListOwnApplications struct{}
)

func (CreateJob) Kind() Kind        { return KindCreateJob }
func (UpdateJob) Kind() Kind        { return KindUpdateJob }
func (DeleteJob) Kind() Kind        { return KindDeleteJob }
func (ApplyToJob) Kind() Kind       { return KindApplyToJob }
func (ViewApplicants) Kind() Kind   { return KindViewApplicants }
func (ChangeStatus) Kind() Kind     { return KindChangeStatus }
func (ApproveRecruiter) Kind() Kind { return KindApproveRecruiter }
func (RemoveAnyJob) Kind() Kind     { return KindRemoveAnyJob }
func (ManageProfile) Kind() Kind    { return KindManageProfile }
func (DeleteAccount) Kind() Kind    { return KindDeleteAccount }
func (ListAllJobs) Kind() Kind      { return KindListAllJobs }
func (ListRecruiters) Kind() Kind   { return KindListRecruiters }

func (ListOwnJobs) Kind() Kind         { return KindListOwnJobs }
func (ListOwnApplications) Kind() Kind { return KindListOwnApps }

// Decision is the outcome of Authorize. Reason is empty when Allowed.
type Decision struct {
	Allowed bool
	Reason  string
}

var allow = Decision{Allowed: true}

func deny(reason string) Decision { return Decision{Reason: reason} }

// Err converts a denial into an *apperr.ForbiddenError and an allow into nil.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return apperr.Forbidden(d.Reason)
}

type rule func(a *identity.Actor, act Action) Decision

// rules is the declarative table, in evaluation order.
var rules = []struct {
	kind  Kind
	check rule
}{
	{KindCreateJob, func(a *identity.Actor, _ Action) Decision {
		if a.Role != identity.RoleRecruiter {
			return deny("only recruiters can post jobs")
		}
		return allow
	}},
	{KindUpdateJob, func(a *identity.Actor, act Action) Decision {
		return ownerOrAdmin(a, act.(UpdateJob).Job, "you are not authorized to update this job")
	}},
	{KindDeleteJob, func(a *identity.Actor, act Action) Decision {
		return ownerOrAdmin(a, act.(DeleteJob).Job, "you are not authorized to delete this job")
	}},
	{KindApplyToJob, func(a *identity.Actor, act Action) Decision {
		req := act.(ApplyToJob)
		switch {
		case a.Role != identity.RoleJobSeeker:
			return deny("only job seekers can apply for jobs")
		case req.AlreadyApplied:
			return deny("already applied to this job")
		case !visibility.Listable(req.Job, req.Owner, req.Now):
			return deny("this job posting is not open for applications")
		}
		return allow
	}},
	{KindViewApplicants, func(a *identity.Actor, act Action) Decision {
		if !isOwner(a, act.(ViewApplicants).Job) {
			return deny("you are not authorized to view applications for this job")
		}
		return allow
	}},
	{KindChangeStatus, func(a *identity.Actor, act Action) Decision {
		return ownerOrAdmin(a, act.(ChangeStatus).Job, "you are not authorized to update this application")
	}},
	{KindApproveRecruiter, adminOnly("only admins can approve recruiters")},
	{KindRemoveAnyJob, adminOnly("only admins can remove any job")},
	{KindListAllJobs, adminOnly("only admins can list all jobs")},
	{KindListRecruiters, adminOnly("only admins can list recruiters")},
	{KindListOwnJobs, roleOnly(identity.RoleRecruiter, "only recruiters have posted jobs")},
	{KindListOwnApps, roleOnly(identity.RoleJobSeeker, "only job seekers have applications")},
	{KindManageProfile, func(a *identity.Actor, act Action) Decision {
		if a.Role != identity.RoleJobSeeker {
			return deny("only job seekers have a profile")
		}
		if a.ID != act.(ManageProfile).OwnerID {
			return deny("profiles can only be managed by their owner")
		}
		return allow
	}},
	{KindDeleteAccount, func(a *identity.Actor, act Action) Decision {
		if a.Role == identity.RoleAdmin {
			return deny("admin accounts cannot be deleted")
		}
		if a.ID != act.(DeleteAccount).TargetID {
			return deny("accounts can only be deleted by their owner")
		}
		return allow
	}},
}

func isOwner(a *identity.Actor, job *model.Job) bool {
	return job != nil && a.Role == identity.RoleRecruiter && a.ID == job.OwnerID
}

func ownerOrAdmin(a *identity.Actor, job *model.Job, reason string) Decision {
	if a.Role == identity.RoleAdmin || isOwner(a, job) {
		return allow
	}
	return deny(reason)
}

func adminOnly(reason string) rule {
	return roleOnly(identity.RoleAdmin, reason)
}

func roleOnly(role identity.Role, reason string) rule {
	return func(a *identity.Actor, _ Action) Decision {
		if a.Role != role {
			return deny(reason)
		}
		return allow
	}
}

// Authorize evaluates act for actor. It is pure: no I/O, no logging.
func Authorize(actor *identity.Actor, act Action) Decision {
	if actor == nil || actor.ID == "" {
		return deny("authentication required")
	}
	if act == nil {
		return deny("unknown action")
	}
	for _, r := range rules {
		if r.kind == act.Kind() {
			return r.check(actor, act)
		}
	}
	return deny("unknown action")
}

// Guard wraps Authorize with logging and metrics for use by services.
type Guard struct {
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewGuard returns a Guard. Both arguments may be nil.
func NewGuard(m *metrics.Metrics, logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{metrics: m, logger: logger}
}

// Check authorizes act and returns nil, apperr.ErrUnauthenticated for an
// anonymous caller, or an *apperr.ForbiddenError.
func (g *Guard) Check(ctx context.Context, actor *identity.Actor, act Action) error {
	if actor == nil || actor.ID == "" {
		return apperr.ErrUnauthenticated
	}
	if act == nil {
		return apperr.Forbidden("unknown action")
	}
	d := Authorize(actor, act)
	g.metrics.AuthzDecision(string(act.Kind()), d.Allowed)
	if !d.Allowed {
		g.logger.WarnContext(ctx, "authorization denied",
			"action", string(act.Kind()),
			"actor_id", actor.ID,
			"role", string(actor.Role),
			"reason", d.Reason,
		)
	}
	return d.Err()
}
