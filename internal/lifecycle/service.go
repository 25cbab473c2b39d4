package lifecycle

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"fresherjobs/marketplace-service/internal/apperr"
	"fresherjobs/marketplace-service/internal/authz"
	"fresherjobs/marketplace-service/internal/events"
	"fresherjobs/marketplace-service/internal/identity"
	"fresherjobs/marketplace-service/internal/metrics"
	"fresherjobs/marketplace-service/internal/model"
	"fresherjobs/marketplace-service/internal/store"
	"fresherjobs/marketplace-service/internal/visibility"
)

// ─── Service ─────────────────────────────────────────────────────────────────

// Service owns applications: creation by seekers and status changes by the
// recruiter who owns the job. It is transport-agnostic.
type Service struct {
	store   store.Store
	guard   *authz.Guard
	events  events.Publisher
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewService returns a configured Service. pub and m may be nil.
func NewService(st store.Store, guard *authz.Guard, pub events.Publisher, m *metrics.Metrics) *Service {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Service{
		store:   st,
		guard:   guard,
		events:  pub,
		metrics: m,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// ApplyInput is what a seeker submits with an application.
type ApplyInput struct {
	// ResumeURL overrides the profile's resume for this application.
	ResumeURL   string
	CoverLetter string
}

// ─── Business logic ───────────────────────────────────────────────────────────

// Apply creates an APPLIED application of actor to jobID.
//
// A job the caller cannot see is reported as apperr.ErrNotFound. A second
// application to the same job is apperr.ErrConflict, whether it is caught here
// or by the storage uniqueness constraint.
func (s *Service) Apply(ctx context.Context, actor *identity.Actor, jobID string, in ApplyInput) (*model.ApplicationView, error) {
	if actor == nil || actor.ID == "" {
		return nil, apperr.ErrUnauthenticated
	}
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	owner := job.Owner()
	if !visibility.Visible(actor, &job.Job, owner, now) {
		return nil, apperr.NotFound("job")
	}

	applied, err := s.store.HasApplied(ctx, job.ID, actor.ID)
	if err != nil {
		return nil, err
	}
	act := authz.ApplyToJob{Job: &job.Job, Owner: owner, AlreadyApplied: applied, Now: now}
	if err := s.guard.Check(ctx, actor, act); err != nil {
		if applied && identity.HasRole(actor, identity.RoleJobSeeker) {
			return nil, apperr.Conflict("already applied to this job")
		}
		return nil, err
	}

	seeker, err := s.store.GetUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	profile, err := s.store.GetProfile(ctx, actor.ID)
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	app := &model.Application{
		JobID:       job.ID,
		SeekerID:    actor.ID,
		ResumeURL:   strings.TrimSpace(in.ResumeURL),
		CoverLetter: in.CoverLetter,
	}
	if app.ResumeURL == "" && profile != nil {
		app.ResumeURL = profile.ResumeURL
	}
	if err := s.store.CreateApplication(ctx, app); err != nil {
		return nil, err
	}

	s.metrics.ApplicationCreated()
	s.events.Publish(ctx, events.ApplicationCreated(app, &job.Job, seeker.Name))
	slog.InfoContext(ctx, "application created", "applicationId", app.ID, "jobId", job.ID, "seekerId", actor.ID)

	return compose(app, job, seeker, profile), nil
}

// SetStatus moves an application to rawStatus. Only the status field changes.
// Returns apperr.ErrNotFound for a missing application, an
// *apperr.ForbiddenError when actor does not own the job and, for callers who
// pass the guard, a *apperr.ValidationError for an unknown status.
func (s *Service) SetStatus(ctx context.Context, actor *identity.Actor, appID, rawStatus string) (*model.Application, error) {
	if actor == nil || actor.ID == "" {
		return nil, apperr.ErrUnauthenticated
	}
	app, err := s.store.GetApplication(ctx, appID)
	if err != nil {
		return nil, err
	}
	job, err := s.store.GetJob(ctx, app.JobID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Check(ctx, actor, authz.ChangeStatus{Job: &job.Job}); err != nil {
		return nil, err
	}
	newStatus, err := ParseStatus(rawStatus)
	if err != nil {
		return nil, &apperr.ValidationError{Msg: err.Error()}
	}
	if !IsTransitionAllowed(app.Status, newStatus) {
		return nil, apperr.Validation("transition %s → %s is not allowed", app.Status, newStatus)
	}

	updated, err := s.store.UpdateApplicationStatus(ctx, app.ID, newStatus)
	if err != nil {
		return nil, err
	}

	s.metrics.StatusChanged(string(newStatus))
	s.events.Publish(ctx, events.StatusChanged(updated, job.Title))
	slog.InfoContext(ctx, "application status changed",
		"applicationId", app.ID, "from", string(app.Status), "to", string(newStatus), "by", actor.ID)

	return updated, nil
}

// ListMine returns the caller's own applications, newest first. Job seekers only.
func (s *Service) ListMine(ctx context.Context, actor *identity.Actor) ([]model.ApplicationView, error) {
	if err := s.guard.Check(ctx, actor, authz.ListOwnApplications{}); err != nil {
		return nil, err
	}
	apps, err := s.store.ListApplicationsBySeeker(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return withResumeFallback(apps), nil
}

// ListApplicants returns every application to jobID. Only the job's owner may call it.
func (s *Service) ListApplicants(ctx context.Context, actor *identity.Actor, jobID string) ([]model.ApplicationView, error) {
	if actor == nil || actor.ID == "" {
		return nil, apperr.ErrUnauthenticated
	}
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Check(ctx, actor, authz.ViewApplicants{Job: &job.Job}); err != nil {
		return nil, err
	}
	apps, err := s.store.ListApplicationsByJob(ctx, job.ID)
	if err != nil {
		return nil, err
	}
	return withResumeFallback(apps), nil
}

// withResumeFallback fills an empty application resume with the applicant's
// current profile resume. Stored applications are not modified.
func withResumeFallback(apps []model.ApplicationView) []model.ApplicationView {
	for i := range apps {
		if apps[i].ResumeURL == "" && apps[i].ProfileResume != nil {
			apps[i].ResumeURL = *apps[i].ProfileResume
		}
	}
	return apps
}

func compose(app *model.Application, job *model.JobView, seeker *model.User, p *model.Profile) *model.ApplicationView {
	v := &model.ApplicationView{
		Application:    *app,
		JobTitle:       job.Title,
		CompanyName:    job.CompanyName,
		ApplicantName:  seeker.Name,
		ApplicantEmail: seeker.Email,
	}
	if p != nil {
		v.PhotoURL, v.CollegeName, v.Degree = &p.PhotoURL, &p.CollegeName, &p.Degree
		v.GraduationYear, v.CGPA = p.GraduationYear, p.CGPA
		v.Skills, v.About, v.ProfileResume = &p.Skills, &p.About, &p.ResumeURL
	}
	return v
}
