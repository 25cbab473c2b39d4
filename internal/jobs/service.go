// Package jobs manages job postings: recruiter CRUD, the public listing filtered
// by visibility, the admin views and the expiry sweep.
package jobs

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"fresherjobs/marketplace-service/internal/apperr"
	"fresherjobs/marketplace-service/internal/authz"
	"fresherjobs/marketplace-service/internal/identity"
	"fresherjobs/marketplace-service/internal/metrics"
	"fresherjobs/marketplace-service/internal/model"
	"fresherjobs/marketplace-service/internal/store"
	"fresherjobs/marketplace-service/internal/validate"
	"fresherjobs/marketplace-service/internal/visibility"
)

// MaxExperience is the most experience a posting may ask for.
const MaxExperience = 1

// Input is the writable part of a job posting.
type Input struct {
	Title              string        `json:"title" validate:"required,max=200"`
	Description        string        `json:"description" validate:"required"`
	SkillsRequired     string        `json:"skillsRequired" validate:"max=1000"`
	JobType            model.JobType `json:"jobType" validate:"required,oneof=FULL_TIME PART_TIME INTERNSHIP"`
	ExperienceRequired int           `json:"experienceRequired" validate:"min=0"`
	GraduationYear     *int          `json:"graduationYear" validate:"omitempty,min=1950,max=2100"`
	SalaryMin          *float64      `json:"salaryMin" validate:"omitempty,min=0"`
	SalaryMax          *float64      `json:"salaryMax" validate:"omitempty,min=0"`
	Location           string        `json:"location" validate:"max=200"`
	Category           string        `json:"category" validate:"max=100"`
	// IsActive defaults to true on create and is left unchanged on update when nil.
	IsActive  *bool      `json:"isActive"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

func (in *Input) check() error {
	in.Title = strings.TrimSpace(in.Title)
	if err := validate.Struct(in); err != nil {
		return err
	}
	if in.ExperienceRequired > MaxExperience {
		return &apperr.ValidationError{Msg: "only fresher jobs (0-1 year experience) are allowed"}
	}
	if in.SalaryMin != nil && in.SalaryMax != nil && *in.SalaryMin > *in.SalaryMax {
		return &apperr.ValidationError{Msg: "salaryMin must not exceed salaryMax"}
	}
	return nil
}

func (in *Input) apply(j *model.Job) {
	j.Title = in.Title
	j.Description = in.Description
	j.SkillsRequired = in.SkillsRequired
	j.JobType = in.JobType
	j.ExperienceRequired = in.ExperienceRequired
	j.GraduationYear = in.GraduationYear
	j.SalaryMin = in.SalaryMin
	j.SalaryMax = in.SalaryMax
	j.Location = in.Location
	j.Category = in.Category
	j.ExpiresAt = in.ExpiresAt
	if in.IsActive != nil {
		j.IsActive = *in.IsActive
	}
}

// Service implements the job operations.
type Service struct {
	store   store.Store
	guard   *authz.Guard
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewService returns a configured Service. m may be nil.
func NewService(st store.Store, guard *authz.Guard, m *metrics.Metrics) *Service {
	return &Service{store: st, guard: guard, metrics: m, now: func() time.Time { return time.Now().UTC() }}
}

// Create posts a new job owned by actor. Recruiters awaiting approval may post;
// their jobs stay hidden from the public until an admin approves them.
func (s *Service) Create(ctx context.Context, actor *identity.Actor, in Input) (*model.JobView, error) {
	if err := s.guard.Check(ctx, actor, authz.CreateJob{}); err != nil {
		return nil, err
	}
	if err := in.check(); err != nil {
		return nil, err
	}
	job := &model.Job{OwnerID: actor.ID, IsActive: true}
	in.apply(job)
	if err := s.store.CreateJob(ctx, job); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "job created", "jobId", job.ID, "ownerId", actor.ID, "ownerApproved", actor.IsApproved)
	return s.store.GetJob(ctx, job.ID)
}

// Update replaces the descriptive fields of a job. Owner or admin only.
func (s *Service) Update(ctx context.Context, actor *identity.Actor, id string, in Input) (*model.JobView, error) {
	if actor == nil || actor.ID == "" {
		return nil, apperr.ErrUnauthenticated
	}
	cur, err := s.store.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Check(ctx, actor, authz.UpdateJob{Job: &cur.Job}); err != nil {
		return nil, err
	}
	if err := in.check(); err != nil {
		return nil, err
	}
	job := cur.Job
	in.apply(&job)
	if err := s.store.UpdateJob(ctx, &job); err != nil {
		return nil, err
	}
	return s.store.GetJob(ctx, id)
}

// Delete removes a job and its applications. Owner or admin only.
func (s *Service) Delete(ctx context.Context, actor *identity.Actor, id string) error {
	if actor == nil || actor.ID == "" {
		return apperr.ErrUnauthenticated
	}
	cur, err := s.store.GetJob(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guard.Check(ctx, actor, authz.DeleteJob{Job: &cur.Job}); err != nil {
		return err
	}
	if err := s.store.DeleteJob(ctx, id); err != nil {
		return err
	}
	slog.InfoContext(ctx, "job deleted", "jobId", id, "by", actor.ID)
	return nil
}

// Get returns a single job. Jobs that are not listable are reported as
// apperr.ErrNotFound unless requester is their owner or an admin.
// requester may be nil for anonymous callers.
func (s *Service) Get(ctx context.Context, requester *identity.Actor, id string) (*model.JobView, error) {
	v, err := s.store.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if !visibility.Visible(requester, &v.Job, v.Owner(), s.now()) {
		return nil, apperr.NotFound("job")
	}
	return v, nil
}

// ListPublic returns the listable jobs matching f, newest first.
func (s *Service) ListPublic(ctx context.Context, f model.JobFilter) ([]model.JobView, error) {
	all, err := s.store.ListJobs(ctx, store.JobQuery{Filter: f, ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := make([]model.JobView, 0, len(all))
	for i := range all {
		if visibility.Listable(&all[i].Job, all[i].Owner(), now) {
			out = append(out, all[i])
		}
	}
	return out, nil
}

// ListMine returns every job owned by actor, whatever its visibility.
// Recruiters only.
func (s *Service) ListMine(ctx context.Context, actor *identity.Actor) ([]model.JobView, error) {
	if err := s.guard.Check(ctx, actor, authz.ListOwnJobs{}); err != nil {
		return nil, err
	}
	return s.store.ListJobs(ctx, store.JobQuery{OwnerID: actor.ID})
}

// ListAll returns every job on the platform. Admin only.
func (s *Service) ListAll(ctx context.Context, actor *identity.Actor) ([]model.JobView, error) {
	if err := s.guard.Check(ctx, actor, authz.ListAllJobs{}); err != nil {
		return nil, err
	}
	return s.store.ListJobs(ctx, store.JobQuery{})
}

// Remove deletes any job. Admin only.
func (s *Service) Remove(ctx context.Context, actor *identity.Actor, id string) error {
	if err := s.guard.Check(ctx, actor, authz.RemoveAnyJob{}); err != nil {
		return err
	}
	if err := s.store.DeleteJob(ctx, id); err != nil {
		return err
	}
	slog.InfoContext(ctx, "job removed by admin", "jobId", id, "by", actor.ID)
	return nil
}

// DeactivateExpired marks every active job past its expiry as inactive.
// Listings never depend on it having run.
func (s *Service) DeactivateExpired(ctx context.Context) (int64, error) {
	n, err := s.store.DeactivateExpiredJobs(ctx, s.now())
	if err != nil {
		return 0, err
	}
	s.metrics.JobsExpired(n)
	return n, nil
}
