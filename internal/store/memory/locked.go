package memory

import (
	"context"
	"time"

	"fresherjobs/marketplace-service/internal/model"
	"fresherjobs/marketplace-service/internal/store"
)

// Direct (non-transactional) operations: each one holds the lock for its duration.

func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	r, unlock := s.locked()
	defer unlock()
	return r.CreateUser(ctx, u)
}

func (s *Store) GetUser(ctx context.Context, id string) (*model.User, error) {
	r, unlock := s.locked()
	defer unlock()
	return r.GetUser(ctx, id)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	r, unlock := s.locked()
	defer unlock()
	return r.GetUserByEmail(ctx, email)
}

func (s *Store) ApproveRecruiter(ctx context.Context, id string) (*model.User, error) {
	r, unlock := s.locked()
	defer unlock()
	return r.ApproveRecruiter(ctx, id)
}

func (s *Store) ListRecruiters(ctx context.Context) ([]model.RecruiterSummary, error) {
	r, unlock := s.locked()
	defer unlock()
	return r.ListRecruiters(ctx)
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	r, unlock := s.locked()
	defer unlock()
	return r.DeleteUser(ctx, id)
}

func (s *Store) CreateCompany(ctx context.Context, c *model.Company) error {
	r, unlock := s.locked()
	defer unlock()
	return r.CreateCompany(ctx, c)
}

func (s *Store) GetCompanyByOwner(ctx context.Context, ownerID string) (*model.Company, error) {
	r, unlock := s.locked()
	defer unlock()
	return r.GetCompanyByOwner(ctx, ownerID)
}

func (s *Store) DeleteCompanyByOwner(ctx context.Context, ownerID string) error {
	r, unlock := s.locked()
	defer unlock()
	return r.DeleteCompanyByOwner(ctx, ownerID)
}

func (s *Store) CreateJob(ctx context.Context, j *model.Job) error {
	r, unlock := s.locked()
	defer unlock()
	return r.CreateJob(ctx, j)
}

func (s *Store) UpdateJob(ctx context.Context, j *model.Job) error {
	r, unlock := s.locked()
	defer unlock()
	return r.UpdateJob(ctx, j)
}

func (s *Store) GetJob(ctx context.Context, id string) (*model.JobView, error) {
	r, unlock := s.locked()
	defer unlock()
	return r.GetJob(ctx, id)
}

func (s *Store) ListJobs(ctx context.Context, q store.JobQuery) ([]model.JobView, error) {
	r, unlock := s.locked()
	defer unlock()
	return r.ListJobs(ctx, q)
}

func (s *Store) DeleteJob(ctx context.Context, id string) error {
	r, unlock := s.locked()
	defer unlock()
	return r.DeleteJob(ctx, id)
}

func (s *Store) DeleteJobsByOwner(ctx context.Context, ownerID string) (int64, error) {
	r, unlock := s.locked()
	defer unlock()
	return r.DeleteJobsByOwner(ctx, ownerID)
}

func (s *Store) DeactivateExpiredJobs(ctx context.Context, now time.Time) (int64, error) {
	r, unlock := s.locked()
	defer unlock()
	return r.DeactivateExpiredJobs(ctx, now)
}

func (s *Store) UpsertProfile(ctx context.Context, p *model.Profile) error {
	r, unlock := s.locked()
	defer unlock()
	return r.UpsertProfile(ctx, p)
}

func (s *Store) GetProfile(ctx context.Context, ownerID string) (*model.Profile, error) {
	r, unlock := s.locked()
	defer unlock()
	return r.GetProfile(ctx, ownerID)
}

func (s *Store) DeleteProfile(ctx context.Context, ownerID string) error {
	r, unlock := s.locked()
	defer unlock()
	return r.DeleteProfile(ctx, ownerID)
}

func (s *Store) CreateApplication(ctx context.Context, a *model.Application) error {
	r, unlock := s.locked()
	defer unlock()
	return r.CreateApplication(ctx, a)
}

func (s *Store) GetApplication(ctx context.Context, id string) (*model.Application, error) {
	r, unlock := s.locked()
	defer unlock()
	return r.GetApplication(ctx, id)
}

func (s *Store) HasApplied(ctx context.Context, jobID, seekerID string) (bool, error) {
	r, unlock := s.locked()
	defer unlock()
	return r.HasApplied(ctx, jobID, seekerID)
}

func (s *Store) UpdateApplicationStatus(ctx context.Context, id string, status model.ApplicationStatus) (*model.Application, error) {
	r, unlock := s.locked()
	defer unlock()
	return r.UpdateApplicationStatus(ctx, id, status)
}

func (s *Store) ListApplicationsBySeeker(ctx context.Context, seekerID string) ([]model.ApplicationView, error) {
	r, unlock := s.locked()
	defer unlock()
	return r.ListApplicationsBySeeker(ctx, seekerID)
}

func (s *Store) ListApplicationsByJob(ctx context.Context, jobID string) ([]model.ApplicationView, error) {
	r, unlock := s.locked()
	defer unlock()
	return r.ListApplicationsByJob(ctx, jobID)
}

func (s *Store) DeleteApplicationsBySeeker(ctx context.Context, seekerID string) (int64, error) {
	r, unlock := s.locked()
	defer unlock()
	return r.DeleteApplicationsBySeeker(ctx, seekerID)
}
