// Package store declares the persistence boundary of the engine.
//
// Two implementations exist: postgres (production) and memory (development
// mode and tests). Both enforce the (job, seeker) uniqueness of applications at
// write time and run InTx callbacks atomically.
package store

import (
	"context"
	"time"

	"fresherjobs/marketplace-service/internal/model"
)

// JobQuery selects jobs for listings. Zero values disable a criterion.
type JobQuery struct {
	Filter model.JobFilter
	// OwnerID restricts the result to one recruiter's jobs.
	OwnerID string
	// ActiveOnly drops inactive jobs before visibility is evaluated.
	ActiveOnly bool
}

// Repository is the set of operations available both directly and inside a
// transaction.
//
// Lookups of absent rows return an error matching apperr.ErrNotFound; writes
// rejected by a uniqueness rule return an error matching apperr.ErrConflict.
type Repository interface {
	CreateUser(ctx context.Context, u *model.User) error
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	// ApproveRecruiter sets is_approved on a recruiter account. It returns
	// apperr.ErrNotFound when id does not name a recruiter.
	ApproveRecruiter(ctx context.Context, id string) (*model.User, error)
	ListRecruiters(ctx context.Context) ([]model.RecruiterSummary, error)
	DeleteUser(ctx context.Context, id string) error

	CreateCompany(ctx context.Context, c *model.Company) error
	GetCompanyByOwner(ctx context.Context, ownerID string) (*model.Company, error)
	DeleteCompanyByOwner(ctx context.Context, ownerID string) error

	CreateJob(ctx context.Context, j *model.Job) error
	UpdateJob(ctx context.Context, j *model.Job) error
	GetJob(ctx context.Context, id string) (*model.JobView, error)
	ListJobs(ctx context.Context, q JobQuery) ([]model.JobView, error)
	// DeleteJob removes a job together with its applications.
	DeleteJob(ctx context.Context, id string) error
	// DeleteJobsByOwner removes every job of ownerID together with their applications.
	DeleteJobsByOwner(ctx context.Context, ownerID string) (int64, error)
	DeactivateExpiredJobs(ctx context.Context, now time.Time) (int64, error)

	UpsertProfile(ctx context.Context, p *model.Profile) error
	GetProfile(ctx context.Context, ownerID string) (*model.Profile, error)
	DeleteProfile(ctx context.Context, ownerID string) error

	// CreateApplication inserts a at APPLIED. A second application for the same
	// (JobID, SeekerID) pair fails with apperr.ErrConflict and writes nothing.
	CreateApplication(ctx context.Context, a *model.Application) error
	GetApplication(ctx context.Context, id string) (*model.Application, error)
	HasApplied(ctx context.Context, jobID, seekerID string) (bool, error)
	UpdateApplicationStatus(ctx context.Context, id string, status model.ApplicationStatus) (*model.Application, error)
	ListApplicationsBySeeker(ctx context.Context, seekerID string) ([]model.ApplicationView, error)
	ListApplicationsByJob(ctx context.Context, jobID string) ([]model.ApplicationView, error)
	DeleteApplicationsBySeeker(ctx context.Context, seekerID string) (int64, error)
}

// Store is a Repository that can also run a group of operations atomically.
type Store interface {
	Repository
	// InTx runs fn in a transaction. Changes made through the Repository passed
	// to fn become visible to other callers only if fn returns nil.
	InTx(ctx context.Context, fn func(Repository) error) error
}
