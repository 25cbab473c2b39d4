package memory_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fresherjobs/marketplace-service/internal/apperr"
	"fresherjobs/marketplace-service/internal/identity"
	"fresherjobs/marketplace-service/internal/model"
	"fresherjobs/marketplace-service/internal/store"
	"fresherjobs/marketplace-service/internal/store/memory"
)

func seed(t *testing.T) (*memory.Store, *model.User, *model.User, *model.Job) {
	t.Helper()
	ctx := context.Background()
	s := memory.New()
	rec := &model.User{Name: "R", Email: "r@x.io", Role: identity.RoleRecruiter}
	require.NoError(t, s.CreateUser(ctx, rec))
	seeker := &model.User{Name: "S", Email: "s@x.io", Role: identity.RoleJobSeeker, IsApproved: true}
	require.NoError(t, s.CreateUser(ctx, seeker))
	job := &model.Job{OwnerID: rec.ID, Title: "Go intern", IsActive: true, JobType: model.JobTypeInternship}
	require.NoError(t, s.CreateJob(ctx, job))
	return s, rec, seeker, job
}

func TestStore_CreateApplication(t *testing.T) {
	t.Run("Should reject a duplicate (job, seeker) pair with Conflict", func(t *testing.T) {
		s, _, seeker, job := seed(t)
		ctx := context.Background()
		require.NoError(t, s.CreateApplication(ctx, &model.Application{JobID: job.ID, SeekerID: seeker.ID}))
		err := s.CreateApplication(ctx, &model.Application{JobID: job.ID, SeekerID: seeker.ID})
		assert.ErrorIs(t, err, apperr.ErrConflict)
		apps, err := s.ListApplicationsByJob(ctx, job.ID)
		require.NoError(t, err)
		assert.Len(t, apps, 1)
	})

	t.Run("Should let exactly one of many concurrent applies win", func(t *testing.T) {
		s, _, seeker, job := seed(t)
		ctx := context.Background()
		var wins, conflicts atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < 32; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := s.CreateApplication(ctx, &model.Application{JobID: job.ID, SeekerID: seeker.ID})
				switch {
				case err == nil:
					wins.Add(1)
				case errors.Is(err, apperr.ErrConflict):
					conflicts.Add(1)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), wins.Load())
		assert.Equal(t, int32(31), conflicts.Load())
	})

	t.Run("Should always start at APPLIED", func(t *testing.T) {
		s, _, seeker, job := seed(t)
		a := &model.Application{JobID: job.ID, SeekerID: seeker.ID, Status: model.StatusHired}
		require.NoError(t, s.CreateApplication(context.Background(), a))
		assert.Equal(t, model.StatusApplied, a.Status)
		assert.False(t, a.AppliedAt.IsZero())
	})
}

func TestStore_InTx(t *testing.T) {
	t.Run("Should discard every change when the callback fails", func(t *testing.T) {
		s, rec, _, job := seed(t)
		ctx := context.Background()
		boom := errors.New("boom")
		err := s.InTx(ctx, func(r store.Repository) error {
			if _, err := r.DeleteJobsByOwner(ctx, rec.ID); err != nil {
				return err
			}
			if err := r.DeleteUser(ctx, rec.ID); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)
		_, err = s.GetJob(ctx, job.ID)
		assert.NoError(t, err, "job must survive a rolled back transaction")
		_, err = s.GetUser(ctx, rec.ID)
		assert.NoError(t, err)
	})

	t.Run("Should commit when the callback succeeds", func(t *testing.T) {
		s, rec, _, job := seed(t)
		ctx := context.Background()
		require.NoError(t, s.InTx(ctx, func(r store.Repository) error {
			_, err := r.DeleteJobsByOwner(ctx, rec.ID)
			return err
		}))
		_, err := s.GetJob(ctx, job.ID)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestStore_DeleteJobCascadesApplications(t *testing.T) {
	s, _, seeker, job := seed(t)
	ctx := context.Background()
	app := &model.Application{JobID: job.ID, SeekerID: seeker.ID}
	require.NoError(t, s.CreateApplication(ctx, app))
	require.NoError(t, s.DeleteJob(ctx, job.ID))
	_, err := s.GetApplication(ctx, app.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	applied, err := s.HasApplied(ctx, job.ID, seeker.ID)
	require.NoError(t, err)
	assert.False(t, applied)
}

func TestStore_ApproveRecruiter(t *testing.T) {
	s, rec, seeker, _ := seed(t)
	ctx := context.Background()
	u, err := s.ApproveRecruiter(ctx, rec.ID)
	require.NoError(t, err)
	assert.True(t, u.IsApproved)
	_, err = s.ApproveRecruiter(ctx, seeker.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound, "only recruiter accounts can be approved")
}

func TestStore_DeactivateExpiredJobs(t *testing.T) {
	s, rec, _, _ := seed(t)
	ctx := context.Background()
	past := time.Now().Add(-48 * time.Hour)
	expired := &model.Job{OwnerID: rec.ID, Title: "Old", IsActive: true, ExpiresAt: &past}
	require.NoError(t, s.CreateJob(ctx, expired))
	n, err := s.DeactivateExpiredJobs(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	got, err := s.GetJob(ctx, expired.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestStore_ListJobsFilter(t *testing.T) {
	s, rec, _, _ := seed(t)
	ctx := context.Background()
	require.NoError(t, s.CreateJob(ctx, &model.Job{OwnerID: rec.ID, Title: "Backend", Location: "Pune", JobType: model.JobTypeFullTime, IsActive: true}))
	got, err := s.ListJobs(ctx, store.JobQuery{Filter: model.JobFilter{Location: "pune"}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Backend", got[0].Title)
	got, err = s.ListJobs(ctx, store.JobQuery{Filter: model.JobFilter{JobType: model.JobTypeInternship}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Go intern", got[0].Title)
}
