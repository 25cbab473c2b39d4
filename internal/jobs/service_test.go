package jobs_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fresherjobs/marketplace-service/internal/apperr"
	"fresherjobs/marketplace-service/internal/authz"
	"fresherjobs/marketplace-service/internal/identity"
	"fresherjobs/marketplace-service/internal/jobs"
	"fresherjobs/marketplace-service/internal/metrics"
	"fresherjobs/marketplace-service/internal/model"
	"fresherjobs/marketplace-service/internal/store/memory"
)

type fixture struct {
	st       *memory.Store
	svc      *jobs.Service
	approved *identity.Actor
	pending  *identity.Actor
	stranger *identity.Actor
	seeker   *identity.Actor
	admin    *identity.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := memory.New()
	mk := func(name string, role identity.Role, ok bool) *identity.Actor {
		u := &model.User{Name: name, Email: name + "@x.io", Role: role, IsApproved: ok}
		require.NoError(t, st.CreateUser(context.Background(), u))
		return u.Actor()
	}
	return &fixture{
		st:       st,
		svc:      jobs.NewService(st, authz.NewGuard(nil, nil), metrics.New()),
		approved: mk("approved", identity.RoleRecruiter, true),
		pending:  mk("pending", identity.RoleRecruiter, false),
		stranger: mk("stranger", identity.RoleRecruiter, true),
		seeker:   mk("seeker", identity.RoleJobSeeker, true),
		admin:    mk("admin", identity.RoleAdmin, true),
	}
}

func input(title string) jobs.Input {
	return jobs.Input{Title: title, Description: "desc", JobType: model.JobTypeFullTime, Location: "Pune"}
}

func TestService_Create(t *testing.T) {
	t.Run("Should create an active job for any recruiter", func(t *testing.T) {
		f := newFixture(t)
		v, err := f.svc.Create(context.Background(), f.pending, input("Go Dev"))
		require.NoError(t, err)
		assert.True(t, v.IsActive)
		assert.Equal(t, f.pending.ID, v.OwnerID)
	})

	t.Run("Should reject seekers and admins", func(t *testing.T) {
		f := newFixture(t)
		for _, a := range []*identity.Actor{f.seeker, f.admin} {
			_, err := f.svc.Create(context.Background(), a, input("x"))
			assert.ErrorIs(t, err, apperr.ErrForbidden)
		}
	})

	t.Run("Should only accept fresher jobs", func(t *testing.T) {
		f := newFixture(t)
		in := input("Senior")
		in.ExperienceRequired = 2
		_, err := f.svc.Create(context.Background(), f.approved, in)
		require.Error(t, err)
		assert.True(t, apperr.IsValidation(err))
		assert.Equal(t, "only fresher jobs (0-1 year experience) are allowed", err.Error())
	})

	t.Run("Should validate required fields and job type", func(t *testing.T) {
		f := newFixture(t)
		in := input("")
		_, err := f.svc.Create(context.Background(), f.approved, in)
		assert.EqualError(t, err, "title is required")
		in = input("ok")
		in.JobType = "CONTRACT"
		_, err = f.svc.Create(context.Background(), f.approved, in)
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("Should reject an inverted salary range", func(t *testing.T) {
		f := newFixture(t)
		lo, hi := 50000.0, 10000.0
		in := input("Go Dev")
		in.SalaryMin, in.SalaryMax = &lo, &hi
		_, err := f.svc.Create(context.Background(), f.approved, in)
		assert.True(t, apperr.IsValidation(err))
	})
}

func TestService_Visibility(t *testing.T) {
	t.Run("Should hide an unapproved recruiter's job until approval", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		v, err := f.svc.Create(ctx, f.pending, input("Hidden"))
		require.NoError(t, err)

		list, err := f.svc.ListPublic(ctx, model.JobFilter{})
		require.NoError(t, err)
		assert.Empty(t, list)
		_, err = f.svc.Get(ctx, f.seeker, v.ID)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
		_, err = f.svc.Get(ctx, nil, v.ID)
		assert.ErrorIs(t, err, apperr.ErrNotFound)

		_, err = f.svc.Get(ctx, f.pending, v.ID)
		assert.NoError(t, err, "owner bypasses visibility")
		_, err = f.svc.Get(ctx, f.admin, v.ID)
		assert.NoError(t, err, "admin bypasses visibility")

		_, err = f.st.ApproveRecruiter(ctx, f.pending.ID)
		require.NoError(t, err)
		list, err = f.svc.ListPublic(ctx, model.JobFilter{})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, v.ID, list[0].ID)
	})

	t.Run("Should hide expired jobs even before the sweep runs", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		past := time.Now().Add(-time.Minute)
		in := input("Old")
		in.ExpiresAt = &past
		v, err := f.svc.Create(ctx, f.approved, in)
		require.NoError(t, err)
		list, err := f.svc.ListPublic(ctx, model.JobFilter{})
		require.NoError(t, err)
		assert.Empty(t, list)
		_, err = f.svc.Get(ctx, f.seeker, v.ID)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("Should apply listing filters", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		_, err := f.svc.Create(ctx, f.approved, input("Go Dev"))
		require.NoError(t, err)
		in := input("Java Dev")
		in.JobType = model.JobTypeInternship
		in.Location = "Chennai"
		_, err = f.svc.Create(ctx, f.approved, in)
		require.NoError(t, err)

		list, err := f.svc.ListPublic(ctx, model.JobFilter{Query: "java"})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Java Dev", list[0].Title)
		list, err = f.svc.ListPublic(ctx, model.JobFilter{JobType: model.JobTypeFullTime, Location: "pune"})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Go Dev", list[0].Title)
	})
}

func TestService_UpdateDelete(t *testing.T) {
	t.Run("Should let the owner and an admin update", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		v, err := f.svc.Create(ctx, f.approved, input("Go Dev"))
		require.NoError(t, err)
		got, err := f.svc.Update(ctx, f.approved, v.ID, input("Go Developer"))
		require.NoError(t, err)
		assert.Equal(t, "Go Developer", got.Title)
		assert.Equal(t, v.PostedAt, got.PostedAt)
		_, err = f.svc.Update(ctx, f.admin, v.ID, input("By admin"))
		assert.NoError(t, err)
		_, err = f.svc.Update(ctx, f.stranger, v.ID, input("Hijack"))
		assert.ErrorIs(t, err, apperr.ErrForbidden)
	})

	t.Run("Should cascade applications on delete", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		v, err := f.svc.Create(ctx, f.approved, input("Go Dev"))
		require.NoError(t, err)
		require.NoError(t, f.st.CreateApplication(ctx, &model.Application{JobID: v.ID, SeekerID: f.seeker.ID}))
		assert.ErrorIs(t, f.svc.Delete(ctx, f.stranger, v.ID), apperr.ErrForbidden)
		require.NoError(t, f.svc.Delete(ctx, f.approved, v.ID))
		apps, err := f.st.ListApplicationsBySeeker(ctx, f.seeker.ID)
		require.NoError(t, err)
		assert.Empty(t, apps)
		assert.ErrorIs(t, f.svc.Delete(ctx, f.approved, v.ID), apperr.ErrNotFound)
	})
}

func TestService_Admin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, err := f.svc.Create(ctx, f.pending, input("A"))
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, f.approved, input("B"))
	require.NoError(t, err)

	all, err := f.svc.ListAll(ctx, f.admin)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	_, err = f.svc.ListAll(ctx, f.approved)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	assert.ErrorIs(t, f.svc.Remove(ctx, f.approved, a.ID), apperr.ErrForbidden)
	require.NoError(t, f.svc.Remove(ctx, f.admin, a.ID))
	mine, err := f.svc.ListMine(ctx, f.pending)
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestService_ListMine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Create(ctx, f.pending, input("Mine"))
	require.NoError(t, err)

	mine, err := f.svc.ListMine(ctx, f.pending)
	require.NoError(t, err)
	assert.Len(t, mine, 1, "hidden jobs are listed to their owner")
	for _, a := range []*identity.Actor{f.seeker, f.admin} {
		_, err = f.svc.ListMine(ctx, a)
		assert.ErrorIs(t, err, apperr.ErrForbidden, "role %s", a.Role)
	}
	_, err = f.svc.ListMine(ctx, nil)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestService_DeactivateExpired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	past := time.Now().Add(-time.Hour)
	in := input("Old")
	in.ExpiresAt = &past
	v, err := f.svc.Create(ctx, f.approved, in)
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, f.approved, input("Fresh"))
	require.NoError(t, err)

	n, err := f.svc.DeactivateExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	got, err := f.svc.Get(ctx, f.approved, v.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}
