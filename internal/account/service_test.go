package account_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fresherjobs/marketplace-service/internal/account"
	"fresherjobs/marketplace-service/internal/apperr"
	"fresherjobs/marketplace-service/internal/authz"
	"fresherjobs/marketplace-service/internal/identity"
	"fresherjobs/marketplace-service/internal/model"
	"fresherjobs/marketplace-service/internal/store"
	"fresherjobs/marketplace-service/internal/store/memory"
)

type world struct {
	st      *memory.Store
	rec     *model.User
	other   *model.User
	seeker  *model.User
	seeker2 *model.User
	admin   *model.User
	jobs    []*model.Job
	keep    *model.Job
}

func build(t *testing.T) *world {
	t.Helper()
	ctx := context.Background()
	w := &world{st: memory.New()}
	mk := func(name string, role identity.Role) *model.User {
		u := &model.User{Name: name, Email: name + "@x.io", Role: role, IsApproved: true}
		require.NoError(t, w.st.CreateUser(ctx, u))
		return u
	}
	w.rec = mk("rec", identity.RoleRecruiter)
	w.other = mk("other", identity.RoleRecruiter)
	w.seeker = mk("seeker", identity.RoleJobSeeker)
	w.seeker2 = mk("seeker2", identity.RoleJobSeeker)
	w.admin = mk("admin", identity.RoleAdmin)
	require.NoError(t, w.st.CreateCompany(ctx, &model.Company{OwnerID: w.rec.ID, Name: "Acme"}))
	require.NoError(t, w.st.UpsertProfile(ctx, &model.Profile{OwnerID: w.seeker.ID, CollegeName: "NIT"}))
	for _, title := range []string{"A", "B"} {
		j := &model.Job{OwnerID: w.rec.ID, Title: title, IsActive: true}
		require.NoError(t, w.st.CreateJob(ctx, j))
		w.jobs = append(w.jobs, j)
	}
	w.keep = &model.Job{OwnerID: w.other.ID, Title: "Keep", IsActive: true}
	require.NoError(t, w.st.CreateJob(ctx, w.keep))
	for _, j := range append(w.jobs, w.keep) {
		for _, s := range []*model.User{w.seeker, w.seeker2} {
			require.NoError(t, w.st.CreateApplication(ctx, &model.Application{JobID: j.ID, SeekerID: s.ID}))
		}
	}
	return w
}

func TestService_Delete(t *testing.T) {
	svc := func(w *world) *account.Service { return account.NewService(w.st, authz.NewGuard(nil, nil)) }

	t.Run("Should remove a recruiter with every job and application to those jobs", func(t *testing.T) {
		w := build(t)
		ctx := context.Background()
		res, err := svc(w).Delete(ctx, w.rec.Actor(), w.rec.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), res.JobsDeleted)
		assert.Equal(t, int64(4), res.ApplicationsDeleted)

		_, err = w.st.GetUser(ctx, w.rec.ID)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
		_, err = w.st.GetCompanyByOwner(ctx, w.rec.ID)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
		for _, j := range w.jobs {
			_, err := w.st.GetJob(ctx, j.ID)
			assert.ErrorIs(t, err, apperr.ErrNotFound)
			apps, err := w.st.ListApplicationsByJob(ctx, j.ID)
			require.NoError(t, err)
			assert.Empty(t, apps)
		}
		apps, err := w.st.ListApplicationsByJob(ctx, w.keep.ID)
		require.NoError(t, err)
		assert.Len(t, apps, 2, "other recruiters' applications survive")
	})

	t.Run("Should remove a seeker's profile and applications and leave jobs", func(t *testing.T) {
		w := build(t)
		ctx := context.Background()
		res, err := svc(w).Delete(ctx, w.seeker.Actor(), w.seeker.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(3), res.ApplicationsDeleted)
		_, err = w.st.GetProfile(ctx, w.seeker.ID)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
		mine, err := w.st.ListApplicationsBySeeker(ctx, w.seeker.ID)
		require.NoError(t, err)
		assert.Empty(t, mine)
		for _, j := range append(w.jobs, w.keep) {
			_, err := w.st.GetJob(ctx, j.ID)
			assert.NoError(t, err)
		}
		others, err := w.st.ListApplicationsBySeeker(ctx, w.seeker2.ID)
		require.NoError(t, err)
		assert.Len(t, others, 3)
	})

	t.Run("Should refuse to delete someone else or an admin", func(t *testing.T) {
		w := build(t)
		ctx := context.Background()
		_, err := svc(w).Delete(ctx, w.seeker.Actor(), w.seeker2.ID)
		assert.ErrorIs(t, err, apperr.ErrForbidden)
		_, err = svc(w).Delete(ctx, w.admin.Actor(), w.admin.ID)
		assert.ErrorIs(t, err, apperr.ErrForbidden)
		_, err = svc(w).Delete(ctx, nil, w.seeker.ID)
		assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
	})
}

// failingStore fails the last step of the cascade to prove nothing is committed.
type failingStore struct{ *memory.Store }

func (f failingStore) InTx(ctx context.Context, fn func(store.Repository) error) error {
	return f.Store.InTx(ctx, func(r store.Repository) error {
		return fn(failingRepo{r})
	})
}

type failingRepo struct{ store.Repository }

func (failingRepo) DeleteUser(context.Context, string) error { return errors.New("disk full") }

func TestService_Delete_AllOrNothing(t *testing.T) {
	w := build(t)
	ctx := context.Background()
	svc := account.NewService(failingStore{w.st}, authz.NewGuard(nil, nil))
	_, err := svc.Delete(ctx, w.rec.Actor(), w.rec.ID)
	require.Error(t, err)

	for _, j := range w.jobs {
		_, err := w.st.GetJob(ctx, j.ID)
		assert.NoError(t, err, "jobs survive a failed cascade")
		apps, err := w.st.ListApplicationsByJob(ctx, j.ID)
		require.NoError(t, err)
		assert.Len(t, apps, 2)
	}
	_, err = w.st.GetCompanyByOwner(ctx, w.rec.ID)
	assert.NoError(t, err)
}
