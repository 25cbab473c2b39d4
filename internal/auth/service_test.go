package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"fresherjobs/marketplace-service/internal/apperr"
	"fresherjobs/marketplace-service/internal/identity"
	"fresherjobs/marketplace-service/internal/store/memory"
)

func newTestService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	st := memory.New()
	svc := NewService(st, NewTokens("test-secret", time.Hour))
	svc.cost = bcrypt.MinCost
	return svc, st
}

func TestService_Register(t *testing.T) {
	t.Run("Should register an approved seeker and return a usable token", func(t *testing.T) {
		svc, _ := newTestService(t)
		ctx := context.Background()
		sess, err := svc.Register(ctx, RegisterInput{Name: "Asha", Email: "Asha@X.io ", Password: "secret1", Role: identity.RoleJobSeeker})
		require.NoError(t, err)
		assert.Equal(t, "Bearer", sess.TokenType)
		assert.Equal(t, "asha@x.io", sess.Email)
		assert.True(t, sess.IsApproved)

		actor, err := svc.Authenticate(ctx, sess.Token)
		require.NoError(t, err)
		assert.Equal(t, sess.UserID, actor.ID)
		assert.Equal(t, identity.RoleJobSeeker, actor.Role)
	})

	t.Run("Should create an unapproved recruiter with their company", func(t *testing.T) {
		svc, st := newTestService(t)
		ctx := context.Background()
		sess, err := svc.Register(ctx, RegisterInput{
			Name: "Ravi", Email: "ravi@acme.io", Password: "secret1", Role: identity.RoleRecruiter,
			CompanyName: "Acme", Website: "https://acme.io",
		})
		require.NoError(t, err)
		assert.False(t, sess.IsApproved)
		c, err := st.GetCompanyByOwner(ctx, sess.UserID)
		require.NoError(t, err)
		assert.Equal(t, "Acme", c.Name)
	})

	t.Run("Should require a company name for recruiters", func(t *testing.T) {
		svc, st := newTestService(t)
		_, err := svc.Register(context.Background(), RegisterInput{Name: "R", Email: "r@x.io", Password: "secret1", Role: identity.RoleRecruiter})
		assert.True(t, apperr.IsValidation(err))
		_, err = st.GetUserByEmail(context.Background(), "r@x.io")
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("Should refuse admin self-registration", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.Register(context.Background(), RegisterInput{Name: "A", Email: "a@x.io", Password: "secret1", Role: identity.RoleAdmin})
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("Should report a duplicate email as Conflict", func(t *testing.T) {
		svc, _ := newTestService(t)
		in := RegisterInput{Name: "A", Email: "dup@x.io", Password: "secret1", Role: identity.RoleJobSeeker}
		_, err := svc.Register(context.Background(), in)
		require.NoError(t, err)
		in.Email = "DUP@x.io"
		_, err = svc.Register(context.Background(), in)
		assert.ErrorIs(t, err, apperr.ErrConflict)
	})
}

func TestService_Login(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@x.io", Password: "secret1", Role: identity.RoleJobSeeker})
	require.NoError(t, err)

	t.Run("Should log in with the right password", func(t *testing.T) {
		sess, err := svc.Login(ctx, LoginInput{Email: "A@x.io", Password: "secret1"})
		require.NoError(t, err)
		assert.NotEmpty(t, sess.Token)
	})

	t.Run("Should not distinguish a wrong password from an unknown email", func(t *testing.T) {
		_, errPw := svc.Login(ctx, LoginInput{Email: "a@x.io", Password: "nope"})
		_, errEmail := svc.Login(ctx, LoginInput{Email: "b@x.io", Password: "secret1"})
		assert.ErrorIs(t, errPw, apperr.ErrUnauthenticated)
		assert.ErrorIs(t, errEmail, apperr.ErrUnauthenticated)
		assert.Equal(t, errPw.Error(), errEmail.Error())
	})
}

func TestService_Authenticate(t *testing.T) {
	t.Run("Should reflect approval changes without a new token", func(t *testing.T) {
		svc, st := newTestService(t)
		ctx := context.Background()
		sess, err := svc.Register(ctx, RegisterInput{Name: "R", Email: "r@x.io", Password: "secret1", Role: identity.RoleRecruiter, CompanyName: "Acme"})
		require.NoError(t, err)
		_, err = st.ApproveRecruiter(ctx, sess.UserID)
		require.NoError(t, err)
		actor, err := svc.Authenticate(ctx, sess.Token)
		require.NoError(t, err)
		assert.True(t, actor.IsApproved)
	})

	t.Run("Should reject tampered, foreign and expired tokens", func(t *testing.T) {
		svc, st := newTestService(t)
		ctx := context.Background()
		sess, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@x.io", Password: "secret1", Role: identity.RoleJobSeeker})
		require.NoError(t, err)

		_, err = svc.Authenticate(ctx, sess.Token+"x")
		assert.ErrorIs(t, err, apperr.ErrUnauthenticated)

		foreign, err := NewTokens("other-secret", time.Hour).Issue(sess.UserID)
		require.NoError(t, err)
		_, err = svc.Authenticate(ctx, foreign)
		assert.ErrorIs(t, err, apperr.ErrUnauthenticated)

		old := NewTokens("test-secret", time.Minute)
		old.now = func() time.Time { return time.Now().Add(-time.Hour) }
		expired, err := old.Issue(sess.UserID)
		require.NoError(t, err)
		_, err = svc.Authenticate(ctx, expired)
		assert.ErrorIs(t, err, apperr.ErrUnauthenticated)

		_, err = svc.Authenticate(ctx, "")
		assert.ErrorIs(t, err, apperr.ErrUnauthenticated)

		require.NoError(t, st.DeleteUser(ctx, sess.UserID))
		_, err = svc.Authenticate(ctx, sess.Token)
		assert.ErrorIs(t, err, apperr.ErrUnauthenticated, "deleted accounts lose access")
	})
}

func TestService_EnsureAdmin(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	require.NoError(t, svc.EnsureAdmin(ctx, "Admin", "admin@x.io", "pw123456"))
	require.NoError(t, svc.EnsureAdmin(ctx, "Admin", "admin@x.io", "pw123456"))
	u, err := st.GetUserByEmail(ctx, "admin@x.io")
	require.NoError(t, err)
	assert.Equal(t, identity.RoleAdmin, u.Role)
	sess, err := svc.Login(ctx, LoginInput{Email: "admin@x.io", Password: "pw123456"})
	require.NoError(t, err)
	assert.Equal(t, identity.RoleAdmin, sess.Role)
}
