package visibility_test

import (
	"testing"
	"time"

	"fresherjobs/marketplace-service/internal/identity"
	"fresherjobs/marketplace-service/internal/model"
	"fresherjobs/marketplace-service/internal/visibility"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func ptr(t time.Time) *time.Time { return &t }

// ── Listable ───────────────────────────────────────────────────────────────

// Exhaustive truth table over active × approved × expiry.
func TestListable_TruthTable(t *testing.T) {
	expiries := []struct {
		name   string
		at     *time.Time
		future bool
	}{
		{"unset", nil, true},
		{"future", ptr(now.Add(24 * time.Hour)), true},
		{"past", ptr(now.Add(-time.Hour)), false},
		{"exactly now", ptr(now), false},
	}
	for _, active := range []bool{true, false} {
		for _, approved := range []bool{true, false} {
			for _, exp := range expiries {
				job := &model.Job{ID: "j1", OwnerID: "r1", IsActive: active, ExpiresAt: exp.at}
				owner := &identity.Actor{ID: "r1", Role: identity.RoleRecruiter, IsApproved: approved}
				want := active && approved && exp.future
				if got := visibility.Listable(job, owner, now); got != want {
					t.Errorf("Listable(active=%v, approved=%v, expiry=%s) = %v, want %v",
						active, approved, exp.name, got, want)
				}
			}
		}
	}
}

func TestListable_NilInputs(t *testing.T) {
	owner := &identity.Actor{ID: "r1", Role: identity.RoleRecruiter, IsApproved: true}
	if visibility.Listable(nil, owner, now) {
		t.Error("Listable(nil job) should be false")
	}
	if visibility.Listable(&model.Job{OwnerID: "r1", IsActive: true}, nil, now) {
		t.Error("Listable(nil owner) should be false")
	}
}

func TestListable_OwnerMismatch(t *testing.T) {
	job := &model.Job{ID: "j1", OwnerID: "r1", IsActive: true}
	other := &identity.Actor{ID: "r2", Role: identity.RoleRecruiter, IsApproved: true}
	if visibility.Listable(job, other, now) {
		t.Error("Listable with a foreign owner actor should be false")
	}
}

// ── Bypasses / Visible ─────────────────────────────────────────────────────

func TestBypasses(t *testing.T) {
	job := &model.Job{ID: "j1", OwnerID: "r1"}
	cases := []struct {
		name string
		who  *identity.Actor
		want bool
	}{
		{"owner", &identity.Actor{ID: "r1", Role: identity.RoleRecruiter}, true},
		{"admin", &identity.Actor{ID: "a1", Role: identity.RoleAdmin, IsApproved: true}, true},
		{"other recruiter", &identity.Actor{ID: "r2", Role: identity.RoleRecruiter, IsApproved: true}, false},
		{"seeker", &identity.Actor{ID: "s1", Role: identity.RoleJobSeeker, IsApproved: true}, false},
		{"anonymous", nil, false},
	}
	for _, c := range cases {
		if got := visibility.Bypasses(c.who, job); got != c.want {
			t.Errorf("Bypasses(%s) = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestVisible_HiddenJobOnlyForOwnerAndAdmin(t *testing.T) {
	job := &model.Job{ID: "j1", OwnerID: "r1", IsActive: false}
	owner := &identity.Actor{ID: "r1", Role: identity.RoleRecruiter}
	if !visibility.Visible(owner, job, owner, now) {
		t.Error("owner should see their inactive job")
	}
	if visibility.Visible(nil, job, owner, now) {
		t.Error("anonymous caller should not see an inactive job")
	}
	admin := &identity.Actor{ID: "a1", Role: identity.RoleAdmin, IsApproved: true}
	if !visibility.Visible(admin, job, owner, now) {
		t.Error("admin should see every job")
	}
}
