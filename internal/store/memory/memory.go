// Package memory is an in-process store.Store used in development mode and tests.
//
// A single mutex serialises every operation. InTx works on a copy of the state
// and swaps it in only when the callback succeeds, so partial transactions are
// never observable.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"fresherjobs/marketplace-service/internal/apperr"
	"fresherjobs/marketplace-service/internal/identity"
	"fresherjobs/marketplace-service/internal/model"
	"fresherjobs/marketplace-service/internal/store"
)

type appKey struct{ jobID, seekerID string }

type state struct {
	users     map[string]model.User
	companies map[string]model.Company // by owner id
	jobs      map[string]model.Job
	profiles  map[string]model.Profile // by owner id
	apps      map[string]model.Application
	appIndex  map[appKey]string
}

func newState() *state {
	return &state{
		users:     map[string]model.User{},
		companies: map[string]model.Company{},
		jobs:      map[string]model.Job{},
		profiles:  map[string]model.Profile{},
		apps:      map[string]model.Application{},
		appIndex:  map[appKey]string{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.companies {
		c.companies[k] = v
	}
	for k, v := range s.jobs {
		c.jobs[k] = v
	}
	for k, v := range s.profiles {
		c.profiles[k] = v
	}
	for k, v := range s.apps {
		c.apps[k] = v
	}
	for k, v := range s.appIndex {
		c.appIndex[k] = v
	}
	return c
}

// Store implements store.Store.
type Store struct {
	mu  sync.Mutex
	st  *state
	now func() time.Time
}

var _ store.Store = (*Store)(nil)

// New returns an empty Store.
func New() *Store {
	return &Store{st: newState(), now: func() time.Time { return time.Now().UTC() }}
}

// InTx runs fn against a private copy of the state and commits it on success.
func (s *Store) InTx(ctx context.Context, fn func(store.Repository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	work := s.st.clone()
	if err := fn(&repo{st: work, now: s.now}); err != nil {
		return err
	}
	s.st = work
	return nil
}

func (s *Store) locked() (*repo, func()) {
	s.mu.Lock()
	return &repo{st: s.st, now: s.now}, s.mu.Unlock
}

// repo implements store.Repository over a state it does not lock.
type repo struct {
	st  *state
	now func() time.Time
}

// ─── Users ────────────────────────────────────────────────────────────────────

func (r *repo) CreateUser(_ context.Context, u *model.User) error {
	for _, existing := range r.st.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return apperr.Conflict("email already registered")
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = r.now()
	}
	r.st.users[u.ID] = *u
	return nil
}

func (r *repo) GetUser(_ context.Context, id string) (*model.User, error) {
	u, ok := r.st.users[id]
	if !ok {
		return nil, apperr.NotFound("user")
	}
	return &u, nil
}

func (r *repo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.st.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, apperr.NotFound("user")
}

func (r *repo) ApproveRecruiter(_ context.Context, id string) (*model.User, error) {
	u, ok := r.st.users[id]
	if !ok || u.Role != identity.RoleRecruiter {
		return nil, apperr.NotFound("recruiter")
	}
	u.IsApproved = true
	r.st.users[id] = u
	return &u, nil
}

func (r *repo) ListRecruiters(_ context.Context) ([]model.RecruiterSummary, error) {
	out := make([]model.RecruiterSummary, 0)
	for _, u := range r.st.users {
		if u.Role != identity.RoleRecruiter {
			continue
		}
		sum := model.RecruiterSummary{ID: u.ID, Name: u.Name, Email: u.Email, IsApproved: u.IsApproved, CreatedAt: u.CreatedAt}
		if c, ok := r.st.companies[u.ID]; ok {
			name := c.Name
			sum.CompanyName = &name
		}
		out = append(out, sum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *repo) DeleteUser(_ context.Context, id string) error {
	if _, ok := r.st.users[id]; !ok {
		return apperr.NotFound("user")
	}
	delete(r.st.users, id)
	return nil
}

// ─── Companies ────────────────────────────────────────────────────────────────

func (r *repo) CreateCompany(_ context.Context, c *model.Company) error {
	if _, ok := r.st.companies[c.OwnerID]; ok {
		return apperr.Conflict("company already exists for this recruiter")
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	r.st.companies[c.OwnerID] = *c
	return nil
}

func (r *repo) GetCompanyByOwner(_ context.Context, ownerID string) (*model.Company, error) {
	c, ok := r.st.companies[ownerID]
	if !ok {
		return nil, apperr.NotFound("company")
	}
	return &c, nil
}

func (r *repo) DeleteCompanyByOwner(_ context.Context, ownerID string) error {
	delete(r.st.companies, ownerID)
	return nil
}

// ─── Jobs ─────────────────────────────────────────────────────────────────────

func (r *repo) CreateJob(_ context.Context, j *model.Job) error {
	if _, ok := r.st.users[j.OwnerID]; !ok {
		return apperr.NotFound("recruiter")
	}
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	if j.PostedAt.IsZero() {
		j.PostedAt = r.now()
	}
	r.st.jobs[j.ID] = *j
	return nil
}

func (r *repo) UpdateJob(_ context.Context, j *model.Job) error {
	cur, ok := r.st.jobs[j.ID]
	if !ok {
		return apperr.NotFound("job")
	}
	j.OwnerID = cur.OwnerID
	j.PostedAt = cur.PostedAt
	r.st.jobs[j.ID] = *j
	return nil
}

func (r *repo) view(j model.Job) model.JobView {
	v := model.JobView{Job: j}
	if c, ok := r.st.companies[j.OwnerID]; ok {
		v.CompanyName, v.CompanyWebsite, v.CompanyLogoURL = c.Name, c.Website, c.LogoURL
	}
	if u, ok := r.st.users[j.OwnerID]; ok {
		v.OwnerApproved = u.IsApproved
	}
	return v
}

func (r *repo) GetJob(_ context.Context, id string) (*model.JobView, error) {
	j, ok := r.st.jobs[id]
	if !ok {
		return nil, apperr.NotFound("job")
	}
	v := r.view(j)
	return &v, nil
}

func matches(j model.Job, q store.JobQuery) bool {
	if q.OwnerID != "" && j.OwnerID != q.OwnerID {
		return false
	}
	if q.ActiveOnly && !j.IsActive {
		return false
	}
	f := q.Filter
	if f.Query != "" {
		needle := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(j.Title), needle) &&
			!strings.Contains(strings.ToLower(j.SkillsRequired), needle) {
			return false
		}
	}
	if f.Location != "" && !strings.Contains(strings.ToLower(j.Location), strings.ToLower(f.Location)) {
		return false
	}
	if f.JobType != "" && j.JobType != f.JobType {
		return false
	}
	return true
}

func (r *repo) ListJobs(_ context.Context, q store.JobQuery) ([]model.JobView, error) {
	out := make([]model.JobView, 0)
	for _, j := range r.st.jobs {
		if matches(j, q) {
			out = append(out, r.view(j))
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].PostedAt.After(out[k].PostedAt) })
	return out, nil
}

func (r *repo) deleteApplicationsWhere(pred func(model.Application) bool) int64 {
	var n int64
	for id, a := range r.st.apps {
		if pred(a) {
			delete(r.st.apps, id)
			delete(r.st.appIndex, appKey{a.JobID, a.SeekerID})
			n++
		}
	}
	return n
}

func (r *repo) DeleteJob(_ context.Context, id string) error {
	if _, ok := r.st.jobs[id]; !ok {
		return apperr.NotFound("job")
	}
	r.deleteApplicationsWhere(func(a model.Application) bool { return a.JobID == id })
	delete(r.st.jobs, id)
	return nil
}

func (r *repo) DeleteJobsByOwner(_ context.Context, ownerID string) (int64, error) {
	var n int64
	for id, j := range r.st.jobs {
		if j.OwnerID != ownerID {
			continue
		}
		r.deleteApplicationsWhere(func(a model.Application) bool { return a.JobID == id })
		delete(r.st.jobs, id)
		n++
	}
	return n, nil
}

func (r *repo) DeactivateExpiredJobs(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for id, j := range r.st.jobs {
		if j.IsActive && j.ExpiresAt != nil && !j.ExpiresAt.After(now) {
			j.IsActive = false
			r.st.jobs[id] = j
			n++
		}
	}
	return n, nil
}

// ─── Profiles ─────────────────────────────────────────────────────────────────

func (r *repo) UpsertProfile(_ context.Context, p *model.Profile) error {
	p.UpdatedAt = r.now()
	r.st.profiles[p.OwnerID] = *p
	return nil
}

func (r *repo) GetProfile(_ context.Context, ownerID string) (*model.Profile, error) {
	p, ok := r.st.profiles[ownerID]
	if !ok {
		return nil, apperr.NotFound("profile")
	}
	return &p, nil
}

func (r *repo) DeleteProfile(_ context.Context, ownerID string) error {
	delete(r.st.profiles, ownerID)
	return nil
}

// ─── Applications ─────────────────────────────────────────────────────────────

func (r *repo) CreateApplication(_ context.Context, a *model.Application) error {
	key := appKey{a.JobID, a.SeekerID}
	if _, dup := r.st.appIndex[key]; dup {
		return apperr.Conflict("already applied to this job")
	}
	if _, ok := r.st.jobs[a.JobID]; !ok {
		return apperr.NotFound("job")
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.Status = model.StatusApplied
	a.AppliedAt = r.now()
	r.st.apps[a.ID] = *a
	r.st.appIndex[key] = a.ID
	return nil
}

func (r *repo) GetApplication(_ context.Context, id string) (*model.Application, error) {
	a, ok := r.st.apps[id]
	if !ok {
		return nil, apperr.NotFound("application")
	}
	return &a, nil
}

func (r *repo) HasApplied(_ context.Context, jobID, seekerID string) (bool, error) {
	_, ok := r.st.appIndex[appKey{jobID, seekerID}]
	return ok, nil
}

func (r *repo) UpdateApplicationStatus(_ context.Context, id string, status model.ApplicationStatus) (*model.Application, error) {
	a, ok := r.st.apps[id]
	if !ok {
		return nil, apperr.NotFound("application")
	}
	a.Status = status
	r.st.apps[id] = a
	return &a, nil
}

func (r *repo) enrich(a model.Application) model.ApplicationView {
	v := model.ApplicationView{Application: a}
	if j, ok := r.st.jobs[a.JobID]; ok {
		v.JobTitle = j.Title
		if c, ok := r.st.companies[j.OwnerID]; ok {
			v.CompanyName = c.Name
		}
	}
	if u, ok := r.st.users[a.SeekerID]; ok {
		v.ApplicantName, v.ApplicantEmail = u.Name, u.Email
	}
	if p, ok := r.st.profiles[a.SeekerID]; ok {
		v.PhotoURL, v.CollegeName, v.Degree = &p.PhotoURL, &p.CollegeName, &p.Degree
		v.GraduationYear, v.CGPA = p.GraduationYear, p.CGPA
		v.Skills, v.About, v.ProfileResume = &p.Skills, &p.About, &p.ResumeURL
	}
	return v
}

func (r *repo) listApplications(pred func(model.Application) bool) []model.ApplicationView {
	out := make([]model.ApplicationView, 0)
	for _, a := range r.st.apps {
		if pred(a) {
			out = append(out, r.enrich(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AppliedAt.After(out[j].AppliedAt) })
	return out
}

func (r *repo) ListApplicationsBySeeker(_ context.Context, seekerID string) ([]model.ApplicationView, error) {
	return r.listApplications(func(a model.Application) bool { return a.SeekerID == seekerID }), nil
}

func (r *repo) ListApplicationsByJob(_ context.Context, jobID string) ([]model.ApplicationView, error) {
	return r.listApplications(func(a model.Application) bool { return a.JobID == jobID }), nil
}

func (r *repo) DeleteApplicationsBySeeker(_ context.Context, seekerID string) (int64, error) {
	return r.deleteApplicationsWhere(func(a model.Application) bool { return a.SeekerID == seekerID }), nil
}
