// Package postgres implements store.Store on PostgreSQL with pgx, squirrel and scany.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"fresherjobs/marketplace-service/internal/apperr"
	"fresherjobs/marketplace-service/internal/identity"
	"fresherjobs/marketplace-service/internal/model"
	"fresherjobs/marketplace-service/internal/store"
)

// DB is the subset of pgxpool.Pool (and pgx.Tx) the repository needs.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	// codeInvalidText is raised when an id is not a valid UUID. No row can
	// carry such an id, so it reads as not found.
	codeInvalidText = "22P02"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Store implements store.Store.
type Store struct {
	repo
	db DB
}

var _ store.Store = (*Store)(nil)

// New returns a Store over db.
func New(db DB) *Store {
	now := func() time.Time { return time.Now().UTC() }
	return &Store{repo: repo{db: db, now: now}, db: db}
}

// InTx runs fn inside a single database transaction.
func (s *Store) InTx(ctx context.Context, fn func(store.Repository) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(&repo{db: tx, now: s.now}); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			slog.WarnContext(ctx, "rollback failed", "err", rbErr)
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type repo struct {
	db  DB
	now func() time.Time
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func (r *repo) get(ctx context.Context, dst any, b sq.Sqlizer, kind string) error {
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("building %s query: %w", kind, err)
	}
	if err := pgxscan.Get(ctx, r.db, dst, query, args...); err != nil {
		if pgxscan.NotFound(err) || pgCode(err) == codeInvalidText {
			return apperr.NotFound(kind)
		}
		return fmt.Errorf("scanning %s: %w", kind, err)
	}
	return nil
}

func (r *repo) selectAll(ctx context.Context, dst any, b sq.Sqlizer, kind string) error {
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("building %s query: %w", kind, err)
	}
	if err := pgxscan.Select(ctx, r.db, dst, query, args...); err != nil {
		return fmt.Errorf("scanning %s: %w", kind, err)
	}
	return nil
}

func (r *repo) exec(ctx context.Context, b sq.Sqlizer, what string) (pgconn.CommandTag, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return pgconn.CommandTag{}, fmt.Errorf("building %s query: %w", what, err)
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if pgCode(err) == codeInvalidText {
		return tag, fmt.Errorf("%s: %w: %w", what, apperr.ErrNotFound, err)
	}
	if err != nil {
		return tag, fmt.Errorf("%s: %w", what, err)
	}
	return tag, nil
}

// ─── Users ────────────────────────────────────────────────────────────────────

var userColumns = []string{"id", "name", "email", "password_hash", "role", "is_approved", "created_at"}

func (r *repo) CreateUser(ctx context.Context, u *model.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = r.now()
	}
	_, err := r.exec(ctx, psql.Insert("users").
		Columns(userColumns...).
		Values(u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.IsApproved, u.CreatedAt), "inserting user")
	if pgCode(err) == codeUniqueViolation {
		return apperr.Conflict("email already registered")
	}
	return err
}

func (r *repo) GetUser(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	if err := r.get(ctx, &u, psql.Select(userColumns...).From("users").Where(sq.Eq{"id": id}), "user"); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	b := psql.Select(userColumns...).From("users").Where("lower(email) = lower(?)", email)
	if err := r.get(ctx, &u, b, "user"); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repo) ApproveRecruiter(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	b := psql.Update("users").
		Set("is_approved", true).
		Where(sq.Eq{"id": id, "role": identity.RoleRecruiter}).
		Suffix("RETURNING id, name, email, password_hash, role, is_approved, created_at")
	if err := r.get(ctx, &u, b, "recruiter"); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repo) ListRecruiters(ctx context.Context) ([]model.RecruiterSummary, error) {
	out := make([]model.RecruiterSummary, 0)
	b := psql.Select("u.id", "u.name", "u.email", "u.is_approved", "c.name AS company_name", "u.created_at").
		From("users u").
		LeftJoin("companies c ON c.owner_id = u.id").
		Where(sq.Eq{"u.role": identity.RoleRecruiter}).
		OrderBy("u.created_at DESC")
	if err := r.selectAll(ctx, &out, b, "recruiters"); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repo) DeleteUser(ctx context.Context, id string) error {
	tag, err := r.exec(ctx, psql.Delete("users").Where(sq.Eq{"id": id}), "deleting user")
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("user")
	}
	return nil
}

// ─── Companies ────────────────────────────────────────────────────────────────

var companyColumns = []string{"id", "owner_id", "name", "website", "location", "description", "logo_url"}

func (r *repo) CreateCompany(ctx context.Context, c *model.Company) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := r.exec(ctx, psql.Insert("companies").
		Columns(companyColumns...).
		Values(c.ID, c.OwnerID, c.Name, c.Website, c.Location, c.Description, c.LogoURL), "inserting company")
	switch pgCode(err) {
	case codeUniqueViolation:
		return apperr.Conflict("company already exists for this recruiter")
	case codeForeignKeyViolation:
		return apperr.NotFound("recruiter")
	}
	return err
}

func (r *repo) GetCompanyByOwner(ctx context.Context, ownerID string) (*model.Company, error) {
	var c model.Company
	b := psql.Select(companyColumns...).From("companies").Where(sq.Eq{"owner_id": ownerID})
	if err := r.get(ctx, &c, b, "company"); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repo) DeleteCompanyByOwner(ctx context.Context, ownerID string) error {
	_, err := r.exec(ctx, psql.Delete("companies").Where(sq.Eq{"owner_id": ownerID}), "deleting company")
	return err
}

// ─── Jobs ─────────────────────────────────────────────────────────────────────

var jobViewColumns = []string{
	"j.id", "j.owner_id", "j.title", "j.description", "j.skills_required", "j.job_type",
	"j.experience_required", "j.graduation_year", "j.salary_min", "j.salary_max",
	"j.location", "j.category", "j.is_active", "j.expires_at", "j.posted_at",
	"COALESCE(c.name, '') AS company_name",
	"COALESCE(c.website, '') AS company_website",
	"COALESCE(c.logo_url, '') AS company_logo_url",
	"u.is_approved AS owner_approved",
}

func jobViews() sq.SelectBuilder {
	return psql.Select(jobViewColumns...).
		From("jobs j").
		Join("users u ON u.id = j.owner_id").
		LeftJoin("companies c ON c.owner_id = j.owner_id")
}

func (r *repo) CreateJob(ctx context.Context, j *model.Job) error {
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	if j.PostedAt.IsZero() {
		j.PostedAt = r.now()
	}
	_, err := r.exec(ctx, psql.Insert("jobs").
		Columns("id", "owner_id", "title", "description", "skills_required", "job_type",
			"experience_required", "graduation_year", "salary_min", "salary_max",
			"location", "category", "is_active", "expires_at", "posted_at").
		Values(j.ID, j.OwnerID, j.Title, j.Description, j.SkillsRequired, j.JobType,
			j.ExperienceRequired, j.GraduationYear, j.SalaryMin, j.SalaryMax,
			j.Location, j.Category, j.IsActive, j.ExpiresAt, j.PostedAt), "inserting job")
	if pgCode(err) == codeForeignKeyViolation {
		return apperr.NotFound("recruiter")
	}
	return err
}

func (r *repo) UpdateJob(ctx context.Context, j *model.Job) error {
	query, args, err := psql.Update("jobs").
		SetMap(map[string]any{
			"title":               j.Title,
			"description":         j.Description,
			"skills_required":     j.SkillsRequired,
			"job_type":            j.JobType,
			"experience_required": j.ExperienceRequired,
			"graduation_year":     j.GraduationYear,
			"salary_min":          j.SalaryMin,
			"salary_max":          j.SalaryMax,
			"location":            j.Location,
			"category":            j.Category,
			"is_active":           j.IsActive,
			"expires_at":          j.ExpiresAt,
		}).
		Where(sq.Eq{"id": j.ID}).
		Suffix("RETURNING owner_id, posted_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("building job update: %w", err)
	}
	if err := r.db.QueryRow(ctx, query, args...).Scan(&j.OwnerID, &j.PostedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) || pgCode(err) == codeInvalidText {
			return apperr.NotFound("job")
		}
		return fmt.Errorf("updating job: %w", err)
	}
	return nil
}

func (r *repo) GetJob(ctx context.Context, id string) (*model.JobView, error) {
	var v model.JobView
	if err := r.get(ctx, &v, jobViews().Where(sq.Eq{"j.id": id}), "job"); err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *repo) ListJobs(ctx context.Context, q store.JobQuery) ([]model.JobView, error) {
	b := jobViews()
	if q.OwnerID != "" {
		b = b.Where(sq.Eq{"j.owner_id": q.OwnerID})
	}
	if q.ActiveOnly {
		b = b.Where(sq.Eq{"j.is_active": true})
	}
	if f := q.Filter; f.Query != "" {
		like := contains(f.Query)
		b = b.Where(sq.Or{sq.ILike{"j.title": like}, sq.ILike{"j.skills_required": like}})
	}
	if q.Filter.Location != "" {
		b = b.Where(sq.ILike{"j.location": contains(q.Filter.Location)})
	}
	if q.Filter.JobType != "" {
		b = b.Where(sq.Eq{"j.job_type": q.Filter.JobType})
	}
	out := make([]model.JobView, 0)
	if err := r.selectAll(ctx, &out, b.OrderBy("j.posted_at DESC"), "jobs"); err != nil {
		return nil, err
	}
	return out, nil
}

// likeEscaper escapes the LIKE metacharacters so user input matches literally,
// using PostgreSQL's default backslash escape character.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// contains builds an ILIKE pattern matching s as a literal substring.
func contains(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// DeleteJob relies on ON DELETE CASCADE to remove the job's applications.
func (r *repo) DeleteJob(ctx context.Context, id string) error {
	tag, err := r.exec(ctx, psql.Delete("jobs").Where(sq.Eq{"id": id}), "deleting job")
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("job")
	}
	return nil
}

func (r *repo) DeleteJobsByOwner(ctx context.Context, ownerID string) (int64, error) {
	tag, err := r.exec(ctx, psql.Delete("jobs").Where(sq.Eq{"owner_id": ownerID}), "deleting jobs")
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *repo) DeactivateExpiredJobs(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.exec(ctx, psql.Update("jobs").
		Set("is_active", false).
		Where(sq.Eq{"is_active": true}).
		Where(sq.NotEq{"expires_at": nil}).
		Where(sq.LtOrEq{"expires_at": now}), "deactivating expired jobs")
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ─── Profiles ─────────────────────────────────────────────────────────────────

var profileColumns = []string{
	"owner_id", "college_name", "degree", "graduation_year", "cgpa",
	"skills", "resume_url", "photo_url", "about", "updated_at",
}

func (r *repo) UpsertProfile(ctx context.Context, p *model.Profile) error {
	p.UpdatedAt = r.now()
	_, err := r.exec(ctx, psql.Insert("profiles").
		Columns(profileColumns...).
		Values(p.OwnerID, p.CollegeName, p.Degree, p.GraduationYear, p.CGPA,
			p.Skills, p.ResumeURL, p.PhotoURL, p.About, p.UpdatedAt).
		Suffix(`ON CONFLICT (owner_id) DO UPDATE SET
			college_name = EXCLUDED.college_name, degree = EXCLUDED.degree,
			graduation_year = EXCLUDED.graduation_year, cgpa = EXCLUDED.cgpa,
			skills = EXCLUDED.skills, resume_url = EXCLUDED.resume_url,
			photo_url = EXCLUDED.photo_url, about = EXCLUDED.about,
			updated_at = EXCLUDED.updated_at`), "upserting profile")
	if pgCode(err) == codeForeignKeyViolation {
		return apperr.NotFound("user")
	}
	return err
}

func (r *repo) GetProfile(ctx context.Context, ownerID string) (*model.Profile, error) {
	var p model.Profile
	b := psql.Select(profileColumns...).From("profiles").Where(sq.Eq{"owner_id": ownerID})
	if err := r.get(ctx, &p, b, "profile"); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repo) DeleteProfile(ctx context.Context, ownerID string) error {
	_, err := r.exec(ctx, psql.Delete("profiles").Where(sq.Eq{"owner_id": ownerID}), "deleting profile")
	return err
}

// ─── Applications ─────────────────────────────────────────────────────────────

var applicationColumns = []string{"id", "job_id", "seeker_id", "status", "applied_at", "resume_url", "cover_letter"}

// CreateApplication leans on the UNIQUE (job_id, seeker_id) constraint so
// concurrent applies for the same pair cannot both succeed.
func (r *repo) CreateApplication(ctx context.Context, a *model.Application) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.Status = model.StatusApplied
	a.AppliedAt = r.now()
	tag, err := r.exec(ctx, psql.Insert("applications").
		Columns(applicationColumns...).
		Values(a.ID, a.JobID, a.SeekerID, a.Status, a.AppliedAt, a.ResumeURL, a.CoverLetter).
		Suffix("ON CONFLICT (job_id, seeker_id) DO NOTHING"), "inserting application")
	if err != nil {
		if pgCode(err) == codeForeignKeyViolation {
			return apperr.NotFound("job")
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.Conflict("already applied to this job")
	}
	return nil
}

func (r *repo) GetApplication(ctx context.Context, id string) (*model.Application, error) {
	var a model.Application
	b := psql.Select(applicationColumns...).From("applications").Where(sq.Eq{"id": id})
	if err := r.get(ctx, &a, b, "application"); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repo) HasApplied(ctx context.Context, jobID, seekerID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM applications WHERE job_id = $1 AND seeker_id = $2)`,
		jobID, seekerID,
	).Scan(&exists)
	if pgCode(err) == codeInvalidText {
		return false, apperr.NotFound("job")
	}
	if err != nil {
		return false, fmt.Errorf("hasApplied: %w", err)
	}
	return exists, nil
}

func (r *repo) UpdateApplicationStatus(ctx context.Context, id string, status model.ApplicationStatus) (*model.Application, error) {
	var a model.Application
	b := psql.Update("applications").
		Set("status", status).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING id, job_id, seeker_id, status, applied_at, resume_url, cover_letter")
	if err := r.get(ctx, &a, b, "application"); err != nil {
		return nil, err
	}
	return &a, nil
}

func applicationViews() sq.SelectBuilder {
	return psql.Select(
		"a.id", "a.job_id", "a.seeker_id", "a.status", "a.applied_at", "a.resume_url", "a.cover_letter",
		"j.title AS job_title",
		"COALESCE(c.name, '') AS company_name",
		"u.name AS applicant_name", "u.email AS applicant_email",
		"p.photo_url", "p.college_name", "p.degree", "p.graduation_year", "p.cgpa",
		"p.skills", "p.about", "p.resume_url AS profile_resume_url",
	).
		From("applications a").
		Join("jobs j ON j.id = a.job_id").
		Join("users u ON u.id = a.seeker_id").
		LeftJoin("companies c ON c.owner_id = j.owner_id").
		LeftJoin("profiles p ON p.owner_id = a.seeker_id").
		OrderBy("a.applied_at DESC")
}

func (r *repo) ListApplicationsBySeeker(ctx context.Context, seekerID string) ([]model.ApplicationView, error) {
	out := make([]model.ApplicationView, 0)
	if err := r.selectAll(ctx, &out, applicationViews().Where(sq.Eq{"a.seeker_id": seekerID}), "applications"); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repo) ListApplicationsByJob(ctx context.Context, jobID string) ([]model.ApplicationView, error) {
	out := make([]model.ApplicationView, 0)
	if err := r.selectAll(ctx, &out, applicationViews().Where(sq.Eq{"a.job_id": jobID}), "applications"); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repo) DeleteApplicationsBySeeker(ctx context.Context, seekerID string) (int64, error) {
	tag, err := r.exec(ctx, psql.Delete("applications").Where(sq.Eq{"seeker_id": seekerID}), "deleting applications")
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
