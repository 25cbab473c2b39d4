// Package model defines the persisted entities of the marketplace.
// Struct tags serve both the JSON transport and scany row mapping.
package model

import (
	"time"

	"fresherjobs/marketplace-service/internal/identity"
)

// User is the account record behind an identity.Actor.
type User struct {
	ID           string        `db:"id" json:"id"`
	Name         string        `db:"name" json:"name"`
	Email        string        `db:"email" json:"email"`
	PasswordHash string        `db:"password_hash" json:"-"`
	Role         identity.Role `db:"role" json:"role"`
	IsApproved   bool          `db:"is_approved" json:"isApproved"`
	CreatedAt    time.Time     `db:"created_at" json:"createdAt"`
}

// Actor projects the account onto the identity model.
func (u *User) Actor() *identity.Actor {
	return &identity.Actor{ID: u.ID, Role: u.Role, IsApproved: u.IsApproved}
}

// Company is owned by exactly one recruiter.
type Company struct {
	ID          string `db:"id" json:"id"`
	OwnerID     string `db:"owner_id" json:"ownerId"`
	Name        string `db:"name" json:"name"`
	Website     string `db:"website" json:"website,omitempty"`
	Location    string `db:"location" json:"location,omitempty"`
	Description string `db:"description" json:"description,omitempty"`
	LogoURL     string `db:"logo_url" json:"logoUrl,omitempty"`
}

// JobType values mirror the job_type enum in PostgreSQL.
type JobType string

const (
	JobTypeFullTime   JobType = "FULL_TIME"
	JobTypePartTime   JobType = "PART_TIME"
	JobTypeInternship JobType = "INTERNSHIP"
)

// Job is a posting owned by a recruiter.
type Job struct {
	ID                 string     `db:"id" json:"id"`
	OwnerID            string     `db:"owner_id" json:"ownerId"`
	Title              string     `db:"title" json:"title"`
	Description        string     `db:"description" json:"description"`
	SkillsRequired     string     `db:"skills_required" json:"skillsRequired,omitempty"`
	JobType            JobType    `db:"job_type" json:"jobType"`
	ExperienceRequired int        `db:"experience_required" json:"experienceRequired"`
	GraduationYear     *int       `db:"graduation_year" json:"graduationYear,omitempty"`
	SalaryMin          *float64   `db:"salary_min" json:"salaryMin,omitempty"`
	SalaryMax          *float64   `db:"salary_max" json:"salaryMax,omitempty"`
	Location           string     `db:"location" json:"location,omitempty"`
	Category           string     `db:"category" json:"category,omitempty"`
	IsActive           bool       `db:"is_active" json:"isActive"`
	ExpiresAt          *time.Time `db:"expires_at" json:"expiresAt,omitempty"`
	PostedAt           time.Time  `db:"posted_at" json:"postedAt"`
}

// JobView is a Job as rendered to clients, joined with its company.
type JobView struct {
	Job
	CompanyName    string `db:"company_name" json:"companyName,omitempty"`
	CompanyWebsite string `db:"company_website" json:"companyWebsite,omitempty"`
	CompanyLogoURL string `db:"company_logo_url" json:"companyLogoUrl,omitempty"`
	OwnerApproved  bool   `db:"owner_approved" json:"-"`
}

// Owner is the minimal actor projection of the job's owner, enough to evaluate
// visibility without a second lookup.
func (v *JobView) Owner() *identity.Actor {
	return &identity.Actor{ID: v.OwnerID, Role: identity.RoleRecruiter, IsApproved: v.OwnerApproved}
}

// JobFilter narrows the public job listing. Empty fields are ignored.
type JobFilter struct {
	Query    string
	Location string
	JobType  JobType
}

// Profile is a job seeker's resume data. At most one per seeker.
type Profile struct {
	OwnerID        string    `db:"owner_id" json:"ownerId"`
	CollegeName    string    `db:"college_name" json:"collegeName,omitempty"`
	Degree         string    `db:"degree" json:"degree,omitempty"`
	GraduationYear *int      `db:"graduation_year" json:"graduationYear,omitempty"`
	CGPA           *float64  `db:"cgpa" json:"cgpa,omitempty"`
	Skills         string    `db:"skills" json:"skills,omitempty"`
	ResumeURL      string    `db:"resume_url" json:"resumeUrl,omitempty"`
	PhotoURL       string    `db:"photo_url" json:"profilePhoto,omitempty"`
	About          string    `db:"about" json:"about,omitempty"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}

// ApplicationStatus values mirror the application_status enum in PostgreSQL.
type ApplicationStatus string

const (
	StatusApplied     ApplicationStatus = "APPLIED"
	StatusShortlisted ApplicationStatus = "SHORTLISTED"
	StatusHired       ApplicationStatus = "HIRED"
	StatusRejected    ApplicationStatus = "REJECTED"
)

// Application is one seeker's application to one job.
type Application struct {
	ID          string            `db:"id" json:"id"`
	JobID       string            `db:"job_id" json:"jobId"`
	SeekerID    string            `db:"seeker_id" json:"userId"`
	Status      ApplicationStatus `db:"status" json:"status"`
	AppliedAt   time.Time         `db:"applied_at" json:"appliedAt"`
	ResumeURL   string            `db:"resume_url" json:"resumeUrl,omitempty"`
	CoverLetter string            `db:"cover_letter" json:"coverLetter,omitempty"`
}

// ApplicationView is an Application enriched for dashboards.
type ApplicationView struct {
	Application
	JobTitle       string   `db:"job_title" json:"jobTitle"`
	CompanyName    string   `db:"company_name" json:"companyName,omitempty"`
	ApplicantName  string   `db:"applicant_name" json:"applicantName"`
	ApplicantEmail string   `db:"applicant_email" json:"applicantEmail"`
	PhotoURL       *string  `db:"photo_url" json:"profilePhoto,omitempty"`
	CollegeName    *string  `db:"college_name" json:"collegeName,omitempty"`
	Degree         *string  `db:"degree" json:"degree,omitempty"`
	GraduationYear *int     `db:"graduation_year" json:"graduationYear,omitempty"`
	CGPA           *float64 `db:"cgpa" json:"cgpa,omitempty"`
	Skills         *string  `db:"skills" json:"skills,omitempty"`
	About          *string  `db:"about" json:"about,omitempty"`
	ProfileResume  *string  `db:"profile_resume_url" json:"-"`
}

// RecruiterSummary is a row of the admin recruiter listing.
type RecruiterSummary struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Email       string    `db:"email" json:"email"`
	IsApproved  bool      `db:"is_approved" json:"isApproved"`
	CompanyName *string   `db:"company_name" json:"companyName,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}
