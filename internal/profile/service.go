// Package profile manages the single resume profile of a job seeker.
package profile

import (
	"context"
	"strings"

	"fresherjobs/marketplace-service/internal/authz"
	"fresherjobs/marketplace-service/internal/identity"
	"fresherjobs/marketplace-service/internal/model"
	"fresherjobs/marketplace-service/internal/store"
	"fresherjobs/marketplace-service/internal/validate"
)

// Input is the writable part of a profile. Asset URLs are produced by the
// external upload service; they are stored as given.
type Input struct {
	CollegeName    string   `json:"collegeName" validate:"max=200"`
	Degree         string   `json:"degree" validate:"max=100"`
	GraduationYear *int     `json:"graduationYear" validate:"omitempty,min=1950,max=2100"`
	CGPA           *float64 `json:"cgpa" validate:"omitempty,min=0,max=10"`
	Skills         string   `json:"skills" validate:"max=1000"`
	ResumeURL      string   `json:"resumeUrl" validate:"omitempty,url"`
	PhotoURL       string   `json:"profilePhoto" validate:"omitempty,url"`
	About          string   `json:"about" validate:"max=2000"`
}

// Service implements profile operations.
type Service struct {
	store store.Store
	guard *authz.Guard
}

// NewService returns a configured Service.
func NewService(st store.Store, guard *authz.Guard) *Service {
	return &Service{store: st, guard: guard}
}

// Upsert creates or replaces actor's profile.
func (s *Service) Upsert(ctx context.Context, actor *identity.Actor, in Input) (*model.Profile, error) {
	if err := s.guard.Check(ctx, actor, authz.ManageProfile{OwnerID: ownerOf(actor)}); err != nil {
		return nil, err
	}
	in.ResumeURL = strings.TrimSpace(in.ResumeURL)
	in.PhotoURL = strings.TrimSpace(in.PhotoURL)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	p := &model.Profile{
		OwnerID:        actor.ID,
		CollegeName:    in.CollegeName,
		Degree:         in.Degree,
		GraduationYear: in.GraduationYear,
		CGPA:           in.CGPA,
		Skills:         in.Skills,
		ResumeURL:      in.ResumeURL,
		PhotoURL:       in.PhotoURL,
		About:          in.About,
	}
	if err := s.store.UpsertProfile(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetMine returns actor's profile, or apperr.ErrNotFound when none exists yet.
func (s *Service) GetMine(ctx context.Context, actor *identity.Actor) (*model.Profile, error) {
	if err := s.guard.Check(ctx, actor, authz.ManageProfile{OwnerID: ownerOf(actor)}); err != nil {
		return nil, err
	}
	return s.store.GetProfile(ctx, actor.ID)
}

func ownerOf(a *identity.Actor) string {
	if a == nil {
		return ""
	}
	return a.ID
}
