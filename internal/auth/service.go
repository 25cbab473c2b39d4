// Package auth registers accounts, checks passwords and turns bearer tokens
// into identity.Actor values.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"fresherjobs/marketplace-service/internal/apperr"
	"fresherjobs/marketplace-service/internal/identity"
	"fresherjobs/marketplace-service/internal/model"
	"fresherjobs/marketplace-service/internal/store"
	"fresherjobs/marketplace-service/internal/validate"
)

// RegisterInput is the self-service sign-up payload. Company fields are read
// only for recruiters, who must name their company.
type RegisterInput struct {
	Name               string        `json:"name" validate:"required,max=100"`
	Email              string        `json:"email" validate:"required,email,max=254"`
	Password           string        `json:"password" validate:"required,min=6,max=72"`
	Role               identity.Role `json:"role" validate:"required,oneof=JOB_SEEKER RECRUITER"`
	CompanyName        string        `json:"companyName" validate:"required_if=Role RECRUITER,max=200"`
	Website            string        `json:"website" validate:"omitempty,url"`
	CompanyLocation    string        `json:"companyLocation" validate:"max=200"`
	CompanyDescription string        `json:"companyDescription" validate:"max=2000"`
}

// LoginInput is the login payload.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Session is returned by Register and Login.
type Session struct {
	Token      string        `json:"token"`
	TokenType  string        `json:"tokenType"`
	UserID     string        `json:"userId"`
	Name       string        `json:"name"`
	Email      string        `json:"email"`
	Role       identity.Role `json:"role"`
	IsApproved bool          `json:"isApproved"`
}

// Service implements registration, login and token authentication.
type Service struct {
	store  store.Store
	tokens *Tokens
	cost   int
}

// NewService returns a configured Service.
func NewService(st store.Store, tokens *Tokens) *Service {
	return &Service{store: st, tokens: tokens, cost: bcrypt.DefaultCost}
}

var _ identity.Authenticator = (*Service)(nil)

// Register creates an account. A recruiter's company is created in the same
// transaction; recruiters start unapproved.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, err
	}

	u := &model.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         in.Role,
		IsApproved:   identity.DefaultApproval(in.Role),
	}
	err = s.store.InTx(ctx, func(tx store.Repository) error {
		if err := tx.CreateUser(ctx, u); err != nil {
			return err
		}
		if u.Role != identity.RoleRecruiter {
			return nil
		}
		return tx.CreateCompany(ctx, &model.Company{
			OwnerID:     u.ID,
			Name:        in.CompanyName,
			Website:     in.Website,
			Location:    in.CompanyLocation,
			Description: in.CompanyDescription,
		})
	})
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "user registered", "userId", u.ID, "role", string(u.Role))
	return s.session(u)
}

// Login checks the password and returns a fresh session. Unknown emails and
// wrong passwords are indistinguishable.
func (s *Service) Login(ctx context.Context, in LoginInput) (*Session, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	u, err := s.store.GetUserByEmail(ctx, in.Email)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, errInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)) != nil {
		return nil, errInvalidCredentials
	}
	return s.session(u)
}

var errInvalidCredentials = &credentialsError{}

type credentialsError struct{}

func (*credentialsError) Error() string        { return "invalid email or password" }
func (*credentialsError) Is(target error) bool { return target == apperr.ErrUnauthenticated }

// Authenticate verifies a bearer token and loads the current actor state.
func (s *Service) Authenticate(ctx context.Context, credential string) (*identity.Actor, error) {
	if credential == "" {
		return nil, apperr.ErrUnauthenticated
	}
	userID, err := s.tokens.Verify(credential)
	if err != nil {
		slog.DebugContext(ctx, "token rejected", "err", err)
		return nil, apperr.ErrUnauthenticated
	}
	u, err := s.store.GetUser(ctx, userID)
	if errors.Is(err, apperr.ErrNotFound) {
		// Account deleted after the token was issued.
		return nil, apperr.ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	return u.Actor(), nil
}

// EnsureAdmin creates the platform admin account if email is not registered yet.
// Admins cannot sign up through Register.
func (s *Service) EnsureAdmin(ctx context.Context, name, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return err
	}
	u := &model.User{Name: name, Email: email, PasswordHash: string(hash), Role: identity.RoleAdmin, IsApproved: true}
	if err := s.store.CreateUser(ctx, u); err != nil && !errors.Is(err, apperr.ErrConflict) {
		return err
	}
	slog.InfoContext(ctx, "admin account ensured", "email", email)
	return nil
}

func (s *Service) session(u *model.User) (*Session, error) {
	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, err
	}
	return &Session{
		Token:      token,
		TokenType:  "Bearer",
		UserID:     u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		IsApproved: u.IsApproved,
	}, nil
}
