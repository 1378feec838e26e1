package users

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/sundayezeilo/shortlinks/internal/errx"
)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 72 // bcrypt ignores bytes past 72
	MaxEmailLength    = 254
)

// Service defines account operations.
type Service interface {
	Register(ctx context.Context, email, password string) (User, error)
	// Authenticate reports Unauthorized for both unknown emails and wrong
	// passwords.
	Authenticate(ctx context.Context, email, password string) (User, error)
	Get(ctx context.Context, id uuid.UUID) (User, error)
}

type service struct {
	repo      Repository
	cost      int
	dummyHash []byte
}

// ServiceConfig holds configuration for the service.
type ServiceConfig struct {
	BcryptCost int
}

// NewService creates a new service instance.
func NewService(repo Repository, config *ServiceConfig) (Service, error) {
	if config == nil {
		config = &ServiceConfig{}
	}
	cost := config.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	// compared against when the email is unknown so both failure paths cost the same
	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), cost)
	if err != nil {
		return nil, err
	}

	return &service{repo: repo, cost: cost, dummyHash: dummy}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *service) Register(ctx context.Context, email, password string) (User, error) {
	const op = "users.service.Register"

	email = normalizeEmail(email)
	if email == "" || len(email) > MaxEmailLength || !strings.Contains(email, "@") {
		return User{}, errx.New(op, errx.Invalid, "email must be a valid email address")
	}
	if len(password) < MinPasswordLength || len(password) > MaxPasswordLength {
		return User{}, errx.New(op, errx.Invalid, "password must be between 8 and 72 bytes")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return User{}, errx.E(op, errx.Internal, err)
	}

	created, err := s.repo.Create(ctx, User{Email: email, PasswordHash: string(hash)})
	if err != nil {
		return User{}, errx.Wrap(op, err)
	}
	return created, nil
}

func (s *service) Authenticate(ctx context.Context, email, password string) (User, error) {
	const op = "users.service.Authenticate"

	user, err := s.repo.FindBy(ctx, Criteria{Email: normalizeEmail(email)})
	if err != nil {
		if !errx.Is(err, errx.NotFound) && !errx.Is(err, errx.Invalid) {
			return User{}, errx.Wrap(op, err)
		}
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return User{}, errx.New(op, errx.Unauthorized, "invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return User{}, errx.New(op, errx.Unauthorized, "invalid email or password")
		}
		return User{}, errx.E(op, errx.Internal, err)
	}
	return user, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (User, error) {
	const op = "users.service.Get"

	user, err := s.repo.FindBy(ctx, Criteria{ID: uuid.NullUUID{UUID: id, Valid: true}})
	if err != nil {
		return User{}, errx.Wrap(op, err)
	}
	return user, nil
}
