package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	db "github.com/sundayezeilo/shortlinks/internal/db/sqlc"
	"github.com/sundayezeilo/shortlinks/internal/errx"
	"github.com/sundayezeilo/shortlinks/internal/idgen"
)

type querier interface {
	CreateUser(ctx context.Context, arg db.CreateUserParams) (db.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (db.User, error)
	GetUserByEmail(ctx context.Context, email string) (db.User, error)
}

var _ querier = (*db.Queries)(nil)

type repo struct {
	q   querier
	ids idgen.Generator
}

// NewRepository creates a Postgres-backed Repository. A nil ids uses UUIDv7.
func NewRepository(q querier, ids idgen.Generator) Repository {
	if ids == nil {
		ids = idgen.NewV7(idgen.WithRetries(1))
	}
	return &repo{q: q, ids: ids}
}

func toDomainUser(x db.User) (User, error) {
	if !x.CreatedAt.Valid || !x.UpdatedAt.Valid {
		return User{}, fmt.Errorf("user %s has NULL timestamps", x.ID)
	}
	return User{
		ID:           x.ID,
		Email:        x.Email,
		PasswordHash: x.PasswordHash,
		CreatedAt:    x.CreatedAt.Time,
		UpdatedAt:    x.UpdatedAt.Time,
	}, nil
}

func mapRepoError(op string, err error) error {
	var pgErr *pgconn.PgError
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return errx.E(op, errx.NotFound, err)
	case errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "users_email_unique":
		return errx.New(op, errx.Conflict, "email is already registered")
	default:
		return errx.E(op, errx.Unavailable, err)
	}
}

func (r *repo) Create(ctx context.Context, user User) (User, error) {
	const op = "users.repo.Create"

	if user.ID == uuid.Nil {
		id, err := r.ids.Generate()
		if err != nil {
			return User{}, errx.E(op, errx.Unavailable, err)
		}
		user.ID = id
	}

	row, err := r.q.CreateUser(ctx, db.CreateUserParams{
		ID:           user.ID,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
	})
	if err != nil {
		return User{}, mapRepoError(op, err)
	}

	out, err := toDomainUser(row)
	if err != nil {
		return User{}, errx.E(op, errx.Internal, err)
	}
	return out, nil
}

func (r *repo) FindBy(ctx context.Context, c Criteria) (User, error) {
	const op = "users.repo.FindBy"

	var (
		row db.User
		err error
	)
	switch {
	case c.ID.Valid && c.Email == "":
		row, err = r.q.GetUserByID(ctx, c.ID.UUID)
	case !c.ID.Valid && c.Email != "":
		row, err = r.q.GetUserByEmail(ctx, c.Email)
	default:
		return User{}, errx.New(op, errx.Invalid, "exactly one criterion must be set")
	}
	if err != nil {
		return User{}, mapRepoError(op, err)
	}

	out, err := toDomainUser(row)
	if err != nil {
		return User{}, errx.E(op, errx.Internal, err)
	}
	return out, nil
}
