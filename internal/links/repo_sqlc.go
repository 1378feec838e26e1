package links

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	db "github.com/sundayezeilo/shortlinks/internal/db/sqlc"
	"github.com/sundayezeilo/shortlinks/internal/errx"
	"github.com/sundayezeilo/shortlinks/internal/idgen"
)

// querier is the subset of *db.Queries the repository needs.
type querier interface {
	CreateLink(ctx context.Context, arg db.CreateLinkParams) (db.Link, error)
	GetLinkByCode(ctx context.Context, code string) (db.Link, error)
	GetLinkByID(ctx context.Context, id uuid.UUID) (db.Link, error)
	ListLinksByOwner(ctx context.Context, arg db.ListLinksByOwnerParams) ([]db.Link, error)
	CountLinksByOwner(ctx context.Context, ownerID uuid.NullUUID) (int64, error)
	UpdateLinkOriginalURL(ctx context.Context, arg db.UpdateLinkOriginalURLParams) (db.Link, error)
	ResolveAndTrackLink(ctx context.Context, code string) (db.Link, error)
	SoftDeleteLink(ctx context.Context, id uuid.UUID) (int64, error)
}

var _ querier = (*db.Queries)(nil)

type repo struct {
	q   querier
	ids idgen.Generator
}

// RepositoryConfig holds configuration for the repository.
type RepositoryConfig struct {
	IDGenerator idgen.Generator
}

// NewRepository creates a Postgres-backed Repository.
func NewRepository(q querier, config *RepositoryConfig) Repository {
	if config == nil {
		config = &RepositoryConfig{}
	}
	if config.IDGenerator == nil {
		config.IDGenerator = idgen.NewV7(idgen.WithRetries(1))
	}

	return &repo{
		q:   q,
		ids: config.IDGenerator,
	}
}

func mustTime(ts pgtype.Timestamptz, field string) (time.Time, error) {
	if !ts.Valid {
		return time.Time{}, fmt.Errorf("%s unexpectedly NULL", field)
	}
	return ts.Time, nil
}

func timePtr(ts pgtype.Timestamptz) *time.Time {
	if !ts.Valid {
		return nil
	}
	t := ts.Time
	return &t
}

func toDomainLink(x db.Link) (Link, error) {
	createdAt, err := mustTime(x.CreatedAt, "created_at")
	if err != nil {
		return Link{}, err
	}
	updatedAt, err := mustTime(x.UpdatedAt, "updated_at")
	if err != nil {
		return Link{}, err
	}

	return Link{
		ID:             x.ID,
		Code:           x.Code,
		OriginalURL:    x.OriginalUrl,
		OwnerID:        x.OwnerID,
		AccessCount:    x.AccessCount,
		CreatedAt:      createdAt,
		UpdatedAt:      updatedAt,
		LastAccessedAt: timePtr(x.LastAccessedAt),
		DeletedAt:      timePtr(x.DeletedAt),
	}, nil
}

// toDomain converts a row, classifying a malformed row as Internal.
func toDomain(op string, x db.Link) (Link, error) {
	link, err := toDomainLink(x)
	if err != nil {
		return Link{}, errx.E(op, errx.Internal, err)
	}
	return link, nil
}

func mapRepoError(op string, err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return errx.E(op, errx.NotFound, err)

	case isCodeUniqueViolation(err):
		return errx.E(op, errx.Conflict, err)

	case isOwnerForeignKeyViolation(err):
		return errx.New(op, errx.Invalid, "link owner does not exist")

	default:
		return errx.E(op, errx.Unavailable, err)
	}
}

func (r *repo) Create(ctx context.Context, link Link) (Link, error) {
	const op = "links.repo.Create"

	if link.ID == uuid.Nil {
		id, err := r.ids.Generate()
		if err != nil {
			return Link{}, errx.E(op, errx.Unavailable, err)
		}
		link.ID = id
	}

	row, err := r.q.CreateLink(ctx, db.CreateLinkParams{
		ID:          link.ID,
		Code:        link.Code,
		OriginalUrl: link.OriginalURL,
		OwnerID:     link.OwnerID,
	})
	if err != nil {
		return Link{}, mapRepoError(op, err)
	}
	return toDomain(op, row)
}

func (r *repo) FindByCode(ctx context.Context, code string) (Link, error) {
	const op = "links.repo.FindByCode"

	row, err := r.q.GetLinkByCode(ctx, code)
	if err != nil {
		return Link{}, mapRepoError(op, err)
	}
	return toDomain(op, row)
}

func (r *repo) FindByID(ctx context.Context, id uuid.UUID) (Link, error) {
	const op = "links.repo.FindByID"

	row, err := r.q.GetLinkByID(ctx, id)
	if err != nil {
		return Link{}, mapRepoError(op, err)
	}
	return toDomain(op, row)
}

func (r *repo) FindAllByUser(ctx context.Context, ownerID uuid.UUID, p Pagination) ([]Link, int64, error) {
	const op = "links.repo.FindAllByUser"

	if p.Page < 1 || p.PerPage < 1 {
		return nil, 0, errx.New(op, errx.Invalid, "invalid pagination")
	}
	if !p.InRange() {
		return nil, 0, errx.New(op, errx.Invalid, "page is out of range")
	}
	offset := p.Offset()

	owner := uuid.NullUUID{UUID: ownerID, Valid: true}

	total, err := r.q.CountLinksByOwner(ctx, owner)
	if err != nil {
		return nil, 0, mapRepoError(op, err)
	}
	if total == 0 || offset >= total {
		return []Link{}, total, nil
	}

	rows, err := r.q.ListLinksByOwner(ctx, db.ListLinksByOwnerParams{
		OwnerID: owner,
		Limit:   int32(p.PerPage),
		Offset:  int32(offset),
	})
	if err != nil {
		return nil, 0, mapRepoError(op, err)
	}

	out := make([]Link, 0, len(rows))
	for _, row := range rows {
		link, err := toDomain(op, row)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, link)
	}
	return out, total, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, patch Patch) (Link, error) {
	const op = "links.repo.Update"

	if patch.OriginalURL == nil {
		link, err := r.FindByID(ctx, id)
		return link, errx.Wrap(op, err)
	}

	row, err := r.q.UpdateLinkOriginalURL(ctx, db.UpdateLinkOriginalURLParams{
		ID:          id,
		OriginalUrl: *patch.OriginalURL,
	})
	if err != nil {
		return Link{}, mapRepoError(op, err)
	}
	return toDomain(op, row)
}

func (r *repo) ResolveAndTrack(ctx context.Context, code string) (Link, error) {
	const op = "links.repo.ResolveAndTrack"

	row, err := r.q.ResolveAndTrackLink(ctx, code)
	if err != nil {
		return Link{}, mapRepoError(op, err)
	}
	return toDomain(op, row)
}

func (r *repo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	const op = "links.repo.SoftDelete"

	n, err := r.q.SoftDeleteLink(ctx, id)
	if err != nil {
		return mapRepoError(op, err)
	}
	if n == 0 {
		return errx.New(op, errx.NotFound, "link not found")
	}
	return nil
}
