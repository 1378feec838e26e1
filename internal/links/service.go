package links

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/sundayezeilo/shortlinks/codegen"
	"github.com/sundayezeilo/shortlinks/internal/errx"
)

const (
	DefaultCodeLength = 7
	MinCodeLength     = 4
	MaxCodeLength     = 32
	MaxURLLength      = 2048
	DefaultMaxRetries = 5
	DefaultPage       = 1
	DefaultPerPage    = 10
	DefaultMaxPerPage = 100
)

// reservedCodes match static routes under /links and would never redirect.
var reservedCodes = map[string]bool{
	"user": true,
}

// Service defines the business operations on short links. Every call that
// depends on who is asking takes the caller identity explicitly; an invalid
// NullUUID means the caller is anonymous.
type Service interface {
	Create(ctx context.Context, originalURL string, callerID uuid.NullUUID) (Link, error)
	FormatShortURL(code string) string
	FindAllByUser(ctx context.Context, p Pagination, callerID uuid.NullUUID) (SummaryPage, error)
	Get(ctx context.Context, id uuid.UUID, callerID uuid.NullUUID) (Link, error)
	RedirectToOriginalURL(ctx context.Context, code string) (string, error)
	UpdateOriginalURL(ctx context.Context, id uuid.UUID, newURL string, callerID uuid.NullUUID) (Link, error)
	SoftDelete(ctx context.Context, id uuid.UUID, callerID uuid.NullUUID) error
}

type service struct {
	repo           Repository
	codeGenerator  codegen.Generator
	codeLength     int
	maxRetries     int
	shortURLPrefix string
	maxPerPage     int
}

// ServiceConfig holds configuration for the service.
type ServiceConfig struct {
	CodeGenerator  codegen.Generator
	CodeLength     int
	MaxRetries     int    // insert attempts before giving up on a unique code
	ShortURLPrefix string // e.g. "https://sho.rt/links"
	MaxPerPage     int
}

// NewService creates a new service instance.
func NewService(repo Repository, config *ServiceConfig) Service {
	if config == nil {
		config = &ServiceConfig{}
	}

	gen := config.CodeGenerator
	if gen == nil {
		gen = codegen.NewBase62()
	}

	length := config.CodeLength
	if length < MinCodeLength || length > MaxCodeLength {
		length = DefaultCodeLength
	}

	retries := config.MaxRetries
	if retries <= 0 {
		retries = DefaultMaxRetries
	}

	maxPerPage := config.MaxPerPage
	if maxPerPage <= 0 {
		maxPerPage = DefaultMaxPerPage
	}

	return &service{
		repo:           repo,
		codeGenerator:  gen,
		codeLength:     length,
		maxRetries:     retries,
		shortURLPrefix: strings.TrimRight(config.ShortURLPrefix, "/"),
		maxPerPage:     maxPerPage,
	}
}

// Create stores originalURL under a freshly generated code. A colliding code
// is detected by the storage unique constraint and retried with a new one.
func (s *service) Create(ctx context.Context, originalURL string, callerID uuid.NullUUID) (Link, error) {
	const op = "links.service.Create"

	if err := validateURL(originalURL); err != nil {
		return Link{}, errx.E(op, errx.Invalid, err)
	}

	for range s.maxRetries {
		code, err := s.codeGenerator.Generate(s.codeLength)
		if err != nil {
			return Link{}, errx.E(op, errx.Internal, err)
		}
		if reservedCodes[code] {
			continue
		}

		created, err := s.repo.Create(ctx, Link{
			Code:        code,
			OriginalURL: originalURL,
			OwnerID:     callerID,
		})
		if err == nil {
			return created, nil
		}
		if !errx.Is(err, errx.Conflict) {
			return Link{}, errx.Wrap(op, err)
		}
	}

	return Link{}, errx.E(op, errx.Internal,
		fmt.Errorf("could not generate a unique code after %d attempts", s.maxRetries))
}

// FormatShortURL joins the configured prefix and code.
func (s *service) FormatShortURL(code string) string {
	return s.shortURLPrefix + "/" + code
}

func (s *service) FindAllByUser(ctx context.Context, p Pagination, callerID uuid.NullUUID) (SummaryPage, error) {
	const op = "links.service.FindAllByUser"

	p, err := s.normalizePagination(p)
	if err != nil {
		return SummaryPage{}, errx.E(op, errx.Invalid, err)
	}

	page := SummaryPage{Items: []Summary{}, Page: p.Page, PerPage: p.PerPage}
	if !callerID.Valid {
		return page, nil
	}

	found, total, err := s.repo.FindAllByUser(ctx, callerID.UUID, p)
	if err != nil {
		return SummaryPage{}, errx.Wrap(op, err)
	}

	page.Total = total
	for _, l := range found {
		page.Items = append(page.Items, Summary{
			ID:          l.ID,
			Code:        l.Code,
			ShortURL:    s.FormatShortURL(l.Code),
			OriginalURL: l.OriginalURL,
			AccessCount: l.AccessCount,
			CreatedAt:   l.CreatedAt,
		})
	}
	return page, nil
}

func (s *service) normalizePagination(p Pagination) (Pagination, error) {
	if p.Page < 0 {
		return p, errors.New("page must be at least 1")
	}
	if p.PerPage < 0 {
		return p, errors.New("perPage must be at least 1")
	}
	if p.Page == 0 {
		p.Page = DefaultPage
	}
	if p.PerPage == 0 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > s.maxPerPage {
		p.PerPage = s.maxPerPage
	}
	if !p.InRange() {
		return p, errors.New("page is out of range")
	}
	return p, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID, callerID uuid.NullUUID) (Link, error) {
	const op = "links.service.Get"

	link, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Link{}, errx.Wrap(op, err)
	}
	if !link.OwnedBy(callerID) {
		return Link{}, errx.New(op, errx.Forbidden, "not the owner of this link")
	}
	return link, nil
}

// RedirectToOriginalURL resolves an active code and counts the visit.
func (s *service) RedirectToOriginalURL(ctx context.Context, code string) (string, error) {
	const op = "links.service.RedirectToOriginalURL"

	if code == "" {
		return "", errx.New(op, errx.Invalid, "code cannot be empty")
	}

	link, err := s.repo.ResolveAndTrack(ctx, code)
	if err != nil {
		return "", errx.Wrap(op, err)
	}
	return link.OriginalURL, nil
}

// UpdateOriginalURL points an owned link at newURL.
func (s *service) UpdateOriginalURL(ctx context.Context, id uuid.UUID, newURL string, callerID uuid.NullUUID) (Link, error) {
	const op = "links.service.UpdateOriginalURL"

	if !callerID.Valid {
		return Link{}, errx.New(op, errx.Unauthorized, "authentication required")
	}
	if err := validateURL(newURL); err != nil {
		return Link{}, errx.E(op, errx.Invalid, err)
	}

	link, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Link{}, errx.Wrap(op, err)
	}
	if !link.OwnedBy(callerID) {
		return Link{}, errx.New(op, errx.Forbidden, "not the owner of this link")
	}

	updated, err := s.repo.Update(ctx, id, Patch{OriginalURL: &newURL})
	if err != nil {
		return Link{}, errx.Wrap(op, err)
	}
	return updated, nil
}

// SoftDelete marks an owned link deleted. Deleting an already deleted link
// reports NotFound.
func (s *service) SoftDelete(ctx context.Context, id uuid.UUID, callerID uuid.NullUUID) error {
	const op = "links.service.SoftDelete"

	link, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errx.Wrap(op, err)
	}
	if !link.OwnedBy(callerID) {
		return errx.New(op, errx.Forbidden, "not the owner of this link")
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return errx.Wrap(op, err)
	}
	return nil
}

func validateURL(rawURL string) error {
	if rawURL == "" {
		return errors.New("url cannot be empty")
	}
	if len(rawURL) > MaxURLLength {
		return fmt.Errorf("url too long (max %d characters)", MaxURLLength)
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return errors.New("invalid url format")
	}
	if parsedURL.Scheme == "" {
		return errors.New("url must include scheme (http or https)")
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return errors.New("url scheme must be http or https")
	}
	if parsedURL.Host == "" {
		return errors.New("url must include host")
	}
	return nil
}
