package links

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/sundayezeilo/shortlinks/internal/errx"
)

/***************
 * Mocks
 ***************/

// mockRepository implements Repository for testing.
type mockRepository struct {
	createFunc          func(ctx context.Context, link Link) (Link, error)
	findByCodeFunc      func(ctx context.Context, code string) (Link, error)
	findByIDFunc        func(ctx context.Context, id uuid.UUID) (Link, error)
	findAllByUserFunc   func(ctx context.Context, ownerID uuid.UUID, p Pagination) ([]Link, int64, error)
	updateFunc          func(ctx context.Context, id uuid.UUID, patch Patch) (Link, error)
	resolveAndTrackFunc func(ctx context.Context, code string) (Link, error)
	softDeleteFunc      func(ctx context.Context, id uuid.UUID) error
}

func (m *mockRepository) Create(ctx context.Context, link Link) (Link, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, link)
	}
	link.ID = uuid.New()
	link.CreatedAt = time.Now()
	link.UpdatedAt = link.CreatedAt
	return link, nil
}

func (m *mockRepository) FindByCode(ctx context.Context, code string) (Link, error) {
	if m.findByCodeFunc != nil {
		return m.findByCodeFunc(ctx, code)
	}
	return Link{}, errx.New("repo.FindByCode", errx.NotFound, "not found")
}

func (m *mockRepository) FindByID(ctx context.Context, id uuid.UUID) (Link, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return Link{}, errx.New("repo.FindByID", errx.NotFound, "not found")
}

func (m *mockRepository) FindAllByUser(ctx context.Context, ownerID uuid.UUID, p Pagination) ([]Link, int64, error) {
	if m.findAllByUserFunc != nil {
		return m.findAllByUserFunc(ctx, ownerID, p)
	}
	return nil, 0, nil
}

func (m *mockRepository) Update(ctx context.Context, id uuid.UUID, patch Patch) (Link, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, patch)
	}
	return Link{}, errx.New("repo.Update", errx.NotFound, "not found")
}

func (m *mockRepository) ResolveAndTrack(ctx context.Context, code string) (Link, error) {
	if m.resolveAndTrackFunc != nil {
		return m.resolveAndTrackFunc(ctx, code)
	}
	return Link{}, errx.New("repo.ResolveAndTrack", errx.NotFound, "not found")
}

func (m *mockRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	if m.softDeleteFunc != nil {
		return m.softDeleteFunc(ctx, id)
	}
	return nil
}

// mockCodeGenerator returns codes in order, then repeats the last one.
type mockCodeGenerator struct {
	codes     []string
	err       error
	callCount int
	lengths   []int
}

func (m *mockCodeGenerator) Generate(length int) (string, error) {
	m.callCount++
	m.lengths = append(m.lengths, length)
	if m.err != nil {
		return "", m.err
	}
	if len(m.codes) == 0 {
		return "abc1234", nil
	}
	idx := min(m.callCount-1, len(m.codes)-1)
	return m.codes[idx], nil
}

func caller(id uuid.UUID) uuid.NullUUID {
	return uuid.NullUUID{UUID: id, Valid: true}
}

var anonymous = uuid.NullUUID{}

/***************
 * Constructor / formatting
 ***************/

func TestNewService_Defaults(t *testing.T) {
	gen := &mockCodeGenerator{}
	svc := NewService(&mockRepository{}, &ServiceConfig{CodeGenerator: gen, CodeLength: 2})

	if _, err := svc.Create(context.Background(), "https://example.com", anonymous); err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}
	if gen.lengths[0] != DefaultCodeLength {
		t.Errorf("code length = %d, want default %d", gen.lengths[0], DefaultCodeLength)
	}

	if NewService(&mockRepository{}, nil) == nil {
		t.Fatal("NewService(nil config) returned nil")
	}
}

func TestFormatShortURL(t *testing.T) {
	tests := []struct {
		prefix string
		code   string
		want   string
	}{
		{"https://sho.rt/links", "abc1234", "https://sho.rt/links/abc1234"},
		{"https://sho.rt/links/", "abc1234", "https://sho.rt/links/abc1234"},
		{"http://localhost:8080", "Zz9", "http://localhost:8080/Zz9"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			repo := &mockRepository{
				createFunc: func(context.Context, Link) (Link, error) {
					t.Error("FormatShortURL must not touch storage")
					return Link{}, nil
				},
			}
			svc := NewService(repo, &ServiceConfig{ShortURLPrefix: tt.prefix})

			first := svc.FormatShortURL(tt.code)
			if first != tt.want {
				t.Errorf("FormatShortURL() = %q, want %q", first, tt.want)
			}
			if second := svc.FormatShortURL(tt.code); second != first {
				t.Errorf("FormatShortURL() not deterministic: %q vs %q", first, second)
			}
		})
	}
}

/***************
 * Create
 ***************/

func TestServiceCreate(t *testing.T) {
	userID := uuid.New()

	t.Run("anonymous link has no owner", func(t *testing.T) {
		var captured Link
		repo := &mockRepository{
			createFunc: func(_ context.Context, link Link) (Link, error) {
				captured = link
				link.ID = uuid.New()
				return link, nil
			},
		}
		svc := NewService(repo, &ServiceConfig{CodeGenerator: &mockCodeGenerator{codes: []string{"xyz9876"}}})

		got, err := svc.Create(context.Background(), "https://example.com", anonymous)
		if err != nil {
			t.Fatalf("Create() unexpected error: %v", err)
		}
		if captured.OwnerID.Valid {
			t.Errorf("OwnerID = %v, want null", captured.OwnerID)
		}
		if captured.OriginalURL != "https://example.com" {
			t.Errorf("OriginalURL = %q, want https://example.com", captured.OriginalURL)
		}
		if got.Code != "xyz9876" {
			t.Errorf("Code = %q, want xyz9876", got.Code)
		}
	})

	t.Run("authenticated link is owned by caller", func(t *testing.T) {
		var captured Link
		repo := &mockRepository{
			createFunc: func(_ context.Context, link Link) (Link, error) {
				captured = link
				return link, nil
			},
		}
		svc := NewService(repo, &ServiceConfig{CodeGenerator: &mockCodeGenerator{}})

		if _, err := svc.Create(context.Background(), "https://example.com", caller(userID)); err != nil {
			t.Fatalf("Create() unexpected error: %v", err)
		}
		if !captured.OwnerID.Valid || captured.OwnerID.UUID != userID {
			t.Errorf("OwnerID = %v, want %v", captured.OwnerID, userID)
		}
	})

	t.Run("uses configured code length", func(t *testing.T) {
		gen := &mockCodeGenerator{}
		svc := NewService(&mockRepository{}, &ServiceConfig{CodeGenerator: gen, CodeLength: 10})

		if _, err := svc.Create(context.Background(), "https://example.com", anonymous); err != nil {
			t.Fatalf("Create() unexpected error: %v", err)
		}
		if gen.lengths[0] != 10 {
			t.Errorf("code length = %d, want 10", gen.lengths[0])
		}
	})

	t.Run("retries on Conflict and succeeds", func(t *testing.T) {
		var attempted []string
		repo := &mockRepository{
			createFunc: func(_ context.Context, link Link) (Link, error) {
				attempted = append(attempted, link.Code)
				if len(attempted) < 3 {
					return Link{}, errx.New("repo.Create", errx.Conflict, "duplicate code")
				}
				return link, nil
			},
		}
		gen := &mockCodeGenerator{codes: []string{"aaaa111", "bbbb222", "cccc333"}}
		svc := NewService(repo, &ServiceConfig{CodeGenerator: gen, MaxRetries: 5})

		got, err := svc.Create(context.Background(), "https://example.com", anonymous)
		if err != nil {
			t.Fatalf("Create() unexpected error: %v", err)
		}
		if got.Code != "cccc333" {
			t.Errorf("Code = %q, want cccc333", got.Code)
		}
		if strings.Join(attempted, ",") != "aaaa111,bbbb222,cccc333" {
			t.Errorf("attempted codes = %v", attempted)
		}
	})

	t.Run("reserved route code is regenerated", func(t *testing.T) {
		var attempted []string
		repo := &mockRepository{
			createFunc: func(_ context.Context, link Link) (Link, error) {
				attempted = append(attempted, link.Code)
				return link, nil
			},
		}
		gen := &mockCodeGenerator{codes: []string{"user", "uSer"}}
		svc := NewService(repo, &ServiceConfig{CodeGenerator: gen, CodeLength: 4, MaxRetries: 5})

		got, err := svc.Create(context.Background(), "https://example.com", anonymous)
		if err != nil {
			t.Fatalf("Create() unexpected error: %v", err)
		}
		if got.Code != "uSer" {
			t.Errorf("Code = %q, want uSer", got.Code)
		}
		if len(attempted) != 1 || gen.callCount != 2 {
			t.Errorf("attempted = %v, generator calls = %d; want one insert after two draws", attempted, gen.callCount)
		}
	})

	t.Run("exhausted retries is Internal", func(t *testing.T) {
		calls := 0
		repo := &mockRepository{
			createFunc: func(context.Context, Link) (Link, error) {
				calls++
				return Link{}, errx.New("repo.Create", errx.Conflict, "duplicate code")
			},
		}
		gen := &mockCodeGenerator{}
		svc := NewService(repo, &ServiceConfig{CodeGenerator: gen, MaxRetries: 3})

		_, err := svc.Create(context.Background(), "https://example.com", anonymous)
		if errx.KindOf(err) != errx.Internal {
			t.Errorf("KindOf(err) = %v, want Internal", errx.KindOf(err))
		}
		if calls != 3 || gen.callCount != 3 {
			t.Errorf("repo calls = %d, generator calls = %d, want 3 and 3", calls, gen.callCount)
		}
	})

	t.Run("non-conflict errors are not retried", func(t *testing.T) {
		calls := 0
		repo := &mockRepository{
			createFunc: func(context.Context, Link) (Link, error) {
				calls++
				return Link{}, errx.E("repo.Create", errx.Unavailable, errors.New("db down"))
			},
		}
		svc := NewService(repo, &ServiceConfig{CodeGenerator: &mockCodeGenerator{}})

		_, err := svc.Create(context.Background(), "https://example.com", anonymous)
		if errx.KindOf(err) != errx.Unavailable {
			t.Errorf("KindOf(err) = %v, want Unavailable", errx.KindOf(err))
		}
		if calls != 1 {
			t.Errorf("repo calls = %d, want 1", calls)
		}
	})

	t.Run("generator failure is Internal", func(t *testing.T) {
		svc := NewService(&mockRepository{}, &ServiceConfig{
			CodeGenerator: &mockCodeGenerator{err: errors.New("rand failed")},
		})

		_, err := svc.Create(context.Background(), "https://example.com", anonymous)
		if errx.KindOf(err) != errx.Internal {
			t.Errorf("KindOf(err) = %v, want Internal", errx.KindOf(err))
		}
	})

	t.Run("invalid URLs are rejected before storage", func(t *testing.T) {
		repo := &mockRepository{
			createFunc: func(context.Context, Link) (Link, error) {
				t.Error("repo.Create should not be called")
				return Link{}, nil
			},
		}
		svc := NewService(repo, nil)

		for _, raw := range []string{
			"",
			"example.com",
			"ftp://example.com/file",
			"https://",
			"https://example.com/" + strings.Repeat("a", MaxURLLength),
		} {
			_, err := svc.Create(context.Background(), raw, anonymous)
			if errx.KindOf(err) != errx.Invalid {
				t.Errorf("Create(%.30q) kind = %v, want Invalid", raw, errx.KindOf(err))
			}
		}
	})
}

/***************
 * FindAllByUser
 ***************/

func TestServiceFindAllByUser(t *testing.T) {
	userID := uuid.New()
	now := time.Now()

	t.Run("anonymous caller gets an empty page", func(t *testing.T) {
		repo := &mockRepository{
			findAllByUserFunc: func(context.Context, uuid.UUID, Pagination) ([]Link, int64, error) {
				t.Error("repo should not be queried")
				return nil, 0, nil
			},
		}
		got, err := NewService(repo, nil).FindAllByUser(context.Background(), Pagination{}, anonymous)
		if err != nil {
			t.Fatalf("FindAllByUser() unexpected error: %v", err)
		}
		if len(got.Items) != 0 || got.Total != 0 {
			t.Errorf("got %d items, total %d; want empty", len(got.Items), got.Total)
		}
		if got.Items == nil {
			t.Error("Items should be an empty slice, not nil")
		}
	})

	t.Run("maps links to summaries", func(t *testing.T) {
		repo := &mockRepository{
			findAllByUserFunc: func(_ context.Context, ownerID uuid.UUID, p Pagination) ([]Link, int64, error) {
				if ownerID != userID {
					t.Errorf("ownerID = %v, want %v", ownerID, userID)
				}
				if p.Page != 2 || p.PerPage != 10 {
					t.Errorf("pagination = %+v, want page 2 of 10", p)
				}
				return []Link{{ID: uuid.New(), Code: "abc1234", OriginalURL: "https://example.com", AccessCount: 7, CreatedAt: now}}, 11, nil
			},
		}
		svc := NewService(repo, &ServiceConfig{ShortURLPrefix: "https://sho.rt/links"})

		got, err := svc.FindAllByUser(context.Background(), Pagination{Page: 2, PerPage: 10}, caller(userID))
		if err != nil {
			t.Fatalf("FindAllByUser() unexpected error: %v", err)
		}
		if got.Total != 11 || len(got.Items) != 1 {
			t.Fatalf("got %d items, total %d; want 1, 11", len(got.Items), got.Total)
		}
		item := got.Items[0]
		if item.ShortURL != "https://sho.rt/links/abc1234" {
			t.Errorf("ShortURL = %q", item.ShortURL)
		}
		if item.AccessCount != 7 {
			t.Errorf("AccessCount = %d, want 7", item.AccessCount)
		}
	})

	t.Run("normalizes pagination", func(t *testing.T) {
		tests := []struct {
			name string
			in   Pagination
			want Pagination
		}{
			{"defaults", Pagination{}, Pagination{Page: 1, PerPage: 10}},
			{"clamps per page", Pagination{Page: 3, PerPage: 1000}, Pagination{Page: 3, PerPage: 50}},
			{"keeps valid values", Pagination{Page: 2, PerPage: 25}, Pagination{Page: 2, PerPage: 25}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				var seen Pagination
				repo := &mockRepository{
					findAllByUserFunc: func(_ context.Context, _ uuid.UUID, p Pagination) ([]Link, int64, error) {
						seen = p
						return nil, 0, nil
					},
				}
				svc := NewService(repo, &ServiceConfig{MaxPerPage: 50})

				got, err := svc.FindAllByUser(context.Background(), tt.in, caller(userID))
				if err != nil {
					t.Fatalf("FindAllByUser() unexpected error: %v", err)
				}
				if seen != tt.want {
					t.Errorf("repo pagination = %+v, want %+v", seen, tt.want)
				}
				if got.Page != tt.want.Page || got.PerPage != tt.want.PerPage {
					t.Errorf("page = %d/%d, want %d/%d", got.Page, got.PerPage, tt.want.Page, tt.want.PerPage)
				}
			})
		}
	})

	t.Run("negative pagination is Invalid", func(t *testing.T) {
		svc := NewService(&mockRepository{}, nil)
		for _, p := range []Pagination{{Page: -1}, {PerPage: -5}} {
			_, err := svc.FindAllByUser(context.Background(), p, caller(userID))
			if errx.KindOf(err) != errx.Invalid {
				t.Errorf("FindAllByUser(%+v) kind = %v, want Invalid", p, errx.KindOf(err))
			}
		}
	})

	t.Run("page whose offset overflows is Invalid", func(t *testing.T) {
		repo := &mockRepository{
			findAllByUserFunc: func(context.Context, uuid.UUID, Pagination) ([]Link, int64, error) {
				t.Error("repository should not be called")
				return nil, 0, nil
			},
		}
		svc := NewService(repo, nil)
		_, err := svc.FindAllByUser(context.Background(), Pagination{Page: 1<<60 + 2, PerPage: 16}, caller(userID))
		if errx.KindOf(err) != errx.Invalid {
			t.Errorf("kind = %v, want Invalid", errx.KindOf(err))
		}
	})
}

/***************
 * Get / Redirect
 ***************/

func TestServiceGet(t *testing.T) {
	owner := uuid.New()
	link := Link{ID: uuid.New(), Code: "abc1234", OwnerID: caller(owner)}
	repo := &mockRepository{
		findByIDFunc: func(_ context.Context, id uuid.UUID) (Link, error) {
			if id == link.ID {
				return link, nil
			}
			return Link{}, errx.New("repo.FindByID", errx.NotFound, "not found")
		},
	}
	svc := NewService(repo, nil)
	ctx := context.Background()

	if got, err := svc.Get(ctx, link.ID, caller(owner)); err != nil || got.ID != link.ID {
		t.Errorf("Get(owner) = %v, %v", got.ID, err)
	}
	if _, err := svc.Get(ctx, link.ID, caller(uuid.New())); errx.KindOf(err) != errx.Forbidden {
		t.Errorf("Get(other) kind = %v, want Forbidden", errx.KindOf(err))
	}
	if _, err := svc.Get(ctx, uuid.New(), caller(owner)); errx.KindOf(err) != errx.NotFound {
		t.Errorf("Get(missing) kind = %v, want NotFound", errx.KindOf(err))
	}
}

func TestServiceRedirectToOriginalURL(t *testing.T) {
	t.Run("returns original URL and counts each call", func(t *testing.T) {
		count := int64(0)
		repo := &mockRepository{
			resolveAndTrackFunc: func(_ context.Context, code string) (Link, error) {
				count++
				return Link{Code: code, OriginalURL: "https://example.com", AccessCount: count}, nil
			},
		}
		svc := NewService(repo, nil)

		for range 3 {
			got, err := svc.RedirectToOriginalURL(context.Background(), "abc1234")
			if err != nil {
				t.Fatalf("RedirectToOriginalURL() unexpected error: %v", err)
			}
			if got != "https://example.com" {
				t.Errorf("RedirectToOriginalURL() = %q, want https://example.com", got)
			}
		}
		if count != 3 {
			t.Errorf("ResolveAndTrack calls = %d, want 3", count)
		}
	})

	t.Run("missing or deleted code is NotFound", func(t *testing.T) {
		svc := NewService(&mockRepository{}, nil)
		_, err := svc.RedirectToOriginalURL(context.Background(), "gone123")
		if errx.KindOf(err) != errx.NotFound {
			t.Errorf("KindOf(err) = %v, want NotFound", errx.KindOf(err))
		}
	})

	t.Run("empty code is Invalid", func(t *testing.T) {
		svc := NewService(&mockRepository{}, nil)
		_, err := svc.RedirectToOriginalURL(context.Background(), "")
		if errx.KindOf(err) != errx.Invalid {
			t.Errorf("KindOf(err) = %v, want Invalid", errx.KindOf(err))
		}
	})
}

/***************
 * UpdateOriginalURL / SoftDelete
 ***************/

func TestServiceUpdateOriginalURL(t *testing.T) {
	owner := uuid.New()
	owned := Link{ID: uuid.New(), Code: "abc1234", OriginalURL: "https://old.example.com", OwnerID: caller(owner)}
	orphan := Link{ID: uuid.New(), Code: "def5678", OriginalURL: "https://old.example.com"}

	newRepo := func(updated *bool) *mockRepository {
		return &mockRepository{
			findByIDFunc: func(_ context.Context, id uuid.UUID) (Link, error) {
				switch id {
				case owned.ID:
					return owned, nil
				case orphan.ID:
					return orphan, nil
				}
				return Link{}, errx.New("repo.FindByID", errx.NotFound, "not found")
			},
			updateFunc: func(_ context.Context, id uuid.UUID, patch Patch) (Link, error) {
				*updated = true
				l := owned
				l.OriginalURL = *patch.OriginalURL
				return l, nil
			},
		}
	}

	tests := []struct {
		name        string
		id          uuid.UUID
		url         string
		callerID    uuid.NullUUID
		wantKind    errx.Kind
		wantUpdated bool
	}{
		{"owner updates", owned.ID, "https://new.example.com", caller(owner), errx.Unknown, true},
		{"anonymous caller", owned.ID, "https://new.example.com", anonymous, errx.Unauthorized, false},
		{"other user", owned.ID, "https://new.example.com", caller(uuid.New()), errx.Forbidden, false},
		{"ownerless link", orphan.ID, "https://new.example.com", caller(owner), errx.Forbidden, false},
		{"missing link", uuid.New(), "https://new.example.com", caller(owner), errx.NotFound, false},
		{"invalid url", owned.ID, "not a url", caller(owner), errx.Invalid, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated := false
			svc := NewService(newRepo(&updated), nil)

			got, err := svc.UpdateOriginalURL(context.Background(), tt.id, tt.url, tt.callerID)
			if tt.wantKind == errx.Unknown {
				if err != nil {
					t.Fatalf("UpdateOriginalURL() unexpected error: %v", err)
				}
				if got.OriginalURL != tt.url {
					t.Errorf("OriginalURL = %q, want %q", got.OriginalURL, tt.url)
				}
			} else if errx.KindOf(err) != tt.wantKind {
				t.Errorf("KindOf(err) = %v, want %v", errx.KindOf(err), tt.wantKind)
			}
			if updated != tt.wantUpdated {
				t.Errorf("repo.Update called = %v, want %v", updated, tt.wantUpdated)
			}
		})
	}
}

func TestServiceSoftDelete(t *testing.T) {
	owner := uuid.New()
	owned := Link{ID: uuid.New(), OwnerID: caller(owner)}
	orphan := Link{ID: uuid.New()}

	newRepo := func(deleted map[uuid.UUID]bool) *mockRepository {
		return &mockRepository{
			findByIDFunc: func(_ context.Context, id uuid.UUID) (Link, error) {
				if deleted[id] {
					return Link{}, errx.New("repo.FindByID", errx.NotFound, "not found")
				}
				switch id {
				case owned.ID:
					return owned, nil
				case orphan.ID:
					return orphan, nil
				}
				return Link{}, errx.New("repo.FindByID", errx.NotFound, "not found")
			},
			softDeleteFunc: func(_ context.Context, id uuid.UUID) error {
				deleted[id] = true
				return nil
			},
		}
	}

	t.Run("owner deletes, second delete is NotFound", func(t *testing.T) {
		deleted := map[uuid.UUID]bool{}
		svc := NewService(newRepo(deleted), nil)

		if err := svc.SoftDelete(context.Background(), owned.ID, caller(owner)); err != nil {
			t.Fatalf("SoftDelete() unexpected error: %v", err)
		}
		if !deleted[owned.ID] {
			t.Error("link was not soft-deleted")
		}
		err := svc.SoftDelete(context.Background(), owned.ID, caller(owner))
		if errx.KindOf(err) != errx.NotFound {
			t.Errorf("second SoftDelete() kind = %v, want NotFound", errx.KindOf(err))
		}
	})

	tests := []struct {
		name     string
		id       uuid.UUID
		callerID uuid.NullUUID
		want     errx.Kind
	}{
		{"non-owner", owned.ID, caller(uuid.New()), errx.Forbidden},
		{"anonymous caller on owned link", owned.ID, anonymous, errx.Forbidden},
		{"anonymous link by user", orphan.ID, caller(owner), errx.Forbidden},
		{"anonymous link by anonymous caller", orphan.ID, anonymous, errx.Forbidden},
		{"missing", uuid.New(), caller(owner), errx.NotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deleted := map[uuid.UUID]bool{}
			svc := NewService(newRepo(deleted), nil)

			err := svc.SoftDelete(context.Background(), tt.id, tt.callerID)
			if errx.KindOf(err) != tt.want {
				t.Errorf("KindOf(err) = %v, want %v", errx.KindOf(err), tt.want)
			}
			if len(deleted) != 0 {
				t.Error("repo.SoftDelete should not be called")
			}
		})
	}
}

func TestPaginationInRange(t *testing.T) {
	tests := []struct {
		name string
		p    Pagination
		want bool
	}{
		{"first page", Pagination{Page: 1, PerPage: 10}, true},
		{"last addressable page", Pagination{Page: MaxOffset/10 + 1, PerPage: 10}, true},
		{"one past last addressable page", Pagination{Page: MaxOffset/10 + 2, PerPage: 10}, false},
		{"offset wraps to a small value", Pagination{Page: 1<<60 + 2, PerPage: 16}, false},
		{"offset wraps to zero", Pagination{Page: 1<<62 + 1, PerPage: 4}, false},
		{"offset wraps negative", Pagination{Page: 3<<60 + 1, PerPage: 4}, false},
		{"zero page", Pagination{Page: 0, PerPage: 10}, false},
		{"zero perPage", Pagination{Page: 1, PerPage: 0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.InRange(); got != tt.want {
				t.Errorf("InRange(%+v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestLinkOwnedBy(t *testing.T) {
	owner := uuid.New()

	tests := []struct {
		name   string
		link   Link
		caller uuid.NullUUID
		want   bool
	}{
		{"owner", Link{OwnerID: caller(owner)}, caller(owner), true},
		{"other user", Link{OwnerID: caller(owner)}, caller(uuid.New()), false},
		{"anonymous caller", Link{OwnerID: caller(owner)}, anonymous, false},
		{"ownerless link", Link{}, caller(owner), false},
		{"ownerless link, anonymous caller", Link{}, anonymous, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.link.OwnedBy(tt.caller); got != tt.want {
				t.Errorf("OwnedBy() = %v, want %v", got, tt.want)
			}
		})
	}
}
