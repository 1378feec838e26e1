package links

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sundayezeilo/shortlinks/internal/auth"
	"github.com/sundayezeilo/shortlinks/internal/errx"
	"github.com/sundayezeilo/shortlinks/internal/httpx"
)

// TotalCountHeader carries the number of links across all pages of a listing.
const TotalCountHeader = "X-Total-Count"

// CreateShortUrlDto is the request body of POST /links.
type CreateShortUrlDto struct {
	OriginalURL string `json:"originalUrl" validate:"required,max=2048,url"`
}

// UpdateOriginalUrlDto is the request body of PATCH /links/url/{id}.
type UpdateOriginalUrlDto struct {
	OriginalURL string `json:"originalUrl" validate:"required,max=2048,url"`
}

type listLinksQuery struct {
	Page    int `query:"page" validate:"min=0"`
	PerPage int `query:"perPage" validate:"min=0"`
}

// ShortUrlResponse is returned when a link is created.
type ShortUrlResponse struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	ShortURL string `json:"shortUrl"`
}

// LinkSummaryResponse is one element of a listing.
type LinkSummaryResponse struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	ShortURL    string `json:"shortUrl"`
	OriginalURL string `json:"originalUrl"`
	AccessCount int64  `json:"accessCount"`
	CreatedAt   string `json:"createdAt"`
}

// LinkResponse is the full view of a link owned by the caller.
type LinkResponse struct {
	ID             string  `json:"id"`
	Code           string  `json:"code"`
	ShortURL       string  `json:"shortUrl"`
	OriginalURL    string  `json:"originalUrl"`
	AccessCount    int64   `json:"accessCount"`
	CreatedAt      string  `json:"createdAt"`
	UpdatedAt      string  `json:"updatedAt"`
	LastAccessedAt *string `json:"lastAccessedAt,omitempty"`
}

// Handler provides HTTP handlers for short links.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// HandlerConfig holds configuration for the handler.
type HandlerConfig struct {
	Service Service
	Logger  *slog.Logger
}

// NewHandler creates a new Handler instance.
func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		service: cfg.Service,
		logger:  logger,
	}
}

// Routes mounts the link endpoints. optional attaches a caller identity when
// one is presented; required rejects anonymous requests.
func (h *Handler) Routes(optional, required httpx.Middleware) func(chi.Router) {
	return func(r chi.Router) {
		r.With(optional).Post("/", h.Create)
		r.With(required).Get("/user", h.ListMine)
		r.With(required).Get("/id/{id}", h.Get)
		r.With(required).Patch("/url/{id}", h.UpdateOriginalURL)
		r.With(required).Delete("/{id}", h.Delete)
		r.Get("/{code}", h.Redirect)
	}
}

func (h *Handler) requestLogger(r *http.Request) *slog.Logger {
	return h.logger.With(
		"request_id", httpx.GetRequestID(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
	)
}

// Create handles POST /links. Authentication is optional; anonymous links
// have no owner.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	req, err := httpx.DecodeValid[CreateShortUrlDto](r)
	if err != nil {
		logger.WarnContext(ctx, "invalid create request", "error", err.Error())
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input", err.Error(), nil)
		return
	}

	callerID := auth.CallerID(ctx)
	link, err := h.service.Create(ctx, req.OriginalURL, callerID)
	if err != nil {
		h.writeError(ctx, w, logger, err, httpx.Messages{
			errx.Internal: "Unable to create short link at this time. Please try again.",
		})
		return
	}

	logger.InfoContext(ctx, "link created",
		"link_id", link.ID.String(),
		"code", link.Code,
		"anonymous", !callerID.Valid,
	)

	httpx.WriteJSON(w, http.StatusCreated, ShortUrlResponse{
		ID:       link.ID.String(),
		Code:     link.Code,
		ShortURL: h.service.FormatShortURL(link.Code),
	})
}

// ListMine handles GET /links/user.
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	q, err := parseListQuery(r)
	if err != nil {
		logger.WarnContext(ctx, "invalid pagination", "error", err.Error())
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input", err.Error(), nil)
		return
	}

	page, err := h.service.FindAllByUser(ctx, Pagination{Page: q.Page, PerPage: q.PerPage}, auth.CallerID(ctx))
	if err != nil {
		h.writeError(ctx, w, logger, err, nil)
		return
	}

	out := make([]LinkSummaryResponse, 0, len(page.Items))
	for _, s := range page.Items {
		out = append(out, LinkSummaryResponse{
			ID:          s.ID.String(),
			Code:        s.Code,
			ShortURL:    s.ShortURL,
			OriginalURL: s.OriginalURL,
			AccessCount: s.AccessCount,
			CreatedAt:   formatTime(s.CreatedAt),
		})
	}

	w.Header().Set(TotalCountHeader, strconv.FormatInt(page.Total, 10))
	httpx.WriteJSON(w, http.StatusOK, out)
}

// Get handles GET /links/id/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	id, ok := linkIDParam(r)
	if !ok {
		writeLinkNotFound(w)
		return
	}

	link, err := h.service.Get(ctx, id, auth.CallerID(ctx))
	if err != nil {
		h.writeError(ctx, w, logger, err, nil)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, h.toLinkResponse(link))
}

// Redirect handles GET /links/{code}, answering 302 to the original URL.
func (h *Handler) Redirect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	code := chi.URLParam(r, "code")
	if !plausibleCode(code) {
		writeLinkNotFound(w)
		return
	}

	originalURL, err := h.service.RedirectToOriginalURL(ctx, code)
	if err != nil {
		h.writeError(ctx, w, logger.With("code", code), err, httpx.Messages{
			errx.NotFound: "short link doesn't exist",
		})
		return
	}

	logger.InfoContext(ctx, "code resolved",
		"code", code,
		"user_agent", r.UserAgent(),
		"referer", r.Referer(),
	)

	http.Redirect(w, r, originalURL, http.StatusFound)
}

// UpdateOriginalURL handles PATCH /links/url/{id}.
func (h *Handler) UpdateOriginalURL(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	id, ok := linkIDParam(r)
	if !ok {
		writeLinkNotFound(w)
		return
	}

	req, err := httpx.DecodeValid[UpdateOriginalUrlDto](r)
	if err != nil {
		logger.WarnContext(ctx, "invalid update request", "error", err.Error())
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input", err.Error(), nil)
		return
	}

	link, err := h.service.UpdateOriginalURL(ctx, id, req.OriginalURL, auth.CallerID(ctx))
	if err != nil {
		h.writeError(ctx, w, logger.With("link_id", id.String()), err, nil)
		return
	}

	logger.InfoContext(ctx, "link updated", "link_id", link.ID.String())
	httpx.WriteJSON(w, http.StatusOK, h.toLinkResponse(link))
}

// Delete handles DELETE /links/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	id, ok := linkIDParam(r)
	if !ok {
		writeLinkNotFound(w)
		return
	}

	if err := h.service.SoftDelete(ctx, id, auth.CallerID(ctx)); err != nil {
		h.writeError(ctx, w, logger.With("link_id", id.String()), err, nil)
		return
	}

	logger.InfoContext(ctx, "link deleted", "link_id", id.String())
	httpx.WriteNoContent(w)
}

// writeError logs err at a level matching its status and writes the response.
func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, logger *slog.Logger, err error, msgs httpx.Messages) {
	kind := errx.KindOf(err)
	attrs := []any{
		"error", err.Error(),
		"error_kind", kind,
		"operation", errx.OpOf(err),
	}

	if httpx.ErrorKindToStatus(kind) >= http.StatusInternalServerError {
		logger.ErrorContext(ctx, "link request failed", attrs...)
	} else {
		logger.WarnContext(ctx, "link request rejected", attrs...)
	}
	httpx.WriteKindError(w, err, msgs)
}

func (h *Handler) toLinkResponse(l Link) LinkResponse {
	resp := LinkResponse{
		ID:          l.ID.String(),
		Code:        l.Code,
		ShortURL:    h.service.FormatShortURL(l.Code),
		OriginalURL: l.OriginalURL,
		AccessCount: l.AccessCount,
		CreatedAt:   formatTime(l.CreatedAt),
		UpdatedAt:   formatTime(l.UpdatedAt),
	}
	if l.LastAccessedAt != nil {
		s := formatTime(*l.LastAccessedAt)
		resp.LastAccessedAt = &s
	}
	return resp
}

func parseListQuery(r *http.Request) (listLinksQuery, error) {
	var q listLinksQuery
	values := r.URL.Query()

	for _, f := range []struct {
		name string
		dst  *int
	}{
		{"page", &q.Page},
		{"perPage", &q.PerPage},
	} {
		raw := values.Get(f.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return q, fmt.Errorf("%s must be an integer", f.name)
		}
		*f.dst = n
	}

	if err := httpx.Validate(q); err != nil {
		return q, err
	}
	return q, nil
}

func linkIDParam(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// plausibleCode rejects values no generated code could match, sparing a
// storage round trip.
func plausibleCode(code string) bool {
	return len(code) >= MinCodeLength && len(code) <= MaxCodeLength
}

func writeLinkNotFound(w http.ResponseWriter) {
	httpx.WriteError(w, http.StatusNotFound, "not_found", "short link doesn't exist", nil)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
