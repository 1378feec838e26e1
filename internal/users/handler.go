package users

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sundayezeilo/shortlinks/internal/auth"
	"github.com/sundayezeilo/shortlinks/internal/errx"
	"github.com/sundayezeilo/shortlinks/internal/httpx"
)

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID uuid.UUID) (string, time.Time, error)
}

type RegisterDto struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginDto struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
}

type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	ExpiresIn   int64  `json:"expiresIn"`
}

// Handler provides HTTP handlers for accounts and login.
type Handler struct {
	service Service
	tokens  TokenIssuer
	logger  *slog.Logger
	now     func() time.Time
}

type HandlerConfig struct {
	Service Service
	Tokens  TokenIssuer
	Logger  *slog.Logger
}

func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		service: cfg.Service,
		tokens:  cfg.Tokens,
		logger:  logger,
		now:     time.Now,
	}
}

// Routes mounts the account endpoints at the router root.
func (h *Handler) Routes(required httpx.Middleware) func(chi.Router) {
	return func(r chi.Router) {
		r.Post("/users", h.Register)
		r.Post("/auth/login", h.Login)
		r.With(required).Get("/users/me", h.Me)
	}
}

func (h *Handler) requestLogger(r *http.Request) *slog.Logger {
	return h.logger.With(
		"request_id", httpx.GetRequestID(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
	)
}

// Register handles POST /users.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	req, err := httpx.DecodeValid[RegisterDto](r)
	if err != nil {
		logger.WarnContext(ctx, "invalid register request", "error", err.Error())
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input", err.Error(), nil)
		return
	}

	user, err := h.service.Register(ctx, req.Email, req.Password)
	if err != nil {
		h.writeError(ctx, w, logger, err)
		return
	}

	logger.InfoContext(ctx, "user registered", "user_id", user.ID.String())
	httpx.WriteJSON(w, http.StatusCreated, toUserResponse(user))
}

// Login handles POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	req, err := httpx.DecodeValid[LoginDto](r)
	if err != nil {
		logger.WarnContext(ctx, "invalid login request", "error", err.Error())
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input", err.Error(), nil)
		return
	}

	user, err := h.service.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		h.writeError(ctx, w, logger, err)
		return
	}

	token, expiresAt, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.writeError(ctx, w, logger, errx.E("users.handler.Login", errx.Internal, err))
		return
	}

	httpx.WriteJSON(w, http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(expiresAt.Sub(h.now()).Round(time.Second) / time.Second),
	})
}

// Me handles GET /users/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	callerID := auth.CallerID(ctx)
	if !callerID.Valid {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "authentication required", nil)
		return
	}

	user, err := h.service.Get(ctx, callerID.UUID)
	if err != nil {
		h.writeError(ctx, w, logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, logger *slog.Logger, err error) {
	kind := errx.KindOf(err)
	if httpx.ErrorKindToStatus(kind) >= http.StatusInternalServerError {
		logger.ErrorContext(ctx, "user request failed", "error", err.Error(), "error_kind", kind, "operation", errx.OpOf(err))
	} else {
		logger.WarnContext(ctx, "user request rejected", "error", err.Error(), "error_kind", kind, "operation", errx.OpOf(err))
	}
	httpx.WriteKindError(w, err, httpx.Messages{
		errx.Unauthorized: "invalid email or password",
	})
}

func toUserResponse(u User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}
}
