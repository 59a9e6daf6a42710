package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"authgate/internal/httputil"
	"authgate/internal/logging"
	"authgate/internal/ratelimit"
	"authgate/internal/user"
)

// Handler contains the HTTP handlers for the authentication endpoints.
type Handler struct {
	service *Service
	limiter *ratelimit.Limiter
	logger  *logging.Logger
}

func NewHandler(service *Service, limiter *ratelimit.Limiter, logger *logging.Logger) *Handler {
	return &Handler{
		service: service,
		limiter: limiter,
		logger:  logger,
	}
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles user creation
// @Summary      Register a new user
// @Description  Create an account and receive the credential pair the client must persist.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration fields"
// @Success      200 {object} Credentials
// @Failure      400 {object} httputil.ErrorResponse "Validation failure or email already taken"
// @Failure      500 {object} httputil.ErrorResponse
// @Router       /api/users [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	if !h.allow(w, r, "register") {
		return
	}

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid registration request body", "error", err.Error())
		httputil.RespondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	creds, err := h.service.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrDuplicateEmail):
			logger.Warn("registration failed: email already exists", "email", req.Email)
			httputil.RespondError(w, "email already exists", http.StatusBadRequest)
		case isValidationError(err):
			logger.Warn("registration failed: validation error", "error", err.Error())
			httputil.RespondError(w, err.Error(), http.StatusBadRequest)
		default:
			logger.Error("registration failed", "error", err.Error())
			httputil.RespondError(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	logger.Info("user registered", "user_id", creds.ID.String())
	httputil.RespondJSON(w, creds, http.StatusOK)
}

// Login handles credential verification
// @Summary      Log in
// @Description  Verify email and password and receive a fresh credential pair.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} Credentials
// @Failure      400 {object} httputil.ErrorResponse "Invalid email or password"
// @Failure      500 {object} httputil.ErrorResponse
// @Router       /api/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	if !h.allow(w, r, "login") {
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid login request body", "error", err.Error())
		httputil.RespondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	creds, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			logger.Warn("login failed", "email", req.Email)
			httputil.RespondError(w, "invalid email or password", http.StatusBadRequest)
			return
		}
		logger.Error("login failed", "error", err.Error())
		httputil.RespondError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	logger.Info("user logged in", "user_id", creds.ID.String())
	httputil.RespondJSON(w, creds, http.StatusOK)
}

// Show returns a user by id
// @Summary      Get a user
// @Description  Fetch a user record by id. Requires a bearer token.
// @Tags         users
// @Produce      json
// @Param        id path string true "User id"
// @Security     BearerAuth
// @Success      200 {object} user.User
// @Failure      401 {object} httputil.ErrorResponse
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /api/users/{id} [get]
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondError(w, "not found", http.StatusNotFound)
		return
	}

	u, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			httputil.RespondError(w, "not found", http.StatusNotFound)
			return
		}
		logger.Error("failed to fetch user", "error", err.Error())
		httputil.RespondError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, u, http.StatusOK)
}

// allow applies the IP rate limit for the given purpose. Returns
// false after writing the 429 response.
func (h *Handler) allow(w http.ResponseWriter, r *http.Request, purpose string) bool {
	logger := logging.GetLoggerFromContext(r.Context())

	exceeded, err := h.limiter.CheckIPRateLimit(r.Context(), r.RemoteAddr, purpose)
	if err != nil {
		// Limiter trouble must not lock users out.
		logger.Error("failed to check rate limit", "error", err.Error())
		return true
	}
	if exceeded {
		logger.Warn("rate limit exceeded", "purpose", purpose, "ip", r.RemoteAddr)
		httputil.RespondError(w, "too many requests, please try again later", http.StatusTooManyRequests)
		return false
	}

	if err := h.limiter.RecordIPRequest(r.Context(), r.RemoteAddr, purpose); err != nil {
		logger.Error("failed to record rate limit hit", "error", err.Error())
	}

	return true
}

func isValidationError(err error) bool {
	return errors.Is(err, ErrNameRequired) ||
		errors.Is(err, ErrEmailRequired) ||
		errors.Is(err, ErrInvalidEmailFormat) ||
		errors.Is(err, ErrPasswordRequired) ||
		errors.Is(err, ErrPasswordTooShort)
}
