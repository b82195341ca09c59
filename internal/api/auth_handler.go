package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/phrazzld/sophia-api/internal/api/shared"
	"github.com/phrazzld/sophia-api/internal/config"
	"github.com/phrazzld/sophia-api/internal/platform/logger"
	"github.com/phrazzld/sophia-api/internal/redact"
	"github.com/phrazzld/sophia-api/internal/service"
	"github.com/phrazzld/sophia-api/internal/service/auth"
	"github.com/phrazzld/sophia-api/internal/store"
)

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	userService      service.UserService
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	tokenLifetime    time.Duration
	validator        *validator.Validate
	logger           *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	userService service.UserService,
	jwtService auth.JWTService,
	passwordVerifier auth.PasswordVerifier,
	authConfig config.AuthConfig,
	log *slog.Logger,
) *AuthHandler {
	if log == nil {
		log = slog.Default()
	}

	return &AuthHandler{
		userService:      userService,
		jwtService:       jwtService,
		passwordVerifier: passwordVerifier,
		tokenLifetime:    time.Duration(authConfig.TokenLifetimeMinutes) * time.Minute,
		validator:        validator.New(),
		logger:           log.With(slog.String("component", "auth_handler")),
	}
}

// tokenPair bundles a freshly issued access and refresh token.
type tokenPair struct {
	accessToken  string
	refreshToken string
	expiresAt    string
}

// issueTokens generates a new access and refresh token pair for the user.
func (h *AuthHandler) issueTokens(r *http.Request, userID uuid.UUID) (tokenPair, error) {
	accessToken, err := h.jwtService.GenerateToken(r.Context(), userID)
	if err != nil {
		return tokenPair{}, err
	}

	refreshToken, err := h.jwtService.GenerateRefreshToken(r.Context(), userID)
	if err != nil {
		return tokenPair{}, err
	}

	return tokenPair{
		accessToken:  accessToken,
		refreshToken: refreshToken,
		expiresAt:    time.Now().UTC().Add(h.tokenLifetime).Format(time.RFC3339),
	}, nil
}

// Register handles the /auth/register endpoint.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req RegisterRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	user, err := h.userService.CreateUser(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			shared.RespondWithError(w, r, http.StatusConflict, "Email already exists")
			return
		}
		log.Error("failed to create user", slog.String("error", redact.Error(err)))
		HandleAPIError(w, r, err, "Failed to create user")
		return
	}

	tokens, err := h.issueTokens(r, user.ID)
	if err != nil {
		log.Error("failed to generate tokens",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", user.ID.String()))
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to generate authentication token", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, AuthResponse{
		UserID:       user.ID,
		AccessToken:  tokens.accessToken,
		RefreshToken: tokens.refreshToken,
		ExpiresAt:    tokens.expiresAt,
	})
}

// Login handles the /auth/login endpoint.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	user, err := h.userService.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			// Indistinguishable from a wrong password so the endpoint does
			// not reveal which emails are registered.
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		log.Error("failed to get user by email", slog.String("error", redact.Error(err)))
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to authenticate user", err)
		return
	}

	if err := h.passwordVerifier.Compare(r.Context(), user.HashedPassword, req.Password); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Invalid credentials", err,
			shared.WithElevatedLogLevel())
		return
	}

	tokens, err := h.issueTokens(r, user.ID)
	if err != nil {
		log.Error("failed to generate tokens",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", user.ID.String()))
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to generate authentication token", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		UserID:       user.ID,
		AccessToken:  tokens.accessToken,
		RefreshToken: tokens.refreshToken,
		ExpiresAt:    tokens.expiresAt,
	})
}

// RefreshToken handles the /auth/refresh endpoint. It validates the given
// refresh token and issues a new token pair.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req RefreshTokenRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	tokens, err := h.issueTokens(r, claims.UserID)
	if err != nil {
		log.Error("failed to generate tokens",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", claims.UserID.String()))
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to generate authentication token", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, RefreshTokenResponse{
		AccessToken:  tokens.accessToken,
		RefreshToken: tokens.refreshToken,
		ExpiresAt:    tokens.expiresAt,
	})
}
