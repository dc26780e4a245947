package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"

	"msg-api/internal/observability"
	"msg-api/internal/repositories"
	"msg-api/internal/telemetry"
)

// SessionIssuer is the slice of the session authenticator login needs.
type SessionIssuer interface {
	Issue(ctx context.Context, userID int64, deviceID string) (string, error)
}

// AuthHandler manages login.
type AuthHandler struct {
	users    repositories.UserRepository
	hasher   CredentialHasher
	sessions SessionIssuer
	emitter  *telemetry.AuditEmitter
	log      zerolog.Logger
}

// NewAuthHandler builds an AuthHandler.
func NewAuthHandler(users repositories.UserRepository, hasher CredentialHasher, sessions SessionIssuer, emitter *telemetry.AuditEmitter, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{users: users, hasher: hasher, sessions: sessions, emitter: emitter, log: log}
}

// Login verifies the password for the user identified by the user_id header
// and issues a device-bound session token. An unknown user and a wrong
// password take the same 401 path. An outdated credential hash is recomputed
// best-effort; a failed rehash never blocks the login.
func (h *AuthHandler) Login(c *gin.Context) {
	ctx, span := otel.Tracer("msg-api/auth").Start(c.Request.Context(), "auth.login")
	defer span.End()

	rawUserID := c.GetHeader("user_id")
	deviceID := c.GetHeader("device_id")
	if rawUserID == "" || deviceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing identity headers"})
		return
	}

	var req struct {
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := strconv.ParseInt(rawUserID, 10, 64)
	if err != nil {
		h.rejectLogin(c, nil)
		return
	}

	user, err := h.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			h.rejectLogin(c, nil)
			return
		}
		observability.IncLogin("error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	if !h.hasher.Verify(req.Password, user.CredentialHash) {
		h.rejectLogin(c, &user.ID)
		return
	}

	if h.hasher.NeedsRehash(user.CredentialHash) {
		h.rehash(ctx, user.ID, req.Password, user.CredentialHash)
	}

	token, err := h.sessions.Issue(ctx, user.ID, deviceID)
	if err != nil {
		observability.IncLogin("error")
		h.log.Error().Err(err).Int64("user_id", user.ID).Msg("session issue failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	observability.IncLogin("success")
	h.emitter.Emit(ctx, "INFO", "login succeeded", requestIDFromContext(c), &user.ID)

	c.JSON(http.StatusAccepted, gin.H{"msg": "login successful", "token": token})
}

// rejectLogin is the single exit for unknown users and wrong passwords, so
// the response cannot be used as a username oracle.
func (h *AuthHandler) rejectLogin(c *gin.Context, userID *int64) {
	observability.IncLogin("invalid")
	h.emitter.Emit(c.Request.Context(), "WARN", "login failed", requestIDFromContext(c), userID)
	c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
}

// rehash upgrades the stored hash to current parameters. The update is
// guarded on the old hash so it cannot overwrite a concurrent password
// change; any failure is logged and swallowed.
func (h *AuthHandler) rehash(ctx context.Context, userID int64, password, oldHash string) {
	newHash, err := h.hasher.Hash(password)
	if err != nil {
		observability.IncRehash("failed")
		h.log.Warn().Err(err).Int64("user_id", userID).Msg("credential rehash failed")
		return
	}

	updated, err := h.users.UpdateCredentialHash(ctx, userID, oldHash, newHash)
	switch {
	case err != nil:
		observability.IncRehash("failed")
		h.log.Warn().Err(err).Int64("user_id", userID).Msg("credential rehash failed")
	case !updated:
		observability.IncRehash("skipped")
		h.log.Debug().Int64("user_id", userID).Msg("credential rehash skipped, hash changed concurrently")
	default:
		observability.IncRehash("success")
	}
}
