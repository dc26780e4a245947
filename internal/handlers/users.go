package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"msg-api/internal/repositories"
	"msg-api/internal/telemetry"
)

// CredentialHasher is the slice of the hasher the handlers need.
type CredentialHasher interface {
	Hash(secret string) (string, error)
	Verify(secret, encoded string) bool
	NeedsRehash(encoded string) bool
}

// UserHandler manages registration.
type UserHandler struct {
	users   repositories.UserRepository
	hasher  CredentialHasher
	emitter *telemetry.AuditEmitter
	log     zerolog.Logger
}

// NewUserHandler builds a UserHandler.
func NewUserHandler(users repositories.UserRepository, hasher CredentialHasher, emitter *telemetry.AuditEmitter, log zerolog.Logger) *UserHandler {
	return &UserHandler{users: users, hasher: hasher, emitter: emitter, log: log}
}

// Register creates a new user. A duplicate username or mail yields 409 with
// the colliding field; the response never contains the credential hash.
func (h *UserHandler) Register(c *gin.Context) {
	var req struct {
		Username    string `json:"username" binding:"required"`
		DisplayName string `json:"display_name"`
		Mail        string `json:"mail" binding:"required"`
		NewPassword string `json:"new_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := h.hasher.Hash(req.NewPassword)
	if err != nil {
		h.log.Error().Err(err).Msg("credential hashing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create user"})
		return
	}

	user, err := h.users.Create(c.Request.Context(), req.Username, req.DisplayName, req.Mail, hash)
	if err != nil {
		var conflict *repositories.ConflictError
		if errors.As(err, &conflict) {
			c.JSON(http.StatusConflict, gin.H{"error": conflict.Error(), "field": conflict.Field})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create user"})
		return
	}

	h.emitter.Emit(c.Request.Context(), "INFO",
		fmt.Sprintf("user %q registered", user.Username),
		requestIDFromContext(c), &user.ID)

	c.JSON(http.StatusCreated, user)
}
