package handlers

import (
	"errors"
	"net/http"

	"github.com/DevNiNi18/flowtrack/internal/constants"
	"github.com/DevNiNi18/flowtrack/internal/dto"
	apierrors "github.com/DevNiNi18/flowtrack/internal/errors"
	"github.com/DevNiNi18/flowtrack/internal/middleware"
	"github.com/DevNiNi18/flowtrack/internal/models"
	"github.com/DevNiNi18/flowtrack/internal/services"
	"github.com/DevNiNi18/flowtrack/internal/validation"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
	log         zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		log:         log,
	}
}

// Register creates a new account and starts a session for it.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Register(c.Request.Context(), validation.Values{
		validation.FieldEmail:           req.Email,
		validation.FieldPassword:        req.Password,
		validation.FieldConfirmPassword: req.ConfirmPassword,
	})
	middleware.RecordAuthAttempt("register", err == nil)
	if err != nil {
		h.respondAuthError(c, err)
		return
	}

	if !h.startSession(c, user) {
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// Login authenticates a user and initializes the session.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Login(c.Request.Context(), validation.Values{
		validation.FieldEmail:    req.Email,
		validation.FieldPassword: req.Password,
	})
	middleware.RecordAuthAttempt("login", err == nil)
	if err != nil {
		h.respondAuthError(c, err)
		return
	}

	if !h.startSession(c, user) {
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// Logout removes the authentication session.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		h.log.Error().Err(err).Msg("failed to clear session")
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		h.respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

func (h *AuthHandler) startSession(c *gin.Context, user *models.User) bool {
	session := sessions.Default(c)
	session.Set(constants.ContextKeyUserID, user.ID)
	if err := session.Save(); err != nil {
		h.log.Error().Err(err).Str("user_id", user.ID).Msg("failed to save session")
		apierrors.InternalError(c, "Failed to save session")
		return false
	}
	return true
}

func (h *AuthHandler) respondAuthError(c *gin.Context, err error) {
	var verr *validation.Error
	var berr *services.BackendError

	switch {
	case errors.As(err, &verr):
		apierrors.ValidationFailed(c, verr.Fields)
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c, err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.As(err, &berr):
		h.log.Error().Err(err).Str("op", berr.Op).Msg("auth backend failure")
		apierrors.InternalError(c, "")
	default:
		h.log.Error().Err(err).Msg("auth failure")
		apierrors.InternalError(c, "")
	}
}
