package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ostrauer/briefshelf-backend/internal/clients/identity"
	"github.com/ostrauer/briefshelf-backend/internal/http/middleware"
	"github.com/ostrauer/briefshelf-backend/internal/http/response"
	"github.com/ostrauer/briefshelf-backend/internal/pkg/ctxutil"
	"github.com/ostrauer/briefshelf-backend/internal/pkg/logger"
	"github.com/ostrauer/briefshelf-backend/internal/services"
)

type AuthHandler struct {
	log      *logger.Logger
	identity identity.Client
	gate     *middleware.AccessGate
}

func NewAuthHandler(log *logger.Logger, identityClient identity.Client, gate *middleware.AccessGate) *AuthHandler {
	return &AuthHandler{
		log:      log.With("handler", "AuthHandler"),
		identity: identityClient,
		gate:     gate,
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "INVALID_ARGUMENT", err)
		return
	}

	session, err := h.identity.SignInWithPassword(c.Request.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		h.log.Warn("login rejected", "email", req.Email)
		response.RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", err)
		return
	}

	user := session.User
	if user == nil {
		user, err = h.identity.GetUser(c.Request.Context(), session.AccessToken)
		if err != nil {
			response.RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", err)
			return
		}
	}
	// Non-admins can authenticate but never hold a dashboard session.
	if services.ResolveRole(session.AccessToken, user) != services.RoleAdmin {
		response.RespondError(c, http.StatusForbidden, "FORBIDDEN", nil)
		return
	}

	h.gate.SetSessionCookies(c, session)
	response.RespondOK(c, gin.H{
		"user": gin.H{"id": user.ID, "email": user.Email},
	})
}

// POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if rd := ctxutil.GetRequestData(c.Request.Context()); rd != nil && rd.AccessToken != "" {
		if err := h.identity.SignOut(c.Request.Context(), rd.AccessToken); err != nil {
			h.log.Warn("identity sign-out failed (clearing cookies anyway)", "error", err)
		}
	}
	h.gate.ClearSessionCookies(c)
	response.RespondOK(c, gin.H{"ok": true})
}

type recoverRequest struct {
	Email string `json:"email" binding:"required"`
}

// POST /auth/recover
func (h *AuthHandler) Recover(c *gin.Context) {
	var req recoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "INVALID_ARGUMENT", err)
		return
	}
	if err := h.identity.SendPasswordReset(c.Request.Context(), strings.TrimSpace(req.Email)); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	// Same response whether or not the account exists.
	response.RespondOK(c, gin.H{"ok": true})
}

type updatePasswordRequest struct {
	Password string `json:"password" binding:"required,min=8"`
}

// POST /api/auth/password
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.AccessToken == "" {
		response.RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", nil)
		return
	}
	var req updatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "INVALID_ARGUMENT", err)
		return
	}
	if err := h.identity.UpdatePassword(c.Request.Context(), rd.AccessToken, req.Password); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
