package handler

import (
	"net/http"

	"story-server/internal/models"
	"story-server/internal/service"

	"github.com/gin-gonic/gin"
)

// register creates a new account. The admin role is only assignable when the
// request carries an admin access token.
func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	role := req.Role
	if role == "" {
		role = models.RolePlayer
	}
	if role != models.RolePlayer {
		// Регистрация не-player ролей требует admin-токена
		actor := h.optionalClaims(c)
		if err := service.CanAssignRole(actor, role); err != nil {
			handleServiceError(c, err)
			return
		}
	}

	user, err := h.authService.RegisterWithRole(c.Request.Context(), req.Email, req.Password, req.FirstName, req.LastName, role)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	registrationsTotal.Inc()
	c.JSON(http.StatusCreated, user)
}

// optionalClaims parses the Authorization header if present; на публичных
// ручках отсутствие токена не является ошибкой.
func (h *Handler) optionalClaims(c *gin.Context) *models.Claims {
	header := c.GetHeader("Authorization")
	if len(header) < 8 {
		return nil
	}
	claims, err := h.authService.VerifyAccessToken(c.Request.Context(), header[len("Bearer "):])
	if err != nil {
		return nil
	}
	return claims
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	td, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.TokenPair{
		AccessToken:  td.AccessToken,
		RefreshToken: td.RefreshToken,
	})
}

func (h *Handler) refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	td, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	refreshesTotal.Inc()
	c.JSON(http.StatusOK, models.TokenPair{
		AccessToken:  td.AccessToken,
		RefreshToken: td.RefreshToken,
	})
}

// logout revokes the current access token and, if supplied, the refresh token.
func (h *Handler) logout(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		handleServiceError(c, models.ErrUnauthorized)
		return
	}

	// Тело опционально: без refresh_token отзываем только access
	var req logoutRequest
	_ = c.ShouldBindJSON(&req)

	if err := h.authService.Logout(c.Request.Context(), claims.UserID, claims.ID, req.RefreshToken); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// getMe returns the authenticated user's profile.
func (h *Handler) getMe(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		handleServiceError(c, models.ErrUnauthorized)
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), claims.UserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// updatePassword changes the caller's password and revokes all their sessions.
func (h *Handler) updatePassword(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		handleServiceError(c, models.ErrUnauthorized)
		return
	}

	var req updatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	if err := h.authService.UpdatePassword(c.Request.Context(), claims.UserID, req.OldPassword, req.NewPassword); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}
