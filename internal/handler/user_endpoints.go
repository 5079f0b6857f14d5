package handler

import (
	"net/http"

	"story-server/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// parseIDParam reads a uuid path parameter, answering 400 on garbage.
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "invalid "+name+": must be a uuid")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// getUser returns a user profile: себя видит каждый, чужих только admin.
func (h *Handler) getUser(c *gin.Context) {
	id, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}
	claims, _ := claimsFromContext(c)
	if err := service.CanModifyUser(claims, id); err != nil {
		handleServiceError(c, err)
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) updateUser(c *gin.Context) {
	id, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}
	claims, _ := claimsFromContext(c)
	if err := service.CanModifyUser(claims, id); err != nil {
		handleServiceError(c, err)
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), id, req.Email, req.FirstName, req.LastName)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// deleteUser removes an account and revokes its tokens.
func (h *Handler) deleteUser(c *gin.Context) {
	id, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}
	claims, _ := claimsFromContext(c)
	if err := service.CanModifyUser(claims, id); err != nil {
		handleServiceError(c, err)
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}
