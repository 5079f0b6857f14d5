package handler

import (
	"net/http"

	"story-server/internal/service"

	"github.com/gin-gonic/gin"
)

// createChoice links two scenes of the same scenario.
func (h *Handler) createChoice(c *gin.Context) {
	var req createChoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	if !h.authorizeScene(c, req.FromSceneID) {
		return
	}

	choice, err := h.storyService.CreateChoice(c.Request.Context(), service.CreateChoiceInput{
		FromSceneID: req.FromSceneID,
		ToSceneID:   req.ToSceneID,
		Text:        req.Text,
		Condition:   req.Condition,
		Position:    req.Position,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, choice)
}

func (h *Handler) getChoice(c *gin.Context) {
	id, ok := parseIDParam(c, "choice_id")
	if !ok {
		return
	}

	choice, err := h.storyService.GetChoice(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, choice)
}

func (h *Handler) updateChoice(c *gin.Context) {
	id, ok := parseIDParam(c, "choice_id")
	if !ok {
		return
	}
	choice, err := h.storyService.GetChoice(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if !h.authorizeScene(c, choice.FromSceneID) {
		return
	}

	var req updateChoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	updated, err := h.storyService.UpdateChoice(c.Request.Context(), id, req.Text, req.ToSceneID, req.Condition, req.Position)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// deleteChoice removes the choice and detaches it from its source scene.
func (h *Handler) deleteChoice(c *gin.Context) {
	id, ok := parseIDParam(c, "choice_id")
	if !ok {
		return
	}
	choice, err := h.storyService.GetChoice(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if !h.authorizeScene(c, choice.FromSceneID) {
		return
	}

	if err := h.storyService.DeleteChoice(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "choice deleted"})
}
