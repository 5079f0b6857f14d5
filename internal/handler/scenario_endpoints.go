package handler

import (
	"net/http"

	"story-server/internal/models"
	"story-server/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// listScenarios returns scenarios visible to the caller. Query params:
// published=true фильтрует по публикации, author_id — по автору, mine=true —
// шорткат для собственных сценариев.
func (h *Handler) listScenarios(c *gin.Context) {
	claims, _ := claimsFromContext(c)

	publishedOnly := c.Query("published") == "true"
	var authorID *uuid.UUID
	if raw := c.Query("author_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			badRequest(c, "invalid author_id: must be a uuid")
			return
		}
		authorID = &id
	}
	if c.Query("mine") == "true" && claims != nil {
		authorID = &claims.UserID
	}

	// Игроки без фильтра по автору видят только опубликованное
	if claims != nil && claims.Role != models.RoleAdmin && authorID == nil {
		publishedOnly = true
	}

	scenarios, err := h.storyService.ListScenarios(c.Request.Context(), publishedOnly, authorID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, scenarios)
}

func (h *Handler) createScenario(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		handleServiceError(c, models.ErrUnauthorized)
		return
	}

	var req createScenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	scenario, err := h.storyService.CreateScenario(c.Request.Context(), claims.UserID, req.Title, req.Description)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, scenario)
}

func (h *Handler) getScenario(c *gin.Context) {
	id, ok := parseIDParam(c, "scenario_id")
	if !ok {
		return
	}

	scenario, err := h.storyService.GetScenario(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, scenario)
}

func (h *Handler) updateScenario(c *gin.Context) {
	id, ok := parseIDParam(c, "scenario_id")
	if !ok {
		return
	}
	if _, allowed := h.authorizeScenario(c, id); !allowed {
		return
	}

	var req updateScenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	updated, err := h.storyService.UpdateScenario(c.Request.Context(), id, req.Title, req.Description, req.IsPublished)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// deleteScenario removes a scenario together with its scenes and choices.
func (h *Handler) deleteScenario(c *gin.Context) {
	id, ok := parseIDParam(c, "scenario_id")
	if !ok {
		return
	}
	if _, allowed := h.authorizeScenario(c, id); !allowed {
		return
	}

	if err := h.storyService.DeleteScenario(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "scenario deleted"})
}

func (h *Handler) listScenes(c *gin.Context) {
	id, ok := parseIDParam(c, "scenario_id")
	if !ok {
		return
	}

	scenes, err := h.storyService.ListScenes(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, scenes)
}

// authorizeScenario loads the scenario and checks the caller may modify it.
// Пишет ответ сама, когда allowed=false.
func (h *Handler) authorizeScenario(c *gin.Context, id uuid.UUID) (*models.Scenario, bool) {
	scenario, err := h.storyService.GetScenario(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return nil, false
	}
	claims, _ := claimsFromContext(c)
	if err := service.CanModifyScenario(claims, scenario); err != nil {
		handleServiceError(c, err)
		return nil, false
	}
	return scenario, true
}
