package handler

import (
	"net/http"

	"story-server/internal/models"
	"story-server/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// progressResponse wraps progress with its computed completion percentage.
type progressResponse struct {
	*models.PlayerProgress
	Percentage float64 `json:"percentage"`
}

func (h *Handler) progressWithPercentage(c *gin.Context, progress *models.PlayerProgress) progressResponse {
	percentage, err := h.progressService.ProgressPercentage(c.Request.Context(), progress)
	if err != nil {
		// Процент вторичен: не роняем ответ из-за него
		percentage = 0
	}
	return progressResponse{PlayerProgress: progress, Percentage: percentage}
}

// startProgress returns the caller's progress in a scenario, creating it at
// the start scene on first call.
func (h *Handler) startProgress(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		handleServiceError(c, models.ErrUnauthorized)
		return
	}

	var req startProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	progress, created, err := h.progressService.StartScenario(c.Request.Context(), claims.UserID, req.ScenarioID, req.StartSceneID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, h.progressWithPercentage(c, progress))
}

// moveToScene advances the caller to another scene of the scenario.
func (h *Handler) moveToScene(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		handleServiceError(c, models.ErrUnauthorized)
		return
	}

	var req moveToSceneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	before, err := h.progressService.GetProgress(c.Request.Context(), claims.UserID, req.ScenarioID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	wasCompleted := before.IsCompleted

	progress, err := h.progressService.MoveToScene(c.Request.Context(), claims.UserID, req.ScenarioID, req.SceneID, req.ChoiceID, req.Metadata)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if progress.IsCompleted && !wasCompleted {
		scenarioCompletionsTotal.Inc()
	}

	c.JSON(http.StatusOK, h.progressWithPercentage(c, progress))
}

// completeScenario marks the caller's progress as completed. Idempotent.
func (h *Handler) completeScenario(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		handleServiceError(c, models.ErrUnauthorized)
		return
	}

	var req completeScenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	before, err := h.progressService.GetProgress(c.Request.Context(), claims.UserID, req.ScenarioID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	wasCompleted := before.IsCompleted

	progress, err := h.progressService.CompleteScenario(c.Request.Context(), claims.UserID, req.ScenarioID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if !wasCompleted {
		scenarioCompletionsTotal.Inc()
	}

	c.JSON(http.StatusOK, h.progressWithPercentage(c, progress))
}

// listMyProgress returns every progress record of the caller. An admin may
// pass user_id to inspect another player's progress.
func (h *Handler) listMyProgress(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		handleServiceError(c, models.ErrUnauthorized)
		return
	}

	userID := claims.UserID
	if raw := c.Query("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			badRequest(c, "invalid user_id: must be a uuid")
			return
		}
		if id != claims.UserID && claims.Role != models.RoleAdmin {
			handleServiceError(c, models.ErrForbidden)
			return
		}
		userID = id
	}

	records, err := h.progressService.ListProgressByUser(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	responses := make([]progressResponse, 0, len(records))
	for i := range records {
		responses = append(responses, h.progressWithPercentage(c, &records[i]))
	}
	c.JSON(http.StatusOK, responses)
}

// listScenarioProgress returns every player's progress in a scenario.
// Доступно только автору сценария и admin.
func (h *Handler) listScenarioProgress(c *gin.Context) {
	id, ok := parseIDParam(c, "scenario_id")
	if !ok {
		return
	}
	if _, allowed := h.authorizeScenario(c, id); !allowed {
		return
	}

	records, err := h.progressService.ListProgressByScenario(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	responses := make([]progressResponse, 0, len(records))
	for i := range records {
		responses = append(responses, h.progressWithPercentage(c, &records[i]))
	}
	c.JSON(http.StatusOK, responses)
}

func (h *Handler) getProgress(c *gin.Context) {
	id, ok := parseIDParam(c, "progress_id")
	if !ok {
		return
	}

	progress, authorized := h.authorizeProgress(c, id)
	if !authorized {
		return
	}
	c.JSON(http.StatusOK, h.progressWithPercentage(c, progress))
}

func (h *Handler) updateProgress(c *gin.Context) {
	id, ok := parseIDParam(c, "progress_id")
	if !ok {
		return
	}
	before, authorized := h.authorizeProgress(c, id)
	if !authorized {
		return
	}
	wasCompleted := before.IsCompleted

	var req updateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	progress, err := h.progressService.UpdateProgress(c.Request.Context(), id, service.ProgressUpdate{
		CurrentSceneID: req.CurrentSceneID,
		IsCompleted:    req.IsCompleted,
		TotalTimeSpent: req.TotalTimeSpent,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if progress.IsCompleted && !wasCompleted {
		scenarioCompletionsTotal.Inc()
	}

	c.JSON(http.StatusOK, h.progressWithPercentage(c, progress))
}

func (h *Handler) deleteProgress(c *gin.Context) {
	id, ok := parseIDParam(c, "progress_id")
	if !ok {
		return
	}
	if _, authorized := h.authorizeProgress(c, id); !authorized {
		return
	}

	if err := h.progressService.DeleteProgress(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "progress deleted"})
}

// authorizeProgress loads a progress record and checks view rights.
func (h *Handler) authorizeProgress(c *gin.Context, id uuid.UUID) (*models.PlayerProgress, bool) {
	progress, err := h.progressService.GetProgressByID(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return nil, false
	}
	claims, _ := claimsFromContext(c)
	if err := service.CanViewProgress(claims, progress); err != nil {
		handleServiceError(c, err)
		return nil, false
	}
	return progress, true
}
