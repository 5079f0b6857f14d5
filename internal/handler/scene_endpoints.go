package handler

import (
	"net/http"

	"story-server/internal/interfaces"
	"story-server/internal/models"
	"story-server/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// createScene adds a scene to a scenario. Auto-generation failures do not
// fail the request: the outcome of each requested slot is reported alongside
// the created scene.
func (h *Handler) createScene(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		handleServiceError(c, models.ErrUnauthorized)
		return
	}

	var req createSceneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	if _, allowed := h.authorizeScenario(c, req.ScenarioID); !allowed {
		return
	}

	scene, outcomes, err := h.storyService.CreateScene(c.Request.Context(), claims.UserID, service.CreateSceneInput{
		ScenarioID:   req.ScenarioID,
		Title:        req.Title,
		Text:         req.Text,
		Position:     req.Position,
		ImageID:      req.ImageID,
		SoundID:      req.SoundID,
		MusicID:      req.MusicID,
		IsStartScene: req.IsStartScene,
		IsEndScene:   req.IsEndScene,

		AutoGenerateImage: req.AutoGenerateImage,
		AutoGenerateSound: req.AutoGenerateSound,
		AutoGenerateMusic: req.AutoGenerateMusic,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response := gin.H{"scene": scene}
	if len(outcomes) > 0 {
		response["generation"] = outcomes
	}
	c.JSON(http.StatusCreated, response)
}

func (h *Handler) getScene(c *gin.Context) {
	id, ok := parseIDParam(c, "scene_id")
	if !ok {
		return
	}

	scene, err := h.storyService.GetScene(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, scene)
}

// updateScene patches scene fields. Слоты ассетов различают "не передали"
// и явный null (отвязать ассет).
func (h *Handler) updateScene(c *gin.Context) {
	id, ok := parseIDParam(c, "scene_id")
	if !ok {
		return
	}
	if !h.authorizeScene(c, id) {
		return
	}

	var req updateSceneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	update := interfaces.SceneUpdate{
		Title:        req.Title,
		Text:         req.Text,
		Position:     req.Position,
		IsStartScene: req.IsStartScene,
		IsEndScene:   req.IsEndScene,
	}
	if req.ImageID.Set {
		update.SetImageID = true
		update.ImageID = req.ImageID.ID
	}
	if req.SoundID.Set {
		update.SetSoundID = true
		update.SoundID = req.SoundID.ID
	}
	if req.MusicID.Set {
		update.SetMusicID = true
		update.MusicID = req.MusicID.ID
	}

	scene, err := h.storyService.UpdateScene(c.Request.Context(), id, update)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, scene)
}

// deleteScene removes a scene together with every choice touching it.
func (h *Handler) deleteScene(c *gin.Context) {
	id, ok := parseIDParam(c, "scene_id")
	if !ok {
		return
	}
	if !h.authorizeScene(c, id) {
		return
	}

	if err := h.storyService.DeleteScene(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "scene deleted"})
}

func (h *Handler) listChoices(c *gin.Context) {
	id, ok := parseIDParam(c, "scene_id")
	if !ok {
		return
	}

	choices, err := h.storyService.ListChoices(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, choices)
}

// authorizeScene checks modification rights through the owning scenario.
func (h *Handler) authorizeScene(c *gin.Context, sceneID uuid.UUID) bool {
	scene, err := h.storyService.GetScene(c.Request.Context(), sceneID)
	if err != nil {
		handleServiceError(c, err)
		return false
	}
	_, allowed := h.authorizeScenario(c, scene.ScenarioID)
	return allowed
}
