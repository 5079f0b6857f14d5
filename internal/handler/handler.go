package handler

import (
	"story-server/internal/service"

	"github.com/gin-gonic/gin"
)

// Handler wires the HTTP surface to the service layer.
type Handler struct {
	authService     service.AuthService
	userService     service.UserService
	storyService    service.StoryService
	assetService    service.AssetService
	progressService service.ProgressService
}

// New creates the HTTP handler.
func New(
	authService service.AuthService,
	userService service.UserService,
	storyService service.StoryService,
	assetService service.AssetService,
	progressService service.ProgressService,
) *Handler {
	return &Handler{
		authService:     authService,
		userService:     userService,
		storyService:    storyService,
		assetService:    assetService,
		progressService: progressService,
	}
}

// RegisterRoutes attaches all endpoints to the router. authLimiter, when
// non-nil, is applied to the credential endpoints only.
func (h *Handler) RegisterRoutes(router *gin.Engine, authLimiter gin.HandlerFunc) {
	authGroup := router.Group("/auth")
	if authLimiter != nil {
		authGroup.Use(authLimiter)
	}
	{
		authGroup.POST("/register", h.register)
		authGroup.POST("/login", h.login)
		authGroup.POST("/refresh", h.refresh)
		authGroup.POST("/logout", h.AuthMiddleware(), h.logout)
	}

	api := router.Group("/api")
	api.Use(h.AuthMiddleware())
	{
		api.GET("/me", h.getMe)
		api.PUT("/me/password", h.updatePassword)

		api.GET("/users", h.RequireAdminRole(), h.listUsers)
		api.GET("/users/:user_id", h.getUser)
		api.PUT("/users/:user_id", h.updateUser)
		api.DELETE("/users/:user_id", h.deleteUser)

		api.GET("/scenarios", h.listScenarios)
		api.POST("/scenarios", h.createScenario)
		api.GET("/scenarios/:scenario_id", h.getScenario)
		api.PUT("/scenarios/:scenario_id", h.updateScenario)
		api.DELETE("/scenarios/:scenario_id", h.deleteScenario)
		api.GET("/scenarios/:scenario_id/scenes", h.listScenes)
		api.GET("/scenarios/:scenario_id/progress", h.listScenarioProgress)

		api.POST("/scenes", h.createScene)
		api.GET("/scenes/:scene_id", h.getScene)
		api.PUT("/scenes/:scene_id", h.updateScene)
		api.DELETE("/scenes/:scene_id", h.deleteScene)
		api.GET("/scenes/:scene_id/choices", h.listChoices)

		api.POST("/choices", h.createChoice)
		api.GET("/choices/:choice_id", h.getChoice)
		api.PUT("/choices/:choice_id", h.updateChoice)
		api.DELETE("/choices/:choice_id", h.deleteChoice)

		api.GET("/assets", h.listAssets)
		api.POST("/assets", h.createAsset)
		api.POST("/assets/upload", h.uploadAsset)
		api.POST("/assets/generate", h.generateAsset)
		api.GET("/assets/:asset_id", h.getAsset)
		api.PUT("/assets/:asset_id", h.updateAsset)
		api.DELETE("/assets/:asset_id", h.deleteAsset)

		api.POST("/progress/start", h.startProgress)
		api.POST("/progress/move", h.moveToScene)
		api.POST("/progress/complete", h.completeScenario)
		api.GET("/progress", h.listMyProgress)
		api.GET("/progress/:progress_id", h.getProgress)
		api.PUT("/progress/:progress_id", h.updateProgress)
		api.DELETE("/progress/:progress_id", h.deleteProgress)
	}
}
