package handler

import (
	"io"
	"net/http"

	"story-server/internal/interfaces"
	"story-server/internal/models"
	"story-server/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// 50 MB на файл; multipart сверх лимита отклоняется до чтения в память.
const maxUploadSize = 50 << 20

// uploadAsset accepts a multipart form with a media file and stores it as an
// asset. Form fields: file (required), type (required: image/sound/video),
// name, is_public, scene_id + asset_field (optionally attach to a scene slot).
func (h *Handler) uploadAsset(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		handleServiceError(c, models.ErrUnauthorized)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "file is required")
		return
	}

	assetType := c.PostForm("type")
	if !models.IsValidAssetType(assetType) {
		badRequest(c, "unknown asset type: "+assetType)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		badRequest(c, "failed to open uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		badRequest(c, "failed to read uploaded file")
		return
	}

	// Привязку к сцене валидируем до сохранения файла
	var attachSceneID *uuid.UUID
	assetField := c.PostForm("asset_field")
	if raw := c.PostForm("scene_id"); raw != "" {
		sceneID, err := uuid.Parse(raw)
		if err != nil {
			badRequest(c, "invalid scene_id: must be a uuid")
			return
		}
		if assetField == "" {
			assetField = models.AssetFieldForType(assetType)
		}
		switch assetField {
		case models.AssetFieldImage, models.AssetFieldSound, models.AssetFieldMusic:
		default:
			handleServiceError(c, models.ErrUnsupportedAssetField)
			return
		}
		if !h.authorizeScene(c, sceneID) {
			return
		}
		attachSceneID = &sceneID
	}

	asset, err := h.assetService.UploadAsset(c.Request.Context(), claims.UserID, service.UploadAssetInput{
		Data:      data,
		Filename:  fileHeader.Filename,
		AssetType: assetType,
		Name:      c.PostForm("name"),
		IsPublic:  c.PostForm("is_public") == "true",
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	assetUploadsTotal.WithLabelValues(assetType).Inc()

	response := gin.H{"asset": newAssetResponse(asset)}
	if attachSceneID != nil {
		update := interfaces.SceneUpdate{}
		switch assetField {
		case models.AssetFieldImage:
			update.SetImageID = true
			update.ImageID = &asset.ID
		case models.AssetFieldSound:
			update.SetSoundID = true
			update.SoundID = &asset.ID
		case models.AssetFieldMusic:
			update.SetMusicID = true
			update.MusicID = &asset.ID
		}
		scene, err := h.storyService.UpdateScene(c.Request.Context(), *attachSceneID, update)
		if err != nil {
			// Ассет уже сохранен; сообщаем о неудачной привязке отдельно
			response["attach_error"] = err.Error()
		} else {
			response["scene"] = scene
		}
	}

	c.JSON(http.StatusCreated, response)
}
