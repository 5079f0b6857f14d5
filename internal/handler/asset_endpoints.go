package handler

import (
	"net/http"

	"story-server/internal/models"
	"story-server/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// assetResponse дополняет ассет производными полями для клиентов.
type assetResponse struct {
	*models.Asset
	Extension       string `json:"extension,omitempty"`
	SizeLabel       string `json:"sizeLabel"`
	Dimensions      string `json:"dimensions,omitempty"`
	DurationSeconds int    `json:"durationSeconds,omitempty"`
}

func newAssetResponse(a *models.Asset) assetResponse {
	return assetResponse{
		Asset:           a,
		Extension:       a.FileExtension(),
		SizeLabel:       a.FileSizeMB(),
		Dimensions:      a.Dimensions(),
		DurationSeconds: a.Duration(),
	}
}

// listAssets returns assets filtered by optional type and uploader.
func (h *Handler) listAssets(c *gin.Context) {
	assetType := c.Query("type")
	if assetType != "" && !models.IsValidAssetType(assetType) {
		badRequest(c, "unknown asset type: "+assetType)
		return
	}

	var uploadedBy *uuid.UUID
	if raw := c.Query("uploaded_by"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			badRequest(c, "invalid uploaded_by: must be a uuid")
			return
		}
		uploadedBy = &id
	}
	if c.Query("mine") == "true" {
		if claims, ok := claimsFromContext(c); ok {
			uploadedBy = &claims.UserID
		}
	}

	assets, err := h.assetService.ListAssets(c.Request.Context(), assetType, uploadedBy)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if c.Query("public") == "true" {
		public := assets[:0]
		for _, a := range assets {
			if a.IsPublic {
				public = append(public, a)
			}
		}
		assets = public
	}
	responses := make([]assetResponse, 0, len(assets))
	for i := range assets {
		responses = append(responses, newAssetResponse(&assets[i]))
	}
	c.JSON(http.StatusOK, responses)
}

func (h *Handler) getAsset(c *gin.Context) {
	id, ok := parseIDParam(c, "asset_id")
	if !ok {
		return
	}

	asset, err := h.assetService.GetAsset(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newAssetResponse(asset))
}

// createAsset registers a metadata row for an externally hosted file.
// Файл при этом не загружается, URL остается внешним.
func (h *Handler) createAsset(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		handleServiceError(c, models.ErrUnauthorized)
		return
	}

	var req createAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	asset, err := h.assetService.CreateAsset(c.Request.Context(), claims.UserID, service.CreateAssetInput{
		AssetType: req.AssetType,
		Name:      req.Name,
		Filename:  req.Filename,
		URL:       req.URL,
		FileSize:  req.FileSize,
		MimeType:  req.MimeType,
		Metadata:  req.Metadata,
		IsPublic:  req.IsPublic,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newAssetResponse(asset))
}

// generateAsset creates an asset through an AI generation backend.
func (h *Handler) generateAsset(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		handleServiceError(c, models.ErrUnauthorized)
		return
	}

	var req generateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	asset, err := h.assetService.GenerateAsset(c.Request.Context(), claims.UserID, service.GenerateAssetInput{
		AssetType:   req.AssetType,
		Name:        req.Name,
		Description: req.Description,
		SoundType:   req.SoundType,
		Language:    req.Language,
		Duration:    req.Duration,
	})
	if err != nil {
		assetGenerationsTotal.WithLabelValues(req.AssetType, "failure").Inc()
		handleServiceError(c, err)
		return
	}

	assetGenerationsTotal.WithLabelValues(req.AssetType, "success").Inc()
	c.JSON(http.StatusCreated, newAssetResponse(asset))
}

func (h *Handler) updateAsset(c *gin.Context) {
	id, ok := parseIDParam(c, "asset_id")
	if !ok {
		return
	}
	asset, err := h.assetService.GetAsset(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	claims, _ := claimsFromContext(c)
	if err := service.CanModifyAsset(claims, asset); err != nil {
		handleServiceError(c, err)
		return
	}

	var req updateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	updated, err := h.assetService.UpdateAsset(c.Request.Context(), id, req.Name, req.IsPublic, req.Metadata)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newAssetResponse(updated))
}

// deleteAsset removes the database row and the stored file.
func (h *Handler) deleteAsset(c *gin.Context) {
	id, ok := parseIDParam(c, "asset_id")
	if !ok {
		return
	}
	asset, err := h.assetService.GetAsset(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	claims, _ := claimsFromContext(c)
	if err := service.CanModifyAsset(claims, asset); err != nil {
		handleServiceError(c, err)
		return
	}

	if err := h.assetService.DeleteAsset(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "asset deleted"})
}
