package interfaces

import (
	"context"

	"story-server/internal/models"

	"github.com/google/uuid"
)

// AssetRepository определяет методы для доступа к медиа-ресурсам.
type AssetRepository interface {
	// CreateAsset inserts a new asset and fills the generated fields.
	CreateAsset(ctx context.Context, asset *models.Asset) error

	// GetAssetByID returns an asset by id.
	// Returns models.ErrAssetNotFound if it does not exist.
	GetAssetByID(ctx context.Context, id uuid.UUID) (*models.Asset, error)

	// ListAssets returns assets, newest first. assetType filters by type when
	// non-empty; uploadedBy, when non-nil, restricts to one uploader.
	ListAssets(ctx context.Context, assetType string, uploadedBy *uuid.UUID) ([]models.Asset, error)

	// UpdateAssetFields обновляет только указанные поля. nil-поля не трогаются.
	UpdateAssetFields(ctx context.Context, id uuid.UUID, name *string, isPublic *bool, metadata map[string]interface{}) error

	// DeleteAsset removes the asset row.
	// Returns models.ErrAssetNotFound if it does not exist.
	DeleteAsset(ctx context.Context, id uuid.UUID) error
}
