package database

import (
	"context"
	"errors"
	"fmt"

	"story-server/internal/interfaces"
	"story-server/internal/models"
	"story-server/internal/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// Compile-time check to ensure pgAssetRepository implements AssetRepository
var _ interfaces.AssetRepository = (*pgAssetRepository)(nil)

type pgAssetRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgAssetRepository creates a new PostgreSQL-backed AssetRepository.
func NewPgAssetRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.AssetRepository {
	return &pgAssetRepository{
		db:     db,
		logger: logger.Named("PgAssetRepo"),
	}
}

const assetColumns = `id, asset_type, name, filename, url, file_size, mime_type, metadata,
	uploaded_by, is_public, created_at, updated_at`

// CreateAsset inserts a new asset.
func (r *pgAssetRepository) CreateAsset(ctx context.Context, asset *models.Asset) error {
	query := `INSERT INTO assets (asset_type, name, filename, url, file_size, mime_type, metadata, uploaded_by, is_public)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING id, created_at, updated_at`
	metadataJSON, err := utils.MarshalMap(asset.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal asset metadata: %w", err)
	}
	err = r.db.QueryRow(ctx, query,
		asset.AssetType, asset.Name, asset.Filename, asset.URL,
		asset.FileSize, asset.MimeType, metadataJSON, asset.UploadedBy, asset.IsPublic).
		Scan(&asset.ID, &asset.CreatedAt, &asset.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to create asset", zap.Error(err),
			zap.String("assetType", asset.AssetType), zap.String("name", asset.Name))
		return fmt.Errorf("failed to create asset: %w", err)
	}
	r.logger.Info("Asset created", zap.String("assetID", asset.ID.String()),
		zap.String("assetType", asset.AssetType), zap.String("filename", asset.Filename))
	return nil
}

// GetAssetByID returns an asset by id.
func (r *pgAssetRepository) GetAssetByID(ctx context.Context, id uuid.UUID) (*models.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE id = $1`
	row := r.db.QueryRow(ctx, query, id)
	asset, err := scanAsset(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrAssetNotFound
		}
		r.logger.Error("Failed to get asset", zap.Error(err), zap.String("assetID", id.String()))
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}
	return asset, nil
}

// ListAssets returns assets, newest first, optionally filtered by type and uploader.
func (r *pgAssetRepository) ListAssets(ctx context.Context, assetType string, uploadedBy *uuid.UUID) ([]models.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets
	          WHERE ($1 = '' OR asset_type = $1)
	            AND ($2::uuid IS NULL OR uploaded_by = $2)
	          ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, assetType, uploadedBy)
	if err != nil {
		r.logger.Error("Failed to list assets", zap.Error(err))
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	defer rows.Close()

	assets := []models.Asset{}
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			r.logger.Error("Failed to scan asset row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan asset row: %w", err)
		}
		assets = append(assets, *asset)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate asset rows: %w", err)
	}
	return assets, nil
}

// scanAsset reads one asset from a row, decoding the metadata jsonb.
func scanAsset(row pgx.Row) (*models.Asset, error) {
	asset := &models.Asset{}
	var metadataJSON []byte
	err := row.Scan(
		&asset.ID, &asset.AssetType, &asset.Name, &asset.Filename, &asset.URL,
		&asset.FileSize, &asset.MimeType, &metadataJSON,
		&asset.UploadedBy, &asset.IsPublic, &asset.CreatedAt, &asset.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := utils.UnmarshalMap(metadataJSON, &asset.Metadata); err != nil {
		return nil, fmt.Errorf("failed to unmarshal asset metadata: %w", err)
	}
	return asset, nil
}

// UpdateAssetFields обновляет только указанные поля.
func (r *pgAssetRepository) UpdateAssetFields(ctx context.Context, id uuid.UUID, name *string, isPublic *bool, metadata map[string]interface{}) error {
	var metadataJSON []byte
	if metadata != nil {
		var err error
		metadataJSON, err = utils.MarshalMap(metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal asset metadata: %w", err)
		}
	}
	query := `UPDATE assets SET
	            name = COALESCE($2, name),
	            is_public = COALESCE($3, is_public),
	            metadata = COALESCE($4, metadata),
	            updated_at = now()
	          WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id, name, isPublic, metadataJSON)
	if err != nil {
		r.logger.Error("Failed to update asset fields", zap.Error(err), zap.String("assetID", id.String()))
		return fmt.Errorf("failed to update asset fields: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrAssetNotFound
	}
	return nil
}

// DeleteAsset removes the asset row.
func (r *pgAssetRepository) DeleteAsset(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM assets WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete asset", zap.Error(err), zap.String("assetID", id.String()))
		return fmt.Errorf("failed to delete asset: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrAssetNotFound
	}
	r.logger.Info("Asset deleted", zap.String("assetID", id.String()))
	return nil
}
