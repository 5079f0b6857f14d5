package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	// Декодеры для определения размеров загружаемых изображений
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"story-server/internal/generation"
	"story-server/internal/interfaces"
	"story-server/internal/models"
	"story-server/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UploadAssetInput describes a file upload.
type UploadAssetInput struct {
	Data      []byte
	Filename  string
	AssetType string
	Name      string
	IsPublic  bool
}

// CreateAssetInput describes a metadata-only asset row pointing at an
// externally hosted file. No bytes pass through the media store.
type CreateAssetInput struct {
	AssetType string
	Name      string
	Filename  string
	URL       string
	FileSize  int64
	MimeType  string
	Metadata  map[string]interface{}
	IsPublic  bool
}

// GenerateAssetInput describes an AI generation request.
type GenerateAssetInput struct {
	AssetType   string
	Name        string
	Description string
	// для sound: tts или music
	SoundType string
	Language  string
	Duration  int
}

// AssetService handles stored media: uploads, AI generation, metadata and deletion.
type AssetService interface {
	CreateAsset(ctx context.Context, uploadedBy uuid.UUID, input CreateAssetInput) (*models.Asset, error)
	UploadAsset(ctx context.Context, uploadedBy uuid.UUID, input UploadAssetInput) (*models.Asset, error)
	GenerateAsset(ctx context.Context, uploadedBy uuid.UUID, input GenerateAssetInput) (*models.Asset, error)
	GetAsset(ctx context.Context, id uuid.UUID) (*models.Asset, error)
	ListAssets(ctx context.Context, assetType string, uploadedBy *uuid.UUID) ([]models.Asset, error)
	UpdateAsset(ctx context.Context, id uuid.UUID, name *string, isPublic *bool, metadata map[string]interface{}) (*models.Asset, error)
	DeleteAsset(ctx context.Context, id uuid.UUID) error
}

type assetServiceImpl struct {
	assetRepo interfaces.AssetRepository
	store     *storage.MediaStore
	images    generation.ImageGenerator
	speech    generation.SpeechGenerator
	music     generation.MusicGenerator
	logger    *zap.Logger
}

// NewAssetService creates the asset service.
func NewAssetService(
	assetRepo interfaces.AssetRepository,
	store *storage.MediaStore,
	images generation.ImageGenerator,
	speech generation.SpeechGenerator,
	music generation.MusicGenerator,
	logger *zap.Logger,
) AssetService {
	return &assetServiceImpl{
		assetRepo: assetRepo,
		store:     store,
		images:    images,
		speech:    speech,
		music:     music,
		logger:    logger.Named("AssetService"),
	}
}

// mimeTypeForExtension maps known file extensions to MIME types.
func mimeTypeForExtension(ext string) string {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "png":
		return "image/png"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "webp":
		return "image/webp"
	case "gif":
		return "image/gif"
	case "mp3":
		return "audio/mpeg"
	case "wav":
		return "audio/wav"
	case "mp4":
		return "video/mp4"
	case "webm":
		return "video/webm"
	default:
		return "application/octet-stream"
	}
}

// CreateAsset inserts a metadata row for a file hosted elsewhere.
func (s *assetServiceImpl) CreateAsset(ctx context.Context, uploadedBy uuid.UUID, input CreateAssetInput) (*models.Asset, error) {
	if !models.IsValidAssetType(input.AssetType) {
		return nil, fmt.Errorf("asset type %q: %w", input.AssetType, models.ErrUnsupportedAssetType)
	}
	if input.URL == "" {
		return nil, fmt.Errorf("empty url: %w", models.ErrInvalidInput)
	}
	name := input.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(input.URL), filepath.Ext(input.URL))
	}
	filename := input.Filename
	if filename == "" {
		filename = filepath.Base(input.URL)
	}
	metadata := input.Metadata
	if metadata == nil {
		metadata = map[string]interface{}{}
	}

	asset := &models.Asset{
		AssetType:  input.AssetType,
		Name:       name,
		Filename:   filename,
		URL:        input.URL,
		FileSize:   input.FileSize,
		MimeType:   input.MimeType,
		Metadata:   metadata,
		UploadedBy: uploadedBy,
		IsPublic:   input.IsPublic,
	}
	if err := s.assetRepo.CreateAsset(ctx, asset); err != nil {
		return nil, err
	}
	s.logger.Info("External asset registered", zap.String("assetID", asset.ID.String()), zap.String("url", asset.URL))
	return asset, nil
}

// UploadAsset stores an uploaded file and its metadata.
func (s *assetServiceImpl) UploadAsset(ctx context.Context, uploadedBy uuid.UUID, input UploadAssetInput) (*models.Asset, error) {
	if !models.IsValidAssetType(input.AssetType) {
		return nil, fmt.Errorf("asset type %q: %w", input.AssetType, models.ErrUnsupportedAssetType)
	}
	if len(input.Data) == 0 {
		return nil, fmt.Errorf("empty file: %w", models.ErrInvalidInput)
	}

	ext := strings.TrimPrefix(filepath.Ext(input.Filename), ".")
	if ext == "" {
		return nil, fmt.Errorf("filename without extension: %w", models.ErrInvalidInput)
	}
	name := input.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(input.Filename), filepath.Ext(input.Filename))
	}

	metadata := map[string]interface{}{}
	if input.AssetType == models.AssetTypeImage {
		// Размеры и формат берем из самого файла
		if imgCfg, format, err := image.DecodeConfig(bytes.NewReader(input.Data)); err == nil {
			metadata["width"] = imgCfg.Width
			metadata["height"] = imgCfg.Height
			metadata["format"] = format
		} else {
			s.logger.Warn("Failed to decode uploaded image metadata", zap.Error(err), zap.String("filename", input.Filename))
		}
	}

	return s.storeAsset(ctx, uploadedBy, input.AssetType, name, ext, mimeTypeForExtension(ext), input.Data, metadata, input.IsPublic)
}

// GenerateAsset produces a media file with the matching AI provider and stores it.
func (s *assetServiceImpl) GenerateAsset(ctx context.Context, uploadedBy uuid.UUID, input GenerateAssetInput) (*models.Asset, error) {
	if input.Description == "" {
		return nil, fmt.Errorf("empty description: %w", models.ErrInvalidInput)
	}

	var result *generation.Result
	var err error
	switch input.AssetType {
	case models.AssetTypeImage:
		result, err = s.images.GenerateImage(ctx, input.Description)
	case models.AssetTypeSound:
		switch input.SoundType {
		case "music":
			result, err = s.music.GenerateMusic(ctx, input.Description, input.Duration)
		case "tts", "":
			result, err = s.speech.GenerateSpeech(ctx, input.Description, input.Language)
		default:
			return nil, fmt.Errorf("sound type %q: %w", input.SoundType, models.ErrInvalidInput)
		}
	default:
		// Видео не генерируем
		return nil, fmt.Errorf("asset type %q: %w", input.AssetType, models.ErrUnsupportedAssetType)
	}
	if err != nil {
		return nil, err
	}

	name := input.Name
	if name == "" {
		name = input.AssetType + " (generated)"
	}
	metadata := result.Metadata
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	metadata["generated"] = true

	return s.storeAsset(ctx, uploadedBy, input.AssetType, name, result.FileExtension, result.MimeType, result.Data, metadata, true)
}

// storeAsset writes the file and inserts the database row. The file is
// removed again if the insert fails.
func (s *assetServiceImpl) storeAsset(ctx context.Context, uploadedBy uuid.UUID, assetType, name, ext, mimeType string, data []byte, metadata map[string]interface{}, isPublic bool) (*models.Asset, error) {
	fileID := uuid.New()
	filename, url, err := s.store.Save(fileID, ext, data)
	if err != nil {
		return nil, err
	}

	asset := &models.Asset{
		AssetType:  assetType,
		Name:       name,
		Filename:   filename,
		URL:        url,
		FileSize:   int64(len(data)),
		MimeType:   mimeType,
		Metadata:   metadata,
		UploadedBy: uploadedBy,
		IsPublic:   isPublic,
	}
	if err := s.assetRepo.CreateAsset(ctx, asset); err != nil {
		if delErr := s.store.Delete(filename); delErr != nil {
			s.logger.Error("Failed to clean up media file after insert failure",
				zap.Error(delErr), zap.String("filename", filename))
		}
		return nil, err
	}
	return asset, nil
}

func (s *assetServiceImpl) GetAsset(ctx context.Context, id uuid.UUID) (*models.Asset, error) {
	return s.assetRepo.GetAssetByID(ctx, id)
}

func (s *assetServiceImpl) ListAssets(ctx context.Context, assetType string, uploadedBy *uuid.UUID) ([]models.Asset, error) {
	return s.assetRepo.ListAssets(ctx, assetType, uploadedBy)
}

func (s *assetServiceImpl) UpdateAsset(ctx context.Context, id uuid.UUID, name *string, isPublic *bool, metadata map[string]interface{}) (*models.Asset, error) {
	if err := s.assetRepo.UpdateAssetFields(ctx, id, name, isPublic, metadata); err != nil {
		return nil, err
	}
	return s.assetRepo.GetAssetByID(ctx, id)
}

// DeleteAsset removes the database row first; the file removal is best
// effort and never fails the call.
func (s *assetServiceImpl) DeleteAsset(ctx context.Context, id uuid.UUID) error {
	asset, err := s.assetRepo.GetAssetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.assetRepo.DeleteAsset(ctx, id); err != nil {
		return err
	}
	if err := s.store.Delete(asset.Filename); err != nil {
		s.logger.Error("Failed to delete media file of removed asset",
			zap.Error(err), zap.Stringer("assetID", id), zap.String("filename", asset.Filename))
	}
	return nil
}

// CanModifyAsset reports whether the actor may change or delete the asset.
func CanModifyAsset(actor *models.Claims, asset *models.Asset) error {
	if actor == nil {
		return models.ErrUnauthorized
	}
	if actor.Role == models.RoleAdmin || actor.UserID == asset.UploadedBy {
		return nil
	}
	return models.ErrForbidden
}
