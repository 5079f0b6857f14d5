package service_test

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"story-server/internal/config"
	genmocks "story-server/internal/generation/mocks"
	"story-server/internal/generation"
	"story-server/internal/interfaces/mocks"
	"story-server/internal/models"
	"story-server/internal/service"
	"story-server/internal/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type assetMocks struct {
	repo   *mocks.AssetRepository
	images *genmocks.ImageGenerator
	speech *genmocks.SpeechGenerator
	music  *genmocks.MusicGenerator
	root   string
}

func newAssetService(t *testing.T) (service.AssetService, assetMocks) {
	t.Helper()
	m := assetMocks{
		repo:   new(mocks.AssetRepository),
		images: new(genmocks.ImageGenerator),
		speech: new(genmocks.SpeechGenerator),
		music:  new(genmocks.MusicGenerator),
		root:   t.TempDir(),
	}
	store, err := storage.NewMediaStore(config.MediaConfig{Root: m.root, BaseURL: "/media/assets"}, zap.NewNop())
	require.NoError(t, err)

	svc := service.NewAssetService(m.repo, store, m.images, m.speech, m.music, zap.NewNop())
	return svc, m
}

// pngBytes renders a small valid PNG for metadata extraction tests.
func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestCreateAsset(t *testing.T) {
	ctx := context.Background()
	uploadedBy := uuid.New()

	t.Run("registers an external file without touching the media root", func(t *testing.T) {
		svc, m := newAssetService(t)

		m.repo.On("CreateAsset", ctx, mock.MatchedBy(func(a *models.Asset) bool {
			a.ID = uuid.New()
			assert.Equal(t, models.AssetTypeImage, a.AssetType)
			assert.Equal(t, "banner", a.Name, "name defaults to the URL basename")
			assert.Equal(t, "banner.png", a.Filename)
			assert.Equal(t, uploadedBy, a.UploadedBy)
			assert.NotNil(t, a.Metadata)
			return true
		})).Return(nil).Once()

		asset, err := svc.CreateAsset(ctx, uploadedBy, service.CreateAssetInput{
			AssetType: models.AssetTypeImage,
			URL:       "https://cdn.example.com/img/banner.png",
		})
		require.NoError(t, err)
		require.NotNil(t, asset)

		// Медиа-каталог остается пустым
		entries, err := os.ReadDir(m.root)
		require.NoError(t, err)
		assert.Empty(t, entries)
		m.repo.AssertExpectations(t)
	})

	t.Run("rejects unknown asset type", func(t *testing.T) {
		svc, _ := newAssetService(t)
		_, err := svc.CreateAsset(ctx, uploadedBy, service.CreateAssetInput{
			AssetType: "hologram",
			URL:       "https://cdn.example.com/h.bin",
		})
		assert.ErrorIs(t, err, models.ErrUnsupportedAssetType)
	})

	t.Run("rejects empty url", func(t *testing.T) {
		svc, _ := newAssetService(t)
		_, err := svc.CreateAsset(ctx, uploadedBy, service.CreateAssetInput{
			AssetType: models.AssetTypeImage,
		})
		assert.ErrorIs(t, err, models.ErrInvalidInput)
	})
}

func TestUploadAsset(t *testing.T) {
	ctx := context.Background()
	uploadedBy := uuid.New()

	t.Run("stores file and extracts image dimensions", func(t *testing.T) {
		svc, m := newAssetService(t)
		data := pngBytes(t, 32, 16)

		m.repo.On("CreateAsset", ctx, mock.MatchedBy(func(a *models.Asset) bool {
			a.ID = uuid.New()
			assert.Equal(t, models.AssetTypeImage, a.AssetType)
			assert.Equal(t, "cover", a.Name, "name defaults to the file basename")
			assert.Equal(t, "image/png", a.MimeType)
			assert.Equal(t, int64(len(data)), a.FileSize)
			assert.Equal(t, 32, a.Metadata["width"])
			assert.Equal(t, 16, a.Metadata["height"])
			return true
		})).Return(nil).Once()

		asset, err := svc.UploadAsset(ctx, uploadedBy, service.UploadAssetInput{
			Data:      data,
			Filename:  "cover.png",
			AssetType: models.AssetTypeImage,
		})
		require.NoError(t, err)

		// Файл действительно лежит в хранилище
		_, statErr := os.Stat(filepath.Join(m.root, asset.Filename))
		assert.NoError(t, statErr)
		assert.Contains(t, asset.URL, "/media/assets/")
		m.repo.AssertExpectations(t)
	})

	t.Run("unknown asset type", func(t *testing.T) {
		svc, _ := newAssetService(t)

		_, err := svc.UploadAsset(ctx, uploadedBy, service.UploadAssetInput{
			Data:      []byte("x"),
			Filename:  "x.bin",
			AssetType: "hologram",
		})
		assert.ErrorIs(t, err, models.ErrUnsupportedAssetType)
	})

	t.Run("filename without extension", func(t *testing.T) {
		svc, _ := newAssetService(t)

		_, err := svc.UploadAsset(ctx, uploadedBy, service.UploadAssetInput{
			Data:      []byte("x"),
			Filename:  "noext",
			AssetType: models.AssetTypeImage,
		})
		assert.ErrorIs(t, err, models.ErrInvalidInput)
	})

	t.Run("file is removed when the insert fails", func(t *testing.T) {
		svc, m := newAssetService(t)

		m.repo.On("CreateAsset", ctx, mock.Anything).Return(assert.AnError).Once()

		_, err := svc.UploadAsset(ctx, uploadedBy, service.UploadAssetInput{
			Data:      pngBytes(t, 4, 4),
			Filename:  "cover.png",
			AssetType: models.AssetTypeImage,
		})
		require.Error(t, err)

		entries, readErr := os.ReadDir(m.root)
		require.NoError(t, readErr)
		assert.Empty(t, entries, "orphaned media file must be cleaned up")
	})
}

func TestGenerateAsset(t *testing.T) {
	ctx := context.Background()
	uploadedBy := uuid.New()

	t.Run("image goes to the image generator", func(t *testing.T) {
		svc, m := newAssetService(t)

		m.images.On("GenerateImage", ctx, "a dark cave").Return(&generation.Result{
			Data:          pngBytes(t, 8, 8),
			MimeType:      "image/png",
			FileExtension: "png",
			Metadata:      map[string]interface{}{"model": "test"},
		}, nil).Once()
		m.repo.On("CreateAsset", ctx, mock.MatchedBy(func(a *models.Asset) bool {
			a.ID = uuid.New()
			assert.Equal(t, models.AssetTypeImage, a.AssetType)
			assert.Equal(t, true, a.Metadata["generated"])
			assert.True(t, a.IsPublic, "generated assets are public")
			return true
		})).Return(nil).Once()

		asset, err := svc.GenerateAsset(ctx, uploadedBy, service.GenerateAssetInput{
			AssetType:   models.AssetTypeImage,
			Description: "a dark cave",
		})
		require.NoError(t, err)
		assert.Equal(t, "image (generated)", asset.Name)
		m.images.AssertExpectations(t)
	})

	t.Run("sound with music type goes to the music generator", func(t *testing.T) {
		svc, m := newAssetService(t)

		m.music.On("GenerateMusic", ctx, "tense battle theme", 10).Return(&generation.Result{
			Data:          []byte("RIFF"),
			MimeType:      "audio/wav",
			FileExtension: "wav",
		}, nil).Once()
		m.repo.On("CreateAsset", ctx, mock.Anything).Return(nil).Once()

		_, err := svc.GenerateAsset(ctx, uploadedBy, service.GenerateAssetInput{
			AssetType:   models.AssetTypeSound,
			Description: "tense battle theme",
			SoundType:   "music",
			Duration:    10,
		})
		require.NoError(t, err)
		m.music.AssertExpectations(t)
		m.speech.AssertNotCalled(t, "GenerateSpeech", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("sound defaults to speech synthesis", func(t *testing.T) {
		svc, m := newAssetService(t)

		m.speech.On("GenerateSpeech", ctx, "Welcome, traveler", "en").Return(&generation.Result{
			Data:          []byte("ID3"),
			MimeType:      "audio/mpeg",
			FileExtension: "mp3",
		}, nil).Once()
		m.repo.On("CreateAsset", ctx, mock.Anything).Return(nil).Once()

		_, err := svc.GenerateAsset(ctx, uploadedBy, service.GenerateAssetInput{
			AssetType:   models.AssetTypeSound,
			Description: "Welcome, traveler",
			Language:    "en",
		})
		require.NoError(t, err)
		m.speech.AssertExpectations(t)
	})

	t.Run("video generation is unsupported", func(t *testing.T) {
		svc, _ := newAssetService(t)

		_, err := svc.GenerateAsset(ctx, uploadedBy, service.GenerateAssetInput{
			AssetType:   models.AssetTypeVideo,
			Description: "impossible",
		})
		assert.ErrorIs(t, err, models.ErrUnsupportedAssetType)
	})

	t.Run("model loading error is passed through", func(t *testing.T) {
		svc, m := newAssetService(t)

		m.images.On("GenerateImage", ctx, "a dark cave").Return(nil, models.ErrModelLoading).Once()

		_, err := svc.GenerateAsset(ctx, uploadedBy, service.GenerateAssetInput{
			AssetType:   models.AssetTypeImage,
			Description: "a dark cave",
		})
		assert.ErrorIs(t, err, models.ErrModelLoading)
		m.repo.AssertNotCalled(t, "CreateAsset", mock.Anything, mock.Anything)
	})
}

func TestDeleteAsset(t *testing.T) {
	ctx := context.Background()
	uploadedBy := uuid.New()

	svc, m := newAssetService(t)

	// Сначала загружаем реальный файл
	m.repo.On("CreateAsset", ctx, mock.Anything).Return(nil).Once()
	asset, err := svc.UploadAsset(ctx, uploadedBy, service.UploadAssetInput{
		Data:      pngBytes(t, 4, 4),
		Filename:  "cover.png",
		AssetType: models.AssetTypeImage,
	})
	require.NoError(t, err)
	asset.ID = uuid.New()

	m.repo.On("GetAssetByID", ctx, asset.ID).Return(asset, nil).Once()
	m.repo.On("DeleteAsset", ctx, asset.ID).Return(nil).Once()

	require.NoError(t, svc.DeleteAsset(ctx, asset.ID))

	_, statErr := os.Stat(filepath.Join(m.root, asset.Filename))
	assert.True(t, os.IsNotExist(statErr), "media file must be removed with the asset")
	m.repo.AssertExpectations(t)
}

func TestCanModifyAsset(t *testing.T) {
	owner := uuid.New()
	asset := &models.Asset{UploadedBy: owner}

	assert.ErrorIs(t, service.CanModifyAsset(nil, asset), models.ErrUnauthorized)
	assert.NoError(t, service.CanModifyAsset(&models.Claims{UserID: owner, Role: models.RolePlayer}, asset))
	assert.NoError(t, service.CanModifyAsset(&models.Claims{UserID: uuid.New(), Role: models.RoleAdmin}, asset))
	assert.ErrorIs(t, service.CanModifyAsset(&models.Claims{UserID: uuid.New(), Role: models.RolePlayer}, asset), models.ErrForbidden)
}
