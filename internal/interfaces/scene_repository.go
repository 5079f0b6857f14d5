package interfaces

import (
	"context"

	"story-server/internal/models"

	"github.com/google/uuid"
)

// SceneUpdate describes a partial scene update. Pointer fields that are nil
// are left untouched. Asset slots use the Set flag so that an explicit null
// (detach the asset) can be told apart from an omitted field.
type SceneUpdate struct {
	Title        *string
	Text         *string
	Position     *int
	IsStartScene *bool
	IsEndScene   *bool

	SetImageID bool
	ImageID    *uuid.UUID
	SetSoundID bool
	SoundID    *uuid.UUID
	SetMusicID bool
	MusicID    *uuid.UUID
}

// SceneRepository определяет методы для доступа к сценам.
type SceneRepository interface {
	// CreateScene inserts a new scene and fills the generated fields.
	CreateScene(ctx context.Context, scene *models.Scene) error

	// GetSceneByID returns a scene by id.
	// Returns models.ErrSceneNotFound if it does not exist.
	GetSceneByID(ctx context.Context, id uuid.UUID) (*models.Scene, error)

	// ListScenesByScenario returns all scenes of a scenario ordered by position.
	ListScenesByScenario(ctx context.Context, scenarioID uuid.UUID) ([]models.Scene, error)

	// UpdateScene применяет частичное обновление сцены.
	// Returns models.ErrSceneNotFound if the scene does not exist.
	UpdateScene(ctx context.Context, id uuid.UUID, update SceneUpdate) error

	// SetAssetField записывает asset id в указанный слот сцены (image_id/sound_id/music_id).
	SetAssetField(ctx context.Context, sceneID uuid.UUID, field string, assetID *uuid.UUID) error

	// AppendChoice добавляет выбор в список choice_ids сцены (если его там еще нет).
	AppendChoice(ctx context.Context, sceneID, choiceID uuid.UUID) error

	// RemoveChoice удаляет выбор из списка choice_ids сцены.
	RemoveChoice(ctx context.Context, sceneID, choiceID uuid.UUID) error

	// DeleteScene removes the scene row.
	// Returns models.ErrSceneNotFound if it does not exist.
	DeleteScene(ctx context.Context, id uuid.UUID) error
}
