package interfaces

import (
	"context"

	"story-server/internal/models"

	"github.com/google/uuid"
)

// ChoiceRepository определяет методы для доступа к выборам (переходам между сценами).
type ChoiceRepository interface {
	// CreateChoice inserts a new choice and fills the generated fields.
	CreateChoice(ctx context.Context, choice *models.Choice) error

	// GetChoiceByID returns a choice by id.
	// Returns models.ErrChoiceNotFound if it does not exist.
	GetChoiceByID(ctx context.Context, id uuid.UUID) (*models.Choice, error)

	// ListChoicesByScene returns all choices originating from a scene, ordered by position.
	ListChoicesByScene(ctx context.Context, fromSceneID uuid.UUID) ([]models.Choice, error)

	// ListChoicesTouchingScene returns all choices whose from or to side references the scene.
	ListChoicesTouchingScene(ctx context.Context, sceneID uuid.UUID) ([]models.Choice, error)

	// UpdateChoiceFields обновляет только указанные поля. nil-поля не трогаются.
	UpdateChoiceFields(ctx context.Context, id uuid.UUID, text *string, toSceneID *uuid.UUID, condition map[string]interface{}, position *int) error

	// DeleteChoice removes the choice row.
	// Returns models.ErrChoiceNotFound if it does not exist.
	DeleteChoice(ctx context.Context, id uuid.UUID) error

	// DeleteChoicesTouchingScene удаляет все выборы, у которых from или to ссылается на сцену.
	// Возвращает id удаленных выборов.
	DeleteChoicesTouchingScene(ctx context.Context, sceneID uuid.UUID) ([]uuid.UUID, error)
}
