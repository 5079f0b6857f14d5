package interfaces

import (
	"context"

	"story-server/internal/models"

	"github.com/google/uuid"
)

// ScenarioRepository определяет методы для доступа к сценариям.
type ScenarioRepository interface {
	// CreateScenario inserts a new scenario and fills the generated fields.
	CreateScenario(ctx context.Context, scenario *models.Scenario) error

	// GetScenarioByID returns a scenario by id.
	// Returns models.ErrScenarioNotFound if it does not exist.
	GetScenarioByID(ctx context.Context, id uuid.UUID) (*models.Scenario, error)

	// ListScenarios returns scenarios, newest first. When publishedOnly is true,
	// unpublished scenarios are filtered out. authorID, when non-nil, restricts
	// the list to one author.
	ListScenarios(ctx context.Context, publishedOnly bool, authorID *uuid.UUID) ([]models.Scenario, error)

	// UpdateScenarioFields обновляет только указанные поля. nil-поля не трогаются.
	UpdateScenarioFields(ctx context.Context, id uuid.UUID, title, description *string, isPublished *bool) error

	// AppendScene добавляет сцену в конец списка scene_ids (если ее там еще нет).
	AppendScene(ctx context.Context, scenarioID, sceneID uuid.UUID) error

	// RemoveScene удаляет сцену из списка scene_ids.
	RemoveScene(ctx context.Context, scenarioID, sceneID uuid.UUID) error

	// DeleteScenario removes the scenario row.
	// Returns models.ErrScenarioNotFound if it does not exist.
	DeleteScenario(ctx context.Context, id uuid.UUID) error
}
