package interfaces

import (
	"context"

	"story-server/internal/models"

	"github.com/google/uuid"
)

// PlayerProgressRepository определяет методы для доступа к прогрессу игроков.
type PlayerProgressRepository interface {
	// CreateProgress inserts a new progress row and fills the generated fields.
	CreateProgress(ctx context.Context, progress *models.PlayerProgress) error

	// GetProgressByID returns a progress row by id.
	// Returns models.ErrProgressNotFound if it does not exist.
	GetProgressByID(ctx context.Context, id uuid.UUID) (*models.PlayerProgress, error)

	// GetProgressByUserAndScenario returns the progress of one user in one scenario.
	// Returns models.ErrProgressNotFound if it does not exist.
	GetProgressByUserAndScenario(ctx context.Context, userID, scenarioID uuid.UUID) (*models.PlayerProgress, error)

	// ListProgressByUser returns all progress rows of a user, newest first.
	ListProgressByUser(ctx context.Context, userID uuid.UUID) ([]models.PlayerProgress, error)

	// ListProgressByScenario returns all progress rows within a scenario, newest first.
	ListProgressByScenario(ctx context.Context, scenarioID uuid.UUID) ([]models.PlayerProgress, error)

	// UpdateProgress перезаписывает изменяемые поля прогресса (current_scene_id,
	// history, is_completed, completed_at, total_time_spent).
	// Returns models.ErrProgressNotFound if the row does not exist.
	UpdateProgress(ctx context.Context, progress *models.PlayerProgress) error

	// DeleteProgress removes a progress row.
	// Returns models.ErrProgressNotFound if it does not exist.
	DeleteProgress(ctx context.Context, id uuid.UUID) error
}
