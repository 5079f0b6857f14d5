package database

import (
	"context"
	"errors"
	"fmt"

	"story-server/internal/interfaces"
	"story-server/internal/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// Compile-time check to ensure pgScenarioRepository implements ScenarioRepository
var _ interfaces.ScenarioRepository = (*pgScenarioRepository)(nil)

type pgScenarioRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgScenarioRepository creates a new PostgreSQL-backed ScenarioRepository.
func NewPgScenarioRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.ScenarioRepository {
	return &pgScenarioRepository{
		db:     db,
		logger: logger.Named("PgScenarioRepo"),
	}
}

const scenarioColumns = `id, title, description, author_id, scene_ids, is_published, created_at, updated_at`

// CreateScenario inserts a new scenario.
func (r *pgScenarioRepository) CreateScenario(ctx context.Context, scenario *models.Scenario) error {
	query := `INSERT INTO scenarios (title, description, author_id, scene_ids, is_published)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id, created_at, updated_at`
	if scenario.SceneIDs == nil {
		scenario.SceneIDs = []uuid.UUID{}
	}
	err := r.db.QueryRow(ctx, query,
		scenario.Title, scenario.Description, scenario.AuthorID, scenario.SceneIDs, scenario.IsPublished).
		Scan(&scenario.ID, &scenario.CreatedAt, &scenario.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to create scenario", zap.Error(err), zap.String("title", scenario.Title))
		return fmt.Errorf("failed to create scenario: %w", err)
	}
	r.logger.Info("Scenario created", zap.String("scenarioID", scenario.ID.String()), zap.String("title", scenario.Title))
	return nil
}

// GetScenarioByID returns a scenario by id.
func (r *pgScenarioRepository) GetScenarioByID(ctx context.Context, id uuid.UUID) (*models.Scenario, error) {
	query := `SELECT ` + scenarioColumns + ` FROM scenarios WHERE id = $1`
	s := &models.Scenario{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.Title, &s.Description, &s.AuthorID, &s.SceneIDs, &s.IsPublished, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrScenarioNotFound
		}
		r.logger.Error("Failed to get scenario", zap.Error(err), zap.String("scenarioID", id.String()))
		return nil, fmt.Errorf("failed to get scenario: %w", err)
	}
	return s, nil
}

// ListScenarios returns scenarios, newest first.
func (r *pgScenarioRepository) ListScenarios(ctx context.Context, publishedOnly bool, authorID *uuid.UUID) ([]models.Scenario, error) {
	query := `SELECT ` + scenarioColumns + ` FROM scenarios
	          WHERE ($1 = false OR is_published = true)
	            AND ($2::uuid IS NULL OR author_id = $2)
	          ORDER BY created_at DESC`
	var scenarios []models.Scenario
	if err := pgxscan.Select(ctx, r.db, &scenarios, query, publishedOnly, authorID); err != nil {
		r.logger.Error("Failed to list scenarios", zap.Error(err))
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}
	return scenarios, nil
}

// UpdateScenarioFields обновляет только указанные поля.
func (r *pgScenarioRepository) UpdateScenarioFields(ctx context.Context, id uuid.UUID, title, description *string, isPublished *bool) error {
	query := `UPDATE scenarios SET
	            title = COALESCE($2, title),
	            description = COALESCE($3, description),
	            is_published = COALESCE($4, is_published),
	            updated_at = now()
	          WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id, title, description, isPublished)
	if err != nil {
		r.logger.Error("Failed to update scenario fields", zap.Error(err), zap.String("scenarioID", id.String()))
		return fmt.Errorf("failed to update scenario fields: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrScenarioNotFound
	}
	return nil
}

// AppendScene добавляет сцену в конец scene_ids, если ее там еще нет.
func (r *pgScenarioRepository) AppendScene(ctx context.Context, scenarioID, sceneID uuid.UUID) error {
	query := `UPDATE scenarios
	          SET scene_ids = array_append(scene_ids, $2), updated_at = now()
	          WHERE id = $1 AND NOT ($2 = ANY(scene_ids))`
	tag, err := r.db.Exec(ctx, query, scenarioID, sceneID)
	if err != nil {
		r.logger.Error("Failed to append scene to scenario", zap.Error(err),
			zap.String("scenarioID", scenarioID.String()), zap.String("sceneID", sceneID.String()))
		return fmt.Errorf("failed to append scene to scenario: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Либо сценария нет, либо сцена уже в списке. Различаем отдельным запросом.
		exists, err := r.scenarioExists(ctx, scenarioID)
		if err != nil {
			return err
		}
		if !exists {
			return models.ErrScenarioNotFound
		}
	}
	return nil
}

// RemoveScene удаляет сцену из scene_ids.
func (r *pgScenarioRepository) RemoveScene(ctx context.Context, scenarioID, sceneID uuid.UUID) error {
	query := `UPDATE scenarios
	          SET scene_ids = array_remove(scene_ids, $2), updated_at = now()
	          WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, scenarioID, sceneID)
	if err != nil {
		r.logger.Error("Failed to remove scene from scenario", zap.Error(err),
			zap.String("scenarioID", scenarioID.String()), zap.String("sceneID", sceneID.String()))
		return fmt.Errorf("failed to remove scene from scenario: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrScenarioNotFound
	}
	return nil
}

// DeleteScenario removes the scenario row.
func (r *pgScenarioRepository) DeleteScenario(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM scenarios WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete scenario", zap.Error(err), zap.String("scenarioID", id.String()))
		return fmt.Errorf("failed to delete scenario: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrScenarioNotFound
	}
	r.logger.Info("Scenario deleted", zap.String("scenarioID", id.String()))
	return nil
}

func (r *pgScenarioRepository) scenarioExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM scenarios WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		r.logger.Error("Failed to check scenario existence", zap.Error(err), zap.String("scenarioID", id.String()))
		return false, fmt.Errorf("failed to check scenario existence: %w", err)
	}
	return exists, nil
}
