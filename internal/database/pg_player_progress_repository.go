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

// Compile-time check to ensure implementation satisfies the interface.
var _ interfaces.PlayerProgressRepository = (*pgPlayerProgressRepository)(nil)

type pgPlayerProgressRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgPlayerProgressRepository creates a new PostgreSQL-backed PlayerProgressRepository.
func NewPgPlayerProgressRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.PlayerProgressRepository {
	return &pgPlayerProgressRepository{
		db:     db,
		logger: logger.Named("PgPlayerProgressRepo"),
	}
}

const progressColumns = `id, user_id, scenario_id, current_scene_id, history,
	is_completed, completed_at, total_time_spent, created_at, updated_at`

// CreateProgress inserts a new progress row.
func (r *pgPlayerProgressRepository) CreateProgress(ctx context.Context, progress *models.PlayerProgress) error {
	query := `INSERT INTO player_progress (user_id, scenario_id, current_scene_id, history, is_completed, completed_at, total_time_spent)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id, created_at, updated_at`
	if progress.History == nil {
		progress.History = []models.HistoryEntry{}
	}
	historyJSON, err := utils.MarshalMap(progress.History)
	if err != nil {
		return fmt.Errorf("failed to marshal progress history: %w", err)
	}
	err = r.db.QueryRow(ctx, query,
		progress.UserID, progress.ScenarioID, progress.CurrentSceneID,
		historyJSON, progress.IsCompleted, progress.CompletedAt, progress.TotalTimeSpent).
		Scan(&progress.ID, &progress.CreatedAt, &progress.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to create player progress", zap.Error(err),
			zap.Stringer("userID", progress.UserID), zap.Stringer("scenarioID", progress.ScenarioID))
		return fmt.Errorf("failed to create player progress: %w", err)
	}
	r.logger.Info("Player progress created", zap.Stringer("progressID", progress.ID),
		zap.Stringer("userID", progress.UserID), zap.Stringer("scenarioID", progress.ScenarioID))
	return nil
}

// GetProgressByID returns a progress row by id.
func (r *pgPlayerProgressRepository) GetProgressByID(ctx context.Context, id uuid.UUID) (*models.PlayerProgress, error) {
	query := `SELECT ` + progressColumns + ` FROM player_progress WHERE id = $1`
	row := r.db.QueryRow(ctx, query, id)
	progress, err := scanProgress(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrProgressNotFound
		}
		r.logger.Error("Failed to get player progress", zap.Error(err), zap.Stringer("progressID", id))
		return nil, fmt.Errorf("failed to get player progress: %w", err)
	}
	return progress, nil
}

// GetProgressByUserAndScenario returns the progress of one user in one scenario.
// Если строк несколько (дубликаты старых версий), берем самую свежую.
func (r *pgPlayerProgressRepository) GetProgressByUserAndScenario(ctx context.Context, userID, scenarioID uuid.UUID) (*models.PlayerProgress, error) {
	query := `SELECT ` + progressColumns + ` FROM player_progress
	          WHERE user_id = $1 AND scenario_id = $2
	          ORDER BY updated_at DESC
	          LIMIT 1`
	row := r.db.QueryRow(ctx, query, userID, scenarioID)
	progress, err := scanProgress(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrProgressNotFound
		}
		r.logger.Error("Failed to get player progress", zap.Error(err),
			zap.Stringer("userID", userID), zap.Stringer("scenarioID", scenarioID))
		return nil, fmt.Errorf("failed to get player progress: %w", err)
	}
	return progress, nil
}

// ListProgressByUser returns all progress rows of a user, newest first.
func (r *pgPlayerProgressRepository) ListProgressByUser(ctx context.Context, userID uuid.UUID) ([]models.PlayerProgress, error) {
	query := `SELECT ` + progressColumns + ` FROM player_progress WHERE user_id = $1 ORDER BY updated_at DESC`
	return r.listProgress(ctx, query, userID)
}

// ListProgressByScenario returns all progress rows within a scenario, newest first.
func (r *pgPlayerProgressRepository) ListProgressByScenario(ctx context.Context, scenarioID uuid.UUID) ([]models.PlayerProgress, error) {
	query := `SELECT ` + progressColumns + ` FROM player_progress WHERE scenario_id = $1 ORDER BY updated_at DESC`
	return r.listProgress(ctx, query, scenarioID)
}

func (r *pgPlayerProgressRepository) listProgress(ctx context.Context, query string, args ...any) ([]models.PlayerProgress, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list player progress", zap.Error(err))
		return nil, fmt.Errorf("failed to list player progress: %w", err)
	}
	defer rows.Close()

	result := []models.PlayerProgress{}
	for rows.Next() {
		progress, err := scanProgress(rows)
		if err != nil {
			r.logger.Error("Failed to scan player progress row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan player progress row: %w", err)
		}
		result = append(result, *progress)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate player progress rows: %w", err)
	}
	return result, nil
}

// scanProgress reads one progress row, decoding the history jsonb.
func scanProgress(row pgx.Row) (*models.PlayerProgress, error) {
	progress := &models.PlayerProgress{}
	var historyJSON []byte
	err := row.Scan(
		&progress.ID, &progress.UserID, &progress.ScenarioID, &progress.CurrentSceneID,
		&historyJSON, &progress.IsCompleted, &progress.CompletedAt,
		&progress.TotalTimeSpent, &progress.CreatedAt, &progress.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	progress.History = []models.HistoryEntry{}
	if err := utils.UnmarshalMap(historyJSON, &progress.History); err != nil {
		return nil, fmt.Errorf("failed to unmarshal progress history: %w", err)
	}
	return progress, nil
}

// UpdateProgress перезаписывает изменяемые поля прогресса.
func (r *pgPlayerProgressRepository) UpdateProgress(ctx context.Context, progress *models.PlayerProgress) error {
	query := `UPDATE player_progress SET
	            current_scene_id = $2,
	            history = $3,
	            is_completed = $4,
	            completed_at = $5,
	            total_time_spent = $6,
	            updated_at = now()
	          WHERE id = $1`
	historyJSON, err := utils.MarshalMap(progress.History)
	if err != nil {
		return fmt.Errorf("failed to marshal progress history: %w", err)
	}
	tag, err := r.db.Exec(ctx, query,
		progress.ID, progress.CurrentSceneID, historyJSON,
		progress.IsCompleted, progress.CompletedAt, progress.TotalTimeSpent)
	if err != nil {
		r.logger.Error("Failed to update player progress", zap.Error(err), zap.Stringer("progressID", progress.ID))
		return fmt.Errorf("failed to update player progress: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrProgressNotFound
	}
	return nil
}

// DeleteProgress removes a progress row.
func (r *pgPlayerProgressRepository) DeleteProgress(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM player_progress WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete player progress", zap.Error(err), zap.Stringer("progressID", id))
		return fmt.Errorf("failed to delete player progress: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrProgressNotFound
	}
	r.logger.Info("Player progress deleted", zap.Stringer("progressID", id))
	return nil
}
