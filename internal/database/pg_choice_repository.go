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

// Compile-time check to ensure pgChoiceRepository implements ChoiceRepository
var _ interfaces.ChoiceRepository = (*pgChoiceRepository)(nil)

type pgChoiceRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgChoiceRepository creates a new PostgreSQL-backed ChoiceRepository.
func NewPgChoiceRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.ChoiceRepository {
	return &pgChoiceRepository{
		db:     db,
		logger: logger.Named("PgChoiceRepo"),
	}
}

const choiceColumns = `id, from_scene_id, to_scene_id, choice_text, condition, position, created_at`

// CreateChoice inserts a new choice.
func (r *pgChoiceRepository) CreateChoice(ctx context.Context, choice *models.Choice) error {
	query := `INSERT INTO choices (from_scene_id, to_scene_id, choice_text, condition, position)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id, created_at`
	conditionJSON, err := utils.MarshalMap(choice.Condition)
	if err != nil {
		return fmt.Errorf("failed to marshal choice condition: %w", err)
	}
	err = r.db.QueryRow(ctx, query,
		choice.FromSceneID, choice.ToSceneID, choice.Text, conditionJSON, choice.Position).
		Scan(&choice.ID, &choice.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to create choice", zap.Error(err),
			zap.String("fromSceneID", choice.FromSceneID.String()))
		return fmt.Errorf("failed to create choice: %w", err)
	}
	r.logger.Info("Choice created", zap.String("choiceID", choice.ID.String()),
		zap.String("fromSceneID", choice.FromSceneID.String()),
		zap.String("toSceneID", choice.ToSceneID.String()))
	return nil
}

// GetChoiceByID returns a choice by id.
func (r *pgChoiceRepository) GetChoiceByID(ctx context.Context, id uuid.UUID) (*models.Choice, error) {
	query := `SELECT ` + choiceColumns + ` FROM choices WHERE id = $1`
	row := r.db.QueryRow(ctx, query, id)
	choice, err := scanChoice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrChoiceNotFound
		}
		r.logger.Error("Failed to get choice", zap.Error(err), zap.String("choiceID", id.String()))
		return nil, fmt.Errorf("failed to get choice: %w", err)
	}
	return choice, nil
}

// ListChoicesByScene returns all choices originating from a scene, ordered by position.
func (r *pgChoiceRepository) ListChoicesByScene(ctx context.Context, fromSceneID uuid.UUID) ([]models.Choice, error) {
	query := `SELECT ` + choiceColumns + ` FROM choices WHERE from_scene_id = $1 ORDER BY position, created_at`
	return r.listChoices(ctx, query, fromSceneID)
}

// ListChoicesTouchingScene returns all choices whose from or to side references the scene.
func (r *pgChoiceRepository) ListChoicesTouchingScene(ctx context.Context, sceneID uuid.UUID) ([]models.Choice, error) {
	query := `SELECT ` + choiceColumns + ` FROM choices WHERE from_scene_id = $1 OR to_scene_id = $1 ORDER BY created_at`
	return r.listChoices(ctx, query, sceneID)
}

func (r *pgChoiceRepository) listChoices(ctx context.Context, query string, args ...any) ([]models.Choice, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list choices", zap.Error(err))
		return nil, fmt.Errorf("failed to list choices: %w", err)
	}
	defer rows.Close()

	choices := []models.Choice{}
	for rows.Next() {
		choice, err := scanChoice(rows)
		if err != nil {
			r.logger.Error("Failed to scan choice row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan choice row: %w", err)
		}
		choices = append(choices, *choice)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate choice rows: %w", err)
	}
	return choices, nil
}

// scanChoice reads one choice from a row, decoding the condition jsonb.
func scanChoice(row pgx.Row) (*models.Choice, error) {
	choice := &models.Choice{}
	var conditionJSON []byte
	err := row.Scan(
		&choice.ID, &choice.FromSceneID, &choice.ToSceneID, &choice.Text,
		&conditionJSON, &choice.Position, &choice.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := utils.UnmarshalMap(conditionJSON, &choice.Condition); err != nil {
		return nil, fmt.Errorf("failed to unmarshal choice condition: %w", err)
	}
	return choice, nil
}

// UpdateChoiceFields обновляет только указанные поля.
func (r *pgChoiceRepository) UpdateChoiceFields(ctx context.Context, id uuid.UUID, text *string, toSceneID *uuid.UUID, condition map[string]interface{}, position *int) error {
	var conditionJSON []byte
	if condition != nil {
		var err error
		conditionJSON, err = utils.MarshalMap(condition)
		if err != nil {
			return fmt.Errorf("failed to marshal choice condition: %w", err)
		}
	}
	query := `UPDATE choices SET
	            choice_text = COALESCE($2, choice_text),
	            to_scene_id = COALESCE($3, to_scene_id),
	            condition = COALESCE($4, condition),
	            position = COALESCE($5, position)
	          WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id, text, toSceneID, conditionJSON, position)
	if err != nil {
		r.logger.Error("Failed to update choice fields", zap.Error(err), zap.String("choiceID", id.String()))
		return fmt.Errorf("failed to update choice fields: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrChoiceNotFound
	}
	return nil
}

// DeleteChoice removes the choice row.
func (r *pgChoiceRepository) DeleteChoice(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM choices WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete choice", zap.Error(err), zap.String("choiceID", id.String()))
		return fmt.Errorf("failed to delete choice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrChoiceNotFound
	}
	r.logger.Info("Choice deleted", zap.String("choiceID", id.String()))
	return nil
}

// DeleteChoicesTouchingScene удаляет все выборы, у которых from или to ссылается на сцену.
func (r *pgChoiceRepository) DeleteChoicesTouchingScene(ctx context.Context, sceneID uuid.UUID) ([]uuid.UUID, error) {
	query := `DELETE FROM choices WHERE from_scene_id = $1 OR to_scene_id = $1 RETURNING id`
	rows, err := r.db.Query(ctx, query, sceneID)
	if err != nil {
		r.logger.Error("Failed to delete choices touching scene", zap.Error(err),
			zap.String("sceneID", sceneID.String()))
		return nil, fmt.Errorf("failed to delete choices touching scene: %w", err)
	}
	defer rows.Close()

	var deleted []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan deleted choice id: %w", err)
		}
		deleted = append(deleted, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate deleted choice ids: %w", err)
	}
	r.logger.Info("Choices touching scene deleted",
		zap.String("sceneID", sceneID.String()), zap.Int("count", len(deleted)))
	return deleted, nil
}
