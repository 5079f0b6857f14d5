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

// Compile-time check to ensure pgSceneRepository implements SceneRepository
var _ interfaces.SceneRepository = (*pgSceneRepository)(nil)

type pgSceneRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgSceneRepository creates a new PostgreSQL-backed SceneRepository.
func NewPgSceneRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.SceneRepository {
	return &pgSceneRepository{
		db:     db,
		logger: logger.Named("PgSceneRepo"),
	}
}

const sceneColumns = `id, scenario_id, title, scene_text, position, image_id, sound_id, music_id,
	choice_ids, is_start_scene, is_end_scene, created_at, updated_at`

// CreateScene inserts a new scene.
func (r *pgSceneRepository) CreateScene(ctx context.Context, scene *models.Scene) error {
	query := `INSERT INTO scenes (scenario_id, title, scene_text, position, image_id, sound_id, music_id,
	                              choice_ids, is_start_scene, is_end_scene)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	          RETURNING id, created_at, updated_at`
	if scene.ChoiceIDs == nil {
		scene.ChoiceIDs = []uuid.UUID{}
	}
	err := r.db.QueryRow(ctx, query,
		scene.ScenarioID, scene.Title, scene.Text, scene.Position,
		scene.ImageID, scene.SoundID, scene.MusicID,
		scene.ChoiceIDs, scene.IsStartScene, scene.IsEndScene).
		Scan(&scene.ID, &scene.CreatedAt, &scene.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to create scene", zap.Error(err),
			zap.String("scenarioID", scene.ScenarioID.String()), zap.String("title", scene.Title))
		return fmt.Errorf("failed to create scene: %w", err)
	}
	r.logger.Info("Scene created", zap.String("sceneID", scene.ID.String()),
		zap.String("scenarioID", scene.ScenarioID.String()))
	return nil
}

// GetSceneByID returns a scene by id.
func (r *pgSceneRepository) GetSceneByID(ctx context.Context, id uuid.UUID) (*models.Scene, error) {
	query := `SELECT ` + sceneColumns + ` FROM scenes WHERE id = $1`
	s := &models.Scene{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.ScenarioID, &s.Title, &s.Text, &s.Position,
		&s.ImageID, &s.SoundID, &s.MusicID,
		&s.ChoiceIDs, &s.IsStartScene, &s.IsEndScene, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrSceneNotFound
		}
		r.logger.Error("Failed to get scene", zap.Error(err), zap.String("sceneID", id.String()))
		return nil, fmt.Errorf("failed to get scene: %w", err)
	}
	return s, nil
}

// ListScenesByScenario returns all scenes of a scenario ordered by position.
func (r *pgSceneRepository) ListScenesByScenario(ctx context.Context, scenarioID uuid.UUID) ([]models.Scene, error) {
	query := `SELECT ` + sceneColumns + ` FROM scenes WHERE scenario_id = $1 ORDER BY position, created_at`
	var scenes []models.Scene
	if err := pgxscan.Select(ctx, r.db, &scenes, query, scenarioID); err != nil {
		r.logger.Error("Failed to list scenes", zap.Error(err), zap.String("scenarioID", scenarioID.String()))
		return nil, fmt.Errorf("failed to list scenes: %w", err)
	}
	return scenes, nil
}

// UpdateScene применяет частичное обновление сцены. Слоты ассетов
// обновляются только при установленном флаге Set, чтобы отличать
// явный null (отвязать ассет) от пропущенного поля.
func (r *pgSceneRepository) UpdateScene(ctx context.Context, id uuid.UUID, update interfaces.SceneUpdate) error {
	query := `UPDATE scenes SET
	            title = COALESCE($2, title),
	            scene_text = COALESCE($3, scene_text),
	            position = COALESCE($4, position),
	            is_start_scene = COALESCE($5, is_start_scene),
	            is_end_scene = COALESCE($6, is_end_scene),
	            image_id = CASE WHEN $7 THEN $8 ELSE image_id END,
	            sound_id = CASE WHEN $9 THEN $10 ELSE sound_id END,
	            music_id = CASE WHEN $11 THEN $12 ELSE music_id END,
	            updated_at = now()
	          WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id,
		update.Title, update.Text, update.Position, update.IsStartScene, update.IsEndScene,
		update.SetImageID, update.ImageID,
		update.SetSoundID, update.SoundID,
		update.SetMusicID, update.MusicID,
	)
	if err != nil {
		r.logger.Error("Failed to update scene", zap.Error(err), zap.String("sceneID", id.String()))
		return fmt.Errorf("failed to update scene: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrSceneNotFound
	}
	return nil
}

// SetAssetField записывает asset id в указанный слот сцены.
func (r *pgSceneRepository) SetAssetField(ctx context.Context, sceneID uuid.UUID, field string, assetID *uuid.UUID) error {
	var query string
	switch field {
	case models.AssetFieldImage:
		query = `UPDATE scenes SET image_id = $2, updated_at = now() WHERE id = $1`
	case models.AssetFieldSound:
		query = `UPDATE scenes SET sound_id = $2, updated_at = now() WHERE id = $1`
	case models.AssetFieldMusic:
		query = `UPDATE scenes SET music_id = $2, updated_at = now() WHERE id = $1`
	default:
		return models.ErrUnsupportedAssetField
	}
	tag, err := r.db.Exec(ctx, query, sceneID, assetID)
	if err != nil {
		r.logger.Error("Failed to set scene asset field", zap.Error(err),
			zap.String("sceneID", sceneID.String()), zap.String("field", field))
		return fmt.Errorf("failed to set scene asset field: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrSceneNotFound
	}
	return nil
}

// AppendChoice добавляет выбор в choice_ids сцены, если его там еще нет.
func (r *pgSceneRepository) AppendChoice(ctx context.Context, sceneID, choiceID uuid.UUID) error {
	query := `UPDATE scenes
	          SET choice_ids = array_append(choice_ids, $2), updated_at = now()
	          WHERE id = $1 AND NOT ($2 = ANY(choice_ids))`
	tag, err := r.db.Exec(ctx, query, sceneID, choiceID)
	if err != nil {
		r.logger.Error("Failed to append choice to scene", zap.Error(err),
			zap.String("sceneID", sceneID.String()), zap.String("choiceID", choiceID.String()))
		return fmt.Errorf("failed to append choice to scene: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM scenes WHERE id = $1)`, sceneID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check scene existence: %w", err)
		}
		if !exists {
			return models.ErrSceneNotFound
		}
	}
	return nil
}

// RemoveChoice удаляет выбор из choice_ids сцены.
func (r *pgSceneRepository) RemoveChoice(ctx context.Context, sceneID, choiceID uuid.UUID) error {
	query := `UPDATE scenes
	          SET choice_ids = array_remove(choice_ids, $2), updated_at = now()
	          WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, sceneID, choiceID)
	if err != nil {
		r.logger.Error("Failed to remove choice from scene", zap.Error(err),
			zap.String("sceneID", sceneID.String()), zap.String("choiceID", choiceID.String()))
		return fmt.Errorf("failed to remove choice from scene: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrSceneNotFound
	}
	return nil
}

// DeleteScene removes the scene row.
func (r *pgSceneRepository) DeleteScene(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM scenes WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete scene", zap.Error(err), zap.String("sceneID", id.String()))
		return fmt.Errorf("failed to delete scene: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrSceneNotFound
	}
	r.logger.Info("Scene deleted", zap.String("sceneID", id.String()))
	return nil
}
