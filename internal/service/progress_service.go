package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"story-server/internal/interfaces"
	"story-server/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProgressUpdate describes a partial player progress update.
type ProgressUpdate struct {
	CurrentSceneID *uuid.UUID
	IsCompleted    *bool
	TotalTimeSpent *int
}

// ProgressService tracks where each player is inside each scenario.
type ProgressService interface {
	// StartScenario returns the player's progress in the scenario, creating
	// it on first call. startSceneID, when non-nil, must be a scene of the
	// scenario; иначе стартовая сцена выводится из самого сценария.
	// The bool reports creation.
	StartScenario(ctx context.Context, userID, scenarioID uuid.UUID, startSceneID *uuid.UUID) (*models.PlayerProgress, bool, error)

	// MoveToScene advances the player to another scene of the same scenario.
	// Учитывается и движение после завершения: is_completed не сбрасывается.
	MoveToScene(ctx context.Context, userID, scenarioID, toSceneID uuid.UUID, choiceID *uuid.UUID, metadata map[string]interface{}) (*models.PlayerProgress, error)

	// CompleteScenario marks the progress completed. Идемпотентно:
	// повторный вызов не меняет completed_at.
	CompleteScenario(ctx context.Context, userID, scenarioID uuid.UUID) (*models.PlayerProgress, error)

	GetProgress(ctx context.Context, userID, scenarioID uuid.UUID) (*models.PlayerProgress, error)
	ListProgressByUser(ctx context.Context, userID uuid.UUID) ([]models.PlayerProgress, error)
	ListProgressByScenario(ctx context.Context, scenarioID uuid.UUID) ([]models.PlayerProgress, error)
	UpdateProgress(ctx context.Context, id uuid.UUID, update ProgressUpdate) (*models.PlayerProgress, error)
	DeleteProgress(ctx context.Context, id uuid.UUID) error
	GetProgressByID(ctx context.Context, id uuid.UUID) (*models.PlayerProgress, error)

	// ProgressPercentage считает долю посещенных сцен сценария в процентах.
	ProgressPercentage(ctx context.Context, progress *models.PlayerProgress) (float64, error)
}

type progressServiceImpl struct {
	progressRepo interfaces.PlayerProgressRepository
	scenarioRepo interfaces.ScenarioRepository
	sceneRepo    interfaces.SceneRepository
	logger       *zap.Logger
}

// NewProgressService creates the progress service.
func NewProgressService(
	progressRepo interfaces.PlayerProgressRepository,
	scenarioRepo interfaces.ScenarioRepository,
	sceneRepo interfaces.SceneRepository,
	logger *zap.Logger,
) ProgressService {
	return &progressServiceImpl{
		progressRepo: progressRepo,
		scenarioRepo: scenarioRepo,
		sceneRepo:    sceneRepo,
		logger:       logger.Named("ProgressService"),
	}
}

// StartScenario implements get-or-create per (user, scenario).
func (s *progressServiceImpl) StartScenario(ctx context.Context, userID, scenarioID uuid.UUID, startSceneID *uuid.UUID) (*models.PlayerProgress, bool, error) {
	existing, err := s.progressRepo.GetProgressByUserAndScenario(ctx, userID, scenarioID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, models.ErrProgressNotFound) {
		return nil, false, err
	}

	var firstSceneID uuid.UUID
	if startSceneID != nil {
		scene, err := s.sceneRepo.GetSceneByID(ctx, *startSceneID)
		if err != nil {
			return nil, false, err
		}
		if scene.ScenarioID != scenarioID {
			return nil, false, fmt.Errorf("scene %s does not belong to scenario %s: %w",
				scene.ID, scenarioID, models.ErrInvalidInput)
		}
		firstSceneID = scene.ID
	} else {
		firstSceneID, err = s.findStartScene(ctx, scenarioID)
		if err != nil {
			return nil, false, err
		}
	}

	progress := &models.PlayerProgress{
		UserID:         userID,
		ScenarioID:     scenarioID,
		CurrentSceneID: firstSceneID,
		History:        []models.HistoryEntry{},
	}
	if err := s.progressRepo.CreateProgress(ctx, progress); err != nil {
		return nil, false, err
	}
	s.logger.Info("Player started scenario",
		zap.Stringer("userID", userID), zap.Stringer("scenarioID", scenarioID),
		zap.Stringer("startSceneID", firstSceneID))
	return progress, true, nil
}

// findStartScene prefers a scene flagged as start, then falls back to the
// first entry of the scenario's scene list.
func (s *progressServiceImpl) findStartScene(ctx context.Context, scenarioID uuid.UUID) (uuid.UUID, error) {
	scenario, err := s.scenarioRepo.GetScenarioByID(ctx, scenarioID)
	if err != nil {
		return uuid.Nil, err
	}
	if len(scenario.SceneIDs) == 0 {
		return uuid.Nil, fmt.Errorf("scenario %s has no scenes: %w", scenarioID, models.ErrInvalidInput)
	}

	scenes, err := s.sceneRepo.ListScenesByScenario(ctx, scenarioID)
	if err != nil {
		return uuid.Nil, err
	}
	for i := range scenes {
		if scenes[i].IsStartScene {
			return scenes[i].ID, nil
		}
	}
	return scenario.SceneIDs[0], nil
}

// MoveToScene appends the previous current scene to the history, then moves.
func (s *progressServiceImpl) MoveToScene(ctx context.Context, userID, scenarioID, toSceneID uuid.UUID, choiceID *uuid.UUID, metadata map[string]interface{}) (*models.PlayerProgress, error) {
	progress, err := s.progressRepo.GetProgressByUserAndScenario(ctx, userID, scenarioID)
	if err != nil {
		return nil, err
	}

	scene, err := s.sceneRepo.GetSceneByID(ctx, toSceneID)
	if err != nil {
		return nil, err
	}
	if scene.ScenarioID != scenarioID {
		return nil, fmt.Errorf("scene %s belongs to another scenario: %w", toSceneID, models.ErrInvalidInput)
	}

	// Сначала фиксируем сцену, с которой уходим
	progress.History = append(progress.History, models.HistoryEntry{
		SceneID:   progress.CurrentSceneID,
		ChoiceID:  choiceID,
		Timestamp: time.Now().UTC(),
		Metadata:  metadata,
	})
	progress.CurrentSceneID = toSceneID

	// Конечная сцена защелкивает завершение; движение дальше разрешено
	if scene.IsEndScene && !progress.IsCompleted {
		now := time.Now().UTC()
		progress.IsCompleted = true
		progress.CompletedAt = &now
		s.logger.Info("Player completed scenario",
			zap.Stringer("userID", userID), zap.Stringer("scenarioID", scenarioID))
	}

	if err := s.progressRepo.UpdateProgress(ctx, progress); err != nil {
		return nil, err
	}
	return progress, nil
}

// CompleteScenario latches completion without moving.
func (s *progressServiceImpl) CompleteScenario(ctx context.Context, userID, scenarioID uuid.UUID) (*models.PlayerProgress, error) {
	progress, err := s.progressRepo.GetProgressByUserAndScenario(ctx, userID, scenarioID)
	if err != nil {
		return nil, err
	}
	if progress.IsCompleted {
		return progress, nil
	}
	now := time.Now().UTC()
	progress.IsCompleted = true
	progress.CompletedAt = &now
	if err := s.progressRepo.UpdateProgress(ctx, progress); err != nil {
		return nil, err
	}
	s.logger.Info("Player completed scenario",
		zap.Stringer("userID", userID), zap.Stringer("scenarioID", scenarioID))
	return progress, nil
}

func (s *progressServiceImpl) GetProgress(ctx context.Context, userID, scenarioID uuid.UUID) (*models.PlayerProgress, error) {
	return s.progressRepo.GetProgressByUserAndScenario(ctx, userID, scenarioID)
}

func (s *progressServiceImpl) GetProgressByID(ctx context.Context, id uuid.UUID) (*models.PlayerProgress, error) {
	return s.progressRepo.GetProgressByID(ctx, id)
}

func (s *progressServiceImpl) ListProgressByUser(ctx context.Context, userID uuid.UUID) ([]models.PlayerProgress, error) {
	return s.progressRepo.ListProgressByUser(ctx, userID)
}

func (s *progressServiceImpl) ListProgressByScenario(ctx context.Context, scenarioID uuid.UUID) ([]models.PlayerProgress, error) {
	return s.progressRepo.ListProgressByScenario(ctx, scenarioID)
}

// UpdateProgress применяет частичное обновление. IsCompleted=true защелкивает
// завершение; false не снимает его.
func (s *progressServiceImpl) UpdateProgress(ctx context.Context, id uuid.UUID, update ProgressUpdate) (*models.PlayerProgress, error) {
	progress, err := s.progressRepo.GetProgressByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.CurrentSceneID != nil {
		scene, err := s.sceneRepo.GetSceneByID(ctx, *update.CurrentSceneID)
		if err != nil {
			return nil, err
		}
		if scene.ScenarioID != progress.ScenarioID {
			return nil, fmt.Errorf("scene %s belongs to another scenario: %w", scene.ID, models.ErrInvalidInput)
		}
		progress.CurrentSceneID = *update.CurrentSceneID
	}
	if update.IsCompleted != nil && *update.IsCompleted && !progress.IsCompleted {
		now := time.Now().UTC()
		progress.IsCompleted = true
		progress.CompletedAt = &now
	}
	if update.TotalTimeSpent != nil {
		progress.TotalTimeSpent = *update.TotalTimeSpent
	}

	if err := s.progressRepo.UpdateProgress(ctx, progress); err != nil {
		return nil, err
	}
	return progress, nil
}

func (s *progressServiceImpl) DeleteProgress(ctx context.Context, id uuid.UUID) error {
	return s.progressRepo.DeleteProgress(ctx, id)
}

// ProgressPercentage = посещенные уникальные сцены / сцены сценария * 100.
func (s *progressServiceImpl) ProgressPercentage(ctx context.Context, progress *models.PlayerProgress) (float64, error) {
	scenario, err := s.scenarioRepo.GetScenarioByID(ctx, progress.ScenarioID)
	if err != nil {
		return 0, err
	}
	return CalculateProgressPercentage(progress, scenario.SceneCount()), nil
}

// CalculateProgressPercentage computes the visited share, capped at 100.
// Scenarios without scenes report 0.
func CalculateProgressPercentage(progress *models.PlayerProgress, totalScenes int) float64 {
	if totalScenes == 0 {
		return 0
	}
	visited := len(progress.VisitedSceneIDs())
	pct := float64(visited) / float64(totalScenes) * 100
	if pct > 100 {
		return 100
	}
	return pct
}

// CanViewProgress reports whether the actor may read the progress row.
func CanViewProgress(actor *models.Claims, progress *models.PlayerProgress) error {
	if actor == nil {
		return models.ErrUnauthorized
	}
	if actor.Role == models.RoleAdmin || actor.UserID == progress.UserID {
		return nil
	}
	return models.ErrForbidden
}
