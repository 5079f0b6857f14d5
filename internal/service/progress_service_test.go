package service_test

import (
	"context"
	"testing"
	"time"

	"story-server/internal/interfaces/mocks"
	"story-server/internal/models"
	"story-server/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func timeNowRef() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

func newProgressService(progressRepo *mocks.PlayerProgressRepository, scenarioRepo *mocks.ScenarioRepository, sceneRepo *mocks.SceneRepository) service.ProgressService {
	return service.NewProgressService(progressRepo, scenarioRepo, sceneRepo, zap.NewNop())
}

func TestStartScenario(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	scenarioID := uuid.New()
	startSceneID := uuid.New()
	otherSceneID := uuid.New()

	t.Run("returns existing progress without creating", func(t *testing.T) {
		progressRepo := new(mocks.PlayerProgressRepository)
		scenarioRepo := new(mocks.ScenarioRepository)
		sceneRepo := new(mocks.SceneRepository)
		svc := newProgressService(progressRepo, scenarioRepo, sceneRepo)

		existing := &models.PlayerProgress{ID: uuid.New(), UserID: userID, ScenarioID: scenarioID}
		progressRepo.On("GetProgressByUserAndScenario", ctx, userID, scenarioID).Return(existing, nil).Once()

		progress, created, err := svc.StartScenario(ctx, userID, scenarioID, nil)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, existing.ID, progress.ID)
		progressRepo.AssertNotCalled(t, "CreateProgress", mock.Anything, mock.Anything)
	})

	t.Run("creates progress at flagged start scene", func(t *testing.T) {
		progressRepo := new(mocks.PlayerProgressRepository)
		scenarioRepo := new(mocks.ScenarioRepository)
		sceneRepo := new(mocks.SceneRepository)
		svc := newProgressService(progressRepo, scenarioRepo, sceneRepo)

		progressRepo.On("GetProgressByUserAndScenario", ctx, userID, scenarioID).Return(nil, models.ErrProgressNotFound).Once()
		scenarioRepo.On("GetScenarioByID", ctx, scenarioID).Return(&models.Scenario{
			ID:       scenarioID,
			SceneIDs: []uuid.UUID{otherSceneID, startSceneID},
		}, nil).Once()
		sceneRepo.On("ListScenesByScenario", ctx, scenarioID).Return([]models.Scene{
			{ID: otherSceneID, ScenarioID: scenarioID},
			{ID: startSceneID, ScenarioID: scenarioID, IsStartScene: true},
		}, nil).Once()
		progressRepo.On("CreateProgress", ctx, mock.MatchedBy(func(p *models.PlayerProgress) bool {
			assert.Equal(t, startSceneID, p.CurrentSceneID, "flagged start scene wins over list order")
			assert.Empty(t, p.History)
			assert.False(t, p.IsCompleted)
			return true
		})).Return(nil).Once()

		progress, created, err := svc.StartScenario(ctx, userID, scenarioID, nil)
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, startSceneID, progress.CurrentSceneID)
		progressRepo.AssertExpectations(t)
	})

	t.Run("falls back to first scene of the list", func(t *testing.T) {
		progressRepo := new(mocks.PlayerProgressRepository)
		scenarioRepo := new(mocks.ScenarioRepository)
		sceneRepo := new(mocks.SceneRepository)
		svc := newProgressService(progressRepo, scenarioRepo, sceneRepo)

		progressRepo.On("GetProgressByUserAndScenario", ctx, userID, scenarioID).Return(nil, models.ErrProgressNotFound).Once()
		scenarioRepo.On("GetScenarioByID", ctx, scenarioID).Return(&models.Scenario{
			ID:       scenarioID,
			SceneIDs: []uuid.UUID{otherSceneID, startSceneID},
		}, nil).Once()
		sceneRepo.On("ListScenesByScenario", ctx, scenarioID).Return([]models.Scene{
			{ID: otherSceneID, ScenarioID: scenarioID},
			{ID: startSceneID, ScenarioID: scenarioID},
		}, nil).Once()
		progressRepo.On("CreateProgress", ctx, mock.AnythingOfType("*models.PlayerProgress")).Return(nil).Once()

		progress, created, err := svc.StartScenario(ctx, userID, scenarioID, nil)
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, otherSceneID, progress.CurrentSceneID)
	})

	t.Run("explicit start scene overrides derivation", func(t *testing.T) {
		progressRepo := new(mocks.PlayerProgressRepository)
		scenarioRepo := new(mocks.ScenarioRepository)
		sceneRepo := new(mocks.SceneRepository)
		svc := newProgressService(progressRepo, scenarioRepo, sceneRepo)

		progressRepo.On("GetProgressByUserAndScenario", ctx, userID, scenarioID).Return(nil, models.ErrProgressNotFound).Once()
		sceneRepo.On("GetSceneByID", ctx, otherSceneID).Return(&models.Scene{
			ID: otherSceneID, ScenarioID: scenarioID,
		}, nil).Once()
		progressRepo.On("CreateProgress", ctx, mock.AnythingOfType("*models.PlayerProgress")).Return(nil).Once()

		progress, created, err := svc.StartScenario(ctx, userID, scenarioID, &otherSceneID)
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, otherSceneID, progress.CurrentSceneID)
		scenarioRepo.AssertNotCalled(t, "GetScenarioByID", mock.Anything, mock.Anything)
	})

	t.Run("explicit start scene from another scenario rejected", func(t *testing.T) {
		progressRepo := new(mocks.PlayerProgressRepository)
		scenarioRepo := new(mocks.ScenarioRepository)
		sceneRepo := new(mocks.SceneRepository)
		svc := newProgressService(progressRepo, scenarioRepo, sceneRepo)

		progressRepo.On("GetProgressByUserAndScenario", ctx, userID, scenarioID).Return(nil, models.ErrProgressNotFound).Once()
		sceneRepo.On("GetSceneByID", ctx, otherSceneID).Return(&models.Scene{
			ID: otherSceneID, ScenarioID: uuid.New(),
		}, nil).Once()

		_, _, err := svc.StartScenario(ctx, userID, scenarioID, &otherSceneID)
		assert.ErrorIs(t, err, models.ErrInvalidInput)
		progressRepo.AssertNotCalled(t, "CreateProgress", mock.Anything, mock.Anything)
	})

	t.Run("scenario without scenes", func(t *testing.T) {
		progressRepo := new(mocks.PlayerProgressRepository)
		scenarioRepo := new(mocks.ScenarioRepository)
		sceneRepo := new(mocks.SceneRepository)
		svc := newProgressService(progressRepo, scenarioRepo, sceneRepo)

		progressRepo.On("GetProgressByUserAndScenario", ctx, userID, scenarioID).Return(nil, models.ErrProgressNotFound).Once()
		scenarioRepo.On("GetScenarioByID", ctx, scenarioID).Return(&models.Scenario{ID: scenarioID}, nil).Once()

		_, _, err := svc.StartScenario(ctx, userID, scenarioID, nil)
		assert.ErrorIs(t, err, models.ErrInvalidInput)
	})
}

func TestMoveToScene(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	scenarioID := uuid.New()
	sceneA := uuid.New()
	sceneB := uuid.New()

	t.Run("records the scene being left in history", func(t *testing.T) {
		progressRepo := new(mocks.PlayerProgressRepository)
		scenarioRepo := new(mocks.ScenarioRepository)
		sceneRepo := new(mocks.SceneRepository)
		svc := newProgressService(progressRepo, scenarioRepo, sceneRepo)

		choiceID := uuid.New()
		progressRepo.On("GetProgressByUserAndScenario", ctx, userID, scenarioID).Return(&models.PlayerProgress{
			ID: uuid.New(), UserID: userID, ScenarioID: scenarioID,
			CurrentSceneID: sceneA,
			History:        []models.HistoryEntry{},
		}, nil).Once()
		sceneRepo.On("GetSceneByID", ctx, sceneB).Return(&models.Scene{ID: sceneB, ScenarioID: scenarioID}, nil).Once()
		progressRepo.On("UpdateProgress", ctx, mock.AnythingOfType("*models.PlayerProgress")).Return(nil).Once()

		progress, err := svc.MoveToScene(ctx, userID, scenarioID, sceneB, &choiceID, map[string]interface{}{"hp": 10})
		require.NoError(t, err)
		assert.Equal(t, sceneB, progress.CurrentSceneID)
		require.Len(t, progress.History, 1)
		assert.Equal(t, sceneA, progress.History[0].SceneID, "history records the previous scene")
		assert.Equal(t, &choiceID, progress.History[0].ChoiceID)
		assert.False(t, progress.IsCompleted)
	})

	t.Run("end scene latches completion", func(t *testing.T) {
		progressRepo := new(mocks.PlayerProgressRepository)
		scenarioRepo := new(mocks.ScenarioRepository)
		sceneRepo := new(mocks.SceneRepository)
		svc := newProgressService(progressRepo, scenarioRepo, sceneRepo)

		progressRepo.On("GetProgressByUserAndScenario", ctx, userID, scenarioID).Return(&models.PlayerProgress{
			UserID: userID, ScenarioID: scenarioID, CurrentSceneID: sceneA,
		}, nil).Once()
		sceneRepo.On("GetSceneByID", ctx, sceneB).Return(&models.Scene{ID: sceneB, ScenarioID: scenarioID, IsEndScene: true}, nil).Once()
		progressRepo.On("UpdateProgress", ctx, mock.AnythingOfType("*models.PlayerProgress")).Return(nil).Once()

		progress, err := svc.MoveToScene(ctx, userID, scenarioID, sceneB, nil, nil)
		require.NoError(t, err)
		assert.True(t, progress.IsCompleted)
		require.NotNil(t, progress.CompletedAt)
	})

	t.Run("movement after completion keeps the latch", func(t *testing.T) {
		progressRepo := new(mocks.PlayerProgressRepository)
		scenarioRepo := new(mocks.ScenarioRepository)
		sceneRepo := new(mocks.SceneRepository)
		svc := newProgressService(progressRepo, scenarioRepo, sceneRepo)

		completedAt := timeNowRef()
		progressRepo.On("GetProgressByUserAndScenario", ctx, userID, scenarioID).Return(&models.PlayerProgress{
			UserID: userID, ScenarioID: scenarioID, CurrentSceneID: sceneB,
			IsCompleted: true, CompletedAt: &completedAt,
		}, nil).Once()
		sceneRepo.On("GetSceneByID", ctx, sceneA).Return(&models.Scene{ID: sceneA, ScenarioID: scenarioID}, nil).Once()
		progressRepo.On("UpdateProgress", ctx, mock.AnythingOfType("*models.PlayerProgress")).Return(nil).Once()

		progress, err := svc.MoveToScene(ctx, userID, scenarioID, sceneA, nil, nil)
		require.NoError(t, err)
		assert.True(t, progress.IsCompleted, "completion is never unlatched by movement")
		assert.Equal(t, &completedAt, progress.CompletedAt, "completed_at is not rewritten")
	})

	t.Run("scene from another scenario", func(t *testing.T) {
		progressRepo := new(mocks.PlayerProgressRepository)
		scenarioRepo := new(mocks.ScenarioRepository)
		sceneRepo := new(mocks.SceneRepository)
		svc := newProgressService(progressRepo, scenarioRepo, sceneRepo)

		progressRepo.On("GetProgressByUserAndScenario", ctx, userID, scenarioID).Return(&models.PlayerProgress{
			UserID: userID, ScenarioID: scenarioID, CurrentSceneID: sceneA,
		}, nil).Once()
		sceneRepo.On("GetSceneByID", ctx, sceneB).Return(&models.Scene{ID: sceneB, ScenarioID: uuid.New()}, nil).Once()

		_, err := svc.MoveToScene(ctx, userID, scenarioID, sceneB, nil, nil)
		assert.ErrorIs(t, err, models.ErrInvalidInput)
		progressRepo.AssertNotCalled(t, "UpdateProgress", mock.Anything, mock.Anything)
	})
}

func TestCompleteScenarioIdempotent(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	scenarioID := uuid.New()

	progressRepo := new(mocks.PlayerProgressRepository)
	scenarioRepo := new(mocks.ScenarioRepository)
	sceneRepo := new(mocks.SceneRepository)
	svc := newProgressService(progressRepo, scenarioRepo, sceneRepo)

	completedAt := timeNowRef()
	progressRepo.On("GetProgressByUserAndScenario", ctx, userID, scenarioID).Return(&models.PlayerProgress{
		UserID: userID, ScenarioID: scenarioID,
		IsCompleted: true, CompletedAt: &completedAt,
	}, nil).Once()

	progress, err := svc.CompleteScenario(ctx, userID, scenarioID)
	require.NoError(t, err)
	assert.Equal(t, &completedAt, progress.CompletedAt, "second completion must not move completed_at")
	progressRepo.AssertNotCalled(t, "UpdateProgress", mock.Anything, mock.Anything)
}

func TestUpdateProgressLatch(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	scenarioID := uuid.New()

	t.Run("is_completed=false does not unlatch", func(t *testing.T) {
		progressRepo := new(mocks.PlayerProgressRepository)
		scenarioRepo := new(mocks.ScenarioRepository)
		sceneRepo := new(mocks.SceneRepository)
		svc := newProgressService(progressRepo, scenarioRepo, sceneRepo)

		completedAt := timeNowRef()
		progressRepo.On("GetProgressByID", ctx, id).Return(&models.PlayerProgress{
			ID: id, ScenarioID: scenarioID,
			IsCompleted: true, CompletedAt: &completedAt,
		}, nil).Once()
		progressRepo.On("UpdateProgress", ctx, mock.AnythingOfType("*models.PlayerProgress")).Return(nil).Once()

		notCompleted := false
		progress, err := svc.UpdateProgress(ctx, id, service.ProgressUpdate{IsCompleted: &notCompleted})
		require.NoError(t, err)
		assert.True(t, progress.IsCompleted)
	})

	t.Run("total_time_spent is patched", func(t *testing.T) {
		progressRepo := new(mocks.PlayerProgressRepository)
		scenarioRepo := new(mocks.ScenarioRepository)
		sceneRepo := new(mocks.SceneRepository)
		svc := newProgressService(progressRepo, scenarioRepo, sceneRepo)

		progressRepo.On("GetProgressByID", ctx, id).Return(&models.PlayerProgress{ID: id, ScenarioID: scenarioID}, nil).Once()
		progressRepo.On("UpdateProgress", ctx, mock.AnythingOfType("*models.PlayerProgress")).Return(nil).Once()

		seconds := 360
		progress, err := svc.UpdateProgress(ctx, id, service.ProgressUpdate{TotalTimeSpent: &seconds})
		require.NoError(t, err)
		assert.Equal(t, 360, progress.TotalTimeSpent)
	})
}

func TestCalculateProgressPercentage(t *testing.T) {
	sceneA := uuid.New()
	sceneB := uuid.New()

	history := func(ids ...uuid.UUID) []models.HistoryEntry {
		entries := make([]models.HistoryEntry, 0, len(ids))
		for _, id := range ids {
			entries = append(entries, models.HistoryEntry{SceneID: id})
		}
		return entries
	}

	tests := []struct {
		name        string
		progress    *models.PlayerProgress
		totalScenes int
		want        float64
	}{
		{"no scenes in scenario", &models.PlayerProgress{}, 0, 0},
		{"empty history", &models.PlayerProgress{History: history()}, 4, 0},
		{"half visited", &models.PlayerProgress{History: history(sceneA, sceneB)}, 4, 50},
		{"revisits count once", &models.PlayerProgress{History: history(sceneA, sceneB, sceneA, sceneA)}, 4, 50},
		{"stale history entries cap at 100", &models.PlayerProgress{History: history(sceneA, sceneB, uuid.New())}, 2, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, service.CalculateProgressPercentage(tt.progress, tt.totalScenes), 0.0001)
		})
	}
}

func TestCanViewProgress(t *testing.T) {
	owner := uuid.New()
	progress := &models.PlayerProgress{UserID: owner}

	assert.ErrorIs(t, service.CanViewProgress(nil, progress), models.ErrUnauthorized)
	assert.NoError(t, service.CanViewProgress(&models.Claims{UserID: owner, Role: models.RolePlayer}, progress))
	assert.NoError(t, service.CanViewProgress(&models.Claims{UserID: uuid.New(), Role: models.RoleAdmin}, progress))
	assert.ErrorIs(t, service.CanViewProgress(&models.Claims{UserID: uuid.New(), Role: models.RolePlayer}, progress), models.ErrForbidden)
}
