package service

import (
	"context"
	"fmt"

	"story-server/internal/interfaces"
	"story-server/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Generation outcome statuses for scene side generation.
const (
	GenerationStatusGenerated = "generated"
	GenerationStatusSkipped   = "skipped"
)

// GenerationOutcome reports what happened to one auto-generation request
// of a new scene. Failures never fail scene creation; they surface here.
type GenerationOutcome struct {
	Field   string     `json:"field"` // image_id, sound_id или music_id
	Status  string     `json:"status"`
	AssetID *uuid.UUID `json:"assetId,omitempty"`
	Reason  string     `json:"reason,omitempty"`
}

// CreateSceneInput describes a new scene plus optional auto-generation requests.
type CreateSceneInput struct {
	ScenarioID   uuid.UUID
	Title        string
	Text         string
	Position     int
	ImageID      *uuid.UUID
	SoundID      *uuid.UUID
	MusicID      *uuid.UUID
	IsStartScene bool
	IsEndScene   bool

	AutoGenerateImage bool
	AutoGenerateSound bool
	AutoGenerateMusic bool
}

// CreateChoiceInput describes a new transition between two scenes.
type CreateChoiceInput struct {
	FromSceneID uuid.UUID
	ToSceneID   uuid.UUID
	Text        string
	Condition   map[string]interface{}
	Position    int
}

// StoryService handles scenarios, scenes and choices, including the
// ordered cascades between them.
type StoryService interface {
	CreateScenario(ctx context.Context, authorID uuid.UUID, title, description string) (*models.Scenario, error)
	GetScenario(ctx context.Context, id uuid.UUID) (*models.Scenario, error)
	ListScenarios(ctx context.Context, publishedOnly bool, authorID *uuid.UUID) ([]models.Scenario, error)
	UpdateScenario(ctx context.Context, id uuid.UUID, title, description *string, isPublished *bool) (*models.Scenario, error)
	DeleteScenario(ctx context.Context, id uuid.UUID) error

	CreateScene(ctx context.Context, authorID uuid.UUID, input CreateSceneInput) (*models.Scene, []GenerationOutcome, error)
	GetScene(ctx context.Context, id uuid.UUID) (*models.Scene, error)
	ListScenes(ctx context.Context, scenarioID uuid.UUID) ([]models.Scene, error)
	UpdateScene(ctx context.Context, id uuid.UUID, update interfaces.SceneUpdate) (*models.Scene, error)
	DeleteScene(ctx context.Context, id uuid.UUID) error

	CreateChoice(ctx context.Context, input CreateChoiceInput) (*models.Choice, error)
	GetChoice(ctx context.Context, id uuid.UUID) (*models.Choice, error)
	ListChoices(ctx context.Context, fromSceneID uuid.UUID) ([]models.Choice, error)
	UpdateChoice(ctx context.Context, id uuid.UUID, text *string, toSceneID *uuid.UUID, condition map[string]interface{}, position *int) (*models.Choice, error)
	DeleteChoice(ctx context.Context, id uuid.UUID) error
}

type storyServiceImpl struct {
	scenarioRepo interfaces.ScenarioRepository
	sceneRepo    interfaces.SceneRepository
	choiceRepo   interfaces.ChoiceRepository
	assets       AssetService
	logger       *zap.Logger
}

// NewStoryService creates the story service.
func NewStoryService(
	scenarioRepo interfaces.ScenarioRepository,
	sceneRepo interfaces.SceneRepository,
	choiceRepo interfaces.ChoiceRepository,
	assets AssetService,
	logger *zap.Logger,
) StoryService {
	return &storyServiceImpl{
		scenarioRepo: scenarioRepo,
		sceneRepo:    sceneRepo,
		choiceRepo:   choiceRepo,
		assets:       assets,
		logger:       logger.Named("StoryService"),
	}
}

// --- Scenarios ---

func (s *storyServiceImpl) CreateScenario(ctx context.Context, authorID uuid.UUID, title, description string) (*models.Scenario, error) {
	if title == "" {
		return nil, fmt.Errorf("empty title: %w", models.ErrInvalidInput)
	}
	scenario := &models.Scenario{
		Title:       title,
		Description: description,
		AuthorID:    authorID,
		SceneIDs:    []uuid.UUID{},
	}
	if err := s.scenarioRepo.CreateScenario(ctx, scenario); err != nil {
		return nil, err
	}
	return scenario, nil
}

func (s *storyServiceImpl) GetScenario(ctx context.Context, id uuid.UUID) (*models.Scenario, error) {
	return s.scenarioRepo.GetScenarioByID(ctx, id)
}

func (s *storyServiceImpl) ListScenarios(ctx context.Context, publishedOnly bool, authorID *uuid.UUID) ([]models.Scenario, error) {
	return s.scenarioRepo.ListScenarios(ctx, publishedOnly, authorID)
}

func (s *storyServiceImpl) UpdateScenario(ctx context.Context, id uuid.UUID, title, description *string, isPublished *bool) (*models.Scenario, error) {
	if err := s.scenarioRepo.UpdateScenarioFields(ctx, id, title, description, isPublished); err != nil {
		return nil, err
	}
	return s.scenarioRepo.GetScenarioByID(ctx, id)
}

// DeleteScenario removes a scenario together with its scenes and their choices.
// Порядок: сначала выборы каждой сцены, потом сцены, потом сам сценарий.
func (s *storyServiceImpl) DeleteScenario(ctx context.Context, id uuid.UUID) error {
	scenes, err := s.sceneRepo.ListScenesByScenario(ctx, id)
	if err != nil {
		return err
	}
	for i := range scenes {
		if _, err := s.choiceRepo.DeleteChoicesTouchingScene(ctx, scenes[i].ID); err != nil {
			return err
		}
		if err := s.sceneRepo.DeleteScene(ctx, scenes[i].ID); err != nil {
			return err
		}
	}
	if err := s.scenarioRepo.DeleteScenario(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Scenario deleted with cascade",
		zap.Stringer("scenarioID", id), zap.Int("scenes", len(scenes)))
	return nil
}

// --- Scenes ---

// CreateScene creates a scene, attaches it to its scenario and runs any
// requested auto-generation. Generation failures are reported as skipped
// outcomes, never as errors.
func (s *storyServiceImpl) CreateScene(ctx context.Context, authorID uuid.UUID, input CreateSceneInput) (*models.Scene, []GenerationOutcome, error) {
	if input.Text == "" {
		return nil, nil, fmt.Errorf("empty scene text: %w", models.ErrInvalidInput)
	}
	// Сценарий должен существовать до вставки сцены
	if _, err := s.scenarioRepo.GetScenarioByID(ctx, input.ScenarioID); err != nil {
		return nil, nil, err
	}

	scene := &models.Scene{
		ScenarioID:   input.ScenarioID,
		Title:        input.Title,
		Text:         input.Text,
		Position:     input.Position,
		ImageID:      input.ImageID,
		SoundID:      input.SoundID,
		MusicID:      input.MusicID,
		ChoiceIDs:    []uuid.UUID{},
		IsStartScene: input.IsStartScene,
		IsEndScene:   input.IsEndScene,
	}
	if err := s.sceneRepo.CreateScene(ctx, scene); err != nil {
		return nil, nil, err
	}
	if err := s.scenarioRepo.AppendScene(ctx, input.ScenarioID, scene.ID); err != nil {
		return nil, nil, err
	}

	outcomes := s.runSceneGeneration(ctx, authorID, scene, input)
	return scene, outcomes, nil
}

// runSceneGeneration пытается сгенерировать запрошенные медиа для новой сцены.
// Каждый сбой превращается в skipped-результат.
func (s *storyServiceImpl) runSceneGeneration(ctx context.Context, authorID uuid.UUID, scene *models.Scene, input CreateSceneInput) []GenerationOutcome {
	type request struct {
		enabled  bool
		occupied bool
		field    string
		gen      GenerateAssetInput
	}
	requests := []request{
		{
			enabled:  input.AutoGenerateImage,
			occupied: input.ImageID != nil,
			field:    models.AssetFieldImage,
			gen: GenerateAssetInput{
				AssetType:   models.AssetTypeImage,
				Name:        scene.Title + " image",
				Description: scene.Text,
			},
		},
		{
			enabled:  input.AutoGenerateSound,
			occupied: input.SoundID != nil,
			field:    models.AssetFieldSound,
			gen: GenerateAssetInput{
				AssetType:   models.AssetTypeSound,
				Name:        scene.Title + " voiceover",
				Description: scene.Text,
				SoundType:   "tts",
			},
		},
		{
			enabled:  input.AutoGenerateMusic,
			occupied: input.MusicID != nil,
			field:    models.AssetFieldMusic,
			gen: GenerateAssetInput{
				AssetType:   models.AssetTypeSound,
				Name:        scene.Title + " music",
				Description: scene.Text,
				SoundType:   "music",
			},
		},
	}

	var outcomes []GenerationOutcome
	for _, req := range requests {
		if !req.enabled {
			continue
		}
		// Явно заданный ассет выигрывает у генерации
		if req.occupied {
			outcomes = append(outcomes, GenerationOutcome{
				Field:  req.field,
				Status: GenerationStatusSkipped,
				Reason: "asset already set",
			})
			continue
		}
		asset, err := s.assets.GenerateAsset(ctx, authorID, req.gen)
		if err != nil {
			s.logger.Warn("Scene side generation failed",
				zap.Stringer("sceneID", scene.ID), zap.String("field", req.field), zap.Error(err))
			outcomes = append(outcomes, GenerationOutcome{
				Field:  req.field,
				Status: GenerationStatusSkipped,
				Reason: err.Error(),
			})
			continue
		}
		if err := s.sceneRepo.SetAssetField(ctx, scene.ID, req.field, &asset.ID); err != nil {
			s.logger.Warn("Failed to attach generated asset to scene",
				zap.Stringer("sceneID", scene.ID), zap.String("field", req.field), zap.Error(err))
			outcomes = append(outcomes, GenerationOutcome{
				Field:  req.field,
				Status: GenerationStatusSkipped,
				Reason: err.Error(),
			})
			continue
		}
		assetID := asset.ID
		switch req.field {
		case models.AssetFieldImage:
			scene.ImageID = &assetID
		case models.AssetFieldSound:
			scene.SoundID = &assetID
		case models.AssetFieldMusic:
			scene.MusicID = &assetID
		}
		outcomes = append(outcomes, GenerationOutcome{
			Field:   req.field,
			Status:  GenerationStatusGenerated,
			AssetID: &assetID,
		})
	}
	return outcomes
}

func (s *storyServiceImpl) GetScene(ctx context.Context, id uuid.UUID) (*models.Scene, error) {
	return s.sceneRepo.GetSceneByID(ctx, id)
}

func (s *storyServiceImpl) ListScenes(ctx context.Context, scenarioID uuid.UUID) ([]models.Scene, error) {
	return s.sceneRepo.ListScenesByScenario(ctx, scenarioID)
}

func (s *storyServiceImpl) UpdateScene(ctx context.Context, id uuid.UUID, update interfaces.SceneUpdate) (*models.Scene, error) {
	if err := s.sceneRepo.UpdateScene(ctx, id, update); err != nil {
		return nil, err
	}
	return s.sceneRepo.GetSceneByID(ctx, id)
}

// DeleteScene removes a scene, every choice that points to or from it and
// its entry in the scenario's scene list.
func (s *storyServiceImpl) DeleteScene(ctx context.Context, id uuid.UUID) error {
	scene, err := s.sceneRepo.GetSceneByID(ctx, id)
	if err != nil {
		return err
	}

	// Выборы, входящие в сцену из других сцен, надо убрать из их choice_ids
	touching, err := s.choiceRepo.ListChoicesTouchingScene(ctx, id)
	if err != nil {
		return err
	}
	for i := range touching {
		if touching[i].FromSceneID == id {
			continue
		}
		if err := s.sceneRepo.RemoveChoice(ctx, touching[i].FromSceneID, touching[i].ID); err != nil && !isNotFound(err) {
			return err
		}
	}

	deleted, err := s.choiceRepo.DeleteChoicesTouchingScene(ctx, id)
	if err != nil {
		return err
	}
	if err := s.scenarioRepo.RemoveScene(ctx, scene.ScenarioID, id); err != nil && !isNotFound(err) {
		return err
	}
	if err := s.sceneRepo.DeleteScene(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Scene deleted with cascade",
		zap.Stringer("sceneID", id), zap.Int("choicesDeleted", len(deleted)))
	return nil
}

// --- Choices ---

func (s *storyServiceImpl) CreateChoice(ctx context.Context, input CreateChoiceInput) (*models.Choice, error) {
	if input.Text == "" {
		return nil, fmt.Errorf("empty choice text: %w", models.ErrInvalidInput)
	}
	// Обе сцены должны существовать
	if _, err := s.sceneRepo.GetSceneByID(ctx, input.FromSceneID); err != nil {
		return nil, err
	}
	if _, err := s.sceneRepo.GetSceneByID(ctx, input.ToSceneID); err != nil {
		return nil, err
	}

	choice := &models.Choice{
		FromSceneID: input.FromSceneID,
		ToSceneID:   input.ToSceneID,
		Text:        input.Text,
		Condition:   input.Condition,
		Position:    input.Position,
	}
	if choice.Condition == nil {
		choice.Condition = map[string]interface{}{}
	}
	if err := s.choiceRepo.CreateChoice(ctx, choice); err != nil {
		return nil, err
	}
	if err := s.sceneRepo.AppendChoice(ctx, input.FromSceneID, choice.ID); err != nil {
		return nil, err
	}
	return choice, nil
}

func (s *storyServiceImpl) GetChoice(ctx context.Context, id uuid.UUID) (*models.Choice, error) {
	return s.choiceRepo.GetChoiceByID(ctx, id)
}

func (s *storyServiceImpl) ListChoices(ctx context.Context, fromSceneID uuid.UUID) ([]models.Choice, error) {
	return s.choiceRepo.ListChoicesByScene(ctx, fromSceneID)
}

func (s *storyServiceImpl) UpdateChoice(ctx context.Context, id uuid.UUID, text *string, toSceneID *uuid.UUID, condition map[string]interface{}, position *int) (*models.Choice, error) {
	if toSceneID != nil {
		if _, err := s.sceneRepo.GetSceneByID(ctx, *toSceneID); err != nil {
			return nil, err
		}
	}
	if err := s.choiceRepo.UpdateChoiceFields(ctx, id, text, toSceneID, condition, position); err != nil {
		return nil, err
	}
	return s.choiceRepo.GetChoiceByID(ctx, id)
}

// DeleteChoice removes a choice and detaches it from its source scene.
func (s *storyServiceImpl) DeleteChoice(ctx context.Context, id uuid.UUID) error {
	choice, err := s.choiceRepo.GetChoiceByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.sceneRepo.RemoveChoice(ctx, choice.FromSceneID, id); err != nil && !isNotFound(err) {
		return err
	}
	return s.choiceRepo.DeleteChoice(ctx, id)
}

// CanModifyScenario reports whether the actor may change the scenario or its content.
func CanModifyScenario(actor *models.Claims, scenario *models.Scenario) error {
	if actor == nil {
		return models.ErrUnauthorized
	}
	if actor.Role == models.RoleAdmin || actor.UserID == scenario.AuthorID {
		return nil
	}
	return models.ErrForbidden
}
