package mocks

import (
	"context"

	"story-server/internal/interfaces"
	"story-server/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Mock UserRepository
type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *UserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}
func (m *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}
func (m *UserRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]models.User)
	return users, args.Error(1)
}
func (m *UserRepository) UpdateUserFields(ctx context.Context, userID uuid.UUID, email, firstName, lastName *string) error {
	args := m.Called(ctx, userID, email, firstName, lastName)
	return args.Error(0)
}
func (m *UserRepository) UpdatePasswordHash(ctx context.Context, userID uuid.UUID, newPasswordHash string) error {
	args := m.Called(ctx, userID, newPasswordHash)
	return args.Error(0)
}
func (m *UserRepository) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// Mock TokenRepository
type TokenRepository struct {
	mock.Mock
}

func (m *TokenRepository) SetToken(ctx context.Context, userID uuid.UUID, td *models.TokenDetails) error {
	args := m.Called(ctx, userID, td)
	return args.Error(0)
}
func (m *TokenRepository) DeleteTokens(ctx context.Context, userID uuid.UUID, accessUUID, refreshUUID string) (int64, error) {
	args := m.Called(ctx, userID, accessUUID, refreshUUID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *TokenRepository) GetUserIDByAccessUUID(ctx context.Context, accessUUID string) (uuid.UUID, error) {
	args := m.Called(ctx, accessUUID)
	return args.Get(0).(uuid.UUID), args.Error(1)
}
func (m *TokenRepository) GetUserIDByRefreshUUID(ctx context.Context, refreshUUID string) (uuid.UUID, error) {
	args := m.Called(ctx, refreshUUID)
	return args.Get(0).(uuid.UUID), args.Error(1)
}
func (m *TokenRepository) DeleteTokensByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// Mock ScenarioRepository
type ScenarioRepository struct {
	mock.Mock
}

func (m *ScenarioRepository) CreateScenario(ctx context.Context, scenario *models.Scenario) error {
	args := m.Called(ctx, scenario)
	return args.Error(0)
}
func (m *ScenarioRepository) GetScenarioByID(ctx context.Context, id uuid.UUID) (*models.Scenario, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*models.Scenario)
	return s, args.Error(1)
}
func (m *ScenarioRepository) ListScenarios(ctx context.Context, publishedOnly bool, authorID *uuid.UUID) ([]models.Scenario, error) {
	args := m.Called(ctx, publishedOnly, authorID)
	list, _ := args.Get(0).([]models.Scenario)
	return list, args.Error(1)
}
func (m *ScenarioRepository) UpdateScenarioFields(ctx context.Context, id uuid.UUID, title, description *string, isPublished *bool) error {
	args := m.Called(ctx, id, title, description, isPublished)
	return args.Error(0)
}
func (m *ScenarioRepository) AppendScene(ctx context.Context, scenarioID, sceneID uuid.UUID) error {
	args := m.Called(ctx, scenarioID, sceneID)
	return args.Error(0)
}
func (m *ScenarioRepository) RemoveScene(ctx context.Context, scenarioID, sceneID uuid.UUID) error {
	args := m.Called(ctx, scenarioID, sceneID)
	return args.Error(0)
}
func (m *ScenarioRepository) DeleteScenario(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Mock SceneRepository
type SceneRepository struct {
	mock.Mock
}

func (m *SceneRepository) CreateScene(ctx context.Context, scene *models.Scene) error {
	args := m.Called(ctx, scene)
	return args.Error(0)
}
func (m *SceneRepository) GetSceneByID(ctx context.Context, id uuid.UUID) (*models.Scene, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*models.Scene)
	return s, args.Error(1)
}
func (m *SceneRepository) ListScenesByScenario(ctx context.Context, scenarioID uuid.UUID) ([]models.Scene, error) {
	args := m.Called(ctx, scenarioID)
	list, _ := args.Get(0).([]models.Scene)
	return list, args.Error(1)
}
func (m *SceneRepository) UpdateScene(ctx context.Context, id uuid.UUID, update interfaces.SceneUpdate) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}
func (m *SceneRepository) SetAssetField(ctx context.Context, sceneID uuid.UUID, field string, assetID *uuid.UUID) error {
	args := m.Called(ctx, sceneID, field, assetID)
	return args.Error(0)
}
func (m *SceneRepository) AppendChoice(ctx context.Context, sceneID, choiceID uuid.UUID) error {
	args := m.Called(ctx, sceneID, choiceID)
	return args.Error(0)
}
func (m *SceneRepository) RemoveChoice(ctx context.Context, sceneID, choiceID uuid.UUID) error {
	args := m.Called(ctx, sceneID, choiceID)
	return args.Error(0)
}
func (m *SceneRepository) DeleteScene(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Mock ChoiceRepository
type ChoiceRepository struct {
	mock.Mock
}

func (m *ChoiceRepository) CreateChoice(ctx context.Context, choice *models.Choice) error {
	args := m.Called(ctx, choice)
	return args.Error(0)
}
func (m *ChoiceRepository) GetChoiceByID(ctx context.Context, id uuid.UUID) (*models.Choice, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*models.Choice)
	return c, args.Error(1)
}
func (m *ChoiceRepository) ListChoicesByScene(ctx context.Context, fromSceneID uuid.UUID) ([]models.Choice, error) {
	args := m.Called(ctx, fromSceneID)
	list, _ := args.Get(0).([]models.Choice)
	return list, args.Error(1)
}
func (m *ChoiceRepository) ListChoicesTouchingScene(ctx context.Context, sceneID uuid.UUID) ([]models.Choice, error) {
	args := m.Called(ctx, sceneID)
	list, _ := args.Get(0).([]models.Choice)
	return list, args.Error(1)
}
func (m *ChoiceRepository) UpdateChoiceFields(ctx context.Context, id uuid.UUID, text *string, toSceneID *uuid.UUID, condition map[string]interface{}, position *int) error {
	args := m.Called(ctx, id, text, toSceneID, condition, position)
	return args.Error(0)
}
func (m *ChoiceRepository) DeleteChoice(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *ChoiceRepository) DeleteChoicesTouchingScene(ctx context.Context, sceneID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, sceneID)
	ids, _ := args.Get(0).([]uuid.UUID)
	return ids, args.Error(1)
}

// Mock AssetRepository
type AssetRepository struct {
	mock.Mock
}

func (m *AssetRepository) CreateAsset(ctx context.Context, asset *models.Asset) error {
	args := m.Called(ctx, asset)
	return args.Error(0)
}
func (m *AssetRepository) GetAssetByID(ctx context.Context, id uuid.UUID) (*models.Asset, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*models.Asset)
	return a, args.Error(1)
}
func (m *AssetRepository) ListAssets(ctx context.Context, assetType string, uploadedBy *uuid.UUID) ([]models.Asset, error) {
	args := m.Called(ctx, assetType, uploadedBy)
	list, _ := args.Get(0).([]models.Asset)
	return list, args.Error(1)
}
func (m *AssetRepository) UpdateAssetFields(ctx context.Context, id uuid.UUID, name *string, isPublic *bool, metadata map[string]interface{}) error {
	args := m.Called(ctx, id, name, isPublic, metadata)
	return args.Error(0)
}
func (m *AssetRepository) DeleteAsset(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Mock PlayerProgressRepository
type PlayerProgressRepository struct {
	mock.Mock
}

func (m *PlayerProgressRepository) CreateProgress(ctx context.Context, progress *models.PlayerProgress) error {
	args := m.Called(ctx, progress)
	return args.Error(0)
}
func (m *PlayerProgressRepository) GetProgressByID(ctx context.Context, id uuid.UUID) (*models.PlayerProgress, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*models.PlayerProgress)
	return p, args.Error(1)
}
func (m *PlayerProgressRepository) GetProgressByUserAndScenario(ctx context.Context, userID, scenarioID uuid.UUID) (*models.PlayerProgress, error) {
	args := m.Called(ctx, userID, scenarioID)
	p, _ := args.Get(0).(*models.PlayerProgress)
	return p, args.Error(1)
}
func (m *PlayerProgressRepository) ListProgressByUser(ctx context.Context, userID uuid.UUID) ([]models.PlayerProgress, error) {
	args := m.Called(ctx, userID)
	list, _ := args.Get(0).([]models.PlayerProgress)
	return list, args.Error(1)
}
func (m *PlayerProgressRepository) ListProgressByScenario(ctx context.Context, scenarioID uuid.UUID) ([]models.PlayerProgress, error) {
	args := m.Called(ctx, scenarioID)
	list, _ := args.Get(0).([]models.PlayerProgress)
	return list, args.Error(1)
}
func (m *PlayerProgressRepository) UpdateProgress(ctx context.Context, progress *models.PlayerProgress) error {
	args := m.Called(ctx, progress)
	return args.Error(0)
}
func (m *PlayerProgressRepository) DeleteProgress(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
