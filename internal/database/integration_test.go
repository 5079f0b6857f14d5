package database_test // Используем _test пакет для изоляции

import (
	"context"
	"fmt"
	"testing"
	"time"

	"story-server/internal/database"
	"story-server/internal/interfaces"
	"story-server/internal/models"
	"story-server/migrations"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // Драйвер для PostgreSQL
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	// Докер клиент для проверки доступности
	"github.com/docker/docker/client"
)

// RepositoryTestSuite гоняет все репозитории против настоящих
// PostgreSQL и Redis в контейнерах.
type RepositoryTestSuite struct {
	suite.Suite
	ctx         context.Context
	pgContainer *postgres.PostgresContainer
	rdContainer *tcredis.RedisContainer
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	logger      *zap.Logger

	userRepo     interfaces.UserRepository
	tokenRepo    interfaces.TokenRepository
	scenarioRepo interfaces.ScenarioRepository
	sceneRepo    interfaces.SceneRepository
	choiceRepo   interfaces.ChoiceRepository
	assetRepo    interfaces.AssetRepository
	progressRepo interfaces.PlayerProgressRepository
}

func (s *RepositoryTestSuite) SetupSuite() {
	s.ctx = context.Background()
	var err error

	s.logger, err = zap.NewDevelopment()
	require.NoError(s.T(), err, "Failed to create logger for tests")

	// Запускаем контейнер PostgreSQL
	s.pgContainer, err = postgres.Run(s.ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute),
		),
	)
	require.NoError(s.T(), err, "Failed to start postgres container")

	pgConnStr, err := s.pgContainer.ConnectionString(s.ctx, "sslmode=disable")
	require.NoError(s.T(), err, "Failed to get postgres connection string")

	s.pgPool, err = pgxpool.New(s.ctx, pgConnStr)
	require.NoError(s.T(), err, "Failed to connect to test postgres")

	require.NoError(s.T(), s.runMigrations(pgConnStr), "Failed to run migrations")

	// Запускаем контейнер Redis
	s.rdContainer, err = tcredis.Run(s.ctx,
		"docker.io/redis:7-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("* Ready to accept connections").
				WithOccurrence(1).
				WithStartupTimeout(1*time.Minute),
		),
	)
	require.NoError(s.T(), err, "Failed to start redis container")

	redisHost, err := s.rdContainer.Host(s.ctx)
	require.NoError(s.T(), err)
	redisPort, err := s.rdContainer.MappedPort(s.ctx, "6379/tcp")
	require.NoError(s.T(), err)

	s.redisClient = redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", redisHost, redisPort.Port())})
	_, err = s.redisClient.Ping(s.ctx).Result()
	require.NoError(s.T(), err, "Failed to connect to test redis")

	s.userRepo = database.NewPgUserRepository(s.pgPool, s.logger)
	s.tokenRepo = database.NewRedisTokenRepository(s.redisClient, s.logger)
	s.scenarioRepo = database.NewPgScenarioRepository(s.pgPool, s.logger)
	s.sceneRepo = database.NewPgSceneRepository(s.pgPool, s.logger)
	s.choiceRepo = database.NewPgChoiceRepository(s.pgPool, s.logger)
	s.assetRepo = database.NewPgAssetRepository(s.pgPool, s.logger)
	s.progressRepo = database.NewPgPlayerProgressRepository(s.pgPool, s.logger)
}

func (s *RepositoryTestSuite) TearDownSuite() {
	if s.pgPool != nil {
		s.pgPool.Close()
	}
	if s.redisClient != nil {
		s.redisClient.Close()
	}
	if s.pgContainer != nil {
		if err := s.pgContainer.Terminate(s.ctx); err != nil {
			s.logger.Error("Failed to terminate postgres container", zap.Error(err))
		}
	}
	if s.rdContainer != nil {
		if err := s.rdContainer.Terminate(s.ctx); err != nil {
			s.logger.Error("Failed to terminate redis container", zap.Error(err))
		}
	}
}

// Перед каждым тестом очищаем Redis и таблицы БД
func (s *RepositoryTestSuite) SetupTest() {
	require.NoError(s.T(), s.redisClient.FlushDB(s.ctx).Err(), "Failed to flush Redis DB")
	_, err := s.pgPool.Exec(s.ctx,
		"TRUNCATE TABLE player_progress, choices, scenes, assets, scenarios, users RESTART IDENTITY CASCADE")
	require.NoError(s.T(), err, "Failed to truncate tables")
}

func (s *RepositoryTestSuite) runMigrations(dbURL string) error {
	sourceDriver, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("failed to create iofs source driver: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", sourceDriver, dbURL)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// TestRepositoryTestSuite запускает набор тестов
func TestRepositoryTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	// Проверяем доступность Docker перед запуском
	cli, err := client.NewClientWithOpts(client.FromEnv)
	if err != nil {
		t.Fatalf("Docker client init error: %v. Ensure Docker is running and accessible.", err)
	}
	if _, err := cli.Ping(context.Background()); err != nil {
		t.Fatalf("Docker daemon is not running or accessible: %v", err)
	}
	cli.Close()

	suite.Run(t, new(RepositoryTestSuite))
}

// --- Вспомогательные фабрики ---

func (s *RepositoryTestSuite) mustCreateUser(email string) *models.User {
	user := &models.User{
		Email:        email,
		PasswordHash: "not-a-real-hash",
		Role:         models.RolePlayer,
		FirstName:    "Test",
		LastName:     "User",
	}
	require.NoError(s.T(), s.userRepo.CreateUser(s.ctx, user))
	require.NotEqual(s.T(), uuid.Nil, user.ID)
	return user
}

func (s *RepositoryTestSuite) mustCreateScenario(authorID uuid.UUID) *models.Scenario {
	scenario := &models.Scenario{
		Title:       "The Cave",
		Description: "A damp beginning",
		AuthorID:    authorID,
	}
	require.NoError(s.T(), s.scenarioRepo.CreateScenario(s.ctx, scenario))
	return scenario
}

func (s *RepositoryTestSuite) mustCreateScene(scenarioID uuid.UUID, position int) *models.Scene {
	scene := &models.Scene{
		ScenarioID: scenarioID,
		Title:      fmt.Sprintf("Scene %d", position),
		Text:       "You stand at a fork in the tunnel.",
		Position:   position,
	}
	require.NoError(s.T(), s.sceneRepo.CreateScene(s.ctx, scene))
	return scene
}

// --- Тесты ---

func (s *RepositoryTestSuite) TestUserRepository_CRUD() {
	t := s.T()

	user := s.mustCreateUser("alice@example.com")

	got, err := s.userRepo.GetUserByID(s.ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", got.Email)
	require.Equal(t, models.RolePlayer, got.Role)

	got, err = s.userRepo.GetUserByEmail(s.ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)

	// Дубликат email должен дать доменную ошибку
	dup := &models.User{Email: "alice@example.com", PasswordHash: "x", Role: models.RolePlayer}
	err = s.userRepo.CreateUser(s.ctx, dup)
	require.ErrorIs(t, err, models.ErrEmailAlreadyExists)

	newName := "Alicia"
	require.NoError(t, s.userRepo.UpdateUserFields(s.ctx, user.ID, nil, &newName, nil))
	got, err = s.userRepo.GetUserByID(s.ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "Alicia", got.FirstName)
	require.Equal(t, "User", got.LastName, "untouched fields must survive a partial update")

	require.NoError(t, s.userRepo.UpdatePasswordHash(s.ctx, user.ID, "new-hash"))
	got, err = s.userRepo.GetUserByID(s.ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "new-hash", got.PasswordHash)

	require.NoError(t, s.userRepo.DeleteUser(s.ctx, user.ID))
	_, err = s.userRepo.GetUserByID(s.ctx, user.ID)
	require.ErrorIs(t, err, models.ErrUserNotFound)

	err = s.userRepo.DeleteUser(s.ctx, user.ID)
	require.ErrorIs(t, err, models.ErrUserNotFound)
}

func (s *RepositoryTestSuite) TestUserRepository_DeleteWithOwnedContent() {
	t := s.T()

	author := s.mustCreateUser("author@example.com")
	s.mustCreateScenario(author.ID)

	// Владелец сценария не удаляется, FK превращается в доменную ошибку
	err := s.userRepo.DeleteUser(s.ctx, author.ID)
	require.ErrorIs(t, err, models.ErrUserHasContent)

	got, err := s.userRepo.GetUserByID(s.ctx, author.ID)
	require.NoError(t, err)
	require.Equal(t, author.ID, got.ID)
}

func (s *RepositoryTestSuite) TestScenarioRepository_CRUDAndSceneList() {
	t := s.T()

	author := s.mustCreateUser("author@example.com")
	scenario := s.mustCreateScenario(author.ID)

	got, err := s.scenarioRepo.GetScenarioByID(s.ctx, scenario.ID)
	require.NoError(t, err)
	require.Equal(t, "The Cave", got.Title)
	require.False(t, got.IsPublished)
	require.Empty(t, got.SceneIDs)

	// scene_ids хранит порядок сцен
	first, second := uuid.New(), uuid.New()
	require.NoError(t, s.scenarioRepo.AppendScene(s.ctx, scenario.ID, first))
	require.NoError(t, s.scenarioRepo.AppendScene(s.ctx, scenario.ID, second))
	// Повторное добавление не дублирует
	require.NoError(t, s.scenarioRepo.AppendScene(s.ctx, scenario.ID, first))

	got, err = s.scenarioRepo.GetScenarioByID(s.ctx, scenario.ID)
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{first, second}, got.SceneIDs)

	require.NoError(t, s.scenarioRepo.RemoveScene(s.ctx, scenario.ID, first))
	got, err = s.scenarioRepo.GetScenarioByID(s.ctx, scenario.ID)
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{second}, got.SceneIDs)

	published := true
	newTitle := "The Cave, Revised"
	require.NoError(t, s.scenarioRepo.UpdateScenarioFields(s.ctx, scenario.ID, &newTitle, nil, &published))
	got, err = s.scenarioRepo.GetScenarioByID(s.ctx, scenario.ID)
	require.NoError(t, err)
	require.Equal(t, "The Cave, Revised", got.Title)
	require.True(t, got.IsPublished)
	require.Equal(t, "A damp beginning", got.Description)

	require.NoError(t, s.scenarioRepo.DeleteScenario(s.ctx, scenario.ID))
	_, err = s.scenarioRepo.GetScenarioByID(s.ctx, scenario.ID)
	require.ErrorIs(t, err, models.ErrScenarioNotFound)
}

func (s *RepositoryTestSuite) TestScenarioRepository_ListFilters() {
	t := s.T()

	alice := s.mustCreateUser("alice@example.com")
	bob := s.mustCreateUser("bob@example.com")

	draft := s.mustCreateScenario(alice.ID)
	pub := s.mustCreateScenario(bob.ID)
	published := true
	require.NoError(t, s.scenarioRepo.UpdateScenarioFields(s.ctx, pub.ID, nil, nil, &published))

	all, err := s.scenarioRepo.ListScenarios(s.ctx, false, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)

	onlyPublished, err := s.scenarioRepo.ListScenarios(s.ctx, true, nil)
	require.NoError(t, err)
	require.Len(t, onlyPublished, 1)
	require.Equal(t, pub.ID, onlyPublished[0].ID)

	byAuthor, err := s.scenarioRepo.ListScenarios(s.ctx, false, &alice.ID)
	require.NoError(t, err)
	require.Len(t, byAuthor, 1)
	require.Equal(t, draft.ID, byAuthor[0].ID)
}

func (s *RepositoryTestSuite) TestSceneRepository_CRUDAndAssetSlots() {
	t := s.T()

	author := s.mustCreateUser("author@example.com")
	scenario := s.mustCreateScenario(author.ID)
	scene := s.mustCreateScene(scenario.ID, 0)

	got, err := s.sceneRepo.GetSceneByID(s.ctx, scene.ID)
	require.NoError(t, err)
	require.Equal(t, scenario.ID, got.ScenarioID)
	require.Nil(t, got.ImageID)

	// Частичное обновление: текст меняется, заголовок остается
	newText := "The tunnel narrows."
	endScene := true
	require.NoError(t, s.sceneRepo.UpdateScene(s.ctx, scene.ID, interfaces.SceneUpdate{
		Text:       &newText,
		IsEndScene: &endScene,
	}))
	got, err = s.sceneRepo.GetSceneByID(s.ctx, scene.ID)
	require.NoError(t, err)
	require.Equal(t, "The tunnel narrows.", got.Text)
	require.Equal(t, "Scene 0", got.Title)
	require.True(t, got.IsEndScene)

	// Привязка и отвязка ассета через слот
	asset := &models.Asset{
		AssetType:  models.AssetTypeImage,
		Name:       "cave",
		Filename:   "cave.png",
		URL:        "/media/assets/cave.png",
		UploadedBy: author.ID,
		Metadata:   map[string]interface{}{},
	}
	require.NoError(t, s.assetRepo.CreateAsset(s.ctx, asset))

	require.NoError(t, s.sceneRepo.SetAssetField(s.ctx, scene.ID, models.AssetFieldImage, &asset.ID))
	got, err = s.sceneRepo.GetSceneByID(s.ctx, scene.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ImageID)
	require.Equal(t, asset.ID, *got.ImageID)

	// Явный null отвязывает
	require.NoError(t, s.sceneRepo.UpdateScene(s.ctx, scene.ID, interfaces.SceneUpdate{
		SetImageID: true,
		ImageID:    nil,
	}))
	got, err = s.sceneRepo.GetSceneByID(s.ctx, scene.ID)
	require.NoError(t, err)
	require.Nil(t, got.ImageID)

	// choice_ids ведет себя как упорядоченное множество
	choiceID := uuid.New()
	require.NoError(t, s.sceneRepo.AppendChoice(s.ctx, scene.ID, choiceID))
	require.NoError(t, s.sceneRepo.AppendChoice(s.ctx, scene.ID, choiceID))
	got, err = s.sceneRepo.GetSceneByID(s.ctx, scene.ID)
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{choiceID}, got.ChoiceIDs)

	require.NoError(t, s.sceneRepo.RemoveChoice(s.ctx, scene.ID, choiceID))
	got, err = s.sceneRepo.GetSceneByID(s.ctx, scene.ID)
	require.NoError(t, err)
	require.Empty(t, got.ChoiceIDs)

	require.NoError(t, s.sceneRepo.DeleteScene(s.ctx, scene.ID))
	_, err = s.sceneRepo.GetSceneByID(s.ctx, scene.ID)
	require.ErrorIs(t, err, models.ErrSceneNotFound)
}

func (s *RepositoryTestSuite) TestSceneRepository_ListOrdersByPosition() {
	t := s.T()

	author := s.mustCreateUser("author@example.com")
	scenario := s.mustCreateScenario(author.ID)
	third := s.mustCreateScene(scenario.ID, 2)
	first := s.mustCreateScene(scenario.ID, 0)
	second := s.mustCreateScene(scenario.ID, 1)

	scenes, err := s.sceneRepo.ListScenesByScenario(s.ctx, scenario.ID)
	require.NoError(t, err)
	require.Len(t, scenes, 3)
	require.Equal(t, first.ID, scenes[0].ID)
	require.Equal(t, second.ID, scenes[1].ID)
	require.Equal(t, third.ID, scenes[2].ID)
}

func (s *RepositoryTestSuite) TestChoiceRepository_CRUDAndConditions() {
	t := s.T()

	author := s.mustCreateUser("author@example.com")
	scenario := s.mustCreateScenario(author.ID)
	from := s.mustCreateScene(scenario.ID, 0)
	to := s.mustCreateScene(scenario.ID, 1)

	choice := &models.Choice{
		FromSceneID: from.ID,
		ToSceneID:   to.ID,
		Text:        "Go left",
		Condition:   map[string]interface{}{"has_torch": true},
		Position:    0,
	}
	require.NoError(t, s.choiceRepo.CreateChoice(s.ctx, choice))

	// jsonb condition выживает round trip
	got, err := s.choiceRepo.GetChoiceByID(s.ctx, choice.ID)
	require.NoError(t, err)
	require.Equal(t, map[string]interface{}{"has_torch": true}, got.Condition)

	newText := "Go right instead"
	require.NoError(t, s.choiceRepo.UpdateChoiceFields(s.ctx, choice.ID, &newText, nil, map[string]interface{}{}, nil))
	got, err = s.choiceRepo.GetChoiceByID(s.ctx, choice.ID)
	require.NoError(t, err)
	require.Equal(t, "Go right instead", got.Text)
	require.Empty(t, got.Condition)
	require.Equal(t, to.ID, got.ToSceneID)

	fromList, err := s.choiceRepo.ListChoicesByScene(s.ctx, from.ID)
	require.NoError(t, err)
	require.Len(t, fromList, 1)

	// Выбор виден с обеих сторон ребра
	touchingTo, err := s.choiceRepo.ListChoicesTouchingScene(s.ctx, to.ID)
	require.NoError(t, err)
	require.Len(t, touchingTo, 1)

	deleted, err := s.choiceRepo.DeleteChoicesTouchingScene(s.ctx, to.ID)
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{choice.ID}, deleted)

	_, err = s.choiceRepo.GetChoiceByID(s.ctx, choice.ID)
	require.ErrorIs(t, err, models.ErrChoiceNotFound)
}

func (s *RepositoryTestSuite) TestAssetRepository_CRUDAndFilters() {
	t := s.T()

	alice := s.mustCreateUser("alice@example.com")
	bob := s.mustCreateUser("bob@example.com")

	image := &models.Asset{
		AssetType:  models.AssetTypeImage,
		Name:       "cover",
		Filename:   "cover.png",
		URL:        "/media/assets/cover.png",
		FileSize:   1024,
		MimeType:   "image/png",
		Metadata:   map[string]interface{}{"width": float64(640), "height": float64(480)},
		UploadedBy: alice.ID,
		IsPublic:   true,
	}
	require.NoError(t, s.assetRepo.CreateAsset(s.ctx, image))

	sound := &models.Asset{
		AssetType:  models.AssetTypeSound,
		Name:       "drip",
		Filename:   "drip.mp3",
		URL:        "/media/assets/drip.mp3",
		Metadata:   map[string]interface{}{},
		UploadedBy: bob.ID,
	}
	require.NoError(t, s.assetRepo.CreateAsset(s.ctx, sound))

	got, err := s.assetRepo.GetAssetByID(s.ctx, image.ID)
	require.NoError(t, err)
	require.Equal(t, "image/png", got.MimeType)
	require.Equal(t, float64(640), got.Metadata["width"])

	byType, err := s.assetRepo.ListAssets(s.ctx, models.AssetTypeSound, nil)
	require.NoError(t, err)
	require.Len(t, byType, 1)
	require.Equal(t, sound.ID, byType[0].ID)

	byUploader, err := s.assetRepo.ListAssets(s.ctx, "", &alice.ID)
	require.NoError(t, err)
	require.Len(t, byUploader, 1)
	require.Equal(t, image.ID, byUploader[0].ID)

	newName := "cover art"
	isPublic := false
	require.NoError(t, s.assetRepo.UpdateAssetFields(s.ctx, image.ID, &newName, &isPublic, nil))
	got, err = s.assetRepo.GetAssetByID(s.ctx, image.ID)
	require.NoError(t, err)
	require.Equal(t, "cover art", got.Name)
	require.False(t, got.IsPublic)
	require.Equal(t, float64(640), got.Metadata["width"], "nil metadata must leave the stored value alone")

	require.NoError(t, s.assetRepo.DeleteAsset(s.ctx, image.ID))
	_, err = s.assetRepo.GetAssetByID(s.ctx, image.ID)
	require.ErrorIs(t, err, models.ErrAssetNotFound)
}

func (s *RepositoryTestSuite) TestPlayerProgressRepository_CRUD() {
	t := s.T()

	player := s.mustCreateUser("player@example.com")
	author := s.mustCreateUser("author@example.com")
	scenario := s.mustCreateScenario(author.ID)
	start := s.mustCreateScene(scenario.ID, 0)
	next := s.mustCreateScene(scenario.ID, 1)

	progress := &models.PlayerProgress{
		UserID:         player.ID,
		ScenarioID:     scenario.ID,
		CurrentSceneID: start.ID,
		History:        []models.HistoryEntry{},
	}
	require.NoError(t, s.progressRepo.CreateProgress(s.ctx, progress))

	got, err := s.progressRepo.GetProgressByUserAndScenario(s.ctx, player.ID, scenario.ID)
	require.NoError(t, err)
	require.Equal(t, progress.ID, got.ID)
	require.False(t, got.IsCompleted)
	require.Empty(t, got.History)

	_, err = s.progressRepo.GetProgressByUserAndScenario(s.ctx, author.ID, scenario.ID)
	require.ErrorIs(t, err, models.ErrProgressNotFound)

	// Движение вперед: история и защелка завершения
	now := time.Now().UTC().Truncate(time.Second)
	got.CurrentSceneID = next.ID
	got.History = append(got.History, models.HistoryEntry{SceneID: start.ID, Timestamp: now})
	got.IsCompleted = true
	got.CompletedAt = &now
	got.TotalTimeSpent = 42
	require.NoError(t, s.progressRepo.UpdateProgress(s.ctx, got))

	got, err = s.progressRepo.GetProgressByID(s.ctx, progress.ID)
	require.NoError(t, err)
	require.Equal(t, next.ID, got.CurrentSceneID)
	require.Len(t, got.History, 1)
	require.Equal(t, start.ID, got.History[0].SceneID)
	require.True(t, got.IsCompleted)
	require.NotNil(t, got.CompletedAt)
	require.Equal(t, 42, got.TotalTimeSpent)

	byUser, err := s.progressRepo.ListProgressByUser(s.ctx, player.ID)
	require.NoError(t, err)
	require.Len(t, byUser, 1)

	byScenario, err := s.progressRepo.ListProgressByScenario(s.ctx, scenario.ID)
	require.NoError(t, err)
	require.Len(t, byScenario, 1)

	require.NoError(t, s.progressRepo.DeleteProgress(s.ctx, progress.ID))
	_, err = s.progressRepo.GetProgressByID(s.ctx, progress.ID)
	require.ErrorIs(t, err, models.ErrProgressNotFound)
}

func (s *RepositoryTestSuite) TestTokenRepository_Lifecycle() {
	t := s.T()
	userID := uuid.New()

	td := &models.TokenDetails{
		AccessUUID:       uuid.NewString(),
		RefreshUUID:      uuid.NewString(),
		AccessExpiresAt:  time.Now().Add(5 * time.Minute),
		RefreshExpiresAt: time.Now().Add(10 * time.Minute),
	}
	require.NoError(t, s.tokenRepo.SetToken(s.ctx, userID, td))

	gotID, err := s.tokenRepo.GetUserIDByAccessUUID(s.ctx, td.AccessUUID)
	require.NoError(t, err)
	require.Equal(t, userID, gotID)

	gotID, err = s.tokenRepo.GetUserIDByRefreshUUID(s.ctx, td.RefreshUUID)
	require.NoError(t, err)
	require.Equal(t, userID, gotID)

	_, err = s.tokenRepo.GetUserIDByAccessUUID(s.ctx, uuid.NewString())
	require.ErrorIs(t, err, models.ErrTokenNotFound)

	deleted, err := s.tokenRepo.DeleteTokens(s.ctx, userID, td.AccessUUID, td.RefreshUUID)
	require.NoError(t, err)
	require.EqualValues(t, 2, deleted)

	_, err = s.tokenRepo.GetUserIDByAccessUUID(s.ctx, td.AccessUUID)
	require.ErrorIs(t, err, models.ErrTokenNotFound)
	_, err = s.tokenRepo.GetUserIDByRefreshUUID(s.ctx, td.RefreshUUID)
	require.ErrorIs(t, err, models.ErrTokenNotFound)
}

func (s *RepositoryTestSuite) TestTokenRepository_DeleteByUserRevokesAllSessions() {
	t := s.T()
	userID := uuid.New()

	for i := 0; i < 2; i++ {
		td := &models.TokenDetails{
			AccessUUID:       uuid.NewString(),
			RefreshUUID:      uuid.NewString(),
			AccessExpiresAt:  time.Now().Add(5 * time.Minute),
			RefreshExpiresAt: time.Now().Add(10 * time.Minute),
		}
		require.NoError(t, s.tokenRepo.SetToken(s.ctx, userID, td))
	}

	deleted, err := s.tokenRepo.DeleteTokensByUserID(s.ctx, userID)
	require.NoError(t, err)
	require.EqualValues(t, 4, deleted)

	deleted, err = s.tokenRepo.DeleteTokensByUserID(s.ctx, userID)
	require.NoError(t, err)
	require.Zero(t, deleted)
}
