package service

import (
	"context"
	"fmt"
	"strings"

	"story-server/internal/interfaces"
	"story-server/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService handles user profile queries and updates.
type UserService interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	// UpdateUser применяет частичное обновление. Обновлять чужой профиль
	// может только admin; это решает caller через CanModifyUser.
	UpdateUser(ctx context.Context, id uuid.UUID, email, firstName, lastName *string) (*models.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

type userServiceImpl struct {
	userRepo  interfaces.UserRepository
	tokenRepo interfaces.TokenRepository
	logger    *zap.Logger
}

// NewUserService creates the user service.
func NewUserService(userRepo interfaces.UserRepository, tokenRepo interfaces.TokenRepository, logger *zap.Logger) UserService {
	return &userServiceImpl{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		logger:    logger.Named("UserService"),
	}
}

func (s *userServiceImpl) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.userRepo.GetUserByID(ctx, id)
}

func (s *userServiceImpl) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.userRepo.ListUsers(ctx)
}

func (s *userServiceImpl) UpdateUser(ctx context.Context, id uuid.UUID, email, firstName, lastName *string) (*models.User, error) {
	if email != nil {
		normalized := strings.ToLower(strings.TrimSpace(*email))
		email = &normalized
	}
	if err := s.userRepo.UpdateUserFields(ctx, id, email, firstName, lastName); err != nil {
		return nil, err
	}
	return s.userRepo.GetUserByID(ctx, id)
}

// DeleteUser removes the account and revokes every session it had.
func (s *userServiceImpl) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := s.userRepo.DeleteUser(ctx, id); err != nil {
		return err
	}
	if _, err := s.tokenRepo.DeleteTokensByUserID(ctx, id); err != nil {
		// Учетная запись уже удалена; ключи в Redis истекут по TTL
		s.logger.Error("Non-critical: failed to revoke tokens of deleted user",
			zap.Error(err), zap.Stringer("userID", id))
	}
	s.logger.Info("User account deleted", zap.Stringer("userID", id))
	return nil
}

// CanModifyUser reports whether the actor may change or delete the target account.
func CanModifyUser(actor *models.Claims, targetID uuid.UUID) error {
	if actor == nil {
		return models.ErrUnauthorized
	}
	if actor.Role == models.RoleAdmin || actor.UserID == targetID {
		return nil
	}
	return models.ErrForbidden
}

// CanAssignRole reports whether the actor may create an account with the given role.
// Любой может зарегистрировать player; admin создает только admin.
func CanAssignRole(actor *models.Claims, role string) error {
	if role == models.RolePlayer || role == "" {
		return nil
	}
	if actor != nil && actor.Role == models.RoleAdmin {
		return nil
	}
	return fmt.Errorf("role %q requires admin: %w", role, models.ErrForbidden)
}
