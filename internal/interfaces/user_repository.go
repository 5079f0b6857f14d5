package interfaces

import (
	"context"

	"story-server/internal/models"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user data persistence (PostgreSQL).
type UserRepository interface {
	// CreateUser inserts a new user into the database.
	// It should handle potential errors like duplicate emails.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByID retrieves a user by their ID.
	// Returns models.ErrUserNotFound if the user does not exist.
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// GetUserByEmail retrieves a user by their email address.
	// Returns models.ErrUserNotFound if the user does not exist.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// ListUsers retrieves all users ordered by creation time.
	ListUsers(ctx context.Context) ([]models.User, error)

	// UpdateUserFields обновляет только указанные поля пользователя.
	// Поля со значением nil не обновляются.
	UpdateUserFields(ctx context.Context, userID uuid.UUID, email, firstName, lastName *string) error

	// UpdatePasswordHash обновляет хеш пароля пользователя.
	UpdatePasswordHash(ctx context.Context, userID uuid.UUID, newPasswordHash string) error

	// DeleteUser removes a user row.
	// Returns models.ErrUserNotFound if the user does not exist.
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}
