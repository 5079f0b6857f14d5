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
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// Compile-time check to ensure pgUserRepository implements UserRepository
var _ interfaces.UserRepository = (*pgUserRepository)(nil)

type pgUserRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgUserRepository creates a new PostgreSQL-backed UserRepository.
func NewPgUserRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.UserRepository {
	return &pgUserRepository{
		db:     db,
		logger: logger.Named("PgUserRepo"),
	}
}

const userColumns = `id, email, password_hash, role, first_name, last_name, created_at, updated_at`

// CreateUser inserts a new user into the database.
func (r *pgUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (email, password_hash, role, first_name, last_name)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id, created_at, updated_at`
	r.logger.Debug("Executing query", zap.String("query", query), zap.String("email", user.Email))

	err := r.db.QueryRow(ctx, query, user.Email, user.PasswordHash, user.Role, user.FirstName, user.LastName).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23505 is unique_violation
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			r.logger.Warn("Attempted to create duplicate user by email", zap.String("email", user.Email))
			return models.ErrEmailAlreadyExists
		}
		r.logger.Error("Failed to create user in postgres", zap.Error(err), zap.String("email", user.Email))
		return fmt.Errorf("failed to create user in postgres: %w", err)
	}
	r.logger.Info("User created successfully", zap.String("userID", user.ID.String()), zap.String("email", user.Email))
	return nil
}

// GetUserByID retrieves a user by their ID.
func (r *pgUserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user := &models.User{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Role,
		&user.FirstName, &user.LastName, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("User not found by ID", zap.String("userID", id.String()))
			return nil, models.ErrUserNotFound
		}
		r.logger.Error("Failed to get user by ID from postgres", zap.Error(err), zap.String("userID", id.String()))
		return nil, fmt.Errorf("failed to get user by id from postgres: %w", err)
	}
	return user, nil
}

// GetUserByEmail retrieves a user by their email address.
func (r *pgUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user := &models.User{}
	err := r.db.QueryRow(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Role,
		&user.FirstName, &user.LastName, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("User not found by email", zap.String("email", email))
			return nil, models.ErrUserNotFound
		}
		r.logger.Error("Failed to get user by email from postgres", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to get user by email from postgres: %w", err)
	}
	return user, nil
}

// ListUsers retrieves all users ordered by creation time.
func (r *pgUserRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at`
	var users []models.User
	if err := pgxscan.Select(ctx, r.db, &users, query); err != nil {
		r.logger.Error("Failed to list users from postgres", zap.Error(err))
		return nil, fmt.Errorf("failed to list users from postgres: %w", err)
	}
	return users, nil
}

// UpdateUserFields обновляет только указанные поля пользователя.
func (r *pgUserRepository) UpdateUserFields(ctx context.Context, userID uuid.UUID, email, firstName, lastName *string) error {
	query := `UPDATE users SET
	            email = COALESCE($2, email),
	            first_name = COALESCE($3, first_name),
	            last_name = COALESCE($4, last_name),
	            updated_at = now()
	          WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, userID, email, firstName, lastName)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			r.logger.Warn("Attempted to update user to duplicate email", zap.String("userID", userID.String()))
			return models.ErrEmailAlreadyExists
		}
		r.logger.Error("Failed to update user fields", zap.Error(err), zap.String("userID", userID.String()))
		return fmt.Errorf("failed to update user fields: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrUserNotFound
	}
	return nil
}

// UpdatePasswordHash обновляет хеш пароля пользователя.
func (r *pgUserRepository) UpdatePasswordHash(ctx context.Context, userID uuid.UUID, newPasswordHash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, userID, newPasswordHash)
	if err != nil {
		r.logger.Error("Failed to update password hash", zap.Error(err), zap.String("userID", userID.String()))
		return fmt.Errorf("failed to update password hash: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrUserNotFound
	}
	r.logger.Info("Password hash updated", zap.String("userID", userID.String()))
	return nil
}

// DeleteUser removes a user row.
func (r *pgUserRepository) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	query := `DELETE FROM users WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23503 is foreign_key_violation: сценарии, ассеты или прогресс еще ссылаются на пользователя
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			r.logger.Warn("Attempted to delete user with dependent rows",
				zap.String("userID", userID.String()), zap.String("constraint", pgErr.ConstraintName))
			return models.ErrUserHasContent
		}
		r.logger.Error("Failed to delete user", zap.Error(err), zap.String("userID", userID.String()))
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrUserNotFound
	}
	r.logger.Info("User deleted", zap.String("userID", userID.String()))
	return nil
}
