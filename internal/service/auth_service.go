package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"story-server/internal/config"
	"story-server/internal/interfaces"
	"story-server/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration, login and token lifecycle.
type AuthService interface {
	Register(ctx context.Context, email, password, firstName, lastName string) (*models.User, error)
	// RegisterWithRole создает пользователя с явной ролью. Роль admin
	// доступна только когда caller сам admin; это проверяет вызывающий слой.
	RegisterWithRole(ctx context.Context, email, password, firstName, lastName, role string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.TokenDetails, error)
	// Logout revokes the session's access token and, when the raw refresh
	// token is supplied, its refresh token too.
	Logout(ctx context.Context, userID uuid.UUID, accessUUID, refreshTokenString string) error
	Refresh(ctx context.Context, refreshTokenString string) (*models.TokenDetails, error)
	VerifyAccessToken(ctx context.Context, tokenString string) (*models.Claims, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error
}

type authServiceImpl struct {
	userRepo  interfaces.UserRepository
	tokenRepo interfaces.TokenRepository
	cfg       config.JWTConfig
	logger    *zap.Logger
}

// NewAuthService creates the auth service.
func NewAuthService(userRepo interfaces.UserRepository, tokenRepo interfaces.TokenRepository, cfg config.JWTConfig, logger *zap.Logger) AuthService {
	return &authServiceImpl{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		cfg:       cfg,
		logger:    logger.Named("AuthService"),
	}
}

// Register creates a regular player account.
func (s *authServiceImpl) Register(ctx context.Context, email, password, firstName, lastName string) (*models.User, error) {
	return s.RegisterWithRole(ctx, email, password, firstName, lastName, models.RolePlayer)
}

// RegisterWithRole creates an account with an explicit role.
func (s *authServiceImpl) RegisterWithRole(ctx context.Context, email, password, firstName, lastName, role string) (*models.User, error) {
	// Приводим email к нижнему регистру и убираем пробелы
	email = strings.ToLower(strings.TrimSpace(email))

	logFields := []zap.Field{zap.String("email", email), zap.String("role", role)}
	s.logger.Info("Registering new user", logFields...)

	// Валидация формата email (простая)
	if _, err := mail.ParseAddress(email); err != nil {
		s.logger.Warn("Registration attempt with invalid email format", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("invalid email format: %w", models.ErrInvalidInput)
	}
	if password == "" {
		s.logger.Warn("Registration attempt with empty password", logFields...)
		return nil, models.ErrInvalidInput
	}
	if !models.IsValidRole(role) {
		s.logger.Warn("Registration attempt with unknown role", logFields...)
		return nil, fmt.Errorf("unknown role %q: %w", role, models.ErrInvalidInput)
	}

	// Проверка существования пользователя по email
	existingUser, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, models.ErrUserNotFound) {
		s.logger.Error("Error checking existing email during registration", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("error checking existing email: %w", err)
	}
	if existingUser != nil {
		s.logger.Warn("Registration attempt for existing email", logFields...)
		return nil, models.ErrEmailAlreadyExists
	}

	// Используем перец перед хешированием
	hashedPassword, err := hashPassword(password, s.cfg.PasswordPepper)
	if err != nil {
		s.logger.Error("Failed to hash password during registration", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         role,
		FirstName:    strings.TrimSpace(firstName),
		LastName:     strings.TrimSpace(lastName),
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		// Ошибка уникальности уже обработана репозиторием
		if !errors.Is(err, models.ErrEmailAlreadyExists) {
			s.logger.Error("Failed to create user via repository", append(logFields, zap.Error(err))...)
		}
		return nil, err
	}

	s.logger.Info("User registered successfully", zap.Stringer("userID", user.ID), zap.String("email", user.Email))
	return user, nil
}

// Login authenticates a user and returns token details.
func (s *authServiceImpl) Login(ctx context.Context, email, password string) (*models.TokenDetails, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	s.logger.Info("Login attempt", zap.String("email", email))

	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			s.logger.Warn("Login attempt for unknown email", zap.String("email", email))
			return nil, models.ErrInvalidCredentials
		}
		s.logger.Error("Error getting user during login", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("error getting user: %w", err)
	}

	if !checkPasswordHash(password, user.PasswordHash, s.cfg.PasswordPepper) {
		s.logger.Warn("Login attempt with wrong password", zap.String("email", email))
		return nil, models.ErrInvalidCredentials
	}

	td, err := s.createTokens(user)
	if err != nil {
		return nil, err
	}
	if err := s.tokenRepo.SetToken(ctx, user.ID, td); err != nil {
		s.logger.Error("Failed to save token details", zap.Error(err), zap.Stringer("userID", user.ID))
		return nil, fmt.Errorf("failed to save token details: %w", err)
	}

	s.logger.Info("User logged in", zap.Stringer("userID", user.ID), zap.String("email", email))
	return td, nil
}

// Logout revokes the given token pair.
func (s *authServiceImpl) Logout(ctx context.Context, userID uuid.UUID, accessUUID, refreshTokenString string) error {
	s.logger.Info("Logout", zap.Stringer("userID", userID))

	refreshUUID := ""
	if refreshTokenString != "" {
		claims, err := s.parseToken(refreshTokenString)
		switch {
		case err != nil:
			// Невалидный refresh не мешает завершить сессию по access
			s.logger.Warn("Logout with unparseable refresh token", zap.Error(err), zap.Stringer("userID", userID))
		case claims.UserID != userID:
			s.logger.Warn("Logout with foreign refresh token",
				zap.Stringer("userID", userID), zap.Stringer("tokenUserID", claims.UserID))
		default:
			refreshUUID = claims.ID
		}
	}

	if _, err := s.tokenRepo.DeleteTokens(ctx, userID, accessUUID, refreshUUID); err != nil {
		return fmt.Errorf("failed to revoke tokens: %w", err)
	}
	return nil
}

// Refresh exchanges a valid refresh token for a new token pair.
func (s *authServiceImpl) Refresh(ctx context.Context, refreshTokenString string) (*models.TokenDetails, error) {
	s.logger.Info("Token refresh attempt") // Не логируем сам токен

	claims, err := s.parseToken(refreshTokenString)
	if err != nil {
		return nil, err
	}

	refreshUUID := claims.ID
	userID, err := s.tokenRepo.GetUserIDByRefreshUUID(ctx, refreshUUID)
	if err != nil {
		if errors.Is(err, models.ErrTokenNotFound) {
			s.logger.Warn("Refresh attempt with revoked token", zap.String("refreshUUID", refreshUUID))
			return nil, models.ErrTokenNotFound
		}
		s.logger.Error("Error checking refresh token existence", zap.Error(err), zap.String("refreshUUID", refreshUUID))
		return nil, fmt.Errorf("error checking refresh token existence: %w", err)
	}
	if userID != claims.UserID {
		s.logger.Error("Refresh token user ID mismatch",
			zap.Stringer("tokenUserID", claims.UserID), zap.Stringer("repoUserID", userID))
		return nil, models.ErrTokenInvalid
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to get user during refresh", zap.Error(err), zap.Stringer("userID", userID))
		return nil, fmt.Errorf("failed to get user during refresh: %w", err)
	}

	newTd, err := s.createTokens(user)
	if err != nil {
		return nil, fmt.Errorf("failed to create new tokens during refresh: %w", err)
	}

	// Старый refresh отзываем; ошибка некритична для пользователя
	if _, delErr := s.tokenRepo.DeleteTokens(ctx, userID, "", refreshUUID); delErr != nil {
		s.logger.Error("Non-critical: failed to delete old refresh token", zap.Error(delErr), zap.String("refreshUUID", refreshUUID))
	}

	if err := s.tokenRepo.SetToken(ctx, userID, newTd); err != nil {
		s.logger.Error("Failed to save new token details during refresh", zap.Error(err), zap.Stringer("userID", userID))
		return nil, fmt.Errorf("failed to save new token details: %w", err)
	}

	s.logger.Info("Token refreshed successfully", zap.Stringer("userID", userID))
	return newTd, nil
}

// VerifyAccessToken parses and validates an access token string,
// checking it against the revocation store.
func (s *authServiceImpl) VerifyAccessToken(ctx context.Context, tokenString string) (*models.Claims, error) {
	s.logger.Debug("Verifying access token")

	claims, err := s.parseToken(tokenString)
	if err != nil {
		return nil, err
	}

	if _, err := s.tokenRepo.GetUserIDByAccessUUID(ctx, claims.ID); err != nil {
		if errors.Is(err, models.ErrTokenNotFound) {
			s.logger.Debug("Access token not found in store (revoked/logged out)", zap.String("accessUUID", claims.ID))
			return nil, models.ErrTokenInvalid
		}
		s.logger.Error("Error checking access token existence", zap.Error(err), zap.String("accessUUID", claims.ID))
		return nil, fmt.Errorf("error checking access token existence: %w", err)
	}
	return claims, nil
}

// UpdatePassword verifies the old password and stores a new hash,
// then revokes every outstanding token of the user.
func (s *authServiceImpl) UpdatePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	s.logger.Info("Password update attempt", zap.Stringer("userID", userID))
	if newPassword == "" {
		return models.ErrInvalidInput
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if !checkPasswordHash(oldPassword, user.PasswordHash, s.cfg.PasswordPepper) {
		s.logger.Warn("Password update with wrong old password", zap.Stringer("userID", userID))
		return models.ErrInvalidCredentials
	}

	newHash, err := hashPassword(newPassword, s.cfg.PasswordPepper)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}
	if err := s.userRepo.UpdatePasswordHash(ctx, userID, newHash); err != nil {
		return err
	}

	// После смены пароля все сессии завершаются
	if _, err := s.tokenRepo.DeleteTokensByUserID(ctx, userID); err != nil {
		s.logger.Error("Non-critical: failed to revoke tokens after password change", zap.Error(err), zap.Stringer("userID", userID))
	}
	return nil
}

// parseToken parses and validates a signed JWT, mapping jwt errors to our sentinels.
func (s *authServiceImpl) parseToken(tokenString string) (*models.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			s.logger.Debug("Token verification failed: expired")
			return nil, models.ErrTokenExpired
		}
		if errors.Is(err, jwt.ErrTokenMalformed) {
			s.logger.Warn("Token verification failed: malformed")
			return nil, models.ErrTokenMalformed
		}
		s.logger.Error("Failed to parse token", zap.Error(err))
		return nil, models.ErrTokenInvalid
	}

	claims, ok := token.Claims.(*models.Claims)
	if !ok || !token.Valid {
		s.logger.Warn("Token verification failed (invalid claims type or signature)")
		return nil, models.ErrTokenInvalid
	}
	return claims, nil
}

// createTokens generates a new access and refresh token pair for a user.
func (s *authServiceImpl) createTokens(user *models.User) (*models.TokenDetails, error) {
	s.logger.Debug("Creating new token pair", zap.Stringer("userID", user.ID))
	now := time.Now()

	td := &models.TokenDetails{
		AccessUUID:       uuid.New().String(),
		RefreshUUID:      uuid.New().String(),
		AccessExpiresAt:  now.Add(s.cfg.AccessTokenTTL),
		RefreshExpiresAt: now.Add(s.cfg.RefreshTokenTTL),
	}

	var err error
	td.AccessToken, err = s.signToken(user, td.AccessUUID, td.AccessExpiresAt, now)
	if err != nil {
		s.logger.Error("Failed to sign access token", zap.Error(err), zap.Stringer("userID", user.ID))
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	td.RefreshToken, err = s.signToken(user, td.RefreshUUID, td.RefreshExpiresAt, now)
	if err != nil {
		s.logger.Error("Failed to sign refresh token", zap.Error(err), zap.Stringer("userID", user.ID))
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return td, nil
}

func (s *authServiceImpl) signToken(user *models.User, jti string, expiresAt, issuedAt time.Time) (string, error) {
	claims := &models.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   user.ID.String(),
			Issuer:    "story-server",
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.Secret))
}

// applyPepper applies HMAC-SHA256 using the pepper as the key.
func applyPepper(password, pepper string) []byte {
	h := hmac.New(sha256.New, []byte(pepper))
	h.Write([]byte(password))
	return h.Sum(nil)
}

// hashPassword generates a bcrypt hash of the password after applying the pepper.
func hashPassword(password, pepper string) (string, error) {
	// Применяем перец к паролю через HMAC-SHA256
	pepperedPassword := applyPepper(password, pepper)
	// Хешируем результат с помощью bcrypt (он сам добавит свою соль)
	bytes, err := bcrypt.GenerateFromPassword(pepperedPassword, bcrypt.DefaultCost)
	return string(bytes), err
}

// checkPasswordHash compares a plain text password (after applying pepper) with a stored hash.
func checkPasswordHash(password, hash, pepper string) bool {
	pepperedPassword := applyPepper(password, pepper)
	// bcrypt сам извлечет свою соль из хеша и сравнит
	err := bcrypt.CompareHashAndPassword([]byte(hash), pepperedPassword)
	return err == nil
}
