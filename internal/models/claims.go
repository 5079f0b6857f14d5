package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims представляет стандартные поля JWT и пользовательские данные,
// которые мы включаем в токен.
type Claims struct {
	UserID               uuid.UUID `json:"user_id"`
	Email                string    `json:"email"`
	Role                 string    `json:"role"`
	jwt.RegisteredClaims           // Встраиваем стандартные поля: ExpiresAt, IssuedAt, ID (JTI) и т.д.
}

// TokenDetails carries a freshly issued access/refresh pair together with
// the token ids stored for revocation.
type TokenDetails struct {
	AccessToken      string
	RefreshToken     string
	AccessUUID       string
	RefreshUUID      string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// TokenPair is the client-facing part of TokenDetails.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
