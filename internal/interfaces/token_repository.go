package interfaces

import (
	"context"

	"story-server/internal/models"

	"github.com/google/uuid"
)

// TokenRepository defines the interface for token persistence (Redis).
// Access and Refresh token UUIDs are stored with TTLs so tokens can be
// revoked before their JWT expiry.
type TokenRepository interface {
	// SetToken stores the token details (Access & Refresh UUIDs mapped to UserID)
	// with appropriate TTLs.
	SetToken(ctx context.Context, userID uuid.UUID, td *models.TokenDetails) error

	// DeleteTokens removes the specified token UUIDs from the store.
	// Returns the number of keys deleted.
	DeleteTokens(ctx context.Context, userID uuid.UUID, accessUUID, refreshUUID string) (int64, error)

	// GetUserIDByAccessUUID checks if the Access UUID exists and returns the associated UserID.
	// Returns models.ErrTokenNotFound if the token is not found (or expired).
	GetUserIDByAccessUUID(ctx context.Context, accessUUID string) (uuid.UUID, error)

	// GetUserIDByRefreshUUID checks if the Refresh UUID exists and returns the associated UserID.
	// Returns models.ErrTokenNotFound if the token is not found (or expired).
	GetUserIDByRefreshUUID(ctx context.Context, refreshUUID string) (uuid.UUID, error)

	// DeleteTokensByUserID removes all tokens (access and refresh) associated with a user ID.
	// Returns the number of tokens deleted.
	DeleteTokensByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
}
