package service

import (
	"errors"

	"story-server/internal/models"
)

// isNotFound reports whether the error is any of the not-found sentinels.
// Каскадные операции используют это, чтобы не падать на уже отвязанных связях.
func isNotFound(err error) bool {
	return errors.Is(err, models.ErrNotFound) ||
		errors.Is(err, models.ErrScenarioNotFound) ||
		errors.Is(err, models.ErrSceneNotFound) ||
		errors.Is(err, models.ErrChoiceNotFound) ||
		errors.Is(err, models.ErrAssetNotFound) ||
		errors.Is(err, models.ErrProgressNotFound)
}
