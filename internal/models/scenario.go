package models

import (
	"time"

	"github.com/google/uuid"
)

// Scenario is a story container: an ordered set of scenes with one author.
type Scenario struct {
	ID          uuid.UUID   `db:"id" json:"id"`
	Title       string      `db:"title" json:"title"`
	Description string      `db:"description" json:"description"`
	AuthorID    uuid.UUID   `db:"author_id" json:"authorId"`
	SceneIDs    []uuid.UUID `db:"scene_ids" json:"sceneIds"` // Порядок сцен определяется этим списком
	IsPublished bool        `db:"is_published" json:"isPublished"`
	CreatedAt   time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updatedAt"`
}

// SceneCount returns the number of scenes attached to the scenario.
func (s *Scenario) SceneCount() int {
	return len(s.SceneIDs)
}
