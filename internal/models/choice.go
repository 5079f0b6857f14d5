package models

import (
	"time"

	"github.com/google/uuid"
)

// Choice is a directed transition between two scenes.
// Condition is an opaque document interpreted by clients; the server only stores it.
type Choice struct {
	ID          uuid.UUID              `db:"id" json:"id"`
	FromSceneID uuid.UUID              `db:"from_scene_id" json:"fromSceneId"`
	ToSceneID   uuid.UUID              `db:"to_scene_id" json:"toSceneId"`
	Text        string                 `db:"choice_text" json:"choiceText"`
	Condition   map[string]interface{} `db:"condition" json:"condition"`
	Position    int                    `db:"position" json:"position"`
	CreatedAt   time.Time              `db:"created_at" json:"createdAt"`
}
