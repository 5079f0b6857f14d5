package models

import (
	"time"

	"github.com/google/uuid"
)

// Scene is a single story beat: its text plus optional visual and audio assets.
// Asset references are nullable; a scene may exist without any media attached.
type Scene struct {
	ID           uuid.UUID   `db:"id" json:"id"`
	ScenarioID   uuid.UUID   `db:"scenario_id" json:"scenarioId"`
	Title        string      `db:"title" json:"title"`
	Text         string      `db:"scene_text" json:"sceneText"`
	Position     int         `db:"position" json:"position"`
	ImageID      *uuid.UUID  `db:"image_id" json:"imageId,omitempty"`
	SoundID      *uuid.UUID  `db:"sound_id" json:"soundId,omitempty"`
	MusicID      *uuid.UUID  `db:"music_id" json:"musicId,omitempty"`
	ChoiceIDs    []uuid.UUID `db:"choice_ids" json:"choiceIds"`
	IsStartScene bool        `db:"is_start_scene" json:"isStartScene"`
	IsEndScene   bool        `db:"is_end_scene" json:"isEndScene"`
	CreatedAt    time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updatedAt"`
}

// AssetFieldImage и другие именуют слоты медиа внутри сцены.
// Используются при загрузке файлов для автоматической привязки к сцене.
const (
	AssetFieldImage = "image_id"
	AssetFieldSound = "sound_id"
	AssetFieldMusic = "music_id"
)

// AssetFieldForType returns the default scene slot for an asset type.
// Video has no scene slot and resolves to the image field like any other visual.
func AssetFieldForType(assetType string) string {
	switch assetType {
	case AssetTypeSound:
		return AssetFieldSound
	default:
		return AssetFieldImage
	}
}
