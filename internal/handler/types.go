package handler

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// NullableID tells apart an omitted JSON field from an explicit null.
// Set=false: поле не передали; Set=true, ID=nil: явный null (отвязать);
// Set=true, ID!=nil: привязать новый id.
type NullableID struct {
	Set bool
	ID  *uuid.UUID
}

// UnmarshalJSON is only called when the field is present, which is what
// flips Set.
func (n *NullableID) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(data, []byte("null")) {
		n.ID = nil
		return nil
	}
	var id uuid.UUID
	if err := json.Unmarshal(data, &id); err != nil {
		return fmt.Errorf("invalid id: %w", err)
	}
	n.ID = &id
	return nil
}

// --- Auth ---

type registerRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	// Роль admin требует admin-токена
	Role string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type updatePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

type updateUserRequest struct {
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}

// --- Scenarios ---

type createScenarioRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

type updateScenarioRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	IsPublished *bool   `json:"is_published,omitempty"`
}

// --- Scenes ---

type createSceneRequest struct {
	ScenarioID   uuid.UUID  `json:"scenario_id" binding:"required"`
	Title        string     `json:"title"`
	Text         string     `json:"scene_text" binding:"required"`
	Position     int        `json:"position"`
	ImageID      *uuid.UUID `json:"image_id,omitempty"`
	SoundID      *uuid.UUID `json:"sound_id,omitempty"`
	MusicID      *uuid.UUID `json:"music_id,omitempty"`
	IsStartScene bool       `json:"is_start_scene"`
	IsEndScene   bool       `json:"is_end_scene"`

	AutoGenerateImage bool `json:"auto_generate_image"`
	AutoGenerateSound bool `json:"auto_generate_sound"`
	AutoGenerateMusic bool `json:"auto_generate_music"`
}

type updateSceneRequest struct {
	Title        *string    `json:"title,omitempty"`
	Text         *string    `json:"scene_text,omitempty"`
	Position     *int       `json:"position,omitempty"`
	IsStartScene *bool      `json:"is_start_scene,omitempty"`
	IsEndScene   *bool      `json:"is_end_scene,omitempty"`
	ImageID      NullableID `json:"image_id"`
	SoundID      NullableID `json:"sound_id"`
	MusicID      NullableID `json:"music_id"`
}

// --- Choices ---

type createChoiceRequest struct {
	FromSceneID uuid.UUID              `json:"from_scene_id" binding:"required"`
	ToSceneID   uuid.UUID              `json:"to_scene_id" binding:"required"`
	Text        string                 `json:"choice_text" binding:"required"`
	Condition   map[string]interface{} `json:"condition"`
	Position    int                    `json:"position"`
}

type updateChoiceRequest struct {
	Text      *string                `json:"choice_text,omitempty"`
	ToSceneID *uuid.UUID             `json:"to_scene_id,omitempty"`
	Condition map[string]interface{} `json:"condition,omitempty"`
	Position  *int                   `json:"position,omitempty"`
}

// --- Assets ---

type createAssetRequest struct {
	AssetType string                 `json:"type" binding:"required"`
	Name      string                 `json:"name"`
	Filename  string                 `json:"filename"`
	URL       string                 `json:"url" binding:"required"`
	FileSize  int64                  `json:"file_size"`
	MimeType  string                 `json:"mime_type"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	IsPublic  bool                   `json:"is_public"`
}

type generateAssetRequest struct {
	AssetType   string `json:"type" binding:"required"`
	Name        string `json:"name"`
	Description string `json:"description" binding:"required"`
	SoundType   string `json:"sound_type"`
	Language    string `json:"language"`
	Duration    int    `json:"duration"`
}

type updateAssetRequest struct {
	Name     *string                `json:"name,omitempty"`
	IsPublic *bool                  `json:"is_public,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// --- Progress ---

type startProgressRequest struct {
	ScenarioID uuid.UUID `json:"scenario_id" binding:"required"`
	// Явная стартовая сцена; без нее сервер выводит ее из сценария
	StartSceneID *uuid.UUID `json:"start_scene_id,omitempty"`
}

type moveToSceneRequest struct {
	ScenarioID uuid.UUID              `json:"scenario_id" binding:"required"`
	SceneID    uuid.UUID              `json:"scene_id" binding:"required"`
	ChoiceID   *uuid.UUID             `json:"choice_id,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

type completeScenarioRequest struct {
	ScenarioID uuid.UUID `json:"scenario_id" binding:"required"`
}

type updateProgressRequest struct {
	CurrentSceneID *uuid.UUID `json:"current_scene_id,omitempty"`
	IsCompleted    *bool      `json:"is_completed,omitempty"`
	TotalTimeSpent *int       `json:"total_time_spent,omitempty"`
}
