package models

import (
	"time"

	"github.com/google/uuid"
)

// HistoryEntry records one visited scene. ChoiceID is nil when the move
// was not driven by a choice (direct navigation, scenario start).
type HistoryEntry struct {
	SceneID   uuid.UUID              `json:"sceneId"`
	ChoiceID  *uuid.UUID             `json:"choiceId,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// PlayerProgress хранит текущее состояние игрока в рамках одного сценария.
// Движение по сценам разрешено и после завершения: is_completed только защелкивается.
type PlayerProgress struct {
	ID             uuid.UUID      `db:"id" json:"id"`
	UserID         uuid.UUID      `db:"user_id" json:"userId"`
	ScenarioID     uuid.UUID      `db:"scenario_id" json:"scenarioId"`
	CurrentSceneID uuid.UUID      `db:"current_scene_id" json:"currentSceneId"`
	History        []HistoryEntry `db:"history" json:"history"`
	IsCompleted    bool           `db:"is_completed" json:"isCompleted"`
	CompletedAt    *time.Time     `db:"completed_at" json:"completedAt,omitempty"`
	TotalTimeSpent int            `db:"total_time_spent" json:"totalTimeSpent"` // секунды
	CreatedAt      time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updatedAt"`
}

// VisitedSceneIDs returns the set of distinct scene ids present in the history.
func (p *PlayerProgress) VisitedSceneIDs() map[uuid.UUID]struct{} {
	visited := make(map[uuid.UUID]struct{}, len(p.History))
	for _, entry := range p.History {
		visited[entry.SceneID] = struct{}{}
	}
	return visited
}
