package journal

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mauv0809/rinkstats/internal/hockey"
)

// SyncStatus tracks whether an entry has reached the workbook.
type SyncStatus string

const (
	StatusPending SyncStatus = "PENDING"
	StatusSyncing SyncStatus = "SYNCING"
	StatusSynced  SyncStatus = "SYNCED"
	StatusFailed  SyncStatus = "FAILED"
)

// Entry is one journaled event. Payload is the event's JSON encoding. Seq is
// assigned on insert and orders entries within the journal.
type Entry struct {
	ID          string          `json:"id"`
	Seq         int64           `json:"seq"`
	Kind        hockey.Kind     `json:"kind"`
	Team        string          `json:"team"`
	Opponent    string          `json:"opponent"`
	GameDate    string          `json:"game_date"`
	Payload     json.RawMessage `json:"payload"`
	SubmittedAt time.Time       `json:"submitted_at"`
	Status      SyncStatus      `json:"sync_status"`
	SyncedAt    *time.Time      `json:"synced_at,omitempty"`
	SyncError   string          `json:"sync_error,omitempty"`
}

// NewEntry wraps an event for the journal.
func NewEntry(id string, e hockey.Event, at time.Time) (Entry, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to encode %s event: %w", e.Kind(), err)
	}
	g := e.GameInfo()
	return Entry{
		ID:          id,
		Kind:        e.Kind(),
		Team:        g.Team,
		Opponent:    g.Opponent,
		GameDate:    g.GameDate,
		Payload:     payload,
		SubmittedAt: at,
		Status:      StatusPending,
	}, nil
}

// Event decodes the payload.
func (e Entry) Event() (hockey.Event, error) {
	return hockey.UnmarshalEvent(e.Kind, e.Payload)
}

// Filter narrows List. Zero fields do not filter.
type Filter struct {
	Kind   hockey.Kind
	Status SyncStatus
	Team   string
	Limit  int
}

// Count is the number of entries per kind and status.
type Count struct {
	Kind   hockey.Kind `json:"kind"`
	Status SyncStatus  `json:"sync_status"`
	N      int         `json:"count"`
}
