package pubsub

import (
	"sync"
	"time"

	"cloud.google.com/go/pubsub"
)

type client struct {
	client  *pubsub.Client
	timeout time.Duration
}

// Direct hands messages to in-process subscribers instead of Pub/Sub.
type Direct struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// Handler consumes the raw msgpack payload of a message.
type Handler func(data []byte) error

// EventType represents the type of event/message sent via pubsub. It doubles
// as the topic name.
type EventType string

const (
	EventBatchSynced EventType = "batch-synced"
	EventSyncFailed  EventType = "sync-failed"
)

// BatchSynced is published after journaled events reach the workbook.
type BatchSynced struct {
	Kind      string    `msgpack:"kind"`
	Sheet     string    `msgpack:"sheet"`
	Teams     []string  `msgpack:"teams"`
	Count     int       `msgpack:"count"`
	Total     int       `msgpack:"total"`
	Attempts  int       `msgpack:"attempts"`
	EventIDs  []string  `msgpack:"event_ids"`
	BackupKey string    `msgpack:"backup_key"`
	SyncedAt  time.Time `msgpack:"synced_at"`
}

// SyncFailed is published when a sync gives up. The events stay pending.
type SyncFailed struct {
	Kind     string    `msgpack:"kind"`
	Pending  int       `msgpack:"pending"`
	Error    string    `msgpack:"error"`
	FailedAt time.Time `msgpack:"failed_at"`
}
