package syncer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/mauv0809/rinkstats/internal/hockey"
	"github.com/mauv0809/rinkstats/internal/journal"
	"github.com/mauv0809/rinkstats/internal/metrics"
	"github.com/mauv0809/rinkstats/internal/pubsub"
	"github.com/mauv0809/rinkstats/internal/sheet"
)

// ErrSyncFailed wraps store errors. Journaled events remain pending and are
// retried by the next sync.
var ErrSyncFailed = errors.New("failed to save events to the workbook")

// claimLease is how long a claimed event is left alone before another sync
// may take it over.
const claimLease = 10 * time.Minute

// Appender is the part of sheet.Store the syncer writes through.
type Appender interface {
	Append(ctx context.Context, req sheet.AppendRequest) (sheet.AppendResult, error)
}

// Syncer journals submitted events and compacts them into the workbook. It
// is the only writer of event sheets within a process.
type Syncer struct {
	journal journal.Journal
	store   Appender
	pubsub  pubsub.PubSubClient
	metrics metrics.Metrics
	now     func() time.Time

	mu sync.Mutex
}

// Batch is one submission of events of a single kind. Records come from
// forms and are parsed leniently; Events are already typed. SubmissionID,
// when set, makes event ids deterministic so a resent batch is ignored.
type Batch struct {
	Kind         hockey.Kind     `json:"kind"`
	SubmissionID string          `json:"submission_id,omitempty"`
	Records      []hockey.Record `json:"records,omitempty"`
	Events       []hockey.Event  `json:"-"`
}

// Submission reports what Submit accepted.
type Submission struct {
	Kind     hockey.Kind         `json:"kind"`
	IDs      []string            `json:"ids"`
	Accepted int                 `json:"accepted"`
	Issues   []hockey.FieldIssue `json:"issues,omitempty"`
	Sync     *Result             `json:"sync,omitempty"`
	DryRun   bool                `json:"dry_run,omitempty"`
}

// Result describes one sync of one kind.
type Result struct {
	Kind     hockey.Kind        `json:"kind"`
	Synced   int                `json:"synced"`
	EventIDs []string           `json:"event_ids"`
	Append   sheet.AppendResult `json:"append"`
	DryRun   bool               `json:"dry_run,omitempty"`
}
