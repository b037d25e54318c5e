package journal

import (
	"context"
	"time"

	"github.com/mauv0809/rinkstats/internal/hockey"
)

// Journal is the append-only log of submitted game events.
type Journal interface {
	// Insert stores entries. Entries whose id already exists are skipped; the
	// number of new rows is returned.
	Insert(ctx context.Context, entries []Entry) (int, error)
	// Pending returns entries of kind not yet written to the workbook, in
	// insertion order.
	Pending(ctx context.Context, kind hockey.Kind) ([]Entry, error)
	// Claim marks the pending entries of kind as syncing and returns them in
	// insertion order. Entries claimed by another sync are skipped until
	// their lease has run out. MarkSynced and MarkFailed release a claim.
	Claim(ctx context.Context, kind hockey.Kind, at time.Time, lease time.Duration) ([]Entry, error)
	MarkSynced(ctx context.Context, ids []string, at time.Time) error
	MarkFailed(ctx context.Context, ids []string, cause error) error
	List(ctx context.Context, filter Filter) ([]Entry, error)
	Counts(ctx context.Context) ([]Count, error)
}
