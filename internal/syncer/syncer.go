package syncer

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/rinkstats/internal/hockey"
	"github.com/mauv0809/rinkstats/internal/journal"
	"github.com/mauv0809/rinkstats/internal/metrics"
	"github.com/mauv0809/rinkstats/internal/pubsub"
	"github.com/mauv0809/rinkstats/internal/sheet"
)

// submissionNamespace seeds deterministic event ids.
var submissionNamespace = uuid.MustParse("5b0c6f1e-4f3a-4a53-9d38-7f1c2e7b9a10")

// New creates a new Syncer.
func New(j journal.Journal, store Appender, ps pubsub.PubSubClient, m metrics.Metrics) *Syncer {
	return &Syncer{
		journal: j,
		store:   store,
		pubsub:  ps,
		metrics: m,
		now:     time.Now,
	}
}

// Submit validates a batch, journals it and syncs its kind. Field issues are
// reported but do not reject the batch; validation errors do. When the sync
// fails the events stay journaled and the returned error wraps ErrSyncFailed.
func (s *Syncer) Submit(ctx context.Context, b Batch, dryRun bool) (Submission, error) {
	out := Submission{Kind: b.Kind, IDs: []string{}, DryRun: dryRun}

	events, issues, err := parse(b)
	if err != nil {
		return out, err
	}
	out.Issues = issues
	if len(events) == 0 {
		log.Debug("Empty submission", "kind", b.Kind)
		return out, nil
	}

	at := s.now().UTC()
	entries := make([]journal.Entry, 0, len(events))
	for i, e := range events {
		entry, err := journal.NewEntry(eventID(b.SubmissionID, i), e, at)
		if err != nil {
			return out, err
		}
		entries = append(entries, entry)
		out.IDs = append(out.IDs, entry.ID)
	}

	if dryRun {
		log.Info("[Dry Run] Would journal events", "kind", b.Kind, "count", len(entries))
		out.Accepted = len(entries)
		return out, nil
	}

	n, err := s.journal.Insert(ctx, entries)
	if err != nil {
		return out, fmt.Errorf("failed to journal %s events: %w", b.Kind, err)
	}
	out.Accepted = n
	s.metrics.IncEventsSubmitted(string(b.Kind), n)
	log.Info("Journaled events", "kind", b.Kind, "accepted", n, "duplicates", len(entries)-n, "issues", len(issues))

	res, err := s.Sync(ctx, b.Kind, false)
	if err != nil {
		return out, err
	}
	out.Sync = &res
	return out, nil
}

// parse turns the batch into validated events.
func parse(b Batch) ([]hockey.Event, []hockey.FieldIssue, error) {
	events := slices.Clone(b.Events)
	var issues []hockey.FieldIssue
	for i, rec := range b.Records {
		e, recIssues, err := hockey.FromRecord(b.Kind, rec)
		if err != nil {
			return nil, nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		for _, is := range recIssues {
			is.Row = i + 1
			issues = append(issues, is)
		}
		events = append(events, e)
	}

	var errs []error
	for i, e := range events {
		if e.Kind() != b.Kind {
			errs = append(errs, fmt.Errorf("event %d: %w: %s in a %s batch", i+1, hockey.ErrInvalidEvent, e.Kind(), b.Kind))
			continue
		}
		if err := e.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("event %d: %w", i+1, err))
		}
	}
	if len(errs) > 0 {
		return nil, issues, errors.Join(errs...)
	}
	return events, issues, nil
}

func eventID(submissionID string, i int) string {
	if submissionID == "" {
		return uuid.NewString()
	}
	return uuid.NewSHA1(submissionNamespace, []byte(submissionID+"/"+strconv.Itoa(i))).String()
}

// Sync appends every pending event of kind to its sheet. Calls are serialised
// so a process never races itself on the workbook, and events are claimed in
// the journal so other instances skip them while the append runs.
func (s *Syncer) Sync(ctx context.Context, kind hockey.Kind, dryRun bool) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := Result{Kind: kind, EventIDs: []string{}, DryRun: dryRun}
	var (
		pending []journal.Entry
		err     error
	)
	if dryRun {
		pending, err = s.journal.Pending(ctx, kind)
	} else {
		pending, err = s.journal.Claim(ctx, kind, s.now().UTC(), claimLease)
	}
	if err != nil {
		return res, fmt.Errorf("failed to read pending %s events: %w", kind, err)
	}
	if len(pending) == 0 {
		return res, nil
	}

	rows := make([]hockey.Record, 0, len(pending))
	ids := make([]string, 0, len(pending))
	teams := make(map[string]bool)
	var broken []string
	for _, entry := range pending {
		e, err := entry.Event()
		if err != nil {
			log.Error("Unreadable journal entry", "id", entry.ID, "kind", kind, "error", err)
			broken = append(broken, entry.ID)
			continue
		}
		rows = append(rows, e.Record())
		ids = append(ids, entry.ID)
		teams[entry.Team] = true
	}
	if len(broken) > 0 {
		if err := s.journal.MarkFailed(ctx, broken, errors.New("unreadable payload")); err != nil {
			log.Error("Failed to flag unreadable entries", "error", err)
		}
	}
	if len(rows) == 0 {
		return res, nil
	}

	teamList := slices.Sorted(maps.Keys(teams))
	if dryRun {
		log.Info("[Dry Run] Would append rows", "kind", kind, "sheet", kind.Sheet(), "rows", len(rows))
		res.EventIDs = ids
		return res, nil
	}

	start := time.Now()
	s.metrics.IncSyncRuns(string(kind))
	appended, err := s.store.Append(ctx, sheet.AppendRequest{
		Sheet:   kind.Sheet(),
		Rows:    rows,
		Columns: kind.Columns(),
		Kind:    string(kind),
		Team:    strings.Join(teamList, "-"),
	})
	s.metrics.ObserveSyncDuration(float64(time.Since(start).Milliseconds()))
	if err != nil {
		s.metrics.IncSyncFailures(string(kind))
		log.Error("Sync failed", "kind", kind, "pending", len(ids), "error", err)
		if mErr := s.journal.MarkFailed(ctx, ids, err); mErr != nil {
			log.Error("Failed to mark events failed", "kind", kind, "error", mErr)
		}
		s.publish(ctx, pubsub.EventSyncFailed, pubsub.SyncFailed{
			Kind:     string(kind),
			Pending:  len(ids),
			Error:    err.Error(),
			FailedAt: s.now().UTC(),
		})
		return res, fmt.Errorf("%w: %w", ErrSyncFailed, err)
	}

	syncedAt := s.now().UTC()
	if err := s.journal.MarkSynced(ctx, ids, syncedAt); err != nil {
		// The rows are in the workbook; a retry would add them twice.
		log.Error("Appended rows but failed to mark them synced", "kind", kind, "ids", ids, "error", err)
		return res, fmt.Errorf("failed to mark %s events synced: %w", kind, err)
	}

	res.Synced = len(ids)
	res.EventIDs = ids
	res.Append = appended
	s.publish(ctx, pubsub.EventBatchSynced, pubsub.BatchSynced{
		Kind:      string(kind),
		Sheet:     appended.Sheet,
		Teams:     teamList,
		Count:     appended.Appended,
		Total:     appended.Total,
		Attempts:  appended.Attempts,
		EventIDs:  ids,
		BackupKey: appended.BackupKey,
		SyncedAt:  syncedAt,
	})
	return res, nil
}

// SyncAll syncs every kind, continuing past failures.
func (s *Syncer) SyncAll(ctx context.Context, dryRun bool) ([]Result, error) {
	var results []Result
	var errs []error
	for _, kind := range hockey.Kinds {
		res, err := s.Sync(ctx, kind, dryRun)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if res.Synced > 0 || len(res.EventIDs) > 0 {
			results = append(results, res)
		}
	}
	return results, errors.Join(errs...)
}

func (s *Syncer) publish(ctx context.Context, topic pubsub.EventType, msg any) {
	if s.pubsub == nil {
		return
	}
	if err := s.pubsub.SendMessage(ctx, topic, msg); err != nil {
		log.Warn("Failed to publish sync event", "topic", topic, "error", err)
	}
}
