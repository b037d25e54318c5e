package journal

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/rinkstats/internal/hockey"
)

type store struct {
	db *sql.DB
	mu sync.Mutex
}

// New creates a Journal backed by the events table.
func New(db *sql.DB) Journal {
	return &store{db: db}
}

const selectEntries = `SELECT id, seq, kind, team, opponent, game_date, payload, submitted_at, sync_status, synced_at, sync_error FROM events`

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *store) Insert(ctx context.Context, entries []Entry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO events (id, seq, kind, team, opponent, game_date, payload, submitted_at, sync_status)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM events), ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING;
	`)
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	defer stmt.Close()

	inserted := 0
	for _, e := range entries {
		res, err := stmt.ExecContext(ctx, e.ID, string(e.Kind), e.Team, e.Opponent, e.GameDate, string(e.Payload), e.SubmittedAt.UnixMilli(), string(StatusPending))
		if err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("failed to insert event %s: %w", e.ID, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	if skipped := len(entries) - inserted; skipped > 0 {
		log.Info("Skipped events already in the journal", "skipped", skipped)
	}
	return inserted, nil
}

func (s *store) Pending(ctx context.Context, kind hockey.Kind) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return query(ctx, s.db, selectEntries+` WHERE kind = ? AND sync_status IN (?, ?) ORDER BY seq`,
		string(kind), string(StatusPending), string(StatusFailed))
}

func (s *store) Claim(ctx context.Context, kind hockey.Kind, at time.Time, lease time.Duration) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token := uuid.NewString()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE events SET sync_status = ?, claim_token = ?, claimed_at = ?
		WHERE kind = ? AND (sync_status IN (?, ?) OR (sync_status = ? AND claimed_at < ?));
	`, string(StatusSyncing), token, at.UnixMilli(),
		string(kind), string(StatusPending), string(StatusFailed), string(StatusSyncing), at.Add(-lease).UnixMilli())
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to claim %s events: %w", kind, err)
	}
	entries, err := query(ctx, tx, selectEntries+` WHERE claim_token = ? ORDER BY seq`, token)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *store) MarkSynced(ctx context.Context, ids []string, at time.Time) error {
	return s.update(ctx, ids, `UPDATE events SET sync_status = ?, synced_at = ?, sync_error = NULL, claim_token = NULL, claimed_at = NULL WHERE id = ?`,
		string(StatusSynced), at.UnixMilli())
}

func (s *store) MarkFailed(ctx context.Context, ids []string, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	return s.update(ctx, ids, `UPDATE events SET sync_status = ?, sync_error = ?, claim_token = NULL, claimed_at = NULL WHERE id = ? AND sync_status != 'SYNCED'`,
		string(StatusFailed), msg)
}

func (s *store) update(ctx context.Context, ids []string, query string, args ...any) error {
	if len(ids) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, id := range ids {
		if _, err := stmt.ExecContext(ctx, append(args, id)...); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to update event %s: %w", id, err)
		}
	}
	return tx.Commit()
}

func (s *store) List(ctx context.Context, f Filter) ([]Entry, error) {
	var (
		where []string
		args  []any
	)
	if f.Kind != "" {
		where = append(where, "kind = ?")
		args = append(args, string(f.Kind))
	}
	if f.Status != "" {
		where = append(where, "sync_status = ?")
		args = append(args, string(f.Status))
	}
	if f.Team != "" {
		where = append(where, "team = ?")
		args = append(args, f.Team)
	}
	q := selectEntries
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY seq DESC"
	if f.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, f.Limit)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return query(ctx, s.db, q, args...)
}

func (s *store) Counts(ctx context.Context) ([]Count, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `SELECT kind, sync_status, COUNT(*) FROM events GROUP BY kind, sync_status ORDER BY kind, sync_status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []Count
	for rows.Next() {
		var c Count
		var kind, status string
		if err := rows.Scan(&kind, &status, &c.N); err != nil {
			return nil, err
		}
		c.Kind, c.Status = hockey.Kind(kind), SyncStatus(status)
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func query(ctx context.Context, db queryer, q string, args ...any) ([]Entry, error) {
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e            Entry
			kind, status string
			payload      string
			submitted    int64
			syncedAt     sql.NullInt64
			syncErr      sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.Seq, &kind, &e.Team, &e.Opponent, &e.GameDate, &payload, &submitted, &status, &syncedAt, &syncErr); err != nil {
			return nil, err
		}
		e.Kind = hockey.Kind(kind)
		e.Status = SyncStatus(status)
		e.Payload = []byte(payload)
		e.SubmittedAt = time.UnixMilli(submitted).UTC()
		if syncedAt.Valid {
			t := time.UnixMilli(syncedAt.Int64).UTC()
			e.SyncedAt = &t
		}
		e.SyncError = syncErr.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
