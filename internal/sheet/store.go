package sheet

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/rinkstats/internal/cache"
	"github.com/mauv0809/rinkstats/internal/hockey"
	"github.com/mauv0809/rinkstats/internal/metrics"
	"github.com/sethvargo/go-retry"
	"github.com/vmihailenco/msgpack/v5"
)

// ErrSheetNotFound is returned by Read when the workbook has no such sheet.
var ErrSheetNotFound = errors.New("sheet not found")

const cacheKey = "workbook"

// Options configures a Store.
type Options struct {
	// Key is the workbook object key.
	Key string
	// BackupPrefix is the namespace for per-batch CSV snapshots.
	BackupPrefix string
	// Timeout bounds every call to the object store.
	Timeout  time.Duration
	CacheTTL time.Duration
	// MaxRetries bounds re-read and re-merge after a conflicting write.
	MaxRetries  uint64
	BaseBackoff time.Duration
	Now         func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Key == "" {
		o.Key = "hockey.xlsx"
	}
	if o.BackupPrefix == "" {
		o.BackupPrefix = "temp/"
	}
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	if o.MaxRetries == 0 {
		o.MaxRetries = 5
	}
	if o.BaseBackoff <= 0 {
		o.BaseBackoff = 100 * time.Millisecond
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// AppendRequest is one batch of rows for one sheet. Columns orders the header
// when the sheet does not exist yet.
type AppendRequest struct {
	Sheet   string
	Rows    []hockey.Record
	Columns []string
	// Kind and Team name the backup snapshot.
	Kind string
	Team string
}

// AppendResult describes a committed append.
type AppendResult struct {
	Sheet     string `json:"sheet"`
	Existing  int    `json:"existing"`
	Appended  int    `json:"appended"`
	Total     int    `json:"total"`
	Attempts  int    `json:"attempts"`
	ETag      string `json:"etag,omitempty"`
	BackupKey string `json:"backup_key,omitempty"`
}

// Store reads and appends sheets of the workbook object.
type Store struct {
	objects ObjectStore
	cache   cache.Cache
	metrics metrics.Metrics
	opts    Options

	// mu admits one writer per process. Writers in other processes are
	// detected by the conditional put.
	mu sync.Mutex
}

func NewStore(objects ObjectStore, c cache.Cache, m metrics.Metrics, opts Options) *Store {
	return &Store{
		objects: objects,
		cache:   c,
		metrics: m,
		opts:    opts.withDefaults(),
	}
}

type snapshot struct {
	ETag   string                  `msgpack:"etag"`
	Order  []string                `msgpack:"order"`
	Tables map[string]hockey.Table `msgpack:"tables"`
}

// Workbook returns the current workbook, served from cache when possible.
// A missing object yields ErrNotFound.
func (s *Store) Workbook(ctx context.Context) (*Workbook, error) {
	if wb, ok := s.cached(ctx); ok {
		return wb, nil
	}
	wb, etag, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	s.remember(ctx, wb, etag)
	return wb, nil
}

// Read returns one sheet.
func (s *Store) Read(ctx context.Context, sheet string) (hockey.Table, error) {
	wb, err := s.Workbook(ctx)
	if err != nil {
		return hockey.Table{}, err
	}
	t, ok := wb.Table(sheet)
	if !ok {
		return hockey.Table{}, fmt.Errorf("%w: %s", ErrSheetNotFound, sheet)
	}
	return t, nil
}

// Invalidate drops the cached workbook.
func (s *Store) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cacheKey); err != nil {
		log.Warn("Failed to invalidate workbook cache", "error", err)
	}
}

// Append merges the batch into the sheet and writes the workbook back with a
// conditional put. A conflicting write from another process triggers a fresh
// read and merge. An empty batch does nothing.
func (s *Store) Append(ctx context.Context, req AppendRequest) (AppendResult, error) {
	res := AppendResult{Sheet: req.Sheet}
	if len(req.Rows) == 0 {
		return res, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var added []hockey.Record
	var columns []string
	b := retry.WithMaxRetries(s.opts.MaxRetries, retry.NewExponential(s.opts.BaseBackoff))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		res.Attempts++
		r, cols, rows, err := s.appendOnce(ctx, req)
		if errors.Is(err, ErrPreconditionFailed) {
			s.metrics.IncStoreConflicts()
			log.Warn("Workbook changed during append, retrying", "sheet", req.Sheet, "attempt", res.Attempts)
			return retry.RetryableError(err)
		}
		if err != nil {
			return err
		}
		res.Existing, res.Appended, res.Total, res.ETag = r.Existing, r.Appended, r.Total, r.ETag
		columns, added = cols, rows
		return nil
	})
	if err != nil {
		return res, fmt.Errorf("failed to append %d rows to %s: %w", len(req.Rows), req.Sheet, err)
	}

	res.BackupKey = s.backup(ctx, req, columns, added)
	log.Info("Appended rows to sheet", "sheet", req.Sheet, "appended", res.Appended, "total", res.Total, "attempts", res.Attempts)
	return res, nil
}

func (s *Store) appendOnce(ctx context.Context, req AppendRequest) (AppendResult, []string, []hockey.Record, error) {
	wb, etag, err := s.load(ctx)
	put := PutOptions{IfMatch: etag, ContentType: ContentTypeXLSX}
	switch {
	case errors.Is(err, ErrNotFound):
		wb = NewWorkbook()
		put = PutOptions{IfNoneMatch: "*", ContentType: ContentTypeXLSX}
	case err != nil:
		return AppendResult{}, nil, nil, err
	}

	existing, _ := wb.Table(req.Sheet)
	merged, added := merge(req.Sheet, existing, req.Rows, req.Columns)
	wb.SetTable(req.Sheet, merged)

	body, err := wb.Encode()
	if err != nil {
		return AppendResult{}, nil, nil, err
	}

	putCtx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()
	newTag, err := s.objects.Put(putCtx, s.opts.Key, body, put)
	if err != nil {
		return AppendResult{}, nil, nil, err
	}
	s.remember(ctx, wb, newTag)

	return AppendResult{
		Existing: len(existing.Rows),
		Appended: len(added),
		Total:    len(merged.Rows),
		ETag:     newTag,
	}, merged.Columns, added, nil
}

// backup writes the audit snapshot. Failure is logged only; the append has
// already been committed.
func (s *Store) backup(ctx context.Context, req AppendRequest, columns []string, rows []hockey.Record) string {
	key := BackupKey(s.opts.BackupPrefix, req.Kind, req.Team, s.opts.Now())
	body, err := encodeCSV(columns, rows)
	if err != nil {
		log.Error("Failed to encode backup", "key", key, "error", err)
		return ""
	}
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()
	if _, err := s.objects.Put(ctx, key, body, PutOptions{ContentType: "text/csv"}); err != nil {
		log.Error("Failed to write backup", "key", key, "error", err)
		return ""
	}
	return key
}

func (s *Store) load(ctx context.Context) (*Workbook, string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()
	obj, err := s.objects.Get(ctx, s.opts.Key)
	if err != nil {
		return nil, "", err
	}
	wb, err := DecodeWorkbook(obj.Body)
	if err != nil {
		return nil, "", err
	}
	return wb, obj.ETag, nil
}

func (s *Store) cached(ctx context.Context) (*Workbook, bool) {
	if s.cache == nil {
		return nil, false
	}
	b, err := s.cache.Get(ctx, cacheKey)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			log.Warn("Workbook cache read failed", "error", err)
		}
		return nil, false
	}
	var snap snapshot
	if err := msgpack.Unmarshal(b, &snap); err != nil {
		log.Warn("Discarding unreadable workbook cache entry", "error", err)
		return nil, false
	}
	wb := NewWorkbook()
	for _, name := range snap.Order {
		wb.SetTable(name, snap.Tables[name])
	}
	return wb, true
}

func (s *Store) remember(ctx context.Context, wb *Workbook, etag string) {
	if s.cache == nil {
		return
	}
	b, err := msgpack.Marshal(snapshot{ETag: etag, Order: wb.order, Tables: wb.tables})
	if err != nil {
		log.Warn("Failed to encode workbook cache entry", "error", err)
		return
	}
	if err := s.cache.Set(ctx, cacheKey, b, s.opts.CacheTTL); err != nil {
		log.Warn("Workbook cache write failed", "error", err)
	}
}
