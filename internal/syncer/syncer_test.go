package syncer

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/mauv0809/rinkstats/internal/cache"
	"github.com/mauv0809/rinkstats/internal/database"
	"github.com/mauv0809/rinkstats/internal/hockey"
	"github.com/mauv0809/rinkstats/internal/journal"
	"github.com/mauv0809/rinkstats/internal/metrics"
	"github.com/mauv0809/rinkstats/internal/pubsub"
	"github.com/mauv0809/rinkstats/internal/sheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = func() time.Time { return time.Date(2024, 12, 1, 18, 0, 0, 0, time.UTC) }

type fixture struct {
	syncer  *Syncer
	journal journal.Journal
	store   *sheet.Store
	objects *sheet.MemoryStore
	pubsub  *pubsub.MockPubSubClient
	metrics *metrics.Mock
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	m := metrics.NewMock()
	objects := sheet.NewMemoryStore()
	store := sheet.NewStore(objects, cache.NewMemoryCache(), m, sheet.Options{
		Key:         "hockey.xlsx",
		BaseBackoff: time.Millisecond,
		Now:         fixedNow,
	})
	j := journal.New(db)
	ps := pubsub.NewMock()
	s := New(j, store, ps, m)
	s.now = fixedNow
	return &fixture{syncer: s, journal: j, store: store, objects: objects, pubsub: ps, metrics: m}
}

func faceoffRecord(jersey, win, lose string) hockey.Record {
	return hockey.Record{
		hockey.ColGameDate:     "2024-12-01",
		hockey.ColTeam:         "Varsity",
		hockey.ColOpponent:     "York",
		hockey.ColPeriod:       "1",
		hockey.ColJerseyNumber: jersey,
		hockey.ColWin:          win,
		hockey.ColLose:         lose,
	}
}

func TestSubmitJournalsAndSyncs(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	sub, err := f.syncer.Submit(ctx, Batch{
		Kind:    hockey.KindFaceoff,
		Records: []hockey.Record{faceoffRecord("17", "7", "3"), faceoffRecord("9", "2", "4")},
	}, false)
	require.NoError(t, err)

	assert.Equal(t, 2, sub.Accepted)
	assert.Len(t, sub.IDs, 2)
	require.NotNil(t, sub.Sync)
	assert.Equal(t, 2, sub.Sync.Synced)
	assert.Equal(t, 2, sub.Sync.Append.Total)

	table, err := f.store.Read(ctx, hockey.KindFaceoff.Sheet())
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "17", table.Rows[0][hockey.ColJerseyNumber])

	pending, err := f.journal.Pending(ctx, hockey.KindFaceoff)
	require.NoError(t, err)
	assert.Empty(t, pending)

	assert.Equal(t, 2, f.metrics.EventsSubmitted("faceoff"))
	assert.Equal(t, 1, f.metrics.SyncRuns("faceoff"))

	sent := f.pubsub.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, pubsub.EventBatchSynced, sent[0].Topic)
	msg, ok := sent[0].Data.(pubsub.BatchSynced)
	require.True(t, ok)
	assert.Equal(t, 2, msg.Count)
	assert.Equal(t, []string{"Varsity"}, msg.Teams)
	assert.NotEmpty(t, msg.BackupKey)
}

func TestSubmitKeepsRowOrder(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	var (
		records []hockey.Record
		want    []string
	)
	for i := 1; i <= 40; i++ {
		jersey := strconv.Itoa(i)
		records = append(records, faceoffRecord(jersey, "1", "0"))
		want = append(want, jersey)
	}
	_, err := f.syncer.Submit(ctx, Batch{Kind: hockey.KindFaceoff, Records: records}, false)
	require.NoError(t, err)

	table, err := f.store.Read(ctx, hockey.KindFaceoff.Sheet())
	require.NoError(t, err)
	got := make([]string, 0, len(table.Rows))
	for _, row := range table.Rows {
		got = append(got, row[hockey.ColJerseyNumber])
	}
	assert.Equal(t, want, got)
}

func TestSyncClaimsEvents(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	e, err := journal.NewEntry("f-1", hockey.FaceoffEvent{
		Game:         hockey.Game{GameDate: "2024-12-01", Team: "Varsity", Opponent: "York"},
		Period:       hockey.Period1,
		JerseyNumber: 17,
		Win:          7,
		Lose:         3,
	}, fixedNow())
	require.NoError(t, err)

	mock := journal.NewMock()
	claimed := false
	mock.ClaimFunc = func(_ context.Context, _ hockey.Kind, at time.Time, lease time.Duration) ([]journal.Entry, error) {
		assert.Equal(t, fixedNow(), at)
		assert.Equal(t, claimLease, lease)
		if claimed {
			return nil, nil
		}
		claimed = true
		return []journal.Entry{e}, nil
	}
	mock.PendingFunc = func(context.Context, hockey.Kind) ([]journal.Entry, error) {
		t.Fatal("a real sync must claim its events")
		return nil, nil
	}
	f.syncer.journal = mock

	res, err := f.syncer.Sync(ctx, hockey.KindFaceoff, false)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Synced)
	assert.Equal(t, [][]string{{"f-1"}}, mock.MarkSyncedCalls)

	// A second instance finds nothing left to claim.
	res, err = f.syncer.Sync(ctx, hockey.KindFaceoff, false)
	require.NoError(t, err)
	assert.Zero(t, res.Synced)
	assert.Len(t, mock.ClaimCalls, 2)
}

func TestSubmitReportsFieldIssues(t *testing.T) {
	f := setup(t)

	sub, err := f.syncer.Submit(context.Background(), Batch{
		Kind:    hockey.KindFaceoff,
		Records: []hockey.Record{faceoffRecord("17", "seven", "3")},
	}, false)
	require.NoError(t, err)

	require.Len(t, sub.Issues, 1)
	assert.Equal(t, 1, sub.Issues[0].Row)
	assert.Equal(t, hockey.ColWin, sub.Issues[0].Column)
	assert.Equal(t, 1, sub.Accepted)
}

func TestSubmitRejectsInvalidEvents(t *testing.T) {
	f := setup(t)
	rec := faceoffRecord("17", "7", "3")
	rec[hockey.ColOpponent] = ""

	_, err := f.syncer.Submit(context.Background(), Batch{Kind: hockey.KindFaceoff, Records: []hockey.Record{rec}}, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, hockey.ErrInvalidEvent)

	entries, err := f.journal.List(context.Background(), journal.Filter{})
	require.NoError(t, err)
	assert.Empty(t, entries, "nothing is journaled when validation fails")
}

func TestSubmitRejectsMissingKeyColumn(t *testing.T) {
	f := setup(t)
	rec := faceoffRecord("17", "7", "3")
	delete(rec, hockey.ColJerseyNumber)

	_, err := f.syncer.Submit(context.Background(), Batch{Kind: hockey.KindFaceoff, Records: []hockey.Record{rec}}, false)
	assert.ErrorIs(t, err, hockey.ErrMissingColumn)
}

func TestSubmitRejectsMixedKinds(t *testing.T) {
	f := setup(t)
	shot := hockey.ShotEvent{
		Game:         hockey.Game{GameDate: "2024-12-01", Team: "Varsity", Opponent: "York"},
		Period:       hockey.Period1,
		JerseyNumber: 9,
		ShootingTeam: "Varsity",
		ShootZone:    "Slot",
	}
	_, err := f.syncer.Submit(context.Background(), Batch{Kind: hockey.KindFaceoff, Events: []hockey.Event{shot}}, false)
	assert.ErrorIs(t, err, hockey.ErrInvalidEvent)
}

func TestSubmitEmptyBatchIsNoop(t *testing.T) {
	f := setup(t)

	sub, err := f.syncer.Submit(context.Background(), Batch{Kind: hockey.KindShots}, false)
	require.NoError(t, err)
	assert.Zero(t, sub.Accepted)
	assert.Nil(t, sub.Sync)
	assert.Empty(t, f.objects.Keys(""))
}

func TestSubmitWithSubmissionIDIsIdempotent(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	b := Batch{
		Kind:         hockey.KindFaceoff,
		SubmissionID: "form-42",
		Records:      []hockey.Record{faceoffRecord("17", "7", "3")},
	}

	first, err := f.syncer.Submit(ctx, b, false)
	require.NoError(t, err)
	second, err := f.syncer.Submit(ctx, b, false)
	require.NoError(t, err)

	assert.Equal(t, first.IDs, second.IDs)
	assert.Equal(t, 0, second.Accepted)
	require.NotNil(t, second.Sync)
	assert.Zero(t, second.Sync.Synced)

	table, err := f.store.Read(ctx, hockey.KindFaceoff.Sheet())
	require.NoError(t, err)
	assert.Len(t, table.Rows, 1, "a resent batch is not appended twice")
}

func TestSubmitDryRunWritesNothing(t *testing.T) {
	f := setup(t)

	sub, err := f.syncer.Submit(context.Background(), Batch{
		Kind:    hockey.KindFaceoff,
		Records: []hockey.Record{faceoffRecord("17", "7", "3")},
	}, true)
	require.NoError(t, err)
	assert.True(t, sub.DryRun)
	assert.Equal(t, 1, sub.Accepted)

	entries, err := f.journal.List(context.Background(), journal.Filter{})
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Empty(t, f.objects.Keys(""))
}

type failingAppender struct {
	err   error
	calls int
}

func (a *failingAppender) Append(context.Context, sheet.AppendRequest) (sheet.AppendResult, error) {
	a.calls++
	return sheet.AppendResult{}, a.err
}

func TestSyncFailureKeepsEventsPending(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	storeErr := errors.New("s3 unavailable")
	f.syncer.store = &failingAppender{err: storeErr}

	sub, err := f.syncer.Submit(ctx, Batch{
		Kind:    hockey.KindFaceoff,
		Records: []hockey.Record{faceoffRecord("17", "7", "3")},
	}, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSyncFailed)
	assert.ErrorIs(t, err, storeErr)
	assert.Equal(t, 1, sub.Accepted, "events are journaled before the sync")

	pending, err := f.journal.Pending(ctx, hockey.KindFaceoff)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, journal.StatusFailed, pending[0].Status)
	assert.Equal(t, 1, f.metrics.SyncFailures("faceoff"))

	sent := f.pubsub.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, pubsub.EventSyncFailed, sent[0].Topic)

	// The next sync against a healthy store drains the backlog.
	f.syncer.store = f.store
	res, err := f.syncer.Sync(ctx, hockey.KindFaceoff, false)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Synced)

	pending, err = f.journal.Pending(ctx, hockey.KindFaceoff)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestSyncAllCoversEveryKind(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	at := fixedNow()

	shot, err := journal.NewEntry("shot-1", hockey.ShotEvent{
		Game:         hockey.Game{GameDate: "2024-12-01", Team: "Varsity", Opponent: "York"},
		Period:       hockey.Period2,
		JerseyNumber: 9,
		ShootingTeam: "Varsity",
		ShootZone:    "Slot",
	}, at)
	require.NoError(t, err)
	goalie, err := journal.NewEntry("goalie-1", hockey.GoalieEvent{
		Game:         hockey.Game{GameDate: "2024-12-01", Team: "Varsity", Opponent: "York"},
		Period:       hockey.Period1,
		JerseyNumber: 30,
		ShotsAgainst: 10,
		Saves:        9,
		GoalsAgainst: 1,
	}, at)
	require.NoError(t, err)
	_, err = f.journal.Insert(ctx, []journal.Entry{shot, goalie})
	require.NoError(t, err)

	results, err := f.syncer.SyncAll(ctx, false)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, hockey.KindShots, results[0].Kind)
	assert.Equal(t, hockey.KindGoalie, results[1].Kind)

	wb, err := f.store.Workbook(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Shots", "Golie"}, wb.Sheets())
}

func TestSyncDryRunLeavesEventsPending(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	e, err := journal.NewEntry("f-1", hockey.FaceoffEvent{
		Game:         hockey.Game{GameDate: "2024-12-01", Team: "Varsity", Opponent: "York"},
		Period:       hockey.Period1,
		JerseyNumber: 17,
		Win:          7,
		Lose:         3,
	}, fixedNow())
	require.NoError(t, err)
	_, err = f.journal.Insert(ctx, []journal.Entry{e})
	require.NoError(t, err)

	res, err := f.syncer.Sync(ctx, hockey.KindFaceoff, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"f-1"}, res.EventIDs)
	assert.Zero(t, res.Synced)

	pending, err := f.journal.Pending(ctx, hockey.KindFaceoff)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
	assert.Empty(t, f.objects.Keys(""))
}
