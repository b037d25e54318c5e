package journal_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mauv0809/rinkstats/internal/database"
	"github.com/mauv0809/rinkstats/internal/hockey"
	"github.com/mauv0809/rinkstats/internal/journal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates an in-memory SQLite journal for testing.
func setupTestDB(t *testing.T) (journal.Journal, func()) {
	t.Helper()

	db, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)

	return journal.New(db), func() { db.Close() }
}

func faceoffEntry(t *testing.T, id string, jersey int, at time.Time) journal.Entry {
	t.Helper()
	e, err := journal.NewEntry(id, hockey.FaceoffEvent{
		Game:         hockey.Game{GameDate: "2024-12-01", Team: "Varsity", Opponent: "York"},
		Period:       hockey.Period1,
		JerseyNumber: jersey,
		Win:          7,
		Lose:         3,
	}, at)
	require.NoError(t, err)
	return e
}

func TestInsertIsIdempotentOnID(t *testing.T) {
	j, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()
	now := time.Date(2024, 12, 1, 18, 0, 0, 0, time.UTC)

	n, err := j.Insert(ctx, []journal.Entry{faceoffEntry(t, "a", 17, now), faceoffEntry(t, "b", 9, now.Add(time.Second))})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = j.Insert(ctx, []journal.Entry{faceoffEntry(t, "a", 17, now), faceoffEntry(t, "c", 4, now.Add(2*time.Second))})
	require.NoError(t, err)
	assert.Equal(t, 1, n, "a resent id is skipped")

	pending, err := j.Pending(ctx, hockey.KindFaceoff)
	require.NoError(t, err)
	require.Len(t, pending, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{pending[0].ID, pending[1].ID, pending[2].ID})
	assert.Equal(t, now, pending[0].SubmittedAt)
	assert.Equal(t, journal.StatusPending, pending[0].Status)

	ev, err := pending[0].Event()
	require.NoError(t, err)
	f, ok := ev.(hockey.FaceoffEvent)
	require.True(t, ok)
	assert.Equal(t, 17, f.JerseyNumber)
	assert.Equal(t, 7, f.Win)
}

func TestSyncStatusTransitions(t *testing.T) {
	j, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()
	now := time.Date(2024, 12, 1, 18, 0, 0, 0, time.UTC)

	_, err := j.Insert(ctx, []journal.Entry{
		faceoffEntry(t, "a", 17, now),
		faceoffEntry(t, "b", 9, now.Add(time.Second)),
	})
	require.NoError(t, err)

	require.NoError(t, j.MarkFailed(ctx, []string{"a", "b"}, errors.New("bucket unreachable")))
	pending, err := j.Pending(ctx, hockey.KindFaceoff)
	require.NoError(t, err)
	require.Len(t, pending, 2, "failed entries stay pending for retry")
	assert.Equal(t, journal.StatusFailed, pending[0].Status)
	assert.Equal(t, "bucket unreachable", pending[0].SyncError)

	syncedAt := now.Add(time.Minute)
	require.NoError(t, j.MarkSynced(ctx, []string{"a"}, syncedAt))
	require.NoError(t, j.MarkFailed(ctx, []string{"a"}, errors.New("late failure")))

	pending, err = j.Pending(ctx, hockey.KindFaceoff)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "b", pending[0].ID)

	synced, err := j.List(ctx, journal.Filter{Status: journal.StatusSynced})
	require.NoError(t, err)
	require.Len(t, synced, 1)
	require.NotNil(t, synced[0].SyncedAt)
	assert.Equal(t, syncedAt, *synced[0].SyncedAt)
	assert.Empty(t, synced[0].SyncError, "a synced entry cannot be failed afterwards")

	counts, err := j.Counts(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []journal.Count{
		{Kind: hockey.KindFaceoff, Status: journal.StatusFailed, N: 1},
		{Kind: hockey.KindFaceoff, Status: journal.StatusSynced, N: 1},
	}, counts)
}

func TestListFilters(t *testing.T) {
	j, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()
	now := time.Date(2024, 12, 1, 18, 0, 0, 0, time.UTC)

	shot, err := journal.NewEntry("s1", hockey.ShotEvent{
		Game:         hockey.Game{GameDate: "2024-12-01", Team: "JV", Opponent: "York"},
		Period:       hockey.Period2,
		JerseyNumber: 4,
		ShootingTeam: "Stevenson",
		ShootZone:    "Slot",
	}, now.Add(time.Hour))
	require.NoError(t, err)
	_, err = j.Insert(ctx, []journal.Entry{faceoffEntry(t, "f1", 17, now), faceoffEntry(t, "f2", 9, now.Add(time.Minute)), shot})
	require.NoError(t, err)

	all, err := j.List(ctx, journal.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "s1", all[0].ID, "newest first")

	jv, err := j.List(ctx, journal.Filter{Team: "JV"})
	require.NoError(t, err)
	require.Len(t, jv, 1)
	assert.Equal(t, hockey.KindShots, jv[0].Kind)

	limited, err := j.List(ctx, journal.Filter{Kind: hockey.KindFaceoff, Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "f2", limited[0].ID)
}

func TestPendingKeepsInsertionOrder(t *testing.T) {
	j, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()
	now := time.Date(2024, 12, 1, 18, 0, 0, 0, time.UTC)

	// One batch shares a timestamp and its ids are random.
	_, err := j.Insert(ctx, []journal.Entry{
		faceoffEntry(t, "f7c1", 17, now),
		faceoffEntry(t, "0a2e", 9, now),
		faceoffEntry(t, "93bd", 4, now),
	})
	require.NoError(t, err)
	_, err = j.Insert(ctx, []journal.Entry{faceoffEntry(t, "01aa", 22, now)})
	require.NoError(t, err)

	pending, err := j.Pending(ctx, hockey.KindFaceoff)
	require.NoError(t, err)
	require.Len(t, pending, 4)
	assert.Equal(t, []string{"f7c1", "0a2e", "93bd", "01aa"},
		[]string{pending[0].ID, pending[1].ID, pending[2].ID, pending[3].ID})
	assert.Less(t, pending[0].Seq, pending[1].Seq)

	claimed, err := j.Claim(ctx, hockey.KindFaceoff, now, time.Minute)
	require.NoError(t, err)
	require.Len(t, claimed, 4)
	assert.Equal(t, "f7c1", claimed[0].ID)
	assert.Equal(t, "01aa", claimed[3].ID)

	all, err := j.List(ctx, journal.Filter{})
	require.NoError(t, err)
	assert.Equal(t, "01aa", all[0].ID, "newest first")
}

func TestClaimIsExclusiveUntilLeaseRunsOut(t *testing.T) {
	j, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()
	now := time.Date(2024, 12, 1, 18, 0, 0, 0, time.UTC)
	lease := 10 * time.Minute

	_, err := j.Insert(ctx, []journal.Entry{faceoffEntry(t, "a", 17, now), faceoffEntry(t, "b", 9, now)})
	require.NoError(t, err)

	first, err := j.Claim(ctx, hockey.KindFaceoff, now, lease)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, journal.StatusSyncing, first[0].Status)

	second, err := j.Claim(ctx, hockey.KindFaceoff, now.Add(time.Minute), lease)
	require.NoError(t, err)
	assert.Empty(t, second, "claimed entries are not handed out twice")

	pending, err := j.Pending(ctx, hockey.KindFaceoff)
	require.NoError(t, err)
	assert.Empty(t, pending)

	// Failing releases the claim; a new entry joins the next claim.
	require.NoError(t, j.MarkFailed(ctx, []string{"a"}, errors.New("bucket unreachable")))
	_, err = j.Insert(ctx, []journal.Entry{faceoffEntry(t, "c", 4, now)})
	require.NoError(t, err)
	third, err := j.Claim(ctx, hockey.KindFaceoff, now.Add(2*time.Minute), lease)
	require.NoError(t, err)
	require.Len(t, third, 2)
	assert.Equal(t, []string{"a", "c"}, []string{third[0].ID, third[1].ID})

	// b was never released; it becomes claimable once its lease is over.
	stale, err := j.Claim(ctx, hockey.KindFaceoff, now.Add(lease+time.Second), lease)
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, "b", stale[0].ID)

	require.NoError(t, j.MarkSynced(ctx, []string{"a", "b", "c"}, now.Add(lease)))
	counts, err := j.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []journal.Count{{Kind: hockey.KindFaceoff, Status: journal.StatusSynced, N: 3}}, counts)
}
