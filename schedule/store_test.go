package schedule

import (
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modbot/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	store, err := NewStore(db)
	require.NoError(t, err)
	return store
}

func testJob(fireAt time.Time) model.ScheduledJob {
	return model.ScheduledJob{
		GuildID:   "g1",
		ChannelID: "c1",
		Title:     "Movie night",
		Theme:     "Film noir",
		PingSpec:  "everyone",
		FireAt:    fireAt,
		CreatorID: "u1",
	}
}

func TestStore_CreateRejectsPastTime(t *testing.T) {
	store := newTestStore(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	var invalid *InvalidTimeError
	_, err := store.Create(testJob(now.Add(-time.Minute)))
	require.ErrorAs(t, err, &invalid)

	// Exactly now is not strictly in the future either.
	_, err = store.Create(testJob(now))
	require.ErrorAs(t, err, &invalid)

	jobs, err := store.List("")
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestStore_CreateListCancel(t *testing.T) {
	store := newTestStore(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	id, err := store.Create(testJob(now.Add(time.Hour)))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "SCH-"))

	id2, err := store.Create(testJob(now.Add(2 * time.Hour)))
	require.NoError(t, err)
	assert.NotEqual(t, id, id2)

	jobs, err := store.List("g1")
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, id, jobs[0].ID, "list is soonest-first")

	jobs, err = store.List("other-guild")
	require.NoError(t, err)
	assert.Empty(t, jobs)

	require.NoError(t, store.Cancel(id))
	assert.ErrorIs(t, store.Cancel(id), ErrNotFound)

	jobs, err = store.List("g1")
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, id2, jobs[0].ID)
}

func TestStore_Due(t *testing.T) {
	store := newTestStore(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	early, err := store.Create(testJob(now.Add(time.Minute)))
	require.NoError(t, err)
	_, err = store.Create(testJob(now.Add(time.Hour)))
	require.NoError(t, err)

	due, err := store.Due(now.Add(30 * time.Minute))
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, early, due[0].ID)

	due, err = store.Due(now.Add(2 * time.Hour))
	require.NoError(t, err)
	assert.Len(t, due, 2)
}
