package database

import (
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guardian-bot/model"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := InitStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestGuildSettingsRoundTrip(t *testing.T) {
	assert := assert.New(t)
	db := newTestDB(t)

	_, err := GetGuildSettings(db, "g1")
	assert.Equal(model.ErrNotFound, err)

	gs := model.GuildSettings{GuildID: "g1", LogChannelID: "c1", GreetingChannelID: "c2", Prefix: "?"}
	require.NoError(t, UpsertGuildSettings(db, gs))

	got, err := GetGuildSettings(db, "g1")
	require.NoError(t, err)
	assert.Equal(gs, *got)

	// Upserting again replaces the row instead of erroring.
	gs.LogChannelID = "c9"
	require.NoError(t, UpsertGuildSettings(db, gs))
	got, err = GetGuildSettings(db, "g1")
	require.NoError(t, err)
	assert.Equal("c9", got.LogChannelID)

	all, err := LoadAllGuildSettings(db)
	require.NoError(t, err)
	assert.Len(all, 1)
	assert.Equal("c9", all["g1"].LogChannelID)
}

func TestPendingActionsOrderedByFireTime(t *testing.T) {
	assert := assert.New(t)
	db := newTestDB(t)
	base := time.Now().UTC().Truncate(time.Second)

	add := func(id string, fireAt time.Time, status model.ActionStatus) {
		require.NoError(t, AddScheduledAction(db, model.ScheduledAction{
			ID: id, GuildID: "g1", Kind: model.ActionReminder, UserID: "u1",
			FireAt: fireAt, CreatedAt: base, Status: status,
		}))
	}
	add("late", base.Add(2*time.Hour), model.StatusPending)
	add("early", base.Add(time.Hour), model.StatusPending)
	add("done", base.Add(time.Minute), model.StatusFired)

	pending, err := GetPendingActions(db)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal("early", pending[0].ID)
	assert.Equal("late", pending[1].ID)

	won, err := TransitionActionStatus(db, "early", model.StatusPending, model.StatusCancelled)
	require.NoError(t, err)
	assert.True(won)

	pending, err = GetPendingActions(db)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal("late", pending[0].ID)
}

func TestTransitionLosesWhenStatusMoved(t *testing.T) {
	assert := assert.New(t)
	db := newTestDB(t)

	require.NoError(t, AddScheduledAction(db, model.ScheduledAction{
		ID: "a1", GuildID: "g1", Kind: model.ActionReminder, UserID: "u1",
		FireAt: time.Now().UTC(), CreatedAt: time.Now().UTC(), Status: model.StatusPending,
	}))

	won, err := TransitionActionStatus(db, "a1", model.StatusPending, model.StatusFired)
	require.NoError(t, err)
	assert.True(won)

	won, err = TransitionActionStatus(db, "a1", model.StatusPending, model.StatusCancelled)
	require.NoError(t, err)
	assert.False(won)
}
