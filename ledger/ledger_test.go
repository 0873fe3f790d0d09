package ledger

import (
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guardian-bot/utils/database"
)

type fakeEnforcer struct {
	timeouts []fakeTimeout
	fail     bool
}

type fakeTimeout struct {
	guildID string
	userID  string
	until   time.Time
	reason  string
}

func (f *fakeEnforcer) TimeoutMember(guildID, userID string, until time.Time, reason string) error {
	if f.fail {
		return errors.New("missing permissions")
	}
	f.timeouts = append(f.timeouts, fakeTimeout{guildID, userID, until, reason})
	return nil
}

func newTestLedger(t *testing.T) (*Ledger, *fakeEnforcer, *sqlx.DB) {
	t.Helper()
	db, err := database.InitStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	enf := &fakeEnforcer{}
	return New(db, enf), enf, db
}

func TestThirdWarningEscalates(t *testing.T) {
	assert := assert.New(t)
	l, enf, _ := newTestLedger(t)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return base }

	count, escalated, err := l.IssueWarning("g1", "u1", "mod1", "spam")
	assert.NoError(err)
	assert.Equal(1, count)
	assert.False(escalated)

	count, escalated, err = l.IssueWarning("g1", "u1", "mod1", "spam again")
	assert.NoError(err)
	assert.Equal(2, count)
	assert.False(escalated)

	count, escalated, err = l.IssueWarning("g1", "u1", "mod2", "still spamming")
	assert.NoError(err)
	assert.Equal(3, count)
	assert.True(escalated)

	assert.Len(enf.timeouts, 1)
	assert.Equal("g1", enf.timeouts[0].guildID)
	assert.Equal("u1", enf.timeouts[0].userID)
	assert.Equal(base.Add(EscalationTimeout), enf.timeouts[0].until)

	// A 4th active warning does not re-apply the timeout.
	count, escalated, err = l.IssueWarning("g1", "u1", "mod1", "again")
	assert.NoError(err)
	assert.Equal(4, count)
	assert.False(escalated)
	assert.Len(enf.timeouts, 1)
}

func TestExpiredWarningsStartFreshCycle(t *testing.T) {
	assert := assert.New(t)
	l, enf, _ := newTestLedger(t)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := base
	l.now = func() time.Time { return now }

	l.IssueWarning("g1", "u1", "mod1", "one")
	l.IssueWarning("g1", "u1", "mod1", "two")

	// 15 days later the first two have expired; this is warning 1 of a
	// fresh cycle, not the escalating 3rd.
	now = base.Add(15 * 24 * time.Hour)
	count, escalated, err := l.IssueWarning("g1", "u1", "mod1", "three")
	assert.NoError(err)
	assert.Equal(1, count)
	assert.False(escalated)
	assert.Empty(enf.timeouts)

	// Two more inside the window escalate as usual.
	l.IssueWarning("g1", "u1", "mod1", "four")
	count, escalated, err = l.IssueWarning("g1", "u1", "mod1", "five")
	assert.NoError(err)
	assert.Equal(3, count)
	assert.True(escalated)
	assert.Len(enf.timeouts, 1)
}

func TestEscalationSurvivesEnforcerFailure(t *testing.T) {
	assert := assert.New(t)
	l, enf, _ := newTestLedger(t)
	enf.fail = true

	l.IssueWarning("g1", "u1", "mod1", "one")
	l.IssueWarning("g1", "u1", "mod1", "two")
	count, escalated, err := l.IssueWarning("g1", "u1", "mod1", "three")
	assert.NoError(err)
	assert.Equal(3, count)
	assert.True(escalated)
}

func TestWarningsAreGuildScoped(t *testing.T) {
	assert := assert.New(t)
	l, enf, _ := newTestLedger(t)

	l.IssueWarning("g1", "u1", "mod1", "one")
	l.IssueWarning("g1", "u1", "mod1", "two")
	count, escalated, err := l.IssueWarning("g2", "u1", "mod1", "elsewhere")
	assert.NoError(err)
	assert.Equal(1, count)
	assert.False(escalated)
	assert.Empty(enf.timeouts)
}

func TestListActiveOrdering(t *testing.T) {
	assert := assert.New(t)
	l, _, _ := newTestLedger(t)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := base
	l.now = func() time.Time { return now }

	// u1 warned first but only once; u2 warned twice; u3 warned twice,
	// first warning after u2's.
	l.IssueWarning("g1", "u1", "mod1", "a")
	now = base.Add(time.Minute)
	l.IssueWarning("g1", "u2", "mod1", "b")
	now = base.Add(2 * time.Minute)
	l.IssueWarning("g1", "u3", "mod1", "c")
	now = base.Add(3 * time.Minute)
	l.IssueWarning("g1", "u2", "mod1", "d")
	now = base.Add(4 * time.Minute)
	l.IssueWarning("g1", "u3", "mod1", "e")

	counts, err := l.ListActive("g1")
	assert.NoError(err)
	require.Len(t, counts, 3)
	assert.Equal("u2", counts[0].UserID)
	assert.Equal(2, counts[0].Count)
	assert.Equal("u3", counts[1].UserID)
	assert.Equal(2, counts[1].Count)
	assert.Equal("u1", counts[2].UserID)
	assert.Equal(1, counts[2].Count)
}

func TestListActivePurgesExpired(t *testing.T) {
	assert := assert.New(t)
	l, _, db := newTestLedger(t)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := base
	l.now = func() time.Time { return now }

	l.IssueWarning("g1", "u1", "mod1", "old")
	now = base.Add(20 * 24 * time.Hour)
	l.IssueWarning("g1", "u2", "mod1", "recent")

	counts, err := l.ListActive("g1")
	assert.NoError(err)
	require.Len(t, counts, 1)
	assert.Equal("u2", counts[0].UserID)

	// The purge actually deleted the expired row.
	var total int
	assert.NoError(db.Get(&total, "SELECT COUNT(*) FROM warnings"))
	assert.Equal(1, total)

	// Purging again is a no-op.
	assert.NoError(l.PurgeExpired())
}
