package detectors

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"guardian-bot/tracker"
)

func TestRaidTriggersExactlyOnce(t *testing.T) {
	assert := assert.New(t)

	e := New(tracker.New())
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < RaidThreshold-1; i++ {
		assert.False(e.RecordJoin("guild1", now.Add(time.Duration(i)*time.Second)))
	}

	// The 5th join inside 10 seconds is the trigger.
	assert.True(e.RecordJoin("guild1", now.Add(4*time.Second)))

	// A 6th join in the same window does not re-trigger.
	assert.False(e.RecordJoin("guild1", now.Add(5*time.Second)))

	// Unrelated guilds keep their own window.
	assert.False(e.RecordJoin("guild2", now))
}

func TestRaidWindowExpires(t *testing.T) {
	assert := assert.New(t)

	e := New(tracker.New())
	now := time.Unix(1_700_000_000, 0)

	for i := 0; i < 4; i++ {
		e.RecordJoin("guild1", now)
	}
	// Joins spread past the window never accumulate to the threshold.
	assert.False(e.RecordJoin("guild1", now.Add(RaidWindow+time.Second)))
}

func TestRaidResetAllowsRetrigger(t *testing.T) {
	assert := assert.New(t)

	e := New(tracker.New())
	now := time.Unix(1_700_000_000, 0)

	for i := 0; i < RaidThreshold; i++ {
		e.RecordJoin("guild1", now)
	}
	e.ResetJoins("guild1")

	for i := 0; i < RaidThreshold-1; i++ {
		assert.False(e.RecordJoin("guild1", now.Add(time.Second)))
	}
	assert.True(e.RecordJoin("guild1", now.Add(time.Second)))
}

func TestDMSpamResetsOnTrigger(t *testing.T) {
	assert := assert.New(t)

	e := New(tracker.New())
	now := time.Unix(1_700_000_000, 0)

	for i := 0; i < DMSpamThreshold-1; i++ {
		assert.False(e.RecordDM("user1", now.Add(time.Duration(i)*time.Second)))
	}
	assert.True(e.RecordDM("user1", now.Add(30*time.Second)))

	// The window was reset, so the next DM is message 1 of a fresh cycle.
	assert.False(e.RecordDM("user1", now.Add(31*time.Second)))
}

func TestIsNewAccount(t *testing.T) {
	assert := assert.New(t)

	now := time.Unix(1_700_000_000, 0)
	assert.True(IsNewAccount(now.Add(-time.Hour), now))
	assert.True(IsNewAccount(now.Add(-MinAccountAge+time.Minute), now))
	assert.False(IsNewAccount(now.Add(-MinAccountAge), now))
	assert.False(IsNewAccount(now.Add(-30*24*time.Hour), now))

	assert.Equal(2, AccountAgeDays(now.Add(-49*time.Hour), now))
}

func TestContainsInvite(t *testing.T) {
	assert := assert.New(t)

	assert.True(ContainsInvite("join us at discord.gg/abc123"))
	assert.True(ContainsInvite("HTTPS://DISCORD.COM/INVITE/xyz"))
	assert.True(ContainsInvite("discordapp.com/invite/old-style"))
	assert.False(ContainsInvite("we talked about discord yesterday"))
	assert.False(ContainsInvite(""))
}

func TestIsMentionSpam(t *testing.T) {
	assert := assert.New(t)

	assert.False(IsMentionSpam(4))
	assert.True(IsMentionSpam(5))
	assert.True(IsMentionSpam(12))
}
