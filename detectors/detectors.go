package detectors

import (
	"strings"
	"time"

	"guardian-bot/tracker"
)

// Detection thresholds. Fixed policy, not per-guild configurable.
const (
	RaidThreshold = 5
	RaidWindow    = 10 * time.Second

	MinAccountAge = 3 * 24 * time.Hour

	MentionSpamThreshold = 5

	DMSpamThreshold = 10
	DMSpamWindow    = 60 * time.Second
)

// Tracked key kinds.
const (
	kindJoin = "join"
	kindDM   = "dm"
)

var invitePatterns = []string{"discord.gg/", "discord.com/invite/", "discordapp.com/invite/"}

// Engine evaluates threat policies over a shared sliding-window store.
// All methods are safe for concurrent use; each verdict is a pure function
// of the counter state, never of platform state.
type Engine struct {
	windows *tracker.Store
}

func New(windows *tracker.Store) *Engine {
	return &Engine{windows: windows}
}

// RecordJoin notes one member join and reports whether this join is the one
// that crosses the raid threshold. Exactly the crossing join triggers; later
// joins inside the same window do not re-trigger until ResetJoins.
func (e *Engine) RecordJoin(guildID string, now time.Time) bool {
	key := tracker.Key(kindJoin, guildID, guildID)
	e.windows.Record(key, now)
	return e.windows.Count(key, RaidWindow, now) == RaidThreshold
}

// ResetJoins clears a guild's join window, typically after moderators have
// dealt with a raid and unlocked the server.
func (e *Engine) ResetJoins(guildID string) {
	e.windows.Reset(tracker.Key(kindJoin, guildID, guildID))
}

// RecordDM notes one direct message and reports whether the sender crossed
// the DM-spam threshold. On a trigger the window is reset so the next DM
// starts a fresh cycle.
func (e *Engine) RecordDM(userID string, now time.Time) bool {
	key := tracker.Key(kindDM, "", userID)
	e.windows.Record(key, now)
	if e.windows.Count(key, DMSpamWindow, now) >= DMSpamThreshold {
		e.windows.Reset(key)
		return true
	}
	return false
}

// IsNewAccount reports whether an account is younger than the minimum age.
func IsNewAccount(createdAt, now time.Time) bool {
	return now.Sub(createdAt) < MinAccountAge
}

// AccountAgeDays is the account age rounded down to whole days, for logging.
func AccountAgeDays(createdAt, now time.Time) int {
	return int(now.Sub(createdAt).Hours() / 24)
}

// ContainsInvite reports whether message content carries a Discord invite link.
func ContainsInvite(content string) bool {
	lower := strings.ToLower(content)
	for _, p := range invitePatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// IsMentionSpam reports whether a single message's combined user and role
// mention count crosses the spam threshold.
func IsMentionSpam(mentionCount int) bool {
	return mentionCount >= MentionSpamThreshold
}
