// Package ledger tracks moderator-issued warnings and escalates repeat
// offenders. The warnings table is authoritative; nothing is cached in
// memory, so a restart never loses or resurrects a warning.
package ledger

import (
	"fmt"
	"hash/fnv"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"

	"guardian-bot/model"
	"guardian-bot/utils/database"
)

const (
	// WarningTTL is how long a warning stays active before it is purged.
	WarningTTL = 14 * 24 * time.Hour
	// EscalationThreshold is the active-warning count that triggers the
	// automatic timeout, exactly once as the crossing warning is issued.
	EscalationThreshold = 3
	// EscalationTimeout is how long the automatic timeout lasts.
	EscalationTimeout = 12 * time.Hour
)

const lockStripes = 16

// Enforcer applies the escalation side effect. Satisfied by the platform
// gateway; tests substitute a fake.
type Enforcer interface {
	TimeoutMember(guildID, userID string, until time.Time, reason string) error
}

// Ledger is the durable per-user warning list with 3-strike escalation.
type Ledger struct {
	db       *sqlx.DB
	enforcer Enforcer
	now      func() time.Time

	// Issuance is serialized per (guild, user) so two concurrent warnings
	// cannot both observe a pre-escalation count.
	locks [lockStripes]sync.Mutex
}

func New(db *sqlx.DB, enforcer Enforcer) *Ledger {
	return &Ledger{db: db, enforcer: enforcer, now: time.Now}
}

func (l *Ledger) lockFor(guildID, userID string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(guildID))
	h.Write([]byte{'/'})
	h.Write([]byte(userID))
	return &l.locks[h.Sum32()%lockStripes]
}

// IssueWarning appends a warning and returns the user's active count after
// the append, plus whether the 3-strike timeout was applied. The expiry
// cutoff used for the count is the same one the purge uses, so a warning is
// never counted as expired mid-issuance.
func (l *Ledger) IssueWarning(guildID, userID, moderatorID, reason string) (int, bool, error) {
	mu := l.lockFor(guildID, userID)
	mu.Lock()
	defer mu.Unlock()

	now := l.now()
	cutoff := now.Add(-WarningTTL)

	if err := database.DeleteExpiredWarnings(l.db, cutoff); err != nil {
		return 0, false, err
	}

	_, err := database.AddWarning(l.db, model.WarningRecord{
		GuildID:     guildID,
		UserID:      userID,
		ModeratorID: moderatorID,
		Reason:      reason,
		IssuedAt:    now,
	})
	if err != nil {
		return 0, false, err
	}

	count, err := database.CountActiveWarnings(l.db, guildID, userID, cutoff)
	if err != nil {
		return 0, false, err
	}

	// Only the warning that crosses the threshold escalates. A 4th active
	// warning does not re-apply the timeout.
	escalated := count == EscalationThreshold
	if escalated {
		until := now.Add(EscalationTimeout)
		autoReason := fmt.Sprintf("Automatic timeout: %d warnings reached", EscalationThreshold)
		if err := l.enforcer.TimeoutMember(guildID, userID, until, autoReason); err != nil {
			// The escalation decision stands even when the platform call
			// fails; the failure is surfaced in the log, not to the ledger.
			log.Printf("Failed to apply escalation timeout for user %s in guild %s: %v", userID, guildID, err)
		}
	}

	return count, escalated, nil
}

// ListActive returns the guild's active-warning leaderboard, most-warned
// first, ties broken by earliest first warning. Expired warnings are purged
// before the read.
func (l *Ledger) ListActive(guildID string) ([]model.UserWarningCount, error) {
	cutoff := l.now().Add(-WarningTTL)
	if err := database.DeleteExpiredWarnings(l.db, cutoff); err != nil {
		return nil, err
	}

	records, err := database.GetActiveWarnings(l.db, guildID, cutoff)
	if err != nil {
		return nil, err
	}

	byUser := make(map[string]*model.UserWarningCount)
	order := make([]string, 0)
	for _, rec := range records {
		uc, ok := byUser[rec.UserID]
		if !ok {
			uc = &model.UserWarningCount{UserID: rec.UserID, FirstIssued: rec.IssuedAt}
			byUser[rec.UserID] = uc
			order = append(order, rec.UserID)
		}
		uc.Count++
	}

	counts := make([]model.UserWarningCount, 0, len(order))
	for _, userID := range order {
		counts = append(counts, *byUser[userID])
	}
	sort.SliceStable(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].FirstIssued.Before(counts[j].FirstIssued)
	})
	return counts, nil
}

// PurgeExpired drops every warning older than the TTL. Idempotent and safe
// to run concurrently with issuance.
func (l *Ledger) PurgeExpired() error {
	return database.DeleteExpiredWarnings(l.db, l.now().Add(-WarningTTL))
}
