// Package scheduler owns the durable queue of time-delayed actions. Actions
// are persisted before Schedule acknowledges them, recovered on startup, and
// driven by a single background loop that wakes at the nearest fire time.
//
// The pending->fired and pending->cancelled transitions are arbitrated by a
// conditional store update, so a race between Cancel and the driver resolves
// to exactly one outcome. Side effects run after the transition; they are
// required to be safe to repeat, which keeps the at-least-once contract on a
// crash between the transition and the dispatch.
package scheduler

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"guardian-bot/model"
	"guardian-bot/utils/database"
)

const (
	defaultMaxAttempts  = 3
	defaultRetryBackoff = 2 * time.Second
	// idleWait bounds the timer when nothing is pending.
	idleWait = time.Hour
)

// Dispatcher executes one kind of action when it fires.
type Dispatcher func(action model.ScheduledAction) error

// Scheduler persists and replays time-delayed actions.
type Scheduler struct {
	db       *sqlx.DB
	dispatch map[model.ActionKind]Dispatcher
	now      func() time.Time

	maxAttempts  int
	retryBackoff time.Duration

	wake chan struct{}
	done chan struct{}
	wg   sync.WaitGroup
}

func New(db *sqlx.DB) *Scheduler {
	return &Scheduler{
		db:           db,
		dispatch:     make(map[model.ActionKind]Dispatcher),
		now:          time.Now,
		maxAttempts:  defaultMaxAttempts,
		retryBackoff: defaultRetryBackoff,
		wake:         make(chan struct{}, 1),
		done:         make(chan struct{}),
	}
}

// Handle registers the dispatcher for an action kind. Must be called before
// Recover; firing a kind with no dispatcher is a permanent failure for that
// action.
func (s *Scheduler) Handle(kind model.ActionKind, fn Dispatcher) {
	s.dispatch[kind] = fn
}

// Schedule persists a new pending action and returns its ID. The action is
// durable before this returns; the driver is nudged in case the new fire
// time is nearer than what it is sleeping toward.
func (s *Scheduler) Schedule(fireAt time.Time, kind model.ActionKind, guildID, channelID, userID, message string) (string, error) {
	now := s.now()
	a := model.ScheduledAction{
		ID:        uuid.NewString(),
		GuildID:   guildID,
		Kind:      kind,
		ChannelID: channelID,
		UserID:    userID,
		Message:   message,
		FireAt:    fireAt.UTC(),
		CreatedAt: now.UTC(),
		Status:    model.StatusPending,
	}
	if a.FireAt.Before(a.CreatedAt) {
		// Past-due on arrival is allowed; the driver fires it on its next
		// pass. The record still satisfies fire-at >= created-at.
		a.FireAt = a.CreatedAt
	}
	if err := database.AddScheduledAction(s.db, a); err != nil {
		return "", err
	}
	s.nudge()
	return a.ID, nil
}

// Cancel revokes a pending action. Calling it twice, or after the action
// fired, is a successful no-op.
func (s *Scheduler) Cancel(id string) error {
	won, err := database.TransitionActionStatus(s.db, id, model.StatusPending, model.StatusCancelled)
	if err != nil {
		return err
	}
	if !won {
		log.Printf("Cancel of action %s was a no-op (already fired, cancelled, or unknown)", id)
	}
	return nil
}

// CancelPendingUnlock revokes the pending unlock for a channel, if any.
// Used by manual early unlocks so no phantom unlock fires later.
func (s *Scheduler) CancelPendingUnlock(channelID string) error {
	a, err := database.GetPendingUnlock(s.db, channelID)
	if err == model.ErrNotFound {
		return nil
	}
	if err != nil {
		return err
	}
	return s.Cancel(a.ID)
}

// Recover fires every persisted pending action whose fire time has already
// passed, oldest first. Call once on startup, before the gateway starts
// delivering events and before Start.
func (s *Scheduler) Recover() error {
	due, err := database.GetDueActions(s.db, s.now())
	if err != nil {
		return fmt.Errorf("scheduler recovery failed: %w", err)
	}
	for _, a := range due {
		s.fire(a)
	}
	if len(due) > 0 {
		log.Printf("Scheduler recovery replayed %d past-due action(s)", len(due))
	}
	return nil
}

// Start launches the background driver loop.
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.run()
}

// Stop terminates the driver loop and waits for it to finish.
func (s *Scheduler) Stop() {
	close(s.done)
	s.wg.Wait()
}

func (s *Scheduler) nudge() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Scheduler) run() {
	defer s.wg.Done()

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		wait := idleWait
		next, ok, err := database.NextPendingFireAt(s.db)
		if err != nil {
			log.Printf("Scheduler failed to read next fire time: %v", err)
		} else if ok {
			wait = next.Sub(s.now())
			if wait < 0 {
				wait = 0
			}
		}

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(wait)

		select {
		case <-timer.C:
			s.fireDue()
		case <-s.wake:
			// New schedule; recompute the nearest fire time.
		case <-s.done:
			return
		}
	}
}

func (s *Scheduler) fireDue() {
	due, err := database.GetDueActions(s.db, s.now())
	if err != nil {
		log.Printf("Scheduler failed to load due actions: %v", err)
		return
	}
	for _, a := range due {
		select {
		case <-s.done:
			return
		default:
		}
		s.fire(a)
	}
}

// fire claims one action and dispatches it. Claiming (pending->fired) is the
// atomic arbiter against Cancel; losing the claim means the action was
// cancelled and nothing runs.
func (s *Scheduler) fire(a model.ScheduledAction) {
	won, err := database.TransitionActionStatus(s.db, a.ID, model.StatusPending, model.StatusFired)
	if err != nil {
		log.Printf("Failed to claim action %s: %v", a.ID, err)
		return
	}
	if !won {
		return
	}

	fn, ok := s.dispatch[a.Kind]
	if !ok {
		log.Printf("No dispatcher for action kind %q (id %s)", a.Kind, a.ID)
		s.annotate(a.ID, fmt.Sprintf("no dispatcher for kind %s", a.Kind))
		return
	}

	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if lastErr = fn(a); lastErr == nil {
			return
		}
		if model.IsValidation(lastErr) {
			// Bad payloads don't get better with retries.
			s.annotate(a.ID, fmt.Sprintf("dispatch rejected: %v", lastErr))
			return
		}
		log.Printf("Dispatch of action %s (%s) failed on attempt %d/%d: %v",
			a.ID, a.Kind, attempt, s.maxAttempts, lastErr)
		if attempt < s.maxAttempts {
			backoff := s.retryBackoff * time.Duration(1<<(attempt-1))
			select {
			case <-time.After(backoff):
			case <-s.done:
				s.annotate(a.ID, fmt.Sprintf("dispatch interrupted by shutdown: %v", lastErr))
				return
			}
		}
	}
	s.annotate(a.ID, fmt.Sprintf("dispatch failed after %d attempts: %v", s.maxAttempts, lastErr))
}

func (s *Scheduler) annotate(id, note string) {
	if err := database.AnnotateAction(s.db, id, note); err != nil {
		log.Printf("Failed to annotate action %s: %v", id, err)
	}
}
