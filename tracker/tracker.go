package tracker

import (
	"fmt"
	"hash/fnv"
	"sync"
	"time"
)

const shardCount = 16

// Store keeps per-key timestamp histories for sliding-window counting.
// Entries older than the requested window are evicted lazily on Count.
// Keys are sharded so a burst on one guild never blocks another.
type Store struct {
	shards [shardCount]shard
}

type shard struct {
	mu   sync.Mutex
	keys map[string][]time.Time
}

func New() *Store {
	s := &Store{}
	for i := range s.shards {
		s.shards[i].keys = make(map[string][]time.Time)
	}
	return s
}

// Key builds the tracked key for a detector kind, guild and subject.
func Key(kind, guildID, subjectID string) string {
	return fmt.Sprintf("%s/%s/%s", kind, guildID, subjectID)
}

func (s *Store) shardFor(key string) *shard {
	h := fnv.New32a()
	h.Write([]byte(key))
	return &s.shards[h.Sum32()%shardCount]
}

// Record appends one event timestamp to the key's history.
func (s *Store) Record(key string, t time.Time) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.keys[key] = append(sh.keys[key], t)
}

// Count returns how many recorded timestamps fall inside (now-window, now],
// discarding anything older as a side effect. Unknown keys count as empty.
func (s *Store) Count(key string, window time.Duration, now time.Time) int {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	entries, ok := sh.keys[key]
	if !ok {
		return 0
	}

	// Histories are not guaranteed sorted: callers take their timestamp
	// before contending on the shard lock, so appends can land slightly
	// out of order. Scan the whole slice rather than assuming a sorted
	// prefix of stale entries.
	cutoff := now.Add(-window)
	live := 0
	for _, e := range entries {
		if e.After(cutoff) {
			live++
		}
	}
	if live == 0 {
		delete(sh.keys, key)
		return 0
	}
	if live < len(entries) {
		// Copy to release the evicted entries' backing array.
		kept := make([]time.Time, 0, live)
		for _, e := range entries {
			if e.After(cutoff) {
				kept = append(kept, e)
			}
		}
		sh.keys[key] = kept
	}
	return live
}

// Reset clears a key's history, used after a detector fires so a lingering
// window cannot re-trigger immediately.
func (s *Store) Reset(key string) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	delete(sh.keys, key)
}
