package anticheat

import (
	"hash/fnv"
	"sync"
)

// historyShards is the number of lock shards for the per-player flag history.
// Sharding keeps unrelated players' evaluations from serializing on a single
// lock.
const historyShards = 32

// flagHistory is the cumulative per-player flag counter. Created on first
// flag, it persists for the process lifetime unless explicitly reset (for
// example after a successful appeal).
type flagHistory struct {
	shards [historyShards]historyShard
}

type historyShard struct {
	mu     sync.Mutex
	counts map[string]int
}

func newFlagHistory() *flagHistory {
	h := &flagHistory{}
	for i := range h.shards {
		h.shards[i].counts = make(map[string]int)
	}
	return h
}

func (h *flagHistory) shard(playerID string) *historyShard {
	f := fnv.New32a()
	f.Write([]byte(playerID))
	return &h.shards[f.Sum32()%historyShards]
}

// Add increments the player's cumulative flag count by n.
func (h *flagHistory) Add(playerID string, n int) {
	s := h.shard(playerID)
	s.mu.Lock()
	s.counts[playerID] += n
	s.mu.Unlock()
}

// Count returns the player's cumulative flag count.
func (h *flagHistory) Count(playerID string) int {
	s := h.shard(playerID)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[playerID]
}

// Reset clears the player's flag count.
func (h *flagHistory) Reset(playerID string) {
	s := h.shard(playerID)
	s.mu.Lock()
	delete(s.counts, playerID)
	s.mu.Unlock()
}
