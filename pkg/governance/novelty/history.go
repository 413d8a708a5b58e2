package novelty

import (
	"hash/fnv"
	"sync"
)

// historyShards is the number of lock shards for the per-player solution
// history. Keys are sharded by player id, so a per-player reset only touches
// one shard and unrelated players never contend.
const historyShards = 32

// solutionHistory tracks per-player, per-solution-type submission counts.
// Counts are monotonically increasing except on explicit reset.
type solutionHistory struct {
	shards [historyShards]solutionShard
}

type solutionShard struct {
	mu sync.Mutex
	// players maps player id -> solution type -> submission count.
	players map[string]map[string]int
}

func newSolutionHistory() *solutionHistory {
	h := &solutionHistory{}
	for i := range h.shards {
		h.shards[i].players = make(map[string]map[string]int)
	}
	return h
}

func (h *solutionHistory) shard(playerID string) *solutionShard {
	f := fnv.New32a()
	f.Write([]byte(playerID))
	return &h.shards[f.Sum32()%historyShards]
}

// readAndIncrement returns the submission count prior to this call and
// records the new submission. The read and the increment happen under one
// lock so concurrent submissions for the same key can neither double-apply
// nor under-apply diminishing returns.
func (h *solutionHistory) readAndIncrement(playerID, solutionType string) int {
	s := h.shard(playerID)
	s.mu.Lock()
	defer s.mu.Unlock()

	types := s.players[playerID]
	if types == nil {
		types = make(map[string]int)
		s.players[playerID] = types
	}
	count := types[solutionType]
	types[solutionType] = count + 1
	return count
}

// count returns the current submission count for a key.
func (h *solutionHistory) count(playerID, solutionType string) int {
	s := h.shard(playerID)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.players[playerID][solutionType]
}

// resetPlayer clears all history for one player.
func (h *solutionHistory) resetPlayer(playerID string) {
	s := h.shard(playerID)
	s.mu.Lock()
	delete(s.players, playerID)
	s.mu.Unlock()
}

// resetAll clears the entire history.
func (h *solutionHistory) resetAll() {
	for i := range h.shards {
		s := &h.shards[i]
		s.mu.Lock()
		s.players = make(map[string]map[string]int)
		s.mu.Unlock()
	}
}
