package novelty

import (
	"sync"
	"testing"
	"time"

	"gaian-hq/gaian/pkg/action"
	"gaian-hq/gaian/pkg/biome"
)

func rulesWithWeight(w float64) biome.EffectiveRules {
	return biome.EffectiveRules{BiomeID: "test", NoveltyWeight: w}
}

func solution(solutionType string) *action.TelemetryAction {
	return &action.TelemetryAction{
		PlayerID:     "player-001",
		SessionID:    "session-abc",
		Kind:         action.KindCraft,
		SolutionType: solutionType,
		Timestamp:    time.Now().UTC(),
	}
}

// TestScore_BiomeWeight tests the baseline scenario: baseline 10, weight 2.0,
// no decay, final tokens 20.
func TestScore_BiomeWeight(t *testing.T) {
	s := NewScorer(DefaultConfig(), nil)

	score, err := s.Score(solution("bridge"), rulesWithWeight(2.0), "player-001")
	if err != nil {
		t.Fatalf("Score() failed: %v", err)
	}
	if score.FinalTokens != 20 {
		t.Errorf("FinalTokens = %d, want 20", score.FinalTokens)
	}
	if score.BaseTokens != 10 {
		t.Errorf("BaseTokens = %d, want 10", score.BaseTokens)
	}
	if score.DiminishingApplied {
		t.Errorf("decay applied on first submission")
	}
	if len(score.Multipliers) != 1 || score.Multipliers[0].Name != MultiplierBiomeWeight {
		t.Errorf("Multipliers = %v, want single biome_weight", score.Multipliers)
	}
}

// TestScore_MultiplierOrder tests the fixed order: biome weight first, then
// diminishing returns.
func TestScore_MultiplierOrder(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Diminishing.Threshold = 0
	s := NewScorer(cfg, nil)

	// First submission: count=0, not > 0, undecayed.
	if _, err := s.Score(solution("farm"), rulesWithWeight(1.5), "player-001"); err != nil {
		t.Fatalf("Score() failed: %v", err)
	}
	// Second submission: count=1 > 0, decayed.
	score, err := s.Score(solution("farm"), rulesWithWeight(1.5), "player-001")
	if err != nil {
		t.Fatalf("Score() failed: %v", err)
	}
	if !score.DiminishingApplied {
		t.Fatalf("expected decay on second submission with threshold 0")
	}
	if len(score.Multipliers) != 2 {
		t.Fatalf("Multipliers = %v, want 2", score.Multipliers)
	}
	if score.Multipliers[0].Name != MultiplierBiomeWeight || score.Multipliers[1].Name != MultiplierDiminishingReturns {
		t.Errorf("multiplier order = [%s, %s]", score.Multipliers[0].Name, score.Multipliers[1].Name)
	}
}

// TestScore_ThresholdSubmissionUndecayed tests the off-by-one contract: the
// threshold-th submission still earns full tokens.
func TestScore_ThresholdSubmissionUndecayed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Diminishing.Threshold = 3
	s := NewScorer(cfg, nil)

	// Submissions 1..4: counts read are 0,1,2,3. Decay needs count > 3, so
	// even the 4th (count=3) is undecayed.
	for i := 1; i <= 4; i++ {
		score, err := s.Score(solution("trap"), rulesWithWeight(1.0), "player-001")
		if err != nil {
			t.Fatalf("Score() failed: %v", err)
		}
		if score.DiminishingApplied {
			t.Fatalf("submission %d decayed; threshold-th submission must be undecayed", i)
		}
	}

	// 5th submission reads count=4 > 3 and decays.
	score, err := s.Score(solution("trap"), rulesWithWeight(1.0), "player-001")
	if err != nil {
		t.Fatalf("Score() failed: %v", err)
	}
	if !score.DiminishingApplied {
		t.Errorf("submission past threshold not decayed")
	}
}

// TestScore_MonotonicDecay tests that repeated submissions yield a
// non-increasing token sequence once past the threshold.
func TestScore_MonotonicDecay(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaselineTokens = 1000
	cfg.Diminishing.Threshold = 2
	s := NewScorer(cfg, nil)

	prev := int(^uint(0) >> 1)
	for i := 0; i < 30; i++ {
		score, err := s.Score(solution("dam"), rulesWithWeight(1.0), "player-001")
		if err != nil {
			t.Fatalf("Score() failed: %v", err)
		}
		if score.FinalTokens > prev {
			t.Fatalf("submission %d: tokens %d increased from %d", i+1, score.FinalTokens, prev)
		}
		prev = score.FinalTokens
	}
}

// TestScore_FloorOneToken tests that extreme decay never drops below one
// token.
func TestScore_FloorOneToken(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaselineTokens = 2
	cfg.Diminishing.Threshold = 0
	cfg.Diminishing.DecayRate = 0.01
	cfg.Diminishing.Floor = 0.0001
	s := NewScorer(cfg, nil)

	var last Score
	for i := 0; i < 10; i++ {
		var err error
		last, err = s.Score(solution("spam"), rulesWithWeight(0.5), "player-001")
		if err != nil {
			t.Fatalf("Score() failed: %v", err)
		}
	}
	if last.FinalTokens != 1 {
		t.Errorf("FinalTokens = %d, want floor of 1", last.FinalTokens)
	}
}

// TestScore_DecayFloorMultiplier tests the decay multiplier floor.
func TestScore_DecayFloorMultiplier(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaselineTokens = 1000
	cfg.Diminishing.Threshold = 0
	cfg.Diminishing.DecayRate = 0.5
	cfg.Diminishing.Floor = 0.25
	s := NewScorer(cfg, nil)

	var last Score
	for i := 0; i < 12; i++ {
		var err error
		last, err = s.Score(solution("mine"), rulesWithWeight(1.0), "player-001")
		if err != nil {
			t.Fatalf("Score() failed: %v", err)
		}
	}
	decay := last.Multipliers[len(last.Multipliers)-1]
	if decay.Name != MultiplierDiminishingReturns {
		t.Fatalf("last multiplier = %q", decay.Name)
	}
	if decay.Value != 0.25 {
		t.Errorf("decay multiplier = %v, want floor 0.25", decay.Value)
	}
}

// TestResetHistory tests per-player and global resets.
func TestResetHistory(t *testing.T) {
	s := NewScorer(DefaultConfig(), nil)

	for _, player := range []string{"player-a", "player-b"} {
		if _, err := s.Score(solution("hut"), rulesWithWeight(1.0), player); err != nil {
			t.Fatalf("Score() failed: %v", err)
		}
	}

	s.ResetHistory("player-a")
	if got := s.SubmissionCount("player-a", "hut"); got != 0 {
		t.Errorf("player-a count after reset = %d", got)
	}
	if got := s.SubmissionCount("player-b", "hut"); got != 1 {
		t.Errorf("player-b count = %d, want 1 (unaffected)", got)
	}

	s.ResetHistory("")
	if got := s.SubmissionCount("player-b", "hut"); got != 0 {
		t.Errorf("player-b count after global reset = %d", got)
	}
}

// TestScore_ConcurrentSameKey tests that concurrent submissions for one key
// never lose an increment.
func TestScore_ConcurrentSameKey(t *testing.T) {
	s := NewScorer(DefaultConfig(), nil)

	const goroutines = 80
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Score(solution("shared"), rulesWithWeight(1.0), "player-shared"); err != nil {
				t.Errorf("Score() failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := s.SubmissionCount("player-shared", "shared"); got != goroutines {
		t.Errorf("SubmissionCount = %d, want %d", got, goroutines)
	}
}

// TestScore_EmptySolutionTypeUsesUnknown tests the unknown-type fallback key.
func TestScore_EmptySolutionTypeUsesUnknown(t *testing.T) {
	s := NewScorer(DefaultConfig(), nil)

	if _, err := s.Score(solution(""), rulesWithWeight(1.0), "player-001"); err != nil {
		t.Fatalf("Score() failed: %v", err)
	}
	if got := s.SubmissionCount("player-001", ""); got != 1 {
		t.Errorf("unknown-type count = %d, want 1", got)
	}
}
