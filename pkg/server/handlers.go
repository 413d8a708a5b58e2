package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"gaian-hq/gaian/pkg/action"
	"gaian-hq/gaian/pkg/export"
	"gaian-hq/gaian/pkg/export/audit"
	"gaian-hq/gaian/pkg/governance/engine"
)

// actionRequest is the body of POST /api/v1/actions.
type actionRequest struct {
	// BiomeID is the biome the action occurred in.
	BiomeID string `json:"biome_id"`

	// Action is the telemetry action to evaluate.
	Action *action.TelemetryAction `json:"action"`
}

// handleAction evaluates one telemetry action through the governance
// pipeline and captures accepted actions for training data.
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "Request body is not valid JSON")
		return
	}
	if req.Action == nil {
		writeError(w, http.StatusBadRequest, "invalid_action", "action is required")
		return
	}

	start := time.Now()
	result, err := s.engine.EvaluateAction(r.Context(), req.Action, req.Action.PlayerID, req.BiomeID)
	if err != nil {
		if errors.Is(err, action.ErrInvalidAction) {
			writeError(w, http.StatusBadRequest, "invalid_action", err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "action evaluation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "Evaluation failed")
		return
	}

	s.recordDecision(req.BiomeID, result, time.Since(start))

	if result.Decision == engine.DecisionAccept && s.sink != nil {
		tokens := 0
		if result.Novelty != nil {
			tokens = result.Novelty.FinalTokens
		}
		s.sink.Capture(req.Action, req.BiomeID, tokens)
	}

	writeJSON(w, http.StatusOK, result)
}

// recordDecision feeds the metrics collector from one governance result.
func (s *Server) recordDecision(biomeID string, result *engine.Result, elapsed time.Duration) {
	if s.collector == nil {
		return
	}

	s.collector.RecordDecision(biomeID, string(result.Decision), elapsed)

	if result.AntiCheat != nil {
		for _, flag := range result.AntiCheat.Flags {
			s.collector.RecordAntiCheatFlag(string(flag))
		}
	}
	if result.Ethics != nil {
		for _, v := range result.Ethics.Violations {
			s.collector.RecordEthicsViolation(string(v), string(result.Ethics.Severity))
		}
	}
	if result.Novelty != nil {
		s.collector.RecordNoveltyTokens(biomeID, result.Novelty.FinalTokens)
	}
}

// handleExport evaluates one export request through the data gate.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req export.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "Request body is not valid JSON")
		return
	}
	if req.RequestedAt.IsZero() {
		req.RequestedAt = time.Now().UTC()
	}

	result, err := s.gate.Evaluate(r.Context(), &req)
	if err != nil {
		if errors.Is(err, export.ErrInvalidRequest) {
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "export evaluation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "Evaluation failed")
		return
	}

	if s.collector != nil {
		s.collector.RecordExportDecision(req.BuyerID, string(result.Decision))
		s.collector.RecordAuditEntry(string(result.Decision))
	}

	writeJSON(w, http.StatusOK, result)
}

// auditResponse is the body of GET /api/v1/audit.
type auditResponse struct {
	Entries []*audit.Entry `json:"entries"`
	Total   int            `json:"total"`
}

// handleAudit lists audit entries from the in-process log, filtered by
// the buyer_id, biome_id, status, limit, and offset query parameters.
func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit, err := parseIntParam(q.Get("limit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_query", "limit must be an integer")
		return
	}
	offset, err := parseIntParam(q.Get("offset"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_query", "offset must be an integer")
		return
	}

	entries := s.gate.AuditLog().Entries()

	filtered := make([]*audit.Entry, 0, len(entries))
	for _, e := range entries {
		if buyer := q.Get("buyer_id"); buyer != "" && e.BuyerID != buyer {
			continue
		}
		if biome := q.Get("biome_id"); biome != "" && e.BiomeID != biome {
			continue
		}
		if status := q.Get("status"); status != "" && e.Status != status {
			continue
		}
		filtered = append(filtered, e)
	}

	total := len(filtered)
	if offset > len(filtered) {
		offset = len(filtered)
	}
	filtered = filtered[offset:]
	if limit > 0 && limit < len(filtered) {
		filtered = filtered[:limit]
	}

	writeJSON(w, http.StatusOK, auditResponse{Entries: filtered, Total: total})
}

func parseIntParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

// resetRequest is the body of the admin reset endpoints.
type resetRequest struct {
	// PlayerID identifies the player. Required for reset-flags; an empty
	// value on reset-novelty clears all history.
	PlayerID string `json:"player_id"`
}

// handleResetFlags clears a player's anti-cheat flag history.
func (s *Server) handleResetFlags(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "Request body is not valid JSON")
		return
	}
	if req.PlayerID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "player_id is required")
		return
	}

	s.engine.ResetPlayerFlags(req.PlayerID)
	slog.InfoContext(r.Context(), "anti-cheat flags reset", "player_id", req.PlayerID)

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleResetNovelty clears novelty history for one player, or globally
// when no player is given.
func (s *Server) handleResetNovelty(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "Request body is not valid JSON")
		return
	}

	s.engine.ResetNoveltyHistory(req.PlayerID)
	slog.InfoContext(r.Context(), "novelty history reset", "player_id", req.PlayerID)

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
