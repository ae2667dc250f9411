package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/stridelog/internal/achievements"
	"github.com/meltforce/stridelog/internal/schedule"
	"github.com/meltforce/stridelog/internal/storage"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, schedule.ErrInvalidRange):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func userIDParam(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "userID"))
}

func (s *Server) handleListAchievements(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid user ID"})
		return
	}

	list, err := s.engine.List(r.Context(), userID)
	if err != nil {
		s.log.Error("listing achievements failed", "user", userID, "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleEvaluateAchievements(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid user ID"})
		return
	}

	earned, err := s.engine.Evaluate(r.Context(), userID, s.now())
	if err != nil {
		s.log.Error("achievement evaluation failed", "user", userID, "error", err)
		writeError(w, err)
		return
	}
	if earned == nil {
		earned = []achievements.Earned{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"new_achievements": earned})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid user ID"})
		return
	}

	snap, err := s.engine.Snapshot(r.Context(), userID, s.now())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleAutoComplete(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid user ID"})
		return
	}

	now := s.now()
	if at := r.URL.Query().Get("at"); at != "" {
		now, err = time.Parse(time.RFC3339, at)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid at parameter: " + err.Error()})
			return
		}
	}

	completed, err := s.scan.Run(r.Context(), userID, now)
	if err != nil {
		s.log.Error("auto-completion run failed", "user", userID, "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"completed": completed})
}

func (s *Server) handleUserCompletions(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid user ID"})
		return
	}

	completions, err := s.store.Completions(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, completions)
}

func (s *Server) handleWeeklySchedule(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid user ID"})
		return
	}

	plan, err := s.store.WeeklySchedule(r.Context(), userID)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusOK, map[string]any{"exists": false})
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"exists": true, "schedule": plan})
}
