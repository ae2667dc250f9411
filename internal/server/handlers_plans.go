package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/meltforce/stridelog/internal/models"
	"github.com/meltforce/stridelog/internal/schedule"
	"github.com/meltforce/stridelog/internal/storage"
)

func planIDParam(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "planID"))
}

// requesterID reads the acting user from the "user" query parameter for
// reads, or a user_id body field for writes.
func requesterID(r *http.Request) (int, error) {
	v := r.URL.Query().Get("user")
	if v == "" {
		return 0, fmt.Errorf("user parameter required")
	}
	return strconv.Atoi(v)
}

type createPlanRequest struct {
	OwnerID      int           `json:"owner_id"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	Weeks        []models.Week `json:"weeks"`
	Difficulty   string        `json:"difficulty"`
	Tags         []string      `json:"tags"`
	Public       bool          `json:"public"`
	CalendarMode bool          `json:"calendar_mode"`
}

// validateCalendarSlots checks every timed slot in a calendar-mode plan.
// Creation rejects end-before-start outright; wraparound is only applied
// by scheduling math on already-stored plans.
func validateCalendarSlots(weeks []models.Week) error {
	for _, week := range weeks {
		for _, day := range week.Days {
			for _, ex := range day.Exercises {
				if ex.StartTime == "" && ex.EndTime == "" {
					continue
				}
				if ex.StartTime == "" || ex.EndTime == "" {
					return fmt.Errorf("%w: exercise %q has only one of start/end time", schedule.ErrInvalidRange, ex.Name)
				}
				if err := schedule.ValidateRange(ex.StartTime, ex.EndTime); err != nil {
					return fmt.Errorf("exercise %q: %w", ex.Name, err)
				}
			}
		}
	}
	return nil
}

func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	var req createPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Name == "" || len(req.Weeks) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name and at least one week are required"})
		return
	}
	if req.CalendarMode {
		if err := validateCalendarSlots(req.Weeks); err != nil {
			writeError(w, err)
			return
		}
		// One weekly schedule per user.
		if existing, err := s.store.WeeklySchedule(r.Context(), req.OwnerID); err == nil {
			writeJSON(w, http.StatusConflict, map[string]any{
				"error":       "user already has a weekly schedule",
				"schedule_id": existing.ID,
			})
			return
		} else if !errors.Is(err, storage.ErrNotFound) {
			writeError(w, err)
			return
		}
	}

	now := s.now()
	plan := models.Plan{
		ID:           uuid.New(),
		OwnerID:      req.OwnerID,
		Name:         req.Name,
		Description:  req.Description,
		Weeks:        req.Weeks,
		Difficulty:   req.Difficulty,
		Tags:         req.Tags,
		Public:       req.Public,
		CalendarMode: req.CalendarMode,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.InsertPlan(r.Context(), plan); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, plan)
}

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	userID, err := requesterID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	plans, err := s.store.PlansForUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plans)
}

func (s *Server) handlePublicPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.store.PublicPlans(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plans)
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	planID, err := planIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid plan ID"})
		return
	}
	plan, err := s.store.GetPlan(r.Context(), planID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !plan.Public {
		userID, err := requesterID(r)
		if err != nil || userID != plan.OwnerID {
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "no access to this plan"})
			return
		}
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleUpdatePlan(w http.ResponseWriter, r *http.Request) {
	planID, err := planIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid plan ID"})
		return
	}
	var req createPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.CalendarMode {
		if err := validateCalendarSlots(req.Weeks); err != nil {
			writeError(w, err)
			return
		}
	}

	existing, err := s.store.GetPlan(r.Context(), planID)
	if err != nil {
		writeError(w, err)
		return
	}
	if existing.OwnerID != req.OwnerID {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "only the owner can edit a plan"})
		return
	}

	updated := existing.Clone()
	updated.Name = req.Name
	updated.Description = req.Description
	updated.Weeks = req.Weeks
	updated.Difficulty = req.Difficulty
	updated.Tags = req.Tags
	updated.Public = req.Public
	updated.CalendarMode = req.CalendarMode
	updated.UpdatedAt = s.now()

	if err := s.store.UpdatePlan(r.Context(), updated); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeletePlan(w http.ResponseWriter, r *http.Request) {
	planID, err := planIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid plan ID"})
		return
	}
	userID, err := requesterID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := s.store.DeletePlan(r.Context(), planID, userID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type copyPlanRequest struct {
	UserID int `json:"user_id"`
}

func (s *Server) handleCopyPlan(w http.ResponseWriter, r *http.Request) {
	planID, err := planIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid plan ID"})
		return
	}
	var req copyPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	src, err := s.store.GetPlan(r.Context(), planID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !src.Public && src.OwnerID != req.UserID {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "no permission to copy this plan"})
		return
	}

	now := s.now()
	copied := src.Clone()
	copied.ID = uuid.New()
	copied.OwnerID = req.UserID
	copied.Name = "Copy of " + src.Name
	copied.Public = false
	copied.CopiedFrom = &models.PlanRef{PlanID: src.ID, OwnerID: src.OwnerID, CopiedAt: now}
	copied.CreatedAt = now
	copied.UpdatedAt = now

	if err := s.store.InsertPlan(r.Context(), copied); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, copied)
}

type completeDayRequest struct {
	UserID         int    `json:"user_id"`
	WeekIndex      int    `json:"week_index"`
	DayIndex       int    `json:"day_index"`
	Intensity      string `json:"intensity"`
	CaloriesBurned int    `json:"calories_burned"`
}

// handleCompleteDay records a manual day-level completion plus a matching
// exercise entry. Duration is the sum of the day's slot durations, with
// the configured default for slots without times; calories fall back to
// an intensity-scaled estimate when the client does not supply them.
func (s *Server) handleCompleteDay(w http.ResponseWriter, r *http.Request) {
	planID, err := planIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid plan ID"})
		return
	}
	var req completeDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Intensity == "" {
		req.Intensity = "moderate"
	}

	plan, err := s.store.GetPlan(r.Context(), planID)
	if err != nil {
		writeError(w, err)
		return
	}
	if plan.OwnerID != req.UserID && !plan.Public {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "no access to this plan"})
		return
	}
	if req.WeekIndex < 0 || req.WeekIndex >= len(plan.Weeks) ||
		req.DayIndex < 0 || req.DayIndex >= len(plan.Weeks[req.WeekIndex].Days) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid week or day index"})
		return
	}

	week := plan.Weeks[req.WeekIndex]
	day := week.Days[req.DayIndex]

	duration := 0
	for _, ex := range day.Exercises {
		if ex.StartTime == "" || ex.EndTime == "" {
			duration += s.scoring.DefaultDurationMinutes
			continue
		}
		d, err := schedule.Duration(ex.StartTime, ex.EndTime)
		if err != nil {
			duration += s.scoring.DefaultDurationMinutes
			continue
		}
		duration += d
	}

	calories := req.CaloriesBurned
	if calories == 0 {
		multiplier := 10
		switch req.Intensity {
		case "light":
			multiplier = 5
		case "intense":
			multiplier = 15
		}
		calories = len(day.Exercises) * multiplier * 10
	}

	now := s.now()
	completion := models.Completion{
		ID:              uuid.New(),
		UserID:          req.UserID,
		PlanID:          plan.ID,
		WeekIndex:       req.WeekIndex,
		DayIndex:        req.DayIndex,
		WeekName:        week.Name,
		DayName:         day.Name,
		CompletedAt:     now,
		CompletedOn:     time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()),
		Intensity:       req.Intensity,
		CaloriesBurned:  calories,
		DurationMinutes: duration,
	}
	if _, err := s.store.InsertCompletion(r.Context(), completion); err != nil {
		writeError(w, err)
		return
	}

	entry := models.ExerciseEntry{
		ID:              uuid.New(),
		UserID:          req.UserID,
		Date:            now,
		Type:            "workout",
		DurationMinutes: duration,
		CaloriesBurned:  calories,
		Intensity:       s.scoring.DefaultIntensity,
		Notes:           fmt.Sprintf("%s - %s - %s, completed with %s intensity", plan.Name, week.Name, day.Name, req.Intensity),
		CreatedAt:       now,
	}
	if err := s.store.InsertExerciseEntry(r.Context(), entry); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, completion)
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	planID, err := planIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid plan ID"})
		return
	}
	plan, err := s.store.GetPlan(r.Context(), planID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !plan.CalendarMode {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "plan is not in calendar mode"})
		return
	}

	resp := map[string]any{
		"plan_id": plan.ID,
		"name":    plan.Name,
		"grid":    schedule.BuildGrid(plan),
	}
	if up := schedule.UpcomingSlot(plan, s.now()); up != nil {
		resp["upcoming"] = up
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePlanCompletions(w http.ResponseWriter, r *http.Request) {
	planID, err := planIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid plan ID"})
		return
	}
	userID, err := requesterID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	completions, err := s.store.PlanCompletions(r.Context(), userID, planID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, completions)
}
