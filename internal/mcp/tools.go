package mcp

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/meltforce/stridelog/internal/schedule"
)

// --- Tool definitions ---

var toolListAchievements = mcp.NewTool("list_achievements",
	mcp.WithDescription("List the full achievement catalog for a user, with earned status and earned-at timestamps."),
	mcp.WithNumber("user_id", mcp.Required(), mcp.Description("User ID")),
)

var toolEvaluateAchievements = mcp.NewTool("evaluate_achievements",
	mcp.WithDescription("Recompute the user's stats snapshot and award any newly satisfied achievements. Returns only the achievements earned by this call; re-running without new activity returns an empty list."),
	mcp.WithNumber("user_id", mcp.Required(), mcp.Description("User ID")),
)

var toolRunAutoCompletion = mcp.NewTool("run_auto_completion",
	mcp.WithDescription("Scan the user's calendar-mode plans for exercise slots whose scheduled window has elapsed today and record them as completed. Idempotent per slot per day."),
	mcp.WithNumber("user_id", mcp.Required(), mcp.Description("User ID")),
	mcp.WithString("at", mcp.Description("Evaluation time (RFC 3339). Defaults to now.")),
)

var toolGetStats = mcp.NewTool("get_stats",
	mcp.WithDescription("Get the user's current stats snapshot: exercise counts, streaks, workout minutes, calories, food-log days and plan completion totals."),
	mcp.WithNumber("user_id", mcp.Required(), mcp.Description("User ID")),
)

var toolGetCalendar = mcp.NewTool("get_calendar",
	mcp.WithDescription("Render a calendar-mode plan as a weekly grid: for each weekday and hour row, the slots starting there and the slots covering it."),
	mcp.WithString("plan_id", mcp.Required(), mcp.Description("Plan UUID")),
)

var toolGetCompletions = mcp.NewTool("get_completions",
	mcp.WithDescription("List a user's workout completion records, newest first."),
	mcp.WithNumber("user_id", mcp.Required(), mcp.Description("User ID")),
)

// --- Tool handlers ---

func (h *handlers) listAchievements(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := req.RequireInt("user_id")
	if err != nil {
		return mcp.NewToolResultError("user_id parameter is required"), nil
	}

	list, err := h.engine.List(ctx, userID)
	if err != nil {
		return mcp.NewToolResultError("listing achievements failed: " + err.Error()), nil
	}
	result, err := mcp.NewToolResultJSON(list)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) evaluateAchievements(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := req.RequireInt("user_id")
	if err != nil {
		return mcp.NewToolResultError("user_id parameter is required"), nil
	}

	earned, err := h.engine.Evaluate(ctx, userID, time.Now())
	if err != nil {
		return mcp.NewToolResultError("evaluation failed: " + err.Error()), nil
	}
	result, err := mcp.NewToolResultJSON(map[string]any{"new_achievements": earned})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) runAutoCompletion(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := req.RequireInt("user_id")
	if err != nil {
		return mcp.NewToolResultError("user_id parameter is required"), nil
	}

	now := time.Now()
	if at := req.GetString("at", ""); at != "" {
		now, err = time.Parse(time.RFC3339, at)
		if err != nil {
			return mcp.NewToolResultError("invalid at parameter: " + err.Error()), nil
		}
	}

	completed, err := h.scan.Run(ctx, userID, now)
	if err != nil {
		return mcp.NewToolResultError("auto-completion failed: " + err.Error()), nil
	}
	result, err := mcp.NewToolResultJSON(map[string]any{"completed": completed})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := req.RequireInt("user_id")
	if err != nil {
		return mcp.NewToolResultError("user_id parameter is required"), nil
	}

	snap, err := h.engine.Snapshot(ctx, userID, time.Now())
	if err != nil {
		return mcp.NewToolResultError("snapshot failed: " + err.Error()), nil
	}
	result, err := mcp.NewToolResultJSON(snap)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getCalendar(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idStr, err := req.RequireString("plan_id")
	if err != nil {
		return mcp.NewToolResultError("plan_id parameter is required"), nil
	}
	planID, err := uuid.Parse(idStr)
	if err != nil {
		return mcp.NewToolResultError("invalid plan_id"), nil
	}

	plan, err := h.db.GetPlan(ctx, planID)
	if err != nil {
		return mcp.NewToolResultError("loading plan failed: " + err.Error()), nil
	}
	if !plan.CalendarMode {
		return mcp.NewToolResultError("plan is not in calendar mode"), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"plan_id": plan.ID,
		"name":    plan.Name,
		"grid":    schedule.BuildGrid(plan),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getCompletions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := req.RequireInt("user_id")
	if err != nil {
		return mcp.NewToolResultError("user_id parameter is required"), nil
	}

	completions, err := h.db.Completions(ctx, userID)
	if err != nil {
		return mcp.NewToolResultError("querying completions failed: " + err.Error()), nil
	}
	result, err := mcp.NewToolResultJSON(completions)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
