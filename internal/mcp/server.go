// Package mcp exposes the achievement and scheduling operations as MCP
// tools so assistants can query and drive a user's fitness data.
package mcp

import (
	"log/slog"
	"net/http"

	"github.com/mark3labs/mcp-go/server"
	"github.com/meltforce/stridelog/internal/achievements"
	"github.com/meltforce/stridelog/internal/config"
	"github.com/meltforce/stridelog/internal/scanner"
	"github.com/meltforce/stridelog/internal/storage"
)

// New creates an MCP server with all tools registered.
func New(db *storage.DB, scoring config.ScoringConfig, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("StrideLog", version,
		server.WithToolCapabilities(false),
		server.WithInstructions("StrideLog fitness tracking server. Query achievements, stats snapshots and weekly workout schedules, trigger achievement evaluation, and run slot auto-completion. Tools take an explicit user_id."),
	)

	h := &handlers{
		db:     db,
		engine: achievements.NewEngine(db, log),
		scan: scanner.New(db, scanner.Config{
			CaloriesPerMinute:      scoring.CaloriesPerMinute,
			DefaultDurationMinutes: scoring.DefaultDurationMinutes,
			DefaultIntensity:       scoring.DefaultIntensity,
		}, log),
		log: log,
	}

	s.AddTools(
		server.ServerTool{Tool: toolListAchievements, Handler: h.listAchievements},
		server.ServerTool{Tool: toolEvaluateAchievements, Handler: h.evaluateAchievements},
		server.ServerTool{Tool: toolRunAutoCompletion, Handler: h.runAutoCompletion},
		server.ServerTool{Tool: toolGetStats, Handler: h.getStats},
		server.ServerTool{Tool: toolGetCalendar, Handler: h.getCalendar},
		server.ServerTool{Tool: toolGetCompletions, Handler: h.getCompletions},
	)

	return s
}

// NewHTTPHandler wraps the MCP server in the streamable HTTP transport so
// it can be mounted on the main router.
func NewHTTPHandler(s *server.MCPServer) http.Handler {
	return server.NewStreamableHTTPServer(s)
}

// handlers holds dependencies for MCP tool handlers.
type handlers struct {
	db     *storage.DB
	engine *achievements.Engine
	scan   *scanner.Scanner
	log    *slog.Logger
}
