package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/meltforce/stridelog/internal/achievements"
	"github.com/meltforce/stridelog/internal/config"
	"github.com/meltforce/stridelog/internal/models"
	"github.com/meltforce/stridelog/internal/scanner"
)

// Store is the slice of the activity store the HTTP surface needs. It is
// satisfied by *storage.DB and by fakes in tests.
type Store interface {
	achievements.Store
	scanner.Store

	InsertPlan(ctx context.Context, p models.Plan) error
	UpdatePlan(ctx context.Context, p models.Plan) error
	DeletePlan(ctx context.Context, planID uuid.UUID, ownerID int) error
	GetPlan(ctx context.Context, planID uuid.UUID) (models.Plan, error)
	PublicPlans(ctx context.Context) ([]models.Plan, error)
	WeeklySchedule(ctx context.Context, userID int) (models.Plan, error)
	PlanCompletions(ctx context.Context, userID int, planID uuid.UUID) ([]models.Completion, error)
	InsertCompletion(ctx context.Context, c models.Completion) (bool, error)
	InsertExerciseEntry(ctx context.Context, e models.ExerciseEntry) error
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store   Store
	engine  *achievements.Engine
	scan    *scanner.Scanner
	scoring config.ScoringConfig
	log     *slog.Logger
	apiKey  string
	router  chi.Router

	// now is swappable in tests.
	now func() time.Time
}

// New creates a new Server with all routes configured.
func New(store Store, scoring config.ScoringConfig, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		store:   store,
		engine:  achievements.NewEngine(store, log),
		scoring: scoring,
		log:     log,
		apiKey:  apiKey,
		router:  chi.NewRouter(),
		now:     time.Now,
	}
	s.scan = scanner.New(store, scanner.Config{
		CaloriesPerMinute:      scoring.CaloriesPerMinute,
		DefaultDurationMinutes: scoring.DefaultDurationMinutes,
		DefaultIntensity:       scoring.DefaultIntensity,
	}, log)
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/achievements", s.handleListAchievements)
			r.Get("/stats", s.handleStats)
			r.Get("/completions", s.handleUserCompletions)
			r.Get("/schedule", s.handleWeeklySchedule)

			// Mutations require the API key.
			r.Group(func(r chi.Router) {
				r.Use(APIKeyAuth(s.apiKey))
				r.Post("/achievements/evaluate", s.handleEvaluateAchievements)
				r.Post("/autocomplete", s.handleAutoComplete)
			})
		})

		r.Route("/plans", func(r chi.Router) {
			r.Get("/", s.handleListPlans)
			r.Get("/public", s.handlePublicPlans)
			r.Get("/{planID}", s.handleGetPlan)
			r.Get("/{planID}/calendar", s.handleCalendar)
			r.Get("/{planID}/completions", s.handlePlanCompletions)

			r.Group(func(r chi.Router) {
				r.Use(APIKeyAuth(s.apiKey))
				r.Post("/", s.handleCreatePlan)
				r.Put("/{planID}", s.handleUpdatePlan)
				r.Delete("/{planID}", s.handleDeletePlan)
				r.Post("/{planID}/copy", s.handleCopyPlan)
				r.Post("/{planID}/complete", s.handleCompleteDay)
			})
		})
	})
}

// Mount attaches an extra handler under the given pattern. Used to expose
// the MCP endpoint without the server package importing it.
func (s *Server) Mount(pattern string, h http.Handler) {
	s.router.Mount(pattern, h)
}
