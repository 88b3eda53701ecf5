// Package handler implements the HTTP handlers for the travel journal API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, location.go, session.go, etc.) but all share the same
// Server struct so they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/travel-journal/internal/domain"
	"github.com/pkordes/travel-journal/internal/metrics"
	"github.com/pkordes/travel-journal/internal/notify"
	"github.com/pkordes/travel-journal/internal/session"
)

// LocationServicer defines the store operations the location handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching the service layer.
type LocationServicer interface {
	All(ctx context.Context) ([]domain.Location, error)
	GetByID(ctx context.Context, id string) (domain.Location, error)
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Location, int64, error)
	Stats(ctx context.Context) (domain.Stats, error)
}

// ExportServicer defines the operation the export handler depends on.
type ExportServicer interface {
	Export(ctx context.Context) ([]domain.ExportRow, error)
}

// SessionController is the interaction session driven by the renderer.
// *session.Session satisfies it.
type SessionController interface {
	State() session.State
	Select(ctx context.Context, id string) (session.State, error)
	ClosePanel() session.State
	PauseRotation() session.State
	Activity() session.State
	OpenForm() session.State
	CloseForm() session.State
	SetSound(enabled bool) session.State
	Lookup(ctx context.Context, city, country string) (session.LookupResult, error)
	Submit(ctx context.Context, draft domain.LocationDraft) (domain.Location, error)
}

// CueSource hands pending sound cues to the renderer. *notify.Queue satisfies it.
type CueSource interface {
	Drain() []notify.Cue
}

// Server serves every API endpoint.
// Methods are in domain-specific files but all operate on this struct.
type Server struct {
	locations LocationServicer
	export    ExportServicer
	session   SessionController
	cues      CueSource
	metrics   *metrics.Metrics
	log       *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
// m may be nil, in which case no handler-level metrics are recorded.
func NewServer(locations LocationServicer, export ExportServicer, sess SessionController, cues CueSource, m *metrics.Metrics) *Server {
	return &Server{
		locations: locations,
		export:    export,
		session:   sess,
		cues:      cues,
		metrics:   m,
		log:       slog.Default(),
	}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil, nil, nil, nil)
}

// Routes returns a chi router with every API route registered.
// Cross-cutting middleware (request ids, logging, CORS) is applied by the caller.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/locations", func(r chi.Router) {
		r.Get("/", s.ListLocations)
		r.Post("/", s.CreateLocation)
		r.Get("/{id}", s.GetLocation)
	})
	r.Get("/stats", s.GetStats)
	r.Get("/scene", s.GetScene)
	r.Get("/export", s.GetExport)

	r.Get("/state", s.GetState)
	r.Put("/selection", s.PutSelection)
	r.Delete("/selection", s.DeleteSelection)
	r.Post("/activity", s.PostActivity)
	r.Post("/rotation/pause", s.PostRotationPause)
	r.Put("/form", s.PutForm)
	r.Post("/form/lookup", s.PostFormLookup)
	r.Put("/sound", s.PutSound)
	r.Get("/cues", s.GetCues)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, notFoundBody("route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody("method_not_allowed", "method not allowed"))
	})
	return r
}
