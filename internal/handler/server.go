// Package handler implements the HTTP surface of the license search: the
// HTML form and result pages, the JSON search API, session capture and health.
// All handlers are methods on Server; routes are registered in Routes.
package handler

import (
	"context"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mangobar/mangobar-web/internal/domain"
	"github.com/mangobar/mangobar-web/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// pages holds the parsed HTML templates.
var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Searcher defines the search operations the handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching the database or service layer.
type Searcher interface {
	Search(ctx context.Context, c domain.SearchCriteria) (domain.ResultSet, error)
	Regions() []domain.Region
}

// Server holds the dependencies shared by every handler.
type Server struct {
	search   Searcher
	sessions *session.Store
	log      *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(search Searcher, sessions *session.Store, log *slog.Logger) *Server {
	return &Server{search: search, sessions: sessions, log: log}
}

// Routes returns a router with every endpoint registered. Cross-cutting
// middleware (request IDs, logging, CORS) is applied by the caller.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)

	r.Get("/", s.GetIndex)
	r.Post("/session", s.PostSession)
	r.Post("/session/end", s.PostSessionEnd)
	r.With(s.requireSessionPage).Get("/search", s.GetSearchPage)

	r.Route("/api", func(r chi.Router) {
		r.Get("/regions", s.GetRegions)
		r.With(s.requireSessionAPI).Get("/search", s.GetSearchAPI)
	})

	return r
}

// render executes the named template. Template errors are logged; the
// response status has already been written by then.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pages.ExecuteTemplate(w, "page.html", data); err != nil {
		s.log.ErrorContext(r.Context(), "render page", "error", err)
	}
}
