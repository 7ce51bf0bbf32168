// Package web serves the vote dashboard: HTML tabs, a small JSON API, the
// Excel export and the metrics endpoint.
package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"vote-dashboard-go/internal/config"
	"vote-dashboard-go/internal/dataset"
	"vote-dashboard-go/internal/logger"
	"vote-dashboard-go/internal/metrics"
	"vote-dashboard-go/internal/roster"
	"vote-dashboard-go/internal/website"
)

const (
	pageValues    = "valores"
	pageCompanion = "companero"
	pageRaw       = "datos"

	topRanking  = 10
	sessionIdle = 12 * time.Hour
)

type Server struct {
	cfg      config.Config
	log      *logger.Logger
	roster   *roster.Roster
	loader   *dataset.Loader
	metrics  *metrics.Metrics
	sessions *SessionStore
	pages    map[string]*template.Template
}

func NewServer(cfg config.Config, log *logger.Logger, r *roster.Roster, loader *dataset.Loader, m *metrics.Metrics) (*Server, error) {
	s := &Server{
		cfg:      cfg,
		log:      log.Component("web"),
		roster:   r,
		loader:   loader,
		metrics:  m,
		sessions: NewSessionStore(sessionIdle),
		pages:    map[string]*template.Template{},
	}
	funcs := template.FuncMap{
		"pct": percent,
		"inc": func(i int) int { return i + 1 },
	}
	for _, page := range []string{pageValues, pageCompanion, pageRaw} {
		name := page + ".html"
		tmpl, err := template.New("base.html").Funcs(funcs).ParseFS(website.TemplateFS,
			"templates/base.html", "templates/partials/*.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		s.pages[page] = tmpl
	}
	return s, nil
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/"+pageValues, http.StatusSeeOther)
	})
	r.Get("/"+pageValues, s.handleValues)
	r.Get("/"+pageCompanion, s.handleCompanion)
	r.Get("/"+pageRaw, s.handleRaw)

	r.Post("/upload", s.handleUpload)
	r.Post("/upload/clear", s.handleClearUpload)
	r.Post("/reload", s.handleReload)
	r.Get("/export.xlsx", s.handleExport)

	r.Route("/api", func(r chi.Router) {
		r.Get("/source", s.apiSource)
		r.Get("/categories", s.apiCategories)
		r.Get("/tally", s.apiTally)
		r.Get("/ranking", s.apiRanking)
		r.Get("/votes", s.apiVotes)
	})

	staticFS, _ := fs.Sub(website.StaticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}
	return r
}

type sourceView struct {
	Label     string
	Records   int
	Recovered int
}

func sourceLabel(src dataset.Source) string {
	if src.Kind == dataset.SourceUpload {
		return "Archivo subido manualmente"
	}
	return fmt.Sprintf("Archivo local '%s'", src.Name)
}

// load resolves the request's session and its collection, and fills the
// fields the base template needs. ok is false when no collection could be
// loaded; the page then only shows the error.
func (s *Server) load(w http.ResponseWriter, r *http.Request, page string) (map[string]any, *dataset.Dataset, bool) {
	sess := s.sessions.Get(w, r)
	data := map[string]any{
		"Title":     s.cfg.PageTitle,
		"Heading":   "Dashboard Curso 1 (Local)",
		"PageName":  page,
		"Path":      r.URL.Path,
		"HasUpload": sess.HasUpload(),
		"VotesFile": filepath.Base(s.loader.Path()),
		"Flash":     r.URL.Query().Get("error"),
	}
	ds, err := sess.Dataset(r.Context(), s.loader)
	if err != nil {
		data["Error"], data["ErrorDetail"] = describeLoadError(err)
		return data, nil, false
	}
	data["Source"] = sourceView{
		Label:     sourceLabel(ds.Source),
		Records:   ds.Source.Records,
		Recovered: ds.Source.Recovered,
	}
	return data, ds, true
}

func describeLoadError(err error) (string, string) {
	var perr *dataset.ParseError
	switch {
	case errors.Is(err, dataset.ErrDataUnavailable):
		return "No se encontraron datos.", ""
	case errors.As(err, &perr):
		return "No se pudo leer el archivo de votos.", perr.Err.Error()
	default:
		return "No se pudieron cargar los datos.", err.Error()
	}
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, page string, data map[string]any) {
	var buf bytes.Buffer
	if err := s.pages[page].ExecuteTemplate(&buf, "base.html", data); err != nil {
		s.log.WithRequest(r).WithField("page", page).WithField("error", err.Error()).Error("failed to execute template")
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: http.StatusText(status), Message: message})
}

func percent(v, limit int) int {
	if limit <= 0 || v <= 0 {
		return 0
	}
	if v >= limit {
		return 100
	}
	return v * 100 / limit
}
