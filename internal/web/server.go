// Package web serves the browser over HTTP: a JSON API driving one shared
// Session plus a single embedded page that uses it.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"geckobrowser/internal/browser"
	"geckobrowser/internal/catalog"
	"geckobrowser/internal/model"
	"geckobrowser/internal/paging"
	"geckobrowser/internal/prefs"
)

//go:embed static/*
var staticFS embed.FS

// Server owns the session. Handlers hold mu for the whole operation so the
// session only ever sees one caller at a time.
type Server struct {
	mu      sync.Mutex
	session *browser.Session
	log     zerolog.Logger
}

// New returns a server over an already loaded session.
func New(session *browser.Session, log zerolog.Logger) *Server {
	return &Server{session: session, log: log}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Route("/api", func(api chi.Router) {
		api.Get("/page", s.handlePage)
		api.Post("/page/next", s.handleNext)
		api.Post("/page/prev", s.handlePrev)
		api.Post("/page/{n}", s.handleGoToPage)

		api.Get("/traits", s.handleTraits)
		api.Post("/filters/toggle", s.handleToggle)
		api.Post("/filters/apply", s.handleApply)
		api.Post("/filters/clear", s.handleClear)

		api.Get("/items/{id}", s.handleItem)
		api.Get("/favorites", s.handleFavorites)
		api.Post("/favorites/{id}", s.handleToggleFavorite)

		api.Put("/prefs/columns", s.handleColumns)
		api.Get("/help", s.handleHelp)
	})

	sub, _ := fs.Sub(staticFS, "static")
	r.Handle("/*", http.FileServer(http.FS(sub)))

	return r
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.log.Info().Str("addr", addr).Msg("web server listening")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.NextPage()
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

func (s *Server) handlePrev(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.PrevPage()
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

func (s *Server) handleGoToPage(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "page must be a number")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.session.GoToPage(n); err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

func (s *Server) handleTraits(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.session.FilterGroups())
}

type toggleRequest struct {
	Category string `json:"category"`
	Value    string `json:"value"`
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	c, ok := model.ParseCategory(req.Category)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown category "+strconv.Quote(req.Category))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.session.ToggleFilter(c, req.Value); err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.ApplyFilters()
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.ClearFilters()
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

func (s *Server) handleItem(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	it, err := s.session.Item(id)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, browser.Card{Item: it, Favorite: s.session.IsFavorite(id)})
}

func (s *Server) handleFavorites(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.session.Favorites())
}

type favoriteResponse struct {
	ID       int  `json:"id"`
	Favorite bool `json:"favorite"`
	Saved    bool `json:"saved"`
	Count    int  `json:"count"`
}

func (s *Server) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	fav, err := s.session.ToggleFavorite(id)
	if errors.Is(err, catalog.ErrNotFound) {
		s.writeErr(w, err)
		return
	}
	// A failed write still leaves the in-memory favorite changed.
	if err != nil {
		s.log.Warn().Err(err).Int("id", id).Msg("favorite not saved")
	}
	writeJSON(w, http.StatusOK, favoriteResponse{
		ID:       id,
		Favorite: fav,
		Saved:    err == nil,
		Count:    s.session.FavoriteCount(),
	})
}

type columnsRequest struct {
	Columns int `json:"columns"`
}

func (s *Server) handleColumns(w http.ResponseWriter, r *http.Request) {
	var req columnsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.session.SetColumns(req.Columns); err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, columnsRequest{Columns: s.session.Columns()})
}

func (s *Server) handleHelp(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	_, _ = w.Write([]byte(model.HelpText()))
}

func idParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "id must be a number")
		return 0, false
	}
	return id, true
}

// statusFor maps core errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, paging.ErrInvalidPage):
		return http.StatusUnprocessableEntity
	case errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, browser.ErrUnknownValue), errors.Is(err, prefs.ErrOutOfRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeErr(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.log.Error().Err(err).Msg("request failed")
	}
	writeError(w, status, err.Error())
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
