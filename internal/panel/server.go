// Package panel serves the feed as a local web page with a small JSON API for
// generating, deleting and configuring posts.
package panel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/kernel/socialpost/internal/chat"
	"github.com/kernel/socialpost/internal/compose"
	"github.com/kernel/socialpost/internal/notify"
	"github.com/kernel/socialpost/internal/pipeline"
	"github.com/kernel/socialpost/internal/post"
	"github.com/kernel/socialpost/internal/render"
	"github.com/kernel/socialpost/internal/settings"
	"github.com/pterm/pterm"
)

// FeedService is the subset of the feed store the panel uses.
type FeedService interface {
	List() []post.Post
	Get(id string) (post.Post, bool)
	RemoveByID(ctx context.Context, id string) (bool, error)
	Clear(ctx context.Context) error
}

// SettingsService loads and saves settings.
type SettingsService interface {
	Load(ctx context.Context) (settings.Settings, error)
	Save(ctx context.Context, s settings.Settings) error
}

// GeneratorService generates posts.
type GeneratorService interface {
	Generate(ctx context.Context, req pipeline.Request) ([]post.Post, error)
}

// TranscriptSource returns the conversation to generate from.
type TranscriptSource func() (chat.Transcript, error)

// Server holds the panel's dependencies.
type Server struct {
	Feed       FeedService
	Settings   SettingsService
	Generator  GeneratorService
	Transcript TranscriptSource
	Logger     *pterm.Logger
}

// Response is the body of every mutating API call.
type Response struct {
	Posts    []post.Post        `json:"posts,omitempty"`
	Settings *settings.Settings `json:"settings,omitempty"`
	Toasts   []notify.Toast     `json:"toasts"`
	Error    string             `json:"error,omitempty"`
}

// Router returns the panel's HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(s.requestLogger)

	r.Get("/", s.handleIndex)
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
		r.Get("/posts", s.handleListPosts)
		r.Post("/posts", s.handleGenerate)
		r.Delete("/posts", s.handleClear)
		r.Get("/posts/{postID}", s.handleGetPost)
		r.Delete("/posts/{postID}", s.handleDeletePost)
		r.Get("/settings", s.handleGetSettings)
		r.Put("/settings", s.handlePutSettings)
	})
	return r
}

// ListenAndServe serves the panel on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve panel on %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down panel: %w", err)
	}
	return nil
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger().Debug("panel request", s.logger().Args(
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).String(),
		))
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.HTML(w, render.NewPage(s.Feed.List(), true)); err != nil {
		s.logger().Error("failed to render panel", s.logger().Args("error", err.Error()))
	}
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Feed.List())
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	p, ok := s.Feed.Get(chi.URLParam(r, "postID"))
	if !ok {
		writeJSON(w, http.StatusNotFound, Response{Toasts: []notify.Toast{}, Error: "post not found"})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	rec := &notify.Recorder{}
	if s.Transcript == nil {
		writeJSON(w, http.StatusServiceUnavailable, Response{Toasts: []notify.Toast{}, Error: "no transcript configured"})
		return
	}
	t, err := s.Transcript()
	if err != nil {
		rec.Notify(notify.MsgFailed, notify.Error)
		writeJSON(w, http.StatusServiceUnavailable, Response{Toasts: rec.Toasts(), Error: err.Error()})
		return
	}
	st, _ := s.Settings.Load(r.Context())

	posts, err := s.Generator.Generate(r.Context(), pipeline.Request{
		Log:           t.Messages,
		Settings:      st,
		CharacterName: t.CharacterName,
		UserName:      t.UserName,
		Notifier:      rec,
	})
	switch {
	case errors.Is(err, compose.ErrNoContext):
		writeJSON(w, http.StatusUnprocessableEntity, Response{Toasts: rec.Toasts(), Error: err.Error()})
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, Response{Posts: posts, Toasts: rec.Toasts(), Error: err.Error()})
	default:
		writeJSON(w, http.StatusCreated, Response{Posts: posts, Toasts: rec.Toasts()})
	}
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	removed, err := s.Feed.RemoveByID(r.Context(), chi.URLParam(r, "postID"))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, Response{Toasts: []notify.Toast{}, Error: err.Error()})
		return
	}
	if !removed {
		writeJSON(w, http.StatusNotFound, Response{Toasts: []notify.Toast{}, Error: "post not found"})
		return
	}
	writeJSON(w, http.StatusOK, Response{Toasts: []notify.Toast{{Message: notify.MsgDeleted, Severity: notify.Success}}})
}

// handleClear requires confirm=true; the page asks the user before sending it.
func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	if !confirmed {
		writeJSON(w, http.StatusBadRequest, Response{Toasts: []notify.Toast{}, Error: "clearing the feed requires confirm=true"})
		return
	}
	if err := s.Feed.Clear(r.Context()); err != nil {
		writeJSON(w, http.StatusInternalServerError, Response{Toasts: []notify.Toast{}, Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, Response{Toasts: []notify.Toast{{Message: notify.MsgCleared, Severity: notify.Success}}})
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	st, _ := s.Settings.Load(r.Context())
	writeJSON(w, http.StatusOK, st)
}

// handlePutSettings applies a JSON object of key/value pairs. Values may be
// JSON strings or bare numbers and booleans.
func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var body map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Toasts: []notify.Toast{}, Error: "invalid request body: " + err.Error()})
		return
	}

	st, _ := s.Settings.Load(r.Context())
	for key, raw := range body {
		value := string(raw)
		var str string
		if json.Unmarshal(raw, &str) == nil {
			value = str
		}
		if err := st.Set(key, value); err != nil {
			writeJSON(w, http.StatusBadRequest, Response{Toasts: []notify.Toast{}, Error: err.Error()})
			return
		}
	}
	if err := s.Settings.Save(r.Context(), st); err != nil {
		writeJSON(w, http.StatusInternalServerError, Response{Toasts: []notify.Toast{}, Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, Response{
		Settings: &st,
		Toasts:   []notify.Toast{{Message: notify.MsgSaved, Severity: notify.Success}},
	})
}

func (s *Server) logger() *pterm.Logger {
	if s.Logger == nil {
		return &pterm.DefaultLogger
	}
	return s.Logger
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
