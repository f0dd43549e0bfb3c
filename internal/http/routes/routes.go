package routes

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	appmw "github.com/briangreenhill/jokeshelf/internal/http/middleware"
	"github.com/briangreenhill/jokeshelf/internal/jokes"
	"github.com/briangreenhill/jokeshelf/internal/models"
)

// BasePath is where the joke routes are mounted
const BasePath = "/api/jokes"

type Server struct {
	Router *chi.Mux
	Jokes  *jokes.Service
	Log    zerolog.Logger
}

type ServerOptions struct {
	Jokes          *jokes.Service
	Logger         zerolog.Logger
	AllowedOrigins []string
}

func New(opts ServerOptions) *Server {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(hlog.NewHandler(opts.Logger))
	r.Use(appmw.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(appmw.CORS(opts.AllowedOrigins))

	s := &Server{Router: r, Jokes: opts.Jokes, Log: opts.Logger}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("ok")); err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("write health check response")
		}
	})

	r.Route(BasePath, func(jr chi.Router) {
		jr.Get("/random", s.handleLoadRandom)
		jr.Get("/", s.handleFetchDefault)
		jr.Get("/{count}", s.handleFetch)

		jr.Post("/", s.handleCreate)
		jr.Put("/{id}", s.handleUpdate)
		jr.Post("/reset/{count}", s.handleReset)

		jr.Delete("/{id}", s.handleDelete)
		jr.Delete("/", s.handleDeleteAll)
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, errorBody{Error: msg})
}

// writeServiceError maps a jokes.Service error onto a status code
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, upstreamMsg string) {
	var upErr *jokes.UpstreamError
	switch {
	case errors.Is(err, jokes.ErrMissingID):
		writeError(w, r, http.StatusBadRequest, "Missing joke ID")
	case errors.Is(err, jokes.ErrIDMismatch):
		writeError(w, r, http.StatusBadRequest, "Joke ID does not match the path")
	case errors.Is(err, jokes.ErrDuplicateID):
		writeError(w, r, http.StatusConflict, "Joke already exists")
	case errors.Is(err, jokes.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "Joke not found")
	case errors.Is(err, jokes.ErrConflict):
		writeError(w, r, http.StatusConflict, "Could not find a unique joke")
	case errors.As(err, &upErr):
		hlog.FromRequest(r).Error().Err(err).Msg("upstream joke api failed")
		writeError(w, r, http.StatusInternalServerError, upstreamMsg)
	default:
		hlog.FromRequest(r).Error().Err(err).Msg("unexpected error")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

// parseCount reads a non-negative integer route or query value
func parseCount(raw string) (int, bool) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func (s *Server) handleFetchDefault(w http.ResponseWriter, r *http.Request) {
	count := s.Jokes.DefaultCount()
	if raw := r.URL.Query().Get("count"); raw != "" {
		n, ok := parseCount(raw)
		if !ok {
			writeError(w, r, http.StatusBadRequest, "count must be a non-negative integer")
			return
		}
		count = n
	}
	s.fetch(w, r, count)
}

func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	count, ok := parseCount(chi.URLParam(r, "count"))
	if !ok {
		writeError(w, r, http.StatusBadRequest, "count must be a non-negative integer")
		return
	}
	s.fetch(w, r, count)
}

func (s *Server) fetch(w http.ResponseWriter, r *http.Request, count int) {
	js, err := s.Jokes.Fetch(r.Context(), count)
	if err != nil {
		writeServiceError(w, r, err, "Failed to fetch jokes from external API")
		return
	}
	writeJSON(w, r, http.StatusOK, js)
}

func (s *Server) handleLoadRandom(w http.ResponseWriter, r *http.Request) {
	j, err := s.Jokes.LoadRandom(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Failed to fetch a random joke from external API")
		return
	}
	writeJSON(w, r, http.StatusCreated, j)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var d models.Draft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid joke body")
		return
	}
	j, err := s.Jokes.Create(d)
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	writeJSON(w, r, http.StatusCreated, j)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "invalid joke id")
		return
	}
	var d models.Draft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid joke body")
		return
	}
	j, err := s.Jokes.Update(id, d)
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	writeJSON(w, r, http.StatusOK, j)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	count, ok := parseCount(chi.URLParam(r, "count"))
	if !ok {
		writeError(w, r, http.StatusBadRequest, "count must be a non-negative integer")
		return
	}
	js, err := s.Jokes.Reset(r.Context(), count)
	if err != nil {
		writeServiceError(w, r, err, "Failed to reset jokes from external API")
		return
	}
	writeJSON(w, r, http.StatusOK, js)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "invalid joke id")
		return
	}
	if err := s.Jokes.Delete(id); err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteAll(w http.ResponseWriter, r *http.Request) {
	s.Jokes.DeleteAll()
	w.WriteHeader(http.StatusNoContent)
}
