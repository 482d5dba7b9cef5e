package web

import (
	"embed"
	"encoding/json"
	"io"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	pnet "github.com/Arash1381-y/PanicLabSim/internal/net"
)

// DefaultAPITimeout bounds each /api request. Simulations stop when it expires.
const DefaultAPITimeout = 2 * time.Minute

//go:embed static
var staticFiles embed.FS

// Server is the panlab web UI and JSON API.
type Server struct {
	runner *pnet.Runner
	runs   *pnet.RunStore
	logger  zerolog.Logger
	timeout time.Duration
	r       *chi.Mux
}

// NewServer creates a web server backed by runner.
func NewServer(runner *pnet.Runner, logger zerolog.Logger) *Server {
	return newServer(runner, logger, DefaultAPITimeout)
}

func newServer(runner *pnet.Runner, logger zerolog.Logger, timeout time.Duration) *Server {
	s := &Server{
		runner:  runner,
		runs:    pnet.NewRunStore(pnet.DefaultRunLimit),
		logger:  logger,
		timeout: timeout,
		r:       chi.NewRouter(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(s.requestLogger)
	s.r.Use(chimw.Recoverer)

	staticFS, _ := fs.Sub(staticFiles, "static")

	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		f, err := staticFS.Open("index.html")
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer f.Close()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.Copy(w, f)
	})
	s.r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	s.r.Route("/api", func(api chi.Router) {
		api.Use(chimw.Timeout(s.timeout))
		api.Get("/layouts", s.handleLayouts)
		api.Post("/simulate", s.handleSimulate)
		api.Post("/trace", s.handleTrace)
		api.Get("/runs", s.handleRuns)
		api.Get("/runs/{id}", s.handleRun)
		api.Get("/runs/{id}/pie.png", s.handlePie)
		api.Get("/runs/{id}/board.png", s.handleBoard)
	})

	// Streams shard progress; kept outside the API timeout.
	s.r.Get("/ws", s.handleWebSocket)

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found: "+r.URL.Path)
	})
}

// requestLogger logs one line per request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug().
			Str("request_id", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("http request")
	})
}

// Handler exposes the router (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.r
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info().Str("addr", addr).Msg("web server listening")
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
