package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dgallion1/lexread/internal/config"
	"github.com/dgallion1/lexread/internal/explain"
	"github.com/dgallion1/lexread/internal/extract"
	"github.com/dgallion1/lexread/internal/filestore"
	"github.com/dgallion1/lexread/internal/segment"
)

// Server is the HTTP API server for lexread.
type Server struct {
	router     chi.Router
	extractors *extract.Set
	segmenter  *segment.Segmenter
	explainer  *explain.Service
	files      *filestore.Store
	ai         *config.AIManager
	log        *slog.Logger
	cfg        config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(
	extractors *extract.Set,
	segmenter *segment.Segmenter,
	explainer *explain.Service,
	files *filestore.Store,
	ai *config.AIManager,
	log *slog.Logger,
	cfg config.Config,
) *Server {
	s := &Server{
		extractors: extractors,
		segmenter:  segmenter,
		explainer:  explainer,
		files:      files,
		ai:         ai,
		log:        log,
		cfg:        cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)

	r.Post("/api/upload-file", s.handleUploadFile)
	r.Post("/api/parse-text", s.handleParseText)

	r.Post("/api/explain-token", s.handleExplainToken)
	r.Post("/api/translate-text", s.handleTranslateText)

	r.Get("/api/config", s.handleGetConfig)
	r.Put("/api/config", s.handleUpdateConfig)
	r.Get("/api/config/providers", s.handleListProviders)
	r.Post("/api/config/test", s.handleTestConfig)

	// Stored originals, served for side-by-side rendering.
	r.Handle("/static/uploads/*", http.StripPrefix("/static/uploads/",
		http.FileServer(http.Dir(s.files.Dir()))))

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
