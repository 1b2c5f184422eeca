package daemon

import (
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"squatanalyzer/internal/analysis"
	"squatanalyzer/internal/measure"
	"squatanalyzer/internal/pose"
)

const maxUploadBytes = 100 << 20

// Server stores all in-memory state and exposes HTTP handlers.
type Server struct {
	mu        sync.RWMutex
	cfg       analysis.Config
	pipeline  *analysis.Pipeline
	adapter   *pose.Adapter
	extractor *measure.Extractor
	sessions  map[string]*analysis.Session
	now       func() time.Time
}

func NewServer() *Server {
	cfg := analysis.DefaultConfig()

	oracleURL := os.Getenv("POSE_ORACLE_URL")
	if oracleURL == "" {
		oracleURL = "http://localhost:8000"
	}

	var secondary pose.Oracle
	if validatorURL := os.Getenv("POSE_VALIDATOR_URL"); validatorURL != "" {
		secondary = pose.NewClient(validatorURL, "/validate_pose")
	}
	adapter := pose.NewAdapter(pose.NewClient(oracleURL, "/detect_pose"), secondary)

	return &Server{
		cfg:       cfg,
		pipeline:  analysis.New(cfg, adapter),
		adapter:   adapter,
		extractor: measure.NewExtractor(cfg.VisibilityThreshold),
		sessions:  make(map[string]*analysis.Session),
		now:       time.Now,
	}
}

// Routes returns the HTTP handler for all endpoints.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	// Logging
	r.Use(logRequestMiddleware)

	// CORS to allow local client
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Swagger docs
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
	})
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// Health and keep-warm
	r.Get("/health", s.handleHealth)
	r.Get("/ping", s.handlePing)

	// Video analysis
	r.Post("/analyze", s.handleAnalyze)

	// Live session analysis
	r.Post("/analyze-squat", s.handleAnalyzeSquat)
	r.Post("/reset-session", s.handleResetSession)
	r.Get("/get-session-data", s.handleSessionData)

	return r
}

// session returns the named live session, creating it on first use.
func (s *Server) session(id string) *analysis.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		sess = analysis.NewSession(s.now())
		s.sessions[id] = sess
	}
	return sess
}
