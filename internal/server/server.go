package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"github.com/ai-for-future/server/internal/studio/chat"
	"github.com/ai-for-future/server/internal/studio/device"
	"github.com/ai-for-future/server/internal/studio/image"
	"github.com/ai-for-future/server/internal/studio/video"
	logx "github.com/ai-for-future/server/pkg/logger"
)

// Config holds the HTTP boundary settings.
type Config struct {
	Port          string `envconfig:"PORT" default:"8080"`
	AllowedOrigin string `envconfig:"ALLOWED_ORIGIN" default:"*"`
}

// Server exposes one endpoint per orchestrator. It owns the device registry
// and is responsible for persisting interpreter diffs into it.
type Server struct {
	router   *chi.Mux
	chat     *chat.Orchestrator
	images   *image.Orchestrator
	videos   *video.Orchestrator
	devices  *device.Interpreter
	registry *device.Registry
}

func NewServer(cfg Config, chatOrch *chat.Orchestrator, imageOrch *image.Orchestrator, videoOrch *video.Orchestrator, interpreter *device.Interpreter, registry *device.Registry) *Server {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{cfg.AllowedOrigin},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		MaxAge:         300,
	}))
	r.Use(requestLogger)

	s := &Server{
		router:   r,
		chat:     chatOrch,
		images:   imageOrch,
		videos:   videoOrch,
		devices:  interpreter,
		registry: registry,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Get("/api/health", s.handleHealth)
	s.router.Post("/api/chat", s.handleChat)
	s.router.Post("/api/images", s.handleImageCreate)
	s.router.Post("/api/images/edit", s.handleImageEdit)
	s.router.Post("/api/videos", s.handleVideoGenerate)
	s.router.Get("/api/devices", s.handleDeviceList)
	s.router.Post("/api/devices/command", s.handleDeviceCommand)
}

// Router returns the underlying handler for http.ListenAndServe.
func (s *Server) Router() http.Handler {
	return s.router
}

// requestLogger tags each request with an id and logs method, path, duration.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		start := time.Now()
		next.ServeHTTP(w, r)
		logx.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("Request handled")
	})
}
