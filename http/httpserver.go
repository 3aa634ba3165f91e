package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"

	"github.com/programme-lv/judgetrack/tracksrvc"
)

// JobTracker is the slice of the tracking service the HTTP
// status API consumes.
type JobTracker interface {
	Submit(ctx context.Context, req tracksrvc.Request) (string, error)
	InFlight() []string
	IsInFlight(jobId string) bool
	Result(jobId string) (tracksrvc.JobResult, error)
}

type HttpServer struct {
	logger  *slog.Logger
	tracker JobTracker
	router  *chi.Mux
}

func NewHttpServer(tracker JobTracker) *HttpServer {
	router := chi.NewRouter()

	logger := httplog.NewLogger("judgetrack", httplog.Options{
		LogLevel:         slog.LevelDebug,
		Concise:          true,
		MessageFieldName: "message",
	})

	router.Use(httplog.RequestLogger(logger))

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         3000,
	})

	router.Use(corsMiddleware.Handler)

	server := &HttpServer{
		logger:  logger.Logger,
		tracker: tracker,
		router:  router,
	}

	server.routes()

	return server
}

func (httpserver *HttpServer) Start(address string) error {
	return http.ListenAndServe(address, httpserver.router)
}

func (httpserver *HttpServer) routes() {
	httpserver.router.Post("/jobs", httpserver.submitJob)
	httpserver.router.Get("/jobs", httpserver.listJobs)
	httpserver.router.Get("/jobs/{jobId}", httpserver.getJob)
}
