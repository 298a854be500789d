package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/cloo-solutions/ordlens/internal/api"
	"github.com/cloo-solutions/ordlens/internal/api/handlers"
	"github.com/cloo-solutions/ordlens/internal/api/middleware"
)

const defaultMaxUploadBytes int64 = 10 * 1024 * 1024

type RouterConfig struct {
	LookupHandler  *handlers.LookupHandler
	Busy           middleware.BusyChecker
	Logger         *logrus.Logger
	MaxUploadBytes int64
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	maxBodyBytes := cfg.MaxUploadBytes
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxUploadBytes
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog(logger))
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		if cfg.Busy != nil {
			r.Use(middleware.RejectWhenBusy(cfg.Busy))
		}

		r.Get("/lookup", cfg.LookupHandler.Resume)
		r.Get("/lookup/{identifier}", cfg.LookupHandler.Lookup)
		r.Get("/random", cfg.LookupHandler.Random)
		r.Post("/upload", cfg.LookupHandler.Upload)
	})

	return r
}
