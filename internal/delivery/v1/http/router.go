package http

import (
	"net/http"

	_ "github.com/DRSN-tech/film-indexer/docs" // Импорт сгенерированных файлов
	"github.com/DRSN-tech/film-indexer/internal/usecase"
	"github.com/DRSN-tech/film-indexer/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

const serviceName = "film-indexer"

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(filmUC usecase.FilmUC) {
	r.router.Use(
		otelMiddleware(serviceName),
		middleware.RequestID,
		requestLogger(r.logger),
		recoverer(r.logger),
	)

	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		WriteSuccess(w, http.StatusOK, NewMessageResponse("ok"))
	})

	filmHandler := NewFilmHandler(filmUC, r.logger)

	// Корневой эндпоинт повторяет контракт /api/v1/films/ingest
	r.router.Get("/", filmHandler.ingestYear)

	r.router.Route("/api/v1", func(v1 chi.Router) {
		registerFilmRoutes(v1, filmHandler)
	})
}

func registerFilmRoutes(router chi.Router, filmHandler *FilmHandler) {
	router.Route("/films", func(fr chi.Router) {
		fr.Get("/ingest", filmHandler.ingestYear)
		fr.Get("/ingestions/{year}", filmHandler.getIngestionStatus)
	})
}
