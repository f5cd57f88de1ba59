package http

import (
	"context"
	"net/http"

	"github.com/DRSN-tech/film-indexer/internal/usecase"
	"github.com/DRSN-tech/film-indexer/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type FilmHandler struct {
	filmUsecase usecase.FilmUC
	logger      logger.Logger
}

func NewFilmHandler(filmUsecase usecase.FilmUC, logger logger.Logger) *FilmHandler {
	return &FilmHandler{filmUsecase: filmUsecase, logger: logger}
}

// ingestYear
//
//	@Summary		Загрузка фильмов за год
//	@Description	Берёт первую страницу популярных фильмов года из TMDB, считает эмбеддинги описаний и записывает их в хранилище
//	@Tags			films
//	@Produce		json
//	@Param			year	query		string			true	"Год выпуска, YYYY"
//	@Success		200		{object}	MessageResponse	"N films added for year YYYY"
//	@Failure		400		{object}	ErrorResponse	"Год не задан или некорректен"
//	@Failure		500		{object}	ErrorResponse	"Ошибка записи в хранилище"
//	@Failure		502		{object}	ErrorResponse	"Ошибка каталога или API эмбеддингов"
//	@Router			/films/ingest [get]
func (f *FilmHandler) ingestYear(w http.ResponseWriter, r *http.Request) {
	year := r.URL.Query().Get("year")

	// Загрузка доводится до конца даже если клиент отключился
	ctx := context.WithoutCancel(r.Context())

	res, err := f.filmUsecase.IngestYear(ctx, usecase.NewIngestReq(year))
	if err != nil {
		code, msg := ToHTTPResponse(err)
		f.logger.Warnf("%d %s: %v", code, msg, err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, NewMessageResponse(res.Message()))
}

// getIngestionStatus
//
//	@Summary		Статус последней загрузки за год
//	@Tags			films
//	@Produce		json
//	@Param			year	path		string				true	"Год выпуска, YYYY"
//	@Success		200		{object}	domain.IngestionRun	"Последний успешный прогон"
//	@Failure		400		{object}	ErrorResponse		"Некорректный год"
//	@Failure		404		{object}	ErrorResponse		"Загрузок за год не было"
//	@Router			/films/ingestions/{year} [get]
func (f *FilmHandler) getIngestionStatus(w http.ResponseWriter, r *http.Request) {
	year := chi.URLParam(r, "year")

	run, err := f.filmUsecase.GetIngestionStatus(r.Context(), year)
	if err != nil {
		code, msg := ToHTTPResponse(err)
		f.logger.Debugf("%d %s: %v", code, msg, err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, run)
}

