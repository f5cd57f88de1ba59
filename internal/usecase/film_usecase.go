package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/DRSN-tech/film-indexer/internal/cfg"
	"github.com/DRSN-tech/film-indexer/internal/domain"
	"github.com/DRSN-tech/film-indexer/pkg/e"
	"github.com/DRSN-tech/film-indexer/pkg/logger"
	"github.com/google/uuid"
)

// FilmUseCase реализует загрузку фильмов за год: каталог -> эмбеддинги -> хранилище.
type FilmUseCase struct {
	catalog   CatalogInfra
	embedder  EmbeddingInfra
	filmRepo  FilmRepository
	tx        Transactor
	statuses  IngestionStatusRepository
	snapshots SnapshotRepository
	events    EventPublisher
	table     string
	logger    logger.Logger
}

func NewFilmUC(
	catalog CatalogInfra,
	embedder EmbeddingInfra,
	filmRepo FilmRepository,
	tx Transactor,
	statuses IngestionStatusRepository,
	snapshots SnapshotRepository,
	events EventPublisher,
	table string,
	logger logger.Logger,
) *FilmUseCase {
	if statuses == nil {
		statuses = NopStatusRepository{}
	}
	if snapshots == nil {
		snapshots = NopSnapshotRepository{}
	}
	if events == nil {
		events = NopEventPublisher{}
	}

	return &FilmUseCase{
		catalog:   catalog,
		embedder:  embedder,
		filmRepo:  filmRepo,
		tx:        tx,
		statuses:  statuses,
		snapshots: snapshots,
		events:    events,
		table:     table,
		logger:    logger,
	}
}

// IngestYear загружает первую страницу каталога за год, считает эмбеддинги описаний
// и записывает фильмы в хранилище одной пачкой.
func (f *FilmUseCase) IngestYear(ctx context.Context, req *IngestReq) (*IngestRes, error) {
	const op = "FilmUseCase.IngestYear"

	// Валидация
	year, err := f.validateYear(req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	runID := uuid.NewString()
	log := f.logger.With("run_id", runID, "year", year)

	// Каталог
	discovered, err := f.discover(ctx, year)
	if err != nil {
		log.Errorf(err, "catalog request failed")
		return nil, e.Wrap(op, err)
	}
	log.Infof("catalog returned %d films", len(discovered.Films))

	// Эмбеддинги, строго по одному и в порядке каталога
	films, err := f.embedFilms(ctx, discovered.Films)
	if err != nil {
		log.Errorf(err, "embedding failed")
		return nil, e.Wrap(op, err)
	}

	// Запись в хранилище
	if err := f.upsertFilms(ctx, films); err != nil {
		log.Errorf(err, "datastore upsert failed")
		return nil, e.Wrap(op, err)
	}

	run := domain.NewIngestionRun(runID, year, f.embedder.ModelName(), f.table, films)
	f.afterCommit(ctx, log, run, discovered.Raw)

	log.Infof("ingestion finished, %d films upserted", run.FilmCount)

	return NewIngestRes(runID, year, run.FilmCount), nil
}

// GetIngestionStatus возвращает последний успешный прогон за год.
func (f *FilmUseCase) GetIngestionStatus(ctx context.Context, year string) (*domain.IngestionRun, error) {
	const op = "FilmUseCase.GetIngestionStatus"

	year = strings.TrimSpace(year)
	if !cfg.ValidYear(year) {
		return nil, e.Wrap(op, e.NewPublic(e.ErrInvalidYear, ""))
	}

	run, err := f.statuses.Get(ctx, year)
	if err != nil {
		if errors.Is(err, e.ErrIngestionNotFound) {
			return nil, e.Wrap(op, e.NewPublic(e.ErrIngestionNotFound, year))
		}
		return nil, e.Wrap(op, err)
	}

	return run, nil
}

func (f *FilmUseCase) validateYear(req *IngestReq) (string, error) {
	if req == nil {
		return "", e.NewPublic(e.ErrYearRequired, "")
	}

	year := strings.TrimSpace(req.Year)
	if year == "" {
		return "", e.NewPublic(e.ErrYearRequired, "")
	}
	if !cfg.ValidYear(year) {
		return "", e.NewPublic(e.ErrInvalidYear, "")
	}

	return year, nil
}

func (f *FilmUseCase) discover(ctx context.Context, year string) (*DiscoverRes, error) {
	res, err := f.catalog.Discover(ctx, year)
	if err != nil {
		if errors.Is(err, e.ErrCatalogUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", e.NewPublic(e.ErrCatalogUnavailable, ""), err)
	}

	return res, nil
}

// embedFilms останавливается на первой же ошибке: частичные результаты не сохраняются.
func (f *FilmUseCase) embedFilms(ctx context.Context, films []domain.Film) ([]domain.EmbeddedFilm, error) {
	out := make([]domain.EmbeddedFilm, 0, len(films))

	for _, film := range films {
		vec, err := f.embedder.Embed(ctx, film.Overview)
		if err != nil {
			if !errors.Is(err, e.ErrEmbeddingFailed) {
				err = fmt.Errorf("%w: %w", e.NewPublic(e.ErrEmbeddingFailed, err.Error()), err)
			}
			return nil, e.Wrap(fmt.Sprintf("film %d", film.ID), err)
		}
		if len(vec) == 0 {
			return nil, e.Wrap(fmt.Sprintf("film %d", film.ID), e.NewPublic(e.ErrEmbeddingFailed, e.ErrEmptyEmbedding.Error()))
		}

		out = append(out, *domain.NewEmbeddedFilm(film, vec))
	}

	return out, nil
}

func (f *FilmUseCase) upsertFilms(ctx context.Context, films []domain.EmbeddedFilm) error {
	err := f.tx.Do(ctx, func(ctx context.Context) error {
		return f.filmRepo.Upsert(ctx, films)
	})
	if err == nil {
		return nil
	}

	if errors.Is(err, e.ErrDatastoreWrite) {
		return err
	}

	return fmt.Errorf("%w: %w", e.NewPublic(e.ErrDatastoreWrite, rootMessage(err)), err)
}

// afterCommit выполняет побочные действия после записи. Их ошибки только логируются.
func (f *FilmUseCase) afterCommit(ctx context.Context, log logger.Logger, run *domain.IngestionRun, raw []byte) {
	if len(raw) > 0 {
		if err := f.snapshots.Put(ctx, domain.NewCatalogSnapshot(run.Year, run.RunID, raw)); err != nil {
			log.Warnf("failed to archive catalog snapshot: %v", err)
		}
	}

	if err := f.statuses.Save(ctx, run); err != nil {
		log.Warnf("failed to save ingestion status: %v", err)
	}

	if err := f.events.PublishFilmsIngested(ctx, run); err != nil {
		log.Warnf("failed to publish films.ingested event: %v", err)
	}
}

// rootMessage возвращает текст самой внутренней ошибки цепочки без префиксов операций.
func rootMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}
