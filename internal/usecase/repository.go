package usecase

import (
	"context"

	"github.com/DRSN-tech/film-indexer/internal/domain"
)

// FilmRepository записывает фильмы пачкой с перезаписью по ID.
type FilmRepository interface {
	Upsert(ctx context.Context, films []domain.EmbeddedFilm) error
}

type IngestionStatusRepository interface {
	Save(ctx context.Context, run *domain.IngestionRun) error
	Get(ctx context.Context, year string) (*domain.IngestionRun, error)
}

type SnapshotRepository interface {
	Put(ctx context.Context, snapshot *domain.CatalogSnapshot) error
}

// Transactor выполняет fn внутри транзакции хранилища, если хранилище их поддерживает.
type Transactor interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
