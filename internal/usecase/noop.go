package usecase

import (
	"context"

	"github.com/DRSN-tech/film-indexer/internal/domain"
	"github.com/DRSN-tech/film-indexer/pkg/e"
)

// Заглушки для необязательных компонентов, которые не настроены в окружении.

type NopEventPublisher struct{}

func (NopEventPublisher) PublishFilmsIngested(context.Context, *domain.IngestionRun) error {
	return nil
}

type NopStatusRepository struct{}

func (NopStatusRepository) Save(context.Context, *domain.IngestionRun) error {
	return nil
}

func (NopStatusRepository) Get(context.Context, string) (*domain.IngestionRun, error) {
	return nil, e.ErrIngestionNotFound
}

type NopSnapshotRepository struct{}

func (NopSnapshotRepository) Put(context.Context, *domain.CatalogSnapshot) error {
	return nil
}
