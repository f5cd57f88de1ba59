package usecase

import (
	"context"

	"github.com/DRSN-tech/film-indexer/internal/domain"
)

type CatalogInfra interface {
	Discover(ctx context.Context, year string) (*DiscoverRes, error)
}

type EmbeddingInfra interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	ModelName() string
}

type EventPublisher interface {
	PublishFilmsIngested(ctx context.Context, run *domain.IngestionRun) error
}
