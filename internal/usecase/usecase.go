package usecase

import (
	"context"

	"github.com/DRSN-tech/film-indexer/internal/domain"
)

type FilmUC interface {
	IngestYear(ctx context.Context, req *IngestReq) (*IngestRes, error)
	GetIngestionStatus(ctx context.Context, year string) (*domain.IngestionRun, error)
}
