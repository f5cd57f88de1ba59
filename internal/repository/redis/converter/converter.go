package converter

import (
	"time"

	"github.com/DRSN-tech/film-indexer/internal/domain"
)

type IngestionRunConverter interface {
	ToRedisModel(entity *domain.IngestionRun) *IngestionRunRedisModel
	ToEntity(model *IngestionRunRedisModel) *domain.IngestionRun
}

type IngestionRunConverterImpl struct{}

func NewIngestionRunConverterImpl() *IngestionRunConverterImpl {
	return &IngestionRunConverterImpl{}
}

func (IngestionRunConverterImpl) ToRedisModel(entity *domain.IngestionRun) *IngestionRunRedisModel {
	if entity == nil {
		return nil
	}

	return &IngestionRunRedisModel{
		RunID:      entity.RunID,
		Year:       entity.Year,
		FilmCount:  entity.FilmCount,
		FilmIDs:    entity.FilmIDs,
		Model:      entity.Model,
		Table:      entity.Table,
		FinishedAt: entity.FinishedAt.Unix(),
	}
}

func (IngestionRunConverterImpl) ToEntity(model *IngestionRunRedisModel) *domain.IngestionRun {
	if model == nil {
		return nil
	}

	return &domain.IngestionRun{
		RunID:      model.RunID,
		Year:       model.Year,
		FilmCount:  model.FilmCount,
		FilmIDs:    model.FilmIDs,
		Model:      model.Model,
		Table:      model.Table,
		FinishedAt: time.Unix(model.FinishedAt, 0).UTC(),
	}
}
