package converter

import (
	"github.com/DRSN-tech/film-indexer/internal/domain"
	"github.com/pgvector/pgvector-go"
)

// FilmConverter преобразует фильмы между domain и моделью PostgreSQL.
type FilmConverter interface {
	ToModel(entity *domain.EmbeddedFilm) *FilmModel
	ToEntity(model *FilmModel) *domain.EmbeddedFilm
}

type FilmConverterImpl struct{}

func NewFilmConverterImpl() *FilmConverterImpl {
	return &FilmConverterImpl{}
}

func (FilmConverterImpl) ToModel(entity *domain.EmbeddedFilm) *FilmModel {
	if entity == nil {
		return nil
	}

	return &FilmModel{
		ID:           entity.ID,
		Title:        entity.Title,
		Overview:     entity.Overview,
		ReleaseDate:  entity.ReleaseDate,
		BackdropPath: entity.BackdropPath,
		Embedding:    pgvector.NewVector(entity.Embedding),
	}
}

func (FilmConverterImpl) ToEntity(model *FilmModel) *domain.EmbeddedFilm {
	if model == nil {
		return nil
	}

	return domain.NewEmbeddedFilm(domain.Film{
		ID:           model.ID,
		Title:        model.Title,
		Overview:     model.Overview,
		ReleaseDate:  model.ReleaseDate,
		BackdropPath: model.BackdropPath,
	}, model.Embedding.Slice())
}
