package qdrant

import (
	"context"
	"fmt"

	"github.com/DRSN-tech/film-indexer/internal/cfg"
	"github.com/DRSN-tech/film-indexer/internal/domain"
	"github.com/DRSN-tech/film-indexer/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc/status"
)

type pointUpserter interface {
	Upsert(ctx context.Context, request *qdrant.UpsertPoints) (*qdrant.UpdateResult, error)
}

// FilmRepo хранит фильмы в коллекции Qdrant: id точки совпадает с id фильма.
type FilmRepo struct {
	client pointUpserter
	cfg    *cfg.QdrantCfg
}

func NewFilmRepo(client pointUpserter, cfg *cfg.QdrantCfg) *FilmRepo {
	return &FilmRepo{
		client: client,
		cfg:    cfg,
	}
}

// Upsert сохраняет или обновляет фильмы одним запросом и ждёт применения изменений.
func (q *FilmRepo) Upsert(ctx context.Context, films []domain.EmbeddedFilm) error {
	if len(films) == 0 {
		return nil
	}

	points := make([]*qdrant.PointStruct, 0, len(films))
	for i := range films {
		point, err := ToPoint(&films[i])
		if err != nil {
			return e.Wrap(whereami.WhereAmI(), err)
		}
		points = append(points, point)
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.cfg.QdrantCollectionName,
		Wait:           qdrant.PtrOf(true),
		Points:         points,
	})
	if err != nil {
		msg := status.Convert(err).Message()
		return e.Wrap(whereami.WhereAmI(), fmt.Errorf("%w: %w", e.NewPublic(e.ErrDatastoreWrite, msg), err))
	}

	return nil
}

// ToPoint переводит фильм в точку Qdrant; все поля кроме эмбеддинга уходят в payload.
func ToPoint(film *domain.EmbeddedFilm) (*qdrant.PointStruct, error) {
	if film.ID < 0 {
		return nil, e.NewPublic(e.ErrDatastoreWrite, fmt.Sprintf("film id %d cannot be a point id", film.ID))
	}

	return &qdrant.PointStruct{
		Id:      qdrant.NewIDNum(uint64(film.ID)),
		Vectors: qdrant.NewVectors(film.Embedding...),
		Payload: qdrant.NewValueMap(map[string]any{
			"id":            film.ID,
			"title":         film.Title,
			"overview":      film.Overview,
			"release_date":  film.ReleaseDate,
			"backdrop_path": film.BackdropPath,
		}),
	}, nil
}
