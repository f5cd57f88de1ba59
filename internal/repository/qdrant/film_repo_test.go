package qdrant

import (
	"context"
	"testing"

	"github.com/DRSN-tech/film-indexer/internal/cfg"
	"github.com/DRSN-tech/film-indexer/internal/domain"
	"github.com/DRSN-tech/film-indexer/pkg/e"
	"github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type fakeUpserter struct {
	requests []*qdrant.UpsertPoints
	err      error
}

func (f *fakeUpserter) Upsert(_ context.Context, req *qdrant.UpsertPoints) (*qdrant.UpdateResult, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &qdrant.UpdateResult{Status: qdrant.UpdateStatus_Completed}, nil
}

func testFilms() []domain.EmbeddedFilm {
	return []domain.EmbeddedFilm{
		*domain.NewEmbeddedFilm(domain.Film{ID: 1, Title: "One", Overview: "A"}, []float32{0.1, 0.2}),
		*domain.NewEmbeddedFilm(domain.Film{ID: 2, Title: "Two", Overview: "B", ReleaseDate: "2020-05-05"}, []float32{0.3, 0.4}),
	}
}

func TestUpsertSendsOnePointPerFilm(t *testing.T) {
	client := &fakeUpserter{}
	repo := NewFilmRepo(client, &cfg.QdrantCfg{QdrantCollectionName: "films"})

	require.NoError(t, repo.Upsert(context.Background(), testFilms()))
	require.Len(t, client.requests, 1)

	req := client.requests[0]
	assert.Equal(t, "films", req.CollectionName)
	assert.True(t, req.GetWait())
	require.Len(t, req.Points, 2)

	first := req.Points[0]
	assert.Equal(t, uint64(1), first.GetId().GetNum())
	assert.Equal(t, "One", first.GetPayload()["title"].GetStringValue())
	assert.Equal(t, int64(1), first.GetPayload()["id"].GetIntegerValue())
	assert.Equal(t, "2020-05-05", req.Points[1].GetPayload()["release_date"].GetStringValue())
}

func TestUpsertEmptyBatchSkipsCall(t *testing.T) {
	client := &fakeUpserter{}
	repo := NewFilmRepo(client, &cfg.QdrantCfg{QdrantCollectionName: "films"})

	require.NoError(t, repo.Upsert(context.Background(), nil))
	assert.Empty(t, client.requests)
}

func TestUpsertMapsErrorToDatastoreWrite(t *testing.T) {
	client := &fakeUpserter{err: status.Error(codes.NotFound, "Collection `films` doesn't exist!")}
	repo := NewFilmRepo(client, &cfg.QdrantCfg{QdrantCollectionName: "films"})

	err := repo.Upsert(context.Background(), testFilms())
	require.ErrorIs(t, err, e.ErrDatastoreWrite)

	msg, ok := e.PublicMessage(err)
	require.True(t, ok)
	assert.Equal(t, "Error inserting data into datastore: Collection `films` doesn't exist!", msg)
}

func TestToPointRejectsNegativeID(t *testing.T) {
	_, err := ToPoint(domain.NewEmbeddedFilm(domain.Film{ID: -1}, []float32{1}))
	require.ErrorIs(t, err, e.ErrDatastoreWrite)
}
