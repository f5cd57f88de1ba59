package clients

import (
	"context"
	"fmt"

	config "github.com/DRSN-tech/film-indexer/internal/cfg"
	"github.com/DRSN-tech/film-indexer/pkg/e"
	"github.com/DRSN-tech/film-indexer/pkg/logger"
	"github.com/jimlawless/whereami"
	"github.com/qdrant/go-client/qdrant"
)

type QdrantClient struct {
	Client *qdrant.Client
	cfg    *config.QdrantCfg
}

func NewQdrantClient(cfg *config.QdrantCfg) (*QdrantClient, error) {
	qdrantClient, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.ApiKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &QdrantClient{
		Client: qdrantClient,
		cfg:    cfg,
	}, nil
}

// EnsureCollection создаёт коллекцию фильмов с косинусной метрикой, если её нет.
// Для существующей коллекции только сверяет размер вектора.
func (c *QdrantClient) EnsureCollection(ctx context.Context, log logger.Logger) error {
	name := c.cfg.QdrantCollectionName

	exists, err := c.Client.CollectionExists(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to check collection existence: %w", err)
	}

	if exists {
		info, err := c.Client.GetCollectionInfo(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to get collection info: %w", err)
		}

		size := info.GetConfig().GetParams().GetVectorsConfig().GetParams().GetSize()
		if size != 0 && size != c.cfg.VectorSize {
			log.Warnf("qdrant collection %s has vector size %d, VECTOR_SIZE is %d", name, size, c.cfg.VectorSize)
		}
		return nil
	}

	if err := c.Client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     c.cfg.VectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	}); err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	log.Infof("qdrant collection %s created, vector size %d", name, c.cfg.VectorSize)

	return nil
}

func (c *QdrantClient) Close(context.Context) error {
	return c.Client.Close()
}
