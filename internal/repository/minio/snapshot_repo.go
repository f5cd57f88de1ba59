package minio

import (
	"bytes"
	"context"
	"io"

	"github.com/DRSN-tech/film-indexer/internal/cfg"
	"github.com/DRSN-tech/film-indexer/internal/domain"
	"github.com/DRSN-tech/film-indexer/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"
)

type objectPutter interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64,
		opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// SnapshotRepo архивирует сырые ответы каталога в MinIO.
type SnapshotRepo struct {
	mc  objectPutter
	cfg *cfg.MinIOCfg
}

func NewSnapshotRepo(mc objectPutter, cfg *cfg.MinIOCfg) *SnapshotRepo {
	return &SnapshotRepo{
		mc:  mc,
		cfg: cfg,
	}
}

// Put загружает снимок по его ключу в бакет из конфигурации.
func (s *SnapshotRepo) Put(ctx context.Context, snapshot *domain.CatalogSnapshot) error {
	reader := bytes.NewReader(snapshot.Data)

	_, err := s.mc.PutObject(ctx, s.cfg.BucketName, snapshot.Key, reader, int64(len(snapshot.Data)), minio.PutObjectOptions{
		ContentType: snapshot.ContentType,
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
