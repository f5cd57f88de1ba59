package minio

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/DRSN-tech/film-indexer/internal/cfg"
	"github.com/DRSN-tech/film-indexer/internal/domain"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	bucket, key, contentType string
	body                     []byte
	size                     int64
	err                      error
}

func (f *fakePutter) PutObject(_ context.Context, bucketName, objectName string, reader io.Reader, objectSize int64,
	opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	if f.err != nil {
		return minio.UploadInfo{}, f.err
	}
	f.bucket, f.key, f.size, f.contentType = bucketName, objectName, objectSize, opts.ContentType
	f.body, _ = io.ReadAll(reader)
	return minio.UploadInfo{Bucket: bucketName, Key: objectName, Size: objectSize}, nil
}

func TestSnapshotRepoPut(t *testing.T) {
	putter := &fakePutter{}
	repo := NewSnapshotRepo(putter, &cfg.MinIOCfg{BucketName: "film-catalog"})

	snap := domain.NewCatalogSnapshot("2020", "run-1", []byte(`{"results":[]}`))
	require.NoError(t, repo.Put(context.Background(), snap))

	assert.Equal(t, "film-catalog", putter.bucket)
	assert.Equal(t, "catalog/2020/run-1.json", putter.key)
	assert.Equal(t, "application/json", putter.contentType)
	assert.EqualValues(t, len(`{"results":[]}`), putter.size)
	assert.Equal(t, `{"results":[]}`, string(putter.body))
}

func TestSnapshotRepoPutError(t *testing.T) {
	repo := NewSnapshotRepo(&fakePutter{err: errors.New("access denied")}, &cfg.MinIOCfg{BucketName: "b"})

	err := repo.Put(context.Background(), domain.NewCatalogSnapshot("2020", "r", []byte("{}")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}
