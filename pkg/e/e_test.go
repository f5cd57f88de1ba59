package e

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublicErrorKeepsSentinelThroughWraps(t *testing.T) {
	err := Wrap("FilmUseCase.IngestYear", Wrap("Embedder.Embed", NewPublic(ErrEmbeddingFailed, "invalid api key")))

	assert.True(t, errors.Is(err, ErrEmbeddingFailed))

	msg, ok := PublicMessage(err)
	assert.True(t, ok)
	assert.Equal(t, "Error obtaining embedding: invalid api key", msg)
}

func TestPublicMessageWithoutDetail(t *testing.T) {
	msg, ok := PublicMessage(NewPublic(ErrCatalogUnavailable, ""))
	assert.True(t, ok)
	assert.Equal(t, ErrCatalogUnavailable.Error(), msg)

	_, ok = PublicMessage(errors.New("plain"))
	assert.False(t, ok)
}
