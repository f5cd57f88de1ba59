package tr

import (
	"context"
	"errors"
	"testing"

	"github.com/DRSN-tech/film-indexer/pkg/e"
	"github.com/stretchr/testify/assert"
)

func TestTxFromCtxWithoutTransaction(t *testing.T) {
	_, err := TxFromCtx(context.Background())
	assert.ErrorIs(t, err, e.ErrTransactionNotFound)
}

func TestNoopRunsFunctionAndPropagatesError(t *testing.T) {
	called := false
	err := Noop{}.Do(context.Background(), func(ctx context.Context) error {
		called = true
		return nil
	})
	assert.NoError(t, err)
	assert.True(t, called)

	boom := errors.New("boom")
	err = Noop{}.Do(context.Background(), func(ctx context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)
}
