package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/DRSN-tech/film-indexer/pkg/e"
	"github.com/DRSN-tech/film-indexer/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngestRequiresYearFlag(t *testing.T) {
	cmd := newCommand(logger.NewDiscard())
	cmd.Writer = &bytes.Buffer{}
	cmd.ErrWriter = &bytes.Buffer{}

	err := cmd.Run(context.Background(), []string{"film-indexer", "ingest"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "year")
}

func TestServeFailsWithoutConfig(t *testing.T) {
	for _, key := range []string{"DATASTORE_URL", "DATASTORE_SERVICE_KEY", "TMDB_API_KEY", "OPEN_AI_API_KEY"} {
		t.Setenv(key, "")
	}

	cmd := newCommand(logger.NewDiscard())
	cmd.Writer = &bytes.Buffer{}
	cmd.ErrWriter = &bytes.Buffer{}

	missing := filepath.Join(t.TempDir(), "missing.env")
	err := cmd.Run(context.Background(), []string{"film-indexer", "serve", "--env", missing})
	require.ErrorIs(t, err, e.ErrMissingConfig)
}
