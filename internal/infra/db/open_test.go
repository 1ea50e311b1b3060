package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bryanwahyu/engine-checkup/internal/config"
)

func TestOpen_Memory(t *testing.T) {
	cfg, err := config.Parse([]byte("database:\n  driver: memory\n"))
	require.NoError(t, err)

	s, err := Open(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, s.DB)
	assert.NotNil(t, s.Vehicles)
	assert.NotNil(t, s.Analyses)
	assert.NotNil(t, s.Reports)
	assert.NoError(t, s.Close())
}

func TestConnect_MemoryHasNoDatabase(t *testing.T) {
	cfg, err := config.Parse([]byte("database:\n  driver: memory\n"))
	require.NoError(t, err)
	_, err = Connect(context.Background(), cfg)
	assert.Error(t, err)
}
