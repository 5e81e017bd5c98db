package persistence

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/printshop-service/internal/config"
)

func TestNewRedis_Connects(t *testing.T) {
	mr := miniredis.RunT(t)

	r := NewRedis(context.Background(), config.RedisConfig{Addr: mr.Addr()}, zap.NewNop())
	defer r.Close()

	require.NotNil(t, r.Handle())
	assert.NoError(t, r.Ping(context.Background()))
}

func TestNewRedis_DisabledWithoutAddr(t *testing.T) {
	r := NewRedis(context.Background(), config.RedisConfig{}, zap.NewNop())

	assert.Nil(t, r.Handle())
	assert.ErrorIs(t, r.Ping(context.Background()), ErrRedisDisabled)
	assert.NotPanics(t, r.Close)
}

func TestMigrationFS_ContainsOrderedFiles(t *testing.T) {
	entries, err := migrationFS.ReadDir(migrationsDir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "00001_create_clients.sql", entries[0].Name())
	assert.Equal(t, "00002_create_jobs.sql", entries[1].Name())
}

func TestPostgres_NilPing(t *testing.T) {
	var p *Postgres
	assert.Error(t, p.Ping(context.Background()))
	assert.Nil(t, p.PoolHandle())
}
