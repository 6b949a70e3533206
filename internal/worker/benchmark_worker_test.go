package worker

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sondea/sondea-backend/internal/config"
	"github.com/sondea/sondea-backend/internal/service"
)

func TestBenchmarkFlushAggregates(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	w := NewBenchmarkWorker(client, zerolog.Nop())
	ctx := context.Background()

	w.flush(ctx, []service.BenchmarkEvent{
		{Industry: "restaurantes", Scale: 5, Value: 4},
		{Industry: "restaurantes", Scale: 5, Value: 5},
		{Industry: "restaurantes", Scale: 10, Value: 9},
		{Industry: "restaurantes", Scale: 10, Value: 0},
		{Industry: "hoteles", Scale: 5, Value: 3},
	})

	fields, err := client.HGetAll(ctx, config.CacheKey.BenchmarkKey("restaurantes", 5)).Result()
	require.NoError(t, err)
	assert.Equal(t, "9", fields["sum"])
	assert.Equal(t, "2", fields["count"])

	// A zero detractor score still counts toward the 10-point aggregate.
	fields, err = client.HGetAll(ctx, config.CacheKey.BenchmarkKey("restaurantes", 10)).Result()
	require.NoError(t, err)
	assert.Equal(t, "9", fields["sum"])
	assert.Equal(t, "2", fields["count"])

	fields, err = client.HGetAll(ctx, config.CacheKey.BenchmarkKey("hoteles", 5)).Result()
	require.NoError(t, err)
	assert.Equal(t, "3", fields["sum"])
	assert.Equal(t, "1", fields["count"])
}

func TestBenchmarkFlushEmptyBatchIsNoop(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	w := NewBenchmarkWorker(client, zerolog.Nop())
	w.flush(context.Background(), nil)

	assert.Empty(t, mr.Keys())
}
