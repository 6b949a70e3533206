package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/sondea/sondea-backend/internal/config"
	"github.com/sondea/sondea-backend/internal/service"
)

const (
	BenchmarkBatchSize    = 100
	BenchmarkBatchTimeout = 2 * time.Second
	BenchmarkPollTimeout  = 1 * time.Second
)

// BenchmarkWorker consumes benchmark_events_queue and folds each rating
// observation into the per-industry aggregate hashes the analytics overlay
// reads from. Events are batched and applied through one pipeline.
type BenchmarkWorker struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewBenchmarkWorker creates a new BenchmarkWorker.
func NewBenchmarkWorker(rdb *redis.Client, log zerolog.Logger) *BenchmarkWorker {
	return &BenchmarkWorker{
		rdb: rdb,
		log: log.With().Str("component", "benchmark_worker").Logger(),
	}
}

// Start begins the infinite worker loop with batching. Call in a goroutine.
func (w *BenchmarkWorker) Start(ctx context.Context) {
	w.log.Info().Msg("BenchmarkWorker started")

	batch := make([]service.BenchmarkEvent, 0, BenchmarkBatchSize)
	lastFlush := time.Now()

	for {
		if len(batch) > 0 &&
			(len(batch) >= BenchmarkBatchSize || time.Since(lastFlush) >= BenchmarkBatchTimeout) {

			w.flush(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			w.flush(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, BenchmarkPollTimeout, config.WorkerKey.BenchmarkEventsQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var ev service.BenchmarkEvent
			if err := json.Unmarshal([]byte(item[1]), &ev); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}
			if !ev.Valid() {
				continue
			}

			batch = append(batch, ev)
		}
	}
}

// flush applies a batch of observations with a single pipeline round trip.
// HIncrBy keeps the hash a pure running (sum, count) pair, so replaying an
// event after a pipeline failure only skews the aggregate, never corrupts it.
func (w *BenchmarkWorker) flush(ctx context.Context, batch []service.BenchmarkEvent) {
	if len(batch) == 0 {
		return
	}

	pipe := w.rdb.Pipeline()
	for _, ev := range batch {
		key := config.CacheKey.BenchmarkKey(ev.Industry, ev.Scale)
		pipe.HIncrBy(ctx, key, "sum", int64(ev.Value))
		pipe.HIncrBy(ctx, key, "count", 1)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		w.log.Warn().Err(err).Int("events", len(batch)).Msg("pipeline failed, requeueing batch")
		for _, ev := range batch {
			raw, _ := json.Marshal(ev)
			w.rdb.RPush(ctx, config.WorkerKey.BenchmarkEventsQueue, raw)
		}
	}
}
