package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/sondea/sondea-backend/internal/config"
	"github.com/sondea/sondea-backend/internal/model"
	"github.com/sondea/sondea-backend/internal/repository"
	"github.com/sondea/sondea-backend/internal/service"
	ws "github.com/sondea/sondea-backend/internal/websocket"
)

// SubmissionWorker consumes persist_responses_queue and writes each
// response to PostgreSQL in a single transaction. After a successful write
// it publishes a live-feed event and forwards the job's benchmark events.
type SubmissionWorker struct {
	responseRepo *repository.ResponseRepository
	rdb          *redis.Client
	log          zerolog.Logger
}

// NewSubmissionWorker creates a new SubmissionWorker.
func NewSubmissionWorker(responseRepo *repository.ResponseRepository, rdb *redis.Client, log zerolog.Logger) *SubmissionWorker {
	return &SubmissionWorker{
		responseRepo: responseRepo,
		rdb:          rdb,
		log:          log.With().Str("component", "submission_worker").Logger(),
	}
}

// Start begins the infinite worker loop. Call in a goroutine.
func (w *SubmissionWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping...")
			// Drain remaining items before exit.
			w.drain(context.Background())
			w.log.Info().Msg("Worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

func (w *SubmissionWorker) processNext(ctx context.Context) {
	// BLPop blocks until an item is available or timeout (1 second).
	result, err := w.rdb.BLPop(ctx, time.Second, config.WorkerKey.PersistResponsesQueue).Result()
	if err != nil {
		if err != redis.Nil && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("BLPop error")
		}
		return
	}

	if len(result) < 2 {
		return
	}

	var job service.PersistResponseJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		w.log.Error().Err(err).Msg("Unmarshal error")
		return
	}

	if err := w.persist(ctx, &job); err != nil {
		w.log.Error().Err(err).
			Str("response_id", job.ResponseID.String()).
			Str("survey_id", job.SurveyID.String()).
			Msg("Persist error, retrying in 5s")
		// Push back to queue for retry.
		w.rdb.RPush(ctx, config.WorkerKey.PersistResponsesQueue, result[1])
		time.Sleep(5 * time.Second)
		return
	}

	w.publishLive(ctx, &job)
	w.forwardBenchmarks(ctx, &job)
}

func (w *SubmissionWorker) persist(ctx context.Context, job *service.PersistResponseJob) error {
	resp := &model.SurveyResponse{
		ID:             job.ResponseID,
		SurveyID:       job.SurveyID,
		DistributionID: job.DistributionID,
		SubmittedAt:    job.SubmittedAt,
	}
	return w.responseRepo.Insert(ctx, resp, job.Submission)
}

// publishLive fans the persisted response out to console dashboards
// subscribed to the survey's live channel. Failures are logged only; the
// response is already durable.
func (w *SubmissionWorker) publishLive(ctx context.Context, job *service.PersistResponseJob) {
	event := ws.ResponseReceivedEvent{
		Event:          ws.EventResponseReceived,
		ResponseID:     job.ResponseID.String(),
		SurveyID:       job.SurveyID.String(),
		DistributionID: job.DistributionID.String(),
		AnswerCount:    len(job.Submission.Standard) + len(job.Submission.Custom),
		SubmittedAt:    job.SubmittedAt,
	}

	raw, err := json.Marshal(event)
	if err != nil {
		w.log.Error().Err(err).Msg("marshal live event")
		return
	}
	if err := w.rdb.Publish(ctx, config.CacheKey.SurveyLiveChannel(job.SurveyID.String()), raw).Err(); err != nil {
		w.log.Warn().Err(err).Msg("publish live event")
	}
}

func (w *SubmissionWorker) forwardBenchmarks(ctx context.Context, job *service.PersistResponseJob) {
	for _, ev := range job.Benchmarks {
		raw, err := json.Marshal(ev)
		if err != nil {
			continue
		}
		if err := w.rdb.LPush(ctx, config.WorkerKey.BenchmarkEventsQueue, raw).Err(); err != nil {
			w.log.Warn().Err(err).Msg("forward benchmark event")
			return
		}
	}
}

// drain empties the queue during shutdown so accepted submissions are not
// stranded in Redis.
func (w *SubmissionWorker) drain(ctx context.Context) {
	for {
		result, err := w.rdb.LPop(ctx, config.WorkerKey.PersistResponsesQueue).Result()
		if err != nil {
			return
		}

		var job service.PersistResponseJob
		if err := json.Unmarshal([]byte(result), &job); err != nil {
			continue
		}
		if err := w.persist(ctx, &job); err != nil {
			w.log.Error().Err(err).Str("response_id", job.ResponseID.String()).Msg("drain persist failed, requeueing")
			w.rdb.RPush(ctx, config.WorkerKey.PersistResponsesQueue, result)
			return
		}
		w.forwardBenchmarks(ctx, &job)
	}
}
