package worker

import (
	"context"
	"log"

	"github.com/hibiken/asynq"
	"ooc-bot/internal/ingest"
)

// Runner is the slice of the ingestion pipeline the worker drives.
// It's implemented by *ingest.Pipeline, and can be faked for testing.
type Runner interface {
	RunEpisodeCheck(ctx context.Context) (ingest.Result, error)
	RunPillCheck(ctx context.Context) (ingest.Result, error)
	BackfillEnrichment(ctx context.Context) (int, error)
}

// TaskHandler dispatches queued check tasks to the pipeline. Every handler
// returns nil even when the cycle fails: a failed cycle is logged and simply
// waits for the next scheduled tick, it must never crash or retry-loop the
// worker.
type TaskHandler struct {
	pipeline Runner
}

func NewTaskHandler(pipeline Runner) *TaskHandler {
	return &TaskHandler{pipeline: pipeline}
}

func (h *TaskHandler) HandleEpisodeCheckTask(ctx context.Context, t *asynq.Task) error {
	log.Println("Running episode check...")
	result, err := h.pipeline.RunEpisodeCheck(ctx)
	if err != nil {
		log.Printf("Episode check failed at stage %s: %v", result.Stage, err)
		return nil
	}
	log.Printf("Episode check finished: %s", result.State)
	return nil
}

func (h *TaskHandler) HandlePillCheckTask(ctx context.Context, t *asynq.Task) error {
	log.Println("Running pill check...")
	result, err := h.pipeline.RunPillCheck(ctx)
	if err != nil {
		log.Printf("Pill check failed at stage %s: %v", result.Stage, err)
		return nil
	}
	log.Printf("Pill check finished: %s", result.State)
	return nil
}

func (h *TaskHandler) HandleBackfillTask(ctx context.Context, t *asynq.Task) error {
	log.Println("Running enrichment backfill...")
	filled, err := h.pipeline.BackfillEnrichment(ctx)
	if err != nil {
		log.Printf("Enrichment backfill stopped after %d episodes: %v", filled, err)
		return nil
	}
	log.Printf("Enrichment backfill finished: %d episodes updated", filled)
	return nil
}
