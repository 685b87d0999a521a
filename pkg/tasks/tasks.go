package tasks

import (
	"time"

	"github.com/hibiken/asynq"
)

const (
	TypeEpisodeCheck = "episodes:check"
	TypePillCheck    = "pills:check"
	TypeBackfill     = "episodes:backfill"
)

// Check tasks carry no payload; the worker always checks the latest feed
// item. MaxRetry is 0 on purpose: the periodic schedule is the retry
// mechanism, and uniqueness keeps a slow cycle from stacking up behind
// itself in the queue.
func NewEpisodeCheckTask() *asynq.Task {
	return asynq.NewTask(TypeEpisodeCheck, nil, asynq.MaxRetry(0), asynq.Unique(30*time.Minute))
}

func NewPillCheckTask() *asynq.Task {
	return asynq.NewTask(TypePillCheck, nil, asynq.MaxRetry(0), asynq.Unique(30*time.Minute))
}

func NewBackfillTask() *asynq.Task {
	return asynq.NewTask(TypeBackfill, nil, asynq.MaxRetry(0), asynq.Unique(30*time.Minute))
}
