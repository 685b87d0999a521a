package main

import (
	"log"
	"os"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"ooc-bot/pkg/tasks"
)

// CommitSHA is set at build time via ldflags
var CommitSHA = "unknown"

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file")
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "127.0.0.1:6379"
	}

	location, err := time.LoadLocation("Europe/Rome")
	if err != nil {
		log.Fatalf("could not load timezone: %v", err)
	}

	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{Addr: redisAddr},
		&asynq.SchedulerOpts{Location: location},
	)

	// New episodes drop on Mondays; pills come out on a daily schedule.
	if _, err := scheduler.Register("0 17 * * 1", tasks.NewEpisodeCheckTask()); err != nil {
		log.Fatalf("could not register episode check: %v", err)
	}
	if _, err := scheduler.Register("0 12 * * *", tasks.NewPillCheckTask()); err != nil {
		log.Fatalf("could not register pill check: %v", err)
	}

	log.Printf("Scheduler starting (commit: %s)", CommitSHA)
	if err := scheduler.Run(); err != nil {
		log.Fatalf("could not run scheduler: %v", err)
	}
}
