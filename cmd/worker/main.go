package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"ooc-bot/internal/db"
	"ooc-bot/internal/feed"
	"ooc-bot/internal/ingest"
	"ooc-bot/internal/notify"
	"ooc-bot/internal/scraper"
	"ooc-bot/internal/worker"
	"ooc-bot/pkg/tasks"
)

// CommitSHA is set at build time via ldflags
var CommitSHA = "unknown"

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file")
	}

	db.InitDB()

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "127.0.0.1:6379"
	}

	bot, err := tgbotapi.NewBotAPI(os.Getenv("BOT_TOKEN"))
	if err != nil {
		log.Fatalf("could not create bot: %v", err)
	}

	adminChatID, err := strconv.ParseInt(os.Getenv("ADMIN_CHAT_ID"), 10, 64)
	if err != nil {
		log.Println("ADMIN_CHAT_ID not set, operator alerts disabled")
	}

	episodeFeedURL := os.Getenv("EPISODE_FEED_URL")
	if episodeFeedURL == "" {
		episodeFeedURL = "https://feeds.megaphone.fm/officeofcards"
	}
	pillFeedURL := os.Getenv("PILL_FEED_URL")
	if pillFeedURL == "" {
		pillFeedURL = "https://feeds.megaphone.fm/MNTHA6100943921"
	}
	guestPageURL := os.Getenv("GUEST_PAGE_URL")
	if guestPageURL == "" {
		guestPageURL = "https://officeofcards.com/ospite/"
	}

	store := db.Store{}
	operator := notify.NewTelegramOperator(bot, adminChatID)
	fanout := notify.NewFanout(store, notify.NewTelegramTransport(bot), operator)
	pipeline := ingest.NewPipeline(
		store,
		feed.NewClient(episodeFeedURL),
		feed.NewClient(pillFeedURL),
		scraper.New(guestPageURL, 10*time.Second),
		fanout,
		operator,
		2*time.Minute,
	)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{
			// One cycle at a time; the pipeline is single-flight anyway but
			// there is no point queueing checks behind each other.
			Concurrency: 1,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	taskHandler := worker.NewTaskHandler(pipeline)

	mux.HandleFunc(tasks.TypeEpisodeCheck, taskHandler.HandleEpisodeCheckTask)
	mux.HandleFunc(tasks.TypePillCheck, taskHandler.HandlePillCheckTask)
	mux.HandleFunc(tasks.TypeBackfill, taskHandler.HandleBackfillTask)

	log.Printf("Worker starting (commit: %s)", CommitSHA)
	if err := srv.Run(mux); err != nil {
		log.Fatalf("could not run server: %v", err)
	}
}
