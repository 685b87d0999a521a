package main

import (
	"log"
	"os"
	"strconv"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"ooc-bot/internal/catalog"
	"ooc-bot/internal/db"
	"ooc-bot/internal/handlers"
)

// CommitSHA is set at build time via ldflags
var CommitSHA = "unknown"

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file")
	}

	db.InitDB()

	bot, err := tgbotapi.NewBotAPI(os.Getenv("BOT_TOKEN"))
	if err != nil {
		log.Fatalf("could not create bot: %v", err)
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "127.0.0.1:6379"
	}
	client := asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})
	defer client.Close()

	adminChatID, err := strconv.ParseInt(os.Getenv("ADMIN_CHAT_ID"), 10, 64)
	if err != nil {
		log.Println("ADMIN_CHAT_ID not set, admin commands disabled")
	}

	svc := catalog.NewService(db.Store{})
	h := handlers.New(svc, client, adminChatID)

	log.Printf("Bot starting (commit: %s)", CommitSHA)
	h.StartTelegramBot(bot)
}
