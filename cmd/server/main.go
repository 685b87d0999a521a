package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"ooc-bot/internal/db"
	"ooc-bot/internal/feed"
	"ooc-bot/internal/middleware"
)

// CommitSHA is set at build time via ldflags
var CommitSHA = "unknown"

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file")
	}

	db.InitDB()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	router := mux.NewRouter()
	router.HandleFunc("/feed.rss", rssHandler).Methods(http.MethodGet)
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	rateLimiter := middleware.NewRateLimiterMiddleware(1, 5)

	log.Printf("Server starting on :%s (commit: %s)", port, CommitSHA)
	if err := http.ListenAndServe(":"+port, rateLimiter.Middleware(router)); err != nil {
		log.Fatal(err)
	}
}

func rssHandler(w http.ResponseWriter, r *http.Request) {
	episodes, err := db.AllEpisodes()
	if err != nil {
		log.Printf("Error getting episodes: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	showName := os.Getenv("SHOW_NAME")
	if showName == "" {
		showName = "Office of Cards"
	}

	rss, err := feed.GenerateRSS(showName, episodes, r)
	if err != nil {
		log.Printf("Error generating RSS: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml")
	w.Write([]byte(rss))
}
