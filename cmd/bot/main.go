package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/palaverbot/palaver/internal/bot"
	"github.com/palaverbot/palaver/internal/config"
	"github.com/palaverbot/palaver/internal/control"
	"github.com/palaverbot/palaver/internal/db"
	"github.com/palaverbot/palaver/internal/feeds"
	"github.com/palaverbot/palaver/internal/llm"
	"github.com/palaverbot/palaver/internal/quiz"
	"github.com/palaverbot/palaver/internal/store"
	"github.com/palaverbot/palaver/internal/telegram"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[bot] config error: %v", err)
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("[bot] failed to open db: %v", err)
	}
	defer database.Close()
	if err := db.InitSchema(database); err != nil {
		log.Fatalf("[bot] failed to init schema: %v", err)
	}
	if _, err := db.LogEvent(database, db.EventProcessStarted, map[string]any{"db_path": cfg.DBPath}); err != nil {
		log.Printf("[bot] failed to log process.started: %v", err)
	}

	// Long poll requests must outlive the poll timeout itself.
	requestTimeout := time.Duration(cfg.Timeout+10) * time.Second
	tg := telegram.NewClient(cfg.TelegramAPIBase, cfg.TelegramFileBase, requestTimeout)
	provider := llm.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, 60*time.Second)

	feedTimeout := 15 * time.Second
	b := bot.New(bot.Deps{
		Commander:      tg,
		Store:          store.New(database, cfg.Persona),
		Provider:       provider,
		Quiz:           quiz.NewGenerator(provider),
		News:           feeds.NewNewsClient(cfg.NewsAPIKey, cfg.NewsBaseURL, feedTimeout),
		Weather:        feeds.NewWeatherClient(cfg.WeatherAPIKey, cfg.WeatherBaseURL, feedTimeout),
		Jokes:          feeds.NewJokeClient(cfg.JokeBaseURL, feedTimeout),
		Dictionary:     feeds.NewDictionaryClient(cfg.DictionaryAppID, cfg.DictionaryAppKey, cfg.DictionaryBase, feedTimeout),
		Videos:         feeds.NewVideoClient(cfg.YouTubeAPIKey, cfg.YouTubeBaseURL, feedTimeout),
		Podcasts:       feeds.NewPodcastClient(cfg.PodcastAPIKey, cfg.PodcastBaseURL, feedTimeout),
		Pages:          feeds.NewPageClient(feedTimeout),
		DB:             database,
		OperatorChatID: cfg.OperatorChatID,
	})

	breaker := control.NewCircuitBreaker(cfg.BreakerThreshold, time.Duration(cfg.BreakerCooldownSeconds)*time.Second)
	log.Printf("[bot] polling started timeout=%ds sleep=%ds db=%s", cfg.Timeout, cfg.SleepSeconds, cfg.DBPath)

	var offset int64
	for {
		if !breaker.Allow(time.Now()) {
			time.Sleep(time.Duration(cfg.SleepSeconds) * time.Second)
			continue
		}

		// Half-open probes use a short poll so recovery is detected quickly.
		pollTimeout := cfg.Timeout
		if breaker.State() == control.CircuitHalfOpen {
			pollTimeout = 0
		}
		updates, err := tg.GetUpdates(offset, pollTimeout)
		if err != nil {
			log.Printf("[bot] getUpdates error: %v", err)
			breaker.RecordFailure(time.Now())
			time.Sleep(time.Duration(cfg.SleepSeconds) * time.Second)
			continue
		}
		breaker.RecordSuccess()

		for _, update := range updates {
			offset = update.UpdateID + 1
			go b.HandleUpdate(update)
		}
		if len(updates) == 0 {
			time.Sleep(time.Duration(cfg.SleepSeconds) * time.Second)
		}
	}
}
