package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const defaultPersona = "You are a friendly and engaging assistant. Respond like a friend and keep the conversation light and fun."

// Config holds configuration for the bot process.
type Config struct {
	TelegramAPIBase  string
	TelegramFileBase string
	Timeout          int
	SleepSeconds     int

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
	Persona       string

	OperatorChatID int64
	DBPath         string

	NewsAPIKey  string
	NewsBaseURL string

	WeatherAPIKey  string
	WeatherBaseURL string

	JokeBaseURL string

	DictionaryAppID  string
	DictionaryAppKey string
	DictionaryBase   string

	YouTubeAPIKey  string
	YouTubeBaseURL string

	PodcastAPIKey  string
	PodcastBaseURL string

	BreakerThreshold       int
	BreakerCooldownSeconds int
}

// Load reads bot configuration from environment variables.
func Load() (Config, error) {
	telegramToken := os.Getenv("TELEGRAM_BOT_TOKEN")
	if telegramToken == "" {
		return Config{}, fmt.Errorf("TELEGRAM_BOT_TOKEN is required in environment")
	}
	openaiKey := os.Getenv("OPENAI_API_KEY")
	if openaiKey == "" {
		return Config{}, fmt.Errorf("OPENAI_API_KEY is required in environment")
	}

	return Config{
		TelegramAPIBase:  fmt.Sprintf("https://api.telegram.org/bot%s", telegramToken),
		TelegramFileBase: fmt.Sprintf("https://api.telegram.org/file/bot%s", telegramToken),
		Timeout:          envIntOrDefault("TG_TIMEOUT", 30),
		SleepSeconds:     envIntOrDefault("TG_SLEEP_SECONDS", 1),

		OpenAIAPIKey:  openaiKey,
		OpenAIBaseURL: envOrDefault("OPENAI_BASE_URL", ""),
		OpenAIModel:   envOrDefault("OPENAI_MODEL", "gpt-3.5-turbo"),
		Persona:       envOrDefault("PALAVER_PERSONA", defaultPersona),

		OperatorChatID: envInt64OrDefault("PALAVER_OPERATOR_CHAT_ID", 0),
		DBPath:         envOrDefault("PALAVER_DB_PATH", "palaver.db"),

		NewsAPIKey:  os.Getenv("NEWS_API_KEY"),
		NewsBaseURL: envOrDefault("NEWS_API_BASE_URL", "https://newsapi.org"),

		WeatherAPIKey:  os.Getenv("OPENWEATHER_API_KEY"),
		WeatherBaseURL: envOrDefault("OPENWEATHER_BASE_URL", "https://api.openweathermap.org"),

		JokeBaseURL: envOrDefault("JOKE_API_BASE_URL", "https://v2.jokeapi.dev"),

		DictionaryAppID:  os.Getenv("OXFORD_APP_ID"),
		DictionaryAppKey: os.Getenv("OXFORD_APP_KEY"),
		DictionaryBase:   envOrDefault("OXFORD_BASE_URL", "https://od-api.oxforddictionaries.com"),

		YouTubeAPIKey:  os.Getenv("YOUTUBE_API_KEY"),
		YouTubeBaseURL: envOrDefault("YOUTUBE_BASE_URL", "https://www.googleapis.com"),

		PodcastAPIKey:  os.Getenv("LISTEN_NOTES_API_KEY"),
		PodcastBaseURL: envOrDefault("LISTEN_NOTES_BASE_URL", "https://listen-api.listennotes.com"),

		BreakerThreshold:       envIntOrDefault("PALAVER_BREAKER_THRESHOLD", 5),
		BreakerCooldownSeconds: envIntOrDefault("PALAVER_BREAKER_COOLDOWN_SECONDS", 30),
	}, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOrDefault(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envInt64OrDefault(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return fallback
	}
	return n
}
