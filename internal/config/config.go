package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the bot process configuration, read once at startup.
type Config struct {
	BotToken        string
	TelegramAPIBase string
	PollTimeout     int
	SleepSeconds    int
	OllamaBaseURL   string
	Model           string
	HistoryTurns    int
	RequestTimeout  time.Duration
	TypingInterval  time.Duration
	MaxMessageChars int
	LogLevel        string
}

// Load reads configuration from environment variables.
func Load() (Config, error) {
	v := viper.New()
	v.SetDefault("ollama_base_url", "http://127.0.0.1:11434")
	v.SetDefault("ollama_model", "llama3.2")
	v.SetDefault("relay_history_turns", 10)
	v.SetDefault("relay_request_timeout_seconds", 120)
	v.SetDefault("relay_typing_interval_seconds", 5)
	v.SetDefault("relay_max_message_chars", 4000)
	v.SetDefault("tg_poll_timeout_seconds", 30)
	v.SetDefault("tg_sleep_seconds", 1)
	v.SetDefault("log_level", "info")
	v.AutomaticEnv()

	token := strings.TrimSpace(v.GetString("telegram_bot_token"))
	if token == "" {
		return Config{}, fmt.Errorf("TELEGRAM_BOT_TOKEN is required in environment")
	}

	return Config{
		BotToken:        token,
		TelegramAPIBase: fmt.Sprintf("https://api.telegram.org/bot%s", token),
		PollTimeout:     v.GetInt("tg_poll_timeout_seconds"),
		SleepSeconds:    v.GetInt("tg_sleep_seconds"),
		OllamaBaseURL:   strings.TrimRight(v.GetString("ollama_base_url"), "/"),
		Model:           v.GetString("ollama_model"),
		HistoryTurns:    v.GetInt("relay_history_turns"),
		RequestTimeout:  time.Duration(v.GetInt("relay_request_timeout_seconds")) * time.Second,
		TypingInterval:  time.Duration(v.GetInt("relay_typing_interval_seconds")) * time.Second,
		MaxMessageChars: v.GetInt("relay_max_message_chars"),
		LogLevel:        v.GetString("log_level"),
	}, nil
}
