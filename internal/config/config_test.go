package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "test-token")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "test-token", cfg.BotToken)
	assert.Equal(t, "https://api.telegram.org/bottest-token", cfg.TelegramAPIBase)
	assert.Equal(t, "http://127.0.0.1:11434", cfg.OllamaBaseURL)
	assert.Equal(t, "llama3.2", cfg.Model)
	assert.Equal(t, 10, cfg.HistoryTurns)
	assert.Equal(t, 120*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 5*time.Second, cfg.TypingInterval)
	assert.Equal(t, 4000, cfg.MaxMessageChars)
	assert.Equal(t, 30, cfg.PollTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_MissingToken(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TELEGRAM_BOT_TOKEN")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "tok")
	t.Setenv("OLLAMA_BASE_URL", "http://ollama.local:11434/")
	t.Setenv("OLLAMA_MODEL", "mistral")
	t.Setenv("RELAY_HISTORY_TURNS", "6")
	t.Setenv("RELAY_REQUEST_TIMEOUT_SECONDS", "30")
	t.Setenv("RELAY_MAX_MESSAGE_CHARS", "500")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://ollama.local:11434", cfg.OllamaBaseURL, "trailing slash trimmed")
	assert.Equal(t, "mistral", cfg.Model)
	assert.Equal(t, 6, cfg.HistoryTurns)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 500, cfg.MaxMessageChars)
}
