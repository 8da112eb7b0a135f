package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc"

	"relaybot/internal/config"
	"relaybot/internal/history"
	"relaybot/internal/ollama"
	"relaybot/internal/relay"
	"relaybot/internal/telegram"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := zerolog.New(os.Stderr).With().Timestamp().Logger()
		fallback.Fatal().Err(err).Msg("invalid configuration")
	}
	logger := newLogger(cfg.LogLevel)

	// Long-poll timeout rides on top of the API timeout so the HTTP
	// client does not cut off an idle poll.
	tg := telegram.NewClient(cfg.TelegramAPIBase, time.Duration(cfg.PollTimeout+20)*time.Second)
	engine := ollama.NewClient(
		cfg.OllamaBaseURL,
		cfg.Model,
		cfg.RequestTimeout,
		logger.With().Str("component", "ollama").Logger(),
	)
	store := history.NewStore(cfg.HistoryTurns)
	bot := relay.New(
		tg,
		engine,
		store,
		cfg.TypingInterval,
		cfg.MaxMessageChars,
		logger.With().Str("component", "relay").Logger(),
	)

	logger.Info().
		Str("model", cfg.Model).
		Str("ollama", cfg.OllamaBaseURL).
		Int("history_turns", cfg.HistoryTurns).
		Msg("bot running")

	handlers := conc.NewWaitGroup()
	defer handlers.Wait()

	var offset int64
	for {
		updates, err := tg.GetUpdates(offset, cfg.PollTimeout)
		if err != nil {
			logger.Warn().Err(err).Msg("getUpdates error")
			time.Sleep(time.Duration(cfg.SleepSeconds) * time.Second)
			continue
		}
		for _, update := range updates {
			offset = update.UpdateID + 1
			if update.Message == nil || update.Message.Text == nil {
				continue
			}
			text := *update.Message.Text
			if text == "" {
				continue
			}
			chatID := update.Message.Chat.ID
			handlers.Go(func() {
				bot.HandleMessage(context.Background(), chatID, text)
			})
		}
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(lvl).
		With().Timestamp().Logger()
}
