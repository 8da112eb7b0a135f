package relay

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"relaybot/internal/history"
	"relaybot/internal/ollama"
)

// Channel is the outbound side of the messaging channel.
type Channel interface {
	SendMessage(chatID int64, text string) error
	SendTyping(chatID int64) error
}

// Engine produces one assistant reply for a full turn sequence.
type Engine interface {
	Chat(ctx context.Context, turns []history.Turn) (string, error)
}

const helpText = `I relay your messages to a locally hosted model and reply here.

/help - show this message
/clear - forget our conversation so far`

// Relay wires one inbound message through history, inference and
// delivery. Messages from the same chat are serialized; distinct chats
// run concurrently.
type Relay struct {
	channel        Channel
	engine         Engine
	store          *history.Store
	log            zerolog.Logger
	typingInterval time.Duration
	maxChars       int

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// New creates a relay over the given channel, engine and history store.
func New(channel Channel, engine Engine, store *history.Store, typingInterval time.Duration, maxChars int, log zerolog.Logger) *Relay {
	return &Relay{
		channel:        channel,
		engine:         engine,
		store:          store,
		log:            log,
		typingInterval: typingInterval,
		maxChars:       maxChars,
		locks:          make(map[int64]*sync.Mutex),
	}
}

// HandleMessage processes one inbound text message end to end. It never
// panics outward; every failure ends in a single best-effort reply to the
// originating chat.
func (r *Relay) HandleMessage(ctx context.Context, chatID int64, text string) {
	log := r.log.With().
		Int64("chat_id", chatID).
		Str("relay_id", uuid.NewString()).
		Logger()
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Interface("panic", rec).Msg("message handler panicked")
			r.notify(log, chatID, "Sorry, something went wrong while answering.")
		}
	}()

	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	if reply, handled := r.handleCommand(chatID, text); handled {
		r.notify(log, chatID, reply)
		return
	}

	// Single writer per chat: a second message from the same chat waits
	// here until the first pipeline finishes, so histories never
	// interleave within one chat.
	lock := r.chatLock(chatID)
	lock.Lock()
	defer lock.Unlock()

	typing := startTyping(r.channel, chatID, r.typingInterval)
	defer typing.Stop()

	reply, err := r.complete(ctx, chatID, text)
	typing.Stop()
	if err != nil {
		log.Error().Err(err).Msg("inference failed")
		r.notify(log, chatID, userMessage(err))
		return
	}

	if err := r.deliver(chatID, reply); err != nil {
		log.Error().Err(err).Msg("delivery failed")
		r.notify(log, chatID, "Sorry, I could not deliver the full reply.")
		return
	}
	log.Info().Int("reply_chars", len([]rune(reply))).Msg("reply sent")
}

// complete records the user turn, calls the model with the windowed
// history and records the reply. The user turn stays in history even when
// the call fails.
func (r *Relay) complete(ctx context.Context, chatID int64, text string) (string, error) {
	r.store.Append(chatID, history.Turn{Role: history.RoleUser, Content: text})
	reply, err := r.engine.Chat(ctx, r.store.Get(chatID))
	if err != nil {
		return "", err
	}
	r.store.Append(chatID, history.Turn{Role: history.RoleAssistant, Content: reply})
	return reply, nil
}

// handleCommand resolves slash commands that bypass the inference
// pipeline. Unknown commands fall through to the model.
func (r *Relay) handleCommand(chatID int64, text string) (string, bool) {
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	cmd := strings.ToLower(strings.Fields(text)[0])
	if i := strings.Index(cmd, "@"); i >= 0 {
		cmd = cmd[:i]
	}
	switch cmd {
	case "/start", "/help":
		return helpText, true
	case "/clear", "/reset":
		r.store.Clear(chatID)
		return "History cleared. We start fresh.", true
	}
	return "", false
}

// chatLock returns the mutex serializing one chat's pipeline.
func (r *Relay) chatLock(chatID int64) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[chatID]
	if !ok {
		l = &sync.Mutex{}
		r.locks[chatID] = l
	}
	return l
}

// notify sends a reply best-effort; a failed send is only logged.
func (r *Relay) notify(log zerolog.Logger, chatID int64, text string) {
	if err := r.channel.SendMessage(chatID, text); err != nil {
		log.Warn().Err(err).Msg("failed to send notice")
	}
}

// userMessage maps a classified inference error onto the user-facing
// apology text.
func userMessage(err error) string {
	var oerr *ollama.Error
	if errors.As(err, &oerr) {
		switch oerr.Kind {
		case ollama.KindTimeout:
			return "Sorry, that took too long to answer. Try a shorter message."
		case ollama.KindUnavailable:
			return "Sorry, the model service is temporarily unavailable. Please try again later."
		case ollama.KindEndpoint:
			return fmt.Sprintf("Sorry, the model service returned an error (status %d).", oerr.Status)
		}
	}
	return "Sorry, something went wrong while answering."
}
