package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"relaybot/internal/history"
)

// Client is a minimal Ollama chat client speaking the non-streaming
// /api/chat protocol.
type Client struct {
	baseURL    string
	model      string
	log        zerolog.Logger
	httpClient *http.Client
}

// NewClient creates an Ollama client for the given base URL
// (e.g. "http://127.0.0.1:11434"). The timeout bounds the whole request.
func NewClient(baseURL, model string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		log:     log,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Message is one chat message on the wire.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

type chatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
}

// Chat sends the full turn sequence as a single non-streaming completion
// and returns the assistant's reply text. Failures come back as *Error
// when they fit the taxonomy (timeout, unreachable, bad status).
func (c *Client) Chat(ctx context.Context, turns []history.Turn) (string, error) {
	messages := make([]Message, 0, len(turns))
	for _, t := range turns {
		messages = append(messages, Message{Role: string(t.Role), Content: t.Content})
	}
	payload, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   false,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal ollama request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create ollama request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", classifyTransport(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed reading ollama response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &Error{
			Kind:   KindEndpoint,
			Status: resp.StatusCode,
			Err:    errors.New(truncate(string(body), 400)),
		}
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse ollama response: %s", truncate(string(body), 400))
	}

	c.log.Debug().
		Dur("latency", time.Since(start)).
		Int("turns", len(turns)).
		Msg("chat completion")

	content := strings.TrimSpace(parsed.Message.Content)
	if content == "" {
		content = "(empty model response)"
	}
	return content, nil
}

// classifyTransport maps a failed round trip onto the error taxonomy.
// Timeouts and refused connections get a kind; anything else stays an
// unclassified wrapped error.
func classifyTransport(err error) error {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return &Error{Kind: KindTimeout, Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, Err: err}
	}
	if errors.Is(err, syscall.ECONNREFUSED) || strings.Contains(err.Error(), "connection refused") {
		return &Error{Kind: KindUnavailable, Err: err}
	}
	return fmt.Errorf("ollama request failed: %w", err)
}

func truncate(s string, maxChars int) string {
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars])
}
