package relay

import "fmt"

// splitMessage partitions text into ordered chunks of at most maxChars
// runes each. Concatenating the chunks reproduces the input exactly; text
// at or below the limit yields a single chunk.
func splitMessage(text string, maxChars int) []string {
	runes := []rune(text)
	if maxChars <= 0 || len(runes) <= maxChars {
		return []string{text}
	}
	chunks := make([]string, 0, (len(runes)+maxChars-1)/maxChars)
	for start := 0; start < len(runes); start += maxChars {
		end := start + maxChars
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}

// deliver sends the reply, splitting it when it exceeds the transport
// limit. Chunks already sent when a later send fails stay delivered; the
// channel is append-only.
func (r *Relay) deliver(chatID int64, text string) error {
	chunks := splitMessage(text, r.maxChars)
	for i, chunk := range chunks {
		if err := r.channel.SendMessage(chatID, chunk); err != nil {
			return fmt.Errorf("delivery failed at chunk %d of %d: %w", i+1, len(chunks), err)
		}
	}
	return nil
}
