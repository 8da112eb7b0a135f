package relay

import (
	"context"
	"sync"
	"time"

	"github.com/sourcegraph/conc"
)

// typingLoop keeps the channel's typing indicator alive while an
// inference call is outstanding.
type typingLoop struct {
	cancel context.CancelFunc
	wg     *conc.WaitGroup
	once   sync.Once
}

// startTyping sends one typing action immediately and then one per
// interval until Stop is called. Send failures are ignored; liveness is
// cosmetic, not correctness-bearing.
func startTyping(ch Channel, chatID int64, interval time.Duration) *typingLoop {
	ctx, cancel := context.WithCancel(context.Background())
	t := &typingLoop{
		cancel: cancel,
		wg:     conc.NewWaitGroup(),
	}
	t.wg.Go(func() {
		_ = ch.SendTyping(chatID)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				_ = ch.SendTyping(chatID)
			}
		}
	})
	return t
}

// Stop disarms the loop and waits for the goroutine to exit. Calling Stop
// more than once is safe; the loop is torn down exactly once.
func (t *typingLoop) Stop() {
	t.once.Do(func() {
		t.cancel()
		t.wg.Wait()
	})
}
