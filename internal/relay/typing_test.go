package relay

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTypingLoop_SignalsImmediately(t *testing.T) {
	ch := newFakeChannel()
	loop := startTyping(ch, 42, time.Hour)
	defer loop.Stop()

	assert.Eventually(t, func() bool {
		return ch.typingCount() == 1
	}, time.Second, time.Millisecond)
}

func TestTypingLoop_RepeatsAtInterval(t *testing.T) {
	ch := newFakeChannel()
	loop := startTyping(ch, 42, 5*time.Millisecond)
	defer loop.Stop()

	assert.Eventually(t, func() bool {
		return ch.typingCount() >= 3
	}, time.Second, time.Millisecond)
}

func TestTypingLoop_StopFreezesSignals(t *testing.T) {
	ch := newFakeChannel()
	loop := startTyping(ch, 42, 5*time.Millisecond)
	loop.Stop()

	count := ch.typingCount()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, count, ch.typingCount())
}

func TestTypingLoop_StopIdempotent(t *testing.T) {
	ch := newFakeChannel()
	loop := startTyping(ch, 42, time.Hour)
	loop.Stop()
	loop.Stop() // second disarm must be a no-op

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			loop.Stop()
		}()
	}
	wg.Wait()
}

type failingTypingChannel struct {
	fakeChannel
}

func (f *failingTypingChannel) SendTyping(chatID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.typing++
	return assert.AnError
}

func TestTypingLoop_SendFailuresSwallowed(t *testing.T) {
	ch := &failingTypingChannel{}
	ch.failFrom = -1
	loop := startTyping(ch, 42, 5*time.Millisecond)

	assert.Eventually(t, func() bool {
		return ch.typingCount() >= 2
	}, time.Second, time.Millisecond)
	loop.Stop()
}
