package speech

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu     sync.Mutex
	played []Utterance
}

func (r *recordingSink) Play(_ context.Context, u Utterance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.played = append(r.played, u)

	return nil
}

func (r *recordingSink) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.played)
}

func TestTag(t *testing.T) {
	assert.Equal(t, "en-US", Tag("en"))
	assert.Equal(t, "en-US", Tag(""))
	assert.Equal(t, "hi", Tag("hi"))
	assert.Equal(t, "xx", Tag("xx"))
}

func TestRunPlaysQueuedUtterances(t *testing.T) {
	sink := &recordingSink{}
	s := NewService(sink)

	s.Speak(context.Background(), "hello", "en")
	s.Speak(context.Background(), "namaste", "hi")

	done := make(chan struct{})
	go func() {
		s.Run(context.Background())
		close(done)
	}()

	require.Eventually(t, func() bool { return sink.count() == 2 }, time.Second, 5*time.Millisecond)
	require.NoError(t, s.Shutdown())
	<-done

	assert.Equal(t, "namaste", sink.played[1].Text)
	assert.Equal(t, "hi", sink.played[1].Lang)
}

func TestSpeakDropsWhenFull(t *testing.T) {
	s := NewService(&recordingSink{})

	for i := 0; i < bufferSize+10; i++ {
		s.Speak(context.Background(), "x", "en")
	}

	assert.Len(t, s.queue, bufferSize)
}

func TestSpeakAfterShutdown(t *testing.T) {
	s := NewService(&recordingSink{})
	require.NoError(t, s.Shutdown())
	require.NoError(t, s.Shutdown())

	assert.NotPanics(t, func() { s.Speak(context.Background(), "late", "en") })
}
