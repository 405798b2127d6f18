package speech

import (
	"context"
	"log/slog"
	"sync"

	"github.com/samber/do"
)

const bufferSize = 64

var _ do.Shutdownable = (*Service)(nil)

type Speaker interface {
	Speak(ctx context.Context, text, lang string)
}

// Sink plays a single utterance.
type Sink interface {
	Play(ctx context.Context, u Utterance) error
}

type Utterance struct {
	Text string
	Lang string
}

// Tag returns the BCP-47 tag handed to the synthesizer.
func Tag(lang string) string {
	if lang == "" || lang == "en" {
		return "en-US"
	}

	return lang
}

type LogSink struct{}

func (LogSink) Play(_ context.Context, u Utterance) error {
	slog.Debug("Speaking reply",
		slog.String("lang", Tag(u.Lang)),
		slog.Int("length", len(u.Text)),
	)

	return nil
}

type Service struct {
	sink  Sink
	queue chan Utterance

	mu     sync.RWMutex
	closed bool
}

func New(_ *do.Injector) (*Service, error) {
	return NewService(LogSink{}), nil
}

func NewService(sink Sink) *Service {
	return &Service{
		sink:  sink,
		queue: make(chan Utterance, bufferSize),
	}
}

func (s *Service) Speak(_ context.Context, text, lang string) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return
	}

	select {
	case s.queue <- Utterance{Text: text, Lang: lang}:
	default:
		slog.Warn("speech queue is full")
	}
}

// Run plays queued utterances until ctx is done or the queue is closed.
func (s *Service) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case u, ok := <-s.queue:
			if !ok {
				return
			}
			if err := s.sink.Play(ctx, u); err != nil {
				slog.Error("Failed to play utterance",
					slog.String("lang", Tag(u.Lang)),
					slog.Any("error", err),
				)
			}
		}
	}
}

func (s *Service) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		close(s.queue)
	}

	return nil
}
