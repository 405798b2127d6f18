package session

import (
	"context"
	"errors"
	"innervoice/app/client/docstore"
	"innervoice/app/service/conversation"
	"innervoice/app/service/memory"
	"innervoice/app/service/sentiment"
	"innervoice/app/util/mylog"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/oops"
	"golang.org/x/sync/semaphore"
)

type deps struct {
	replier   Replier
	annotator Annotator
	journal   Journal
	docs      Documents
	speaker   Speaker
	recorder  Recorder

	defaultLanguage string
	historyLimit    int
	now             func() time.Time
}

// Session is one user's conversation. Turns are serialized by a one-slot
// guard: a second Send while one is pending fails with ErrTurnInProgress.
type Session struct {
	ID        string
	CreatedAt time.Time

	deps  *deps
	guard *semaphore.Weighted

	mu        sync.RWMutex
	memory    *memory.Store
	history   *conversation.History
	messages  []ChatMessage
	resetNext bool

	// epoch changes on every wipe; a turn started in an older epoch
	// leaves no trace in the new one
	epoch uint64
}

func newSession(d *deps) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: d.now(),
		deps:      d,
		guard:     semaphore.NewWeighted(1),
		memory:    memory.NewStore(),
		history:   conversation.NewHistory(d.historyLimit),
	}
	s.resetDisplay()

	return s
}

func (s *Session) greetingTurn() conversation.Turn {
	return conversation.Turn{Role: conversation.RoleAssistant, Content: Greeting}
}

func (s *Session) newMessage(content string, bot bool) ChatMessage {
	return ChatMessage{
		ID:        uuid.NewString(),
		Content:   content,
		IsBot:     bot,
		Timestamp: s.deps.now(),
	}
}

// must hold mu
func (s *Session) resetDisplay() {
	s.history.Reset(s.greetingTurn())
	s.messages = []ChatMessage{s.newMessage(Greeting, true)}
}

func (s *Session) Messages() []ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]ChatMessage(nil), s.messages...)
}

func (s *Session) Memory() []memory.Fact {
	return s.memory.Snapshot()
}

func (s *Session) ResetPending() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.resetNext
}

// DeleteConversation wipes the memory and restores the greeting. The next
// reply is requested with the new user turn only.
func (s *Session) DeleteConversation() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.memory.Clear()
	s.resetDisplay()
	s.resetNext = true
	s.epoch++
}

func (s *Session) Send(ctx context.Context, text, lang string) (*TurnResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}
	if !s.guard.TryAcquire(1) {
		return nil, ErrTurnInProgress
	}
	defer s.guard.Release(1)

	if lang == "" {
		lang = s.deps.defaultLanguage
	}

	result := &TurnResult{User: s.newMessage(text, false)}

	s.mu.Lock()
	epoch := s.epoch
	s.messages = append(s.messages, result.User)
	s.mu.Unlock()

	result.Sentiment = s.deps.annotator.Analyze(text)
	s.observeSentiment(result.Sentiment)

	entry, err := s.deps.journal.Record(ctx, s.ID, result.Sentiment, text)
	if err != nil {
		slog.Error("Failed to record mood entry",
			slog.String("session", s.ID),
			slog.Any("error", err),
		)
	}
	result.Mood = entry

	userTurn := conversation.Turn{Role: conversation.RoleUser, Content: text}

	s.mu.Lock()
	reset := s.resetNext
	turns := append(s.history.Turns(), userTurn)
	s.mu.Unlock()

	if reset {
		turns = []conversation.Turn{userTurn}
	}

	reply, err := s.deps.replier.Call(ctx, s.memory, turns, lang, reset)
	if err != nil {
		return s.fail(result, epoch, err), nil
	}

	result.Reply = s.newMessage(reply, true)

	s.mu.Lock()
	current := s.epoch == epoch
	if current {
		// the user turn is retained only together with its answer
		s.history.Add(userTurn)
		s.history.Add(conversation.Turn{Role: conversation.RoleAssistant, Content: reply})
		s.messages = append(s.messages, result.Reply)
		s.resetNext = false
	}
	s.mu.Unlock()

	if !current {
		return s.supersede(result), nil
	}

	s.persist(ctx, text, reply, lang, result.Sentiment.Label)
	s.deps.speaker.Speak(ctx, reply, lang)
	s.deps.recorder.IncTurn("ok")

	return result, nil
}

func (s *Session) fail(result *TurnResult, epoch uint64, err error) *TurnResult {
	result.Failed = true
	result.Err = err
	result.ErrorKind = "internal"

	var serviceErr *conversation.ServiceError
	if errors.As(err, &serviceErr) {
		result.ErrorKind = serviceErr.Kind()
	}

	result.Reply = s.newMessage(Apology, true)

	s.mu.Lock()
	current := s.epoch == epoch
	if current {
		s.messages = append(s.messages, result.Reply)
	}
	s.mu.Unlock()

	if !current {
		return s.supersede(result)
	}

	s.deps.recorder.IncTurn(result.ErrorKind)

	return result
}

// supersede marks a turn whose conversation was wiped while it was pending.
func (s *Session) supersede(result *TurnResult) *TurnResult {
	result.Superseded = true

	slog.Info("Dropped reply of a wiped conversation", slog.String("session", s.ID))
	s.deps.recorder.IncTurn("superseded")

	return result
}

func (s *Session) persist(ctx context.Context, text, reply, lang string, label sentiment.Label) {
	_, err := s.deps.docs.Put(ctx, docstore.Conversations, s.ID, exchange{
		User:      text,
		Reply:     reply,
		Language:  lang,
		Label:     label,
		Timestamp: s.deps.now(),
	})
	if err != nil {
		err = oops.In("session").With("session", s.ID).Wrapf(err, "persist exchange")
		slog.Error("Failed to persist exchange", slog.Any("error", err))
	}
}

func (s *Session) observeSentiment(res sentiment.Result) {
	s.deps.recorder.ObserveMood(res.Score)

	if res.Label == sentiment.Concerning {
		slog.Warn("Concerning message received",
			slog.String("session", s.ID),
			slog.Int("score", res.Score),
			slog.Bool(mylog.TelegramKey, true),
		)
	}
}
