package session

import (
	"context"
	"errors"
	"innervoice/app/service/conversation"
	"innervoice/app/service/memory"
	"innervoice/app/service/mood"
	"innervoice/app/service/sentiment"
	"time"
)

const (
	Greeting = "Hello! I'm Innervoice, your mental wellness companion. I'm here to listen and support you. How are you feeling today?"
	Apology  = "Sorry, I'm having trouble connecting to the AI service right now."
)

var (
	ErrNotFound       = errors.New("session not found")
	ErrTurnInProgress = errors.New("a turn is already in progress for this session")
	ErrEmptyMessage   = errors.New("message is empty")
)

type Replier interface {
	Call(ctx context.Context, mem *memory.Store, turns []conversation.Turn, language string, reset bool) (string, error)
}

type Annotator interface {
	Analyze(text string) sentiment.Result
}

type Journal interface {
	Record(ctx context.Context, sessionID string, res sentiment.Result, message string) (mood.Entry, error)
}

type Documents interface {
	Put(ctx context.Context, collection, owner string, v any) (string, error)
}

type Speaker interface {
	Speak(ctx context.Context, text, lang string)
}

type Recorder interface {
	IncTurn(outcome string)
	ObserveMood(score int)
}

type ChatMessage struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	IsBot     bool      `json:"is_bot"`
	Timestamp time.Time `json:"timestamp"`
}

type TurnResult struct {
	User      ChatMessage      `json:"user"`
	Reply     ChatMessage      `json:"reply"`
	Mood      mood.Entry       `json:"mood"`
	Sentiment sentiment.Result `json:"sentiment"`
	Failed    bool             `json:"failed"`

	// Superseded is set when the conversation was deleted while the turn
	// was pending; nothing of the turn was kept
	Superseded bool `json:"superseded,omitempty"`

	// ErrorKind is set when Failed, see conversation.ServiceError.Kind
	ErrorKind string `json:"error_kind,omitempty"`
	Err       error  `json:"-"`
}

// exchange is the stored form of one successful turn.
type exchange struct {
	User      string          `json:"user"`
	Reply     string          `json:"reply"`
	Language  string          `json:"language"`
	Label     sentiment.Label `json:"label"`
	Timestamp time.Time       `json:"timestamp"`
}
