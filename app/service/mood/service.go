package mood

import (
	"context"
	"innervoice/app/client/docstore"
	"innervoice/app/service/sentiment"
	"slices"
	"time"

	"github.com/samber/do"
	"github.com/samber/oops"
)

type Entry struct {
	ID        string          `json:"id"`
	SessionID string          `json:"session_id"`
	Score     int             `json:"score"`
	Label     sentiment.Label `json:"label"`
	Message   string          `json:"message"`
	Timestamp time.Time       `json:"timestamp"`
}

type Documents interface {
	Put(ctx context.Context, collection, owner string, v any) (string, error)
	List(ctx context.Context, collection, owner string) ([]docstore.Document, error)
}

// Service is the append-only mood journal. Insertion order in the
// document store is the source of truth.
type Service struct {
	docs Documents
	now  func() time.Time
}

func New(di *do.Injector) (*Service, error) {
	return NewService(do.MustInvoke[*docstore.Store](di)), nil
}

func NewService(docs Documents) *Service {
	return &Service{
		docs: docs,
		now:  time.Now,
	}
}

func (s *Service) Record(ctx context.Context, sessionID string, res sentiment.Result, message string) (Entry, error) {
	entry := Entry{
		SessionID: sessionID,
		Score:     res.Score,
		Label:     res.Label,
		Message:   message,
		Timestamp: s.now(),
	}

	id, err := s.docs.Put(ctx, docstore.Moods, sessionID, entry)
	if err != nil {
		return entry, oops.In("mood").With("session", sessionID).Wrapf(err, "record mood entry")
	}
	entry.ID = id

	return entry, nil
}

// List returns the session's entries most recent first.
func (s *Service) List(ctx context.Context, sessionID string) ([]Entry, error) {
	docs, err := s.docs.List(ctx, docstore.Moods, sessionID)
	if err != nil {
		return nil, oops.In("mood").With("session", sessionID).Wrapf(err, "list mood entries")
	}

	entries := make([]Entry, 0, len(docs))
	for _, doc := range docs {
		var entry Entry
		if err = doc.Decode(&entry); err != nil {
			return nil, err
		}
		entry.ID = doc.ID
		entries = append(entries, entry)
	}

	slices.Reverse(entries)

	return entries, nil
}

func (s *Service) Dashboard(ctx context.Context, sessionID string) (*Dashboard, error) {
	entries, err := s.List(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return BuildDashboard(entries), nil
}
