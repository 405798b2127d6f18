package session

import (
	"innervoice/app/client/docstore"
	"innervoice/app/config"
	"innervoice/app/service/conversation"
	"innervoice/app/service/metrics"
	"innervoice/app/service/mood"
	"innervoice/app/service/sentiment"
	"innervoice/app/service/speech"
	"log/slog"
	"sync"
	"time"

	"github.com/samber/do"
)

type Manager struct {
	deps *deps

	mu       sync.RWMutex
	sessions map[string]*Session
}

func New(di *do.Injector) (*Manager, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return NewManager(
		cfg.Chat,
		do.MustInvoke[*conversation.ReplyAgent](di),
		do.MustInvoke[*sentiment.Analyzer](di),
		do.MustInvoke[*mood.Service](di),
		do.MustInvoke[*docstore.Store](di),
		do.MustInvoke[*speech.Service](di),
		do.MustInvoke[*metrics.Service](di),
	), nil
}

func NewManager(
	cfg config.Chat,
	replier Replier,
	annotator Annotator,
	journal Journal,
	docs Documents,
	speaker Speaker,
	recorder Recorder,
) *Manager {
	return &Manager{
		deps: &deps{
			replier:         replier,
			annotator:       annotator,
			journal:         journal,
			docs:            docs,
			speaker:         speaker,
			recorder:        recorder,
			defaultLanguage: cfg.DefaultLanguage,
			historyLimit:    cfg.HistoryLimit,
			now:             time.Now,
		},
		sessions: make(map[string]*Session),
	}
}

func (m *Manager) Create() *Session {
	s := newSession(m.deps)

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	slog.Debug("Session created", slog.String("session", s.ID))

	return s
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}

	return s, nil
}

func (m *Manager) Drop(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, id)
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.sessions)
}

// ClearAll wipes memory and history of every live session.
func (m *Manager) ClearAll() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, s := range m.sessions {
		s.DeleteConversation()
	}

	return len(m.sessions)
}
