package memory

import (
	"fmt"
	"strings"
	"sync"
)

const emptyContext = "None yet."

// Store keeps at most one value per category for a single session.
// Categories are reported in the order they were first learned.
type Store struct {
	mu     sync.RWMutex
	order  []Category
	values map[Category]string
}

func NewStore() *Store {
	return &Store{
		values: make(map[Category]string),
	}
}

func (s *Store) Set(category Category, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.values[category]; !ok {
		s.order = append(s.order, category)
	}
	s.values[category] = value
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.order = nil
	s.values = make(map[Category]string)
}

func (s *Store) Get(category Category) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[category]
	return value, ok
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.order)
}

func (s *Store) Snapshot() []Fact {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Fact, 0, len(s.order))
	for _, category := range s.order {
		result = append(result, Fact{
			Category: category,
			Value:    s.values[category],
		})
	}

	return result
}

// Apply writes an extraction into the store. A reset wipes every category.
func (s *Store) Apply(ext Extraction) {
	if ext.Reset {
		s.Clear()
		return
	}

	for _, fact := range ext.Facts {
		s.Set(fact.Category, fact.Value)
	}
}

// Format renders the snapshot as a bulleted list for prompt injection.
func (s *Store) Format() string {
	facts := s.Snapshot()
	if len(facts) == 0 {
		return emptyContext
	}

	var builder strings.Builder
	for i, fact := range facts {
		if i > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString(fmt.Sprintf("- %s: %s", fact.Category, fact.Value))
	}

	return builder.String()
}
